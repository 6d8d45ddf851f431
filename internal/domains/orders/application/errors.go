package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/order-mgmt-service/internal/domains/orders/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid order input")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrBlankOrderID) ||
		errors.Is(err, domain.ErrBlankCustomerName) ||
		errors.Is(err, domain.ErrNonPositiveAmount) ||
		errors.Is(err, domain.ErrInvalidStatus) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
