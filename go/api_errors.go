package orderserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gin-gonic/gin"

	ordersapp "github.com/Apurer/order-mgmt-service/internal/domains/orders/application"
	ordersdomain "github.com/Apurer/order-mgmt-service/internal/domains/orders/domain"
	ordersports "github.com/Apurer/order-mgmt-service/internal/domains/orders/ports"
	apierrors "github.com/Apurer/order-mgmt-service/internal/shared/errors"
)

// OrderErrorMappers translate orders errors into response problems.
func OrderErrorMappers() []apierrors.ErrorMapper {
	return []apierrors.ErrorMapper{
		mapNotFound,
		mapInvalidTransition,
		mapInvalidInput,
	}
}

func mapNotFound(err error) (apierrors.Problem, bool) {
	if !errors.Is(err, ordersports.ErrNotFound) {
		return apierrors.Problem{}, false
	}
	var notFound *ordersports.NotFoundError
	if errors.As(err, &notFound) {
		return apierrors.ErrNotFound.WithMessage(notFound.Error()), true
	}
	return apierrors.ErrNotFound.WithMessage(err.Error()), true
}

func mapInvalidTransition(err error) (apierrors.Problem, bool) {
	if !errors.Is(err, ordersdomain.ErrInvalidTransition) {
		return apierrors.Problem{}, false
	}
	var transitionErr *ordersdomain.InvalidTransitionError
	if errors.As(err, &transitionErr) {
		return apierrors.ErrBadRequest.WithMessage(transitionErr.Error()), true
	}
	return apierrors.ErrBadRequest.WithMessage(err.Error()), true
}

func mapInvalidInput(err error) (apierrors.Problem, bool) {
	if !errors.Is(err, ordersapp.ErrInvalidInput) {
		return apierrors.Problem{}, false
	}
	return apierrors.ErrValidation.WithMessage(err.Error()), true
}

// respondBindError renders a ShouldBindJSON failure: constraint violations become
// VALIDATION_ERROR, everything else INVALID_REQUEST.
func (api *OrderAPI) respondBindError(c *gin.Context, err error) {
	if msg, ok := validationMessage(err); ok {
		api.responder.ValidationFailed(c, msg)
		return
	}
	api.responder.InvalidRequest(c, unreadableMessage(err))
}

func unreadableMessage(err error) string {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return "Required request body is missing"
	case errors.As(err, &syntaxErr):
		return fmt.Sprintf("Malformed JSON request at offset %d", syntaxErr.Offset)
	case errors.As(err, &typeErr):
		return fmt.Sprintf("Invalid value for field '%s'", typeErr.Field)
	case strings.Contains(err.Error(), "decimal"):
		return "Invalid value for field 'amount'"
	default:
		return "Malformed JSON request"
	}
}

func unknownStatusMessage(raw string) string {
	allowed := make([]string, 0, len(ordersdomain.Statuses()))
	for _, status := range ordersdomain.Statuses() {
		allowed = append(allowed, string(status))
	}
	return fmt.Sprintf("Invalid order status '%s'. Allowed values: %s", raw, strings.Join(allowed, ", "))
}
