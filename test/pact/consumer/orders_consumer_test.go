//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/Apurer/order-mgmt-service/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

type orderPayload struct {
	OrderID      string  `json:"orderId"`
	CustomerName string  `json:"customerName"`
	Amount       float64 `json:"amount"`
	Status       string  `json:"status"`
}

type errorBody struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
	Path    string `json:"path"`
}

type apiError struct {
	status  int
	code    string
	message string
}

func (e apiError) Error() string {
	return fmt.Sprintf("%s: %s (status %d)", e.code, e.message, e.status)
}

func TestOrderPortalContract(t *testing.T) {
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	orderMatcher := func(status string) matchers.Map {
		return matchers.Map{
			"orderId":      matchers.Regex(pacttest.ExistingOrderID, pacttest.OrderIDPattern),
			"customerName": matchers.Like(pacttest.ExampleCustomerName),
			"amount":       matchers.Like(pacttest.ExampleAmount),
			"status":       matchers.S(status),
		}
	}
	errorMatcher := func(status int, code, path string) matchers.Map {
		return matchers.Map{
			"timestamp": matchers.Like("2024-06-12T10:00:00Z"),
			"status":    matchers.Like(status),
			"error":     matchers.S(code),
			"message":   matchers.Like("reason"),
			"path":      matchers.S(path),
		}
	}
	statusPath := "/orders/" + pacttest.ExistingOrderID + "/status"
	completedStatusPath := "/orders/" + pacttest.CompletedOrderID + "/status"

	pact.AddInteraction().
		Given(pacttest.StateOrdersBaseline).
		UponReceiving("a request to create an order").
		WithRequest("POST", "/orders", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(matchers.Map{
				"customerName": matchers.Like(pacttest.ExampleCustomerName),
				"amount":       matchers.Like(pacttest.ExampleAmount),
			})
		}).
		WillRespondWith(http.StatusCreated, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.Header("Location", matchers.Regex("/orders/"+pacttest.ExistingOrderID, `^/orders/ORD-[0-9a-f]{32}$`))
			b.JSONBody(orderMatcher("NEW"))
		})

	pact.AddInteraction().
		Given(pacttest.StateOrderIsNew).
		UponReceiving("a request to fetch an existing order").
		WithRequest("GET", "/orders/"+pacttest.ExistingOrderID).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(orderMatcher("NEW"))
		})

	pact.AddInteraction().
		Given(pacttest.StateOrderMissing).
		UponReceiving("a request for a missing order").
		WithRequest("GET", "/orders/"+pacttest.MissingOrderID).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(errorMatcher(http.StatusNotFound, "NOT_FOUND", "/orders/"+pacttest.MissingOrderID))
		})

	pact.AddInteraction().
		Given(pacttest.StateOrderIsNew).
		UponReceiving("a request to start processing an order").
		WithRequest("PUT", statusPath, func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(matchers.Map{"orderStatus": matchers.S("PROCESSING")})
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(orderMatcher("PROCESSING"))
		})

	pact.AddInteraction().
		Given(pacttest.StateOrderIsCompleted).
		UponReceiving("a request to reopen a completed order").
		WithRequest("PUT", completedStatusPath, func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(matchers.Map{"orderStatus": matchers.S("PROCESSING")})
		}).
		WillRespondWith(http.StatusBadRequest, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(errorMatcher(http.StatusBadRequest, "BAD_REQUEST", completedStatusPath))
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newOrderClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		created, err := client.CreateOrder(ctx, pacttest.ExampleCustomerName, pacttest.ExampleAmount)
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		if created.OrderID == "" || created.Status != "NEW" {
			return fmt.Errorf("unexpected created order %+v", created)
		}

		fetched, err := client.GetOrder(ctx, pacttest.ExistingOrderID)
		if err != nil {
			return fmt.Errorf("get order: %w", err)
		}
		if fetched.OrderID != pacttest.ExistingOrderID {
			return fmt.Errorf("expected order %s, got %+v", pacttest.ExistingOrderID, fetched)
		}

		if err := expectNotFound(client.GetOrder(ctx, pacttest.MissingOrderID)); err != nil {
			return err
		}

		updated, err := client.UpdateStatus(ctx, pacttest.ExistingOrderID, "PROCESSING")
		if err != nil {
			return fmt.Errorf("update status: %w", err)
		}
		if updated.Status != "PROCESSING" {
			return fmt.Errorf("expected PROCESSING, got %s", updated.Status)
		}

		_, err = client.UpdateStatus(ctx, pacttest.CompletedOrderID, "PROCESSING")
		var apiErr apiError
		if !errors.As(err, &apiErr) || apiErr.status != http.StatusBadRequest {
			return fmt.Errorf("expected 400 for reopening a completed order, got %v", err)
		}
		return nil
	})
	require.NoError(t, err)
}

func expectNotFound(_ *orderPayload, err error) error {
	var apiErr apiError
	if !errors.As(err, &apiErr) || apiErr.status != http.StatusNotFound {
		return fmt.Errorf("expected 404 for %s, got %v", pacttest.MissingOrderID, err)
	}
	return nil
}

type orderClient struct {
	baseURL    string
	httpClient *http.Client
}

func newOrderClient(config pactconsumer.MockServerConfig) *orderClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	return &orderClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: &http.Client{Transport: transport, Timeout: 10 * time.Second},
	}
}

func (c *orderClient) CreateOrder(ctx context.Context, customerName string, amount float64) (*orderPayload, error) {
	return c.do(ctx, http.MethodPost, "/orders", map[string]any{"customerName": customerName, "amount": amount})
}

func (c *orderClient) GetOrder(ctx context.Context, id string) (*orderPayload, error) {
	return c.do(ctx, http.MethodGet, "/orders/"+id, nil)
}

func (c *orderClient) UpdateStatus(ctx context.Context, id, status string) (*orderPayload, error) {
	return c.do(ctx, http.MethodPut, "/orders/"+id+"/status", map[string]any{"orderStatus": status})
}

func (c *orderClient) do(ctx context.Context, method, path string, body any) (*orderPayload, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		var payload errorBody
		_ = json.NewDecoder(res.Body).Decode(&payload)
		status := payload.Status
		if status == 0 {
			status = res.StatusCode
		}
		return nil, apiError{status: status, code: payload.Error, message: payload.Message}
	}

	var payload orderPayload
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return &payload, nil
}
