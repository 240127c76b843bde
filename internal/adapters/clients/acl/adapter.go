package acl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/jsamuelsen/quotecard/internal/adapters/clients"
	"github.com/jsamuelsen/quotecard/internal/domain"
)

// maxResponseBody bounds how much of a success body is decoded.
const maxResponseBody = 1 << 20

// BaseAdapter holds what every ACL adapter needs: the instrumented client
// and the downstream name used in errors.
type BaseAdapter struct {
	client      *clients.Client
	serviceName string
}

// NewBaseAdapter creates a new base adapter with the given client and service name.
func NewBaseAdapter(client *clients.Client, serviceName string) BaseAdapter {
	return BaseAdapter{
		client:      client,
		serviceName: serviceName,
	}
}

// Client returns the underlying HTTP client.
func (a *BaseAdapter) Client() *clients.Client {
	return a.client
}

// ServiceName returns the name of the external service.
func (a *BaseAdapter) ServiceName() string {
	return a.serviceName
}

// Get performs a GET and returns the body of a 2xx response, which the
// caller must close. Anything else comes back as a domain error.
func (a *BaseAdapter) Get(ctx context.Context, path string, query url.Values, operation, entityID string) (io.ReadCloser, error) {
	resp, err := a.client.Get(ctx, path, query)
	if err != nil {
		return nil, MapHTTPError(nil, err, a.serviceName, operation, entityID)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		defer func() { _ = resp.Body.Close() }()

		return nil, MapHTTPError(resp, nil, a.serviceName, operation, entityID)
	}

	return resp.Body, nil
}

// Decode reads a JSON body into T and closes it. Decode failures become
// UnavailableError since the downstream answered with something unusable.
func Decode[T any](serviceName string, body io.ReadCloser) (*T, error) {
	result, err := DecodeResponse[T](body)
	if err != nil {
		return nil, domain.NewUnavailableError(serviceName, err.Error())
	}

	return result, nil
}

// DecodeResponse reads and decodes a JSON response body into the target type.
// Closes the body after reading.
func DecodeResponse[T any](body io.ReadCloser) (*T, error) {
	if body == nil {
		return nil, errors.New("response body is nil")
	}
	defer func() { _ = body.Close() }()

	var result T
	if err := json.NewDecoder(io.LimitReader(body, maxResponseBody)).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &result, nil
}

// ValidateRequired checks that a required field is not empty.
// Returns a domain.ValidationError if the field is empty.
func ValidateRequired(value, fieldName string) error {
	if value == "" {
		return domain.NewValidationError(fieldName, "is required")
	}

	return nil
}
