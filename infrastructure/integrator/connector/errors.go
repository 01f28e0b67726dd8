package connector

import (
	"fmt"

	"github.com/growzzy/growzzy-api/internal/domain"
)

const maxErrorBody = 512

// APIError is returned for a non-2xx response or a body that fails to decode.
type APIError struct {
	Platform   domain.Platform
	StatusCode int
	Body       string
}

func NewAPIError(platform domain.Platform, statusCode int, body []byte) *APIError {
	b := string(body)
	if len(b) > maxErrorBody {
		b = b[:maxErrorBody]
	}
	return &APIError{
		Platform:   platform,
		StatusCode: statusCode,
		Body:       b,
	}
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s api error (status %d): %s", e.Platform, e.StatusCode, e.Body)
}
