package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yanqian/technician-matching/pkg/errors"
)

// HTTPError is the transport view of a failure: status, public code and message.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewHTTPError is a helper to build an HTTPError instance.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

// appErrorResponses maps domain error codes to their public form. A zero
// message means the domain message is safe to expose.
var appErrorResponses = map[string]HTTPError{
	apperrors.CodeInvalidInput:         {Status: http.StatusBadRequest, Code: "invalid_request"},
	apperrors.CodeDirectoryUnavailable: {Status: http.StatusServiceUnavailable, Code: "service_unavailable", Message: "technician directory unavailable"},
	apperrors.CodeStatsError:           {Status: http.StatusBadGateway, Code: "stats_unavailable", Message: "search statistics unavailable"},
}

// asHTTPError resolves err into a response. Domain errors are translated via
// appErrorResponses, anything else is an opaque 500.
func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if resp, ok := appErrorResponses[appErr.Code]; ok {
			if resp.Message == "" {
				resp.Message = appErr.Message
			}
			resp.Err = err
			return &resp
		}
	}
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "something went wrong",
		Err:     err,
	}
}

func abortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}
