package middleware

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

type Skipper func(c echo.Context) bool

func DefaultSkipper(echo.Context) bool {
	return false
}

// Logger is the subset of the sugared zap logger used by the middlewares.
type Logger interface {
	Debugw(msg string, keysAndValues ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
}

// ResponseError is an error rendered with its own status and message.
type ResponseError struct {
	Status  int
	Message string
	Err     error
}

func NewResponseError(status int, err error) *ResponseError {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	return &ResponseError{Status: status, Message: msg, Err: err}
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("status: %d; message: %s; error: %v", e.Status, e.Message, e.Err)
}

func (e *ResponseError) Unwrap() error {
	return e.Err
}
