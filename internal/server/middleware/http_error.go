package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/quentin418/clear-fashion/internal/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// StatusClientClosedRequest is reported when the client went away.
const StatusClientClosedRequest = 499

var grpcToHTTP = map[codes.Code]int{
	codes.NotFound:         http.StatusNotFound,
	codes.InvalidArgument:  http.StatusBadRequest,
	codes.DeadlineExceeded: http.StatusGatewayTimeout,
	codes.Unavailable:      http.StatusServiceUnavailable,
}

// ErrorHandler renders every error as an unsuccessful envelope.
func ErrorHandler(log Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if err == nil || c.Response().Committed {
			return
		}

		code, msg := resolveError(err, c)
		if code >= http.StatusInternalServerError {
			log.Errorw("request failed", "error", err, "code", code, "request_id", GetRequestID(c))
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, models.Response{Success: false, ErrorMessage: msg})
		}
		if err != nil {
			log.Errorw("could not response", "code", code, "error", err)
		}
	}
}

func resolveError(err error, c echo.Context) (int, string) {
	var re *ResponseError
	if errors.As(err, &re) {
		return re.Status, re.Message
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code == http.StatusNotFound && isNotFoundHandler(c.Handler()) {
			return he.Code, "no route matched"
		}
		return he.Code, fmt.Sprint(he.Message)
	}

	if errors.Is(err, context.Canceled) && errors.Is(c.Request().Context().Err(), context.Canceled) {
		return StatusClientClosedRequest, "request canceled"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, "request timed out"
	}

	if st, ok := status.FromError(err); ok {
		if code, known := grpcToHTTP[st.Code()]; known {
			return code, http.StatusText(code)
		}
	}
	return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
}
