package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/quentin418/clear-fashion/internal/models"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestResolveError(t *testing.T) {
	e := echo.New()
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"response error", NewResponseError(http.StatusBadRequest, errors.New("bad page")), http.StatusBadRequest, "bad page"},
		{"http error", echo.NewHTTPError(http.StatusConflict, "taken"), http.StatusConflict, "taken"},
		{"not found status", fmt.Errorf("get product: %w", models.ErrNotFound), http.StatusNotFound, "Not Found"},
		{"invalid input status", models.ErrInvalidInput, http.StatusBadRequest, "Bad Request"},
		{"deadline", fmt.Errorf("find: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, "request timed out"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "Internal Server Error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
			status, msg := resolveError(tt.err, c)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.msg, msg)
		})
	}
}

func TestResolveErrorCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
	c := echo.New().NewContext(req, httptest.NewRecorder())

	status, _ := resolveError(fmt.Errorf("find: %w", context.Canceled), c)
	assert.Equal(t, StatusClientClosedRequest, status)
}

func TestErrorHandler(t *testing.T) {
	e := echo.New()
	handler := ErrorHandler(zap.NewNop().Sugar())

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	handler(models.ErrNotFound, c)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"error_message":"Not Found"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodHead, "/", nil), rec)
	handler(errors.New("boom"), c)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Zero(t, rec.Body.Len())
}
