package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/quentin418/clear-fashion/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type brandRequest struct {
	Brand string `query:"brand" validate:"required"`
}

func TestWrapHandler(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	e.HTTPErrorHandler = ErrorHandler(zap.NewNop().Sugar())

	e.GET("/data", WrapHandler(func(c echo.Context, req brandRequest) (any, error) {
		return []string{req.Brand}, nil
	}))
	e.GET("/envelope", WrapHandler(func(c echo.Context, req struct{}) (any, error) {
		return models.Response{Success: false, ErrorMessage: "nothing"}, nil
	}))
	e.GET("/error", WrapHandler(func(c echo.Context, req struct{}) (any, error) {
		return nil, models.ErrNotFound
	}))

	tests := []struct {
		target string
		status int
		body   string
	}{
		{"/data?brand=dedicated", http.StatusOK, `{"success":true,"data":["dedicated"]}`},
		{"/envelope", http.StatusOK, `{"success":false,"error_message":"nothing"}`},
		{"/error", http.StatusNotFound, `{"success":false,"error_message":"Not Found"}`},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))
		assert.Equal(t, tt.status, rec.Code, tt.target)
		assert.JSONEq(t, tt.body, rec.Body.String(), tt.target)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/data", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "brand")
}

func TestWrapHandlerInvalidSignature(t *testing.T) {
	assert.Panics(t, func() { WrapHandler("not a func") })
	assert.Panics(t, func() { WrapHandler(func(c echo.Context) error { return nil }) })
	assert.Panics(t, func() { WrapHandler(func(c echo.Context, id string) (any, error) { return nil, nil }) })
	assert.Panics(t, func() { WrapHandler(func(c echo.Context, req struct{}) error { return nil }) })
}
