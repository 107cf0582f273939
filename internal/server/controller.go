package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/quentin418/clear-fashion/internal/favorites"
	"github.com/quentin418/clear-fashion/internal/search"
	"github.com/quentin418/clear-fashion/internal/usecase"
)

type Controller interface {
	Root(c echo.Context) error
	Health(c echo.Context) error
	ListProducts(c echo.Context, req struct{}) (any, error)
	SearchProducts(c echo.Context) error
	GetProduct(c echo.Context, req ProductRequest) (any, error)
	Brands(c echo.Context, req struct{}) (any, error)
}

const (
	headerFavoriteIDs = "x-favorite-ids"
	queryFavorites    = "favorites"
)

type ProductRequest struct {
	ID string `param:"id" validate:"required,uuid"`
}

type controller struct {
	products usecase.ProductUsecase
}

func NewController(products usecase.ProductUsecase) Controller {
	return &controller{
		products: products,
	}
}

func (h *controller) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]bool{"ack": true})
}

func (h *controller) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "clear-fashion",
	})
}

func (h *controller) ListProducts(c echo.Context, _ struct{}) (any, error) {
	return h.products.List(c.Request().Context())
}

// SearchProducts always answers 200; failures are reported in the envelope.
// Only the query string and the favorites header are read, never the body.
func (h *controller) SearchProducts(c echo.Context) error {
	var extra []search.Constraint
	if isTruthy(c.QueryParam(queryFavorites)) {
		extra = append(extra, favorites.Parse(c.Request().Header.Get(headerFavoriteIDs)).Constraint())
	}
	resp := h.products.Search(c.Request().Context(), c.QueryParams(), extra...)
	return c.JSON(http.StatusOK, resp)
}

func (h *controller) GetProduct(c echo.Context, req ProductRequest) (any, error) {
	return h.products.GetByID(c.Request().Context(), req.ID)
}

func (h *controller) Brands(c echo.Context, _ struct{}) (any, error) {
	return h.products.Brands(c.Request().Context())
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "0", "no", "false", "off":
		return false
	}
	return true
}
