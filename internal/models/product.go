package models

import (
	"github.com/google/uuid"
	"github.com/quentin418/clear-fashion/pkg/util"
)

// DateLayout is the ISO-8601 calendar date layout used by Product.Released.
const DateLayout = "2006-01-02"

// Product is one catalog item scraped from a partner e-shop.
type Product struct {
	ID       string  `json:"_id" bson:"_id" validate:"required,uuid"`
	Brand    string  `json:"brand" bson:"brand" validate:"required"`
	Name     string  `json:"name" bson:"name" validate:"required"`
	Link     string  `json:"link" bson:"link" validate:"required,url"`
	Price    float64 `json:"price" bson:"price" validate:"gte=0"`
	Released *string `json:"released,omitempty" bson:"released,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Photo    *string `json:"photo,omitempty" bson:"photo,omitempty" validate:"omitempty,url"`
}

func (Product) CollectionName() string {
	return "products"
}

func (p Product) GetID() string {
	return p.ID
}

// ProductID derives the stable identifier of a product from its canonical link.
func ProductID(link string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(link)).String()
}

// NewProduct builds a product and assigns its identifier.
func NewProduct(brand, name, link string, price float64) Product {
	return Product{
		ID:    ProductID(link),
		Brand: brand,
		Name:  name,
		Link:  link,
		Price: price,
	}
}

// ReleasedOn returns the release date and whether it is set.
func (p Product) ReleasedOn() (string, bool) {
	released := util.Val(p.Released)
	return released, released != ""
}
