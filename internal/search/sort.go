package search

import (
	"slices"
	"strings"

	"github.com/quentin418/clear-fashion/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

// Direction of a sort.
type Direction int

const (
	Ascending  Direction = 1
	Descending Direction = -1
)

// SortSpec orders products by price or release date.
type SortSpec struct {
	Field     Field
	Direction Direction
}

var sortFields = map[string]Field{
	"price":    FieldPrice,
	"released": FieldReleased,
}

// ParseSort parses a `field:direction` directive. Direction accepts 1, asc,
// -1 and desc. It returns false when the directive is not usable, in which
// case no reordering happens.
func ParseSort(raw string) (SortSpec, bool) {
	name, dir, _ := strings.Cut(strings.TrimSpace(raw), operatorSeparator)
	field, ok := sortFields[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return SortSpec{}, false
	}
	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "", "1", "asc", "ascending":
		return SortSpec{Field: field, Direction: Ascending}, true
	case "-1", "desc", "descending":
		return SortSpec{Field: field, Direction: Descending}, true
	}
	return SortSpec{}, false
}

// Compare orders two products. Missing release dates sort before any date.
func (s SortSpec) Compare(a, b models.Product) int {
	var c int
	switch s.Field {
	case FieldPrice:
		c = cmpFloat(a.Price, b.Price)
	case FieldReleased:
		ra, okA := a.ReleasedOn()
		rb, okB := b.ReleasedOn()
		switch {
		case !okA && !okB:
			c = 0
		case !okA:
			c = -1
		case !okB:
			c = 1
		default:
			c = strings.Compare(ra, rb)
		}
	}
	if s.Direction == Descending {
		return -c
	}
	return c
}

// Sort returns a sorted copy. Products comparing equal keep their relative
// order.
func (s SortSpec) Sort(products []models.Product) []models.Product {
	out := slices.Clone(products)
	slices.SortStableFunc(out, s.Compare)
	return out
}

// BSON is the equivalent MongoDB sort document.
func (s SortSpec) BSON() bson.D {
	return bson.D{{Key: s.Field.bsonKey(), Value: int(s.Direction)}}
}

func (s SortSpec) String() string {
	if s.Direction == Descending {
		return string(s.Field) + ":desc"
	}
	return string(s.Field) + ":asc"
}
