package search

import (
	"math"
	"net/url"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/quentin418/clear-fashion/internal/models"
	"github.com/spf13/cast"
	"go.mongodb.org/mongo-driver/bson"
)

// Field is a filterable or sortable product attribute.
type Field string

const (
	FieldBrand    Field = "brand"
	FieldPrice    Field = "price"
	FieldReleased Field = "released"
	FieldID       Field = "id"
)

// bsonKey is the document key of the field in the products collection.
func (f Field) bsonKey() string {
	if f == FieldID {
		return "_id"
	}
	return string(f)
}

// Operator is a comparison applied to a field.
type Operator string

const (
	OpEq  Operator = "eq"
	OpLt  Operator = "lt"
	OpLte Operator = "lte"
	OpGt  Operator = "gt"
	OpGte Operator = "gte"
	OpIn  Operator = "in"

	// opNone is produced by malformed input and matches nothing.
	opNone Operator = "none"
)

const (
	operatorSeparator = ":"
	listSeparator     = ","

	reasonablePrice = 50
	recentWindow    = 14 * 24 * time.Hour
)

var rangeOperators = map[string]Operator{
	"lt":  OpLt,
	"lte": OpLte,
	"gt":  OpGt,
	"gte": OpGte,
}

// Condition constrains one field. Number is used for price, Text for the
// string fields, Set for OpIn.
type Condition struct {
	Op     Operator
	Number float64
	Text   string
	Set    []string
}

// MatchesNothing reports whether the condition comes from malformed input.
func (c Condition) MatchesNothing() bool {
	return c.Op == opNone
}

// Constraint is a condition bound to a field.
type Constraint struct {
	Field Field
	Condition
}

func PriceConstraint(op Operator, value float64) Constraint {
	return Constraint{Field: FieldPrice, Condition: Condition{Op: op, Number: value}}
}

func ReleasedConstraint(op Operator, date string) Constraint {
	return Constraint{Field: FieldReleased, Condition: Condition{Op: op, Text: date}}
}

func BrandConstraint(brand string) Constraint {
	return Constraint{Field: FieldBrand, Condition: Condition{Op: OpEq, Text: brand}}
}

func IDConstraint(id string) Constraint {
	return Constraint{Field: FieldID, Condition: Condition{Op: OpEq, Text: id}}
}

// IDInConstraint restricts the id to the given set. An empty set matches nothing.
func IDInConstraint(ids ...string) Constraint {
	if len(ids) == 0 {
		return nothing(FieldID)
	}
	return Constraint{Field: FieldID, Condition: Condition{Op: OpIn, Set: slices.Clone(ids)}}
}

func nothing(field Field) Constraint {
	return Constraint{Field: field, Condition: Condition{Op: opNone}}
}

// FilterSpec is an immutable conjunction of constraints.
type FilterSpec struct {
	constraints []Constraint
}

// NewFilterSpec builds a spec from explicit constraints.
func NewFilterSpec(constraints ...Constraint) FilterSpec {
	return FilterSpec{constraints: slices.Clone(constraints)}
}

// With returns a new spec with additional constraints.
func (f FilterSpec) With(constraints ...Constraint) FilterSpec {
	out := make([]Constraint, 0, len(f.constraints)+len(constraints))
	out = append(out, f.constraints...)
	out = append(out, constraints...)
	return FilterSpec{constraints: out}
}

// Constraints returns a copy of the constraints in compile order.
func (f FilterSpec) Constraints() []Constraint {
	return slices.Clone(f.constraints)
}

func (f FilterSpec) IsEmpty() bool {
	return len(f.constraints) == 0
}

// CompileFilter translates raw query parameters into a FilterSpec. Unknown
// keys are ignored and malformed values compile to constraints that match
// nothing; compilation never fails.
func CompileFilter(raw url.Values, opts ...Option) FilterSpec {
	o := newOptions(opts)

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []Constraint
	for _, key := range keys {
		for _, value := range raw[key] {
			switch key {
			case "brand":
				out = append(out, BrandConstraint(value))
			case "price":
				out = append(out, compilePrice(value))
			case "released":
				out = append(out, compileReleased(value))
			case "id", "_id":
				out = append(out, compileID(value))
			case "reasonable":
				if isTruthy(value) {
					out = append(out, PriceConstraint(OpLt, reasonablePrice))
				}
			case "recent":
				if isTruthy(value) {
					since := o.now().Add(-recentWindow).Format(models.DateLayout)
					out = append(out, ReleasedConstraint(OpGte, since))
				}
			}
		}
	}
	return FilterSpec{constraints: out}
}

func splitOperator(value string) (token, operand string, ok bool) {
	token, operand, ok = strings.Cut(value, operatorSeparator)
	return strings.ToLower(strings.TrimSpace(token)), strings.TrimSpace(operand), ok
}

func compilePrice(value string) Constraint {
	op := OpEq
	operand := strings.TrimSpace(value)
	if token, rest, ok := splitOperator(value); ok {
		rop, known := rangeOperators[token]
		if !known {
			return nothing(FieldPrice)
		}
		op, operand = rop, rest
	}
	if operand == "" {
		return nothing(FieldPrice)
	}
	n, err := cast.ToFloat64E(operand)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return nothing(FieldPrice)
	}
	return PriceConstraint(op, n)
}

func compileReleased(value string) Constraint {
	op := OpEq
	operand := strings.TrimSpace(value)
	if token, rest, ok := splitOperator(value); ok {
		rop, known := rangeOperators[token]
		if !known {
			return nothing(FieldReleased)
		}
		op, operand = rop, rest
	}
	if _, err := time.Parse(models.DateLayout, operand); err != nil {
		return nothing(FieldReleased)
	}
	return ReleasedConstraint(op, operand)
}

func compileID(value string) Constraint {
	token, rest, ok := splitOperator(value)
	if !ok || token != string(OpIn) {
		return IDConstraint(strings.TrimSpace(value))
	}
	var ids []string
	for _, id := range strings.Split(rest, listSeparator) {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return IDInConstraint(ids...)
}

func isTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "0", "no", "false", "off":
		return false
	}
	return true
}

// Match reports whether the product satisfies every constraint.
func (f FilterSpec) Match(p models.Product) bool {
	for _, c := range f.constraints {
		if !c.match(p) {
			return false
		}
	}
	return true
}

// Apply returns the matching products in their original order. The input is
// left untouched.
func (f FilterSpec) Apply(products []models.Product) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

func (c Constraint) match(p models.Product) bool {
	if c.Op == opNone {
		return false
	}
	switch c.Field {
	case FieldPrice:
		return compareOp(c.Op, cmpFloat(p.Price, c.Number))
	case FieldReleased:
		released, ok := p.ReleasedOn()
		if !ok {
			return false
		}
		return compareOp(c.Op, strings.Compare(released, c.Text))
	case FieldBrand:
		return c.matchText(p.Brand)
	case FieldID:
		return c.matchText(p.ID)
	}
	return false
}

func (c Constraint) matchText(v string) bool {
	switch c.Op {
	case OpEq:
		return v == c.Text
	case OpIn:
		return slices.Contains(c.Set, v)
	}
	return false
}

func compareOp(op Operator, cmp int) bool {
	switch op {
	case OpEq:
		return cmp == 0
	case OpLt:
		return cmp < 0
	case OpLte:
		return cmp <= 0
	case OpGt:
		return cmp > 0
	case OpGte:
		return cmp >= 0
	}
	return false
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// BSON translates the spec into a MongoDB query document.
func (f FilterSpec) BSON() bson.M {
	query := bson.M{}
	var and bson.A
	for _, c := range f.constraints {
		key := c.Field.bsonKey()
		op, value := c.bsonOperand()
		doc, exists := query[key].(bson.M)
		if !exists {
			query[key] = bson.M{op: value}
			continue
		}
		if _, dup := doc[op]; dup {
			and = append(and, bson.M{key: bson.M{op: value}})
			continue
		}
		doc[op] = value
	}
	if len(and) > 0 {
		query["$and"] = and
	}
	return query
}

func (c Constraint) bsonOperand() (string, any) {
	switch c.Op {
	case opNone:
		return "$in", bson.A{}
	case OpIn:
		set := make(bson.A, 0, len(c.Set))
		for _, v := range c.Set {
			set = append(set, v)
		}
		return "$in", set
	}
	if c.Field == FieldPrice {
		return "$" + string(c.Op), c.Number
	}
	return "$" + string(c.Op), c.Text
}
