package middleware

import (
	"fmt"
	"net/http"
	"reflect"

	"github.com/cstockton/go-conv"
	"github.com/labstack/echo/v4"
)

// BindAndValidate binds params, query and headers into req and validates
// it. Invalid requests are answered with 400.
func BindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return NewResponseError(http.StatusBadRequest, err)
	}
	if err := bindHeader(c.Request().Header, req); err != nil {
		return NewResponseError(http.StatusBadRequest, err)
	}
	if err := c.Validate(req); err != nil {
		return NewResponseError(http.StatusBadRequest, err)
	}
	return nil
}

// bindHeader decodes headers into the fields tagged `header:"<name>"`. A
// missing header leaves the field untouched.
func bindHeader(header http.Header, dst interface{}) error {
	ptr := reflect.ValueOf(dst)
	if ptr.Kind() != reflect.Ptr || ptr.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("bind header: %T is not a pointer to struct", dst)
	}

	indirect := ptr.Elem()
	structType := indirect.Type()
	for i := 0; i < structType.NumField(); i++ {
		structField := structType.Field(i)
		name := structField.Tag.Get("header")
		if name == "" || name == "-" {
			continue
		}
		value := header.Get(name)
		if value == "" {
			continue
		}
		if err := conv.Infer(indirect.Field(i), value); err != nil {
			return fmt.Errorf("cannot parse header %s as %s from: %q / %s",
				name, structField.Type, value, err)
		}
	}
	return nil
}
