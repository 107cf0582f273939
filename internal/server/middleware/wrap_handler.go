package middleware

import (
	"fmt"
	"net/http"
	"reflect"
	"runtime"

	"github.com/labstack/echo/v4"
	"github.com/quentin418/clear-fashion/internal/models"
)

// WrapHandler adapts func(echo.Context, Req) (Resp, error) to an echo
// handler. Req is bound and validated first; Resp is sent in a successful
// envelope unless it already is a models.Response.
func WrapHandler(f interface{}) echo.HandlerFunc {
	handler, err := wrapHandler(f)
	if err != nil {
		panic(err)
	}
	return handler
}

var (
	ctxInterface   = reflect.TypeOf((*echo.Context)(nil)).Elem()
	errorInterface = reflect.TypeOf((*error)(nil)).Elem()
)

func wrapHandler(f interface{}) (echo.HandlerFunc, error) {
	fTyp := reflect.TypeOf(f)
	fVal := reflect.ValueOf(f)
	if fVal.Kind() != reflect.Func {
		return nil, fmt.Errorf("invalid function passed to wrap handler: %v", fVal)
	}
	fName := runtime.FuncForPC(fVal.Pointer()).Name()

	if fTyp.NumIn() != 2 {
		return nil, fmt.Errorf("[%s] invalid function arguments length: %d", fName, fTyp.NumIn())
	}
	if !fTyp.In(0).Implements(ctxInterface) {
		return nil, fmt.Errorf("[%s] first argument must have type echo.Context", fName)
	}
	reqType := fTyp.In(1)
	if reqType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("[%s] second argument must be a struct: %v", fName, reqType.Kind())
	}
	if fTyp.NumOut() != 2 || !fTyp.Out(1).Implements(errorInterface) {
		return nil, fmt.Errorf("[%s] function must return (T, error)", fName)
	}

	return func(c echo.Context) error {
		req := reflect.New(reqType)
		if err := BindAndValidate(c, req.Interface()); err != nil {
			return err
		}

		out := fVal.Call([]reflect.Value{reflect.ValueOf(c), req.Elem()})
		if errVal := out[1]; !errVal.IsNil() {
			return errVal.Interface().(error)
		}
		if c.Response().Committed {
			return nil
		}

		data := out[0].Interface()
		switch v := data.(type) {
		case models.Response:
			return c.JSON(http.StatusOK, v)
		case *models.Response:
			return c.JSON(http.StatusOK, v)
		}
		return c.JSON(http.StatusOK, models.Response{Success: true, Data: data})
	}, nil
}
