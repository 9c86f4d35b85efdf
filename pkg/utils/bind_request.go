package utils

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/labstack/echo/v4"
)

// BindRequest binds path params and, when present, the JSON body into T and validates the result.
// Any failure is a 400.
func BindRequest[T any](c echo.Context) (T, error) {
	var req T
	binder := &echo.DefaultBinder{}

	if err := binder.BindPathParams(c, &req); err != nil {
		return req, httperror.WrapError(http.StatusBadRequest, err)
	}

	if c.Request().ContentLength != 0 {
		if err := binder.BindBody(c, &req); err != nil {
			return req, httperror.NewHTTPErrorf(http.StatusBadRequest, "invalid request body: %s", bindMessage(err))
		}
	}

	req, err := Validate(req)
	if err != nil {
		return req, httperror.WrapError(http.StatusBadRequest, err)
	}
	return req, nil
}

func bindMessage(err error) string {
	if he, ok := err.(*echo.HTTPError); ok {
		if msg, ok := he.Message.(string); ok {
			return msg
		}
	}
	return err.Error()
}
