package errors

import (
	"errors"

	"github.com/labstack/echo/v4"
)

// CustomHTTPErrorHandler responds with the status code of the HttpError wrapped by err and
// with the message of the whole error chain
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	e := HttpError{}
	if errors.As(err, &e) {
		err = echo.NewHTTPError(e.Code, err.Error()).SetInternal(err)
	}
	c.Echo().DefaultHTTPErrorHandler(err, c)
}
