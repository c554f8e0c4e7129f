package middleware

import (
	"errors"
	"kenyaMart/pkg/logger"
	"log/slog"
	"net/http"
	"strings"

	jsonres "kenyaMart/pkg/response"

	"github.com/labstack/echo/v4"
)

// ErrorHandler renders errors returned from handlers, including echo's own
// routing errors, in the common error body.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := http.StatusText(code)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(code)
		}
	}

	if code >= http.StatusInternalServerError {
		logger.Error("Unhandled request error",
			slog.String("method", c.Request().Method),
			slog.String("path", c.Path()),
			slog.Any("error", err))
	}

	errCode := strings.ToUpper(strings.ReplaceAll(http.StatusText(code), " ", "_"))

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, jsonres.Error(errCode, message, nil))
}
