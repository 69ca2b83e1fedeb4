package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// APIError is the JSON error body returned by every failing endpoint.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func apiError(status int, code, message string) *echo.HTTPError {
	return echo.NewHTTPError(status, &APIError{Code: code, Message: message})
}

func badRequest(code, message string) *echo.HTTPError {
	return apiError(http.StatusBadRequest, code, message)
}

func unsupportedMedia(code, message string) *echo.HTTPError {
	return apiError(http.StatusUnsupportedMediaType, code, message)
}

func internalError(code, message string) *echo.HTTPError {
	return apiError(http.StatusInternalServerError, code, message)
}
