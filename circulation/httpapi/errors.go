package httpapi

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorHandler renders domain errors, validation errors and echo errors as ErrorBody.
func ErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := errorResponse(err)
		if status >= http.StatusInternalServerError {
			logger.ErrorContext(c.Request().Context(), "request failed", "path", c.Path(), "error", err.Error())
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, body)
		}

		if writeErr != nil {
			logger.ErrorContext(c.Request().Context(), "writing error response failed", "error", writeErr.Error())
		}
	}
}

func errorResponse(err error) (int, ErrorBody) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return http.StatusBadRequest, errorBody(core.CodeInvalidPayload, validationMessage(validationErrs))
	}

	var domainErr *core.Error
	if errors.As(err, &domainErr) {
		return statusOf(domainErr.Code), errorBody(domainErr.Code, domainErr.Msg)
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code, errorBody(codeOfHTTPStatus(httpErr.Code), fmt.Sprint(httpErr.Message))
	}

	return http.StatusInternalServerError, errorBody(core.CodeInternal, core.ErrInternal.Msg)
}

func statusOf(code core.ErrCode) int {
	switch code.Kind() {
	case core.KindValidation:
		if code == core.CodeInvalidPayload {
			return http.StatusBadRequest
		}
		return http.StatusUnprocessableEntity
	case core.KindNotFound:
		return http.StatusNotFound
	case core.KindConflict:
		return http.StatusConflict
	case core.KindPolicy:
		return http.StatusUnprocessableEntity
	case core.KindForbidden:
		return http.StatusForbidden
	case core.KindUnauthorized:
		return http.StatusUnauthorized
	case core.KindPayment:
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

func codeOfHTTPStatus(status int) core.ErrCode {
	switch status {
	case http.StatusBadRequest:
		return core.CodeInvalidPayload
	case http.StatusUnauthorized:
		return core.CodeUnauthorized
	case http.StatusForbidden:
		return core.CodeForbidden
	case http.StatusNotFound:
		return "route_not_found"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case http.StatusTooManyRequests:
		return "rate_limited"
	default:
		return core.CodeInternal
	}
}

func validationMessage(errs validator.ValidationErrors) string {
	first := errs[0]

	return fmt.Sprintf("field %s failed on %q", first.Field(), first.Tag())
}

func errorBody(code core.ErrCode, message string) ErrorBody {
	return ErrorBody{Error: ErrorDetail{Code: string(code), Message: message}}
}
