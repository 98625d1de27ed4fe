package api

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	apperrors "task-viewer/internal/errors"
	"task-viewer/internal/logging"
	"task-viewer/internal/validation"
)

var (
	errMissingOwner = echo.NewHTTPError(http.StatusBadRequest, "missing "+OwnerHeader+" header")
	errNoStreaming  = echo.NewHTTPError(http.StatusInternalServerError, "streaming unsupported")
)

// NewAppHTTPErrorHandler returns an echo.HTTPErrorHandler that knows how to
// render validation, rate limit and not found errors. Anything else is a
// server error and gets reported.
func NewAppHTTPErrorHandler(translator ut.Translator) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		code, message := errorResponse(err, translator)

		if code >= http.StatusInternalServerError {
			attrs := []any{"method", ctx.Request().Method, "path", ctx.Path(), "owner", ctx.Request().Header.Get(OwnerHeader)}
			if appErr, ok := apperrors.AsAppError(err); ok {
				attrs = append(attrs, appErr.LogAttrs()...)
			}
			logging.Report(http.StatusText(code), errors.Wrap(err, http.StatusText(code)), attrs...)
		}

		if ctx.Echo().Debug && code >= http.StatusInternalServerError {
			message = err.Error()
		}
		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead {
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Logger().Error(err)
			}
		}
	}
}

func errorResponse(err error, translator ut.Translator) (int, interface{}) {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if inner, ok := httpErr.Internal.(*echo.HTTPError); ok {
			httpErr = inner
		}
		return httpErr.Code, httpErr.Message
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		fields := make(map[string]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			fields[fe.Field()] = fe.Translate(translator)
		}
		return http.StatusBadRequest, fields
	}

	if ve, ok := validation.AsValidationError(err); ok && ve.HasErrors() {
		return http.StatusBadRequest, ve.Messages()
	}

	if appErr, ok := apperrors.AsAppError(err); ok {
		switch appErr.Type {
		case apperrors.ErrorTypeValidation, apperrors.ErrorTypeInvalidInput:
			return http.StatusBadRequest, appErr.Message
		case apperrors.ErrorTypeRateLimit:
			return http.StatusTooManyRequests, appErr.Message
		case apperrors.ErrorTypeNotFound:
			return http.StatusNotFound, appErr.Message
		case apperrors.ErrorTypeTimeout:
			return http.StatusGatewayTimeout, apperrors.GetUserMessage(appErr)
		}
	}

	return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
}
