package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/mawingu/darasa/core"
	"github.com/mawingu/darasa/core/activity"
	logsvc "github.com/mawingu/darasa/services/logger"
)

var (
	errUnauthorized  = echo.NewHTTPError(http.StatusUnauthorized, "operator not authenticated")
	errHttpForbidden = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errHttpNotFound  = echo.NewHTTPError(http.StatusNotFound, "not found")
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				message = origErr.Message
				break
			}
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(translator)
			}
			code = http.StatusBadRequest
			message = fldErrs
		case *core.ValidationError:
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				message = fldErrs
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		default:
			if origErr == activity.ErrNotFound {
				code = http.StatusNotFound
				message = origErr.Error()
				break
			}

			// any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			message = msg

			var actor logsvc.Actor
			if claims, cErr := getContextClaims(ctx); cErr == nil {
				actor.ID = claims.Subject
				actor.Name = claims.FirstName + " " + claims.LastName
				actor.Email = claims.Email
			}
			logger.Error(msg, errors.Wrap(err, msg), actor)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if !ctx.Response().Committed {
			var rErr error
			if ctx.Request().Method == http.MethodHead {
				rErr = ctx.NoContent(code)
			} else {
				rErr = ctx.JSON(code, map[string]interface{}{"error": message})
			}
			if rErr != nil {
				logger.Error("error handler failed", rErr)
			}
		}
	}
}
