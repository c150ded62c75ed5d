package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	goerrors "github.com/goliatone/go-errors"

	"github.com/pageza/recipe-catalog/backend/internal/apperror"
	"github.com/pageza/recipe-catalog/backend/internal/logging"
)

// Text codes carried in the "code" field of every error body.
const (
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeForbidden       = "FORBIDDEN"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeInvalidInput    = "INVALID_INPUT"
	CodeRateLimited     = "RATE_LIMITED"
	CodeInternal        = "INTERNAL"
)

// ErrorHandler renders the last error recorded with c.Error as a JSON body
// {"error", "code", "reason"?, "details"?}. Handlers must not write a
// response themselves after recording an error.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil || c.Writer.Written() {
			return
		}

		err := last.Err
		var rich *goerrors.Error
		if last.IsType(gin.ErrorTypeBind) {
			rich = bindingEnvelope(err)
		} else {
			rich = Envelope(err)
		}

		if rich.Code >= http.StatusInternalServerError {
			logging.Error(c.Request.Context(), "request failed",
				"error", err,
				"path", c.Request.URL.Path,
				"request_id", RequestIDFrom(c))
		}

		body := gin.H{"error": rich.Message, "code": rich.TextCode}
		if reason := apperror.ReasonOf(err); reason != apperror.ReasonNone {
			body["reason"] = string(reason)
		}
		if fields := rich.AllValidationErrors(); len(fields) > 0 {
			details := make([]gin.H, 0, len(fields))
			for _, f := range fields {
				details = append(details, gin.H{"field": f.Field, "message": f.Message})
			}
			body["details"] = details
		}
		c.AbortWithStatusJSON(rich.Code, body)
	}
}

// Envelope maps an error returned by the core onto the transport envelope.
// Errors outside the apperror set become internal errors without leaking
// their text.
func Envelope(err error) *goerrors.Error {
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich
	}

	appErr, ok := apperror.As(err)
	if !ok {
		return internalEnvelope()
	}

	switch appErr.Kind {
	case apperror.KindUnauthenticated:
		return goerrors.New(appErr.Message, goerrors.CategoryAuth).
			WithCode(http.StatusUnauthorized).
			WithTextCode(CodeUnauthenticated)
	case apperror.KindForbidden:
		return goerrors.New(appErr.Message, goerrors.CategoryAuthz).
			WithCode(http.StatusForbidden).
			WithTextCode(CodeForbidden)
	case apperror.KindNotFound:
		return goerrors.New(appErr.Message, goerrors.CategoryNotFound).
			WithCode(http.StatusNotFound).
			WithTextCode(CodeNotFound)
	case apperror.KindConflict:
		return goerrors.New(appErr.Message, goerrors.CategoryConflict).
			WithCode(http.StatusConflict).
			WithTextCode(CodeConflict)
	case apperror.KindInvalidInput:
		fields := make([]goerrors.FieldError, 0, len(appErr.Fields))
		for _, f := range appErr.Fields {
			fields = append(fields, goerrors.FieldError{Field: f.Field, Message: f.Message})
		}
		return goerrors.NewValidation(appErr.Message, fields...).
			WithCode(http.StatusBadRequest).
			WithTextCode(CodeInvalidInput)
	}
	return internalEnvelope()
}

func internalEnvelope() *goerrors.Error {
	return goerrors.New("internal server error", goerrors.CategoryInternal).
		WithCode(http.StatusInternalServerError).
		WithTextCode(CodeInternal)
}

// bindingEnvelope describes a request that failed to bind or validate.
func bindingEnvelope(err error) *goerrors.Error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return goerrors.New("invalid request body", goerrors.CategoryBadInput).
			WithCode(http.StatusBadRequest).
			WithTextCode(CodeInvalidInput)
	}
	fields := make([]goerrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, goerrors.FieldError{
			Field:   jsonFieldName(fe),
			Message: validationMessage(fe),
		})
	}
	return goerrors.NewValidation("validation failed", fields...).
		WithCode(http.StatusBadRequest).
		WithTextCode(CodeInvalidInput)
}

// jsonFieldName turns CreateRecipeRequest.Instructions[0].StepNumber into
// instructions[0].step_number.
func jsonFieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		ns = ns[i+1:]
	}
	parts := strings.Split(ns, ".")
	for i, p := range parts {
		idx := ""
		if j := strings.IndexByte(p, '['); j >= 0 {
			p, idx = p[:j], p[j:]
		}
		parts[i] = snake(p) + idx
	}
	return strings.Join(parts, ".")
}

func snake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && !(s[i-1] >= 'A' && s[i-1] <= 'Z') {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind().String() == "string" {
			return "must be at least " + fe.Param() + " characters"
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind().String() == "string" {
			return "must be at most " + fe.Param() + " characters"
		}
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	}
	return "is invalid"
}
