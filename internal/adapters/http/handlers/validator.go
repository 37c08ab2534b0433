// Package handlers holds the REST handlers: they bind requests into
// commands, call a use case and translate the result onto the wire.
package handlers

import (
	"net/http"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/Haleralex/ledgerhub/internal/adapters/http/common"
	"github.com/Haleralex/ledgerhub/internal/adapters/http/middleware"
	"github.com/Haleralex/ledgerhub/internal/application/dtos"
	"github.com/Haleralex/ledgerhub/internal/domain/auth"
	domainerrors "github.com/Haleralex/ledgerhub/internal/domain/errors"
)

// ============================================
// Validator Setup
// ============================================

// validate checks the `validate` tags on the application commands.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report json field names in validation errors.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("decimal", validateDecimal)
	_ = v.RegisterValidation("signed_decimal", validateSignedDecimal)

	return v
}

// ============================================
// Custom Validators
// ============================================

var (
	decimalPattern       = regexp.MustCompile(`^\d+(\.\d+)?$`)
	signedDecimalPattern = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
)

// validateDecimal accepts a non-negative decimal string like "100.50".
func validateDecimal(fl validator.FieldLevel) bool {
	return decimalPattern.MatchString(fl.Field().String())
}

// validateSignedDecimal additionally accepts a leading minus, as used
// by proposal participant amounts.
func validateSignedDecimal(fl validator.FieldLevel) bool {
	return signedDecimalPattern.MatchString(fl.Field().String())
}

// ============================================
// Binding
// ============================================

// fieldError is one entry of the validation details.
type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// BindJSON binds and validates the JSON body into cmd. On failure the
// error response is already written and false is returned.
func BindJSON[T any](c *gin.Context, cmd *T) bool {
	if err := c.ShouldBindJSON(cmd); err != nil {
		common.RespondError(c, http.StatusBadRequest, domainerrors.CodeValidation,
			"malformed request body: "+err.Error())
		return false
	}
	if err := validate.Struct(cmd); err != nil {
		handleValidationErrors(c, err)
		return false
	}
	return true
}

// handleValidationErrors renders validator errors as envelope details.
func handleValidationErrors(c *gin.Context, err error) {
	var fields []fieldError

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range validationErrors {
			fields = append(fields, fieldError{
				Field:   fe.Field(),
				Message: validationMessage(fe),
				Code:    fe.Tag(),
			})
		}
	}

	if len(fields) == 0 {
		common.RespondError(c, http.StatusBadRequest, domainerrors.CodeValidation, err.Error())
		return
	}

	common.RespondErrorDetails(c, http.StatusBadRequest, domainerrors.CodeValidation,
		"request validation failed", map[string]any{"fields": fields})
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "uuid":
		return "invalid UUID format"
	case "min":
		return "too few items or too short (minimum: " + fe.Param() + ")"
	case "oneof":
		return "value must be one of: " + fe.Param()
	case "decimal":
		return "invalid amount format (use a decimal like '100.50')"
	case "signed_decimal":
		return "invalid amount format (use a signed decimal like '-100.50')"
	default:
		return "invalid value"
	}
}

// ============================================
// Authorization
// ============================================

// requireAuth returns the caller identity resolved by the auth
// middleware, answering 401 when it is absent.
func requireAuth(c *gin.Context) (*auth.Authorization, bool) {
	authz, ok := middleware.GetAuthorization(c)
	if !ok || authz == nil {
		common.RespondError(c, http.StatusUnauthorized,
			domainerrors.CodeAuthorization, "caller is not authenticated")
		return nil, false
	}
	return authz, true
}

// ============================================
// Paging
// ============================================

// ParsePaging reads offset/limit query parameters and clamps the limit
// into [1, maxLimit]. Missing parameters default to offset 0, limit 20.
func ParsePaging(c *gin.Context, maxLimit int) dtos.Paging {
	paging := dtos.Paging{Offset: 0, Limit: 20}

	if raw := c.Query("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			paging.Offset = v
		}
	}
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			paging.Limit = v
		}
	}

	return paging.Clamp(maxLimit)
}
