package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/omfen/fenntech-internal-system-sub001/internal/apierror"
	"github.com/omfen/fenntech-internal-system-sub001/internal/pricing"
	"github.com/omfen/fenntech-internal-system-sub001/internal/service"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// bindQueryAndValidate is the query-string twin of bindAndValidate, used by
// the session list endpoints.
func bindQueryAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid query parameters: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// writePricingError maps pricing/service errors to status codes. Pricing
// rejections are the caller's fault (4xx); anything unrecognized is a 500.
func writePricingError(c *gin.Context, err error) {
	var invalid *pricing.InvalidInputError
	if errors.As(err, &invalid) {
		c.JSON(http.StatusUnprocessableEntity, apierror.New(invalid.Error()))
		return
	}
	var notConfigured *pricing.CategoryNotConfiguredError
	if errors.As(err, &notConfigured) {
		c.JSON(http.StatusConflict, apierror.New(notConfigured.Error()))
		return
	}
	switch {
	case errors.Is(err, service.ErrNoExchangeRate):
		c.JSON(http.StatusConflict, apierror.New("No exchange rate configured — set one before pricing"))
	case errors.Is(err, service.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, apierror.New("Session not found"))
	case errors.Is(err, service.ErrReportAlreadySent):
		c.JSON(http.StatusConflict, apierror.New("Report already sent for this session"))
	case errors.Is(err, service.ErrInvalidMarkup):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
	case errors.Is(err, service.ErrCategoryExists), errors.Is(err, service.ErrCategoryReserved):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, service.ErrCategoryNotFound):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, apierror.New("Internal server error"))
	}
}
