package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/omfen/fenntech-internal-system-sub001/internal/apierror"
	"github.com/omfen/fenntech-internal-system-sub001/internal/dto"
	"github.com/omfen/fenntech-internal-system-sub001/internal/middleware"
	"github.com/omfen/fenntech-internal-system-sub001/internal/service"
)

type RatesHandler struct{ svc service.RateService }

func NewRatesHandler(svc service.RateService) *RatesHandler {
	return &RatesHandler{svc: svc}
}

// Current GET /v1/exchange-rate
func (h *RatesHandler) Current(c *gin.Context) {
	resp, err := h.svc.CurrentResponse(c.Request.Context())
	if err != nil {
		writePricingError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update PUT /v1/exchange-rate — appends a new rate row; history is never
// rewritten.
func (h *RatesHandler) Update(c *gin.Context) {
	var req dto.UpdateExchangeRateRequest
	if !bindAndValidate(c, &req) {
		return
	}

	var updatedBy *uuid.UUID
	if claims := middleware.GetClaims(c); claims != nil {
		if id, err := uuid.Parse(claims.UserID); err == nil {
			updatedBy = &id
		}
	}

	resp, err := h.svc.Update(c.Request.Context(), req.Rate, updatedBy)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
