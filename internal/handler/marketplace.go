package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/omfen/fenntech-internal-system-sub001/internal/apierror"
	"github.com/omfen/fenntech-internal-system-sub001/internal/dto"
	"github.com/omfen/fenntech-internal-system-sub001/internal/service"
)

type MarketplaceHandler struct {
	svc             service.MarketplaceService
	defaultReportTo string
}

func NewMarketplaceHandler(svc service.MarketplaceService, defaultReportTo string) *MarketplaceHandler {
	return &MarketplaceHandler{svc: svc, defaultReportTo: defaultReportTo}
}

// Create POST /v1/marketplace
func (h *MarketplaceHandler) Create(c *gin.Context) {
	var req dto.CreateMarketplaceSessionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateSession(c.Request.Context(), req)
	if err != nil {
		writePricingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Get GET /v1/marketplace/:id
func (h *MarketplaceHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	resp, svcErr := h.svc.GetSession(c.Request.Context(), id)
	if svcErr != nil {
		writePricingError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List GET /v1/marketplace?status=&page=&limit=
func (h *MarketplaceHandler) List(c *gin.Context) {
	var filter dto.MarketplaceSessionFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.ListSessions(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list marketplace sessions"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update PATCH /v1/marketplace/:id
func (h *MarketplaceHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	var req dto.UpdateMarketplaceSessionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, svcErr := h.svc.UpdateSession(c.Request.Context(), id, req)
	if svcErr != nil {
		writePricingError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SuggestMarkup GET /v1/marketplace/suggest-markup?unit_cost_usd=
// Advisory only — the returned tier is what CreateSession would apply when
// no override is given.
func (h *MarketplaceHandler) SuggestMarkup(c *gin.Context) {
	raw := c.Query("unit_cost_usd")
	cost, err := decimal.NewFromString(raw)
	if err != nil || cost.IsNegative() {
		c.JSON(http.StatusBadRequest, apierror.New("unit_cost_usd must be a non-negative decimal"))
		return
	}
	c.JSON(http.StatusOK, h.svc.SuggestMarkup(cost))
}

// SendReport POST /v1/marketplace/:id/report
func (h *MarketplaceHandler) SendReport(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	var req dto.SendReportRequest
	if !bindAndValidate(c, &req) {
		return
	}
	toEmail := h.defaultReportTo
	if req.ToEmail != nil {
		toEmail = *req.ToEmail
	}
	if toEmail == "" {
		c.JSON(http.StatusBadRequest, apierror.New("No report recipient configured"))
		return
	}
	if svcErr := h.svc.SendReport(c.Request.Context(), id, toEmail); svcErr != nil {
		writePricingError(c, svcErr)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"queued": true})
}
