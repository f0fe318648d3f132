package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/omfen/fenntech-internal-system-sub001/internal/apierror"
	"github.com/omfen/fenntech-internal-system-sub001/internal/dto"
	"github.com/omfen/fenntech-internal-system-sub001/internal/service"
)

type InvoicesHandler struct {
	svc service.InvoiceService
	// defaultReportTo receives reports when the request does not name a
	// recipient. Configured per deployment (typically the pricing desk inbox).
	defaultReportTo string
}

func NewInvoicesHandler(svc service.InvoiceService, defaultReportTo string) *InvoicesHandler {
	return &InvoicesHandler{svc: svc, defaultReportTo: defaultReportTo}
}

// Create godoc
// @Summary Price an invoice batch and persist the session
// @Tags invoices
// @Accept json
// @Produce json
// @Param body body dto.CreateInvoiceSessionRequest true "Invoice batch"
// @Success 201 {object} dto.InvoiceSessionResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/invoices [post]
func (h *InvoicesHandler) Create(c *gin.Context) {
	var req dto.CreateInvoiceSessionRequest
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

// Get GET /v1/invoices/:id
func (h *InvoicesHandler) Get(c *gin.Context) {
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

// List GET /v1/invoices?status=&page=&limit=
func (h *InvoicesHandler) List(c *gin.Context) {
	var filter dto.InvoiceSessionFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.ListSessions(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list invoice sessions"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update PATCH /v1/invoices/:id — status / notes only; priced figures are
// immutable once the session exists.
func (h *InvoicesHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	var req dto.UpdateInvoiceSessionRequest
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

// SendReport POST /v1/invoices/:id/report — enqueues the PDF + email job.
// Refused with 409 when the session is already latched as sent.
func (h *InvoicesHandler) SendReport(c *gin.Context) {
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
