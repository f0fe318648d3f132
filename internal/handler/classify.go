package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/omfen/fenntech-internal-system-sub001/internal/apierror"
	"github.com/omfen/fenntech-internal-system-sub001/internal/dto"
	"github.com/omfen/fenntech-internal-system-sub001/internal/pricing"
)

type ClassifyHandler struct{}

func NewClassifyHandler() *ClassifyHandler { return &ClassifyHandler{} }

// Preview GET /v1/classify?description=
// Read-only view of the keyword classifier, used by the desk UI to show the
// category a line will land in before an invoice is submitted.
func (h *ClassifyHandler) Preview(c *gin.Context) {
	description := strings.TrimSpace(c.Query("description"))
	if description == "" {
		c.JSON(http.StatusBadRequest, apierror.New("description query parameter is required"))
		return
	}
	c.JSON(http.StatusOK, dto.ClassifyResponse{
		Description:  description,
		CategoryName: pricing.ClassifyName(description),
	})
}
