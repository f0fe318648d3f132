package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/omfen/fenntech-internal-system-sub001/internal/apierror"
	"github.com/omfen/fenntech-internal-system-sub001/internal/dto"
	"github.com/omfen/fenntech-internal-system-sub001/internal/service"
)

type CategoriesHandler struct{ svc service.CategoryService }

func NewCategoriesHandler(svc service.CategoryService) *CategoriesHandler {
	return &CategoriesHandler{svc: svc}
}

// Create POST /v1/categories
func (h *CategoriesHandler) Create(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writePricingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List GET /v1/categories
func (h *CategoriesHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list categories"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update PUT /v1/categories/:id
func (h *CategoriesHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	var req dto.UpdateCategoryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, svcErr := h.svc.Update(c.Request.Context(), id, req)
	if svcErr != nil {
		writePricingError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete DELETE /v1/categories/:id
func (h *CategoriesHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	if svcErr := h.svc.Delete(c.Request.Context(), id); svcErr != nil {
		writePricingError(c, svcErr)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}
