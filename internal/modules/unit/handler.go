package unit

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lodgesync/internal/domain"
	"lodgesync/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes exposes the read-only unit listing used by the
// booking surface. Export tokens are stripped from public responses.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/units", h.ListPublic)
	rg.GET("/units/:id", h.GetPublic)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/units", h.List)
	rg.POST("/units", h.Create)
	rg.PUT("/units/:id", h.Update)
	rg.DELETE("/units/:id", h.Delete)
	rg.POST("/units/:id/rotate-export-token", h.RotateExportToken)
}

func publicView(u domain.Unit) gin.H {
	return gin.H{
		"id":       u.ID,
		"name":     u.Name,
		"capacity": u.Capacity,
		"active":   u.Active,
	}
}

func (h *Handler) ListPublic(c *gin.Context) {
	units, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list units")
		return
	}

	out := make([]gin.H, 0, len(units))
	for _, u := range units {
		if u.Active {
			out = append(out, publicView(u))
		}
	}
	response.Success(c, http.StatusOK, gin.H{"units": out})
}

func (h *Handler) GetPublic(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid unit id")
		return
	}

	u, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if err == ErrNotFound {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Unit not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load unit")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"unit": publicView(*u)})
}

func (h *Handler) List(c *gin.Context) {
	units, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list units")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"units": units})
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	u, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		if err == ErrValidation {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid unit")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create unit")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"unit": u})
}

func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid unit id")
		return
	}

	var req UpdateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	u, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		switch err {
		case ErrValidation:
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid unit")
		case ErrNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Unit not found")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update unit")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"unit": u})
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid unit id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if err == ErrNotFound {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Unit not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete unit")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": id})
}

func (h *Handler) RotateExportToken(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid unit id")
		return
	}

	u, err := h.service.RotateExportToken(c.Request.Context(), id)
	if err != nil {
		if err == ErrNotFound {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Unit not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to rotate token")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"unit": u})
}
