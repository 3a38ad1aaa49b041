package feed

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lodgesync/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/feeds", h.List)
	rg.POST("/feeds", h.Create)
	rg.PUT("/feeds/:id", h.Update)
	rg.DELETE("/feeds/:id", h.Delete)
}

func (h *Handler) List(c *gin.Context) {
	var unitID *int64
	if raw := c.Query("unit_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid unit_id")
			return
		}
		unitID = &id
	}

	feeds, err := h.service.List(c.Request.Context(), unitID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list feeds")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"feeds": feeds})
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateFeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	f, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		switch err {
		case ErrValidation:
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid feed URL")
		case ErrUnitNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Unit not found")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create feed")
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"feed": f})
}

func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid feed id")
		return
	}

	var req UpdateFeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	f, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		switch err {
		case ErrValidation:
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid feed URL")
		case ErrNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Feed not found")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update feed")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"feed": f})
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid feed id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		switch err {
		case ErrNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Feed not found")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete feed")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": id})
}
