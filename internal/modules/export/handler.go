package export

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"lodgesync/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts the unauthenticated calendar endpoint. The
// capability token in the path is the credential.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/calendar/:token", h.Export)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/units/:id/export-url", h.ExportURL)
}

func (h *Handler) Export(c *gin.Context) {
	token := strings.TrimSuffix(c.Param("token"), ".ics")

	doc, err := h.service.ExportByToken(c.Request.Context(), token)
	if err != nil {
		if err == ErrNotFound {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Calendar not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Export failed")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="calendar.ics"`)
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(doc))
}

func (h *Handler) ExportURL(c *gin.Context) {
	unitID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid unit id")
		return
	}

	url, err := h.service.ExportURL(c.Request.Context(), unitID)
	if err != nil {
		if err == ErrNotFound {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Unit not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to build export URL")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"unit_id":    unitID,
		"export_url": url,
	})
}
