package sync

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
	rg.POST("/sync", h.Trigger)
}

// Trigger runs a sync for one feed (?feed_id=), one unit's feeds
// (?unit_id=), or everything.
func (h *Handler) Trigger(c *gin.Context) {
	ctx := c.Request.Context()

	if raw := c.Query("feed_id"); raw != "" {
		feedID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid feed_id")
			return
		}
		res, err := h.service.SyncFeed(ctx, feedID)
		if err != nil {
			if err == ErrFeedNotFound {
				response.Error(c, http.StatusNotFound, "NOT_FOUND", "Feed not found")
				return
			}
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Sync failed")
			return
		}
		response.Success(c, http.StatusOK, gin.H{"feed": res})
		return
	}

	if raw := c.Query("unit_id"); raw != "" {
		unitID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid unit_id")
			return
		}
		res, err := h.service.SyncUnit(ctx, unitID)
		if err != nil {
			if err == ErrUnitNotFound {
				response.Error(c, http.StatusNotFound, "NOT_FOUND", "Unit not found")
				return
			}
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Sync failed")
			return
		}
		response.Success(c, http.StatusOK, gin.H{"batch": res})
		return
	}

	res, err := h.service.SyncAll(ctx)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Sync failed")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"batch": res})
}
