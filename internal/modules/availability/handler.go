package availability

import (
	"net/http"
	"strconv"
	"time"

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

// RegisterPublicRoutes mounts the read-only availability query.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/units/:id/availability", h.QueryRange)
}

// RegisterAdminRoutes mounts staff block management.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/date-blocks", h.ListBlocks)
	rg.POST("/date-blocks", h.CreateBlock)
	rg.DELETE("/date-blocks/:id", h.DeleteBlock)
	rg.POST("/date-blocks/:id/convert", h.ConvertBlock)
}

// QueryRange accepts either ?month=YYYY-MM or ?from=YYYY-MM-DD&to=YYYY-MM-DD.
// With no parameters it returns the current month.
func (h *Handler) QueryRange(c *gin.Context) {
	unitID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid unit id")
		return
	}

	from, to, err := rangeFromQuery(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid date range")
		return
	}

	days, err := h.service.QueryRange(c.Request.Context(), unitID, from, to)
	if err != nil {
		switch err {
		case ErrValidation:
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid date range")
		case ErrUnitNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Unit not found")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Availability query failed")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"unit_id": unitID, "days": days})
}

func rangeFromQuery(c *gin.Context) (time.Time, time.Time, error) {
	if month := c.Query("month"); month != "" {
		from, err := time.Parse("2006-01", month)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		return from, from.AddDate(0, 1, 0), nil
	}

	if c.Query("from") != "" || c.Query("to") != "" {
		from, err := domain.ParseDay(c.Query("from"))
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to, err := domain.ParseDay(c.Query("to"))
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		return from, to, nil
	}

	now := domain.Day(time.Now().UTC())
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0), nil
}

func (h *Handler) ListBlocks(c *gin.Context) {
	unitID, err := strconv.ParseInt(c.Query("unit_id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "unit_id is required")
		return
	}

	blocks, err := h.service.ListBlocks(c.Request.Context(), unitID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list blocks")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"blocks": blocks})
}

func (h *Handler) CreateBlock(c *gin.Context) {
	var req CreateBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	start, err := domain.ParseDay(req.Start)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid start day")
		return
	}
	end, err := domain.ParseDay(req.End)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid end day")
		return
	}

	b, err := h.service.CreateManualBlock(c.Request.Context(), req.UnitID, start, end, req.Reason)
	if err != nil {
		switch err {
		case ErrValidation:
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "End day must be after start day")
		case ErrUnitNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Unit not found")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create block")
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"block": b})
}

func (h *Handler) DeleteBlock(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid block id")
		return
	}

	if err := h.service.DeleteBlock(c.Request.Context(), id); err != nil {
		switch err {
		case ErrNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Block not found")
		case ErrFeedOwned:
			response.Error(c, http.StatusConflict, "FEED_OWNED", "Imported blocks are managed by sync; delete the feed or wait for upstream removal")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete block")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": id})
}

func (h *Handler) ConvertBlock(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid block id")
		return
	}

	var req ConvertBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.ConvertBlockToBooking(c.Request.Context(), id, GuestDetails{
		Name:   req.GuestName,
		Email:  req.GuestEmail,
		Phone:  req.GuestPhone,
		Guests: req.Guests,
		Notes:  req.Notes,
	})
	if err != nil {
		switch err {
		case ErrValidation:
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Guest name is required")
		case ErrNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Block not found")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Conversion failed")
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"booking": b})
}
