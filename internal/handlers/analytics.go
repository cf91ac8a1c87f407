package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/marketplace-backend/internal/services"
)

type AnalyticsHandler struct {
	analyticsService services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// parseDateRange reads optional ?start= and ?end= query params (RFC 3339 or
// plain dates). Zero values fall back to the service's default window.
func parseDateRange(c *gin.Context) (time.Time, time.Time, bool) {
	parse := func(raw string) (time.Time, error) {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t, nil
		}
		return time.Parse("2006-01-02", raw)
	}
	var start, end time.Time
	if raw := c.Query("start"); raw != "" {
		t, err := parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start date"})
			return start, end, false
		}
		start = t
	}
	if raw := c.Query("end"); raw != "" {
		t, err := parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end date"})
			return start, end, false
		}
		end = t
	}
	return start, end, true
}

func (ah *AnalyticsHandler) OrderSummary(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	start, end, ok := parseDateRange(c)
	if !ok {
		return
	}
	summary, err := ah.analyticsService.OrderSummary(c.Request.Context(), userID, start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (ah *AnalyticsHandler) StoreSummary(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	storeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	start, end, ok := parseDateRange(c)
	if !ok {
		return
	}
	sales, err := ah.analyticsService.StoreSummary(c.Request.Context(), userID, storeID, start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sales)
}

func (ah *AnalyticsHandler) TopStores(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	start, end, ok := parseDateRange(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	stores, err := ah.analyticsService.TopStores(c.Request.Context(), userID, start, end, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stores)
}

func (ah *AnalyticsHandler) TopProducts(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	start, end, ok := parseDateRange(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	products, err := ah.analyticsService.TopProducts(c.Request.Context(), userID, start, end, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}
