package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aadnk/ZapTechCostCalculator/internal/api/models"
	"github.com/aadnk/ZapTechCostCalculator/internal/model"
	"github.com/aadnk/ZapTechCostCalculator/internal/prices"
)

// PricesHandler serves UTC-window day prices from the shared cache.
type PricesHandler struct {
	window *prices.UTCWindow
}

func NewPricesHandler(window *prices.UTCWindow) *PricesHandler {
	return &PricesHandler{window: window}
}

// DayPrices handles GET /api/v1/prices/:date?area=NO2.
func (h *PricesHandler) DayPrices(c *gin.Context) {
	date, err := time.Parse("2006-01-02", c.Param("date"))
	if err != nil {
		badRequest(c, "INVALID_DATE", "date must be YYYY-MM-DD")
		return
	}

	areaParam := c.Query("area")
	if areaParam == "" {
		badRequest(c, "MISSING_PARAM", "area query parameter is required")
		return
	}
	area, err := model.ParseArea(areaParam)
	if err != nil {
		badRequest(c, "INVALID_AREA", err.Error())
		return
	}

	intervals, err := h.window.Get(date, area)
	if err != nil {
		upstreamError(c, "PRICE_FETCH_FAILED", err)
		return
	}

	c.JSON(http.StatusOK, models.DayPricesResponse{
		Date:      date.Format("2006-01-02"),
		PriceArea: area.Code(),
		Intervals: intervals,
	})
}

// ListAreas handles GET /api/v1/areas. The zone set is closed, so this is
// a static list.
func ListAreas(c *gin.Context) {
	areas := make([]models.AreaInfo, 0, len(model.Areas()))
	for _, a := range model.Areas() {
		areas = append(areas, models.AreaInfo{Code: a.Code(), Label: a.Label()})
	}
	c.JSON(http.StatusOK, gin.H{
		"areas": areas,
		"count": len(areas),
	})
}
