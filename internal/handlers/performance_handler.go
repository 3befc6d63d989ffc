package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"salescrm/internal/pdf"
	"salescrm/internal/services"
)

type PerformanceHandler struct {
	Service *services.PerformanceService
	Reports pdf.Generator
}

func NewPerformanceHandler(service *services.PerformanceService, reports pdf.Generator) *PerformanceHandler {
	return &PerformanceHandler{Service: service, Reports: reports}
}

// @Summary      Sales leaderboard
// @Description  Representatives ranked by total points, with a trend over the requested period.
// @Tags         Performance
// @Produce      json
// @Param        period  query  string  false  "week, month, quarter, or year"  default(month)
// @Success      200  {array}   services.RepresentativeStats
// @Failure      400  {object}  map[string]string
// @Router       /stats/leaderboard [get]
func (h *PerformanceHandler) Leaderboard(c *gin.Context) {
	period, ok := services.ParsePeriod(c.DefaultQuery("period", "month"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "period must be week, month, quarter, or year"})
		return
	}
	stats, err := h.Service.Leaderboard(period)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build leaderboard"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// @Summary      Category performance
// @Tags         Performance
// @Produce      json
// @Success      200  {array}  services.CategoryStats
// @Router       /stats/categories [get]
func (h *PerformanceHandler) Categories(c *gin.Context) {
	stats, err := h.Service.CategoryPerformance()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build category stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// @Summary      Category performance as PDF
// @Tags         Performance
// @Produce      application/pdf
// @Success      200  {file}  file
// @Router       /stats/categories/pdf [get]
func (h *PerformanceHandler) CategoriesPDF(c *gin.Context) {
	stats, err := h.Service.CategoryPerformance()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build category stats"})
		return
	}
	path, err := h.Reports.GenerateCategoryReport(stats, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate report"})
		return
	}
	c.FileAttachment(path, "categories.pdf")
}

// @Summary      Leaderboard as PDF
// @Tags         Performance
// @Produce      application/pdf
// @Param        period  query  string  false  "week, month, quarter, or year"  default(month)
// @Success      200  {file}    file
// @Failure      400  {object}  map[string]string
// @Router       /stats/leaderboard/pdf [get]
func (h *PerformanceHandler) LeaderboardPDF(c *gin.Context) {
	period, ok := services.ParsePeriod(c.DefaultQuery("period", "month"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "period must be week, month, quarter, or year"})
		return
	}
	stats, err := h.Service.Leaderboard(period)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build leaderboard"})
		return
	}
	path, err := h.Reports.GenerateLeaderboard(string(period), stats, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate report"})
		return
	}
	c.FileAttachment(path, "leaderboard.pdf")
}
