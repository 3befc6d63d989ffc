package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"salescrm/internal/services"
)

type DistributionHandler struct {
	Service *services.DistributionService
}

func NewDistributionHandler(service *services.DistributionService) *DistributionHandler {
	return &DistributionHandler{Service: service}
}

type distributeRequest struct {
	RepresentativeID int    `json:"representative_id" binding:"required"`
	Count            int    `json:"count" binding:"required"`
	CategoryID       string `json:"category_id"`
}

// @Summary      Distribute unassigned leads to a representative
// @Description  Atomically assigns up to count unassigned leads, oldest first. Fails without assigning anything when the pool is short.
// @Tags         Distribution
// @Accept       json
// @Produce      json
// @Param        request  body      distributeRequest  true  "Distribution request"
// @Success      200      {object}  map[string]int
// @Failure      400      {object}  map[string]string
// @Failure      409      {object}  map[string]interface{}
// @Router       /leads/distribute [post]
func (h *DistributionHandler) Distribute(c *gin.Context) {
	var req distributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// "all" or empty means any category
	categoryID := 0
	if req.CategoryID != "" && req.CategoryID != "all" {
		id, err := strconv.Atoi(req.CategoryID)
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category_id"})
			return
		}
		categoryID = id
	}

	assigned, err := h.Service.Distribute(req.RepresentativeID, req.Count, categoryID)
	if err != nil {
		var short *services.InsufficientLeadsError
		switch {
		case errors.As(err, &short):
			c.JSON(http.StatusConflict, gin.H{
				"error":     err.Error(),
				"available": short.Available,
				"requested": req.Count,
			})
		case errors.Is(err, services.ErrInvalidCount),
			errors.Is(err, services.ErrUnknownCategory):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrUnknownRepresentative),
			errors.Is(err, services.ErrNotSalesRole):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"leads_distributed": assigned})
}

// @Summary      Count unassigned leads
// @Tags         Distribution
// @Produce      json
// @Param        category_id  query  int  false  "Category filter"
// @Success      200  {object}  map[string]int
// @Router       /leads/unassigned/count [get]
func (h *DistributionHandler) Available(c *gin.Context) {
	categoryID, _ := strconv.Atoi(c.DefaultQuery("category_id", "0"))
	n, err := h.Service.Available(categoryID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count leads"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": n})
}
