package handler

import (
	"net/http"

	"bookstore-marketplace/internal/domains/stats/service"
	"bookstore-marketplace/internal/shared/middleware"
	"bookstore-marketplace/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	statsService service.StatsService
}

func NewStatsHandler(statsService service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// SellerStats - GET /seller/stats
func (h *StatsHandler) SellerStats(c *gin.Context) {
	identity, ok := middleware.RequireIdentity(c)
	if !ok {
		return
	}

	stats, err := h.statsService.SellerStats(c.Request.Context(), identity)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

// AdminStats - GET /admin/stats
func (h *StatsHandler) AdminStats(c *gin.Context) {
	identity, ok := middleware.RequireIdentity(c)
	if !ok {
		return
	}

	stats, err := h.statsService.AdminStats(c.Request.Context(), identity)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}
