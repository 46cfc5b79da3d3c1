package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/volunteerhq/rosterd/pkg/core/services"
)

// Dashboard returns aggregate figures recomputed from the ledger
func (s *Server) Dashboard(c *gin.Context) {
	stats, err := services.GetDashboardStats(c.Request.Context(), s.stores.Stats, s.logger)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total_hours":       stats.TotalHours,
		"active_volunteers": stats.ActiveVolunteers,
		"open_shifts":       stats.OpenShifts,
		"events_by_status":  stats.EventsByStatus,
	})
}
