package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/volunteerhq/rosterd/pkg/core/services"
)

type changeShiftRequest struct {
	NewShiftID string `json:"new_shift_id" binding:"required"`
}

// JoinShift signs the caller up for the event
func (s *Server) JoinShift(c *gin.Context) {
	entry, err := services.JoinShift(c.Request.Context(), s.stores.Shifts, s.stores.Roster, s.logger,
		caller(c), c.Param("id"), s.cfg.EnforceCapacity)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"entry": entry})
}

// MySchedule returns the caller's roster entries with shift context
func (s *Server) MySchedule(c *gin.Context) {
	entries, err := s.stores.Roster.GetEntriesByVolunteer(c.Request.Context(), caller(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// ChangeShift reassigns the caller's entry to a different shift
func (s *Server) ChangeShift(c *gin.Context) {
	var req changeShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := services.ChangeShift(c.Request.Context(), s.stores.Shifts, s.stores.Roster, s.logger,
		caller(c), c.Param("id"), req.NewShiftID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "moved"})
}

// CancelEntry removes the caller's entry
func (s *Server) CancelEntry(c *gin.Context) {
	err := services.CancelEntry(c.Request.Context(), s.stores.Roster, s.logger, caller(c), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

// CheckIn marks an entry checked in
func (s *Server) CheckIn(c *gin.Context) {
	if err := services.CheckInEntry(c.Request.Context(), s.stores.Roster, s.logger, c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "checked in"})
}

// Complete marks an entry completed and credits the volunteer's hours
func (s *Server) Complete(c *gin.Context) {
	hours, err := services.CompleteEntry(c.Request.Context(), s.stores.Shifts, s.stores.Roster, s.stores.Volunteers,
		s.logger, c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "completed", "hours": hours})
}
