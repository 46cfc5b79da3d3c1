package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/volunteerhq/rosterd/pkg/core/services"
)

type createSwapRequest struct {
	ReceiverID string `json:"receiver_id" binding:"required"`
	EntryID    string `json:"entry_id" binding:"required"`
}

type respondSwapRequest struct {
	Accept *bool `json:"accept" binding:"required"`
}

// ListSwaps returns swap requests where the caller is sender or receiver
func (s *Server) ListSwaps(c *gin.Context) {
	requests, err := s.stores.Swaps.GetSwapRequestsForVolunteer(c.Request.Context(), caller(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"swap_requests": requests})
}

// CreateSwap proposes transferring one of the caller's entries
func (s *Server) CreateSwap(c *gin.Context) {
	var req createSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := services.CreateSwapRequest(c.Request.Context(), s.stores.Roster, s.stores.Swaps,
		s.stores.Volunteers, s.notifier, s.logger, caller(c), req.ReceiverID, req.EntryID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"swap_request": request})
}

// RespondSwap resolves a pending swap request addressed to the caller
func (s *Server) RespondSwap(c *gin.Context) {
	var req respondSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := services.RespondToSwapRequest(c.Request.Context(), s.stores.Roster, s.stores.Swaps,
		s.stores.Volunteers, s.notifier, s.logger, caller(c), c.Param("id"), *req.Accept)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"swap_request": request})
}
