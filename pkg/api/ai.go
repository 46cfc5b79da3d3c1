package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type describeRequest struct {
	EventName string   `json:"event_name" binding:"required"`
	Keywords  []string `json:"keywords"`
}

type matchRequest struct {
	Role       string              `json:"role" binding:"required"`
	Candidates map[string][]string `json:"candidates" binding:"required"`
}

// GenerateDescription produces an event description from a name and keywords
func (s *Server) GenerateDescription(c *gin.Context) {
	if s.gen == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "generative text is not configured"})
		return
	}

	var req describeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	text, err := s.gen.GenerateDescription(c.Request.Context(), req.EventName, req.Keywords)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"description": text})
}

// MatchVolunteers ranks candidate volunteers by fit for a role
func (s *Server) MatchVolunteers(c *gin.Context) {
	if s.gen == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "generative text is not configured"})
		return
	}

	var req matchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ranked, err := s.gen.RankCandidates(c.Request.Context(), req.Role, req.Candidates)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ranked": ranked})
}
