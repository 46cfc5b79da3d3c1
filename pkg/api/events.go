package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/volunteerhq/rosterd/pkg/core/services"
)

type shiftTemplateRequest struct {
	Role          string  `json:"role" binding:"required"`
	StartClock    string  `json:"start_clock" binding:"required"`
	DurationHours float64 `json:"duration_hours" binding:"required,gt=0"`
	RequiredCount int     `json:"required_count" binding:"required,gt=0"`
	RRule         string  `json:"rrule"`
	Until         string  `json:"until"`
}

type createEventRequest struct {
	Name        string                 `json:"name" binding:"required"`
	Description string                 `json:"description"`
	Location    string                 `json:"location"`
	Date        time.Time              `json:"date" binding:"required"`
	Shifts      []shiftTemplateRequest `json:"shifts" binding:"required,min=1,dive"`
}

type createCollegeEventRequest struct {
	CollegeName string `json:"college_name" binding:"required"`
	ImageURL    string `json:"image_url"`
	createEventRequest
}

func toTemplates(reqs []shiftTemplateRequest) ([]services.ShiftTemplate, error) {
	templates := make([]services.ShiftTemplate, 0, len(reqs))
	for _, r := range reqs {
		tmpl := services.ShiftTemplate{
			Role:          r.Role,
			StartClock:    r.StartClock,
			DurationHours: r.DurationHours,
			RequiredCount: r.RequiredCount,
			RRule:         r.RRule,
		}
		if r.Until != "" {
			until, err := time.Parse(time.RFC3339, r.Until)
			if err != nil {
				return nil, err
			}
			tmpl.Until = until
		}
		templates = append(templates, tmpl)
	}
	return templates, nil
}

// ListEvents returns events, optionally filtered by ?status=
func (s *Server) ListEvents(c *gin.Context) {
	events, err := s.stores.Events.GetEvents(c.Request.Context(), c.Query("status"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// GetEvent returns one event with its shifts
func (s *Server) GetEvent(c *gin.Context) {
	ctx := c.Request.Context()
	event, err := s.stores.Events.GetEvent(ctx, c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	shifts, err := s.stores.Shifts.GetShiftsByEvent(ctx, event.ID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"event":     event,
		"shifts":    shifts,
		"fill_rate": services.FillRate(shifts),
	})
}

// ListShifts returns the shifts of an event
func (s *Server) ListShifts(c *gin.Context) {
	shifts, err := s.stores.Shifts.GetShiftsByEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shifts": shifts})
}

// CreateEvent creates a draft event with generated shifts
func (s *Server) CreateEvent(c *gin.Context) {
	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	templates, err := toTemplates(req.Shifts)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, shifts, err := services.CreateEvent(c.Request.Context(), s.stores.Events, s.logger,
		services.NewEvent{
			Name:        req.Name,
			Description: req.Description,
			Location:    req.Location,
			Date:        req.Date,
			OrganizerID: caller(c),
		}, templates)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"event": event, "shifts": shifts})
}

// CreateCollegeEvent creates an event hosted under a new college profile
func (s *Server) CreateCollegeEvent(c *gin.Context) {
	var req createCollegeEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	templates, err := toTemplates(req.Shifts)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := services.CreateCollegeEvent(c.Request.Context(), s.stores.Events, s.logger,
		req.CollegeName, req.ImageURL,
		services.NewEvent{
			Name:        req.Name,
			Description: req.Description,
			Location:    req.Location,
			Date:        req.Date,
			OrganizerID: caller(c),
		}, templates)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"event": event})
}

// PublishEvent moves a draft event to published
func (s *Server) PublishEvent(c *gin.Context) {
	if err := services.PublishEvent(c.Request.Context(), s.stores.Events, s.logger, c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "published"})
}

// StartEvent moves a published event to ongoing
func (s *Server) StartEvent(c *gin.Context) {
	if err := services.StartEvent(c.Request.Context(), s.stores.Events, s.logger, c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ongoing"})
}

// CompleteEvent moves an ongoing event to completed
func (s *Server) CompleteEvent(c *gin.Context) {
	if err := services.CompleteEvent(c.Request.Context(), s.stores.Events, s.logger, c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "completed"})
}
