package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/volunteerhq/rosterd/pkg/db"
)

type signupRequest struct {
	Name     string   `json:"name" binding:"required"`
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password" binding:"required,min=8"`
	Skills   []string `json:"skills"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type volunteerResponse struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Skills     []string `json:"skills"`
	TotalHours float64  `json:"total_hours"`
	EventCount int      `json:"event_count"`
}

func toVolunteerResponse(v *db.Volunteer) volunteerResponse {
	return volunteerResponse{
		ID:         v.ID,
		Name:       v.Name,
		Email:      v.Email,
		Skills:     v.Skills,
		TotalHours: v.TotalHours,
		EventCount: v.EventCount,
	}
}

// Signup registers a new volunteer account
func (s *Server) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.fail(c, err)
		return
	}

	volunteer := &db.Volunteer{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Skills:       req.Skills,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.stores.Volunteers.InsertVolunteer(c.Request.Context(), volunteer); err != nil {
		s.fail(c, err)
		return
	}

	s.logger.Info("Volunteer registered", zap.String("volunteer_id", volunteer.ID))
	c.JSON(http.StatusCreated, toVolunteerResponse(volunteer))
}

// Login verifies credentials and issues a session token
func (s *Server) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	volunteer, err := s.stores.Volunteers.GetVolunteerByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		s.fail(c, err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(volunteer.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := s.GenerateToken(volunteer.ID)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "volunteer": toVolunteerResponse(volunteer)})
}
