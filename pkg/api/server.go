package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/volunteerhq/rosterd/internal/config"
	"github.com/volunteerhq/rosterd/pkg/clients/genclient"
	"github.com/volunteerhq/rosterd/pkg/core/services"
	"github.com/volunteerhq/rosterd/pkg/db"
)

// Stores bundles the store interfaces the handlers consume
type Stores struct {
	Events     db.EventStore
	Shifts     db.ShiftStore
	Roster     db.RosterStore
	Swaps      db.SwapStore
	Volunteers db.VolunteerStore
	Stats      db.StatsStore
}

// Server wires the HTTP surface to the service layer
type Server struct {
	cfg      *config.Config
	logger   *zap.Logger
	stores   Stores
	gen      *genclient.Client
	notifier services.Notifier
}

// NewServer creates a new API server. gen and notifier may be nil when the
// corresponding integrations are disabled.
func NewServer(cfg *config.Config, logger *zap.Logger, stores Stores, gen *genclient.Client, notifier services.Notifier) *Server {
	return &Server{
		cfg:      cfg,
		logger:   logger,
		stores:   stores,
		gen:      gen,
		notifier: notifier,
	}
}

// Router builds the gin engine with all routes registered
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.POST("/signup", s.Signup)
	r.POST("/login", s.Login)

	authorized := r.Group("/api")
	authorized.Use(s.AuthMiddleware())
	{
		authorized.GET("/events", s.ListEvents)
		authorized.GET("/events/:id", s.GetEvent)
		authorized.POST("/events", s.CreateEvent)
		authorized.POST("/events/college", s.CreateCollegeEvent)
		authorized.POST("/events/:id/publish", s.PublishEvent)
		authorized.POST("/events/:id/start", s.StartEvent)
		authorized.POST("/events/:id/complete", s.CompleteEvent)
		authorized.GET("/events/:id/shifts", s.ListShifts)
		authorized.POST("/events/:id/join", s.JoinShift)
		authorized.GET("/events/:id/roster.csv", s.ExportRosterCSV)
		authorized.GET("/events/:id/certificate", s.GetCertificate)

		authorized.GET("/roster", s.MySchedule)
		authorized.GET("/roster/calendar.ics", s.ExportScheduleICS)
		authorized.POST("/roster/:id/change", s.ChangeShift)
		authorized.POST("/roster/:id/checkin", s.CheckIn)
		authorized.POST("/roster/:id/complete", s.Complete)
		authorized.DELETE("/roster/:id", s.CancelEntry)

		authorized.GET("/swaps", s.ListSwaps)
		authorized.POST("/swaps", s.CreateSwap)
		authorized.POST("/swaps/:id/respond", s.RespondSwap)

		authorized.GET("/dashboard", s.Dashboard)

		authorized.POST("/ai/describe", s.GenerateDescription)
		authorized.POST("/ai/match", s.MatchVolunteers)
	}

	return r
}

// Run starts the HTTP server on the configured address
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.cfg.ListenAddr))
	srv := &http.Server{
		Addr:    s.cfg.ListenAddr,
		Handler: s.Router(),
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		return srv.Shutdown(context.Background())
	}
}

// fail maps a service error to an HTTP response. Business-rule failures
// carry their own status; anything else is logged and reported generically.
func (s *Server) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, db.ErrAlreadyJoined):
		c.JSON(http.StatusConflict, gin.H{"error": "already joined"})
	case errors.Is(err, db.ErrShiftFull):
		c.JSON(http.StatusConflict, gin.H{"error": "shift is full"})
	case errors.Is(err, db.ErrDuplicateSwap):
		c.JSON(http.StatusConflict, gin.H{"error": "a pending swap already exists for this entry"})
	case errors.Is(err, db.ErrAlreadyResolved):
		c.JSON(http.StatusConflict, gin.H{"error": "swap request already resolved"})
	case errors.Is(err, db.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "account already exists"})
	case errors.Is(err, db.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	default:
		s.logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
