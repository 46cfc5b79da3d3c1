package api

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/volunteerhq/rosterd/pkg/core/services"
	"github.com/volunteerhq/rosterd/pkg/export"
)

// ExportRosterCSV streams an event's roster as CSV. An event with no
// entries yields a header-only file.
func (s *Server) ExportRosterCSV(c *gin.Context) {
	entries, err := s.stores.Roster.GetEntriesByEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteRosterCSV(&buf, entries); err != nil {
		s.fail(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="roster.csv"`)
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// ExportScheduleICS streams the caller's upcoming shifts as an iCalendar file
func (s *Server) ExportScheduleICS(c *gin.Context) {
	entries, err := s.stores.Roster.GetEntriesByVolunteer(c.Request.Context(), caller(c))
	if err != nil {
		s.fail(c, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteScheduleICS(&buf, entries, time.Now().UTC()); err != nil {
		s.fail(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="schedule.ics"`)
	c.Data(http.StatusOK, "text/calendar", buf.Bytes())
}

// GetCertificate returns certificate data for the caller's completed work
// on the event. The PDF itself is composed externally from this record.
func (s *Server) GetCertificate(c *gin.Context) {
	cert, err := services.BuildCertificate(c.Request.Context(), s.stores.Roster, s.stores.Volunteers,
		s.logger, caller(c), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"volunteer_name": cert.VolunteerName,
		"event_name":     cert.EventName,
		"roles":          cert.Roles,
		"hours":          cert.Hours,
	})
}
