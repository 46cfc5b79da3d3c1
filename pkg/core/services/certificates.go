package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/volunteerhq/rosterd/pkg/db"
)

// Certificate is the record handed to the external certificate composer.
// Hours come from ShiftHours, the same calculation completion accounting
// uses, so the two never disagree for the same shift times.
type Certificate struct {
	VolunteerName string
	EventName     string
	Roles         []string
	Hours         float64
}

// BuildCertificate assembles certificate data for a volunteer's completed
// work on an event. A volunteer with no completed entries for the event
// gets ErrNotFound.
func BuildCertificate(ctx context.Context, roster db.RosterStore, volunteers db.VolunteerStore, logger *zap.Logger, volunteerID, eventID string) (*Certificate, error) {
	volunteer, err := volunteers.GetVolunteer(ctx, volunteerID)
	if err != nil {
		return nil, err
	}

	entries, err := roster.GetEntriesByVolunteer(ctx, volunteerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roster entries: %w", err)
	}

	cert := &Certificate{VolunteerName: volunteer.Name}
	for _, e := range entries {
		if e.EventID != eventID || e.Entry.Status != db.EntryCompleted {
			continue
		}
		cert.EventName = e.EventName
		cert.Roles = append(cert.Roles, e.Shift.Role)
		cert.Hours += ShiftHours(e.Shift.Start, e.Shift.End)
	}

	if cert.EventName == "" {
		return nil, db.ErrNotFound
	}

	logger.Info("Certificate built",
		zap.String("volunteer_id", volunteerID),
		zap.String("event_id", eventID),
		zap.Float64("hours", cert.Hours))

	return cert, nil
}
