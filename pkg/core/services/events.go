package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/volunteerhq/rosterd/pkg/db"
)

// NewEvent describes an event to create
type NewEvent struct {
	Name        string
	Description string
	Location    string
	Date        time.Time
	OrganizerID string
}

// ShiftTemplate describes the shifts to generate for an event. When RRule
// is set, one shift per occurrence is generated between the event date and
// Until; otherwise a single shift on the event date is created.
type ShiftTemplate struct {
	Role          string
	StartClock    string // "15:04" within each occurrence day
	DurationHours float64
	RequiredCount int
	RRule         string
	Until         time.Time
}

// CreateEvent creates a draft event together with its generated shifts.
// The event and shift rows are written in one store transaction, so a
// failed shift write never strands an event with no shifts.
func CreateEvent(ctx context.Context, events db.EventStore, logger *zap.Logger, newEvent NewEvent, templates []ShiftTemplate) (*db.Event, []db.Shift, error) {
	event := &db.Event{
		ID:          uuid.New().String(),
		Name:        newEvent.Name,
		Description: newEvent.Description,
		Location:    newEvent.Location,
		Date:        newEvent.Date.UTC(),
		Status:      db.EventDraft,
		OrganizerID: newEvent.OrganizerID,
	}

	generated, err := GenerateShifts(event.ID, event.Date, templates)
	if err != nil {
		return nil, nil, err
	}

	if err := events.InsertEvent(ctx, event, generated); err != nil {
		return nil, nil, fmt.Errorf("failed to insert event: %w", err)
	}

	logger.Info("Event created",
		zap.String("event_id", event.ID),
		zap.String("name", event.Name),
		zap.Int("shift_count", len(generated)))

	return event, generated, nil
}

// CreateCollegeEvent creates an event hosted under a new college profile.
// The college row, the event and its shifts are written in a single store
// transaction so an interrupted creation leaves no partial state behind.
func CreateCollegeEvent(ctx context.Context, events db.EventStore, logger *zap.Logger, collegeName, imageURL string, newEvent NewEvent, templates []ShiftTemplate) (*db.Event, error) {
	college := &db.College{
		ID:       uuid.New().String(),
		Name:     collegeName,
		ImageURL: imageURL,
	}
	event := &db.Event{
		ID:          uuid.New().String(),
		Name:        newEvent.Name,
		Description: newEvent.Description,
		Location:    newEvent.Location,
		Date:        newEvent.Date.UTC(),
		Status:      db.EventDraft,
		OrganizerID: newEvent.OrganizerID,
		CollegeID:   college.ID,
	}

	generated, err := GenerateShifts(event.ID, event.Date, templates)
	if err != nil {
		return nil, err
	}

	if err := events.InsertCollegeEvent(ctx, college, event, generated); err != nil {
		return nil, fmt.Errorf("failed to insert college event: %w", err)
	}

	logger.Info("College event created",
		zap.String("event_id", event.ID),
		zap.String("college_id", college.ID))

	return event, nil
}

// PublishEvent moves a draft event to published so volunteers can browse it
func PublishEvent(ctx context.Context, events db.EventStore, logger *zap.Logger, eventID string) error {
	return transitionEvent(ctx, events, logger, eventID, db.EventDraft, db.EventPublished)
}

// StartEvent moves a published event to ongoing when it begins
func StartEvent(ctx context.Context, events db.EventStore, logger *zap.Logger, eventID string) error {
	return transitionEvent(ctx, events, logger, eventID, db.EventPublished, db.EventOngoing)
}

// CompleteEvent moves an ongoing event to completed, after which entries
// can be completed and certificates issued
func CompleteEvent(ctx context.Context, events db.EventStore, logger *zap.Logger, eventID string) error {
	return transitionEvent(ctx, events, logger, eventID, db.EventOngoing, db.EventCompleted)
}

// transitionEvent advances an event's lifecycle status, refusing any move
// that does not start from the expected status
func transitionEvent(ctx context.Context, events db.EventStore, logger *zap.Logger, eventID, from, to string) error {
	event, err := events.GetEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if event.Status != from {
		return fmt.Errorf("event %s is %s, only %s events can move to %s", eventID, event.Status, from, to)
	}

	if err := events.SetEventStatus(ctx, eventID, to); err != nil {
		return fmt.Errorf("failed to set event status: %w", err)
	}

	logger.Info("Event status changed",
		zap.String("event_id", eventID),
		zap.String("status", to))
	return nil
}

// GenerateShifts expands shift templates into shift records. Recurring
// templates are expanded with their RRULE between the event date and the
// template's Until bound.
func GenerateShifts(eventID string, eventDate time.Time, templates []ShiftTemplate) ([]db.Shift, error) {
	var shifts []db.Shift

	for i, tmpl := range templates {
		if tmpl.RequiredCount <= 0 {
			return nil, fmt.Errorf("shift template %d: required count must be positive, got %d", i, tmpl.RequiredCount)
		}

		clock, err := time.Parse("15:04", tmpl.StartClock)
		if err != nil {
			return nil, fmt.Errorf("shift template %d: invalid start clock %q: %w", i, tmpl.StartClock, err)
		}

		days := []time.Time{eventDate}
		if tmpl.RRule != "" {
			rule, err := rrule.StrToRRule(tmpl.RRule)
			if err != nil {
				return nil, fmt.Errorf("shift template %d: invalid rrule: %w", i, err)
			}
			rule.DTStart(eventDate.UTC())
			until := tmpl.Until
			if until.IsZero() {
				until = eventDate.AddDate(0, 3, 0)
			}
			days = rule.Between(eventDate.UTC(), until.UTC(), true)
		}

		duration := time.Duration(tmpl.DurationHours * float64(time.Hour))
		for _, day := range days {
			start := time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, time.UTC)
			shifts = append(shifts, db.Shift{
				ID:            uuid.New().String(),
				EventID:       eventID,
				Role:          tmpl.Role,
				Start:         start,
				End:           start.Add(duration),
				RequiredCount: tmpl.RequiredCount,
			})
		}
	}

	return shifts, nil
}
