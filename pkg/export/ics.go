package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/volunteerhq/rosterd/pkg/db"
)

const icsTimeLayout = "20060102T150405Z"

// WriteScheduleICS writes an iCalendar file with one VEVENT per upcoming
// shift the volunteer holds. Entries whose shifts start before now are
// skipped. All timestamps are UTC.
func WriteScheduleICS(w io.Writer, entries []db.EntryWithShift, now time.Time) error {
	var b strings.Builder

	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("VERSION:2.0\r\n")
	b.WriteString("PRODID:-//volunteerhq//rosterd//EN\r\n")

	stamp := now.UTC().Format(icsTimeLayout)
	for _, e := range entries {
		if e.Shift.Start.Before(now) {
			continue
		}

		b.WriteString("BEGIN:VEVENT\r\n")
		fmt.Fprintf(&b, "UID:%s@rosterd\r\n", e.Entry.ID)
		fmt.Fprintf(&b, "DTSTAMP:%s\r\n", stamp)
		fmt.Fprintf(&b, "DTSTART:%s\r\n", e.Shift.Start.UTC().Format(icsTimeLayout))
		fmt.Fprintf(&b, "DTEND:%s\r\n", e.Shift.End.UTC().Format(icsTimeLayout))
		fmt.Fprintf(&b, "SUMMARY:%s\r\n", escapeICS(e.EventName+" - "+e.Shift.Role))
		b.WriteString("END:VEVENT\r\n")
	}

	b.WriteString("END:VCALENDAR\r\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write calendar: %w", err)
	}

	return nil
}

// escapeICS escapes the characters iCalendar text values reserve
func escapeICS(s string) string {
	r := strings.NewReplacer("\\", "\\\\", ";", "\\;", ",", "\\,", "\n", "\\n")
	return r.Replace(s)
}
