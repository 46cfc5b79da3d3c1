package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/volunteerhq/rosterd/pkg/db"
)

// rosterHeader is the fixed first row of every roster export
var rosterHeader = []string{"entry_id", "volunteer_id", "event", "role", "shift_start", "shift_end", "status"}

// WriteRosterCSV writes a roster export to w. The header row is always
// written, so an empty roster yields a header-only file.
func WriteRosterCSV(w io.Writer, entries []db.EntryWithShift) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(rosterHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, e := range entries {
		record := []string{
			e.Entry.ID,
			e.Entry.VolunteerID,
			e.EventName,
			e.Shift.Role,
			e.Shift.Start.UTC().Format(time.RFC3339),
			e.Shift.End.UTC().Format(time.RFC3339),
			e.Entry.Status,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv record: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}

	return nil
}
