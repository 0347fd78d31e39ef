// Package admin implements the contact submissions dashboard: loading,
// sorting, local dismissal and spreadsheet export.
package admin

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"dosadelight/internal/model"

	"github.com/rs/zerolog"
)

// LoadFailedMessage is shown when submissions cannot be fetched.
const LoadFailedMessage = "Failed to load submissions"

// Status is the loading state of the dashboard.
type Status int

const (
	Loading Status = iota
	Ready
	Empty
	Failed
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Empty:
		return "empty"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// SortField is a column the dashboard can sort on.
type SortField string

const (
	SortByName  SortField = "name"
	SortByEmail SortField = "email"
	SortByDate  SortField = "date"
)

// ParseSortField validates a field name.
func ParseSortField(s string) (SortField, error) {
	switch f := SortField(s); f {
	case SortByName, SortByEmail, SortByDate:
		return f, nil
	default:
		return "", fmt.Errorf("unknown sort field %q (must be name, email or date)", s)
	}
}

// Direction is the sort order.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ContactSource fetches the stored contact submissions.
type ContactSource interface {
	ListContacts(ctx context.Context) ([]model.Contact, error)
}

// Dashboard holds the contact submissions shown to an admin.
type Dashboard struct {
	source ContactSource
	logger zerolog.Logger

	mu        sync.Mutex
	status    Status
	message   string
	contacts  []model.Contact
	field     SortField
	direction Direction
}

// NewDashboard creates a dashboard sorted newest first.
func NewDashboard(source ContactSource, logger zerolog.Logger) *Dashboard {
	return &Dashboard{
		source:    source,
		logger:    logger.With().Str("component", "admin-dashboard").Logger(),
		status:    Loading,
		contacts:  []model.Contact{},
		field:     SortByDate,
		direction: Descending,
	}
}

// Load fetches submissions, replacing anything loaded before.
func (d *Dashboard) Load(ctx context.Context) error {
	d.mu.Lock()
	d.status = Loading
	d.message = ""
	d.mu.Unlock()

	contacts, err := d.source.ListContacts(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()

	if err != nil {
		d.logger.Error().Err(err).Msg("failed to load submissions")
		d.status = Failed
		d.message = LoadFailedMessage
		d.contacts = []model.Contact{}
		return fmt.Errorf("%s: %w", LoadFailedMessage, err)
	}

	d.contacts = contacts
	if d.contacts == nil {
		d.contacts = []model.Contact{}
	}
	d.refreshStatus()

	d.logger.Debug().Int("submissions", len(d.contacts)).Msg("submissions loaded")

	return nil
}

// refreshStatus derives Ready or Empty from the current list. Callers hold mu.
func (d *Dashboard) refreshStatus() {
	if len(d.contacts) == 0 {
		d.status = Empty
	} else {
		d.status = Ready
	}
}

// Status returns the loading state and, when Failed, the message to show.
func (d *Dashboard) Status() (Status, string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.status, d.message
}

// Sort selects field. Choosing the current field flips the direction; a new
// field starts ascending.
func (d *Dashboard) Sort(field SortField) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.field == field {
		if d.direction == Ascending {
			d.direction = Descending
		} else {
			d.direction = Ascending
		}
		return
	}

	d.field = field
	d.direction = Ascending
}

// Order returns the active sort field and direction.
func (d *Dashboard) Order() (SortField, Direction) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.field, d.direction
}

// Dismiss hides the submission with the given id from this dashboard. The
// stored record is untouched and reappears on the next Load.
func (d *Dashboard) Dismiss(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, c := range d.contacts {
		if c.ID == id {
			d.contacts = append(d.contacts[:i:i], d.contacts[i+1:]...)
			if d.status == Ready {
				d.refreshStatus()
			}
			return true
		}
	}
	return false
}

// Rows returns the visible submissions in the active sort order.
func (d *Dashboard) Rows() []model.Contact {
	d.mu.Lock()
	defer d.mu.Unlock()

	rows := make([]model.Contact, len(d.contacts))
	copy(rows, d.contacts)

	less := compareBy(d.field)
	if d.direction == Descending {
		sort.SliceStable(rows, func(i, j int) bool { return less(rows[j], rows[i]) })
	} else {
		sort.SliceStable(rows, func(i, j int) bool { return less(rows[i], rows[j]) })
	}

	return rows
}

// compareBy returns the ascending order for field. Text columns compare
// byte-wise; dates compare chronologically with unparseable dates first.
func compareBy(field SortField) func(a, b model.Contact) bool {
	switch field {
	case SortByName:
		return func(a, b model.Contact) bool { return strings.Compare(a.Name, b.Name) < 0 }
	case SortByEmail:
		return func(a, b model.Contact) bool { return strings.Compare(a.Email, b.Email) < 0 }
	default:
		return func(a, b model.Contact) bool {
			ta, _ := parseDate(a.Date)
			tb, _ := parseDate(b.Date)
			return ta.Before(tb)
		}
	}
}

// parseDate reads a stored submission date. Unparseable values yield the
// zero time.
func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
