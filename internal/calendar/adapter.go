package calendar

import (
	"context"
	"fmt"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/wellnessflow/booking-api/internal/bookings"
	"github.com/wellnessflow/booking-api/pkg/logging"
)

// PlaceholderLink is returned when an event cannot be created, so callers
// that expect a calendar link never see an empty value.
const PlaceholderLink = "https://calendar.google.com/"

const eventDuration = time.Hour

// EventInserter submits one event to the external calendar service.
// The real implementation wraps the Google Calendar API; tests inject
// stubs.
type EventInserter interface {
	Insert(ctx context.Context, calendarID string, ev *gcal.Event) (*gcal.Event, error)
}

// Config holds the calendar channel configuration.
type Config struct {
	CredentialsJSON string
	CalendarID      string
	Timezone        string
}

// Channel creates calendar events for confirmed bookings. Every failure
// mode (missing credentials, permission denied, calendar not found) is
// absorbed into a degraded outcome carrying the placeholder link.
type Channel struct {
	inserter   EventInserter
	calendarID string
	timezone   string
	logger     *logging.Logger
}

// New builds the channel against the Google Calendar API. Missing
// credentials do not fail construction: the channel then degrades every
// attempt instead of blocking startup.
func New(ctx context.Context, cfg Config, logger *logging.Logger) (*Channel, error) {
	if logger == nil {
		logger = logging.Default()
	}
	ch := &Channel{
		calendarID: cfg.CalendarID,
		timezone:   cfg.Timezone,
		logger:     logger,
	}
	if ch.timezone == "" {
		ch.timezone = "Europe/Madrid"
	}
	if cfg.CredentialsJSON == "" {
		logger.Warn("calendar credentials not configured, channel will degrade")
		return ch, nil
	}

	svc, err := gcal.NewService(ctx, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)), option.WithScopes(gcal.CalendarScope))
	if err != nil {
		return nil, fmt.Errorf("calendar: build service: %w", err)
	}
	ch.inserter = &googleInserter{events: svc.Events}
	return ch, nil
}

// NewWithInserter wires a custom inserter, used by tests.
func NewWithInserter(inserter EventInserter, calendarID, timezone string, logger *logging.Logger) *Channel {
	if logger == nil {
		logger = logging.Default()
	}
	return &Channel{inserter: inserter, calendarID: calendarID, timezone: timezone, logger: logger}
}

var _ bookings.Channel = (*Channel)(nil)

// Name implements bookings.Channel.
func (c *Channel) Name() string { return "calendar" }

// Attempt creates a one-hour event for the booking. On any failure it
// returns a degraded outcome with the placeholder link instead of an error.
func (c *Channel) Attempt(ctx context.Context, ev bookings.Event) bookings.Outcome {
	b := ev.Booking
	out := bookings.Outcome{Channel: c.Name(), Link: PlaceholderLink}

	if c.inserter == nil || c.calendarID == "" {
		out.Skipped = true
		out.Reason = "calendar not configured"
		return out
	}

	start, end, err := eventWindow(b.Date, b.Time)
	if err != nil {
		out.Reason = err.Error()
		c.logger.Error("calendar event rejected", "booking_id", b.ID, "error", err)
		return out
	}

	event := &gcal.Event{
		Summary:     "Reserva: " + b.TherapyType,
		Description: bookings.EventDescription(b),
		Start:       &gcal.EventDateTime{DateTime: start, TimeZone: c.timezone},
		End:         &gcal.EventDateTime{DateTime: end, TimeZone: c.timezone},
	}
	if b.Email != "" {
		event.Attendees = []*gcal.EventAttendee{{Email: b.Email}}
	}

	created, err := c.inserter.Insert(ctx, c.calendarID, event)
	if err != nil {
		out.Reason = err.Error()
		c.logger.Error("calendar insert failed", "booking_id", b.ID, "calendar_id", c.calendarID, "error", err)
		return out
	}

	out.OK = true
	if created.HtmlLink != "" {
		out.Link = created.HtmlLink
	}
	return out
}

// eventWindow renders start/end timestamps in the local (timezone-tagged)
// RFC3339 form the Calendar API expects.
func eventWindow(date, timeOfDay string) (start, end string, err error) {
	t, err := time.Parse("2006-01-02 15:04", date+" "+timeOfDay)
	if err != nil {
		return "", "", fmt.Errorf("calendar: bad booking date/time %q %q: %w", date, timeOfDay, err)
	}
	const layout = "2006-01-02T15:04:05"
	return t.Format(layout), t.Add(eventDuration).Format(layout), nil
}

// googleInserter adapts the generated Calendar API client.
type googleInserter struct {
	events *gcal.EventsService
}

func (g *googleInserter) Insert(ctx context.Context, calendarID string, ev *gcal.Event) (*gcal.Event, error) {
	// sendUpdates invites the attendee by email, matching the booking
	// confirmation the customer already received.
	return g.events.Insert(calendarID, ev).SendUpdates("all").Context(ctx).Do()
}
