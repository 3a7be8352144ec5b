package notify

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wellnessflow/booking-api/internal/bookings"
	"github.com/wellnessflow/booking-api/pkg/logging"
)

// ChannelConfig controls the email notification channel.
type ChannelConfig struct {
	// AttachICS selects the calendar-file mode instead of a link-only body.
	AttachICS bool
	// IncludeCalendarLink adds the calendar event link to the body when one
	// was produced upstream.
	IncludeCalendarLink bool
	// TempDir overrides where ICS files are staged. Empty means the system
	// temp dir.
	TempDir string
	// Organizer identity embedded in generated ICS events.
	OrganizerName  string
	OrganizerEmail string
}

// Channel emails a booking confirmation, optionally with a generated
// calendar attachment. The temporary attachment file is removed after the
// send attempt on both success and failure paths.
type Channel struct {
	sender EmailSender
	cfg    ChannelConfig
	logger *logging.Logger
}

// NewChannel builds the email channel.
func NewChannel(sender EmailSender, cfg ChannelConfig, logger *logging.Logger) *Channel {
	if logger == nil {
		logger = logging.Default()
	}
	return &Channel{sender: sender, cfg: cfg, logger: logger}
}

var _ bookings.Channel = (*Channel)(nil)

// Name implements bookings.Channel.
func (c *Channel) Name() string { return "email" }

// Attempt sends the confirmation email. Bookings without an email address
// are skipped; every send failure resolves to a failed outcome.
func (c *Channel) Attempt(ctx context.Context, ev bookings.Event) bookings.Outcome {
	b := ev.Booking
	out := bookings.Outcome{Channel: c.Name()}

	if b.Email == "" {
		out.Skipped = true
		out.Reason = "no email address"
		return out
	}
	if c.sender == nil {
		out.Reason = "email sender not configured"
		return out
	}

	msg := EmailMessage{
		To:      b.Email,
		ToName:  b.CustomerName,
		Subject: "Tu cita ha sido reservada - Añádela a tu calendario",
		Body:    c.plainBody(ev),
	}

	if c.cfg.AttachICS {
		path, err := writeICSFile(c.cfg.TempDir, b, c.cfg.OrganizerName, c.cfg.OrganizerEmail)
		if err != nil {
			out.Reason = err.Error()
			c.logger.Error("ics generation failed", "booking_id", b.ID, "error", err)
			return out
		}
		// The temp file must not outlive the attempt, whatever happens
		// during the send.
		defer os.Remove(path)

		content, err := os.ReadFile(path)
		if err != nil {
			out.Reason = err.Error()
			c.logger.Error("ics read failed", "booking_id", b.ID, "error", err)
			return out
		}
		msg.Attachment = &Attachment{
			Filename:    filepath.Base(path),
			ContentType: "text/calendar",
			Content:     content,
		}
	} else if c.cfg.IncludeCalendarLink && ev.CalendarLink != "" {
		msg.HTML = fmt.Sprintf(
			"<h2>Gracias por tu reserva</h2><p>Puedes añadirla a tu calendario con este enlace:</p><a href=%q target=\"_blank\">%s</a>",
			ev.CalendarLink, ev.CalendarLink,
		)
	}

	if err := c.sender.Send(ctx, msg); err != nil {
		out.Reason = err.Error()
		return out
	}

	out.OK = true
	return out
}

func (c *Channel) plainBody(ev bookings.Event) string {
	b := ev.Booking
	body := fmt.Sprintf(
		"Hola %s,\n\nTu reserva de %s ha sido confirmada.\n\nFecha: %s\nHora: %s\n",
		b.CustomerName, b.TherapyType, b.Date, b.Time,
	)
	if c.cfg.IncludeCalendarLink && ev.CalendarLink != "" {
		body += "\nAñádela a tu calendario: " + ev.CalendarLink + "\n"
	}
	return body
}
