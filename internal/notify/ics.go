package notify

import (
	"fmt"
	"os"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/wellnessflow/booking-api/internal/bookings"
)

// writeICSFile renders the booking as a one-hour calendar event and writes
// it to a temporary .ics file. The caller owns removal of the returned path.
func writeICSFile(dir string, b *bookings.Booking, organizerName, organizerEmail string) (string, error) {
	start, err := time.Parse("2006-01-02 15:04", b.Date+" "+b.Time)
	if err != nil {
		return "", fmt.Errorf("notify: bad booking date/time %q %q: %w", b.Date, b.Time, err)
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodRequest)

	event := cal.AddEvent("reserva-" + b.ID)
	event.SetCreatedTime(time.Now())
	event.SetStartAt(start)
	event.SetEndAt(start.Add(time.Hour))
	event.SetSummary("Reserva: " + b.TherapyType)
	event.SetDescription(bookings.EventDescription(b))
	event.SetStatus(ics.ObjectStatusConfirmed)
	if organizerEmail != "" {
		event.SetOrganizer("mailto:"+organizerEmail, ics.WithCN(organizerName))
	}

	f, err := os.CreateTemp(dir, "reserva-*.ics")
	if err != nil {
		return "", fmt.Errorf("notify: create ics temp file: %w", err)
	}
	if _, err := f.WriteString(cal.Serialize()); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("notify: write ics file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("notify: close ics file: %w", err)
	}
	return f.Name(), nil
}
