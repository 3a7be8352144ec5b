package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wellnessflow/booking-api/internal/observability/metrics"
	"github.com/wellnessflow/booking-api/pkg/logging"
)

var bookingsTracer = otel.Tracer("wellnessflow.internal.bookings")

// Event is the notification payload handed to each channel. CalendarLink
// is filled in once the calendar channel has produced a link, so channels
// running later can reference it.
type Event struct {
	Booking      *Booking
	CalendarLink string
}

// Outcome reports the result of one channel attempt. Channels resolve
// every failure internally; an Outcome is never an error the orchestrator
// propagates.
type Outcome struct {
	Channel   string
	OK        bool
	Skipped   bool
	Reason    string
	Link      string
	MessageID string
}

// Status returns the metrics label for the outcome.
func (o Outcome) Status() string {
	switch {
	case o.Skipped:
		return "skipped"
	case o.OK:
		return "ok"
	}
	return "failed"
}

// Channel is one external notification side effect. Implementations must
// not panic and must honor ctx cancellation; anything that goes wrong is
// reported through the Outcome.
type Channel interface {
	Name() string
	Attempt(ctx context.Context, ev Event) Outcome
}

// Service orchestrates booking submission: validation, slot uniqueness,
// persistence and best-effort notification fan-out.
type Service struct {
	repo          Repository
	channels      []Channel
	notifyTimeout time.Duration
	metrics       *metrics.BookingMetrics
	logger        *logging.Logger
}

// NewService constructs the booking orchestrator. Channels run in the
// given order on every successful submission.
func NewService(repo Repository, channels []Channel, notifyTimeout time.Duration, m *metrics.BookingMetrics, logger *logging.Logger) *Service {
	if repo == nil {
		panic("bookings: repository required")
	}
	if notifyTimeout <= 0 {
		notifyTimeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		repo:          repo,
		channels:      channels,
		notifyTimeout: notifyTimeout,
		metrics:       m,
		logger:        logger,
	}
}

// Submit validates and persists a booking, then drives the notification
// channels. Once the insert succeeds the booking is durable: channel
// failures are logged and counted but never affect the returned booking.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*Booking, error) {
	ctx, span := bookingsTracer.Start(ctx, "bookings.submit")
	defer span.End()

	b, err := s.buildBooking(req)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(
		attribute.String("wellnessflow.therapy_type", b.TherapyType),
		attribute.String("wellnessflow.date", b.Date),
		attribute.String("wellnessflow.time", b.Time),
	)

	// Pre-check keeps the common duplicate path cheap; the unique index
	// behind Insert is what actually closes the race.
	if _, err := s.repo.FindBySlot(ctx, b.Date, b.Time, b.TherapyType); err == nil {
		s.metrics.ObserveConflict()
		return nil, fmt.Errorf("%w: %s %s %s", ErrSlotTaken, b.Date, b.Time, b.TherapyType)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if err := s.repo.Insert(ctx, b); err != nil {
		if errors.Is(err, ErrSlotTaken) {
			s.metrics.ObserveConflict()
			return nil, fmt.Errorf("%w: %s %s %s", ErrSlotTaken, b.Date, b.Time, b.TherapyType)
		}
		span.RecordError(err)
		return nil, err
	}
	s.metrics.ObserveCreated()
	s.logger.Info("booking persisted",
		"booking_id", b.ID,
		"therapy_type", b.TherapyType,
		"date", b.Date,
		"time", b.Time,
	)

	s.notify(ctx, b)
	return b, nil
}

// buildBooking validates the request and assembles the booking record,
// including the per-type detail projection.
func (s *Service) buildBooking(req SubmitRequest) (*Booking, error) {
	if strings.TrimSpace(req.CustomerName) == "" {
		return nil, fmt.Errorf("%w: customerName is required", ErrValidation)
	}
	if strings.TrimSpace(req.TherapyType) == "" {
		return nil, fmt.Errorf("%w: terapiasType is required", ErrValidation)
	}
	if strings.TrimSpace(req.Status) == "" {
		return nil, fmt.Errorf("%w: status is required", ErrValidation)
	}
	status := Status(req.Status)
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, req.Status)
	}

	date, timeOfDay, ok := strings.Cut(req.DateTime, " ")
	if !ok || date == "" || timeOfDay == "" {
		return nil, fmt.Errorf("%w: dateTime must be \"YYYY-MM-DD HH:MM\"", ErrValidation)
	}

	detail, comment := projectDetail(req.TherapyType, req.Extra)
	return &Booking{
		ID:           uuid.NewString(),
		CustomerName: req.CustomerName,
		TherapyType:  req.TherapyType,
		Date:         date,
		Time:         timeOfDay,
		Status:       status,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		Detail:       detail,
		Comment:      comment,
	}, nil
}

// notify runs every channel in order with a bounded timeout each. Failure
// of one channel never blocks the next.
func (s *Service) notify(ctx context.Context, b *Booking) {
	ev := Event{Booking: b}
	for _, ch := range s.channels {
		chCtx, cancel := context.WithTimeout(ctx, s.notifyTimeout)
		out := ch.Attempt(chCtx, ev)
		cancel()

		s.metrics.ObserveNotification(ch.Name(), out.Status())
		switch {
		case out.Skipped:
			s.logger.Info("notification skipped", "channel", ch.Name(), "booking_id", b.ID, "reason", out.Reason)
		case out.OK:
			s.logger.Info("notification sent",
				"channel", ch.Name(),
				"booking_id", b.ID,
				"link", out.Link,
				"message_id", out.MessageID,
			)
		default:
			s.logger.Error("notification failed", "channel", ch.Name(), "booking_id", b.ID, "reason", out.Reason)
		}

		if out.Link != "" {
			ev.CalendarLink = out.Link
		}
	}
}

// Get returns one booking by id.
func (s *Service) Get(ctx context.Context, id string) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns bookings matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Booking, error) {
	return s.repo.List(ctx, filter)
}

// Update applies the non-nil fields of req to the stored booking. Status
// edits must follow the booked -> completed/cancelled state machine.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		next := Status(*req.Status)
		if !next.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, *req.Status)
		}
		if !b.Status.CanTransitionTo(next) {
			return nil, fmt.Errorf("%w: cannot move booking from %s to %s", ErrValidation, b.Status, next)
		}
		b.Status = next
	}
	if req.CustomerName != nil {
		b.CustomerName = *req.CustomerName
	}
	if req.TherapyType != nil {
		b.TherapyType = *req.TherapyType
	}
	if req.Date != nil {
		b.Date = *req.Date
	}
	if req.Time != nil {
		b.Time = *req.Time
	}
	if req.Email != nil {
		b.Email = *req.Email
	}
	if req.PhoneNumber != nil {
		b.PhoneNumber = *req.PhoneNumber
	}
	if req.Detail != nil {
		b.Detail = *req.Detail
	}
	if req.Comment != nil {
		b.Comment = *req.Comment
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	s.logger.Info("booking updated", "booking_id", b.ID, "status", b.Status)
	return b, nil
}

// Delete removes a booking. Nothing cascades: notification channels are
// not informed of deletions.
func (s *Service) Delete(ctx context.Context, id string) (*Booking, error) {
	b, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("booking deleted", "booking_id", b.ID)
	return b, nil
}
