package whatsapp

import (
	"context"
	"fmt"

	"github.com/wellnessflow/booking-api/internal/bookings"
	"github.com/wellnessflow/booking-api/pkg/logging"
)

// strategyKind distinguishes template sends, which are allowed outside the
// interaction window, from freeform sends, which are not.
type strategyKind int

const (
	kindTemplate strategyKind = iota
	kindFreeform
)

// strategy is one send attempt in the fallback chain: a name for logs and
// a closure over the prepared message.
type strategy struct {
	name string
	kind strategyKind
	send func(ctx context.Context, to string) (string, error)
}

// ChannelConfig controls the WhatsApp channel.
type ChannelConfig struct {
	// ContentSID identifies the approved confirmation template.
	ContentSID string
	// FallbackContentSID identifies a minimal approved template with no
	// variable substitutions, used as a late fallback.
	FallbackContentSID string
	// DefaultCountryCode is prepended to numbers without one.
	DefaultCountryCode string
	// MinPhoneDigits is the minimum digit count before any send is tried.
	MinPhoneDigits int
}

// Channel delivers WhatsApp booking confirmations through an ordered
// fallback chain. It resolves every failure internally; the orchestrator
// only ever sees an Outcome.
type Channel struct {
	sender Sender
	store  InteractionStore
	cfg    ChannelConfig
	logger *logging.Logger
}

// NewChannel builds the WhatsApp channel.
func NewChannel(sender Sender, store InteractionStore, cfg ChannelConfig, logger *logging.Logger) *Channel {
	if store == nil {
		store = NewNoopInteractionStore(logger)
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.MinPhoneDigits <= 0 {
		cfg.MinPhoneDigits = 9
	}
	return &Channel{sender: sender, store: store, cfg: cfg, logger: logger}
}

var _ bookings.Channel = (*Channel)(nil)

// Name implements bookings.Channel.
func (c *Channel) Name() string { return "whatsapp" }

// Attempt walks the fallback chain until one send succeeds or the chain is
// exhausted. A freeform rejection for being outside the interaction window
// forces the next attempt through a template.
func (c *Channel) Attempt(ctx context.Context, ev bookings.Event) bookings.Outcome {
	b := ev.Booking
	out := bookings.Outcome{Channel: c.Name()}

	if len(Digits(b.PhoneNumber)) < c.cfg.MinPhoneDigits {
		out.Skipped = true
		out.Reason = "no usable phone number"
		return out
	}
	if c.sender == nil {
		out.Reason = "whatsapp sender not configured"
		return out
	}

	normalized := Normalize(b.PhoneNumber, c.cfg.DefaultCountryCode)
	to := Address(normalized)

	recent, err := c.store.Recent(ctx, normalized)
	if err != nil {
		// Unknown window state is treated as outside the window.
		c.logger.Warn("interaction lookup failed, assuming no recent interaction", "phone", normalized, "error", err)
		recent = false
	}

	chain := c.buildChain(b, recent)
	var lastErr error
	for i := 0; i < len(chain); i++ {
		st := chain[i]
		sid, err := st.send(ctx, to)
		if err == nil {
			c.logger.Info("whatsapp message sent", "booking_id", b.ID, "strategy", st.name, "sid", sid)
			out.OK = true
			out.MessageID = sid
			out.Reason = st.name
			return out
		}

		lastErr = err
		c.logger.Warn("whatsapp send attempt failed", "booking_id", b.ID, "strategy", st.name, "error", err)
		if st.kind == kindFreeform && IsWindowError(err) {
			promoteTemplate(chain, i+1)
		}
	}

	if lastErr != nil {
		out.Reason = lastErr.Error()
	} else {
		out.Reason = "no send strategy available"
	}
	return out
}

// buildChain assembles the ordered strategies for one booking. Outside the
// window (or when the window state is unknown) the approved template leads;
// inside it the freeform message does.
func (c *Channel) buildChain(b *bookings.Booking, recent bool) []strategy {
	confirmTemplate := strategy{
		name: "approved-template",
		kind: kindTemplate,
		send: func(ctx context.Context, to string) (string, error) {
			if c.cfg.ContentSID == "" {
				return "", fmt.Errorf("whatsapp: confirmation template not configured")
			}
			return c.sender.SendTemplate(ctx, to, c.cfg.ContentSID, map[string]string{
				"1": b.CustomerName,
				"2": b.TherapyType,
				"3": b.Date,
				"4": b.Time,
			})
		},
	}
	freeform := strategy{
		name: "freeform",
		kind: kindFreeform,
		send: func(ctx context.Context, to string) (string, error) {
			body := fmt.Sprintf(
				"¡Hola %s!\n\nTu reserva de *%s* ha sido confirmada.\n\nFecha: %s\nHora: %s\n\nSi necesitas cancelar o cambiar tu cita, por favor contáctanos.\n\n¡Gracias por confiar en Wellness Flow!",
				b.CustomerName, b.TherapyType, b.Date, b.Time,
			)
			return c.sender.SendFreeform(ctx, to, body)
		},
	}

	var chain []strategy
	if recent {
		chain = append(chain, freeform, confirmTemplate)
	} else {
		chain = append(chain, confirmTemplate, freeform)
	}

	if c.cfg.FallbackContentSID != "" {
		chain = append(chain, strategy{
			name: "minimal-template",
			kind: kindTemplate,
			send: func(ctx context.Context, to string) (string, error) {
				return c.sender.SendTemplate(ctx, to, c.cfg.FallbackContentSID, nil)
			},
		})
	}
	if recent {
		chain = append(chain, strategy{
			name: "minimal-freeform",
			kind: kindFreeform,
			send: func(ctx context.Context, to string) (string, error) {
				return c.sender.SendFreeform(ctx, to, fmt.Sprintf("Reserva confirmada: %s, %s %s", b.TherapyType, b.Date, b.Time))
			},
		})
	}
	return chain
}

// promoteTemplate moves the first template strategy at or after index from
// to position from, so it runs next.
func promoteTemplate(chain []strategy, from int) {
	for i := from; i < len(chain); i++ {
		if chain[i].kind == kindTemplate {
			st := chain[i]
			copy(chain[from+1:i+1], chain[from:i])
			chain[from] = st
			return
		}
	}
}
