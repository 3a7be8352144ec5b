package whatsapp

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wellnessflow/booking-api/pkg/logging"
)

// InteractionStore tracks the last user-initiated contact per phone number
// so sends can prefer freeform messages inside the provider's interaction
// window.
type InteractionStore interface {
	// Touch records an interaction happening now.
	Touch(ctx context.Context, phone string) error
	// Recent reports whether the number interacted within the window.
	Recent(ctx context.Context, phone string) (bool, error)
}

// RedisInteractionStore keeps one TTL key per normalized phone number.
type RedisInteractionStore struct {
	client *redis.Client
	window time.Duration
}

// NewRedisInteractionStore builds a store with the given window TTL.
func NewRedisInteractionStore(client *redis.Client, window time.Duration) *RedisInteractionStore {
	if window <= 0 {
		window = 24 * time.Hour
	}
	return &RedisInteractionStore{client: client, window: window}
}

var _ InteractionStore = (*RedisInteractionStore)(nil)

func interactionKey(phone string) string {
	return "whatsapp:interaction:" + phone
}

// Touch records an interaction, resetting the window.
func (s *RedisInteractionStore) Touch(ctx context.Context, phone string) error {
	if err := s.client.Set(ctx, interactionKey(phone), time.Now().UTC().Format(time.RFC3339), s.window).Err(); err != nil {
		return fmt.Errorf("whatsapp: record interaction: %w", err)
	}
	return nil
}

// Recent reports whether the window key still exists.
func (s *RedisInteractionStore) Recent(ctx context.Context, phone string) (bool, error) {
	n, err := s.client.Exists(ctx, interactionKey(phone)).Result()
	if err != nil {
		return false, fmt.Errorf("whatsapp: check interaction: %w", err)
	}
	return n > 0, nil
}

// NoopInteractionStore reports every number as outside the window. Used
// when Redis is not configured; the channel then always leads with the
// approved template, which is the safe default.
type NoopInteractionStore struct {
	logger *logging.Logger
}

// NewNoopInteractionStore creates the fallback store.
func NewNoopInteractionStore(logger *logging.Logger) *NoopInteractionStore {
	if logger == nil {
		logger = logging.Default()
	}
	return &NoopInteractionStore{logger: logger}
}

var _ InteractionStore = (*NoopInteractionStore)(nil)

func (s *NoopInteractionStore) Touch(ctx context.Context, phone string) error {
	s.logger.Debug("interaction store disabled, dropping interaction", "phone", phone)
	return nil
}

func (s *NoopInteractionStore) Recent(ctx context.Context, phone string) (bool, error) {
	return false, nil
}
