package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrSlotHeld is returned when another request is booking the same doctor slot
var ErrSlotHeld = errors.New("slot is being booked by another request")

const RedisSlotHoldKeyPrefix = "slot:hold:"

// releaseHoldScript deletes the hold only when it still carries our token, so an
// expired hold re-acquired by another request is left alone.
var releaseHoldScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// SlotHold is an acquired hold. Release it once the booking write has finished.
type SlotHold struct {
	key   string
	token string
}

// SlotHoldService serializes concurrent bookings of the same doctor and start time
type SlotHoldService interface {
	Acquire(ctx context.Context, doctorID uuid.UUID, startAt time.Time) (*SlotHold, error)
	Release(ctx context.Context, hold *SlotHold) error
}

type slotHoldService struct {
	redisClient *redis.Client
	log         *logrus.Logger
	ttl         time.Duration
}

func NewSlotHoldService(redisClient *redis.Client, log *logrus.Logger, ttl time.Duration) SlotHoldService {
	return &slotHoldService{redisClient: redisClient, log: log, ttl: ttl}
}

func slotHoldKey(doctorID uuid.UUID, startAt time.Time) string {
	return fmt.Sprintf("%s%s:%d", RedisSlotHoldKeyPrefix, doctorID.String(), startAt.Unix())
}

func (s *slotHoldService) Acquire(ctx context.Context, doctorID uuid.UUID, startAt time.Time) (*SlotHold, error) {
	hold := &SlotHold{key: slotHoldKey(doctorID, startAt), token: uuid.NewString()}

	ok, err := s.redisClient.SetNX(ctx, hold.key, hold.token, s.ttl).Result()
	if err != nil {
		s.log.Warnf("Failed to acquire slot hold %s: %+v", hold.key, err)
		return nil, fmt.Errorf("acquire slot hold: %w", err)
	}
	if !ok {
		return nil, ErrSlotHeld
	}

	s.log.Debugf("Acquired slot hold %s", hold.key)
	return hold, nil
}

func (s *slotHoldService) Release(ctx context.Context, hold *SlotHold) error {
	if hold == nil {
		return nil
	}

	deleted, err := releaseHoldScript.Run(ctx, s.redisClient, []string{hold.key}, hold.token).Int()
	if err != nil {
		s.log.Warnf("Failed to release slot hold %s: %+v", hold.key, err)
		return fmt.Errorf("release slot hold: %w", err)
	}
	if deleted == 0 {
		s.log.Debugf("Slot hold %s already expired", hold.key)
	}
	return nil
}
