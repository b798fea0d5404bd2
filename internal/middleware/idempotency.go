package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const (
	idempotencyKeyHeader = "Idempotency-Key"
	idempotencyPrefix    = "idempotency:v2:"
	inProgressMarker     = "__in_progress__"
	replayHeader         = "Idempotent-Replayed"
	storeTimeout         = 2 * time.Second

	// codeInFlight marks the 409 sent while the first request holding a key is
	// still running. Clients retry it; it never means the resource exists.
	codeInFlight       = "request_in_flight"
	inFlightRetryAfter = "1"
)

// replay is a stored 2xx response.
type replay struct {
	Status  int               `json:"status"`
	Body    string            `json:"body"`
	Headers map[string]string `json:"headers"`
}

type idempotencyStore struct {
	cache  *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// Idempotency replays the stored response of a successful request carrying the
// same Idempotency-Key on the same route. Only 2xx responses are stored, so a
// failed submission can be retried with its original key. The body is not
// compared: a retried registration carries a fresh createdAt. Requests without
// the header, and every request when cache is nil, pass through untouched.
func Idempotency(cache *redis.Client, ttl time.Duration, logger *slog.Logger) fiber.Handler {
	store := &idempotencyStore{cache: cache, ttl: ttl, logger: logger}
	return func(c *fiber.Ctx) error {
		method := strings.ToUpper(c.Method())
		switch method {
		case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
			return c.Next()
		}
		key := strings.TrimSpace(c.Get(idempotencyKeyHeader))
		if key == "" || cache == nil {
			return c.Next()
		}

		cacheKey := idempotencyPrefix + method + ":" + c.Path() + ":" + key

		found, err := store.lookup(cacheKey)
		switch {
		case err != nil:
			store.logger.Error("idempotency lookup failed", slog.String("key", key), slog.Any("error", err))
			return fiber.NewError(fiber.StatusInternalServerError, "idempotency store failure")
		case found != nil:
			return found.send(c)
		}

		if err := store.reserve(cacheKey); err != nil {
			if errors.Is(err, errInFlight) {
				c.Set(fiber.HeaderRetryAfter, inFlightRetryAfter)
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{
					"error":   codeInFlight,
					"message": err.Error(),
				})
			}
			store.logger.Error("idempotency reservation failed", slog.String("key", key), slog.Any("error", err))
			return fiber.NewError(fiber.StatusInternalServerError, "idempotency reservation failure")
		}

		if err := c.Next(); err != nil {
			store.release(cacheKey)
			return err
		}
		status := c.Response().StatusCode()
		if status < 200 || status >= 300 {
			store.release(cacheKey)
			return nil
		}

		rec := replay{
			Status:  status,
			Body:    string(c.Response().Body()),
			Headers: map[string]string{},
		}
		c.Response().Header.VisitAll(func(k, v []byte) {
			rec.Headers[string(k)] = string(v)
		})
		if err := store.save(cacheKey, rec); err != nil {
			store.logger.Error("failed to persist idempotent response", slog.String("key", key), slog.Any("error", err))
			store.release(cacheKey)
		}
		return nil
	}
}

var (
	errInFlight  = errors.New("duplicate request currently processing")
	errCorrupted = errors.New("stored idempotent response is unreadable")
)

// lookup returns nil, nil when the key is unknown.
func (s *idempotencyStore) lookup(cacheKey string) (*replay, error) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	raw, err := s.cache.Get(ctx, cacheKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if raw == inProgressMarker {
		return nil, nil
	}
	var rec replay
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, errCorrupted
	}
	return &rec, nil
}

func (s *idempotencyStore) reserve(cacheKey string) error {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	ok, err := s.cache.SetNX(ctx, cacheKey, inProgressMarker, s.ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return errInFlight
	}
	return nil
}

func (s *idempotencyStore) save(cacheKey string, rec replay) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	return s.cache.Set(ctx, cacheKey, payload, s.ttl).Err()
}

func (s *idempotencyStore) release(cacheKey string) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	s.cache.Del(ctx, cacheKey)
}

func (r *replay) send(c *fiber.Ctx) error {
	for header, value := range r.Headers {
		if strings.EqualFold(header, fiber.HeaderContentLength) {
			continue
		}
		c.Set(header, value)
	}
	c.Set(replayHeader, "true")
	return c.Status(r.Status).SendString(r.Body)
}
