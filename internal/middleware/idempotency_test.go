package middleware

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lusoconnect/onboarding/internal/logging"
)

type idempotencyFixture struct {
	app     *fiber.App
	mr      *miniredis.Miniredis
	calls   int
	failing bool
}

func setupTestApp(t *testing.T) *idempotencyFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	f := &idempotencyFixture{app: fiber.New(), mr: mr}
	f.app.Use(Idempotency(cache, time.Minute, logging.Discard()))
	handler := func(c *fiber.Ctx) error {
		f.calls++
		if f.failing {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"outcome": "unavailable"})
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"call": f.calls})
	}
	f.app.Post("/wizards/:id/submit", handler)
	f.app.Post("/members", handler)
	return f
}

func (f *idempotencyFixture) post(t *testing.T, path, key string) (int, string, string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader("{}"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if key != "" {
		req.Header.Set(idempotencyKeyHeader, key)
	}
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode, string(body), resp.Header.Get(replayHeader)
}

func TestIdempotencyWithoutHeaderPassesThrough(t *testing.T) {
	f := setupTestApp(t)

	f.post(t, "/members", "")
	f.post(t, "/members", "")
	assert.Equal(t, 2, f.calls)
	assert.Empty(t, f.mr.Keys())
}

func TestIdempotencyReturnsCachedResponse(t *testing.T) {
	f := setupTestApp(t)

	status, body, replayed := f.post(t, "/wizards/w1/submit", "abc123")
	require.Equal(t, fiber.StatusCreated, status)
	assert.Empty(t, replayed)

	status2, body2, replayed2 := f.post(t, "/wizards/w1/submit", "abc123")
	assert.Equal(t, fiber.StatusCreated, status2)
	assert.Equal(t, body, body2)
	assert.Equal(t, "true", replayed2)
	assert.Equal(t, 1, f.calls)
}

func TestIdempotencyKeyIsScopedToRoute(t *testing.T) {
	f := setupTestApp(t)

	f.post(t, "/wizards/w1/submit", "same")
	f.post(t, "/wizards/w2/submit", "same")
	assert.Equal(t, 2, f.calls)
}

func TestIdempotencyDoesNotStoreFailures(t *testing.T) {
	f := setupTestApp(t)
	f.failing = true

	status, _, _ := f.post(t, "/members", "retry-me")
	require.Equal(t, fiber.StatusBadGateway, status)
	assert.Empty(t, f.mr.Keys(), "reservation released")

	f.failing = false
	status, _, replayed := f.post(t, "/members", "retry-me")
	assert.Equal(t, fiber.StatusCreated, status)
	assert.Empty(t, replayed)
	assert.Equal(t, 2, f.calls)
}

func TestIdempotencyRejectsInFlightDuplicate(t *testing.T) {
	f := setupTestApp(t)
	require.NoError(t, f.mr.Set(idempotencyPrefix+"POST:/members:busy", inProgressMarker))

	status, body, _ := f.post(t, "/members", "busy")
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Zero(t, f.calls)

	var out struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Equal(t, codeInFlight, out.Error)
	assert.NotEqual(t, "duplicate_email", out.Error)
}

func TestIdempotencyInFlightAsksForRetry(t *testing.T) {
	f := setupTestApp(t)
	require.NoError(t, f.mr.Set(idempotencyPrefix+"POST:/members:busy", inProgressMarker))

	req := httptest.NewRequest(fiber.MethodPost, "/members", strings.NewReader("{}"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set(idempotencyKeyHeader, "busy")
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, inFlightRetryAfter, resp.Header.Get(fiber.HeaderRetryAfter))
}

func TestIdempotencyCorruptedRecordFails(t *testing.T) {
	f := setupTestApp(t)
	require.NoError(t, f.mr.Set(idempotencyPrefix+"POST:/members:broken", "{not json"))

	status, _, _ := f.post(t, "/members", "broken")
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Zero(t, f.calls)
}
