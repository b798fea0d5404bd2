package wizard

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lusoconnect/onboarding/internal/logging"
	"github.com/lusoconnect/onboarding/internal/pricing"
)

func newTestApp(t *testing.T, sink Sink) (*fiber.App, *Registry) {
	t.Helper()
	registry := NewRegistry(sink, time.Hour)
	h := NewHandler(registry, pricing.NewResolver(pricing.Overrides{}), logging.Discard())
	app := fiber.New()
	g := app.Group("/wizards")
	g.Post("/", h.Open)
	g.Get("/:id", h.Get)
	g.Patch("/:id", h.Update)
	g.Post("/:id/next", h.Next)
	g.Post("/:id/previous", h.Previous)
	g.Post("/:id/submit", h.Submit)
	g.Delete("/:id", h.Close)
	return app, registry
}

func call(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func TestHandlerWalkthrough(t *testing.T) {
	attempts := 0
	sink := SinkFunc(func(_ context.Context, p Payload) (Receipt, error) {
		attempts++
		if attempts == 1 {
			return Receipt{}, ErrUnavailable
		}
		return Receipt{MemberID: "member-42", AccessToken: "tok"}, nil
	})
	app, registry := newTestApp(t, sink)

	status, body := call(t, app, http.MethodPost, "/wizards", "")
	require.Equal(t, http.StatusCreated, status)
	id := body["id"].(string)
	assert.Equal(t, "welcome", body["stepName"])
	assert.Equal(t, "1 / 8", body["progress"])
	assert.Equal(t, "Free", body["priceLabel"])

	status, _ = call(t, app, http.MethodPost, "/wizards/"+id+"/next", "")
	require.Equal(t, http.StatusOK, status)

	status, body = call(t, app, http.MethodPost, "/wizards/"+id+"/next", "")
	require.Equal(t, http.StatusUnprocessableEntity, status)
	errs := body["errors"].(map[string]any)
	assert.Equal(t, "First name is required", errs["firstName"])
	assert.Equal(t, "Email is required", errs["email"])

	status, body = call(t, app, http.MethodPatch, "/wizards/"+id, `{"firstName":"Maria"}`)
	require.Equal(t, http.StatusOK, status)
	errs = body["errors"].(map[string]any)
	assert.NotContains(t, errs, "firstName")
	assert.Contains(t, errs, "email")

	steps := []string{
		`{"email":"maria@example.pt"}`,
		`{"heritage":["pt","br"]}`,
		`{"culturalInterests":["fado"]}`,
		`{"location":"London","specificArea":"Stockwell"}`,
		`{"communityPreferences":["events"]}`,
		`{"selectedPlan":"community","billingCycle":"annual"}`,
	}
	for _, patch := range steps {
		status, _ = call(t, app, http.MethodPatch, "/wizards/"+id, patch)
		require.Equal(t, http.StatusOK, status, patch)
		status, _ = call(t, app, http.MethodPost, "/wizards/"+id+"/next", "")
		require.Equal(t, http.StatusOK, status, patch)
	}

	status, body = call(t, app, http.MethodGet, "/wizards/"+id, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "complete", body["stepName"])
	assert.Equal(t, true, body["last"])
	assert.Equal(t, "£159.99/year", body["priceLabel"])

	status, body = call(t, app, http.MethodPost, "/wizards/"+id+"/submit", "")
	require.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, body["errors"], "agreeToTerms")
	assert.Zero(t, attempts)

	status, _ = call(t, app, http.MethodPatch, "/wizards/"+id, `{"agreeToTerms":true}`)
	require.Equal(t, http.StatusOK, status)

	status, body = call(t, app, http.MethodPost, "/wizards/"+id+"/submit", "")
	require.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, "unavailable", body["outcome"])

	status, body = call(t, app, http.MethodGet, "/wizards/"+id, "")
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["submitError"])

	status, body = call(t, app, http.MethodPost, "/wizards/"+id+"/submit", "")
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "member-42", body["memberId"])
	payload := body["payload"].(map[string]any)
	assert.Equal(t, "maria@example.pt", payload["email"])
	assert.Equal(t, "annual", payload["billingCycle"])

	assert.Equal(t, 0, registry.Len())
	status, _ = call(t, app, http.MethodGet, "/wizards/"+id, "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestHandlerNullPatchClearsError(t *testing.T) {
	app, _ := newTestApp(t, SinkFunc(func(context.Context, Payload) (Receipt, error) {
		return Receipt{MemberID: "m"}, nil
	}))
	status, body := call(t, app, http.MethodPost, "/wizards", `{"initialStep":2}`)
	require.Equal(t, http.StatusCreated, status)
	id := body["id"].(string)

	status, body = call(t, app, http.MethodPost, "/wizards/"+id+"/next", "")
	require.Equal(t, http.StatusUnprocessableEntity, status)
	require.Contains(t, body["errors"], "heritage")

	status, body = call(t, app, http.MethodPatch, "/wizards/"+id, `{"heritage":null}`)
	require.Equal(t, http.StatusOK, status)
	assert.NotContains(t, body["errors"], "heritage")
	assert.Equal(t, []any{}, body["draft"].(map[string]any)["heritage"])
}

func TestHandlerOpenWithInitialStep(t *testing.T) {
	app, _ := newTestApp(t, SinkFunc(func(context.Context, Payload) (Receipt, error) { return Receipt{}, nil }))

	status, body := call(t, app, http.MethodPost, "/wizards", `{"initialStep":6}`)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "membership", body["stepName"])

	status, _ = call(t, app, http.MethodPost, "/wizards", `{"initialStep":8}`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestHandlerContractErrors(t *testing.T) {
	app, _ := newTestApp(t, SinkFunc(func(context.Context, Payload) (Receipt, error) {
		t.Fatal("sink must not be called")
		return Receipt{}, nil
	}))

	_, body := call(t, app, http.MethodPost, "/wizards", "")
	id := body["id"].(string)

	status, _ := call(t, app, http.MethodPost, "/wizards/"+id+"/submit", "")
	assert.Equal(t, http.StatusConflict, status)

	status, _ = call(t, app, http.MethodPatch, "/wizards/"+id, `{}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = call(t, app, http.MethodPatch, "/wizards/"+id, `{"selectedPlan":"gold"}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = call(t, app, http.MethodDelete, "/wizards/"+id, "")
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = call(t, app, http.MethodPost, "/wizards/"+id+"/next", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestHandlerDuplicateEmailMapsToConflict(t *testing.T) {
	app, _ := newTestApp(t, SinkFunc(func(context.Context, Payload) (Receipt, error) {
		return Receipt{}, ErrDuplicateEmail
	}))

	_, body := call(t, app, http.MethodPost, "/wizards", `{"initialStep":7}`)
	id := body["id"].(string)
	call(t, app, http.MethodPatch, "/wizards/"+id, `{"agreeToTerms":true}`)

	status, body := call(t, app, http.MethodPost, "/wizards/"+id+"/submit", "")
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "duplicate_email", body["outcome"])
}
