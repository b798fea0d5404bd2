package wizard

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/lusoconnect/onboarding/internal/pricing"
)

// Handler exposes wizards over HTTP.
type Handler struct {
	registry *Registry
	prices   *pricing.Resolver
	logger   *slog.Logger
}

// NewHandler constructs a wizard HTTP handler.
func NewHandler(registry *Registry, prices *pricing.Resolver, logger *slog.Logger) *Handler {
	return &Handler{registry: registry, prices: prices, logger: logger}
}

type openRequest struct {
	InitialStep *int `json:"initialStep"`
}

type wizardResponse struct {
	ID          string         `json:"id"`
	Step        int            `json:"step"`
	StepName    string         `json:"stepName"`
	Title       string         `json:"title"`
	Progress    string         `json:"progress"`
	TotalSteps  int            `json:"totalSteps"`
	First       bool           `json:"first"`
	Last        bool           `json:"last"`
	Draft       Draft          `json:"draft"`
	Errors      FieldErrors    `json:"errors"`
	Submitting  bool           `json:"submitting"`
	SubmitError string         `json:"submitError,omitempty"`
	Price       *pricing.Price `json:"price,omitempty"`
	PriceLabel  string         `json:"priceLabel,omitempty"`
}

type submitResponse struct {
	MemberID    string  `json:"memberId"`
	AccessToken string  `json:"accessToken,omitempty"`
	Payload     Payload `json:"payload"`
}

// Open starts a wizard.
func (h *Handler) Open(c *fiber.Ctx) error {
	var req openRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
	}
	var opts []Option
	if req.InitialStep != nil {
		opts = append(opts, WithInitialStep(Step(*req.InitialStep)))
	}
	id, ctrl, err := h.registry.Open(opts...)
	if err != nil {
		if errors.Is(err, ErrInvalidStep) {
			return fiber.NewError(http.StatusBadRequest, fmt.Sprintf("initialStep must be between 0 and %d", StepCount-1))
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(h.view(id, ctrl.Snapshot()))
}

// Get returns the wizard state.
func (h *Handler) Get(c *fiber.Ctx) error {
	id := c.Params("id")
	ctrl, err := h.registry.Get(id)
	if err != nil {
		return h.fail(c, id, err)
	}
	return c.Status(http.StatusOK).JSON(h.view(id, ctrl.Snapshot()))
}

// Update merges a partial draft.
func (h *Handler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	ctrl, err := h.registry.Get(id)
	if err != nil {
		return h.fail(c, id, err)
	}
	var patch Patch
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if patch.Empty() {
		return fiber.NewError(http.StatusBadRequest, "no fields to update")
	}
	if err := ctrl.UpdateField(patch); err != nil {
		return h.fail(c, id, err)
	}
	return c.Status(http.StatusOK).JSON(h.view(id, ctrl.Snapshot()))
}

// Next advances past the current step.
func (h *Handler) Next(c *fiber.Ctx) error {
	id := c.Params("id")
	ctrl, err := h.registry.Get(id)
	if err != nil {
		return h.fail(c, id, err)
	}
	if err := ctrl.Next(); err != nil {
		return h.fail(c, id, err)
	}
	return c.Status(http.StatusOK).JSON(h.view(id, ctrl.Snapshot()))
}

// Previous goes back one step.
func (h *Handler) Previous(c *fiber.Ctx) error {
	id := c.Params("id")
	ctrl, err := h.registry.Get(id)
	if err != nil {
		return h.fail(c, id, err)
	}
	if err := ctrl.Previous(); err != nil {
		return h.fail(c, id, err)
	}
	return c.Status(http.StatusOK).JSON(h.view(id, ctrl.Snapshot()))
}

// Submit hands the finished draft to the account service.
func (h *Handler) Submit(c *fiber.Ctx) error {
	id := c.Params("id")
	ctrl, err := h.registry.Get(id)
	if err != nil {
		return h.fail(c, id, err)
	}
	done, err := ctrl.Submit(c.UserContext())
	if err != nil {
		h.logger.Warn("wizard.submit failed",
			slog.String("wizard_id", id),
			slog.String("outcome", Outcome(err)),
			slog.Any("error", err),
		)
		return h.fail(c, id, err)
	}
	h.registry.Forget(id)
	h.logger.Info("wizard.submit completed",
		slog.String("wizard_id", id),
		slog.String("member_id", done.Receipt.MemberID),
		slog.String("plan", string(done.Payload.SelectedPlan)),
		slog.Int("status", http.StatusCreated),
	)
	return c.Status(http.StatusCreated).JSON(submitResponse{
		MemberID:    done.Receipt.MemberID,
		AccessToken: done.Receipt.AccessToken,
		Payload:     done.Payload,
	})
}

// Close discards the wizard.
func (h *Handler) Close(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.registry.Close(id); err != nil {
		return h.fail(c, id, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

func (h *Handler) view(id string, s Snapshot) wizardResponse {
	resp := wizardResponse{
		ID:         id,
		Step:       int(s.Step),
		StepName:   s.Step.String(),
		Title:      s.Step.Title(),
		Progress:   fmt.Sprintf("%d / %d", s.Progress(), StepCount),
		TotalSteps: StepCount,
		First:      s.First(),
		Last:       s.Last(),
		Draft:      s.Draft,
		Errors:     s.Errors,
		Submitting: s.Submitting,
	}
	if s.SubmitError != nil {
		resp.SubmitError = s.SubmitError.Error()
	}
	if h.prices != nil && s.Open {
		if price, err := h.prices.Price(s.Draft.SelectedPlan, s.Draft.BillingCycle); err == nil {
			resp.Price = &price
			resp.PriceLabel = price.Label()
		}
	}
	return resp
}

func (h *Handler) fail(c *fiber.Ctx, id string, err error) error {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return c.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{
			"id":     id,
			"step":   int(verr.Step),
			"errors": verr.Fields,
		})
	}
	var serr *SubmitError
	if errors.As(err, &serr) {
		status := http.StatusBadGateway
		switch {
		case errors.Is(err, ErrDuplicateEmail):
			status = http.StatusConflict
		case errors.Is(err, ErrRejected):
			status = http.StatusUnprocessableEntity
		}
		return c.Status(status).JSON(fiber.Map{
			"id":          id,
			"submitError": serr.Error(),
			"outcome":     Outcome(err),
		})
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrNotTerminal), errors.Is(err, ErrSubmitting), errors.Is(err, ErrClosed):
		return fiber.NewError(http.StatusConflict, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}
