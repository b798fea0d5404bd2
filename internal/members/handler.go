package members

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/lusoconnect/onboarding/internal/membership"
	"github.com/lusoconnect/onboarding/internal/wizard"
)

// MemberIDLocal is the fiber local the auth middleware stores the caller under.
const MemberIDLocal = "member_id"

// Handler exposes member endpoints.
type Handler struct {
	service       *Service
	subscriptions *membership.Service
}

// NewHandler constructs a member HTTP handler.
func NewHandler(service *Service, subscriptions *membership.Service) *Handler {
	return &Handler{service: service, subscriptions: subscriptions}
}

type memberResponse struct {
	ID                   string    `json:"id"`
	Email                string    `json:"email"`
	FirstName            string    `json:"firstName"`
	LastName             string    `json:"lastName"`
	Heritage             []string  `json:"heritage"`
	CulturalInterests    []string  `json:"culturalInterests"`
	Languages            []string  `json:"languages"`
	Location             string    `json:"location"`
	SpecificArea         string    `json:"specificArea,omitempty"`
	CommunityPreferences []string  `json:"communityPreferences"`
	Plan                 string    `json:"selectedPlan"`
	Cycle                string    `json:"billingCycle"`
	CreatedAt            time.Time `json:"createdAt"`
}

type subscriptionResponse struct {
	ID          string    `json:"id"`
	Plan        string    `json:"plan"`
	Cycle       string    `json:"billingCycle"`
	AmountPence int64     `json:"amountPence"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

type registerResponse struct {
	MemberID    string         `json:"memberId"`
	AccessToken string         `json:"accessToken,omitempty"`
	Member      memberResponse `json:"member"`
}

// Register creates a member from a finished registration payload.
func (h *Handler) Register(c *fiber.Ctx) error {
	var payload wizard.Payload
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	member, token, err := h.service.Register(c.UserContext(), payload.Draft)
	if err != nil {
		var rejected *RejectionError
		switch {
		case errors.As(err, &rejected):
			return c.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{"errors": rejected.Fields})
		case errors.Is(err, wizard.ErrDuplicateEmail):
			return c.Status(http.StatusConflict).JSON(fiber.Map{
				"error":   wizard.CodeDuplicateEmail,
				"message": err.Error(),
			})
		default:
			return fiber.NewError(http.StatusServiceUnavailable, err.Error())
		}
	}
	return c.Status(http.StatusCreated).JSON(registerResponse{
		MemberID:    member.ID,
		AccessToken: token,
		Member:      toResponse(member),
	})
}

// Me returns the authenticated member with their subscription.
func (h *Handler) Me(c *fiber.Ctx) error {
	id, _ := c.Locals(MemberIDLocal).(string)
	if id == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	member, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return fiber.NewError(http.StatusNotFound, "member not found")
	}
	resp := fiber.Map{"member": toResponse(member)}
	if h.subscriptions != nil {
		if sub, err := h.subscriptions.GetByMember(c.UserContext(), id); err == nil {
			resp["subscription"] = subscriptionResponse{
				ID:          sub.ID,
				Plan:        string(sub.Plan),
				Cycle:       string(sub.Cycle),
				AmountPence: sub.AmountPence,
				Currency:    sub.Currency,
				Status:      sub.Status,
				CreatedAt:   sub.CreatedAt,
			}
		}
	}
	return c.Status(http.StatusOK).JSON(resp)
}

func toResponse(m Member) memberResponse {
	return memberResponse{
		ID:                   m.ID,
		Email:                m.Email,
		FirstName:            m.FirstName,
		LastName:             m.LastName,
		Heritage:             m.Heritage,
		CulturalInterests:    m.CulturalInterests,
		Languages:            m.Languages,
		Location:             m.Location,
		SpecificArea:         m.SpecificArea,
		CommunityPreferences: m.CommunityPreferences,
		Plan:                 string(m.Plan),
		Cycle:                string(m.Cycle),
		CreatedAt:            m.CreatedAt,
	}
}
