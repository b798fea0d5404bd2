package members

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lusoconnect/onboarding/internal/auth"
	"github.com/lusoconnect/onboarding/internal/catalog"
	"github.com/lusoconnect/onboarding/internal/membership"
	"github.com/lusoconnect/onboarding/internal/notification"
	"github.com/lusoconnect/onboarding/internal/wizard"
)

// RejectionError lists the fields the account service refused. It unwraps to
// wizard.ErrRejected.
type RejectionError struct {
	Fields map[string]string
}

func (e *RejectionError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("registration rejected: %s", strings.Join(keys, ", "))
}

func (e *RejectionError) Unwrap() error {
	return wizard.ErrRejected
}

// Recorder is notified of every member created.
type Recorder interface {
	MemberRegistered(plan string)
}

// Service creates member accounts from finished registration drafts. It
// implements wizard.Sink so a wizard can submit to it in-process.
type Service struct {
	repo          Repository
	subscriptions *membership.Service
	tokens        *auth.Issuer
	notifier      notification.Notifier
	recorder      Recorder
	logger        *slog.Logger
	now           func() time.Time
}

var _ wizard.Sink = (*Service)(nil)

// NewService creates a member service. subscriptions, tokens and notifier may be nil.
func NewService(repo Repository, subscriptions *membership.Service, tokens *auth.Issuer, notifier notification.Notifier, logger *slog.Logger) *Service {
	return &Service{
		repo:          repo,
		subscriptions: subscriptions,
		tokens:        tokens,
		notifier:      notifier,
		logger:        logger,
		now:           time.Now,
	}
}

// SetRecorder attaches a registration recorder.
func (s *Service) SetRecorder(r Recorder) {
	s.recorder = r
}

// Submit registers the payload as a new member.
func (s *Service) Submit(ctx context.Context, payload wizard.Payload) (wizard.Receipt, error) {
	member, token, err := s.Register(ctx, payload.Draft)
	if err != nil {
		return wizard.Receipt{}, err
	}
	return wizard.Receipt{MemberID: member.ID, AccessToken: token}, nil
}

// Register validates the draft again, stores the member, opens the
// subscription and sends the welcome notification. When the subscription
// cannot be opened the member is removed and ErrUnavailable returned. The
// returned token is empty when no issuer is configured.
func (s *Service) Register(ctx context.Context, draft wizard.Draft) (Member, string, error) {
	d := normalize(draft)
	if rejected := check(d); len(rejected) > 0 {
		return Member{}, "", &RejectionError{Fields: rejected}
	}

	member := Member{
		ID:                   uuid.NewString(),
		Email:                d.Email,
		FirstName:            d.FirstName,
		LastName:             d.LastName,
		Phone:                d.Phone,
		BirthDate:            d.BirthDate,
		Heritage:             d.Heritage,
		CulturalInterests:    d.CulturalInterests,
		Languages:            d.Languages,
		Location:             d.Location,
		SpecificArea:         d.SpecificArea,
		CommunityPreferences: d.CommunityPreferences,
		Plan:                 d.SelectedPlan,
		Cycle:                d.BillingCycle,
		AgreeToMarketing:     d.AgreeToMarketing,
		CreatedAt:            s.now().UTC(),
	}

	if err := s.repo.Create(ctx, member); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return Member{}, "", fmt.Errorf("%w: %s", wizard.ErrDuplicateEmail, member.Email)
		}
		return Member{}, "", fmt.Errorf("%w: store member: %v", wizard.ErrUnavailable, err)
	}

	if s.subscriptions != nil {
		_, err := s.subscriptions.Create(ctx, membership.CreateInput{MemberID: member.ID, Plan: member.Plan, Cycle: member.Cycle})
		if err != nil {
			s.logger.Error("membership.create failed", slog.String("member_id", member.ID), slog.Any("error", err))
			// A member never exists without a subscription. Removing the row
			// keeps the email free for the retry.
			if derr := s.repo.Delete(context.WithoutCancel(ctx), member.ID); derr != nil {
				s.logger.Error("member rollback failed", slog.String("member_id", member.ID), slog.Any("error", derr))
			}
			return Member{}, "", fmt.Errorf("%w: open subscription: %v", wizard.ErrUnavailable, err)
		}
	}

	var token string
	if s.tokens != nil {
		var err error
		token, err = s.tokens.Issue(member.ID, string(member.Plan))
		if err != nil {
			s.logger.Error("token issue failed", slog.String("member_id", member.ID), slog.Any("error", err))
		}
	}

	if s.notifier != nil {
		msg := notification.Message{
			Kind:        notification.KindWelcome,
			Destination: member.Email,
			Body:        fmt.Sprintf("Bem-vindo, %s! Your %s membership is ready.", member.FirstName, member.Plan),
			Attributes: map[string]string{
				"member_id": member.ID,
				"plan":      string(member.Plan),
				"cycle":     string(member.Cycle),
			},
		}
		if err := s.notifier.Send(ctx, msg); err != nil {
			s.logger.Warn("welcome notification failed", slog.String("member_id", member.ID), slog.Any("error", err))
		}
	}

	if s.recorder != nil {
		s.recorder.MemberRegistered(string(member.Plan))
	}

	s.logger.Info("member.register completed",
		slog.String("member_id", member.ID),
		slog.String("plan", string(member.Plan)),
		slog.String("cycle", string(member.Cycle)),
	)
	return member, token, nil
}

// Get returns a member by id.
func (s *Service) Get(ctx context.Context, id string) (Member, error) {
	return s.repo.FindByID(ctx, id)
}

func normalize(d wizard.Draft) wizard.Draft {
	d = d.Clone()
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.FirstName = strings.TrimSpace(d.FirstName)
	d.LastName = strings.TrimSpace(d.LastName)
	d.Phone = strings.TrimSpace(d.Phone)
	d.Location = strings.TrimSpace(d.Location)
	d.SpecificArea = strings.TrimSpace(d.SpecificArea)
	d.Heritage = dedupe(d.Heritage)
	d.CulturalInterests = dedupe(d.CulturalInterests)
	d.Languages = dedupe(d.Languages)
	d.CommunityPreferences = dedupe(d.CommunityPreferences)
	if city, ok := catalog.CityByName(d.Location); ok {
		d.Location = city.Name
	}
	return d
}

func check(d wizard.Draft) map[string]string {
	rejected := map[string]string{}
	for field, msg := range wizard.ValidateAll(d) {
		rejected[string(field)] = msg
	}
	unknown := func(field wizard.Field, ids []string, known func(string) bool, what string) {
		for _, id := range ids {
			if !known(id) {
				if _, set := rejected[string(field)]; !set {
					rejected[string(field)] = fmt.Sprintf("Unknown %s: %s", what, id)
				}
			}
		}
	}
	unknown(wizard.FieldHeritage, d.Heritage, catalog.IsNation, "heritage")
	unknown(wizard.FieldCulturalInterests, d.CulturalInterests, catalog.IsInterest, "interest")
	unknown(wizard.FieldCommunityPreferences, d.CommunityPreferences, catalog.IsPreference, "preference")

	if _, set := rejected[string(wizard.FieldLocation)]; !set {
		city, ok := catalog.CityByName(d.Location)
		switch {
		case !ok:
			rejected[string(wizard.FieldLocation)] = "Unknown location"
		case d.SpecificArea != "" && !city.HasArea(d.SpecificArea):
			rejected[string(wizard.FieldSpecificArea)] = fmt.Sprintf("Unknown area for %s", city.Name)
		}
	}
	if !d.SelectedPlan.Valid() {
		rejected[string(wizard.FieldSelectedPlan)] = "Unknown plan"
	}
	if !d.BillingCycle.Valid() {
		rejected[string(wizard.FieldBillingCycle)] = "Unknown billing cycle"
	}
	return rejected
}

func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		item = strings.TrimSpace(item)
		if item != "" && !slices.Contains(out, item) {
			out = append(out, item)
		}
	}
	return out
}
