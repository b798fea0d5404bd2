package membership

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lusoconnect/onboarding/internal/pricing"
)

// ErrNotFound is returned when a member has no subscription.
var ErrNotFound = errors.New("subscription not found")

// Repository persists subscriptions.
type Repository interface {
	Create(ctx context.Context, sub Subscription) error
	GetByMember(ctx context.Context, memberID string) (Subscription, error)
}

// PostgresRepository stores subscriptions in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a subscription record.
func (r *PostgresRepository) Create(ctx context.Context, sub Subscription) error {
	subID, err := uuid.Parse(sub.ID)
	if err != nil {
		return err
	}
	memberID, err := uuid.Parse(sub.MemberID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO subscriptions (id, member_id, plan, billing_cycle, amount_pence, currency, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		subID, memberID, string(sub.Plan), string(sub.Cycle), sub.AmountPence, sub.Currency, sub.Status, sub.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert subscription: %w", err)
	}
	return nil
}

// GetByMember fetches the latest subscription of a member.
func (r *PostgresRepository) GetByMember(ctx context.Context, memberID string) (Subscription, error) {
	memberUUID, err := uuid.Parse(memberID)
	if err != nil {
		return Subscription{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, member_id, plan, billing_cycle, amount_pence, currency, status, created_at
        FROM subscriptions WHERE member_id = $1 ORDER BY created_at DESC LIMIT 1`, memberUUID)
	var (
		s         Subscription
		id        uuid.UUID
		owner     uuid.UUID
		plan      string
		cycle     string
		createdAt time.Time
	)
	if err := row.Scan(&id, &owner, &plan, &cycle, &s.AmountPence, &s.Currency, &s.Status, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Subscription{}, ErrNotFound
		}
		return Subscription{}, err
	}
	s.ID = id.String()
	s.MemberID = owner.String()
	s.Plan = pricing.Plan(plan)
	s.Cycle = pricing.Cycle(cycle)
	s.CreatedAt = createdAt.UTC()
	return s, nil
}
