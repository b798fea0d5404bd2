package members

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lusoconnect/onboarding/internal/pricing"
)

const uniqueViolation = "23505"

var (
	// ErrEmailTaken is returned when the email already belongs to a member.
	ErrEmailTaken = errors.New("email already registered")
	// ErrNotFound is returned when no member matches the lookup.
	ErrNotFound = errors.New("member not found")
)

// Repository persists members.
type Repository interface {
	Create(ctx context.Context, member Member) error
	FindByID(ctx context.Context, id string) (Member, error)
	FindByEmail(ctx context.Context, email string) (Member, error)
	Delete(ctx context.Context, id string) error
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed member repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const memberColumns = `id, email, first_name, last_name, phone, birth_date, heritage, cultural_interests,
        languages, location, specific_area, community_preferences, plan, billing_cycle, agree_to_marketing, created_at`

// Create inserts a new member. The email column is unique.
func (r *PostgresRepository) Create(ctx context.Context, m Member) error {
	memberID, err := uuid.Parse(m.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO members (`+memberColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		memberID, m.Email, m.FirstName, m.LastName, m.Phone, m.BirthDate,
		nonNil(m.Heritage), nonNil(m.CulturalInterests), nonNil(m.Languages),
		m.Location, m.SpecificArea, nonNil(m.CommunityPreferences),
		string(m.Plan), string(m.Cycle), m.AgreeToMarketing, m.CreatedAt.UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrEmailTaken
		}
		return fmt.Errorf("insert member: %w", err)
	}
	return nil
}

// FindByID fetches a member by identifier.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (Member, error) {
	memberID, err := uuid.Parse(id)
	if err != nil {
		return Member{}, ErrNotFound
	}
	return r.scan(r.db.QueryRow(ctx, `SELECT `+memberColumns+` FROM members WHERE id = $1`, memberID))
}

// FindByEmail fetches a member by normalised email.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (Member, error) {
	return r.scan(r.db.QueryRow(ctx, `SELECT `+memberColumns+` FROM members WHERE email = $1`, email))
}

// Delete removes a member that has no subscription yet. Deleting an unknown
// member is not an error.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	memberID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	if _, err := r.db.Exec(ctx, `DELETE FROM members WHERE id = $1`, memberID); err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	return nil
}

func (r *PostgresRepository) scan(row pgx.Row) (Member, error) {
	var (
		m         Member
		id        uuid.UUID
		plan      string
		cycle     string
		createdAt time.Time
	)
	err := row.Scan(&id, &m.Email, &m.FirstName, &m.LastName, &m.Phone, &m.BirthDate,
		&m.Heritage, &m.CulturalInterests, &m.Languages, &m.Location, &m.SpecificArea,
		&m.CommunityPreferences, &plan, &cycle, &m.AgreeToMarketing, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Member{}, ErrNotFound
		}
		return Member{}, err
	}
	m.ID = id.String()
	m.Plan = pricing.Plan(plan)
	m.Cycle = pricing.Cycle(cycle)
	m.CreatedAt = createdAt.UTC()
	return m, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
