package local

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/insurancereminder/policy-engine/internal/core/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS policies (
	id                   TEXT PRIMARY KEY,
	type                 TEXT NOT NULL,
	name                 TEXT NOT NULL,
	expiry_date          TEXT NOT NULL,
	reminder_days_before INTEGER NOT NULL DEFAULT 30,
	is_active            INTEGER NOT NULL DEFAULT 1,
	current_price        REAL,
	currency             TEXT NOT NULL DEFAULT 'EUR',
	company_name         TEXT,
	company_id           TEXT,
	company_logo_url     TEXT,
	policy_number        TEXT,
	policy_file_url      TEXT,
	policy_file_name     TEXT,
	user_id              TEXT,
	shared_with_user_id  TEXT,
	created_at           TEXT,
	updated_at           TEXT
);
CREATE INDEX IF NOT EXISTS idx_policies_user_id ON policies (user_id);
`

// SQLiteStore is the durable local store.
type SQLiteStore struct {
	db  *sqlx.DB
	hub *hub
}

// OpenSQLite opens (and if needed creates) the local database at path.
// Use ":memory:" for an ephemeral database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	// A single writer keeps the change hub authoritative for this process.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}
	return &SQLiteStore{db: db, hub: newHub()}, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }

type policyRow struct {
	ID                 string          `db:"id"`
	Type               string          `db:"type"`
	Name               string          `db:"name"`
	ExpiryDate         string          `db:"expiry_date"`
	ReminderDaysBefore int             `db:"reminder_days_before"`
	IsActive           bool            `db:"is_active"`
	CurrentPrice       sql.NullFloat64 `db:"current_price"`
	Currency           string          `db:"currency"`
	CompanyName        sql.NullString  `db:"company_name"`
	CompanyID          sql.NullString  `db:"company_id"`
	CompanyLogoURL     sql.NullString  `db:"company_logo_url"`
	PolicyNumber       sql.NullString  `db:"policy_number"`
	PolicyFileURL      sql.NullString  `db:"policy_file_url"`
	PolicyFileName     sql.NullString  `db:"policy_file_name"`
	UserID             sql.NullString  `db:"user_id"`
	SharedWithUserID   sql.NullString  `db:"shared_with_user_id"`
	CreatedAt          sql.NullString  `db:"created_at"`
	UpdatedAt          sql.NullString  `db:"updated_at"`
}

func toRow(p *domain.Policy) policyRow {
	row := policyRow{
		ID:                 p.ID,
		Type:               string(p.Type),
		Name:               p.Name,
		ExpiryDate:         p.ExpiryDate.Format(time.DateOnly),
		ReminderDaysBefore: p.ReminderDaysBefore,
		IsActive:           p.IsActive,
		Currency:           p.Currency,
		CompanyName:        nullString(p.CompanyName),
		CompanyID:          nullString(p.CompanyID),
		CompanyLogoURL:     nullString(p.CompanyLogoURL),
		PolicyNumber:       nullString(p.PolicyNumber),
		PolicyFileURL:      nullString(p.PolicyFileURL),
		PolicyFileName:     nullString(p.PolicyFileName),
		UserID:             nullString(p.UserID),
		SharedWithUserID:   nullString(p.SharedWithUserID),
		CreatedAt:          nullDate(p.CreatedAt),
		UpdatedAt:          nullDate(p.UpdatedAt),
	}
	if p.CurrentPrice != nil {
		row.CurrentPrice = sql.NullFloat64{Float64: *p.CurrentPrice, Valid: true}
	}
	return row
}

func (r policyRow) toDomain() domain.Policy {
	p := domain.Policy{
		ID:                 r.ID,
		Type:               domain.PolicyType(r.Type),
		Name:               r.Name,
		ReminderDaysBefore: r.ReminderDaysBefore,
		IsActive:           r.IsActive,
		Currency:           r.Currency,
		CompanyName:        r.CompanyName.String,
		CompanyID:          r.CompanyID.String,
		CompanyLogoURL:     r.CompanyLogoURL.String,
		PolicyNumber:       r.PolicyNumber.String,
		PolicyFileURL:      r.PolicyFileURL.String,
		PolicyFileName:     r.PolicyFileName.String,
		UserID:             r.UserID.String,
		SharedWithUserID:   r.SharedWithUserID.String,
	}
	if t, err := time.Parse(time.DateOnly, r.ExpiryDate); err == nil {
		p.ExpiryDate = t
	}
	if r.CurrentPrice.Valid {
		v := r.CurrentPrice.Float64
		p.CurrentPrice = &v
	}
	if r.CreatedAt.Valid {
		if t, err := time.Parse(time.DateOnly, r.CreatedAt.String); err == nil {
			p.CreatedAt = t
		}
	}
	if r.UpdatedAt.Valid {
		if t, err := time.Parse(time.DateOnly, r.UpdatedAt.String); err == nil {
			p.UpdatedAt = t
		}
	}
	return p
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullDate(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(time.DateOnly), Valid: true}
}

const insertPolicy = `
INSERT INTO policies (
	id, type, name, expiry_date, reminder_days_before, is_active,
	current_price, currency, company_name, company_id, company_logo_url,
	policy_number, policy_file_url, policy_file_name, user_id,
	shared_with_user_id, created_at, updated_at
) VALUES (
	:id, :type, :name, :expiry_date, :reminder_days_before, :is_active,
	:current_price, :currency, :company_name, :company_id, :company_logo_url,
	:policy_number, :policy_file_url, :policy_file_name, :user_id,
	:shared_with_user_id, :created_at, :updated_at
)`

const updatePolicy = `
UPDATE policies SET
	type = :type, name = :name, expiry_date = :expiry_date,
	reminder_days_before = :reminder_days_before, is_active = :is_active,
	current_price = :current_price, currency = :currency,
	company_name = :company_name, company_id = :company_id,
	company_logo_url = :company_logo_url, policy_number = :policy_number,
	policy_file_url = :policy_file_url, policy_file_name = :policy_file_name,
	shared_with_user_id = :shared_with_user_id, updated_at = :updated_at
WHERE id = :id`

func (s *SQLiteStore) Add(ctx context.Context, p *domain.Policy) (string, error) {
	record := *p
	record.ID = newLocalID()
	record.IsActive = true

	if _, err := s.db.NamedExecContext(ctx, insertPolicy, toRow(&record)); err != nil {
		return "", fmt.Errorf("sqlite insert: %w", err)
	}
	s.hub.broadcast()
	return record.ID, nil
}

func (s *SQLiteStore) Update(ctx context.Context, p *domain.Policy) error {
	res, err := s.db.NamedExecContext(ctx, updatePolicy, toRow(p))
	if err != nil {
		return fmt.Errorf("sqlite update: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrPolicyNotFound
	}
	s.hub.broadcast()
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE policies SET is_active = 0, updated_at = ? WHERE id = ?`,
		time.Now().UTC().Format(time.DateOnly), id)
	if err != nil {
		return fmt.Errorf("sqlite delete: %w", err)
	}
	s.hub.broadcast()
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*domain.Policy, error) {
	var row policyRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM policies WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPolicyNotFound
		}
		return nil, fmt.Errorf("sqlite get: %w", err)
	}
	p := row.toDomain()
	return &p, nil
}

func (s *SQLiteStore) StreamAll(ctx context.Context) (<-chan []domain.Policy, error) {
	return streamSnapshots(ctx, s.hub, func() []domain.Policy {
		return s.query(ctx, `SELECT * FROM policies`)
	}), nil
}

func (s *SQLiteStore) StreamActiveForUser(ctx context.Context, userID string) (<-chan []domain.Policy, error) {
	return streamSnapshots(ctx, s.hub, func() []domain.Policy {
		return s.query(ctx, `SELECT * FROM policies WHERE user_id = ?`, userID)
	}), nil
}

func (s *SQLiteStore) query(ctx context.Context, q string, args ...any) []domain.Policy {
	var rows []policyRow
	if err := s.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil
	}
	out := make([]domain.Policy, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out
}
