package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"
)

// Store persists extracted job offers in Postgres.
type Store struct {
	db *sql.DB
}

func NewStore(connStr string) (*Store, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	return &Store{db: db}, nil
}

// NewStoreFromDB wraps an existing connection. Tests hand in a mocked
// *sql.DB through here.
func NewStoreFromDB(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) RunMigrations(schemaPath string) error {
	content, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, string(content)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}

func clampLimit(limit int, defaultLimit, maxLimit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

// Capture is one extracted job offer as persisted, keyed by URL.
type Capture struct {
	ID             int        `json:"id"`
	URL            string     `json:"url"`
	SourceDomain   string     `json:"source_domain"`
	Title          string     `json:"title"`
	Company        string     `json:"company,omitempty"`
	Location       string     `json:"location,omitempty"`
	RemoteType     string     `json:"remote_type"`
	Description    string     `json:"description"`
	ContractType   string     `json:"contract_type,omitempty"`
	Experience     string     `json:"experience,omitempty"`
	SalaryMin      *float64   `json:"salary_min,omitempty"`
	SalaryMax      *float64   `json:"salary_max,omitempty"`
	SalaryCurrency string     `json:"salary_currency,omitempty"`
	SalaryPeriod   string     `json:"salary_period,omitempty"`
	Skills         []string   `json:"skills,omitempty"`
	Strategy       string     `json:"strategy"`
	Confidence     float64    `json:"confidence"`
	PublishedAt    *time.Time `json:"published_at,omitempty"`
	CapturedAt     time.Time  `json:"captured_at"`
	CreatedAt      time.Time  `json:"created_at"`
}

// SaveCapture upserts a capture by URL and returns its id. A recapture
// refreshes every extracted field but keeps the first published_at seen.
func (s *Store) SaveCapture(ctx context.Context, c Capture) (int, error) {
	skills := c.Skills
	if skills == nil {
		skills = []string{}
	}
	skillsJSON, err := json.Marshal(skills)
	if err != nil {
		return 0, fmt.Errorf("failed to encode skills: %w", err)
	}

	var id int
	err = s.db.QueryRowContext(ctx, `
INSERT INTO captures (url, source_domain, title, company, location, remote_type, description, contract_type, experience, salary_min, salary_max, salary_currency, salary_period, skills, strategy, confidence, published_at, captured_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, NOW())
ON CONFLICT (url) DO UPDATE SET
    source_domain = EXCLUDED.source_domain,
    title = EXCLUDED.title,
    company = EXCLUDED.company,
    location = EXCLUDED.location,
    remote_type = EXCLUDED.remote_type,
    description = EXCLUDED.description,
    contract_type = EXCLUDED.contract_type,
    experience = EXCLUDED.experience,
    salary_min = EXCLUDED.salary_min,
    salary_max = EXCLUDED.salary_max,
    salary_currency = EXCLUDED.salary_currency,
    salary_period = EXCLUDED.salary_period,
    skills = EXCLUDED.skills,
    strategy = EXCLUDED.strategy,
    confidence = EXCLUDED.confidence,
    published_at = COALESCE(captures.published_at, EXCLUDED.published_at),
    captured_at = EXCLUDED.captured_at,
    updated_at = NOW()
RETURNING id
`, c.URL, c.SourceDomain, c.Title, c.Company, c.Location, c.RemoteType, c.Description, c.ContractType, c.Experience, c.SalaryMin, c.SalaryMax, nullString(c.SalaryCurrency), nullString(c.SalaryPeriod), skillsJSON, c.Strategy, c.Confidence, c.PublishedAt, c.CapturedAt).Scan(&id)
	return id, err
}

// ListCaptures returns one page of captures, newest first, plus the
// total row count for pagination.
func (s *Store) ListCaptures(ctx context.Context, limit, offset int) ([]Capture, int, error) {
	limit = clampLimit(limit, 20, 200)
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM captures`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, url, source_domain, title, company, location, remote_type, description, contract_type, experience, salary_min, salary_max, salary_currency, salary_period, skills, strategy, confidence, published_at, captured_at, created_at
FROM captures
ORDER BY captured_at DESC, id DESC
LIMIT $1 OFFSET $2
`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var captures []Capture
	for rows.Next() {
		var (
			c           Capture
			salaryMin   sql.NullFloat64
			salaryMax   sql.NullFloat64
			currency    sql.NullString
			period      sql.NullString
			skillsJSON  []byte
			publishedAt sql.NullTime
		)

		if err := rows.Scan(
			&c.ID,
			&c.URL,
			&c.SourceDomain,
			&c.Title,
			&c.Company,
			&c.Location,
			&c.RemoteType,
			&c.Description,
			&c.ContractType,
			&c.Experience,
			&salaryMin,
			&salaryMax,
			&currency,
			&period,
			&skillsJSON,
			&c.Strategy,
			&c.Confidence,
			&publishedAt,
			&c.CapturedAt,
			&c.CreatedAt,
		); err != nil {
			return nil, 0, err
		}

		if salaryMin.Valid {
			v := salaryMin.Float64
			c.SalaryMin = &v
		}
		if salaryMax.Valid {
			v := salaryMax.Float64
			c.SalaryMax = &v
		}
		if currency.Valid {
			c.SalaryCurrency = currency.String
		}
		if period.Valid {
			c.SalaryPeriod = period.String
		}
		if publishedAt.Valid {
			t := publishedAt.Time
			c.PublishedAt = &t
		}
		if len(skillsJSON) > 0 {
			if err := json.Unmarshal(skillsJSON, &c.Skills); err != nil {
				return nil, 0, fmt.Errorf("failed to decode skills for capture %d: %w", c.ID, err)
			}
		}

		captures = append(captures, c)
	}

	return captures, total, rows.Err()
}

// DeleteOldCaptures removes captures whose offer aged past the
// retention window, preferring the published date when known.
func (s *Store) DeleteOldCaptures(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	res, err := s.db.ExecContext(ctx, `
DELETE FROM captures
WHERE COALESCE(published_at, captured_at) < $1
`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
