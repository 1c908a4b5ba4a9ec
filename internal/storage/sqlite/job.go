// Package sqlite stores jobs in a single-file SQLite database for local runs.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/honeycarbs/job-aggregator/internal/domain"
	"github.com/honeycarbs/job-aggregator/internal/domain/job"
	"github.com/honeycarbs/job-aggregator/internal/repository"
	"github.com/honeycarbs/job-aggregator/internal/storage"
)

var (
	_ job.Repository             = (*JobRepository)(nil)
	_ repository.StatsRepository = (*JobRepository)(nil)
)

const schema = `
CREATE TABLE IF NOT EXISTS jobs (
	id                TEXT PRIMARY KEY,
	source            TEXT NOT NULL,
	source_id         TEXT NOT NULL,
	title             TEXT NOT NULL DEFAULT '',
	company           TEXT NOT NULL DEFAULT '',
	company_logo      TEXT NOT NULL DEFAULT '',
	location          TEXT NOT NULL DEFAULT '',
	country           TEXT NOT NULL DEFAULT '',
	description       TEXT NOT NULL DEFAULT '',
	requirements      TEXT NOT NULL DEFAULT '',
	skills            TEXT NOT NULL DEFAULT '[]',
	employment_type   TEXT NOT NULL DEFAULT '',
	salary            TEXT NOT NULL DEFAULT '',
	salary_min        REAL,
	salary_max        REAL,
	salary_currency   TEXT NOT NULL DEFAULT '',
	sector            TEXT NOT NULL DEFAULT 'general',
	sector_confidence INTEGER NOT NULL DEFAULT 0,
	is_remote         INTEGER NOT NULL DEFAULT 0,
	is_hybrid         INTEGER NOT NULL DEFAULT 0,
	is_urgent         INTEGER NOT NULL DEFAULT 0,
	is_featured       INTEGER NOT NULL DEFAULT 0,
	apply_url         TEXT NOT NULL DEFAULT '',
	source_url        TEXT NOT NULL DEFAULT '',
	posted_at         TEXT,
	imported_at       TEXT NOT NULL,
	first_imported_at TEXT NOT NULL,
	UNIQUE (source, source_id)
);
CREATE INDEX IF NOT EXISTS jobs_country_idx ON jobs (country);
CREATE INDEX IF NOT EXISTS jobs_imported_at_idx ON jobs (imported_at);
`

const jobColumns = `id, source, source_id, title, company, company_logo, location, country,
	description, requirements, skills, employment_type, salary, salary_min, salary_max,
	salary_currency, sector, sector_confidence, is_remote, is_hybrid, is_urgent, is_featured,
	apply_url, source_url, posted_at, imported_at, first_imported_at`

// RETURNING id yields the existing row's id on conflict, which tells
// inserts and updates apart
const upsertQuery = `
	INSERT INTO jobs (` + jobColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (source, source_id) DO UPDATE SET
		title = excluded.title,
		company = excluded.company,
		company_logo = excluded.company_logo,
		location = excluded.location,
		country = excluded.country,
		description = excluded.description,
		requirements = excluded.requirements,
		skills = excluded.skills,
		employment_type = excluded.employment_type,
		salary = excluded.salary,
		salary_min = excluded.salary_min,
		salary_max = excluded.salary_max,
		salary_currency = excluded.salary_currency,
		sector = excluded.sector,
		sector_confidence = excluded.sector_confidence,
		is_remote = excluded.is_remote,
		is_hybrid = excluded.is_hybrid,
		is_urgent = excluded.is_urgent,
		is_featured = excluded.is_featured,
		apply_url = excluded.apply_url,
		source_url = excluded.source_url,
		posted_at = excluded.posted_at,
		imported_at = excluded.imported_at
	RETURNING id`

// JobRepository implements job.Repository on SQLite
type JobRepository struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
// Use ":memory:" for a throwaway store.
func Open(ctx context.Context, path string) (*JobRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	// one writer; also keeps ":memory:" databases on a single connection
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite: %s: %w", pragma, err)
		}
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return &JobRepository{db: db}, nil
}

// Close releases the database handle
func (r *JobRepository) Close() error {
	return r.db.Close()
}

func (r *JobRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// UpsertJob inserts or updates one job
func (r *JobRepository) UpsertJob(ctx context.Context, j domain.Job) (domain.UpsertOutcome, error) {
	args, err := jobArgs(j)
	if err != nil {
		return 0, err
	}

	var storedID string
	if err := r.db.QueryRowContext(ctx, upsertQuery, args...).Scan(&storedID); err != nil {
		return 0, fmt.Errorf("sqlite: upsert %s: %w", j.Key(), err)
	}
	if storedID == j.ID.String() {
		return domain.OutcomeCreated, nil
	}
	return domain.OutcomeUpdated, nil
}

// FindJobs returns jobs matching filter, newest import first
func (r *JobRepository) FindJobs(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error) {
	where, args := storage.BuildWhere(filter, func(int) string { return "?" })
	offset, limit := storage.Page(filter)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+jobColumns+` FROM jobs`+where+
			` ORDER BY imported_at DESC, source, source_id LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]domain.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// JobStats counts jobs by source, country and sector
func (r *JobRepository) JobStats(ctx context.Context) (domain.JobStats, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT source, country, sector, COUNT(*) FROM jobs GROUP BY source, country, sector`)
	if err != nil {
		return domain.JobStats{}, fmt.Errorf("sqlite: query stats: %w", err)
	}
	defer rows.Close()

	stats := domain.NewJobStats()
	for rows.Next() {
		var source, country, sector string
		var n int
		if err := rows.Scan(&source, &country, &sector, &n); err != nil {
			return domain.JobStats{}, fmt.Errorf("sqlite: scan stats: %w", err)
		}
		stats.Add(source, country, sector, n)
	}
	return stats, rows.Err()
}

func jobArgs(j domain.Job) ([]any, error) {
	skills := j.Skills
	if skills == nil {
		skills = []string{}
	}
	skillsJSON, err := json.Marshal(skills)
	if err != nil {
		return nil, fmt.Errorf("sqlite: encode skills: %w", err)
	}
	var posted any
	if j.PostedAt != nil {
		posted = formatTime(*j.PostedAt)
	}
	return []any{
		j.ID.String(), string(j.Source), j.SourceID, j.Title, j.Company, j.CompanyLogo, j.Location, j.Country,
		j.Description, j.Requirements, string(skillsJSON), j.EmploymentType, j.Salary, j.SalaryMin, j.SalaryMax,
		j.SalaryCurrency, string(j.Sector), j.SectorConfidence, j.IsRemote, j.IsHybrid, j.IsUrgent, j.IsFeatured,
		j.ApplyURL, j.SourceURL, posted, formatTime(j.ImportedAt), formatTime(j.FirstImportedAt),
	}, nil
}

func scanJob(rows *sql.Rows) (domain.Job, error) {
	var (
		j                           domain.Job
		id, source, sector, skills  string
		salaryMin, salaryMax        sql.NullFloat64
		posted                      sql.NullString
		importedAt, firstImportedAt string
	)
	err := rows.Scan(
		&id, &source, &j.SourceID, &j.Title, &j.Company, &j.CompanyLogo, &j.Location, &j.Country,
		&j.Description, &j.Requirements, &skills, &j.EmploymentType, &j.Salary, &salaryMin, &salaryMax,
		&j.SalaryCurrency, &sector, &j.SectorConfidence, &j.IsRemote, &j.IsHybrid, &j.IsUrgent, &j.IsFeatured,
		&j.ApplyURL, &j.SourceURL, &posted, &importedAt, &firstImportedAt,
	)
	if err != nil {
		return domain.Job{}, fmt.Errorf("sqlite: scan job: %w", err)
	}

	if j.ID, err = uuid.Parse(id); err != nil {
		return domain.Job{}, fmt.Errorf("sqlite: job id %q: %w", id, err)
	}
	j.Source = domain.Source(source)
	j.Sector = domain.SectorID(sector)
	if err := json.Unmarshal([]byte(skills), &j.Skills); err != nil || j.Skills == nil {
		j.Skills = []string{}
	}
	if salaryMin.Valid {
		j.SalaryMin = &salaryMin.Float64
	}
	if salaryMax.Valid {
		j.SalaryMax = &salaryMax.Float64
	}
	if posted.Valid {
		if ts, err := parseTime(posted.String); err == nil {
			j.PostedAt = &ts
		}
	}
	j.ImportedAt, _ = parseTime(importedAt)
	j.FirstImportedAt, _ = parseTime(firstImportedAt)
	return j, nil
}

// fixed width so text ordering matches time ordering
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}
