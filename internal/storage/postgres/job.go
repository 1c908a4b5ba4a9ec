// Package postgres stores jobs in PostgreSQL with an ON CONFLICT upsert on
// (source, source_id).
package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/honeycarbs/job-aggregator/internal/domain"
	"github.com/honeycarbs/job-aggregator/internal/domain/job"
	"github.com/honeycarbs/job-aggregator/internal/repository"
	"github.com/honeycarbs/job-aggregator/internal/storage"
)

//go:embed schema.sql
var schema string

var (
	_ job.Repository             = (*JobRepository)(nil)
	_ repository.StatsRepository = (*JobRepository)(nil)
)

const jobColumns = `id, source, source_id, title, company, company_logo, location, country,
	description, requirements, skills, employment_type, salary, salary_min, salary_max,
	salary_currency, sector, sector_confidence, is_remote, is_hybrid, is_urgent, is_featured,
	apply_url, source_url, posted_at, imported_at, first_imported_at`

// first_imported_at and id are left out of DO UPDATE so they survive re-imports
const upsertQuery = `
	INSERT INTO jobs (` + jobColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
	        $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27)
	ON CONFLICT (source, source_id) DO UPDATE SET
		title = EXCLUDED.title,
		company = EXCLUDED.company,
		company_logo = EXCLUDED.company_logo,
		location = EXCLUDED.location,
		country = EXCLUDED.country,
		description = EXCLUDED.description,
		requirements = EXCLUDED.requirements,
		skills = EXCLUDED.skills,
		employment_type = EXCLUDED.employment_type,
		salary = EXCLUDED.salary,
		salary_min = EXCLUDED.salary_min,
		salary_max = EXCLUDED.salary_max,
		salary_currency = EXCLUDED.salary_currency,
		sector = EXCLUDED.sector,
		sector_confidence = EXCLUDED.sector_confidence,
		is_remote = EXCLUDED.is_remote,
		is_hybrid = EXCLUDED.is_hybrid,
		is_urgent = EXCLUDED.is_urgent,
		is_featured = EXCLUDED.is_featured,
		apply_url = EXCLUDED.apply_url,
		source_url = EXCLUDED.source_url,
		posted_at = EXCLUDED.posted_at,
		imported_at = EXCLUDED.imported_at
	RETURNING (xmax = 0) AS inserted`

// JobRepository implements job.Repository on a pgx pool
type JobRepository struct {
	pool *pgxpool.Pool
}

// NewJobRepository wraps an open pool
func NewJobRepository(pool *pgxpool.Pool) *JobRepository {
	return &JobRepository{pool: pool}
}

// Migrate creates the jobs table and indexes when missing
func (r *JobRepository) Migrate(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("postgres migrate: %w", err)
	}
	return nil
}

func (r *JobRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// UpsertJob inserts or updates one job
func (r *JobRepository) UpsertJob(ctx context.Context, j domain.Job) (domain.UpsertOutcome, error) {
	var inserted bool
	err := r.pool.QueryRow(ctx, upsertQuery, jobArgs(j)...).Scan(&inserted)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert job %s: %w", j.Key(), err)
	}
	if inserted {
		return domain.OutcomeCreated, nil
	}
	return domain.OutcomeUpdated, nil
}

// FindJobs returns jobs matching filter, newest import first
func (r *JobRepository) FindJobs(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error) {
	where, args := storage.BuildWhere(filter, dollar)
	offset, limit := storage.Page(filter)
	args = append(args, limit, offset)

	query := `SELECT ` + jobColumns + ` FROM jobs` + where +
		` ORDER BY imported_at DESC, source, source_id` +
		` LIMIT ` + dollar(len(args)-1) + ` OFFSET ` + dollar(len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}

	jobs, err := pgx.CollectRows(rows, scanJob)
	if err != nil {
		return nil, fmt.Errorf("failed to scan jobs: %w", err)
	}
	return jobs, nil
}

// JobStats counts jobs by source, country and sector
func (r *JobRepository) JobStats(ctx context.Context) (domain.JobStats, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT source, country, sector, COUNT(*) FROM jobs GROUP BY source, country, sector`)
	if err != nil {
		return domain.JobStats{}, fmt.Errorf("failed to query job stats: %w", err)
	}
	defer rows.Close()

	stats := domain.NewJobStats()
	for rows.Next() {
		var source, country, sector string
		var n int
		if err := rows.Scan(&source, &country, &sector, &n); err != nil {
			return domain.JobStats{}, fmt.Errorf("failed to scan job stats: %w", err)
		}
		stats.Add(source, country, sector, n)
	}
	return stats, rows.Err()
}

func jobArgs(j domain.Job) []any {
	skills := j.Skills
	if skills == nil {
		skills = []string{}
	}
	return []any{
		j.ID, string(j.Source), j.SourceID, j.Title, j.Company, j.CompanyLogo, j.Location, j.Country,
		j.Description, j.Requirements, skills, j.EmploymentType, j.Salary, j.SalaryMin, j.SalaryMax,
		j.SalaryCurrency, string(j.Sector), j.SectorConfidence, j.IsRemote, j.IsHybrid, j.IsUrgent, j.IsFeatured,
		j.ApplyURL, j.SourceURL, j.PostedAt, j.ImportedAt, j.FirstImportedAt,
	}
}

func scanJob(row pgx.CollectableRow) (domain.Job, error) {
	var (
		j      domain.Job
		source string
		sector string
	)
	err := row.Scan(
		&j.ID, &source, &j.SourceID, &j.Title, &j.Company, &j.CompanyLogo, &j.Location, &j.Country,
		&j.Description, &j.Requirements, &j.Skills, &j.EmploymentType, &j.Salary, &j.SalaryMin, &j.SalaryMax,
		&j.SalaryCurrency, &sector, &j.SectorConfidence, &j.IsRemote, &j.IsHybrid, &j.IsUrgent, &j.IsFeatured,
		&j.ApplyURL, &j.SourceURL, &j.PostedAt, &j.ImportedAt, &j.FirstImportedAt,
	)
	j.Source = domain.Source(source)
	j.Sector = domain.SectorID(sector)
	return j, err
}

func dollar(n int) string {
	return "$" + strconv.Itoa(n)
}
