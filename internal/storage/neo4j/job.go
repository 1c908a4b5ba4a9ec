package neo4j

import (
	"context"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/honeycarbs/job-aggregator/internal/domain"
	"github.com/honeycarbs/job-aggregator/internal/domain/job"
	"github.com/honeycarbs/job-aggregator/internal/repository"

	pkgneo4j "github.com/honeycarbs/job-aggregator/pkg/neo4j"
)

var (
	_ job.Repository             = (*JobRepository)(nil)
	_ repository.StatsRepository = (*JobRepository)(nil)
)

// constraints are applied by EnsureSchema
var constraints = []string{
	`CREATE CONSTRAINT job_natural_key IF NOT EXISTS FOR (j:Job) REQUIRE (j.source, j.sourceId) IS UNIQUE`,
	`CREATE CONSTRAINT job_id IF NOT EXISTS FOR (j:Job) REQUIRE j.id IS UNIQUE`,
	`CREATE CONSTRAINT skill_id IF NOT EXISTS FOR (s:Skill) REQUIRE s.id IS UNIQUE`,
	`CREATE INDEX job_imported_at IF NOT EXISTS FOR (j:Job) ON (j.importedAt)`,
}

const upsertJobQuery = `
	MERGE (j:Job {source: $source, sourceId: $sourceId})
	ON CREATE SET j.id = $id,
	              j.firstImportedAt = datetime({epochMillis: $importedAt})
	WITH j, j.id = $id AS created
	SET j.title = $title,
	    j.company = $company,
	    j.companyLogo = $companyLogo,
	    j.location = $location,
	    j.country = $country,
	    j.description = $description,
	    j.requirements = $requirements,
	    j.skills = $skills,
	    j.employmentType = $employmentType,
	    j.salary = $salary,
	    j.salaryMin = $salaryMin,
	    j.salaryMax = $salaryMax,
	    j.salaryCurrency = $salaryCurrency,
	    j.sector = $sector,
	    j.sectorConfidence = $sectorConfidence,
	    j.isRemote = $isRemote,
	    j.isHybrid = $isHybrid,
	    j.isUrgent = $isUrgent,
	    j.isFeatured = $isFeatured,
	    j.applyUrl = $applyUrl,
	    j.sourceUrl = $sourceUrl,
	    j.postedAt = CASE WHEN $postedAt IS NULL THEN null ELSE datetime({epochMillis: $postedAt}) END,
	    j.importedAt = datetime({epochMillis: $importedAt})
	WITH j, created
	OPTIONAL MATCH (j)-[old:REQUIRES|POSTED_BY|IN_SECTOR|IN_COUNTRY]->()
	DELETE old
	WITH DISTINCT j, created
	MERGE (sec:Sector {id: $sector})
	MERGE (j)-[:IN_SECTOR]->(sec)
	FOREACH (name IN CASE WHEN $company = '' THEN [] ELSE [$company] END |
		MERGE (c:Company {id: toLower(name)})
		ON CREATE SET c.name = name
		MERGE (j)-[:POSTED_BY]->(c)
	)
	FOREACH (code IN CASE WHEN $country = '' THEN [] ELSE [$country] END |
		MERGE (co:Country {code: code})
		MERGE (j)-[:IN_COUNTRY]->(co)
	)
	FOREACH (skill IN $skills |
		MERGE (s:Skill {id: toLower(skill)})
		ON CREATE SET s.name = skill
		MERGE (j)-[:REQUIRES]->(s)
	)
	RETURN created
`

// JobRepository stores jobs as a graph of Job, Company, Skill, Sector and
// Country nodes
type JobRepository struct {
	client *pkgneo4j.Client
}

// NewJobRepository creates a JobRepository with a Neo4j client
func NewJobRepository(client *pkgneo4j.Client) *JobRepository {
	return &JobRepository{
		client: client,
	}
}

// EnsureSchema creates uniqueness constraints and indexes
func (r *JobRepository) EnsureSchema(ctx context.Context) error {
	session := r.client.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	for _, stmt := range constraints {
		if _, err := session.Run(ctx, stmt, nil); err != nil {
			return fmt.Errorf("neo4j schema: %w", err)
		}
	}
	return nil
}

// Ping checks the connection
func (r *JobRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx)
}

// UpsertJob merges a job on (source, sourceId). Identity and
// firstImportedAt are only written when the node is created.
func (r *JobRepository) UpsertJob(ctx context.Context, j domain.Job) (domain.UpsertOutcome, error) {
	session := r.client.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	created, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, upsertJobQuery, jobProps(j))
		if err != nil {
			return nil, err
		}
		record, err := result.Single(ctx)
		if err != nil {
			return nil, err
		}
		v, _ := record.Get("created")
		b, _ := v.(bool)
		return b, nil
	})
	if err != nil {
		return 0, fmt.Errorf("neo4j upsert %s: %w", j.Key(), err)
	}

	if created.(bool) {
		return domain.OutcomeCreated, nil
	}
	return domain.OutcomeUpdated, nil
}

// FindJobs filters Job nodes, newest import first
func (r *JobRepository) FindJobs(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error) {
	session := r.client.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (j:Job)
		WHERE ($country = '' OR j.country = $country)
		  AND ($sector = '' OR j.sector = $sector)
		  AND ($source = '' OR j.source = $source)
		  AND ($remote IS NULL OR j.isRemote = $remote)
		  AND ($query = '' OR toLower(j.title + ' ' + coalesce(j.company, '') + ' ' + coalesce(j.description, '')) CONTAINS $query)
		RETURN j
		ORDER BY j.importedAt DESC, j.source, j.sourceId
		SKIP $offset
		LIMIT $limit
	`

	params := filterParams(filter)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		records, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		return records.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("neo4j find jobs: %w", err)
	}

	records := result.([]*neo4j.Record)
	jobs := make([]domain.Job, 0, len(records))
	for _, record := range records {
		val, ok := record.Get("j")
		if !ok {
			continue
		}
		node, ok := val.(neo4j.Node)
		if !ok {
			continue
		}
		j, err := jobFromNode(node)
		if err != nil {
			continue
		}
		jobs = append(jobs, j)
	}
	return jobs, nil
}

// JobStats counts Job nodes grouped by source, country and sector
func (r *JobRepository) JobStats(ctx context.Context) (domain.JobStats, error) {
	session := r.client.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (j:Job)
		RETURN j.source AS source, coalesce(j.country, '') AS country, j.sector AS sector, count(*) AS n
	`

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		records, err := tx.Run(ctx, query, nil)
		if err != nil {
			return nil, err
		}
		return records.Collect(ctx)
	})
	if err != nil {
		return domain.JobStats{}, fmt.Errorf("neo4j job stats: %w", err)
	}

	stats := domain.NewJobStats()
	for _, record := range result.([]*neo4j.Record) {
		source, _ := record.Get("source")
		country, _ := record.Get("country")
		sector, _ := record.Get("sector")
		src, _ := source.(string)
		code, _ := country.(string)
		sec, _ := sector.(string)
		stats.Add(src, code, sec, int(getRecordFloat(record, "n")))
	}
	return stats, nil
}

func filterParams(filter domain.JobFilter) map[string]any {
	var remote any
	if filter.Remote != nil {
		remote = *filter.Remote
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	return map[string]any{
		"country": filter.Country,
		"sector":  string(filter.Sector),
		"source":  string(filter.Source),
		"remote":  remote,
		"query":   strings.ToLower(strings.TrimSpace(filter.Query)),
		"offset":  int64(offset),
		"limit":   int64(filter.EffectiveLimit()),
	}
}
