package neo4j

import (
	"context"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/honeycarbs/job-aggregator/internal/domain"
	"github.com/honeycarbs/job-aggregator/internal/repository"
	pkgneo4j "github.com/honeycarbs/job-aggregator/pkg/neo4j"
)

var _ repository.GraphRepository = (*GraphRepository)(nil)

// GraphRepository answers traversals over the job graph
type GraphRepository struct {
	client *pkgneo4j.Client
}

// NewGraphRepository creates a graph repository
func NewGraphRepository(client *pkgneo4j.Client) *GraphRepository {
	return &GraphRepository{client: client}
}

// FindRelatedJobs finds jobs connected via shared skills or the same company.
// Shared skills weigh double; sector and company matches add one each.
func (r *GraphRepository) FindRelatedJobs(ctx context.Context, jobID domain.JobID, limit int) ([]repository.RelatedJob, error) {
	session := r.client.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (j:Job {id: $jobId})
		MATCH (related:Job)
		WHERE related.id <> $jobId
		OPTIONAL MATCH (j)-[:REQUIRES]->(s:Skill)<-[:REQUIRES]-(related)
		WITH j, related, collect(DISTINCT s.name) AS sharedSkills
		WITH related, sharedSkills,
		     related.sector = j.sector AS sameSector,
		     (j.company <> '' AND toLower(related.company) = toLower(j.company)) AS sameCompany
		WHERE size(sharedSkills) > 0 OR sameCompany
		RETURN related, sharedSkills, sameSector, sameCompany,
		       toFloat(size(sharedSkills) * 2
		         + CASE WHEN sameSector THEN 1 ELSE 0 END
		         + CASE WHEN sameCompany THEN 1 ELSE 0 END) AS relevance
		ORDER BY relevance DESC, related.importedAt DESC
		LIMIT $limit
	`

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		records, err := tx.Run(ctx, query, map[string]any{
			"jobId": jobID.String(),
			"limit": int64(clampLimit(limit)),
		})
		if err != nil {
			return nil, err
		}
		return records.Collect(ctx)
	})
	if err != nil {
		return nil, err
	}

	related := make([]repository.RelatedJob, 0)
	for _, record := range result.([]*neo4j.Record) {
		val, _ := record.Get("related")
		node, ok := val.(neo4j.Node)
		if !ok {
			continue
		}
		j, err := jobFromNode(node)
		if err != nil {
			continue
		}
		related = append(related, repository.RelatedJob{
			Job:          j,
			SharedSkills: getStringSlice(record, "sharedSkills"),
			SameSector:   getRecordBool(record, "sameSector"),
			SameCompany:  getRecordBool(record, "sameCompany"),
			Relevance:    getRecordFloat(record, "relevance"),
		})
	}
	return related, nil
}

// GetSkillCooccurrences finds skills that commonly appear with given skills
func (r *GraphRepository) GetSkillCooccurrences(ctx context.Context, skills []string, limit int) ([]repository.SkillCooccurrence, error) {
	lowered := make([]string, 0, len(skills))
	for _, s := range skills {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			lowered = append(lowered, s)
		}
	}
	if len(lowered) == 0 {
		return nil, nil
	}

	session := r.client.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (j:Job)-[:REQUIRES]->(s1:Skill)
		WHERE s1.id IN $skills
		MATCH (j)-[:REQUIRES]->(s2:Skill)
		WHERE NOT s2.id IN $skills
		WITH s2.name as skill, count(DISTINCT j) as cooccurs, collect(DISTINCT s1.name) as commonWith
		RETURN skill, cooccurs, commonWith
		ORDER BY cooccurs DESC, skill
		LIMIT $limit
	`

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		records, err := tx.Run(ctx, query, map[string]any{
			"skills": lowered,
			"limit":  int64(clampLimit(limit)),
		})
		if err != nil {
			return nil, err
		}
		return records.Collect(ctx)
	})
	if err != nil {
		return nil, err
	}

	out := make([]repository.SkillCooccurrence, 0)
	for _, record := range result.([]*neo4j.Record) {
		skill, _ := record.Get("skill")
		name, _ := skill.(string)
		out = append(out, repository.SkillCooccurrence{
			Skill:      name,
			Cooccurs:   int(getRecordFloat(record, "cooccurs")),
			CommonWith: getStringSlice(record, "commonWith"),
		})
	}
	return out, nil
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return 10
	case limit > 100:
		return 100
	}
	return limit
}
