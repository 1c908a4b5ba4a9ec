package repository

import (
	"context"

	"github.com/honeycarbs/job-aggregator/internal/domain"
)

// RelatedJob represents a job connected via shared graph elements
type RelatedJob struct {
	Job          domain.Job `json:"job"`
	SharedSkills []string   `json:"sharedSkills"`
	SameSector   bool       `json:"sameSector"`
	SameCompany  bool       `json:"sameCompany"`
	Relevance    float64    `json:"relevance"`
}

// SkillCooccurrence represents skills frequently appearing together
type SkillCooccurrence struct {
	Skill      string   `json:"skill"`
	Cooccurs   int      `json:"cooccurs"`
	CommonWith []string `json:"commonWith"`
}

// GraphRepository defines graph traversals over imported jobs
type GraphRepository interface {
	FindRelatedJobs(ctx context.Context, jobID domain.JobID, limit int) ([]RelatedJob, error)
	GetSkillCooccurrences(ctx context.Context, skills []string, limit int) ([]SkillCooccurrence, error)
}
