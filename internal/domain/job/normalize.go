package job

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/honeycarbs/job-aggregator/internal/domain"
	"github.com/honeycarbs/job-aggregator/internal/domain/classify"
	"github.com/honeycarbs/job-aggregator/pkg/logging"
)

// ErrValidation marks a record rejected before persistence
var ErrValidation = errors.New("job rejected")

// NormalizeResult is the deduplicated, validated batch
type NormalizeResult struct {
	Jobs       []domain.Job
	Duplicates int
	Invalid    int
}

// requiredFields mirrors the persistence preconditions of a job
type requiredFields struct {
	Source    string `validate:"required"`
	SourceID  string `validate:"required"`
	Title     string `validate:"required_without=Company"`
	Company   string `validate:"required_without=Title"`
	ApplyURL  string `validate:"required_without=SourceURL"`
	SourceURL string `validate:"required_without=ApplyURL"`
}

// Normalizer maps raw provider jobs into validated domain jobs
type Normalizer struct {
	validate *validator.Validate
	logger   *logging.Logger
}

// NewNormalizer builds a Normalizer
func NewNormalizer(logger *logging.Logger) *Normalizer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Normalizer{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// Normalize converts, validates and deduplicates a tagged batch.
// Order is preserved and the first occurrence of a title/company pair wins.
func (n *Normalizer) Normalize(tagged []domain.TaggedJob) NormalizeResult {
	res := NormalizeResult{Jobs: make([]domain.Job, 0, len(tagged))}
	seen := make(map[string]struct{}, len(tagged))

	for _, t := range tagged {
		job, err := n.NormalizeOne(t)
		if err != nil {
			res.Invalid++
			n.logger.Debug("job rejected", "provider", t.Provider, "title", t.Raw.Title, "err", err)
			continue
		}

		key := DedupKey(job)
		if _, dup := seen[key]; dup {
			res.Duplicates++
			continue
		}
		seen[key] = struct{}{}
		res.Jobs = append(res.Jobs, job)
	}
	return res
}

// DedupKey is the case-insensitive title/company pair used within one batch
func DedupKey(j domain.Job) string {
	return collapse(j.Title) + "|" + collapse(j.Company)
}

// NormalizeOne maps a single tagged raw job and validates the result
func (n *Normalizer) NormalizeOne(t domain.TaggedJob) (domain.Job, error) {
	job := mapRaw(t)
	if err := n.Validate(job); err != nil {
		return domain.Job{}, err
	}
	return job, nil
}

// Validate checks the fields a stored job cannot do without
func (n *Normalizer) Validate(job domain.Job) error {
	err := n.validate.Struct(requiredFields{
		Source:    string(job.Source),
		SourceID:  job.SourceID,
		Title:     job.Title,
		Company:   job.Company,
		ApplyURL:  job.ApplyURL,
		SourceURL: job.SourceURL,
	})
	if err == nil {
		if !job.Source.Valid() {
			return fmt.Errorf("%w: unknown source %q", ErrValidation, job.Source)
		}
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field())
		}
		return fmt.Errorf("%w: missing %s", ErrValidation, strings.Join(fields, ", "))
	}
	return fmt.Errorf("%w: %v", ErrValidation, err)
}

func mapRaw(t domain.TaggedJob) domain.Job {
	raw := t.Raw

	source := raw.Source
	if source == "" {
		source = t.Provider
	}

	job := domain.Job{
		Source:         source,
		SourceID:       strings.TrimSpace(raw.SourceID),
		Title:          strings.Join(strings.Fields(raw.Title), " "),
		Company:        strings.Join(strings.Fields(raw.Company), " "),
		CompanyLogo:    strings.TrimSpace(raw.CompanyLogo),
		Location:       strings.Join(strings.Fields(raw.Location), " "),
		Description:    stripHTML(raw.Description),
		EmploymentType: normalizeEmploymentType(raw.EmploymentType),
		SalaryMin:      raw.SalaryMin,
		SalaryMax:      raw.SalaryMax,
		IsFeatured:     raw.Featured,
		ApplyURL:       strings.TrimSpace(raw.ApplyURL),
		SourceURL:      strings.TrimSpace(raw.SourceURL),
		PostedAt:       raw.PostedAt,
	}
	if job.SourceID == "" {
		job.SourceID = domain.DeriveSourceID(raw)
	}

	job.Requirements = stripHTML(raw.Requirements)
	if job.Requirements == "" {
		job.Requirements = deriveRequirements(job.Description)
	}

	job.Country = classify.NormalizeCountry(t.CountryCode)
	if job.Country == "" {
		job.Country = classify.NormalizeCountry(raw.Country)
	}
	if job.Country == "" {
		job.Country, _ = classify.DetectCountry(job.Location)
	}

	if hint, ok := classify.ParseSector(raw.Sector); ok && hint != domain.SectorGeneral {
		job.Sector, job.SectorConfidence = hint, 1
	} else {
		job.Sector, job.SectorConfidence = classify.ClassifySector(job.Title, job.Description)
	}

	skills := raw.Skills
	if len(skills) == 0 {
		skills = classify.ExtractSkills(job.Title + "\n" + job.Description)
	}
	job.Skills = uniqueSkills(skills)

	text := strings.ToLower(job.Title + " " + job.Description + " " + job.Location)
	if raw.Remote != nil {
		job.IsRemote = *raw.Remote
	} else {
		job.IsRemote = containsAny(text, remoteKeywords)
	}
	if raw.Hybrid != nil {
		job.IsHybrid = *raw.Hybrid
	} else {
		job.IsHybrid = containsAny(text, hybridKeywords)
	}
	job.IsUrgent = raw.Urgent || containsAny(strings.ToLower(job.Title+" "+job.Description), urgentKeywords)

	job.SalaryCurrency = strings.ToUpper(strings.TrimSpace(raw.SalaryCurrency))
	job.Salary = strings.TrimSpace(raw.Salary)
	hasSalary := job.Salary != "" || job.SalaryMin != nil || job.SalaryMax != nil
	if job.SalaryCurrency == "" && hasSalary {
		if c, ok := classify.Country(job.Country); ok {
			job.SalaryCurrency = c.Currency
		}
	}
	if job.Salary == "" {
		job.Salary = formatSalary(job.SalaryMin, job.SalaryMax, job.SalaryCurrency)
	}

	return job
}

// uniqueSkills trims and case-insensitively deduplicates, keeping order
func uniqueSkills(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		k := strings.ToLower(s)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}
	return out
}
