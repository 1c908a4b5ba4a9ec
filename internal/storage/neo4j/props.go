package neo4j

import (
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/honeycarbs/job-aggregator/internal/domain"
)

// jobProps flattens a job into query parameters
func jobProps(j domain.Job) map[string]any {
	skills := j.Skills
	if skills == nil {
		skills = []string{}
	}
	var postedAt any
	if j.PostedAt != nil {
		postedAt = j.PostedAt.UnixMilli()
	}
	return map[string]any{
		"id":               j.ID.String(),
		"source":           string(j.Source),
		"sourceId":         j.SourceID,
		"title":            j.Title,
		"company":          j.Company,
		"companyLogo":      j.CompanyLogo,
		"location":         j.Location,
		"country":          j.Country,
		"description":      j.Description,
		"requirements":     j.Requirements,
		"skills":           skills,
		"employmentType":   j.EmploymentType,
		"salary":           j.Salary,
		"salaryMin":        floatOrNil(j.SalaryMin),
		"salaryMax":        floatOrNil(j.SalaryMax),
		"salaryCurrency":   j.SalaryCurrency,
		"sector":           string(j.Sector),
		"sectorConfidence": int64(j.SectorConfidence),
		"isRemote":         j.IsRemote,
		"isHybrid":         j.IsHybrid,
		"isUrgent":         j.IsUrgent,
		"isFeatured":       j.IsFeatured,
		"applyUrl":         j.ApplyURL,
		"sourceUrl":        j.SourceURL,
		"postedAt":         postedAt,
		"importedAt":       j.ImportedAt.UnixMilli(),
	}
}

// jobFromNode rebuilds a job from a Job node
func jobFromNode(node neo4j.Node) (domain.Job, error) {
	props := node.Props
	id, err := uuid.Parse(getStringProp(props, "id"))
	if err != nil {
		return domain.Job{}, err
	}

	j := domain.Job{
		ID:               id,
		Source:           domain.Source(getStringProp(props, "source")),
		SourceID:         getStringProp(props, "sourceId"),
		Title:            getStringProp(props, "title"),
		Company:          getStringProp(props, "company"),
		CompanyLogo:      getStringProp(props, "companyLogo"),
		Location:         getStringProp(props, "location"),
		Country:          getStringProp(props, "country"),
		Description:      getStringProp(props, "description"),
		Requirements:     getStringProp(props, "requirements"),
		Skills:           getStringListProp(props, "skills"),
		EmploymentType:   getStringProp(props, "employmentType"),
		Salary:           getStringProp(props, "salary"),
		SalaryMin:        getFloatPtrProp(props, "salaryMin"),
		SalaryMax:        getFloatPtrProp(props, "salaryMax"),
		SalaryCurrency:   getStringProp(props, "salaryCurrency"),
		Sector:           domain.SectorID(getStringProp(props, "sector")),
		SectorConfidence: int(getIntProp(props, "sectorConfidence")),
		IsRemote:         getBoolProp(props, "isRemote"),
		IsHybrid:         getBoolProp(props, "isHybrid"),
		IsUrgent:         getBoolProp(props, "isUrgent"),
		IsFeatured:       getBoolProp(props, "isFeatured"),
		ApplyURL:         getStringProp(props, "applyUrl"),
		SourceURL:        getStringProp(props, "sourceUrl"),
		ImportedAt:       getTimeProp(props, "importedAt"),
		FirstImportedAt:  getTimeProp(props, "firstImportedAt"),
	}
	if posted := getTimeProp(props, "postedAt"); !posted.IsZero() {
		j.PostedAt = &posted
	}
	return j, nil
}

func floatOrNil(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func getStringProp(props map[string]any, key string) string {
	if v, ok := props[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func getBoolProp(props map[string]any, key string) bool {
	if v, ok := props[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

func getIntProp(props map[string]any, key string) int64 {
	if v, ok := props[key]; ok {
		if i, ok := v.(int64); ok {
			return i
		}
	}
	return 0
}

func getFloatPtrProp(props map[string]any, key string) *float64 {
	v, ok := props[key]
	if !ok || v == nil {
		return nil
	}
	switch n := v.(type) {
	case float64:
		return &n
	case int64:
		f := float64(n)
		return &f
	}
	return nil
}

func getStringListProp(props map[string]any, key string) []string {
	out := []string{}
	list, ok := props[key].([]any)
	if !ok {
		return out
	}
	for _, v := range list {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func getTimeProp(props map[string]any, key string) time.Time {
	if v, ok := props[key]; ok {
		if t, ok := v.(time.Time); ok {
			return t.UTC()
		}
		if dt, ok := v.(neo4j.LocalDateTime); ok {
			return dt.Time()
		}
	}
	return time.Time{}
}

func getStringSlice(record *neo4j.Record, key string) []string {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return nil
	}

	list, ok := val.([]any)
	if !ok {
		return nil
	}

	result := make([]string, 0, len(list))
	for _, v := range list {
		if s, ok := v.(string); ok {
			result = append(result, s)
		}
	}
	return result
}

func getRecordFloat(record *neo4j.Record, key string) float64 {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return 0
	}
	if f, ok := val.(float64); ok {
		return f
	}
	if i, ok := val.(int64); ok {
		return float64(i)
	}
	return 0
}

func getRecordBool(record *neo4j.Record, key string) bool {
	val, ok := record.Get(key)
	if !ok {
		return false
	}
	b, _ := val.(bool)
	return b
}
