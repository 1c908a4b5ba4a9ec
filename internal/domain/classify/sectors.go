package classify

import (
	"strings"

	"github.com/honeycarbs/job-aggregator/internal/domain"
)

// SectorDefinition is a fixed industry tag with its matching keywords
type SectorDefinition struct {
	ID       domain.SectorID `json:"id"`
	Name     string          `json:"name"`
	Icon     string          `json:"icon"`
	Keywords []string        `json:"keywords"`
}

// sectors is in declaration order; ClassifySector breaks ties by it.
// general carries no keywords and is only assigned when nothing matches.
var sectors = []SectorDefinition{
	{ID: "technology", Name: "Technology & IT", Icon: "laptop", Keywords: []string{
		"software", "developer", "programmer", "frontend", "front-end", "backend", "back-end",
		"full stack", "fullstack", "devops", "cloud", "react", "node.js", "javascript", "typescript",
		"python", "golang", "kubernetes", "data engineer", "machine learning", "cybersecurity", "it support",
	}},
	{ID: "healthcare", Name: "Healthcare & Medical", Icon: "stethoscope", Keywords: []string{
		"nurse", "nursing", "doctor", "physician", "clinical", "hospital", "healthcare", "medical",
		"pharmacist", "pharmacy", "dental", "therapist", "patient", "care assistant",
	}},
	{ID: "finance", Name: "Finance & Accounting", Icon: "banknote", Keywords: []string{
		"finance", "financial", "accountant", "accounting", "audit", "banking", "investment",
		"bookkeeper", "actuary", "credit analyst", "treasury", "tax advisor",
	}},
	{ID: "education", Name: "Education & Training", Icon: "graduation-cap", Keywords: []string{
		"teacher", "teaching", "tutor", "lecturer", "school", "education", "curriculum",
		"professor", "academic", "instructor",
	}},
	{ID: "engineering", Name: "Engineering", Icon: "wrench", Keywords: []string{
		"mechanical", "electrical engineer", "civil engineer", "structural", "engineering",
		"process engineer", "autocad", "hvac",
	}},
	{ID: "marketing", Name: "Marketing & Communications", Icon: "megaphone", Keywords: []string{
		"marketing", "seo", "brand", "social media", "content writer", "campaign", "copywriter",
		"public relations", "communications",
	}},
	{ID: "sales", Name: "Sales & Business Development", Icon: "handshake", Keywords: []string{
		"sales", "business development", "account executive", "account manager", "telesales",
		"inside sales", "lead generation",
	}},
	{ID: "design", Name: "Design & Creative", Icon: "palette", Keywords: []string{
		"designer", "ux", "ui/ux", "graphic", "figma", "illustrator", "creative director", "animator",
	}},
	{ID: "hr", Name: "Human Resources", Icon: "users", Keywords: []string{
		"human resources", "hr manager", "hr executive", "hr business partner", "recruiter",
		"recruitment", "talent acquisition", "payroll",
	}},
	{ID: "legal", Name: "Legal", Icon: "scale", Keywords: []string{
		"lawyer", "legal", "attorney", "solicitor", "paralegal", "compliance", "counsel",
	}},
	{ID: "hospitality", Name: "Hospitality & Tourism", Icon: "utensils", Keywords: []string{
		"hotel", "chef", "restaurant", "hospitality", "barista", "waiter", "waitress",
		"housekeeping", "kitchen", "tourism",
	}},
	{ID: "retail", Name: "Retail", Icon: "shopping-bag", Keywords: []string{
		"retail", "store manager", "cashier", "merchandiser", "shop assistant", "store assistant",
	}},
	{ID: "logistics", Name: "Logistics & Supply Chain", Icon: "truck", Keywords: []string{
		"logistics", "supply chain", "warehouse", "driver", "delivery", "procurement",
		"inventory", "forklift", "freight",
	}},
	{ID: "construction", Name: "Construction & Trades", Icon: "hard-hat", Keywords: []string{
		"construction", "site manager", "carpenter", "plumber", "electrician", "bricklayer",
		"quantity surveyor", "scaffolder",
	}},
	{ID: "manufacturing", Name: "Manufacturing & Production", Icon: "factory", Keywords: []string{
		"manufacturing", "production operator", "factory", "machine operator", "assembly",
		"quality control", "cnc",
	}},
	{ID: "customer_service", Name: "Customer Service", Icon: "headset", Keywords: []string{
		"customer service", "customer support", "call centre", "call center", "helpdesk",
		"client service", "customer success",
	}},
	{ID: "admin", Name: "Administration & Office", Icon: "clipboard", Keywords: []string{
		"administrative", "receptionist", "office manager", "data entry", "secretary",
		"personal assistant", "office administrator", "clerk",
	}},
	{ID: "consulting", Name: "Consulting & Strategy", Icon: "briefcase", Keywords: []string{
		"consultant", "consulting", "advisory", "strategy",
	}},
	{ID: "media", Name: "Media & Journalism", Icon: "film", Keywords: []string{
		"journalist", "editor", "media", "video", "broadcast", "photographer", "film",
	}},
	{ID: "science", Name: "Science & Research", Icon: "flask", Keywords: []string{
		"scientist", "laboratory", "chemist", "biologist", "biotech", "research associate",
		"r&d",
	}},
	{ID: "energy", Name: "Energy & Utilities", Icon: "zap", Keywords: []string{
		"energy", "oil and gas", "renewable", "solar", "wind turbine", "utilities", "power plant",
	}},
	{ID: "government", Name: "Government & Public Sector", Icon: "landmark", Keywords: []string{
		"government", "public sector", "civil service", "municipal", "policy officer", "council",
	}},
	{ID: "real_estate", Name: "Real Estate & Property", Icon: "home", Keywords: []string{
		"real estate", "property", "estate agent", "leasing", "realtor", "mortgage",
	}},
	{ID: "agriculture", Name: "Agriculture & Environment", Icon: "sprout", Keywords: []string{
		"agriculture", "farm", "agronomist", "horticulture", "veterinary", "environmental",
	}},
	{ID: "automotive", Name: "Automotive", Icon: "car", Keywords: []string{
		"automotive", "mechanic", "vehicle", "motor technician", "auto body",
	}},
	{ID: "security", Name: "Security & Protective Services", Icon: "shield", Keywords: []string{
		"security guard", "security officer", "surveillance", "loss prevention", "cctv",
	}},
	{ID: "nonprofit", Name: "Nonprofit & NGO", Icon: "heart", Keywords: []string{
		"ngo", "non-profit", "nonprofit", "charity", "volunteer", "fundraising",
	}},
	{ID: domain.SectorGeneral, Name: "General", Icon: "grid"},
}

var sectorIndex = func() map[domain.SectorID]SectorDefinition {
	idx := make(map[domain.SectorID]SectorDefinition, len(sectors))
	for _, s := range sectors {
		idx[s.ID] = s
	}
	return idx
}()

// Sectors returns all sector definitions in declaration order
func Sectors() []SectorDefinition {
	out := make([]SectorDefinition, len(sectors))
	copy(out, sectors)
	return out
}

// Sector looks up a sector definition by id
func Sector(id domain.SectorID) (SectorDefinition, bool) {
	s, ok := sectorIndex[id]
	return s, ok
}

// ParseSector maps a free-form tag onto a known sector id.
// Unknown tags yield general and false.
func ParseSector(tag string) (domain.SectorID, bool) {
	t := strings.ToLower(strings.TrimSpace(tag))
	t = strings.NewReplacer(" ", "_", "-", "_").Replace(t)
	if t == "" {
		return domain.SectorGeneral, false
	}
	if _, ok := sectorIndex[domain.SectorID(t)]; ok {
		return domain.SectorID(t), true
	}
	return domain.SectorGeneral, false
}

// ClassifySector picks the sector whose keywords occur most often in the
// title and description. Confidence is the number of matched keywords.
func ClassifySector(title, description string) (domain.SectorID, int) {
	text := strings.ToLower(strings.TrimSpace(title + " " + description))
	if text == "" {
		return domain.SectorGeneral, 0
	}

	best, bestScore := domain.SectorGeneral, 0
	for _, s := range sectors {
		score := 0
		for _, kw := range s.Keywords {
			if strings.Contains(text, kw) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = s.ID, score
		}
	}
	return best, bestScore
}
