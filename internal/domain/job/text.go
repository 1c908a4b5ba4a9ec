package job

import (
	"fmt"
	"math"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dustin/go-humanize"
)

const maxRequirementsLen = 1000

var (
	remoteKeywords = []string{"remote", "work from home", "wfh", "telecommute", "anywhere"}
	hybridKeywords = []string{"hybrid"}
	urgentKeywords = []string{"urgent", "immediate start", "immediate joiner", "start immediately", "asap"}

	requirementHeadings = []string{
		"requirements", "qualifications", "what you'll need", "what you will need",
		"what we're looking for", "what we are looking for", "skills required", "you have",
	}
)

// stripHTML turns an HTML fragment into plain text, one block per line
func stripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return cleanLines(s)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return cleanLines(s)
	}
	doc.Find("script, style, noscript").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p, div, li, ul, ol, h1, h2, h3, h4, h5, h6, tr").Each(func(_ int, sel *goquery.Selection) {
		sel.AppendHtml("\n")
	})
	doc.Find("li").Each(func(_ int, sel *goquery.Selection) {
		sel.PrependHtml("- ")
	})
	return cleanLines(doc.Text())
}

// cleanLines trims every line, collapses inner whitespace and drops empty lines
func cleanLines(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}

// collapse lower-cases s and folds whitespace runs into single spaces
func collapse(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// deriveRequirements returns the lines following the first requirements-like
// heading in a plain-text description
func deriveRequirements(description string) string {
	lines := strings.Split(description, "\n")
	for i, line := range lines {
		lower := strings.ToLower(strings.TrimSpace(line))
		heading := ""
		for _, h := range requirementHeadings {
			if strings.HasPrefix(lower, h) {
				heading = h
				break
			}
		}
		if heading == "" {
			continue
		}

		var b strings.Builder
		// text on the heading line itself, e.g. "Requirements: 3 years Go"
		if rest := strings.TrimLeft(strings.TrimSpace(line)[len(heading):], " :-"); rest != "" {
			b.WriteString(rest)
		}
		for _, next := range lines[i+1:] {
			next = strings.TrimSpace(next)
			if b.Len() > 0 && strings.HasSuffix(next, ":") {
				break
			}
			if b.Len()+len(next) > maxRequirementsLen {
				break
			}
			if b.Len() > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(next)
		}
		return strings.TrimSpace(b.String())
	}
	return ""
}

// formatSalary renders a display string such as "GBP 28,000 - 34,000"
func formatSalary(minimum, maximum *float64, currency string) string {
	amount := func(v float64) string {
		return humanize.Comma(int64(math.Round(v)))
	}

	var s string
	switch {
	case minimum != nil && maximum != nil && *minimum != *maximum:
		s = fmt.Sprintf("%s - %s", amount(*minimum), amount(*maximum))
	case minimum != nil:
		s = amount(*minimum)
	case maximum != nil:
		s = "up to " + amount(*maximum)
	default:
		return ""
	}
	if currency != "" {
		s = currency + " " + s
	}
	return s
}

// normalizeEmploymentType maps provider spellings onto a small closed set
func normalizeEmploymentType(s string) string {
	t := strings.ToLower(strings.TrimSpace(s))
	t = strings.NewReplacer("-", "", "_", "", " ", "").Replace(t)
	switch {
	case t == "":
		return ""
	case strings.Contains(t, "fulltime") || t == "permanent":
		return "full_time"
	case strings.Contains(t, "parttime"):
		return "part_time"
	case strings.Contains(t, "contract"):
		return "contract"
	case strings.Contains(t, "temp"):
		return "temporary"
	case strings.Contains(t, "intern"):
		return "internship"
	default:
		return t
	}
}
