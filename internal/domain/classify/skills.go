package classify

import (
	"strings"
	"unicode"
)

type skill struct {
	name    string
	aliases []string
}

var skills = []skill{
	{"Go", []string{"golang"}},
	{"Python", []string{"python"}},
	{"Java", []string{"java"}},
	{"JavaScript", []string{"javascript"}},
	{"TypeScript", []string{"typescript"}},
	{"React", []string{"react", "react.js", "reactjs"}},
	{"Angular", []string{"angular"}},
	{"Vue", []string{"vue", "vue.js"}},
	{"Node.js", []string{"node.js", "nodejs"}},
	{"SQL", []string{"sql"}},
	{"PostgreSQL", []string{"postgresql", "postgres"}},
	{"MySQL", []string{"mysql"}},
	{"MongoDB", []string{"mongodb"}},
	{"AWS", []string{"aws", "amazon web services"}},
	{"Azure", []string{"azure"}},
	{"GCP", []string{"gcp", "google cloud"}},
	{"Docker", []string{"docker"}},
	{"Kubernetes", []string{"kubernetes", "k8s"}},
	{"Terraform", []string{"terraform"}},
	{"Linux", []string{"linux"}},
	{"Git", []string{"git"}},
	{"C++", []string{"c++"}},
	{"C#", []string{"c#"}},
	{".NET", []string{".net"}},
	{"PHP", []string{"php"}},
	{"Ruby", []string{"ruby"}},
	{"Swift", []string{"swift"}},
	{"Kotlin", []string{"kotlin"}},
	{"Rust", []string{"rust"}},
	{"Scala", []string{"scala"}},
	{"Spark", []string{"spark"}},
	{"Machine Learning", []string{"machine learning"}},
	{"Excel", []string{"excel"}},
	{"Salesforce", []string{"salesforce"}},
	{"SAP", []string{"sap"}},
	{"Tableau", []string{"tableau"}},
	{"Power BI", []string{"power bi"}},
	{"Figma", []string{"figma"}},
	{"Photoshop", []string{"photoshop"}},
	{"SEO", []string{"seo"}},
	{"Agile", []string{"agile"}},
	{"Scrum", []string{"scrum"}},
	{"Project Management", []string{"project management"}},
	{"Communication", []string{"communication skills"}},
}

// ExtractSkills returns the known skills mentioned in text, in table order.
// Matches must sit on word boundaries so "java" does not hit "javascript".
func ExtractSkills(text string) []string {
	lower := strings.ToLower(text)
	if strings.TrimSpace(lower) == "" {
		return nil
	}

	var out []string
	for _, s := range skills {
		for _, alias := range s.aliases {
			if containsWord(lower, alias) {
				out = append(out, s.name)
				break
			}
		}
	}
	return out
}

func containsWord(text, word string) bool {
	for start := 0; start < len(text); {
		i := strings.Index(text[start:], word)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(word)
		if boundary(text, i-1) && boundary(text, end) {
			return true
		}
		start = i + 1
	}
	return false
}

func boundary(text string, i int) bool {
	if i < 0 || i >= len(text) {
		return true
	}
	r := rune(text[i])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#'
}
