// Package classify maps free text to countries, sectors and skills using
// static keyword tables.
package classify

import (
	"sort"
	"strings"

	"github.com/honeycarbs/job-aggregator/internal/domain"
)

// CountryConfig describes a country the importer can fetch for
type CountryConfig struct {
	Code     string                   `json:"code"`
	Name     string                   `json:"name"`
	Currency string                   `json:"currency"`
	Priority int                      `json:"priority"`
	Keywords []string                 `json:"-"`
	Locales  map[domain.Source]string `json:"locales"`
}

// Locale returns the provider-specific country code, empty when the
// provider does not serve the country
func (c CountryConfig) Locale(source domain.Source) string {
	return c.Locales[source]
}

// countries is ordered by priority; DetectCountry relies on that order
var countries = sortByPriority([]CountryConfig{
	{
		Code: "IN", Name: "India", Currency: "INR", Priority: 1,
		Keywords: []string{"india", "bangalore", "bengaluru", "mumbai", "new delhi", "delhi", "hyderabad", "chennai", "pune", "kolkata", "noida", "gurgaon", "gurugram", "ahmedabad", "karnataka", "maharashtra", "tamil nadu", "telangana", "kerala", "jaipur", "kochi"},
		Locales:  locales("in", "in", "in", ""),
	},
	{
		Code: "US", Name: "United States", Currency: "USD", Priority: 2,
		Keywords: []string{"united states", "usa", "u.s.", "america", "new york", "san francisco", "seattle", "los angeles", "chicago", "boston", "austin", "texas", "california", "washington", "florida", "denver", "atlanta", "new mexico"},
		Locales:  locales("us", "us", "us", ""),
	},
	{
		Code: "GB", Name: "United Kingdom", Currency: "GBP", Priority: 3,
		Keywords: []string{"united kingdom", "england", "scotland", "britain", "london", "manchester", "birmingham", "edinburgh", "glasgow", "leeds", "bristol", "liverpool", "cardiff"},
		Locales:  locales("gb", "gb", "uk", "gb"),
	},
	{
		Code: "CA", Name: "Canada", Currency: "CAD", Priority: 4,
		Keywords: []string{"canada", "toronto", "vancouver", "montreal", "ontario", "quebec", "calgary", "ottawa", "british columbia", "alberta"},
		Locales:  locales("ca", "ca", "ca", ""),
	},
	{
		Code: "AU", Name: "Australia", Currency: "AUD", Priority: 5,
		Keywords: []string{"australia", "sydney", "melbourne", "brisbane", "perth", "adelaide", "queensland", "new south wales", "victoria, au"},
		Locales:  locales("au", "au", "au", ""),
	},
	{
		Code: "DE", Name: "Germany", Currency: "EUR", Priority: 6,
		Keywords: []string{"germany", "deutschland", "berlin", "munich", "münchen", "hamburg", "frankfurt", "cologne", "köln", "stuttgart", "düsseldorf"},
		Locales:  locales("de", "de", "de", ""),
	},
	{
		Code: "FR", Name: "France", Currency: "EUR", Priority: 7,
		Keywords: []string{"france", "paris", "lyon", "marseille", "toulouse", "bordeaux", "lille"},
		Locales:  locales("fr", "fr", "fr", ""),
	},
	{
		Code: "NL", Name: "Netherlands", Currency: "EUR", Priority: 8,
		Keywords: []string{"netherlands", "holland", "amsterdam", "rotterdam", "utrecht", "eindhoven", "the hague"},
		Locales:  locales("nl", "nl", "nl", ""),
	},
	{
		Code: "SG", Name: "Singapore", Currency: "SGD", Priority: 9,
		Keywords: []string{"singapore"},
		Locales:  locales("sg", "sg", "sg", ""),
	},
	{
		Code: "AE", Name: "United Arab Emirates", Currency: "AED", Priority: 10,
		Keywords: []string{"united arab emirates", "uae", "dubai", "abu dhabi", "sharjah"},
		Locales:  locales("", "ae", "ae", ""),
	},
	{
		Code: "NZ", Name: "New Zealand", Currency: "NZD", Priority: 11,
		Keywords: []string{"new zealand", "auckland", "wellington", "christchurch"},
		Locales:  locales("nz", "nz", "nz", ""),
	},
	{
		Code: "ZA", Name: "South Africa", Currency: "ZAR", Priority: 12,
		Keywords: []string{"south africa", "johannesburg", "cape town", "durban", "pretoria"},
		Locales:  locales("za", "za", "za", ""),
	},
	{
		Code: "IE", Name: "Ireland", Currency: "EUR", Priority: 13,
		Keywords: []string{"ireland", "dublin", "galway", "limerick"},
		Locales:  locales("", "ie", "ie", ""),
	},
	{
		Code: "ES", Name: "Spain", Currency: "EUR", Priority: 14,
		Keywords: []string{"spain", "españa", "madrid", "barcelona", "valencia", "seville"},
		Locales:  locales("es", "es", "es", ""),
	},
	{
		Code: "IT", Name: "Italy", Currency: "EUR", Priority: 15,
		Keywords: []string{"italy", "italia", "milan", "milano", "turin", "naples", "rome, it", "roma, it"},
		Locales:  locales("it", "it", "it", ""),
	},
	{
		Code: "PL", Name: "Poland", Currency: "PLN", Priority: 16,
		Keywords: []string{"poland", "polska", "warsaw", "krakow", "kraków", "wroclaw", "wrocław", "gdansk"},
		Locales:  locales("pl", "pl", "pl", ""),
	},
	{
		Code: "BR", Name: "Brazil", Currency: "BRL", Priority: 17,
		Keywords: []string{"brazil", "brasil", "são paulo", "sao paulo", "rio de janeiro"},
		Locales:  locales("br", "br", "br", ""),
	},
	{
		Code: "MX", Name: "Mexico", Currency: "MXN", Priority: 18,
		Keywords: []string{"mexico", "méxico", "guadalajara", "monterrey"},
		Locales:  locales("mx", "mx", "mx", ""),
	},
	{
		Code: "CH", Name: "Switzerland", Currency: "CHF", Priority: 19,
		Keywords: []string{"switzerland", "zurich", "zürich", "geneva", "basel", "lausanne"},
		Locales:  locales("ch", "ch", "ch", ""),
	},
	{
		Code: "AT", Name: "Austria", Currency: "EUR", Priority: 20,
		Keywords: []string{"austria", "vienna", "salzburg", "innsbruck"},
		Locales:  locales("at", "at", "at", ""),
	},
	{
		Code: "BE", Name: "Belgium", Currency: "EUR", Priority: 21,
		Keywords: []string{"belgium", "brussels", "antwerp", "ghent"},
		Locales:  locales("be", "be", "be", ""),
	},
})

var countryIndex = func() map[string]CountryConfig {
	idx := make(map[string]CountryConfig, len(countries))
	for _, c := range countries {
		idx[c.Code] = c
	}
	return idx
}()

func locales(adzuna, jsearch, google, reed string) map[domain.Source]string {
	m := make(map[domain.Source]string, 4)
	for src, v := range map[domain.Source]string{
		domain.SourceAdzuna:  adzuna,
		domain.SourceJSearch: jsearch,
		domain.SourceGoogle:  google,
		domain.SourceReed:    reed,
	} {
		if v != "" {
			m[src] = v
		}
	}
	return m
}

func sortByPriority(cs []CountryConfig) []CountryConfig {
	sort.SliceStable(cs, func(i, j int) bool { return cs[i].Priority < cs[j].Priority })
	return cs
}

// Countries returns all configured countries in priority order
func Countries() []CountryConfig {
	out := make([]CountryConfig, len(countries))
	copy(out, countries)
	return out
}

// Country looks up a country by ISO-2 code, case-insensitively
func Country(code string) (CountryConfig, bool) {
	c, ok := countryIndex[strings.ToUpper(strings.TrimSpace(code))]
	return c, ok
}

// DefaultCountries returns the n highest-priority countries
func DefaultCountries(n int) []CountryConfig {
	if n <= 0 || n > len(countries) {
		n = len(countries)
	}
	out := make([]CountryConfig, n)
	copy(out, countries[:n])
	return out
}

// NormalizeCountry returns the canonical code for a known country, or ""
func NormalizeCountry(code string) string {
	if c, ok := Country(code); ok {
		return c.Code
	}
	return ""
}

// DetectCountry returns the first country, by priority, whose keywords
// appear in the location text
func DetectCountry(location string) (string, bool) {
	text := strings.ToLower(strings.TrimSpace(location))
	if text == "" {
		return "", false
	}
	for _, c := range countries {
		for _, kw := range c.Keywords {
			if strings.Contains(text, kw) {
				return c.Code, true
			}
		}
	}
	return "", false
}
