package domain

// Domain is one of the five Big-Five trait clusters.
type Domain string

const (
	Extraversion         Domain = "extraversion"
	Agreeableness        Domain = "agreeableness"
	Conscientiousness    Domain = "conscientiousness"
	NegativeEmotionality Domain = "negative_emotionality"
	OpenMindedness       Domain = "open_mindedness"
)

// Domains lists every domain in canonical order. Anything that consumes the
// seeded stream per domain iterates this slice, never a map.
var Domains = []Domain{
	Extraversion,
	Agreeableness,
	Conscientiousness,
	NegativeEmotionality,
	OpenMindedness,
}

// Facet names, grouped by owning domain.
const (
	Sociability   = "sociability"
	Assertiveness = "assertiveness"
	EnergyLevel   = "energy_level"

	Compassion     = "compassion"
	Respectfulness = "respectfulness"
	Trust          = "trust"

	Organization   = "organization"
	Productiveness = "productiveness"
	Responsibility = "responsibility"

	Anxiety             = "anxiety"
	Depression          = "depression"
	EmotionalVolatility = "emotional_volatility"

	IntellectualCuriosity = "intellectual_curiosity"
	AestheticSensitivity  = "aesthetic_sensitivity"
	CreativeImagination   = "creative_imagination"
)

var domainFacets = map[Domain][3]string{
	Extraversion:         {Sociability, Assertiveness, EnergyLevel},
	Agreeableness:        {Compassion, Respectfulness, Trust},
	Conscientiousness:    {Organization, Productiveness, Responsibility},
	NegativeEmotionality: {Anxiety, Depression, EmotionalVolatility},
	OpenMindedness:       {IntellectualCuriosity, AestheticSensitivity, CreativeImagination},
}

// DisplayOrder is the A, C, E, O, N order used when presenting domains.
var DisplayOrder = []Domain{
	Agreeableness,
	Conscientiousness,
	Extraversion,
	OpenMindedness,
	NegativeEmotionality,
}

var domainLetters = map[Domain]string{
	Extraversion:         "E",
	Agreeableness:        "A",
	Conscientiousness:    "C",
	NegativeEmotionality: "N",
	OpenMindedness:       "O",
}

// Letter returns d's single-letter abbreviation, or "" for unknown domains.
func (d Domain) Letter() string {
	return domainLetters[d]
}

// ParseLetter maps an upper-case abbreviation back to its domain.
func ParseLetter(l string) (Domain, bool) {
	for d, letter := range domainLetters {
		if letter == l {
			return d, true
		}
	}
	return "", false
}

// Valid reports whether d is one of the five known domains.
func (d Domain) Valid() bool {
	_, ok := domainFacets[d]
	return ok
}

// Facets returns the three facet names owned by d, in corpus key order.
// The second return value is false for unknown domains.
func (d Domain) Facets() ([3]string, bool) {
	f, ok := domainFacets[d]
	return f, ok
}

// ParseDomain converts a raw string into a Domain, rejecting unknown names.
func ParseDomain(s string) (Domain, bool) {
	d := Domain(s)
	return d, d.Valid()
}

// AllFacets returns the 15 facet names in canonical domain order.
func AllFacets() []string {
	out := make([]string, 0, 15)
	for _, d := range Domains {
		f := domainFacets[d]
		out = append(out, f[:]...)
	}
	return out
}

// DomainOfFacet returns the domain owning the named facet.
func DomainOfFacet(facet string) (Domain, bool) {
	for _, d := range Domains {
		for _, f := range domainFacets[d] {
			if f == facet {
				return d, true
			}
		}
	}
	return "", false
}

// Coherence classifies how internally consistent a facet triple is.
type Coherence int

const (
	CoherenceAny           Coherence = 0 // unconstrained; never a stored label
	CoherenceCoherent      Coherence = 1
	CoherenceUncertain     Coherence = 2
	CoherenceContradictory Coherence = 3
)

// CoherenceLevels lists the stored coherence classes in ascending order.
var CoherenceLevels = []Coherence{CoherenceCoherent, CoherenceUncertain, CoherenceContradictory}

// Valid reports whether c is a stored coherence class (1..3).
func (c Coherence) Valid() bool {
	return c >= CoherenceCoherent && c <= CoherenceContradictory
}

func (c Coherence) String() string {
	switch c {
	case CoherenceCoherent:
		return "coherent"
	case CoherenceUncertain:
		return "uncertain"
	case CoherenceContradictory:
		return "contradictory"
	default:
		return "any"
	}
}

const (
	MinScore = 1
	MaxScore = 5

	// NeutralScore is the midpoint; neutral facets contribute no corpus text.
	NeutralScore = 3
)

// ValidScore reports whether s is within [MinScore, MaxScore].
func ValidScore(s int) bool {
	return s >= MinScore && s <= MaxScore
}

// ClampScore forces s into [MinScore, MaxScore].
func ClampScore(s int) int {
	if s < MinScore {
		return MinScore
	}
	if s > MaxScore {
		return MaxScore
	}
	return s
}
