package domain

type ExtraversionFacets struct {
	Sociability   int `json:"sociability"`
	Assertiveness int `json:"assertiveness"`
	EnergyLevel   int `json:"energy_level"`
}

type AgreeablenessFacets struct {
	Compassion     int `json:"compassion"`
	Respectfulness int `json:"respectfulness"`
	Trust          int `json:"trust"`
}

type ConscientiousnessFacets struct {
	Organization   int `json:"organization"`
	Productiveness int `json:"productiveness"`
	Responsibility int `json:"responsibility"`
}

type NegativeEmotionalityFacets struct {
	Anxiety             int `json:"anxiety"`
	Depression          int `json:"depression"`
	EmotionalVolatility int `json:"emotional_volatility"`
}

type OpenMindednessFacets struct {
	IntellectualCuriosity int `json:"intellectual_curiosity"`
	AestheticSensitivity  int `json:"aesthetic_sensitivity"`
	CreativeImagination   int `json:"creative_imagination"`
}

func (f ExtraversionFacets) Triple() Triple {
	return Triple{f.Sociability, f.Assertiveness, f.EnergyLevel}
}

func (f AgreeablenessFacets) Triple() Triple {
	return Triple{f.Compassion, f.Respectfulness, f.Trust}
}

func (f ConscientiousnessFacets) Triple() Triple {
	return Triple{f.Organization, f.Productiveness, f.Responsibility}
}

func (f NegativeEmotionalityFacets) Triple() Triple {
	return Triple{f.Anxiety, f.Depression, f.EmotionalVolatility}
}

func (f OpenMindednessFacets) Triple() Triple {
	return Triple{f.IntellectualCuriosity, f.AestheticSensitivity, f.CreativeImagination}
}

type ExtraversionResult struct {
	Score  int                `json:"score"`
	Facets ExtraversionFacets `json:"facets"`
}

type AgreeablenessResult struct {
	Score  int                 `json:"score"`
	Facets AgreeablenessFacets `json:"facets"`
}

type ConscientiousnessResult struct {
	Score  int                     `json:"score"`
	Facets ConscientiousnessFacets `json:"facets"`
}

type NegativeEmotionalityResult struct {
	Score  int                        `json:"score"`
	Facets NegativeEmotionalityFacets `json:"facets"`
}

type OpenMindednessResult struct {
	Score  int                  `json:"score"`
	Facets OpenMindednessFacets `json:"facets"`
}

// PersonalityResult is one generated personality: five domain results and the
// seed that reproduces them. Values are built once and never mutated.
type PersonalityResult struct {
	Seed                 string                     `json:"seed"`
	Extraversion         ExtraversionResult         `json:"extraversion"`
	Agreeableness        AgreeablenessResult        `json:"agreeableness"`
	Conscientiousness    ConscientiousnessResult    `json:"conscientiousness"`
	NegativeEmotionality NegativeEmotionalityResult `json:"negative_emotionality"`
	OpenMindedness       OpenMindednessResult       `json:"open_mindedness"`
}

// NewPersonalityResult assembles a result from per-domain triples, computing
// each domain score as the rounded facet mean.
func NewPersonalityResult(seed string, triples map[Domain]Triple) PersonalityResult {
	e, a, c := triples[Extraversion], triples[Agreeableness], triples[Conscientiousness]
	n, o := triples[NegativeEmotionality], triples[OpenMindedness]
	return PersonalityResult{
		Seed: seed,
		Extraversion: ExtraversionResult{
			Score:  e.Score(),
			Facets: ExtraversionFacets{Sociability: e[0], Assertiveness: e[1], EnergyLevel: e[2]},
		},
		Agreeableness: AgreeablenessResult{
			Score:  a.Score(),
			Facets: AgreeablenessFacets{Compassion: a[0], Respectfulness: a[1], Trust: a[2]},
		},
		Conscientiousness: ConscientiousnessResult{
			Score:  c.Score(),
			Facets: ConscientiousnessFacets{Organization: c[0], Productiveness: c[1], Responsibility: c[2]},
		},
		NegativeEmotionality: NegativeEmotionalityResult{
			Score:  n.Score(),
			Facets: NegativeEmotionalityFacets{Anxiety: n[0], Depression: n[1], EmotionalVolatility: n[2]},
		},
		OpenMindedness: OpenMindednessResult{
			Score:  o.Score(),
			Facets: OpenMindednessFacets{IntellectualCuriosity: o[0], AestheticSensitivity: o[1], CreativeImagination: o[2]},
		},
	}
}

// Triples returns the facet triple of every domain.
func (p PersonalityResult) Triples() map[Domain]Triple {
	return map[Domain]Triple{
		Extraversion:         p.Extraversion.Facets.Triple(),
		Agreeableness:        p.Agreeableness.Facets.Triple(),
		Conscientiousness:    p.Conscientiousness.Facets.Triple(),
		NegativeEmotionality: p.NegativeEmotionality.Facets.Triple(),
		OpenMindedness:       p.OpenMindedness.Facets.Triple(),
	}
}

// Scores returns the domain score of every domain.
func (p PersonalityResult) Scores() map[Domain]int {
	return map[Domain]int{
		Extraversion:         p.Extraversion.Score,
		Agreeableness:        p.Agreeableness.Score,
		Conscientiousness:    p.Conscientiousness.Score,
		NegativeEmotionality: p.NegativeEmotionality.Score,
		OpenMindedness:       p.OpenMindedness.Score,
	}
}

// FacetScores returns facet name to score for every domain, keyed by domain.
func (p PersonalityResult) FacetScores() map[Domain]map[string]int {
	out := make(map[Domain]map[string]int, len(Domains))
	for d, t := range p.Triples() {
		names, _ := d.Facets()
		out[d] = map[string]int{names[0]: t[0], names[1]: t[1], names[2]: t[2]}
	}
	return out
}
