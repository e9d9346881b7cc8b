package router

import (
	"regexp"

	"github.com/smilepat/csat-connectedu-company/internal/itemtype"
)

// Surface and discourse signal patterns. Format signals (markers,
// labels, notice keys) are strong; content signals (modality, emotion,
// data talk) are weaker and accumulate.
var (
	reUnderline    = regexp.MustCompile(`(?is)<u>.*?</u>`)
	reCircled      = regexp.MustCompile(`[①②③④⑤]`)
	reInsertParens = regexp.MustCompile(`\(\s*[①②③④⑤]\s*\)`)
	reParaLabels   = regexp.MustCompile(`\([A-C]\)`)
	reLowerParens  = regexp.MustCompile(`\([a-e]\)`)

	reNoticeKeys = regexp.MustCompile(`(?i)\b(Title|Date|Location|Eligibility|Registration|Fee|Contact|Note|Time|Venue|Deadline|Participants?|Schedule|Period|Duration|Awards?)\s*:`)
	reBulletDot  = regexp.MustCompile(`(?m)[∙•]|^\s*[-*]\s`)
	rePriceSign  = regexp.MustCompile(`[$￡€]\s*\d`)

	reLetterOpen  = regexp.MustCompile(`\b(Dear\s+[A-Z][a-zA-Z]+|To whom it may concern)\b`)
	reLetterClose = regexp.MustCompile(`\b(Sincerely|Regards|Best regards|Yours truly)\b`)
	reIntent      = regexp.MustCompile(`(?i)\b(I am writing to inquire|I would like to (?:ask|request|know)|Please let me know|I ask you to|This post is for you|If you'?re interested in)\b`)

	reArgument = regexp.MustCompile(`(?i)\b(should|must|ought to|need to|have to|it is necessary to|it is (?:important|essential|crucial) to)\b`)
	reEmotion  = regexp.MustCompile(`(?i)\b(feel|felt|anxious|relieved|disappointed|excited|upset|proud|afraid|nervous|confident)\b`)
	reTurning  = regexp.MustCompile(`(?i)\b(However|But|Then|Finally|At last|After (he|she|I))\b`)

	rePosEmotion = regexp.MustCompile(`(?i)\b(relieved|confident|excited|proud|joyful|happy|glad|satisfied)\b`)
	reNegEmotion = regexp.MustCompile(`(?i)\b(anxious|uneasy|upset|afraid|nervous|disappointed|frustrated|worried)\b`)

	reIdiom  = regexp.MustCompile(`(?i)\b(the\s+\w+\s+in\s+the\s+room|double-?edged\s+sword|on\s+thin\s+ice|glass\s+ceiling|slippery\s+slope|tip of the iceberg)\b`)
	reSimile = regexp.MustCompile(`(?i)\b(?:like|as)\s+(?:a|an|the)\s*[a-z][a-z\-']{3,}`)

	reCharty = regexp.MustCompile(`(?i)\b(percent|percentage|survey|graph|chart|table|figure|rank(?:ed)?|ratio|per capita|growth rate)\b`)
	reBio    = regexp.MustCompile(`(?i)\b(born in|was born|died in|passed away|awarded|won the|early life|later years|Nobel|prize|biograph)\b`)

	reGrammarMeta = regexp.MustCompile(`(?i)\b(tense|agreement|subject[-\s]?verb|preposition|pronoun|parallelism|participle|gerund|infinitive|modifier)\b`)
	reLexicalMeta = regexp.MustCompile(`(?i)\b(word\s*choice|lexical|collocation|nuance|synonym|antonym|appropriate|inappropriate)\b`)
	reRelatives   = regexp.MustCompile(`(?i)\b(which|that|who|whom|whose|where|when)\b`)

	rePivot     = regexp.MustCompile(`(?i)\b(it follows that|in turn|therefore|thus|consequently|as a result|hence)\b`)
	reContrast  = regexp.MustCompile(`(?i)\b(by contrast|in contrast|however|nevertheless|nonetheless|on the other hand)\b`)
	reReasoning = regexp.MustCompile(`(?i)\b(analogy|argument|reasoning|logic|assumption|principle|theory|model|in fact|fails to|undermines?)\b`)

	reDefCue     = regexp.MustCompile(`(?i)\b(?:is|are|was|were)\s+(?:called|known as|defined as)\b|\b(?:refers to|means that)\b`)
	reExampleCue = regexp.MustCompile(`(?i)\b(for example|for instance|similarly|in particular|in practice)\b`)
	reExperiment = regexp.MustCompile(`(?i)\b(experiment|randomi[sz]ed|control group|placebo|participants?|in one study|in a study|results? (?:show|suggest|indicate))\b`)
	rePairing    = regexp.MustCompile(`(?i)\b(the\s+former|the\s+latter|respectively)\b`)
)

// Boost is one rule's contribution toward one item type.
type Boost struct {
	Type   itemtype.Code
	Weight float64
}

// Rule pairs a passage predicate with the type boosts it triggers.
type Rule struct {
	Name   string
	Match  func(p *Passage) bool
	Boosts []Boost
}

func isNoticeLike(p *Passage) bool {
	return reNoticeKeys.MatchString(p.Text) ||
		(reBulletDot.MatchString(p.Text) && rePriceSign.MatchString(p.Text))
}

func isLetterLike(p *Passage) bool {
	return reLetterOpen.MatchString(p.Text) || reLetterClose.MatchString(p.Text)
}

func hasEmotionShift(p *Passage) bool {
	return rePosEmotion.MatchString(p.Text) &&
		reNegEmotion.MatchString(p.Text) &&
		reTurning.MatchString(p.Text)
}

// isExpository: single-topic explanatory prose with no notice, letter
// or narrative-emotion shape. The evergreen gist types key on this.
func isExpository(p *Passage) bool {
	if p.Sentences < 4 {
		return false
	}
	return !isNoticeLike(p) && !isLetterLike(p) && !hasEmotionShift(p)
}

// rules is the ordered rule table. Scores for a type are summed across
// matching rules and clamped to [0, 1].
var rules = []Rule{
	{
		Name:  "underline-markup",
		Match: func(p *Passage) bool { return reUnderline.MatchString(p.Text) },
		Boosts: []Boost{
			{itemtype.RC21, 0.35}, {itemtype.RC29, 0.30}, {itemtype.RC30, 0.30},
		},
	},
	{
		Name:  "circled-numerals",
		Match: func(p *Passage) bool { return reCircled.MatchString(p.Text) },
		Boosts: []Boost{
			{itemtype.RC29, 0.35}, {itemtype.RC30, 0.25}, {itemtype.RC35, 0.15},
		},
	},
	{
		Name:   "insertion-parens",
		Match:  func(p *Passage) bool { return reInsertParens.MatchString(p.Text) },
		Boosts: []Boost{{itemtype.RC38, 0.40}, {itemtype.RC39, 0.25}},
	},
	{
		Name:   "paragraph-labels",
		Match:  func(p *Passage) bool { return reParaLabels.MatchString(p.Text) },
		Boosts: []Boost{{itemtype.RC36, 0.45}, {itemtype.RC37, 0.35}},
	},
	{
		Name:   "lowercase-labels",
		Match:  func(p *Passage) bool { return reLowerParens.MatchString(p.Text) },
		Boosts: []Boost{{itemtype.RC4142, 0.40}, {itemtype.RC4345, 0.40}},
	},
	{
		Name:   "notice-form",
		Match:  isNoticeLike,
		Boosts: []Boost{{itemtype.RC27, 0.40}, {itemtype.RC28, 0.35}},
	},
	{
		Name:   "letter-form",
		Match:  isLetterLike,
		Boosts: []Boost{{itemtype.RC18, 0.40}},
	},
	{
		Name:   "stated-intent",
		Match:  func(p *Passage) bool { return reIntent.MatchString(p.Text) },
		Boosts: []Boost{{itemtype.RC18, 0.25}},
	},
	{
		Name:   "prescriptive-modality",
		Match:  func(p *Passage) bool { return reArgument.MatchString(p.Text) },
		Boosts: []Boost{{itemtype.RC20, 0.35}},
	},
	{
		Name:   "emotion-vocabulary",
		Match:  func(p *Passage) bool { return reEmotion.MatchString(p.Text) },
		Boosts: []Boost{{itemtype.RC19, 0.30}},
	},
	{
		Name:   "emotion-shift",
		Match:  hasEmotionShift,
		Boosts: []Boost{{itemtype.RC19, 0.20}},
	},
	{
		Name: "figurative-language",
		Match: func(p *Passage) bool {
			return reIdiom.MatchString(p.Text) || reSimile.MatchString(p.Text)
		},
		Boosts: []Boost{{itemtype.RC21, 0.30}},
	},
	{
		Name:   "data-description",
		Match:  func(p *Passage) bool { return reCharty.MatchString(p.Text) },
		Boosts: []Boost{{itemtype.RC25, 0.40}},
	},
	{
		Name:   "biographical",
		Match:  func(p *Passage) bool { return reBio.MatchString(p.Text) },
		Boosts: []Boost{{itemtype.RC26, 0.40}},
	},
	{
		Name:   "grammar-meta",
		Match:  func(p *Passage) bool { return reGrammarMeta.MatchString(p.Text) },
		Boosts: []Boost{{itemtype.RC29, 0.30}},
	},
	{
		Name: "clause-density",
		Match: func(p *Passage) bool {
			return p.Sentences >= 4 && len(reRelatives.FindAllString(p.Lower, -1)) >= 3
		},
		Boosts: []Boost{{itemtype.RC29, 0.15}},
	},
	{
		Name:   "lexical-meta",
		Match:  func(p *Passage) bool { return reLexicalMeta.MatchString(p.Text) },
		Boosts: []Boost{{itemtype.RC30, 0.35}},
	},
	{
		Name:   "causal-pivots",
		Match:  func(p *Passage) bool { return rePivot.MatchString(p.Text) },
		Boosts: []Boost{{itemtype.RC33, 0.20}, {itemtype.RC34, 0.15}},
	},
	{
		Name: "argued-contrast",
		Match: func(p *Passage) bool {
			return reContrast.MatchString(p.Text) && reReasoning.MatchString(p.Text)
		},
		Boosts: []Boost{{itemtype.RC39, 0.25}, {itemtype.RC38, 0.10}},
	},
	{
		Name: "definition-example-flow",
		Match: func(p *Passage) bool {
			return reDefCue.MatchString(p.Text) || reExampleCue.MatchString(p.Text)
		},
		Boosts: []Boost{{itemtype.RC36, 0.15}},
	},
	{
		Name:   "study-report",
		Match:  func(p *Passage) bool { return reExperiment.MatchString(p.Text) },
		Boosts: []Boost{{itemtype.RC37, 0.25}},
	},
	{
		Name:   "paired-reference",
		Match:  func(p *Passage) bool { return rePairing.MatchString(p.Text) },
		Boosts: []Boost{{itemtype.RC40, 0.15}},
	},
	{
		Name:  "expository-prose",
		Match: isExpository,
		Boosts: []Boost{
			{itemtype.RC22, 0.30}, {itemtype.RC23, 0.30}, {itemtype.RC24, 0.25},
			{itemtype.RC31, 0.15}, {itemtype.RC32, 0.15}, {itemtype.RC33, 0.15},
		},
	},
	{
		// Evergreen base fits: gist and vocabulary types that suit
		// almost any well-formed passage.
		Name:  "evergreen",
		Match: func(p *Passage) bool { return p.Words >= 40 },
		Boosts: []Boost{
			{itemtype.RC22, 0.16}, {itemtype.RC23, 0.16}, {itemtype.RC24, 0.14},
			{itemtype.RC40, 0.12}, {itemtype.RC30, 0.12},
		},
	},
}

// RuleScores evaluates the rule table against one passage. Each type's
// boosts are summed and clamped to [0, 1].
func RuleScores(p *Passage) map[itemtype.Code]float64 {
	scores := make(map[itemtype.Code]float64)
	for _, r := range rules {
		if !r.Match(p) {
			continue
		}
		for _, b := range r.Boosts {
			scores[b.Type] += b.Weight
		}
	}
	for t, s := range scores {
		if s > 1 {
			scores[t] = 1
		}
	}
	return scores
}
