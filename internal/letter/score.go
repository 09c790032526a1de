package letter

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/planmyjob/internal/keywords"
	"github.com/jonathan/planmyjob/internal/types"
)

// Score weights and the neutral values used when a side is unknown.
const (
	SkillsWeight = 0.5
	YearsWeight  = 0.2
	StackWeight  = 0.3

	neutralStack       = 0.4
	yearsWithoutTarget = 0.8
	yearsUnknown       = 0.6
	stackSaturation    = 4

	MinScore = 12
	MaxScore = 100
)

var offerYearsRe = regexp.MustCompile(`(?i)(\d+)\s*(?:\+\s*)?(?:ans|années|annees|years)`)

// requiredYears returns the first positive "N ans" figure of the offer.
func requiredYears(offerText string) (float64, bool) {
	for _, m := range offerYearsRe.FindAllStringSubmatch(offerText, -1) {
		n, err := strconv.ParseFloat(m[1], 64)
		if err == nil && n > 0 && !math.IsInf(n, 0) {
			return n, true
		}
	}
	return 0, false
}

// unitRatio clamps r into [0, 1]; NaN counts as 0.
func unitRatio(r float64) float64 {
	if math.IsNaN(r) || r < 0 {
		return 0
	}
	return math.Min(r, 1)
}

// Score rates how well the profile fits the offer, from MinScore to MaxScore.
func Score(in types.LetterInput) types.ScoreResult {
	skills := cleanSkills(in.Skills)
	matched := DetectKeywords(in.OfferText, skills)
	hasOffer := strings.TrimSpace(in.OfferText) != ""

	stack := make([]string, 0)
	if hasOffer {
		stack = keywords.Detect(in.OfferText)
	}

	skillsRatio := 0.0
	if len(skills) > 0 {
		skillsRatio = float64(len(matched)) / float64(len(skills))
	}

	stackRatio := neutralStack
	if hasOffer {
		stackRatio = math.Min(float64(len(stack))/stackSaturation, 1)
	}

	yearsRatio := yearsUnknown
	if in.YearsExperience != nil {
		yearsRatio = yearsWithoutTarget
		if need, ok := requiredYears(in.OfferText); ok {
			yearsRatio = unitRatio(*in.YearsExperience / need)
		}
	}

	raw := math.Round(100 * (SkillsWeight*skillsRatio + YearsWeight*yearsRatio + StackWeight*stackRatio))
	score := int(math.Max(MinScore, math.Min(MaxScore, raw)))

	return types.ScoreResult{
		Score:         score,
		MatchedSkills: matched,
		StackMatches:  stack,
	}
}
