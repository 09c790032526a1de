package letter

import (
	"strings"

	"github.com/jonathan/planmyjob/internal/textnorm"
	"github.com/jonathan/planmyjob/internal/types"
)

// Hint words, already folded (lowercase, no accents).
var (
	startupHints = []string{
		"startup", "start-up", "scale-up", "agile", "ownership", "scalabilite",
		"croissance", "rapide", "autonomie", "levee de fonds", "mvp", "hypercroissance",
	}
	classicHints = []string{
		"rigueur", "processus", "procedure", "conformite", "grand groupe", "institution",
		"banque", "assurance", "cabinet", "qualite", "reglementation", "hierarchie",
	}
	missionHints = []string{
		"mission", "impact", "engagement", "valeurs", "durable", "inclusion",
		"societal", "environnement", "collaboratif", "bienveillance",
	}
)

func countHints(folded string, hints []string) int {
	n := 0
	for _, h := range hints {
		if strings.Contains(folded, h) {
			n++
		}
	}
	return n
}

// DetectTone picks the tone whose hint list scores highest in the offer
// wording. Ties go to startup, then classic, so an offer with no hint at all
// reads as startup.
func DetectTone(offerText string) types.Tone {
	folded := textnorm.Fold(offerText)
	s := countHints(folded, startupHints)
	c := countHints(folded, classicHints)
	m := countHints(folded, missionHints)
	switch {
	case s >= c && s >= m:
		return types.ToneStartup
	case c >= m:
		return types.ToneClassic
	default:
		return types.ToneModern
	}
}

// ResolveTone returns requested when it names a concrete tone. Otherwise the
// tone is detected from offerText, and a blank offer gives classic.
func ResolveTone(requested types.Tone, offerText string) types.Tone {
	switch requested {
	case types.ToneClassic, types.ToneModern, types.ToneStartup:
		return requested
	}
	if strings.TrimSpace(offerText) == "" {
		return types.ToneClassic
	}
	return DetectTone(offerText)
}
