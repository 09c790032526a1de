// Package letter writes French cover letters from a short profile and,
// optionally, the offer text.
//
// Generation is deterministic: phrase variants are picked from a hash of the
// input, so the same input always yields the same letter. Nothing here fails;
// callers that need preconditions use types.LetterInput.Validate.
package letter

import (
	"strings"

	"github.com/jonathan/planmyjob/internal/textnorm"
	"github.com/jonathan/planmyjob/internal/types"
)

const (
	greeting             = "Madame, Monsieur,"
	signOff              = "Cordialement,"
	signaturePlaceholder = "[Prénom Nom]"
)

// Generator writes letters from one template set. It is safe for concurrent use.
type Generator struct {
	templates *TemplateSet
}

// NewGenerator returns a generator over set, or over the embedded set when nil.
func NewGenerator(set *TemplateSet) *Generator {
	if set == nil {
		set = defaultTemplates
	}
	return &Generator{templates: set}
}

var defaultGenerator = NewGenerator(nil)

// Generate writes a letter with the embedded templates.
func Generate(in types.LetterInput) string {
	return defaultGenerator.Generate(in)
}

// Compose generates and scores a letter with the embedded templates.
func Compose(in types.LetterInput) types.LetterResult {
	return defaultGenerator.Compose(in)
}

// Generate writes the letter for in.
func (g *Generator) Generate(in types.LetterInput) string {
	return g.generate(in, ResolveTone(in.Tone, in.OfferText))
}

// Compose returns the letter together with its score and the tone applied.
func (g *Generator) Compose(in types.LetterInput) types.LetterResult {
	tone := ResolveTone(in.Tone, in.OfferText)
	score := Score(in)
	return types.LetterResult{
		Letter:        g.generate(in, tone),
		Score:         score.Score,
		MatchedSkills: score.MatchedSkills,
		StackMatches:  score.StackMatches,
		Tone:          tone,
	}
}

func (g *Generator) generate(in types.LetterInput, tone types.Tone) string {
	company := strings.TrimSpace(in.Company)
	position := strings.TrimSpace(in.Position)
	matched := DetectKeywords(in.OfferText, in.Skills)
	skillsList := textnorm.JoinFrench(PrioritizeSkills(in.Skills, matched))

	fill := strings.NewReplacer(
		PlaceholderCompany, company,
		PlaceholderPosition, position,
		PlaceholderSkillsList, skillsList,
	)
	seed := Seed(seedParts(in, tone)...)
	t := g.templates.For(tone)
	pick := func(list []string, offset int) string {
		if len(list) == 0 {
			return ""
		}
		return fill.Replace(list[pickIndex(seed, offset, len(list))])
	}

	body := pick(t.Body, bodyOffset)
	if len(matched) > 0 {
		body += " J'ai relevé dans votre annonce l'importance de " + textnorm.JoinFrench(matched) +
			", des compétences que je maîtrise au quotidien."
	}

	paragraphs := []string{
		"Objet: Candidature - " + position,
		greeting,
		pick(t.Intro, introOffset),
		body,
		"Parmi mes réalisations, " + sentence(in.Achievement) + ".",
		"Je souhaite rejoindre " + company + " car " + sentence(in.Motivation) + ".",
		pick(t.Closing, closingOffset),
		signOff + "\n" + signature(in.FirstName, in.LastName),
	}
	return strings.Join(paragraphs, "\n\n")
}

// sentence trims s and its final period so it can be embedded mid-sentence.
func sentence(s string) string {
	return strings.TrimSpace(strings.TrimRight(strings.TrimSpace(s), "."))
}

func signature(first, last string) string {
	if name := strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last)); name != "" {
		return name
	}
	return signaturePlaceholder
}
