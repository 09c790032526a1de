// Package offer turns a pasted French job offer into an ExtractedOffer.
//
// Each field is filled by an ordered table of named rules evaluated
// first-match-wins. Extraction never fails: a field no rule could fill keeps
// its default (empty string, "other", "unknown" or an empty list).
package offer

import (
	"strconv"
	"strings"

	"github.com/jonathan/planmyjob/internal/keywords"
	"github.com/jonathan/planmyjob/internal/textnorm"
	"github.com/jonathan/planmyjob/internal/types"
)

// Extract analyzes raw offer text. It is pure and safe for concurrent use.
func Extract(raw string) types.ExtractedOffer {
	o, _ := Explain(raw)
	return o
}

// Explain is Extract plus the name of the rule behind every filled field.
func Explain(raw string) (types.ExtractedOffer, Trace) {
	text := strings.TrimSpace(normalizeSpaces(raw))
	o := types.ExtractedOffer{
		ContractType: types.ContractOther,
		RemotePolicy: types.RemoteUnknown,
		Skills:       []string{},
		KeyPoints:    []string{},
	}
	d := &document{
		text:  text,
		lines: textnorm.Lines(text),
		offer: &o,
		trace: Trace{},
	}
	if text == "" {
		return o, d.trace
	}

	for _, s := range stages {
		s.run(d)
	}

	o.Skills = keywords.Detect(text)
	if len(o.Skills) > 0 {
		d.trace[FieldSkills] = "keywords"
	}
	var sources []string
	o.KeyPoints, sources = keyPoints(d)
	if len(sources) > 0 {
		d.trace[FieldKeyPoints] = strings.Join(sources, "+")
	}
	for _, s := range tailStages {
		s.run(d)
	}
	return o, d.trace
}

// normalizeSpaces turns the no-break spaces common in French typography
// ("40 000 €", "Lieu : Paris") into plain spaces.
func normalizeSpaces(s string) string {
	return strings.NewReplacer("\u00a0", " ", "\u202f", " ", "\u2007", " ").Replace(s)
}

func titleSet(o *types.ExtractedOffer) bool    { return o.Title != "" }
func companySet(o *types.ExtractedOffer) bool  { return o.Company != "" }
func locationSet(o *types.ExtractedOffer) bool { return o.Location != "" }

// stages run in this order; later stages may depend on earlier fields.
var stages = []stage{
	{
		field: FieldTitle,
		set:   func(o *types.ExtractedOffer, v string) { o.Title = v },
		rules: []rule{structuralRule},
	},
	{
		field: FieldLocation,
		set:   func(o *types.ExtractedOffer, v string) { o.Location = v },
		rules: []rule{addressLine3Rule},
	},
	{
		field: FieldTitle,
		skip:  titleSet,
		set:   func(o *types.ExtractedOffer, v string) { o.Title = v },
		rules: titleRules,
	},
	{
		field: FieldCompany,
		skip:  companySet,
		set:   func(o *types.ExtractedOffer, v string) { o.Company = v },
		rules: companyRules,
	},
	{
		field: FieldContractType,
		set:   func(o *types.ExtractedOffer, v string) { o.ContractType = types.ContractType(v) },
		rules: contractRules,
	},
	{
		field: FieldRemotePolicy,
		set:   func(o *types.ExtractedOffer, v string) { o.RemotePolicy = types.RemotePolicy(v) },
		rules: remoteRules,
	},
	{
		field: FieldLocation,
		skip:  locationSet,
		set:   func(o *types.ExtractedOffer, v string) { o.Location = v },
		rules: locationRules,
	},
	{
		field: FieldExperienceYears,
		set:   func(o *types.ExtractedOffer, v string) { o.ExperienceYears = v },
		rules: experienceRules,
	},
}

// tailStages run after skills and key points.
var tailStages = []stage{
	{
		field: FieldSalaryRange,
		set:   func(o *types.ExtractedOffer, v string) { o.SalaryRange = v },
		rules: salaryRules,
	},
	{
		field: FieldApplicationURL,
		set:   func(o *types.ExtractedOffer, v string) { o.ApplicationURL = v },
		rules: []rule{{
			name: "first-url",
			apply: func(d *document) (string, bool) {
				u := applicationURLRe.FindString(d.text)
				return u, u != ""
			},
		}},
	},
}

// structuralRule reads the usual board layout: title on line 1, company on line 2.
var structuralRule = rule{
	name: "structural",
	apply: func(d *document) (string, bool) {
		if len(d.lines) < 2 || !looksLikeJobTitle(d.lines[0]) || !looksLikeCompany(d.lines[1]) {
			return "", false
		}
		return stripJobPostSuffix(d.lines[0]), true
	},
	then: func(d *document) {
		d.offer.Company = d.lines[1]
		d.trace[FieldCompany] = "structural"
	},
}

var addressLine3Rule = rule{
	name: "address-line-3",
	apply: func(d *document) (string, bool) {
		l := d.line(2)
		return l, l != "" && looksLikeAddress(l)
	},
}

func acceptTitle(v string) bool {
	return runeLenBetween(v, 2, 149) && !titleRejectRe.MatchString(v)
}

func acceptCompany(v string) bool {
	return runeLenBetween(v, 2, 99) && !companyRejectRe.MatchString(v) && !priceRe.MatchString(v)
}

var noRestaurant = restOfLineLacks("restaurant")

var titleRules = []rule{
	captureRule("label-poste", posteLabelRe, acceptTitle, noRestaurant),
	captureRule("label-titre", titreLabelRe, acceptTitle, noRestaurant),
	captureRule("recherchons", recherchonsRe, acceptTitle),
	captureRule("poste-de", posteDeRe, acceptTitle),
	captureRule("en-tant-que", enTantQueRe, acceptTitle),
	captureRule("recrutons", recrutonsRe, acceptTitle),
	{
		name: "first-lines",
		apply: func(d *document) (string, bool) {
			for i := 0; i < len(d.lines) && i < 3; i++ {
				l := d.lines[i]
				if urlPrefixRe.MatchString(l) || !runeLenBetween(l, 2, 120) {
					continue
				}
				if greetingStartRe.MatchString(l) || firstLineNoiseRe.MatchString(l) {
					continue
				}
				if t := stripJobPostSuffix(l); t != "" {
					return t, true
				}
			}
			return "", false
		},
	},
}

var companyRules = []rule{
	captureRule("chez", chezRe, acceptCompany),
	captureRule("label-societe", societeLabelRe, acceptCompany),
	captureRule("rejoignez", rejoignezRe, acceptCompany),
	captureRule("x-recrute", recruteRe, acceptCompany),
	captureRule("x-recherche", rechercheRe, acceptCompany),
	captureRule("candidature-chez", candidatureChezRe, acceptCompany),
	{
		name: "line-2",
		apply: func(d *document) (string, bool) {
			l := d.line(1)
			return l, l != "" && looksLikeCompany(l)
		},
	},
	{
		// Company first, title second.
		name: "line-1",
		apply: func(d *document) (string, bool) {
			if len(d.lines) < 2 || d.offer.Title != "" || !looksLikeCompany(d.lines[0]) {
				return "", false
			}
			return d.lines[0], true
		},
		then: func(d *document) {
			if t := stripJobPostSuffix(d.lines[1]); t != "" {
				d.offer.Title = t
				d.trace[FieldTitle] = "line-1"
			}
		},
	},
}

var contractRules = []rule{
	patternRule("cdi", cdiRe, string(types.ContractCDI)),
	patternRule("cdd", cddRe, string(types.ContractCDD)),
	patternRule("alternance", alternaceRe, string(types.ContractApprenticeship)),
	patternRule("stage", stageRe, string(types.ContractInternship)),
	patternRule("freelance", freelanceRe, string(types.ContractFreelance)),
	patternRule("portage", portageRe, string(types.ContractFreelance)),
}

var remoteRules = []rule{
	patternRule("full-remote", fullRemoteRe, string(types.RemoteYes)),
	patternRule("remote", remoteRe, string(types.RemoteYes)),
	patternRule("hybride", hybridRe, string(types.RemoteHybrid)),
	patternRule("on-site", onSiteRe, string(types.RemoteNo)),
}

func notLocationNoise(v string) bool { return !locationNoiseRe.MatchString(v) }

var locationRules = []rule{
	{
		name: "address-line",
		apply: func(d *document) (string, bool) {
			for _, l := range d.lines {
				if looksLikeAddress(l) {
					return l, true
				}
			}
			return "", false
		},
	},
	captureRule("address-inline", inlineAddressRe, notLocationNoise),
	captureRule("label-localisation", locationLabelRe, func(v string) bool {
		return v != "" && !locationLabelNoiseRe.MatchString(v) && textnorm.RuneLen(v) < 120
	}),
	captureRule("label-lieu", genericLocationRe, func(v string) bool {
		return v != "" && notLocationNoise(v) && textnorm.RuneLen(v) < 100
	}),
	captureRule("city-department", cityDepartmentRe, notLocationNoise),
}

var experienceRules = []rule{
	matchRule("range", expRangeRe, nil),
	matchRule("years", expYearsRe, nil),
	matchRule("label", expLabelRe, nil),
}

// A labeled amount that fails plausibleSalary is not retried as a bare number.
var salaryRules = []rule{
	captureRule("label", salaryLabelRe, plausibleSalary),
	{
		name: "bare",
		apply: func(d *document) (string, bool) {
			if salaryLabelRe.MatchString(d.text) {
				return "", false
			}
			return captureRule("bare", salaryBareRe, plausibleSalary).apply(d)
		},
	},
}

// plausibleSalary keeps amounts that carry a currency or thousands marker, or
// whose leading number is at least 1000. "5 ans" is not a salary.
func plausibleSalary(v string) bool {
	if v == "" {
		return false
	}
	if strings.Contains(v, "€") || strings.Contains(v, "k") || strings.Contains(v, "000") {
		return true
	}
	num := leadingNumberRe.FindString(v)
	if num == "" {
		return false
	}
	n, err := strconv.ParseInt(strings.Join(strings.Fields(num), ""), 10, 64)
	if err != nil {
		// Only an overflow can fail here, and that is well above 1000.
		return true
	}
	return n >= 1000
}
