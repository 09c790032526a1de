package offer

import (
	"regexp"
	"strings"

	"github.com/jonathan/planmyjob/internal/textnorm"
)

// Line-shape heuristics.
var (
	urlPrefixRe      = regexp.MustCompile(`(?i)^https?://`)
	jobTitleVocabRe  = regexp.MustCompile(`(?i)développeur|ingénieur|manager|designer|consultant|technicien|H/F|F/H|react\s+native`)
	titleNoiseRe     = regexp.MustCompile(`(?i)€|par mois|Route|rue\s|avenue\s|Détails\s+de`)
	companyNoiseRe   = regexp.MustCompile(`(?i)€|par mois|Route|rue\s|avenue\s|\d{5}|Détails|Type\s+d['’]emploi`)
	genericOwnerRe   = regexp.MustCompile(`(?i)^(nos|notre)\s+(produits?|équipes?|société|entreprise)`)
	ratingRe         = regexp.MustCompile(`(?i)^[\d.]+\s*(/\s*\d+)?\s*(étoiles?)?$`)
	singleDecimalRe  = regexp.MustCompile(`^\d\.\d$`)
	ratingSlashRe    = regexp.MustCompile(`^[\d.]+\s*/\s*\d+`)
	addressStartRe   = regexp.MustCompile(`(?i)^\d+\s*(?:Route|rue|avenue|av\.|boulevard|bd|place|allée)`)
	postcodeCityRe   = regexp.MustCompile(`\d{5}\s+[A-Za-zÀ-ÿ-]+`)
	jobPostSuffixRe  = regexp.MustCompile(`(?i)\s*[-–]\s*job post\s*$`)
	greetingStartRe  = regexp.MustCompile(`(?i)^(bonjour|madame|monsieur|objet|ref\.?|candidature|titre\s|participation)`)
	firstLineNoiseRe = regexp.MustCompile(`(?i)restaurant|€|par mois`)
	priceRe          = regexp.MustCompile(`(?i)€|par mois`)
)

// Title cascade.
var (
	posteLabelRe  = regexp.MustCompile(`(?i)(?:poste|intitulé du poste|titre du poste)\s*[:-]\s*([^\n]+?)(?:\s*$|\n)`)
	titreLabelRe  = regexp.MustCompile(`(?i)(?:intitulé|titre)\s*[:-]\s*([^\n]+?)(?:\s*$|\n)`)
	recherchonsRe = regexp.MustCompile(`(?i)(?:recherchons?|recrutons?|recherche)\s+(?:un|une|un/une|un\(e\))\s+([^\n(]+?)(?:\s*\(|$|\n)`)
	posteDeRe     = regexp.MustCompile(`(?i)(?:pour le poste de|poste de|pour le rôle de|rôle de)\s+([^\n.,]+)`)
	enTantQueRe   = regexp.MustCompile(`(?i)(?:en tant que|en tant qu['’])\s*((?:développeu(?:r|se)|ingénieure?|designer|consultante?)[^\n.,]*?)(?:\s*$|\n|\.|,)`)
	recrutonsRe   = regexp.MustCompile(`(?i)(?:nous\s+)?recrutons?\s+[^\n]*?\s+([A-ZÀ-Ÿa-zà-ÿ0-9\s&'-]+?)(?:\s*\(|\n|\.|,|pour)`)
	titleRejectRe = regexp.MustCompile(`(?i)^(titre|restaurant|participation)`)
)

// Company cascade.
var (
	chezRe            = regexp.MustCompile(`(?i)(?:chez|au sein de)\s+([A-Za-zÀ-ÿ0-9][A-Za-zÀ-ÿ0-9&\s'.-]{1,80}?)(?:\s*,|\s*$|\n|nous|pour|\.)`)
	societeLabelRe    = regexp.MustCompile(`(?i)(?:société|entreprise|company|structure|groupe)\s*[:-]\s*([^\n]+?)(?:\s*$|\n)`)
	rejoignezRe       = regexp.MustCompile(`(?i)(?:rejoignez?|rejoindre)\s+([A-Za-zÀ-ÿ0-9][A-Za-zÀ-ÿ0-9&\s'.-]{1,80}?)(?:\s*!|\.|\s*$|\n|,)`)
	recruteRe         = regexp.MustCompile(`(?i)([A-Za-zÀ-ÿ0-9][A-Za-zÀ-ÿ0-9&\s'.-]{2,60}?)\s+recrute\s+`)
	rechercheRe       = regexp.MustCompile(`(?i)([A-Za-zÀ-ÿ0-9][A-Za-zÀ-ÿ0-9&\s'.-]{2,60}?)\s+(?:est|s'est)\s+à la recherche`)
	candidatureChezRe = regexp.MustCompile(`(?i)(?:candidature|postuler)\s+chez\s+([^\n,]+?)(?:\s*$|\n|,)`)
	companyRejectRe   = regexp.MustCompile(`(?i)^(nos|notre)\s+(produits?|équipes?)`)
)

// Enumerations.
var (
	cdiRe       = regexp.MustCompile(`(?i)\bCDI\b`)
	cddRe       = regexp.MustCompile(`(?i)\bCDD\b`)
	alternaceRe = regexp.MustCompile(`(?i)\balternance\b`)
	stageRe     = regexp.MustCompile(`(?i)\bstage\b`)
	freelanceRe = regexp.MustCompile(`(?i)\bfreelance\b`)
	portageRe   = regexp.MustCompile(`(?i)\bportage\b`)

	fullRemoteRe = regexp.MustCompile(`(?i)\b(100%|totalement)\s*(remote|télétravail|teletravail)`)
	remoteRe     = regexp.MustCompile(`(?i)\b(remote|télétravail|teletravail|distanciel)\s*(?:possible|autorisé|oui)?`)
	hybridRe     = regexp.MustCompile(`(?i)\bhybride\b`)
	onSiteRe     = regexp.MustCompile(`(?i)\b(présentiel|sur site|sur site uniquement)\b`)
)

// Location chain.
var (
	inlineAddressRe      = regexp.MustCompile(`(?i)(\d+\s*(?:Route|rue|avenue|av\.|boulevard|bd|place|allée)\s+[^\n]+?\d{5}\s+[A-Za-zÀ-ÿ-]+)`)
	locationNoiseRe      = regexp.MustCompile(`(?i)€|par mois|Détails`)
	locationLabelRe      = regexp.MustCompile(`(?i)(?:localisation|lieu du poste|ville)\s*[:-]\s*([^\n]+?)(?:\s*$|\n)`)
	locationLabelNoiseRe = regexp.MustCompile(`(?i)€|par mois|Détails de l['’]emploi|CDI\s*Détails`)
	genericLocationRe    = regexp.MustCompile(`(?i)(?:lieu|localisation)\s*[:-]\s*([^\n.,]+)`)
	cityDepartmentRe     = regexp.MustCompile(`(?:^|[^A-Za-zÀ-ÿ0-9_-])([A-Za-zÀ-ÿ-]+\s*\(\d{2}\))`)
)

// Experience, salary, URL.
var (
	expRangeRe = regexp.MustCompile(`(?i)(\d+)\s*(?:à|-)\s*(\d+)?\s*ans?\s*(?:d['’]expérience|d['’]experience|d['’]exp)?`)
	expYearsRe = regexp.MustCompile(`(?i)(\d+)\s*ans?\s*(?:d['’]expérience|d['’]experience|d['’]exp)`)
	expLabelRe = regexp.MustCompile(`(?i)(?:expérience|experience)\s*[:\s]*(\d+\s*(?:à|-)\s*\d+|\d+)\s*ans?`)

	salaryLabelRe   = regexp.MustCompile(`(?i)(?:salaire|rémunération|rémuneration|fourchette)\s*[:-]?\s*([^\n]+?)(?:\s*€|$)`)
	salaryBareRe    = regexp.MustCompile(`(\d[\d\s]*(?:k|000)?\s*€?\s*(?:-\s*\d[\d\s]*(?:k|000)?\s*€?)?)`)
	leadingNumberRe = regexp.MustCompile(`\d[\d\s]*`)

	applicationURLRe = regexp.MustCompile(`https?://[^\s<>"']+`)
)

// Key points.
var (
	secteurRe         = regexp.MustCompile(`(?i)\bSecteur\s*(?:d['’]activité|de l['’]emploi|d['’]emploi)?\s*[:-]\s*([^\n]+?)(?:\s*$|\n)`)
	benefitsTriggerRe = regexp.MustCompile(`(?i)avantages|extraits de la description complète du poste`)
	sectionHeaderRe   = regexp.MustCompile(`(?i)^(Description|Lieu|Qualités|Fonctions|Avantages|Type d['’]emploi|Rémunération|Horaires|Lieu du poste)\s*[:\s]|^&nbsp;$`)
	bulletPrefixRe    = regexp.MustCompile(`^[\s•*-]\s*`)
	jobDetailsRe      = regexp.MustCompile(`(?i)\s*Détails de l['’]emploi\s*`)
)

func runeLenBetween(s string, minLen, maxLen int) bool {
	n := textnorm.RuneLen(s)
	return n >= minLen && n <= maxLen
}

// looksLikeJobTitle is true for a short line that is neither a URL nor a
// price or address, and that either uses job vocabulary or is at most 50 runes.
func looksLikeJobTitle(s string) bool {
	if !runeLenBetween(s, 2, 100) || urlPrefixRe.MatchString(s) || titleNoiseRe.MatchString(s) {
		return false
	}
	return jobTitleVocabRe.MatchString(s) || textnorm.RuneLen(s) <= 50
}

// looksLikeCompany is true for a short line that is not a rating, a price,
// an address or a "nos produits / notre équipe" style header.
func looksLikeCompany(s string) bool {
	return runeLenBetween(s, 2, 70) &&
		!ratingRe.MatchString(s) &&
		!companyNoiseRe.MatchString(s) &&
		!genericOwnerRe.MatchString(s)
}

// looksLikeAddress matches "12 rue de Paris 75001 Paris" style lines.
func looksLikeAddress(s string) bool {
	return addressStartRe.MatchString(s) && postcodeCityRe.MatchString(s)
}

// isRatingLine matches review-score lines such as "4.5", "4/5" or "4 étoiles".
func isRatingLine(s string) bool {
	s = strings.TrimSpace(s)
	return ratingRe.MatchString(s) || singleDecimalRe.MatchString(s)
}

// stripJobPostSuffix drops a trailing "- job post" that some boards append to titles.
func stripJobPostSuffix(s string) string {
	return strings.TrimSpace(jobPostSuffixRe.ReplaceAllString(s, ""))
}
