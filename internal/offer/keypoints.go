package offer

import (
	"strings"
)

// maxKeyPoints caps the whole list, the benefits section included.
const maxKeyPoints = 8

// keyPointList is an ordered set of short offer highlights.
type keyPointList struct {
	items []string
	seen  map[string]bool
}

func (l *keyPointList) full() bool { return len(l.items) >= maxKeyPoints }

func (l *keyPointList) add(p string) bool {
	if l.full() || l.seen[p] || !runeLenBetween(p, 2, 199) {
		return false
	}
	l.seen[p] = true
	l.items = append(l.items, p)
	return true
}

// cleanBullet strips a leading bullet marker and the "Détails de l'emploi"
// label some boards paste into every line.
func cleanBullet(line string) string {
	b := strings.TrimSpace(bulletPrefixRe.ReplaceAllString(line, ""))
	return strings.TrimSpace(jobDetailsRe.ReplaceAllString(b, ""))
}

// keyPoints collects the sector line, the benefits section and then any other
// line, up to maxKeyPoints. It also returns which of those sources contributed.
func keyPoints(d *document) ([]string, []string) {
	l := &keyPointList{items: []string{}, seen: map[string]bool{}}
	var sources []string

	if v, ok := firstSubmatch(secteurRe, d.text); ok {
		v = strings.TrimSpace(v)
		if runeLenBetween(v, 2, 149) && l.add("Secteur : "+v) {
			sources = append(sources, "secteur")
		}
	}

	inBenefits, fromBenefits := false, false
	for _, line := range d.lines {
		if l.full() {
			break
		}
		if benefitsTriggerRe.MatchString(line) {
			inBenefits = true
			continue
		}
		if !inBenefits {
			continue
		}
		if sectionHeaderRe.MatchString(line) {
			break
		}
		b := cleanBullet(line)
		if isRatingLine(b) || b == "&nbsp;" {
			continue
		}
		if l.add(b) {
			fromBenefits = true
		}
	}
	if fromBenefits {
		sources = append(sources, "benefits")
	}

	fromLines := false
	for _, line := range d.lines {
		if l.full() {
			break
		}
		b := cleanBullet(line)
		if isRatingLine(b) || b == "&nbsp;" || ratingSlashRe.MatchString(b) {
			continue
		}
		if l.add(b) {
			fromLines = true
		}
	}
	if fromLines {
		sources = append(sources, "lines")
	}
	return l.items, sources
}
