package letter

import (
	"strings"
	"unicode/utf16"

	"github.com/jonathan/planmyjob/internal/types"
)

// Offsets applied to the seed for each section.
const (
	introOffset   = 0
	bodyOffset    = 17
	closingOffset = 31
)

// Seed hashes parts joined by "|" with a base-31 polynomial over UTF-16 code
// units, wrapping at 32 bits. Changing it changes the letter produced for an
// existing input.
func Seed(parts ...string) int32 {
	var h int32
	for _, u := range utf16.Encode([]rune(strings.Join(parts, "|"))) {
		h = h*31 + int32(u)
	}
	return h
}

// seedParts lists the seed inputs in their fixed order.
func seedParts(in types.LetterInput, tone types.Tone) []string {
	return []string{
		in.Company,
		in.Position,
		strings.Join(cleanSkills(in.Skills), ","),
		in.Achievement,
		in.Motivation,
		in.OfferText,
		string(tone),
	}
}

// pickIndex maps seed+offset onto [0, n).
func pickIndex(seed int32, offset, n int) int {
	if n <= 0 {
		return 0
	}
	i := (int64(seed) + int64(offset)) % int64(n)
	if i < 0 {
		i += int64(n)
	}
	return int(i)
}
