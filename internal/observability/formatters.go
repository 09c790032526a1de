// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/planmyjob/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// notFound is shown for empty fields
	notFound = "—"
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to width runes, ending with "..." when cut.
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func orNotFound(s string) string {
	if s == "" {
		return notFound
	}
	return s
}

// writeList writes at most limit items as bullets, then a "... and N more" line.
func writeList(sb *strings.Builder, heading string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
}

// PrintExtractedOffer outputs a human-readable summary of an analyzed offer.
func (p *Printer) PrintExtractedOffer(o *types.ExtractedOffer) {
	if o == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Poste:       %s\n", orNotFound(o.Title)))
	sb.WriteString(fmt.Sprintf("Entreprise:  %s\n", orNotFound(o.Company)))
	sb.WriteString(fmt.Sprintf("Contrat:     %s\n", o.ContractType))
	sb.WriteString(fmt.Sprintf("Télétravail: %s\n", o.RemotePolicy))
	sb.WriteString(fmt.Sprintf("Lieu:        %s\n", orNotFound(o.Location)))
	sb.WriteString(fmt.Sprintf("Expérience:  %s\n", orNotFound(o.ExperienceYears)))
	sb.WriteString(fmt.Sprintf("Salaire:     %s\n", orNotFound(o.SalaryRange)))
	sb.WriteString(fmt.Sprintf("Lien:        %s\n", orNotFound(o.ApplicationURL)))

	if len(o.Skills) > 0 {
		sb.WriteString(fmt.Sprintf("Compétences: %s\n", strings.Join(o.Skills, ", ")))
	}
	if len(o.KeyPoints) > 0 {
		sb.WriteString("\n")
		writeList(&sb, "Points clés", o.KeyPoints, maxItemsToShow)
	}

	p.printBox("OFFRE ANALYSÉE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintTrace outputs which rule produced each field, sorted by field name.
func (p *Printer) PrintTrace(trace map[string]string) {
	if len(trace) == 0 {
		return
	}

	fields := make([]string, 0, len(trace))
	for field := range trace {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var sb strings.Builder
	for _, field := range fields {
		sb.WriteString(fmt.Sprintf("%-18s %s\n", field, trace[field]))
	}
	p.printBox("RÈGLES APPLIQUÉES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintLetterResult outputs the score, tone and matches of a generated letter.
func (p *Printer) PrintLetterResult(r *types.LetterResult) {
	if r == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Score: %d/100\n", r.Score))
	sb.WriteString(fmt.Sprintf("Ton:   %s\n", r.Tone))
	if len(r.MatchedSkills) > 0 {
		sb.WriteString(fmt.Sprintf("Compétences citées: %s\n", strings.Join(r.MatchedSkills, ", ")))
	}
	writeList(&sb, "Stack commune", r.StackMatches, maxItemsToShow)

	p.printBox("LETTRE GÉNÉRÉE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDraft outputs the pre-filled application form.
func (p *Printer) PrintDraft(d *types.ApplicationDraft) {
	if d == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Entreprise: %s\n", orNotFound(d.Company)))
	sb.WriteString(fmt.Sprintf("Poste:      %s\n", orNotFound(d.Position)))
	sb.WriteString(fmt.Sprintf("Date:       %s\n", d.ApplicationDate))
	sb.WriteString(fmt.Sprintf("Statut:     %s / %s\n", d.Status, d.FollowUpStatus))
	sb.WriteString(fmt.Sprintf("Note:       %d/5\n", d.PersonalRating))
	if d.Skills != "" {
		sb.WriteString(fmt.Sprintf("Compétences: %s\n", d.Skills))
	}

	p.printBox("BROUILLON DE CANDIDATURE", strings.TrimSuffix(sb.String(), "\n"))
}
