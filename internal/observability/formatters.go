// Package observability provides formatted output utilities for CLI results.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/creatorforge/nexus/internal/store"
	"github.com/creatorforge/nexus/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for run results
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintTrends outputs the discovered trends
func (p *Printer) PrintTrends(trends []types.Trend) {
	if len(trends) == 0 {
		return
	}

	var sb strings.Builder
	for i, trend := range trends {
		if i >= maxItemsToShow {
			sb.WriteString(fmt.Sprintf("... and %d more\n", len(trends)-maxItemsToShow))
			break
		}
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, trend.Title))
		if trend.Summary != "" {
			sb.WriteString(fmt.Sprintf("   %s\n", trend.Summary))
		}
	}
	p.printBox(fmt.Sprintf("Discovered Trends (%d)", len(trends)), strings.TrimRight(sb.String(), "\n"))
}

// PrintScript outputs the generated script with its shooting metadata
func (p *Printer) PrintScript(script *types.Script) {
	if script == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Hook:    %s\n", script.Hook))
	sb.WriteString(fmt.Sprintf("Body:    %s\n", script.Body))
	sb.WriteString(fmt.Sprintf("Closing: %s\n", script.Closing))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Shots:      %d\n", script.ShotCount))
	if script.Difficulty != "" {
		sb.WriteString(fmt.Sprintf("Difficulty: %s\n", script.Difficulty))
	}
	if len(script.PropsNeeded) > 0 {
		sb.WriteString(fmt.Sprintf("Props:      %s\n", strings.Join(script.PropsNeeded, ", ")))
	}
	if script.EstimatedDuration != "" {
		sb.WriteString(fmt.Sprintf("Duration:   %s\n", script.EstimatedDuration))
	}
	p.printBox("Generated Script", strings.TrimRight(sb.String(), "\n"))
}

// PrintClips outputs the clipped segments and their publish status
func (p *Printer) PrintClips(clips []types.ClippedSegment) {
	if len(clips) == 0 {
		return
	}

	var sb strings.Builder
	for _, clip := range clips {
		marker := " "
		if clip.Posted {
			marker = "*"
		}
		if clip.IsMock {
			sb.WriteString(fmt.Sprintf("%s %d. %s (mock)\n", marker, clip.ID, clip.Filename))
			continue
		}
		sb.WriteString(fmt.Sprintf("%s %d. %s  %.1fs @ %.1fs\n", marker, clip.ID, clip.Filename, clip.Duration, clip.StartOffset))
		for _, result := range clip.PublishResults {
			status := "failed"
			if result.Success {
				status = result.URL
			} else if result.Skipped {
				status = "skipped"
			}
			sb.WriteString(fmt.Sprintf("     %s: %s\n", result.Platform, status))
		}
	}
	p.printBox(fmt.Sprintf("Clips (%d)", len(clips)), strings.TrimRight(sb.String(), "\n"))
}

// PrintOffers outputs the sponsor outreach offers
func (p *Printer) PrintOffers(offers []types.OutreachOffer) {
	if len(offers) == 0 {
		return
	}

	var sb strings.Builder
	for i, offer := range offers {
		sb.WriteString(fmt.Sprintf("%d. %s (%s)\n", i+1, offer.PartnerName, offer.ContactURL))
		sb.WriteString(fmt.Sprintf("   %s\n", offer.PartnershipType))
		if offer.ScriptIncluded {
			sb.WriteString("   pitch quotes your script\n")
		}
	}
	p.printBox(fmt.Sprintf("Sponsor Offers (%d)", len(offers)), strings.TrimRight(sb.String(), "\n"))
}

// PrintRunRecord outputs one row of the recent-runs listing
func (p *Printer) PrintRunRecord(record *store.RunRecord) {
	if record == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Topic:   %s\n", record.Topic))
	sb.WriteString(fmt.Sprintf("Niche:   %s\n", record.Niche))
	sb.WriteString(fmt.Sprintf("Created: %s\n", record.CreatedAt.Format("2006-01-02 15:04:05")))
	if record.Script != nil {
		sb.WriteString(fmt.Sprintf("Script:  %s\n", record.Script.Hook))
	} else {
		sb.WriteString("Script:  (none)\n")
	}
	p.printBox(fmt.Sprintf("Run #%d", record.RunID), strings.TrimRight(sb.String(), "\n"))
}

// PrintFailure outputs a structured run failure
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintFailure(failure *types.Failure) {
	if failure == nil {
		return
	}
	fmt.Fprintf(p.out, "Run failed at %s: %s\n", failure.Stage, failure.Message)
}
