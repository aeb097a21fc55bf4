// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-layout/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
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

// PrintJobTarget outputs a human-readable summary of the job target.
func (p *Printer) PrintJobTarget(target *types.JobTarget) {
	if target == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Company:  %s\n", target.Company))
	sb.WriteString(fmt.Sprintf("Role:     %s\n", target.RoleTitle))
	if target.Seniority != "" {
		sb.WriteString(fmt.Sprintf("Level:    %s\n", target.Seniority))
	}

	if len(target.DomainTags) > 0 {
		sb.WriteString(fmt.Sprintf("\nDomains:  %s\n", joinTruncated(target.DomainTags, 40)))
	}
	if len(target.TechTags) > 0 {
		sb.WriteString(fmt.Sprintf("Tech:     %s\n", joinTruncated(target.TechTags, 40)))
	}
	if len(target.PriorityThemes) > 0 {
		sb.WriteString(fmt.Sprintf("Themes:   %s\n", joinTruncated(target.PriorityThemes, 40)))
	}

	p.printBox("JOB TARGET", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintAllocationPlan outputs the selected roles with their line costs and
// top bullets.
func (p *Printer) PrintAllocationPlan(plan *types.AllocationPlan) {
	if plan == nil || len(plan.Roles) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Roles: %d   Lines: %d   Value: %.2f\n", len(plan.Roles), plan.TotalLines, plan.TotalValue))

	for _, role := range plan.Roles {
		sb.WriteString(fmt.Sprintf("\n%s  (%d lines, %d bullets)\n", role.RoleID, role.LineCost, role.BulletCount()))

		for _, eng := range role.Engagements {
			sb.WriteString(fmt.Sprintf("  %s  score %.2f\n", eng.EngagementID, eng.AggregateScore))
			sb.WriteString(formatBullets(eng.Bullets, "    "))
		}
		sb.WriteString(formatBullets(role.Bullets, "  "))
	}

	p.printBox("ALLOCATION PLAN", strings.TrimSuffix(sb.String(), "\n"))
}

func formatBullets(bullets []types.SelectedBullet, indent string) string {
	var sb strings.Builder
	count := min(len(bullets), maxItemsToShow)
	for i := 0; i < count; i++ {
		b := bullets[i]
		marker := ""
		if b.CompressedText != "" {
			marker = " [c]"
		}
		sb.WriteString(fmt.Sprintf("%s• %s  %.2f/%dL%s\n", indent, b.BulletID, b.Score, b.RenderedCost(), marker))
	}
	if len(bullets) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("%s... and %d more\n", indent, len(bullets)-maxItemsToShow))
	}
	return sb.String()
}

// PrintPageLayout outputs per-page line usage and the page-two boundary.
func (p *Printer) PrintPageLayout(layout *types.PageLayout) {
	if layout == nil || len(layout.Placements) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Page 1: %d lines\n", layout.UsedLines(1)))
	sb.WriteString(fmt.Sprintf("Page 2: %d lines\n", layout.UsedLines(2)))

	for i := 1; i < len(layout.Placements); i++ {
		prev, cur := layout.Placements[i-1], layout.Placements[i]
		if cur.Page != prev.Page {
			sb.WriteString(fmt.Sprintf("\nPage break before %s", cur.Kind))
			if cur.RoleID != "" {
				sb.WriteString(fmt.Sprintf(" (%s)", cur.RoleID))
			}
			sb.WriteString("\n")
		}
	}

	p.printBox("PAGE LAYOUT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintWarnings outputs any advisory warnings; silent when there are none.
func (p *Printer) PrintWarnings(warnings []types.Warning) {
	if len(warnings) == 0 {
		return
	}

	var sb strings.Builder
	for _, w := range warnings {
		sb.WriteString(fmt.Sprintf("⚠ %s\n", w))
	}

	p.printBox("WARNINGS", strings.TrimSuffix(sb.String(), "\n"))
}

func joinTruncated(items []string, width int) string {
	joined := strings.Join(items, ", ")
	if len(joined) > width {
		joined = joined[:width-3] + "..."
	}
	return joined
}
