// Package render formats search answers, collections and conversations for
// the terminal.
package render

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/bull/iris-search/internal/catalog"
	"github.com/bull/iris-search/internal/conversation"
	"github.com/bull/iris-search/internal/search"
)

// Renderer handles output formatting.
type Renderer struct {
	pretty bool
}

// New creates a new renderer. pretty adds headings and rules.
func New(pretty bool) *Renderer {
	return &Renderer{pretty: pretty}
}

// Answer formats a summary followed by its sources, most similar first.
func (r *Renderer) Answer(resp *search.SummaryResponse) string {
	var sb strings.Builder

	if r.pretty {
		sb.WriteString(color.CyanString("Answer\n"))
		sb.WriteString(strings.Repeat("─", 60) + "\n")
	}
	sb.WriteString(resp.Summary)
	sb.WriteString("\n")

	if len(resp.SearchResults) == 0 {
		return sb.String()
	}

	results := append([]search.SearchResult(nil), resp.SearchResults...)
	search.SortBySimilarity(results)

	sb.WriteString("\n")
	if r.pretty {
		sb.WriteString(color.CyanString("Sources (%d)\n", len(results)))
	}
	for _, res := range results {
		r.formatResult(&sb, res)
	}
	return sb.String()
}

func (r *Renderer) formatResult(sb *strings.Builder, res search.SearchResult) {
	badge := color.HiBlackString("[ -- ]")
	if res.Similarity != nil {
		badge = Badge(*res.Similarity)
	}

	page := ""
	if res.Page != nil {
		page = fmt.Sprintf(" p.%d", *res.Page)
	}

	fmt.Fprintf(sb, "%s %s %s%s\n", badge, color.HiBlackString("%s", string(res.Source)), res.Title, page)
	if res.URL != "" {
		fmt.Fprintf(sb, "       %s\n", color.BlueString("%s", res.URL))
	}
}

// Badge colors a similarity score by tier: green high, yellow medium, red low.
func Badge(similarity float64) string {
	label := fmt.Sprintf("[%3.0f%%]", similarity)
	switch search.SimilarityTier(similarity) {
	case search.TierHigh:
		return color.GreenString("%s", label)
	case search.TierMedium:
		return color.YellowString("%s", label)
	default:
		return color.RedString("%s", label)
	}
}

// Collections formats the catalog.
func (r *Renderer) Collections(cols []catalog.Collection) string {
	if len(cols) == 0 {
		return "No collections found"
	}

	var sb strings.Builder
	if r.pretty {
		sb.WriteString(color.CyanString("Collections\n"))
		sb.WriteString(strings.Repeat("─", 60) + "\n")
	}
	for _, c := range cols {
		fmt.Fprintf(&sb, "%s  %s (%d documents)\n", color.YellowString("%s", c.ID), c.Name, len(c.Documents))
		if r.pretty && c.Description != "" {
			fmt.Fprintf(&sb, "    %s\n", color.HiBlackString("%s", c.Description))
		}
	}
	return sb.String()
}

// Collection formats one collection with its documents.
func (r *Renderer) Collection(c catalog.Collection) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s  %s\n", color.YellowString("%s", c.ID), c.Name)
	if c.Description != "" {
		fmt.Fprintf(&sb, "%s\n", c.Description)
	}
	sb.WriteString("\n")
	for _, d := range c.Documents {
		fmt.Fprintf(&sb, "- %s %s\n", color.HiBlackString("%s", d.Filename), d.Title)
	}
	return sb.String()
}

// Conversations formats thread summaries, newest first as given.
func (r *Renderer) Conversations(items []conversation.Summary) string {
	if len(items) == 0 {
		return "No conversations found"
	}

	var sb strings.Builder
	if r.pretty {
		sb.WriteString(color.CyanString("Conversations\n"))
		sb.WriteString(strings.Repeat("─", 60) + "\n")
	}
	for _, c := range items {
		fmt.Fprintf(&sb, "%s %s %s (%d messages)\n",
			color.HiBlackString("%s", c.UpdatedAt.Local().Format("2006-01-02 15:04")),
			color.YellowString("%s", c.ID), c.Title, c.MessageCount)
	}
	return sb.String()
}

// Thread formats every message of a conversation.
func (r *Renderer) Thread(t *conversation.Thread) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s\n", color.CyanString("%s", t.Title))
	if t.Collection != "" {
		fmt.Fprintf(&sb, "%s\n", color.HiBlackString("Collection: %s", t.Collection))
	}
	sb.WriteString(strings.Repeat("─", 60) + "\n")

	for _, m := range t.Messages {
		who := color.GreenString("You")
		if m.Type == conversation.TypeAnswer {
			who = color.MagentaString("IRIS")
		}
		content := m.Content
		if m.IsLoading {
			content = color.HiBlackString("Loading...")
		}
		fmt.Fprintf(&sb, "%s %s\n%s\n", who, color.HiBlackString("%s", m.Timestamp.Local().Format("15:04:05")), content)

		for _, ref := range m.Sources {
			badge := color.HiBlackString("[ -- ]")
			if ref.Similarity != nil {
				badge = Badge(*ref.Similarity)
			}
			fmt.Fprintf(&sb, "  %s %s %s\n", badge, ref.Title, color.HiBlackString("%s", ref.Collection))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
