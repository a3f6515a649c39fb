package search

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/bull/iris-search/internal/catalog"
)

// maxMockDocuments caps how many catalog documents a mock response cites.
const maxMockDocuments = 3

// DefaultMockResults is the canned Jira/Confluence material used when no
// backend answers.
var DefaultMockResults = []SearchResult{
	{
		Title:   "Fintech Market Trends 2024: Consolidation and Embedded Finance",
		URL:     "https://confluence.iris.co/display/PM/Fintech+Market+Trends+2024",
		Content: "Summary of 2024 trends including embedded finance, SMB credit innovation, and regulatory headwinds; includes adoption metrics and regional notes.",
		Source:  SourceConfluence,
	},
	{
		Title:   "Payments Platform: Cross-Border Volumes and Cost Drivers",
		URL:     "https://confluence.iris.co/display/ENG/Payments+Platform+Strategy",
		Content: "Engineering notes on cross-border flows, cost levers (FX spreads, scheme fees), and roadmap items for settlement optimization.",
		Source:  SourceConfluence,
	},
	{
		Title:   "TIDE-421: Market intelligence integration for product planning",
		URL:     "https://jira.iris.co/browse/TIDE-421",
		Content: "Incorporates third-party market signals for planning; includes dashboards tracking sector growth and competitive launches.",
		Source:  SourceJira,
	},
}

var fallbackResults = map[Source]SearchResult{
	SourceJira: {
		Title:   "TIDE-999: Strategy synthesis for market trends",
		URL:     "https://jira.iris.co/browse/TIDE-999",
		Content: "Internal summary ticket consolidating market trend research for quarterly planning.",
		Source:  SourceJira,
	},
	SourceConfluence: {
		Title:   "Fintech Trends Overview (Internal)",
		URL:     "https://confluence.iris.co/display/STRAT/Fintech+Trends+Overview",
		Content: "Confluence page summarizing quarterly external reports and their impact on roadmap.",
		Source:  SourceConfluence,
	},
	SourceDocument: {
		Title:   "Collection Overview",
		URL:     "/collections",
		Content: "Browse the curated document collections for source material related to this question.",
		Source:  SourceDocument,
	},
}

var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "what": true, "how": true,
	"are": true, "was": true, "which": true, "that": true, "this": true, "from": true,
	"does": true, "why": true, "who": true, "when": true, "where": true, "about": true,
}

// MockGenerator produces the deterministic fallback response. It never fails.
type MockGenerator struct {
	items      []SearchResult
	catalog    *catalog.Catalog
	pdfBaseURL string
}

// NewMockGenerator uses DefaultMockResults plus documents from cat.
// A nil catalog disables document matches.
func NewMockGenerator(cat *catalog.Catalog, pdfBaseURL string) *MockGenerator {
	return NewMockGeneratorWithItems(DefaultMockResults, cat, pdfBaseURL)
}

// NewMockGeneratorWithItems replaces the canned Jira/Confluence items.
func NewMockGeneratorWithItems(items []SearchResult, cat *catalog.Catalog, pdfBaseURL string) *MockGenerator {
	return &MockGenerator{
		items:      append([]SearchResult(nil), items...),
		catalog:    cat,
		pdfBaseURL: strings.TrimRight(pdfBaseURL, "/"),
	}
}

// Generate builds a mock response for query restricted to sources. The
// result set is never empty: when filtering removes everything, one fallback
// item tagged with the first requested source is injected.
func (g *MockGenerator) Generate(query string, sources []Source, collection string) *SummaryResponse {
	if len(sources) == 0 {
		sources = FilterAll.Sources()
	}

	results := make([]SearchResult, 0, len(g.items)+maxMockDocuments)
	for _, item := range g.items {
		if includes(sources, item.Source) {
			results = append(results, item)
		}
	}
	if includes(sources, SourceDocument) {
		results = append(results, g.matchDocuments(query, collection)...)
	}

	if len(results) == 0 {
		results = append(results, g.fallback(sources[0], collection))
	}

	return &SummaryResponse{
		Summary:       mockSummary(query),
		SearchResults: results,
	}
}

func mockSummary(query string) string {
	s := strings.TrimSpace(query)
	if s == "" {
		s = "your query"
	}
	return strings.Join([]string{
		fmt.Sprintf("Here is a quick synthesized overview for “%s”.", s),
		"",
		"Key takeaways:",
		"- Growth is driven by digital onboarding, embedded finance, and alternative credit assessment models.",
		"- Margins are compressing due to increased competition and interchange pressure; product bundling and B2B services are common responses.",
		"- Regulation is tightening (KYC/AML, data residency, DSA/DFS equivalents), with regional variance that impacts product rollout timelines.",
		"- AI is being adopted to improve underwriting, fraud detection, and service automation; measurable wins include lower review times and higher fraud catch rates.",
	}, "\n")
}

func (g *MockGenerator) fallback(source Source, collection string) SearchResult {
	if source == SourceDocument && g.catalog != nil {
		if docs := g.catalog.Documents(collection); len(docs) > 0 {
			return g.documentResult(docs[0], collection, 60)
		}
	}
	if r, ok := fallbackResults[source]; ok {
		return r
	}
	return fallbackResults[SourceConfluence]
}

type scoredDoc struct {
	doc   catalog.Document
	score int
}

// matchDocuments ranks catalog documents by how many distinct query terms
// appear in their title or description. Ties keep catalog order.
func (g *MockGenerator) matchDocuments(query, collection string) []SearchResult {
	if g.catalog == nil {
		return nil
	}
	terms := queryTerms(query)
	if len(terms) == 0 {
		return nil
	}

	var scored []scoredDoc
	for _, doc := range g.catalog.Documents(collection) {
		text := strings.ToLower(doc.Title + " " + doc.Description)
		score := 0
		for _, term := range terms {
			if strings.Contains(text, term) {
				score++
			}
		}
		if score > 0 {
			scored = append(scored, scoredDoc{doc: doc, score: score})
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	if len(scored) > maxMockDocuments {
		scored = scored[:maxMockDocuments]
	}

	out := make([]SearchResult, 0, len(scored))
	for _, s := range scored {
		similarity := 60 + math.Round(35*float64(s.score)/float64(len(terms)))
		out = append(out, g.documentResult(s.doc, collection, similarity))
	}
	return out
}

func (g *MockGenerator) documentResult(doc catalog.Document, collection string, similarity float64) SearchResult {
	if id, ok := g.catalog.CollectionOf(doc.Filename); ok {
		collection = id
	}
	page := 1
	return SearchResult{
		Title:      doc.Title,
		URL:        g.pdfBaseURL + "/" + doc.Filename,
		Content:    doc.Description,
		Source:     SourceDocument,
		Filename:   doc.Filename,
		Collection: collection,
		Similarity: &similarity,
		Page:       &page,
	}
}

func queryTerms(query string) []string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	seen := make(map[string]bool, len(fields))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) < 3 || stopWords[f] || seen[f] {
			continue
		}
		seen[f] = true
		terms = append(terms, f)
	}
	return terms
}
