package writer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"jewel-backoffice-be/internal/pkg/logger"
	"jewel-backoffice-be/pkg/agent/action"
	"jewel-backoffice-be/pkg/llm"
	"jewel-backoffice-be/pkg/search"
)

const (
	reflectionResultsLimit = 3000
	parserResultsLimit     = 4000
	minNamePoolSize        = 5
)

// Delays throttles the LLM-calling nodes to stay under free tier rate
// limits. The generation call is the heaviest and waits the longest.
type Delays struct {
	Query    time.Duration
	Reflect  time.Duration
	Parse    time.Duration
	Generate time.Duration
}

func DefaultDelays() Delays {
	return Delays{
		Query:    5 * time.Second,
		Reflect:  8 * time.Second,
		Parse:    8 * time.Second,
		Generate: 20 * time.Second,
	}
}

// Pipeline runs the product copy generation workflow for one product at a
// time. Every node records failures on the state instead of aborting, so a
// partially failed run still produces whatever content it can.
type Pipeline struct {
	llm    llm.LLMProvider
	search search.Client
	parser *action.Parser
	log    logger.ILogger
	delays Delays

	// sleep is injectable for tests. Defaults to a context-aware wait.
	sleep func(ctx context.Context, d time.Duration) error
}

func NewPipeline(provider llm.LLMProvider, searchClient search.Client, log logger.ILogger, delays Delays) *Pipeline {
	return &Pipeline{
		llm:    provider,
		search: searchClient,
		parser: action.NewParser(),
		log:    log,
		delays: delays,
		sleep: func(ctx context.Context, d time.Duration) error {
			if d <= 0 {
				return nil
			}
			timer := time.NewTimer(d)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
				return nil
			}
		},
	}
}

// Run executes the full workflow for one product row and returns the final
// state. The returned state's Err reflects the last failure, if any; a
// non-nil Err with non-nil Generated means the run was salvaged.
func (p *Pipeline) Run(ctx context.Context, row ProductRow, keywords []KeywordRow, usedNames []string) *State {
	s := NewState(row, keywords, usedNames)

	p.Preprocess(s)
	s.SelectedPrompt = SelectPromptKind(s.Category, s.Line)
	p.FilterKeywords(s)

	p.GenerateSearchQuery(ctx, s)
	p.Search(ctx, s)

	for {
		p.Reflect(ctx, s)
		next := NextAfterReflection(s)
		if next == NextNameParser {
			break
		}
		if next == NextQueryGenerator {
			p.GenerateSearchQuery(ctx, s)
		} else {
			s.SearchQuery = s.Reflection.Suggestion
		}
		p.Search(ctx, s)
	}

	p.ParseNames(ctx, s)
	p.Generate(ctx, s)
	return s
}

// Preprocess extracts the attributes the later nodes work from.
func (p *Pipeline) Preprocess(s *State) {
	s.Category = s.Row.Get("category")
	s.Line = s.Row.Get("line")
	s.Colors = strings.TrimSpace(s.Row.Get("primary_color") + " " + s.Row.Get("secondary_color"))
	if s.UsedNames == nil {
		s.UsedNames = []string{}
	}
	s.ImageURL = s.Row.First("high_resolution_1", "image_url", "image_1", "primary_image")

	p.log.Info("ProductWriter", "preprocessed product", map[string]interface{}{
		"category": s.Category,
		"line":     s.Line,
		"colors":   s.Colors,
	})
}

// FilterKeywords ranks the keyword sheet for this product's line.
func (p *Pipeline) FilterKeywords(s *State) {
	filter := NewKeywordFilter(s.Keywords)
	line := strings.ToLower(s.Line)

	var rows []KeywordRow
	switch {
	case strings.Contains(line, "kundan") || strings.Contains(line, "polki"):
		rows = filter.FilterKundanPolki(s.Colors, 1000, 30)
	case strings.Contains(line, "american diamond") || strings.Contains(line, "crystal") || strings.Contains(line, "ad"):
		rows = filter.FilterCrystalAD(s.Colors, s.Row.Get("style"), 1000, 30)
	default:
		p.log.Warn("ProductWriter", "unsupported product line for keyword filtering", map[string]interface{}{
			"line": s.Line,
		})
	}

	s.FilteredKeywords = make([]string, 0, len(rows))
	for _, r := range rows {
		s.FilteredKeywords = append(s.FilteredKeywords, r.Keyword)
	}
}

// GenerateSearchQuery asks the LLM for a name discovery query.
func (p *Pipeline) GenerateSearchQuery(ctx context.Context, s *State) {
	if err := p.sleep(ctx, p.delays.Query); err != nil {
		s.fail(err)
		return
	}

	line := s.Row.First("jewelry_line", "line")
	s.JewelryType = ClassifyLine(line)
	s.PrimaryColor = s.Row.Get("primary_color")

	prompt := searchQueryPrompt(s.JewelryType, s.PrimaryColor, s.Row.Get("secondary_color"), s.Row.Get("category"))
	response, err := p.llm.Generate(ctx, prompt)
	if err != nil {
		s.fail(fmt.Errorf("search query generation failed: %w", err))
		s.SearchQuery = ""
		return
	}

	parsed := p.parser.Recover(response)
	query, _ := parsed.ActionInput["query"].(string)
	query = strings.TrimSpace(query)
	if query == "" {
		s.fail(fmt.Errorf("no search query in model response"))
		s.SearchQuery = ""
		return
	}

	s.SearchQuery = query
	s.Err = nil
	p.log.Info("ProductWriter", "generated search query", map[string]interface{}{
		"query": query,
	})
}

// Search runs the web search for the current query.
func (p *Pipeline) Search(ctx context.Context, s *State) {
	if s.SearchQuery == "" {
		s.fail(fmt.Errorf("no search query provided"))
		return
	}

	results, err := p.search.Search(ctx, s.SearchQuery)
	if err != nil {
		s.fail(fmt.Errorf("web search failed: %w", err))
		s.SearchResults = ""
		return
	}
	if results == "" {
		s.fail(fmt.Errorf("no search results found"))
		s.SearchResults = ""
		return
	}

	s.SearchResults = results
	s.Err = nil
}

// Reflect validates the search results contain enough usable names. On
// failure the retry counter advances and the model's suggested replacement
// query, if one was given, is recorded on the outcome.
func (p *Pipeline) Reflect(ctx context.Context, s *State) {
	if err := p.sleep(ctx, p.delays.Reflect); err != nil {
		s.fail(err)
		return
	}

	s.Reflection = Outcome{}
	if s.SearchResults == "" {
		s.fail(fmt.Errorf("no search results to reflect on"))
		return
	}

	prompt := reflectionPrompt(s, truncate(s.SearchResults, reflectionResultsLimit))
	response, err := p.llm.Generate(ctx, prompt)
	if err != nil {
		s.RetryCount++
		s.fail(fmt.Errorf("reflection failed: %w", err))
		return
	}

	parsed := p.parser.Recover(response)
	input := parsed.ActionInput

	passed, _ := input["passed"].(bool)
	count := intFrom(input["extracted_names_count"])
	suggestion, _ := input["suggested_search_term"].(string)
	if suggestion == "" {
		// Some responses use the prompt's older field name.
		suggestion, _ = input["new_query"].(string)
	}

	s.Reflection = Outcome{
		Passed:     passed,
		NamesFound: count,
		Suggestion: strings.TrimSpace(suggestion),
	}
	s.Err = nil

	if !passed {
		s.RetryCount++
		p.log.Warn("ProductWriter", "reflection failed", map[string]interface{}{
			"names_found": count,
			"required":    s.RequiredNames,
			"retry":       s.RetryCount,
			"suggestion":  s.Reflection.Suggestion,
		})
		return
	}
	p.log.Info("ProductWriter", "reflection passed", map[string]interface{}{
		"names_found": count,
		"required":    s.RequiredNames,
	})
}

// ParseNames extracts the name pool from the search results.
func (p *Pipeline) ParseNames(ctx context.Context, s *State) {
	if err := p.sleep(ctx, p.delays.Parse); err != nil {
		s.fail(err)
		return
	}

	prompt := nameParserPrompt(truncate(s.SearchResults, parserResultsLimit))
	response, err := p.llm.Generate(ctx, prompt)
	if err != nil {
		s.fail(fmt.Errorf("name parsing failed: %w", err))
		return
	}

	parsed := p.parser.Recover(response)
	pool, err := decodeNamePool(parsed.ActionInput["names"])
	if err != nil {
		s.fail(err)
		return
	}
	if len(pool) < minNamePoolSize {
		s.fail(fmt.Errorf("only extracted %d names", len(pool)))
		return
	}

	s.NamePool = pool
	s.Err = nil
	p.log.Info("ProductWriter", "extracted name pool", map[string]interface{}{
		"count": len(pool),
	})
}

// Generate produces the final listing content with an unused name.
func (p *Pipeline) Generate(ctx context.Context, s *State) {
	if err := p.sleep(ctx, p.delays.Generate); err != nil {
		s.fail(err)
		return
	}

	selected := SelectUnusedName(s.NamePool, s.UsedNames)

	prompt := contentPrompt(s.SelectedPrompt, s, selected)
	response, err := p.llm.Generate(ctx, prompt, llm.WithTemperature(0.7))
	if err != nil {
		s.fail(fmt.Errorf("content generation failed: %w", err))
		s.Generated = nil
		return
	}

	parsed := p.parser.Recover(response)
	content := parsed.ActionInput
	if len(content) == 0 {
		s.fail(fmt.Errorf("no content in model response"))
		s.Generated = nil
		return
	}

	if s.ImageURL != "" {
		content["image_url"] = s.ImageURL
	}
	s.Generated = content
	s.Err = nil

	if title, _ := content["title"].(string); title != "" {
		name := TrimSetSuffix(title)
		s.UsedNames = append(s.UsedNames, name)
		p.log.Info("ProductWriter", "generated content", map[string]interface{}{
			"title": title,
			"name":  name,
		})
	}
}

func (s *State) fail(err error) {
	s.Err = err
}

func decodeNamePool(v any) ([]NameCandidate, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expected names to be a list, got %T", v)
	}
	// Round-trip through JSON to tolerate map entries of either key case.
	raw, err := json.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("encode name pool: %w", err)
	}
	var pool []NameCandidate
	if err := json.Unmarshal(raw, &pool); err != nil {
		return nil, fmt.Errorf("invalid name pool format: %w", err)
	}
	out := pool[:0]
	for _, c := range pool {
		if strings.TrimSpace(c.Name) != "" {
			out = append(out, c)
		}
	}
	return out, nil
}

func intFrom(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case string:
		var i int
		fmt.Sscanf(n, "%d", &i)
		return i
	default:
		return 0
	}
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
