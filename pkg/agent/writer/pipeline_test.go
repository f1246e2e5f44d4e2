package writer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"jewel-backoffice-be/internal/pkg/logger"
	"jewel-backoffice-be/pkg/llm"
)

type testLogger struct{}

func (testLogger) Debug(module, message string, details map[string]interface{}) {}
func (testLogger) Info(module, message string, details map[string]interface{})  {}
func (testLogger) Warn(module, message string, details map[string]interface{})  {}
func (testLogger) Error(module, message string, details map[string]interface{}) {}
func (testLogger) Sync() error                                                  { return nil }
func (testLogger) GetLogs(level string, limit, offset int) ([]logger.LogEntry, error) {
	return nil, nil
}
func (testLogger) GetLogById(id string) (*logger.LogEntry, error) { return nil, nil }

// scriptedLLM replays canned responses in order.
type scriptedLLM struct {
	responses []string
	calls     int
	prompts   []string
}

func (s *scriptedLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	prompt := ""
	if len(history) > 0 {
		prompt = history[len(history)-1].Content
	}
	return s.Generate(ctx, prompt, options...)
}

func (s *scriptedLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.calls >= len(s.responses) {
		return "", errors.New("scripted llm exhausted")
	}
	resp := s.responses[s.calls]
	s.calls++
	return resp, nil
}

type fakeSearch struct {
	results string
	err     error
	queries []string
}

func (f *fakeSearch) Search(ctx context.Context, query string) (string, error) {
	f.queries = append(f.queries, query)
	return f.results, f.err
}

func newTestPipeline(provider llm.LLMProvider, searchClient *fakeSearch) *Pipeline {
	p := NewPipeline(provider, searchClient, testLogger{}, Delays{})
	p.sleep = func(ctx context.Context, d time.Duration) error { return nil }
	return p
}

func sampleRow() ProductRow {
	return ProductRow{
		"category":          "Jewellery Set",
		"line":              "Kundan-Polki",
		"finish":            "22k gold plated",
		"primary_color":     "Green",
		"secondary_color":   "White",
		"occasions":         "Wedding",
		"high_resolution_1": "https://cdn.example.com/p1.jpg",
	}
}

const (
	queryResponse   = `{"action": "generate_search_query", "action_input": {"query": "Mughal princess names 17th century"}}`
	reflectPass     = `{"action": "reflection_complete", "action_input": {"passed": true, "extracted_names_count": 12}}`
	reflectFail     = `{"action": "update_search_query", "action_input": {"passed": false, "extracted_names_count": 3, "suggested_search_term": "Rajput royal women names"}}`
	namesResponse   = `{"action": "parse_names", "action_input": {"names": [{"name": "Divyani", "meaning": "divine"}, {"name": "Padmini", "meaning": "lotus"}, {"name": "Meera", "meaning": "devotion"}, {"name": "Noor", "meaning": "light"}, {"name": "Zartaj", "meaning": "golden crown"}]}}`
	contentResponse = `{"action": "generate_product_content", "action_input": {"title": "Divyani Jewellery Set", "description": "desc", "seo_meta_title": "t", "seo_meta_description": "d", "styling_tip": "tip"}}`
)

func TestPipelineHappyPath(t *testing.T) {
	mockLLM := &scriptedLLM{responses: []string{queryResponse, reflectPass, namesResponse, contentResponse}}
	searchClient := &fakeSearch{results: "Elisabeth means purity\n\nAdelheid - noble"}
	p := newTestPipeline(mockLLM, searchClient)

	s := p.Run(context.Background(), sampleRow(), sampleKeywords(), nil)

	if s.Err != nil {
		t.Fatalf("unexpected error: %v", s.Err)
	}
	if got := s.Generated["title"]; got != "Divyani Jewellery Set" {
		t.Errorf("title = %v", got)
	}
	if got := s.Generated["image_url"]; got != "https://cdn.example.com/p1.jpg" {
		t.Errorf("image_url = %v", got)
	}
	if len(s.UsedNames) != 1 || s.UsedNames[0] != "Divyani" {
		t.Errorf("UsedNames = %v", s.UsedNames)
	}
	if len(searchClient.queries) != 1 || searchClient.queries[0] != "Mughal princess names 17th century" {
		t.Errorf("queries = %v", searchClient.queries)
	}
	if s.SelectedPrompt != PromptKundan {
		t.Errorf("SelectedPrompt = %v", s.SelectedPrompt)
	}
}

func TestPipelineRetriesWithSuggestedQuery(t *testing.T) {
	mockLLM := &scriptedLLM{responses: []string{queryResponse, reflectFail, reflectPass, namesResponse, contentResponse}}
	searchClient := &fakeSearch{results: "some names with meanings"}
	p := newTestPipeline(mockLLM, searchClient)

	s := p.Run(context.Background(), sampleRow(), nil, nil)

	if s.Err != nil {
		t.Fatalf("unexpected error: %v", s.Err)
	}
	if len(searchClient.queries) != 2 {
		t.Fatalf("queries = %v", searchClient.queries)
	}
	if searchClient.queries[1] != "Rajput royal women names" {
		t.Errorf("retry query = %q", searchClient.queries[1])
	}
	if s.RetryCount != 1 {
		t.Errorf("RetryCount = %d", s.RetryCount)
	}
}

func TestPipelineSalvagesAtRetryCeiling(t *testing.T) {
	mockLLM := &scriptedLLM{responses: []string{
		queryResponse,
		reflectFail, reflectFail, reflectFail,
		namesResponse, contentResponse,
	}}
	searchClient := &fakeSearch{results: "thin results"}
	p := newTestPipeline(mockLLM, searchClient)

	s := p.Run(context.Background(), sampleRow(), nil, nil)

	if s.RetryCount != maxNameRetries {
		t.Errorf("RetryCount = %d, want %d", s.RetryCount, maxNameRetries)
	}
	// Retries exhausted, but partial results still produce content.
	if s.Generated == nil {
		t.Fatal("expected salvaged content")
	}
	if got := s.Generated["title"]; got != "Divyani Jewellery Set" {
		t.Errorf("title = %v", got)
	}
}

func TestPipelineSalvagesSearchFailure(t *testing.T) {
	mockLLM := &scriptedLLM{responses: []string{
		queryResponse,
		`no names here at all`, // name parser output on empty results
		contentResponse,
	}}
	searchClient := &fakeSearch{err: errors.New("serper error: status 500")}
	p := newTestPipeline(mockLLM, searchClient)

	s := p.Run(context.Background(), sampleRow(), nil, nil)

	if len(s.NamePool) != 0 {
		t.Errorf("NamePool = %v", s.NamePool)
	}
	// Generation ran anyway with an empty name selection.
	if s.Generated == nil {
		t.Fatal("expected content despite search failure")
	}
}

func TestPipelineRecoversMalformedContentResponse(t *testing.T) {
	messy := "Here is your content:\n```json\n{\"action\": \"generate_product_content\", \"action_input\": {\"title\": \"Noor Jewellery Set\", \"description\": \"desc\",}}\n```\nHope this helps!"
	mockLLM := &scriptedLLM{responses: []string{queryResponse, reflectPass, namesResponse, messy}}
	searchClient := &fakeSearch{results: "names"}
	p := newTestPipeline(mockLLM, searchClient)

	s := p.Run(context.Background(), sampleRow(), nil, nil)

	if s.Err != nil {
		t.Fatalf("unexpected error: %v", s.Err)
	}
	if got := s.Generated["title"]; got != "Noor Jewellery Set" {
		t.Errorf("title = %v", got)
	}
	if s.UsedNames[len(s.UsedNames)-1] != "Noor" {
		t.Errorf("UsedNames = %v", s.UsedNames)
	}
}

func TestPipelineSmallNamePoolIsAnError(t *testing.T) {
	tinyPool := `{"action": "parse_names", "action_input": {"names": [{"name": "Solo", "meaning": "one"}]}}`
	mockLLM := &scriptedLLM{responses: []string{queryResponse, reflectPass, tinyPool, contentResponse}}
	searchClient := &fakeSearch{results: "names"}
	p := newTestPipeline(mockLLM, searchClient)

	s := p.Run(context.Background(), sampleRow(), nil, nil)

	if len(s.NamePool) != 0 {
		t.Errorf("NamePool = %v", s.NamePool)
	}
	// Generation still produced output from the empty selection.
	if s.Generated == nil {
		t.Fatal("expected content")
	}
}

func TestPipelineUsedNamesFlowIntoPrompt(t *testing.T) {
	mockLLM := &scriptedLLM{responses: []string{queryResponse, reflectPass, namesResponse, contentResponse}}
	searchClient := &fakeSearch{results: "names"}
	p := newTestPipeline(mockLLM, searchClient)

	s := p.Run(context.Background(), sampleRow(), nil, []string{"Divyani"})

	// Divyani is taken, so the second pool entry must be offered.
	finalPrompt := mockLLM.prompts[len(mockLLM.prompts)-1]
	if !strings.Contains(finalPrompt, "SUGGESTED NAME: Padmini") {
		t.Errorf("prompt did not offer the next unused name:\n%s", finalPrompt)
	}
	if !strings.Contains(finalPrompt, "Divyani") {
		t.Errorf("prompt did not list used names")
	}
	_ = s
}
