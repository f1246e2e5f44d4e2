// Package action recovers structured {action, action_input} records from raw
// LLM completions. The model's output is fundamentally untrusted: it may wrap
// JSON in markdown fences, append prose, use single quotes or Python literals,
// or truncate mid-object. Recovery is total: the parser never returns an
// error to its caller, only a best-effort ParsedAction.
package action

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// FinalAnswer is the sentinel action returned when nothing recoverable is
// found, or when the model signals it is done.
const FinalAnswer = "Final Answer"

// ParsedAction is the canonical recovered unit. ActionInput is always a
// non-nil map after Recover completes, even in total-failure cases.
type ParsedAction struct {
	Action      string         `json:"action"`
	ActionInput map[string]any `json:"action_input"`
}

// Parser converts arbitrary LLM output into a ParsedAction using a layered
// fallback chain of increasingly aggressive repair strategies.
type Parser struct {
	useRepair bool
}

// NewParser returns a parser with the automated repair pass enabled.
func NewParser() *Parser {
	return &Parser{useRepair: true}
}

// NewParserWithoutRepair disables the automated repair pass, keeping only the
// exact parse and the targeted fix chain. Mostly useful in tests.
func NewParserWithoutRepair() *Parser {
	return &Parser{useRepair: false}
}

var (
	fencedBlockRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")
	actionInputRe = regexp.MustCompile(`"action_input"\s*:\s*(\{[^{}]*\})`)
	bareActionRe  = regexp.MustCompile(`"?action"?\s*[:=]\s*"?([^"']+)"?`)
)

// Recover extracts a ParsedAction from raw LLM output. It never fails: on
// unrecoverable input it returns {Final Answer, {}}, and any internal panic is
// converted to {Final Answer, {"error": ...}}.
func (p *Parser) Recover(raw string) (result ParsedAction) {
	result = ParsedAction{Action: FinalAnswer, ActionInput: map[string]any{}}

	defer func() {
		if r := recover(); r != nil {
			result = ParsedAction{
				Action:      FinalAnswer,
				ActionInput: map[string]any{"error": fmt.Sprint(r)},
			}
		}
	}()

	// Fenced block first: the prompt asks for ```json, so prefer its contents
	// over anything in the surrounding prose.
	if m := fencedBlockRe.FindStringSubmatch(raw); m != nil {
		if obj, ok := p.tryParse(m[1]); ok {
			return p.adopt(result, obj)
		}
	}

	// No usable fence: take the first brace-depth-balanced object span across
	// the whole text.
	if span := firstBalancedObject(raw); span != "" {
		if obj, ok := p.tryParse(span); ok {
			return p.adopt(result, obj)
		}
	}

	// Last resort: pull a bare action name out of free text. ActionInput stays
	// an empty object.
	if m := bareActionRe.FindStringSubmatch(raw); m != nil {
		if name := strings.TrimSpace(m[1]); name != "" {
			result.Action = name
		}
	}

	return result
}

// adopt copies action/action_input from a recovered object into the response,
// coercing action_input to the uniform object contract.
func (p *Parser) adopt(resp ParsedAction, obj map[string]any) ParsedAction {
	if v, ok := obj["action"]; ok {
		resp.Action = stringify(v)
	}
	if v, ok := obj["action_input"]; ok {
		resp.ActionInput = CoerceInput(v)
	}
	return resp
}

// tryParse is the layered fallback chain. Each stage runs only if the previous
// one produced no usable object; the first success wins. Repair is never
// applied to input that already parses.
func (p *Parser) tryParse(s string) (map[string]any, bool) {
	original := strings.TrimSpace(s)

	// 1. Exact parse. Do not "fix" valid JSON.
	if obj, ok := decodeObject(original); ok {
		return obj, true
	}

	// 2. Automated repair pass (truncated structures, missing braces,
	// trailing commas).
	if p.useRepair {
		if repaired, err := jsonrepair.JSONRepair(original); err == nil {
			if obj, ok := decodeObject(repaired); ok {
				return obj, true
			}
		}
	}

	// 3. Minimal cleaning: BOM strip and line-ending normalization.
	cleaned := strings.ReplaceAll(strings.ReplaceAll(original, "\uFEFF", ""), "\r\n", "\n")
	if obj, ok := decodeObject(cleaned); ok {
		return obj, true
	}

	// 4. Targeted textual fixes.
	if obj, ok := decodeObject(ApplyTargetedFixes(original)); ok {
		return obj, true
	}

	// 5. Extract just the action_input sub-object if it is the salvageable
	// part, and wrap it.
	if m := actionInputRe.FindStringSubmatch(original); m != nil {
		fragment := m[1]
		if p.useRepair {
			if repaired, err := jsonrepair.JSONRepair(fragment); err == nil {
				fragment = repaired
			}
		}
		if obj, ok := decodeObject(fragment); ok {
			return map[string]any{"action_input": obj}, true
		}
	}

	// 6. Largest balanced object from the first brace, repaired.
	if candidate := firstBalancedObject(original); candidate != "" {
		if p.useRepair {
			if repaired, err := jsonrepair.JSONRepair(candidate); err == nil {
				candidate = repaired
			}
		}
		if obj, ok := decodeObject(candidate); ok {
			return obj, true
		}
	}

	return nil, false
}

// CoerceInput enforces the consumer contract that action_input is always an
// object. Non-object payloads are wrapped as {"value": stringified}; empty or
// falsy payloads become {}.
func CoerceInput(v any) map[string]any {
	switch x := v.(type) {
	case map[string]any:
		if x == nil {
			return map[string]any{}
		}
		return x
	case nil:
		return map[string]any{}
	case string:
		if x == "" {
			return map[string]any{}
		}
		return map[string]any{"value": x}
	case bool:
		if !x {
			return map[string]any{}
		}
		return map[string]any{"value": "true"}
	case float64:
		if x == 0 {
			return map[string]any{}
		}
		return map[string]any{"value": stringify(x)}
	case []any:
		if len(x) == 0 {
			return map[string]any{}
		}
		return map[string]any{"value": stringify(x)}
	default:
		return map[string]any{"value": stringify(v)}
	}
}

func decodeObject(s string) (map[string]any, bool) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}
	obj, ok := v.(map[string]any)
	return obj, ok
}

// firstBalancedObject returns the span from the first '{' to its matching '}'
// by brace-depth counting, or "" if no complete object exists. Braces inside
// string literals are not special-cased; this is a best-effort last resort.
func firstBalancedObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return ""
	}
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		// Preserve integer-looking numbers without a decimal point.
		if x == float64(int64(x)) {
			return fmt.Sprintf("%d", int64(x))
		}
		return fmt.Sprintf("%v", x)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	}
}
