package action

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestRecoverExactParseIsIdempotent(t *testing.T) {
	// Input that already parses must come back semantically identical to a
	// plain decode; repair must never touch valid JSON.
	raw := `{"action": "generate_product_content", "action_input": {"title": "Test Set", "count": 3}}`

	got := NewParser().Recover(raw)

	var plain map[string]any
	if err := json.Unmarshal([]byte(raw), &plain); err != nil {
		t.Fatalf("fixture is not valid JSON: %v", err)
	}

	if got.Action != plain["action"] {
		t.Errorf("Action = %q, want %q", got.Action, plain["action"])
	}
	if !reflect.DeepEqual(got.ActionInput, plain["action_input"]) {
		t.Errorf("ActionInput = %#v, want %#v", got.ActionInput, plain["action_input"])
	}
}

func TestRecoverTotality(t *testing.T) {
	// For any string, Recover returns a well-formed result and never panics.
	inputs := []string{
		"",
		"   \n\t  ",
		"plain prose with no structure at all",
		"{",
		"}{",
		`{"action": `,
		"\x00\x01\xff binary garbage \xfe",
		`[1, 2, 3]`,
		`"just a string"`,
		"{{{{{{",
		"```json\n```",
	}

	p := NewParser()
	for _, in := range inputs {
		got := p.Recover(in)
		if got.Action == "" {
			t.Errorf("Recover(%q).Action is empty", in)
		}
		if got.ActionInput == nil {
			t.Errorf("Recover(%q).ActionInput is nil", in)
		}
	}
}

func TestRecoverDanglingActionKeepsSentinel(t *testing.T) {
	// A dangling `"action": ` with nothing after it must not let the bare-name
	// fallback overwrite the sentinel with a whitespace-only capture.
	got := NewParser().Recover(`{"action": `)
	if got.Action != FinalAnswer {
		t.Errorf("Action = %q, want %q", got.Action, FinalAnswer)
	}
}

func TestRecoverStripsByteOrderMark(t *testing.T) {
	raw := "\uFEFF" + `{"action": "generate_product_content", "action_input": {}}`

	got := NewParser().Recover(raw)
	if got.Action != "generate_product_content" {
		t.Errorf("Action = %q, want %q", got.Action, "generate_product_content")
	}
}

func TestRecoverActionInputAlwaysObject(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want map[string]any
	}{
		{
			name: "scalar input wrapped",
			raw:  `{"action": "x", "action_input": "hello"}`,
			want: map[string]any{"value": "hello"},
		},
		{
			name: "list input wrapped",
			raw:  `{"action": "x", "action_input": [1, 2]}`,
			want: map[string]any{"value": "[1,2]"},
		},
		{
			name: "null input becomes empty object",
			raw:  `{"action": "x", "action_input": null}`,
			want: map[string]any{},
		},
		{
			name: "empty string input becomes empty object",
			raw:  `{"action": "x", "action_input": ""}`,
			want: map[string]any{},
		},
		{
			name: "number input wrapped",
			raw:  `{"action": "x", "action_input": 7}`,
			want: map[string]any{"value": "7"},
		},
	}

	p := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Recover(tt.raw)
			if !reflect.DeepEqual(got.ActionInput, tt.want) {
				t.Errorf("ActionInput = %#v, want %#v", got.ActionInput, tt.want)
			}
		})
	}
}

func TestRecoverFenceStripping(t *testing.T) {
	fenced := "```json\n{\"action\":\"x\",\"action_input\":{}}\n```"
	bare := `{"action":"x","action_input":{}}`

	p := NewParser()
	if got, want := p.Recover(fenced), p.Recover(bare); !reflect.DeepEqual(got, want) {
		t.Errorf("fenced = %#v, bare = %#v", got, want)
	}
}

func TestRecoverMalformedInputs(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantAction string
		wantInput  map[string]any
	}{
		{
			name:       "trailing comma",
			raw:        `{"action":"x","action_input":{"a":1,}}`,
			wantAction: "x",
			wantInput:  map[string]any{"a": float64(1)},
		},
		{
			name:       "single quotes",
			raw:        `{'action': 'x', 'action_input': {'a': 'b'}}`,
			wantAction: "x",
			wantInput:  map[string]any{"a": "b"},
		},
		{
			name:       "python literals",
			raw:        `{"action":"x","action_input":{"ok":True,"v":None}}`,
			wantAction: "x",
			wantInput:  map[string]any{"ok": true, "v": nil},
		},
		{
			name:       "unfenced object with surrounding prose",
			raw:        "Here is my answer: {\"action\": \"update_search_query\", \"action_input\": {\"query\": \"bridal kundan\"}} hope it helps",
			wantAction: "update_search_query",
			wantInput:  map[string]any{"query": "bridal kundan"},
		},
	}

	p := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Recover(tt.raw)
			if got.Action != tt.wantAction {
				t.Errorf("Action = %q, want %q", got.Action, tt.wantAction)
			}
			if !reflect.DeepEqual(got.ActionInput, tt.wantInput) {
				t.Errorf("ActionInput = %#v, want %#v", got.ActionInput, tt.wantInput)
			}
		})
	}
}

func TestRecoverUnrecoverableReturnsSentinel(t *testing.T) {
	got := NewParser().Recover("nothing structured here, sorry")
	if got.Action != FinalAnswer {
		t.Errorf("Action = %q, want %q", got.Action, FinalAnswer)
	}
	if len(got.ActionInput) != 0 {
		t.Errorf("ActionInput = %#v, want empty", got.ActionInput)
	}
}

func TestRecoverBareActionFromFreeText(t *testing.T) {
	got := NewParser().Recover(`I will do this next. action: "reflection_complete"`)
	if got.Action != "reflection_complete" {
		t.Errorf("Action = %q, want %q", got.Action, "reflection_complete")
	}
	if len(got.ActionInput) != 0 {
		t.Errorf("ActionInput = %#v, want empty", got.ActionInput)
	}
}

func TestRecoverEndToEndProseAndFence(t *testing.T) {
	raw := "Sure! Here you go:\n```json\n{\"action\": \"generate_product_content\", \"action_input\": {\"title\": \"Test Set\"}}\n```\nLet me know if you need changes."

	got := NewParser().Recover(raw)

	if got.Action != "generate_product_content" {
		t.Errorf("Action = %q, want %q", got.Action, "generate_product_content")
	}
	want := map[string]any{"title": "Test Set"}
	if !reflect.DeepEqual(got.ActionInput, want) {
		t.Errorf("ActionInput = %#v, want %#v", got.ActionInput, want)
	}
}

func TestFirstBalancedObject(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`prefix {"a": {"b": 1}} suffix`, `{"a": {"b": 1}}`},
		{`no braces`, ""},
		{`{"unclosed": `, ""},
		{`{} trailing {"x":1}`, `{}`},
	}
	for _, tt := range tests {
		if got := firstBalancedObject(tt.in); got != tt.want {
			t.Errorf("firstBalancedObject(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
