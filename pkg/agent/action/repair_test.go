package action

import (
	"encoding/json"
	"testing"
)

func TestFixUnescapedQuotes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "embedded quote escaped",
			in:   `{"desc": "a "royal" look"}`,
			want: `{"desc": "a \"royal\" look"}`,
		},
		{
			name: "terminator before comma untouched",
			in:   `{"a": "x", "b": "y"}`,
			want: `{"a": "x", "b": "y"}`,
		},
		{
			name: "already escaped untouched",
			in:   `{"a": "he said \"hi\""}`,
			want: `{"a": "he said \"hi\""}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FixUnescapedQuotes(tt.in); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStripComments(t *testing.T) {
	in := "{\n\"a\": 1, // inline note\n/* block\nnote */ \"b\": 2\n}"
	out := StripComments(in)
	if want := "{\n\"a\": 1,\n \"b\": 2\n}"; out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestStripTrailingCommas(t *testing.T) {
	if got := StripTrailingCommas(`{"a": [1, 2,], "b": {"c": 3,},}`); got != `{"a": [1, 2], "b": {"c": 3}}` {
		t.Errorf("got %q", got)
	}
}

func TestQuoteBareKeys(t *testing.T) {
	out := QuoteBareKeys("{\n  name: \"x\",\n  meaning: \"y\"\n}")
	if want := "{\n    \"name\": \"x\",\n    \"meaning\": \"y\"\n}"; out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestSingleToDoubleQuotes(t *testing.T) {
	if got := SingleToDoubleQuotes(`{'a': 'b'}`); got != `{"a": "b"}` {
		t.Errorf("got %q", got)
	}
}

func TestPythonLiteralsToJSON(t *testing.T) {
	if got := PythonLiteralsToJSON(`{"ok": True, "no": False, "v": None}`); got != `{"ok": true, "no": false, "v": null}` {
		t.Errorf("got %q", got)
	}
}

func TestCollapseRepeatedCommas(t *testing.T) {
	if got := CollapseRepeatedCommas(`[1,, 2, ,, 3]`); got != `[1, 2, 3]` {
		t.Errorf("got %q", got)
	}
}

func TestCloseDanglingQuotes(t *testing.T) {
	in := "[\n  \"complete\",\n  \"dangling\n]"
	out := CloseDanglingQuotes(in)
	if want := "[\n  \"complete\",\n  \"dangling\"\n]"; out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestApplyTargetedFixesProducesValidJSON(t *testing.T) {
	// Representative broken outputs that the chain as a whole must rescue,
	// without the automated repair library involved.
	inputs := []string{
		`{"action": "x", "action_input": {"ok": True, "v": None,}}`,
		`{'action': 'x', 'action_input': {'a': 'b'}}`,
		"{\n\"a\": 1, // note\n\"b\": 2,\n}",
	}
	for _, in := range inputs {
		fixed := ApplyTargetedFixes(in)
		var v any
		if err := json.Unmarshal([]byte(fixed), &v); err != nil {
			t.Errorf("ApplyTargetedFixes(%q) = %q, still invalid: %v", in, fixed, err)
		}
	}
}
