package action

import (
	"encoding/json"

	"github.com/kaptinlin/jsonrepair"
)

// Workflow stages enforced by the Updater, in required order.
const (
	StageItemType   = "item_type"
	StageSchema     = "schema"
	StageData       = "data"
	StageEfficiency = "efficiency"
	StageFinal      = "final"
)

// Recognized action names. Anything else is treated as an opaque pass-through
// value: the action vocabulary is open-ended and LLM-controlled.
const (
	ActionItemType       = "item_type"
	ActionItemSchema     = "item_schema"
	ActionItemData       = "item_data"
	ActionItemEfficiency = "item_efficiency"
)

// WorkflowState is the mutable record the Updater maintains across one
// conversation-style run.
type WorkflowState struct {
	Input           string
	CurrentItemType string
	SchemaExecuted  bool
	DataExecuted    bool
	CurrentStage    string
	LastAction      *ParsedAction
}

// Updater applies parsed actions to a WorkflowState, enforcing the linear
// stage ordering. An LLM that claims "Final Answer" before the prerequisite
// stages ran gets overridden to the next missing stage.
type Updater struct {
	parser *Parser

	// stringInputActions lists actions whose action_input may legitimately
	// arrive as a raw string and should be decoded rather than left wrapped.
	// Injected at construction: the set is deployment-specific, not a fixed
	// part of the protocol.
	stringInputActions map[string]struct{}
}

// NewUpdater builds an Updater. stringInputActions names the actions whose
// payload is allowed to arrive as an encoded string.
func NewUpdater(parser *Parser, stringInputActions ...string) *Updater {
	set := make(map[string]struct{}, len(stringInputActions))
	for _, a := range stringInputActions {
		set[a] = struct{}{}
	}
	return &Updater{parser: parser, stringInputActions: set}
}

// Apply mutates state according to the parsed action and returns it.
func (u *Updater) Apply(state *WorkflowState, parsed ParsedAction) *WorkflowState {
	act := parsed.Action
	input := parsed.ActionInput
	if input == nil {
		input = map[string]any{}
	}

	if _, ok := u.stringInputActions[act]; ok {
		input = u.decodeStringInput(input)
	}

	// Enforce workflow ordering: a premature terminal action is overridden to
	// the next missing required stage, with its input synthesized from state.
	if act == FinalAnswer || act == "" {
		switch {
		case state.CurrentItemType == "":
			act = ActionItemType
			input = map[string]any{"user_query": state.Input}
		case !state.SchemaExecuted:
			act = ActionItemSchema
			input = map[string]any{"item_type": state.CurrentItemType}
		case !state.DataExecuted:
			act = ActionItemData
			input = map[string]any{"item_type": state.CurrentItemType}
		}
	}

	switch act {
	case ActionItemType:
		state.CurrentStage = StageItemType
		input["user_query"] = state.Input
	case ActionItemSchema:
		if t, ok := input["item_type"].(string); ok && t != "" {
			state.CurrentItemType = t
		}
		state.SchemaExecuted = true
		state.CurrentStage = StageSchema
	case ActionItemData:
		if state.CurrentItemType == "" {
			if t, ok := input["item_type"].(string); ok {
				state.CurrentItemType = t
			}
		}
		state.DataExecuted = true
		state.CurrentStage = StageData
	case ActionItemEfficiency:
		state.CurrentStage = StageEfficiency
	case FinalAnswer:
		state.CurrentStage = StageFinal
	}

	parsed.Action = act
	parsed.ActionInput = input
	state.LastAction = &parsed
	return state
}

// decodeStringInput unwraps a {"value": "..."} payload produced by the
// parser's coercion and tries to decode the inner string as (repaired) JSON.
// Undecodable strings become {"insights": [raw]} so downstream consumers keep
// a uniform object shape.
func (u *Updater) decodeStringInput(input map[string]any) map[string]any {
	raw, ok := wrappedString(input)
	if !ok {
		return input
	}

	candidate := raw
	if u.parser == nil || u.parser.useRepair {
		if repaired, err := jsonrepair.JSONRepair(raw); err == nil {
			candidate = repaired
		}
	}

	var v any
	if err := json.Unmarshal([]byte(candidate), &v); err == nil {
		return CoerceInput(v)
	}
	if candidate != raw {
		if err := json.Unmarshal([]byte(raw), &v); err == nil {
			return CoerceInput(v)
		}
	}
	return map[string]any{"insights": []any{raw}}
}

// wrappedString reports whether input is exactly the parser's single-key
// string wrapper and returns the wrapped value.
func wrappedString(input map[string]any) (string, bool) {
	if len(input) != 1 {
		return "", false
	}
	s, ok := input["value"].(string)
	return s, ok
}
