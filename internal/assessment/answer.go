package assessment

import (
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

type answerKind uint8

const (
	answerNone answerKind = iota
	answerChoice
	answerBool
)

// Answer is either an option index or a true/false value.
// The zero value means "unanswered".
type Answer struct {
	kind  answerKind
	index int
	truth bool
}

// Choice returns an answer selecting option i.
func Choice(i int) Answer {
	return Answer{kind: answerChoice, index: i}
}

// Bool returns a true/false answer.
func Bool(b bool) Answer {
	return Answer{kind: answerBool, truth: b}
}

// IsZero reports whether the answer is unset.
func (a Answer) IsZero() bool { return a.kind == answerNone }

// Index returns the option index and whether the answer is a choice.
func (a Answer) Index() (int, bool) { return a.index, a.kind == answerChoice }

// Truth returns the boolean value and whether the answer is a true/false value.
func (a Answer) Truth() (bool, bool) { return a.truth, a.kind == answerBool }

func (a Answer) String() string {
	switch a.kind {
	case answerChoice:
		return strconv.Itoa(a.index)
	case answerBool:
		return strconv.FormatBool(a.truth)
	default:
		return "unanswered"
	}
}

// MarshalJSON encodes a choice as a number, a true/false answer as a bool and
// the zero value as null.
func (a Answer) MarshalJSON() ([]byte, error) {
	switch a.kind {
	case answerChoice:
		return json.Marshal(a.index)
	case answerBool:
		return json.Marshal(a.truth)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts a number, a bool or null.
func (a *Answer) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*a = Answer{}
	case bool:
		*a = Bool(v)
	case float64:
		if v != float64(int(v)) {
			return fmt.Errorf("answer index must be an integer, got %v", v)
		}
		*a = Choice(int(v))
	default:
		return fmt.Errorf("answer must be an integer or a boolean, got %T", raw)
	}
	return nil
}

// UnmarshalYAML accepts an !!int option index or a !!bool value.
func (a *Answer) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: answer must be a scalar", node.Line)
	}
	switch node.ShortTag() {
	case "!!int":
		var i int
		if err := node.Decode(&i); err != nil {
			return err
		}
		*a = Choice(i)
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return err
		}
		*a = Bool(b)
	case "!!null":
		*a = Answer{}
	default:
		return fmt.Errorf("line %d: answer must be an option index or true/false, got %q", node.Line, node.Value)
	}
	return nil
}

// MarshalYAML mirrors UnmarshalYAML.
func (a Answer) MarshalYAML() (any, error) {
	switch a.kind {
	case answerChoice:
		return a.index, nil
	case answerBool:
		return a.truth, nil
	default:
		return nil, nil
	}
}
