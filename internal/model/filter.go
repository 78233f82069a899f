package model

import (
	"encoding/json"
	"fmt"
)

// Predicate is a closed variant over the six filter node kinds.
// Trees are built bottom-up from decoded input and never mutated afterwards,
// so no cycle is constructible.
type Predicate interface {
	Kind() string
}

// Eq matches rows whose value for a question equals one option code.
// For multi_choice questions a row matches when any selected code equals the value.
type Eq struct {
	QuestionID string `json:"question_id"`
	Value      string `json:"value"`
}

// In matches rows whose value for a question is any of the listed option codes.
type In struct {
	QuestionID string   `json:"question_id"`
	Values     []string `json:"values"`
}

// Range matches rows whose numeric value falls inside [Min, Max].
// A nil bound is unbounded on that side; bounds are inclusive.
type Range struct {
	QuestionID string   `json:"question_id"`
	Min        *float64 `json:"min,omitempty"`
	Max        *float64 `json:"max,omitempty"`
}

// And matches rows matching every child.
type And struct {
	Children []Predicate
}

// Or matches rows matching any child.
type Or struct {
	Children []Predicate
}

// Not matches rows not matching the child.
type Not struct {
	Child Predicate
}

func (Eq) Kind() string    { return "eq" }
func (In) Kind() string    { return "in" }
func (Range) Kind() string { return "range" }
func (And) Kind() string   { return "and" }
func (Or) Kind() string    { return "or" }
func (Not) Kind() string   { return "not" }

// FilterExpr wraps a Predicate with a kind-discriminated JSON codec so filter
// trees can travel inside SegmentSpec and CutSpec payloads.
type FilterExpr struct {
	Pred Predicate
}

// MarshalJSON encodes the wrapped predicate with its kind tag.
func (f FilterExpr) MarshalJSON() ([]byte, error) {
	return marshalPredicate(f.Pred)
}

// UnmarshalJSON decodes a kind-discriminated predicate tree.
func (f *FilterExpr) UnmarshalJSON(data []byte) error {
	p, err := UnmarshalPredicate(data)
	if err != nil {
		return err
	}
	f.Pred = p
	return nil
}

func marshalPredicate(p Predicate) ([]byte, error) {
	switch node := p.(type) {
	case Eq:
		return json.Marshal(struct {
			Kind string `json:"kind"`
			Eq
		}{"eq", node})
	case In:
		return json.Marshal(struct {
			Kind string `json:"kind"`
			In
		}{"in", node})
	case Range:
		return json.Marshal(struct {
			Kind string `json:"kind"`
			Range
		}{"range", node})
	case And:
		return marshalCombinator("and", node.Children)
	case Or:
		return marshalCombinator("or", node.Children)
	case Not:
		child, err := marshalPredicate(node.Child)
		if err != nil {
			return nil, err
		}
		return json.Marshal(struct {
			Kind  string          `json:"kind"`
			Child json.RawMessage `json:"child"`
		}{"not", child})
	case nil:
		return nil, fmt.Errorf("cannot marshal nil predicate")
	default:
		return nil, fmt.Errorf("cannot marshal predicate kind %q", p.Kind())
	}
}

func marshalCombinator(kind string, children []Predicate) ([]byte, error) {
	raw := make([]json.RawMessage, 0, len(children))
	for _, c := range children {
		b, err := marshalPredicate(c)
		if err != nil {
			return nil, err
		}
		raw = append(raw, b)
	}
	return json.Marshal(struct {
		Kind     string            `json:"kind"`
		Children []json.RawMessage `json:"children"`
	}{kind, raw})
}

// UnmarshalPredicate decodes one predicate node and its subtree.
// The gt/gte/lt/lte shorthands accepted from planners decode as one-sided ranges.
func UnmarshalPredicate(data []byte) (Predicate, error) {
	var head struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("invalid predicate node: %w", err)
	}

	switch head.Kind {
	case "eq":
		var node Eq
		if err := json.Unmarshal(data, &node); err != nil {
			return nil, err
		}
		return node, nil
	case "in", "contains_any":
		var node In
		if err := json.Unmarshal(data, &node); err != nil {
			return nil, err
		}
		return node, nil
	case "range":
		var node Range
		if err := json.Unmarshal(data, &node); err != nil {
			return nil, err
		}
		return node, nil
	case "gte", "lte":
		return unmarshalComparison(head.Kind, data)
	case "gt", "lt":
		// Strict bounds cannot be rewritten as inclusive ranges without
		// changing which rows match, so they are refused rather than guessed.
		return nil, fmt.Errorf("strict comparison %q is not supported; use gte, lte or range", head.Kind)
	case "and", "or":
		var node struct {
			Children []json.RawMessage `json:"children"`
		}
		if err := json.Unmarshal(data, &node); err != nil {
			return nil, err
		}
		children := make([]Predicate, 0, len(node.Children))
		for _, raw := range node.Children {
			child, err := UnmarshalPredicate(raw)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		if head.Kind == "and" {
			return And{Children: children}, nil
		}
		return Or{Children: children}, nil
	case "not":
		var node struct {
			Child json.RawMessage `json:"child"`
		}
		if err := json.Unmarshal(data, &node); err != nil {
			return nil, err
		}
		if len(node.Child) == 0 {
			return nil, fmt.Errorf("not predicate requires a child")
		}
		child, err := UnmarshalPredicate(node.Child)
		if err != nil {
			return nil, err
		}
		return Not{Child: child}, nil
	case "":
		return nil, fmt.Errorf("predicate node is missing a kind")
	default:
		return nil, fmt.Errorf("unknown predicate kind %q", head.Kind)
	}
}

func unmarshalComparison(kind string, data []byte) (Predicate, error) {
	var node struct {
		QuestionID string  `json:"question_id"`
		Value      float64 `json:"value"`
	}
	if err := json.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	v := node.Value
	if kind == "gte" {
		return Range{QuestionID: node.QuestionID, Min: &v}, nil
	}
	return Range{QuestionID: node.QuestionID, Max: &v}, nil
}
