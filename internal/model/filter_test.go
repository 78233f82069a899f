package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredicateDecodeKinds(t *testing.T) {
	doc := `{
		"kind": "and",
		"children": [
			{"kind": "eq", "question_id": "q_region", "value": "NORTH"},
			{"kind": "in", "question_id": "q_features", "values": ["camera", "battery"]},
			{"kind": "not", "child": {"kind": "range", "question_id": "q_age", "min": 18, "max": 65}}
		]
	}`

	p, err := UnmarshalPredicate([]byte(doc))
	require.NoError(t, err)

	and, ok := p.(And)
	require.True(t, ok)
	require.Len(t, and.Children, 3)

	assert.Equal(t, Eq{QuestionID: "q_region", Value: "NORTH"}, and.Children[0])
	assert.Equal(t, In{QuestionID: "q_features", Values: []string{"camera", "battery"}}, and.Children[1])

	not, ok := and.Children[2].(Not)
	require.True(t, ok)
	rng, ok := not.Child.(Range)
	require.True(t, ok)
	require.NotNil(t, rng.Min)
	require.NotNil(t, rng.Max)
	assert.Equal(t, 18.0, *rng.Min)
	assert.Equal(t, 65.0, *rng.Max)
}

func TestPredicateRoundTrip(t *testing.T) {
	min := 30.0
	expr := FilterExpr{Pred: Or{Children: []Predicate{
		Eq{QuestionID: "q_tier", Value: "ENTERPRISE"},
		And{Children: []Predicate{
			Range{QuestionID: "q_age", Min: &min},
			Not{Child: In{QuestionID: "q_region", Values: []string{"SOUTH"}}},
		}},
	}}}

	data, err := json.Marshal(expr)
	require.NoError(t, err)

	var decoded FilterExpr
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, expr.Pred, decoded.Pred)
}

func TestPredicateComparisonSugar(t *testing.T) {
	p, err := UnmarshalPredicate([]byte(`{"kind": "gte", "question_id": "q_age", "value": 30}`))
	require.NoError(t, err)
	rng, ok := p.(Range)
	require.True(t, ok)
	require.NotNil(t, rng.Min)
	assert.Equal(t, 30.0, *rng.Min)
	assert.Nil(t, rng.Max)

	p, err = UnmarshalPredicate([]byte(`{"kind": "lte", "question_id": "q_age", "value": 65}`))
	require.NoError(t, err)
	rng, ok = p.(Range)
	require.True(t, ok)
	assert.Nil(t, rng.Min)
	require.NotNil(t, rng.Max)
	assert.Equal(t, 65.0, *rng.Max)
}

func TestPredicateStrictComparisonRefused(t *testing.T) {
	_, err := UnmarshalPredicate([]byte(`{"kind": "gt", "question_id": "q_age", "value": 30}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gt")

	_, err = UnmarshalPredicate([]byte(`{"kind": "lt", "question_id": "q_age", "value": 30}`))
	require.Error(t, err)
}

func TestPredicateContainsAnyAlias(t *testing.T) {
	p, err := UnmarshalPredicate([]byte(`{"kind": "contains_any", "question_id": "q_features", "values": ["camera"]}`))
	require.NoError(t, err)
	assert.Equal(t, In{QuestionID: "q_features", Values: []string{"camera"}}, p)
}

func TestPredicateUnknownKind(t *testing.T) {
	_, err := UnmarshalPredicate([]byte(`{"kind": "between", "question_id": "q_age"}`))
	require.Error(t, err)

	_, err = UnmarshalPredicate([]byte(`{"question_id": "q_age"}`))
	require.Error(t, err)
}
