package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ascentra/internal/model"
)

func TestEvaluateEqSkipsMissing(t *testing.T) {
	ds := testDataset()

	// Row 3 has no q_features value; it must not match camera and must
	// match the negation.
	mask, err := EvaluatePredicate(model.Eq{QuestionID: "q_features", Value: "camera"}, ds)
	require.NoError(t, err)
	assert.Equal(t, Mask{true, false, false, true, false}, mask)

	neg, err := EvaluatePredicate(model.Not{Child: model.Eq{QuestionID: "q_features", Value: "camera"}}, ds)
	require.NoError(t, err)
	assert.Equal(t, Mask{false, true, true, false, true}, neg)
}

func TestEvaluateInMatchesAnyCode(t *testing.T) {
	ds := testDataset()

	mask, err := EvaluatePredicate(model.In{QuestionID: "q_features", Values: []string{"battery", "display"}}, ds)
	require.NoError(t, err)
	assert.Equal(t, Mask{true, true, false, false, true}, mask)
}

func TestEvaluateRangeBounds(t *testing.T) {
	ds := testDataset()

	t.Run("both bounds inclusive", func(t *testing.T) {
		mask, err := EvaluatePredicate(model.Range{QuestionID: "q_age", Min: floatPtr(28), Max: floatPtr(45)}, ds)
		require.NoError(t, err)
		assert.Equal(t, Mask{true, true, true, false, false}, mask)
	})

	t.Run("min only", func(t *testing.T) {
		mask, err := EvaluatePredicate(model.Range{QuestionID: "q_age", Min: floatPtr(45)}, ds)
		require.NoError(t, err)
		assert.Equal(t, Mask{false, false, true, true, false}, mask)
	})

	t.Run("missing never matches", func(t *testing.T) {
		// Row 3 has no q_nps value; even an unbounded-below range must
		// exclude it.
		mask, err := EvaluatePredicate(model.Range{QuestionID: "q_nps", Max: floatPtr(10)}, ds)
		require.NoError(t, err)
		assert.Equal(t, Mask{true, true, false, true, true}, mask)
	})
}

func TestEvaluateCombinators(t *testing.T) {
	ds := testDataset()

	north := model.Eq{QuestionID: "q_region", Value: "NORTH"}
	smb := model.Eq{QuestionID: "q_tier", Value: "SMB"}

	and, err := EvaluatePredicate(model.And{Children: []model.Predicate{north, smb}}, ds)
	require.NoError(t, err)
	assert.Equal(t, Mask{false, false, true, false, true}, and)

	or, err := EvaluatePredicate(model.Or{Children: []model.Predicate{north, smb}}, ds)
	require.NoError(t, err)
	assert.Equal(t, Mask{true, true, true, false, true}, or)
}

func TestEvaluateUnknownColumnIsInternal(t *testing.T) {
	ds := testDataset()

	_, err := EvaluatePredicate(model.Eq{QuestionID: "q_ghost", Value: "x"}, ds)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInternalInconsistency)
}
