package engine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ascentra/internal/model"
)

func enterpriseSpec() model.SegmentSpec {
	return model.SegmentSpec{
		Name:       "enterprise",
		Definition: model.FilterExpr{Pred: model.Eq{QuestionID: "q_tier", Value: "ENTERPRISE"}},
	}
}

func TestSegmentDefineAndCompile(t *testing.T) {
	_, _, segs := testStore(t)

	verrs, err := segs.Define(enterpriseSpec(), false)
	require.NoError(t, err)
	require.Empty(t, verrs)

	mask, err := segs.Compile("enterprise")
	require.NoError(t, err)
	assert.Equal(t, 2, mask.Count())

	comp, err := segs.Complement("enterprise")
	require.NoError(t, err)
	assert.Equal(t, 3, comp.Count())

	// Exact partition: the two masks never agree on any row.
	for i := range mask {
		assert.NotEqual(t, mask[i], comp[i], "row %d", i)
	}
	assert.Equal(t, 0, mask.Intersect(comp).Count())
}

func TestSegmentCompileIsCached(t *testing.T) {
	_, _, segs := testStore(t)
	_, err := segs.Define(enterpriseSpec(), false)
	require.NoError(t, err)

	first, err := segs.Compile("enterprise")
	require.NoError(t, err)
	second, err := segs.Compile("enterprise")
	require.NoError(t, err)

	require.NotEmpty(t, first)
	assert.True(t, &first[0] == &second[0], "repeat compiles must return the cached mask")
}

func TestSegmentCompileConcurrent(t *testing.T) {
	_, _, segs := testStore(t)
	_, err := segs.Define(enterpriseSpec(), false)
	require.NoError(t, err)

	const workers = 16
	masks := make([]Mask, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m, err := segs.Compile("enterprise")
			assert.NoError(t, err)
			masks[i] = m
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		assert.True(t, &masks[0][0] == &masks[i][0], "worker %d got a recomputed mask", i)
	}
}

func TestSegmentInvalidDefinitionIsNotStored(t *testing.T) {
	_, _, segs := testStore(t)

	verrs, err := segs.Define(model.SegmentSpec{
		Name:       "bad",
		Definition: model.FilterExpr{Pred: model.Eq{QuestionID: "q_region", Value: "SOUTHEAST"}},
	}, false)

	require.NoError(t, err)
	require.Len(t, verrs, 1)
	assert.Equal(t, model.ErrInvalidOptionValue, verrs[0].Kind)
	assert.False(t, segs.Has("bad"))
}

func TestSegmentRedefinition(t *testing.T) {
	_, _, segs := testStore(t)
	_, err := segs.Define(enterpriseSpec(), false)
	require.NoError(t, err)

	_, err = segs.Define(enterpriseSpec(), false)
	assert.ErrorIs(t, err, ErrSegmentExists)

	// Explicit replace swaps the definition and invalidates the old mask.
	before, err := segs.Compile("enterprise")
	require.NoError(t, err)
	require.Equal(t, 2, before.Count())

	verrs, err := segs.Define(model.SegmentSpec{
		Name:       "enterprise",
		Definition: model.FilterExpr{Pred: model.Eq{QuestionID: "q_tier", Value: "SMB"}},
	}, true)
	require.NoError(t, err)
	require.Empty(t, verrs)

	after, err := segs.Compile("enterprise")
	require.NoError(t, err)
	assert.Equal(t, 3, after.Count())
}

func TestSegmentNamesKeepDefinitionOrder(t *testing.T) {
	_, _, segs := testStore(t)

	for _, name := range []string{"zeta", "alpha", "mid"} {
		_, err := segs.Define(model.SegmentSpec{
			Name:       name,
			Definition: model.FilterExpr{Pred: model.Eq{QuestionID: "q_region", Value: "NORTH"}},
		}, false)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, segs.Names())
}
