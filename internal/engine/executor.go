package engine

import (
	"sort"

	"ascentra/internal/model"
)

// Execution states, in lifecycle order. A request moves
// received -> validated -> filtered -> grouped -> computed -> returned;
// rejected is terminal from validated and no later state is ever entered
// for a spec with errors.
const (
	StateReceived  = "received"
	StateValidated = "validated"
	StateRejected  = "rejected"
	StateFiltered  = "filtered"
	StateGrouped   = "grouped"
	StateComputed  = "computed"
	StateReturned  = "returned"
)

// StateObserver is notified of each lifecycle transition. Used by callers
// that record run traces; may be nil.
type StateObserver func(state string)

// Executor composes catalog, predicate evaluation, segment compilation and
// the metric engine into one deterministic execution pipeline. For a fixed
// cut, dataset and segment registry its output is byte-for-byte reproducible:
// group order follows the catalog, row iteration follows the dataset, and no
// map iteration order leaks into the result.
type Executor struct {
	cat  *Catalog
	ds   *model.Dataset
	segs *SegmentStore
}

// NewExecutor creates an executor bound to one session's immutable inputs.
func NewExecutor(cat *Catalog, ds *model.Dataset, segs *SegmentStore) *Executor {
	return &Executor{cat: cat, ds: ds, segs: segs}
}

// group is one partition of the base-masked rows.
type group struct {
	label string
	mask  Mask
}

// Execute validates and runs one cut. On validation failure it returns the
// complete error list and no result: no mask is computed, no metric touched.
// A non-nil error is an internal precondition violation, never user error.
func (e *Executor) Execute(cut model.CutSpec, observe StateObserver) (*model.ExecutionResult, []model.ValidationError, error) {
	notify := func(state string) {
		if observe != nil {
			observe(state)
		}
	}
	notify(StateReceived)

	if errs := ValidateCut(cut, e.cat, e.segs); len(errs) > 0 {
		notify(StateRejected)
		return nil, errs, nil
	}
	notify(StateValidated)

	base, err := e.baseMask(cut)
	if err != nil {
		return nil, nil, err
	}
	notify(StateFiltered)

	groups, err := e.partition(cut, base)
	if err != nil {
		return nil, nil, err
	}
	notify(StateGrouped)

	q, ok := e.cat.Lookup(cut.QuestionID)
	if !ok {
		return nil, nil, model.Internalf("validated question %q vanished from catalog", cut.QuestionID)
	}
	target, ok := e.ds.Column(cut.QuestionID)
	if !ok {
		return nil, nil, model.Internalf("dataset has no column for question %q", cut.QuestionID)
	}

	rows := make([]model.ResultRow, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, e.computeRow(cut.Metric, q, target, g))
	}
	notify(StateComputed)

	result := &model.ExecutionResult{
		CutID:        cut.CutID,
		QuestionID:   cut.QuestionID,
		Metric:       cut.Metric.Kind,
		Rows:         rows,
		OverallBaseN: overallBase(target, base),
	}
	notify(StateReturned)
	return result, nil, nil
}

// baseMask applies the cut's restrictions: all rows when unrestricted, the
// compiled segment mask for a segment filter, the evaluated predicate for an
// inline filter, and the intersection when both are set.
func (e *Executor) baseMask(cut model.CutSpec) (Mask, error) {
	base := AllTrue(e.ds.Len())
	if cut.FilterSegment != "" {
		seg, err := e.segs.Compile(cut.FilterSegment)
		if err != nil {
			return nil, err
		}
		base.AndWith(seg)
	}
	if cut.Filter != nil {
		m, err := EvaluatePredicate(cut.Filter.Pred, e.ds)
		if err != nil {
			return nil, err
		}
		base.AndWith(m)
	}
	return base, nil
}

func (e *Executor) partition(cut model.CutSpec, base Mask) ([]group, error) {
	if cut.DimensionID == "" {
		return []group{{label: "overall", mask: base}}, nil
	}
	if q, ok := e.cat.Lookup(cut.DimensionID); ok {
		return e.partitionByQuestion(q, base)
	}
	return e.partitionBySegment(cut.DimensionID, base)
}

// partitionByQuestion groups rows by the dimension question's option codes in
// catalog-declared order. Rows missing the dimension value fall in no group.
func (e *Executor) partitionByQuestion(q model.Question, base Mask) ([]group, error) {
	col, ok := e.ds.Column(q.ID)
	if !ok {
		return nil, model.Internalf("dataset has no column for dimension %q", q.ID)
	}

	codes := q.Options
	if !q.IsChoice() {
		codes = observedValues(col, base)
	}

	groups := make([]group, 0, len(codes))
	for _, code := range codes {
		mask := NewMask(e.ds.Len())
		for i, raw := range col {
			if !base[i] {
				continue
			}
			for _, c := range model.CellCodes(raw) {
				if c == code {
					mask[i] = true
					break
				}
			}
		}
		groups = append(groups, group{label: code, mask: mask})
	}
	return groups, nil
}

// partitionBySegment yields exactly two groups: segment and complement,
// each intersected with the base mask.
func (e *Executor) partitionBySegment(name string, base Mask) ([]group, error) {
	seg, err := e.segs.Compile(name)
	if err != nil {
		return nil, err
	}
	comp, err := e.segs.Complement(name)
	if err != nil {
		return nil, err
	}
	return []group{
		{label: name, mask: base.Intersect(seg)},
		{label: "not " + name, mask: base.Intersect(comp)},
	}, nil
}

func (e *Executor) computeRow(metric model.MetricSpec, q model.Question, target []string, g group) model.ResultRow {
	values := make([]string, 0, len(target))
	for i, raw := range target {
		if g.mask[i] {
			values = append(values, raw)
		}
	}

	var out MetricOutcome
	switch metric.Kind {
	case model.MetricFrequency:
		out = Frequency(values, q)
	case model.MetricMean:
		out = Mean(values)
	case model.MetricNPS:
		out = NPS(values,
			metric.Param(model.ParamPromoterMin, defaultPromoterMin),
			metric.Param(model.ParamDetractorMax, defaultDetractorMax))
	case model.MetricTop2Box:
		out = Top2Box(values, q)
	}

	return model.ResultRow{
		GroupLabel:   g.label,
		MetricValue:  out.Value,
		BaseN:        out.Base,
		Distribution: out.Distribution,
	}
}

// overallBase counts rows passing the base mask with a non-missing target
// value, so per-group bases sum to it whenever the dimension has no missing
// values.
func overallBase(target []string, base Mask) int {
	n := 0
	for i, raw := range target {
		if base[i] && !model.CellMissing(raw) {
			n++
		}
	}
	return n
}

// observedValues returns the distinct non-missing values of a numeric
// dimension column under the base mask, in ascending numeric order.
func observedValues(col []string, base Mask) []string {
	seen := make(map[string]bool)
	var out []string
	for i, raw := range col {
		if !base[i] || model.CellMissing(raw) || seen[raw] {
			continue
		}
		seen[raw] = true
		out = append(out, raw)
	}
	sort.Slice(out, func(i, j int) bool {
		a, aok := model.CellNumber(out[i])
		b, bok := model.CellNumber(out[j])
		if aok && bok {
			return a < b
		}
		return out[i] < out[j]
	})
	return out
}
