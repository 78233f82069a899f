package engine

import (
	"sort"

	"github.com/montanaflynn/stats"

	"ascentra/internal/model"
)

// Default NPS thresholds: promoters 9-10, detractors 0-6.
const (
	defaultPromoterMin  = 9
	defaultDetractorMax = 6
)

// MetricOutcome is the output of one metric over one row subset.
// Value is nil exactly when Base is zero. Distribution is populated for the
// frequency metric only.
type MetricOutcome struct {
	Value        *float64
	Base         int
	Distribution []model.OptionShare
}

func outcome(v float64, base int) MetricOutcome {
	return MetricOutcome{Value: &v, Base: base}
}

// Frequency computes the proportion of non-missing respondents per distinct
// observed option, normalized to sum to 1 over non-missing rows. Distribution
// order is the catalog-declared option order; options a choice question
// declares but nobody selected are omitted. For numeric questions the
// observed values are reported in ascending numeric order. The scalar value
// is the modal option's share, ties broken by the same order.
func Frequency(values []string, q model.Question) MetricOutcome {
	counts := make(map[string]int)
	base := 0
	for _, raw := range values {
		codes := model.CellCodes(raw)
		if len(codes) == 0 {
			continue
		}
		base++
		for _, code := range codes {
			counts[code]++
		}
	}
	if base == 0 {
		return MetricOutcome{}
	}

	var order []string
	if q.IsChoice() {
		for _, opt := range q.Options {
			if counts[opt] > 0 {
				order = append(order, opt)
			}
		}
	} else {
		for code := range counts {
			order = append(order, code)
		}
		sort.Slice(order, func(i, j int) bool {
			a, aok := model.CellNumber(order[i])
			b, bok := model.CellNumber(order[j])
			if aok && bok {
				return a < b
			}
			return order[i] < order[j]
		})
	}

	dist := make([]model.OptionShare, 0, len(order))
	modal := 0.0
	for _, code := range order {
		share := float64(counts[code]) / float64(base)
		dist = append(dist, model.OptionShare{Option: code, Count: counts[code], Share: share})
		if share > modal {
			modal = share
		}
	}
	out := outcome(modal, base)
	out.Distribution = dist
	return out
}

// Mean computes the arithmetic mean of non-missing numeric or ordinal values.
func Mean(values []string) MetricOutcome {
	nums := collectNumbers(values)
	if len(nums) == 0 {
		return MetricOutcome{}
	}
	m, err := stats.Mean(nums)
	if err != nil {
		return MetricOutcome{}
	}
	return outcome(m, len(nums))
}

// NPS computes percentage of promoters minus percentage of detractors over
// the non-missing base, in [-100, 100].
func NPS(values []string, promoterMin, detractorMax float64) MetricOutcome {
	nums := collectNumbers(values)
	if len(nums) == 0 {
		return MetricOutcome{}
	}
	promoters, detractors := 0, 0
	for _, v := range nums {
		switch {
		case v >= promoterMin:
			promoters++
		case v <= detractorMax:
			detractors++
		}
	}
	base := len(nums)
	score := (float64(promoters) - float64(detractors)) / float64(base) * 100
	return outcome(score, base)
}

// Top2Box computes the proportion of non-missing respondents whose value is
// one of the two highest-valued categories of the question's declared
// ordinal range.
func Top2Box(values []string, q model.Question) MetricOutcome {
	top := topTwoOptions(q)
	if len(top) == 0 {
		return MetricOutcome{}
	}
	base, hits := 0, 0
	for _, raw := range values {
		if model.CellMissing(raw) {
			continue
		}
		base++
		if top[raw] {
			hits++
		}
	}
	if base == 0 {
		return MetricOutcome{}
	}
	return outcome(float64(hits)/float64(base), base)
}

// topTwoOptions returns the last two codes of the declared ordinal order.
func topTwoOptions(q model.Question) map[string]bool {
	n := len(q.Options)
	if n == 0 {
		return nil
	}
	top := map[string]bool{q.Options[n-1]: true}
	if n > 1 {
		top[q.Options[n-2]] = true
	}
	return top
}

// collectNumbers parses cells in row order so float accumulation order is
// fixed and results are reproducible.
func collectNumbers(values []string) []float64 {
	nums := make([]float64, 0, len(values))
	for _, raw := range values {
		if v, ok := model.CellNumber(raw); ok {
			nums = append(nums, v)
		}
	}
	return nums
}
