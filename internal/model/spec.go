package model

// MetricKind enumerates the supported statistics
type MetricKind string

const (
	MetricFrequency MetricKind = "frequency"
	MetricMean      MetricKind = "mean"
	MetricNPS       MetricKind = "nps"
	MetricTop2Box   MetricKind = "top2box"
)

// Param keys recognised in MetricSpec.Params
const (
	ParamPromoterMin  = "promoter_min"  // nps: lowest promoter score, default 9
	ParamDetractorMax = "detractor_max" // nps: highest detractor score, default 6
)

// MetricSpec names a statistic and its optional parameters
type MetricSpec struct {
	Kind   MetricKind         `json:"kind"`
	Params map[string]float64 `json:"params,omitempty"`
}

// Param returns a named parameter or the given default.
func (m MetricSpec) Param(key string, def float64) float64 {
	if v, ok := m.Params[key]; ok {
		return v
	}
	return def
}

// SegmentSpec is a named, reusable filter definition. Immutable once stored;
// redefinition requires a new name or an explicit replace.
type SegmentSpec struct {
	Name       string     `json:"name"`
	Definition FilterExpr `json:"definition"`
}

// CutSpec is one structured analytical request: a metric over a target
// question, optionally grouped by a dimension and restricted by a filter.
// The filter may be given inline (Filter), as a stored segment name
// (FilterSegment), or both; when both are set their masks intersect.
type CutSpec struct {
	CutID         string      `json:"cut_id,omitempty"`
	Metric        MetricSpec  `json:"metric"`
	QuestionID    string      `json:"question_id"`
	DimensionID   string      `json:"dimension_id,omitempty"` // Question id or segment name
	Filter        *FilterExpr `json:"filter,omitempty"`
	FilterSegment string      `json:"filter_segment,omitempty"`
}
