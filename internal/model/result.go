package model

// OptionShare is one entry of a frequency distribution, ordered by the
// catalog-declared option order.
type OptionShare struct {
	Option string  `json:"option"`
	Count  int     `json:"count"`
	Share  float64 `json:"share"` // Proportion of non-missing rows; sums to 1 only for single-valued questions, multi-select shares are per-respondent proportions
}

// ResultRow is one group of an execution result. MetricValue is nil exactly
// when BaseN is zero; an empty group is reported, never fabricated as zero.
type ResultRow struct {
	GroupLabel   string        `json:"group_label"`
	MetricValue  *float64      `json:"metric_value"`
	BaseN        int           `json:"base_n"`
	Distribution []OptionShare `json:"distribution,omitempty"` // frequency metric only
}

// ExecutionResult is the ordered result table for one executed cut.
type ExecutionResult struct {
	CutID        string      `json:"cut_id,omitempty"`
	QuestionID   string      `json:"question_id"`
	Metric       MetricKind  `json:"metric"`
	Rows         []ResultRow `json:"rows"`
	OverallBaseN int         `json:"overall_base_n"`
}
