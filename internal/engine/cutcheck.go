package engine

import (
	"ascentra/internal/model"
)

// metricCompat maps each metric kind to the question types it can be
// computed over. nps additionally requires the is_nps_scale flag.
var metricCompat = map[model.MetricKind]map[model.QuestionType]bool{
	model.MetricFrequency: {
		model.QuestionSingleChoice: true,
		model.QuestionMultiChoice:  true,
		model.QuestionNumeric:      true,
		model.QuestionOrdinalScale: true,
	},
	model.MetricMean: {
		model.QuestionNumeric:      true,
		model.QuestionOrdinalScale: true,
	},
	model.MetricNPS: {
		model.QuestionOrdinalScale: true,
	},
	model.MetricTop2Box: {
		model.QuestionOrdinalScale: true,
	},
}

// ValidateCut checks a cut spec against the catalog and segment registry,
// accumulating every failure rather than stopping at the first. A cut with
// any error is never executed.
func ValidateCut(cut model.CutSpec, cat *Catalog, segs *SegmentStore) []model.ValidationError {
	var errs []model.ValidationError

	q, known := cat.Lookup(cut.QuestionID)
	if !known {
		errs = append(errs, model.NewValidationError(model.ErrUnknownQuestionID,
			"question_id", "question %q does not exist", cut.QuestionID))
	} else {
		errs = append(errs, checkMetric(cut.Metric, q)...)
	}

	if cut.DimensionID != "" {
		dq, isQuestion := cat.Lookup(cut.DimensionID)
		switch {
		case isQuestion && dq.Type == model.QuestionMultiChoice:
			// Multi-select answers put one respondent in several option
			// groups, so the groups would not partition the base.
			errs = append(errs, model.NewValidationError(model.ErrUnknownDimension,
				"dimension_id", "multi_choice question %q cannot be used as a dimension", cut.DimensionID))
		case !isQuestion && !segs.Has(cut.DimensionID):
			errs = append(errs, model.NewValidationError(model.ErrUnknownDimension,
				"dimension_id", "%q is neither a question nor a defined segment", cut.DimensionID))
		}
	}

	if cut.Filter != nil {
		errs = append(errs, ValidatePredicate(cut.Filter.Pred, cat)...)
	}
	if cut.FilterSegment != "" && !segs.Has(cut.FilterSegment) {
		errs = append(errs, model.NewValidationError(model.ErrUnknownSegment,
			"filter_segment", "segment %q is not defined", cut.FilterSegment))
	}

	return errs
}

func checkMetric(metric model.MetricSpec, q model.Question) []model.ValidationError {
	compat, knownKind := metricCompat[metric.Kind]
	if !knownKind {
		return []model.ValidationError{model.NewValidationError(model.ErrMetricQuestionIncompatible,
			"metric.kind", "unknown metric kind %q", string(metric.Kind))}
	}
	if !compat[q.Type] {
		return []model.ValidationError{model.NewValidationError(model.ErrMetricQuestionIncompatible,
			"metric.kind", "metric %s cannot be computed over %s question %q", metric.Kind, q.Type, q.ID)}
	}
	if metric.Kind == model.MetricNPS && !q.IsNPSScale {
		return []model.ValidationError{model.NewValidationError(model.ErrMetricQuestionIncompatible,
			"metric.kind", "question %q is not flagged as an NPS 0-10 scale", q.ID)}
	}
	if metric.Kind == model.MetricNPS {
		pMin := metric.Param(model.ParamPromoterMin, defaultPromoterMin)
		dMax := metric.Param(model.ParamDetractorMax, defaultDetractorMax)
		if dMax >= pMin {
			return []model.ValidationError{model.NewValidationError(model.ErrMetricQuestionIncompatible,
				"metric.params", "detractor_max %v must be below promoter_min %v", dMax, pMin)}
		}
	}
	return nil
}
