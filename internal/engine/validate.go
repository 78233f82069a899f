package engine

import (
	"ascentra/internal/model"
)

// ValidatePredicate checks a predicate tree against the catalog and returns
// every error found across the whole tree in one pass. An empty slice is the
// sole success signal; nothing downstream may touch a predicate that did not
// pass with zero errors.
func ValidatePredicate(p model.Predicate, cat *Catalog) []model.ValidationError {
	var errs []model.ValidationError
	walkPredicate(p, cat, &errs)
	return errs
}

func walkPredicate(p model.Predicate, cat *Catalog, errs *[]model.ValidationError) {
	switch node := p.(type) {
	case model.Eq:
		validateMembership(node.QuestionID, []string{node.Value}, "eq", cat, errs)
	case model.In:
		if len(node.Values) == 0 {
			*errs = append(*errs, model.NewValidationError(model.ErrInvalidOptionValue,
				node.QuestionID, "in predicate on %q lists no values", node.QuestionID))
			return
		}
		validateMembership(node.QuestionID, node.Values, "in", cat, errs)
	case model.Range:
		validateRange(node, cat, errs)
	case model.And:
		validateChildren("and", node.Children, cat, errs)
	case model.Or:
		validateChildren("or", node.Children, cat, errs)
	case model.Not:
		if node.Child == nil {
			*errs = append(*errs, model.NewValidationError(model.ErrPredicateTypeIncompatible,
				"child", "not predicate requires exactly one child"))
			return
		}
		walkPredicate(node.Child, cat, errs)
	case nil:
		*errs = append(*errs, model.NewValidationError(model.ErrPredicateTypeIncompatible,
			"", "predicate is empty"))
	default:
		*errs = append(*errs, model.NewValidationError(model.ErrPredicateTypeIncompatible,
			"", "unknown predicate kind %q", p.Kind()))
	}
}

func validateMembership(questionID string, values []string, kind string, cat *Catalog, errs *[]model.ValidationError) {
	q, ok := cat.Lookup(questionID)
	if !ok {
		*errs = append(*errs, model.NewValidationError(model.ErrUnknownQuestionID,
			questionID, "question %q does not exist", questionID))
		return
	}
	if !q.IsChoice() {
		*errs = append(*errs, model.NewValidationError(model.ErrPredicateTypeIncompatible,
			questionID, "%s predicate is not applicable to %s question %q", kind, q.Type, questionID))
		return
	}
	for _, v := range values {
		if !cat.IsValidOption(questionID, v) {
			*errs = append(*errs, model.NewValidationError(model.ErrInvalidOptionValue,
				questionID, "%q is not a declared option of question %q", v, questionID))
		}
	}
}

func validateRange(node model.Range, cat *Catalog, errs *[]model.ValidationError) {
	q, ok := cat.Lookup(node.QuestionID)
	if !ok {
		*errs = append(*errs, model.NewValidationError(model.ErrUnknownQuestionID,
			node.QuestionID, "question %q does not exist", node.QuestionID))
		return
	}
	if q.Type != model.QuestionNumeric && q.Type != model.QuestionOrdinalScale {
		*errs = append(*errs, model.NewValidationError(model.ErrPredicateTypeIncompatible,
			node.QuestionID, "range predicate is not applicable to %s question %q", q.Type, node.QuestionID))
		return
	}
	if node.Min == nil && node.Max == nil {
		*errs = append(*errs, model.NewValidationError(model.ErrMissingRangeBound,
			node.QuestionID, "range on %q sets neither min nor max", node.QuestionID))
		return
	}
	if node.Min != nil && node.Max != nil && *node.Min > *node.Max {
		*errs = append(*errs, model.NewValidationError(model.ErrInvalidRangeBounds,
			node.QuestionID, "range on %q has min %v greater than max %v", node.QuestionID, *node.Min, *node.Max))
	}
}

func validateChildren(kind string, children []model.Predicate, cat *Catalog, errs *[]model.ValidationError) {
	if len(children) == 0 {
		*errs = append(*errs, model.NewValidationError(model.ErrPredicateTypeIncompatible,
			"children", "%s predicate requires at least one child", kind))
		return
	}
	for _, child := range children {
		walkPredicate(child, cat, errs)
	}
}
