package engine

import (
	"ascentra/internal/model"
)

// EvaluatePredicate compiles a validated predicate into a row mask.
// A row with a missing value for the referenced question never matches a
// leaf predicate, so absent data is never silently counted as matching.
// Only called after ValidatePredicate returned zero errors; a column the
// validator approved but the dataset lacks is an internal inconsistency.
func EvaluatePredicate(p model.Predicate, ds *model.Dataset) (Mask, error) {
	switch node := p.(type) {
	case model.Eq:
		return evaluateMembership(node.QuestionID, []string{node.Value}, ds)
	case model.In:
		return evaluateMembership(node.QuestionID, node.Values, ds)
	case model.Range:
		return evaluateRange(node, ds)
	case model.And:
		return evaluateCombinator(node.Children, ds, true)
	case model.Or:
		return evaluateCombinator(node.Children, ds, false)
	case model.Not:
		child, err := EvaluatePredicate(node.Child, ds)
		if err != nil {
			return nil, err
		}
		return child.Not(), nil
	default:
		return nil, model.Internalf("cannot evaluate predicate kind %q", p.Kind())
	}
}

func evaluateMembership(questionID string, values []string, ds *model.Dataset) (Mask, error) {
	col, ok := ds.Column(questionID)
	if !ok {
		return nil, model.Internalf("dataset has no column for question %q", questionID)
	}
	allowed := make(map[string]bool, len(values))
	for _, v := range values {
		allowed[v] = true
	}
	mask := NewMask(ds.Len())
	for i, raw := range col {
		for _, code := range model.CellCodes(raw) {
			if allowed[code] {
				mask[i] = true
				break
			}
		}
	}
	return mask, nil
}

func evaluateRange(node model.Range, ds *model.Dataset) (Mask, error) {
	col, ok := ds.Column(node.QuestionID)
	if !ok {
		return nil, model.Internalf("dataset has no column for question %q", node.QuestionID)
	}
	mask := NewMask(ds.Len())
	for i, raw := range col {
		v, ok := model.CellNumber(raw)
		if !ok {
			continue
		}
		if node.Min != nil && v < *node.Min {
			continue
		}
		if node.Max != nil && v > *node.Max {
			continue
		}
		mask[i] = true
	}
	return mask, nil
}

func evaluateCombinator(children []model.Predicate, ds *model.Dataset, conjunction bool) (Mask, error) {
	if len(children) == 0 {
		return nil, model.Internalf("combinator with no children reached evaluation")
	}
	acc, err := EvaluatePredicate(children[0], ds)
	if err != nil {
		return nil, err
	}
	acc = acc.Clone()
	for _, child := range children[1:] {
		m, err := EvaluatePredicate(child, ds)
		if err != nil {
			return nil, err
		}
		if conjunction {
			acc.AndWith(m)
		} else {
			acc.OrWith(m)
		}
	}
	return acc, nil
}
