package engine

import (
	"ascentra/internal/model"
)

// Catalog is the read-only schema of every answerable question. Built once
// per session and never mutated; concurrent readers need no synchronization.
type Catalog struct {
	byID  map[string]model.Question
	order []string
}

// NewCatalog builds a catalog from the declared questions. A malformed
// declaration is a precondition violation, not a validation error.
func NewCatalog(questions []model.Question) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]model.Question, len(questions))}
	for _, q := range questions {
		if q.ID == "" {
			return nil, model.Internalf("catalog question with empty id")
		}
		if _, dup := c.byID[q.ID]; dup {
			return nil, model.Internalf("duplicate catalog question %q", q.ID)
		}
		switch q.Type {
		case model.QuestionSingleChoice, model.QuestionMultiChoice, model.QuestionOrdinalScale:
			if len(q.Options) == 0 {
				return nil, model.Internalf("question %q declares type %s without options", q.ID, q.Type)
			}
		case model.QuestionNumeric:
			if q.Range != nil && q.Range.Min > q.Range.Max {
				return nil, model.Internalf("question %q declares an inverted numeric range", q.ID)
			}
		default:
			return nil, model.Internalf("question %q has unknown type %q", q.ID, q.Type)
		}
		c.byID[q.ID] = q
		c.order = append(c.order, q.ID)
	}
	return c, nil
}

// Lookup returns a question by id.
func (c *Catalog) Lookup(id string) (model.Question, bool) {
	q, ok := c.byID[id]
	return q, ok
}

// DeclaredType returns the declared type of a question.
func (c *Catalog) DeclaredType(id string) (model.QuestionType, bool) {
	q, ok := c.byID[id]
	return q.Type, ok
}

// IsValidOption reports whether code is a declared option of the question.
func (c *Catalog) IsValidOption(id, code string) bool {
	q, ok := c.byID[id]
	if !ok {
		return false
	}
	for _, opt := range q.Options {
		if opt == code {
			return true
		}
	}
	return false
}

// Questions returns all questions in declared order.
func (c *Catalog) Questions() []model.Question {
	out := make([]model.Question, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}
