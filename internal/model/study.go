package model

import "time"

// Study is the seeded unit of analysis: a question catalog plus the
// respondent table, stored together so a session can hydrate both at once.
type Study struct {
	ID        string     `json:"id" bson:"_id"`
	Name      string     `json:"name" bson:"name"`
	Questions []Question `json:"questions" bson:"questions"`
	Header    []string   `json:"header" bson:"header"`
	Rows      [][]string `json:"rows" bson:"rows"`
	CreatedAt time.Time  `json:"created_at" bson:"createdAt"`
}

// Dataset materialises the respondent table.
func (s *Study) Dataset() *Dataset {
	return NewDataset(s.Header, s.Rows)
}
