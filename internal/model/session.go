package model

import "time"

// Session is the durable descriptor of an analysis session. The live catalog,
// dataset and segment registry are held in-process by the session service;
// only this descriptor travels through Redis.
type Session struct {
	ID        string    `json:"id"`
	StudyID   string    `json:"study_id"`
	AnalystID string    `json:"analyst_id"`
	CreatedAt time.Time `json:"created_at"`
}
