package model

import "time"

// IngestRecord captures one ingestion attempt for the history view.
type IngestRecord struct {
	Source    string    `json:"source"` // uploaded filename or "demo"
	Fields    []string  `json:"fields"` // bundle fields that were populated
	Advisory  string    `json:"advisory,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
