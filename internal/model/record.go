package model

// IterationRecord is one line of the append-only journal under
// .grind/logs/journal.jsonl.
type IterationRecord struct {
	ID        string  `json:"id"`
	RunID     string  `json:"run_id"`
	Index     int     `json:"index"`
	TaskID    string  `json:"task_id"`
	Outcome   Outcome `json:"outcome"`
	Detail    string  `json:"detail,omitempty"`
	StartedAt string  `json:"started_at"`
	EndedAt   string  `json:"ended_at"`
}
