package progress

type Status string

const (
	StatusQueued    Status = "queued"
	StatusScanning  Status = "scanning"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Terminal reports whether no further state change can follow.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// State is one progress snapshot. Percentage is derived from the counters
// and never moves backward. Error is set only on failed; DuplicateGroups is
// filled on the final completed snapshot.
type State struct {
	SessionID       string `json:"session_id" yaml:"session_id"`
	FilesProcessed  int    `json:"files_processed" yaml:"files_processed"`
	TotalFiles      int    `json:"total_files" yaml:"total_files"`
	Percentage      int    `json:"percentage" yaml:"percentage"`
	Status          Status `json:"status" yaml:"status"`
	Error           string `json:"error,omitempty" yaml:"error,omitempty"`
	DuplicateGroups int    `json:"duplicate_groups" yaml:"duplicate_groups"`
}
