package api

import "time"

// JobStatus represents the server-authoritative lifecycle state of a job
type JobStatus string

const (
	StatusWaiting   JobStatus = "waiting"
	StatusActive    JobStatus = "active"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// Valid reports whether s is one of the four known statuses.
func (s JobStatus) Valid() bool {
	switch s {
	case StatusWaiting, StatusActive, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// JobOptions holds the tuning knobs attached to a job request
type JobOptions struct {
	MinReactions    int    `json:"minReactions"`
	ExcludeJobPosts bool   `json:"excludeJobPosts"`
	MessageTone     string `json:"messageTone"`
	WantEmoji       bool   `json:"wantEmoji"`
	WantHashtags    bool   `json:"wantHashtags"`
}

// JobResult is present only on completed jobs
type JobResult struct {
	Success        bool `json:"success"`
	CommentedCount int  `json:"commentedCount"`
	PostsScanned   int  `json:"totalPostsScraped"`
}

// Job is one unit of automated work as reported by the queue service.
// The client observes jobs; it never mutates them. Result and Error are
// mutually exclusive and both absent while the job is waiting or active.
type Job struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	Keywords    []string   `json:"keywords"`
	MaxComments int        `json:"maxComments"`
	Options     JobOptions `json:"options"`
	Status      JobStatus  `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Result      *JobResult `json:"result,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// QueueStats holds the aggregate queue counters. Refreshed wholesale on
// each poll; there are no partial updates.
type QueueStats struct {
	Waiting   int `json:"waiting"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
}

// Total returns the sum of all four counters
func (s QueueStats) Total() int {
	return s.Waiting + s.Active + s.Completed + s.Failed
}

// Pagination is the server-authoritative paging descriptor
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// HistoryPage is one page of job history under the current filters
type HistoryPage struct {
	Jobs       []Job      `json:"jobs"`
	Pagination Pagination `json:"pagination"`
}

// JobDetails is the drill-down view for a single job
type JobDetails struct {
	Job Job `json:"job"`
}

// User identifies an authenticated account
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuthResponse is returned by Login and Register
type AuthResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
	Token   string `json:"token"`
}

// UserJobStatus gates job submission: the server refuses jobs until the
// extension has supplied a valid browser credential for the user.
type UserJobStatus struct {
	HasValidCookies bool `json:"hasValidCookies"`
	CanStartJob     bool `json:"canStartJob"`
}

// ExtensionStatus is the server's view of the extension pairing record
type ExtensionStatus struct {
	IsPaired      bool           `json:"isPaired"`
	ExtensionInfo *ExtensionInfo `json:"extensionInfo,omitempty"`
}

// ExtensionInfo identifies which account the extension is paired to
type ExtensionInfo struct {
	UserEmail string `json:"userEmail"`
}

// PairingPayload is the record handed to the server (and written to the
// local store for the extension to read) when a pairing attempt starts.
type PairingPayload struct {
	UserID    string    `json:"userId"`
	UserEmail string    `json:"userEmail"`
	AuthToken string    `json:"authToken"`
	Nonce     string    `json:"nonce"`
	CreatedAt time.Time `json:"timestamp"`
}
