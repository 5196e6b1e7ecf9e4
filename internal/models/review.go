package models

import "time"

// ReviewStatus is the state of a queued answer review.
type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

// Valid reports whether s is a known status.
func (s ReviewStatus) Valid() bool {
	switch s {
	case ReviewPending, ReviewApproved, ReviewRejected:
		return true
	}
	return false
}

// Review is an assistant answer held for a human to check before it is trusted.
type Review struct {
	ID              string       `json:"id"`
	Question        string       `json:"question"`
	Answer          string       `json:"answer"`
	LawIDs          []string     `json:"lawIds"`
	ConfidenceScore UnitScore    `json:"confidenceScore"`
	ConfidenceLevel string       `json:"confidenceLevel"`
	Status          ReviewStatus `json:"status"`
	Note            string       `json:"note,omitempty"`
	CreatedAt       time.Time    `json:"createdAt"`
	ResolvedAt      *time.Time   `json:"resolvedAt,omitempty"`
}

// Feedback is a user message the intent classifier recognised as feedback.
type Feedback struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"createdAt"`
}
