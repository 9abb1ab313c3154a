package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID Reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID Reference
}

// AuditStamp records the actor and time of a single workflow step.
type AuditStamp struct {
	By string    `json:"by"` // UserID Reference
	At time.Time `json:"at"`
}

// NewAuditStamp returns a stamp for userID at the given time, normalised to UTC.
func NewAuditStamp(userID string, at time.Time) *AuditStamp {
	return &AuditStamp{By: userID, At: at.UTC()}
}
