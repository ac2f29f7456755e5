package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// Period identifies a billing month.
type Period struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}
