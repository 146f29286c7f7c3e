package model

import "time"

// Credential is a stored secret value for a named service (e.g. the Azure
// DevOps personal access token). Values are encrypted at rest by the store.
type Credential struct {
	ID        int64
	Service   string
	Value     string
	UpdatedAt time.Time
}
