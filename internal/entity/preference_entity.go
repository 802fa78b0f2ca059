package entity

import "time"

// Preference is one key/value setting of a user. Credentials live here too,
// sealed before they are stored.
type Preference struct {
	UserID    string
	Key       string
	Value     string
	UpdatedAt time.Time
}
