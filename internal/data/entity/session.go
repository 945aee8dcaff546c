package entity

import (
	"time"
)

// Session is the console's signed-in state: the cookie it issued and the
// backend token behind it.
type Session struct {
	// ID identifies the console session (the cookie's jti).
	ID          string
	Cookie      string
	ExpiresAt   time.Time
	AccessToken string
	Email       string
}
