package entity

import "time"

// DeliveryEvent is handed to the dispatcher after a challenge is stored. It is
// the only place the plaintext code travels.
type DeliveryEvent struct {
	Mobile        string
	Code          string
	CorrelationID string
}

// Session is what a successful verification yields.
type Session struct {
	Token             string
	FirstVerification bool
	ExpiresAt         time.Time
}
