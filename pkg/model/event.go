package model

import "time"

// TimestampLayout is the stored timestamp format: ISO-8601 UTC with
// millisecond precision. Lexical order equals chronological order, which the
// report query relies on.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// RawEvent is an inbound ping before normalization. Nil means the field was
// absent or not a string.
type RawEvent struct {
	Project   *string
	Page      *string
	UserAgent *string
	ClientIP  string
	Referrer  *string
	Date      *string
}

// Event is the normalized, persisted form of a ping. UserAgent holds a
// classifier label whose browser versions can look like dotted quads, so it
// is bounded but not scanned for PII.
type Event struct {
	ID        string  `json:"_id,omitempty" bson:"_id,omitempty"`
	Project   string  `json:"project" bson:"project" validate:"required,max=100,no_pii"`
	Page      *string `json:"page" bson:"page" validate:"omitempty,max=100,no_pii"`
	UserAgent *string `json:"userAgent" bson:"userAgent" validate:"omitempty,max=500"`
	IP        *string `json:"ip" bson:"ip" validate:"omitempty,max=39"`
	Referrer  *string `json:"referrer" bson:"referrer" validate:"omitempty,max=500,no_pii"`
	Timestamp string  `json:"timestamp" bson:"timestamp" validate:"required"`
}

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
