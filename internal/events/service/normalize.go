package service

import (
	"hitcounter/pkg/model"
	"hitcounter/pkg/sanitizer"
	"time"
)

// Normalize turns an untrusted ping into its storable form. It is pure: the
// same raw event and clock reading always give the same result. The client
// supplied date is ignored; the server clock is authoritative.
func Normalize(raw *model.RawEvent, now time.Time) *model.Event {
	ev := &model.Event{
		Page:      sanitizer.SanitizeInput(raw.Page),
		UserAgent: sanitizer.ClassifyUserAgent(raw.UserAgent),
		IP:        sanitizer.AnonymizeIP(&raw.ClientIP),
		Referrer:  sanitizer.AnonymizeReferrer(raw.Referrer),
		Timestamp: model.FormatTimestamp(now),
	}
	if project := sanitizer.SanitizeInput(raw.Project); project != nil {
		ev.Project = *project
	}
	return ev
}
