// Package domain provides core business rules for the inquiries bounded context.
package domain

import "marketplace_backend/platform/apperr"

// Status is the lifecycle state of an inquiry.
type Status string

const (
	StatusNew      Status = "New"
	StatusQuoted   Status = "Quoted"
	StatusAccepted Status = "Accepted"
	StatusDeclined Status = "Declined"
	StatusArchived Status = "Archived"
)

// legalTransitions maps each status to the statuses it may move to.
// An accepted inquiry is immutable except for archival.
var legalTransitions = map[Status]map[Status]bool{
	StatusNew:      {StatusQuoted: true, StatusDeclined: true, StatusArchived: true},
	StatusQuoted:   {StatusAccepted: true, StatusDeclined: true, StatusArchived: true},
	StatusAccepted: {StatusArchived: true},
	StatusDeclined: {StatusArchived: true},
	StatusArchived: {},
}

// Valid reports whether s is a known inquiry status.
func (s Status) Valid() bool {
	_, ok := legalTransitions[s]
	return ok
}

// Transition validates the move from s to target. Illegal moves fail with
// a conflict error naming both states, never a silent no-op.
func (s Status) Transition(target Status) error {
	if !target.Valid() {
		return apperr.BadRequest("unknown inquiry status: " + string(target))
	}
	if !legalTransitions[s][target] {
		return apperr.Conflict("inquiry cannot move from " + string(s) + " to " + string(target))
	}
	return nil
}
