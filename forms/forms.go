// Package forms relays the site's career, contact, franchise and
// fundraising submissions to their external endpoints.
package forms

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// Kind names one of the site's forms.
type Kind string

const (
	Career      Kind = "career"
	Contact     Kind = "contact"
	Franchise   Kind = "franchise"
	Fundraising Kind = "fundraising"
)

// Kinds lists every known form kind.
var Kinds = []Kind{Career, Contact, Franchise, Fundraising}

// ParseKind maps a URL segment to a Kind.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

var (
	ErrUnknownKind = errors.New("forms: unknown form kind")
	ErrRateLimited = errors.New("forms: too many submissions")
	ErrInvalid     = errors.New("forms: invalid submission")
	ErrUpstream    = errors.New("forms: upstream rejected submission")
)

// GenericError is the only failure message shown to visitors.
const GenericError = "Something went wrong. Please try again or give us a call."

// Submission statuses.
const (
	StatusDelivered = "delivered"
	StatusFailed    = "failed"
)

// Submission is the audit record of one relayed form post.
type Submission struct {
	ID             string          `json:"id"`
	Kind           Kind            `json:"kind"`
	Payload        json.RawMessage `json:"payload"`
	Status         string          `json:"status"`
	Error          string          `json:"error,omitempty"`
	UpstreamStatus int             `json:"upstream_status,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// Recorder persists submission outcomes.
type Recorder interface {
	SaveSubmission(ctx context.Context, sub Submission) error
}

type CareerPayload struct {
	Name     string `json:"name" form:"name" validate:"required,max=200"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Phone    string `json:"phone" form:"phone" validate:"required,max=40"`
	Location string `json:"location" form:"location" validate:"required,max=200"`
	Position string `json:"position" form:"position" validate:"required,max=100"`
	Message  string `json:"message" form:"message" validate:"max=5000"`
}

type ContactPayload struct {
	Name     string `json:"name" form:"name" validate:"required,max=200"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Phone    string `json:"phone" form:"phone" validate:"max=40"`
	Location string `json:"location" form:"location" validate:"max=200"`
	Subject  string `json:"subject" form:"subject" validate:"max=200"`
	Message  string `json:"message" form:"message" validate:"required,max=5000"`
}

type FranchisePayload struct {
	Name      string `json:"name" form:"name" validate:"required,max=200"`
	Email     string `json:"email" form:"email" validate:"required,email"`
	Phone     string `json:"phone" form:"phone" validate:"required,max=40"`
	City      string `json:"city" form:"city" validate:"required,max=100"`
	State     string `json:"state" form:"state" validate:"required,max=50"`
	Liquidity string `json:"liquidity" form:"liquidity" validate:"max=100"`
	Message   string `json:"message" form:"message" validate:"max=5000"`
}

type FundraisingPayload struct {
	Organization string `json:"organization" form:"organization" validate:"required,max=200"`
	Name         string `json:"name" form:"name" validate:"required,max=200"`
	Email        string `json:"email" form:"email" validate:"required,email"`
	Phone        string `json:"phone" form:"phone" validate:"required,max=40"`
	Location     string `json:"location" form:"location" validate:"required,max=200"`
	Date         string `json:"date" form:"date" validate:"omitempty,datetime=2006-01-02"`
	Attendance   int    `json:"attendance" form:"attendance" validate:"gte=0"`
	Message      string `json:"message" form:"message" validate:"max=5000"`
}

// NewPayload returns a pointer to an empty payload for kind, ready to bind.
func NewPayload(kind Kind) (any, error) {
	switch kind {
	case Career:
		return &CareerPayload{}, nil
	case Contact:
		return &ContactPayload{}, nil
	case Franchise:
		return &FranchisePayload{}, nil
	case Fundraising:
		return &FundraisingPayload{}, nil
	}
	return nil, ErrUnknownKind
}
