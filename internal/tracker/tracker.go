// Package tracker models the user's university applications.
package tracker

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status of an application.
type Status string

const (
	StatusDraft     Status = "Draft"
	StatusSubmitted Status = "Submitted"
	StatusInterview Status = "Interview"
	StatusAccepted  Status = "Accepted"
	StatusRejected  Status = "Rejected"
)

// Statuses lists every status in workflow order.
var Statuses = []Status{StatusDraft, StatusSubmitted, StatusInterview, StatusAccepted, StatusRejected}

var (
	ErrUnknownStatus = errors.New("unknown application status")
	ErrNotFound      = errors.New("application not found")
)

// ParseStatus matches s case-insensitively against Statuses.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

// Application is a tracked submission to a university program.
type Application struct {
	ID         string `json:"id" mapstructure:"id"`
	University string `json:"university" mapstructure:"university"`
	Program    string `json:"program" mapstructure:"program"`
	AppliedOn  string `json:"appliedOn" mapstructure:"appliedOn"`
	Status     Status `json:"status" mapstructure:"status"`
}

const dateLayout = time.DateOnly

// New returns a draft application dated now.
func New(university, program string, now time.Time) (Application, error) {
	university = strings.TrimSpace(university)
	program = strings.TrimSpace(program)
	if university == "" || program == "" {
		return Application{}, errors.New("university and program are required")
	}

	return Application{
		ID:         "app-" + uuid.NewString(),
		University: university,
		Program:    program,
		AppliedOn:  now.Format(dateLayout),
		Status:     StatusDraft,
	}, nil
}

// Add returns a copy of apps with app prepended.
func Add(apps []Application, app Application) []Application {
	out := make([]Application, 0, len(apps)+1)
	out = append(out, app)
	return append(out, apps...)
}

// SetStatus returns a copy of apps with the status of id replaced.
func SetStatus(apps []Application, id string, status Status) ([]Application, error) {
	i := slices.IndexFunc(apps, func(a Application) bool { return a.ID == id })
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	out := slices.Clone(apps)
	out[i].Status = status
	return out, nil
}

// Remove returns a copy of apps without id.
func Remove(apps []Application, id string) ([]Application, error) {
	i := slices.IndexFunc(apps, func(a Application) bool { return a.ID == id })
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return slices.Delete(slices.Clone(apps), i, i+1), nil
}
