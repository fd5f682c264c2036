// Package profile holds the applicant profile collected by the quiz and the
// what-if overrides applied on top of it.
package profile

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

const (
	// AnyCity matches every university city.
	AnyCity = "Любой"

	MinENT   = 50
	MaxENT   = 140
	MaxIELTS = 9

	MaxSubjects  = 3
	MaxInterests = 3
)

var ErrInvalidProfile = errors.New("invalid profile")

// Profile is the user's declared profile. IELTSScore of zero means "not taken".
type Profile struct {
	ENTScore        float64  `json:"entScore" yaml:"entScore" mapstructure:"entScore"`
	IELTSScore      float64  `json:"ieltsScore" yaml:"ieltsScore" mapstructure:"ieltsScore"`
	ProfileSubjects []string `json:"profileSubjects" yaml:"profileSubjects" mapstructure:"profileSubjects"`
	Interests       []string `json:"interests" yaml:"interests" mapstructure:"interests"`
	Budget          float64  `json:"budget" yaml:"budget" mapstructure:"budget"`
	PreferredCity   string   `json:"preferredCity" yaml:"preferredCity" mapstructure:"preferredCity"`
}

// Validate reports the first violated constraint wrapped in ErrInvalidProfile.
func (p Profile) Validate() error {
	if p.ENTScore < MinENT || p.ENTScore > MaxENT {
		return fmt.Errorf("%w: ENT score must be between %d and %d, got %v", ErrInvalidProfile, MinENT, MaxENT, p.ENTScore)
	}
	if p.IELTSScore < 0 || p.IELTSScore > MaxIELTS {
		return fmt.Errorf("%w: IELTS score must be between 0 and %d, got %v", ErrInvalidProfile, MaxIELTS, p.IELTSScore)
	}
	if p.Budget < 0 {
		return fmt.Errorf("%w: budget must not be negative", ErrInvalidProfile)
	}
	if len(p.ProfileSubjects) > MaxSubjects {
		return fmt.Errorf("%w: at most %d profile subjects allowed, got %d", ErrInvalidProfile, MaxSubjects, len(p.ProfileSubjects))
	}
	if len(p.Interests) > MaxInterests {
		return fmt.Errorf("%w: at most %d interests allowed, got %d", ErrInvalidProfile, MaxInterests, len(p.Interests))
	}
	if hasDuplicates(p.ProfileSubjects) {
		return fmt.Errorf("%w: profile subjects must be unique", ErrInvalidProfile)
	}
	if hasDuplicates(p.Interests) {
		return fmt.Errorf("%w: interests must be unique", ErrInvalidProfile)
	}

	return nil
}

// WithDefaults fills the fields a remote payload may omit.
func (p Profile) WithDefaults() Profile {
	out := p.Clone()
	if out.ProfileSubjects == nil {
		out.ProfileSubjects = []string{}
	}
	if out.Interests == nil {
		out.Interests = []string{}
	}
	if strings.TrimSpace(out.PreferredCity) == "" {
		out.PreferredCity = AnyCity
	}
	return out
}

// Clone returns a deep copy.
func (p Profile) Clone() Profile {
	out := p
	out.ProfileSubjects = slices.Clone(p.ProfileSubjects)
	out.Interests = slices.Clone(p.Interests)
	return out
}

// IsEmpty reports whether the profile carries no ENT score, which the quiz always sets.
func (p Profile) IsEmpty() bool {
	return p.ENTScore == 0
}

// AcceptsCity reports whether the preferred city matches the given one.
func (p Profile) AcceptsCity(city string) bool {
	return p.PreferredCity == AnyCity || p.PreferredCity == city
}

func hasDuplicates(values []string) bool {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			return true
		}
		seen[v] = struct{}{}
	}
	return false
}
