package profile

// Overrides holds the what-if fields. Nil fields are inherited from the base profile.
type Overrides struct {
	ENTScore   *float64 `json:"entScore,omitempty"`
	IELTSScore *float64 `json:"ieltsScore,omitempty"`
	Budget     *float64 `json:"budget,omitempty"`
}

// IsZero reports whether no field is overridden.
func (o Overrides) IsZero() bool {
	return o.ENTScore == nil && o.IELTSScore == nil && o.Budget == nil
}

// Apply returns a hypothetical copy of base. base itself is never modified.
func (o Overrides) Apply(base Profile) Profile {
	out := base.Clone()
	if o.ENTScore != nil {
		out.ENTScore = *o.ENTScore
	}
	if o.IELTSScore != nil {
		out.IELTSScore = *o.IELTSScore
	}
	if o.Budget != nil {
		out.Budget = *o.Budget
	}
	return out
}

// Float is a convenience for building Overrides literals.
func Float(v float64) *float64 {
	return &v
}
