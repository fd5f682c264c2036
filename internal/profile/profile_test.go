package profile

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProfile() Profile {
	return Profile{
		ENTScore:        110,
		IELTSScore:      6.5,
		ProfileSubjects: []string{"Математика", "Физика"},
		Interests:       []string{"tech"},
		Budget:          1_000_000,
		PreferredCity:   "Алматы",
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(p *Profile)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Profile) {}},
		{name: "ent lower bound", mutate: func(p *Profile) { p.ENTScore = 50 }},
		{name: "ent upper bound", mutate: func(p *Profile) { p.ENTScore = 140 }},
		{name: "ent too low", mutate: func(p *Profile) { p.ENTScore = 49 }, wantErr: true},
		{name: "ent too high", mutate: func(p *Profile) { p.ENTScore = 141 }, wantErr: true},
		{name: "ent missing", mutate: func(p *Profile) { p.ENTScore = 0 }, wantErr: true},
		{name: "ielts absent", mutate: func(p *Profile) { p.IELTSScore = 0 }},
		{name: "ielts too high", mutate: func(p *Profile) { p.IELTSScore = 9.5 }, wantErr: true},
		{name: "negative budget", mutate: func(p *Profile) { p.Budget = -1 }, wantErr: true},
		{name: "too many subjects", mutate: func(p *Profile) {
			p.ProfileSubjects = []string{"Математика", "Физика", "Химия", "Биология"}
		}, wantErr: true},
		{name: "too many interests", mutate: func(p *Profile) {
			p.Interests = []string{"tech", "law", "science", "business"}
		}, wantErr: true},
		{name: "duplicate interests", mutate: func(p *Profile) { p.Interests = []string{"tech", "tech"} }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := validProfile()
			tt.mutate(&p)

			err := p.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidProfile))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestWithDefaults(t *testing.T) {
	p := Profile{ENTScore: 100}.WithDefaults()

	assert.Equal(t, AnyCity, p.PreferredCity)
	assert.NotNil(t, p.ProfileSubjects)
	assert.NotNil(t, p.Interests)
	assert.Empty(t, p.Interests)
}

func TestOverridesApplyDoesNotMutateBase(t *testing.T) {
	base := validProfile()
	o := Overrides{ENTScore: Float(130), Budget: Float(0)}

	simulated := o.Apply(base)
	simulated.Interests[0] = "law"

	assert.Equal(t, 130.0, simulated.ENTScore)
	assert.Equal(t, 0.0, simulated.Budget)
	assert.Equal(t, base.IELTSScore, simulated.IELTSScore)
	assert.Equal(t, base.PreferredCity, simulated.PreferredCity)

	assert.Equal(t, 110.0, base.ENTScore)
	assert.Equal(t, "tech", base.Interests[0])
	assert.False(t, o.IsZero())
	assert.True(t, Overrides{}.IsZero())
}

func TestToggleSelection(t *testing.T) {
	selected := []string{"a", "b"}

	added := ToggleSelection(selected, "c", 3)
	assert.Equal(t, []string{"a", "b", "c"}, added)

	full := ToggleSelection(added, "d", 3)
	assert.Equal(t, []string{"a", "b", "c"}, full)

	removed := ToggleSelection(full, "b", 3)
	assert.Equal(t, []string{"a", "c"}, removed)
	assert.Equal(t, []string{"a", "b"}, selected)
}

func TestAcceptsCity(t *testing.T) {
	assert.True(t, Profile{PreferredCity: AnyCity}.AcceptsCity("Астана"))
	assert.True(t, Profile{PreferredCity: "Астана"}.AcceptsCity("Астана"))
	assert.False(t, Profile{PreferredCity: "Алматы"}.AcceptsCity("Астана"))
}
