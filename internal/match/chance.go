package match

import (
	"github.com/spigell/uni-navigator/internal/catalog"
	"github.com/spigell/uni-navigator/internal/profile"
)

// Chance is the qualitative admission chance for a program.
type Chance int

const (
	ChanceUnknown Chance = iota
	ChanceLow
	ChanceMedium
	ChanceHigh
)

func (c Chance) String() string {
	switch c {
	case ChanceHigh:
		return "High"
	case ChanceMedium:
		return "Medium"
	case ChanceLow:
		return "Low"
	default:
		return "—"
	}
}

// Label is the user-facing Russian label.
func (c Chance) Label() string {
	switch c {
	case ChanceHigh:
		return "Высокий"
	case ChanceMedium:
		return "Средний"
	case ChanceLow:
		return "Низкий"
	default:
		return "—"
	}
}

// ChanceFor rates a program for p. A nil profile yields ChanceUnknown.
func ChanceFor(program *catalog.Program, p *profile.Profile) Chance {
	if p == nil || program == nil {
		return ChanceUnknown
	}

	entOK := p.ENTScore >= program.MinENT
	ieltsOK := program.MinIELTS == 0 || p.IELTSScore >= program.MinIELTS

	switch {
	case entOK && ieltsOK:
		return ChanceHigh
	case entOK || ieltsOK:
		return ChanceMedium
	default:
		return ChanceLow
	}
}

// BestProgram returns the first program with the highest chance, or nil when
// the university has none.
func BestProgram(u *catalog.University, p *profile.Profile) (*catalog.Program, Chance) {
	var (
		best   *catalog.Program
		chance = ChanceUnknown
	)
	for _, prog := range u.Programs {
		c := ChanceFor(prog, p)
		if best == nil || c > chance {
			best, chance = prog, c
		}
	}
	return best, chance
}
