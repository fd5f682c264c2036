package catalog

// University is immutable reference data.
type University struct {
	ID                string        `yaml:"id" json:"id"`
	Name              string        `yaml:"name" json:"name"`
	NameKz            string        `yaml:"name_kz" json:"nameKz,omitempty"`
	City              string        `yaml:"city" json:"city"`
	Description       string        `yaml:"description" json:"description,omitempty"`
	YearFounded       int           `yaml:"year_founded" json:"yearFounded,omitempty"`
	StudentsCount     int           `yaml:"students_count" json:"studentsCount,omitempty"`
	NationalRank      int           `yaml:"national_rank" json:"nationalRank"`
	WorldRank         int           `yaml:"world_rank" json:"worldRank,omitempty"`
	MinENT            float64       `yaml:"min_ent" json:"minENT"`
	MinIELTS          float64       `yaml:"min_ielts" json:"minIELTS"`
	TuitionRange      TuitionRange  `yaml:"tuition_range" json:"tuitionRange"`
	AdmissionDeadline string        `yaml:"admission_deadline" json:"admissionDeadline,omitempty"`
	Achievements      []string      `yaml:"achievements" json:"achievements,omitempty"`
	Scholarships      []Scholarship `yaml:"scholarships" json:"scholarships,omitempty"`
	Programs          []*Program    `yaml:"programs" json:"programs"`
}

// TuitionRange is yearly tuition in KZT. Max of zero means fully funded.
type TuitionRange struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// FullyFunded reports whether every student studies on a grant.
func (t TuitionRange) FullyFunded() bool {
	return t.Max == 0
}

// Program belongs to exactly one University. MinIELTS of zero means no requirement.
type Program struct {
	ID             string   `yaml:"id" json:"id"`
	Name           string   `yaml:"name" json:"name"`
	Faculty        string   `yaml:"faculty" json:"faculty,omitempty"`
	Degree         string   `yaml:"degree" json:"degree,omitempty"`
	Duration       int      `yaml:"duration" json:"duration"`
	MinENT         float64  `yaml:"min_ent" json:"minENT"`
	MinIELTS       float64  `yaml:"min_ielts" json:"minIELTS,omitempty"`
	Tuition        float64  `yaml:"tuition" json:"tuition"`
	Language       string   `yaml:"language" json:"language,omitempty"`
	EmploymentRate float64  `yaml:"employment_rate" json:"employmentRate"`
	AvgSalary      float64  `yaml:"avg_salary" json:"avgSalary"`
	Tags           []string `yaml:"tags" json:"tags,omitempty"`
}

type Scholarship struct {
	Name         string `yaml:"name" json:"name"`
	Coverage     string `yaml:"coverage" json:"coverage"`
	Requirements string `yaml:"requirements" json:"requirements"`
}

// Program returns the program with the given id.
func (u *University) Program(id string) (*Program, bool) {
	for _, p := range u.Programs {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}
