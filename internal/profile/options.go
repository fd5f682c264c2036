package profile

// Subjects offered by the quiz.
var Subjects = []string{
	"Математика",
	"Физика",
	"Химия",
	"Биология",
	"История",
	"География",
	"Иностранный язык",
	"Информатика",
	"Литература",
}

// Interest is a quiz interest tag.
type Interest struct {
	ID   string
	Name string
}

var Interests = []Interest{
	{ID: "tech", Name: "Технологии и IT"},
	{ID: "medicine", Name: "Медицина и здоровье"},
	{ID: "business", Name: "Бизнес и экономика"},
	{ID: "engineering", Name: "Инженерия"},
	{ID: "creative", Name: "Креатив и дизайн"},
	{ID: "law", Name: "Право и юриспруденция"},
	{ID: "education", Name: "Образование"},
	{ID: "science", Name: "Естественные науки"},
}

// Cities offered by the quiz. AnyCity is last.
var Cities = []string{
	"Алматы",
	"Астана",
	"Шымкент",
	"Караганда",
	"Актобе",
	"Павлодар",
	"Семей",
	"Атырау",
	AnyCity,
}

// InterestByID looks up a known interest tag.
func InterestByID(id string) (Interest, bool) {
	for _, i := range Interests {
		if i.ID == id {
			return i, true
		}
	}
	return Interest{}, false
}

// ToggleSelection adds value when absent and there is room, removes it when present.
// It returns a new slice and leaves selected untouched.
func ToggleSelection(selected []string, value string, limit int) []string {
	out := make([]string, 0, len(selected)+1)
	found := false
	for _, v := range selected {
		if v == value {
			found = true
			continue
		}
		out = append(out, v)
	}
	if !found && len(out) < limit {
		out = append(out, value)
	}
	return out
}
