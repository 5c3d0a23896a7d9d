package filters

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// Filters describes an offset/limit window over a listing, optionally
// narrowed by a case-insensitive title substring.
type Filters struct {
	Skip   int    `schema:"skip" json:"skip" validate:"gte=0"`
	Limit  int    `schema:"limit" json:"limit" validate:"gte=1,lte=1000"`
	Search string `schema:"search" json:"search" validate:"max=255"`
}

func New() Filters {
	return Filters{Limit: DefaultLimit}
}

func (f *Filters) Offset() int {
	return f.Skip
}

// SearchPattern returns the ILIKE pattern for the title search, or an empty
// string when no search was requested.
func (f *Filters) SearchPattern() string {
	if f.Search == "" {
		return ""
	}
	return "%" + escapeLike(f.Search) + "%"
}

func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch r {
		case '\\', '%', '_':
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
