package query

import "strings"

// Status filters characters by life status.
type Status string

const (
	StatusAny     Status = ""
	StatusAlive   Status = "alive"
	StatusDead    Status = "dead"
	StatusUnknown Status = "unknown"
)

var statuses = []Status{StatusAny, StatusAlive, StatusDead, StatusUnknown}

// ParseStatus matches value case-insensitively against the known statuses.
func ParseStatus(value string) (Status, bool) {
	return parseEnum(statuses, value)
}

// Next returns the following status in display order, wrapping to StatusAny.
func (s Status) Next() Status {
	return nextEnum(statuses, s)
}

// Label returns a human label for the status.
func (s Status) Label() string {
	if s == StatusAny {
		return "All statuses"
	}
	return capitalize(string(s))
}

// Gender filters characters by gender.
type Gender string

const (
	GenderAny        Gender = ""
	GenderFemale     Gender = "female"
	GenderMale       Gender = "male"
	GenderGenderless Gender = "genderless"
	GenderUnknown    Gender = "unknown"
)

var genders = []Gender{GenderAny, GenderFemale, GenderMale, GenderGenderless, GenderUnknown}

// ParseGender matches value case-insensitively against the known genders.
func ParseGender(value string) (Gender, bool) {
	return parseEnum(genders, value)
}

// Next returns the following gender in display order, wrapping to GenderAny.
func (g Gender) Next() Gender {
	return nextEnum(genders, g)
}

// Label returns a human label for the gender.
func (g Gender) Label() string {
	if g == GenderAny {
		return "All genders"
	}
	return capitalize(string(g))
}

// SortField names the field results are ordered by.
type SortField string

const (
	SortByID      SortField = "id"
	SortByName    SortField = "name"
	SortBySpecies SortField = "species"
)

var sortFields = []SortField{SortByID, SortByName, SortBySpecies}

// ParseSortField matches value case-insensitively. The empty string is not a
// valid field.
func ParseSortField(value string) (SortField, bool) {
	if strings.TrimSpace(value) == "" {
		return "", false
	}
	return parseEnum(sortFields, value)
}

// Next cycles id → name → species → id.
func (f SortField) Next() SortField {
	return nextEnum(sortFields, f)
}

// SortOrder is ascending or descending.
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// ParseSortOrder matches value case-insensitively.
func ParseSortOrder(value string) (SortOrder, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case string(Asc):
		return Asc, true
	case string(Desc):
		return Desc, true
	}
	return "", false
}

// Toggle flips the order.
func (o SortOrder) Toggle() SortOrder {
	if o == Desc {
		return Asc
	}
	return Desc
}

// Sort pairs a field with an order.
type Sort struct {
	By    SortField
	Order SortOrder
}

// Params is the canonical search state of a list view.
type Params struct {
	Page      int
	Name      string
	Status    Status
	Gender    Gender
	Species   string
	Sort      Sort
	Favorites bool
}

// Defaults returns the parameter set every unspecified field falls back to.
func Defaults() Params {
	return Params{
		Page: 1,
		Sort: Sort{By: SortByID, Order: Asc},
	}
}

// Normalize replaces out-of-range values with their defaults.
func (p Params) Normalize() Params {
	def := Defaults()
	if p.Page < 1 {
		p.Page = def.Page
	}
	if _, ok := ParseStatus(string(p.Status)); !ok {
		p.Status = def.Status
	}
	if _, ok := ParseGender(string(p.Gender)); !ok {
		p.Gender = def.Gender
	}
	if _, ok := ParseSortField(string(p.Sort.By)); !ok {
		p.Sort.By = def.Sort.By
	}
	if _, ok := ParseSortOrder(string(p.Sort.Order)); !ok {
		p.Sort.Order = def.Sort.Order
	}
	return p
}

// HasActiveFilters reports whether any filter, including favorites mode, is set.
func (p Params) HasActiveFilters() bool {
	return p.Name != "" || p.Status != StatusAny || p.Gender != GenderAny || p.Species != "" || p.Favorites
}

func parseEnum[T ~string](values []T, value string) (T, bool) {
	needle := strings.ToLower(strings.TrimSpace(value))
	for _, v := range values {
		if string(v) == needle {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func nextEnum[T comparable](values []T, current T) T {
	for i, v := range values {
		if v == current {
			return values[(i+1)%len(values)]
		}
	}
	return values[0]
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
