package query

// Patch describes a partial update to Params. Nil fields are left alone.
type Patch struct {
	Page      *int
	Name      *string
	Status    *Status
	Gender    *Gender
	Species   *string
	Sort      *Sort
	Favorites *bool
}

// Apply returns p with patch applied. When any filter field (name, status,
// gender, species or favorites) changes value the page resets to 1; page and
// sort changes on their own keep the other fields.
func Apply(p Params, patch Patch) Params {
	next := p
	if patch.Name != nil {
		next.Name = *patch.Name
	}
	if patch.Status != nil {
		next.Status = *patch.Status
	}
	if patch.Gender != nil {
		next.Gender = *patch.Gender
	}
	if patch.Species != nil {
		next.Species = *patch.Species
	}
	if patch.Favorites != nil {
		next.Favorites = *patch.Favorites
	}
	if patch.Sort != nil {
		next.Sort = *patch.Sort
	}
	if patch.Page != nil {
		next.Page = *patch.Page
	}

	if filtersChanged(p, next) {
		next.Page = 1
	}
	return next.Normalize()
}

func filtersChanged(a, b Params) bool {
	return a.Name != b.Name ||
		a.Status != b.Status ||
		a.Gender != b.Gender ||
		a.Species != b.Species ||
		a.Favorites != b.Favorites
}

// SetPage moves to page n.
func SetPage(n int) Patch { return Patch{Page: &n} }

// SetName filters by name.
func SetName(v string) Patch { return Patch{Name: &v} }

// SetStatus filters by status.
func SetStatus(v Status) Patch { return Patch{Status: &v} }

// SetGender filters by gender.
func SetGender(v Gender) Patch { return Patch{Gender: &v} }

// SetSpecies filters by species.
func SetSpecies(v string) Patch { return Patch{Species: &v} }

// SetSort changes ordering.
func SetSort(v Sort) Patch { return Patch{Sort: &v} }

// SetFavorites toggles favorites-only mode.
func SetFavorites(v bool) Patch { return Patch{Favorites: &v} }

// Clear resets every filter and leaves sort alone.
func Clear() Patch {
	var (
		empty  string
		status = StatusAny
		gender = GenderAny
		off    bool
		page   = 1
	)
	return Patch{
		Page:      &page,
		Name:      &empty,
		Status:    &status,
		Gender:    &gender,
		Species:   &empty,
		Favorites: &off,
	}
}
