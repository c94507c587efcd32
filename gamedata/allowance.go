package gamedata

// Allowance gates candidates by scenario rules before they are offered to
// selection, e.g. artifacts banned on this map.
type Allowance interface {
	Allowed(cat Category, id ID) bool
}

// AllowAll permits everything.
type AllowAll struct{}

func (AllowAll) Allowed(Category, ID) bool { return true }

// BanList forbids the listed ids and allows everything else.
type BanList map[Category]map[ID]bool

func (b BanList) Ban(cat Category, id ID) {
	if b[cat] == nil {
		b[cat] = make(map[ID]bool)
	}
	b[cat][id] = true
}

func (b BanList) Allowed(cat Category, id ID) bool {
	return !b[cat][id]
}
