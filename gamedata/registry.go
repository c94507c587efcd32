// Package gamedata holds the static game tables (creatures, artifacts,
// spells, skills, heroes) and resolves configuration names to numeric ids.
package gamedata

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ID is a numeric identifier within one Category. Ids are assigned in
// declaration order, starting at 0.
type ID int32

// None is the sentinel returned when a selection had nothing to choose from.
const None ID = -1

type Category string

const (
	CategoryResource    Category = "resource"
	CategoryCreature    Category = "creature"
	CategoryArtifact    Category = "artifact"
	CategorySpell       Category = "spell"
	CategorySpellSchool Category = "spellSchool"
	CategorySkill       Category = "skill"
	CategoryHero        Category = "hero"
	CategoryHeroClass   Category = "heroClass"
)

// BuiltinScope is the scope of the base tables; names without an explicit
// scope fall back to it.
const BuiltinScope = "core"

// ErrUnknownIdentifier means a name could not be found in the tables. It
// always points at a configuration defect.
var ErrUnknownIdentifier = errors.New("unknown identifier")

// Artifact classes.
const (
	ClassTreasure = "TREASURE"
	ClassMinor    = "MINOR"
	ClassMajor    = "MAJOR"
	ClassRelic    = "RELIC"
	ClassSpecial  = "SPECIAL"
)

//go:embed default.yaml
var defaultTables []byte

type Creature struct {
	ID       ID       `yaml:"-"`
	Name     string   `yaml:"name"`
	Level    int      `yaml:"level"`
	Power    int      `yaml:"power"`
	Cost     int      `yaml:"cost"`
	Upgrades []string `yaml:"upgrades"`

	UpgradeIDs []ID `yaml:"-"`
}

type Artifact struct {
	ID    ID       `yaml:"-"`
	Name  string   `yaml:"name"`
	Class string   `yaml:"class"`
	Slots []string `yaml:"slots"`
	Price int      `yaml:"price"`
}

// FitsAny reports whether the artifact can be worn in one of slots.
func (a Artifact) FitsAny(slots map[string]bool) bool {
	for _, s := range a.Slots {
		if slots[s] {
			return true
		}
	}
	return false
}

type Spell struct {
	ID      ID       `yaml:"-"`
	Name    string   `yaml:"name"`
	Level   int      `yaml:"level"`
	Schools []string `yaml:"schools"`
}

func (s Spell) HasSchool(school string) bool {
	for _, sc := range s.Schools {
		if sc == school {
			return true
		}
	}
	return false
}

type Hero struct {
	ID    ID     `yaml:"-"`
	Name  string `yaml:"name"`
	Class string `yaml:"class"`
}

// Tables is the on-disk shape of a game-data file.
type Tables struct {
	Scope        string     `yaml:"scope"`
	Resources    []string   `yaml:"resources"`
	SpellSchools []string   `yaml:"spellSchools"`
	Skills       []string   `yaml:"skills"`
	HeroClasses  []string   `yaml:"heroClasses"`
	Heroes       []Hero     `yaml:"heroes"`
	Creatures    []Creature `yaml:"creatures"`
	Artifacts    []Artifact `yaml:"artifacts"`
	Spells       []Spell    `yaml:"spells"`
}

// Registry is the immutable, indexed form of Tables.
type Registry struct {
	scope       string
	resources   []string
	schools     []string
	skills      []string
	heroClasses []string
	heroes      []Hero
	creatures   []Creature
	artifacts   []Artifact
	spells      []Spell
	ids         map[Category]map[string]ID
}

// Default returns the registry built from the embedded base tables.
func Default() *Registry {
	r, err := Parse(defaultTables)
	if err != nil {
		panic(fmt.Sprintf("gamedata: embedded tables invalid: %v", err))
	}
	return r
}

// Load reads a YAML tables file.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read game data: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Registry, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("unmarshal game data: %w", err)
	}
	return New(t)
}

// New indexes t. Creature upgrades must name creatures of the same tables.
func New(t Tables) (*Registry, error) {
	scope := t.Scope
	if scope == "" {
		scope = BuiltinScope
	}
	r := &Registry{
		scope:       scope,
		resources:   t.Resources,
		schools:     t.SpellSchools,
		skills:      t.Skills,
		heroClasses: t.HeroClasses,
		ids:         make(map[Category]map[string]ID),
	}

	names := func(cat Category, list []string) error {
		for i, n := range list {
			if err := r.add(cat, n, ID(i)); err != nil {
				return err
			}
		}
		return nil
	}
	if err := names(CategoryResource, t.Resources); err != nil {
		return nil, err
	}
	if err := names(CategorySpellSchool, t.SpellSchools); err != nil {
		return nil, err
	}
	if err := names(CategorySkill, t.Skills); err != nil {
		return nil, err
	}
	if err := names(CategoryHeroClass, t.HeroClasses); err != nil {
		return nil, err
	}

	for i, h := range t.Heroes {
		h.ID = ID(i)
		if err := r.add(CategoryHero, h.Name, h.ID); err != nil {
			return nil, err
		}
		r.heroes = append(r.heroes, h)
	}
	for i, c := range t.Creatures {
		c.ID = ID(i)
		if err := r.add(CategoryCreature, c.Name, c.ID); err != nil {
			return nil, err
		}
		r.creatures = append(r.creatures, c)
	}
	for i, a := range t.Artifacts {
		a.ID = ID(i)
		if err := r.add(CategoryArtifact, a.Name, a.ID); err != nil {
			return nil, err
		}
		r.artifacts = append(r.artifacts, a)
	}
	for i, s := range t.Spells {
		s.ID = ID(i)
		if err := r.add(CategorySpell, s.Name, s.ID); err != nil {
			return nil, err
		}
		r.spells = append(r.spells, s)
	}

	for i := range r.creatures {
		c := &r.creatures[i]
		for _, up := range c.Upgrades {
			id, err := r.Identifier("", CategoryCreature, up)
			if err != nil {
				return nil, fmt.Errorf("creature %q upgrade: %w", c.Name, err)
			}
			c.UpgradeIDs = append(c.UpgradeIDs, id)
		}
	}
	for _, h := range r.heroes {
		if h.Class == "" {
			continue
		}
		if _, err := r.Identifier("", CategoryHeroClass, h.Class); err != nil {
			return nil, fmt.Errorf("hero %q class: %w", h.Name, err)
		}
	}
	return r, nil
}

func (r *Registry) add(cat Category, name string, id ID) error {
	if name == "" {
		return fmt.Errorf("%s #%d: empty name", cat, id)
	}
	m := r.ids[cat]
	if m == nil {
		m = make(map[string]ID)
		r.ids[cat] = m
	}
	key := r.scope + ":" + name
	if _, dup := m[key]; dup {
		return fmt.Errorf("%s %q declared twice", cat, key)
	}
	m[key] = id
	return nil
}

// Identifier resolves name within cat. A name may carry an explicit
// "scope:" prefix; otherwise scope is tried first, then the builtin scope.
func (r *Registry) Identifier(scope string, cat Category, name string) (ID, error) {
	m := r.ids[cat]
	if s, n, ok := strings.Cut(name, ":"); ok {
		if id, found := m[s+":"+n]; found {
			return id, nil
		}
		return None, fmt.Errorf("%s %q: %w", cat, name, ErrUnknownIdentifier)
	}
	if scope != "" {
		if id, found := m[scope+":"+name]; found {
			return id, nil
		}
	}
	if id, found := m[r.scope+":"+name]; found {
		return id, nil
	}
	if id, found := m[BuiltinScope+":"+name]; found {
		return id, nil
	}
	return None, fmt.Errorf("%s %q: %w", cat, name, ErrUnknownIdentifier)
}

// Scope is the scope the tables were declared in.
func (r *Registry) Scope() string { return r.scope }

func (r *Registry) ResourceNames() []string { return append([]string(nil), r.resources...) }
func (r *Registry) SpellSchools() []string  { return append([]string(nil), r.schools...) }
func (r *Registry) HeroClasses() []string   { return append([]string(nil), r.heroClasses...) }

// Skills returns skill names indexed by id.
func (r *Registry) Skills() []string { return append([]string(nil), r.skills...) }

// SkillKey returns the scoped key of a skill, e.g. "core:archery".
func (r *Registry) SkillKey(id ID) string {
	if id < 0 || int(id) >= len(r.skills) {
		return ""
	}
	return r.scope + ":" + r.skills[id]
}

func (r *Registry) Creature(id ID) (Creature, bool) {
	if id < 0 || int(id) >= len(r.creatures) {
		return Creature{}, false
	}
	return r.creatures[id], true
}

func (r *Registry) Artifact(id ID) (Artifact, bool) {
	if id < 0 || int(id) >= len(r.artifacts) {
		return Artifact{}, false
	}
	return r.artifacts[id], true
}

func (r *Registry) Spell(id ID) (Spell, bool) {
	if id < 0 || int(id) >= len(r.spells) {
		return Spell{}, false
	}
	return r.spells[id], true
}

func (r *Registry) Hero(id ID) (Hero, bool) {
	if id < 0 || int(id) >= len(r.heroes) {
		return Hero{}, false
	}
	return r.heroes[id], true
}

func (r *Registry) Creatures() []Creature { return append([]Creature(nil), r.creatures...) }
func (r *Registry) Artifacts() []Artifact { return append([]Artifact(nil), r.artifacts...) }

// SpellIDs returns every spell id in ascending order.
func (r *Registry) SpellIDs() []ID {
	out := make([]ID, len(r.spells))
	for i := range r.spells {
		out[i] = ID(i)
	}
	return out
}

// Names returns the unscoped names known in cat, sorted.
func (r *Registry) Names(cat Category) []string {
	var out []string
	for key := range r.ids[cat] {
		_, n, _ := strings.Cut(key, ":")
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
