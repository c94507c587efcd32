package content

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/nstehr/vimy/vimy-planner/gamedata"
	"github.com/nstehr/vimy/vimy-planner/model"
	"github.com/nstehr/vimy/vimy-planner/random"
	"github.com/tidwall/gjson"
)

// PrimarySkills lists primary skill names in index order.
var PrimarySkills = []string{"attack", "defence", "spellpower", "knowledge"}

// PlayerColors lists player colour names in index order.
var PlayerColors = []string{"red", "blue", "tan", "green", "orange", "purple", "teal", "pink"}

// Resolver resolves specs against a set of game tables. It never mutates
// the tables or any game state.
type Resolver struct {
	data    *gamedata.Registry
	allowed gamedata.Allowance
	scope   string
}

// NewResolver returns a resolver over data. A nil allowance permits
// everything.
func NewResolver(data *gamedata.Registry, allowed gamedata.Allowance) *Resolver {
	if allowed == nil {
		allowed = gamedata.AllowAll{}
	}
	return &Resolver{data: data, allowed: allowed, scope: data.Scope()}
}

// CreatureStack is a resolved creature slot.
type CreatureStack struct {
	Creature gamedata.ID
	Count    int
}

// RandomStackInfo describes the possible outcomes of a creature spec without
// rolling it.
type RandomStackInfo struct {
	AllowedCreatures []gamedata.ID
	MinAmount        int
	MaxAmount        int
}

// Bonus is a parsed bonus entry.
type Bonus struct {
	Type     string
	Subtype  string
	Value    int
	Duration string
	Source   string
}

// Resources resolves either a list of single-resource entries or an object
// keyed by resource name.
func (r *Resolver) Resources(spec gjson.Result, rng *random.Generator) (model.Resources, error) {
	out := model.Resources{}
	if spec.IsArray() {
		for _, entry := range spec.Array() {
			res, err := r.Resource(entry, rng)
			if err != nil {
				return nil, err
			}
			out = out.Add(res)
		}
		return out, nil
	}
	for _, name := range r.data.ResourceNames() {
		if v := Amount(spec.Get(name), rng, 0); v != 0 {
			out[name] = v
		}
	}
	return out, nil
}

// Resource resolves one resource entry. Without an explicit type the
// resource is drawn from every resource except the last (rare) one.
func (r *Resolver) Resource(spec gjson.Result, rng *random.Generator) (model.Resources, error) {
	names := r.data.ResourceNames()
	universe := names
	if len(universe) > 0 {
		universe = universe[:len(universe)-1]
	}
	name := Key(spec, rng, universe)
	amount := Amount(spec, rng, 0)
	id, err := r.data.Identifier(r.scope, gamedata.CategoryResource, name)
	if err != nil {
		return nil, err
	}
	return model.Resources{names[id]: amount}, nil
}

// PrimarySkills resolves either an object keyed by skill name or a list of
// entries, each picking a distinct skill.
func (r *Resolver) PrimarySkills(spec gjson.Result, rng *random.Generator) []int {
	out := make([]int, len(PrimarySkills))
	switch {
	case spec.IsObject():
		for i, name := range PrimarySkills {
			out[i] = Amount(spec.Get(name), rng, 0)
		}
	case spec.IsArray():
		available := append([]string(nil), PrimarySkills...)
		for _, entry := range spec.Array() {
			key := Key(entry, rng, available)
			available = remove(available, key)
			if i := indexOf(PrimarySkills, key); i >= 0 {
				out[i] += Amount(entry, rng, 0)
			}
		}
	}
	return out
}

// SecondarySkills resolves an object of skill name to level, or a list of
// entries each drawing a distinct allowed skill.
func (r *Resolver) SecondarySkills(spec gjson.Result, rng *random.Generator) (map[gamedata.ID]int, error) {
	out := make(map[gamedata.ID]int)
	if spec.IsObject() {
		var err error
		spec.ForEach(func(key, value gjson.Result) bool {
			var id gamedata.ID
			id, err = r.data.Identifier(r.scope, gamedata.CategorySkill, key.String())
			if err != nil {
				return false
			}
			out[id] = Amount(value, rng, 0)
			return true
		})
		if err != nil {
			return nil, err
		}
		return out, nil
	}

	if spec.IsArray() {
		var universe []string
		for i, name := range r.data.Skills() {
			id := gamedata.ID(i)
			if !r.allowed.Allowed(gamedata.CategorySkill, id) {
				continue
			}
			if r.scope == gamedata.BuiltinScope {
				universe = append(universe, name)
			} else {
				universe = append(universe, r.data.SkillKey(id))
			}
		}
		for _, entry := range spec.Array() {
			key := Key(entry, rng, universe)
			universe = remove(universe, key)
			id, err := r.data.Identifier(r.scope, gamedata.CategorySkill, key)
			if err != nil {
				slog.Warn("skipping unknown secondary skill", "skill", key)
				continue
			}
			out[id] = Amount(entry, rng, 0)
		}
	}
	return out, nil
}

// Artifact resolves a literal artifact name or a filter over class, slot,
// price range and the allowance predicate. An empty candidate set yields
// gamedata.None.
func (r *Resolver) Artifact(spec gjson.Result, rng *random.Generator) (gamedata.ID, error) {
	if spec.Type == gjson.String {
		return r.data.Identifier(r.scope, gamedata.CategoryArtifact, spec.String())
	}

	classes := stringSet(spec.Get("class"))
	slots := stringSet(spec.Get("slot"))
	minValue, maxValue := 0, math.MaxInt
	if v := spec.Get("minValue"); !isNull(v) {
		minValue = int(v.Int())
	}
	if v := spec.Get("maxValue"); !isNull(v) {
		maxValue = int(v.Int())
	}

	var candidates []gamedata.ID
	for _, a := range r.data.Artifacts() {
		if a.Price < minValue || a.Price > maxValue {
			continue
		}
		if len(classes) > 0 && !classes[a.Class] {
			continue
		}
		if !r.allowed.Allowed(gamedata.CategoryArtifact, a.ID) {
			continue
		}
		if len(slots) > 0 && !a.FitsAny(slots) {
			continue
		}
		candidates = append(candidates, a.ID)
	}

	id, ok := random.Pick(rng, candidates)
	if !ok {
		slog.Warn("no artifact matches spec", "spec", spec.Raw)
		return gamedata.None, nil
	}
	return id, nil
}

func (r *Resolver) Artifacts(spec gjson.Result, rng *random.Generator) ([]gamedata.ID, error) {
	var out []gamedata.ID
	for _, entry := range spec.Array() {
		id, err := r.Artifact(entry, rng)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

// Spell resolves a literal spell name or filters pool by "level" and
// "school". An empty result yields gamedata.None plus a warning.
func (r *Resolver) Spell(spec gjson.Result, rng *random.Generator, pool []gamedata.ID) (gamedata.ID, error) {
	if spec.Type == gjson.String {
		return r.data.Identifier(r.scope, gamedata.CategorySpell, spec.String())
	}

	spells := append([]gamedata.ID(nil), pool...)
	if v := spec.Get("level"); !isNull(v) {
		level := int(v.Int())
		spells = filterSpells(r.data, spells, func(s gamedata.Spell) bool { return s.Level == level })
	}
	if v := spec.Get("school"); !isNull(v) {
		school := v.String()
		if _, err := r.data.Identifier(r.scope, gamedata.CategorySpellSchool, school); err != nil {
			return gamedata.None, err
		}
		spells = filterSpells(r.data, spells, func(s gamedata.Spell) bool { return s.HasSchool(school) })
	}

	id, ok := random.Pick(rng, spells)
	if !ok {
		slog.Warn("failed to select suitable random spell", "spec", spec.Raw)
		return gamedata.None, nil
	}
	return id, nil
}

func (r *Resolver) Spells(spec gjson.Result, rng *random.Generator, pool []gamedata.ID) ([]gamedata.ID, error) {
	var out []gamedata.ID
	for _, entry := range spec.Array() {
		id, err := r.Spell(entry, rng, pool)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func filterSpells(data *gamedata.Registry, ids []gamedata.ID, keep func(gamedata.Spell) bool) []gamedata.ID {
	out := ids[:0]
	for _, id := range ids {
		if s, ok := data.Spell(id); ok && keep(s) {
			out = append(out, id)
		}
	}
	return out
}

// Creature resolves a stack spec: "type" names the creature, the amount
// fields give the count, and "upgradeChance" (0-100) may swap the creature
// for one of its upgrades.
func (r *Resolver) Creature(spec gjson.Result, rng *random.Generator) (CreatureStack, error) {
	t := spec.Get("type")
	if t.Type != gjson.String {
		return CreatureStack{}, fmt.Errorf("creature spec without type: %w", ErrMalformedSpec)
	}
	id, err := r.data.Identifier(r.scope, gamedata.CategoryCreature, t.String())
	if err != nil {
		return CreatureStack{}, err
	}
	stack := CreatureStack{Creature: id, Count: Amount(spec, rng, 0)}

	c, _ := r.data.Creature(id)
	if chance := spec.Get("upgradeChance"); !isNull(chance) && len(c.UpgradeIDs) > 0 {
		if int(chance.Float()) > rng.NextInt(99) {
			stack.Creature, _ = random.Pick(rng, c.UpgradeIDs)
		}
	}
	return stack, nil
}

func (r *Resolver) Creatures(spec gjson.Result, rng *random.Generator) ([]CreatureStack, error) {
	var out []CreatureStack
	for _, entry := range spec.Array() {
		s, err := r.Creature(entry, rng)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// EvaluateCreatures describes each creature spec without rolling: its
// amount bounds and every creature it may turn into.
func (r *Resolver) EvaluateCreatures(spec gjson.Result) ([]RandomStackInfo, error) {
	var out []RandomStackInfo
	for _, node := range spec.Array() {
		var info RandomStackInfo
		if a := node.Get("amount"); !isNull(a) {
			info.MinAmount = int(a.Float())
			info.MaxAmount = info.MinAmount
		} else {
			info.MinAmount = int(node.Get("min").Float())
			info.MaxAmount = int(node.Get("max").Float())
		}
		id, err := r.data.Identifier(r.scope, gamedata.CategoryCreature, node.Get("type").String())
		if err != nil {
			return nil, err
		}
		info.AllowedCreatures = append(info.AllowedCreatures, id)
		if node.Get("upgradeChance").Float() > 0 {
			c, _ := r.data.Creature(id)
			info.AllowedCreatures = append(info.AllowedCreatures, c.UpgradeIDs...)
		}
		out = append(out, info)
	}
	return out, nil
}

// Colors resolves a list of colour keys to player indices. Unknown colours
// are logged and skipped.
func (r *Resolver) Colors(spec gjson.Result, rng *random.Generator) []int {
	var out []int
	for _, entry := range spec.Array() {
		key := Key(entry, rng, PlayerColors)
		i := indexOf(PlayerColors, key)
		if i < 0 {
			slog.Warn("unable to determine player color", "color", key)
			continue
		}
		out = append(out, i)
	}
	return out
}

func (r *Resolver) Heroes(spec gjson.Result) ([]gamedata.ID, error) {
	return r.names(spec, gamedata.CategoryHero)
}

func (r *Resolver) HeroClasses(spec gjson.Result) ([]gamedata.ID, error) {
	return r.names(spec, gamedata.CategoryHeroClass)
}

func (r *Resolver) names(spec gjson.Result, cat gamedata.Category) ([]gamedata.ID, error) {
	var out []gamedata.ID
	for _, entry := range spec.Array() {
		if entry.Type != gjson.String {
			return nil, fmt.Errorf("%s entry %s: %w", cat, entry.Raw, ErrMalformedSpec)
		}
		id, err := r.data.Identifier(r.scope, cat, entry.String())
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

// Bonuses parses a list of bonus objects. Entries without a type are logged
// and dropped.
func (r *Resolver) Bonuses(spec gjson.Result) []Bonus {
	var out []Bonus
	for _, entry := range spec.Array() {
		t := entry.Get("type")
		if !entry.IsObject() || t.String() == "" {
			slog.Warn("skipping invalid bonus", "bonus", entry.Raw)
			continue
		}
		out = append(out, Bonus{
			Type:     t.String(),
			Subtype:  entry.Get("subtype").String(),
			Value:    int(entry.Get("val").Int()),
			Duration: entry.Get("duration").String(),
			Source:   entry.Get("source").String(),
		})
	}
	return out
}

func indexOf(values []string, v string) int {
	for i, x := range values {
		if x == v {
			return i
		}
	}
	return -1
}
