package rules

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Doctrine represents a high-level strategic posture.
// Weights are 0.0–1.0; the compiler maps them to concrete rule parameters.
type Doctrine struct {
	Name            string  `json:"name" yaml:"name"`
	Rationale       string  `json:"rationale" yaml:"rationale"`
	DefencePriority float64 `json:"defence_priority" yaml:"defence_priority"`
	EconomyPriority float64 `json:"economy_priority" yaml:"economy_priority"`
	GoldReserve     int     `json:"gold_reserve" yaml:"gold_reserve"`
	UrgencyBoost    float64 `json:"urgency_boost" yaml:"urgency_boost"`
}

// DefaultDoctrine returns a balanced baseline doctrine.
func DefaultDoctrine() Doctrine {
	return Doctrine{
		Name:            "Balanced",
		Rationale:       "Default balanced strategy",
		DefencePriority: 0.5,
		EconomyPriority: 0.5,
		GoldReserve:     500,
		UrgencyBoost:    2,
	}
}

var presets = map[string]Doctrine{
	"balanced": DefaultDoctrine(),
	"turtle": {
		Name:            "Turtle",
		Rationale:       "Hold every town, spend little",
		DefencePriority: 0.9,
		EconomyPriority: 0.2,
		GoldReserve:     1500,
		UrgencyBoost:    3,
	},
	"greedy": {
		Name:            "Greedy",
		Rationale:       "Grow the army, accept risk",
		DefencePriority: 0.3,
		EconomyPriority: 0.9,
		GoldReserve:     0,
		UrgencyBoost:    1.5,
	},
}

// DoctrineNames lists the built-in presets.
func DoctrineNames() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// LoadDoctrine resolves name to a preset, or reads a YAML file when name
// ends in .yaml/.yml. The result is validated.
func LoadDoctrine(name string) (Doctrine, error) {
	if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
		data, err := os.ReadFile(name)
		if err != nil {
			return Doctrine{}, fmt.Errorf("read doctrine: %w", err)
		}
		d := DefaultDoctrine()
		if err := yaml.Unmarshal(data, &d); err != nil {
			return Doctrine{}, fmt.Errorf("parse doctrine %s: %w", name, err)
		}
		d.Validate()
		return d, nil
	}
	d, ok := presets[strings.ToLower(name)]
	if !ok {
		return Doctrine{}, fmt.Errorf("unknown doctrine %q (have %s)", name, strings.Join(DoctrineNames(), ", "))
	}
	d.Validate()
	return d, nil
}

// Validate clamps all weights to their valid ranges.
func (d *Doctrine) Validate() {
	d.DefencePriority = clamp(d.DefencePriority, 0, 1)
	d.EconomyPriority = clamp(d.EconomyPriority, 0, 1)
	d.UrgencyBoost = clamp(d.UrgencyBoost, 1, 4)
	d.GoldReserve = clampInt(d.GoldReserve, 0, 100000)
}

// clampInt restricts v to [min, max].
func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// lerp linearly interpolates between min and max by t (0–1), returning an int.
func lerp(min, max int, t float64) int {
	return min + int(math.Round(float64(max-min)*t))
}

// lerpf linearly interpolates between min and max by t (0–1), returning a float64.
func lerpf(min, max, t float64) float64 {
	return min + (max-min)*t
}

// clamp restricts v to [min, max].
func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
