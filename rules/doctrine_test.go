package rules

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLerp(t *testing.T) {
	tests := []struct {
		min, max int
		t        float64
		want     int
	}{
		{5, 20, 0.0, 5},
		{5, 20, 1.0, 20},
		{5, 20, 0.5, 13}, // 5 + round(15*0.5) = 5 + 8 = 13
		{5, 20, 0.7, 16}, // 5 + round(15*0.7) = 5 + round(10.5) = 5 + 11 = 16
		{200, 400, 0.0, 200},
		{200, 400, 1.0, 400},
	}
	for _, tc := range tests {
		got := lerp(tc.min, tc.max, tc.t)
		if got != tc.want {
			t.Errorf("lerp(%d, %d, %.1f) = %d, want %d", tc.min, tc.max, tc.t, got, tc.want)
		}
	}
}

func TestLerpf(t *testing.T) {
	got := lerpf(0.0, 1.0, 0.5)
	if got != 0.5 {
		t.Errorf("lerpf(0, 1, 0.5) = %f, want 0.5", got)
	}
	got = lerpf(10.0, 20.0, 0.3)
	if got != 13.0 {
		t.Errorf("lerpf(10, 20, 0.3) = %f, want 13.0", got)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, min, max, want float64
	}{
		{0.5, 0, 1, 0.5},
		{-0.5, 0, 1, 0.0},
		{1.5, 0, 1, 1.0},
		{0.0, 0, 1, 0.0},
		{1.0, 0, 1, 1.0},
	}
	for _, tc := range tests {
		got := clamp(tc.v, tc.min, tc.max)
		if got != tc.want {
			t.Errorf("clamp(%f, %f, %f) = %f, want %f", tc.v, tc.min, tc.max, got, tc.want)
		}
	}
}

func TestDefaultDoctrine(t *testing.T) {
	d := DefaultDoctrine()
	if d.Name != "Balanced" {
		t.Errorf("DefaultDoctrine().Name = %q, want %q", d.Name, "Balanced")
	}
	if d.EconomyPriority != 0.5 {
		t.Errorf("DefaultDoctrine().EconomyPriority = %f, want 0.5", d.EconomyPriority)
	}
	if d.GoldReserve != 500 {
		t.Errorf("DefaultDoctrine().GoldReserve = %d, want 500", d.GoldReserve)
	}
}

func TestValidate(t *testing.T) {
	d := Doctrine{
		DefencePriority: 1.5,
		EconomyPriority: -0.5,
		GoldReserve:     -10,
		UrgencyBoost:    0,
	}
	d.Validate()

	if d.DefencePriority != 1.0 {
		t.Errorf("DefencePriority = %f, want 1.0 (clamped)", d.DefencePriority)
	}
	if d.EconomyPriority != 0.0 {
		t.Errorf("EconomyPriority = %f, want 0.0 (clamped)", d.EconomyPriority)
	}
	if d.GoldReserve != 0 {
		t.Errorf("GoldReserve = %d, want 0 (clamped)", d.GoldReserve)
	}
	if d.UrgencyBoost != 1 {
		t.Errorf("UrgencyBoost = %f, want 1 (clamped from unset)", d.UrgencyBoost)
	}

	d2 := Doctrine{GoldReserve: 1_000_000, UrgencyBoost: 10}
	d2.Validate()
	if d2.GoldReserve != 100000 {
		t.Errorf("GoldReserve = %d, want 100000 (clamped)", d2.GoldReserve)
	}
	if d2.UrgencyBoost != 4 {
		t.Errorf("UrgencyBoost = %f, want 4 (clamped)", d2.UrgencyBoost)
	}
}

func TestLoadDoctrinePreset(t *testing.T) {
	for _, name := range DoctrineNames() {
		if _, err := LoadDoctrine(name); err != nil {
			t.Errorf("LoadDoctrine(%q): %v", name, err)
		}
	}
	d, err := LoadDoctrine("Turtle")
	if err != nil {
		t.Fatalf("LoadDoctrine(Turtle): %v", err)
	}
	if d.GoldReserve != 1500 {
		t.Errorf("turtle GoldReserve = %d, want 1500", d.GoldReserve)
	}
	if _, err := LoadDoctrine("reckless"); err == nil {
		t.Error("LoadDoctrine(reckless) should fail")
	}
}

func TestLoadDoctrineFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "siege.yaml")
	src := "name: Siege\ndefence_priority: 2\ngold_reserve: 800\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	d, err := LoadDoctrine(path)
	if err != nil {
		t.Fatalf("LoadDoctrine: %v", err)
	}
	if d.Name != "Siege" || d.DefencePriority != 1 || d.GoldReserve != 800 {
		t.Errorf("doctrine = %+v", d)
	}
	if d.EconomyPriority != 0.5 {
		t.Errorf("EconomyPriority = %f, want default 0.5", d.EconomyPriority)
	}
}
