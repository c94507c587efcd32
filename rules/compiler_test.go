package rules

import (
	"strings"
	"testing"

	"github.com/expr-lang/expr"
)

func TestCompileDoctrineRulesCompile(t *testing.T) {
	for _, name := range DoctrineNames() {
		d, err := LoadDoctrine(name)
		if err != nil {
			t.Fatal(err)
		}
		for _, r := range CompileDoctrine(d) {
			if _, err := expr.Compile(r.ConditionSrc, expr.Env(GoalEnv{}), expr.AsBool()); err != nil {
				t.Errorf("%s: rule %q failed to compile: %v\ncondition: %s", name, r.Name, err, r.ConditionSrc)
			}
		}
	}
}

func TestCompileDoctrineCoreRules(t *testing.T) {
	names := map[string]bool{
		"unaffordable":   false,
		"gold-reserve":   false,
		"urgent-defence": false,
		"defence-weight": false,
		"economy-weight": false,
		"last-town":      false,
	}
	for _, r := range CompileDoctrine(DefaultDoctrine()) {
		if _, ok := names[r.Name]; ok {
			names[r.Name] = true
		}
	}
	for name, found := range names {
		if !found {
			t.Errorf("rule %q missing", name)
		}
	}
}

func TestCompileDoctrineInterpolatesReserve(t *testing.T) {
	d := DefaultDoctrine()
	d.GoldReserve = 1234
	for _, r := range CompileDoctrine(d) {
		if r.Name == "gold-reserve" && !strings.Contains(r.ConditionSrc, "1234") {
			t.Errorf("gold-reserve condition %q lacks reserve", r.ConditionSrc)
		}
	}
}
