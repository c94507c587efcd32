package goals

import (
	"fmt"
	"strings"
)

// Policy decides what a composite goal decomposes into.
type Policy int

const (
	// AllOf pursues every child.
	AllOf Policy = iota
	// BestOf pursues only the highest ranked child.
	BestOf
)

func (p Policy) String() string {
	if p == BestOf {
		return "best-of"
	}
	return "all-of"
}

// Composite groups children under an aggregation policy.
func Composite(policy Policy, children ...Goal) Goal {
	g := Goal{Kind: KindComposite, Policy: policy, Children: append(Vec(nil), children...)}
	for _, c := range children {
		if c.Priority > g.Priority {
			g.Priority = c.Priority
		}
	}
	return g
}

func decomposeComposite(_ *GameContext, g Goal) Vec {
	children := append(Vec(nil), g.Children...)
	if g.Policy != BestOf || len(children) == 0 {
		return children
	}
	for i := range children {
		children[i].seq = i
	}
	Rank(children)
	return children[:1]
}

func describeComposite(g Goal) string {
	parts := make([]string, len(g.Children))
	for i, c := range g.Children {
		parts[i] = c.String()
	}
	return fmt.Sprintf("%s[%s]", g.Policy, strings.Join(parts, ", "))
}

func equalComposite(a, b Goal) bool {
	if a.Policy != b.Policy || len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !a.Children[i].Equal(b.Children[i]) {
			return false
		}
	}
	return true
}
