package dependency

import (
	"fmt"
	"sort"
	"strings"
)

// ProblemKind classifies a single resolution problem.
type ProblemKind string

const (
	ProblemMissing         ProblemKind = "missing"
	ProblemVersionConflict ProblemKind = "version_conflict"
	ProblemCyclic          ProblemKind = "cyclic"
)

// Problem is one reason resolution failed.
type Problem struct {
	Kind         ProblemKind
	PluginID     string
	DependencyID string
	Required     string
	Found        string
	Cycle        []string
}

func (p Problem) String() string {
	switch p.Kind {
	case ProblemMissing:
		return fmt.Sprintf("plugin %q depends on %q which is not registered", p.PluginID, p.DependencyID)
	case ProblemVersionConflict:
		return fmt.Sprintf("%s (required %s, found %s, required by %s)", p.DependencyID, p.Required, p.Found, p.PluginID)
	case ProblemCyclic:
		return fmt.Sprintf("circular dependency: %s", strings.Join(p.Cycle, " -> "))
	default:
		return "unknown resolution problem"
	}
}

// ResolutionError enumerates every problem found. Resolution is
// all-or-nothing: either Resolve returns a complete order, or it returns
// no order at all and every problem it found (spec.md §4.1 "Failure
// semantics").
type ResolutionError struct {
	Problems []Problem
}

func (e *ResolutionError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, p.String())
	}
	return strings.Join(parts, "; ")
}

// WarningKind classifies a non-fatal resolution note.
type WarningKind string

const (
	WarningOptionalMissing   WarningKind = "optional_missing"
	WarningOptionalMismatch  WarningKind = "optional_version_mismatch"
	WarningCircularTolerated WarningKind = "circular_tolerated"
)

// Warning is surfaced to the caller but does not fail resolution.
type Warning struct {
	Kind         WarningKind
	PluginID     string
	DependencyID string
	Detail       string
}

// Options controls resolver behavior per spec.md §6.
type Options struct {
	// StrictVersioning, when true (the default), fails resolution on any
	// unsatisfied version range. When false, an optional dependency's
	// mismatch degrades to a Warning instead of a Problem.
	StrictVersioning bool
	// CircularDependencies, when true, breaks cycles deterministically
	// (lowest id) and reports them as warnings instead of failing.
	CircularDependencies bool
}

// Resolve computes a topological order over g using Kahn's algorithm with
// a re-sorted ready queue, so ties are lexicographic at every step (spec.md
// §4.1, §8 "ties are lexicographic").
func Resolve(g *Graph, opts Options) (order []string, warnings []Warning, resErr *ResolutionError) {
	adj := make(map[string][]string)       // from -> [to, ...]   (a depends on b: a -> b)
	dependents := make(map[string][]string) // to -> [from, ...]  (who depends on "to")
	indegree := make(map[string]int, len(g.nodes))

	for id := range g.nodes {
		indegree[id] = 0
	}

	var problems []Problem

	for _, e := range g.edges {
		toNode, exists := g.nodes[e.To]
		if !exists {
			if e.Optional {
				warnings = append(warnings, Warning{
					Kind:         WarningOptionalMissing,
					PluginID:     e.From,
					DependencyID: e.To,
					Detail:       fmt.Sprintf("optional dependency %q is not registered", e.To),
				})
				continue
			}
			problems = append(problems, Problem{Kind: ProblemMissing, PluginID: e.From, DependencyID: e.To})
			continue
		}

		ok, verErr := Satisfies(e.VersionRange, toNode.Version)
		if verErr != nil || !ok {
			// StrictVersioning only relaxes optional-dependency mismatches
			// (spec.md §4.1); a required dependency mismatch always fails.
			if e.Optional && !opts.StrictVersioning {
				warnings = append(warnings, Warning{
					Kind:         WarningOptionalMismatch,
					PluginID:     e.From,
					DependencyID: e.To,
					Detail:       fmt.Sprintf("optional dependency %q version %q does not satisfy %q", e.To, toNode.Version, e.VersionRange),
				})
				continue
			}
			problems = append(problems, Problem{
				Kind: ProblemVersionConflict, PluginID: e.From, DependencyID: e.To,
				Required: e.VersionRange, Found: toNode.Version,
			})
			continue
		}

		adj[e.From] = append(adj[e.From], e.To)
		dependents[e.To] = append(dependents[e.To], e.From)
		indegree[e.From]++
	}

	if len(problems) > 0 {
		return nil, warnings, &ResolutionError{Problems: problems}
	}

	remaining := make(map[string]bool, len(g.nodes))
	for id := range g.nodes {
		remaining[id] = true
	}

	var queue []string
	for id, deg := range indegree {
		if deg == 0 {
			queue = append(queue, id)
		}
	}
	sort.Strings(queue)

	for len(queue) > 0 || len(remaining) > 0 {
		if len(queue) == 0 {
			// Stuck: either a genuine cycle, or a circularDependencies
			// break is requested.
			if !opts.CircularDependencies {
				cyc := findCycle(remaining, adj)
				return nil, warnings, &ResolutionError{Problems: []Problem{{Kind: ProblemCyclic, Cycle: cyc}}}
			}

			pick := lowestRemaining(remaining)
			cyc := findCycle(remaining, adj)
			warnings = append(warnings, Warning{
				Kind:     WarningCircularTolerated,
				PluginID: pick,
				Detail:   fmt.Sprintf("circular dependency broken at %q: %s", pick, strings.Join(cyc, " -> ")),
			})
			queue = append(queue, pick)
		}

		sort.Strings(queue)
		current := queue[0]
		queue = queue[1:]
		if !remaining[current] {
			continue
		}
		delete(remaining, current)
		order = append(order, current)

		for _, dep := range dependents[current] {
			if !remaining[dep] {
				continue
			}
			indegree[dep]--
			if indegree[dep] <= 0 {
				queue = append(queue, dep)
			}
		}
		sort.Strings(queue)
	}

	return order, warnings, nil
}

func lowestRemaining(remaining map[string]bool) string {
	ids := make([]string, 0, len(remaining))
	for id := range remaining {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids[0]
}

// findCycle reconstructs a cycle reachable from some remaining node via DFS,
// per spec.md §4.1 "reconstructed by DFS from any remaining node".
func findCycle(remaining map[string]bool, adj map[string][]string) []string {
	ids := make([]string, 0, len(remaining))
	for id := range remaining {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	const white, gray, black = 0, 1, 2
	color := make(map[string]int, len(remaining))
	var stack []string
	var cycle []string

	var visit func(node string) bool
	visit = func(node string) bool {
		color[node] = gray
		stack = append(stack, node)
		for _, next := range adj[node] {
			if !remaining[next] {
				continue
			}
			if color[next] == gray {
				idx := 0
				for i, s := range stack {
					if s == next {
						idx = i
						break
					}
				}
				cycle = append(append([]string{}, stack[idx:]...), next)
				return true
			}
			if color[next] == white {
				if visit(next) {
					return true
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[node] = black
		return false
	}

	for _, id := range ids {
		if color[id] == white {
			if visit(id) {
				return cycle
			}
		}
	}
	return ids
}
