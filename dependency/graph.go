// Package dependency implements the dependency graph and resolver of
// spec.md §4.1, grounded on the teacher's runtime.resolveDependencies
// (Kahn's algorithm with a re-sorted queue for full determinism) and on
// the semver-gated dependency model of
// other_examples/c9f5fe8c_ivannovak-glide__pkg-plugin-sdk-dependency.go.
package dependency

import "github.com/Masterminds/semver/v3"

// Edge is a declared dependency: "from" requires "to" to satisfy versionRange.
type Edge struct {
	From         string
	To           string
	VersionRange string
	Optional     bool
}

// Node carries the version of a registered plugin, used to gate edges.
type Node struct {
	ID      string
	Version string
}

// Graph is the dependency graph described by spec.md §3: nodes are plugin
// ids, a directed edge a -> b means "a depends on b".
type Graph struct {
	nodes map[string]Node
	edges []Edge
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{nodes: make(map[string]Node)}
}

// AddNode registers a plugin id and its version.
func (g *Graph) AddNode(id, version string) {
	g.nodes[id] = Node{ID: id, Version: version}
}

// AddEdge declares that "from" depends on "to" within versionRange.
func (g *Graph) AddEdge(from, to, versionRange string, optional bool) {
	g.edges = append(g.edges, Edge{From: from, To: to, VersionRange: versionRange, Optional: optional})
}

// HasNode reports whether id is registered.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Node returns the registered node for id, if any.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Satisfies reports whether version satisfies the semver constraint
// expressed by versionRange ("^1.0.0", "~1.2.3", ">=1.0.0 <2.0.0", ...).
// An empty versionRange is treated as "any version".
func Satisfies(versionRange, version string) (bool, error) {
	if versionRange == "" {
		return true, nil
	}
	constraint, err := semver.NewConstraint(versionRange)
	if err != nil {
		return false, err
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return false, err
	}
	return constraint.Check(v), nil
}
