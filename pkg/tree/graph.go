// Copyright 2025 Interlynk.io
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tree

// graph collects SBOM element edges before they are turned into trees.
type graph struct {
	order    []string
	known    map[string]bool
	edges    map[string][]string
	incoming map[string]int
	roots    []string
	hasEdges bool
}

func newGraph() *graph {
	return &graph{
		known:    map[string]bool{},
		edges:    map[string][]string{},
		incoming: map[string]int{},
	}
}

func (g *graph) addNode(id string) {
	if g.known[id] {
		return
	}
	g.known[id] = true
	g.order = append(g.order, id)
}

func (g *graph) addEdge(from, to string) {
	if from == to || containsString(g.edges[from], to) {
		return
	}
	g.edges[from] = append(g.edges[from], to)
	g.incoming[to]++
	g.hasEdges = true
}

func (g *graph) addRoot(id string) {
	if !containsString(g.roots, id) {
		g.roots = append(g.roots, id)
	}
}

// rootsOrTopLevel returns the declared roots, or else every known element
// without incoming edges.
func (g *graph) rootsOrTopLevel() []string {
	if len(g.roots) > 0 {
		return g.roots
	}

	var top []string
	for _, id := range g.order {
		if g.incoming[id] == 0 {
			top = append(top, id)
		}
	}
	if len(top) == 0 && len(g.order) > 0 {
		top = []string{g.order[0]}
	}
	return top
}

// build turns root into a project node. Without any edges all other known
// elements become direct children. Cycles are cut at the repeated element.
func (g *graph) build(root string, packages map[string]*Package) *Node {
	node := NewProjectNode(packages[root])

	if !g.hasEdges {
		for _, id := range g.order {
			pkg, ok := packages[id]
			if id == root || !ok || pkg.IsProject {
				continue
			}
			node.Children = append(node.Children, NewPackageNode(pkg))
		}
		return node
	}

	node.Children = g.children(root, packages, map[string]bool{root: true})
	return node
}

func (g *graph) children(id string, packages map[string]*Package, path map[string]bool) []*Node {
	var nodes []*Node
	for _, childID := range g.edges[id] {
		pkg, ok := packages[childID]
		if !ok || path[childID] {
			continue
		}

		path[childID] = true
		child := &Node{Kind: NodePackage, Package: pkg}
		if pkg.IsProject {
			child.Kind = NodeProject
		}
		child.Children = g.children(childID, packages, path)
		delete(path, childID)

		nodes = append(nodes, child)
	}
	return nodes
}
