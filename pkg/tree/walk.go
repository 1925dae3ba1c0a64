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

// Deduplicate returns copies of trees in which every package that was
// already seen in a depth-first walk keeps its node but loses its children.
func Deduplicate(trees []*Node) []*Node {
	seen := map[string]bool{}
	out := make([]*Node, 0, len(trees))
	for _, t := range trees {
		out = append(out, dedupe(t, seen))
	}
	return out
}

func dedupe(n *Node, seen map[string]bool) *Node {
	if n == nil {
		return nil
	}
	copied := &Node{Kind: n.Kind, Package: n.Package, Scope: n.Scope}

	if n.Package != nil && (n.Kind == NodePackage || n.Kind == NodeProject) {
		key := n.Package.ID.String()
		if seen[key] {
			return copied
		}
		seen[key] = true
	}

	for _, child := range n.Children {
		copied.Children = append(copied.Children, dedupe(child, seen))
	}
	return copied
}

// ProjectPackages returns the distinct packages below a project node in
// first seen order. Nested projects and their subtrees are excluded.
func ProjectPackages(project *Node) []*Package {
	var packages []*Package
	seen := map[string]bool{}

	var walk func(n *Node)
	walk = func(n *Node) {
		for _, child := range n.Children {
			switch Classify(child) {
			case NodeProject:
				continue
			case NodePackage:
				key := child.Package.ID.String()
				if !seen[key] {
					seen[key] = true
					packages = append(packages, child.Package)
				}
			}
			walk(child)
		}
	}
	if project != nil {
		walk(project)
	}
	return packages
}

// Projects returns every project node of the trees, including nested
// ones, once per project identifier.
func Projects(trees []*Node) []*Node {
	var projects []*Node
	seen := map[string]bool{}

	var walk func(n *Node)
	walk = func(n *Node) {
		if n == nil {
			return
		}
		if Classify(n) == NodeProject {
			key := n.Package.ID.String()
			if !seen[key] {
				seen[key] = true
				projects = append(projects, n)
			}
		}
		for _, child := range n.Children {
			walk(child)
		}
	}
	for _, t := range trees {
		walk(t)
	}
	return projects
}
