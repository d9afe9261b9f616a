package scene

import "github.com/Carmen-Shannon/oxy-viewer/engine/renderer/material"

// Walk visits root and every descendant depth first, parents before children.
//
// Parameters:
//   - root: the subtree to visit, nil is ignored
//   - fn: called once per node
func Walk(root Node, fn func(Node)) {
	if root == nil {
		return
	}
	fn(root)
	for _, child := range root.base().children {
		Walk(child, fn)
	}
}

// WalkApply visits root and every descendant and calls apply on those for which match returns true.
//
// Parameters:
//   - root: the subtree to visit
//   - match: the node predicate
//   - apply: the function applied to matching nodes
//
// Returns:
//   - int: the number of nodes apply was called on
func WalkApply(root Node, match func(Node) bool, apply func(Node)) int {
	n := 0
	Walk(root, func(node Node) {
		if match(node) {
			apply(node)
			n++
		}
	})
	return n
}

// HasStandardMaterial matches mesh nodes whose material is the physically based standard variant.
//
// Parameters:
//   - n: the node to test
//
// Returns:
//   - bool: true for a *Mesh carrying a *material.Standard
func HasStandardMaterial(n Node) bool {
	mesh, ok := n.(*Mesh)
	if !ok {
		return false
	}
	return mesh.Material() != nil && mesh.Material().Kind() == material.KindStandard
}

// StandardMaterials calls fn for the standard material of every mesh in the scene. Meshes with any other
// material variant are skipped.
//
// Parameters:
//   - s: the scene to visit
//   - fn: called once per standard material occurrence
//
// Returns:
//   - int: the number of meshes visited
func StandardMaterials(s Scene, fn func(*material.Standard)) int {
	return s.TraverseApply(HasStandardMaterial, func(n Node) {
		material.Visit(n.(*Mesh).Material(), material.Visitor{Standard: fn})
	})
}

// Count returns the number of nodes of the given kind beneath root, root included.
//
// Parameters:
//   - root: the subtree to count
//   - kind: the node variant to count
//
// Returns:
//   - int: the number of matching nodes
func Count(root Node, kind NodeKind) int {
	return WalkApply(root, func(n Node) bool { return n.Kind() == kind }, func(Node) {})
}
