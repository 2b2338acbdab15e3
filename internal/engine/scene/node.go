// Package scene provides a minimal scene graph for attaching cameras and
// other transformable objects under a common root.
package scene

import (
	"github.com/Faultbox/midgard-pssm/pkg/math"
)

// Node is a named element of the scene graph with a transform relative to
// its parent.
type Node struct {
	name     string
	parent   *Node
	children []*Node
	local    math.Mat4
}

// NewRoot creates a parentless node with an identity transform.
func NewRoot(name string) *Node {
	return &Node{name: name, local: math.Identity()}
}

// Name returns the node name.
func (n *Node) Name() string {
	return n.name
}

// Parent returns the parent node, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the attached child nodes.
func (n *Node) Children() []*Node {
	return n.children
}

// AttachNewNode creates a child node with an identity local transform.
func (n *Node) AttachNewNode(name string) *Node {
	child := &Node{name: name, parent: n, local: math.Identity()}
	n.children = append(n.children, child)
	return child
}

// Find returns the first descendant with the given name (depth-first).
func (n *Node) Find(name string) *Node {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
		if found := c.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// LocalTransform returns the transform relative to the parent.
func (n *Node) LocalTransform() math.Mat4 {
	return n.local
}

// SetLocalTransform sets the transform relative to the parent.
func (n *Node) SetLocalTransform(m math.Mat4) {
	n.local = m
}

// WorldTransform returns the accumulated transform from the root.
func (n *Node) WorldTransform() math.Mat4 {
	if n.parent == nil {
		return n.local
	}
	return n.parent.WorldTransform().Mul(n.local)
}

// SetWorldTransform sets the local transform so the node ends up at the
// given world transform.
func (n *Node) SetWorldTransform(world math.Mat4) {
	if n.parent == nil {
		n.local = world
		return
	}
	n.local = n.parent.WorldTransform().Inverse().Mul(world)
}
