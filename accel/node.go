package accel

// Bvh nodes are stored in a flat arena with the root at index 0. Besides the
// bounding box each node carries two multipurpose int32 values whose meaning
// depends on the node type:
//
// - For internal nodes both are > 0 and point to the L/R child nodes.
// - For leafs LData is <= 0 and holds the negated index of the first leaf
//   primitive while RData holds the primitive count.
type BvhNode struct {
	Bounds Bounds3

	LData int32
	RData int32
}

// Returns true if this node is a leaf.
func (n *BvhNode) IsLeaf() bool {
	return n.LData <= 0
}

// Set left and right child node indices.
func (n *BvhNode) SetChildNodes(left, right uint32) {
	n.LData = int32(left)
	n.RData = int32(right)
}

// Get left and right child node indices.
func (n *BvhNode) ChildNodes() (left, right uint32) {
	return uint32(n.LData), uint32(n.RData)
}

// Set primitive index and count.
func (n *BvhNode) SetPrimitives(firstPrimIndex, count uint32) {
	n.LData = -int32(firstPrimIndex)
	n.RData = int32(count)
}

// Get primitive index and count.
func (n *BvhNode) Primitives() (firstPrimIndex, count uint32) {
	return uint32(-n.LData), uint32(n.RData)
}
