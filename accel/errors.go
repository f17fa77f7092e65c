package accel

import "errors"

var (
	ErrUnknownSplitMethod    = errors.New("accel: unknown split method")
	ErrInvalidNode           = errors.New("accel: invalid bvh node")
	ErrPrimitiveRange        = errors.New("accel: leaf primitive range out of bounds")
	ErrUnreferencedPrimitive = errors.New("accel: primitive not referenced by exactly one leaf")
)
