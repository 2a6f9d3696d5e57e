package globe

import "github.com/go-gl/mathgl/mgl64"

// ObjectType distinguishes rendering behavior for an Object.
type ObjectType uint8

const (
	ObjectTypeGroup  ObjectType = iota // transform-only node with no visual output
	ObjectTypeCamera                   // perspective camera
	ObjectTypeLight                    // directional light
	ObjectTypeGlobe                    // globe primitive with overlay layers
)

// objectIDCounter is a plain counter; the scene is single-threaded.
var objectIDCounter uint32

func nextObjectID() uint32 {
	objectIDCounter++
	return objectIDCounter
}

// Euler holds rotation angles in radians, applied in X, Y, Z order.
type Euler struct {
	X, Y, Z float64
}

// Object is the fundamental scene graph element. Children inherit their
// parent's transform.
type Object struct {
	// Identity
	ID   uint32
	Name string
	Type ObjectType

	// Hierarchy
	Parent   *Object
	children []*Object

	// Transform (local). Mutating these fields directly requires MarkDirty.
	Position mgl64.Vec3
	Rotation Euler
	Scale    mgl64.Vec3

	// Computed
	localMatrix    mgl64.Mat4
	worldMatrix    mgl64.Mat4
	transformDirty bool

	Visible bool

	// Metadata
	UserData any

	disposed bool
}

func objectDefaults(o *Object) {
	o.ID = nextObjectID()
	o.Scale = mgl64.Vec3{1, 1, 1}
	o.Visible = true
	o.transformDirty = true
	o.localMatrix = mgl64.Ident4()
	o.worldMatrix = mgl64.Ident4()
}

// NewGroup creates an object with no visual representation.
func NewGroup(name string) *Object {
	o := &Object{Name: name, Type: ObjectTypeGroup}
	objectDefaults(o)
	return o
}

// AddChild appends child to this object's children. If child already has a
// parent it is removed from that parent first. Adding an ancestor panics.
func (o *Object) AddChild(child *Object) {
	if globalDebug {
		debugCheckDisposed(o, "AddChild")
		debugCheckDisposed(child, "AddChild")
	}
	if child == o || isAncestor(child, o) {
		panic("globe: AddChild would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = o
	o.children = append(o.children, child)
	markSubtreeDirty(child)
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(o)
	}
}

// RemoveChild detaches child from this object. No-op if child is not a
// direct child.
func (o *Object) RemoveChild(child *Object) {
	if child == nil || child.Parent != o {
		return
	}
	o.removeChildByPtr(child)
	child.Parent = nil
	markSubtreeDirty(child)
}

// RemoveFromParent detaches this object from its parent.
func (o *Object) RemoveFromParent() {
	if o.Parent != nil {
		o.Parent.RemoveChild(o)
	}
}

// Children returns the child list. The returned slice MUST NOT be mutated.
func (o *Object) Children() []*Object {
	return o.children
}

// NumChildren returns the number of children.
func (o *Object) NumChildren() int {
	return len(o.children)
}

// Traverse calls fn for o and every descendant, depth-first.
func (o *Object) Traverse(fn func(*Object)) {
	fn(o)
	for _, c := range o.children {
		c.Traverse(fn)
	}
}

// Dispose removes this object from its parent, marks it as disposed,
// and recursively disposes all descendants.
func (o *Object) Dispose() {
	if o.disposed {
		return
	}
	o.RemoveFromParent()
	o.dispose()
}

func (o *Object) dispose() {
	o.disposed = true
	o.ID = 0
	for _, child := range o.children {
		child.Parent = nil
		child.dispose()
	}
	o.children = nil
	o.Parent = nil
	o.UserData = nil
}

// IsDisposed returns true if this object has been disposed.
func (o *Object) IsDisposed() bool {
	return o.disposed
}

// isAncestor reports whether candidate is an ancestor of o.
func isAncestor(candidate, o *Object) bool {
	for p := o.Parent; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from o.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (o *Object) removeChildByPtr(child *Object) {
	for i, c := range o.children {
		if c == child {
			copy(o.children[i:], o.children[i+1:])
			o.children[len(o.children)-1] = nil
			o.children = o.children[:len(o.children)-1]
			return
		}
	}
}

// markSubtreeDirty sets transformDirty on o and all its descendants.
func markSubtreeDirty(o *Object) {
	o.transformDirty = true
	for _, child := range o.children {
		markSubtreeDirty(child)
	}
}
