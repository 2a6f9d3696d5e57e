package globe

import "github.com/go-gl/mathgl/mgl64"

// computeLocalMatrix computes the local matrix from the object's transform
// properties.
//
// Composition order:
//
//	Translate(Position) * Rx * Ry * Rz * Scale
func computeLocalMatrix(o *Object) mgl64.Mat4 {
	m := mgl64.Translate3D(o.Position.X(), o.Position.Y(), o.Position.Z())
	if o.Rotation.X != 0 {
		m = m.Mul4(mgl64.HomogRotate3DX(o.Rotation.X))
	}
	if o.Rotation.Y != 0 {
		m = m.Mul4(mgl64.HomogRotate3DY(o.Rotation.Y))
	}
	if o.Rotation.Z != 0 {
		m = m.Mul4(mgl64.HomogRotate3DZ(o.Rotation.Z))
	}
	return m.Mul4(mgl64.Scale3D(o.Scale.X(), o.Scale.Y(), o.Scale.Z()))
}

// updateWorldMatrix recomputes an object's worldMatrix and recurses into its
// children. parentRecomputed forces recomputation even if o is not dirty.
func updateWorldMatrix(o *Object, parent mgl64.Mat4, parentRecomputed bool) {
	recompute := o.transformDirty || parentRecomputed
	if recompute {
		if o.Type != ObjectTypeCamera {
			o.localMatrix = computeLocalMatrix(o)
		}
		o.worldMatrix = parent.Mul4(o.localMatrix)
		o.transformDirty = false
	}
	for _, child := range o.children {
		updateWorldMatrix(child, o.worldMatrix, recompute)
	}
}

// UpdateMatrixWorld refreshes world matrices for o and its subtree, using
// the parent's current world matrix.
func (o *Object) UpdateMatrixWorld() {
	parent := mgl64.Ident4()
	if o.Parent != nil {
		parent = o.Parent.worldMatrix
	}
	updateWorldMatrix(o, parent, false)
}

// --- Transform property setters ---

// SetPosition sets the object's local position and marks it dirty.
func (o *Object) SetPosition(x, y, z float64) {
	o.Position = mgl64.Vec3{x, y, z}
	o.transformDirty = true
}

// SetRotation sets the object's Euler rotation and marks it dirty.
func (o *Object) SetRotation(r Euler) {
	o.Rotation = r
	o.transformDirty = true
}

// SetRotationY overwrites only the Y component of the rotation.
func (o *Object) SetRotationY(y float64) {
	o.Rotation.Y = y
	o.transformDirty = true
}

// SetScale sets a uniform scale and marks the object dirty.
func (o *Object) SetScale(s float64) {
	o.Scale = mgl64.Vec3{s, s, s}
	o.transformDirty = true
}

// MarkDirty marks the object's transform as dirty, forcing recomputation
// on the next frame. Useful after bulk-setting fields directly.
func (o *Object) MarkDirty() {
	o.transformDirty = true
}

// WorldMatrix returns the matrix computed by the most recent update.
func (o *Object) WorldMatrix() mgl64.Mat4 {
	return o.worldMatrix
}

// WorldPosition returns the object's origin in world space.
func (o *Object) WorldPosition() mgl64.Vec3 {
	return o.worldMatrix.Col(3).Vec3()
}

// LocalToWorld converts a local-space point to world space.
func (o *Object) LocalToWorld(p mgl64.Vec3) mgl64.Vec3 {
	return mgl64.TransformCoordinate(p, o.worldMatrix)
}

// WorldToLocal converts a world-space point to this object's local space.
func (o *Object) WorldToLocal(p mgl64.Vec3) mgl64.Vec3 {
	return mgl64.TransformCoordinate(p, o.worldMatrix.Inv())
}
