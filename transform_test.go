package globe

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestLocalMatrixIdentity(t *testing.T) {
	o := NewGroup("test")
	m := computeLocalMatrix(o)
	if !m.ApproxEqualThreshold(mgl64.Ident4(), 1e-12) {
		t.Errorf("identity = %v", m)
	}
}

func TestLocalMatrixComposition(t *testing.T) {
	tests := []struct {
		name string
		set  func(o *Object)
		in   mgl64.Vec3
		want mgl64.Vec3
	}{
		{"translation", func(o *Object) { o.SetPosition(1, 2, 3) }, mgl64.Vec3{}, mgl64.Vec3{1, 2, 3}},
		{"scale", func(o *Object) { o.SetScale(2) }, mgl64.Vec3{1, 1, 1}, mgl64.Vec3{2, 2, 2}},
		{"rotate y 90", func(o *Object) { o.SetRotationY(math.Pi / 2) }, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 0, -1}},
		{"rotate x 90", func(o *Object) { o.SetRotation(Euler{X: math.Pi / 2}) }, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 0, 1}},
		{"rotate z 90", func(o *Object) { o.SetRotation(Euler{Z: math.Pi / 2}) }, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0}},
		// Z is applied first, then Y.
		{"rotate z then y", func(o *Object) { o.SetRotation(Euler{Y: math.Pi / 2, Z: math.Pi / 2}) },
			mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0}},
		{"scale before translate", func(o *Object) { o.SetScale(2); o.SetPosition(10, 0, 0) },
			mgl64.Vec3{1, 0, 0}, mgl64.Vec3{12, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewGroup("test")
			tt.set(o)
			got := mgl64.TransformCoordinate(tt.in, computeLocalMatrix(o))
			vecNear(t, "transformed", got, tt.want, 1e-9)
		})
	}
}

func TestWorldMatrixInheritsParent(t *testing.T) {
	parent := NewGroup("parent")
	parent.SetPosition(10, 0, 0)
	parent.SetScale(2)
	child := NewGroup("child")
	child.SetPosition(1, 0, 0)
	parent.AddChild(child)

	parent.UpdateMatrixWorld()
	vecNear(t, "child world", child.WorldPosition(), mgl64.Vec3{12, 0, 0}, 1e-9)
	vecNear(t, "LocalToWorld", child.LocalToWorld(mgl64.Vec3{1, 0, 0}), mgl64.Vec3{14, 0, 0}, 1e-9)
	vecNear(t, "WorldToLocal", child.WorldToLocal(mgl64.Vec3{14, 0, 0}), mgl64.Vec3{1, 0, 0}, 1e-9)
}

func TestWorldMatrixDirtyPropagation(t *testing.T) {
	parent := NewGroup("parent")
	child := NewGroup("child")
	parent.AddChild(child)
	parent.UpdateMatrixWorld()

	if child.transformDirty {
		t.Fatal("child should be clean after update")
	}
	parent.SetPosition(0, 5, 0)
	parent.UpdateMatrixWorld()
	vecNear(t, "child follows parent", child.WorldPosition(), mgl64.Vec3{0, 5, 0}, 1e-9)
}

func TestSetRotationYKeepsOtherAxes(t *testing.T) {
	o := NewGroup("test")
	o.SetRotation(Euler{X: 0.1, Y: 0.2, Z: 0.3})
	o.SetRotationY(1)
	if o.Rotation.X != 0.1 || o.Rotation.Y != 1 || o.Rotation.Z != 0.3 {
		t.Errorf("Rotation = %+v", o.Rotation)
	}
}

func TestAddChildReparents(t *testing.T) {
	a := NewGroup("a")
	b := NewGroup("b")
	c := NewGroup("c")
	a.AddChild(c)
	b.AddChild(c)
	if a.NumChildren() != 0 || b.NumChildren() != 1 || c.Parent != b {
		t.Errorf("a=%d b=%d parent=%v", a.NumChildren(), b.NumChildren(), c.Parent.Name)
	}
}

func TestAddChildCyclePanics(t *testing.T) {
	a := NewGroup("a")
	b := NewGroup("b")
	a.AddChild(b)
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	b.AddChild(a)
}

func TestRemoveChild(t *testing.T) {
	a := NewGroup("a")
	b := NewGroup("b")
	a.AddChild(b)
	b.RemoveFromParent()
	if a.NumChildren() != 0 || b.Parent != nil {
		t.Error("RemoveFromParent did not detach")
	}
	// Removing a non-child is a no-op.
	a.RemoveChild(NewGroup("stranger"))
}

func TestTraverseOrder(t *testing.T) {
	root := NewGroup("root")
	a := NewGroup("a")
	b := NewGroup("b")
	a1 := NewGroup("a1")
	root.AddChild(a)
	root.AddChild(b)
	a.AddChild(a1)

	var names []string
	root.Traverse(func(o *Object) { names = append(names, o.Name) })
	want := []string{"root", "a", "a1", "b"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names = %v, want %v", names, want)
			break
		}
	}
}

func TestDisposeRecursive(t *testing.T) {
	root := NewGroup("root")
	a := NewGroup("a")
	b := NewGroup("b")
	root.AddChild(a)
	a.AddChild(b)

	a.Dispose()
	if !a.IsDisposed() || !b.IsDisposed() {
		t.Error("subtree not disposed")
	}
	if root.NumChildren() != 0 {
		t.Error("disposed object still attached")
	}
	a.Dispose() // idempotent
}

func TestObjectIDsUnique(t *testing.T) {
	a := NewGroup("a")
	b := NewGroup("b")
	if a.ID == 0 || a.ID == b.ID {
		t.Errorf("ids %d and %d", a.ID, b.ID)
	}
}
