package globe

// Scene is the root of the object graph together with the environment
// settings that apply to the whole frame.
type Scene struct {
	root *Object

	// Background fills the frame before anything is drawn.
	Background Color
	// Fog fades distant geometry. Nil disables fog.
	Fog *Fog

	debug bool
}

// NewScene creates an empty scene with a black background and no fog.
func NewScene() *Scene {
	return &Scene{
		root:       NewGroup("scene"),
		Background: Color{0, 0, 0, 1},
	}
}

// Root returns the scene's root object.
func (s *Scene) Root() *Object {
	return s.root
}

// Add attaches o to the scene root.
func (s *Scene) Add(o *Object) {
	s.root.AddChild(o)
}

// UpdateMatrixWorld refreshes the world matrix of every object in the scene.
func (s *Scene) UpdateMatrixWorld() {
	s.root.UpdateMatrixWorld()
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-object
// access panics, tree depth and child count warnings are printed, and
// per-frame timing stats are logged to stderr.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// globalDebug mirrors the most recently set Scene debug flag so that object
// operations (which lack a Scene pointer) can check it cheaply. Only valid
// with a single Scene; multiple Scenes with differing debug modes will
// reflect whichever called SetDebugMode last.
var globalDebug bool

// collect walks the visible part of the graph and returns the lights and
// globes it contains, in tree order.
func (s *Scene) collect(lights []*DirectionalLight, globes []*Globe) ([]*DirectionalLight, []*Globe) {
	var walk func(o *Object)
	walk = func(o *Object) {
		if !o.Visible {
			return
		}
		switch o.Type {
		case ObjectTypeLight:
			if l, ok := o.UserData.(*DirectionalLight); ok {
				lights = append(lights, l)
			}
		case ObjectTypeGlobe:
			if g, ok := o.UserData.(*Globe); ok {
				globes = append(globes, g)
			}
		}
		for _, c := range o.children {
			walk(c)
		}
	}
	walk(s.root)
	return lights, globes
}

// Dispose releases the object graph.
func (s *Scene) Dispose() {
	s.root.Dispose()
}
