// Package globe renders an interactive, rotating 3D globe of flight routes
// on [Ebitengine].
//
// The globe is a shaded sphere carrying four data layers: great-circle arcs
// between airports with animated dashes, airport point markers, airport
// labels with dots, and a hexagonal tiling of country outlines. A dim halo
// rim surrounds it. The user orbits with a drag and zooms with the wheel or
// a pinch; the globe spins slowly on its own axis.
//
// # Quick start
//
// [Run] opens a window with the embedded datasets and the default
// configuration:
//
//	if err := globe.Run(globe.RunConfig{Title: "Globe", Width: 1280, Height: 720}); err != nil {
//		log.Fatal(err)
//	}
//
// For full control, call [Initialize] with your own [Surface], [Datasets]
// and [Config], wrap the handle in a [Host] (or any [FrameScheduler]) and
// start the loop:
//
//	handle, err := globe.Initialize(surface, data, globe.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer handle.Dispose()
//	host := globe.NewHost(handle)
//	handle.Start(ctx, host)
//	return ebiten.RunGame(host)
//
// # Scene graph
//
// Every placed element is an [Object] with a position, an Euler rotation and
// a uniform scale. The [Globe] object carries a fixed orientation offset; a
// child spin object carries the time-driven rotation so the offset is never
// overwritten. The [Camera] is a perspective camera that always looks at its
// target, and [DirectionalLight]s are attached to it so the lighting follows
// the view.
//
// # Layers
//
// Records are bound to visual attributes through [Layers]: each attribute is
// a constant or the value of a named record field. [DefaultLayers] returns
// the mapping the package ships with, and a TOML [Config] can override it.
//
// # Render loop
//
// [Loop] runs one iteration per host frame: it samples the [AnimationClock],
// sets the spin to rate times elapsed seconds, advances arc animation,
// steps the [OrbitControls] damping, renders, and requests exactly one more
// frame. A failed frame stops the loop and reports through OnDegraded.
//
// # Debug mode
//
// [Scene.SetDebugMode] logs per-frame build, sort and submit times with the
// command and draw-call counts to stderr, and panics on use of disposed
// objects.
//
// [Ebitengine]: https://ebitengine.org
package globe
