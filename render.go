package globe

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// CommandType identifies the kind of render command.
type CommandType uint8

const (
	CommandHalo    CommandType = iota // atmosphere ring behind the globe
	CommandSurface                    // shaded sphere
	CommandHex                        // hex-polygon cells
	CommandArc                        // one dashed arc
	CommandPoint                      // point markers
	CommandLabel                      // label dot
	CommandText                       // label text
)

// Render layers, drawn in ascending order.
const (
	layerHalo uint8 = iota
	layerSurface
	layerDecal
	layerOverlay
	layerText
)

// RenderCommand is a single draw instruction emitted while building a frame.
// Triangle commands reference ranges of the renderer's vertex and index
// buffers; indices are relative to the command's first vertex.
type RenderCommand struct {
	Type      CommandType
	Layer     uint8
	Depth     float64 // distance from the eye; farther commands draw first
	BlendMode BlendMode
	treeOrder int

	vertStart, vertEnd int
	indStart, indEnd   int

	text     string
	textX    float64
	textY    float64
	textSize float64
	color    Color
}

// Triangles returns the number of triangles the command draws.
func (c *RenderCommand) Triangles() int {
	return (c.indEnd - c.indStart) / 3
}

// Renderer draws a Scene from a Camera into an ebiten image. It projects
// geometry on the CPU and submits screen-space triangles with
// DrawTriangles32.
type Renderer struct {
	width, height float64 // CSS-pixel size
	pixelRatio    float64
	target        *ebiten.Image

	commands []RenderCommand
	sortBuf  []RenderCommand
	verts    []ebiten.Vertex
	inds     []uint32
	order    int

	lights  []*DirectionalLight
	globes  []*Globe
	scratch []mgl64.Vec3
	screen  []screenPoint

	white      *ebiten.Image
	fontSource *text.GoTextFaceSource
	fontFailed bool

	stats    debugStats
	disposed bool
}

type screenPoint struct {
	x, y, depth float64
	ok          bool
}

// NewRenderer creates a renderer for an output of the given CSS size.
func NewRenderer(width, height, pixelRatio float64) *Renderer {
	r := &Renderer{
		commands: make([]RenderCommand, 0, 64),
		sortBuf:  make([]RenderCommand, 0, 64),
	}
	r.SetSize(width, height)
	r.SetPixelRatio(pixelRatio)
	return r
}

// SetSize sets the output size in CSS pixels.
func (r *Renderer) SetSize(width, height float64) {
	r.width = math.Max(width, 0)
	r.height = math.Max(height, 0)
}

// SetPixelRatio sets the device-pixel multiplier. Callers clamp it.
func (r *Renderer) SetPixelRatio(ratio float64) {
	if ratio <= 0 {
		ratio = 1
	}
	r.pixelRatio = ratio
}

// PixelRatio returns the current device-pixel multiplier.
func (r *Renderer) PixelRatio() float64 {
	return r.pixelRatio
}

// Size returns the output size in CSS pixels.
func (r *Renderer) Size() (float64, float64) {
	return r.width, r.height
}

// OutputSize returns the drawing-buffer size in device pixels.
func (r *Renderer) OutputSize() (int, int) {
	return int(math.Ceil(r.width * r.pixelRatio)), int(math.Ceil(r.height * r.pixelRatio))
}

// SetTarget sets the image the next Render draws into.
func (r *Renderer) SetTarget(img *ebiten.Image) {
	r.target = img
}

// Commands returns the sorted commands of the last frame. The returned slice
// MUST NOT be mutated.
func (r *Renderer) Commands() []RenderCommand {
	return r.commands
}

// Render draws one frame of scene from cam into the current target. It
// returns ErrContextLost when there is no usable target.
func (r *Renderer) Render(scene *Scene, cam *Camera) error {
	if r.disposed || r.target == nil {
		return ErrContextLost
	}
	b := r.target.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return ErrContextLost
	}

	var t0 time.Time
	if scene.debug {
		t0 = time.Now()
	}
	r.build(scene, cam, float64(b.Dx()), float64(b.Dy()))
	if scene.debug {
		r.stats.buildTime = time.Since(t0)
		t0 = time.Now()
	}
	r.mergeSort()
	if scene.debug {
		r.stats.sortTime = time.Since(t0)
		t0 = time.Now()
	}
	r.submit(r.target, scene.Background)
	if scene.debug {
		r.stats.submitTime = time.Since(t0)
		r.stats.commandCount = len(r.commands)
		r.stats.triangleCount = countTriangles(r.commands)
		scene.debugLog(r.stats)
	}
	return nil
}

// Dispose releases GPU-backed images. Later Render calls fail with
// ErrContextLost.
func (r *Renderer) Dispose() {
	if r.disposed {
		return
	}
	r.disposed = true
	if r.white != nil {
		r.white.Deallocate()
		r.white = nil
	}
	r.target = nil
	r.commands = nil
	r.sortBuf = nil
	r.verts = nil
	r.inds = nil
}

// frame carries the per-frame projection state.
type frame struct {
	cam    *Camera
	w, h   float64
	focal  float64
	eye    mgl64.Vec3
	fog    *Fog
	lights []*DirectionalLight
	view   Rect // output bounds grown by offscreenMargin
}

// offscreenMargin keeps labels just outside the frame so they do not pop
// in at the edges.
const offscreenMargin = 64

func (f *frame) project(p mgl64.Vec3) screenPoint {
	x, y, d, ok := f.cam.WorldToScreen(p, f.w, f.h)
	return screenPoint{x: x, y: y, depth: d, ok: ok}
}

// build refreshes world matrices and emits unsorted commands for every
// visible globe. It makes no GPU calls.
func (r *Renderer) build(scene *Scene, cam *Camera, w, h float64) {
	r.commands = r.commands[:0]
	r.verts = r.verts[:0]
	r.inds = r.inds[:0]
	r.order = 0

	scene.UpdateMatrixWorld()
	if cam.Parent == nil {
		cam.UpdateMatrixWorld()
	}
	cam.refreshView()

	r.lights, r.globes = scene.collect(r.lights[:0], r.globes[:0])
	f := frame{
		cam:    cam,
		w:      w,
		h:      h,
		focal:  cam.FocalLength(h),
		eye:    cam.WorldPosition(),
		fog:    scene.Fog,
		lights: r.lights,
		view:   Rect{X: -offscreenMargin, Y: -offscreenMargin, Width: w + 2*offscreenMargin, Height: h + 2*offscreenMargin},
	}
	for _, g := range r.globes {
		r.emitGlobe(&f, g)
	}
}

func (r *Renderer) emitGlobe(f *frame, g *Globe) {
	if g.Atmosphere.Show {
		r.emitHalo(f, g)
	}
	r.emitSurface(f, g)
	r.emitHexes(f, g)
	for _, a := range g.Arcs {
		r.emitArc(f, g, a)
	}
	r.emitPoints(f, g)
	r.emitLabels(f, g)
}

// begin opens a triangle command; end closes it, dropping it when empty.
func (r *Renderer) begin(t CommandType, layer uint8, blend BlendMode) RenderCommand {
	return RenderCommand{
		Type:      t,
		Layer:     layer,
		BlendMode: blend,
		vertStart: len(r.verts),
		indStart:  len(r.inds),
	}
}

func (r *Renderer) end(cmd RenderCommand, depth float64) {
	cmd.vertEnd = len(r.verts)
	cmd.indEnd = len(r.inds)
	if cmd.indEnd == cmd.indStart {
		r.verts = r.verts[:cmd.vertStart]
		return
	}
	r.order++
	cmd.treeOrder = r.order
	cmd.Depth = depth
	r.commands = append(r.commands, cmd)
}

func (r *Renderer) addVertex(cmd *RenderCommand, x, y float64, c Color) uint32 {
	a := float32(clamp01(c.A))
	r.verts = append(r.verts, ebiten.Vertex{
		DstX:   float32(x),
		DstY:   float32(y),
		SrcX:   0.5,
		SrcY:   0.5,
		ColorR: float32(clamp01(c.R)) * a,
		ColorG: float32(clamp01(c.G)) * a,
		ColorB: float32(clamp01(c.B)) * a,
		ColorA: a,
	})
	return uint32(len(r.verts) - 1 - cmd.vertStart)
}

// occluded reports whether the segment from eye to p enters the sphere
// (center c, radius rad) before reaching p.
func occluded(eye, p, c mgl64.Vec3, rad float64) bool {
	d := p.Sub(eye)
	fo := eye.Sub(c)
	a := d.Dot(d)
	if a == 0 {
		return false
	}
	b := 2 * fo.Dot(d)
	cc := fo.Dot(fo) - rad*rad
	disc := b*b - 4*a*cc
	if disc < 0 {
		return false
	}
	t := (-b - math.Sqrt(disc)) / (2 * a)
	return t > 0 && t < 1
}

// occluderRadius shrinks the sphere slightly so that points lying on it are
// not reported as hidden by themselves.
func occluderRadius(g *Globe) float64 {
	return g.WorldRadius() * 0.999
}

func (r *Renderer) emitSurface(f *frame, g *Globe) {
	geo := g.Sphere
	m := g.spin.worldMatrix
	center := g.Center()

	if cap(r.scratch) < len(geo.Positions) {
		r.scratch = make([]mgl64.Vec3, len(geo.Positions))
		r.screen = make([]screenPoint, len(geo.Positions))
	}
	world := r.scratch[:len(geo.Positions)]
	screen := r.screen[:len(geo.Positions)]

	cmd := r.begin(CommandSurface, layerSurface, BlendNormal)
	for i, p := range geo.Positions {
		wp := mgl64.TransformCoordinate(p, m)
		world[i] = wp
		sp := f.project(wp)
		screen[i] = sp
		n := mgl64.TransformNormal(geo.Normals[i], m)
		if l := n.Len(); l > 0 {
			n = n.Mul(1 / l)
		}
		toEye := f.eye.Sub(wp)
		if l := toEye.Len(); l > 0 {
			toEye = toEye.Mul(1 / l)
		}
		c := g.Material.Shade(n, toEye, f.lights)
		c = f.fog.Apply(c, sp.depth)
		r.addVertex(&cmd, sp.x, sp.y, c)
	}
	for i := 0; i+2 < len(geo.Indices); i += 3 {
		a, b, c := geo.Indices[i], geo.Indices[i+1], geo.Indices[i+2]
		if !screen[a].ok || !screen[b].ok || !screen[c].ok {
			continue
		}
		pa := world[a]
		normal := world[b].Sub(pa).Cross(world[c].Sub(pa))
		if normal.Dot(f.eye.Sub(pa)) <= 0 {
			continue
		}
		r.inds = append(r.inds, a, b, c)
	}
	r.end(cmd, f.eye.Sub(center).Len())
}

func (r *Renderer) emitHalo(f *frame, g *Globe) {
	center := g.Center()
	dist := f.eye.Sub(center).Len()
	rad := g.WorldRadius()
	outer := rad * (1 + g.Atmosphere.Altitude)
	if dist <= outer {
		return
	}
	sc := f.project(center)
	if !sc.ok {
		return
	}
	rIn := f.focal * rad / math.Sqrt(dist*dist-rad*rad)
	rOut := f.focal * outer / math.Sqrt(dist*dist-outer*outer)

	glow := g.Atmosphere.Color
	inner := glow
	inner.A = 0.6
	edge := glow
	edge.A = 0

	const segments = 64
	cmd := r.begin(CommandHalo, layerHalo, BlendAdd)
	for i := 0; i <= segments; i++ {
		s, c := math.Sincos(2 * math.Pi * float64(i) / segments)
		r.addVertex(&cmd, sc.x+c*rIn*0.96, sc.y+s*rIn*0.96, inner)
		r.addVertex(&cmd, sc.x+c*rOut, sc.y+s*rOut, edge)
	}
	for i := 0; i < segments; i++ {
		v := uint32(i * 2)
		r.inds = append(r.inds, v, v+1, v+2, v+1, v+3, v+2)
	}
	r.end(cmd, dist+outer)
}

func (r *Renderer) emitHexes(f *frame, g *Globe) {
	if len(g.Hexes) == 0 {
		return
	}
	center := g.Center()
	occ := occluderRadius(g)
	cmd := r.begin(CommandHex, layerDecal, BlendNormal)
	for i := range g.Hexes {
		h := &g.Hexes[i]
		wc := g.LocalToWorld(LatLngToVector(h.Lat, h.Lng, h.Altitude))
		if occluded(f.eye, wc, center, occ) {
			continue
		}
		sc := f.project(wc)
		if !sc.ok {
			continue
		}
		col := f.fog.Apply(h.Color, sc.depth)
		base := len(r.verts)
		ci := r.addVertex(&cmd, sc.x, sc.y, col)
		valid := true
		for _, corner := range h.Corners {
			sp := f.project(g.LocalToWorld(LatLngToVector(corner[0], corner[1], h.Altitude)))
			if !sp.ok {
				valid = false
				break
			}
			r.addVertex(&cmd, sp.x, sp.y, col)
		}
		if !valid {
			r.verts = r.verts[:base]
			continue
		}
		n := uint32(len(h.Corners))
		for k := uint32(0); k < n; k++ {
			r.inds = append(r.inds, ci, ci+1+k, ci+1+(k+1)%n)
		}
	}
	r.end(cmd, f.eye.Sub(center).Len()-g.WorldRadius())
}

// strokeWidth converts a width in globe-local units at the given depth to
// pixels, never thinner than one pixel.
func strokeWidth(f *frame, g *Globe, local, depth float64) float64 {
	if depth <= 0 {
		return 1
	}
	return math.Max(local*g.Scale.X()*f.focal/depth, 1)
}

func (r *Renderer) emitArc(f *frame, g *Globe, a *Arc) {
	center := g.Center()
	occ := occluderRadius(g)
	var pts []Vec2
	var widths []float64
	var local []mgl64.Vec3

	cmd := r.begin(CommandArc, layerOverlay, BlendNormal)
	depthSum, depthN := 0.0, 0
	flush := func() {
		if len(pts) >= 2 {
			r.appendRibbon(&cmd, pts, widths, f.fog.Apply(a.Color, depthSum/float64(max(depthN, 1))))
		}
		pts = pts[:0]
		widths = widths[:0]
	}
	for _, iv := range a.DashIntervals() {
		local = a.segment(local[:0], iv[0], iv[1])
		for _, lp := range local {
			wp := g.LocalToWorld(lp)
			sp := f.project(wp)
			if !sp.ok || occluded(f.eye, wp, center, occ) {
				flush()
				continue
			}
			pts = append(pts, Vec2{sp.x, sp.y})
			widths = append(widths, strokeWidth(f, g, degreesToLocal(a.Stroke), sp.depth))
			depthSum += sp.depth
			depthN++
		}
		flush()
	}
	r.end(cmd, depthSum/float64(max(depthN, 1)))
}

// appendRibbon extrudes a screen-space polyline into a triangle strip with
// per-point widths, averaging adjacent segment normals at joints.
func (r *Renderer) appendRibbon(cmd *RenderCommand, pts []Vec2, widths []float64, c Color) {
	n := len(pts)
	first := uint32(len(r.verts) - cmd.vertStart)
	for i := 0; i < n; i++ {
		var nx, ny float64
		switch {
		case i == 0:
			nx, ny = perpendicular(pts[0], pts[1])
		case i == n-1:
			nx, ny = perpendicular(pts[n-2], pts[n-1])
		default:
			nx0, ny0 := perpendicular(pts[i-1], pts[i])
			nx1, ny1 := perpendicular(pts[i], pts[i+1])
			nx, ny = nx0+nx1, ny0+ny1
			ln := math.Sqrt(nx*nx + ny*ny)
			if ln > 1e-10 {
				nx /= ln
				ny /= ln
			}
			// Keep the width at the joint, capped to avoid spikes at sharp
			// corners.
			if dot := nx0*nx + ny0*ny; dot > 0.1 {
				scale := math.Min(1/dot, 2)
				nx *= scale
				ny *= scale
			}
		}
		hw := widths[i] / 2
		r.addVertex(cmd, pts[i].X+nx*hw, pts[i].Y+ny*hw, c)
		r.addVertex(cmd, pts[i].X-nx*hw, pts[i].Y-ny*hw, c)
	}
	for i := 0; i < n-1; i++ {
		v := first + uint32(i*2)
		r.inds = append(r.inds, v, v+1, v+2, v+1, v+3, v+2)
	}
}

// perpendicular returns the unit left-perpendicular of the segment from a to b.
func perpendicular(a, b Vec2) (float64, float64) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	ln := math.Sqrt(dx*dx + dy*dy)
	if ln < 1e-10 {
		return 0, -1
	}
	return -dy / ln, dx / ln
}

// degreesToLocal converts an angular size in degrees to globe-local units
// measured along the surface.
func degreesToLocal(deg float64) float64 {
	return GlobeRadius * deg * math.Pi / 180
}

func (r *Renderer) emitPoints(f *frame, g *Globe) {
	if len(g.Points) == 0 {
		return
	}
	center := g.Center()
	occ := occluderRadius(g)
	var cmd RenderCommand
	open := false
	depthSum, depthN := 0.0, 0
	for _, p := range g.Points {
		if !open {
			cmd = r.begin(CommandPoint, layerOverlay, BlendNormal)
			open = true
			depthSum, depthN = 0, 0
		}
		base := g.LocalToWorld(LatLngToVector(p.Lat, p.Lng, 0))
		top := g.LocalToWorld(LatLngToVector(p.Lat, p.Lng, p.Altitude))
		if !occluded(f.eye, top, center, occ) {
			sb, st := f.project(base), f.project(top)
			if sb.ok && st.ok {
				w := strokeWidth(f, g, 2*degreesToLocal(p.Radius), st.depth)
				col := f.fog.Apply(p.Color, st.depth)
				r.appendRibbon(&cmd, []Vec2{{sb.x, sb.y}, {st.x, st.y}}, []float64{w, w}, col)
				depthSum += st.depth
				depthN++
			}
		}
		if !g.MergePoints {
			r.end(cmd, depthSum/float64(max(depthN, 1)))
			open = false
		}
	}
	if open {
		r.end(cmd, depthSum/float64(max(depthN, 1)))
	}
}

func (r *Renderer) emitLabels(f *frame, g *Globe) {
	center := g.Center()
	occ := occluderRadius(g)
	segments := max(g.LabelResolution, 1) * 4
	for _, l := range g.Labels {
		wc := g.LocalToWorld(LatLngToVector(l.Lat, l.Lng, l.Altitude))
		if occluded(f.eye, wc, center, occ) {
			continue
		}
		sc := f.project(wc)
		if !sc.ok || !f.view.Contains(sc.x, sc.y) {
			continue
		}
		col := f.fog.Apply(l.Color, sc.depth)
		cmd := r.begin(CommandLabel, layerOverlay, BlendNormal)
		ci := r.addVertex(&cmd, sc.x, sc.y, col)
		valid := true
		for _, pt := range circleLatLng(l.Lat, l.Lng, l.DotRadius, segments) {
			sp := f.project(g.LocalToWorld(LatLngToVector(pt[0], pt[1], l.Altitude)))
			if !sp.ok {
				valid = false
				break
			}
			r.addVertex(&cmd, sp.x, sp.y, col)
		}
		if valid {
			n := uint32(segments)
			for k := uint32(0); k < n; k++ {
				r.inds = append(r.inds, ci, ci+1+k, ci+1+(k+1)%n)
			}
		}
		r.end(cmd, sc.depth)

		if l.Text == "" {
			continue
		}
		px := degreesToLocal(l.Size) * g.Scale.X() * f.focal / sc.depth
		if px < 1 {
			continue
		}
		dot := degreesToLocal(l.DotRadius) * g.Scale.X() * f.focal / sc.depth
		r.order++
		r.commands = append(r.commands, RenderCommand{
			Type:      CommandText,
			Layer:     layerText,
			Depth:     sc.depth,
			treeOrder: r.order,
			text:      l.Text,
			textX:     sc.x + dot*1.5,
			textY:     sc.y - px/2,
			textSize:  px,
			color:     col,
		})
	}
}

// --- Merge sort ---

// commandLessOrEqual returns true if a should sort before or at the same
// position as b. Within a layer, farther commands come first. Using <= for
// treeOrder ensures stability.
func commandLessOrEqual(a, b RenderCommand) bool {
	if a.Layer != b.Layer {
		return a.Layer < b.Layer
	}
	if a.Depth != b.Depth {
		return a.Depth > b.Depth
	}
	return a.treeOrder <= b.treeOrder
}

// mergeSort sorts r.commands in-place using r.sortBuf as scratch space.
// Bottom-up merge sort: zero allocations after the sort buffer reaches
// high-water mark.
func (r *Renderer) mergeSort() {
	n := len(r.commands)
	if n <= 1 {
		return
	}
	if cap(r.sortBuf) < n {
		r.sortBuf = make([]RenderCommand, n)
	}
	r.sortBuf = r.sortBuf[:n]

	a := r.commands
	b := r.sortBuf
	swapped := false

	for width := 1; width < n; width *= 2 {
		for i := 0; i < n; i += 2 * width {
			lo := i
			mid := min(lo+width, n)
			hi := min(lo+2*width, n)
			mergeRun(a, b, lo, mid, hi)
		}
		a, b = b, a
		swapped = !swapped
	}

	if swapped {
		copy(r.commands, r.sortBuf)
	}
}

// mergeRun merges two sorted runs [lo, mid) and [mid, hi) from src into dst.
func mergeRun(src, dst []RenderCommand, lo, mid, hi int) {
	i, j, k := lo, mid, lo
	for i < mid && j < hi {
		if commandLessOrEqual(src[i], src[j]) {
			dst[k] = src[i]
			i++
		} else {
			dst[k] = src[j]
			j++
		}
		k++
	}
	for i < mid {
		dst[k] = src[i]
		i++
		k++
	}
	for j < hi {
		dst[k] = src[j]
		j++
		k++
	}
}
