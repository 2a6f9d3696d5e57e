package globe

import (
	"fmt"
	"os"
	"time"
)

// debugStats holds per-frame timing and draw-call metrics.
// Only populated when Scene.debug is true.
type debugStats struct {
	buildTime     time.Duration
	sortTime      time.Duration
	submitTime    time.Duration
	commandCount  int
	triangleCount int
	drawCallCount int
}

// debugLog prints timing and draw-call stats to stderr.
func (s *Scene) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	total := stats.buildTime + stats.sortTime + stats.submitTime
	_, _ = fmt.Fprintf(os.Stderr,
		"[globe] build: %v | sort: %v | submit: %v | total: %v\n",
		stats.buildTime, stats.sortTime, stats.submitTime, total)
	_, _ = fmt.Fprintf(os.Stderr,
		"[globe] commands: %d | triangles: %d | draw calls: %d\n",
		stats.commandCount, stats.triangleCount, stats.drawCallCount)
}

// debugLogf prints a single [globe]-prefixed line to stderr.
func debugLogf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, "[globe] "+format+"\n", args...)
}

// debugCheckDisposed panics with a descriptive message when a disposed object
// is used in a tree operation. Only called in debug mode.
func debugCheckDisposed(o *Object, op string) {
	if o.disposed {
		panic(fmt.Sprintf("globe debug: %s on disposed object %q", op, o.Name))
	}
}

// debugCheckTreeDepth warns on stderr if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(o *Object) {
	depth := 0
	for p := o; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		debugLogf("warning: tree depth %d exceeds %d (object %q)", depth, debugMaxTreeDepth, o.Name)
	}
}

// debugCheckChildCount warns on stderr if an object has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(o *Object) {
	if len(o.children) > debugMaxChildCount {
		debugLogf("warning: object %q has %d children (threshold %d)",
			o.Name, len(o.children), debugMaxChildCount)
	}
}

// countTriangles sums the triangles of every triangle command.
func countTriangles(commands []RenderCommand) int {
	n := 0
	for i := range commands {
		n += commands[i].Triangles()
	}
	return n
}
