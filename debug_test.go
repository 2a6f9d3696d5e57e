package globe

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"
	"time"
)

// captureStderr runs fn and returns what it wrote to stderr.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	old := os.Stderr
	os.Stderr = w
	fn()
	os.Stderr = old
	w.Close()
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func TestDebugModeDisposedObjectPanics(t *testing.T) {
	s := NewScene()
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)

	child := NewGroup("child")
	child.Dispose()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on AddChild with a disposed object")
		}
		if msg := fmt.Sprint(r); !strings.Contains(msg, "disposed") || !strings.Contains(msg, "child") {
			t.Errorf("panic message %q", msg)
		}
	}()
	s.Add(child)
}

func TestDebugModeOffNoPanic(t *testing.T) {
	s := NewScene()
	child := NewGroup("child")
	child.Dispose()
	s.Add(child)
}

func TestDebugTreeDepthWarning(t *testing.T) {
	s := NewScene()
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)

	out := captureStderr(t, func() {
		parent := s.Root()
		for i := 0; i < debugMaxTreeDepth+1; i++ {
			child := NewGroup(fmt.Sprintf("n%d", i))
			parent.AddChild(child)
			parent = child
		}
	})
	if !strings.Contains(out, "tree depth") {
		t.Errorf("no depth warning in %q", out)
	}
}

func TestDebugLogStats(t *testing.T) {
	s := NewScene()
	stats := debugStats{buildTime: time.Millisecond, commandCount: 7, triangleCount: 42, drawCallCount: 3}

	if out := captureStderr(t, func() { s.debugLog(stats) }); out != "" {
		t.Errorf("logged with debug off: %q", out)
	}

	s.SetDebugMode(true)
	defer s.SetDebugMode(false)
	out := captureStderr(t, func() { s.debugLog(stats) })
	for _, want := range []string{"[globe] build: 1ms", "commands: 7", "triangles: 42", "draw calls: 3"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}
}

func TestCountTriangles(t *testing.T) {
	cmds := []RenderCommand{
		{indStart: 0, indEnd: 6},
		{Type: CommandText},
		{indStart: 6, indEnd: 15},
	}
	if n := countTriangles(cmds); n != 5 {
		t.Errorf("countTriangles = %d, want 5", n)
	}
}
