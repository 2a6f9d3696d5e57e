package globe

import "context"

// LoopState is the state of the render loop.
type LoopState uint8

const (
	LoopStopped LoopState = iota // no frame is or will be scheduled
	LoopRunning                  // the next iteration is scheduled
)

func (s LoopState) String() string {
	switch s {
	case LoopRunning:
		return "running"
	default:
		return "stopped"
	}
}

// FrameScheduler runs a callback at the host's next display refresh. The
// Ebitengine host runs it during the next Draw.
type FrameScheduler interface {
	RequestFrame(fn func())
}

// Loop is the per-frame update cycle. Each iteration samples the clock,
// overwrites the globe spin, advances arc animation, steps the controls,
// draws one frame and requests exactly one more frame.
type Loop struct {
	scheduler FrameScheduler
	clock     *AnimationClock
	globe     *Globe
	controls  *OrbitControls
	render    func() error
	spinRate  float64

	// OnDegraded is called once when a frame fails to render and the loop
	// stops because of it.
	OnDegraded func(error)

	// OnFrame, when set, is called after each successful iteration with the
	// elapsed time that frame was built for.
	OnFrame func(elapsed float64)

	ctx        context.Context
	state      LoopState
	pending    bool
	err        error
	iterations uint64
	elapsed    float64
}

// NewLoop wires a loop. render draws one frame; globe and controls may be nil.
func NewLoop(sched FrameScheduler, clock *AnimationClock, globe *Globe, controls *OrbitControls, spinRate float64, render func() error) *Loop {
	return &Loop{
		scheduler: sched,
		clock:     clock,
		globe:     globe,
		controls:  controls,
		render:    render,
		spinRate:  spinRate,
	}
}

// Start moves the loop to Running and requests the first frame. Calling it
// while running does nothing. ctx cancellation stops the loop at the top of
// the next iteration.
func (l *Loop) Start(ctx context.Context) {
	if l.state == LoopRunning {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	l.ctx = ctx
	l.err = nil
	l.state = LoopRunning
	l.request()
}

// Stop moves the loop to Stopped. An already scheduled callback becomes a
// no-op.
func (l *Loop) Stop() {
	l.state = LoopStopped
}

// State returns the current loop state.
func (l *Loop) State() LoopState {
	return l.state
}

// Err returns the render error that stopped the loop, if any.
func (l *Loop) Err() error {
	return l.err
}

// Iterations returns the number of completed iterations.
func (l *Loop) Iterations() uint64 {
	return l.iterations
}

// Elapsed returns the clock reading of the last iteration.
func (l *Loop) Elapsed() float64 {
	return l.elapsed
}

func (l *Loop) request() {
	if l.pending {
		return
	}
	l.pending = true
	l.scheduler.RequestFrame(l.iterate)
}

func (l *Loop) iterate() {
	l.pending = false
	if l.state != LoopRunning {
		return
	}
	if l.ctx.Err() != nil {
		l.state = LoopStopped
		return
	}

	t := l.clock.Elapsed()
	l.elapsed = t
	if l.globe != nil {
		l.globe.SetSpin(RotationAt(l.spinRate, t))
		l.globe.Animate(t)
	}
	if l.controls != nil {
		l.controls.Update()
	}
	if l.render != nil {
		if err := l.render(); err != nil {
			l.fail(err)
			return
		}
	}
	l.iterations++
	if l.OnFrame != nil {
		l.OnFrame(t)
	}
	if l.state == LoopRunning {
		l.request()
	}
}

func (l *Loop) fail(err error) {
	l.state = LoopStopped
	l.err = err
	if globalDebug {
		debugLogf("render loop stopped: %v", err)
	}
	if l.OnDegraded != nil {
		l.OnDegraded(err)
	}
}
