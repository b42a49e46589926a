package input

import (
	"math"
	"time"

	"github.com/benbjohnson/clock"
)

// DefaultLongPressDuration is the dwell time that promotes a face press into
// a free-translate drag.
const DefaultLongPressDuration = 200 * time.Millisecond

// MotionEpsilon is the NDC distance beyond which pointer motion cancels a
// pending long press.
const MotionEpsilon = 0.002

// LongPressTracker owns the single piece of scheduled work in the core: the
// long-press deadline. It is cancelled by sufficient pointer motion,
// pointer-up, ESC and slice-mode exit.
type LongPressTracker struct {
	clock    clock.Clock
	duration time.Duration
	timer    *clock.Timer
	originX  float64
	originY  float64
	armed    bool
}

// NewLongPressTracker returns a tracker on the given clock. Tests pass a
// mock clock to drive the deadline deterministically.
func NewLongPressTracker(c clock.Clock, duration time.Duration) *LongPressTracker {
	if c == nil {
		c = clock.New()
	}
	if duration <= 0 {
		duration = DefaultLongPressDuration
	}
	return &LongPressTracker{clock: c, duration: duration}
}

// Arm starts the deadline at the given pointer origin. fire runs when the
// pointer dwells the full duration without sufficient motion.
func (lp *LongPressTracker) Arm(x, y float64, fire func()) {
	lp.Cancel()
	lp.originX = x
	lp.originY = y
	lp.armed = true
	lp.timer = lp.clock.AfterFunc(lp.duration, func() {
		lp.armed = false
		fire()
	})
}

// Move reports pointer motion to the tracker. It returns true when the
// motion exceeded the epsilon and the pending long press was cancelled.
func (lp *LongPressTracker) Move(x, y float64) bool {
	if !lp.armed {
		return false
	}
	dx := x - lp.originX
	dy := y - lp.originY
	if math.Hypot(dx, dy) <= MotionEpsilon {
		return false
	}
	lp.Cancel()
	return true
}

// Armed returns whether a long press is pending.
func (lp *LongPressTracker) Armed() bool {
	return lp.armed
}

// Cancel stops any pending deadline.
func (lp *LongPressTracker) Cancel() {
	if lp.timer != nil {
		lp.timer.Stop()
		lp.timer = nil
	}
	lp.armed = false
}
