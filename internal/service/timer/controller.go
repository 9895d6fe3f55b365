package timer

import (
	"sync"
	"time"
)

// AllottedSeconds returns the answer time for a question position:
// the first two questions get 20s, the middle two 60s, the rest 120s.
func AllottedSeconds(index int) int {
	switch {
	case index <= 1:
		return 20
	case index <= 3:
		return 60
	default:
		return 120
	}
}

// ExpireFunc is invoked when a countdown reaches zero. The receiver
// must re-validate the session and question index before mutating
// anything: the countdown runs outside the store lock.
type ExpireFunc func(sessionID string, questionIndex int)

// TickFunc is invoked once per interval with the remaining seconds.
type TickFunc func(sessionID string, questionIndex, remaining int)

// Controller runs at most one countdown per session. Starting a new
// countdown cancels any previous one for the same session.
type Controller struct {
	interval time.Duration
	onExpire ExpireFunc
	onTick   TickFunc

	mu     sync.Mutex
	active map[string]*countdown
}

// New builds a controller. interval is the wall-clock length of one
// "second" of the countdown; production callers pass time.Second,
// tests shrink it.
func New(interval time.Duration, onExpire ExpireFunc, onTick TickFunc) *Controller {
	return &Controller{
		interval: interval,
		onExpire: onExpire,
		onTick:   onTick,
		active:   make(map[string]*countdown),
	}
}

type countdown struct {
	sessionID     string
	questionIndex int
	remaining     int
	stop          chan struct{}
	stopOnce      sync.Once
}

func (c *countdown) cancel() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// Start begins a countdown of AllottedSeconds(questionIndex) for the
// session, cancelling any countdown already running for it.
func (c *Controller) Start(sessionID string, questionIndex int) {
	cd := &countdown{
		sessionID:     sessionID,
		questionIndex: questionIndex,
		remaining:     AllottedSeconds(questionIndex),
		stop:          make(chan struct{}),
	}

	c.mu.Lock()
	if prev, ok := c.active[sessionID]; ok {
		prev.cancel()
	}
	c.active[sessionID] = cd
	c.mu.Unlock()

	go c.run(cd)
}

// Cancel stops the session's countdown, if any, without firing the
// expiry callback.
func (c *Controller) Cancel(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cd, ok := c.active[sessionID]; ok {
		cd.cancel()
		delete(c.active, sessionID)
	}
}

// Shutdown cancels every running countdown.
func (c *Controller) Shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, cd := range c.active {
		cd.cancel()
		delete(c.active, id)
	}
}

func (c *Controller) run(cd *countdown) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-cd.stop:
			return
		case <-ticker.C:
			cd.remaining--
			if cd.remaining > 0 {
				if c.onTick != nil {
					c.onTick(cd.sessionID, cd.questionIndex, cd.remaining)
				}
				continue
			}

			if !c.retire(cd) {
				return
			}
			if c.onTick != nil {
				c.onTick(cd.sessionID, cd.questionIndex, 0)
			}
			if c.onExpire != nil {
				c.onExpire(cd.sessionID, cd.questionIndex)
			}
			return
		}
	}
}

// retire removes the countdown from the active set, reporting whether
// it was still the session's current countdown. A replaced countdown
// must not fire expiry.
func (c *Controller) retire(cd *countdown) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if current, ok := c.active[cd.sessionID]; ok && current == cd {
		delete(c.active, cd.sessionID)
		return true
	}
	return false
}
