package stopwatch

import (
	"fmt"
	"sync"
	"time"
)

// Lap is the total elapsed time at the moment the lap was taken. Number 1 is the oldest lap.
type Lap struct {
	Number  int           `json:"number"`
	Elapsed time.Duration `json:"elapsed"`
}

func (that Lap) String() string {
	return fmt.Sprintf("Lap %d  %s", that.Number, Format(that.Elapsed))
}

// Stopwatch accumulates running time across start/stop cycles. It is safe for concurrent use.
type Stopwatch struct {
	now func() time.Time

	mu      sync.Mutex
	running bool
	started time.Time
	elapsed time.Duration // time accumulated before the current run
	laps    []Lap
}

func New() *Stopwatch {
	return NewWithClock(time.Now)
}

func NewWithClock(now func() time.Time) *Stopwatch {
	return &Stopwatch{now: now}
}

// Start does nothing when the stopwatch is already running.
func (that *Stopwatch) Start() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.startLocked()
}

// Stop does nothing when the stopwatch is not running.
func (that *Stopwatch) Stop() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.stopLocked()
}

// Toggle starts a stopped stopwatch and stops a running one. It returns the new running state.
func (that *Stopwatch) Toggle() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.running {
		that.stopLocked()
	} else {
		that.startLocked()
	}

	return that.running
}

func (that *Stopwatch) startLocked() {
	if that.running {
		return
	}

	that.started = that.now()
	that.running = true
}

func (that *Stopwatch) stopLocked() {
	if !that.running {
		return
	}

	that.elapsed += that.now().Sub(that.started)
	that.running = false
}

// Reset stops the stopwatch, zeroes it and clears the laps.
func (that *Stopwatch) Reset() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.running = false
	that.elapsed = 0
	that.laps = nil
}

// Lap records the current elapsed time. Laps are only taken while running.
func (that *Stopwatch) Lap() (Lap, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if !that.running {
		return Lap{}, false
	}

	lap := Lap{
		Number:  len(that.laps) + 1,
		Elapsed: that.elapsedLocked(),
	}
	that.laps = append(that.laps, lap)

	return lap, true
}

// Laps returns the recorded laps, newest first.
func (that *Stopwatch) Laps() []Lap {
	that.mu.Lock()
	defer that.mu.Unlock()

	laps := make([]Lap, 0, len(that.laps))
	for i := len(that.laps) - 1; i >= 0; i-- {
		laps = append(laps, that.laps[i])
	}

	return laps
}

func (that *Stopwatch) Elapsed() time.Duration {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.elapsedLocked()
}

func (that *Stopwatch) Running() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.running
}

func (that *Stopwatch) elapsedLocked() time.Duration {
	if !that.running {
		return that.elapsed
	}

	return that.elapsed + that.now().Sub(that.started)
}

// Format renders d as HH:MM:SS.cc. Hours are not wrapped.
func Format(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	centis := d.Milliseconds() / 10

	return fmt.Sprintf("%02d:%02d:%02d.%02d",
		centis/360000,
		centis/6000%60,
		centis/100%60,
		centis%100,
	)
}
