// Package timing measures how long operations take.
package timing

import "time"

// Report describes one measured operation.
type Report struct {
	Name    string
	Elapsed time.Duration
	Err     error
}

// Reporter receives a Report after every measured operation.
type Reporter func(Report)

// Timer wraps operations and reports their wall-clock duration.
type Timer struct {
	now    func() time.Time
	report Reporter
}

// New returns a Timer using the system clock. report may be nil.
func New(report Reporter) *Timer {
	return &Timer{now: time.Now, report: report}
}

// WithClock returns a copy of t that reads time from now.
func (t *Timer) WithClock(now func() time.Time) *Timer {
	return &Timer{now: now, report: t.report}
}

// Measure runs fn, reports the elapsed time and returns fn's error unchanged.
func (t *Timer) Measure(name string, fn func() error) error {
	_, err := Timed(t, name, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// Timed runs fn under t and returns its result and error unchanged.
func Timed[T any](t *Timer, name string, fn func() (T, error)) (T, error) {
	start := t.now()
	v, err := fn()
	elapsed := t.now().Sub(start)

	if t.report != nil {
		t.report(Report{Name: name, Elapsed: elapsed, Err: err})
	}
	return v, err
}

// Format renders a duration the way tm prints it: rounded to the
// microsecond below one second and to the millisecond above.
func Format(d time.Duration) string {
	if d >= time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(time.Microsecond).String()
}
