// Package timer runs keyed, cancelable sequences of timed actions against
// simulation time. It replaces real timers: nothing runs unless Advance is
// called, and everything runs synchronously inside it.
package timer

// epsilon absorbs rounding when fixed timesteps are summed against a wait.
const epsilon = 1e-9

// Step is one element of a sequence: either an instantaneous action or a wait.
type Step struct {
	Wait float64 // Seconds to wait; ignored when Do is set
	Do   func()
}

// Do returns a step that runs fn.
func Do(fn func()) Step {
	return Step{Do: fn}
}

// Wait returns a step that waits for d seconds.
func Wait(d float64) Step {
	return Step{Wait: d}
}

// Sequence is an ordered list of steps with a repeat count and an optional
// completion callback.
type Sequence struct {
	steps  []Step
	runs   int // total runs; 0 repeats forever
	onDone func()
}

// Seq builds a sequence that runs once.
func Seq(steps ...Step) Sequence {
	return Sequence{steps: steps, runs: 1}
}

// Repeat makes the sequence run n times in total.
func (q Sequence) Repeat(n int) Sequence {
	if n < 1 {
		n = 1
	}
	q.runs = n
	return q
}

// Forever makes the sequence repeat until canceled.
func (q Sequence) Forever() Sequence {
	q.runs = 0
	return q
}

// Then sets a callback run once the last repetition finishes.
// It is not called when the sequence is canceled.
func (q Sequence) Then(fn func()) Sequence {
	q.onDone = fn
	return q
}

// Duration returns the total wait time of the sequence, or -1 if it repeats
// forever.
func (q Sequence) Duration() float64 {
	if q.runs == 0 {
		return -1
	}
	var d float64
	for _, s := range q.steps {
		if s.Do == nil {
			d += s.Wait
		}
	}
	return d * float64(q.runs)
}

// Handle identifies one scheduled sequence. A handle stays valid as a
// cancellation token even after its key is reused.
type Handle struct {
	Key string
	id  uint64
}

type task struct {
	id       uint64
	key      string
	seq      Sequence
	index    int
	elapsed  float64
	runsLeft int
	paused   bool
	canceled bool
}

// Scheduler evaluates sequences against elapsed simulation time.
// Tasks advance in the order they were scheduled.
type Scheduler struct {
	tasks  []*task
	nextID uint64
}

// New creates an empty scheduler.
func New() *Scheduler {
	return &Scheduler{}
}

// Run schedules seq under key, canceling any sequence already running under
// the same key.
func (s *Scheduler) Run(key string, seq Sequence) Handle {
	s.Cancel(key)
	s.nextID++
	t := &task{
		id:       s.nextID,
		key:      key,
		seq:      seq,
		runsLeft: seq.runs,
	}
	s.tasks = append(s.tasks, t)
	return Handle{Key: key, id: t.id}
}

// Cancel stops the sequence running under key. Unknown keys are ignored.
func (s *Scheduler) Cancel(key string) {
	if t := s.find(key); t != nil {
		s.drop(t)
	}
}

// CancelHandle stops the sequence only if h still refers to it.
func (s *Scheduler) CancelHandle(h Handle) bool {
	t := s.find(h.Key)
	if t == nil || t.id != h.id {
		return false
	}
	s.drop(t)
	return true
}

// CancelAll stops every sequence.
func (s *Scheduler) CancelAll() {
	for _, t := range s.tasks {
		t.canceled = true
	}
	s.tasks = s.tasks[:0]
}

// Pause freezes the sequence under key, keeping its progress.
func (s *Scheduler) Pause(key string) {
	if t := s.find(key); t != nil {
		t.paused = true
	}
}

// Resume continues a paused sequence from where it stopped.
func (s *Scheduler) Resume(key string) {
	if t := s.find(key); t != nil {
		t.paused = false
	}
}

// Active reports whether a sequence is scheduled under key.
func (s *Scheduler) Active(key string) bool {
	return s.find(key) != nil
}

// Paused reports whether the sequence under key exists and is paused.
func (s *Scheduler) Paused(key string) bool {
	t := s.find(key)
	return t != nil && t.paused
}

// Len returns the number of scheduled sequences.
func (s *Scheduler) Len() int {
	return len(s.tasks)
}

// Advance moves every unpaused sequence forward by dt seconds, running the
// actions whose time has come. Actions may schedule or cancel sequences;
// sequences scheduled during Advance first run on the next call.
func (s *Scheduler) Advance(dt float64) {
	current := make([]*task, len(s.tasks))
	copy(current, s.tasks)

	for _, t := range current {
		if t.canceled || t.paused {
			continue
		}
		s.advanceTask(t, dt)
	}
}

func (s *Scheduler) advanceTask(t *task, dt float64) {
	budget := dt
	cycleStart := budget
	steps := t.seq.steps

	for !t.canceled {
		if t.index >= len(steps) {
			if t.runsLeft == 1 {
				s.drop(t)
				if t.seq.onDone != nil {
					t.seq.onDone()
				}
				return
			}
			if t.runsLeft > 1 {
				t.runsLeft--
			}
			t.index = 0
			// A cycle that consumed no time would spin forever.
			if budget == cycleStart {
				return
			}
			cycleStart = budget
			continue
		}

		st := steps[t.index]
		if st.Do != nil {
			t.index++
			st.Do()
			continue
		}

		remaining := st.Wait - t.elapsed
		if budget+epsilon >= remaining {
			budget -= remaining
			if budget < 0 {
				budget = 0
			}
			t.elapsed = 0
			t.index++
			continue
		}
		t.elapsed += budget
		return
	}
}

func (s *Scheduler) find(key string) *task {
	for _, t := range s.tasks {
		if t.key == key {
			return t
		}
	}
	return nil
}

func (s *Scheduler) drop(t *task) {
	t.canceled = true
	for i, other := range s.tasks {
		if other == t {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return
		}
	}
}
