package lap

import "time"

// historyDepth is how many completed lap durations are retained.
const historyDepth = 5

// History is a fixed-depth ring of completed lap durations. Pushing beyond
// capacity evicts the oldest entry.
type History struct {
	d    [historyDepth]time.Duration
	head int
	n    int
}

func (h *History) Push(d time.Duration) {
	h.head = (h.head + 1) % historyDepth
	h.d[h.head] = d
	if h.n < historyDepth {
		h.n++
	}
}

func (h *History) Len() int {
	return h.n
}

// At returns the i-th most recent duration, 0 being the newest.
func (h *History) At(i int) (time.Duration, bool) {
	if i < 0 || i >= h.n {
		return 0, false
	}
	return h.d[(h.head-i+historyDepth)%historyDepth], true
}

// Recent returns the retained durations, newest first.
func (h *History) Recent() []time.Duration {
	out := make([]time.Duration, 0, h.n)
	for i := 0; i < h.n; i++ {
		v, _ := h.At(i)
		out = append(out, v)
	}
	return out
}
