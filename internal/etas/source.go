package etas

// source is one still-active excitation lane, rooted at a past earthquake.
//
// Lifecycle: created when an earthquake draws a finite first candidate time,
// re-armed (tnext redrawn) each time its candidate is realized, retired as
// soon as a draw yields no finite next occurrence. Sources are plain values
// owned exclusively by the scheduler's heap; they are never aliased.
type source struct {
	ti    float64 // origin time of the rooting earthquake
	mag   float64 // origin magnitude, fixes the lane's productivity
	tnext float64 // pending candidate occurrence time
}

// sourceHeap is a binary min-heap of active sources keyed by tnext,
// satisfying container/heap.Interface. Ties are broken arbitrarily; draws
// are continuous, so exact ties have probability zero.
type sourceHeap []source

func (h sourceHeap) Len() int           { return len(h) }
func (h sourceHeap) Less(i, j int) bool { return h[i].tnext < h[j].tnext }
func (h sourceHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *sourceHeap) Push(x any)        { *h = append(*h, x.(source)) }

func (h *sourceHeap) Pop() any {
	old := *h
	n := len(old)
	s := old[n-1]
	*h = old[:n-1]
	return s
}
