package redund

// Heap is the binary min-heap of active Sources, ordered by each source's
// current canonical key. It holds borrowed references to Sources (an outer
// registry in driver.go owns them), and its size shrinks monotonically as
// sources drain.
//
// This is a hand-rolled sift-down heap rather than container/heap:
// container/heap's Pop/Push model doesn't expose a single replace-top
// operation, and a k-way merge needs one explicitly (re-sift after the
// top's record changes, or swap-last-and-shrink when the top drains).
// Mirrors the manual heap in the k-way merge sorter pattern used elsewhere
// in this corpus (a plain []T slice with up/down helpers, avoiding
// container/heap's interface-boxing).
type Heap struct {
	items []*Source
}

// NewHeap builds a Heap over sources in O(n) via the standard heapify
// loop. sources must all be Active(); NewHeap takes ownership of the
// slice.
func NewHeap(sources []*Source) *Heap {
	h := &Heap{items: sources}
	n := len(h.items)
	for i := n/2 - 1; i >= 0; i-- {
		h.siftDown(i)
	}
	return h
}

// Len returns the number of active sources remaining in the heap.
func (h *Heap) Len() int { return len(h.items) }

// Peek returns the source with the smallest current canonical key, or nil
// if the heap is empty.
func (h *Heap) Peek() *Source {
	if len(h.items) == 0 {
		return nil
	}
	return h.items[0]
}

func (h *Heap) less(i, j int) bool {
	return KeyCompare(h.items[i].CurrentKey(), h.items[j].CurrentKey()) < 0
}

// siftDown restores the heap property at i, assuming both children's
// subtrees already satisfy it. A tie between parent and child does not
// cause a swap.
func (h *Heap) siftDown(i int) {
	n := len(h.items)
	for {
		left := 2*i + 1
		if left >= n {
			return
		}
		smallest := left
		if right := left + 1; right < n && h.less(right, left) {
			smallest = right
		}
		if !h.less(smallest, i) {
			return
		}
		h.items[i], h.items[smallest] = h.items[smallest], h.items[i]
		i = smallest
	}
}

// ReplaceTop restores the heap property at the root. Call it after the
// top source's current record has been advanced: if the source drained,
// it is removed from the heap (swap the last element into slot 0, shrink,
// sift down); otherwise the top is re-sifted into place.
func (h *Heap) ReplaceTop() {
	if len(h.items) == 0 {
		return
	}
	if !h.items[0].Active() {
		h.removeTop()
		return
	}
	h.siftDown(0)
}

func (h *Heap) removeTop() {
	n := len(h.items)
	h.items[0] = h.items[n-1]
	h.items[n-1] = nil
	h.items = h.items[:n-1]
	if len(h.items) > 0 {
		h.siftDown(0)
	}
}
