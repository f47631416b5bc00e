package solver

import "sync"

// workDeque is a double-ended queue of root indices for work stealing. The
// owning worker pops from the bottom; idle workers steal from the top.
type workDeque struct {
	mu      sync.Mutex
	indices []int
	top     int
	bottom  int
}

func newWorkDeque(indices []int) *workDeque {
	return &workDeque{indices: indices, bottom: len(indices)}
}

// Pop removes and returns an index from the bottom.
func (d *workDeque) Pop() (int, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.bottom <= d.top {
		return -1, false
	}
	d.bottom--
	return d.indices[d.bottom], true
}

// Steal removes and returns an index from the top.
func (d *workDeque) Steal() (int, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.bottom <= d.top {
		return -1, false
	}
	idx := d.indices[d.top]
	d.top++
	return idx, true
}

func (d *workDeque) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.bottom - d.top
}

// distribute deals n indices round-robin into one deque per worker.
func distribute(n, workers int) []*workDeque {
	buckets := make([][]int, workers)
	for i := 0; i < n; i++ {
		buckets[i%workers] = append(buckets[i%workers], i)
	}
	deques := make([]*workDeque, workers)
	for t := range deques {
		deques[t] = newWorkDeque(buckets[t])
	}
	return deques
}

// next returns the next index for worker t: its own work first, then work
// stolen from the fullest other deque.
func next(deques []*workDeque, t int) (int, bool) {
	if idx, ok := deques[t].Pop(); ok {
		return idx, true
	}
	for {
		victim, size := -1, 0
		for i, d := range deques {
			if i == t {
				continue
			}
			if sz := d.Size(); sz > size {
				victim, size = i, sz
			}
		}
		if victim < 0 {
			return -1, false
		}
		if idx, ok := deques[victim].Steal(); ok {
			return idx, true
		}
	}
}
