package optimizer

import "hash/fnv"

// tabuList is a fixed-size recency list of accepted move hashes,
// evicted FIFO. Optimize refuses a non-improving move whose hash is
// listed. A hash names the move's kind, its shift keys and, where there
// is one, the incoming resident, so swapping the same two shifts again
// in the same order is blocked, while the inverse of a reassign, fill,
// drop or reshape hashes differently and is not.
type tabuList struct {
	set   map[uint64]bool
	order []uint64
	size  int
}

func newTabuList(size int) *tabuList {
	if size <= 0 {
		size = 1
	}
	return &tabuList{set: make(map[uint64]bool, size), size: size}
}

func (t *tabuList) contains(h uint64) bool {
	return t.set[h]
}

func (t *tabuList) add(h uint64) {
	if t.set[h] {
		return
	}
	t.set[h] = true
	t.order = append(t.order, h)
	if len(t.order) > t.size {
		oldest := t.order[0]
		t.order = t.order[1:]
		delete(t.set, oldest)
	}
}

func hashKey(parts ...string) uint64 {
	h := fnv.New64a()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return h.Sum64()
}
