package planner

// node is one frontier entry. seq breaks priority ties in push order so
// planning is deterministic.
type node struct {
	state    state
	priority float64 // f = g + unmet × weight
	seq      int
	index    int
}

// frontier is a min-heap of nodes for container/heap.
type frontier []*node

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	if f[i].priority != f[j].priority {
		return f[i].priority < f[j].priority
	}
	return f[i].seq < f[j].seq
}

func (f frontier) Swap(i, j int) {
	f[i], f[j] = f[j], f[i]
	f[i].index = i
	f[j].index = j
}

func (f *frontier) Push(x any) {
	n := x.(*node)
	n.index = len(*f)
	*f = append(*f, n)
}

func (f *frontier) Pop() any {
	old := *f
	last := len(old) - 1
	n := old[last]
	old[last] = nil
	n.index = -1
	*f = old[:last]
	return n
}
