package sim

import "container/heap"

// pendingEvents is the min-heap behind EventClock. Earlier time wins; at equal
// time a Finish precedes a Start, and submission sequence breaks what is left.
// Callers hold the clock's lock.
type pendingEvents []*Event

func (p pendingEvents) Len() int { return len(p) }

func (p pendingEvents) Less(i, j int) bool {
	a, b := p[i], p[j]
	switch {
	case a.time != b.time:
		return a.time < b.time
	case a.Kind != b.Kind:
		return EventKindPriority[a.Kind] < EventKindPriority[b.Kind]
	default:
		return a.seq < b.seq
	}
}

func (p pendingEvents) Swap(i, j int) { p[i], p[j] = p[j], p[i] }

func (p *pendingEvents) Push(x any) { *p = append(*p, x.(*Event)) }

func (p *pendingEvents) Pop() any {
	old := *p
	last := old[len(old)-1]
	old[len(old)-1] = nil
	*p = old[:len(old)-1]
	return last
}

func (p *pendingEvents) push(e *Event) { heap.Push(p, e) }

// pop returns nil when nothing is pending.
func (p *pendingEvents) pop() *Event {
	if len(*p) == 0 {
		return nil
	}
	return heap.Pop(p).(*Event)
}

func (p pendingEvents) peek() *Event {
	if len(p) == 0 {
		return nil
	}
	return p[0]
}
