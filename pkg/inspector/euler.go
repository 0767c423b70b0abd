package inspector

import (
	"fmt"

	"github.com/seen-one/Route-Crafter/pkg/datastructure"
	"github.com/seen-one/Route-Crafter/pkg/util"
)

// EdgePickPolicy which unused edge end the circuit builder consumes next.
// Every policy yields a valid eulerian circuit, they only change its shape.
type EdgePickPolicy int

const (
	// PickLIFO consume the most recently added bag entry
	PickLIFO EdgePickPolicy = iota
	// PickAvoidBacktrack prefer an entry that does not immediately return to
	// the node we just came from, LIFO among the candidates
	PickAvoidBacktrack
)

// EulerianCircuit hierholzer with an explicit stack, O(E) counted with
// multiplicity. The walk starts and ends at start and consumes every bag
// entry of adj exactly once.
func EulerianCircuit(adj *datastructure.AdjacencyIndex, start int32, policy EdgePickPolicy) (datastructure.Walk, error) {
	if start < 0 || int(start) >= adj.NumNodes() {
		return nil, fmt.Errorf("start node %d out of range", start)
	}

	totalEnds := 0
	for u := int32(0); int(u) < adj.NumNodes(); u++ {
		d := adj.Degree(u)
		if d%2 == 1 {
			return nil, fmt.Errorf("%w: node %d has odd degree %d", ErrNotEulerian, u, d)
		}
		totalEnds += d
	}
	edgeCount := totalEnds / 2

	circuit := make([]int32, 0, edgeCount+1)
	stack := []int32{start}

	for len(stack) > 0 {
		u := stack[len(stack)-1]
		if adj.Degree(u) == 0 {
			// no unused edge end left: backtrack
			circuit = append(circuit, u)
			stack = stack[:len(stack)-1]
		} else {
			prev := int32(-1)
			if len(stack) > 1 {
				prev = stack[len(stack)-2]
			}
			entry := adj.Take(u, pickEntry(adj.Entries(u), prev, policy))
			stack = append(stack, entry.To)
		}
	}

	if len(circuit) != edgeCount+1 {
		return nil, fmt.Errorf("%w: only %d of %d edges reachable from start %d",
			ErrNotEulerian, len(circuit)-1, edgeCount, start)
	}

	// splice order comes out reversed, flip it into walking order
	util.ReverseG(circuit)
	return datastructure.Walk(circuit), nil
}

func pickEntry(entries []datastructure.BagEntry, prev int32, policy EdgePickPolicy) int {
	last := len(entries) - 1
	if policy == PickAvoidBacktrack && prev >= 0 {
		for i := last; i >= 0; i-- {
			if entries[i].To != prev {
				return i
			}
		}
	}
	return last
}
