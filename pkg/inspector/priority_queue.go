package inspector

import (
	"errors"

	"golang.org/x/exp/constraints"
)

type Item interface {
	constraints.Integer
}

type PriorityQueueNode[T Item] struct {
	Rank float64
	Item T
}

// MinHeap binary heap priorityqueue
type MinHeap[T Item] struct {
	heap []PriorityQueueNode[T]
	pos  map[T]int
}

func NewMinHeap[T Item]() *MinHeap[T] {
	return &MinHeap[T]{
		heap: make([]PriorityQueueNode[T], 0),
		pos:  make(map[T]int),
	}
}

// parent get index of parent
func (h *MinHeap[T]) parent(index int) int {
	return (index - 1) / 2
}

// leftChild get index of left child
func (h *MinHeap[T]) leftChild(index int) int {
	return 2*index + 1
}

// rightChild get index of right child
func (h *MinHeap[T]) rightChild(index int) int {
	return 2*index + 2
}

// heapifyUp maintain heap property. check whether parent of index is bigger, if yes swap, then recursive to parent. O(logN) tree height.
func (h *MinHeap[T]) heapifyUp(index int) {
	for index != 0 && h.heap[index].Rank < h.heap[h.parent(index)].Rank {
		h.heap[index], h.heap[h.parent(index)] = h.heap[h.parent(index)], h.heap[index]

		h.pos[h.heap[index].Item] = index
		h.pos[h.heap[h.parent(index)].Item] = h.parent(index)
		index = h.parent(index)
	}
}

// heapifyDown maintain heap property. check whether one of the children of index is smaller, if yes swap, then recursive to that child. O(logN) tree height.
func (h *MinHeap[T]) heapifyDown(index int) {
	smallest := index
	left := h.leftChild(index)
	right := h.rightChild(index)

	if left < len(h.heap) && h.heap[left].Rank < h.heap[smallest].Rank {
		smallest = left
	}
	if right < len(h.heap) && h.heap[right].Rank < h.heap[smallest].Rank {
		smallest = right
	}
	if smallest != index {
		h.heap[index], h.heap[smallest] = h.heap[smallest], h.heap[index]
		h.pos[h.heap[index].Item] = index
		h.pos[h.heap[smallest].Item] = smallest

		h.heapifyDown(smallest)
	}
}

// isEmpty check whether the heap is empty
func (h *MinHeap[T]) isEmpty() bool {
	return len(h.heap) == 0
}

// Size heap size
func (h *MinHeap[T]) Size() int {
	return len(h.heap)
}

// GetMin get minimum item of the min-heap (index 0)
func (h *MinHeap[T]) GetMin() (PriorityQueueNode[T], error) {
	if h.isEmpty() {
		return PriorityQueueNode[T]{}, errors.New("heap is empty")
	}
	return h.heap[0], nil
}

// Insert new item
func (h *MinHeap[T]) Insert(key PriorityQueueNode[T]) {
	h.heap = append(h.heap, key)
	index := h.Size() - 1
	h.pos[key.Item] = index
	h.heapifyUp(index)
}

// ExtractMin take minimum item of the min-heap (index 0) & pop it from the heap. O(logN), heapifyDown(0) O(logN)
func (h *MinHeap[T]) ExtractMin() (PriorityQueueNode[T], error) {
	if h.isEmpty() {
		return PriorityQueueNode[T]{}, errors.New("heap is empty")
	}
	root := h.heap[0]
	h.heap[0] = h.heap[h.Size()-1]
	h.heap = h.heap[:h.Size()-1]
	h.pos[root.Item] = -1
	h.heapifyDown(0)
	return root, nil
}

// Contains check whether item is still inside the heap
func (h *MinHeap[T]) Contains(item T) bool {
	p, ok := h.pos[item]
	return ok && p >= 0 && p < h.Size()
}

// DecreaseKey update Rank of a heap item. O(logN) heapify.
func (h *MinHeap[T]) DecreaseKey(item PriorityQueueNode[T]) error {
	if h.pos[item.Item] < 0 || h.pos[item.Item] >= h.Size() || item.Rank > h.heap[h.pos[item.Item]].Rank {
		return errors.New("invalid index or new value")
	}
	h.heap[h.pos[item.Item]] = item
	h.heapifyUp(h.pos[item.Item])
	return nil
}
