package circular

// Buffer is a fixed capacity ring. While filling, values land in natural order starting at
// slot zero. Once full, slot head holds the oldest value and every Push overwrites it before
// advancing head, so the buffer never reallocates.
type Buffer[T any] struct {
	capacity uint

	head uint
	size uint
	data []T
}

func NewBuffer[T any](capacity uint) *Buffer[T] {
	if capacity == 0 {
		panic("capacity must > 0")
	}
	return &Buffer[T]{
		capacity: capacity,
		data:     make([]T, capacity),
	}
}

func (b *Buffer[T]) IsFull() bool {
	return b.size == b.capacity
}

func (b *Buffer[T]) Head() uint {
	return b.head
}

func (b *Buffer[T]) Push(value T) {
	if b.size < b.capacity {
		b.data[b.size] = value
		b.size++
		return
	}
	b.data[b.head] = value
	b.head = (b.head + 1) % b.capacity
}

// Ahead returns the value j positions after the oldest one.
func (b *Buffer[T]) Ahead(j uint) T {
	if j >= b.size {
		panic("index out of range")
	}
	return b.data[(b.head+j)%b.capacity]
}

func (b *Buffer[T]) Oldest() T {
	return b.Ahead(0)
}
