package array

import (
	"sync/atomic"
	"unsafe"

	"github.com/JohnCGriffin/overflow"
	"github.com/d-willis/medley"
	"github.com/d-willis/medley/bitutil"
	"github.com/d-willis/medley/internal/debug"
	"github.com/d-willis/medley/memory"
)

// A bufferBuilder provides common functionality for populating memory with a sequence of type-specific values.
// Specialized implementations provide type-safe APIs for appending and accessing the memory.
type bufferBuilder struct {
	refCount int64
	mem      memory.Allocator
	buffer   *memory.Buffer
	length   int
	capacity int

	bytes []byte
}

// Retain increases the reference count by 1.
// Retain may be called simultaneously from multiple goroutines.
func (b *bufferBuilder) Retain() {
	atomic.AddInt64(&b.refCount, 1)
}

// Release decreases the reference count by 1.
// When the reference count goes to zero, the memory is freed.
// Release may be called simultaneously from multiple goroutines.
func (b *bufferBuilder) Release() {
	debug.Assert(atomic.LoadInt64(&b.refCount) > 0, "too many releases")

	if atomic.AddInt64(&b.refCount, -1) == 0 {
		if b.buffer != nil {
			b.buffer.Release()
			b.buffer, b.bytes = nil, nil
		}
	}
}

// Len returns the length of the memory buffer in bytes.
func (b *bufferBuilder) Len() int { return b.length }

// Cap returns the total number of bytes that can be stored without allocating additional memory.
func (b *bufferBuilder) Cap() int { return b.capacity }

// Bytes returns a slice of length b.Len().
// The slice is only valid for use until the next buffer modification. That is, until the next call
// to Advance, Reset, Finish or any Append function. The slice aliases the buffer content at least until the next
// buffer modification.
func (b *bufferBuilder) Bytes() []byte { return b.bytes[:b.length] }

func (b *bufferBuilder) resize(elements int) {
	if b.buffer == nil {
		b.buffer = memory.NewResizableBuffer(b.mem)
	}

	b.buffer.ResizeNoShrink(elements)
	oldCapacity := b.capacity
	b.capacity = b.buffer.Cap()
	b.bytes = b.buffer.Buf()

	if b.capacity > oldCapacity {
		memory.Set(b.bytes[oldCapacity:], 0)
	}
}

// Advance increases the buffer by length and initializes the skipped bytes to zero.
func (b *bufferBuilder) Advance(length int) {
	total, ok := overflow.Add(b.length, length)
	if !ok {
		panic("medley/array: buffer size overflow")
	}
	if b.capacity < total {
		b.resize(bitutil.NextPowerOf2(total))
	}
	b.length = total
}

// Append appends the contents of v to the buffer, resizing it if necessary.
func (b *bufferBuilder) Append(v []byte) {
	total, ok := overflow.Add(b.length, len(v))
	if !ok {
		panic("medley/array: buffer size overflow")
	}
	if b.capacity < total {
		b.resize(bitutil.NextPowerOf2(total))
	}
	b.unsafeAppend(v)
}

// Reset returns the buffer to an empty state. Reset releases the memory and sets the length and capacity to zero.
func (b *bufferBuilder) Reset() {
	if b.buffer != nil {
		b.buffer.Release()
	}
	b.buffer, b.bytes = nil, nil
	b.capacity, b.length = 0, 0
}

// Finish returns the buffer trimmed to the written length and resets the
// builder so it can be reused. The caller assumes ownership of the returned
// buffer and must call Release on it once done.
func (b *bufferBuilder) Finish() (buffer *memory.Buffer) {
	if b.length > 0 {
		b.buffer.ResizeNoShrink(b.length)
	}
	buffer = b.buffer
	b.buffer = nil
	b.Reset()
	if buffer == nil {
		buffer = memory.NewBufferBytes(nil)
	}
	return
}

func (b *bufferBuilder) unsafeAppend(data []byte) {
	copy(b.bytes[b.length:], data)
	b.length += len(data)
}

// typedBufferBuilder provides a type-safe wrapper around bufferBuilder for
// appending and accessing fixed width values.
type typedBufferBuilder[T medley.NativeType] struct {
	bufferBuilder
}

func newTypedBufferBuilder[T medley.NativeType](mem memory.Allocator) *typedBufferBuilder[T] {
	return &typedBufferBuilder[T]{bufferBuilder: bufferBuilder{refCount: 1, mem: mem}}
}

func (b *typedBufferBuilder[T]) reserve(elements int) {
	if want := elements * int(unsafe.Sizeof(*new(T))); want > b.capacity {
		b.resize(bitutil.NextPowerOf2(want))
	}
}

// AppendValue appends v to the buffer, growing the buffer as needed.
func (b *typedBufferBuilder[T]) AppendValue(v T) {
	sz := int(unsafe.Sizeof(v))
	total, ok := overflow.Add(b.length, sz)
	if !ok {
		panic("medley/array: buffer size overflow")
	}
	if b.capacity < total {
		b.resize(bitutil.NextPowerOf2(total))
	}
	*(*T)(unsafe.Pointer(&b.bytes[b.length])) = v
	b.length = total
}

// AppendValues appends the contents of v to the buffer, growing the buffer as needed.
func (b *typedBufferBuilder[T]) AppendValues(v []T) { b.Append(medley.CastToBytes(v)) }

// Values returns a slice of length b.Len().
// The slice is only valid for use until the next buffer modification. That is, until the next call
// to Advance, Reset, Finish or any Append function. The slice aliases the buffer content at least until the next
// buffer modification.
func (b *typedBufferBuilder[T]) Values() []T { return medley.CastFromBytes[T](b.Bytes()) }

// Value returns the element at the index i. Value will panic if i is negative or ≥ Len.
func (b *typedBufferBuilder[T]) Value(i int) T { return b.Values()[i] }

// Len returns the number of elements in the buffer.
func (b *typedBufferBuilder[T]) Len() int { return b.length / int(unsafe.Sizeof(*new(T))) }

// appendNull advances the buffer by one zeroed element.
func (b *typedBufferBuilder[T]) appendNull() { b.Advance(int(unsafe.Sizeof(*new(T)))) }
