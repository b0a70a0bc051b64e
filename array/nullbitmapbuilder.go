// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package array

import (
	"sync/atomic"

	"github.com/d-willis/medley/bitutil"
	"github.com/d-willis/medley/internal/debug"
	"github.com/d-willis/medley/memory"
)

const (
	minBuilderCapacity = 1 << 5
)

// nullBitmapBuilder populates a validity bitmap one value at a time.
type nullBitmapBuilder struct {
	refCount int64
	mem      memory.Allocator

	nullBitmap *memory.Buffer
	nulls      int
	length     int
	capacity   int
}

func newNullBitmapBuilder(mem memory.Allocator) *nullBitmapBuilder {
	return &nullBitmapBuilder{refCount: 1, mem: mem}
}

// Retain increases the reference count by 1.
// Retain may be called simultaneously from multiple goroutines.
func (b *nullBitmapBuilder) Retain() {
	atomic.AddInt64(&b.refCount, 1)
}

// Release decreases the reference count by 1.
// When the reference count goes to zero, the memory is freed.
// Release may be called simultaneously from multiple goroutines.
func (b *nullBitmapBuilder) Release() {
	debug.Assert(atomic.LoadInt64(&b.refCount) > 0, "too many releases")

	if atomic.AddInt64(&b.refCount, -1) == 0 {
		if b.nullBitmap != nil {
			b.nullBitmap.Release()
			b.nullBitmap = nil
		}
	}
}

// Len returns the number of validity bits appended so far.
func (b *nullBitmapBuilder) Len() int { return b.length }

// NullN returns the number of null bits appended so far.
func (b *nullBitmapBuilder) NullN() int { return b.nulls }

func (b *nullBitmapBuilder) init(capacity int) {
	toAlloc := bitutil.CeilByte(capacity) / 8
	b.nullBitmap = memory.NewResizableBuffer(b.mem)
	b.nullBitmap.Resize(toAlloc)
	b.capacity = capacity
	memory.Set(b.nullBitmap.Buf(), 0)
}

func (b *nullBitmapBuilder) reserve(elements int) {
	if b.length+elements > b.capacity {
		b.resize(bitutil.NextPowerOf2(b.length + elements))
	}
}

func (b *nullBitmapBuilder) resize(newBits int) {
	if newBits < minBuilderCapacity {
		newBits = minBuilderCapacity
	}

	if b.nullBitmap == nil {
		b.init(newBits)
		return
	}

	newBytesN := bitutil.CeilByte(newBits) / 8
	oldBytesN := b.nullBitmap.Len()
	b.nullBitmap.Resize(newBytesN)
	b.capacity = newBits
	if oldBytesN < newBytesN {
		memory.Set(b.nullBitmap.Buf()[oldBytesN:], 0)
	}
	if newBits < b.length {
		b.length = newBits
		b.nulls = newBits - bitutil.CountSetBits(b.nullBitmap.Buf(), 0, newBits)
	}
}

// AppendBool appends a validity bit, where true means valid and false means null.
func (b *nullBitmapBuilder) AppendBool(isValid bool) {
	b.reserve(1)
	b.unsafeAppendBool(isValid)
}

func (b *nullBitmapBuilder) unsafeAppendBool(isValid bool) {
	if isValid {
		bitutil.SetBit(b.nullBitmap.Buf(), b.length)
	} else {
		b.nulls++
	}
	b.length++
}

// Finish returns the validity bitmap trimmed to the appended length along
// with the number of nulls it records, and resets the builder. When no null
// was appended the bitmap is released and a nil buffer is returned, which
// stands for an all-valid array.
func (b *nullBitmapBuilder) Finish() (nullBitmap *memory.Buffer, nulls int) {
	nulls = b.nulls
	if b.nullBitmap != nil {
		if b.length > 0 {
			b.nullBitmap.Resize(bitutil.CeilByte(b.length) / 8)
		}
		if nulls == 0 {
			b.nullBitmap.Release()
		} else {
			nullBitmap = b.nullBitmap
		}
		b.nullBitmap = nil
	}
	b.nulls, b.length, b.capacity = 0, 0, 0
	return
}
