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

package medley

import (
	"fmt"
	"strconv"
	"strings"
)

// Field represents a named typed value, such as a column of a
// union type.
type Field struct {
	Name     string
	Type     DataType
	Nullable bool
}

func (f Field) Fingerprint() string {
	typeFingerprint := f.Type.Fingerprint()
	if typeFingerprint == "" {
		return ""
	}

	var b strings.Builder
	b.WriteByte('F')
	if f.Nullable {
		b.WriteByte('n')
	} else {
		b.WriteByte('N')
	}
	b.WriteString(f.Name)
	b.WriteByte('{')
	b.WriteString(typeFingerprint)
	b.WriteByte('}')
	return b.String()
}

func (f Field) Equal(o Field) bool {
	switch {
	case f.Name != o.Name:
		return false
	case f.Nullable != o.Nullable:
		return false
	case !TypeEqual(f.Type, o.Type):
		return false
	}
	return true
}

func (f Field) String() string {
	o := new(strings.Builder)
	nullable := ""
	if f.Nullable {
		nullable = ", nullable"
	}
	fmt.Fprintf(o, "%s: type=%v%v", f.Name, f.Type, nullable)
	return o.String()
}

// UnionTypeCode is an alias to int8 which is the type of the ids
// used for union arrays.
type UnionTypeCode = int8

const (
	// MaxUnionTypeCode is the maximum allowed value for a type id of
	// a union field.
	MaxUnionTypeCode UnionTypeCode = 127
	// InvalidUnionChildID is returned from ChildIDs lookups for type
	// ids which have no associated field.
	InvalidUnionChildID int = -1
)

// UnionMode is either SparseMode or DenseMode, the layouts a union
// array can have.
type UnionMode int8

const (
	SparseMode UnionMode = iota
	DenseMode
)

func (m UnionMode) String() string {
	switch m {
	case SparseMode:
		return "SPARSE"
	case DenseMode:
		return "DENSE"
	}
	return "(unknown)"
}

// UnionType is an interface to encompass both Dense and Sparse Union
// types.
//
// A UnionType is a nested type where each logical value is taken
// from a single child. A buffer of 8-bit type ids (the type codes)
// indicates which child a given logical value is to be taken from.
// This is represented as the UnionTypeCode.
type UnionType interface {
	NestedType
	// Mode returns either SparseMode or DenseMode depending on the current
	// concrete data type.
	Mode() UnionMode
	// ChildIDs returns a slice of ints to map UnionTypeCode values to
	// the index in the Fields. A type code with no field maps to
	// InvalidUnionChildID.
	ChildIDs() []int
	// TypeCodes returns the list of available type codes for this union
	// which will correspond to indexes into the ChildIDs slice to locate
	// the appropriate child. A union Array contains a buffer of these
	// type codes which indicate for a given index, which child has the
	// value for that index.
	TypeCodes() []UnionTypeCode
	// MaxTypeCode returns the value of the largest TypeCode in the list
	// of typecodes that are defined by this Union type
	MaxTypeCode() UnionTypeCode
}

type unionType struct {
	children  []Field
	typeCodes []UnionTypeCode
	childIDs  [int(MaxUnionTypeCode) + 1]int
}

func (t *unionType) init(fields []Field, typeCodes []UnionTypeCode) {
	if len(fields) != len(typeCodes) {
		panic("medley: union fields and type codes must have the same length")
	}

	t.children = fields
	t.typeCodes = typeCodes

	for i := range t.childIDs {
		t.childIDs[i] = InvalidUnionChildID
	}

	for i, tc := range t.typeCodes {
		if tc < 0 {
			panic("medley: union type codes must be positive")
		}
		if t.childIDs[tc] != InvalidUnionChildID {
			panic("medley: union type codes must be unique")
		}
		t.childIDs[tc] = i
	}
}

// Fields returns a copy of the fields of this union so they can be
// manipulated without mutating the type.
func (t *unionType) Fields() []Field {
	fields := make([]Field, len(t.children))
	copy(fields, t.children)
	return fields
}

func (t *unionType) TypeCodes() []UnionTypeCode { return t.typeCodes }

func (t *unionType) ChildIDs() []int { return t.childIDs[:] }

func (t *unionType) MaxTypeCode() (max UnionTypeCode) {
	if len(t.typeCodes) == 0 {
		return
	}

	max = t.typeCodes[0]
	for _, c := range t.typeCodes[1:] {
		if c > max {
			max = c
		}
	}
	return
}

func (t *unionType) string() string {
	var o strings.Builder
	for i := range t.typeCodes {
		if i > 0 {
			o.WriteString(", ")
		}
		fmt.Fprintf(&o, "%v=%d", t.children[i], t.typeCodes[i])
	}
	return o.String()
}

func (t *unionType) fingerprint() string {
	var b strings.Builder
	b.WriteByte('[')
	for _, c := range t.typeCodes {
		fmt.Fprintf(&b, ":%d", c)
	}
	b.WriteString("]{")
	for _, c := range t.children {
		fingerprint := c.Fingerprint()
		if len(fingerprint) == 0 {
			return ""
		}
		b.WriteString(fingerprint)
		b.WriteByte(';')
	}
	b.WriteByte('}')
	return b.String()
}

// UnionOf returns an appropriate union type for the given Mode (Sparse
// or Dense), child fields, and type codes. len(fields) == len(typeCodes)
// must be true, and all type codes must be non-negative and unique, or
// this will panic.
func UnionOf(mode UnionMode, fields []Field, typeCodes []UnionTypeCode) UnionType {
	switch mode {
	case SparseMode:
		return SparseUnionOf(fields, typeCodes)
	case DenseMode:
		return DenseUnionOf(fields, typeCodes)
	default:
		panic("medley: invalid union mode")
	}
}

func unionFieldsFromArrays(children []Array, fields []string, codes []UnionTypeCode) ([]Field, []UnionTypeCode) {
	if len(codes) == 0 {
		codes = make([]UnionTypeCode, len(children))
		for i := range children {
			codes[i] = UnionTypeCode(i)
		}
	}
	arrFields := make([]Field, len(children))
	for i, c := range children {
		name := strconv.Itoa(i)
		if len(fields) != 0 {
			name = fields[i]
		}
		arrFields[i] = Field{Name: name, Type: c.DataType(), Nullable: true}
	}
	return arrFields, codes
}

// SparseUnionFromArrays enables creating a union type from a list of
// Arrays, field names, and type codes. len(fields) should be either 0 or
// equal to len(children). len(codes) should also be either 0, or equal to
// len(children).
//
// If len(fields) == 0, then the fields will be named numerically as "0",
// "1", "2"... and so on. If len(codes) == 0, then the type codes will be
// constructed as [0, 1, 2, ..., n].
func SparseUnionFromArrays(children []Array, fields []string, codes []UnionTypeCode) *SparseUnionType {
	arrFields, codes := unionFieldsFromArrays(children, fields, codes)
	return SparseUnionOf(arrFields, codes)
}

// DenseUnionFromArrays enables creating a union type from a list of
// Arrays, field names, and type codes. len(fields) should be either 0 or
// equal to len(children). len(codes) should also be either 0, or equal to
// len(children).
//
// If len(fields) == 0, then the fields will be named numerically as "0",
// "1", "2"... and so on. If len(codes) == 0, then the type codes will be
// constructed as [0, 1, 2, ..., n].
func DenseUnionFromArrays(children []Array, fields []string, codes []UnionTypeCode) *DenseUnionType {
	arrFields, codes := unionFieldsFromArrays(children, fields, codes)
	return DenseUnionOf(arrFields, codes)
}

// SparseUnionType is the concrete type for sparse union data.
//
// A sparse union is a nested type where each logical value is taken from
// a single child. A buffer of 8-bit type ids indicates which child a given
// logical value is to be taken from. In a sparse union, each child array
// has the same length as the union array itself.
type SparseUnionType struct {
	unionType
}

// SparseUnionOf is equivalent to UnionOf(SparseMode, fields, typeCodes),
// constructing a SparseUnionType from a list of fields and type codes.
//
// If len(fields) != len(typeCodes) or any type code is negative or appears
// twice, this will panic.
func SparseUnionOf(fields []Field, typeCodes []UnionTypeCode) *SparseUnionType {
	ret := &SparseUnionType{}
	ret.init(fields, typeCodes)
	return ret
}

func (SparseUnionType) ID() Type        { return SPARSE_UNION }
func (SparseUnionType) Name() string    { return "sparse_union" }
func (SparseUnionType) Mode() UnionMode { return SparseMode }

func (t *SparseUnionType) String() string {
	return t.Name() + "<" + t.string() + ">"
}

func (t *SparseUnionType) Fingerprint() string {
	body := t.fingerprint()
	if body == "" {
		return ""
	}
	return typeFingerprint(t) + body
}

// DenseUnionType is the concrete type for dense union data.
//
// A dense union is a nested type where each logical value is taken from a
// single child, at a specific offset. A buffer of 8-bit type ids indicates
// which child a given logical value is to be taken from, and a buffer of
// 32-bit offsets indicates at which physical position in the given child
// array the logical value is to be taken from.
//
// Unlike a sparse union, a dense union allows encoding only the child values
// which are actually referred to by the union array. This is counterbalanced
// by the additional footprint of the offsets buffer, and the additional
// indirection cost when looking up values.
type DenseUnionType struct {
	unionType
}

// DenseUnionOf is equivalent to UnionOf(DenseMode, fields, typeCodes),
// constructing a DenseUnionType from a list of fields and type codes.
//
// If len(fields) != len(typeCodes) or any type code is negative or appears
// twice, this will panic.
func DenseUnionOf(fields []Field, typeCodes []UnionTypeCode) *DenseUnionType {
	ret := &DenseUnionType{}
	ret.init(fields, typeCodes)
	return ret
}

func (DenseUnionType) ID() Type        { return DENSE_UNION }
func (DenseUnionType) Name() string    { return "dense_union" }
func (DenseUnionType) Mode() UnionMode { return DenseMode }

func (t *DenseUnionType) String() string {
	return t.Name() + "<" + t.string() + ">"
}

func (t *DenseUnionType) Fingerprint() string {
	body := t.fingerprint()
	if body == "" {
		return ""
	}
	return typeFingerprint(t) + body
}

var (
	_ UnionType = (*SparseUnionType)(nil)
	_ UnionType = (*DenseUnionType)(nil)
)
