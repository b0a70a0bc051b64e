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
	"github.com/d-willis/medley"
	"github.com/goccy/go-json"
)

// Date32 represents an immutable sequence of medley.Date32 values.
type Date32 struct {
	numericArray[medley.Date32]
}

// NewDate32Data creates a new Date32 array from data.
func NewDate32Data(data medley.ArrayData) *Date32 {
	a := &Date32{}
	a.refCount = 1
	a.setData(data.(*Data))
	return a
}

// Date32Values returns the values.
func (a *Date32) Date32Values() []medley.Date32 { return a.Values() }

func (a *Date32) getOneForMarshal(i int) interface{} {
	if a.IsValid(i) {
		return a.values[i].FormattedString()
	}
	return nil
}

func (a *Date32) MarshalJSON() ([]byte, error) {
	vals := make([]interface{}, a.Len())
	for i := 0; i < a.Len(); i++ {
		vals[i] = a.getOneForMarshal(i)
	}
	return json.Marshal(vals)
}

// Date64 represents an immutable sequence of medley.Date64 values.
type Date64 struct {
	numericArray[medley.Date64]
}

// NewDate64Data creates a new Date64 array from data.
func NewDate64Data(data medley.ArrayData) *Date64 {
	a := &Date64{}
	a.refCount = 1
	a.setData(data.(*Data))
	return a
}

// Date64Values returns the values.
func (a *Date64) Date64Values() []medley.Date64 { return a.Values() }

func (a *Date64) getOneForMarshal(i int) interface{} {
	if a.IsValid(i) {
		return a.values[i].FormattedString()
	}
	return nil
}

func (a *Date64) MarshalJSON() ([]byte, error) {
	vals := make([]interface{}, a.Len())
	for i := 0; i < a.Len(); i++ {
		vals[i] = a.getOneForMarshal(i)
	}
	return json.Marshal(vals)
}

var (
	_ medley.Array = (*Date32)(nil)
	_ medley.Array = (*Date64)(nil)
)
