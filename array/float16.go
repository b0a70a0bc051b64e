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
	"fmt"
	"strings"

	"github.com/d-willis/medley"
	"github.com/d-willis/medley/float16"
	"github.com/goccy/go-json"
)

// Float16 represents an immutable sequence of Float16 values.
type Float16 struct {
	numericArray[float16.Num]
}

// NewFloat16Data creates a new Float16 array from data.
func NewFloat16Data(data medley.ArrayData) *Float16 {
	a := &Float16{}
	a.refCount = 1
	a.setData(data.(*Data))
	return a
}

// Float16Values returns the values.
func (a *Float16) Float16Values() []float16.Num { return a.Values() }

func (a *Float16) getOneForMarshal(i int) interface{} {
	if a.IsValid(i) {
		return a.values[i].Float32()
	}
	return nil
}

func (a *Float16) MarshalJSON() ([]byte, error) {
	vals := make([]interface{}, a.Len())
	for i := 0; i < a.Len(); i++ {
		vals[i] = a.getOneForMarshal(i)
	}
	return json.Marshal(vals)
}

func (a *Float16) String() string {
	o := new(strings.Builder)
	o.WriteString("[")
	for i := 0; i < a.Len(); i++ {
		if i > 0 {
			fmt.Fprintf(o, " ")
		}
		switch {
		case a.IsNull(i):
			o.WriteString(NullValueStr)
		default:
			fmt.Fprintf(o, "%v", a.values[i].Float32())
		}
	}
	o.WriteString("]")
	return o.String()
}

var (
	_ medley.Array = (*Float16)(nil)
)
