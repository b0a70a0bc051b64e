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
	"reflect"

	"golang.org/x/exp/slices"
)

// TypeEqual checks if two DataType are the same, nested types are
// traversed and compared field by field.
func TypeEqual(left, right DataType) bool {
	switch {
	case left == nil || right == nil:
		return false
	case left.ID() != right.ID():
		return false
	}

	switch l := left.(type) {
	case UnionType:
		r := right.(UnionType)
		if l.Mode() != r.Mode() {
			return false
		}
		if !slices.Equal(l.TypeCodes(), r.TypeCodes()) {
			return false
		}
		leftFields, rightFields := l.Fields(), r.Fields()
		if len(leftFields) != len(rightFields) {
			return false
		}
		for i := range leftFields {
			if !leftFields[i].Equal(rightFields[i]) {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(left, right)
	}
}
