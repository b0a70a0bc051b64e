/*
Package medley provides union typed columnar arrays.

A union array holds a sequence of values which may be of differing types. Each
row of the union carries a type code naming the member field the value belongs
to, and each member field stores its values in a contiguous typed child array
with a validity bitmap that indicates if the corresponding entry is valid (not
null).

# Layouts

Two physical layouts are supported. In the sparse layout every child array has
the same length as the union itself, and row i of the union reads from row i of
the selected child. In the dense layout each child only holds the values that
actually belong to it, and a companion buffer of int32 offsets locates the
value of row i inside the selected child.

Arrays are built with array.UnionBuilder and are immutable once built.
*/
package medley
