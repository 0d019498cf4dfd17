package common

import (
	"unsafe"
)

// SliceToBytes reinterprets a slice of fixed-layout values as raw bytes for GPU upload.
// No encoding step is performed: the element type's field order and padding are the wire format.
// The returned slice aliases the input's memory.
//
// Parameters:
//   - data: source slice of any fixed-layout type
//
// Returns:
//   - []byte: byte view of the input data, or nil if the input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), int(unsafe.Sizeof(zero))*len(data))
}

// StructToBytes reinterprets a pointer to a struct as a raw byte slice of the struct's size.
//
// Parameters:
//   - v: pointer to the struct to reinterpret
//
// Returns:
//   - []byte: byte view of the struct's memory
func StructToBytes[T any](v *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), int(unsafe.Sizeof(*v)))
}

// BytesToSlice reinterprets a raw byte blob as a slice of T. Trailing bytes that do not form a
// whole element are ignored. The returned slice aliases the input's memory.
//
// Parameters:
//   - data: the raw bytes
//
// Returns:
//   - []T: the element view of data, or nil if data holds less than one element
func BytesToSlice[T any](data []byte) []T {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if size == 0 || len(data) < size {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&data[0])), len(data)/size)
}

// Coalesce returns the first non-zero value, or the zero value if every value is zero.
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}
