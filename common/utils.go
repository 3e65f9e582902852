package common

// Coalesce returns the first non-zero value from the provided values, or the zero value if all are zero.
//
// Parameters:
//   - values: a variadic list of values to check for non-zero status
//
// Returns:
//   - T: the first non-zero value from the input, or the zero value if all are zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// SliceToBytes copies a slice of fixed-size values into a little-endian byte slice
// using the provided per-element encoder.
//
// Parameters:
//   - data: source slice
//   - size: encoded size of one element in bytes
//   - put: writes one element into a buffer of exactly size bytes
//
// Returns:
//   - []byte: the encoded bytes, or nil if data is empty
func SliceToBytes[T any](data []T, size int, put func(buf []byte, v T)) []byte {
	if len(data) == 0 {
		return nil
	}
	out := make([]byte, len(data)*size)
	for i, v := range data {
		put(out[i*size:(i+1)*size], v)
	}
	return out
}
