// Package codec defines the serialization contract used by the typed
// cache layer and ships implementations for the common formats.
package codec

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
