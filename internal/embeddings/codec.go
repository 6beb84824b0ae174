package embeddings

import (
	"encoding/binary"
	"fmt"
	"math"
)

// KeyPrefix namespaces cached embeddings in the kv store.
const KeyPrefix = "omnivault_embedding/"

// Key returns the kv key of a note's cached embedding.
func Key(noteID string) string {
	return KeyPrefix + noteID
}

// Encode packs a vector with the note's updatedAt stamp.
// Layout: little-endian int64 stamp followed by float64 values.
func Encode(updatedAt int64, vec []float64) ([]byte, error) {
	if len(vec) == 0 {
		return nil, fmt.Errorf("embedding vector cannot be empty")
	}
	buf := make([]byte, 8+8*len(vec))
	binary.LittleEndian.PutUint64(buf, uint64(updatedAt))
	for i, x := range vec {
		binary.LittleEndian.PutUint64(buf[8+8*i:], math.Float64bits(x))
	}
	return buf, nil
}

// Decode unpacks a value written by Encode.
func Decode(data []byte) (updatedAt int64, vec []float64, err error) {
	if len(data) <= 8 {
		return 0, nil, fmt.Errorf("embedding record too short: %d bytes", len(data))
	}
	if (len(data)-8)%8 != 0 {
		return 0, nil, fmt.Errorf("invalid embedding record size: %d (not a multiple of 8)", len(data)-8)
	}
	updatedAt = int64(binary.LittleEndian.Uint64(data))
	vec = make([]float64, (len(data)-8)/8)
	for i := range vec {
		vec[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[8+8*i:]))
	}
	return updatedAt, vec, nil
}
