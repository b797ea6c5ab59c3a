package badger

import (
	"encoding/binary"
	"time"
)

// Key prefixes for different data types
const (
	runRecordPrefix    = "runrec:"
	runStartedPrefix   = "runrecd:"
	embeddingKeyPrefix = "embvec:"
)

// makeRunKey generates a key for a run summary by run ID.
func makeRunKey(runID string) []byte {
	return []byte(runRecordPrefix + runID)
}

// makeRunStartedKey generates a composite key for the start-time index.
// Format: prefix:timestamp:runID
func makeRunStartedKey(startedAt time.Time, runID string) []byte {
	prefixBytes := []byte(runStartedPrefix)
	buf := make([]byte, len(prefixBytes)+8+len(runID))
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(startedAt.UnixMicro()))
	offset += 8
	copy(buf[offset:], runID)
	return buf
}

// runIDFromStartedKey extracts the run ID from a start-time index key.
func runIDFromStartedKey(key []byte) string {
	offset := len(runStartedPrefix) + 8
	if len(key) < offset {
		return ""
	}
	return string(key[offset:])
}

// makeEmbeddingKey generates a key for a cached embedding by content key.
func makeEmbeddingKey(contentKey string) []byte {
	return []byte(embeddingKeyPrefix + contentKey)
}
