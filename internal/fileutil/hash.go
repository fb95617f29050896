package fileutil

import (
	"encoding/hex"

	"github.com/minio/highwayhash"
)

var hashKey = []byte("flowlint-content-hash-key-32byte")

// ContentHash returns a short deterministic hash of file content.
// Used for FileRecord hashes and stable node IDs; re-running on
// unchanged source must yield identical values.
func ContentHash(data []byte) string {
	h, err := highwayhash.New128(hashKey)
	if err != nil {
		return ""
	}
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))[:16]
}
