package exporter

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/zeebo/xxh3"
)

// ComputeChecksum returns the hex-encoded xxh3 hash of data.
func ComputeChecksum(data []byte) string {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], xxh3.Hash(data))
	return hex.EncodeToString(buf[:])
}
