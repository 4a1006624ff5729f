package state

import (
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
)

// FileState is the last known outcome for one source file. A file whose
// content hash and ruleset both match needs no new pass.
type FileState struct {
	Path        string
	ContentHash string
	Ruleset     string
	Changed     bool
	UpdatedAt   time.Time
}

// Run summarizes one apply/check invocation.
type Run struct {
	ID           string
	Mode         string
	StartedAt    time.Time
	FinishedAt   time.Time
	FilesScanned int
	FilesChanged int
	Rewrites     int
	Warnings     int
	Errors       int
}

// HashContent returns the hex xxhash64 of data.
func HashContent(data []byte) string {
	return strconv.FormatUint(xxhash.Sum64(data), 16)
}
