// Package id generates the identifiers for trades and game records.
package id

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu      sync.Mutex
	entropy io.Reader = ulid.Monotonic(rand.Reader, 0)
)

// New returns a ULID string. ULIDs sort lexicographically by creation time,
// so the trade log and the history table stay in insertion order without a
// separate sequence column, and IDs minted within the same millisecond
// still come out increasing.
func New() string {
	mu.Lock()
	defer mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now().UTC()), entropy).String()
}
