// Package ident mints opaque identifiers for conversations, sessions, and messages.
package ident

import (
	"fmt"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

var seq atomic.Uint64

// Generate returns a new opaque identifier. It never blocks and never fails:
// if the crypto random source is unavailable it falls back to a
// timestamp-plus-counter scheme that stays unique within a single millisecond.
func Generate() string {
	id, err := uuid.NewRandom()
	if err != nil {
		return fallback()
	}
	return id.String()
}

func fallback() string {
	return fmt.Sprintf("%x-%x-%04x", time.Now().UnixMilli(), seq.Add(1), rand.IntN(0x10000))
}
