// Package idgen generates the human-legible reference numbers handed back to
// applicants, plus short nanoid-backed event ids.
package idgen

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// Reference numbers look like ENG-1700000000000-417: a collection prefix, the
// creation time in unix milliseconds, and a random suffix in [0, 999]. The
// millisecond component is monotonically non-decreasing across calls, so ids
// sort roughly by creation time even without reading createdAt.

var (
	mu         sync.Mutex
	lastMillis int64
	lastID     string
)

// Generate returns a new reference number with the given prefix.
// Consecutive calls never return the same id, even within one millisecond.
func Generate(prefix string) string {
	mu.Lock()
	defer mu.Unlock()

	now := time.Now().UnixMilli()
	if now < lastMillis {
		// Clock went backwards; hold the line so ids stay sortable.
		now = lastMillis
	}
	lastMillis = now

	id := fmt.Sprintf("%s-%d-%d", prefix, now, rand.Intn(1000))
	for id == lastID {
		id = fmt.Sprintf("%s-%d-%d", prefix, now, rand.Intn(1000))
	}
	lastID = id
	return id
}

// eventAlphabet is the character set for the random portion of event ids.
const eventAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// eventIDLength is the number of random characters in an event id.
const eventIDLength = 10

// NewEventID returns a short unique id for published events.
func NewEventID() (string, error) {
	id, err := nanoid.Generate(eventAlphabet, eventIDLength)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return "evt-" + id, nil
}
