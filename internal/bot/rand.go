package bot

import (
	"math/rand"
	"sync"
)

// All strategies draw from one package-level source so a single seed
// replays a whole match. Concurrent games share it; the mutex keeps
// draws atomic. When no seed is set the functions fall through to the
// global math/rand source, which locks on its own.
var (
	botMu  sync.Mutex
	botRng *rand.Rand
)

// SeedBotRng pins bot behavior to a deterministic source. Tests and the
// arena use it to replay matches.
func SeedBotRng(seed int64) {
	botMu.Lock()
	botRng = rand.New(rand.NewSource(seed))
	botMu.Unlock()
}

// ResetBotRng reverts to the default (non-deterministic) global source.
func ResetBotRng() {
	botMu.Lock()
	botRng = nil
	botMu.Unlock()
}

func botFloat64() float64 {
	botMu.Lock()
	defer botMu.Unlock()
	if botRng != nil {
		return botRng.Float64()
	}
	return rand.Float64()
}

func botIntn(n int) int {
	botMu.Lock()
	defer botMu.Unlock()
	if botRng != nil {
		return botRng.Intn(n)
	}
	return rand.Intn(n)
}
