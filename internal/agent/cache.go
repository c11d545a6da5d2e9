package agent

// boundFlag tells how a cached score relates to the true value.
type boundFlag uint8

const (
	boundExact boundFlag = iota
	boundLower           // true score >= stored score (beta cutoff)
	boundUpper           // true score <= stored score (failed low)
)

type cacheEntry struct {
	score int
	depth int
	flag  boundFlag
}

// positionCache maps fingerprints to searched scores. It belongs to one
// engine and is cleared before every top-level search. Fingerprint
// collisions are not detected.
type positionCache struct {
	entries map[uint64]cacheEntry
	hits    int64
}

func newPositionCache() *positionCache {
	return &positionCache{entries: make(map[uint64]cacheEntry, 1<<14)}
}

func (c *positionCache) clear() {
	clear(c.entries)
	c.hits = 0
}

// probe returns a usable score when the stored entry was searched at least
// as deep as depth and its bound decides the (alpha, beta) window.
func (c *positionCache) probe(key uint64, depth, alpha, beta int) (int, bool) {
	e, ok := c.entries[key]
	if !ok || e.depth < depth {
		return 0, false
	}
	switch e.flag {
	case boundExact:
	case boundLower:
		if e.score < beta {
			return 0, false
		}
	case boundUpper:
		if e.score > alpha {
			return 0, false
		}
	}
	c.hits++
	return e.score, true
}

// store keeps the deeper of the old and new entries.
func (c *positionCache) store(key uint64, depth, score int, flag boundFlag) {
	if old, ok := c.entries[key]; ok && old.depth > depth {
		return
	}
	c.entries[key] = cacheEntry{score: score, depth: depth, flag: flag}
}

func (c *positionCache) size() int {
	return len(c.entries)
}
