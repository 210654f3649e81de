package cache

import (
	"crypto/sha256"
	"sync"
	"time"

	"autocorrect/internal/domain"
)

// ResultCache remembers the last result for each language buffer. The
// browser build keeps one editor buffer per language and re-lints it on
// every change, so a slot only ever answers for the text it last saw.
// Slots idle longer than ttl expire; when all slots are taken the one idle
// the longest makes room.
type ResultCache struct {
	mu       sync.Mutex
	slots    map[string]*resultSlot
	maxSlots int
	ttl      time.Duration
	now      func() time.Time
}

type resultSlot struct {
	digest  [sha256.Size]byte
	result  domain.FormatResult
	lastUse time.Time
}

func NewResultCache(maxSlots int, ttl time.Duration) *ResultCache {
	if maxSlots <= 0 {
		maxSlots = 16
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ResultCache{
		slots:    make(map[string]*resultSlot),
		maxSlots: maxSlots,
		ttl:      ttl,
		now:      time.Now,
	}
}

func bufferDigest(rules, text string) [sha256.Size]byte {
	h := sha256.New()
	h.Write([]byte(rules))
	h.Write([]byte{0})
	h.Write([]byte(text))
	var d [sha256.Size]byte
	copy(d[:], h.Sum(nil))
	return d
}

// Get returns the stored result when the lang buffer still holds text
// under the same rule fingerprint.
func (c *ResultCache) Get(lang, rules, text string) (domain.FormatResult, bool) {
	d := bufferDigest(rules, text)

	c.mu.Lock()
	defer c.mu.Unlock()

	slot, ok := c.slots[lang]
	if !ok {
		return domain.FormatResult{}, false
	}
	now := c.now()
	if now.Sub(slot.lastUse) > c.ttl {
		delete(c.slots, lang)
		return domain.FormatResult{}, false
	}
	if slot.digest != d {
		return domain.FormatResult{}, false
	}
	slot.lastUse = now
	return slot.result, true
}

// Put replaces the lang slot with result for text.
func (c *ResultCache) Put(lang, rules, text string, result domain.FormatResult) {
	d := bufferDigest(rules, text)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.slots[lang]; !ok && len(c.slots) >= c.maxSlots {
		c.evictIdlest()
	}
	c.slots[lang] = &resultSlot{digest: d, result: result, lastUse: c.now()}
}

// Invalidate empties every slot, e.g. after the rule set changed.
func (c *ResultCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slots = make(map[string]*resultSlot)
}

func (c *ResultCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.slots)
}

func (c *ResultCache) evictIdlest() {
	var victim string
	var oldest time.Time
	for lang, s := range c.slots {
		if victim == "" || s.lastUse.Before(oldest) {
			victim, oldest = lang, s.lastUse
		}
	}
	delete(c.slots, victim)
}
