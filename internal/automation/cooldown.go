package automation

import (
	"errors"
	"strconv"
	"time"

	"github.com/ReneKroon/ttlcache/v2"
)

// Cooldowns tracks per-rule, per-user firing timestamps in a size-bounded
// TTL cache. Entries expire on their own once the rule's cooldown has
// passed, so the cache cannot grow without bound over a long process life.
type Cooldowns struct {
	cache *ttlcache.Cache
	clock Clock
}

func NewCooldowns(capacity int, clock Clock) *Cooldowns {
	cache := ttlcache.NewCache()
	cache.SkipTTLExtensionOnHit(true)
	if capacity > 0 {
		cache.SetCacheSizeLimit(capacity)
	}
	return &Cooldowns{cache: cache, clock: clock}
}

func (c *Cooldowns) withClock(clock Clock) {
	c.clock = clock
}

func (c *Cooldowns) IsOnCooldown(ruleID int64, userID string, cooldown time.Duration) (bool, error) {
	value, err := c.cache.Get(cooldownKey(ruleID, userID))
	if err != nil {
		if errors.Is(err, ttlcache.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	firedAt, ok := value.(time.Time)
	if !ok {
		return false, nil
	}
	return c.clock.Now().Sub(firedAt) < cooldown, nil
}

func (c *Cooldowns) SetCooldown(ruleID int64, userID string, cooldown time.Duration) error {
	return c.cache.SetWithTTL(cooldownKey(ruleID, userID), c.clock.Now(), cooldown)
}

func (c *Cooldowns) Close() {
	_ = c.cache.Close()
}

func cooldownKey(ruleID int64, userID string) string {
	return strconv.FormatInt(ruleID, 10) + ":" + userID
}
