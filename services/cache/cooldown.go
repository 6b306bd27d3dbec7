package cache

import (
	"fmt"
	"time"
)

const cooldownPrefix = "fetch_cooldown:"

// Cooldown tracks hosts that rate-limited us so we stop hitting them for a
// while. A nil receiver is a no-op, letting callers run without any cache.
type Cooldown struct {
	svc       CacheService
	blockTime time.Duration
}

// NewCooldown creates a cooldown tracker over a cache service
func NewCooldown(svc CacheService, blockTime time.Duration) *Cooldown {
	return &Cooldown{svc: svc, blockTime: blockTime}
}

// Blocked reports whether a host is currently in cooldown
func (c *Cooldown) Blocked(host string) bool {
	if c == nil || c.svc == nil || host == "" {
		return false
	}
	_, err := c.svc.Get(cooldownPrefix + host)
	return err == nil
}

// Block puts a host in cooldown for the configured window
func (c *Cooldown) Block(host string) {
	if c == nil || c.svc == nil || host == "" {
		return
	}
	value := []byte(fmt.Sprintf("%d", int(c.blockTime.Seconds())))
	c.svc.Set(cooldownPrefix+host, value, c.blockTime)
}
