package leveling

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"guildwarden/internal/config"
	"guildwarden/internal/storage"

	"go.uber.org/zap"
)

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Module awards XP per message with a per-user cooldown. Award timestamps
// live in memory only; a restart just lets everyone earn again immediately.
type Module struct {
	mu        sync.Mutex
	cfg       config.LevelingConfig
	store     *storage.Store
	logger    *zap.Logger
	clock     Clock
	lastAward map[string]time.Time
	randIntn  func(n int) int
}

func New(cfg config.LevelingConfig, store *storage.Store, logger *zap.Logger) *Module {
	return &Module{
		cfg:       cfg,
		store:     store,
		logger:    logger,
		clock:     realClock{},
		lastAward: make(map[string]time.Time),
		randIntn:  rand.Intn,
	}
}

func (m *Module) WithClock(clock Clock) {
	m.clock = clock
}

// Award grants XP for one message. Returns the updated row and whether the
// user crossed into a new level. A zero row with leveled=false means the
// award was suppressed by the cooldown or the module is disabled.
func (m *Module) Award(ctx context.Context, guildID, userID string) (storage.UserLevel, bool, error) {
	if !m.cfg.Enabled {
		return storage.UserLevel{}, false, nil
	}
	if !m.tryMarkAwarded(guildID, userID) {
		return storage.UserLevel{}, false, nil
	}

	current, err := m.store.GetUserLevel(ctx, guildID, userID)
	if err != nil {
		return storage.UserLevel{}, false, fmt.Errorf("load level: %w", err)
	}

	delta := int64(m.cfg.XPMin)
	if spread := m.cfg.XPMax - m.cfg.XPMin; spread > 0 {
		delta += int64(m.randIntn(spread + 1))
	}

	newXP := current.XP + delta
	newLevel := LevelForXP(newXP)
	updated, err := m.store.AddXP(ctx, guildID, userID, delta, newLevel)
	if err != nil {
		return storage.UserLevel{}, false, fmt.Errorf("award xp: %w", err)
	}

	leveled := newLevel > current.Level
	if leveled {
		m.logger.Info("level up",
			zap.String("guild_id", guildID),
			zap.String("user_id", userID),
			zap.Int("level", newLevel))
	}
	return updated, leveled, nil
}

func (m *Module) tryMarkAwarded(guildID, userID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := guildID + ":" + userID
	now := m.clock.Now()
	cooldown := time.Duration(m.cfg.CooldownSeconds) * time.Second
	if last, ok := m.lastAward[key]; ok && cooldown > 0 && now.Sub(last) < cooldown {
		return false
	}
	m.lastAward[key] = now
	return true
}

// LevelForXP maps total XP to a level on a quadratic curve: advancing from
// level n requires 5n^2 + 50n + 100 XP.
func LevelForXP(xp int64) int {
	level := 0
	remaining := xp
	for {
		need := XPForNextLevel(level)
		if remaining < need {
			return level
		}
		remaining -= need
		level++
	}
}

// XPForNextLevel is the XP needed to advance from the given level to the
// next one.
func XPForNextLevel(level int) int64 {
	return int64(5*level*level + 50*level + 100)
}

// ProgressInLevel reports how far into the current level a total sits, for
// rank-card style output.
func ProgressInLevel(xp int64) (into, need int64) {
	level := 0
	remaining := xp
	for {
		n := XPForNextLevel(level)
		if remaining < n {
			return remaining, n
		}
		remaining -= n
		level++
	}
}
