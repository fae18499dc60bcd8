package giveaways

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"guildwarden/internal/config"
	"guildwarden/internal/modules/audit"
	"guildwarden/internal/storage"

	"go.uber.org/zap"
)

type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type Timer interface {
	Stop() bool
}

type realClock struct{}

type realTimer struct{ t *time.Timer }

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return realTimer{t: time.AfterFunc(d, f)}
}

func (t realTimer) Stop() bool { return t.t.Stop() }

// Announcer is the platform surface the engine needs to finish a giveaway:
// who reacted, and where to post the result.
type Announcer interface {
	Entrants(channelID, messageID, emoji string) ([]string, error)
	Announce(channelID, content string) error
}

var (
	ErrDisabled = errors.New("giveaways are disabled")
	ErrTooShort = errors.New("giveaway duration below minimum")
	ErrTooLong  = errors.New("giveaway duration above maximum")
	ErrNotEnded = errors.New("giveaway has not ended")
)

// Engine schedules giveaway endings on timers and re-arms them from the
// database after a restart.
type Engine struct {
	mu        sync.Mutex
	cfg       config.GiveawayConfig
	store     *storage.Store
	announcer Announcer
	audit     *audit.Logger
	logger    *zap.Logger
	clock     Clock
	timers    map[int64]Timer
	randIntn  func(n int) int
	botUserID string
}

func New(cfg config.GiveawayConfig, store *storage.Store, announcer Announcer, auditLogger *audit.Logger, logger *zap.Logger) *Engine {
	return &Engine{
		cfg:       cfg,
		store:     store,
		announcer: announcer,
		audit:     auditLogger,
		logger:    logger,
		clock:     realClock{},
		timers:    make(map[int64]Timer),
		randIntn:  rand.Intn,
	}
}

func (e *Engine) WithClock(clock Clock) {
	e.clock = clock
}

// SetBotUserID excludes the bot's own seed reaction from the entrant pool.
func (e *Engine) SetBotUserID(id string) {
	e.botUserID = id
}

// Start validates the duration, persists the giveaway and arms its end
// timer. The caller has already posted the giveaway message.
func (e *Engine) Start(ctx context.Context, giveaway storage.Giveaway) (int64, error) {
	if !e.cfg.Enabled {
		return 0, ErrDisabled
	}
	duration := giveaway.EndsAt.Sub(e.clock.Now())
	if min := time.Duration(e.cfg.MinMinutes) * time.Minute; min > 0 && duration < min {
		return 0, ErrTooShort
	}
	if max := time.Duration(e.cfg.MaxDurationH) * time.Hour; max > 0 && duration > max {
		return 0, ErrTooLong
	}
	if giveaway.WinnerCount <= 0 {
		giveaway.WinnerCount = 1
	}

	id, err := e.store.CreateGiveaway(ctx, giveaway)
	if err != nil {
		return 0, fmt.Errorf("create giveaway: %w", err)
	}
	giveaway.ID = id
	e.arm(ctx, giveaway)
	e.audit.Info(ctx, giveaway.GuildID, giveaway.CreatedBy, "giveaway_start",
		fmt.Sprintf("id=%d prize=%s winners=%d", id, giveaway.Prize, giveaway.WinnerCount))
	return id, nil
}

// Resume re-arms timers for every giveaway that was pending when the
// process last stopped. Overdue giveaways fire immediately.
func (e *Engine) Resume(ctx context.Context) error {
	pending, err := e.store.ListPendingGiveaways(ctx)
	if err != nil {
		return fmt.Errorf("list pending giveaways: %w", err)
	}
	for _, giveaway := range pending {
		e.arm(ctx, giveaway)
	}
	if len(pending) > 0 {
		e.logger.Info("giveaway timers re-armed", zap.Int("count", len(pending)))
	}
	return nil
}

func (e *Engine) arm(ctx context.Context, giveaway storage.Giveaway) {
	delay := giveaway.EndsAt.Sub(e.clock.Now())
	if delay < 0 {
		delay = 0
	}
	id := giveaway.ID
	timer := e.clock.AfterFunc(delay, func() {
		if err := e.Finish(ctx, id); err != nil {
			e.logger.Error("giveaway finish failed", zap.Int64("giveaway_id", id), zap.Error(err))
		}
	})

	e.mu.Lock()
	if old := e.timers[id]; old != nil {
		old.Stop()
	}
	e.timers[id] = timer
	e.mu.Unlock()
}

// Finish draws winners, marks the giveaway ended and announces the result.
// Safe to call for an already-ended giveaway; it becomes a no-op.
func (e *Engine) Finish(ctx context.Context, giveawayID int64) error {
	e.mu.Lock()
	if timer := e.timers[giveawayID]; timer != nil {
		timer.Stop()
		delete(e.timers, giveawayID)
	}
	e.mu.Unlock()

	giveaway, err := e.store.GetGiveaway(ctx, giveawayID)
	if err != nil {
		return fmt.Errorf("load giveaway: %w", err)
	}
	if giveaway.Ended {
		return nil
	}
	if err := e.store.EndGiveaway(ctx, giveawayID); err != nil {
		return fmt.Errorf("end giveaway: %w", err)
	}

	winners, total, err := e.draw(giveaway)
	if err != nil {
		return err
	}
	e.audit.Info(ctx, giveaway.GuildID, giveaway.CreatedBy, "giveaway_end",
		fmt.Sprintf("id=%d entrants=%d winners=%d", giveawayID, total, len(winners)))
	return e.announce(giveaway, winners)
}

// Reroll draws a fresh set of winners for an ended giveaway.
func (e *Engine) Reroll(ctx context.Context, giveawayID int64) error {
	giveaway, err := e.store.GetGiveaway(ctx, giveawayID)
	if err != nil {
		return fmt.Errorf("load giveaway: %w", err)
	}
	if !giveaway.Ended {
		return ErrNotEnded
	}
	winners, _, err := e.draw(giveaway)
	if err != nil {
		return err
	}
	return e.announce(giveaway, winners)
}

// Stop cancels every armed timer. Pending giveaways stay in the database
// and are re-armed by the next Resume.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for id, timer := range e.timers {
		timer.Stop()
		delete(e.timers, id)
	}
}

func (e *Engine) draw(giveaway storage.Giveaway) ([]string, int, error) {
	entrants, err := e.announcer.Entrants(giveaway.ChannelID, giveaway.MessageID, e.cfg.EntryEmoji)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch entrants: %w", err)
	}
	pool := entrants[:0:0]
	for _, userID := range entrants {
		if userID != e.botUserID {
			pool = append(pool, userID)
		}
	}
	return drawWinners(pool, giveaway.WinnerCount, e.randIntn), len(pool), nil
}

func (e *Engine) announce(giveaway storage.Giveaway, winners []string) error {
	var text string
	if len(winners) == 0 {
		text = fmt.Sprintf("The giveaway for **%s** ended with no entrants.", giveaway.Prize)
	} else {
		mentions := make([]string, len(winners))
		for i, userID := range winners {
			mentions[i] = "<@" + userID + ">"
		}
		text = fmt.Sprintf("Congratulations %s! You won **%s**.", strings.Join(mentions, ", "), giveaway.Prize)
	}
	return e.announcer.Announce(giveaway.ChannelID, text)
}

// drawWinners picks count distinct entrants via a partial Fisher-Yates
// shuffle. Fewer entrants than winners means everyone wins.
func drawWinners(entrants []string, count int, intn func(n int) int) []string {
	if len(entrants) == 0 {
		return nil
	}
	pool := append([]string(nil), entrants...)
	if count > len(pool) {
		count = len(pool)
	}
	for i := 0; i < count; i++ {
		j := i + intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:count]
}
