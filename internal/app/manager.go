package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"

	"bigtwo/internal/bot"
	"bigtwo/internal/domain"
	"bigtwo/internal/ports"
)

const (
	defaultPersistKey   = "bigtwo:state"
	defaultTickInterval = 100 * time.Millisecond
	defaultBotRetries   = 3

	// expiryStuckAfter force-releases the expiry guard if an auto-pass run
	// somehow never finishes.
	expiryStuckAfter = 10 * time.Second
)

// Listener receives a deep-copied snapshot and the events that produced it.
// Listeners may retain or mutate the snapshot freely.
type Listener func(snapshot *domain.GameState, events []Event)

// ManagerConfig tunes the lifecycle controller. Zero values pick defaults.
type ManagerConfig struct {
	PersistKey    string
	TickInterval  time.Duration
	BotRetryLimit int
}

func (c ManagerConfig) withDefaults() ManagerConfig {
	if c.PersistKey == "" {
		c.PersistKey = defaultPersistKey
	}
	if c.TickInterval <= 0 {
		c.TickInterval = defaultTickInterval
	}
	if c.BotRetryLimit <= 0 {
		c.BotRetryLimit = defaultBotRetries
	}
	return c
}

// Manager owns one game's state and interprets the effects around the pure
// transitions: persistence, subscriber fan-out, stats submission, bot turns
// and the auto-pass countdown. All entry points are safe for concurrent use.
type Manager struct {
	logger  runtime.Logger
	store   ports.Persistence
	stats   ports.StatsReporter
	advisor ports.Advisor
	svc     *Service
	cfg     ManagerConfig

	mu        sync.Mutex
	game      *domain.GameState
	listeners map[int]Listener
	nextSubID int

	// Auto-pass expiry re-entrancy guard. expiryBusySince doubles as the
	// stuck-run detector.
	expiryBusy      bool
	expiryBusySince time.Time
	lastNotifiedSec int64

	stopTicker chan struct{}
	tickerOnce sync.Once
	stopOnce   sync.Once
}

// NewManager wires the controller. All collaborators are required except
// stats, which may be nil when no collector is configured.
func NewManager(logger runtime.Logger, store ports.Persistence, stats ports.StatsReporter, advisor ports.Advisor, svc *Service, cfg ManagerConfig) *Manager {
	return &Manager{
		logger:     logger,
		store:      store,
		stats:      stats,
		advisor:    advisor,
		svc:        svc,
		cfg:        cfg.withDefaults(),
		listeners:  make(map[int]Listener),
		stopTicker: make(chan struct{}),
	}
}

// InitializeGame starts a fresh game and the countdown ticker.
func (m *Manager) InitializeGame(ctx context.Context, players []PlayerConfig, roomID string) ([]Event, error) {
	m.mu.Lock()
	g, events, err := m.svc.InitializeGame(players, roomID, time.Now())
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}
	m.game = g
	m.finishLocked(ctx, events)
	m.startTicker()
	return events, nil
}

// Load restores a persisted game, migrating older blobs and re-persisting
// them under the current schema. Returns false when nothing is stored.
func (m *Manager) Load(ctx context.Context) (bool, error) {
	blob, found, err := m.store.Get(ctx, m.cfg.PersistKey)
	if err != nil {
		return false, fmt.Errorf("load game state: %w", err)
	}
	if !found {
		return false, nil
	}
	g, migrated, err := DecodeState(blob)
	if err != nil {
		return false, fmt.Errorf("load game state: %w", err)
	}

	m.mu.Lock()
	m.game = g
	if migrated {
		m.logger.Info("persisted game migrated to schema v%d", CurrentSchemaVersion)
		m.persistLocked(ctx)
	}
	m.mu.Unlock()
	m.startTicker()
	return true, nil
}

// PlayCards applies a play for the given player ID.
func (m *Manager) PlayCards(ctx context.Context, playerID string, cards []domain.Card) error {
	m.mu.Lock()
	g := m.game
	if g == nil {
		m.mu.Unlock()
		return ErrNoGame
	}
	seat := g.SeatOf(playerID)
	if seat < 0 {
		m.mu.Unlock()
		return ErrUnknownPlayer
	}
	events, err := m.svc.PlayCards(g, seat, cards, time.Now())
	if err != nil {
		m.mu.Unlock()
		return err
	}
	m.finishLocked(ctx, events)
	return nil
}

// Pass applies a manual pass for the given player ID.
func (m *Manager) Pass(ctx context.Context, playerID string) error {
	m.mu.Lock()
	g := m.game
	if g == nil {
		m.mu.Unlock()
		return ErrNoGame
	}
	seat := g.SeatOf(playerID)
	if seat < 0 {
		m.mu.Unlock()
		return ErrUnknownPlayer
	}
	events, err := m.svc.PassTurn(g, seat, time.Now(), false)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	m.finishLocked(ctx, events)
	return nil
}

// StartNewMatch re-deals after a finished match.
func (m *Manager) StartNewMatch(ctx context.Context) error {
	m.mu.Lock()
	g := m.game
	if g == nil {
		m.mu.Unlock()
		return ErrNoGame
	}
	events, err := m.svc.StartNewMatch(g, time.Now())
	if err != nil {
		m.mu.Unlock()
		return err
	}
	m.finishLocked(ctx, events)
	return nil
}

// ConvertToBot hands a seat over to a bot, typically when its human leaves
// mid-game. The seat keeps its hand and score and plays on under the given
// difficulty.
func (m *Manager) ConvertToBot(ctx context.Context, playerID, difficulty string) error {
	m.mu.Lock()
	g := m.game
	if g == nil {
		m.mu.Unlock()
		return ErrNoGame
	}
	seat := g.SeatOf(playerID)
	if seat < 0 {
		m.mu.Unlock()
		return ErrUnknownPlayer
	}
	g.Players[seat].IsBot = true
	g.Players[seat].BotDifficulty = difficulty
	m.finishLocked(ctx, nil)
	return nil
}

// Snapshot returns a deep copy of the current state, or nil before a game
// is initialized.
func (m *Manager) Snapshot() *domain.GameState {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.game == nil {
		return nil
	}
	return m.game.Clone()
}

// Subscribe registers a listener for every state mutation. The returned
// function unsubscribes it.
func (m *Manager) Subscribe(l Listener) func() {
	m.mu.Lock()
	id := m.nextSubID
	m.nextSubID++
	m.listeners[id] = l
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

// Destroy stops the ticker and removes the persisted state.
func (m *Manager) Destroy(ctx context.Context) error {
	m.stopOnce.Do(func() { close(m.stopTicker) })
	m.mu.Lock()
	m.game = nil
	m.mu.Unlock()
	if err := m.store.Remove(ctx, m.cfg.PersistKey); err != nil {
		return fmt.Errorf("remove game state: %w", err)
	}
	return nil
}

// RunBotTurn executes one bot turn for the current seat: ask the advisor,
// validate, retry through the fallback table, and after the retry limit is
// spent skip the seat so the table never deadlocks.
func (m *Manager) RunBotTurn(ctx context.Context) error {
	m.mu.Lock()
	g := m.game
	if g == nil {
		m.mu.Unlock()
		return ErrNoGame
	}
	seat := g.CurrentPlayerIndex
	if seat < 0 || seat >= len(g.Players) || !g.Players[seat].IsBot || g.MatchEnded || g.GameOver {
		m.mu.Unlock()
		return nil
	}
	player := g.Players[seat]
	now := time.Now()

	var (
		events   []Event
		lastKind domain.RuleViolation
	)
	res := bot.RetryBounded(m.cfg.BotRetryLimit, func(n int) error {
		req := m.advisorRequestLocked(seat)
		var move bot.Move
		if n == 1 {
			resp, err := m.advisor.GetPlay(ctx, req)
			if err != nil {
				lastKind = ""
				return err
			}
			move = bot.Move{Pass: resp.Cards == nil, Cards: resp.Cards}
		} else {
			fb, ok := bot.FallbackFor(lastKind, req)
			if !ok {
				return errors.New("no fallback move available")
			}
			move = fb
		}

		var err error
		if move.Pass {
			events, err = m.svc.PassTurn(g, seat, now, false)
		} else {
			events, err = m.svc.PlayCards(g, seat, move.Cards, now)
		}
		if err != nil {
			var rule *domain.RuleError
			if errors.As(err, &rule) {
				lastKind = rule.Kind
			}
			return err
		}
		return nil
	})

	if !res.Succeeded {
		m.logger.WithField("hard_failure", true).Error(
			"bot %s could not produce a legal move after %d attempts: %v; skipping seat %d",
			player.ID, res.Attempts, res.LastErr, seat)
		events = m.svc.ForceAdvance(g, seat, now)
		events = append(events, Event{
			Kind:    EventBotForfeited,
			Payload: BotForfeitedPayload{Seat: seat, PlayerID: player.ID, Attempts: res.Attempts},
		})
	}

	m.finishLocked(ctx, events)
	return nil
}

func (m *Manager) advisorRequestLocked(seat int) ports.AdvisorRequest {
	g := m.game
	counts := make([]int, len(g.Players))
	for i, p := range g.Players {
		counts[i] = len(p.Hand)
	}
	return ports.AdvisorRequest{
		Hand:               append([]domain.Card{}, g.Players[seat].Hand...),
		LastPlay:           g.LastPlay,
		IsFirstPlayOfGame:  g.IsFirstPlayOfGame,
		PlayerCardCounts:   counts,
		CurrentPlayerIndex: seat,
		Difficulty:         g.Players[seat].BotDifficulty,
	}
}

// finishLocked interprets the side effects of a completed transition and
// releases the lock: persist, react to critical events, then notify
// listeners outside the lock.
func (m *Manager) finishLocked(ctx context.Context, events []Event) {
	m.persistLocked(ctx)

	var report *ports.GameReport
	for _, ev := range events {
		switch ev.Kind {
		case EventTimerAnomaly:
			detail := ""
			if p, ok := ev.Payload.(TimerAnomalyPayload); ok {
				detail = p.Detail
			}
			m.logger.WithField("critical_bug", true).Error("auto-pass timer anomaly: %s", detail)
		case EventGameEnded:
			r := m.buildReportLocked()
			report = &r
		}
	}

	snapshot := m.game.Clone()
	targets := make([]Listener, 0, len(m.listeners))
	for _, l := range m.listeners {
		targets = append(targets, l)
	}
	m.mu.Unlock()

	for _, l := range targets {
		l(snapshot, events)
	}
	if report != nil {
		go m.submitReport(*report)
	}
}

// persistLocked stores the current state. Persistence failures are logged
// and swallowed so a storage outage never blocks play.
func (m *Manager) persistLocked(ctx context.Context) {
	if m.game == nil {
		return
	}
	blob, err := EncodeState(m.game)
	if err != nil {
		m.logger.Error("encode game state: %v", err)
		return
	}
	if err := m.store.Set(ctx, m.cfg.PersistKey, blob); err != nil {
		m.logger.Error("persist game state: %v", err)
	}
}

func (m *Manager) buildReportLocked() ports.GameReport {
	g := m.game
	now := time.Now()
	positions := domain.FinishPositions(g.Scores)
	players := make([]ports.PlayerReport, 0, len(g.Players))
	for i, p := range g.Players {
		stats := make(map[domain.ComboType]int, len(g.Scores[i].MatchComboStats))
		for k, v := range g.Scores[i].MatchComboStats {
			stats[k] = v
		}
		players = append(players, ports.PlayerReport{
			UserID:         p.ID,
			Username:       p.Name,
			Score:          g.Scores[i].Score,
			FinishPosition: positions[i],
			CombosPlayed:   stats,
		})
	}
	return ports.GameReport{
		RoomID:          g.RoomID,
		WinnerID:        g.FinalWinnerID,
		Matches:         g.MatchNumber,
		StartedAt:       g.StartedAt,
		EndedAt:         now,
		DurationSeconds: int64(now.Sub(g.StartedAt).Seconds()),
		Players:         players,
	}
}

// submitReport runs off the game lock. Failures are logged and surfaced to
// listeners as a notice event; they never affect game state.
func (m *Manager) submitReport(report ports.GameReport) {
	if m.stats == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := m.stats.Submit(ctx, report); err != nil {
		m.logger.Error("stats report failed for room %s: %v", report.RoomID, err)
		m.mu.Lock()
		snapshot := m.game.Clone()
		targets := make([]Listener, 0, len(m.listeners))
		for _, l := range m.listeners {
			targets = append(targets, l)
		}
		m.mu.Unlock()
		events := []Event{{Kind: EventStatsFailed, Payload: StatsFailedPayload{Reason: err.Error()}}}
		for _, l := range targets {
			l(snapshot, events)
		}
	}
}

func (m *Manager) startTicker() {
	m.tickerOnce.Do(func() {
		go m.tickLoop()
	})
}

func (m *Manager) tickLoop() {
	ticker := time.NewTicker(m.cfg.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-m.stopTicker:
			return
		case now := <-ticker.C:
			m.tick(now)
		}
	}
}

// tick advances the auto-pass countdown. Listeners are notified once per
// whole remaining second; expiry runs the pass transition for every seat
// still owing a response, guarded against re-entry.
func (m *Manager) tick(now time.Time) {
	m.mu.Lock()
	g := m.game
	if g == nil || g.AutoPass == nil || !g.AutoPass.Active {
		m.mu.Unlock()
		return
	}

	if m.expiryBusy {
		// A previous expiry run has not released the guard. A run stuck
		// past the deadline indicates a bug; reset so the table recovers.
		if now.Sub(m.expiryBusySince) > expiryStuckAfter {
			m.logger.WithField("critical_bug", true).Error(
				"auto-pass expiry guard held for %s; force-releasing", now.Sub(m.expiryBusySince))
			m.expiryBusy = false
		}
		m.mu.Unlock()
		return
	}

	elapsed := now.Sub(g.AutoPass.StartedAt).Milliseconds()
	remaining := g.AutoPass.DurationMS - elapsed
	if remaining < 0 {
		remaining = 0
	}
	g.AutoPass.RemainingMS = remaining

	if remaining > 0 {
		// Coalesce notifications to whole-second boundaries.
		sec := remaining / 1000
		if sec != m.lastNotifiedSec {
			m.lastNotifiedSec = sec
			snapshot := g.Clone()
			targets := make([]Listener, 0, len(m.listeners))
			for _, l := range m.listeners {
				targets = append(targets, l)
			}
			m.mu.Unlock()
			for _, l := range targets {
				l(snapshot, nil)
			}
			return
		}
		m.mu.Unlock()
		return
	}

	m.expiryBusy = true
	m.expiryBusySince = now
	events := m.expireLocked(now)
	m.expiryBusy = false
	m.lastNotifiedSec = 0
	m.finishLocked(context.Background(), events)
}

// expireLocked auto-passes seats through the shared pass transition until
// the trick resolves back to the triggering player.
func (m *Manager) expireLocked(now time.Time) []Event {
	g := m.game
	var events []Event
	for g.AutoPass != nil && g.AutoPass.Active {
		seat := g.CurrentPlayerIndex
		if seat < 0 || g.Players[seat].ID == g.AutoPass.PlayerID {
			// Expiry with the turn already back at the trigger means the
			// timer should have been cleared earlier. Recover in place.
			m.logger.WithField("critical_bug", true).Error(
				"auto-pass timer still armed for its own trigger at seat %d; clearing", seat)
			g.AutoPass = nil
			break
		}
		evs, err := m.svc.PassTurn(g, seat, now, true)
		if err != nil {
			m.logger.WithField("critical_bug", true).Error(
				"auto-pass rejected for seat %d: %v; clearing timer", seat, err)
			g.AutoPass = nil
			break
		}
		events = append(events, evs...)
	}
	return events
}
