package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"

	"bigtwo/internal/app"
	"bigtwo/internal/bot"
	"bigtwo/internal/config"
	"bigtwo/internal/domain"
	"bigtwo/internal/ports/backend"
)

// pendingUpdate is one controller notification queued for relay on the next
// match loop tick. The controller's timer goroutine produces these outside
// the loop, so they are buffered rather than dispatched inline.
type pendingUpdate struct {
	snapshot *domain.GameState
	events   []app.Event
}

// MatchState holds the authoritative runtime state for the match handler.
type MatchState struct {
	Seats          [4]string                   `json:"seats"`
	OwnerSeat      int                         `json:"owner_seat"`
	Tick           int64                       `json:"tick"`
	Presences      map[string]runtime.Presence `json:"-"`
	Manager        *app.Manager                `json:"-"`
	Pool           *bot.IdentityPool           `json:"-"`
	Cfg            config.GameConfig           `json:"-"`
	Started        bool                        `json:"started"`
	BotWaitUntil   int64                       `json:"bot_wait_until"`
	SoloSinceTick  int64                       `json:"solo_since_tick"`
	unsubscribe    func()
	pendingMu      sync.Mutex
	pending        []pendingUpdate
}

func (ms *MatchState) openSeatCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat == "" {
			count++
		}
	}
	return count
}

func (ms *MatchState) humanCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat != "" && !ms.Pool.IsBot(seat) {
			count++
		}
	}
	return count
}

func (ms *MatchState) seatOf(userID string) int {
	for i, s := range ms.Seats {
		if s == userID {
			return i
		}
	}
	return -1
}

func (ms *MatchState) firstHumanSeat() int {
	for i, userID := range ms.Seats {
		if userID != "" && !ms.Pool.IsBot(userID) {
			return i
		}
	}
	return -1
}

// NewMatch is the factory function registered with the server runtime.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{}, nil
}

type matchHandler struct{}

func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	cfg, err := config.Load("data/game_config.json")
	if err != nil {
		logger.Warn("MatchInit: falling back to default config: %v", err)
	}

	matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)
	if matchID == "" {
		matchID = "local"
	}

	svc := app.NewService(nil)
	svc.ScoreLimit = cfg.ScoreLimit
	svc.AutoPassDuration = time.Duration(cfg.AutoPassSeconds) * time.Second

	var stats *backend.Reporter
	if cfg.Stats.PrimaryURL != "" {
		stats = backend.NewReporter(backend.ReporterConfig{
			PrimaryURL:  cfg.Stats.PrimaryURL,
			FallbackURL: cfg.Stats.FallbackURL,
			Issuer:      cfg.Stats.Issuer,
			SigningKey:  cfg.Stats.SigningKey,
		})
	}

	state := &MatchState{
		OwnerSeat: -1,
		Tick:      time.Now().Unix(),
		Presences: make(map[string]runtime.Presence),
		Pool:      bot.NewIdentityPool(nil),
		Cfg:       cfg,
	}
	mgrCfg := app.ManagerConfig{
		PersistKey:    matchID,
		TickInterval:  time.Duration(cfg.TickMillis) * time.Millisecond,
		BotRetryLimit: cfg.BotRetryLimit,
	}
	// A nil *Reporter must not end up as a non-nil interface value.
	if stats != nil {
		state.Manager = app.NewManager(logger, NewStorageAdapter(nk), stats, bot.NewLocalAdvisor(), svc, mgrCfg)
	} else {
		state.Manager = app.NewManager(logger, NewStorageAdapter(nk), nil, bot.NewLocalAdvisor(), svc, mgrCfg)
	}

	state.unsubscribe = state.Manager.Subscribe(func(snapshot *domain.GameState, events []app.Event) {
		state.pendingMu.Lock()
		state.pending = append(state.pending, pendingUpdate{snapshot: snapshot, events: events})
		state.pendingMu.Unlock()
	})

	label, _ := json.Marshal(map[string]any{"open": state.openSeatCount(), "state": "lobby"})
	return state, 1, string(label)
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	if matchState.openSeatCount() <= 0 {
		// A pre-game bot seat may be reclaimed by a human.
		hasBot := false
		if !matchState.Started {
			for _, seat := range matchState.Seats {
				if matchState.Pool.IsBot(seat) {
					hasBot = true
					break
				}
			}
		}
		if !hasBot {
			return state, false, "match full"
		}
	}
	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		matchState.Presences[p.GetUserId()] = p

		assigned := false
		for i, seatUserID := range matchState.Seats {
			if seatUserID == "" {
				matchState.Seats[i] = p.GetUserId()
				assigned = true
				break
			}
		}
		if !assigned && !matchState.Started {
			for i, seatUserID := range matchState.Seats {
				if matchState.Pool.IsBot(seatUserID) {
					logger.Info("MatchJoin: replacing bot %s with %s in seat %d", seatUserID, p.GetUserId(), i)
					matchState.Seats[i] = p.GetUserId()
					assigned = true
					break
				}
			}
		}
		if !assigned {
			logger.Warn("MatchJoin: user %s joined but no seat was available", p.GetUserId())
		}
	}

	if matchState.OwnerSeat < 0 || matchState.Pool.IsBot(matchState.Seats[matchState.OwnerSeat]) || matchState.Seats[matchState.OwnerSeat] == "" {
		matchState.OwnerSeat = matchState.firstHumanSeat()
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastLobby(matchState, dispatcher, logger)
	return matchState
}

func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())
		seat := matchState.seatOf(p.GetUserId())
		if seat < 0 {
			continue
		}
		if matchState.Started {
			// Mid-game the seat keeps its hand; a bot plays it out.
			if err := matchState.Manager.ConvertToBot(ctx, p.GetUserId(), "medium"); err != nil {
				logger.Warn("MatchLeave: could not hand seat %d to a bot: %v", seat, err)
			}
		} else {
			matchState.Seats[seat] = ""
		}
	}

	if matchState.humanCount() == 0 {
		logger.Info("MatchLeave: no humans left, terminating match")
		matchState.unsubscribe()
		if err := matchState.Manager.Destroy(ctx); err != nil {
			logger.Warn("MatchLeave: destroy failed: %v", err)
		}
		return nil
	}

	matchState.OwnerSeat = matchState.firstHumanSeat()
	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastLobby(matchState, dispatcher, logger)
	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}
	matchState.Tick = tick

	mh.drainUpdates(matchState, dispatcher, logger)

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpStartGame:
			mh.handleStartGame(ctx, matchState, dispatcher, logger, msg)
		case OpPlayCards:
			mh.handlePlayCards(ctx, matchState, dispatcher, logger, msg)
		case OpPassTurn:
			mh.handlePassTurn(ctx, matchState, dispatcher, logger, msg)
		case OpRequestNewMatch:
			mh.handleRequestNewMatch(ctx, matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: unknown opcode %d", msg.GetOpCode())
		}
	}

	mh.processBots(ctx, matchState, dispatcher, logger)
	mh.drainUpdates(matchState, dispatcher, logger)
	return matchState
}

// drainUpdates relays queued controller notifications to clients.
func (mh *matchHandler) drainUpdates(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	state.pendingMu.Lock()
	updates := state.pending
	state.pending = nil
	state.pendingMu.Unlock()

	for _, u := range updates {
		for _, ev := range u.events {
			mh.relayEvent(state, dispatcher, logger, ev)
		}
		if u.snapshot != nil {
			view, err := json.Marshal(buildGameView(u.snapshot))
			if err != nil {
				logger.Error("drainUpdates: marshal game view: %v", err)
				continue
			}
			dispatcher.BroadcastMessage(OpGameState, view, nil, nil, true)
		}
	}
}

func (mh *matchHandler) relayEvent(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	if ev.Kind == app.EventHandDealt {
		p, ok := ev.Payload.(app.HandDealtPayload)
		if !ok {
			return
		}
		presence, online := state.Presences[p.PlayerID]
		if !online {
			// Bot hands never leave the server.
			return
		}
		msg, err := json.Marshal(handDealtMessage{Seat: p.Seat, Hand: cardIDs(p.Hand)})
		if err != nil {
			logger.Error("relayEvent: marshal hand: %v", err)
			return
		}
		dispatcher.BroadcastMessage(OpHandDealt, msg, []runtime.Presence{presence}, nil, true)
		return
	}

	msg, err := json.Marshal(eventMessage{Kind: string(ev.Kind), Payload: ev.Payload})
	if err != nil {
		logger.Error("relayEvent: marshal event %s: %v", ev.Kind, err)
		return
	}

	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		for _, uid := range ev.Recipients {
			if p, ok := state.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}
		if len(recipients) == 0 {
			return
		}
	}
	dispatcher.BroadcastMessage(OpGameEvent, msg, recipients, nil, true)
}

func (mh *matchHandler) handleStartGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderSeat := state.seatOf(msg.GetUserId())
	if senderSeat != state.OwnerSeat {
		logger.Warn("StartGame: user %s is not the owner", msg.GetUserId())
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), "not_owner", "only the match owner can start the game")
		return
	}
	if state.Started {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), "already_started", "the game is already running")
		return
	}

	// Fill any open seats with bots so the table always has four players.
	for i, seat := range state.Seats {
		if seat == "" {
			identity := state.Pool.At(i)
			state.Seats[i] = identity.DeviceID
			state.Pool.Bind(identity.DeviceID, identity.DeviceID, identity.Username)
			logger.Info("StartGame: seated bot %s at seat %d", identity.Username, i)
		}
	}

	players := make([]app.PlayerConfig, 0, len(state.Seats))
	for _, seat := range state.Seats {
		pc := app.PlayerConfig{ID: seat, Name: seat}
		if p, ok := state.Presences[seat]; ok {
			pc.Name = p.GetUsername()
		} else if identity, ok := state.Pool.Lookup(seat); ok {
			pc.Name = identity.DisplayName
			pc.IsBot = true
			pc.Difficulty = identity.Difficulty
		}
		players = append(players, pc)
	}

	matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)
	if _, err := state.Manager.InitializeGame(ctx, players, matchID); err != nil {
		logger.Error("StartGame: %v", err)
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), "start_failed", err.Error())
		return
	}
	state.Started = true
	mh.updateLabel(state, dispatcher, logger)
}

func (mh *matchHandler) handlePlayCards(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	if !state.Started {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), "not_started", "the game has not started")
		return
	}

	var req playCardsRequest
	if err := json.Unmarshal(msg.GetData(), &req); err != nil {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), "bad_payload", "invalid play payload")
		return
	}
	cards, err := parseCardIDs(req.Cards)
	if err != nil {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), "bad_payload", err.Error())
		return
	}

	if err := state.Manager.PlayCards(ctx, msg.GetUserId(), cards); err != nil {
		logger.Debug("handlePlayCards: user %s: %v", msg.GetUserId(), err)
		mh.sendRuleError(state, dispatcher, logger, msg.GetUserId(), err)
	}
}

func (mh *matchHandler) handlePassTurn(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	if !state.Started {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), "not_started", "the game has not started")
		return
	}
	if err := state.Manager.Pass(ctx, msg.GetUserId()); err != nil {
		logger.Debug("handlePassTurn: user %s: %v", msg.GetUserId(), err)
		mh.sendRuleError(state, dispatcher, logger, msg.GetUserId(), err)
	}
}

func (mh *matchHandler) handleRequestNewMatch(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	if state.seatOf(msg.GetUserId()) < 0 {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), "not_seated", "you are not seated at this table")
		return
	}
	if err := state.Manager.StartNewMatch(ctx); err != nil {
		mh.sendRuleError(state, dispatcher, logger, msg.GetUserId(), err)
	}
}

// processBots paces bot turns so humans can follow the table. The actual
// move selection and retry logic lives in the controller.
func (mh *matchHandler) processBots(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if !state.Started {
		return
	}
	snapshot := state.Manager.Snapshot()
	if snapshot == nil || snapshot.MatchEnded || snapshot.GameOver {
		state.BotWaitUntil = 0
		return
	}

	seat := snapshot.CurrentPlayerIndex
	if seat < 0 || !snapshot.Players[seat].IsBot {
		state.BotWaitUntil = 0
		return
	}

	if state.BotWaitUntil == 0 {
		delaySec := (state.Cfg.BotTurnDelayMillis + 999) / 1000
		if delaySec > 1 {
			delaySec = rand.Intn(delaySec) + 1
		}
		state.BotWaitUntil = state.Tick + int64(delaySec)
		return
	}
	if state.Tick < state.BotWaitUntil {
		return
	}
	state.BotWaitUntil = 0

	if err := state.Manager.RunBotTurn(ctx); err != nil {
		logger.Error("processBots: %v", err)
	}
}

// sendRuleError maps validation failures onto the error opcode, preserving
// the machine-readable violation kind when there is one.
func (mh *matchHandler) sendRuleError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, err error) {
	code := "rejected"
	var rule *domain.RuleError
	if errors.As(err, &rule) {
		code = string(rule.Kind)
	}
	mh.sendError(state, dispatcher, logger, userID, code, err.Error())
}

func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID, code, message string) {
	presence, ok := state.Presences[userID]
	if !ok {
		return
	}
	msg, err := json.Marshal(errorMessage{Code: code, Message: message})
	if err != nil {
		logger.Error("sendError: marshal: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpGameError, msg, []runtime.Presence{presence}, nil, true)
}

func (mh *matchHandler) broadcastLobby(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	snapshot := lobbySnapshot{
		Seats:     state.Seats[:],
		OwnerSeat: state.OwnerSeat,
		State:     "lobby",
	}
	if state.Started {
		snapshot.State = "playing"
	}
	for i, userID := range state.Seats {
		if userID == "" {
			continue
		}
		lp := lobbyPlayer{UserID: userID, Seat: i, DisplayName: userID, IsOwner: i == state.OwnerSeat}
		if p, ok := state.Presences[userID]; ok {
			lp.DisplayName = p.GetUsername()
		} else if identity, ok := state.Pool.Lookup(userID); ok {
			lp.DisplayName = identity.DisplayName
			lp.IsBot = true
		}
		snapshot.Players = append(snapshot.Players, lp)
	}

	msg, err := json.Marshal(snapshot)
	if err != nil {
		logger.Error("broadcastLobby: marshal: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpLobbyState, msg, nil, nil, true)
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	labelState := "lobby"
	if state.Started {
		labelState = "playing"
	}
	label, err := json.Marshal(map[string]any{"open": state.openSeatCount(), "state": labelState})
	if err != nil {
		logger.Error("updateLabel: marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(string(label)); err != nil {
		logger.Error("updateLabel: update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	if matchState, ok := state.(*MatchState); ok && matchState.unsubscribe != nil {
		matchState.unsubscribe()
	}
	logger.Debug("MatchTerminate: reason %d", reason)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
