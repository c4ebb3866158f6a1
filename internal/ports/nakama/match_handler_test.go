package nakama

import (
	"encoding/json"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"

	"bigtwo/internal/app"
	"bigtwo/internal/bot"
	"bigtwo/internal/domain"
	"bigtwo/internal/ports/memstore"
)

// noopLogger implements runtime.Logger for tests that only need to satisfy
// the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

// mockDispatcher records dispatcher calls for assertions.
type mockDispatcher struct {
	broadcastCount int
	labelUpdates   int
	lastOpCode     int64
	lastData       []byte
	lastRecipients []runtime.Presence
}

func (md *mockDispatcher) BroadcastMessage(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	md.broadcastCount++
	md.lastOpCode = opCode
	md.lastData = append([]byte(nil), data...)
	md.lastRecipients = presences
	return nil
}

func (md *mockDispatcher) BroadcastMessageDeferred(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	return nil
}

func (md *mockDispatcher) MatchKick(presences []runtime.Presence) error {
	return nil
}

func (md *mockDispatcher) MatchLabelUpdate(label string) error {
	md.labelUpdates++
	return nil
}

type mockPresence struct {
	userID   string
	username string
}

func (p mockPresence) GetUserId() string    { return p.userID }
func (p mockPresence) GetSessionId() string { return "session-" + p.userID }
func (p mockPresence) GetNodeId() string    { return "node-1" }
func (p mockPresence) GetHidden() bool      { return false }
func (p mockPresence) GetPersistence() bool { return true }
func (p mockPresence) GetStatus() string    { return "" }
func (p mockPresence) GetUsername() string  { return p.username }
func (p mockPresence) GetReason() runtime.PresenceReason {
	return runtime.PresenceReasonUnknown
}

func testMatchState(t *testing.T) *MatchState {
	t.Helper()
	state := &MatchState{
		OwnerSeat: -1,
		Presences: make(map[string]runtime.Presence),
		Pool:      bot.NewIdentityPool(nil),
	}
	svc := app.NewService(rand.New(rand.NewSource(42)))
	state.Manager = app.NewManager(noopLogger{}, memstore.New(), nil, bot.NewLocalAdvisor(), svc, app.ManagerConfig{
		PersistKey:   "test:match",
		TickInterval: 50 * time.Millisecond,
	})
	return state
}

func TestSeatHelpers(t *testing.T) {
	state := testMatchState(t)
	botID := state.Pool.At(0).DeviceID
	state.Pool.Bind(botID, botID, "bot")
	state.Seats = [4]string{"user-1", botID, "", "user-2"}

	if got := state.openSeatCount(); got != 1 {
		t.Fatalf("open seats = %d, want 1", got)
	}
	if got := state.humanCount(); got != 2 {
		t.Fatalf("humans = %d, want 2", got)
	}
	if got := state.seatOf("user-2"); got != 3 {
		t.Fatalf("seatOf(user-2) = %d, want 3", got)
	}
	if got := state.seatOf("stranger"); got != -1 {
		t.Fatalf("seatOf(stranger) = %d, want -1", got)
	}
	if got := state.firstHumanSeat(); got != 0 {
		t.Fatalf("firstHumanSeat = %d, want 0", got)
	}

	state.Seats = [4]string{botID, "", "", ""}
	if got := state.firstHumanSeat(); got != -1 {
		t.Fatalf("firstHumanSeat = %d, want -1 for bots only", got)
	}
}

func TestParseCardIDsRejectsGarbage(t *testing.T) {
	if _, err := parseCardIDs([]string{"3D", "XX"}); err == nil {
		t.Fatal("expected parse failure")
	}
	cards, err := parseCardIDs([]string{"3D", "10S", "2H"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cards[1].Rank != domain.RankTen || cards[1].Suit != domain.SuitSpades {
		t.Fatalf("10S parsed as %v", cards[1])
	}
}

func TestBuildGameViewRedactsHands(t *testing.T) {
	g := &domain.GameState{
		RoomID:      "room-1",
		MatchNumber: 2,
		Players: []*domain.Player{
			{ID: "u0", Name: "Alice", Hand: mustCards("3D", "5C")},
			{ID: "u1", Name: "Bob", Hand: mustCards("4D")},
			{ID: "u2", Name: "Carol"},
			{ID: "u3", Name: "Dave", Hand: mustCards("4S", "6H", "7C")},
		},
		Scores: []*domain.PlayerMatchScore{
			{PlayerID: "u0", Score: 4, MatchScores: []int{4}},
			{PlayerID: "u1"},
			{PlayerID: "u2"},
			{PlayerID: "u3"},
		},
		AutoPass: &domain.AutoPassTimer{Active: true, RemainingMS: 7300},
	}

	view := buildGameView(g)
	blob, err := json.Marshal(view)
	if err != nil {
		t.Fatalf("marshal view: %v", err)
	}

	// The public snapshot may carry counts but never cards.
	for _, forbidden := range []string{`"hand"`, `"rank"`, `"suit"`} {
		if strings.Contains(string(blob), forbidden) {
			t.Fatalf("view leaks hands: found %s in %s", forbidden, blob)
		}
	}
	if view.Players[0].CardsRemaining != 2 || view.Players[3].CardsRemaining != 3 {
		t.Fatalf("card counts wrong: %+v", view.Players)
	}
	if view.TimerRemainingMS != 7300 {
		t.Fatalf("timer remaining = %d", view.TimerRemainingMS)
	}
}

func TestRelayHandDealtIsPrivate(t *testing.T) {
	state := testMatchState(t)
	dispatcher := &mockDispatcher{}
	state.Presences["u0"] = mockPresence{userID: "u0", username: "Alice"}

	handler := &matchHandler{}
	handler.relayEvent(state, dispatcher, noopLogger{}, app.Event{
		Kind:       app.EventHandDealt,
		Payload:    app.HandDealtPayload{Seat: 0, PlayerID: "u0", Hand: mustCards("3D", "5C")},
		Recipients: []string{"u0"},
	})

	if dispatcher.broadcastCount != 1 {
		t.Fatalf("broadcasts = %d, want 1", dispatcher.broadcastCount)
	}
	if dispatcher.lastOpCode != OpHandDealt {
		t.Fatalf("opcode = %d, want %d", dispatcher.lastOpCode, OpHandDealt)
	}
	if len(dispatcher.lastRecipients) != 1 || dispatcher.lastRecipients[0].GetUserId() != "u0" {
		t.Fatalf("recipients = %v, want only u0", dispatcher.lastRecipients)
	}

	// A hand for an offline (bot) player must not go out at all.
	dispatcher.broadcastCount = 0
	handler.relayEvent(state, dispatcher, noopLogger{}, app.Event{
		Kind:       app.EventHandDealt,
		Payload:    app.HandDealtPayload{Seat: 1, PlayerID: "bot-1", Hand: mustCards("4D")},
		Recipients: []string{"bot-1"},
	})
	if dispatcher.broadcastCount != 0 {
		t.Fatal("bot hand was broadcast")
	}
}

func TestSendRuleErrorCarriesViolationKind(t *testing.T) {
	state := testMatchState(t)
	dispatcher := &mockDispatcher{}
	state.Presences["u0"] = mockPresence{userID: "u0", username: "Alice"}

	handler := &matchHandler{}
	ruleErr := domain.ValidatePass(&domain.GameState{
		Players: []*domain.Player{
			{ID: "u0", Hand: mustCards("3D")},
			{ID: "u1", Hand: mustCards("4D")},
			{ID: "u2", Hand: mustCards("4H")},
			{ID: "u3", Hand: mustCards("4S")},
		},
	}, 0)
	if ruleErr == nil {
		t.Fatal("expected a leading-pass violation")
	}
	handler.sendRuleError(state, dispatcher, noopLogger{}, "u0", ruleErr)

	if dispatcher.lastOpCode != OpGameError {
		t.Fatalf("opcode = %d, want %d", dispatcher.lastOpCode, OpGameError)
	}
	var msg errorMessage
	if err := json.Unmarshal(dispatcher.lastData, &msg); err != nil {
		t.Fatalf("unmarshal error message: %v", err)
	}
	if msg.Code != string(domain.ViolationCannotPassWhileLeading) {
		t.Fatalf("code = %s, want %s", msg.Code, domain.ViolationCannotPassWhileLeading)
	}
}

func mustCards(ids ...string) []domain.Card {
	out := make([]domain.Card, len(ids))
	for i, id := range ids {
		c, err := domain.ParseCardID(id)
		if err != nil {
			panic(err)
		}
		out[i] = c
	}
	return out
}
