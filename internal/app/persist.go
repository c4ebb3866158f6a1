package app

import (
	"encoding/json"
	"fmt"

	"bigtwo/internal/domain"
)

// CurrentSchemaVersion tags every persisted blob. Older blobs migrate
// through the ordered chain below and are re-persisted immediately.
const CurrentSchemaVersion = 4

type persistedEnvelope struct {
	SchemaVersion int             `json:"schema_version"`
	Game          json.RawMessage `json:"game"`
}

// migrations upgrade a decoded game document one version at a time.
// v1: base shape. v2: +game_round_history. v3: +played_cards.
// v4: +match_combo_stats per score entry.
var migrations = []struct {
	from  int
	apply func(game map[string]any)
}{
	{1, migrateGameRoundHistory},
	{2, migratePlayedCards},
	{3, migrateMatchComboStats},
}

// EncodeState serializes the game state under the current schema version.
func EncodeState(g *domain.GameState) (string, error) {
	gameRaw, err := json.Marshal(g)
	if err != nil {
		return "", fmt.Errorf("encode game state: %w", err)
	}
	blob, err := json.Marshal(persistedEnvelope{
		SchemaVersion: CurrentSchemaVersion,
		Game:          gameRaw,
	})
	if err != nil {
		return "", fmt.Errorf("encode envelope: %w", err)
	}
	return string(blob), nil
}

// DecodeState decodes any historical blob shape. Blobs without an envelope
// are treated as bare version-1 game documents. The second return reports
// whether a migration ran, signalling the caller to re-persist.
func DecodeState(blob string) (*domain.GameState, bool, error) {
	raw := []byte(blob)
	version := 1
	gameRaw := json.RawMessage(raw)

	var env persistedEnvelope
	if err := json.Unmarshal(raw, &env); err == nil && env.SchemaVersion > 0 && len(env.Game) > 0 {
		version = env.SchemaVersion
		gameRaw = env.Game
	}
	if version > CurrentSchemaVersion {
		return nil, false, fmt.Errorf("persisted schema version %d is newer than supported %d", version, CurrentSchemaVersion)
	}

	migrated := version < CurrentSchemaVersion
	if migrated {
		var doc map[string]any
		if err := json.Unmarshal(gameRaw, &doc); err != nil {
			return nil, false, fmt.Errorf("decode game document: %w", err)
		}
		for _, m := range migrations {
			if version == m.from {
				m.apply(doc)
				version++
			}
		}
		upgraded, err := json.Marshal(doc)
		if err != nil {
			return nil, false, fmt.Errorf("re-encode migrated document: %w", err)
		}
		gameRaw = upgraded
	}

	var g domain.GameState
	if err := json.Unmarshal(gameRaw, &g); err != nil {
		return nil, false, fmt.Errorf("decode game state: %w", err)
	}
	return &g, migrated, nil
}

func migrateGameRoundHistory(game map[string]any) {
	if _, ok := game["game_round_history"]; ok {
		return
	}
	// Best effort: seed the game-wide history with the current match's.
	if rh, ok := game["round_history"]; ok {
		game["game_round_history"] = rh
		return
	}
	game["game_round_history"] = []any{}
}

func migratePlayedCards(game map[string]any) {
	if _, ok := game["played_cards"]; !ok {
		game["played_cards"] = []any{}
	}
}

func migrateMatchComboStats(game map[string]any) {
	scores, ok := game["scores"].([]any)
	if !ok {
		return
	}
	for _, entry := range scores {
		sc, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if _, ok := sc["match_combo_stats"]; !ok {
			sc["match_combo_stats"] = map[string]any{}
		}
	}
}
