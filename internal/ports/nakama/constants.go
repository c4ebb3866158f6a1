package nakama

// ModuleName is the registered match handler name.
const ModuleName = "bigtwo"

// Client -> server opcodes.
const (
	OpStartGame       int64 = 1
	OpPlayCards       int64 = 2
	OpPassTurn        int64 = 3
	OpRequestNewMatch int64 = 4
)

// Server -> client opcodes.
const (
	OpLobbyState int64 = 100
	OpGameState  int64 = 101
	OpGameEvent  int64 = 102
	OpGameError  int64 = 103
	OpHandDealt  int64 = 104
)
