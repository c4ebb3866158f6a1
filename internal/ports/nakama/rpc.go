package nakama

import (
	"context"
	"database/sql"

	"github.com/heroiclabs/nakama-common/runtime"
)

// RpcFindMatch returns the ID of a joinable match, creating one when no
// match has an open seat.
func RpcFindMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	limit := 1
	authoritative := true
	minSize := 0
	maxSize := 4
	matches, err := nk.MatchList(ctx, limit, authoritative, "", &minSize, &maxSize, "+label.open:>=1")
	if err != nil {
		logger.Error("RpcFindMatch [user:%s]: list matches: %v", userID, err)
		return "", err
	}

	if len(matches) > 0 {
		matchID := matches[0].MatchId
		logger.Info("RpcFindMatch [user:%s]: found existing match %s", userID, matchID)
		return matchID, nil
	}

	matchID, err := nk.MatchCreate(ctx, ModuleName, nil)
	if err != nil {
		logger.Error("RpcFindMatch [user:%s]: create match: %v", userID, err)
		return "", err
	}
	logger.Info("RpcFindMatch [user:%s]: created new match %s", userID, matchID)
	return matchID, nil
}
