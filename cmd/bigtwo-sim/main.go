// Command bigtwo-sim plays a full bots-only game on the console. Useful for
// exercising the rules engine and the persistence layer end to end without
// a game server.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"bigtwo/internal/app"
	"bigtwo/internal/bot"
	"bigtwo/internal/config"
	"bigtwo/internal/domain"
	"bigtwo/internal/logging"
	"bigtwo/internal/ports"
	"bigtwo/internal/ports/memstore"
	"bigtwo/internal/ports/pgstore"
	"bigtwo/internal/ports/redisstore"
)

func main() {
	_ = godotenv.Load()

	log := logrus.New()
	log.SetLevel(logrus.InfoLevel)
	logger := logging.Wrap(log)

	cfg, err := config.Load(os.Getenv("BIGTWO_CONFIG"))
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()

	var store ports.Persistence = memstore.New()
	switch {
	case os.Getenv("DATABASE_URL") != "":
		pool, err := pgxpool.New(ctx, os.Getenv("DATABASE_URL"))
		if err != nil {
			log.Fatalf("connect postgres: %v", err)
		}
		defer pool.Close()
		pg := pgstore.New(pool)
		if err := pg.Init(ctx); err != nil {
			log.Fatalf("init postgres store: %v", err)
		}
		store = pg
		log.Info("persisting to postgres")
	case os.Getenv("REDIS_ADDR") != "":
		client := redis.NewClient(&redis.Options{Addr: os.Getenv("REDIS_ADDR"), Password: os.Getenv("REDIS_PASSWORD")})
		store = redisstore.New(client, 24*time.Hour)
		log.Infof("persisting to redis at %s", os.Getenv("REDIS_ADDR"))
	}

	svc := app.NewService(nil)
	svc.ScoreLimit = cfg.ScoreLimit
	svc.AutoPassDuration = time.Duration(cfg.AutoPassSeconds) * time.Second

	mgr := app.NewManager(logger, store, nil, bot.NewLocalAdvisor(), svc, app.ManagerConfig{
		PersistKey:    "bigtwo:sim",
		TickInterval:  time.Duration(cfg.TickMillis) * time.Millisecond,
		BotRetryLimit: cfg.BotRetryLimit,
	})

	unsubscribe := mgr.Subscribe(func(snapshot *domain.GameState, events []app.Event) {
		for _, ev := range events {
			switch p := ev.Payload.(type) {
			case app.CardPlayedPayload:
				log.Infof("seat %d played %s (%v), %d left", p.Seat, p.ComboType, p.Cards, p.CardsLeft)
			case app.TurnPassedPayload:
				log.Infof("seat %d passed (auto=%v)", p.Seat, p.Auto)
			case app.MatchEndedPayload:
				log.Infof("match %d won by seat %d, totals %v", p.MatchNumber, p.WinnerSeat, p.Totals)
			case app.GameEndedPayload:
				log.Infof("game over, final winner %s", p.FinalWinnerID)
			}
		}
	})
	defer unsubscribe()

	pool := bot.NewIdentityPool(nil)
	players := make([]app.PlayerConfig, 0, domain.SeatCount)
	for i := 0; i < domain.SeatCount; i++ {
		id := pool.At(i)
		players = append(players, app.PlayerConfig{
			ID:         id.DeviceID,
			Name:       id.DisplayName,
			IsBot:      true,
			Difficulty: id.Difficulty,
		})
	}

	if _, err := mgr.InitializeGame(ctx, players, "sim"); err != nil {
		log.Fatalf("initialize game: %v", err)
	}

	for {
		snapshot := mgr.Snapshot()
		if snapshot.GameOver {
			printStandings(snapshot)
			break
		}
		if snapshot.MatchEnded {
			if err := mgr.StartNewMatch(ctx); err != nil {
				log.Fatalf("start new match: %v", err)
			}
			continue
		}
		if err := mgr.RunBotTurn(ctx); err != nil {
			log.Fatalf("bot turn: %v", err)
		}
	}

	if err := mgr.Destroy(ctx); err != nil {
		log.Warnf("cleanup: %v", err)
	}
}

func printStandings(g *domain.GameState) {
	fmt.Println("final standings:")
	positions := domain.FinishPositions(g.Scores)
	for i, sc := range g.Scores {
		fmt.Printf("  #%d %-12s %4d points\n", positions[i], sc.PlayerName, sc.Score)
	}
}
