package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"caro-game/internal/agent"
	"caro-game/internal/audit"
	"caro-game/internal/elo"
	"caro-game/internal/game"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type tally struct {
	mu      sync.Mutex
	winsA   int
	winsB   int
	draws   int
	moves   int
	nodes   int64
	elapsed time.Duration
	ratings *elo.Table
}

func main() {
	games := flag.Int("games", 10, "number of games to play")
	parallel := flag.Int("parallel", 4, "games played at the same time")
	levelA := flag.String("a", "hard", "difficulty of engine A")
	levelB := flag.String("b", "normal", "difficulty of engine B")
	maxDepth := flag.Int("max-depth", 0, "Ultimate deepening cap (0 keeps the adaptive cap)")
	nodeBudget := flag.Int64("node-budget", 200000, "search node budget per move (0 for unlimited)")
	noRefine := flag.Bool("no-refine", false, "disable playout refinement")
	sqlitePath := flag.String("record", "", "record every decision to this SQLite file")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	a, err := agent.ParseDifficulty(*levelA)
	if err != nil {
		log.Fatal().Err(err).Msg("bad -a")
	}
	b, err := agent.ParseDifficulty(*levelB)
	if err != nil {
		log.Fatal().Err(err).Msg("bad -b")
	}

	var recorder audit.Recorder = audit.NopRecorder{}
	if *sqlitePath != "" {
		recorder, err = audit.NewSQLiteRecorder(*sqlitePath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open decision log")
		}
	}
	defer recorder.Close(context.Background())

	opts := agent.Options{MaxDepth: *maxDepth, NodeBudget: *nodeBudget, Refine: !*noRefine}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	t := tally{ratings: elo.NewTable()}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(*parallel, 1))

	start := time.Now()
	for i := 0; i < *games; i++ {
		i := i
		g.Go(func() error {
			return playOne(ctx, i, a, b, opts, recorder, &t)
		})
	}
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("self-play stopped")
	}

	played := t.winsA + t.winsB + t.draws
	fmt.Printf("%s (A) vs %s (B): %d games in %v\n", a, b, played, time.Since(start).Round(time.Millisecond))
	fmt.Printf("  A wins %d, B wins %d, draws %d\n", t.winsA, t.winsB, t.draws)
	fmt.Printf("  ratings A %d, B %d; performance gap %+.0f\n",
		t.ratings.A, t.ratings.B, elo.PerformanceGap(t.winsA, t.draws, t.winsB))
	if t.moves > 0 {
		fmt.Printf("  %d moves, %d nodes, %v per move\n", t.moves, t.nodes, (t.elapsed / time.Duration(t.moves)).Round(time.Microsecond))
	}
}

// playOne plays game i. Engines swap colors every game so neither level
// always moves first.
func playOne(ctx context.Context, i int, a, b agent.Difficulty, opts agent.Options, recorder audit.Recorder, t *tally) error {
	seatA := agent.Seat{Level: a, Engine: agent.New(opts)}
	seatB := agent.Seat{Level: b, Engine: agent.New(opts)}
	aPlays := game.PlayerOne
	first, second := seatA, seatB
	if i%2 == 1 {
		aPlays = game.PlayerTwo
		first, second = seatB, seatA
	}

	res, err := agent.PlayMatch(ctx, first, second)
	if err != nil {
		return fmt.Errorf("game %d: %w", i, err)
	}

	gameID := uuid.NewString()
	player := game.PlayerOne
	for n, d := range res.Decisions {
		level := first.Level
		if player == game.PlayerTwo {
			level = second.Level
		}
		if err := recorder.Record(ctx, audit.Decision{
			ID:         uuid.NewString(),
			RequestID:  gameID,
			Transport:  audit.TransportSelfPlay,
			Difficulty: level.String(),
			Player:     int(player),
			Stones:     n,
			X:          d.Move.X,
			Y:          d.Move.Y,
			Stage:      string(d.Stage),
			Score:      d.Score,
			Depth:      d.Depth,
			Nodes:      d.Nodes,
			ElapsedMs:  d.Elapsed.Milliseconds(),
			CreatedAt:  time.Now().UTC(),
		}); err != nil {
			log.Warn().Err(err).Msg("decision log write failed")
		}
		player = player.Opponent()
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	one, two := elo.ResultsFor(res.Winner)
	resultA := one
	if aPlays == game.PlayerTwo {
		resultA = two
	}
	switch resultA {
	case elo.Win:
		t.winsA++
	case elo.Loss:
		t.winsB++
	default:
		t.draws++
	}
	t.ratings.Record(resultA)
	t.moves += len(res.Decisions)
	for _, d := range res.Decisions {
		t.nodes += d.Nodes
		t.elapsed += d.Elapsed
	}

	log.Info().
		Int("game", i).
		Int("winner", int(res.Winner)).
		Int("aPlays", int(aPlays)).
		Int("moves", len(res.Moves)).
		Msg("game finished")
	log.Debug().Msgf("final position of game %d\n%s", i, res.Board.String())
	return nil
}
