package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/freeeve/broadside/api/internal/bot"
	"github.com/freeeve/broadside/api/pkg/battleship"
)

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	var (
		diff1    string
		diff2    string
		numGames int
		workers  int
		board    int
		seed     int64
		jsonOut  bool
	)

	flag.StringVar(&diff1, "p1", "medium", "Player 1 difficulty (easy, medium, hard)")
	flag.StringVar(&diff2, "p2", "medium", "Player 2 difficulty (easy, medium, hard)")
	flag.IntVar(&numGames, "n", 1, "Number of games to run")
	flag.IntVar(&workers, "workers", 1, "Concurrency (parallel games)")
	flag.IntVar(&board, "board", 10, "Board size")
	flag.Int64Var(&seed, "seed", 0, "Seed for the bot RNG (0 = random; replayable only with -workers=1)")
	flag.BoolVar(&jsonOut, "json", false, "Output results as JSON")

	flag.Parse()

	if seed != 0 {
		bot.SeedBotRng(seed)
		defer bot.ResetBotRng()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info().Msg("Shutting down...")
		cancel()
	}()

	// Run games
	results := make([]*bot.ArenaResult, numGames)
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)
	errCount := 0

	for i := 0; i < numGames; i++ {
		wg.Add(1)
		sem <- struct{}{}

		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			cfg := bot.ArenaConfig{
				Difficulty1: diff1,
				Difficulty2: diff2,
				BoardSize:   board,
			}

			result, err := bot.RunGame(ctx, cfg)
			if err != nil {
				log.Error().Err(err).Int("game", idx+1).Msg("Game failed")
				mu.Lock()
				errCount++
				mu.Unlock()
				return
			}

			mu.Lock()
			results[idx] = result
			mu.Unlock()

			log.Info().
				Int("game", idx+1).
				Str("winner", seatLabel(result.Winner)).
				Int("shots", result.TotalShots).
				Msg("Game completed")
		}(i)
	}

	wg.Wait()

	if jsonOut {
		printJSON(results, numGames, errCount)
	} else {
		printSummary(results, diff1, diff2, errCount)
	}
}

func seatLabel(seat battleship.Seat) string {
	switch seat {
	case battleship.Player1:
		return "player1"
	case battleship.Player2:
		return "player2"
	}
	return "draw"
}

func printSummary(results []*bot.ArenaResult, diff1, diff2 string, errCount int) {
	type stats struct {
		wins     int
		shots    int
		hits     int
		accuracy float64
	}
	var bySeat [2]stats
	completed := 0
	draws := 0

	for _, r := range results {
		if r == nil {
			continue
		}
		completed++
		if r.Winner == 0 {
			draws++
		}
		for i := range bySeat {
			if r.Winner == battleship.Seat(i+1) {
				bySeat[i].wins++
			}
			bySeat[i].shots += r.Shots[i]
			bySeat[i].hits += r.Hits[i]
			bySeat[i].accuracy += r.Accuracy[i]
		}
	}

	fmt.Printf("\nResults (%d games):\n", completed)
	if errCount > 0 {
		fmt.Printf("  (%d games failed)\n", errCount)
	}
	if draws > 0 {
		fmt.Printf("  (%d reached the shot cap)\n", draws)
	}

	labels := [2]string{
		fmt.Sprintf("player1 (%s)", diff1),
		fmt.Sprintf("player2 (%s)", diff2),
	}
	for i, s := range bySeat {
		avgShots := 0.0
		avgAcc := 0.0
		if completed > 0 {
			avgShots = float64(s.shots) / float64(completed)
			avgAcc = s.accuracy / float64(completed)
		}
		fmt.Printf("  %-18s %d wins -- avg shots: %.1f, avg accuracy: %.1f%%\n",
			labels[i], s.wins, avgShots, avgAcc)
	}
}

func printJSON(results []*bot.ArenaResult, total, errCount int) {
	out := struct {
		Total   int                `json:"total"`
		Errors  int                `json:"errors"`
		Results []*bot.ArenaResult `json:"results"`
	}{
		Total:   total,
		Errors:  errCount,
		Results: results,
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(out)
}
