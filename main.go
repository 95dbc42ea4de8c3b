// Bitchess - a chess board with a computer opponent, built with Ebitengine
package main

import (
	"flag"
	"log"
	"log/slog"

	"github.com/hailam/bitchess/internal/board"
	"github.com/hailam/bitchess/internal/ui"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	depth := flag.Int("depth", 0, "fixed search depth in plies (0 follows the difficulty)")
	ai := flag.Bool("ai", true, "play against the computer")
	color := flag.String("color", "white", "side the human plays: white or black")
	dbDir := flag.String("db", "", "database directory (default: per-user data directory)")
	verbose := flag.Bool("v", false, "log debug messages")
	flag.Parse()

	if *verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	// Only flags given on the command line override stored preferences.
	opts := ui.Options{Depth: *depth, DBDir: *dbDir}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "ai":
			opts.AIEnabled = ai
		case "color":
			c := board.White
			switch *color {
			case "white", "w":
			case "black", "b":
				c = board.Black
			default:
				log.Fatalf("invalid -color %q: want white or black", *color)
			}
			opts.PlayerColor = &c
		}
	})

	game := ui.NewGame(opts)

	ebiten.SetWindowSize(ui.ScreenWidth, ui.ScreenHeight)
	ebiten.SetWindowTitle("Bitchess")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	err := ebiten.RunGame(game)
	game.Close()
	if err != nil {
		log.Fatal(err)
	}
}
