// Command bitchess-server serves one shared game over HTTP and WebSocket.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/hailam/bitchess/internal/engine"
	"github.com/hailam/bitchess/internal/server"
)

func main() {
	port := flag.Int("port", 8080, "port to listen on")
	depth := flag.Int("depth", 0, "fixed engine search depth in plies (0 follows the difficulty)")
	difficulty := flag.String("difficulty", "medium", "engine difficulty: easy, medium or hard")
	verbose := flag.Bool("v", false, "log debug messages")
	flag.Parse()

	if *verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	d, err := engine.ParseDifficulty(*difficulty)
	if err != nil {
		log.Fatal(err)
	}
	eng := engine.NewEngine()
	eng.SetDifficulty(d)
	eng.SetDepth(*depth)

	addr := fmt.Sprintf(":%d", *port)
	slog.Info("listening", "addr", addr, "difficulty", d)
	if err := http.ListenAndServe(addr, server.New(eng, os.Stdout)); err != nil {
		log.Fatal(err)
	}
}
