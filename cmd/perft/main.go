// Command perft counts move-tree leaves from a position, for checking the
// move generator against published results.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/hailam/bitchess/internal/board"
)

func main() {
	fen := flag.String("fen", board.StartFEN, "position to count from")
	depth := flag.Int("depth", 4, "depth in plies")
	divide := flag.Bool("divide", false, "print the count below each root move")
	flag.Parse()

	pos, err := board.ParseFEN(*fen)
	if err != nil {
		log.Fatal(err)
	}

	start := time.Now()
	var nodes uint64
	if *divide {
		for _, e := range pos.Divide(*depth) {
			fmt.Printf("%s: %d\n", e.Move, e.Nodes)
			nodes += e.Nodes
		}
		fmt.Println()
	} else {
		nodes = pos.Perft(*depth)
	}
	elapsed := time.Since(start)

	nps := float64(nodes) / max(elapsed.Seconds(), 1e-9)
	fmt.Printf("Nodes: %d\nTime: %v\nNPS: %.0f\n", nodes, elapsed.Round(time.Millisecond), nps)
}
