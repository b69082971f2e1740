//go:build ebiten

package main

import (
	"errors"
	"flag"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"

	"ising/internal/app"
	"ising/internal/core"
	_ "ising/internal/sims/ising"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "isingview"})

	sim, err := core.Lookup(cfg.Sim, cfg.Options())
	if err != nil {
		logger.Fatal("cannot start viewer", "err", err, "available", core.Names())
	}
	logger.Info("viewer", "sim", sim.Name(), "rows", cfg.Rows, "cols", cfg.Cols, "beta", cfg.Beta, "seed", cfg.Seed)

	game := app.New(sim, cfg.Scale, cfg.Seed)
	size := sim.Size()

	ebiten.SetWindowTitle("ising: " + sim.Name())
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(size.W*cfg.Scale+app.HUDWidth, size.H*cfg.Scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Fatal("viewer stopped", "err", err)
	}
}
