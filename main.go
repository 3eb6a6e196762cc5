package main

import (
	"flag"
	"os"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"

	"blobarena/client"
	"blobarena/game"
	"blobarena/logger"
	"blobarena/netsync"
)

func main() {
	players := flag.Int("players", 1, "Local split-screen players (1 or 2)")
	seed := flag.Int64("seed", 0, "Random seed, 0 for time based (or set BLOBARENA_SEED env var)")
	mirrorURL := flag.String("mirror", "", "Mirror server websocket URL (or set BLOBARENA_MIRROR_URL env var)")
	profile := flag.Bool("profile", false, "Capture a CPU profile and trace on FPS drops")
	flag.Parse()

	logger.Init()

	config := game.DefaultConfig()
	config.Seed = *seed
	if config.Seed == 0 {
		if env := os.Getenv("BLOBARENA_SEED"); env != "" {
			s, err := strconv.ParseInt(env, 10, 64)
			if err != nil {
				logger.Log.WithError(err).Fatal("invalid BLOBARENA_SEED")
			}
			config.Seed = s
		}
	}

	url := *mirrorURL
	if url == "" {
		url = os.Getenv("BLOBARENA_MIRROR_URL")
	}

	var mirror *netsync.Mirror
	if url != "" {
		m, err := netsync.Dial(url)
		if err != nil {
			logger.Log.WithError(err).Warn("mirror unavailable, playing offline")
		} else {
			mirror = m
			defer mirror.Close()
		}
	}

	g := client.NewGame(config, client.Options{
		Players:          *players,
		Mirror:           mirror,
		ProfileOnFPSDrop: *profile,
	})

	ebiten.SetWindowSize(config.ScreenWidth, config.ScreenHeight)
	ebiten.SetWindowTitle("Blob Arena")
	ebiten.SetWindowResizable(true)

	if err := ebiten.RunGame(g); err != nil && err != ebiten.Termination {
		logger.Log.WithError(err).Fatal("game exited")
	}
}
