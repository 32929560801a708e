package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug drawing and logging")
	watch := flag.Bool("watch", false, "reload the takeoff path when prefabs change on disk")
	noclip := flag.Bool("noclip", false, "let the character pass through obstacles")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	logger, err := newLogger(*debug)
	if err != nil {
		log.Fatalf("mayfly: logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(1280, 720)
	ebiten.SetWindowTitle("mayfly")

	game, err := NewGame(ctx, Options{Debug: *debug, Watch: *watch, NoClip: *noclip}, logger)
	if err != nil {
		logger.Fatal("start game", zap.Error(err))
	}
	defer func() { _ = game.Close() }()

	ebiten.SetCursorMode(ebiten.CursorModeCaptured)

	if err := ebiten.RunGame(game); err != nil {
		logger.Error("run game", zap.Error(err))
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
