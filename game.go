package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/mayfly/common"
	"github.com/milk9111/mayfly/controller"
	"github.com/milk9111/mayfly/ecs"
	"github.com/milk9111/mayfly/ecs/entity"
	"github.com/milk9111/mayfly/ecs/system"
	"github.com/milk9111/mayfly/prefabs"
	"go.uber.org/zap"
)

type Options struct {
	Debug  bool
	Watch  bool
	NoClip bool
}

type Game struct {
	ctx context.Context
	log *zap.Logger

	world     *ecs.World
	scheduler *ecs.Scheduler
	movement  *system.MovementSystem
	render    *system.RenderSystem
	input     *system.InputSystem
	player    ecs.Entity

	watcher       *prefabs.PathWatcher
	pendingReload bool

	paused  bool
	quit    bool
	pauseUI *ebitenui.UI
}

func NewGame(ctx context.Context, opts Options, log *zap.Logger) (*Game, error) {
	w := ecs.NewWorld()

	if _, err := entity.LoadLevel(w, prefabs.LevelSpecFile); err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	player, err := entity.NewCharacter(ctx, w, prefabs.CharacterSpecFile, log)
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	if _, err := entity.NewCamera(w); err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}

	movement := system.NewMovementSystem(
		system.WithNoClip(opts.NoClip),
		system.WithMovementLogger(log),
	)
	render := system.NewRenderSystem()
	render.Debug = opts.Debug
	input := system.NewInputSystem()

	g := &Game{
		ctx:      ctx,
		log:      log,
		world:    w,
		movement: movement,
		render:   render,
		input:    input,
		player:   player,
		scheduler: ecs.NewScheduler(
			input,
			system.NewCharacterSystem(),
			movement,
			system.NewTimerSystem(),
			system.NewCameraSystem(),
			system.NewEventLogSystem(log),
		),
	}

	if opts.Watch {
		watcher, err := prefabs.NewPathWatcher(prefabs.Dir, prefabs.CharacterSpecFile)
		if err != nil {
			log.Warn("prefab hot reload disabled", zap.String("dir", prefabs.Dir), zap.Error(err))
		} else {
			g.watcher = watcher
			log.Info("watching prefabs", zap.String("dir", prefabs.Dir))
		}
	}

	g.pauseUI = NewPauseUI(g)
	return g, nil
}

func (g *Game) Update() error {
	if g.quit || g.ctx.Err() != nil {
		return ebiten.Termination
	}
	g.pollWatcher()

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.setPaused(!g.paused)
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	g.world.SetDeltaSeconds(1 / float64(ebiten.TPS()))
	g.scheduler.Update(g.world)
	return nil
}

func (g *Game) setPaused(paused bool) {
	g.paused = paused
	if paused {
		ebiten.SetCursorMode(ebiten.CursorModeVisible)
	} else {
		ebiten.SetCursorMode(ebiten.CursorModeCaptured)
		g.input.Release()
	}
}

// pollWatcher drains file events without blocking. A changed character
// prefab or path script reloads the guide path once no takeoff is running.
func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for drained := false; !drained; {
		select {
		case change, ok := <-g.watcher.Changes:
			if !ok {
				g.watcher = nil
				return
			}
			g.log.Debug("guide path source changed", zap.String("file", change.File), zap.Bool("script", change.Script))
			g.pendingReload = true
		case err, ok := <-g.watcher.Errors:
			if ok {
				g.log.Warn("prefab watcher", zap.Error(err))
			}
		default:
			drained = true
		}
	}

	if !g.pendingReload {
		return
	}
	err := entity.ReloadGuidePath(g.ctx, g.world, g.player, prefabs.CharacterSpecFile)
	switch {
	case errors.Is(err, controller.ErrTakeoffActive):
		return
	case err != nil:
		g.log.Error("reload guide path", zap.Error(err))
	default:
		g.log.Info("guide path reloaded")
	}
	g.pendingReload = false
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.render.Space = g.movement.Space()
	g.render.Draw(g.world, screen)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS: %.1f", ebiten.ActualFPS()), 10, common.BaseHeight-20)

	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Close() error {
	if g.watcher == nil {
		return nil
	}
	return g.watcher.Close()
}
