// Package game adapts a sim.World to the platform's game shape: reset with a
// runtime config, step once per input frame, render into a core.Screen.
package game

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/trapcrawl/internal/config"
	"github.com/vovakirdan/trapcrawl/internal/core"
	"github.com/vovakirdan/trapcrawl/internal/level"
	"github.com/vovakirdan/trapcrawl/internal/sim"
)

// Game is one playable scenario.
type Game struct {
	id  string
	def level.Definition

	world *sim.World
	seed  int64
	seeds *rand.Rand // Supplies new seeds on restart

	screenW int
	screenH int

	last sim.TickResult
	log  []string // Most recent event lines, newest last
}

const maxLogLines = 3

// New creates a game for a validated definition. Call Reset before use.
func New(id string, def level.Definition) *Game {
	return &Game{id: id, def: def}
}

// NewWithDifficulty creates a game whose player HP is adjusted by preset.
func NewWithDifficulty(id string, def level.Definition, preset config.DifficultyPreset) *Game {
	return New(id, def.WithPlayerHP(preset.PlayerHP(def.Player.HP)))
}

// ID returns the scenario identifier.
func (g *Game) ID() string {
	return g.id
}

// Title returns the scenario display name.
func (g *Game) Title() string {
	return g.def.Title()
}

// Reset builds a fresh world from the definition.
func (g *Game) Reset(cfg core.RuntimeConfig) error {
	world, err := g.def.Build(sim.NewRandom(cfg.Seed))
	if err != nil {
		return fmt.Errorf("game: %w", err)
	}
	g.world = world
	g.seed = cfg.Seed
	g.seeds = rand.New(rand.NewSource(cfg.Seed))
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.last = sim.TickResult{}
	g.log = nil
	return nil
}

// Resize updates the screen size used for layout.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
}

// Step feeds one input frame to the world. Restart rebuilds the scenario
// with a new seed once the run is lost.
func (g *Game) Step(in core.InputFrame) (core.StepResult, error) {
	if in.Has(core.ActionRestart) && g.world.State() == sim.StateLost {
		err := g.Reset(core.RuntimeConfig{
			Seed:    g.seeds.Int63(),
			ScreenW: g.screenW,
			ScreenH: g.screenH,
		})
		if err != nil {
			return core.StepResult{}, err
		}
		return core.StepResult{State: g.State()}, nil
	}

	res, err := g.world.Step(in)
	if err != nil {
		return core.StepResult{}, fmt.Errorf("game: %s turn %d: %w", g.id, g.world.Turn(), err)
	}
	g.last = res
	if res.TurnTaken {
		g.record(res)
	}
	return core.StepResult{State: g.State(), TurnTaken: res.TurnTaken}, nil
}

// State returns the platform-level state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Turns:    g.world.Turn(),
		Kills:    g.world.Kills(),
		GameOver: g.world.State() == sim.StateLost,
	}
}

// Seed returns the seed the current world was built with.
func (g *Game) Seed() int64 {
	return g.seed
}

// World exposes the running world for read-only inspection.
func (g *Game) World() *sim.World {
	return g.world
}

// Last returns the result of the most recent Step.
func (g *Game) Last() sim.TickResult {
	return g.last
}

// Snapshot returns a comparable digest of the world for determinism checks.
func (g *Game) Snapshot() sim.Summary {
	return g.world.Summary()
}

// Messages returns the recent event lines, oldest first.
func (g *Game) Messages() []string {
	out := make([]string, len(g.log))
	copy(out, g.log)
	return out
}

func (g *Game) record(res sim.TickResult) {
	g.log = append(g.log, Describe(res, g.world.PlayerID())...)
	if n := len(g.log); n > maxLogLines {
		g.log = g.log[n-maxLogLines:]
	}
}

// Describe turns a tick's events into short lines for the message log.
func Describe(res sim.TickResult, player sim.EntityID) []string {
	var lines []string

	if n := len(res.Attacks); n == 1 {
		lines = append(lines, "A monster hits you.")
	} else if n > 1 {
		lines = append(lines, fmt.Sprintf("%d monsters hit you.", n))
	}

	for _, t := range res.Triggers {
		who := "A monster"
		if t.Creature == player {
			who = "You"
		}
		switch t.Effect {
		case sim.TrapKill:
			lines = append(lines, fmt.Sprintf("%s set off a kill trap (-%d).", who, t.Damage))
		case sim.TrapCountDown:
			if t.Damage > 0 {
				lines = append(lines, fmt.Sprintf("%s got caught by an expired countdown (-%d).", who, t.Damage))
			}
		case sim.TrapTeleport:
			if t.To != t.From {
				lines = append(lines, fmt.Sprintf("%s teleported to %v.", who, t.To))
			}
		case sim.TrapBump:
			if t.To != t.From {
				lines = append(lines, fmt.Sprintf("%s got bumped.", who))
			}
		case sim.TrapBerserk:
			lines = append(lines, fmt.Sprintf("%s went berserk.", who))
		}
	}

	if n := len(res.Slain); n == 1 {
		lines = append(lines, "A monster dies.")
	} else if n > 1 {
		lines = append(lines, fmt.Sprintf("%d monsters die.", n))
	}
	if res.State == sim.StateLost {
		lines = append(lines, "You die.")
	}
	return lines
}
