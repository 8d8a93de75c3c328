package core

// RuntimeConfig contains configuration passed to games at initialization.
// Games use this to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW int   // Screen width in characters
	ScreenH int   // Screen height in characters
	Seed    int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW: 80,
		ScreenH: 24,
		Seed:    0, // 0 means use current time in platform layer
	}
}

// GameState represents the current state of a game as seen by the platform.
type GameState struct {
	Turns    int  // Turns taken so far
	Kills    int  // Monsters removed so far
	GameOver bool // Whether the run has ended
}

// StepResult is returned by Game.Step() after each input frame.
type StepResult struct {
	State     GameState
	TurnTaken bool // Whether the frame advanced the simulation
}
