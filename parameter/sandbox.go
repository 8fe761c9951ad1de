package parameter

import "time"

// Sandbox
const (
	// SandboxTickInterval is the simulation step of the terminal sandbox
	SandboxTickInterval = 50 * time.Millisecond

	// SandboxHeadlessTicks is the step count of a headless run
	SandboxHeadlessTicks = 600

	// SandboxTileSize is world units per terminal cell
	SandboxTileSize = 8.0

	// SandboxGravity is downward acceleration for gravity-affected movers (world units/tick²)
	SandboxGravity = 0.35

	// SandboxMaxFallSpeed caps downward velocity (world units/tick)
	SandboxMaxFallSpeed = 6.0

	// SandboxPlayerStep is player displacement per arrow key press (world units)
	SandboxPlayerStep = 8.0

	// SandboxLOSRange limits sandbox line of sight (world units)
	SandboxLOSRange = 400.0

	// SandboxStatusLines is rows reserved below the room for the HUD
	SandboxStatusLines = 3
)

// Sandbox - Audio
const (
	SandboxSampleRate   = 44100
	SandboxToneDuration = 50 * time.Millisecond
	SandboxJumpToneHz   = 660
	SandboxFireToneHz   = 880
	SandboxDamageToneHz = 220
	SandboxToneVolume   = 0.25
	SandboxToneAttack   = 5 * time.Millisecond
	SandboxToneRelease  = 20 * time.Millisecond
)

// Sandbox - Logging
const (
	LogDir      = "logs"
	LogFileName = "locomotion.log"
	MaxLogSize  = 10 * 1024 * 1024
)

// Sandbox - HUD
const (
	// SandboxHitFlashTicks is how long a damaged mover renders highlighted
	SandboxHitFlashTicks = 6

	// SandboxEventLines is the number of recent events kept for the HUD
	SandboxEventLines = 2
)
