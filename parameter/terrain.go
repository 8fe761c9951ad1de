package parameter

// Terrain - Grid
const (
	// TerrainDefaultTileSize is world units per terrain tile edge
	TerrainDefaultTileSize = 32.0

	// TerrainMaxGridDimension bounds width and height of a loaded grid (tiles)
	TerrainMaxGridDimension = 4096
)

// Terrain - Effect Table
// Speed and control are multipliers, damage is hit points per damage interval
const (
	TerrainRoughSpeed   = 0.75
	TerrainRoughControl = 0.9

	TerrainWaterSpeed   = 0.6
	TerrainWaterControl = 0.7

	TerrainMudSpeed   = 0.4
	TerrainMudControl = 0.6

	// TerrainIceSpeed is above 1, ice is faster but nearly uncontrollable
	TerrainIceSpeed      = 1.1
	TerrainIceControl    = 0.3
	TerrainIceSlideBlend = 0.8

	TerrainLavaSpeed   = 0.7
	TerrainLavaControl = 0.8
	TerrainLavaDamage  = 5.0

	TerrainToxicSpeed   = 0.8
	TerrainToxicControl = 0.9
	TerrainToxicDamage  = 2.0

	// TerrainSteepSlideY pulls downhill (positive y is down)
	TerrainSteepSpeed      = 0.5
	TerrainSteepControl    = 0.5
	TerrainSteepSlideBlend = 0.5
	TerrainSteepSlideY     = 1.0

	TerrainNarrowSpeed = 0.8

	TerrainDestructibleSpeed       = 0.5
	TerrainDestructibleControl     = 0.8
	TerrainDestructibleDamage      = 1.0
	TerrainDestructibleStuckChance = 0.25
)
