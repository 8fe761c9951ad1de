package parameter

// Coordinator
const (
	// DamageIntervalTicks is ticks between periodic damage emissions on a hazardous tile
	// First contact emits immediately
	DamageIntervalTicks = 30

	// CoordinatorRandSeed seeds the stuck-chance roller when none is injected
	CoordinatorRandSeed = 0x9E3779B97F4A7C15

	// TraversalDamageWeight converts per-interval damage to traversal cost
	TraversalDamageWeight = 0.5
)

// Archetype defaults applied when a config entry omits the field
const (
	// ArchetypeDefaultFriction is the fraction of carried ground velocity lost per tick
	ArchetypeDefaultFriction = 0.15

	// ArchetypeDefaultGravity marks archetypes gravity-bound unless configured otherwise
	ArchetypeDefaultGravity = true
)

// Configuration
const (
	// ConfigDefaultDir holds the external override config
	ConfigDefaultDir = "config"

	// ConfigDefaultFile is the external override file inside ConfigDefaultDir
	ConfigDefaultFile = "locomotion.toml"
)
