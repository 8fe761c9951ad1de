package locomotion

import (
	"fmt"

	"github.com/lixenwraith/npc-locomotion/strategy"
	"github.com/lixenwraith/npc-locomotion/terrain"
)

// MoverID identifies a spawned mover
type MoverID uint64

// EventType represents the type of locomotion event
type EventType int

const (
	// EventDamage reports periodic terrain damage
	// Trigger: Hazardous tile, once per damage interval
	// Consumer: Combat collaborator | Payload: Damage
	EventDamage EventType = iota

	// EventStatus reports a terrain status starting or ending on a mover
	// Trigger: Terrain status transition
	// Consumer: Status/animation collaborator | Payload: Status, Active
	EventStatus

	// EventAction relays a strategy action request
	// Trigger: Strategy decision
	// Consumer: Owning entity | Payload: Action
	EventAction
)

func (t EventType) String() string {
	switch t {
	case EventDamage:
		return "damage"
	case EventStatus:
		return "status"
	case EventAction:
		return "action"
	}
	return "unknown"
}

// Event is emitted by Tick, never applied to world state by the coordinator
type Event struct {
	Type  EventType
	Mover MoverID

	Damage float64 // EventDamage

	Status terrain.Status // EventStatus
	Active bool           // EventStatus, false when the status ends

	Action strategy.Action // EventAction
}

func (e Event) String() string {
	switch e.Type {
	case EventDamage:
		return fmt.Sprintf("mover %d damage %.2f", e.Mover, e.Damage)
	case EventStatus:
		state := "off"
		if e.Active {
			state = "on"
		}
		return fmt.Sprintf("mover %d status %s %s", e.Mover, e.Status, state)
	case EventAction:
		return fmt.Sprintf("mover %d action %s", e.Mover, e.Action)
	}
	return fmt.Sprintf("mover %d %s", e.Mover, e.Type)
}
