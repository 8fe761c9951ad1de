// Command locomotion-sandbox drives the locomotion core in a terminal test room
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime/debug"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"

	"github.com/lixenwraith/npc-locomotion/audio"
	"github.com/lixenwraith/npc-locomotion/config"
	"github.com/lixenwraith/npc-locomotion/locomotion"
	"github.com/lixenwraith/npc-locomotion/parameter"
	"github.com/lixenwraith/npc-locomotion/strategy"
)

var (
	configFlag   = flag.String("config", "", "Config file (default: ./config/locomotion.toml, then embedded)")
	debugFlag    = flag.Bool("debug", false, "Write logs to logs/locomotion.log")
	soundFlag    = flag.Bool("sound", false, "Play audio cues for jumps, shots and damage")
	headlessFlag = flag.Bool("headless", false, "Simulate without a screen and print a summary")
	ticksFlag    = flag.Int("ticks", parameter.SandboxHeadlessTicks, "Ticks to simulate in headless mode")
	dumpFlag     = flag.Bool("dump-config", false, "Print the effective config as TOML and exit")
)

func main() {
	flag.Parse()

	if logFile := setupLogging(*debugFlag); logFile != nil {
		defer logFile.Close()
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if *dumpFlag {
		data, err := cfg.Marshal()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode config: %v\n", err)
			os.Exit(1)
		}
		os.Stdout.Write(data)
		return
	}

	world, err := NewWorld(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build world: %v\n", err)
		os.Exit(1)
	}

	// Piped output gets the batch summary instead of a screen
	if *headlessFlag || !term.IsTerminal(int(os.Stdout.Fd())) {
		runHeadless(os.Stdout, world, *ticksFlag)
		return
	}

	sm := audio.NewSoundManager(1)
	if *soundFlag {
		if err := sm.Initialize(); err != nil {
			// Non-fatal, sandbox runs silent
			log.Printf("Audio initialization failed: %v", err)
		}
	}
	defer sm.Cleanup()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize screen: %v\n", err)
		os.Exit(1)
	}

	// Panic Recovery: the deferred Fini below restores the terminal first
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "\nlocomotion-sandbox crashed: %v\nStack Trace:\n%s\n", r, debug.Stack())
			os.Exit(1)
		}
	}()
	defer screen.Fini()

	runInteractive(screen, world, sm)
}

// runInteractive owns the event loop until quit
func runInteractive(screen tcell.Screen, w *World, sm *audio.SoundManager) {
	ticker := time.NewTicker(parameter.SandboxTickInterval)
	defer ticker.Stop()
	done := make(chan struct{})
	defer close(done)

	// Background goroutine pushing tick events into the screen's event loop
	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = screen.PostEvent(tcell.NewEventInterrupt(nil))
			}
		}
	}()

	render(screen, w)
	for {
		switch ev := screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventInterrupt:
			for _, e := range w.Step() {
				if c, ok := cueFor(e); ok {
					sm.Play(c)
				}
			}
			render(screen, w)
		case *tcell.EventKey:
			if !handleKey(w, ev) {
				return
			}
			render(screen, w)
		case *tcell.EventResize:
			screen.Sync()
			render(screen, w)
		}
	}
}

// handleKey moves the player, false means quit
func handleKey(w *World, ev *tcell.EventKey) bool {
	step := parameter.SandboxPlayerStep
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyLeft:
		w.MovePlayer(-step, 0)
	case tcell.KeyRight:
		w.MovePlayer(step, 0)
	case tcell.KeyUp:
		w.MovePlayer(0, -step)
	case tcell.KeyDown:
		w.MovePlayer(0, step)
	case tcell.KeyRune:
		if ev.Rune() == 'q' || ev.Rune() == 'Q' {
			return false
		}
	}
	return true
}

// cueFor maps locomotion events to sounds, status changes stay silent
func cueFor(ev locomotion.Event) (audio.Cue, bool) {
	switch ev.Type {
	case locomotion.EventDamage:
		return audio.CueDamage, true
	case locomotion.EventAction:
		switch ev.Action {
		case strategy.ActionJump:
			return audio.CueJump, true
		case strategy.ActionFire:
			return audio.CueFire, true
		}
	}
	return 0, false
}

// runHeadless steps the world and prints per-mover totals
func runHeadless(out io.Writer, w *World, ticks int) {
	type tally struct {
		jumps, shots, hits int
	}
	counts := make(map[locomotion.MoverID]*tally, len(w.Movers()))
	for _, m := range w.Movers() {
		counts[m.ID] = &tally{}
	}

	for i := 0; i < ticks; i++ {
		for _, e := range w.Step() {
			c := counts[e.Mover]
			if c == nil {
				continue
			}
			switch {
			case e.Type == locomotion.EventDamage:
				c.hits++
			case e.Type == locomotion.EventAction && e.Action == strategy.ActionJump:
				c.jumps++
			case e.Type == locomotion.EventAction && e.Action == strategy.ActionFire:
				c.shots++
			}
		}
	}

	fmt.Fprintf(out, "%d ticks, player at (%.0f, %.0f)\n", w.Tick, w.PlayerX, w.PlayerY)
	fmt.Fprintf(out, "%-8s %8s %8s %-13s %-8s %6s %5s %5s %5s\n", "mover", "x", "y", "terrain", "state", "dmg", "hits", "jumps", "shots")
	for _, m := range w.Movers() {
		c := counts[m.ID]
		fmt.Fprintf(out, "%-8s %8.1f %8.1f %-13s %-8s %6.1f %5d %5d %5d\n",
			m.Name, m.X, m.Y, m.Last.Terrain, m.Last.State, m.DamageTaken, c.hits, c.jumps, c.shots)
	}
}
