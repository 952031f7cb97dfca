package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/shoal/audio"
	"github.com/lixenwraith/shoal/core"
	"github.com/lixenwraith/shoal/engine"
	"github.com/lixenwraith/shoal/input"
	"github.com/lixenwraith/shoal/parameter"
	"github.com/lixenwraith/shoal/render"
	"github.com/lixenwraith/shoal/status"
)

var (
	configFlag    = flag.String("config", "", "TOML config file")
	debugFlag     = flag.Bool("debug", false, "Write debug log to logs/shoal.log")
	recordFlag    = flag.String("record", "", "Write played notes to a standard MIDI file on exit")
	seedFlag      = flag.Int64("seed", 0, "Random seed, 0 seeds from the clock")
	particlesFlag = flag.Int("particles", -1, "Particle count, overrides config")
	muteFlag      = flag.Bool("mute", false, "Run without opening an audio device")
)

func main() {
	// Panic Recovery: Ensure terminal is reset even if the loop crashes
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	flag.Parse()

	logFile := setupLogging(*debugFlag)
	if logFile != nil {
		defer logFile.Close()
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// loadConfig layers defaults, file, environment and flags
func loadConfig() (*parameter.Config, error) {
	cfg := parameter.Default()
	if *configFlag != "" {
		if err := parameter.LoadFile(cfg, *configFlag); err != nil {
			return nil, err
		}
	}
	parameter.ApplyEnv(cfg)

	if *seedFlag != 0 {
		cfg.Seed = *seedFlag
	}
	if *particlesFlag >= 0 {
		cfg.Particles = *particlesFlag
	}
	if *muteFlag {
		cfg.Audio.Enabled = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(cfg *parameter.Config) error {
	clock := engine.NewTimeProvider()
	reg := status.NewRegistry()

	synthCfg := audio.DefaultSynthConfig()
	synthCfg.Enabled = cfg.Audio.Enabled
	synthCfg.MasterVolume = cfg.Audio.MasterVolume
	synthCfg.Voices = cfg.Audio.Voices
	synthCfg.ReverbDecay = cfg.Audio.ReverbDecay
	synthCfg.ReverbWet = cfg.Audio.ReverbWet
	synthCfg.ApplyEnv()
	if *muteFlag {
		synthCfg.Enabled = false
	}

	synth, err := audio.NewSynth(synthCfg)
	if err != nil {
		return fmt.Errorf("audio: %w", err)
	}
	synth.AttachStatus(reg)
	defer synth.Close()

	var sound audio.Engine = synth
	var recorder *audio.Recorder
	if *recordFlag != "" {
		recorder = audio.NewRecorder(synth, clock, cfg.Trigger.CutoffMinHz, cfg.Trigger.CutoffMaxHz)
		sound = recorder
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	core.SetCrashScreen(screen)
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()

	g, err := engine.NewGrid(cfg)
	if err != nil {
		return err
	}
	view := render.NewScreen(screen, g, reg, cfg.Display.UnitsPerColumn, cfg.Display.UnitsPerRow, cfg.Display.FPS())
	view.SetStatusKeys(
		engine.MetricState,
		engine.MetricSteering,
		engine.MetricSounding,
		engine.MetricNotes,
		engine.MetricCutoff,
		audio.MetricVoices,
		audio.MetricStolen,
	)

	sim, err := engine.NewSimulation(cfg, view.Viewport(), sound, view, clock, reg)
	if err != nil {
		return err
	}
	log.Printf("shoal: %d particles, grid %dx%d, viewport %.0fx%.0f",
		cfg.Particles, cfg.Grid.Cols, cfg.Grid.Rows, sim.Viewport().Width, sim.Viewport().Height)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The poller outlives the loop until screen.Fini unblocks PollEvent
	events := make(chan tcell.Event, 100)
	core.Go(func() { pollEvents(ctx, screen.PollEvent, events) })

	tracker := input.NewPointerTracker(cfg.Display.UnitsPerColumn, cfg.Display.UnitsPerRow)
	engine.NewLoop(sim, view, tracker, cfg.Display.FrameInterval).Run(ctx, events)
	stop()

	triggered, released, stolen := synth.GetStats()
	log.Printf("shoal: exiting after %s, audio %d/%d/%d triggered/released/stolen", sim.Stats(), triggered, released, stolen)
	log.Printf("shoal: %d metrics\n%s", reg.TotalCount(), reg.Dump())

	if recorder != nil {
		if err := recorder.Save(*recordFlag); err != nil {
			return fmt.Errorf("record: %w", err)
		}
		log.Printf("shoal: wrote %d recorded notes and controls to %s", recorder.Len(), *recordFlag)
	}
	return nil
}

// pollEvents forwards terminal events until poll returns nil or ctx ends
// A nil event closes events; a cancelled ctx abandons a pending send
func pollEvents(ctx context.Context, poll func() tcell.Event, events chan<- tcell.Event) {
	for {
		ev := poll()
		if ev == nil {
			close(events)
			return
		}
		select {
		case events <- ev:
		case <-ctx.Done():
			return
		}
	}
}
