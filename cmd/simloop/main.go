package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/profile"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/simloop/audio"
	"github.com/lixenwraith/simloop/config"
	"github.com/lixenwraith/simloop/engine"
	"github.com/lixenwraith/simloop/input"
	"github.com/lixenwraith/simloop/render"
)

var (
	configFlag   = flag.String("config", "", "Path to a KEY=VALUE config file; environment overrides it")
	tpsFlag      = flag.Int("tps", 0, "Simulation ticks per second (0 keeps the configured value)")
	fpsFlag      = flag.Int("fps", 0, "Presentation frames per second (0 keeps the configured value)")
	maxTicksFlag = flag.Int("max-ticks", -1, "Stop after this many ticks (0 runs forever, -1 keeps the configured value)")
	headlessFlag = flag.Bool("headless", false, "Run without a terminal or audio")
	recordFlag   = flag.String("record", "", "Write every fresh frame as JSON lines to this file")
	muteFlag     = flag.Bool("mute", false, "Start with audio muted")
	debugFlag    = flag.Bool("debug", false, "Write debug logs to logs/simloop.log")
	profileFlag  = flag.String("profile", "", "Profile the run: cpu or mem")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "simloop: %s\n", eris.ToString(err, *debugFlag))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(*configFlag)
	if err != nil {
		return err
	}
	applyFlags(&cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, logFile := setupLogging(cfg.Debug)
	if logFile != nil {
		defer logFile.Close()
	}

	switch *profileFlag {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		return eris.Errorf("unknown profile mode %q", *profileFlag)
	}

	opts := []engine.GameOption{engine.WithGameLogger(logger)}

	if cfg.RecordPath != "" {
		f, err := os.Create(cfg.RecordPath)
		if err != nil {
			return eris.Wrap(err, "failed to create recording")
		}
		defer f.Close()
		rec := render.NewRecorder(f)
		defer func() {
			if err := rec.Flush(); err != nil {
				logger.Error().Err(err).Msg("failed to flush recording")
			}
			logger.Info().Int("frames", rec.Frames()).Str("path", cfg.RecordPath).Msg("recording closed")
		}()
		opts = append(opts, engine.WithFrameSinks(rec))
	}

	if cfg.Headless {
		interrupt := newInterruptPresenter()
		defer interrupt.Close()
		opts = append(opts, engine.WithPresenters(interrupt))
		return runGame(cfg, logger, opts)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return eris.Wrap(err, "failed to create screen")
	}
	if err := screen.Init(); err != nil {
		return eris.Wrap(err, "failed to initialize screen")
	}
	// Restore the terminal before anything reaches stderr, including panics on this goroutine
	defer func() {
		if r := recover(); r != nil {
			screen.Fini()
			fmt.Fprintf(os.Stderr, "\n\x1b[31mSIMLOOP CRASHED: %v\x1b[0m\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
		screen.Fini()
	}()

	term := render.NewTerminal(screen, cfg, render.WithTerminalLogger(logger.With().Str("sink", "terminal").Logger()))
	pump := input.NewPump(screen, logger.With().Str("presenter", "input").Logger())
	defer pump.Close()

	opts = append(opts,
		engine.WithPresenters(pump),
		engine.WithRequestSinks(term),
		engine.WithFrameSinks(term),
	)

	if out, err := audio.NewSpeakerOutput(audio.SampleRate); err == nil {
		defer out.Stop()
		opts = append(opts, engine.WithRequestSinks(audio.NewSink(out, cfg.Muted, logger.With().Str("sink", "audio").Logger())))
	} else {
		logger.Warn().Err(err).Msg("audio unavailable, continuing without sound")
	}

	return runGame(cfg, logger, opts)
}

func runGame(cfg config.Config, logger zerolog.Logger, opts []engine.GameOption) error {
	start := time.Now()
	s := newScene(cfg, start.UnixNano())
	err := engine.NewGame(cfg, opts...).Run(s.Init)
	logger.Info().Dur("elapsed", time.Since(start)).Err(err).Msg("game finished")
	return err
}

// applyFlags overrides configuration with explicitly set flags
func applyFlags(cfg *config.Config) {
	if *tpsFlag > 0 {
		cfg.TicksPerSecond = *tpsFlag
	}
	if *fpsFlag > 0 {
		cfg.FrameRate = *fpsFlag
	}
	if *maxTicksFlag >= 0 {
		cfg.MaxTicks = *maxTicksFlag
	}
	if *headlessFlag {
		cfg.Headless = true
	}
	if *recordFlag != "" {
		cfg.RecordPath = *recordFlag
	}
	if *muteFlag {
		cfg.Muted = true
	}
	if *debugFlag {
		cfg.Debug = true
	}
}

// interruptPresenter stops the game on SIGINT or SIGTERM when no terminal is attached
type interruptPresenter struct {
	signals chan os.Signal
}

func newInterruptPresenter() *interruptPresenter {
	p := &interruptPresenter{signals: make(chan os.Signal, 1)}
	signal.Notify(p.signals, os.Interrupt, syscall.SIGTERM)
	return p
}

func (p *interruptPresenter) Update(state *engine.SharedState) error {
	select {
	case <-p.signals:
		state.Stop()
	default:
	}
	return nil
}

func (p *interruptPresenter) Close() {
	signal.Stop(p.signals)
}
