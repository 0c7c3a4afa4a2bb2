package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/umputun/kibbler/pkg/clock"
	"github.com/umputun/kibbler/pkg/device"
	"github.com/umputun/kibbler/pkg/input"
	"github.com/umputun/kibbler/pkg/power"
	"github.com/umputun/kibbler/pkg/schedule"
	"github.com/umputun/kibbler/pkg/sim"
	"github.com/umputun/kibbler/pkg/store"
)

// Opts with all CLI options
type Opts struct {
	DB   string        `long:"db" env:"KIBBLER_DB" default:"kibbler-sim.db" description:"sqlite database path"`
	Idle time.Duration `long:"idle" env:"KIBBLER_IDLE" default:"45s" description:"inactivity before the feeder suspends"`
	Spin time.Duration `long:"spin" default:"400ms" description:"simulated motor time per rotation"`
	Log  string        `long:"log" env:"KIBBLER_LOG" description:"append device logs to this file, discarded if unset"`

	Version bool `short:"V" long:"version" description:"show version info"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	if err := setupLog(opts.Log); err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "kibbler-sim failed: %v\n", err)
		os.Exit(1)
	}
}

// run wires the real control loop to the terminal panel and hands the
// terminal to Bubble Tea until the user quits.
func run(opts Opts) error {
	st, err := store.New(store.Config{DSN: fmt.Sprintf("file:%s?cache=shared&mode=rwc", opts.DB)})
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Printf("[WARN] failed to close store: %v", err)
		}
	}()

	if purged, err := st.PurgeEvents(context.Background(), 30*24*time.Hour); err != nil {
		log.Printf("[WARN] failed to purge old feed events: %v", err)
	} else if purged > 0 {
		log.Printf("[DEBUG] purged %d old feed events", purged)
	}

	schedStore := schedule.NewStore(st.NVS("feeder"))
	sched, err := schedStore.Load(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load schedule: %w", err)
	}

	enc := &input.Encoder{}
	panel := sim.NewPanel()

	dev := device.New(device.Params{
		RTC:         clock.NewSystem(),
		Dispenser:   sim.Dispenser{Spin: opts.Spin},
		Renderer:    panel,
		Sleeper:     power.TimerSleeper{},
		Saver:       schedStore,
		Recorder:    sim.Recorder{Next: st, Panel: panel},
		Encoder:     enc,
		Buttons:     panel,
		Schedule:    sched,
		IdleTimeout: opts.Idle,
	})

	model := sim.New(sim.Params{Device: dev, Panel: panel, Encoder: enc})
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("terminal ui failed: %w", err)
	}
	return nil
}

// setupLog sends device logs to the given file, or discards them; the
// terminal belongs to the panel while the simulator runs.
func setupLog(path string) error {
	if path == "" {
		lgr.SetupStdLogger(lgr.Out(io.Discard), lgr.Err(io.Discard))
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec // user-supplied log path
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	lgr.SetupStdLogger(lgr.Debug, lgr.Msec, lgr.Out(f), lgr.Err(f))
	return nil
}
