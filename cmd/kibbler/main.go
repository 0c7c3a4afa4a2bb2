package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/kibbler/pkg/clock"
	"github.com/umputun/kibbler/pkg/config"
	"github.com/umputun/kibbler/pkg/device"
	"github.com/umputun/kibbler/pkg/hardware"
	"github.com/umputun/kibbler/pkg/input"
	"github.com/umputun/kibbler/pkg/power"
	"github.com/umputun/kibbler/pkg/schedule"
	"github.com/umputun/kibbler/pkg/store"
	"github.com/umputun/kibbler/server"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"f" long:"config" env:"CONFIG" default:"kibbler.yml" description:"config file"`
	Listen string `short:"l" long:"listen" env:"LISTEN" description:"REST listen address, overrides the config"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
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

	setupLog(opts.Debug)

	log.Printf("[INFO] starting kibbler version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts)
	cancel()

	if err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("[ERROR] feeder failed: %v", err)
		os.Exit(1)
	}

	log.Print("[INFO] shutdown complete")
}

// run assembles the feeder from the config and drives it until the context is
// cancelled: control loop, input watchers and the optional REST server all run
// in one group and the first hard failure stops everything.
func run(ctx context.Context, opts Opts) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if opts.Listen != "" {
		cfg.Server.Listen = opts.Listen
	}

	st, err := store.New(store.Config{DSN: cfg.Storage.DSN})
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Printf("[WARN] failed to close store: %v", err)
		}
	}()

	keep := time.Duration(cfg.Storage.KeepDays) * 24 * time.Hour
	if purged, err := st.PurgeEvents(ctx, keep); err != nil {
		log.Printf("[WARN] failed to purge old feed events: %v", err)
	} else if purged > 0 {
		log.Printf("[INFO] purged %d feed events older than %d days", purged, cfg.Storage.KeepDays)
	}

	schedStore := schedule.NewStore(st.NVS(cfg.Storage.Namespace))
	sched, err := schedStore.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load schedule: %w", err)
	}
	log.Printf("[INFO] loaded %d feed times from %s", sched.Len(), cfg.Storage.Namespace)

	rtc, closeRTC, err := makeRTC(cfg)
	if err != nil {
		return err
	}
	defer closeRTC()

	sleeper, err := makeSleeper(cfg)
	if err != nil {
		return err
	}

	enc := &input.Encoder{}

	// the watchers notify the device, which exists only after the peripherals;
	// they start running in the group below, past the assignment
	var dev *device.Device
	per := headlessPeripherals()
	if cfg.Hardware.Enabled {
		if per, err = hardwarePeripherals(cfg.Hardware, enc, func() { dev.Notify() }); err != nil {
			return err
		}
	}
	defer per.close()

	dev = device.New(device.Params{
		RTC:         rtc,
		Dispenser:   per.dispenser,
		Renderer:    per.renderer,
		Sleeper:     sleeper,
		Saver:       schedStore,
		Recorder:    st,
		Encoder:     enc,
		Buttons:     per.buttons,
		Schedule:    sched,
		IdleTimeout: cfg.Device.IdleTimeout,
		Tick:        cfg.Device.PollInterval,
		Debounce:    cfg.Device.Debounce,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return dev.Run(gctx) })
	for _, watch := range per.watch {
		g.Go(func() error { return watch(gctx) })
	}
	if cfg.Server.Enabled {
		srv := server.New(cfg, dev, st, revision, opts.Debug)
		g.Go(func() error { return srv.Run(gctx) })
	}

	// tell systemd the feeder is up
	if ok, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		log.Printf("[WARN] systemd notify failed: %v", err)
	} else if ok {
		log.Printf("[DEBUG] systemd notified")
	}

	return g.Wait()
}

// makeRTC picks the clock source. The ds3231 driver holds its I2C bus open
// for the life of the process.
func makeRTC(cfg *config.Config) (rtc device.RTC, cleanup func(), err error) {
	if cfg.RTC.Driver == "ds3231" {
		if err := hardware.Init(); err != nil {
			return nil, nil, fmt.Errorf("failed to init hardware for rtc: %w", err)
		}
		bus, err := hardware.OpenBus(cfg.RTC.Bus)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open rtc bus: %w", err)
		}
		closeBus := func() {
			if err := bus.Close(); err != nil {
				log.Printf("[WARN] failed to close rtc bus: %v", err)
			}
		}
		log.Printf("[INFO] using ds3231 rtc on bus %s", cfg.RTC.Bus)
		return hardware.NewDS3231(bus), closeBus, nil
	}
	return clock.NewSystem(), func() {}, nil
}

// makeSleeper picks the idle strategy: a plain in-process timer, or suspend
// to RAM with an rtc wakealarm.
func makeSleeper(cfg *config.Config) (device.Sleeper, error) {
	if cfg.Power.Mode == "suspend" {
		sleeper, err := power.NewLogindSleeper(cfg.Power.RTCDevice)
		if err != nil {
			return nil, fmt.Errorf("failed to set up suspend mode: %w", err)
		}
		log.Printf("[INFO] suspend to RAM enabled, wakealarm on %s", cfg.Power.RTCDevice)
		return sleeper, nil
	}
	return power.TimerSleeper{}, nil
}

func setupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
