package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"bubblelevel/internal/button"
	"bubblelevel/internal/config"
	"bubblelevel/internal/debug"
	"bubblelevel/internal/display/ht16k33"
	"bubblelevel/internal/i2c"
	"bubblelevel/internal/level"
	"bubblelevel/internal/runloop"
	"bubblelevel/internal/sensors/lsm303agr"
	"bubblelevel/internal/sim"
	"bubblelevel/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
)

var openBusFn = i2c.OpenBus

// runtime owns everything built at startup. The latch, edge register and
// handler are created once here and handed to both the loop and whichever
// backend delivers button edges.
type runtime struct {
	cfg config.Config

	latch    *button.Latch
	register *button.EventRegister
	handler  *button.Handler
	level    *level.Level
	debug    *debug.Stream

	sensor  runloop.Sensor
	display runloop.Display

	buses   map[int]*i2c.Bus
	closers []func() error

	// Terminal simulator only.
	program *tea.Program
	sink    *tui.Sink
	tail    *debug.Tail
}

func newRuntime(cfg config.Config) (_ *runtime, err error) {
	rt := &runtime{
		cfg:   cfg,
		latch: &button.Latch{},
		level: level.New(levelConfig(cfg.Level)),
		debug: debug.NewStream(),
		buses: map[int]*i2c.Bus{},
	}
	rt.register = &button.EventRegister{}
	rt.handler = button.NewHandler(rt.register, rt.latch)
	defer func() {
		if err != nil {
			rt.Close()
		}
	}()

	terminal := cfg.Display.Backend == "terminal"
	if terminal {
		rt.tail = debug.NewTail(200)
	}

	if !cfg.Debug.Quiet {
		rt.debug.Add("log", debug.LogWriter{})
	}
	if cfg.Debug.UDPDest != "" {
		us, err := debug.NewUDPSink(cfg.Debug.UDPDest)
		if err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, us.Close)
		rt.debug.Add("udp "+us.Dest(), us)
	}

	var manual *sim.Manual
	switch cfg.Sensor.Backend {
	case "lsm303agr":
		bus, err := rt.bus(cfg.Sensor.I2CBus)
		if err != nil {
			return nil, err
		}
		var mag *i2c.Dev
		if !cfg.Sensor.SkipMag {
			mag = bus.Dev(cfg.Sensor.MagAddr)
		}
		dev, err := lsm303agr.New(bus.Dev(cfg.Sensor.AccelAddr), mag, cfg.Sensor.RateHz)
		if err != nil {
			return nil, err
		}
		accelID, magID := dev.ChipIDs()
		rt.debug.Printf("The accelerometer chip's id is: %#b", accelID)
		if !cfg.Sensor.SkipMag {
			rt.debug.Printf("The magnetometer chip's id is: %#b", magID)
		}
		rt.sensor = dev
	case "sim":
		if cfg.Sim.Mode == "manual" {
			manual = sim.NewManual()
			rt.sensor = manual
		} else {
			rt.sensor = sim.Wobble{AmplitudeDeg: cfg.Sim.AmplitudeDeg, Period: cfg.Sim.Period}
		}
	default:
		return nil, fmt.Errorf("unknown sensor backend %q", cfg.Sensor.Backend)
	}

	switch cfg.Buttons.Backend {
	case "gpio":
		g, err := button.OpenGPIO(button.GPIOConfig{
			Chip:          cfg.Buttons.Chip,
			PrimaryLine:   cfg.Buttons.PrimaryLine,
			SecondaryLine: cfg.Buttons.SecondaryLine,
			Debounce:      cfg.Buttons.Debounce,
			Coincidence:   cfg.Buttons.Coincidence,
		}, rt.register, rt.handler)
		if err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, g.Close)
	case "keyboard", "none":
	default:
		return nil, fmt.Errorf("unknown buttons backend %q", cfg.Buttons.Backend)
	}

	switch cfg.Display.Backend {
	case "ht16k33":
		bus, err := rt.bus(cfg.Display.I2CBus)
		if err != nil {
			return nil, err
		}
		d, err := ht16k33.New(bus.Dev(cfg.Display.Addr), *cfg.Display.Brightness)
		if err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, d.Close)
		rt.display = d
	case "terminal":
		opts := tui.Options{Tilt: manual, Tail: rt.tail}
		if cfg.Buttons.Backend == "keyboard" {
			opts.Register = rt.register
			opts.Handler = rt.handler
		}
		rt.program = tea.NewProgram(tui.New(opts), tea.WithAltScreen())
		rt.sink = tui.NewSink(rt.program)
		rt.display = rt.sink
	default:
		return nil, fmt.Errorf("unknown display backend %q", cfg.Display.Backend)
	}

	return rt, nil
}

func levelConfig(c config.LevelConfig) level.Config {
	lc := level.Config{
		ScaleCoarse:        c.ScaleCoarse,
		ScaleFine:          c.ScaleFine,
		RowSign:            c.RowSign,
		ColSign:            c.ColSign,
		SuppressUpsideDown: c.SuppressUpsideDown,
	}
	if c.Mode == "discrete" {
		lc.Mode = level.Discrete
	}
	if c.Sense == "fine" {
		lc.Sense = level.Fine
	}
	return lc
}

// bus opens each adapter once; the sensor and LED driver usually share one.
func (rt *runtime) bus(n int) (*i2c.Bus, error) {
	if b, ok := rt.buses[n]; ok {
		return b, nil
	}
	b, err := openBusFn(n)
	if err != nil {
		return nil, err
	}
	rt.buses[n] = b
	return b, nil
}

func (rt *runtime) loop() *runloop.Loop {
	l := &runloop.Loop{
		Sensor:  rt.sensor,
		Latch:   rt.latch,
		Level:   rt.level,
		Display: rt.display,
		Debug:   rt.debug,
		Hold:    rt.cfg.Level.Hold,
	}
	if rt.sink != nil {
		l.OnFrame = rt.sink.Frame
	}
	return l
}

// run blocks until ctx is done, the terminal UI quits or the sensor fails.
// Only a sensor failure is returned.
func (rt *runtime) run(ctx context.Context) error {
	loop := rt.loop()
	if rt.program == nil {
		return loop.Run(ctx)
	}

	// The UI owns the terminal; keep log output inside it.
	log.SetOutput(rt.tail)
	defer log.SetOutput(os.Stderr)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loopErr := make(chan error, 1)
	go func() {
		err := loop.Run(ctx)
		if err != nil {
			rt.program.Quit()
		}
		loopErr <- err
	}()
	go func() {
		<-ctx.Done()
		rt.program.Quit()
	}()

	_, uiErr := rt.program.Run()
	cancel()
	if err := <-loopErr; err != nil {
		return err
	}
	if uiErr != nil {
		return fmt.Errorf("terminal ui: %w", uiErr)
	}
	return nil
}

// Close releases backends in reverse order of creation. The display is
// blanked before the bus it's on is closed.
func (rt *runtime) Close() {
	if rt == nil {
		return
	}
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			log.Printf("close: %v", err)
		}
	}
	rt.closers = nil
	for n, b := range rt.buses {
		_ = b.Close()
		delete(rt.buses, n)
	}
}
