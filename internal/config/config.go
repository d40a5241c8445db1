package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"bubblelevel/internal/display/ht16k33"
	"bubblelevel/internal/sensors/lsm303agr"
)

type Config struct {
	Level   LevelConfig   `yaml:"level"`
	Sensor  SensorConfig  `yaml:"sensor"`
	Buttons ButtonsConfig `yaml:"buttons"`
	Display DisplayConfig `yaml:"display"`
	Debug   DebugConfig   `yaml:"debug"`
	Sim     SimConfig     `yaml:"sim"`
}

type LevelConfig struct {
	// Mode is "continuous" or "discrete".
	Mode string `yaml:"mode"`
	// Sense is the sensitivity at startup: "coarse" or "fine".
	Sense       string  `yaml:"sense"`
	ScaleCoarse float64 `yaml:"scale_coarse"`
	ScaleFine   float64 `yaml:"scale_fine"`
	// Mounting signs, each 1 or -1.
	RowSign            int           `yaml:"row_sign"`
	ColSign            int           `yaml:"col_sign"`
	SuppressUpsideDown bool          `yaml:"suppress_upside_down"`
	Hold               time.Duration `yaml:"hold"`
}

type SensorConfig struct {
	// Backend is "lsm303agr" or "sim".
	Backend   string `yaml:"backend"`
	I2CBus    int    `yaml:"i2c_bus"`
	AccelAddr uint16 `yaml:"accel_addr"`
	MagAddr   uint16 `yaml:"mag_addr"`
	// SkipMag disables the magnetometer chip-ID probe.
	SkipMag bool `yaml:"skip_mag"`
	RateHz  int  `yaml:"rate_hz"`
}

type ButtonsConfig struct {
	// Backend is "gpio", "keyboard" (terminal display only) or "none".
	Backend       string        `yaml:"backend"`
	Chip          string        `yaml:"chip"`
	PrimaryLine   string        `yaml:"primary_line"`
	SecondaryLine string        `yaml:"secondary_line"`
	Debounce      time.Duration `yaml:"debounce"`
	Coincidence   time.Duration `yaml:"coincidence"`
}

type DisplayConfig struct {
	// Backend is "ht16k33" or "terminal".
	Backend    string `yaml:"backend"`
	I2CBus     int    `yaml:"i2c_bus"`
	Addr       uint16 `yaml:"addr"`
	Brightness *int   `yaml:"brightness"`
}

type DebugConfig struct {
	// UDPDest, when set, receives every debug line as a datagram.
	UDPDest string `yaml:"udp_dest"`
	// Quiet keeps debug lines out of the process log.
	Quiet bool `yaml:"quiet"`
}

type SimConfig struct {
	// Mode is "manual" (arrow keys, terminal display only) or "wobble".
	Mode         string        `yaml:"mode"`
	AmplitudeDeg float64       `yaml:"amplitude_deg"`
	Period       time.Duration `yaml:"period"`
}

var yamlLinePrefix = regexp.MustCompile(`^line \d+: `)

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(b)
}

// Parse decodes YAML, applies defaults and validates. Unknown fields are
// rejected so typos don't silently fall back to defaults.
func Parse(b []byte) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		var te *yaml.TypeError
		if errors.As(err, &te) {
			msgs := make([]string, 0, len(te.Errors))
			unknown := true
			for _, e := range te.Errors {
				if !strings.Contains(e, "not found in type") {
					unknown = false
				}
				msgs = append(msgs, yamlLinePrefix.ReplaceAllString(e, ""))
			}
			if unknown {
				return Config{}, fmt.Errorf("config contains unknown fields: %s", strings.Join(msgs, "; "))
			}
		}
		return Config{}, err
	}
	if err := DefaultAndValidate(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func DefaultAndValidate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	// Level.
	cfg.Level.Mode = strings.ToLower(strings.TrimSpace(cfg.Level.Mode))
	switch cfg.Level.Mode {
	case "":
		cfg.Level.Mode = "continuous"
	case "continuous", "discrete":
	default:
		return fmt.Errorf("level.mode must be 'continuous' or 'discrete'")
	}
	cfg.Level.Sense = strings.ToLower(strings.TrimSpace(cfg.Level.Sense))
	switch cfg.Level.Sense {
	case "":
		cfg.Level.Sense = "coarse"
	case "coarse", "fine":
	default:
		return fmt.Errorf("level.sense must be 'coarse' or 'fine'")
	}
	if cfg.Level.ScaleCoarse == 0 {
		cfg.Level.ScaleCoarse = 6.0
	}
	if cfg.Level.ScaleFine == 0 {
		cfg.Level.ScaleFine = 60.0
	}
	if cfg.Level.ScaleCoarse < 0 || cfg.Level.ScaleFine < 0 {
		return fmt.Errorf("level.scale_coarse and level.scale_fine must be > 0")
	}
	if cfg.Level.ScaleFine <= cfg.Level.ScaleCoarse {
		return fmt.Errorf("level.scale_fine must be greater than level.scale_coarse")
	}
	if cfg.Level.RowSign == 0 {
		cfg.Level.RowSign = 1
	}
	if cfg.Level.ColSign == 0 {
		cfg.Level.ColSign = 1
	}
	if cfg.Level.RowSign != 1 && cfg.Level.RowSign != -1 {
		return fmt.Errorf("level.row_sign must be 1 or -1")
	}
	if cfg.Level.ColSign != 1 && cfg.Level.ColSign != -1 {
		return fmt.Errorf("level.col_sign must be 1 or -1")
	}
	if cfg.Level.Hold == 0 {
		cfg.Level.Hold = 200 * time.Millisecond
	}
	if cfg.Level.Hold < 0 {
		return fmt.Errorf("level.hold must be > 0")
	}

	// Sensor.
	cfg.Sensor.Backend = strings.ToLower(strings.TrimSpace(cfg.Sensor.Backend))
	switch cfg.Sensor.Backend {
	case "":
		cfg.Sensor.Backend = "lsm303agr"
	case "lsm303agr", "sim":
	default:
		return fmt.Errorf("sensor.backend must be 'lsm303agr' or 'sim'")
	}
	if cfg.Sensor.I2CBus <= 0 {
		cfg.Sensor.I2CBus = 1
	}
	if cfg.Sensor.AccelAddr == 0 {
		cfg.Sensor.AccelAddr = lsm303agr.DefaultAccelAddress()
	}
	if cfg.Sensor.MagAddr == 0 {
		cfg.Sensor.MagAddr = lsm303agr.DefaultMagAddress()
	}
	if cfg.Sensor.AccelAddr > 0x7F || cfg.Sensor.MagAddr > 0x7F {
		return fmt.Errorf("sensor i2c addresses must be 7-bit")
	}
	if cfg.Sensor.RateHz == 0 {
		cfg.Sensor.RateHz = 50
	}
	switch cfg.Sensor.RateHz {
	case 1, 10, 25, 50, 100, 200, 400:
	default:
		return fmt.Errorf("sensor.rate_hz must be one of 1, 10, 25, 50, 100, 200, 400")
	}

	// Display.
	cfg.Display.Backend = strings.ToLower(strings.TrimSpace(cfg.Display.Backend))
	switch cfg.Display.Backend {
	case "":
		cfg.Display.Backend = "ht16k33"
	case "ht16k33", "terminal":
	default:
		return fmt.Errorf("display.backend must be 'ht16k33' or 'terminal'")
	}
	if cfg.Display.I2CBus <= 0 {
		cfg.Display.I2CBus = cfg.Sensor.I2CBus
	}
	if cfg.Display.Addr == 0 {
		cfg.Display.Addr = ht16k33.DefaultAddress()
	}
	if cfg.Display.Addr > 0x7F {
		return fmt.Errorf("display.addr must be 7-bit")
	}
	if cfg.Display.Brightness == nil {
		v := 15
		cfg.Display.Brightness = &v
	}
	if *cfg.Display.Brightness < 0 || *cfg.Display.Brightness > 15 {
		return fmt.Errorf("display.brightness must be in [0,15]")
	}
	terminal := cfg.Display.Backend == "terminal"

	// Buttons.
	cfg.Buttons.Backend = strings.ToLower(strings.TrimSpace(cfg.Buttons.Backend))
	switch cfg.Buttons.Backend {
	case "":
		if terminal {
			cfg.Buttons.Backend = "keyboard"
		} else {
			cfg.Buttons.Backend = "gpio"
		}
	case "gpio", "none":
	case "keyboard":
		if !terminal {
			return fmt.Errorf("buttons.backend 'keyboard' requires display.backend 'terminal'")
		}
	default:
		return fmt.Errorf("buttons.backend must be 'gpio', 'keyboard' or 'none'")
	}
	if strings.TrimSpace(cfg.Buttons.Chip) == "" {
		cfg.Buttons.Chip = "gpiochip0"
	}
	if strings.TrimSpace(cfg.Buttons.PrimaryLine) == "" {
		cfg.Buttons.PrimaryLine = "GPIO5"
	}
	if strings.TrimSpace(cfg.Buttons.SecondaryLine) == "" {
		cfg.Buttons.SecondaryLine = "GPIO6"
	}
	if cfg.Buttons.Backend == "gpio" && cfg.Buttons.PrimaryLine == cfg.Buttons.SecondaryLine {
		return fmt.Errorf("buttons.primary_line and buttons.secondary_line must differ")
	}
	if cfg.Buttons.Debounce < 0 || cfg.Buttons.Coincidence < 0 {
		return fmt.Errorf("buttons.debounce and buttons.coincidence must be >= 0")
	}
	if cfg.Buttons.Debounce == 0 {
		cfg.Buttons.Debounce = 5 * time.Millisecond
	}
	if cfg.Buttons.Coincidence == 0 {
		cfg.Buttons.Coincidence = 20 * time.Millisecond
	}

	// Simulator defaults (safe even if the sim sensor is unused).
	cfg.Sim.Mode = strings.ToLower(strings.TrimSpace(cfg.Sim.Mode))
	switch cfg.Sim.Mode {
	case "":
		if terminal {
			cfg.Sim.Mode = "manual"
		} else {
			cfg.Sim.Mode = "wobble"
		}
	case "wobble":
	case "manual":
		if !terminal {
			return fmt.Errorf("sim.mode 'manual' requires display.backend 'terminal'")
		}
	default:
		return fmt.Errorf("sim.mode must be 'manual' or 'wobble'")
	}
	if cfg.Sim.AmplitudeDeg <= 0 {
		cfg.Sim.AmplitudeDeg = 10
	}
	if cfg.Sim.Period <= 0 {
		cfg.Sim.Period = 20 * time.Second
	}

	cfg.Debug.UDPDest = strings.TrimSpace(cfg.Debug.UDPDest)
	return nil
}
