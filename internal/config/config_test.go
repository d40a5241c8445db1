package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	tmp := t.TempDir()
	path := filepath.Join(tmp, "cfg.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	return path
}

func requireErrEq(t *testing.T, err error, want string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error %q, got nil", want)
	}
	if err.Error() != want {
		t.Fatalf("error=%q want %q", err.Error(), want)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoad_EmptyFileUsesDefaults(t *testing.T) {
	cfg, err := Load(writeTempConfig(t, ""))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Level.Mode != "continuous" || cfg.Level.Sense != "coarse" {
		t.Fatalf("level mode=%q sense=%q", cfg.Level.Mode, cfg.Level.Sense)
	}
	if cfg.Level.ScaleCoarse != 6 || cfg.Level.ScaleFine != 60 {
		t.Fatalf("scales=%v,%v want 6,60", cfg.Level.ScaleCoarse, cfg.Level.ScaleFine)
	}
	if cfg.Level.RowSign != 1 || cfg.Level.ColSign != 1 {
		t.Fatalf("signs=%d,%d want 1,1", cfg.Level.RowSign, cfg.Level.ColSign)
	}
	if cfg.Level.Hold != 200*time.Millisecond {
		t.Fatalf("hold=%s want 200ms", cfg.Level.Hold)
	}
	if cfg.Sensor.Backend != "lsm303agr" || cfg.Sensor.I2CBus != 1 || cfg.Sensor.AccelAddr != 0x19 || cfg.Sensor.MagAddr != 0x1E || cfg.Sensor.RateHz != 50 {
		t.Fatalf("sensor defaults not applied: %+v", cfg.Sensor)
	}
	if cfg.Display.Backend != "ht16k33" || cfg.Display.Addr != 0x70 || cfg.Display.I2CBus != 1 || *cfg.Display.Brightness != 15 {
		t.Fatalf("display defaults not applied: %+v", cfg.Display)
	}
	if cfg.Buttons.Backend != "gpio" || cfg.Buttons.Chip != "gpiochip0" || cfg.Buttons.PrimaryLine != "GPIO5" || cfg.Buttons.SecondaryLine != "GPIO6" {
		t.Fatalf("button defaults not applied: %+v", cfg.Buttons)
	}
	if cfg.Buttons.Debounce != 5*time.Millisecond || cfg.Buttons.Coincidence != 20*time.Millisecond {
		t.Fatalf("button timing defaults: %+v", cfg.Buttons)
	}
	if cfg.Sim.Mode != "wobble" || cfg.Sim.AmplitudeDeg != 10 || cfg.Sim.Period != 20*time.Second {
		t.Fatalf("sim defaults not applied: %+v", cfg.Sim)
	}
}

func TestLoad_TerminalDefaults(t *testing.T) {
	cfg, err := Load(writeTempConfig(t, "display:\n  backend: terminal\nsensor:\n  backend: sim\n"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Buttons.Backend != "keyboard" {
		t.Fatalf("buttons.backend=%q want keyboard", cfg.Buttons.Backend)
	}
	if cfg.Sim.Mode != "manual" {
		t.Fatalf("sim.mode=%q want manual", cfg.Sim.Mode)
	}
}

func TestLoad_ParsesValues(t *testing.T) {
	body := `level:
  mode: Discrete
  sense: fine
  scale_coarse: 4
  scale_fine: 40
  col_sign: -1
  suppress_upside_down: true
  hold: 150ms
sensor:
  i2c_bus: 3
  accel_addr: 0x18
  rate_hz: 100
display:
  i2c_bus: 4
  addr: 0x71
  brightness: 0
buttons:
  primary_line: GPIO17
  secondary_line: GPIO27
  coincidence: 40ms
debug:
  udp_dest: ' 192.168.10.255:5555 '
  quiet: true
`
	cfg, err := Load(writeTempConfig(t, body))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Level.Mode != "discrete" || cfg.Level.Sense != "fine" || cfg.Level.ColSign != -1 || !cfg.Level.SuppressUpsideDown {
		t.Fatalf("level=%+v", cfg.Level)
	}
	if cfg.Level.ScaleCoarse != 4 || cfg.Level.ScaleFine != 40 || cfg.Level.Hold != 150*time.Millisecond {
		t.Fatalf("level=%+v", cfg.Level)
	}
	if cfg.Sensor.I2CBus != 3 || cfg.Sensor.AccelAddr != 0x18 || cfg.Sensor.RateHz != 100 {
		t.Fatalf("sensor=%+v", cfg.Sensor)
	}
	if cfg.Display.I2CBus != 4 || cfg.Display.Addr != 0x71 || *cfg.Display.Brightness != 0 {
		t.Fatalf("display=%+v brightness=%d", cfg.Display, *cfg.Display.Brightness)
	}
	if cfg.Buttons.PrimaryLine != "GPIO17" || cfg.Buttons.SecondaryLine != "GPIO27" || cfg.Buttons.Coincidence != 40*time.Millisecond {
		t.Fatalf("buttons=%+v", cfg.Buttons)
	}
	if cfg.Debug.UDPDest != "192.168.10.255:5555" || !cfg.Debug.Quiet {
		t.Fatalf("debug=%+v", cfg.Debug)
	}
}

func TestLoad_DisplayBusFollowsSensorBus(t *testing.T) {
	cfg, err := Load(writeTempConfig(t, "sensor:\n  i2c_bus: 2\n"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Display.I2CBus != 2 {
		t.Fatalf("display.i2c_bus=%d want 2", cfg.Display.I2CBus)
	}
}

func TestLoad_Validation(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{
			name: "LevelMode",
			body: "level:\n  mode: wobbly\n",
			want: "level.mode must be 'continuous' or 'discrete'",
		},
		{
			name: "LevelSense",
			body: "level:\n  sense: medium\n",
			want: "level.sense must be 'coarse' or 'fine'",
		},
		{
			name: "FineNotLarger",
			body: "level:\n  scale_coarse: 10\n  scale_fine: 10\n",
			want: "level.scale_fine must be greater than level.scale_coarse",
		},
		{
			name: "NegativeScale",
			body: "level:\n  scale_coarse: -1\n",
			want: "level.scale_coarse and level.scale_fine must be > 0",
		},
		{
			name: "RowSign",
			body: "level:\n  row_sign: 2\n",
			want: "level.row_sign must be 1 or -1",
		},
		{
			name: "ColSign",
			body: "level:\n  col_sign: -3\n",
			want: "level.col_sign must be 1 or -1",
		},
		{
			name: "NegativeHold",
			body: "level:\n  hold: -1s\n",
			want: "level.hold must be > 0",
		},
		{
			name: "SensorBackend",
			body: "sensor:\n  backend: mpu6050\n",
			want: "sensor.backend must be 'lsm303agr' or 'sim'",
		},
		{
			name: "SensorRate",
			body: "sensor:\n  rate_hz: 60\n",
			want: "sensor.rate_hz must be one of 1, 10, 25, 50, 100, 200, 400",
		},
		{
			name: "SensorAddr",
			body: "sensor:\n  accel_addr: 0x80\n",
			want: "sensor i2c addresses must be 7-bit",
		},
		{
			name: "DisplayBackend",
			body: "display:\n  backend: oled\n",
			want: "display.backend must be 'ht16k33' or 'terminal'",
		},
		{
			name: "Brightness",
			body: "display:\n  brightness: 16\n",
			want: "display.brightness must be in [0,15]",
		},
		{
			name: "KeyboardNeedsTerminal",
			body: "buttons:\n  backend: keyboard\n",
			want: "buttons.backend 'keyboard' requires display.backend 'terminal'",
		},
		{
			name: "ButtonBackend",
			body: "buttons:\n  backend: touch\n",
			want: "buttons.backend must be 'gpio', 'keyboard' or 'none'",
		},
		{
			name: "SameLines",
			body: "buttons:\n  primary_line: GPIO5\n  secondary_line: GPIO5\n",
			want: "buttons.primary_line and buttons.secondary_line must differ",
		},
		{
			name: "NegativeDebounce",
			body: "buttons:\n  debounce: -1ms\n",
			want: "buttons.debounce and buttons.coincidence must be >= 0",
		},
		{
			name: "ManualNeedsTerminal",
			body: "sim:\n  mode: manual\n",
			want: "sim.mode 'manual' requires display.backend 'terminal'",
		},
		{
			name: "SimMode",
			body: "sim:\n  mode: replay\n",
			want: "sim.mode must be 'manual' or 'wobble'",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeTempConfig(t, tc.body))
			requireErrEq(t, err, tc.want)
		})
	}
}

func TestLoad_RejectsUnknownField(t *testing.T) {
	_, err := Load(writeTempConfig(t, "level:\n  sensitivity: fine\n"))
	requireErrEq(t, err, "config contains unknown fields: field sensitivity not found in type config.LevelConfig")
}

func TestLoad_TypeErrorNotReportedAsUnknown(t *testing.T) {
	_, err := Load(writeTempConfig(t, "sensor:\n  i2c_bus: one\n"))
	if err == nil {
		t.Fatalf("expected error")
	}
	if strings.Contains(err.Error(), "unknown fields") {
		t.Fatalf("err=%q should not mention unknown fields", err)
	}
}

func TestDefaultAndValidate_Nil(t *testing.T) {
	requireErrEq(t, DefaultAndValidate(nil), "config is nil")
}

func TestParse_SampleConfigIsValid(t *testing.T) {
	b, err := os.ReadFile(filepath.Join("..", "..", "dev.yaml"))
	if err != nil {
		t.Fatalf("ReadFile dev.yaml: %v", err)
	}
	if _, err := Parse(b); err != nil {
		t.Fatalf("dev.yaml invalid: %v", err)
	}
}
