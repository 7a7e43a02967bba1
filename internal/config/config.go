package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Input   InputConfig   `yaml:"input"`
	Timer   TimerConfig   `yaml:"timer"`
	Display DisplayConfig `yaml:"display"`
	LapLog  LapLogConfig  `yaml:"laplog"`
	Record  RecordConfig  `yaml:"record"`
	Web     WebConfig     `yaml:"web"`
	UDP     UDPConfig     `yaml:"udp"`
	Buttons ButtonsConfig `yaml:"buttons"`
}

type InputConfig struct {
	Source string       `yaml:"source"`
	Serial SerialConfig `yaml:"serial"`
	Replay ReplayConfig `yaml:"replay"`
	Sim    SimConfig    `yaml:"sim"`
}

type SerialConfig struct {
	Device string `yaml:"device"`
	Baud   int    `yaml:"baud"`
}

type ReplayConfig struct {
	Path  string  `yaml:"path"`
	Speed float64 `yaml:"speed"`
	Loop  bool    `yaml:"loop"`
}

type SimConfig struct {
	LapPeriod  time.Duration `yaml:"lap_period"`
	RadiusM    float64       `yaml:"radius_m"`
	Satellites int           `yaml:"satellites"`
	AltitudeM  float64       `yaml:"altitude_m"`
}

type TimerConfig struct {
	OriginLatDeg     float64       `yaml:"origin_lat_deg"`
	OriginLonDeg     float64       `yaml:"origin_lon_deg"`
	RadiusM          float64       `yaml:"radius_m"`
	Debounce         time.Duration `yaml:"debounce"`
	ClockOffsetHours int           `yaml:"clock_offset_hours"`
}

type DisplayConfig struct {
	Refresh time.Duration `yaml:"refresh"`
}

type LapLogConfig struct {
	Enable bool   `yaml:"enable"`
	Path   string `yaml:"path"`
}

type RecordConfig struct {
	Enable bool   `yaml:"enable"`
	Path   string `yaml:"path"`
}

type WebConfig struct {
	Enable bool   `yaml:"enable"`
	Listen string `yaml:"listen"`
}

type UDPConfig struct {
	Enable bool   `yaml:"enable"`
	Dest   string `yaml:"dest"`
}

type ButtonsConfig struct {
	Enable          bool   `yaml:"enable"`
	Chip            string `yaml:"chip"`
	SetOriginLine   int    `yaml:"set_origin_line"`
	CycleRadiusLine int    `yaml:"cycle_radius_line"`
	ForceLapLine    int    `yaml:"force_lap_line"`
	ActiveLow       bool   `yaml:"active_low"`
}

// Default start/finish origin. Matches the factory preset the unit ships with.
const (
	DefaultOriginLatDeg = 35.3698692322
	DefaultOriginLonDeg = 138.9336547852
)

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}

	if cfg.Input.Source == "" {
		cfg.Input.Source = "serial"
	}
	switch cfg.Input.Source {
	case "serial", "replay", "sim":
	default:
		return Config{}, fmt.Errorf("input.source must be serial, replay or sim, got %q", cfg.Input.Source)
	}

	if cfg.Input.Serial.Baud <= 0 {
		cfg.Input.Serial.Baud = 9600
	}

	if cfg.Input.Source == "replay" {
		if cfg.Input.Replay.Path == "" {
			return Config{}, fmt.Errorf("input.replay.path is required when input.source is replay")
		}
		if cfg.Input.Replay.Speed == 0 {
			cfg.Input.Replay.Speed = 1
		}
		if cfg.Input.Replay.Speed < 0 {
			return Config{}, fmt.Errorf("input.replay.speed must be > 0")
		}
	}

	// Simulator defaults (safe even if unused).
	if cfg.Input.Sim.LapPeriod <= 0 {
		cfg.Input.Sim.LapPeriod = 60 * time.Second
	}
	if cfg.Input.Sim.RadiusM <= 0 {
		cfg.Input.Sim.RadiusM = 200
	}
	if cfg.Input.Sim.Satellites <= 0 {
		cfg.Input.Sim.Satellites = 10
	}

	if cfg.Timer.OriginLatDeg == 0 && cfg.Timer.OriginLonDeg == 0 {
		cfg.Timer.OriginLatDeg = DefaultOriginLatDeg
		cfg.Timer.OriginLonDeg = DefaultOriginLonDeg
	}
	if cfg.Timer.RadiusM == 0 {
		cfg.Timer.RadiusM = 5
	}
	if cfg.Timer.RadiusM < 0 {
		return Config{}, fmt.Errorf("timer.radius_m must be >= 0")
	}
	if cfg.Timer.Debounce <= 0 {
		cfg.Timer.Debounce = 10 * time.Second
	}
	if cfg.Timer.ClockOffsetHours == 0 {
		cfg.Timer.ClockOffsetHours = 9
	}

	if cfg.Display.Refresh <= 0 {
		cfg.Display.Refresh = 1 * time.Second
	}

	if cfg.LapLog.Enable && cfg.LapLog.Path == "" {
		return Config{}, fmt.Errorf("laplog.path is required when laplog.enable is true")
	}

	if cfg.Record.Enable {
		if cfg.Record.Path == "" {
			return Config{}, fmt.Errorf("record.path is required when record.enable is true")
		}
		if cfg.Input.Source == "replay" {
			return Config{}, fmt.Errorf("record cannot be used with input.source=replay")
		}
	}

	if cfg.Web.Enable && cfg.Web.Listen == "" {
		cfg.Web.Listen = ":8080"
	}

	if cfg.UDP.Enable && cfg.UDP.Dest == "" {
		return Config{}, fmt.Errorf("udp.dest is required when udp.enable is true")
	}

	if cfg.Buttons.Enable {
		if cfg.Buttons.Chip == "" {
			cfg.Buttons.Chip = "gpiochip0"
		}
	}

	return cfg, nil
}
