package config

import (
	"os"
	"path/filepath"
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

func TestLoad_DefaultsApplied(t *testing.T) {
	path := writeTempConfig(t, "{}\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Input.Source != "serial" {
		t.Fatalf("source=%q want serial", cfg.Input.Source)
	}
	if cfg.Input.Serial.Baud != 9600 {
		t.Fatalf("baud=%d want 9600", cfg.Input.Serial.Baud)
	}
	if cfg.Timer.OriginLatDeg != DefaultOriginLatDeg || cfg.Timer.OriginLonDeg != DefaultOriginLonDeg {
		t.Fatalf("origin=(%v,%v) want factory preset", cfg.Timer.OriginLatDeg, cfg.Timer.OriginLonDeg)
	}
	if cfg.Timer.RadiusM != 5 {
		t.Fatalf("radius=%v want 5", cfg.Timer.RadiusM)
	}
	if cfg.Timer.Debounce != 10*time.Second {
		t.Fatalf("debounce=%s want 10s", cfg.Timer.Debounce)
	}
	if cfg.Timer.ClockOffsetHours != 9 {
		t.Fatalf("clock offset=%d want 9", cfg.Timer.ClockOffsetHours)
	}
	if cfg.Display.Refresh != 1*time.Second {
		t.Fatalf("refresh=%s want 1s", cfg.Display.Refresh)
	}

	// Simulator defaults should be populated even if sim is absent.
	if cfg.Input.Sim.LapPeriod <= 0 || cfg.Input.Sim.RadiusM <= 0 || cfg.Input.Sim.Satellites <= 0 {
		t.Fatalf("expected sim defaults applied, got %+v", cfg.Input.Sim)
	}
}

func TestLoad_ExplicitOriginKept(t *testing.T) {
	path := writeTempConfig(t, "timer:\n  origin_lat_deg: 51.5\n  origin_lon_deg: -0.12\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Timer.OriginLatDeg != 51.5 || cfg.Timer.OriginLonDeg != -0.12 {
		t.Fatalf("origin=(%v,%v) want (51.5,-0.12)", cfg.Timer.OriginLatDeg, cfg.Timer.OriginLonDeg)
	}
}

func TestLoad_RejectsUnknownSource(t *testing.T) {
	path := writeTempConfig(t, "input:\n  source: carrier-pigeon\n")
	_, err := Load(path)
	requireErrEq(t, err, `input.source must be serial, replay or sim, got "carrier-pigeon"`)
}

func TestLoad_ReplayRequiresPath(t *testing.T) {
	path := writeTempConfig(t, "input:\n  source: replay\n")
	_, err := Load(path)
	requireErrEq(t, err, "input.replay.path is required when input.source is replay")
}

func TestLoad_ReplaySpeedDefaultsToOne(t *testing.T) {
	path := writeTempConfig(t, "input:\n  source: replay\n  replay:\n    path: './x.log'\n    speed: 0\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Input.Replay.Speed != 1 {
		t.Fatalf("speed=%v want 1", cfg.Input.Replay.Speed)
	}
}

func TestLoad_ReplayNegativeSpeedRejected(t *testing.T) {
	path := writeTempConfig(t, "input:\n  source: replay\n  replay:\n    path: './x.log'\n    speed: -1\n")
	_, err := Load(path)
	requireErrEq(t, err, "input.replay.speed must be > 0")
}

func TestLoad_RecordRequiresPath(t *testing.T) {
	path := writeTempConfig(t, "record:\n  enable: true\n")
	_, err := Load(path)
	requireErrEq(t, err, "record.path is required when record.enable is true")
}

func TestLoad_RecordDisallowedDuringReplay(t *testing.T) {
	path := writeTempConfig(t, "input:\n  source: replay\n  replay:\n    path: './x.log'\nrecord:\n  enable: true\n  path: './y.log'\n")
	_, err := Load(path)
	requireErrEq(t, err, "record cannot be used with input.source=replay")
}

func TestLoad_LapLogRequiresPath(t *testing.T) {
	path := writeTempConfig(t, "laplog:\n  enable: true\n")
	_, err := Load(path)
	requireErrEq(t, err, "laplog.path is required when laplog.enable is true")
}

func TestLoad_UDPRequiresDest(t *testing.T) {
	path := writeTempConfig(t, "udp:\n  enable: true\n")
	_, err := Load(path)
	requireErrEq(t, err, "udp.dest is required when udp.enable is true")
}

func TestLoad_WebListenDefault(t *testing.T) {
	path := writeTempConfig(t, "web:\n  enable: true\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Web.Listen != ":8080" {
		t.Fatalf("listen=%q want :8080", cfg.Web.Listen)
	}
}

func TestLoad_ButtonsChipDefault(t *testing.T) {
	path := writeTempConfig(t, "buttons:\n  enable: true\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Buttons.Chip != "gpiochip0" {
		t.Fatalf("chip=%q want gpiochip0", cfg.Buttons.Chip)
	}
}

func TestLoad_NegativeRadiusRejected(t *testing.T) {
	path := writeTempConfig(t, "timer:\n  radius_m: -3\n")
	_, err := Load(path)
	requireErrEq(t, err, "timer.radius_m must be >= 0")
}
