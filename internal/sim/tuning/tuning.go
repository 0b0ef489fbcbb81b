package tuning

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	ProtocolVersion string `yaml:"protocol_version"`

	TickRateHz int `yaml:"tick_rate_hz"`

	Match Match `yaml:"match"`
	Wool  Wool  `yaml:"wool"`
}

type Match struct {
	WorldID string `yaml:"world_id"`
	// EndOnCompletion finishes the match once a team has placed every goal it owns.
	EndOnCompletion bool `yaml:"end_on_completion"`
}

type Wool struct {
	AutoRefill            *bool `yaml:"auto_refill"`
	RefillIntervalSeconds int   `yaml:"refill_interval_seconds"`
}

func Defaults() Tuning {
	t := Tuning{}
	t.applyDefaults()
	return t
}

func Load(path string) (Tuning, error) {
	var t Tuning
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	t.applyDefaults()
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

func (t *Tuning) applyDefaults() {
	if t.ProtocolVersion == "" {
		t.ProtocolVersion = "1.0"
	}
	if t.TickRateHz <= 0 {
		t.TickRateHz = 20
	}
	if t.Match.WorldID == "" {
		t.Match.WorldID = "monument_1"
	}
	if t.Wool.AutoRefill == nil {
		on := true
		t.Wool.AutoRefill = &on
	}
	if t.Wool.RefillIntervalSeconds <= 0 {
		t.Wool.RefillIntervalSeconds = 30
	}
}

func (t Tuning) Validate() error {
	if t.TickRateHz > 1000 {
		return fmt.Errorf("tick_rate_hz must be <= 1000")
	}
	return nil
}

func (w Wool) AutoRefillEnabled() bool { return w.AutoRefill == nil || *w.AutoRefill }

func (w Wool) RefillInterval() time.Duration {
	return time.Duration(w.RefillIntervalSeconds) * time.Second
}

// RefillIntervalTicks converts the refill period to whole ticks, never less than one.
func (t Tuning) RefillIntervalTicks() uint64 {
	n := uint64(t.Wool.RefillIntervalSeconds) * uint64(t.TickRateHz)
	if n == 0 {
		return 1
	}
	return n
}
