package goals

import (
	"strings"
	"testing"

	"monument.ai/internal/sim/world"
)

func TestLoad_GoalsYAML(t *testing.T) {
	cfg, err := Load("../../../configs/goals.yaml")
	if err != nil {
		t.Fatalf("load goals.yaml: %v", err)
	}
	if cfg.WorldID != "monument_1" {
		t.Fatalf("world_id=%q", cfg.WorldID)
	}
	reg, err := cfg.Registry()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	if got := len(reg.Goals()); got != 3 {
		t.Fatalf("goals=%d want 3", got)
	}
	red := reg.ByID("red_wool")
	if red == nil || red.Color() != world.ColorRed || red.Owner() != "blue" || red.Craftable() {
		t.Fatalf("unexpected red_wool goal: %+v", red)
	}
	if g := reg.At(world.Vec3i{X: -11, Y: 64, Z: -11}.Center()); g != red {
		t.Fatalf("cylinder monument lookup: got %+v", g)
	}
	if team, ok := reg.Team("red"); !ok || team.Name != "Red Team" {
		t.Fatalf("team red: %+v ok=%v", team, ok)
	}
}

func TestConfigValidate_Rejects(t *testing.T) {
	lo := [3]float64{0, 0, 0}
	hi := [3]float64{1, 1, 1}
	base := func() Config {
		return Config{
			Teams: []TeamSpec{{ID: "red"}, {ID: "blue"}},
			Goals: []GoalSpec{{ID: "g1", Color: "red", Owner: "blue", Region: RegionSpec{Type: "cuboid", Min: &lo, Max: &hi}}},
		}
	}
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"no teams", func(c *Config) { c.Teams = nil }, "teams must not be empty"},
		{"dup team", func(c *Config) { c.Teams = append(c.Teams, TeamSpec{ID: "red"}) }, "duplicate team id"},
		{"bad color", func(c *Config) { c.Goals[0].Color = "octarine" }, "unknown color"},
		{"bad owner", func(c *Config) { c.Goals[0].Owner = "green" }, "not found in teams"},
		{"dup goal", func(c *Config) { c.Goals = append(c.Goals, c.Goals[0]) }, "duplicate goal id"},
		{"bad region", func(c *Config) { c.Goals[0].Region = RegionSpec{Type: "sphere"} }, "sphere requires center"},
	}
	for _, tc := range cases {
		cfg := base()
		if err := cfg.Validate(); err != nil {
			t.Fatalf("%s: base config invalid: %v", tc.name, err)
		}
		tc.mutate(&cfg)
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: err=%v want %q", tc.name, err, tc.want)
		}
	}
}

func TestConfigNormalize_DefaultsIDsAndNames(t *testing.T) {
	cfg := Config{
		Teams: []TeamSpec{{ID: " red "}},
		Goals: []GoalSpec{{Color: " light_blue ", Owner: "red"}},
	}
	cfg.Normalize()
	if cfg.Teams[0].ID != "red" || cfg.Teams[0].Name != "red" {
		t.Fatalf("team normalize: %+v", cfg.Teams[0])
	}
	if cfg.Goals[0].Color != "LIGHT_BLUE" || cfg.Goals[0].ID != "light_blue_wool" {
		t.Fatalf("goal normalize: %+v", cfg.Goals[0])
	}
}
