package goals

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"monument.ai/internal/sim/world"
)

type Config struct {
	WorldID string     `yaml:"world_id"`
	Teams   []TeamSpec `yaml:"teams"`
	Goals   []GoalSpec `yaml:"goals"`

	// Containers are pre-filled when the match world is built (wool rooms, kits).
	Containers []ContainerSpec `yaml:"containers,omitempty"`
}

type TeamSpec struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

type GoalSpec struct {
	ID        string     `yaml:"id"`
	Color     string     `yaml:"color"`
	Owner     string     `yaml:"owner"`
	Craftable bool       `yaml:"craftable"`
	Region    RegionSpec `yaml:"region"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("goals.yaml: %w", err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("goals.yaml: %w", err)
	}
	return cfg, nil
}

func (c *Config) Normalize() {
	if c == nil {
		return
	}
	c.WorldID = strings.TrimSpace(c.WorldID)
	for i := range c.Teams {
		c.Teams[i].ID = strings.TrimSpace(c.Teams[i].ID)
		if strings.TrimSpace(c.Teams[i].Name) == "" {
			c.Teams[i].Name = c.Teams[i].ID
		}
	}
	for i := range c.Goals {
		g := &c.Goals[i]
		g.Color = strings.ToUpper(strings.TrimSpace(g.Color))
		g.Owner = strings.TrimSpace(g.Owner)
		g.ID = strings.TrimSpace(g.ID)
		if g.ID == "" && g.Color != "" {
			g.ID = strings.ToLower(g.Color) + "_wool"
		}
	}
}

func (c Config) Validate() error {
	c.Normalize()
	if len(c.Teams) == 0 {
		return fmt.Errorf("teams must not be empty")
	}
	teams := map[string]bool{}
	for _, t := range c.Teams {
		if t.ID == "" {
			return fmt.Errorf("team id must not be empty")
		}
		if teams[t.ID] {
			return fmt.Errorf("duplicate team id: %s", t.ID)
		}
		teams[t.ID] = true
	}
	seen := map[string]bool{}
	for i, g := range c.Goals {
		if g.ID == "" {
			return fmt.Errorf("goals[%d] id must not be empty", i)
		}
		if seen[g.ID] {
			return fmt.Errorf("duplicate goal id: %s", g.ID)
		}
		seen[g.ID] = true
		if _, ok := world.ParseColor(g.Color); !ok {
			return fmt.Errorf("goal %s: unknown color %q", g.ID, g.Color)
		}
		if !teams[g.Owner] {
			return fmt.Errorf("goal %s: owner %q not found in teams", g.ID, g.Owner)
		}
		if _, err := g.Region.Build(); err != nil {
			return fmt.Errorf("goal %s region: %w", g.ID, err)
		}
	}
	for i, cs := range c.Containers {
		if err := cs.validate(); err != nil {
			return fmt.Errorf("containers[%d]: %w", i, err)
		}
	}
	return nil
}

// Registry resolves the configuration into a fresh registry. Each match gets its own, so
// placed flags never leak between matches.
func (c Config) Registry() (*Registry, error) {
	c.Normalize()
	teams := make([]Team, 0, len(c.Teams))
	for _, t := range c.Teams {
		teams = append(teams, Team{ID: t.ID, Name: t.Name})
	}
	defs := make([]Definition, 0, len(c.Goals))
	for _, g := range c.Goals {
		color, ok := world.ParseColor(g.Color)
		if !ok {
			return nil, fmt.Errorf("goal %s: unknown color %q", g.ID, g.Color)
		}
		region, err := g.Region.Build()
		if err != nil {
			return nil, fmt.Errorf("goal %s region: %w", g.ID, err)
		}
		defs = append(defs, Definition{
			ID:        g.ID,
			Color:     color,
			Owner:     g.Owner,
			Region:    region,
			Craftable: g.Craftable,
		})
	}
	return NewRegistry(teams, defs)
}
