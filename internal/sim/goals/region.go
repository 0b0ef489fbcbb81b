package goals

import (
	"fmt"
	"math"
	"strings"

	"monument.ai/internal/sim/world"
)

// Region is a 3D volume tested against block center points.
type Region interface {
	Contains(p world.Vec3f) bool
}

// Cuboid contains points with Min <= p <= Max on every axis.
type Cuboid struct {
	Min world.Vec3f
	Max world.Vec3f
}

func (c Cuboid) Contains(p world.Vec3f) bool {
	return p.X >= c.Min.X && p.X <= c.Max.X &&
		p.Y >= c.Min.Y && p.Y <= c.Max.Y &&
		p.Z >= c.Min.Z && p.Z <= c.Max.Z
}

type Sphere struct {
	Center world.Vec3f
	Radius float64
}

func (s Sphere) Contains(p world.Vec3f) bool {
	dx, dy, dz := p.X-s.Center.X, p.Y-s.Center.Y, p.Z-s.Center.Z
	return dx*dx+dy*dy+dz*dz <= s.Radius*s.Radius
}

// Cylinder is vertical, standing on Base.
type Cylinder struct {
	Base   world.Vec3f
	Radius float64
	Height float64
}

func (c Cylinder) Contains(p world.Vec3f) bool {
	if p.Y < c.Base.Y || p.Y > c.Base.Y+c.Height {
		return false
	}
	dx, dz := p.X-c.Base.X, p.Z-c.Base.Z
	return dx*dx+dz*dz <= c.Radius*c.Radius
}

// RegionSpec is the yaml form of a region.
type RegionSpec struct {
	Type   string      `yaml:"type"`
	Min    *[3]float64 `yaml:"min,omitempty"`
	Max    *[3]float64 `yaml:"max,omitempty"`
	Center *[3]float64 `yaml:"center,omitempty"`
	Base   *[3]float64 `yaml:"base,omitempty"`
	Radius float64     `yaml:"radius,omitempty"`
	Height float64     `yaml:"height,omitempty"`
}

func (s RegionSpec) Build() (Region, error) {
	switch strings.ToLower(strings.TrimSpace(s.Type)) {
	case "cuboid", "":
		if s.Min == nil || s.Max == nil {
			return nil, fmt.Errorf("cuboid requires min and max")
		}
		lo, hi := *s.Min, *s.Max
		for i := 0; i < 3; i++ {
			lo[i], hi[i] = math.Min(s.Min[i], s.Max[i]), math.Max(s.Min[i], s.Max[i])
		}
		return Cuboid{Min: world.Vec3fFromArray(lo), Max: world.Vec3fFromArray(hi)}, nil
	case "sphere":
		if s.Center == nil {
			return nil, fmt.Errorf("sphere requires center")
		}
		if s.Radius <= 0 {
			return nil, fmt.Errorf("sphere radius must be > 0")
		}
		return Sphere{Center: world.Vec3fFromArray(*s.Center), Radius: s.Radius}, nil
	case "cylinder":
		if s.Base == nil {
			return nil, fmt.Errorf("cylinder requires base")
		}
		if s.Radius <= 0 || s.Height <= 0 {
			return nil, fmt.Errorf("cylinder radius and height must be > 0")
		}
		return Cylinder{Base: world.Vec3fFromArray(*s.Base), Radius: s.Radius, Height: s.Height}, nil
	default:
		return nil, fmt.Errorf("unknown region type %q", s.Type)
	}
}
