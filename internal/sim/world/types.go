package world

type Vec3i struct {
	X int
	Y int
	Z int
}

func (v Vec3i) ToArray() [3]int { return [3]int{v.X, v.Y, v.Z} }

func Vec3iFromArray(a [3]int) Vec3i { return Vec3i{X: a[0], Y: a[1], Z: a[2]} }

// Center is the midpoint of the unit block at v.
func (v Vec3i) Center() Vec3f {
	return Vec3f{X: float64(v.X) + 0.5, Y: float64(v.Y) + 0.5, Z: float64(v.Z) + 0.5}
}

type Vec3f struct {
	X float64
	Y float64
	Z float64
}

func Vec3fFromArray(a [3]float64) Vec3f { return Vec3f{X: a[0], Y: a[1], Z: a[2]} }
