// Package lighting keeps directional lighting consistent across cube faces.
package lighting

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/flexfov/pkg/math"
)

// SunDirection converts longitude/latitude angles in degrees to a unit
// vector pointing towards the sun. Longitude rotates around Y, latitude is
// the elevation above the horizon.
func SunDirection(longitude, latitude float32) math.Vec3 {
	lon := longitude * math32.Pi / 180
	lat := latitude * math32.Pi / 180

	return math.Vec3{
		X: math32.Cos(lat) * math32.Sin(lon),
		Y: math32.Sin(lat),
		Z: math32.Cos(lat) * math32.Cos(lon),
	}
}

// ToCamera expresses a world-space direction in the frame of a camera basis
// given by its right, up and back axes.
func ToCamera(dir, right, up, back math.Vec3) math.Vec3 {
	return math.Vec3{X: dir.Dot(right), Y: dir.Dot(up), Z: dir.Dot(back)}
}

// Quantize packs a direction into the host's signed byte light format.
// Components are scaled so a unit axis maps to 127.
func Quantize(v math.Vec3) Direction {
	q := func(c float32) int8 {
		c = math32.Round(c * 127)
		if c > 127 {
			c = 127
		}
		if c < -127 {
			c = -127
		}
		return int8(c)
	}
	return Direction{q(v.X), q(v.Y), q(v.Z)}
}
