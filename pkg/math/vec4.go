package math

// Vec4 is a 4-component vector. Camera basis rows are stored as Vec4 so the
// fourth (translation) lane travels with the axis it belongs to.
type Vec4 [4]float32

// Neg returns -v across all four lanes.
func (v Vec4) Neg() Vec4 {
	return Vec4{-v[0], -v[1], -v[2], -v[3]}
}

// XYZ drops the fourth lane.
func (v Vec4) XYZ() Vec3 {
	return Vec3{v[0], v[1], v[2]}
}

// Dot3 returns the dot product of the first three lanes.
func (v Vec4) Dot3(other Vec4) float32 {
	return v[0]*other[0] + v[1]*other[1] + v[2]*other[2]
}

// Length3 returns the magnitude of the first three lanes.
func (v Vec4) Length3() float32 {
	return v.XYZ().Length()
}
