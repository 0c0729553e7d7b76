// Copyright 2026 © The Praxis Authors
// SPDX-License-Identifier: Apache-2.0

package core

import "math"

// Point is an immutable 3D position in meters.
type Point struct {
	X, Y, Z float64
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y, p.Z + q.Z}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y, p.Z - q.Z}
}

// Scale returns p scaled by s.
func (p Point) Scale(s float64) Point {
	return Point{p.X * s, p.Y * s, p.Z * s}
}

// Dot returns the dot product of p and q.
func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y + p.Z*q.Z
}

// Cross returns the cross product of p and q.
func (p Point) Cross(q Point) Point {
	return Point{
		X: p.Y*q.Z - p.Z*q.Y,
		Y: p.Z*q.X - p.X*q.Z,
		Z: p.X*q.Y - p.Y*q.X,
	}
}

// Norm returns the Euclidean length of p.
func (p Point) Norm() float64 {
	return math.Sqrt(p.Dot(p))
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return p.Sub(q).Norm()
}

// Quaternion is an immutable orientation. The identity rotation is
// Quaternion{0, 0, 0, 1}.
type Quaternion struct {
	X, Y, Z, W float64
}

// IdentityQuaternion returns the no-rotation quaternion.
func IdentityQuaternion() Quaternion {
	return Quaternion{W: 1}
}

// Mul returns the Hamilton product q*r, the rotation r followed by q.
func (q Quaternion) Mul(r Quaternion) Quaternion {
	return Quaternion{
		X: q.W*r.X + q.X*r.W + q.Y*r.Z - q.Z*r.Y,
		Y: q.W*r.Y - q.X*r.Z + q.Y*r.W + q.Z*r.X,
		Z: q.W*r.Z + q.X*r.Y - q.Y*r.X + q.Z*r.W,
		W: q.W*r.W - q.X*r.X - q.Y*r.Y - q.Z*r.Z,
	}
}

// Conjugate returns the inverse rotation for a unit quaternion.
func (q Quaternion) Conjugate() Quaternion {
	return Quaternion{X: -q.X, Y: -q.Y, Z: -q.Z, W: q.W}
}

// Norm returns the quaternion magnitude.
func (q Quaternion) Norm() float64 {
	return math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
}

// Normalize returns the unit quaternion with the same orientation.
// A zero quaternion normalizes to the identity.
func (q Quaternion) Normalize() Quaternion {
	n := q.Norm()
	if n == 0 {
		return IdentityQuaternion()
	}
	return Quaternion{q.X / n, q.Y / n, q.Z / n, q.W / n}
}

// Rotate applies the rotation to a point.
func (q Quaternion) Rotate(p Point) Point {
	u := Point{q.X, q.Y, q.Z}
	s := q.W
	// v' = 2(u.v)u + (s^2 - u.u)v + 2s(u x v)
	a := u.Scale(2 * u.Dot(p))
	b := p.Scale(s*s - u.Dot(u))
	c := u.Cross(p).Scale(2 * s)
	return a.Add(b).Add(c)
}

// FromYaw returns the quaternion for a rotation of yaw radians around Z.
func FromYaw(yaw float64) Quaternion {
	return Quaternion{Z: math.Sin(yaw / 2), W: math.Cos(yaw / 2)}
}

// Pose combines a position and an orientation.
type Pose struct {
	Position    Point
	Orientation Quaternion
}

// IdentityPose returns the origin pose with no rotation.
func IdentityPose() Pose {
	return Pose{Orientation: IdentityQuaternion()}
}

// Transform composes two poses: the result maps a point through child
// first, then through p.
func (p Pose) Transform(child Pose) Pose {
	return Pose{
		Position:    p.Position.Add(p.Orientation.Rotate(child.Position)),
		Orientation: p.Orientation.Mul(child.Orientation).Normalize(),
	}
}

// Inverse returns the pose q such that p.Transform(q) is the identity.
func (p Pose) Inverse() Pose {
	inv := p.Orientation.Conjugate()
	return Pose{
		Position:    inv.Rotate(p.Position.Scale(-1)),
		Orientation: inv,
	}
}

// Apply maps a point from the pose's local frame into the parent frame.
func (p Pose) Apply(pt Point) Point {
	return p.Position.Add(p.Orientation.Rotate(pt))
}
