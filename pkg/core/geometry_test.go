package core

import (
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func pointNear(p, q Point) bool {
	return near(p.X, q.X) && near(p.Y, q.Y) && near(p.Z, q.Z)
}

func TestPointArithmetic(t *testing.T) {
	p := Point{1, 2, 3}
	q := Point{4, -2, 1}
	if got := p.Add(q); !pointNear(got, Point{5, 0, 4}) {
		t.Fatalf("Add = %v", got)
	}
	if got := p.Sub(q); !pointNear(got, Point{-3, 4, 2}) {
		t.Fatalf("Sub = %v", got)
	}
	if got := p.Dot(q); !near(got, 3) {
		t.Fatalf("Dot = %v", got)
	}
	if got := p.Cross(q); !pointNear(got, Point{8, 11, -10}) {
		t.Fatalf("Cross = %v", got)
	}
	if got := (Point{3, 4, 0}).Norm(); !near(got, 5) {
		t.Fatalf("Norm = %v", got)
	}
	if got := (Point{1, 0, 0}).Distance(Point{4, 4, 0}); !near(got, 5) {
		t.Fatalf("Distance = %v", got)
	}
}

func TestQuaternionNormalize(t *testing.T) {
	q := Quaternion{X: 0, Y: 0, Z: 2, W: 2}.Normalize()
	if !near(q.Norm(), 1) {
		t.Fatalf("normalized quaternion has norm %v", q.Norm())
	}
	// A zero quaternion is degenerate and normalizes to identity.
	if got := (Quaternion{}).Normalize(); got != IdentityQuaternion() {
		t.Fatalf("zero quaternion normalized to %v", got)
	}
}

func TestQuaternionRotate(t *testing.T) {
	// 90 degrees around Z maps +X onto +Y.
	q := FromYaw(math.Pi / 2)
	got := q.Rotate(Point{1, 0, 0})
	if !pointNear(got, Point{0, 1, 0}) {
		t.Fatalf("rotated point = %v", got)
	}
	// Conjugate undoes the rotation.
	back := q.Conjugate().Rotate(got)
	if !pointNear(back, Point{1, 0, 0}) {
		t.Fatalf("inverse rotation = %v", back)
	}
}

func TestPoseTransformInverse(t *testing.T) {
	p := Pose{
		Position:    Point{1, 2, 0},
		Orientation: FromYaw(math.Pi / 3),
	}
	local := Point{0.5, -0.25, 0.1}

	// Apply then apply the inverse pose must return the original point.
	world := p.Apply(local)
	round := p.Inverse().Apply(world)
	if !pointNear(round, local) {
		t.Fatalf("inverse roundtrip = %v, want %v", round, local)
	}

	// A pose composed with its inverse is the identity.
	ident := p.Transform(p.Inverse())
	if !pointNear(ident.Position, Point{}) {
		t.Fatalf("identity position = %v", ident.Position)
	}
	if !near(math.Abs(ident.Orientation.W), 1) {
		t.Fatalf("identity orientation = %v", ident.Orientation)
	}
}
