package armature

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// computeLocalTransform computes the local matrix from the node's channels.
//
// Composition order:
//
//	Translate(Position) * Ry * Rx * Rz * Scale
func computeLocalTransform(n *Node) Mat4 {
	t := mgl64.Translate3D(n.Position[0], n.Position[1], n.Position[2])
	s := mgl64.Scale3D(n.Scale[0], n.Scale[1], n.Scale[2])
	return t.Mul4(rotationMatrix(n.Rotation)).Mul4(s)
}

// rotationMatrix builds the yaw-pitch-roll matrix Ry * Rx * Rz from Euler
// angles in degrees.
func rotationMatrix(deg Vec3) Mat4 {
	rx := mgl64.HomogRotate3DX(mgl64.DegToRad(deg[0]))
	ry := mgl64.HomogRotate3DY(mgl64.DegToRad(deg[1]))
	rz := mgl64.HomogRotate3DZ(mgl64.DegToRad(deg[2]))
	return ry.Mul4(rx).Mul4(rz)
}

// LocalTransform returns the node's matrix relative to its parent.
func (n *Node) LocalTransform() Mat4 {
	return computeLocalTransform(n)
}

// WorldTransform returns the node's matrix in root space: the product of all
// local transforms from the outermost ancestor down to this node. It is
// recomputed on every call, so it always reflects the current channels.
func (n *Node) WorldTransform() Mat4 {
	local := computeLocalTransform(n)
	if p := n.Parent(); p != nil {
		return p.WorldTransform().Mul4(local)
	}
	return local
}

// WorldPosition returns the node's origin in root space.
func (n *Node) WorldPosition() Vec3 {
	return n.WorldTransform().Col(3).Vec3()
}

// LocalToWorld converts a point in this node's space to root space.
func (n *Node) LocalToWorld(p Vec3) Vec3 {
	return mgl64.TransformCoordinate(p, n.WorldTransform())
}

// WorldToLocal converts a root-space point to this node's space.
// Returns p unchanged if the world matrix is singular (zero scale).
func (n *Node) WorldToLocal(p Vec3) Vec3 {
	m := n.WorldTransform()
	det := m.Det()
	if det > -1e-12 && det < 1e-12 {
		return p
	}
	return mgl64.TransformCoordinate(p, m.Inv())
}

// --- Channel edits ---

// Translate adds delta to the node's local position.
func (n *Node) Translate(delta Vec3) {
	n.Position = n.Position.Add(delta)
}

// Rotate adds degrees to one rotation channel.
func (n *Node) Rotate(axis Axis, degrees float64) {
	n.Rotation = n.Rotation.Add(axis.unit().Mul(degrees))
}

// ResetRotation zeroes all rotation channels.
func (n *Node) ResetRotation() {
	n.Rotation = Vec3{}
}

// --- Picking ---

// worldRadius returns Radius scaled by the largest axis of the world matrix.
func (n *Node) worldRadius() float64 {
	m := n.WorldTransform()
	s := math.Max(m.Col(0).Vec3().Len(), math.Max(m.Col(1).Vec3().Len(), m.Col(2).Vec3().Len()))
	return n.Radius * s
}

// Intersect tests ray against the node's world-space bounding sphere and
// returns the nearest hit in front of the ray origin with its outward normal.
// Nodes with a non-positive Radius are never hit.
func (n *Node) Intersect(ray Ray) (point, normal Vec3, ok bool) {
	if n.Radius <= 0 || ray.Dir.Len() == 0 {
		return Vec3{}, Vec3{}, false
	}
	center := n.WorldPosition()
	r := n.worldRadius()
	d := ray.Dir.Normalize()
	oc := ray.Origin.Sub(center)
	b := oc.Dot(d)
	c := oc.Dot(oc) - r*r
	disc := b*b - c
	if disc < 0 {
		return Vec3{}, Vec3{}, false
	}
	sq := math.Sqrt(disc)
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return Vec3{}, Vec3{}, false
	}
	point = ray.Origin.Add(d.Mul(t))
	normal = point.Sub(center)
	if normal.Len() > 0 {
		normal = normal.Normalize()
	}
	return point, normal, true
}
