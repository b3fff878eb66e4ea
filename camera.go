package armature

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Rect is a screen-space rectangle.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// focusAnim holds active focus tweens for the camera target.
type focusAnim struct {
	tweens [3]*gween.Tween
	done   [3]bool
}

// Camera is an orbit camera looking at Target from Distance units away.
// Yaw and Pitch are in degrees; Pitch is kept within (-90, 90).
type Camera struct {
	Target   Vec3
	Yaw      float64
	Pitch    float64
	Distance float64

	// FOV is the vertical field of view in degrees.
	FOV       float64
	Near, Far float64

	// Viewport is the screen-space rectangle the camera renders into.
	Viewport Rect

	focus *focusAnim
}

// Orbit camera limits.
const (
	cameraMaxPitch    = 89.0
	cameraMinDistance = 0.5
)

// NewCamera creates a camera with default values and the given viewport.
func NewCamera(viewport Rect) *Camera {
	return &Camera{
		Yaw:      30,
		Pitch:    20,
		Distance: 40,
		FOV:      45,
		Near:     0.1,
		Far:      1000,
		Viewport: viewport,
	}
}

// Eye returns the camera position in world space.
func (c *Camera) Eye() Vec3 {
	yaw := mgl64.DegToRad(c.Yaw)
	pitch := mgl64.DegToRad(c.Pitch)
	off := Vec3{
		math.Cos(pitch) * math.Sin(yaw),
		math.Sin(pitch),
		math.Cos(pitch) * math.Cos(yaw),
	}
	return c.Target.Add(off.Mul(c.Distance))
}

// Forward returns the unit view direction.
func (c *Camera) Forward() Vec3 {
	return c.Target.Sub(c.Eye()).Normalize()
}

// View returns the world-to-camera matrix.
func (c *Camera) View() Mat4 {
	return mgl64.LookAtV(c.Eye(), c.Target, Vec3{0, 1, 0})
}

// Projection returns the perspective matrix for the viewport's aspect ratio.
func (c *Camera) Projection() Mat4 {
	aspect := 1.0
	if c.Viewport.Height > 0 {
		aspect = c.Viewport.Width / c.Viewport.Height
	}
	return mgl64.Perspective(mgl64.DegToRad(c.FOV), aspect, c.Near, c.Far)
}

// WorldToScreen projects a world point into the viewport. ok is false for
// points behind the camera.
func (c *Camera) WorldToScreen(p Vec3) (sx, sy float64, ok bool) {
	clip := c.Projection().Mul4(c.View()).Mul4x1(p.Vec4(1))
	if clip[3] <= 0 {
		return 0, 0, false
	}
	ndc := clip.Vec3().Mul(1 / clip[3])
	sx = c.Viewport.X + (ndc[0]+1)/2*c.Viewport.Width
	sy = c.Viewport.Y + (1-ndc[1])/2*c.Viewport.Height
	return sx, sy, true
}

// ScreenRay returns the ray from the near plane through the given screen
// point, for use with Scene.Pick.
func (c *Camera) ScreenRay(sx, sy float64) Ray {
	x := 2*(sx-c.Viewport.X)/c.Viewport.Width - 1
	y := 1 - 2*(sy-c.Viewport.Y)/c.Viewport.Height
	inv := c.Projection().Mul4(c.View()).Inv()
	near := inv.Mul4x1(mgl64.Vec4{x, y, -1, 1})
	far := inv.Mul4x1(mgl64.Vec4{x, y, 1, 1})
	origin := near.Vec3().Mul(1 / near[3])
	end := far.Vec3().Mul(1 / far[3])
	return Ray{Origin: origin, Dir: end.Sub(origin).Normalize()}
}

// ScreenToPlane intersects the screen ray at (sx, sy) with the plane through
// point facing the camera. Used to turn pointer drags into world-space
// translations.
func (c *Camera) ScreenToPlane(sx, sy float64, point Vec3) (Vec3, bool) {
	ray := c.ScreenRay(sx, sy)
	normal := c.Forward()
	denom := ray.Dir.Dot(normal)
	if math.Abs(denom) < 1e-9 {
		return Vec3{}, false
	}
	t := point.Sub(ray.Origin).Dot(normal) / denom
	if t < 0 {
		return Vec3{}, false
	}
	return ray.Origin.Add(ray.Dir.Mul(t)), true
}

// Orbit rotates the camera around its target by the given degrees.
func (c *Camera) Orbit(dYaw, dPitch float64) {
	c.Yaw = math.Mod(c.Yaw+dYaw, 360)
	c.Pitch = mgl64.Clamp(c.Pitch+dPitch, -cameraMaxPitch, cameraMaxPitch)
}

// Dolly multiplies the orbit distance by factor (<1 moves closer).
func (c *Camera) Dolly(factor float64) {
	c.Distance = math.Max(c.Distance*factor, cameraMinDistance)
}

// FocusOn animates the target to p over duration seconds.
func (c *Camera) FocusOn(p Vec3, duration float32, easeFn ease.TweenFunc) {
	if easeFn == nil {
		easeFn = ease.InOutQuad
	}
	f := &focusAnim{}
	for i := range f.tweens {
		f.tweens[i] = gween.New(float32(c.Target[i]), float32(p[i]), duration, easeFn)
	}
	c.focus = f
}

// Focusing reports whether a FocusOn animation is running.
func (c *Camera) Focusing() bool {
	return c.focus != nil
}

// Update advances the focus animation by dt seconds.
func (c *Camera) Update(dt float32) {
	if c.focus == nil {
		return
	}
	all := true
	for i, tw := range c.focus.tweens {
		if c.focus.done[i] {
			continue
		}
		val, done := tw.Update(dt)
		c.Target[i] = float64(val)
		c.focus.done[i] = done
		all = all && done
	}
	if all {
		c.focus = nil
	}
}
