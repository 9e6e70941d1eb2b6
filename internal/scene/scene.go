// Package scene draws hero and viewer scenes with raylib. Both renderers expect to be called
// between BeginDrawing and EndDrawing on the window thread.
package scene

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"

	"showcase/internal/hero"
	"showcase/internal/primitives"
)

// pointLightScale maps physical point-light intensities onto the shader's unit range.
const pointLightScale = 0.01

// Camera converts a hero camera to raylib's perspective camera.
func Camera(c hero.Camera) rl.Camera3D {
	return rl.Camera3D{
		Position:   vec3(c.Position),
		Target:     vec3(c.Target),
		Up:         vec3(c.Up),
		Fovy:       float32(c.Fov),
		Projection: rl.CameraPerspective,
	}
}

// Transform builds the model matrix of a pose: scale, then XYZ rotation, then translation.
func Transform(p hero.Pose) rl.Matrix {
	s := rl.MatrixScale(float32(p.Scale[0]), float32(p.Scale[1]), float32(p.Scale[2]))
	r := rl.MatrixRotateXYZ(vec3(p.Rotation))
	t := rl.MatrixTranslate(float32(p.Position[0]), float32(p.Position[1]), float32(p.Position[2]))
	return rl.MatrixMultiply(rl.MatrixMultiply(s, r), t)
}

// Color converts 0xRRGGBB plus an opacity in [0,1] to a raylib colour.
func Color(c uint32, opacity float64) rl.Color {
	a := uint8(min(max(opacity, 0), 1)*255 + 0.5)
	return rl.NewColor(uint8(c>>16), uint8(c>>8), uint8(c), a)
}

// Lighting folds a light list into the shader's rig. Camera-following point lights are
// placed Offset units behind the eye along the view direction.
func Lighting(lights []hero.Light, cam hero.Camera) primitives.Lighting {
	var l primitives.Lighting
	l.ViewPos = f3(cam.Position)
	for _, lt := range lights {
		c := hero.RGB(lt.Color).Mul(lt.Intensity)
		switch lt.Kind {
		case hero.AmbientLight:
			l.Ambient = add3(l.Ambient, f3(c))
		case hero.HemisphereLight:
			l.SkyColor = add3(l.SkyColor, f3(c))
			l.GroundColor = add3(l.GroundColor, f3(hero.RGB(lt.GroundColor).Mul(lt.Intensity)))
		case hero.DirectionalLight:
			l.DirDirection = f3(safeNormalize(lt.Position))
			l.DirColor = f3(c)
		case hero.PointLight:
			pos := lt.Position
			if lt.FollowCamera {
				back := safeNormalize(cam.Position.Sub(cam.Target))
				pos = cam.Position.Add(back.Mul(lt.Offset))
			}
			l.PointPos = f3(pos)
			l.PointColor = f3(c.Mul(pointLightScale))
			l.PointRange = float32(lt.Range)
			l.PointDecay = float32(lt.Decay)
		}
	}
	return l
}

// drawLines draws segment pairs with the line set's colour and opacity.
func drawLines(ls *hero.LineSet) {
	c := Color(ls.Material.Color, ls.Material.Opacity)
	pts := ls.Geometry.Lines
	for i := 0; i+1 < len(pts); i += 2 {
		rl.DrawLine3D(vec3(pts[i]), vec3(pts[i+1]), c)
	}
}

func vec3(v mgl64.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v[0]), float32(v[1]), float32(v[2]))
}

func f3(v mgl64.Vec3) [3]float32 {
	return [3]float32{float32(v[0]), float32(v[1]), float32(v[2])}
}

func add3(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func safeNormalize(v mgl64.Vec3) mgl64.Vec3 {
	if v.Len() == 0 {
		return mgl64.Vec3{0, 1, 0}
	}
	return v.Normalize()
}

func geometryKey(g *hero.Geometry) string {
	return fmt.Sprintf("hero/%d", g.ID)
}
