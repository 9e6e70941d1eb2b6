package primitives

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"showcase/internal/hero"
)

// Surface is the per-draw shading state derived from a material.
type Surface struct {
	Color     rl.Color
	Emissive  [3]float32
	Metalness float32
	Roughness float32
	Unlit     bool
	BackSide  bool
	Wireframe bool
}

// SurfaceOf converts a hero material.
func SurfaceOf(m *hero.Material) Surface {
	c := hero.RGB(m.Color)
	alpha := 1.0
	if m.Transparent || m.Opacity > 0 {
		alpha = m.Opacity
	}
	e := m.Emissive.Mul(max(m.EmissiveIntensity, 1))
	return Surface{
		Color:     rl.NewColor(unit8(c[0]), unit8(c[1]), unit8(c[2]), unit8(alpha)),
		Emissive:  [3]float32{float32(e[0]), float32(e[1]), float32(e[2])},
		Metalness: float32(m.Metalness),
		Roughness: float32(m.Roughness),
		Unlit:     m.Unlit,
		BackSide:  m.BackSide,
		Wireframe: m.Wireframe,
	}
}

// Surface returns the cached surface of m, converting it on first use.
func (r *Registry) Surface(m *hero.Material) Surface {
	if s, ok := r.surface[m.ID]; ok {
		return s
	}
	s := SurfaceOf(m)
	r.surface[m.ID] = s
	return s
}

// ReleaseSurface drops the cached surface of material id.
func (r *Registry) ReleaseSurface(id int) {
	delete(r.surface, id)
}

func unit8(v float64) uint8 {
	return uint8(min(max(v, 0), 1)*255 + 0.5)
}

// Lighting is the per-frame light rig. Colours are premultiplied by intensity.
type Lighting struct {
	ViewPos      [3]float32
	Ambient      [3]float32
	SkyColor     [3]float32
	GroundColor  [3]float32
	DirDirection [3]float32
	DirColor     [3]float32
	PointPos     [3]float32
	PointColor   [3]float32
	PointRange   float32
	PointDecay   float32
}

// SetLighting stores the light rig for this frame and uploads it to the shared shader.
func (r *Registry) SetLighting(l Lighting) {
	r.light = l
	r.ensureMaterial()
	sh := r.mtl.Shader
	if !rl.IsShaderValid(sh) {
		return
	}
	r.setVec3(sh, "viewPos", l.ViewPos)
	r.setVec3(sh, "ambient", l.Ambient)
	r.setVec3(sh, "skyColor", l.SkyColor)
	r.setVec3(sh, "groundColor", l.GroundColor)
	r.setVec3(sh, "dirDirection", l.DirDirection)
	r.setVec3(sh, "dirColor", l.DirColor)
	r.setVec3(sh, "pointPos", l.PointPos)
	r.setVec3(sh, "pointColor", l.PointColor)
	r.setFloat(sh, "pointRange", l.PointRange)
	r.setFloat(sh, "pointDecay", l.PointDecay)
}

// ensureMaterial creates the shared material and its lit shader on first use.
func (r *Registry) ensureMaterial() {
	if r.mtlOK {
		return
	}
	r.mtl = rl.LoadMaterialDefault()
	if shader := rl.LoadShaderFromMemory(litVS, litFS); rl.IsShaderValid(shader) {
		r.mtl.Shader = shader
	}
	r.mtlOK = true
}

func (r *Registry) setSurfaceUniforms(s Surface) {
	sh := r.mtl.Shader
	if !rl.IsShaderValid(sh) {
		return
	}
	r.setVec3(sh, "emissive", s.Emissive)
	r.setFloat(sh, "metalness", s.Metalness)
	r.setFloat(sh, "roughness", s.Roughness)
	r.setFloat(sh, "unlit", flag(s.Unlit))
	r.setFloat(sh, "backSide", flag(s.BackSide))
}

func flag(b bool) float32 {
	if b {
		return 1
	}
	return 0
}

// loc caches uniform locations; raylib returns -1 for uniforms the driver optimised out.
func (r *Registry) loc(sh rl.Shader, name string) int32 {
	if l, ok := r.locs[name]; ok {
		return l
	}
	l := rl.GetShaderLocation(sh, name)
	r.locs[name] = l
	return l
}

// setVec3 and setFloat copy into local arrays so no Go pointer is retained by cgo.
func (r *Registry) setVec3(sh rl.Shader, name string, v [3]float32) {
	if l := r.loc(sh, name); l >= 0 {
		vals := [3]float32{v[0], v[1], v[2]}
		rl.SetShaderValueV(sh, l, vals[:], rl.ShaderUniformVec3, 1)
	}
}

func (r *Registry) setFloat(sh rl.Shader, name string, v float32) {
	if l := r.loc(sh, name); l >= 0 {
		rl.SetShaderValue(sh, l, []float32{v}, rl.ShaderUniformFloat)
	}
}

const (
	litVS = `#version 330
in vec3 vertexPosition;
in vec3 vertexNormal;
uniform mat4 matProjection;
uniform mat4 matView;
uniform mat4 matModel;
uniform mat4 matNormal;
out vec3 fragPosition;
out vec3 fragNormal;
void main() {
  vec4 worldPos = matModel * vec4(vertexPosition, 1.0);
  fragPosition = worldPos.xyz;
  fragNormal = normalize(vec3(matNormal * vec4(vertexNormal, 0.0)));
  gl_Position = matProjection * matView * worldPos;
}
`
	// litFS: hemisphere + ambient + one directional + one point light, Blinn-Phong specular
	// whose sharpness follows roughness and whose tint follows metalness.
	litFS = `#version 330
in vec3 fragPosition;
in vec3 fragNormal;
uniform vec4 colDiffuse;
uniform vec3 viewPos;
uniform vec3 ambient;
uniform vec3 skyColor;
uniform vec3 groundColor;
uniform vec3 dirDirection;
uniform vec3 dirColor;
uniform vec3 pointPos;
uniform vec3 pointColor;
uniform float pointRange;
uniform float pointDecay;
uniform vec3 emissive;
uniform float metalness;
uniform float roughness;
uniform float unlit;
uniform float backSide;
out vec4 finalColor;
void main() {
  if (backSide > 0.5 && gl_FrontFacing) discard;
  vec4 tint = colDiffuse;
  if (unlit > 0.5) {
    finalColor = tint;
    return;
  }
  vec3 N = normalize(fragNormal);
  if (!gl_FrontFacing) N = -N;
  vec3 V = normalize(viewPos - fragPosition);
  float shininess = mix(256.0, 4.0, clamp(roughness, 0.0, 1.0));
  vec3 specTint = mix(vec3(1.0), tint.rgb, metalness);
  vec3 light = ambient + mix(groundColor, skyColor, N.y * 0.5 + 0.5);
  vec3 spec = vec3(0.0);

  vec3 L = normalize(dirDirection);
  float NdotL = max(dot(N, L), 0.0);
  light += dirColor * NdotL;
  spec += dirColor * pow(max(dot(N, normalize(L + V)), 0.0), shininess) * step(0.0, NdotL);

  vec3 toPoint = pointPos - fragPosition;
  float dist = length(toPoint);
  float atten = pointRange > 0.0 ? pow(clamp(1.0 - dist / pointRange, 0.0, 1.0), pointDecay) : 1.0;
  L = toPoint / max(dist, 0.0001);
  NdotL = max(dot(N, L), 0.0);
  light += pointColor * NdotL * atten;
  spec += pointColor * atten * pow(max(dot(N, normalize(L + V)), 0.0), shininess) * step(0.0, NdotL);

  vec3 diffuse = tint.rgb * light * (1.0 - 0.5 * metalness);
  finalColor = vec4(diffuse + spec * specTint + emissive, tint.a);
}
`
)
