package registry

import "github.com/go-gl/mathgl/mgl32"

// Material identifies a terrain surface type used for vertex coloring.
type Material uint8

const (
	MaterialGrass Material = iota
	MaterialDirt
	MaterialRock
	MaterialSand
	MaterialSnow
)

// Classification bands. Heights are world Y, slope is judged from the upward
// component of the surface normal.
const (
	SnowLine  = 52.0
	DirtLine  = 26.0
	SandLine  = 14.0
	RockSlope = 0.8 // normals flatter than this (smaller Y component) read as cliff
)

// MaterialDef defines the display properties of a material.
type MaterialDef struct {
	ID    Material
	Name  string
	Color mgl32.Vec3
}

var (
	defs   = make(map[Material]*MaterialDef)
	byName = make(map[string]Material)
)

func register(def *MaterialDef) {
	defs[def.ID] = def
	byName[def.Name] = def.ID
}

func init() {
	register(&MaterialDef{ID: MaterialGrass, Name: "grass", Color: mgl32.Vec3{0.3, 0.7, 0.2}})
	register(&MaterialDef{ID: MaterialDirt, Name: "dirt", Color: mgl32.Vec3{0.6, 0.4, 0.2}})
	register(&MaterialDef{ID: MaterialRock, Name: "rock", Color: mgl32.Vec3{0.5, 0.5, 0.5}})
	register(&MaterialDef{ID: MaterialSand, Name: "sand", Color: mgl32.Vec3{0.9, 0.8, 0.5}})
	register(&MaterialDef{ID: MaterialSnow, Name: "snow", Color: mgl32.Vec3{0.95, 0.95, 0.97}})
}

// Classify picks the material for a surface point from its world height and
// the upward component of its normal. Snow wins on high ground, cliffs read
// as rock, low ground shades through dirt down to sand.
func Classify(height, normalY float32) Material {
	if height >= SnowLine {
		return MaterialSnow
	}
	if normalY < RockSlope {
		return MaterialRock
	}
	if height <= SandLine {
		return MaterialSand
	}
	if height <= DirtLine {
		return MaterialDirt
	}
	return MaterialGrass
}

// Color returns the display color of a material.
func Color(m Material) mgl32.Vec3 {
	if def, ok := defs[m]; ok {
		return def.Color
	}
	return mgl32.Vec3{0.5, 0.5, 0.5}
}

// ByName looks a material up by its registered name.
func ByName(name string) (Material, bool) {
	m, ok := byName[name]
	return m, ok
}

func (m Material) String() string {
	if def, ok := defs[m]; ok {
		return def.Name
	}
	return "unknown"
}
