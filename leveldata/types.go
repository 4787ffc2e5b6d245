// Package leveldata parses TMX levels into the static geometry, sound sources
// and listener spawn the acoustics simulation runs on. Pure data only.
package leveldata

// Level holds everything the simulation needs from a TMX file.
type Level struct {
	Name     string
	Width    float64 // X extent in world units
	Height   float64 // Y extent in world units
	Depth    float64 // Z extent covered by solid layers
	Solids   []Solid
	Sources  []SourceSpawn
	Listener ListenerSpawn
}

// Solid is one blocking tile extruded into a box.
type Solid struct {
	X, Y, Z  float64
	W, H, D  float64
	Channel  string
	Material string
}

// SourceSpawn places a looping sound source.
type SourceSpawn struct {
	ID        uint32
	Name      string
	Kind      string
	X, Y, Z   float64
	Falloff   float64
	Duration  float64 // seconds, 0 when unknown
	Sound     string  // audio asset path
	Occlude   bool
	Propagate bool
}

// ListenerSpawn is where the listener starts.
type ListenerSpawn struct {
	X, Y, Z float64
}
