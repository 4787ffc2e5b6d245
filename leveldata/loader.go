package leveldata

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lafriks/go-tiled"
)

// ErrNoListener is returned for levels without a Listener object.
var ErrNoListener = errors.New("leveldata: level has no listener spawn")

const (
	defaultChannel = "world_static"
	defaultFalloff = 3000
)

// LoadLevel parses a TMX file. Every tile layer is a horizontal slab whose
// bottom and thickness come from its "z" and "height" properties; tiles take
// their material from the tileset "material" property.
func LoadLevel(fsys fs.FS, tmxPath string) (*Level, error) {
	levelMap, err := tiled.LoadFile(tmxPath, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, fmt.Errorf("load TMX %s: %w", tmxPath, err)
	}

	tileW := float64(levelMap.TileWidth)
	tileH := float64(levelMap.TileHeight)
	level := &Level{
		Name:   strings.TrimSuffix(filepath.Base(tmxPath), ".tmx"),
		Width:  float64(levelMap.Width) * tileW,
		Height: float64(levelMap.Height) * tileH,
	}

	for _, layer := range levelMap.Layers {
		z := floatProp(layer.Properties, "z", 0)
		depth := floatProp(layer.Properties, "height", tileH)
		channel := layer.Properties.GetString("channel")
		if channel == "" {
			channel = defaultChannel
		}
		level.Depth = max(level.Depth, z+depth)

		for y := 0; y < levelMap.Height; y++ {
			for x := 0; x < levelMap.Width; x++ {
				i := y*levelMap.Width + x
				if i >= len(layer.Tiles) {
					continue
				}
				tile := layer.Tiles[i]
				if tile == nil || tile.IsNil() {
					continue
				}

				var material string
				if tilesetTile, err := tile.Tileset.GetTilesetTile(tile.ID); err == nil {
					material = tilesetTile.Properties.GetString("material")
				}

				level.Solids = append(level.Solids, Solid{
					X:        float64(x) * tileW,
					Y:        float64(y) * tileH,
					Z:        z,
					W:        tileW,
					H:        tileH,
					D:        depth,
					Channel:  channel,
					Material: material,
				})
			}
		}
	}

	hasListener := false
	for _, og := range levelMap.ObjectGroups {
		switch og.Name {
		case "Sources":
			for _, o := range og.Objects {
				kind := o.Class
				if kind == "" {
					kind = o.Type //nolint:staticcheck // older TMX files use type=
				}
				level.Sources = append(level.Sources, SourceSpawn{
					ID:        o.ID,
					Name:      o.Name,
					Kind:      kind,
					X:         o.X,
					Y:         o.Y,
					Z:         o.Properties.GetFloat("z"),
					Falloff:   floatProp(o.Properties, "falloff", defaultFalloff),
					Duration:  o.Properties.GetFloat("duration"),
					Sound:     o.Properties.GetString("sound"),
					Occlude:   o.Properties.GetBool("occlude"),
					Propagate: o.Properties.GetBool("propagate"),
				})
			}
		case "Listener":
			if len(og.Objects) == 0 || hasListener {
				continue
			}
			o := og.Objects[0]
			level.Listener = ListenerSpawn{X: o.X, Y: o.Y, Z: o.Properties.GetFloat("z")}
			hasListener = true
		}
	}

	if !hasListener {
		return nil, fmt.Errorf("%s: %w", tmxPath, ErrNoListener)
	}

	// Stable order regardless of how the editor saved the objects.
	sort.Slice(level.Sources, func(i, j int) bool {
		return level.Sources[i].ID < level.Sources[j].ID
	})

	return level, nil
}

// LoadAllLevels discovers all .tmx files in levelsDir within fsys, loads each,
// and returns a map keyed by stem name plus a sorted list of names.
func LoadAllLevels(fsys fs.FS, levelsDir string) (map[string]*Level, []string, error) {
	pattern := levelsDir + "/*.tmx"
	matches, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, nil, fmt.Errorf("no .tmx files found in %s", levelsDir)
	}

	levels := make(map[string]*Level, len(matches))
	names := make([]string, 0, len(matches))

	for _, path := range matches {
		level, err := LoadLevel(fsys, path)
		if err != nil {
			return nil, nil, fmt.Errorf("load %s: %w", path, err)
		}
		levels[level.Name] = level
		names = append(names, level.Name)
	}

	sort.Strings(names)
	return levels, names, nil
}

// floatProp reads a float property, falling back to def when it is absent.
func floatProp(p tiled.Properties, name string, def float64) float64 {
	if p.GetString(name) == "" {
		return def
	}
	return p.GetFloat(name)
}
