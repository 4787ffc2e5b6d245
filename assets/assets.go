package assets

import (
	"embed"
	"io/fs"
	"path"

	"github.com/automoto/earshot/leveldata"
)

//go:embed all:levels
var assetFS embed.FS

// LevelsFS exposes the embedded levels for loading.
func LevelsFS() fs.FS { return assetFS }

// LoadLevel loads one embedded level by stem name from dir.
func LoadLevel(dir, name string) (*leveldata.Level, error) {
	return leveldata.LoadLevel(assetFS, path.Join(dir, name+".tmx"))
}

// LoadAllLevels loads every embedded level in dir.
func LoadAllLevels(dir string) (map[string]*leveldata.Level, []string, error) {
	return leveldata.LoadAllLevels(assetFS, dir)
}
