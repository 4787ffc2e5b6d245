package components

import (
	"github.com/yohamta/donburi"

	"github.com/automoto/earshot/geom"
	"github.com/automoto/earshot/occlusion"
	"github.com/automoto/earshot/propagation"
	"github.com/automoto/earshot/sound"
	"github.com/automoto/earshot/voxel"
)

// AcousticsData is the per-world singleton owning the scene and both engines.
type AcousticsData struct {
	Scene       *geom.Scene
	Grid        *voxel.VoxelGrid
	Occlusion   *occlusion.Engine
	Propagation *propagation.Engine

	Enabled bool // master switch; both engines are skipped when false

	Sources map[sound.ID]donburi.Entity // live sources by id

	LastOcclusion occlusion.Stats
}

var Acoustics = donburi.NewComponentType[AcousticsData]()
