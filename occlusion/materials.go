package occlusion

import "github.com/automoto/earshot/geom"

// MaterialTable maps a surface material to its occlusion multiplier. Higher
// values block more sound.
type MaterialTable map[geom.MaterialID]float64

// Factor returns the multiplier of the first listed material found in the
// table, or 1 when none is.
func (t MaterialTable) Factor(materials []geom.MaterialID) float64 {
	for _, m := range materials {
		if v, ok := t[m]; ok {
			return v
		}
	}
	return 1
}
