package inspector

import (
	"fmt"

	"github.com/seen-one/Route-Crafter/pkg/datastructure"
)

// Augment bump the multiplicity of every edge along the stored shortest path
// of each matched pair. Works on a clone, the extracted graph and its geometry
// stay untouched. The result has even degree everywhere.
func Augment(g *datastructure.StreetGraph, pairs [][2]int32, paths map[[2]int32]PairPath) (*datastructure.StreetGraph, error) {
	aug := g.Clone()
	for _, p := range pairs {
		pp, ok := paths[pairKey(p[0], p[1])]
		if !ok {
			return nil, fmt.Errorf("missing shortest path for matched pair (%d,%d)", p[0], p[1])
		}
		for _, eID := range pp.Edges {
			aug.Edges[eID].Multiplicity++
		}
	}

	for u := int32(0); int(u) < aug.NumNodes(); u++ {
		if aug.Degree(u)%2 == 1 {
			return nil, fmt.Errorf("%w: node %d still has odd degree after augmentation", ErrNotEulerian, u)
		}
	}
	return aug, nil
}
