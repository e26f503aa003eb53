package worldengine

import (
	"evilcadastre/internal/entity"
	"evilcadastre/internal/field"
	"evilcadastre/internal/geometry"
)

// randomizeSeed advances a PRNG seed by one step: an additive constant
// followed by three xorshift rounds, matching the reference world
// generator's seeding scheme exactly.
func randomizeSeed(seed uint32) uint32 {
	seed += 92857
	seed ^= seed << 13
	seed ^= seed >> 17
	seed ^= seed << 5
	return seed
}

// InitField builds a fresh Field of the given plot and world size, with
// every plot stocked with ambient terrain: Rock at the four corners, plus
// two Forest and one Swamp placed by a deterministic PRNG seeded from the
// plot index, so repeated Init calls with the same sizes always produce
// identical tile maps (the serialized text may still list tiles in a
// different order).
func InitField(plotSize, worldSize geometry.Size) *field.Field {
	f := field.New(plotSize, worldSize)
	for px := 0; px < worldSize.X; px++ {
		for py := 0; py < worldSize.Y; py++ {
			initPlot(f, geometry.New(px, py))
		}
	}
	return f
}

func initPlot(f *field.Field, plot geometry.Pos) {
	origin := plot.Mul(f.PlotSize)
	size := f.PlotSize
	keep := f.KeepLocationForPlot(plot)

	corners := []geometry.Pos{
		origin,
		geometry.New(origin.X+size.X-1, origin.Y),
		geometry.New(origin.X, origin.Y+size.Y-1),
		geometry.New(origin.X+size.X-1, origin.Y+size.Y-1),
	}
	for _, c := range corners {
		f.Set(c, entity.Entity{Kind: entity.Rock})
	}

	// Candidate tiles are the plot's own nearest-first ordering filtered to
	// empty, matching plant_ambience's tiles_in_plot(keep) source list, and
	// the list stays fixed-length across all three draws below (the
	// reference draws with replacement rather than shrinking the pool).
	var candidates []geometry.Pos
	for _, t := range f.TilesInPlot(keep) {
		if f.Get(t).IsEmpty() {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		return
	}

	seed := uint32(plot.X + plot.Y*67679)
	draw := func() geometry.Pos {
		seed = randomizeSeed(seed)
		idx := int(seed % uint32(len(candidates)))
		return candidates[idx]
	}

	ambient := []entity.Kind{entity.Forest, entity.Forest, entity.Swamp}
	for _, k := range ambient {
		f.Set(draw(), entity.Entity{Kind: k})
	}
}
