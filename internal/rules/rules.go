// Package rules implements the pure operations over a Field: claiming the
// first keep, paying a resource cost from a plot's stockpiles, resolving
// movement destinations, and the keep-connectivity conquest cascade. Every
// function here borrows the field mutably for the duration of a single
// call; none of them perform I/O or retain state across calls.
package rules

import (
	"evilcadastre/internal/entity"
	"evilcadastre/internal/field"
	"evilcadastre/internal/geometry"
	"evilcadastre/internal/resource"
)

// ClaimFirstKeep places Capital(user) at pos's plot keep tile iff pos is
// valid, the keep tile is empty, and no immediately adjacent plot already
// has a keep owned by any player. It returns the keep position and true on
// success.
func ClaimFirstKeep(f *field.Field, pos geometry.Pos, user string) (geometry.Pos, bool) {
	if !f.IsValid(pos) {
		return geometry.Pos{}, false
	}
	plot := f.PlotIndexOf(pos)
	keep := f.KeepLocationForPlot(plot)
	if !f.Get(keep).IsEmpty() {
		return geometry.Pos{}, false
	}
	for _, d := range geometry.AllDirections {
		neighbourPlot := plot.Add(d.Delta())
		neighbourKeep := f.KeepLocationForPlot(neighbourPlot)
		if !f.Get(neighbourKeep).IsEmpty() {
			return geometry.Pos{}, false
		}
	}
	f.Set(keep, entity.Entity{Kind: entity.Capital, Owner: user})
	return keep, true
}

// Pay sums the resources held by Stockpile(Some(r)) tiles in pos's plot;
// if affordable, it consumes cost.Size() units (walking the plot in
// nearest-first order, converting each required Stockpile(Some(r)) to
// Stockpile(None)) and returns true. If not affordable, the field is left
// unmodified and Pay returns false.
func Pay(f *field.Field, pos geometry.Pos, cost resource.Count) bool {
	held := resource.Count{}
	tiles := f.TilesInPlot(pos)
	for _, t := range tiles {
		e := f.Get(t)
		if e.Kind == entity.Stockpile && e.HasResource {
			held.Add(e.Resource)
		}
	}
	if !held.Affordable(cost) {
		return false
	}
	remaining := resource.Count{}
	for r, n := range cost {
		remaining[r] = n
	}
	for _, t := range tiles {
		if remaining.Size() == 0 {
			break
		}
		e := f.Get(t)
		if e.Kind != entity.Stockpile || !e.HasResource {
			continue
		}
		if remaining[e.Resource] > 0 {
			remaining[e.Resource]--
			f.Set(t, entity.Entity{Kind: entity.Stockpile})
		}
	}
	return true
}

// MoveUnitDestination resolves where a unit at from would land moving to
// to: both positions must share a plot. An empty destination tile is used
// directly; a Road destination resolves via CrossPos on the tile across the
// road's plot border; anything else yields no destination.
func MoveUnitDestination(f *field.Field, from, to geometry.Pos) (geometry.Pos, bool) {
	if !f.PlotIndexOf(from).Equal(f.PlotIndexOf(to)) {
		return geometry.Pos{}, false
	}
	dest := f.Get(to)
	switch {
	case dest.IsEmpty():
		return to, true
	case dest.Kind == entity.Road:
		owner, ok := f.PlotOwner(from)
		if !ok {
			return geometry.Pos{}, false
		}
		across, ok := f.AcrossBorder(to)
		if !ok {
			return geometry.Pos{}, false
		}
		return f.CrossPos(across, owner)
	default:
		return geometry.Pos{}, false
	}
}

// MoveResourceDestination resolves where a Stockpile(Some(r)) at from would
// deposit moving to to: both positions must share a plot. An empty
// Stockpile(None) destination is used directly; a Tradepost destination
// resolves via CrossPos on the tile across the tradepost's plot border;
// anything else yields no destination.
func MoveResourceDestination(f *field.Field, from, to geometry.Pos) (geometry.Pos, bool) {
	if !f.PlotIndexOf(from).Equal(f.PlotIndexOf(to)) {
		return geometry.Pos{}, false
	}
	dest := f.Get(to)
	switch {
	case dest.Kind == entity.Stockpile && !dest.HasResource:
		return to, true
	case dest.Kind == entity.Tradepost:
		owner, ok := f.PlotOwner(from)
		if !ok {
			return geometry.Pos{}, false
		}
		across, ok := f.AcrossBorder(to)
		if !ok {
			return geometry.Pos{}, false
		}
		return f.CrossPos(across, owner)
	default:
		return geometry.Pos{}, false
	}
}

// DestroyKeep removes the keep tile at pos, then for each neighbouring
// plot still owned by the same player runs a flood-fill across
// keep-connectivity (adjacency by plot_size steps, restricted to that
// player's own plots). Any connected component left without a Capital has
// every keep tile in it cleared.
func DestroyKeep(f *field.Field, pos geometry.Pos) {
	plot := f.PlotIndexOf(pos)
	owner, _ := f.PlotOwner(pos)
	f.Clear(f.KeepLocationForPlot(plot))

	visited := map[geometry.Pos]bool{plot: true}
	for _, d := range geometry.AllDirections {
		start := plot.Add(d.Delta())
		if visited[start] {
			continue
		}
		if o, ok := plotOwnerAt(f, start); !ok || o != owner {
			continue
		}
		component := floodFillOwnedPlots(f, start, owner, visited)
		hasCapital := false
		for _, p := range component {
			if f.Get(f.KeepLocationForPlot(p)).Kind == entity.Capital {
				hasCapital = true
				break
			}
		}
		if !hasCapital {
			for _, p := range component {
				f.Clear(f.KeepLocationForPlot(p))
			}
		}
	}
}

// plotOwnerAt returns the owner of the plot identified by plot index
// (rather than a tile position), via its keep tile.
func plotOwnerAt(f *field.Field, plot geometry.Pos) (string, bool) {
	e := f.Get(f.KeepLocationForPlot(plot))
	switch e.Kind {
	case entity.Empty:
		return "", false
	case entity.Keep, entity.Capital:
		return e.Owner, true
	default:
		panic("rules: keep tile holds non-keep entity")
	}
}

func floodFillOwnedPlots(f *field.Field, start geometry.Pos, owner string, visited map[geometry.Pos]bool) []geometry.Pos {
	var component []geometry.Pos
	queue := []geometry.Pos{start}
	visited[start] = true
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		component = append(component, cur)
		for _, d := range geometry.AllDirections {
			next := cur.Add(d.Delta())
			if visited[next] {
				continue
			}
			if o, ok := plotOwnerAt(f, next); ok && o == owner {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}
	return component
}
