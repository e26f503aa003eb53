// Package field implements the grid and plot geometry — keep location,
// plot-local tile search, border crossings, attack lanes — together with
// the lossless textual serialization of a Field.
package field

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"evilcadastre/internal/entity"
	"evilcadastre/internal/geometry"
)

// Field is the sparse grid: a uniform plot size, a world size measured in
// plots, and a mapping from tile position to entity. Absent keys are
// implicitly empty tiles.
type Field struct {
	PlotSize  geometry.Size
	WorldSize geometry.Size
	Tiles     map[geometry.Pos]entity.Entity
}

// New builds an empty Field of the given plot and world size.
func New(plotSize, worldSize geometry.Size) *Field {
	return &Field{
		PlotSize:  plotSize,
		WorldSize: worldSize,
		Tiles:     make(map[geometry.Pos]entity.Entity),
	}
}

// Get returns the entity at p, or the zero (Empty) entity if absent.
func (f *Field) Get(p geometry.Pos) entity.Entity {
	return f.Tiles[p]
}

// Set writes e at p; setting the zero Entity removes the key so the map
// stays sparse.
func (f *Field) Set(p geometry.Pos, e entity.Entity) {
	if e.IsEmpty() {
		delete(f.Tiles, p)
		return
	}
	f.Tiles[p] = e
}

// Clear removes any entity at p.
func (f *Field) Clear(p geometry.Pos) {
	delete(f.Tiles, p)
}

// IsValid reports whether p lies within the world's bounds. Negative
// positions are arithmetically valid but never pass this check.
func (f *Field) IsValid(p geometry.Pos) bool {
	return p.X >= 0 && p.X < f.WorldSize.X*f.PlotSize.X &&
		p.Y >= 0 && p.Y < f.WorldSize.Y*f.PlotSize.Y
}

// PlotIndexOf returns the plot coordinate containing tile p, via truncating
// componentwise division.
func (f *Field) PlotIndexOf(p geometry.Pos) geometry.Pos {
	return p.Div(f.PlotSize)
}

// KeepLocationForPlot computes the jittered keep tile for a plot index, per
// the deterministic formula: the plot's center tile, nudged so adjacent
// plots' keeps do not align on an axis whose plot_size is even.
func (f *Field) KeepLocationForPlot(plot geometry.Pos) geometry.Pos {
	base := plot.Mul(f.PlotSize).Add(f.PlotSize.ScalarDiv(2))
	if f.PlotSize.X%2 == 0 {
		base.X -= plot.Y % 2
	}
	if f.PlotSize.Y%2 == 0 {
		base.Y -= plot.X % 2
	}
	return base
}

// KeepLocation is KeepLocationForPlot(PlotIndexOf(p)).
func (f *Field) KeepLocation(p geometry.Pos) geometry.Pos {
	return f.KeepLocationForPlot(f.PlotIndexOf(p))
}

// TilesInPlot returns every tile of the plot containing anchor except the
// plot's keep location, sorted by ascending Manhattan distance from anchor
// with ties broken by (x, y) enumeration order. Callers rely on this
// ordering to pick the "nearest matching tile".
func (f *Field) TilesInPlot(anchor geometry.Pos) []geometry.Pos {
	plot := f.PlotIndexOf(anchor)
	keep := f.KeepLocationForPlot(plot)
	origin := plot.Mul(f.PlotSize)

	tiles := make([]geometry.Pos, 0, f.PlotSize.X*f.PlotSize.Y-1)
	for dx := 0; dx < f.PlotSize.X; dx++ {
		for dy := 0; dy < f.PlotSize.Y; dy++ {
			p := geometry.New(origin.X+dx, origin.Y+dy)
			if p.Equal(keep) {
				continue
			}
			tiles = append(tiles, p)
		}
	}
	sort.SliceStable(tiles, func(i, j int) bool {
		di, dj := geometry.Distance(anchor, tiles[i]), geometry.Distance(anchor, tiles[j])
		if di != dj {
			return di < dj
		}
		if tiles[i].X != tiles[j].X {
			return tiles[i].X < tiles[j].X
		}
		return tiles[i].Y < tiles[j].Y
	})
	return tiles
}

// AcrossBorder returns the neighbouring tile that lies in a different plot
// than p, and true, iff exactly one of p's four axis-neighbours does so.
func (f *Field) AcrossBorder(p geometry.Pos) (geometry.Pos, bool) {
	plot := f.PlotIndexOf(p)
	var found geometry.Pos
	count := 0
	for _, d := range geometry.AllDirections {
		n := p.Add(d.Delta())
		if !f.PlotIndexOf(n).Equal(plot) {
			found = n
			count++
		}
	}
	if count == 1 {
		return found, true
	}
	return geometry.Pos{}, false
}

// NeighbourLane advances from p in direction dir until it enters the
// adjacent plot, then returns every tile of that adjacent plot along the
// ray, in order of entry, until the ray would leave it.
func (f *Field) NeighbourLane(p geometry.Pos, dir geometry.Direction) []geometry.Pos {
	delta := dir.Delta()
	originPlot := f.PlotIndexOf(p)
	cur := p
	for {
		cur = cur.Add(delta)
		if !f.IsValid(cur) {
			return nil
		}
		if !f.PlotIndexOf(cur).Equal(originPlot) {
			break
		}
	}
	lanePlot := f.PlotIndexOf(cur)
	var lane []geometry.Pos
	for f.IsValid(cur) && f.PlotIndexOf(cur).Equal(lanePlot) {
		lane = append(lane, cur)
		cur = cur.Add(delta)
	}
	return lane
}

// PlotOwner returns the owner of the plot containing p, derived from the
// plot's keep tile, and false if the plot is unclaimed. It panics if the
// keep tile holds a non-keep entity, which encodes a broken invariant
// rather than a recoverable condition.
func (f *Field) PlotOwner(p geometry.Pos) (string, bool) {
	keep := f.KeepLocation(p)
	e := f.Get(keep)
	switch e.Kind {
	case entity.Empty:
		return "", false
	case entity.Keep, entity.Capital:
		return e.Owner, true
	default:
		panic(fmt.Sprintf("field: keep tile %v holds non-keep entity %v", keep, e))
	}
}

// CrossPos returns the nearest empty tile in target's plot, provided that
// plot is owned by owner; otherwise it returns false.
func (f *Field) CrossPos(target geometry.Pos, owner string) (geometry.Pos, bool) {
	plotOwner, ok := f.PlotOwner(target)
	if !ok || plotOwner != owner {
		return geometry.Pos{}, false
	}
	for _, t := range f.TilesInPlot(target) {
		if f.Get(t).IsEmpty() {
			return t, true
		}
	}
	return geometry.Pos{}, false
}

// Serialize renders the canonical persistence format:
// "size:<w>,<h> plot_size:<w>,<h>/" followed by "<x>,<y> <entity>; " for
// every non-empty tile, in arbitrary order.
func (f *Field) Serialize() string {
	var b strings.Builder
	fmt.Fprintf(&b, "size:%d,%d plot_size:%d,%d/", f.WorldSize.X, f.WorldSize.Y, f.PlotSize.X, f.PlotSize.Y)
	for pos, e := range f.Tiles {
		fmt.Fprintf(&b, "%s %s; ", pos.String(), e.String())
	}
	return b.String()
}

// Parse decodes the canonical persistence format produced by Serialize, or
// any semantically equivalent reordering of it.
func Parse(s string) (*Field, error) {
	idx := strings.IndexByte(s, '/')
	if idx < 0 {
		return nil, fmt.Errorf("field: missing '/' header separator")
	}
	header, body := s[:idx], s[idx+1:]

	f := &Field{Tiles: make(map[geometry.Pos]entity.Entity)}
	haveSize, havePlotSize := false, false
	for _, tok := range strings.Fields(header) {
		name, value, ok := strings.Cut(tok, ":")
		if !ok {
			continue
		}
		switch name {
		case "size":
			sz, err := parsePos(value)
			if err != nil {
				return nil, fmt.Errorf("field: invalid size: %w", err)
			}
			f.WorldSize = sz
			haveSize = true
		case "plot_size":
			sz, err := parsePos(value)
			if err != nil {
				return nil, fmt.Errorf("field: invalid plot_size: %w", err)
			}
			f.PlotSize = sz
			havePlotSize = true
		}
	}
	if !haveSize {
		return nil, fmt.Errorf("field: header missing 'size'")
	}
	if !havePlotSize {
		return nil, fmt.Errorf("field: header missing 'plot_size'")
	}

	for _, seg := range strings.Split(body, ";") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		posTok, entTok, ok := strings.Cut(seg, " ")
		if !ok {
			return nil, fmt.Errorf("field: invalid tile segment %q", seg)
		}
		pos, err := parsePos(posTok)
		if err != nil {
			return nil, fmt.Errorf("field: invalid tile position %q: %w", posTok, err)
		}
		e, err := entity.Parse(entTok)
		if err != nil {
			return nil, fmt.Errorf("field: %w", err)
		}
		f.Tiles[pos] = e
	}
	return f, nil
}

func parsePos(s string) (geometry.Pos, error) {
	xs, ys, ok := strings.Cut(strings.TrimSpace(s), ",")
	if !ok {
		return geometry.Pos{}, fmt.Errorf("expected \"x,y\", got %q", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return geometry.Pos{}, err
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return geometry.Pos{}, err
	}
	return geometry.New(x, y), nil
}
