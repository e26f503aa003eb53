package field

import (
	"testing"

	"evilcadastre/internal/entity"
	"evilcadastre/internal/geometry"
)

func TestSerializeParseRoundTrip(t *testing.T) {
	f := New(geometry.New(10, 10), geometry.New(5, 5))
	f.Set(geometry.New(2, 1), entity.Entity{Kind: entity.Capital, Owner: "alice"})
	f.Set(geometry.New(8, 0), entity.Entity{Kind: entity.Stockpile})
	f.Set(geometry.New(3, 3), entity.Entity{Kind: entity.Forest})

	parsed, err := Parse(f.Serialize())
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if parsed.PlotSize != f.PlotSize || parsed.WorldSize != f.WorldSize {
		t.Fatalf("size mismatch: %+v vs %+v", parsed, f)
	}
	if len(parsed.Tiles) != len(f.Tiles) {
		t.Fatalf("tile count mismatch: %d vs %d", len(parsed.Tiles), len(f.Tiles))
	}
	for pos, e := range f.Tiles {
		if parsed.Tiles[pos] != e {
			t.Fatalf("tile %v mismatch: %v vs %v", pos, parsed.Tiles[pos], e)
		}
	}
}

func TestParseFreshField(t *testing.T) {
	f, err := Parse("size:5,5 plot_size:10,10 /")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if f.WorldSize != geometry.New(5, 5) || f.PlotSize != geometry.New(10, 10) {
		t.Fatalf("unexpected sizes: %+v", f)
	}
	if len(f.Tiles) != 0 {
		t.Fatalf("expected empty field")
	}
}

func TestTilesInPlotSortedAndExcludesKeep(t *testing.T) {
	f := New(geometry.New(10, 10), geometry.New(5, 5))
	anchor := geometry.New(2, 1)
	tiles := f.TilesInPlot(anchor)
	keep := f.KeepLocation(anchor)
	for _, tpos := range tiles {
		if tpos.Equal(keep) {
			t.Fatalf("keep location %v must be excluded from TilesInPlot", keep)
		}
	}
	for i := 1; i < len(tiles); i++ {
		if geometry.Distance(anchor, tiles[i-1]) > geometry.Distance(anchor, tiles[i]) {
			t.Fatalf("tiles not sorted by ascending distance at index %d", i)
		}
	}
	if len(tiles) != 99 {
		t.Fatalf("expected 10*10-1 = 99 tiles, got %d", len(tiles))
	}
}

func TestAcrossBorderExactlyOneNeighbour(t *testing.T) {
	f := New(geometry.New(10, 10), geometry.New(5, 5))
	// (9,5) is on the right edge of plot (0,0), its east neighbour (10,5)
	// is in plot (1,0); the other three neighbours stay within (0,0).
	if _, ok := f.AcrossBorder(geometry.New(9, 5)); !ok {
		t.Fatalf("expected (9,5) to be an across-border tile")
	}
	if _, ok := f.AcrossBorder(geometry.New(5, 5)); ok {
		t.Fatalf("expected interior tile (5,5) to not be across-border")
	}
}

func TestPlotOwnerUnclaimed(t *testing.T) {
	f := New(geometry.New(10, 10), geometry.New(5, 5))
	if _, ok := f.PlotOwner(geometry.New(2, 1)); ok {
		t.Fatalf("expected unclaimed plot to have no owner")
	}
}

func TestPlotOwnerPanicsOnBrokenInvariant(t *testing.T) {
	f := New(geometry.New(10, 10), geometry.New(5, 5))
	keep := f.KeepLocation(geometry.New(2, 1))
	f.Set(keep, entity.Entity{Kind: entity.Forest})
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on non-keep entity at keep tile")
		}
	}()
	f.PlotOwner(geometry.New(2, 1))
}
