package worldengine

import (
	"testing"

	"evilcadastre/internal/entity"
	"evilcadastre/internal/geometry"
)

func TestInitFieldIsDeterministic(t *testing.T) {
	a := InitField(geometry.New(10, 10), geometry.New(3, 3))
	b := InitField(geometry.New(10, 10), geometry.New(3, 3))
	if len(a.Tiles) != len(b.Tiles) {
		t.Fatalf("tile counts differ: %d vs %d", len(a.Tiles), len(b.Tiles))
	}
	for pos, e := range a.Tiles {
		if b.Tiles[pos] != e {
			t.Fatalf("tile %v differs between two Init calls: %v vs %v", pos, e, b.Tiles[pos])
		}
	}
}

func TestInitFieldPlacesCornerRocks(t *testing.T) {
	f := InitField(geometry.New(10, 10), geometry.New(1, 1))
	if f.Get(geometry.New(0, 0)).Kind != entity.Rock {
		t.Fatalf("expected rock at plot corner (0,0)")
	}
	if f.Get(geometry.New(9, 9)).Kind != entity.Rock {
		t.Fatalf("expected rock at plot corner (9,9)")
	}
}

func TestInitFieldKeepTileStaysEmpty(t *testing.T) {
	f := InitField(geometry.New(10, 10), geometry.New(2, 2))
	keep := f.KeepLocationForPlot(geometry.New(0, 0))
	if !f.Get(keep).IsEmpty() {
		t.Fatalf("expected keep tile to stay empty after init, got %v", f.Get(keep))
	}
}
