package rules

import (
	"testing"

	"evilcadastre/internal/entity"
	"evilcadastre/internal/field"
	"evilcadastre/internal/geometry"
	"evilcadastre/internal/resource"
)

func freshField(t *testing.T) *field.Field {
	t.Helper()
	f, err := field.Parse("size:5,5 plot_size:10,10 /")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return f
}

func TestClaimFirstKeep(t *testing.T) {
	f := freshField(t)
	keep, ok := ClaimFirstKeep(f, geometry.New(2, 1), "user")
	if !ok {
		t.Fatalf("expected claim to succeed")
	}
	if f.Get(keep).Kind != entity.Capital || f.Get(keep).Owner != "user" {
		t.Fatalf("expected capital at keep tile, got %v", f.Get(keep))
	}
}

func TestClaimFirstKeepRejectsAdjacentOwnedPlot(t *testing.T) {
	f := freshField(t)
	if _, ok := ClaimFirstKeep(f, geometry.New(2, 1), "user"); !ok {
		t.Fatalf("setup claim failed")
	}
	// plot (1,0) is adjacent to plot (0,0); claiming there should fail.
	if _, ok := ClaimFirstKeep(f, geometry.New(12, 1), "rival"); ok {
		t.Fatalf("expected adjacent claim to be rejected")
	}
}

func TestPaySufficientAndInsufficient(t *testing.T) {
	f := freshField(t)
	f.Set(geometry.New(1, 5), entity.Entity{Kind: entity.Stockpile, Resource: resource.Wood, HasResource: true})
	f.Set(geometry.New(2, 5), entity.Entity{Kind: entity.Stockpile, Resource: resource.Wood, HasResource: true})

	if Pay(f, geometry.New(1, 5), resource.New(resource.Wood, 3)) {
		t.Fatalf("expected insufficient payment to fail")
	}
	if !Pay(f, geometry.New(1, 5), resource.New(resource.Wood, 2)) {
		t.Fatalf("expected sufficient payment to succeed")
	}
	if f.Get(geometry.New(1, 5)).HasResource || f.Get(geometry.New(2, 5)).HasResource {
		t.Fatalf("expected both stockpiles to be emptied by payment")
	}
}

func TestMoveUnitDestinationEmptyTile(t *testing.T) {
	f := freshField(t)
	dest, ok := MoveUnitDestination(f, geometry.New(1, 1), geometry.New(3, 1))
	if !ok || !dest.Equal(geometry.New(3, 1)) {
		t.Fatalf("expected destination (3,1), got %v, %v", dest, ok)
	}
}

func TestMoveUnitDestinationCrossesPlotFails(t *testing.T) {
	f := freshField(t)
	if _, ok := MoveUnitDestination(f, geometry.New(1, 1), geometry.New(11, 1)); ok {
		t.Fatalf("expected cross-plot move without a road to fail")
	}
}

func TestDestroyKeepCascadesToDisconnectedKeep(t *testing.T) {
	f := freshField(t)
	capitalKeep, ok := ClaimFirstKeep(f, geometry.New(2, 1), "user")
	if !ok {
		t.Fatalf("setup claim failed")
	}
	// Plot (1,0) is owned by the same player via an extra Keep, connected
	// only through the capital's plot.
	neighbourKeep := f.KeepLocationForPlot(geometry.New(1, 0))
	f.Set(neighbourKeep, entity.Entity{Kind: entity.Keep, Owner: "user"})

	DestroyKeep(f, capitalKeep)

	if !f.Get(capitalKeep).IsEmpty() {
		t.Fatalf("expected capital keep to be cleared")
	}
	if !f.Get(neighbourKeep).IsEmpty() {
		t.Fatalf("expected orphaned neighbour keep to be cleared by the cascade")
	}
}
