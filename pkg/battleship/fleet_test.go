package battleship

import "testing"

func twoShipFleet() *Fleet {
	f := NewFleet()
	f.AddShip(ShipSpec{TemplateID: "tpl-destroyer", Name: "Destroyer", Size: 2}, 0,
		[]Coordinate{{1, 1}, {1, 2}})
	f.AddShip(ShipSpec{TemplateID: "tpl-patrol", Name: "Patrol Boat", Size: 1}, 1,
		[]Coordinate{{3, 3}})
	return f
}

func TestMarkHitLifecycle(t *testing.T) {
	t.Parallel()
	f := twoShipFleet()

	found, sunk := f.MarkHit(Coordinate{1, 1}.Code())
	if !found || sunk {
		t.Fatalf("first segment: found=%v sunk=%v, want true, false", found, sunk)
	}
	if f.AliveShipCount() != 2 || f.SunkShipCount() != 0 {
		t.Fatalf("alive=%d sunk=%d after one hit", f.AliveShipCount(), f.SunkShipCount())
	}

	found, sunk = f.MarkHit(Coordinate{1, 2}.Code())
	if !found || !sunk {
		t.Fatalf("last segment: found=%v sunk=%v, want true, true", found, sunk)
	}
	if f.SunkShipCount() != 1 || f.AliveShipCount() != 1 {
		t.Fatalf("alive=%d sunk=%d after destroyer down", f.AliveShipCount(), f.SunkShipCount())
	}
	if f.AllSunk() {
		t.Fatal("AllSunk() with the patrol boat still afloat")
	}

	found, sunk = f.MarkHit(Coordinate{3, 3}.Code())
	if !found || !sunk {
		t.Fatalf("patrol boat: found=%v sunk=%v, want true, true", found, sunk)
	}
	if !f.AllSunk() {
		t.Fatal("AllSunk() = false with every segment hit")
	}
}

func TestMarkHitIdempotent(t *testing.T) {
	t.Parallel()
	f := twoShipFleet()
	code := Coordinate{1, 1}.Code()

	f1, s1 := f.MarkHit(code)
	f2, s2 := f.MarkHit(code)
	if f1 != f2 || s1 != s2 {
		t.Errorf("repeat MarkHit differs: (%v,%v) then (%v,%v)", f1, s1, f2, s2)
	}
	if f.SunkShipCount() != 0 {
		t.Errorf("SunkShipCount() = %d after double-marking one segment", f.SunkShipCount())
	}
}

func TestMarkHitUnknownCode(t *testing.T) {
	t.Parallel()
	f := twoShipFleet()
	if found, sunk := f.MarkHit(Coordinate{9, 9}.Code()); found || sunk {
		t.Errorf("MarkHit(empty cell) = %v, %v", found, sunk)
	}
}

func TestShipViewsDeriveSunk(t *testing.T) {
	t.Parallel()
	f := twoShipFleet()
	f.MarkHit(Coordinate{3, 3}.Code())

	ships := f.Ships()
	if len(ships) != 2 {
		t.Fatalf("Ships() returned %d ships", len(ships))
	}
	if ships[0].Sunk {
		t.Error("destroyer reported sunk with no hits")
	}
	if !ships[1].Sunk {
		t.Error("patrol boat not reported sunk")
	}
	if ships[0].Name != "Destroyer" || ships[0].PlacementIndex != 0 {
		t.Errorf("ship[0] = %q idx %d", ships[0].Name, ships[0].PlacementIndex)
	}
	if len(ships[0].Segments) != 2 {
		t.Fatalf("destroyer has %d segments", len(ships[0].Segments))
	}
	if ships[0].Segments[1].Coordinate != (Coordinate{1, 2}) {
		t.Errorf("segment coordinate = %v", ships[0].Segments[1].Coordinate)
	}

	hit, ok := f.Ship(1)
	if !ok || !hit.Sunk || !hit.Segments[0].Hit {
		t.Errorf("Ship(1) = %+v, %v", hit, ok)
	}
}

func TestEmptyFleetNotSunk(t *testing.T) {
	t.Parallel()
	f := NewFleet()
	if f.AllSunk() {
		t.Error("empty fleet reports AllSunk")
	}
	if f.ShipCount() != 0 || len(f.Ships()) != 0 {
		t.Errorf("empty fleet: count=%d views=%d", f.ShipCount(), len(f.Ships()))
	}
}
