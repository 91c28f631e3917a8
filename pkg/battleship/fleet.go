package battleship

// Fleet tracks one player's ships as a first-child/next-sibling tree. The
// root is the player level, its children are ships in placement order,
// and each ship's children are its segments. A ship node never stores a
// sunk flag; sunk is derived from its segment hit flags on every read.
type Fleet struct {
	root  *fleetNode
	ships int
}

// fleetNode is one node of the tree. Which payload fields are meaningful
// depends on the level: ship nodes use spec and placementIndex, segment
// nodes use code and hit, the root uses none.
type fleetNode struct {
	firstChild  *fleetNode
	nextSibling *fleetNode

	spec           ShipSpec
	placementIndex int
	code           int
	hit            bool
}

// NewFleet returns a fleet containing only the player root.
func NewFleet() *Fleet {
	return &Fleet{root: &fleetNode{}}
}

// AddShip appends a placed ship and its segment nodes. Ships are kept in
// placement order so views line up with the fleet list the game was
// created from.
func (f *Fleet) AddShip(spec ShipSpec, placementIndex int, segments []Coordinate) {
	ship := &fleetNode{spec: spec, placementIndex: placementIndex}
	var last *fleetNode
	for _, c := range segments {
		seg := &fleetNode{code: c.Code()}
		if last == nil {
			ship.firstChild = seg
		} else {
			last.nextSibling = seg
		}
		last = seg
	}
	if f.root.firstChild == nil {
		f.root.firstChild = ship
	} else {
		n := f.root.firstChild
		for n.nextSibling != nil {
			n = n.nextSibling
		}
		n.nextSibling = ship
	}
	f.ships++
}

// MarkHit flags the segment at code as hit. shipFound reports whether any
// ship occupies the code; shipSunk reports whether every segment of that
// ship is hit afterward. Re-marking an already hit segment returns the
// same results and changes nothing.
func (f *Fleet) MarkHit(code int) (shipFound, shipSunk bool) {
	for ship := f.root.firstChild; ship != nil; ship = ship.nextSibling {
		for seg := ship.firstChild; seg != nil; seg = seg.nextSibling {
			if seg.code != code {
				continue
			}
			seg.hit = true
			return true, shipAllHit(ship)
		}
	}
	return false, false
}

func shipAllHit(ship *fleetNode) bool {
	for seg := ship.firstChild; seg != nil; seg = seg.nextSibling {
		if !seg.hit {
			return false
		}
	}
	return true
}

// ShipCount returns the number of ships placed so far.
func (f *Fleet) ShipCount() int { return f.ships }

// SunkShipCount derives the number of fully hit ships.
func (f *Fleet) SunkShipCount() int {
	n := 0
	for ship := f.root.firstChild; ship != nil; ship = ship.nextSibling {
		if shipAllHit(ship) {
			n++
		}
	}
	return n
}

// AliveShipCount returns the number of ships with at least one intact segment.
func (f *Fleet) AliveShipCount() int { return f.ships - f.SunkShipCount() }

// AllSunk reports whether every placed ship is fully hit. An empty fleet
// is not sunk; nothing has been placed yet.
func (f *Fleet) AllSunk() bool {
	return f.ships > 0 && f.SunkShipCount() == f.ships
}

// Ships returns a snapshot of every ship with derived sunk flags, in
// placement order.
func (f *Fleet) Ships() []ShipView {
	out := make([]ShipView, 0, f.ships)
	for ship := f.root.firstChild; ship != nil; ship = ship.nextSibling {
		out = append(out, shipView(ship))
	}
	return out
}

// Ship returns the snapshot of the ship placed at placementIndex.
func (f *Fleet) Ship(placementIndex int) (ShipView, bool) {
	for ship := f.root.firstChild; ship != nil; ship = ship.nextSibling {
		if ship.placementIndex == placementIndex {
			return shipView(ship), true
		}
	}
	return ShipView{}, false
}

func shipView(ship *fleetNode) ShipView {
	v := ShipView{
		TemplateID:     ship.spec.TemplateID,
		Name:           ship.spec.Name,
		Size:           ship.spec.Size,
		PlacementIndex: ship.placementIndex,
		Sunk:           shipAllHit(ship),
	}
	for seg := ship.firstChild; seg != nil; seg = seg.nextSibling {
		v.Segments = append(v.Segments, SegmentView{
			Coordinate: FromCode(seg.code),
			Code:       seg.code,
			Hit:        seg.hit,
		})
	}
	return v
}

// ShipView is a read-only snapshot of one placed ship.
type ShipView struct {
	TemplateID     string
	Name           string
	Size           int
	PlacementIndex int
	Sunk           bool
	Segments       []SegmentView
}

// SegmentView is one cell of a placed ship.
type SegmentView struct {
	Coordinate Coordinate
	Code       int
	Hit        bool
}
