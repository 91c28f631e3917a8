package battleship

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Board size limits enforced at game creation.
const (
	MinBoardSize = 5
	MaxBoardSize = 20
)

// codeBase packs a row into a coordinate code: row r, column c encode as
// r*codeBase+c, so A1 is 101, C3 is 303, and T20 is 2020. Columns never
// exceed MaxBoardSize, so the column digits can never bleed into the row.
const codeBase = 100

var (
	ErrMalformedCoordinate = errors.New("malformed coordinate")
	ErrOutOfBounds         = errors.New("coordinate out of bounds")
)

// Coordinate is a 1-based board cell: row A is 1, columns count from 1.
type Coordinate struct {
	Row int
	Col int
}

// Code packs the coordinate into the integer key used by the board indexes.
func (c Coordinate) Code() int { return c.Row*codeBase + c.Col }

// FromCode unpacks an integer code back into a coordinate.
func FromCode(code int) Coordinate {
	return Coordinate{Row: code / codeBase, Col: code % codeBase}
}

// In reports whether the coordinate lies on a size x size board.
func (c Coordinate) In(size int) bool {
	return c.Row >= 1 && c.Row <= size && c.Col >= 1 && c.Col <= size
}

// String renders the canonical label: uppercase row letters followed by
// the column number ("A1", "T20"). Rows beyond 26 use multi-letter labels
// in spreadsheet style (27 = "AA").
func (c Coordinate) String() string {
	var b []byte
	n := c.Row
	for n > 0 {
		n--
		b = append(b, byte('A'+n%26))
		n /= 26
	}
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b) + strconv.Itoa(c.Col)
}

// ParseCoordinate converts a label like "A1" or "b7" into a coordinate.
// Row letters are case-insensitive. The result is not checked against any
// particular board; callers bounds-check with In.
func ParseCoordinate(s string) (Coordinate, error) {
	s = strings.TrimSpace(s)
	i := 0
	row := 0
	for i < len(s) {
		ch := s[i]
		if ch >= 'a' && ch <= 'z' {
			ch -= 'a' - 'A'
		}
		if ch < 'A' || ch > 'Z' {
			break
		}
		row = row*26 + int(ch-'A'+1)
		i++
	}
	// Three letters already addresses row 18278; anything longer is noise.
	if i == 0 || i > 3 || i == len(s) {
		return Coordinate{}, fmt.Errorf("%w: %q", ErrMalformedCoordinate, s)
	}
	for j := i; j < len(s); j++ {
		if s[j] < '0' || s[j] > '9' {
			return Coordinate{}, fmt.Errorf("%w: %q", ErrMalformedCoordinate, s)
		}
	}
	col, err := strconv.Atoi(s[i:])
	if err != nil || col < 1 {
		return Coordinate{}, fmt.Errorf("%w: %q", ErrMalformedCoordinate, s)
	}
	return Coordinate{Row: row, Col: col}, nil
}

// Orientation is the direction a ship extends from its starting cell.
type Orientation string

const (
	Horizontal Orientation = "horizontal" // along the row, increasing column
	Vertical   Orientation = "vertical"   // down the column, increasing row
)

// Valid reports whether the orientation is one of the two known values.
func (o Orientation) Valid() bool { return o == Horizontal || o == Vertical }

// Vector returns the per-segment row and column deltas.
func (o Orientation) Vector() (dr, dc int) {
	if o == Vertical {
		return 1, 0
	}
	return 0, 1
}

// SegmentCoords lists the cells a ship of the given size occupies from
// start in direction o. Fails with ErrOutOfBounds if any cell falls
// outside a boardSize board. Codes ascend in both orientations.
func SegmentCoords(start Coordinate, o Orientation, size, boardSize int) ([]Coordinate, error) {
	dr, dc := o.Vector()
	coords := make([]Coordinate, size)
	for i := 0; i < size; i++ {
		c := Coordinate{Row: start.Row + dr*i, Col: start.Col + dc*i}
		if !c.In(boardSize) {
			return nil, fmt.Errorf("%w: %s", ErrOutOfBounds, c)
		}
		coords[i] = c
	}
	return coords, nil
}
