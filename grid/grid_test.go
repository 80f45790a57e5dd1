// File: grid/grid_test.go
package grid

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

// TestNew_Valid builds a 2×3 table and checks shape and per-cell costs.
func TestNew_Valid(t *testing.T) {
	values := [][]int{
		{1, 2, 3},
		{4, 5, 6},
	}
	g, err := New(values)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if g.Rows() != 2 || g.Cols() != 3 {
		t.Fatalf("shape = %dx%d; want 2x3", g.Rows(), g.Cols())
	}
	if got := g.Cost(1, 2); got != 6 {
		t.Errorf("Cost(1,2) = %d; want 6", got)
	}

	// Mutating the input must not leak into the grid.
	values[0][0] = 9
	if got := g.Cost(0, 0); got != 1 {
		t.Errorf("Cost(0,0) after input mutation = %d; want 1", got)
	}
}

// TestNew_Invalid covers every rejection path.
func TestNew_Invalid(t *testing.T) {
	cases := []struct {
		name     string
		values   [][]int
		want     error
		row, col int
	}{
		{"nil", nil, ErrEmptyGrid, -1, -1},
		{"empty row", [][]int{{}}, ErrEmptyGrid, -1, -1},
		{"ragged", [][]int{{1, 2}, {3}}, ErrNonRectangular, 1, -1},
		{"negative", [][]int{{1, 2}, {3, -4}}, ErrNegativeCost, 1, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.values)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v; want %v", err, tc.want)
			}
			var ve ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("err %T is not a ValidationError", err)
			}
			if ve.Row != tc.row || ve.Col != tc.col {
				t.Errorf("position = (%d,%d); want (%d,%d)", ve.Row, ve.Col, tc.row, tc.col)
			}
		})
	}
}

// TestParse_Digits checks the text ingestion path, including CRLF input
// and trailing blank lines.
func TestParse_Digits(t *testing.T) {
	g, err := Parse("241\r\n321\r\n\r\n\n")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	want := [][]int{{2, 4, 1}, {3, 2, 1}}
	if got := g.Values(); !reflect.DeepEqual(got, want) {
		t.Errorf("Values() = %v; want %v", got, want)
	}
	if g.String() != "241\n321\n" {
		t.Errorf("String() = %q", g.String())
	}
}

func TestParse_Rejects(t *testing.T) {
	if _, err := Parse("12\n1x\n"); !errors.Is(err, ErrNonDigit) {
		t.Errorf("non-digit: got %v; want ErrNonDigit", err)
	}
	if _, err := Parse("12\n\n34\n"); !errors.Is(err, ErrNonRectangular) {
		t.Errorf("inner blank line: got %v; want ErrNonRectangular", err)
	}
	if _, err := Parse("123\n45\n"); !errors.Is(err, ErrNonRectangular) {
		t.Errorf("ragged: got %v; want ErrNonRectangular", err)
	}
	if _, err := Parse("\n\n"); !errors.Is(err, ErrEmptyGrid) {
		t.Errorf("blank: got %v; want ErrEmptyGrid", err)
	}
}

// TestIndexCoordinate verifies the row-major mapping is a bijection.
func TestIndexCoordinate(t *testing.T) {
	g := MustParse("1234\n5678\n9012\n")
	seen := make(map[int]bool, g.Size())
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			idx := g.Index(r, c)
			if seen[idx] {
				t.Fatalf("index %d produced twice", idx)
			}
			seen[idx] = true
			if rr, cc := g.Coordinate(idx); rr != r || cc != c {
				t.Errorf("Coordinate(%d) = (%d,%d); want (%d,%d)", idx, rr, cc, r, c)
			}
		}
	}
	if !g.InBounds(2, 3) || g.InBounds(3, 0) || g.InBounds(0, -1) {
		t.Error("InBounds disagrees with the 3x4 shape")
	}
	if g.BottomRight() != (Cell{Row: 2, Col: 3}) {
		t.Errorf("BottomRight = %v", g.BottomRight())
	}
}

func TestDigest(t *testing.T) {
	a := MustParse("12\n34\n")
	b, _ := New([][]int{{1, 2}, {3, 4}})
	c := MustParse("1234\n")
	if a.Digest() != b.Digest() {
		t.Error("equal grids must share a digest")
	}
	if a.Digest() == c.Digest() {
		t.Error("different shapes must not share a digest")
	}
	if len(a.Digest()) != 64 || strings.ToLower(a.Digest()) != a.Digest() {
		t.Errorf("unexpected digest form %q", a.Digest())
	}
}
