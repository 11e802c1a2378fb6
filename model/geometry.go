package model

import (
	"encoding/json"
	"fmt"
	"math"
)

// BBox represents an axis-aligned bounding rectangle in page-coordinate
// units, stored in corner form. Y grows downward (top of page is Y=0),
// matching the coordinate system of the span sources.
//
// BBox marshals to a JSON array of exactly four numbers [x0, y0, x1, y1],
// never an object. This is part of the output contract.
type BBox struct {
	X0 float64
	Y0 float64
	X1 float64
	Y1 float64
}

// NewBBox creates a bounding box from corner coordinates.
func NewBBox(x0, y0, x1, y1 float64) BBox {
	return BBox{X0: x0, Y0: y0, X1: x1, Y1: y1}
}

// Width returns the horizontal extent of the box.
func (b BBox) Width() float64 {
	return b.X1 - b.X0
}

// Height returns the vertical extent of the box.
func (b BBox) Height() float64 {
	return b.Y1 - b.Y0
}

// Area returns the area of the bounding box.
func (b BBox) Area() float64 {
	return b.Width() * b.Height()
}

// Union returns the smallest box containing both b and other.
func (b BBox) Union(other BBox) BBox {
	return BBox{
		X0: math.Min(b.X0, other.X0),
		Y0: math.Min(b.Y0, other.Y0),
		X1: math.Max(b.X1, other.X1),
		Y1: math.Max(b.Y1, other.Y1),
	}
}

// Intersects checks if two bounding boxes overlap.
func (b BBox) Intersects(other BBox) bool {
	return !(b.X1 < other.X0 || b.X0 > other.X1 ||
		b.Y1 < other.Y0 || b.Y0 > other.Y1)
}

// Contains checks if the point (x, y) lies inside the box.
func (b BBox) Contains(x, y float64) bool {
	return x >= b.X0 && x <= b.X1 && y >= b.Y0 && y <= b.Y1
}

// IsDegenerate returns true if the box has negative width or height.
// Degenerate boxes violate the output contract.
func (b BBox) IsDegenerate() bool {
	return b.Width() < 0 || b.Height() < 0
}

// Round returns the box with all coordinates rounded to two decimal places,
// the precision used for serialized output.
func (b BBox) Round() BBox {
	return BBox{
		X0: round2(b.X0),
		Y0: round2(b.Y0),
		X1: round2(b.X1),
		Y1: round2(b.Y1),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// MarshalJSON encodes the box as [x0, y0, x1, y1].
func (b BBox) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]float64{b.X0, b.Y0, b.X1, b.Y1})
}

// UnmarshalJSON decodes a 4-element numeric array. Anything else (including
// an object-shaped bbox) is an error.
func (b *BBox) UnmarshalJSON(data []byte) error {
	var arr []float64
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("bbox must be an array [x0,y0,x1,y1]: %w", err)
	}
	if len(arr) != 4 {
		return fmt.Errorf("bbox must have exactly 4 elements, got %d", len(arr))
	}
	b.X0, b.Y0, b.X1, b.Y1 = arr[0], arr[1], arr[2], arr[3]
	return nil
}
