// Package units implements the fixed measurement-unit vocabulary used by
// inventory and menu ingredients, and conversion between compatible units.
//
// Units are grouped by base dimension: mass (grams), volume (millilitres),
// count (pieces), plus several packaging units that are each their own base
// and therefore never convertible to anything else.
package units

// Unit is one of the fixed measurement units accepted by inventory rows
// and ingredient links.
type Unit string

const (
	Kilogram   Unit = "kg"
	Gram       Unit = "g"
	Litre      Unit = "L"
	Millilitre Unit = "ml"
	Piece      Unit = "pcs"
	Dozen      Unit = "dozen"
	Each       Unit = "each"
	Box        Unit = "box"
	Bottle     Unit = "bottle"
	Jar        Unit = "jar"
	Can        Unit = "can"
	Pack       Unit = "pack"
)

type conversion struct {
	base   Unit
	factor float64
}

var conversions = map[Unit]conversion{
	// Mass
	Kilogram: {base: Gram, factor: 1000},
	Gram:     {base: Gram, factor: 1},
	// Volume
	Litre:      {base: Millilitre, factor: 1000},
	Millilitre: {base: Millilitre, factor: 1},
	// Count
	Dozen: {base: Piece, factor: 12},
	Piece: {base: Piece, factor: 1},
	Each:  {base: Piece, factor: 1},
	// Packaging units, each its own base
	Box:    {base: Box, factor: 1},
	Bottle: {base: Bottle, factor: 1},
	Jar:    {base: Jar, factor: 1},
	Can:    {base: Can, factor: 1},
	Pack:   {base: Pack, factor: 1},
}

// All lists every accepted unit, in display order.
var All = []Unit{
	Kilogram, Gram, Litre, Millilitre, Piece, Dozen, Each,
	Box, Bottle, Jar, Can, Pack,
}

// Valid reports whether u is one of the accepted units.
func Valid(u Unit) bool {
	_, ok := conversions[u]
	return ok
}

// Compatible reports whether two units share a base dimension and can be
// converted into each other.
func Compatible(from, to Unit) bool {
	fc, okFrom := conversions[from]
	tc, okTo := conversions[to]
	return okFrom && okTo && fc.base == tc.base
}

// Convert rescales value from one unit to another via the shared base
// dimension. Identical units short-circuit. When the units are unknown or
// do not share a base, the input value is returned unchanged and ok is
// false; callers decide whether that is a warning or an error.
func Convert(value float64, from, to Unit) (converted float64, ok bool) {
	if from == to {
		return value, true
	}
	fc, okFrom := conversions[from]
	tc, okTo := conversions[to]
	if !okFrom || !okTo || fc.base != tc.base {
		return value, false
	}
	return value * fc.factor / tc.factor, true
}
