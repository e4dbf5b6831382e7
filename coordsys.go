/*
Copyright © 2026 the GeoCRS authors.
This file is part of GeoCRS.

GeoCRS is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

GeoCRS is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with GeoCRS.  If not, see <http://www.gnu.org/licenses/>.
*/

package geocrs

import "fmt"

// AxisDirection is the direction of positive increase of a coordinate
// axis, from the ISO 19111 code list.
type AxisDirection string

const (
	DirNorth            AxisDirection = "north"
	DirSouth            AxisDirection = "south"
	DirEast             AxisDirection = "east"
	DirWest             AxisDirection = "west"
	DirUp               AxisDirection = "up"
	DirDown             AxisDirection = "down"
	DirGeocentricX      AxisDirection = "geocentricX"
	DirGeocentricY      AxisDirection = "geocentricY"
	DirGeocentricZ      AxisDirection = "geocentricZ"
	DirForward          AxisDirection = "forward"
	DirAft              AxisDirection = "aft"
	DirPort             AxisDirection = "port"
	DirStarboard        AxisDirection = "starboard"
	DirClockwise        AxisDirection = "clockwise"
	DirCounterClockwise AxisDirection = "counterClockwise"
	DirColumnPositive   AxisDirection = "columnPositive"
	DirColumnNegative   AxisDirection = "columnNegative"
	DirRowPositive      AxisDirection = "rowPositive"
	DirRowNegative      AxisDirection = "rowNegative"
	DirDisplayRight     AxisDirection = "displayRight"
	DirDisplayLeft      AxisDirection = "displayLeft"
	DirDisplayUp        AxisDirection = "displayUp"
	DirDisplayDown      AxisDirection = "displayDown"
	DirTowards          AxisDirection = "towards"
	DirAwayFrom         AxisDirection = "awayFrom"
	DirFuture           AxisDirection = "future"
	DirPast             AxisDirection = "past"
	DirUnspecified      AxisDirection = "unspecified"
)

// axisDirections is the register of valid directions, keyed by the
// canonical (lower-cased) spelling.
var axisDirections = func() map[string]AxisDirection {
	dirs := []AxisDirection{
		DirNorth, DirSouth, DirEast, DirWest, DirUp, DirDown,
		DirGeocentricX, DirGeocentricY, DirGeocentricZ,
		DirForward, DirAft, DirPort, DirStarboard,
		DirClockwise, DirCounterClockwise,
		DirColumnPositive, DirColumnNegative, DirRowPositive, DirRowNegative,
		DirDisplayRight, DirDisplayLeft, DirDisplayUp, DirDisplayDown,
		DirTowards, DirAwayFrom, DirFuture, DirPast, DirUnspecified,
	}
	m := make(map[string]AxisDirection, len(dirs))
	for _, d := range dirs {
		m[canonicalName(string(d))] = d
	}
	return m
}()

// ParseAxisDirection resolves a direction name case-insensitively.
func ParseAxisDirection(s string) (AxisDirection, bool) {
	d, ok := axisDirections[canonicalName(s)]
	return d, ok
}

// Opposite returns the reversed direction for the directions that have
// one, and the direction itself otherwise.
func (d AxisDirection) Opposite() AxisDirection {
	switch d {
	case DirNorth:
		return DirSouth
	case DirSouth:
		return DirNorth
	case DirEast:
		return DirWest
	case DirWest:
		return DirEast
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirFuture:
		return DirPast
	case DirPast:
		return DirFuture
	}
	return d
}

// A Meridian qualifies a north or south axis direction at the pole.
type Meridian struct {
	Longitude Measure
}

// A CoordinateSystemAxis is one axis of a coordinate system.
type CoordinateSystemAxis struct {
	IdentifiedObject
	Abbrev    string
	Direction AxisDirection
	Unit      UnitOfMeasure
	Min, Max  *float64
	Meridian  *Meridian
}

// IsEquivalentTo compares axes by direction and unit; under
// Strict, abbreviation and name as well.
func (a *CoordinateSystemAxis) IsEquivalentTo(o *CoordinateSystemAxis, c Criterion) bool {
	if o == nil {
		return false
	}
	if c == Strict && (a.Abbrev != o.Abbrev || !metadataEquivalent(&a.IdentifiedObject, &o.IdentifiedObject, c)) {
		return false
	}
	return a.Direction == o.Direction && a.Unit.Equivalent(o.Unit)
}

// Common axes.
func AxisLatitude(unit UnitOfMeasure) CoordinateSystemAxis {
	return CoordinateSystemAxis{IdentifiedObject: IdentifiedObject{Name: "Latitude"}, Abbrev: "lat", Direction: DirNorth, Unit: unit}
}

func AxisLongitude(unit UnitOfMeasure) CoordinateSystemAxis {
	return CoordinateSystemAxis{IdentifiedObject: IdentifiedObject{Name: "Longitude"}, Abbrev: "lon", Direction: DirEast, Unit: unit}
}

func AxisEllipsoidalHeight(unit UnitOfMeasure) CoordinateSystemAxis {
	return CoordinateSystemAxis{IdentifiedObject: IdentifiedObject{Name: "Ellipsoidal height"}, Abbrev: "h", Direction: DirUp, Unit: unit}
}

func AxisEasting(unit UnitOfMeasure) CoordinateSystemAxis {
	return CoordinateSystemAxis{IdentifiedObject: IdentifiedObject{Name: "Easting"}, Abbrev: "E", Direction: DirEast, Unit: unit}
}

func AxisNorthing(unit UnitOfMeasure) CoordinateSystemAxis {
	return CoordinateSystemAxis{IdentifiedObject: IdentifiedObject{Name: "Northing"}, Abbrev: "N", Direction: DirNorth, Unit: unit}
}

func AxisGravityHeight(unit UnitOfMeasure) CoordinateSystemAxis {
	return CoordinateSystemAxis{IdentifiedObject: IdentifiedObject{Name: "Gravity-related height"}, Abbrev: "H", Direction: DirUp, Unit: unit}
}

// CSKind tags the geometric family of a coordinate system.
type CSKind int

const (
	CSCartesian CSKind = iota
	CSEllipsoidal
	CSSpherical
	CSVertical
	CSTemporalDateTime
	CSTemporalCount
	CSTemporalMeasure
	CSOrdinal
	CSParametric
)

func (k CSKind) String() string {
	switch k {
	case CSCartesian:
		return "Cartesian"
	case CSEllipsoidal:
		return "ellipsoidal"
	case CSSpherical:
		return "spherical"
	case CSVertical:
		return "vertical"
	case CSTemporalDateTime:
		return "temporalDateTime"
	case CSTemporalCount:
		return "temporalCount"
	case CSTemporalMeasure:
		return "temporalMeasure"
	case CSOrdinal:
		return "ordinal"
	case CSParametric:
		return "parametric"
	}
	return "unknown"
}

// A CoordinateSystem is an ordered axis tuple with a kind tag.
type CoordinateSystem struct {
	IdentifiedObject
	Kind CSKind
	Axes []CoordinateSystemAxis
}

// NewCoordinateSystem validates the axis count and units against the
// kind and builds the coordinate system.
func NewCoordinateSystem(kind CSKind, axes []CoordinateSystemAxis) (*CoordinateSystem, error) {
	n := len(axes)
	kinds := make([]UnitKind, n)
	for i, a := range axes {
		kinds[i] = a.Unit.Kind
	}
	bad := func(what string) error {
		return fmt.Errorf("geocrs: invalid %v coordinate system: %s", kind, what)
	}
	switch kind {
	case CSCartesian:
		if n != 2 && n != 3 {
			return nil, bad("needs 2 or 3 axes")
		}
		for _, k := range kinds {
			if k != UnitKindLength {
				return nil, bad("all axes must be lengths")
			}
		}
	case CSEllipsoidal:
		if n != 2 && n != 3 {
			return nil, bad("needs 2 or 3 axes")
		}
		if kinds[0] != UnitKindAngle || kinds[1] != UnitKindAngle {
			return nil, bad("first two axes must be angular")
		}
		if n == 3 && kinds[2] != UnitKindLength {
			return nil, bad("third axis must be a length")
		}
	case CSSpherical:
		if n != 3 {
			return nil, bad("needs 3 axes")
		}
		angular := 0
		for _, k := range kinds {
			if k == UnitKindAngle {
				angular++
			}
		}
		if angular != 3 && !(angular == 2 && kinds[2] == UnitKindLength) {
			return nil, bad("needs two angular axes and a length, or three angular axes")
		}
	case CSVertical:
		if n != 1 || kinds[0] != UnitKindLength {
			return nil, bad("needs a single length axis")
		}
	case CSTemporalDateTime, CSTemporalCount, CSTemporalMeasure:
		if n != 1 {
			return nil, bad("needs a single axis")
		}
	case CSOrdinal, CSParametric:
		if n < 1 {
			return nil, bad("needs at least one axis")
		}
	default:
		return nil, bad("unknown kind")
	}
	return &CoordinateSystem{Kind: kind, Axes: axes}, nil
}

// IsEquivalentTo compares coordinate systems axis by axis. Under
// EquivalentIgnoringAxisOrder, a swap of the first two axes is
// tolerated.
func (cs *CoordinateSystem) IsEquivalentTo(o *CoordinateSystem, c Criterion) bool {
	if o == nil || cs.Kind != o.Kind || len(cs.Axes) != len(o.Axes) {
		return false
	}
	match := func(a, b []CoordinateSystemAxis) bool {
		for i := range a {
			if !a[i].IsEquivalentTo(&b[i], c) {
				return false
			}
		}
		return true
	}
	if match(cs.Axes, o.Axes) {
		return true
	}
	if c == EquivalentIgnoringAxisOrder && len(cs.Axes) >= 2 {
		swapped := make([]CoordinateSystemAxis, len(cs.Axes))
		copy(swapped, cs.Axes)
		swapped[0], swapped[1] = swapped[1], swapped[0]
		return match(swapped, o.Axes)
	}
	return false
}

// AxisOrder classifies the first axes of an ellipsoidal or projected
// coordinate system.
type AxisOrder int

const (
	AxisOrderOther AxisOrder = iota
	AxisOrderLatNorthLongEast
	AxisOrderLatNorthLongEastHeightUp
	AxisOrderLongEastLatNorth
	AxisOrderLongEastLatNorthHeightUp
)

// AxisOrder classifies the coordinate system's axis arrangement; used
// by the proj-string formatter to decide axis swaps.
func (cs *CoordinateSystem) AxisOrder() AxisOrder {
	a := cs.Axes
	switch len(a) {
	case 2:
		if a[0].Direction == DirNorth && a[1].Direction == DirEast {
			return AxisOrderLatNorthLongEast
		}
		if a[0].Direction == DirEast && a[1].Direction == DirNorth {
			return AxisOrderLongEastLatNorth
		}
	case 3:
		if a[2].Direction != DirUp {
			return AxisOrderOther
		}
		if a[0].Direction == DirNorth && a[1].Direction == DirEast {
			return AxisOrderLatNorthLongEastHeightUp
		}
		if a[0].Direction == DirEast && a[1].Direction == DirNorth {
			return AxisOrderLongEastLatNorthHeightUp
		}
	}
	return AxisOrderOther
}

// Named constructors for the common coordinate systems.

// NewEllipsoidalCS2D is latitude-longitude in degrees, EPSG:6422.
func NewEllipsoidalCS2D() *CoordinateSystem {
	cs, _ := NewCoordinateSystem(CSEllipsoidal, []CoordinateSystemAxis{AxisLatitude(Degree), AxisLongitude(Degree)})
	cs.Identifiers = []Identifier{{Authority: "EPSG", Codespace: "EPSG", Code: "6422"}}
	return cs
}

// NewEllipsoidalCS3D adds ellipsoidal height in metres, EPSG:6423.
func NewEllipsoidalCS3D() *CoordinateSystem {
	cs, _ := NewCoordinateSystem(CSEllipsoidal, []CoordinateSystemAxis{
		AxisLatitude(Degree), AxisLongitude(Degree), AxisEllipsoidalHeight(Metre)})
	cs.Identifiers = []Identifier{{Authority: "EPSG", Codespace: "EPSG", Code: "6423"}}
	return cs
}

// NewEllipsoidalCSLongLat is longitude-latitude, the proj-native
// order, in the given angular unit.
func NewEllipsoidalCSLongLat(unit UnitOfMeasure) *CoordinateSystem {
	cs, _ := NewCoordinateSystem(CSEllipsoidal, []CoordinateSystemAxis{AxisLongitude(unit), AxisLatitude(unit)})
	return cs
}

// NewEllipsoidalCS2DUnit is latitude-longitude in the given unit.
func NewEllipsoidalCS2DUnit(unit UnitOfMeasure) *CoordinateSystem {
	cs, _ := NewCoordinateSystem(CSEllipsoidal, []CoordinateSystemAxis{AxisLatitude(unit), AxisLongitude(unit)})
	return cs
}

// NewCartesianEastingNorthing is easting-northing in the given length
// unit, EPSG:4400 when metres.
func NewCartesianEastingNorthing(unit UnitOfMeasure) *CoordinateSystem {
	cs, _ := NewCoordinateSystem(CSCartesian, []CoordinateSystemAxis{AxisEasting(unit), AxisNorthing(unit)})
	if unit.Equivalent(Metre) {
		cs.Identifiers = []Identifier{{Authority: "EPSG", Codespace: "EPSG", Code: "4400"}}
	}
	return cs
}

// NewGeocentricCS is geocentric X-Y-Z in metres, EPSG:6500.
func NewGeocentricCS() *CoordinateSystem {
	x := CoordinateSystemAxis{IdentifiedObject: IdentifiedObject{Name: "Geocentric X"}, Abbrev: "X", Direction: DirGeocentricX, Unit: Metre}
	y := CoordinateSystemAxis{IdentifiedObject: IdentifiedObject{Name: "Geocentric Y"}, Abbrev: "Y", Direction: DirGeocentricY, Unit: Metre}
	z := CoordinateSystemAxis{IdentifiedObject: IdentifiedObject{Name: "Geocentric Z"}, Abbrev: "Z", Direction: DirGeocentricZ, Unit: Metre}
	cs, _ := NewCoordinateSystem(CSCartesian, []CoordinateSystemAxis{x, y, z})
	cs.Identifiers = []Identifier{{Authority: "EPSG", Codespace: "EPSG", Code: "6500"}}
	return cs
}

// NewGravityRelatedHeightCS is gravity-related height, up, in metres,
// EPSG:6499.
func NewGravityRelatedHeightCS() *CoordinateSystem {
	cs, _ := NewCoordinateSystem(CSVertical, []CoordinateSystemAxis{AxisGravityHeight(Metre)})
	cs.Identifiers = []Identifier{{Authority: "EPSG", Codespace: "EPSG", Code: "6499"}}
	return cs
}

// NewTemporalCS is a single time axis pointing to the future.
func NewTemporalCS(kind CSKind, unit UnitOfMeasure) *CoordinateSystem {
	a := CoordinateSystemAxis{IdentifiedObject: IdentifiedObject{Name: "Time"}, Abbrev: "T", Direction: DirFuture, Unit: unit}
	cs, _ := NewCoordinateSystem(kind, []CoordinateSystemAxis{a})
	return cs
}
