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

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

// equivalenceTol is the tolerance, in SI units, used when comparing
// numeric values under the Equivalent criterion. It is absolute for
// magnitudes up to 1 and is scaled by the magnitude of the compared
// values above that, so it is not an absolute bound for large values
// such as axis lengths.
const equivalenceTol = 1e-10

// UnitKind classifies a unit of measure by the physical quantity it
// measures.
type UnitKind int

const (
	UnitKindNone UnitKind = iota
	UnitKindLength
	UnitKindAngle
	UnitKindScale
	UnitKindTime
	UnitKindParametric
)

func (k UnitKind) String() string {
	switch k {
	case UnitKindLength:
		return "length"
	case UnitKindAngle:
		return "angle"
	case UnitKindScale:
		return "scale"
	case UnitKindTime:
		return "time"
	case UnitKindParametric:
		return "parametric"
	default:
		return "none"
	}
}

// A UnitOfMeasure relates a named unit to the SI unit of its kind
// (metre for lengths, radian for angles, second for time, unity for
// scales).
type UnitOfMeasure struct {
	Name      string
	ToSI      float64 // multiplicative factor to the SI unit
	Kind      UnitKind
	Authority string
	Code      string
}

// Canonical units. Factors for the angular units are exact per the
// EPSG dataset.
var (
	Metre        = UnitOfMeasure{"metre", 1, UnitKindLength, "EPSG", "9001"}
	Kilometre    = UnitOfMeasure{"kilometre", 1000, UnitKindLength, "EPSG", "9036"}
	Foot         = UnitOfMeasure{"foot", 0.3048, UnitKindLength, "EPSG", "9002"}
	USSurveyFoot = UnitOfMeasure{"US survey foot", 0.304800609601219, UnitKindLength, "EPSG", "9003"}

	Radian      = UnitOfMeasure{"radian", 1, UnitKindAngle, "EPSG", "9101"}
	Degree      = UnitOfMeasure{"degree", math.Pi / 180, UnitKindAngle, "EPSG", "9122"}
	Grad        = UnitOfMeasure{"grad", math.Pi / 200, UnitKindAngle, "EPSG", "9105"}
	ArcSecond   = UnitOfMeasure{"arc-second", math.Pi / 180 / 3600, UnitKindAngle, "EPSG", "9104"}
	Microradian = UnitOfMeasure{"microradian", 1e-6, UnitKindAngle, "EPSG", "9109"}

	Unity           = UnitOfMeasure{"unity", 1, UnitKindScale, "EPSG", "9201"}
	PartsPerMillion = UnitOfMeasure{"parts per million", 1e-6, UnitKindScale, "EPSG", "9202"}

	Second = UnitOfMeasure{"second", 1, UnitKindTime, "EPSG", "1040"}
	Year   = UnitOfMeasure{"year", 31556925.445, UnitKindTime, "EPSG", "1029"}

	UnitNone = UnitOfMeasure{"", 1, UnitKindNone, "", ""}
)

// NewUnitOfMeasure creates a custom unit with the given conversion
// factor to the SI unit of its kind.
func NewUnitOfMeasure(name string, toSI float64, kind UnitKind) UnitOfMeasure {
	return UnitOfMeasure{Name: name, ToSI: toSI, Kind: kind}
}

// Equivalent reports whether two units measure the same kind of
// quantity with the same conversion factor, within tolerance. Names
// and authority codes are ignored.
func (u UnitOfMeasure) Equivalent(o UnitOfMeasure) bool {
	if u.Kind != o.Kind {
		return false
	}
	tol := equivalenceTol * math.Max(1, math.Abs(u.ToSI))
	return scalar.EqualWithinAbs(u.ToSI, o.ToSI, tol)
}

func (u UnitOfMeasure) String() string {
	if u.Name != "" {
		return u.Name
	}
	return fmt.Sprintf("%g·%s", u.ToSI, u.Kind)
}

// A Measure is a scalar quantity tagged with its unit.
type Measure struct {
	Val  float64
	Unit UnitOfMeasure
}

// Convenience constructors for the common unit choices.
func Metres(v float64) Measure   { return Measure{v, Metre} }
func Degrees(v float64) Measure  { return Measure{v, Degree} }
func Radians(v float64) Measure  { return Measure{v, Radian} }
func Grads(v float64) Measure    { return Measure{v, Grad} }
func ScaleOf(v float64) Measure  { return Measure{v, Unity} }
func Years(v float64) Measure    { return Measure{v, Year} }
func Seconds(v float64) Measure  { return Measure{v, Second} }
func ArcSecs(v float64) Measure  { return Measure{v, ArcSecond} }
func Unitless(v float64) Measure { return Measure{v, UnitNone} }

// SI returns the value converted to the SI unit of the measure's kind
// (radians for angles, metres for lengths).
func (m Measure) SI() float64 { return m.Val * m.Unit.ToSI }

// Convert re-expresses the measure in another unit of the same kind.
func (m Measure) Convert(to UnitOfMeasure) (Measure, error) {
	if m.Unit.Kind != to.Kind {
		return Measure{}, fmt.Errorf("geocrs: cannot convert %s to %s", m.Unit.Kind, to.Kind)
	}
	return Measure{Val: m.SI() / to.ToSI, Unit: to}, nil
}

// Add returns the sum of two measures of the same kind, expressed in
// the receiver's unit.
func (m Measure) Add(o Measure) (Measure, error) {
	if m.Unit.Kind != o.Unit.Kind {
		return Measure{}, fmt.Errorf("geocrs: cannot add %s to %s", o.Unit.Kind, m.Unit.Kind)
	}
	return Measure{Val: (m.SI() + o.SI()) / m.Unit.ToSI, Unit: m.Unit}, nil
}

// Neg returns the measure with its value negated.
func (m Measure) Neg() Measure { return Measure{Val: -m.Val, Unit: m.Unit} }

// Equivalent reports whether two measures represent the same quantity
// within the package tolerance, after conversion to SI. The tolerance
// scales with the magnitude so that metre-scale quantities such as
// derived ellipsoid axes compare sensibly.
func (m Measure) Equivalent(o Measure) bool {
	if m.Unit.Kind != o.Unit.Kind {
		return false
	}
	a, b := m.SI(), o.SI()
	tol := equivalenceTol * math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	return scalar.EqualWithinAbs(a, b, tol)
}

func (m Measure) String() string {
	if m.Unit.Name == "" {
		return fmt.Sprintf("%g", m.Val)
	}
	return fmt.Sprintf("%g %s", m.Val, m.Unit.Name)
}
