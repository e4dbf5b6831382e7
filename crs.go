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

// A CRS is a coordinate reference system: a coordinate system paired
// with a datum, a datum ensemble, or a base CRS plus a deriving
// conversion. Concrete types: GeodeticCRS, GeographicCRS,
// ProjectedCRS, VerticalCRS, TemporalCRS, EngineeringCRS,
// ParametricCRS, DerivedCRS, CompoundCRS, BoundCRS.
type CRS interface {
	Object() *IdentifiedObject
	// BaseCRS returns the base of a derived, projected, or bound CRS,
	// and nil for atomic CRSs.
	BaseCRS() CRS
	// DatumOrEnsemble returns the CRS's datum, and nil for compound
	// and bound CRSs.
	DatumOrEnsemble() Datum
	// CoordinateSystem returns nil for compound and bound CRSs.
	CoordinateSystem() *CoordinateSystem
	IsEquivalentTo(o CRS, c Criterion) bool
}

// A GeodeticCRS pairs a geodetic reference frame with a geocentric
// Cartesian or spherical coordinate system.
type GeodeticCRS struct {
	IdentifiedObject
	Datum Datum
	CS    *CoordinateSystem
}

// NewGeocentricCRS builds a geodetic CRS over a 3-axis Cartesian
// coordinate system or a spherical one.
func NewGeocentricCRS(obj IdentifiedObject, datum Datum, cs *CoordinateSystem) (*GeodeticCRS, error) {
	if geodeticFrameOf(datum) == nil {
		return nil, fmt.Errorf("geocrs: geodetic CRS %q: datum is not geodetic", obj.Name)
	}
	if cs.Kind != CSCartesian && cs.Kind != CSSpherical {
		return nil, fmt.Errorf("geocrs: geodetic CRS %q: coordinate system must be Cartesian or spherical, got %v", obj.Name, cs.Kind)
	}
	if cs.Kind == CSCartesian && len(cs.Axes) != 3 {
		return nil, fmt.Errorf("geocrs: geodetic CRS %q: geocentric coordinate system needs 3 axes", obj.Name)
	}
	return &GeodeticCRS{IdentifiedObject: obj, Datum: datum, CS: cs}, nil
}

func (c *GeodeticCRS) BaseCRS() CRS                        { return nil }
func (c *GeodeticCRS) DatumOrEnsemble() Datum              { return c.Datum }
func (c *GeodeticCRS) CoordinateSystem() *CoordinateSystem { return c.CS }

// Ellipsoid returns the datum's ellipsoid.
func (c *GeodeticCRS) Ellipsoid() *Ellipsoid {
	if f := geodeticFrameOf(c.Datum); f != nil {
		return f.Ellipsoid
	}
	return nil
}

// PrimeMeridian returns the datum's prime meridian.
func (c *GeodeticCRS) PrimeMeridian() *PrimeMeridian {
	if f := geodeticFrameOf(c.Datum); f != nil {
		return f.PrimeMeridian
	}
	return nil
}

func (c *GeodeticCRS) IsEquivalentTo(o CRS, crit Criterion) bool {
	var od *GeodeticCRS
	switch oo := o.(type) {
	case *GeodeticCRS:
		od = oo
	case *GeographicCRS:
		od = &oo.GeodeticCRS
	default:
		return false
	}
	return metadataEquivalent(&c.IdentifiedObject, &od.IdentifiedObject, crit) &&
		c.Datum.IsEquivalentTo(od.Datum, crit) &&
		c.CS.IsEquivalentTo(od.CS, crit)
}

// A GeographicCRS is a geodetic CRS whose coordinate system is
// ellipsoidal.
type GeographicCRS struct {
	GeodeticCRS
}

// NewGeographicCRS builds a geographic CRS.
func NewGeographicCRS(obj IdentifiedObject, datum Datum, cs *CoordinateSystem) (*GeographicCRS, error) {
	if geodeticFrameOf(datum) == nil {
		return nil, fmt.Errorf("geocrs: geographic CRS %q: datum is not geodetic", obj.Name)
	}
	if cs.Kind != CSEllipsoidal {
		return nil, fmt.Errorf("geocrs: geographic CRS %q: coordinate system must be ellipsoidal, got %v", obj.Name, cs.Kind)
	}
	return &GeographicCRS{GeodeticCRS{IdentifiedObject: obj, Datum: datum, CS: cs}}, nil
}

// Is3D reports whether the CRS carries an ellipsoidal height axis.
func (c *GeographicCRS) Is3D() bool { return len(c.CS.Axes) == 3 }

func (c *GeographicCRS) IsEquivalentTo(o CRS, crit Criterion) bool {
	switch oo := o.(type) {
	case *GeographicCRS:
		return c.GeodeticCRS.IsEquivalentTo(&oo.GeodeticCRS, crit)
	case *GeodeticCRS:
		return c.GeodeticCRS.IsEquivalentTo(oo, crit)
	}
	return false
}

// A ProjectedCRS derives plane coordinates from a geographic base CRS
// through a map-projection conversion.
type ProjectedCRS struct {
	IdentifiedObject
	Base       *GeographicCRS
	Conversion *Conversion
	CS         *CoordinateSystem
}

// NewProjectedCRS validates and builds a projected CRS.
func NewProjectedCRS(obj IdentifiedObject, base *GeographicCRS, conv *Conversion, cs *CoordinateSystem) (*ProjectedCRS, error) {
	if base == nil {
		return nil, fmt.Errorf("geocrs: projected CRS %q: missing base CRS", obj.Name)
	}
	if conv == nil || conv.Method == nil {
		return nil, fmt.Errorf("geocrs: projected CRS %q: missing deriving conversion", obj.Name)
	}
	if cs.Kind != CSCartesian {
		return nil, fmt.Errorf("geocrs: projected CRS %q: coordinate system must be Cartesian, got %v", obj.Name, cs.Kind)
	}
	return &ProjectedCRS{IdentifiedObject: obj, Base: base, Conversion: conv, CS: cs}, nil
}

func (c *ProjectedCRS) BaseCRS() CRS                        { return c.Base }
func (c *ProjectedCRS) DatumOrEnsemble() Datum              { return c.Base.Datum }
func (c *ProjectedCRS) CoordinateSystem() *CoordinateSystem { return c.CS }

func (c *ProjectedCRS) IsEquivalentTo(o CRS, crit Criterion) bool {
	od, ok := o.(*ProjectedCRS)
	if !ok {
		return false
	}
	return metadataEquivalent(&c.IdentifiedObject, &od.IdentifiedObject, crit) &&
		c.Base.IsEquivalentTo(od.Base, loosened(crit)) &&
		c.Conversion.isEquivalentTo(od.Conversion, crit) &&
		c.CS.IsEquivalentTo(od.CS, crit)
}

// loosened relaxes base-CRS comparison inside a projected CRS: the
// base's own axis order does not affect the projected coordinates.
func loosened(c Criterion) Criterion {
	if c == Equivalent {
		return EquivalentIgnoringAxisOrder
	}
	return c
}

// A VerticalCRS pairs a vertical reference frame with a single-axis
// vertical coordinate system.
type VerticalCRS struct {
	IdentifiedObject
	Datum Datum
	CS    *CoordinateSystem
}

// NewVerticalCRS validates and builds a vertical CRS.
func NewVerticalCRS(obj IdentifiedObject, datum Datum, cs *CoordinateSystem) (*VerticalCRS, error) {
	switch datum.(type) {
	case *VerticalReferenceFrame, *DynamicVerticalReferenceFrame, *DatumEnsemble:
	default:
		return nil, fmt.Errorf("geocrs: vertical CRS %q: datum is not vertical", obj.Name)
	}
	if cs.Kind != CSVertical {
		return nil, fmt.Errorf("geocrs: vertical CRS %q: coordinate system must be vertical, got %v", obj.Name, cs.Kind)
	}
	return &VerticalCRS{IdentifiedObject: obj, Datum: datum, CS: cs}, nil
}

func (c *VerticalCRS) BaseCRS() CRS                        { return nil }
func (c *VerticalCRS) DatumOrEnsemble() Datum              { return c.Datum }
func (c *VerticalCRS) CoordinateSystem() *CoordinateSystem { return c.CS }

func (c *VerticalCRS) IsEquivalentTo(o CRS, crit Criterion) bool {
	od, ok := o.(*VerticalCRS)
	return ok && metadataEquivalent(&c.IdentifiedObject, &od.IdentifiedObject, crit) &&
		c.Datum.IsEquivalentTo(od.Datum, crit) && c.CS.IsEquivalentTo(od.CS, crit)
}

// A TemporalCRS pairs a temporal datum with a single time axis.
type TemporalCRS struct {
	IdentifiedObject
	Datum *TemporalDatum
	CS    *CoordinateSystem
}

func (c *TemporalCRS) BaseCRS() CRS                        { return nil }
func (c *TemporalCRS) DatumOrEnsemble() Datum              { return c.Datum }
func (c *TemporalCRS) CoordinateSystem() *CoordinateSystem { return c.CS }

func (c *TemporalCRS) IsEquivalentTo(o CRS, crit Criterion) bool {
	od, ok := o.(*TemporalCRS)
	return ok && metadataEquivalent(&c.IdentifiedObject, &od.IdentifiedObject, crit) &&
		c.Datum.IsEquivalentTo(od.Datum, crit) && c.CS.IsEquivalentTo(od.CS, crit)
}

// An EngineeringCRS is anchored to a local engineering datum.
type EngineeringCRS struct {
	IdentifiedObject
	Datum *EngineeringDatum
	CS    *CoordinateSystem
}

func (c *EngineeringCRS) BaseCRS() CRS                        { return nil }
func (c *EngineeringCRS) DatumOrEnsemble() Datum              { return c.Datum }
func (c *EngineeringCRS) CoordinateSystem() *CoordinateSystem { return c.CS }

func (c *EngineeringCRS) IsEquivalentTo(o CRS, crit Criterion) bool {
	od, ok := o.(*EngineeringCRS)
	return ok && metadataEquivalent(&c.IdentifiedObject, &od.IdentifiedObject, crit) &&
		c.Datum.IsEquivalentTo(od.Datum, crit) && c.CS.IsEquivalentTo(od.CS, crit)
}

// A ParametricCRS pairs a parametric datum with a parametric axis.
type ParametricCRS struct {
	IdentifiedObject
	Datum *ParametricDatum
	CS    *CoordinateSystem
}

func (c *ParametricCRS) BaseCRS() CRS                        { return nil }
func (c *ParametricCRS) DatumOrEnsemble() Datum              { return c.Datum }
func (c *ParametricCRS) CoordinateSystem() *CoordinateSystem { return c.CS }

func (c *ParametricCRS) IsEquivalentTo(o CRS, crit Criterion) bool {
	od, ok := o.(*ParametricCRS)
	return ok && metadataEquivalent(&c.IdentifiedObject, &od.IdentifiedObject, crit) &&
		c.Datum.IsEquivalentTo(od.Datum, crit) && c.CS.IsEquivalentTo(od.CS, crit)
}

// A DerivedCRS generalizes ProjectedCRS to non-geographic bases.
type DerivedCRS struct {
	IdentifiedObject
	Base       CRS
	Conversion *Conversion
	CS         *CoordinateSystem
}

// NewDerivedCRS validates and builds a derived CRS.
func NewDerivedCRS(obj IdentifiedObject, base CRS, conv *Conversion, cs *CoordinateSystem) (*DerivedCRS, error) {
	if base == nil {
		return nil, fmt.Errorf("geocrs: derived CRS %q: missing base CRS", obj.Name)
	}
	if conv == nil || conv.Method == nil {
		return nil, fmt.Errorf("geocrs: derived CRS %q: missing deriving conversion", obj.Name)
	}
	return &DerivedCRS{IdentifiedObject: obj, Base: base, Conversion: conv, CS: cs}, nil
}

func (c *DerivedCRS) BaseCRS() CRS                        { return c.Base }
func (c *DerivedCRS) DatumOrEnsemble() Datum              { return c.Base.DatumOrEnsemble() }
func (c *DerivedCRS) CoordinateSystem() *CoordinateSystem { return c.CS }

func (c *DerivedCRS) IsEquivalentTo(o CRS, crit Criterion) bool {
	od, ok := o.(*DerivedCRS)
	return ok && metadataEquivalent(&c.IdentifiedObject, &od.IdentifiedObject, crit) &&
		c.Base.IsEquivalentTo(od.Base, crit) &&
		c.Conversion.isEquivalentTo(od.Conversion, crit) &&
		c.CS.IsEquivalentTo(od.CS, crit)
}

// A CompoundCRS stacks a horizontal CRS with vertical, parametric, or
// temporal components.
type CompoundCRS struct {
	IdentifiedObject
	Components []CRS
}

// NewCompoundCRS enforces the component ordering invariant: a
// horizontal first component, then vertical, parametric, or temporal
// components, none of the horizontal or vertical ones repeated.
func NewCompoundCRS(obj IdentifiedObject, components []CRS) (*CompoundCRS, error) {
	if len(components) < 2 {
		return nil, fmt.Errorf("geocrs: compound CRS %q: needs at least two components", obj.Name)
	}
	if !isHorizontal(components[0]) {
		return nil, fmt.Errorf("geocrs: compound CRS %q: first component must be horizontal", obj.Name)
	}
	seenVertical := false
	for _, comp := range components[1:] {
		switch cc := comp.(type) {
		case *VerticalCRS:
			if seenVertical {
				return nil, fmt.Errorf("geocrs: compound CRS %q: more than one vertical component", obj.Name)
			}
			seenVertical = true
		case *ParametricCRS, *TemporalCRS:
		case *BoundCRS:
			if _, ok := cc.Base.(*VerticalCRS); ok {
				if seenVertical {
					return nil, fmt.Errorf("geocrs: compound CRS %q: more than one vertical component", obj.Name)
				}
				seenVertical = true
			} else {
				return nil, fmt.Errorf("geocrs: compound CRS %q: component %q must be vertical, parametric, or temporal", obj.Name, comp.Object().Name)
			}
		default:
			return nil, fmt.Errorf("geocrs: compound CRS %q: component %q must be vertical, parametric, or temporal", obj.Name, comp.Object().Name)
		}
	}
	return &CompoundCRS{IdentifiedObject: obj, Components: components}, nil
}

func isHorizontal(c CRS) bool {
	switch cc := c.(type) {
	case *GeographicCRS:
		return !cc.Is3D()
	case *ProjectedCRS:
		return true
	case *EngineeringCRS:
		return len(cc.CS.Axes) == 2
	case *BoundCRS:
		return isHorizontal(cc.Base)
	}
	return false
}

func (c *CompoundCRS) BaseCRS() CRS                        { return nil }
func (c *CompoundCRS) DatumOrEnsemble() Datum              { return nil }
func (c *CompoundCRS) CoordinateSystem() *CoordinateSystem { return nil }

func (c *CompoundCRS) IsEquivalentTo(o CRS, crit Criterion) bool {
	od, ok := o.(*CompoundCRS)
	if !ok || len(c.Components) != len(od.Components) ||
		!metadataEquivalent(&c.IdentifiedObject, &od.IdentifiedObject, crit) {
		return false
	}
	for i := range c.Components {
		if !c.Components[i].IsEquivalentTo(od.Components[i], crit) {
			return false
		}
	}
	return true
}

// A BoundCRS wraps a CRS with a preferred transformation to a hub CRS
// (typically WGS 84). It introduces no datum of its own.
type BoundCRS struct {
	Base           CRS
	Hub            CRS
	Transformation *Transformation
}

// NewBoundCRS builds a bound CRS, flattening nested wrappers: binding
// an already-bound CRS replaces the inner binding.
func NewBoundCRS(base CRS, hub CRS, t *Transformation) (*BoundCRS, error) {
	if base == nil || hub == nil || t == nil {
		return nil, fmt.Errorf("geocrs: bound CRS: base, hub, and transformation are all required")
	}
	if inner, ok := base.(*BoundCRS); ok {
		base = inner.Base
	}
	return &BoundCRS{Base: base, Hub: hub, Transformation: t}, nil
}

func (c *BoundCRS) Object() *IdentifiedObject              { return c.Base.Object() }
func (c *BoundCRS) BaseCRS() CRS                           { return c.Base }
func (c *BoundCRS) DatumOrEnsemble() Datum                 { return nil }
func (c *BoundCRS) CoordinateSystem() *CoordinateSystem    { return nil }

func (c *BoundCRS) IsEquivalentTo(o CRS, crit Criterion) bool {
	od, ok := o.(*BoundCRS)
	if !ok {
		return false
	}
	return c.Base.IsEquivalentTo(od.Base, crit) &&
		c.Hub.IsEquivalentTo(od.Hub, crit) &&
		c.Transformation.isSameTransformation(od.Transformation, crit)
}

// ExtractGeographicCRS walks a CRS composition and returns the
// geographic CRS it is ultimately built on, or nil.
func ExtractGeographicCRS(c CRS) *GeographicCRS {
	switch cc := c.(type) {
	case *GeographicCRS:
		return cc
	case *ProjectedCRS:
		return cc.Base
	case *BoundCRS:
		return ExtractGeographicCRS(cc.Base)
	case *DerivedCRS:
		return ExtractGeographicCRS(cc.Base)
	case *CompoundCRS:
		for _, comp := range cc.Components {
			if g := ExtractGeographicCRS(comp); g != nil {
				return g
			}
		}
	}
	return nil
}

// ExtractVerticalCRS walks a CRS composition and returns its vertical
// component, or nil.
func ExtractVerticalCRS(c CRS) *VerticalCRS {
	switch cc := c.(type) {
	case *VerticalCRS:
		return cc
	case *BoundCRS:
		return ExtractVerticalCRS(cc.Base)
	case *CompoundCRS:
		for _, comp := range cc.Components {
			if v := ExtractVerticalCRS(comp); v != nil {
				return v
			}
		}
	}
	return nil
}
