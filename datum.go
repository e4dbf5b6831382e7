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
)

// ellipsoidForm records which defining parameter accompanies the
// semi-major axis. Semi-minor and inverse flattening are never stored
// together; whichever was not given is derived on demand.
type ellipsoidForm int

const (
	formInverseFlattening ellipsoidForm = iota
	formSemiMinor
	formSphere
)

// An Ellipsoid is a biaxial ellipsoid of revolution defined by its
// semi-major axis and one of: inverse flattening, semi-minor axis, or
// nothing (sphere).
type Ellipsoid struct {
	IdentifiedObject
	SemiMajor Measure

	form      ellipsoidForm
	formValue Measure // inverse flattening (scale) or semi-minor (length)
}

// NewFlattenedEllipsoid creates an ellipsoid from its semi-major axis
// and inverse flattening. An inverse flattening of zero denotes a
// sphere; values in (0, 1] are impossible and rejected.
func NewFlattenedEllipsoid(obj IdentifiedObject, semiMajor Measure, invFlattening float64) (*Ellipsoid, error) {
	if semiMajor.SI() <= 0 {
		return nil, fmt.Errorf("geocrs: ellipsoid %q: semi-major axis %v must be positive", obj.Name, semiMajor)
	}
	if invFlattening == 0 {
		return &Ellipsoid{IdentifiedObject: obj, SemiMajor: semiMajor, form: formSphere}, nil
	}
	if invFlattening <= 1 {
		return nil, fmt.Errorf("geocrs: ellipsoid %q: invalid inverse flattening %v", obj.Name, invFlattening)
	}
	return &Ellipsoid{
		IdentifiedObject: obj,
		SemiMajor:        semiMajor,
		form:             formInverseFlattening,
		formValue:        ScaleOf(invFlattening),
	}, nil
}

// NewEllipsoidFromSemiMinor creates an ellipsoid from its two axes.
func NewEllipsoidFromSemiMinor(obj IdentifiedObject, semiMajor, semiMinor Measure) (*Ellipsoid, error) {
	if semiMajor.SI() <= 0 {
		return nil, fmt.Errorf("geocrs: ellipsoid %q: semi-major axis %v must be positive", obj.Name, semiMajor)
	}
	if semiMinor.SI() <= 0 || semiMinor.SI() > semiMajor.SI() {
		return nil, fmt.Errorf("geocrs: ellipsoid %q: semi-minor axis %v out of range", obj.Name, semiMinor)
	}
	return &Ellipsoid{IdentifiedObject: obj, SemiMajor: semiMajor, form: formSemiMinor, formValue: semiMinor}, nil
}

// NewSphere creates a sphere of the given radius.
func NewSphere(obj IdentifiedObject, radius Measure) (*Ellipsoid, error) {
	if radius.SI() <= 0 {
		return nil, fmt.Errorf("geocrs: sphere %q: radius %v must be positive", obj.Name, radius)
	}
	return &Ellipsoid{IdentifiedObject: obj, SemiMajor: radius, form: formSphere}, nil
}

// IsSphere reports whether the ellipsoid degenerates to a sphere.
func (e *Ellipsoid) IsSphere() bool {
	switch e.form {
	case formSphere:
		return true
	case formSemiMinor:
		return e.formValue.SI() == e.SemiMajor.SI()
	}
	return false
}

// SemiMinor returns the semi-minor axis, derived when the ellipsoid
// was defined by inverse flattening.
func (e *Ellipsoid) SemiMinor() Measure {
	switch e.form {
	case formSemiMinor:
		return e.formValue
	case formSphere:
		return e.SemiMajor
	default:
		return Measure{Val: e.SemiMajor.Val * (1 - 1/e.formValue.SI()), Unit: e.SemiMajor.Unit}
	}
}

// InverseFlattening returns 1/f, derived when the ellipsoid was
// defined by its semi-minor axis. The spherical case returns +Inf;
// the WKT formatter writes it as 0 per the standard.
func (e *Ellipsoid) InverseFlattening() float64 {
	switch e.form {
	case formInverseFlattening:
		return e.formValue.SI()
	case formSphere:
		return math.Inf(1)
	default:
		f := 1 - e.formValue.SI()/e.SemiMajor.SI()
		if f == 0 {
			return math.Inf(1)
		}
		return 1 / f
	}
}

// SquaredEccentricity returns e² = f(2−f).
func (e *Ellipsoid) SquaredEccentricity() float64 {
	if e.IsSphere() {
		return 0
	}
	f := 1 / e.InverseFlattening()
	return f * (2 - f)
}

// IsEquivalentTo compares two ellipsoids: same semi-major axis and
// same shape within tolerance. The shape is checked through both the
// semi-minor axis and the inverse flattening; at axis-length scale the
// semi-minor tolerance alone does not separate WGS 84 from GRS 1980.
func (e *Ellipsoid) IsEquivalentTo(o *Ellipsoid, c Criterion) bool {
	if o == nil {
		return false
	}
	if !metadataEquivalent(&e.IdentifiedObject, &o.IdentifiedObject, c) {
		return false
	}
	if !e.SemiMajor.Equivalent(o.SemiMajor) {
		return false
	}
	if !e.SemiMinor().Equivalent(o.SemiMinor()) {
		return false
	}
	rfE, rfO := e.InverseFlattening(), o.InverseFlattening()
	if math.IsInf(rfE, 1) || math.IsInf(rfO, 1) {
		return math.IsInf(rfE, 1) && math.IsInf(rfO, 1)
	}
	return ScaleOf(rfE).Equivalent(ScaleOf(rfO))
}

// projEllpsNames maps well-known ellipsoids, keyed by EPSG code, to
// the identifiers the proj-string surface uses.
var projEllpsNames = map[string]string{
	"7030": "WGS84",
	"7019": "GRS80",
	"7011": "clrk80ign",
	"7022": "intl",
	"7008": "clrk66",
	"7024": "krass",
	"7004": "bessel",
	"7043": "WGS72",
}

// Canonical ellipsoids.
var (
	EllipsoidWGS84, _         = NewFlattenedEllipsoid(namedObject("WGS 84", "7030"), Metres(6378137), 298.257223563)
	EllipsoidGRS80, _         = NewFlattenedEllipsoid(namedObject("GRS 1980", "7019"), Metres(6378137), 298.257222101)
	EllipsoidClarke1880IGN, _ = NewEllipsoidFromSemiMinor(namedObject("Clarke 1880 (IGN)", "7011"), Metres(6378249.2), Metres(6356515))
	EllipsoidClarke1866, _    = NewEllipsoidFromSemiMinor(namedObject("Clarke 1866", "7008"), Metres(6378206.4), Metres(6356583.8))
	EllipsoidIntl1924, _      = NewFlattenedEllipsoid(namedObject("International 1924", "7022"), Metres(6378388), 297)
	EllipsoidKrassowsky, _    = NewFlattenedEllipsoid(namedObject("Krassowsky 1940", "7024"), Metres(6378245), 298.3)
	EllipsoidBessel, _        = NewFlattenedEllipsoid(namedObject("Bessel 1841", "7004"), Metres(6377397.155), 299.1528128)
	EllipsoidWGS72, _         = NewFlattenedEllipsoid(namedObject("WGS 72", "7043"), Metres(6378135), 298.26)
	EllipsoidGRS67, _         = NewFlattenedEllipsoid(namedObject("GRS 1967", "7036"), Metres(6378160), 298.247167427)
)

// A PrimeMeridian is the zero of longitude of a geodetic datum,
// expressed as an angular offset from Greenwich.
type PrimeMeridian struct {
	IdentifiedObject
	Longitude Measure
}

// NewPrimeMeridian validates and builds a prime meridian.
func NewPrimeMeridian(obj IdentifiedObject, longitude Measure) (*PrimeMeridian, error) {
	if longitude.Unit.Kind != UnitKindAngle {
		return nil, fmt.Errorf("geocrs: prime meridian %q: longitude %v is not an angle", obj.Name, longitude)
	}
	return &PrimeMeridian{IdentifiedObject: obj, Longitude: longitude}, nil
}

// IsEquivalentTo compares two prime meridians by longitude.
func (pm *PrimeMeridian) IsEquivalentTo(o *PrimeMeridian, c Criterion) bool {
	if o == nil {
		return false
	}
	return metadataEquivalent(&pm.IdentifiedObject, &o.IdentifiedObject, c) &&
		pm.Longitude.Equivalent(o.Longitude)
}

// Canonical prime meridians. Paris is defined in grads per the EPSG
// dataset.
var (
	Greenwich = &PrimeMeridian{IdentifiedObject: namedObject("Greenwich", "8901"), Longitude: Degrees(0)}
	Paris     = &PrimeMeridian{IdentifiedObject: namedObject("Paris", "8903"), Longitude: Grads(2.5969213)}
)

// projPMNames maps prime-meridian EPSG codes to proj-string names.
var projPMNames = map[string]string{
	"8903": "paris",
	"8907": "bern",
	"8904": "bogota",
	"8902": "lisbon",
	"8905": "madrid",
	"8906": "rome",
	"8908": "jakarta",
	"8909": "ferro",
	"8910": "brussels",
	"8911": "stockholm",
	"8912": "athens",
	"8913": "oslo",
}

// A Datum anchors a coordinate reference system to the body it
// describes. Concrete types: GeodeticReferenceFrame,
// VerticalReferenceFrame, TemporalDatum, EngineeringDatum,
// ParametricDatum, and DatumEnsemble.
type Datum interface {
	Object() *IdentifiedObject
	IsEquivalentTo(o Datum, c Criterion) bool
}

// A GeodeticReferenceFrame ties an ellipsoid and prime meridian to the
// Earth.
type GeodeticReferenceFrame struct {
	IdentifiedObject
	Ellipsoid     *Ellipsoid
	PrimeMeridian *PrimeMeridian
	Anchor        string
}

// NewGeodeticReferenceFrame validates and builds a geodetic frame.
func NewGeodeticReferenceFrame(obj IdentifiedObject, ellps *Ellipsoid, pm *PrimeMeridian, anchor string) (*GeodeticReferenceFrame, error) {
	if ellps == nil {
		return nil, fmt.Errorf("geocrs: datum %q: missing ellipsoid", obj.Name)
	}
	if pm == nil {
		pm = Greenwich
	}
	return &GeodeticReferenceFrame{IdentifiedObject: obj, Ellipsoid: ellps, PrimeMeridian: pm, Anchor: anchor}, nil
}

// IsEquivalentTo reports frame equivalence: equivalent ellipsoid and
// prime meridian.
func (d *GeodeticReferenceFrame) IsEquivalentTo(o Datum, c Criterion) bool {
	switch od := o.(type) {
	case *GeodeticReferenceFrame:
		return metadataEquivalent(&d.IdentifiedObject, &od.IdentifiedObject, c) &&
			d.Ellipsoid.IsEquivalentTo(od.Ellipsoid, c) &&
			d.PrimeMeridian.IsEquivalentTo(od.PrimeMeridian, c)
	case *DynamicGeodeticReferenceFrame:
		return c != Strict && d.IsEquivalentTo(&od.GeodeticReferenceFrame, c)
	case *DatumEnsemble:
		return c != Strict && od.memberEquivalent(d, c)
	}
	return false
}

// A DynamicGeodeticReferenceFrame is a geodetic frame in which
// coordinates change with time, pinned at a reference epoch.
type DynamicGeodeticReferenceFrame struct {
	GeodeticReferenceFrame
	FrameReferenceEpoch float64 // decimal year
}

// IsEquivalentTo additionally requires matching reference epochs when
// both frames are dynamic.
func (d *DynamicGeodeticReferenceFrame) IsEquivalentTo(o Datum, c Criterion) bool {
	if od, ok := o.(*DynamicGeodeticReferenceFrame); ok {
		return d.GeodeticReferenceFrame.IsEquivalentTo(&od.GeodeticReferenceFrame, c) &&
			d.FrameReferenceEpoch == od.FrameReferenceEpoch
	}
	return c != Strict && d.GeodeticReferenceFrame.IsEquivalentTo(o, c)
}

// A VerticalReferenceFrame anchors gravity-related heights.
type VerticalReferenceFrame struct {
	IdentifiedObject
	Anchor string
}

func (d *VerticalReferenceFrame) IsEquivalentTo(o Datum, c Criterion) bool {
	switch od := o.(type) {
	case *VerticalReferenceFrame:
		if c == Strict {
			return metadataEquivalent(&d.IdentifiedObject, &od.IdentifiedObject, c)
		}
		return canonicalName(d.Name) == canonicalName(od.Name)
	case *DynamicVerticalReferenceFrame:
		return c != Strict && d.IsEquivalentTo(&od.VerticalReferenceFrame, c)
	}
	return false
}

// A DynamicVerticalReferenceFrame is a vertical frame with a reference
// epoch.
type DynamicVerticalReferenceFrame struct {
	VerticalReferenceFrame
	FrameReferenceEpoch float64
}

func (d *DynamicVerticalReferenceFrame) IsEquivalentTo(o Datum, c Criterion) bool {
	if od, ok := o.(*DynamicVerticalReferenceFrame); ok {
		return d.VerticalReferenceFrame.IsEquivalentTo(&od.VerticalReferenceFrame, c) &&
			d.FrameReferenceEpoch == od.FrameReferenceEpoch
	}
	return c != Strict && d.VerticalReferenceFrame.IsEquivalentTo(o, c)
}

// A TemporalDatum fixes the origin of a temporal CRS.
type TemporalDatum struct {
	IdentifiedObject
	Calendar string // "proleptic Gregorian" unless stated otherwise
	Origin   string // ISO 8601
}

func (d *TemporalDatum) IsEquivalentTo(o Datum, c Criterion) bool {
	od, ok := o.(*TemporalDatum)
	return ok && metadataEquivalent(&d.IdentifiedObject, &od.IdentifiedObject, c) &&
		d.Calendar == od.Calendar && d.Origin == od.Origin
}

// An EngineeringDatum anchors a local engineering CRS.
type EngineeringDatum struct {
	IdentifiedObject
	Anchor string
}

func (d *EngineeringDatum) IsEquivalentTo(o Datum, c Criterion) bool {
	od, ok := o.(*EngineeringDatum)
	if !ok {
		return false
	}
	if c == Strict {
		return metadataEquivalent(&d.IdentifiedObject, &od.IdentifiedObject, c)
	}
	return canonicalName(d.Name) == canonicalName(od.Name)
}

// A ParametricDatum anchors a parametric CRS.
type ParametricDatum struct {
	IdentifiedObject
	Anchor string
}

func (d *ParametricDatum) IsEquivalentTo(o Datum, c Criterion) bool {
	od, ok := o.(*ParametricDatum)
	if !ok {
		return false
	}
	if c == Strict {
		return metadataEquivalent(&d.IdentifiedObject, &od.IdentifiedObject, c)
	}
	return canonicalName(d.Name) == canonicalName(od.Name)
}

// A DatumEnsemble groups realizations that are interchangeable within
// the ensemble accuracy. For operation lookup any member datum is
// acceptable, with the ensemble accuracy added to the operation's.
type DatumEnsemble struct {
	IdentifiedObject
	Members  []Datum
	Accuracy float64 // metres
}

// NewDatumEnsemble validates and builds an ensemble.
func NewDatumEnsemble(obj IdentifiedObject, members []Datum, accuracy float64) (*DatumEnsemble, error) {
	if len(members) < 2 {
		return nil, fmt.Errorf("geocrs: datum ensemble %q: needs at least two members", obj.Name)
	}
	return &DatumEnsemble{IdentifiedObject: obj, Members: members, Accuracy: accuracy}, nil
}

func (d *DatumEnsemble) memberEquivalent(o Datum, c Criterion) bool {
	for _, m := range d.Members {
		if m.IsEquivalentTo(o, c) {
			return true
		}
	}
	return false
}

func (d *DatumEnsemble) IsEquivalentTo(o Datum, c Criterion) bool {
	if od, ok := o.(*DatumEnsemble); ok {
		if !metadataEquivalent(&d.IdentifiedObject, &od.IdentifiedObject, c) ||
			len(d.Members) != len(od.Members) {
			return false
		}
		for i := range d.Members {
			if !d.Members[i].IsEquivalentTo(od.Members[i], c) {
				return false
			}
		}
		return true
	}
	return c != Strict && d.memberEquivalent(o, c)
}

// geodeticFrameOf extracts the representative geodetic frame from a
// datum or ensemble, if there is one.
func geodeticFrameOf(d Datum) *GeodeticReferenceFrame {
	switch dd := d.(type) {
	case *GeodeticReferenceFrame:
		return dd
	case *DynamicGeodeticReferenceFrame:
		return &dd.GeodeticReferenceFrame
	case *DatumEnsemble:
		for _, m := range dd.Members {
			if f := geodeticFrameOf(m); f != nil {
				return f
			}
		}
	}
	return nil
}

// Canonical datums used by the builtin catalog and the factory's hub
// logic.
var (
	DatumWGS84, _ = NewGeodeticReferenceFrame(
		namedObject("World Geodetic System 1984", "6326"), EllipsoidWGS84, Greenwich, "")
	DatumNTFParis, _ = NewGeodeticReferenceFrame(
		namedObject("Nouvelle Triangulation Francaise (Paris)", "6807"), EllipsoidClarke1880IGN, Paris, "")
	DatumNTF, _ = NewGeodeticReferenceFrame(
		namedObject("Nouvelle Triangulation Francaise", "6275"), EllipsoidClarke1880IGN, Greenwich, "")
	DatumETRS89, _ = NewGeodeticReferenceFrame(
		namedObject("European Terrestrial Reference System 1989", "6258"), EllipsoidGRS80, Greenwich, "")
	DatumRGF93, _ = NewGeodeticReferenceFrame(
		namedObject("Reseau Geodesique Francais 1993", "6171"), EllipsoidGRS80, Greenwich, "")
	DatumPulkovo4258, _ = NewGeodeticReferenceFrame(
		namedObject("Pulkovo 1942(58)", "6179"), EllipsoidKrassowsky, Greenwich, "")
	DatumNAD83, _ = NewGeodeticReferenceFrame(
		namedObject("North American Datum 1983", "6269"), EllipsoidGRS80, Greenwich, "")
	DatumNAD27, _ = NewGeodeticReferenceFrame(
		namedObject("North American Datum 1927", "6267"), EllipsoidClarke1866, Greenwich, "")
	DatumED50, _ = NewGeodeticReferenceFrame(
		namedObject("European Datum 1950", "6230"), EllipsoidIntl1924, Greenwich, "")
	DatumWGS72, _ = NewGeodeticReferenceFrame(
		namedObject("World Geodetic System 1972", "6322"), EllipsoidWGS72, Greenwich, "")
)
