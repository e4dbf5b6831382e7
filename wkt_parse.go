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
	"strings"
)

// ParseWKT parses a WKT1 or WKT2 string into a CRS or a coordinate
// operation. The dialect is inferred from the top-level keyword.
func ParseWKT(s string) (interface{}, error) {
	root, err := tokenizeWKT(s)
	if err != nil {
		return nil, err
	}
	return parseWKTNode(root)
}

// ParseWKTCRS parses a WKT string that must describe a CRS.
func ParseWKTCRS(s string) (CRS, error) {
	obj, err := ParseWKT(s)
	if err != nil {
		return nil, err
	}
	crs, ok := obj.(CRS)
	if !ok {
		return nil, &ParseError{Input: "WKT", Offset: -1, Expected: "a CRS", Found: "a coordinate operation"}
	}
	return crs, nil
}

func parseWKTNode(root *wktNode) (interface{}, error) {
	switch {
	case root.isKey("GEOGCRS", "GEOGRAPHICCRS", "GEODCRS", "GEODETICCRS"):
		return parseWKT2GeodeticCRS(root)
	case root.isKey("PROJCRS", "PROJECTEDCRS"):
		return parseWKT2ProjectedCRS(root)
	case root.isKey("VERTCRS", "VERTICALCRS"):
		return parseWKT2VerticalCRS(root)
	case root.isKey("TIMECRS"):
		return parseWKT2TemporalCRS(root)
	case root.isKey("ENGCRS", "ENGINEERINGCRS"):
		return parseWKT2EngineeringCRS(root)
	case root.isKey("PARAMETRICCRS"):
		return parseWKT2ParametricCRS(root)
	case root.isKey("COMPOUNDCRS"):
		return parseWKT2CompoundCRS(root)
	case root.isKey("BOUNDCRS"):
		return parseWKT2BoundCRS(root)
	case root.isKey("COORDINATEOPERATION"):
		return parseWKT2CoordinateOperation(root)
	case root.isKey("CONCATENATEDOPERATION"):
		return parseWKT2ConcatenatedOperation(root)
	case root.isKey("CONVERSION"):
		name, _ := root.strAt(0)
		method, values, err := parseWKT2MethodAndParams(root)
		if err != nil {
			return nil, err
		}
		obj := IdentifiedObject{Name: name, Identifiers: parseWKTIdentifiers(root)}
		return NewConversion(obj, method, values)
	case root.isKey("GEOGCS"):
		return parseWKT1GeogCS(root)
	case root.isKey("GEOCCS"):
		return parseWKT1GeocCS(root)
	case root.isKey("PROJCS"):
		return parseWKT1ProjCS(root)
	case root.isKey("VERT_CS"):
		return parseWKT1VertCS(root)
	case root.isKey("COMPD_CS"):
		return parseWKT1CompdCS(root)
	case root.isKey("LOCAL_CS"):
		return parseWKT1LocalCS(root)
	}
	return nil, &ParseError{Input: "WKT", Offset: 0, Expected: "a CRS or operation keyword", Found: root.Key}
}

// parseWKTIdentifiers collects the ID/AUTHORITY children of a node.
func parseWKTIdentifiers(n *wktNode) []Identifier {
	var ids []Identifier
	for _, idn := range n.children("ID", "AUTHORITY") {
		space, _ := idn.strAt(0)
		code, _ := idn.strAt(1)
		if space == "" || code == "" {
			continue
		}
		ids = append(ids, Identifier{Authority: space, Codespace: space, Code: code})
	}
	return ids
}

// parseWKTObject builds the shared metadata of a node: its quoted
// name plus identifiers.
func parseWKTObject(n *wktNode) IdentifiedObject {
	name, _ := n.strAt(0)
	return IdentifiedObject{Name: name, Identifiers: parseWKTIdentifiers(n)}
}

// parseWKTUnit reads a unit node. The keyword fixes the kind; a bare
// UNIT falls back to the hint.
func parseWKTUnit(n *wktNode, hint UnitKind) (UnitOfMeasure, error) {
	name, _ := n.strAt(0)
	factor, okf := n.floatAt(1)
	if !okf {
		return UnitOfMeasure{}, &ParseError{Input: "WKT", Offset: -1, Expected: "unit conversion factor", Found: n.Key + `["` + name + `"]`}
	}
	kind := hint
	switch {
	case n.isKey("LENGTHUNIT"):
		kind = UnitKindLength
	case n.isKey("ANGLEUNIT"):
		kind = UnitKindAngle
	case n.isKey("SCALEUNIT"):
		kind = UnitKindScale
	case n.isKey("TIMEUNIT", "TEMPORALQUANTITY"):
		kind = UnitKindTime
	case n.isKey("PARAMETRICUNIT"):
		kind = UnitKindParametric
	}
	// Recover the catalog identity of well-known units so that a bare
	// UNIT keyword still yields the right kind and authority code.
	for _, known := range []UnitOfMeasure{Metre, Kilometre, Foot, USSurveyFoot, Radian, Degree, Grad, ArcSecond, Microradian, Unity, PartsPerMillion, Second, Year} {
		if canonicalName(known.Name) == canonicalName(name) &&
			known.Equivalent(UnitOfMeasure{ToSI: factor, Kind: known.Kind}) {
			return known, nil
		}
	}
	if kind == UnitKindNone {
		c := canonicalName(name)
		switch {
		case strings.Contains(c, "degree") || strings.Contains(c, "grad") ||
			strings.Contains(c, "radian") || strings.Contains(c, "arc"):
			kind = UnitKindAngle
		case strings.Contains(c, "met") || strings.Contains(c, "foot") ||
			strings.Contains(c, "yard") || strings.Contains(c, "mile") ||
			strings.Contains(c, "link") || strings.Contains(c, "chain"):
			kind = UnitKindLength
		case strings.Contains(c, "unity") || strings.Contains(c, "scale") ||
			strings.Contains(c, "parts per"):
			kind = UnitKindScale
		case strings.Contains(c, "second") || strings.Contains(c, "year") ||
			strings.Contains(c, "day") || strings.Contains(c, "hour"):
			kind = UnitKindTime
		}
	}
	u := UnitOfMeasure{Name: name, ToSI: factor, Kind: kind}
	if ids := parseWKTIdentifiers(n); len(ids) > 0 {
		u.Authority, u.Code = ids[0].Authority, ids[0].Code
	}
	return u, nil
}

// unitOrDefault finds a unit child of the node, else the fallback.
func unitOrDefault(n *wktNode, hint UnitKind, fallback UnitOfMeasure) (UnitOfMeasure, error) {
	un := n.child("UNIT", "LENGTHUNIT", "ANGLEUNIT", "SCALEUNIT", "TIMEUNIT", "PARAMETRICUNIT")
	if un == nil {
		return fallback, nil
	}
	return parseWKTUnit(un, hint)
}

// parseWKTEllipsoid reads ELLIPSOID/SPHEROID and validates the shape.
func parseWKTEllipsoid(n *wktNode) (*Ellipsoid, error) {
	obj := parseWKTObject(n)
	a, oka := n.floatAt(1)
	rf, okrf := n.floatAt(2)
	if !oka || !okrf {
		return nil, &ParseError{Input: "WKT", Offset: -1, Expected: "semi-major axis and inverse flattening", Found: n.Key + `["` + obj.Name + `"]`}
	}
	unit, err := unitOrDefault(n, UnitKindLength, Metre)
	if err != nil {
		return nil, err
	}
	e, err := NewFlattenedEllipsoid(obj, Measure{a, unit}, rf)
	if err != nil {
		return nil, &ParseError{Input: "WKT", Offset: -1, Expected: "a valid ellipsoid", Found: err.Error()}
	}
	return e, nil
}

// parseWKTPrimem reads a PRIMEM node. WKT1 writes the longitude in
// degrees regardless of the surrounding unit; WKT2 uses the attached
// or ambient angular unit.
func parseWKTPrimem(n *wktNode, ambient UnitOfMeasure, wkt1 bool) (*PrimeMeridian, error) {
	obj := parseWKTObject(n)
	v, ok := n.floatAt(1)
	if !ok {
		return nil, &ParseError{Input: "WKT", Offset: -1, Expected: "prime meridian longitude", Found: `PRIMEM["` + obj.Name + `"]`}
	}
	unit := ambient
	if wkt1 {
		unit = Degree
	} else if un := n.child("ANGLEUNIT", "UNIT"); un != nil {
		var err error
		if unit, err = parseWKTUnit(un, UnitKindAngle); err != nil {
			return nil, err
		}
	}
	// Paris is catalogued in grads; recognize it so that parsed CRSs
	// compare equal to catalog ones.
	if canonicalName(obj.Name) == "paris" && unit.Equivalent(Degree) {
		return Paris, nil
	}
	return NewPrimeMeridian(obj, Measure{v, unit})
}

// parseWKT2Datum reads a geodetic DATUM or ENSEMBLE node.
func parseWKT2Datum(parent *wktNode, pmUnit UnitOfMeasure) (Datum, *PrimeMeridian, error) {
	pm := Greenwich
	if pmn := parent.child("PRIMEM", "PRIMEMERIDIAN"); pmn != nil {
		var err error
		pm, err = parseWKTPrimem(pmn, pmUnit, false)
		if err != nil {
			return nil, nil, err
		}
	}
	if dn := parent.child("DATUM", "TRF", "GEODETICDATUM"); dn != nil {
		obj := parseWKTObject(dn)
		en := dn.child("ELLIPSOID", "SPHEROID")
		if en == nil {
			return nil, nil, &ParseError{Input: "WKT", Offset: -1, Expected: "ELLIPSOID", Found: `DATUM["` + obj.Name + `"]`}
		}
		ellps, err := parseWKTEllipsoid(en)
		if err != nil {
			return nil, nil, err
		}
		anchor := ""
		if an := dn.child("ANCHOR"); an != nil {
			anchor, _ = an.strAt(0)
		}
		frame, err := NewGeodeticReferenceFrame(obj, ellps, pm, anchor)
		if err != nil {
			return nil, nil, err
		}
		if fe := dn.child("FRAMEEPOCH"); fe != nil {
			epoch, _ := fe.floatAt(0)
			return &DynamicGeodeticReferenceFrame{GeodeticReferenceFrame: *frame, FrameReferenceEpoch: epoch}, pm, nil
		}
		return frame, pm, nil
	}
	if en := parent.child("ENSEMBLE"); en != nil {
		obj := parseWKTObject(en)
		eln := en.child("ELLIPSOID", "SPHEROID")
		if eln == nil {
			return nil, nil, &ParseError{Input: "WKT", Offset: -1, Expected: "ELLIPSOID", Found: `ENSEMBLE["` + obj.Name + `"]`}
		}
		ellps, err := parseWKTEllipsoid(eln)
		if err != nil {
			return nil, nil, err
		}
		var members []Datum
		for _, mn := range en.children("MEMBER") {
			frame, err := NewGeodeticReferenceFrame(parseWKTObject(mn), ellps, pm, "")
			if err != nil {
				return nil, nil, err
			}
			members = append(members, frame)
		}
		accuracy := 0.0
		if an := en.child("ENSEMBLEACCURACY"); an != nil {
			accuracy, _ = an.floatAt(0)
		}
		ens, err := NewDatumEnsemble(obj, members, accuracy)
		if err != nil {
			return nil, nil, &ParseError{Input: "WKT", Offset: -1, Expected: "a valid datum ensemble", Found: err.Error()}
		}
		return ens, pm, nil
	}
	return nil, nil, &ParseError{Input: "WKT", Offset: -1, Expected: "DATUM or ENSEMBLE", Found: parent.Key}
}

// parseWKT2CS reads the CS node and its AXIS siblings.
func parseWKT2CS(parent *wktNode) (*CoordinateSystem, error) {
	csn := parent.child("CS")
	axisNodes := parent.children("AXIS")
	if csn == nil && len(axisNodes) == 0 {
		return nil, &ParseError{Input: "WKT", Offset: -1, Expected: "CS or AXIS", Found: parent.Key}
	}
	var kind CSKind
	kindKnown := false
	if csn != nil {
		kindStr, _ := csn.strAt(0)
		kindKnown = true
		switch canonicalName(kindStr) {
		case "cartesian":
			kind = CSCartesian
		case "ellipsoidal":
			kind = CSEllipsoidal
		case "spherical":
			kind = CSSpherical
		case "vertical":
			kind = CSVertical
		case "temporaldatetime", "datetime":
			kind = CSTemporalDateTime
		case "temporalcount":
			kind = CSTemporalCount
		case "temporalmeasure":
			kind = CSTemporalMeasure
		case "ordinal":
			kind = CSOrdinal
		case "parametric":
			kind = CSParametric
		default:
			return nil, &ParseError{Input: "WKT", Offset: -1, Expected: "a coordinate system kind", Found: kindStr}
		}
	}
	// A trailing unit at the CS level applies to axes without one.
	shared := UnitNone
	if un := parent.child("UNIT", "LENGTHUNIT", "ANGLEUNIT", "SCALEUNIT", "TIMEUNIT"); un != nil {
		var err error
		if shared, err = parseWKTUnit(un, UnitKindNone); err != nil {
			return nil, err
		}
	}
	axes := make([]CoordinateSystemAxis, 0, len(axisNodes))
	for _, an := range axisNodes {
		axis, err := parseWKT2Axis(an, shared)
		if err != nil {
			return nil, err
		}
		axes = append(axes, axis)
	}
	if !kindKnown {
		switch {
		case axes[0].Unit.Kind == UnitKindAngle:
			kind = CSEllipsoidal
		case len(axes) == 1:
			kind = CSVertical
		default:
			kind = CSCartesian
		}
	}
	cs, err := NewCoordinateSystem(kind, axes)
	if err != nil {
		return nil, &ParseError{Input: "WKT", Offset: -1, Expected: "a valid coordinate system", Found: err.Error()}
	}
	return cs, nil
}

func parseWKT2Axis(an *wktNode, shared UnitOfMeasure) (CoordinateSystemAxis, error) {
	raw, _ := an.strAt(0)
	name, abbrev := splitAxisName(raw)
	dirStr, ok := an.strAt(1)
	if !ok {
		return CoordinateSystemAxis{}, &ParseError{Input: "WKT", Offset: -1, Expected: "axis direction", Found: `AXIS["` + raw + `"]`}
	}
	dir, ok := ParseAxisDirection(dirStr)
	if !ok {
		return CoordinateSystemAxis{}, &ParseError{Input: "WKT", Offset: -1, Expected: "a known axis direction", Found: dirStr}
	}
	unit := shared
	if un := an.child("UNIT", "LENGTHUNIT", "ANGLEUNIT", "SCALEUNIT", "TIMEUNIT"); un != nil {
		var err error
		if unit, err = parseWKTUnit(un, shared.Kind); err != nil {
			return CoordinateSystemAxis{}, err
		}
	}
	axis := CoordinateSystemAxis{
		IdentifiedObject: IdentifiedObject{Name: name},
		Abbrev:           abbrev,
		Direction:        dir,
		Unit:             unit,
	}
	if mn := an.child("MERIDIAN"); mn != nil {
		v, _ := mn.floatAt(0)
		mu, err := unitOrDefault(mn, UnitKindAngle, Degree)
		if err != nil {
			return CoordinateSystemAxis{}, err
		}
		axis.Meridian = &Meridian{Longitude: Measure{v, mu}}
	}
	return axis, nil
}

// splitAxisName separates `name (abbrev)` into its parts and restores
// the conventional capitalization.
func splitAxisName(raw string) (name, abbrev string) {
	name = raw
	if i := strings.LastIndex(raw, " ("); i >= 0 && strings.HasSuffix(raw, ")") {
		name = raw[:i]
		abbrev = raw[i+2 : len(raw)-1]
	}
	if name != "" && !strings.HasPrefix(name, "Geocentric") {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	return name, abbrev
}

func parseWKT2GeodeticCRS(root *wktNode) (CRS, error) {
	obj := parseWKTObject(root)
	cs, err := parseWKT2CS(root)
	if err != nil {
		return nil, err
	}
	pmUnit := Degree
	if cs.Kind == CSEllipsoidal {
		pmUnit = cs.Axes[0].Unit
	}
	datum, _, err := parseWKT2Datum(root, pmUnit)
	if err != nil {
		return nil, err
	}
	if cs.Kind == CSEllipsoidal {
		return NewGeographicCRS(obj, datum, cs)
	}
	return NewGeocentricCRS(obj, datum, cs)
}

// parseWKT2BaseGeogCRS reads BASEGEOGCRS/BASEGEODCRS, which has no CS
// of its own: a two-axis latitude-longitude system in degrees is
// implied.
func parseWKT2BaseGeogCRS(n *wktNode) (*GeographicCRS, error) {
	obj := parseWKTObject(n)
	datum, _, err := parseWKT2Datum(n, Degree)
	if err != nil {
		return nil, err
	}
	return NewGeographicCRS(obj, datum, NewEllipsoidalCS2D())
}

// parseWKT2MethodAndParams reads METHOD and PARAMETER children.
func parseWKT2MethodAndParams(n *wktNode) (*OperationMethod, []OperationParameterValue, error) {
	mn := n.child("METHOD", "PROJECTION")
	if mn == nil {
		return nil, nil, &ParseError{Input: "WKT", Offset: -1, Expected: "METHOD", Found: n.Key}
	}
	method := &OperationMethod{IdentifiedObject: parseWKTObject(mn)}
	rec, haveRec := methodByName(method.Name)
	if !haveRec {
		rec, haveRec = methodByCode(method.EPSGCode())
	}
	if haveRec && method.EPSGCode() == "" {
		method.Identifiers = []Identifier{{Authority: "EPSG", Codespace: "EPSG", Code: rec.Code}}
	}
	var values []OperationParameterValue
	for _, pn := range n.children("PARAMETER", "PARAMETERFILE") {
		pname, _ := pn.strAt(0)
		param := OperationParameter{IdentifiedObject: IdentifiedObject{Name: pname, Identifiers: parseWKTIdentifiers(pn)}}
		if param.EPSGCode() == "" && haveRec {
			if mp, ok := rec.param(pname); ok {
				param.Identifiers = []Identifier{{Authority: "EPSG", Codespace: "EPSG", Code: mp.Code}}
			}
		}
		if pn.isKey("PARAMETERFILE") {
			file, _ := pn.strAt(1)
			values = append(values, OperationParameterValue{Parameter: param,
				Value: ParameterValue{Kind: ValueKindFilename, Str: file}})
			continue
		}
		v, okv := pn.floatAt(1)
		if !okv {
			s, _ := pn.strAt(1)
			values = append(values, OperationParameterValue{Parameter: param,
				Value: ParameterValue{Kind: ValueKindString, Str: s}})
			continue
		}
		unit, err := unitOrDefault(pn, UnitKindNone, UnitNone)
		if err != nil {
			return nil, nil, err
		}
		if unit.Kind == UnitKindNone {
			unit = defaultParameterUnit(param.EPSGCode(), pname)
		}
		values = append(values, OperationParameterValue{Parameter: param,
			Value: ParameterValue{Kind: ValueKindMeasure, Measure: Measure{v, unit}}})
	}
	return method, values, nil
}

// defaultParameterUnit guesses the unit of a parameter that carries
// none, from its EPSG code or name.
func defaultParameterUnit(code, name string) UnitOfMeasure {
	switch code {
	case epsgParamLatNaturalOrigin, epsgParamLonNaturalOrigin, epsgParamLatFalseOrigin,
		epsgParamLonFalseOrigin, epsgParamLat1stStdParallel, epsgParamLat2ndStdParallel,
		epsgParamLatOffset, epsgParamLonOffset:
		return Degree
	case epsgParamXRotation, epsgParamYRotation, epsgParamZRotation:
		return ArcSecond
	case epsgParamScaleNaturalOrigin:
		return Unity
	case epsgParamScaleDifference:
		return PartsPerMillion
	case epsgParamFalseEasting, epsgParamFalseNorthing, epsgParamEastingFalseOrigin,
		epsgParamNorthingFalseOrigin, epsgParamXTranslation, epsgParamYTranslation,
		epsgParamZTranslation, epsgParamVerticalOffsetValue:
		return Metre
	}
	c := canonicalName(name)
	switch {
	case strings.Contains(c, "latitude") || strings.Contains(c, "longitude"):
		return Degree
	case strings.Contains(c, "rotation"):
		return ArcSecond
	case strings.Contains(c, "scale"):
		return Unity
	}
	return Metre
}

func parseWKT2ProjectedCRS(root *wktNode) (CRS, error) {
	obj := parseWKTObject(root)
	bn := root.child("BASEGEOGCRS", "BASEGEODCRS")
	if bn == nil {
		return nil, &ParseError{Input: "WKT", Offset: -1, Expected: "BASEGEOGCRS", Found: root.Key}
	}
	base, err := parseWKT2BaseGeogCRS(bn)
	if err != nil {
		return nil, err
	}
	cn := root.child("CONVERSION", "DERIVINGCONVERSION")
	if cn == nil {
		return nil, &ParseError{Input: "WKT", Offset: -1, Expected: "CONVERSION", Found: root.Key}
	}
	method, values, err := parseWKT2MethodAndParams(cn)
	if err != nil {
		return nil, err
	}
	conv, err := NewConversion(parseWKTObject(cn), method, values)
	if err != nil {
		return nil, err
	}
	cs, err := parseWKT2CS(root)
	if err != nil {
		return nil, err
	}
	conv.src = base
	return NewProjectedCRS(obj, base, conv, cs)
}

func parseWKT2VerticalCRS(root *wktNode) (CRS, error) {
	obj := parseWKTObject(root)
	dn := root.child("VDATUM", "VERTICALDATUM", "VRF")
	if dn == nil {
		return nil, &ParseError{Input: "WKT", Offset: -1, Expected: "VDATUM", Found: root.Key}
	}
	var datum Datum
	frame := &VerticalReferenceFrame{IdentifiedObject: parseWKTObject(dn)}
	if fe := dn.child("FRAMEEPOCH"); fe != nil {
		epoch, _ := fe.floatAt(0)
		datum = &DynamicVerticalReferenceFrame{VerticalReferenceFrame: *frame, FrameReferenceEpoch: epoch}
	} else {
		datum = frame
	}
	cs, err := parseWKT2CS(root)
	if err != nil {
		return nil, err
	}
	return NewVerticalCRS(obj, datum, cs)
}

func parseWKT2TemporalCRS(root *wktNode) (CRS, error) {
	obj := parseWKTObject(root)
	dn := root.child("TDATUM", "TIMEDATUM")
	if dn == nil {
		return nil, &ParseError{Input: "WKT", Offset: -1, Expected: "TDATUM", Found: root.Key}
	}
	datum := &TemporalDatum{IdentifiedObject: parseWKTObject(dn), Calendar: "proleptic Gregorian"}
	if on := dn.child("TIMEORIGIN"); on != nil {
		datum.Origin, _ = on.strAt(0)
	}
	cs, err := parseWKT2CS(root)
	if err != nil {
		return nil, err
	}
	return &TemporalCRS{IdentifiedObject: obj, Datum: datum, CS: cs}, nil
}

func parseWKT2EngineeringCRS(root *wktNode) (CRS, error) {
	obj := parseWKTObject(root)
	dn := root.child("EDATUM", "ENGINEERINGDATUM")
	if dn == nil {
		return nil, &ParseError{Input: "WKT", Offset: -1, Expected: "EDATUM", Found: root.Key}
	}
	cs, err := parseWKT2CS(root)
	if err != nil {
		return nil, err
	}
	return &EngineeringCRS{IdentifiedObject: obj, Datum: &EngineeringDatum{IdentifiedObject: parseWKTObject(dn)}, CS: cs}, nil
}

func parseWKT2ParametricCRS(root *wktNode) (CRS, error) {
	obj := parseWKTObject(root)
	dn := root.child("PDATUM", "PARAMETRICDATUM")
	if dn == nil {
		return nil, &ParseError{Input: "WKT", Offset: -1, Expected: "PDATUM", Found: root.Key}
	}
	cs, err := parseWKT2CS(root)
	if err != nil {
		return nil, err
	}
	return &ParametricCRS{IdentifiedObject: obj,
		Datum: &ParametricDatum{IdentifiedObject: parseWKTObject(dn)}, CS: cs}, nil
}

func parseWKT2CompoundCRS(root *wktNode) (CRS, error) {
	obj := parseWKTObject(root)
	var components []CRS
	for _, c := range root.Children {
		if c.Node == nil || c.Node.isKey("ID", "AUTHORITY", "USAGE", "SCOPE", "AREA", "BBOX", "REMARK") {
			continue
		}
		comp, err := parseWKTNode(c.Node)
		if err != nil {
			return nil, err
		}
		crs, ok := comp.(CRS)
		if !ok {
			return nil, &ParseError{Input: "WKT", Offset: -1, Expected: "a CRS component", Found: c.Node.Key}
		}
		components = append(components, crs)
	}
	return NewCompoundCRS(obj, components)
}

func parseWKT2BoundCRS(root *wktNode) (CRS, error) {
	sn, tn := root.child("SOURCECRS"), root.child("TARGETCRS")
	an := root.child("ABRIDGEDTRANSFORMATION", "TRANSFORMATION")
	if sn == nil || tn == nil || an == nil {
		return nil, &ParseError{Input: "WKT", Offset: -1,
			Expected: "SOURCECRS, TARGETCRS, and ABRIDGEDTRANSFORMATION", Found: root.Key}
	}
	src, err := parseFirstCRSChild(sn)
	if err != nil {
		return nil, err
	}
	dst, err := parseFirstCRSChild(tn)
	if err != nil {
		return nil, err
	}
	method, values, err := parseWKT2MethodAndParams(an)
	if err != nil {
		return nil, err
	}
	t, err := NewTransformation(parseWKTObject(an), src, dst, method, values, nil)
	if err != nil {
		return nil, err
	}
	return NewBoundCRS(src, dst, t)
}

func parseFirstCRSChild(n *wktNode) (CRS, error) {
	for _, c := range n.Children {
		if c.Node == nil {
			continue
		}
		obj, err := parseWKTNode(c.Node)
		if err != nil {
			return nil, err
		}
		if crs, ok := obj.(CRS); ok {
			return crs, nil
		}
	}
	return nil, &ParseError{Input: "WKT", Offset: -1, Expected: "a nested CRS", Found: n.Key}
}

func parseWKT2CoordinateOperation(root *wktNode) (interface{}, error) {
	obj := parseWKTObject(root)
	sn, tn := root.child("SOURCECRS"), root.child("TARGETCRS")
	if sn == nil || tn == nil {
		return nil, &ParseError{Input: "WKT", Offset: -1, Expected: "SOURCECRS and TARGETCRS", Found: root.Key}
	}
	src, err := parseFirstCRSChild(sn)
	if err != nil {
		return nil, err
	}
	dst, err := parseFirstCRSChild(tn)
	if err != nil {
		return nil, err
	}
	method, values, err := parseWKT2MethodAndParams(root)
	if err != nil {
		return nil, err
	}
	var accuracies []float64
	if an := root.child("OPERATIONACCURACY"); an != nil {
		if a, ok := an.floatAt(0); ok {
			accuracies = []float64{a}
		}
	}
	t, err := NewTransformation(obj, src, dst, method, values, accuracies)
	if err != nil {
		return nil, err
	}
	if in := root.child("INTERPOLATIONCRS"); in != nil {
		interp, err := parseFirstCRSChild(in)
		if err != nil {
			return nil, err
		}
		t.Interpolation = interp
	}
	return t, nil
}

func parseWKT2ConcatenatedOperation(root *wktNode) (interface{}, error) {
	obj := parseWKTObject(root)
	var steps []CoordinateOperation
	for _, stn := range root.children("STEP") {
		for _, c := range stn.Children {
			if c.Node == nil {
				continue
			}
			sub, err := parseWKTNode(c.Node)
			if err != nil {
				return nil, err
			}
			op, ok := sub.(CoordinateOperation)
			if !ok {
				return nil, &ParseError{Input: "WKT", Offset: -1, Expected: "an operation step", Found: c.Node.Key}
			}
			steps = append(steps, op)
		}
	}
	return NewConcatenatedOperation(obj, steps, nil)
}

// ----- WKT1 -----

// parseWKT1GeogCS reads a WKT1 GEOGCS. A TOWGS84 child materializes
// as a bound CRS over the geographic one.
func parseWKT1GeogCS(root *wktNode) (CRS, error) {
	geog, towgs84, err := parseWKT1GeogCSRaw(root)
	if err != nil {
		return nil, err
	}
	if towgs84 == nil {
		return geog, nil
	}
	return boundFromTOWGS84(geog, towgs84)
}

// boundFromTOWGS84 wraps a CRS with the Helmert transformation a
// TOWGS84 node encodes: a Position Vector seven-parameter shift, the
// three-parameter form padded with zeros.
func boundFromTOWGS84(base CRS, params []float64) (CRS, error) {
	var p [7]float64
	copy(p[:], params)
	t, err := NewHelmertTransformation(
		IdentifiedObject{Name: "Transformation from " + base.Object().Name + " to WGS84"},
		base, CRSWGS84Geographic(),
		p[0], p[1], p[2], p[3], p[4], p[5], p[6], true, -1)
	if err != nil {
		return nil, err
	}
	return NewBoundCRS(base, CRSWGS84Geographic(), t)
}

func parseTOWGS84(dn *wktNode) ([]float64, error) {
	tn := dn.child("TOWGS84")
	if tn == nil {
		return nil, nil
	}
	var params []float64
	for i := 0; ; i++ {
		v, ok := tn.floatAt(i)
		if !ok {
			break
		}
		params = append(params, v)
	}
	if len(params) != 3 && len(params) != 7 {
		return nil, &ParseError{Input: "WKT", Offset: -1, Expected: "3 or 7 TOWGS84 values", Found: "TOWGS84"}
	}
	return params, nil
}

// parseWKT1GeogCSRaw parses the GEOGCS proper and returns any TOWGS84
// values alongside.
func parseWKT1GeogCSRaw(root *wktNode) (*GeographicCRS, []float64, error) {
	obj := parseWKTObject(root)
	dn := root.child("DATUM")
	if dn == nil {
		return nil, nil, &ParseError{Input: "WKT", Offset: -1, Expected: "DATUM", Found: `GEOGCS["` + obj.Name + `"]`}
	}
	en := dn.child("SPHEROID", "ELLIPSOID")
	if en == nil {
		return nil, nil, &ParseError{Input: "WKT", Offset: -1, Expected: "SPHEROID", Found: "DATUM"}
	}
	ellps, err := parseWKTEllipsoid(en)
	if err != nil {
		return nil, nil, err
	}
	towgs84, err := parseTOWGS84(dn)
	if err != nil {
		return nil, nil, err
	}
	pm := Greenwich
	if pmn := root.child("PRIMEM"); pmn != nil {
		if pm, err = parseWKTPrimem(pmn, Degree, true); err != nil {
			return nil, nil, err
		}
	}
	frame, err := NewGeodeticReferenceFrame(parseWKTObject(dn), ellps, pm, "")
	if err != nil {
		return nil, nil, err
	}
	unit := Degree
	if un := root.child("UNIT"); un != nil {
		if unit, err = parseWKTUnit(un, UnitKindAngle); err != nil {
			return nil, nil, err
		}
	}
	// Axis order is authoritative only when AXIS nodes are present;
	// latitude-longitude otherwise.
	var axes []CoordinateSystemAxis
	axisNodes := root.children("AXIS")
	if len(axisNodes) == 0 {
		axes = []CoordinateSystemAxis{AxisLatitude(unit), AxisLongitude(unit)}
	} else {
		for _, an := range axisNodes {
			name, _ := an.strAt(0)
			dirStr, _ := an.strAt(1)
			dir, ok := ParseAxisDirection(dirStr)
			if !ok {
				return nil, nil, &ParseError{Input: "WKT", Offset: -1, Expected: "a known axis direction", Found: dirStr}
			}
			abbrev := "lat"
			if dir == DirEast || dir == DirWest {
				abbrev = "lon"
			}
			axes = append(axes, CoordinateSystemAxis{
				IdentifiedObject: IdentifiedObject{Name: name}, Abbrev: abbrev, Direction: dir, Unit: unit})
		}
	}
	cs, err := NewCoordinateSystem(CSEllipsoidal, axes)
	if err != nil {
		return nil, nil, &ParseError{Input: "WKT", Offset: -1, Expected: "a valid ellipsoidal CS", Found: err.Error()}
	}
	if extn := root.child("EXTENSION"); extn != nil {
		if what, _ := extn.strAt(0); strings.EqualFold(what, "PROJ4") {
			obj.Proj4Extension, _ = extn.strAt(1)
		}
	}
	geog, err := NewGeographicCRS(obj, frame, cs)
	if err != nil {
		return nil, nil, err
	}
	return geog, towgs84, nil
}

func parseWKT1GeocCS(root *wktNode) (CRS, error) {
	obj := parseWKTObject(root)
	dn := root.child("DATUM")
	if dn == nil {
		return nil, &ParseError{Input: "WKT", Offset: -1, Expected: "DATUM", Found: `GEOCCS["` + obj.Name + `"]`}
	}
	en := dn.child("SPHEROID", "ELLIPSOID")
	if en == nil {
		return nil, &ParseError{Input: "WKT", Offset: -1, Expected: "SPHEROID", Found: "DATUM"}
	}
	ellps, err := parseWKTEllipsoid(en)
	if err != nil {
		return nil, err
	}
	towgs84, err := parseTOWGS84(dn)
	if err != nil {
		return nil, err
	}
	pm := Greenwich
	if pmn := root.child("PRIMEM"); pmn != nil {
		if pm, err = parseWKTPrimem(pmn, Degree, true); err != nil {
			return nil, err
		}
	}
	frame, err := NewGeodeticReferenceFrame(parseWKTObject(dn), ellps, pm, "")
	if err != nil {
		return nil, err
	}
	crs, err := NewGeocentricCRS(obj, frame, NewGeocentricCS())
	if err != nil {
		return nil, err
	}
	if towgs84 != nil {
		return boundFromTOWGS84(crs, towgs84)
	}
	return crs, nil
}

// parseWKT1ProjCS reads a WKT1 PROJCS, resolving the projection name
// through the alias table and normalizing Mercator_1SP written with a
// non-zero latitude of origin into Mercator variant B.
func parseWKT1ProjCS(root *wktNode) (CRS, error) {
	obj := parseWKTObject(root)
	gn := root.child("GEOGCS")
	if gn == nil {
		return nil, &ParseError{Input: "WKT", Offset: -1, Expected: "GEOGCS", Found: `PROJCS["` + obj.Name + `"]`}
	}
	base, towgs84, err := parseWKT1GeogCSRaw(gn)
	if err != nil {
		return nil, err
	}
	pn := root.child("PROJECTION")
	if pn == nil {
		return nil, &ParseError{Input: "WKT", Offset: -1, Expected: "PROJECTION", Found: `PROJCS["` + obj.Name + `"]`}
	}
	projName, _ := pn.strAt(0)
	rec, ok := methodByWKT1Name(projName)
	if !ok {
		return nil, &ParseError{Input: "WKT", Offset: -1, Expected: "a known projection", Found: projName}
	}
	// Collect the raw WKT1 parameters first.
	raw := map[string]float64{}
	for _, prn := range root.children("PARAMETER") {
		name, _ := prn.strAt(0)
		v, okv := prn.floatAt(1)
		if !okv {
			return nil, &ParseError{Input: "WKT", Offset: -1, Expected: "a parameter value", Found: name}
		}
		raw[canonicalName(name)] = v
	}
	// Mercator_1SP with a non-zero latitude of origin and unit scale
	// factor actually encodes Mercator variant B. The rule is not
	// written in any standard but reproduces accepted practice.
	if rec.Code == epsgMercatorA {
		lat := raw[canonicalName("latitude_of_origin")]
		scale, hasScale := raw[canonicalName("scale_factor")]
		if lat != 0 && (!hasScale || scale == 1) {
			rec, _ = methodByCode(epsgMercatorB)
			raw[canonicalName("standard_parallel_1")] = lat
			delete(raw, canonicalName("latitude_of_origin"))
			delete(raw, canonicalName("scale_factor"))
		}
	}
	unit := Metre
	if un := root.child("UNIT"); un != nil {
		if unit, err = parseWKTUnit(un, UnitKindLength); err != nil {
			return nil, err
		}
	}
	var values []OperationParameterValue
	for _, mp := range rec.Params {
		v, has := raw[canonicalName(mp.WKT1Name)]
		if !has {
			continue
		}
		var m Measure
		switch defaultParameterUnit(mp.Code, mp.Name).Kind {
		case UnitKindAngle:
			m = Degrees(v)
		case UnitKindScale:
			m = ScaleOf(v)
		default:
			m = Measure{v, unit}
		}
		values = append(values, measureParam(mp.Name, mp.Code, m))
	}
	conv, err := NewConversion(IdentifiedObject{Name: "unnamed"}, newMethod(rec.Name, rec.Code), values)
	if err != nil {
		return nil, err
	}
	var axes []CoordinateSystemAxis
	axisNodes := root.children("AXIS")
	if len(axisNodes) == 0 {
		axes = []CoordinateSystemAxis{AxisEasting(unit), AxisNorthing(unit)}
	} else {
		for _, an := range axisNodes {
			name, _ := an.strAt(0)
			dirStr, _ := an.strAt(1)
			dir, okd := ParseAxisDirection(dirStr)
			if !okd {
				return nil, &ParseError{Input: "WKT", Offset: -1, Expected: "a known axis direction", Found: dirStr}
			}
			abbrev := ""
			if name != "" {
				abbrev = name[:1]
			}
			axes = append(axes, CoordinateSystemAxis{
				IdentifiedObject: IdentifiedObject{Name: name}, Abbrev: abbrev, Direction: dir, Unit: unit})
		}
	}
	cs, err := NewCoordinateSystem(CSCartesian, axes)
	if err != nil {
		return nil, err
	}
	if extn := root.child("EXTENSION"); extn != nil {
		if what, _ := extn.strAt(0); strings.EqualFold(what, "PROJ4") {
			obj.Proj4Extension, _ = extn.strAt(1)
		}
	}
	conv.src = base
	proj, err := NewProjectedCRS(obj, base, conv, cs)
	if err != nil {
		return nil, err
	}
	if towgs84 != nil {
		return boundFromTOWGS84(proj, towgs84)
	}
	return proj, nil
}

func parseWKT1VertCS(root *wktNode) (CRS, error) {
	obj := parseWKTObject(root)
	dn := root.child("VERT_DATUM", "VDATUM")
	if dn == nil {
		return nil, &ParseError{Input: "WKT", Offset: -1, Expected: "VERT_DATUM", Found: `VERT_CS["` + obj.Name + `"]`}
	}
	unit := Metre
	var err error
	if un := root.child("UNIT"); un != nil {
		if unit, err = parseWKTUnit(un, UnitKindLength); err != nil {
			return nil, err
		}
	}
	cs, err := NewCoordinateSystem(CSVertical, []CoordinateSystemAxis{AxisGravityHeight(unit)})
	if err != nil {
		return nil, err
	}
	return NewVerticalCRS(obj, &VerticalReferenceFrame{IdentifiedObject: parseWKTObject(dn)}, cs)
}

func parseWKT1CompdCS(root *wktNode) (CRS, error) {
	obj := parseWKTObject(root)
	var components []CRS
	for _, c := range root.Children {
		if c.Node == nil || c.Node.isKey("AUTHORITY") {
			continue
		}
		comp, err := parseWKTNode(c.Node)
		if err != nil {
			return nil, err
		}
		crs, ok := comp.(CRS)
		if !ok {
			return nil, &ParseError{Input: "WKT", Offset: -1, Expected: "a CRS component", Found: c.Node.Key}
		}
		components = append(components, crs)
	}
	return NewCompoundCRS(obj, components)
}

func parseWKT1LocalCS(root *wktNode) (CRS, error) {
	obj := parseWKTObject(root)
	unit := Metre
	var err error
	if un := root.child("UNIT"); un != nil {
		if unit, err = parseWKTUnit(un, UnitKindLength); err != nil {
			return nil, err
		}
	}
	var axes []CoordinateSystemAxis
	for _, an := range root.children("AXIS") {
		name, _ := an.strAt(0)
		dirStr, _ := an.strAt(1)
		dir, ok := ParseAxisDirection(dirStr)
		if !ok {
			dir = DirUnspecified
		}
		axes = append(axes, CoordinateSystemAxis{
			IdentifiedObject: IdentifiedObject{Name: name}, Direction: dir, Unit: unit})
	}
	if len(axes) == 0 {
		axes = []CoordinateSystemAxis{AxisEasting(unit), AxisNorthing(unit)}
	}
	cs, err := NewCoordinateSystem(CSCartesian, axes)
	if err != nil {
		return nil, err
	}
	datumName := "Unknown engineering datum"
	if dn := root.child("LOCAL_DATUM"); dn != nil {
		datumName, _ = dn.strAt(0)
	}
	return &EngineeringCRS{IdentifiedObject: obj,
		Datum: &EngineeringDatum{IdentifiedObject: IdentifiedObject{Name: datumName}}, CS: cs}, nil
}
