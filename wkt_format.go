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
	"strconv"
	"strings"
)

// WKTConvention selects the output dialect of the WKT formatter.
type WKTConvention int

const (
	WKT2_2018 WKTConvention = iota
	WKT2_2018Simplified
	WKT2_2015
	WKT2_2015Simplified
	WKT1GDAL
	WKT1ESRI
)

func (c WKTConvention) String() string {
	switch c {
	case WKT2_2018:
		return "WKT2:2018"
	case WKT2_2018Simplified:
		return "WKT2:2018 (simplified)"
	case WKT2_2015:
		return "WKT2:2015"
	case WKT2_2015Simplified:
		return "WKT2:2015 (simplified)"
	case WKT1GDAL:
		return "WKT1:GDAL"
	case WKT1ESRI:
		return "WKT1:ESRI"
	}
	return "unknown"
}

func (c WKTConvention) isWKT1() bool { return c == WKT1GDAL || c == WKT1ESRI }

func (c WKTConvention) simplified() bool {
	return c == WKT2_2018Simplified || c == WKT2_2015Simplified
}

// A WKTFormatter renders CRSs and coordinate operations as WKT.
type WKTFormatter struct {
	Convention WKTConvention
	// MultiLine pretty-prints with Indent spaces per level; when
	// false the output is a single line.
	MultiLine bool
	Indent    int
}

// NewWKTFormatter returns a pretty-printing formatter for the given
// convention.
func NewWKTFormatter(c WKTConvention) *WKTFormatter {
	return &WKTFormatter{Convention: c, MultiLine: true, Indent: 4}
}

// Format renders a CRS or coordinate operation. Objects that the
// requested dialect cannot express yield a *FormattingError.
func (f *WKTFormatter) Format(obj interface{}) (string, error) {
	n, err := f.root(obj)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	f.serialize(&b, n, 0)
	return b.String(), nil
}

func (f *WKTFormatter) root(obj interface{}) (*wktNode, error) {
	switch o := obj.(type) {
	case *GeographicCRS:
		return f.geodeticCRSNode(&o.GeodeticCRS, true)
	case *GeodeticCRS:
		return f.geodeticCRSNode(o, false)
	case *ProjectedCRS:
		return f.projectedCRSNode(o)
	case *VerticalCRS:
		return f.verticalCRSNode(o)
	case *CompoundCRS:
		return f.compoundCRSNode(o)
	case *BoundCRS:
		return f.boundCRSNode(o)
	case *TemporalCRS:
		return f.temporalCRSNode(o)
	case *EngineeringCRS:
		return f.engineeringCRSNode(o)
	case *ParametricCRS:
		return f.parametricCRSNode(o)
	case *DerivedCRS:
		return nil, &FormattingError{Convention: f.Convention.String(), What: "derived CRS " + strconv.Quote(o.Name)}
	case *Transformation:
		return f.transformationNode(o)
	case *ConcatenatedOperation:
		return f.concatenatedNode(o)
	case *Conversion:
		return f.conversionNode(o, "CONVERSION")
	case *ProjStringOperation:
		return nil, &FormattingError{Convention: f.Convention.String(), What: "PROJ-string-based operation " + strconv.Quote(o.Name)}
	}
	return nil, fmt.Errorf("geocrs: WKT formatter: unsupported object %T", obj)
}

// serialize renders the node tree, one nested node per line in
// multi-line mode.
func (f *WKTFormatter) serialize(b *strings.Builder, n *wktNode, depth int) {
	b.WriteString(n.Key)
	b.WriteByte('[')
	for i, c := range n.Children {
		if i > 0 {
			b.WriteByte(',')
		}
		if c.Node != nil {
			if f.MultiLine {
				b.WriteByte('\n')
				b.WriteString(strings.Repeat(" ", f.Indent*(depth+1)))
			}
			f.serialize(b, c.Node, depth+1)
		} else if c.Quoted {
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(c.Value, `"`, `""`))
			b.WriteByte('"')
		} else {
			b.WriteString(c.Value)
		}
	}
	b.WriteByte(']')
}

func quoted(s string) wktChild { return wktChild{Value: s, Quoted: true} }
func bare(s string) wktChild   { return wktChild{Value: s} }
func sub(n *wktNode) wktChild  { return wktChild{Node: n} }

// formatWKTNumber renders a float the way the WKT standards expect:
// C locale, integers written exactly, other values with 15 significant
// digits; where that form needs an exponent, the plain decimal form is
// used instead when it is at most 27 characters long.
func formatWKTNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e17 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	s := strconv.FormatFloat(v, 'g', 15, 64)
	if strings.ContainsAny(s, "eE") {
		if fs := strconv.FormatFloat(v, 'f', -1, 64); len(fs) <= 27 {
			return fs
		}
	}
	return s
}

// idNode renders the identifier of an object, or nil when it has
// none or the position is suppressed by a simplified convention.
func (f *WKTFormatter) idNode(o *IdentifiedObject, interior bool) *wktNode {
	if len(o.Identifiers) == 0 {
		return nil
	}
	if interior && f.Convention.simplified() {
		return nil
	}
	id := o.Identifiers[0]
	space := id.Codespace
	if space == "" {
		space = id.Authority
	}
	if f.Convention.isWKT1() {
		return &wktNode{Key: "AUTHORITY", Children: []wktChild{quoted(space), quoted(id.Code)}}
	}
	code := bare(id.Code)
	if _, err := strconv.Atoi(id.Code); err != nil {
		code = quoted(id.Code)
	}
	return &wktNode{Key: "ID", Children: []wktChild{quoted(space), code}}
}

// unitNode renders a unit in the convention's spelling.
func (f *WKTFormatter) unitNode(u UnitOfMeasure) *wktNode {
	key := "UNIT"
	if !f.Convention.isWKT1() && !f.Convention.simplified() {
		switch u.Kind {
		case UnitKindLength:
			key = "LENGTHUNIT"
		case UnitKindAngle:
			key = "ANGLEUNIT"
		case UnitKindScale:
			key = "SCALEUNIT"
		case UnitKindTime:
			key = "TIMEUNIT"
		case UnitKindParametric:
			key = "PARAMETRICUNIT"
		}
	}
	n := &wktNode{Key: key, Children: []wktChild{quoted(u.Name), bare(formatWKTNumber(u.ToSI))}}
	if u.Code != "" && !f.Convention.simplified() {
		io := IdentifiedObject{Identifiers: []Identifier{{Authority: u.Authority, Codespace: u.Authority, Code: u.Code}}}
		if id := f.idNode(&io, true); id != nil {
			n.Children = append(n.Children, sub(id))
		}
	}
	return n
}

// ellipsoidNode renders ELLIPSOID (WKT2) or SPHEROID (WKT1). The
// spherical case writes an inverse flattening of zero per the
// standards.
func (f *WKTFormatter) ellipsoidNode(e *Ellipsoid) *wktNode {
	key := "ELLIPSOID"
	if f.Convention.isWKT1() {
		key = "SPHEROID"
	}
	rf := e.InverseFlattening()
	if math.IsInf(rf, 1) {
		rf = 0
	}
	n := &wktNode{Key: key, Children: []wktChild{
		quoted(e.Name),
		bare(formatWKTNumber(e.SemiMajor.Val)),
		bare(formatWKTNumber(rf)),
	}}
	if !f.Convention.isWKT1() {
		n.Children = append(n.Children, sub(f.unitNode(e.SemiMajor.Unit)))
	}
	if id := f.idNode(&e.IdentifiedObject, true); id != nil {
		n.Children = append(n.Children, sub(id))
	}
	return n
}

// wkt1DatumNames maps EPSG datum codes to their conventional WKT1
// spellings.
var wkt1DatumNames = map[string]string{
	"6326": "WGS_1984",
	"6322": "WGS_1972",
	"6269": "North_American_Datum_1983",
	"6267": "North_American_Datum_1927",
	"6258": "European_Terrestrial_Reference_System_1989",
	"6275": "Nouvelle_Triangulation_Francaise",
	"6807": "Nouvelle_Triangulation_Francaise_Paris",
	"6230": "European_Datum_1950",
	"6171": "Reseau_Geodesique_Francais_1993",
}

func (f *WKTFormatter) wkt1DatumName(d *IdentifiedObject) string {
	name := d.Name
	if n, ok := wkt1DatumNames[d.EPSGCode()]; ok {
		name = n
	} else {
		name = strings.NewReplacer(" ", "_", "(", "", ")", "").Replace(name)
	}
	if f.Convention == WKT1ESRI && !strings.HasPrefix(name, "D_") {
		name = "D_" + name
	}
	return name
}

// datumNode renders a geodetic datum or ensemble, with an optional
// TOWGS84 injected for WKT1 bound CRSs.
func (f *WKTFormatter) datumNode(d Datum, towgs84 []float64) (*wktNode, error) {
	frame := geodeticFrameOf(d)
	if frame == nil {
		return nil, &FormattingError{Convention: f.Convention.String(), What: "datum " + strconv.Quote(d.Object().Name)}
	}
	if f.Convention.isWKT1() {
		n := &wktNode{Key: "DATUM", Children: []wktChild{
			quoted(f.wkt1DatumName(d.Object())),
			sub(f.ellipsoidNode(frame.Ellipsoid)),
		}}
		if len(towgs84) > 0 {
			tn := &wktNode{Key: "TOWGS84"}
			for _, v := range towgs84 {
				tn.Children = append(tn.Children, bare(formatWKTNumber(v)))
			}
			n.Children = append(n.Children, sub(tn))
		}
		if id := f.idNode(d.Object(), true); id != nil {
			n.Children = append(n.Children, sub(id))
		}
		return n, nil
	}
	if ens, ok := d.(*DatumEnsemble); ok {
		n := &wktNode{Key: "ENSEMBLE", Children: []wktChild{quoted(ens.Name)}}
		for _, m := range ens.Members {
			mn := &wktNode{Key: "MEMBER", Children: []wktChild{quoted(m.Object().Name)}}
			if id := f.idNode(m.Object(), true); id != nil {
				mn.Children = append(mn.Children, sub(id))
			}
			n.Children = append(n.Children, sub(mn))
		}
		n.Children = append(n.Children, sub(f.ellipsoidNode(frame.Ellipsoid)))
		n.Children = append(n.Children, sub(&wktNode{Key: "ENSEMBLEACCURACY",
			Children: []wktChild{bare(formatWKTNumber(ens.Accuracy))}}))
		if id := f.idNode(&ens.IdentifiedObject, true); id != nil {
			n.Children = append(n.Children, sub(id))
		}
		return n, nil
	}
	n := &wktNode{Key: "DATUM", Children: []wktChild{
		quoted(d.Object().Name),
		sub(f.ellipsoidNode(frame.Ellipsoid)),
	}}
	if dyn, ok := d.(*DynamicGeodeticReferenceFrame); ok {
		n.Children = append([]wktChild{sub(&wktNode{Key: "FRAMEEPOCH",
			Children: []wktChild{bare(formatWKTNumber(dyn.FrameReferenceEpoch))}})}, n.Children...)
	}
	if frame.Anchor != "" {
		n.Children = append(n.Children, sub(&wktNode{Key: "ANCHOR", Children: []wktChild{quoted(frame.Anchor)}}))
	}
	if id := f.idNode(d.Object(), true); id != nil {
		n.Children = append(n.Children, sub(id))
	}
	return n, nil
}

// primemNode renders the prime meridian; WKT1 always writes the
// longitude in degrees.
func (f *WKTFormatter) primemNode(pm *PrimeMeridian) *wktNode {
	long := pm.Longitude
	if f.Convention.isWKT1() {
		long, _ = long.Convert(Degree)
	}
	n := &wktNode{Key: "PRIMEM", Children: []wktChild{quoted(pm.Name), bare(formatWKTNumber(long.Val))}}
	if !f.Convention.isWKT1() && !f.Convention.simplified() {
		n.Children = append(n.Children, sub(f.unitNode(long.Unit)))
	}
	if id := f.idNode(&pm.IdentifiedObject, true); id != nil {
		n.Children = append(n.Children, sub(id))
	}
	return n
}

// wkt2AxisName renders "name (abbrev)" the way WKT2 writes axes.
func wkt2AxisName(a *CoordinateSystemAxis) string {
	name := strings.ToLower(a.Name)
	if a.Name == "Geocentric X" || a.Name == "Geocentric Y" || a.Name == "Geocentric Z" {
		name = a.Name
	}
	if a.Abbrev != "" {
		return name + " (" + a.Abbrev + ")"
	}
	return name
}

// csNodes renders the CS node followed by the axis list. In
// simplified mode a shared unit is written once, after the axes.
func (f *WKTFormatter) csNodes(cs *CoordinateSystem) []wktChild {
	var out []wktChild
	out = append(out, sub(&wktNode{Key: "CS", Children: []wktChild{
		bare(cs.Kind.String()), bare(strconv.Itoa(len(cs.Axes)))}}))
	shared := f.Convention.simplified() && csSharedUnit(cs)
	for i := range cs.Axes {
		a := &cs.Axes[i]
		an := &wktNode{Key: "AXIS", Children: []wktChild{
			quoted(wkt2AxisName(a)), bare(string(a.Direction))}}
		if a.Meridian != nil {
			mn := &wktNode{Key: "MERIDIAN", Children: []wktChild{
				bare(formatWKTNumber(a.Meridian.Longitude.Val)),
				sub(f.unitNode(a.Meridian.Longitude.Unit))}}
			an.Children = append(an.Children, sub(mn))
		}
		if len(cs.Axes) > 1 {
			an.Children = append(an.Children, sub(&wktNode{Key: "ORDER",
				Children: []wktChild{bare(strconv.Itoa(i + 1))}}))
		}
		if !shared {
			an.Children = append(an.Children, sub(f.unitNode(a.Unit)))
		}
		out = append(out, sub(an))
	}
	if shared {
		out = append(out, sub(f.unitNode(cs.Axes[0].Unit)))
	}
	return out
}

func csSharedUnit(cs *CoordinateSystem) bool {
	for _, a := range cs.Axes[1:] {
		if !a.Unit.Equivalent(cs.Axes[0].Unit) {
			return false
		}
	}
	return true
}

// wkt1AxisNodes renders WKT1 AXIS nodes with upper-case directions.
func wkt1AxisNodes(cs *CoordinateSystem) []wktChild {
	var out []wktChild
	for i := range cs.Axes {
		a := &cs.Axes[i]
		out = append(out, sub(&wktNode{Key: "AXIS", Children: []wktChild{
			quoted(a.Name), bare(strings.ToUpper(string(a.Direction)))}}))
	}
	return out
}

// geodeticCRSNode renders a geographic or geocentric CRS.
func (f *WKTFormatter) geodeticCRSNode(c *GeodeticCRS, geographic bool) (*wktNode, error) {
	return f.geodeticCRSNodeTOWGS84(c, geographic, nil)
}

func (f *WKTFormatter) geodeticCRSNodeTOWGS84(c *GeodeticCRS, geographic bool, towgs84 []float64) (*wktNode, error) {
	if f.Convention.isWKT1() {
		key := "GEOCCS"
		if geographic {
			key = "GEOGCS"
		}
		dn, err := f.datumNode(c.Datum, towgs84)
		if err != nil {
			return nil, err
		}
		n := &wktNode{Key: key, Children: []wktChild{quoted(c.Name), sub(dn), sub(f.primemNode(c.PrimeMeridian()))}}
		n.Children = append(n.Children, sub(f.unitNode(c.CS.Axes[0].Unit)))
		if geographic {
			n.Children = append(n.Children, wkt1AxisNodes(c.CS)...)
		}
		if c.Proj4Extension != "" {
			n.Children = append(n.Children, sub(&wktNode{Key: "EXTENSION",
				Children: []wktChild{quoted("PROJ4"), quoted(c.Proj4Extension)}}))
		}
		if id := f.idNode(&c.IdentifiedObject, false); id != nil {
			n.Children = append(n.Children, sub(id))
		}
		return n, nil
	}
	key := "GEODCRS"
	if geographic && (f.Convention == WKT2_2018 || f.Convention == WKT2_2018Simplified) {
		key = "GEOGCRS"
	}
	dn, err := f.datumNode(c.Datum, nil)
	if err != nil {
		return nil, err
	}
	n := &wktNode{Key: key, Children: []wktChild{quoted(c.Name), sub(dn)}}
	if pm := c.PrimeMeridian(); pm != nil && (pm.Longitude.Val != 0 || !f.Convention.simplified()) {
		n.Children = append(n.Children, sub(f.primemNode(pm)))
	}
	n.Children = append(n.Children, f.csNodes(c.CS)...)
	if id := f.idNode(&c.IdentifiedObject, false); id != nil {
		n.Children = append(n.Children, sub(id))
	}
	return n, nil
}

// conversionNode renders a deriving conversion or a standalone one.
func (f *WKTFormatter) conversionNode(c *Conversion, key string) (*wktNode, error) {
	mn := &wktNode{Key: "METHOD", Children: []wktChild{quoted(c.Method.Name)}}
	if id := f.idNode(&c.Method.IdentifiedObject, true); id != nil {
		mn.Children = append(mn.Children, sub(id))
	}
	n := &wktNode{Key: key, Children: []wktChild{quoted(c.Name), sub(mn)}}
	for _, v := range c.Values {
		pn, err := f.parameterNode(v)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, sub(pn))
	}
	if id := f.idNode(&c.IdentifiedObject, true); id != nil {
		n.Children = append(n.Children, sub(id))
	}
	return n, nil
}

func (f *WKTFormatter) parameterNode(v OperationParameterValue) (*wktNode, error) {
	n := &wktNode{Key: "PARAMETER", Children: []wktChild{quoted(v.Parameter.Name)}}
	switch v.Value.Kind {
	case ValueKindMeasure:
		n.Children = append(n.Children, bare(formatWKTNumber(v.Value.Measure.Val)))
		if !f.Convention.isWKT1() && !f.Convention.simplified() && v.Value.Measure.Unit.Kind != UnitKindNone {
			n.Children = append(n.Children, sub(f.unitNode(v.Value.Measure.Unit)))
		}
	case ValueKindInteger:
		n.Children = append(n.Children, bare(strconv.Itoa(v.Value.Int)))
	case ValueKindBoolean:
		n.Children = append(n.Children, bare(strconv.FormatBool(v.Value.Bool)))
	case ValueKindString:
		n.Children = append(n.Children, quoted(v.Value.Str))
	case ValueKindFilename:
		n.Key = "PARAMETERFILE"
		n.Children = append(n.Children, quoted(v.Value.Str))
	default:
		return nil, &FormattingError{Convention: f.Convention.String(), What: "parameter " + strconv.Quote(v.Parameter.Name)}
	}
	if id := f.idNode(&v.Parameter.IdentifiedObject, true); id != nil {
		n.Children = append(n.Children, sub(id))
	}
	return n, nil
}

// projectedCRSNode renders a projected CRS in either generation.
func (f *WKTFormatter) projectedCRSNode(c *ProjectedCRS) (*wktNode, error) {
	if f.Convention.isWKT1() {
		return f.wkt1ProjectedNode(c, nil)
	}
	baseKey := "BASEGEODCRS"
	if f.Convention == WKT2_2018 || f.Convention == WKT2_2018Simplified {
		baseKey = "BASEGEOGCRS"
	}
	dn, err := f.datumNode(c.Base.Datum, nil)
	if err != nil {
		return nil, err
	}
	base := &wktNode{Key: baseKey, Children: []wktChild{quoted(c.Base.Name), sub(dn)}}
	if pm := c.Base.PrimeMeridian(); pm != nil && pm.Longitude.Val != 0 {
		base.Children = append(base.Children, sub(f.primemNode(pm)))
	}
	if id := f.idNode(&c.Base.IdentifiedObject, true); id != nil {
		base.Children = append(base.Children, sub(id))
	}
	cn, err := f.conversionNode(c.Conversion, "CONVERSION")
	if err != nil {
		return nil, err
	}
	n := &wktNode{Key: "PROJCRS", Children: []wktChild{quoted(c.Name), sub(base), sub(cn)}}
	n.Children = append(n.Children, f.csNodes(c.CS)...)
	if id := f.idNode(&c.IdentifiedObject, false); id != nil {
		n.Children = append(n.Children, sub(id))
	}
	return n, nil
}

// wkt1ProjectedNode renders PROJCS, converting the deriving
// conversion to a method WKT1 can name when needed.
func (f *WKTFormatter) wkt1ProjectedNode(c *ProjectedCRS, towgs84 []float64) (*wktNode, error) {
	conv := c.Conversion
	rec, ok := methodByCode(conv.Method.EPSGCode())
	if !ok {
		var byName methodRecord
		if byName, ok = methodByName(conv.Method.Name); ok {
			rec = byName
		}
	}
	if ok && rec.WKT1Name == "" {
		ok = false
	}
	if !ok {
		// Try the equivalent-method converters before giving up.
		for _, code := range []string{epsgMercatorA, epsgLambertConic2SP} {
			if cc, done := ConvertConversionToMethod(conv, code); done {
				conv = cc
				rec, ok = methodByCode(code)
				break
			}
		}
	}
	if !ok {
		if c.Proj4Extension != "" {
			rec = methodRecord{}
		} else {
			return nil, &FormattingError{Convention: f.Convention.String(),
				What: "projection method " + strconv.Quote(c.Conversion.Method.Name)}
		}
	}
	gn, err := f.geodeticCRSNodeTOWGS84(&c.Base.GeodeticCRS, true, towgs84)
	if err != nil {
		return nil, err
	}
	n := &wktNode{Key: "PROJCS", Children: []wktChild{quoted(c.Name), sub(gn)}}
	if rec.WKT1Name != "" {
		n.Children = append(n.Children, sub(&wktNode{Key: "PROJECTION", Children: []wktChild{quoted(rec.WKT1Name)}}))
		for _, p := range rec.Params {
			m, found := conv.Measure(p.Name, p.Code)
			if !found {
				continue
			}
			// WKT1 parameters are in degrees, metres, or unity.
			switch m.Unit.Kind {
			case UnitKindAngle:
				m, _ = m.Convert(Degree)
			case UnitKindLength:
				m, _ = m.Convert(Metre)
			}
			n.Children = append(n.Children, sub(&wktNode{Key: "PARAMETER",
				Children: []wktChild{quoted(p.WKT1Name), bare(formatWKTNumber(m.Val))}}))
		}
	}
	n.Children = append(n.Children, sub(f.unitNode(c.CS.Axes[0].Unit)))
	n.Children = append(n.Children, wkt1AxisNodes(c.CS)...)
	if c.Proj4Extension != "" {
		n.Children = append(n.Children, sub(&wktNode{Key: "EXTENSION",
			Children: []wktChild{quoted("PROJ4"), quoted(c.Proj4Extension)}}))
	}
	if id := f.idNode(&c.IdentifiedObject, false); id != nil {
		n.Children = append(n.Children, sub(id))
	}
	return n, nil
}

func (f *WKTFormatter) verticalCRSNode(c *VerticalCRS) (*wktNode, error) {
	if f.Convention.isWKT1() {
		n := &wktNode{Key: "VERT_CS", Children: []wktChild{quoted(c.Name)}}
		dn := &wktNode{Key: "VERT_DATUM", Children: []wktChild{quoted(c.Datum.Object().Name), bare("2005")}}
		if id := f.idNode(c.Datum.Object(), true); id != nil {
			dn.Children = append(dn.Children, sub(id))
		}
		n.Children = append(n.Children, sub(dn), sub(f.unitNode(c.CS.Axes[0].Unit)))
		n.Children = append(n.Children, wkt1AxisNodes(c.CS)...)
		if id := f.idNode(&c.IdentifiedObject, false); id != nil {
			n.Children = append(n.Children, sub(id))
		}
		return n, nil
	}
	dn := &wktNode{Key: "VDATUM", Children: []wktChild{quoted(c.Datum.Object().Name)}}
	if dyn, ok := c.Datum.(*DynamicVerticalReferenceFrame); ok {
		dn.Children = append([]wktChild{sub(&wktNode{Key: "FRAMEEPOCH",
			Children: []wktChild{bare(formatWKTNumber(dyn.FrameReferenceEpoch))}})}, dn.Children...)
	}
	if id := f.idNode(c.Datum.Object(), true); id != nil {
		dn.Children = append(dn.Children, sub(id))
	}
	n := &wktNode{Key: "VERTCRS", Children: []wktChild{quoted(c.Name), sub(dn)}}
	n.Children = append(n.Children, f.csNodes(c.CS)...)
	if id := f.idNode(&c.IdentifiedObject, false); id != nil {
		n.Children = append(n.Children, sub(id))
	}
	return n, nil
}

func (f *WKTFormatter) temporalCRSNode(c *TemporalCRS) (*wktNode, error) {
	if f.Convention.isWKT1() {
		return nil, &FormattingError{Convention: f.Convention.String(), What: "temporal CRS " + strconv.Quote(c.Name)}
	}
	dn := &wktNode{Key: "TDATUM", Children: []wktChild{quoted(c.Datum.Name)}}
	if c.Datum.Origin != "" {
		dn.Children = append(dn.Children, sub(&wktNode{Key: "TIMEORIGIN", Children: []wktChild{bare(c.Datum.Origin)}}))
	}
	n := &wktNode{Key: "TIMECRS", Children: []wktChild{quoted(c.Name), sub(dn)}}
	n.Children = append(n.Children, f.csNodes(c.CS)...)
	if id := f.idNode(&c.IdentifiedObject, false); id != nil {
		n.Children = append(n.Children, sub(id))
	}
	return n, nil
}

func (f *WKTFormatter) engineeringCRSNode(c *EngineeringCRS) (*wktNode, error) {
	if f.Convention.isWKT1() {
		n := &wktNode{Key: "LOCAL_CS", Children: []wktChild{quoted(c.Name)}}
		n.Children = append(n.Children, sub(f.unitNode(c.CS.Axes[0].Unit)))
		n.Children = append(n.Children, wkt1AxisNodes(c.CS)...)
		if id := f.idNode(&c.IdentifiedObject, false); id != nil {
			n.Children = append(n.Children, sub(id))
		}
		return n, nil
	}
	dn := &wktNode{Key: "EDATUM", Children: []wktChild{quoted(c.Datum.Name)}}
	n := &wktNode{Key: "ENGCRS", Children: []wktChild{quoted(c.Name), sub(dn)}}
	n.Children = append(n.Children, f.csNodes(c.CS)...)
	if id := f.idNode(&c.IdentifiedObject, false); id != nil {
		n.Children = append(n.Children, sub(id))
	}
	return n, nil
}

func (f *WKTFormatter) parametricCRSNode(c *ParametricCRS) (*wktNode, error) {
	if f.Convention.isWKT1() {
		return nil, &FormattingError{Convention: f.Convention.String(), What: "parametric CRS " + strconv.Quote(c.Name)}
	}
	dn := &wktNode{Key: "PDATUM", Children: []wktChild{quoted(c.Datum.Name)}}
	n := &wktNode{Key: "PARAMETRICCRS", Children: []wktChild{quoted(c.Name), sub(dn)}}
	n.Children = append(n.Children, f.csNodes(c.CS)...)
	if id := f.idNode(&c.IdentifiedObject, false); id != nil {
		n.Children = append(n.Children, sub(id))
	}
	return n, nil
}

func (f *WKTFormatter) compoundCRSNode(c *CompoundCRS) (*wktNode, error) {
	if f.Convention.isWKT1() {
		if len(c.Components) != 2 {
			return nil, &FormattingError{Convention: f.Convention.String(), What: "compound CRS " + strconv.Quote(c.Name)}
		}
		if _, ok := c.Components[1].(*VerticalCRS); !ok {
			return nil, &FormattingError{Convention: f.Convention.String(),
				What: "compound CRS " + strconv.Quote(c.Name) + " with non-vertical second component"}
		}
		h, err := f.root(c.Components[0])
		if err != nil {
			return nil, err
		}
		v, err := f.root(c.Components[1])
		if err != nil {
			return nil, err
		}
		n := &wktNode{Key: "COMPD_CS", Children: []wktChild{quoted(c.Name), sub(h), sub(v)}}
		if id := f.idNode(&c.IdentifiedObject, false); id != nil {
			n.Children = append(n.Children, sub(id))
		}
		return n, nil
	}
	n := &wktNode{Key: "COMPOUNDCRS", Children: []wktChild{quoted(c.Name)}}
	for _, comp := range c.Components {
		cn, err := f.root(comp)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, sub(cn))
	}
	if id := f.idNode(&c.IdentifiedObject, false); id != nil {
		n.Children = append(n.Children, sub(id))
	}
	return n, nil
}

// boundCRSNode renders a bound CRS: BOUNDCRS in WKT2, or the base CRS
// with an injected TOWGS84 in WKT1 when the transformation is a
// Helmert of at most seven parameters.
func (f *WKTFormatter) boundCRSNode(c *BoundCRS) (*wktNode, error) {
	if f.Convention.isWKT1() {
		params, ok := towgs84Params(c.Transformation)
		if !ok {
			return nil, &FormattingError{Convention: f.Convention.String(),
				What: "bound CRS with non-Helmert transformation " + strconv.Quote(c.Transformation.Name)}
		}
		switch base := c.Base.(type) {
		case *GeographicCRS:
			return f.geodeticCRSNodeTOWGS84(&base.GeodeticCRS, true, params)
		case *GeodeticCRS:
			return f.geodeticCRSNodeTOWGS84(base, false, params)
		case *ProjectedCRS:
			return f.wkt1ProjectedNode(base, params)
		}
		return nil, &FormattingError{Convention: f.Convention.String(), What: "bound CRS over " + strconv.Quote(c.Base.Object().Name)}
	}
	src, err := f.root(c.Base)
	if err != nil {
		return nil, err
	}
	dst, err := f.root(c.Hub)
	if err != nil {
		return nil, err
	}
	tn, err := f.abridgedTransformationNode(c.Transformation)
	if err != nil {
		return nil, err
	}
	return &wktNode{Key: "BOUNDCRS", Children: []wktChild{
		sub(&wktNode{Key: "SOURCECRS", Children: []wktChild{sub(src)}}),
		sub(&wktNode{Key: "TARGETCRS", Children: []wktChild{sub(dst)}}),
		sub(tn),
	}}, nil
}

// towgs84Params extracts the 3- or 7-parameter Helmert values of a
// transformation, or reports that it has none.
func towgs84Params(t *Transformation) ([]float64, bool) {
	code := t.Method.EPSGCode()
	if !isHelmertCode(code) {
		return nil, false
	}
	vals, _, _, hasRates, _ := t.helmertParams()
	if hasRates {
		return nil, false
	}
	if code == epsgGeocentricTranslations || code == epsgGeocentricTranslationsGC {
		return vals[:3], true
	}
	return vals[:7], true
}

func (f *WKTFormatter) abridgedTransformationNode(t *Transformation) (*wktNode, error) {
	mn := &wktNode{Key: "METHOD", Children: []wktChild{quoted(t.Method.Name)}}
	if id := f.idNode(&t.Method.IdentifiedObject, true); id != nil {
		mn.Children = append(mn.Children, sub(id))
	}
	n := &wktNode{Key: "ABRIDGEDTRANSFORMATION", Children: []wktChild{quoted(t.Name), sub(mn)}}
	for _, v := range t.Values {
		pn, err := f.parameterNode(v)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, sub(pn))
	}
	if id := f.idNode(&t.IdentifiedObject, true); id != nil {
		n.Children = append(n.Children, sub(id))
	}
	return n, nil
}

// transformationNode renders a standalone COORDINATEOPERATION; WKT1
// has no spelling for it.
func (f *WKTFormatter) transformationNode(t *Transformation) (*wktNode, error) {
	if f.Convention.isWKT1() {
		return nil, &FormattingError{Convention: f.Convention.String(), What: "coordinate operation " + strconv.Quote(t.Name)}
	}
	src, err := f.root(t.Source)
	if err != nil {
		return nil, err
	}
	dst, err := f.root(t.Target)
	if err != nil {
		return nil, err
	}
	mn := &wktNode{Key: "METHOD", Children: []wktChild{quoted(t.Method.Name)}}
	if id := f.idNode(&t.Method.IdentifiedObject, true); id != nil {
		mn.Children = append(mn.Children, sub(id))
	}
	n := &wktNode{Key: "COORDINATEOPERATION", Children: []wktChild{
		quoted(t.Name),
		sub(&wktNode{Key: "SOURCECRS", Children: []wktChild{sub(src)}}),
		sub(&wktNode{Key: "TARGETCRS", Children: []wktChild{sub(dst)}}),
		sub(mn),
	}}
	for _, v := range t.Values {
		pn, err := f.parameterNode(v)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, sub(pn))
	}
	if t.Interpolation != nil {
		in, err := f.root(t.Interpolation)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, sub(&wktNode{Key: "INTERPOLATIONCRS", Children: []wktChild{sub(in)}}))
	}
	if a, ok := t.Accuracy(); ok {
		n.Children = append(n.Children, sub(&wktNode{Key: "OPERATIONACCURACY",
			Children: []wktChild{bare(formatWKTNumber(a))}}))
	}
	if id := f.idNode(&t.IdentifiedObject, false); id != nil {
		n.Children = append(n.Children, sub(id))
	}
	return n, nil
}

func (f *WKTFormatter) concatenatedNode(c *ConcatenatedOperation) (*wktNode, error) {
	if f.Convention.isWKT1() {
		return nil, &FormattingError{Convention: f.Convention.String(), What: "concatenated operation " + strconv.Quote(c.Name)}
	}
	src, err := f.root(c.SourceCRS())
	if err != nil {
		return nil, err
	}
	dst, err := f.root(c.TargetCRS())
	if err != nil {
		return nil, err
	}
	n := &wktNode{Key: "CONCATENATEDOPERATION", Children: []wktChild{
		quoted(c.Name),
		sub(&wktNode{Key: "SOURCECRS", Children: []wktChild{sub(src)}}),
		sub(&wktNode{Key: "TARGETCRS", Children: []wktChild{sub(dst)}}),
	}}
	for _, s := range c.Steps {
		sn, err := f.root(s)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, sub(&wktNode{Key: "STEP", Children: []wktChild{sub(sn)}}))
	}
	if id := f.idNode(&c.IdentifiedObject, false); id != nil {
		n.Children = append(n.Children, sub(id))
	}
	return n, nil
}
