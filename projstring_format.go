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
	"strconv"
	"strings"
)

// ProjConvention selects the proj-string dialect.
type ProjConvention int

const (
	// PROJ5 emits +proj=pipeline operations with +step tokens.
	PROJ5 ProjConvention = iota
	// PROJ4 emits the legacy flattened form and fails on anything
	// that does not reduce to a single forward step.
	PROJ4
)

func (c ProjConvention) String() string {
	if c == PROJ4 {
		return "PROJ.4"
	}
	return "PROJ"
}

// A ProjStringFormatter renders CRSs and operations as +proj=
// strings.
type ProjStringFormatter struct {
	Convention ProjConvention
}

// NewProjStringFormatter returns a formatter for the given dialect.
func NewProjStringFormatter(c ProjConvention) *ProjStringFormatter {
	return &ProjStringFormatter{Convention: c}
}

// A projStep is one step of a pipeline: a proj operation name with
// ordered arguments, possibly inverted.
type projStep struct {
	inv  bool
	args []string // "proj=name" first, then "key=value" or bare flags
}

func (s projStep) name() string {
	return strings.TrimPrefix(s.args[0], "proj=")
}

func (s projStep) arg(key string) (string, bool) {
	prefix := key + "="
	for _, a := range s.args[1:] {
		if strings.HasPrefix(a, prefix) {
			return a[len(prefix):], true
		}
		if a == key {
			return "", true
		}
	}
	return "", false
}

func (s projStep) render(b *strings.Builder, withStep bool) {
	if withStep {
		b.WriteString("+step ")
	}
	if s.inv {
		b.WriteString("+inv ")
	}
	for i, a := range s.args {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte('+')
		b.WriteString(a)
	}
}

// renderSteps serders a step list as a pipeline, eliding the
// pipeline wrapper for a single forward step and returning the empty
// string for an identity.
func renderSteps(steps []projStep) string {
	steps = collapseSteps(steps)
	if len(steps) == 0 {
		return ""
	}
	var b strings.Builder
	if len(steps) == 1 && !steps[0].inv {
		steps[0].render(&b, false)
		return b.String()
	}
	b.WriteString("+proj=pipeline")
	for _, s := range steps {
		b.WriteByte(' ')
		s.render(&b, true)
	}
	return b.String()
}

// collapseSteps removes identity steps, adjacent forward/inverse
// pairs, and adjacent Helmert steps whose parameters sum to zero,
// until a fixed point.
func collapseSteps(steps []projStep) []projStep {
	changed := true
	for changed {
		changed = false
		var out []projStep
		for _, s := range steps {
			if stepIsIdentity(s) {
				changed = true
				continue
			}
			if n := len(out); n > 0 {
				prev := out[n-1]
				if prev.inv != s.inv && equalArgs(prev.args, s.args) {
					out = out[:n-1]
					changed = true
					continue
				}
				// An axis swap of the first two axes is its own
				// inverse.
				if prev.name() == "axisswap" && s.name() == "axisswap" && equalArgs(prev.args, s.args) {
					po, _ := prev.arg("order")
					if po == "2,1" {
						out = out[:n-1]
						changed = true
						continue
					}
				}
				// Opposed unit conversions cancel.
				if prev.name() == "unitconvert" && s.name() == "unitconvert" {
					pin, _ := prev.arg("xy_in")
					pout, _ := prev.arg("xy_out")
					sin, _ := s.arg("xy_in")
					sout, _ := s.arg("xy_out")
					if pin == sout && pout == sin {
						out = out[:n-1]
						changed = true
						continue
					}
				}
				if prev.name() == "helmert" && s.name() == "helmert" &&
					!prev.inv && !s.inv && helmertsCancel(prev, s) {
					out = out[:n-1]
					changed = true
					continue
				}
			}
			out = append(out, s)
		}
		steps = out
	}
	return steps
}

func equalArgs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func stepIsIdentity(s projStep) bool {
	switch s.name() {
	case "unitconvert":
		in, _ := s.arg("xy_in")
		out, _ := s.arg("xy_out")
		return in == out
	case "axisswap":
		order, _ := s.arg("order")
		return order == "1,2"
	case "noop":
		return true
	}
	return false
}

// helmertsCancel reports whether two forward Helmert steps in the
// same convention negate each other.
func helmertsCancel(a, b projStep) bool {
	ca, _ := a.arg("convention")
	cb, _ := b.arg("convention")
	if ca != cb {
		return false
	}
	keys := []string{"x", "y", "z", "rx", "ry", "rz", "s", "dx", "dy", "dz", "drx", "dry", "drz", "ds", "t_epoch"}
	for _, k := range keys {
		va, oka := a.arg(k)
		vb, okb := b.arg(k)
		if oka != okb {
			return false
		}
		if !oka {
			continue
		}
		fa, erra := strconv.ParseFloat(va, 64)
		fb, errb := strconv.ParseFloat(vb, 64)
		if erra != nil || errb != nil {
			return false
		}
		if k == "t_epoch" {
			if fa != fb {
				return false
			}
		} else if fa+fb != 0 {
			return false
		}
	}
	return true
}

func projNum(v float64) string { return formatWKTNumber(v) }

// projUnitName maps a unit to its proj spelling.
func projUnitName(u UnitOfMeasure) (string, bool) {
	switch {
	case u.Equivalent(Metre):
		return "m", true
	case u.Equivalent(Kilometre):
		return "km", true
	case u.Equivalent(Degree):
		return "deg", true
	case u.Equivalent(Grad):
		return "grad", true
	case u.Equivalent(Radian):
		return "rad", true
	case u.Equivalent(Foot):
		return "ft", true
	case u.Equivalent(USSurveyFoot):
		return "us-ft", true
	}
	return "", false
}

// ellipsoidArgs renders an ellipsoid as +ellps= when it is a
// well-known one, and as explicit +a/+rf (or +R) otherwise.
func ellipsoidArgs(e *Ellipsoid) []string {
	if e == nil {
		return nil
	}
	if name, ok := projEllpsNames[e.EPSGCode()]; ok {
		return []string{"ellps=" + name}
	}
	a := e.SemiMajor.SI()
	if e.IsSphere() {
		return []string{"R=" + projNum(a)}
	}
	return []string{"a=" + projNum(a), "rf=" + projNum(e.InverseFlattening())}
}

// geogNormSteps builds the steps taking coordinates as declared by a
// geographic CRS to longitude-latitude radians referenced to
// Greenwich. reverse builds the opposite direction.
func geogNormSteps(g *GeographicCRS, reverse bool) []projStep {
	var steps []projStep
	order := g.CS.AxisOrder()
	if order == AxisOrderLatNorthLongEast || order == AxisOrderLatNorthLongEastHeightUp {
		steps = append(steps, projStep{args: []string{"proj=axisswap", "order=2,1"}})
	}
	if un, ok := projUnitName(g.CS.Axes[0].Unit); ok && un != "rad" {
		steps = append(steps, projStep{args: []string{"proj=unitconvert", "xy_in=" + un, "xy_out=rad"}})
	}
	if pm := g.PrimeMeridian(); pm != nil && pm.Longitude.SI() != 0 {
		if pmName, ok := projPMNames[pm.EPSGCode()]; ok {
			args := append([]string{"proj=longlat"}, ellipsoidArgs(g.Ellipsoid())...)
			args = append(args, "pm="+pmName)
			steps = append(steps, projStep{inv: true, args: args})
		} else {
			args := append([]string{"proj=longlat"}, ellipsoidArgs(g.Ellipsoid())...)
			args = append(args, "pm="+projNum(pm.Longitude.SI()*180/piValue))
			steps = append(steps, projStep{inv: true, args: args})
		}
	}
	if reverse {
		return invertStepList(steps)
	}
	return steps
}

const piValue = 3.141592653589793238462643383279502884

// invertStepList reverses a step list and toggles each step.
func invertStepList(steps []projStep) []projStep {
	out := make([]projStep, len(steps))
	for i, s := range steps {
		s.inv = !s.inv
		// unitconvert inverts by swapping its arguments instead.
		if s.name() == "unitconvert" {
			in, _ := s.arg("xy_in")
			outu, _ := s.arg("xy_out")
			s = projStep{args: []string{"proj=unitconvert", "xy_in=" + outu, "xy_out=" + in}}
		}
		if s.name() == "axisswap" {
			s.inv = false // order=2,1 is its own inverse
		}
		out[len(steps)-1-i] = s
	}
	return out
}

// normalizeInSteps takes coordinates as declared by the CRS to the
// canonical form of its datum: longitude-latitude radians referenced
// to Greenwich, or geocentric metres.
func normalizeInSteps(c CRS) ([]projStep, error) {
	switch cc := c.(type) {
	case *GeographicCRS:
		return geogNormSteps(cc, false), nil
	case *GeodeticCRS:
		var steps []projStep
		if un, ok := projUnitName(cc.CS.Axes[0].Unit); ok && un != "m" {
			steps = append(steps, projStep{args: []string{"proj=unitconvert", "xy_in=" + un, "xy_out=m", "z_in=" + un, "z_out=m"}})
		}
		return steps, nil
	case *ProjectedCRS:
		var steps []projStep
		order := cc.CS.AxisOrder()
		if order == AxisOrderLatNorthLongEast {
			steps = append(steps, projStep{args: []string{"proj=axisswap", "order=2,1"}})
		}
		if un, ok := projUnitName(cc.CS.Axes[0].Unit); ok && un != "m" {
			steps = append(steps, projStep{args: []string{"proj=unitconvert", "xy_in=" + un, "xy_out=m"}})
		}
		body, err := conversionBodySteps(cc.Conversion, cc.Base)
		if err != nil {
			return nil, err
		}
		steps = append(steps, invertStepList(body)...)
		if pm := cc.Base.PrimeMeridian(); pm != nil && pm.Longitude.SI() != 0 {
			if pmName, ok := projPMNames[pm.EPSGCode()]; ok {
				args := append([]string{"proj=longlat"}, ellipsoidArgs(cc.Base.Ellipsoid())...)
				args = append(args, "pm="+pmName)
				steps = append(steps, projStep{inv: true, args: args})
			}
		}
		return steps, nil
	case *BoundCRS:
		return normalizeInSteps(cc.Base)
	case *CompoundCRS:
		return normalizeInSteps(cc.Components[0])
	case *VerticalCRS:
		var steps []projStep
		if un, ok := projUnitName(cc.CS.Axes[0].Unit); ok && un != "m" {
			steps = append(steps, projStep{args: []string{"proj=unitconvert", "z_in=" + un, "z_out=m"}})
		}
		return steps, nil
	}
	return nil, &FormattingError{Convention: "PROJ", What: "CRS " + strconv.Quote(c.Object().Name)}
}

// normalizeOutSteps is the reverse adapter, from canonical form to
// the CRS's declared axes and units.
func normalizeOutSteps(c CRS) ([]projStep, error) {
	in, err := normalizeInSteps(c)
	if err != nil {
		return nil, err
	}
	return invertStepList(in), nil
}

// conversionBodySteps renders the forward projection of a deriving
// conversion: geographic radians to projected metres.
func conversionBodySteps(conv *Conversion, base *GeographicCRS) ([]projStep, error) {
	var ellps *Ellipsoid
	if base != nil {
		ellps = base.Ellipsoid()
	} else {
		ellps = conversionEllipsoid(conv)
	}
	if zone, south, ok := utmZoneOf(conv); ok {
		args := []string{"proj=utm", "zone=" + strconv.Itoa(zone)}
		if south {
			args = append(args, "south")
		}
		args = append(args, ellipsoidArgs(ellps)...)
		return []projStep{{args: args}}, nil
	}
	code := conv.Method.EPSGCode()
	if code == epsgGeographic2DOffsets || code == epsgVerticalOffset {
		return offsetSteps(conv.Values, ellps)
	}
	if code == epsgGeocentricConversion {
		step := projStep{args: append([]string{"proj=cart"}, ellipsoidArgs(ellps)...), inv: conv.Inverted()}
		return []projStep{step}, nil
	}
	rec, ok := methodByCode(code)
	if !ok {
		rec, ok = methodByName(conv.Method.Name)
	}
	if !ok || rec.ProjName == "" {
		return nil, &FormattingError{Convention: "PROJ", What: "method " + strconv.Quote(conv.Method.Name)}
	}
	args := []string{"proj=" + rec.ProjName}
	if rec.Code == epsgLambertConic1SP {
		// proj's lcc wants the standard parallel spelled out even in
		// the single-parallel form.
		if lat, okLat := conv.Measure(ParamLatNaturalOrigin, epsgParamLatNaturalOrigin); okLat {
			latDeg, _ := lat.Convert(Degree)
			args = append(args, "lat_1="+projNum(latDeg.Val))
		}
	}
	for _, p := range rec.Params {
		m, found := conv.Measure(p.Name, p.Code)
		if !found {
			continue
		}
		switch m.Unit.Kind {
		case UnitKindAngle:
			m, _ = m.Convert(Degree)
		case UnitKindLength:
			m, _ = m.Convert(Metre)
		}
		args = append(args, p.ProjName+"="+projNum(m.Val))
	}
	args = append(args, ellipsoidArgs(ellps)...)
	step := projStep{args: args, inv: conv.Inverted()}
	return []projStep{step}, nil
}

// offsetSteps renders geographic or vertical offsets as a geogoffset
// step; all-zero offsets vanish.
func offsetSteps(values []OperationParameterValue, ellps *Ellipsoid) ([]projStep, error) {
	args := []string{"proj=geogoffset"}
	nonzero := false
	if dlat, ok := findMeasure(values, ParamLatOffset, epsgParamLatOffset); ok {
		v, _ := dlat.Convert(ArcSecond)
		args = append(args, "dlat="+projNum(v.Val))
		nonzero = nonzero || v.Val != 0
	}
	if dlon, ok := findMeasure(values, ParamLonOffset, epsgParamLonOffset); ok {
		v, _ := dlon.Convert(ArcSecond)
		args = append(args, "dlon="+projNum(v.Val))
		nonzero = nonzero || v.Val != 0
	}
	if dh, ok := findMeasure(values, ParamVerticalOffsetValue, epsgParamVerticalOffsetValue); ok {
		v, _ := dh.Convert(Metre)
		args = append(args, "dh="+projNum(v.Val))
		nonzero = nonzero || v.Val != 0
	}
	if !nonzero {
		return nil, nil
	}
	return []projStep{{args: args}}, nil
}

func appendHelmertArg(args []string, key string, v float64) []string {
	return append(args, key+"="+projNum(v))
}

// transformationCoreSteps renders the datum-change heart of a
// transformation, between canonical geographic radian coordinates of
// the source and target datums.
func transformationCoreSteps(t *Transformation) ([]projStep, error) {
	code := t.Method.EPSGCode()
	srcGeog := ExtractGeographicCRS(t.Source)
	dstGeog := ExtractGeographicCRS(t.Target)
	var srcEllps, dstEllps *Ellipsoid
	if srcGeog != nil {
		srcEllps = srcGeog.Ellipsoid()
	}
	if dstGeog != nil {
		dstEllps = dstGeog.Ellipsoid()
	}
	switch {
	case isHelmertCode(code):
		vals, rates, epoch, hasRates, hasEpoch := t.helmertParams()
		args := []string{"proj=helmert"}
		args = appendHelmertArg(args, "x", vals[0])
		args = appendHelmertArg(args, "y", vals[1])
		args = appendHelmertArg(args, "z", vals[2])
		rotational := code != epsgGeocentricTranslations && code != epsgGeocentricTranslationsGC
		if rotational {
			args = appendHelmertArg(args, "rx", vals[3])
			args = appendHelmertArg(args, "ry", vals[4])
			args = appendHelmertArg(args, "rz", vals[5])
			args = appendHelmertArg(args, "s", vals[6])
		}
		if hasRates {
			for i, k := range []string{"dx", "dy", "dz", "drx", "dry", "drz", "ds"} {
				args = appendHelmertArg(args, k, rates[i])
			}
		}
		if hasEpoch {
			args = appendHelmertArg(args, "t_epoch", epoch)
		}
		if rotational {
			conv := "coordinate_frame"
			if isPositionVectorCode(code) {
				conv = "position_vector"
			}
			args = append(args, "convention="+conv)
		}
		steps := []projStep{
			{args: append([]string{"proj=cart"}, ellipsoidArgs(srcEllps)...)},
			{args: args},
			{inv: true, args: append([]string{"proj=cart"}, ellipsoidArgs(dstEllps)...)},
		}
		return steps, nil
	case code == epsgMolodensky || code == epsgAbridgedMolodensky:
		args := append([]string{"proj=molodensky"}, ellipsoidArgs(srcEllps)...)
		dx, _ := t.Measure(ParamXTranslation, epsgParamXTranslation)
		dy, _ := t.Measure(ParamYTranslation, epsgParamYTranslation)
		dz, _ := t.Measure(ParamZTranslation, epsgParamZTranslation)
		da, _ := t.Measure(ParamSemiMajorDifference, epsgParamSemiMajorDifference)
		df, _ := t.Measure(ParamFlatteningDiff, epsgParamFlatteningDiff)
		args = append(args,
			"dx="+projNum(dx.SI()), "dy="+projNum(dy.SI()), "dz="+projNum(dz.SI()),
			"da="+projNum(da.SI()), "df="+projNum(df.Val*df.Unit.ToSI))
		if code == epsgAbridgedMolodensky {
			args = append(args, "abridged")
		}
		return []projStep{{args: args}}, nil
	case code == epsgNTv1 || code == epsgNTv2 || code == epsgNADCON:
		file, ok := findValue(t.Values, ParamLatLonDifferenceFile, epsgParamLatLonDifferenceFile)
		if !ok {
			return nil, &FormattingError{Convention: "PROJ", What: "grid transformation " + strconv.Quote(t.Name) + " without a grid file"}
		}
		return []projStep{{args: []string{"proj=hgridshift", "grids=" + file.Str}}}, nil
	case code == epsgVERTCON:
		file, ok := findValue(t.Values, ParamVerticalOffsetFile, epsgParamVerticalOffsetFile)
		if !ok {
			return nil, &FormattingError{Convention: "PROJ", What: "grid transformation " + strconv.Quote(t.Name) + " without a grid file"}
		}
		return []projStep{{args: []string{"proj=vgridshift", "grids=" + file.Str}}}, nil
	case code == epsgLongitudeRotation:
		// The longitude rotation is realized by the prime-meridian
		// normalization of the surrounding adapters.
		return nil, nil
	case code == epsgGeographic2DOffsets || code == epsgVerticalOffset:
		return offsetSteps(t.Values, srcEllps)
	}
	return nil, &FormattingError{Convention: "PROJ", What: "method " + strconv.Quote(t.Method.Name)}
}

// operationSteps flattens any coordinate operation into pipeline
// steps, adapters included.
func operationSteps(op CoordinateOperation) ([]projStep, error) {
	switch o := op.(type) {
	case *Conversion:
		var steps []projStep
		if o.src != nil {
			pre, err := normalizeInSteps(o.src)
			if err != nil {
				return nil, err
			}
			steps = append(steps, pre...)
		}
		// A conversion bound to CRSs whose source is the projected
		// side already contributes its body through the adapters.
		if !stepsCoverConversion(o) {
			var base *GeographicCRS
			if o.src != nil {
				base = ExtractGeographicCRS(o.src)
			}
			body, err := conversionBodySteps(o, base)
			if err != nil {
				return nil, err
			}
			steps = append(steps, body...)
		}
		if o.dst != nil {
			post, err := normalizeOutSteps(o.dst)
			if err != nil {
				return nil, err
			}
			steps = append(steps, post...)
		}
		return steps, nil
	case *Transformation:
		pre, err := normalizeInSteps(o.Source)
		if err != nil {
			return nil, err
		}
		core, err := transformationCoreSteps(o)
		if err != nil {
			return nil, err
		}
		post, err := normalizeOutSteps(o.Target)
		if err != nil {
			return nil, err
		}
		return append(append(pre, core...), post...), nil
	case *ConcatenatedOperation:
		var steps []projStep
		for _, s := range o.Steps {
			sub, err := operationSteps(s)
			if err != nil {
				return nil, err
			}
			steps = append(steps, sub...)
		}
		return steps, nil
	case *ProjStringOperation:
		return parsePipelineSteps(o.ProjString)
	}
	return nil, fmt.Errorf("geocrs: proj formatter: unsupported operation %T", op)
}

// stepsCoverConversion reports whether the conversion's projection is
// already emitted by the endpoint adapters, which happens when either
// endpoint is the projected CRS derived by this very conversion.
func stepsCoverConversion(c *Conversion) bool {
	covered := func(crs CRS) bool {
		p, ok := crs.(*ProjectedCRS)
		return ok && p.Conversion.Method.isEquivalentTo(c.Method, Equivalent) &&
			parameterSetsEquivalent(p.Conversion.Values, c.Values, Equivalent)
	}
	return c.src != nil && c.dst != nil && (covered(c.src) || covered(c.dst))
}

// FormatOperation renders a coordinate operation as a proj pipeline.
// Identity pipelines format as the empty string.
func (f *ProjStringFormatter) FormatOperation(op CoordinateOperation) (string, error) {
	steps, err := operationSteps(op)
	if err != nil {
		return "", err
	}
	steps = collapseSteps(steps)
	if f.Convention == PROJ4 {
		if len(steps) == 0 {
			return "", nil
		}
		if len(steps) != 1 || steps[0].inv {
			return "", &FormattingError{Convention: "PROJ.4",
				What: "multi-step operation " + strconv.Quote(op.Object().Name)}
		}
		var b strings.Builder
		steps[0].render(&b, false)
		return b.String(), nil
	}
	return renderSteps(steps), nil
}

// FormatCRS renders a CRS in the legacy single-string form.
func (f *ProjStringFormatter) FormatCRS(c CRS) (string, error) {
	args, err := f.crsArgs(c)
	if err != nil {
		return "", err
	}
	if f.Convention == PROJ4 {
		args = append(args, "no_defs")
	}
	var b strings.Builder
	for i, a := range args {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte('+')
		b.WriteString(a)
	}
	return b.String(), nil
}

func (f *ProjStringFormatter) crsArgs(c CRS) ([]string, error) {
	switch cc := c.(type) {
	case *GeographicCRS:
		args := []string{"proj=longlat"}
		args = append(args, ellipsoidArgs(cc.Ellipsoid())...)
		args = f.appendPM(args, cc.PrimeMeridian())
		return args, nil
	case *GeodeticCRS:
		args := []string{"proj=geocent"}
		args = append(args, ellipsoidArgs(cc.Ellipsoid())...)
		return args, nil
	case *ProjectedCRS:
		body, err := conversionBodySteps(cc.Conversion, cc.Base)
		if err != nil {
			return nil, err
		}
		if len(body) != 1 {
			return nil, &FormattingError{Convention: f.Convention.String(), What: "projected CRS " + strconv.Quote(cc.Name)}
		}
		args := body[0].args
		args = f.appendPM(args, cc.Base.PrimeMeridian())
		if un, ok := projUnitName(cc.CS.Axes[0].Unit); ok && un != "m" {
			args = append(args, "units="+un)
		}
		return args, nil
	case *BoundCRS:
		args, err := f.crsArgs(cc.Base)
		if err != nil {
			return nil, err
		}
		params, ok := towgs84Params(cc.Transformation)
		if !ok {
			return nil, &FormattingError{Convention: f.Convention.String(),
				What: "bound CRS with non-Helmert transformation " + strconv.Quote(cc.Transformation.Name)}
		}
		vals := make([]string, len(params))
		for i, v := range params {
			vals[i] = projNum(v)
		}
		return append(args, "towgs84="+strings.Join(vals, ",")), nil
	}
	return nil, &FormattingError{Convention: f.Convention.String(), What: "CRS " + strconv.Quote(c.Object().Name)}
}

func (f *ProjStringFormatter) appendPM(args []string, pm *PrimeMeridian) []string {
	if pm == nil || pm.Longitude.SI() == 0 {
		return args
	}
	if name, ok := projPMNames[pm.EPSGCode()]; ok {
		return append(args, "pm="+name)
	}
	deg, _ := pm.Longitude.Convert(Degree)
	return append(args, "pm="+projNum(deg.Val))
}
