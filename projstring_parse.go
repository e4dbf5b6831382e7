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

// projToken is one +key[=value] token.
type projToken struct {
	key, value string
	hasValue   bool
}

// tokenizeProjString splits a proj string into tokens, rejecting
// anything that does not start with '+'.
func tokenizeProjString(s string) ([]projToken, error) {
	var tokens []projToken
	for _, field := range strings.Fields(s) {
		if !strings.HasPrefix(field, "+") {
			return nil, &ParseError{Input: "proj-string", Offset: -1, Expected: "a +key token", Found: field}
		}
		field = field[1:]
		if field == "" {
			return nil, &ParseError{Input: "proj-string", Offset: -1, Expected: "a key after '+'", Found: "+"}
		}
		if i := strings.IndexByte(field, '='); i >= 0 {
			tokens = append(tokens, projToken{key: field[:i], value: field[i+1:], hasValue: true})
		} else {
			tokens = append(tokens, projToken{key: field})
		}
	}
	return tokens, nil
}

// parsePipelineSteps splits a pipeline string into its steps. A
// non-pipeline string yields a single step.
func parsePipelineSteps(s string) ([]projStep, error) {
	tokens, err := tokenizeProjString(s)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, nil
	}
	isPipeline := tokens[0].key == "proj" && tokens[0].value == "pipeline"
	if !isPipeline {
		step, err := stepFromTokens(tokens)
		if err != nil {
			return nil, err
		}
		return []projStep{step}, nil
	}
	var steps []projStep
	var cur []projToken
	inStep := false
	flush := func() error {
		if !inStep {
			return nil
		}
		step, err := stepFromTokens(cur)
		if err != nil {
			return err
		}
		steps = append(steps, step)
		cur = nil
		return nil
	}
	for _, tok := range tokens[1:] {
		if tok.key == "step" {
			if err := flush(); err != nil {
				return nil, err
			}
			inStep = true
			continue
		}
		if !inStep {
			return nil, &ParseError{Input: "proj-string", Offset: -1, Expected: "+step", Found: "+" + tok.key}
		}
		cur = append(cur, tok)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return steps, nil
}

func stepFromTokens(tokens []projToken) (projStep, error) {
	var s projStep
	var rest []string
	for _, tok := range tokens {
		switch tok.key {
		case "inv":
			s.inv = true
		case "proj":
			s.args = append([]string{"proj=" + tok.value}, s.args...)
		default:
			if tok.hasValue {
				rest = append(rest, tok.key+"="+tok.value)
			} else {
				rest = append(rest, tok.key)
			}
		}
	}
	if len(s.args) == 0 {
		if s.inv {
			return s, &ParseError{Input: "proj-string", Offset: -1, Expected: "+proj after +inv", Found: "+inv"}
		}
		return s, &ParseError{Input: "proj-string", Offset: -1, Expected: "+proj", Found: "a step without one"}
	}
	s.args = append(s.args, rest...)
	return s, nil
}

// invertPipelineString computes the semantic inverse of a pipeline
// by reversing its steps and toggling their direction.
func invertPipelineString(s string) (string, error) {
	steps, err := parsePipelineSteps(s)
	if err != nil {
		return "", err
	}
	return renderSteps(invertStepList(steps)), nil
}

// ParseProjString parses a +proj= string into a CRS (for a single
// projection, longlat, or geocent form) or a coordinate operation
// (for a pipeline).
func ParseProjString(s string) (interface{}, error) {
	tokens, err := tokenizeProjString(s)
	if err != nil {
		return nil, err
	}
	kv := map[string]string{}
	var projName string
	for _, tok := range tokens {
		if tok.key == "inv" && projName != "pipeline" {
			return nil, &ParseError{Input: "proj-string", Offset: -1, Expected: "+inv only inside a pipeline step", Found: "+inv"}
		}
		if tok.key == "proj" {
			if projName == "" {
				projName = tok.value
			}
			continue
		}
		if projName != "pipeline" {
			kv[tok.key] = tok.value
		}
	}
	if projName == "" {
		return nil, &ParseError{Input: "proj-string", Offset: -1, Expected: "+proj=", Found: s}
	}
	if projName == "pipeline" {
		return parseProjPipelineOperation(s)
	}
	switch projName {
	case "longlat", "latlong", "lonlat", "latlon":
		return parseProjGeographic(kv)
	case "geocent", "cart":
		return parseProjGeocentric(kv)
	}
	return parseProjProjected(projName, kv)
}

// ParseProjStringCRS parses a proj string that must describe a CRS.
func ParseProjStringCRS(s string) (CRS, error) {
	obj, err := ParseProjString(s)
	if err != nil {
		return nil, err
	}
	crs, ok := obj.(CRS)
	if !ok {
		return nil, &ParseError{Input: "proj-string", Offset: -1, Expected: "a CRS", Found: "a pipeline"}
	}
	return crs, nil
}

func parseProjPipelineOperation(s string) (CoordinateOperation, error) {
	steps, err := parsePipelineSteps(s)
	if err != nil {
		return nil, err
	}
	if len(steps) == 0 {
		return nil, &ParseError{Input: "proj-string", Offset: -1, Expected: "at least one +step", Found: s}
	}
	if len(steps) == 1 {
		var b strings.Builder
		steps[0].render(&b, false)
		return NewProjStringOperation(IdentifiedObject{}, nil, nil, b.String()), nil
	}
	ops := make([]CoordinateOperation, len(steps))
	for i, st := range steps {
		var b strings.Builder
		st.render(&b, false)
		ops[i] = NewProjStringOperation(
			IdentifiedObject{Name: fmt.Sprintf("PROJ-based operation (step %d)", i+1)},
			nil, nil, b.String())
	}
	return NewConcatenatedOperation(IdentifiedObject{Name: "PROJ-based coordinate operation"}, ops, nil)
}

// projEllipsoidFromKV resolves the ellipsoid of a proj string from
// +ellps / +datum / +a / +b / +rf / +R.
func projEllipsoidFromKV(kv map[string]string) (*Ellipsoid, error) {
	name := kv["ellps"]
	if name == "" {
		switch kv["datum"] {
		case "WGS84":
			name = "WGS84"
		case "NAD83", "GRS80":
			name = "GRS80"
		case "NAD27":
			name = "clrk66"
		case "potsdam":
			name = "bessel"
		case "":
		default:
			name = kv["datum"]
		}
	}
	if name != "" {
		for code, n := range projEllpsNames {
			if n == name {
				for _, e := range []*Ellipsoid{EllipsoidWGS84, EllipsoidGRS80, EllipsoidClarke1880IGN,
					EllipsoidIntl1924, EllipsoidClarke1866, EllipsoidKrassowsky, EllipsoidBessel, EllipsoidWGS72} {
					if e.EPSGCode() == code {
						return e, nil
					}
				}
			}
		}
		return nil, &ParseError{Input: "proj-string", Offset: -1, Expected: "a known ellipsoid", Found: name}
	}
	parse := func(key string) (float64, bool, error) {
		v, ok := kv[key]
		if !ok {
			return 0, false, nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false, &ParseError{Input: "proj-string", Offset: -1, Expected: "a number for +" + key, Found: v}
		}
		return f, true, nil
	}
	if r, ok, err := parse("R"); err != nil {
		return nil, err
	} else if ok {
		return NewSphere(IdentifiedObject{Name: "unnamed sphere"}, Metres(r))
	}
	a, hasA, err := parse("a")
	if err != nil {
		return nil, err
	}
	if !hasA {
		// proj's historical default.
		return EllipsoidWGS84, nil
	}
	if rf, hasRF, err2 := parse("rf"); err2 != nil {
		return nil, err2
	} else if hasRF {
		return NewFlattenedEllipsoid(IdentifiedObject{Name: "unnamed ellipsoid"}, Metres(a), rf)
	}
	if b, hasB, err2 := parse("b"); err2 != nil {
		return nil, err2
	} else if hasB {
		return NewEllipsoidFromSemiMinor(IdentifiedObject{Name: "unnamed ellipsoid"}, Metres(a), Metres(b))
	}
	return NewSphere(IdentifiedObject{Name: "unnamed sphere"}, Metres(a))
}

// projDatumFromKV builds the geodetic frame, honoring +pm.
func projDatumFromKV(kv map[string]string) (*GeodeticReferenceFrame, error) {
	ellps, err := projEllipsoidFromKV(kv)
	if err != nil {
		return nil, err
	}
	pm := Greenwich
	if pmv, ok := kv["pm"]; ok {
		found := false
		for code, name := range projPMNames {
			if name == pmv {
				if code == Paris.EPSGCode() {
					pm = Paris
					found = true
				}
				break
			}
		}
		if !found {
			if deg, perr := strconv.ParseFloat(pmv, 64); perr == nil {
				pm, err = NewPrimeMeridian(IdentifiedObject{Name: "unnamed"}, Degrees(deg))
				if err != nil {
					return nil, err
				}
			} else if pmv != "greenwich" {
				return nil, &ParseError{Input: "proj-string", Offset: -1, Expected: "a known prime meridian", Found: pmv}
			}
		}
	}
	if kv["datum"] == "WGS84" && pm == Greenwich {
		return DatumWGS84, nil
	}
	return NewGeodeticReferenceFrame(IdentifiedObject{Name: "unknown"}, ellps, pm, "")
}

// angularUnitFromKV resolves the angular unit of a longlat CRS.
func angularUnitFromKV(kv map[string]string) UnitOfMeasure {
	// proj expresses geographic coordinates in degrees unless told
	// otherwise.
	return Degree
}

func maybeBindTOWGS84(crs CRS, kv map[string]string) (CRS, error) {
	tw, ok := kv["towgs84"]
	if !ok {
		return crs, nil
	}
	parts := strings.Split(tw, ",")
	params := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, &ParseError{Input: "proj-string", Offset: -1, Expected: "numeric +towgs84 values", Found: tw}
		}
		params[i] = v
	}
	if len(params) != 3 && len(params) != 7 {
		return nil, &ParseError{Input: "proj-string", Offset: -1, Expected: "3 or 7 +towgs84 values", Found: tw}
	}
	allZero := true
	for _, v := range params {
		if v != 0 {
			allZero = false
		}
	}
	if allZero {
		return crs, nil
	}
	return boundFromTOWGS84(crs, params)
}

func parseProjGeographic(kv map[string]string) (CRS, error) {
	frame, err := projDatumFromKV(kv)
	if err != nil {
		return nil, err
	}
	cs := NewEllipsoidalCSLongLat(angularUnitFromKV(kv))
	g, err := NewGeographicCRS(IdentifiedObject{Name: "unknown"}, frame, cs)
	if err != nil {
		return nil, err
	}
	return maybeBindTOWGS84(g, kv)
}

func parseProjGeocentric(kv map[string]string) (CRS, error) {
	frame, err := projDatumFromKV(kv)
	if err != nil {
		return nil, err
	}
	g, err := NewGeocentricCRS(IdentifiedObject{Name: "unknown"}, frame, NewGeocentricCS())
	if err != nil {
		return nil, err
	}
	return maybeBindTOWGS84(g, kv)
}

// parseProjProjected reconstructs a projected CRS and its deriving
// conversion from a single-projection string, such that a WKT2 round
// trip is stable up to equivalence.
func parseProjProjected(projName string, kv map[string]string) (CRS, error) {
	frame, err := projDatumFromKV(kv)
	if err != nil {
		return nil, err
	}
	base, err := NewGeographicCRS(IdentifiedObject{Name: "unknown"}, frame, NewEllipsoidalCSLongLat(Degree))
	if err != nil {
		return nil, err
	}
	num := func(key string, def float64) (float64, error) {
		v, ok := kv[key]
		if !ok {
			return def, nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, &ParseError{Input: "proj-string", Offset: -1, Expected: "a number for +" + key, Found: v}
		}
		return f, nil
	}

	var conv *Conversion
	switch projName {
	case "utm":
		zone, err2 := num("zone", 0)
		if err2 != nil {
			return nil, err2
		}
		if zone < 1 || zone > 60 || zone != float64(int(zone)) {
			return nil, &ParseError{Input: "proj-string", Offset: -1, Expected: "a UTM zone in 1..60", Found: kv["zone"]}
		}
		_, south := kv["south"]
		conv = NewUTMConversion(int(zone), south)
	case "merc":
		if _, hasTS := kv["lat_ts"]; hasTS {
			rec, _ := methodByCode(epsgMercatorB)
			conv, err = conversionFromRecord(rec, kv, num)
		} else {
			rec, _ := methodByCode(epsgMercatorA)
			conv, err = conversionFromRecord(rec, kv, num)
		}
		if err != nil {
			return nil, err
		}
	case "lcc":
		if _, has2 := kv["lat_2"]; has2 {
			rec, _ := methodByCode(epsgLambertConic2SP)
			conv, err = conversionFromRecord(rec, kv, num)
		} else {
			rec, _ := methodByCode(epsgLambertConic1SP)
			conv, err = conversionFromRecord(rec, kv, num)
		}
		if err != nil {
			return nil, err
		}
	default:
		rec, ok := methodByProjName(projName)
		if !ok {
			return nil, &ParseError{Input: "proj-string", Offset: -1, Expected: "a known projection", Found: projName}
		}
		conv, err = conversionFromRecord(rec, kv, num)
		if err != nil {
			return nil, err
		}
	}

	unit := Metre
	if un, ok := kv["units"]; ok {
		switch un {
		case "m":
		case "km":
			unit = Kilometre
		case "ft":
			unit = Foot
		case "us-ft":
			unit = USSurveyFoot
		default:
			return nil, &ParseError{Input: "proj-string", Offset: -1, Expected: "a known unit", Found: un}
		}
	} else if tm, ok2 := kv["to_meter"]; ok2 {
		f, perr := strconv.ParseFloat(tm, 64)
		if perr != nil {
			return nil, &ParseError{Input: "proj-string", Offset: -1, Expected: "a number for +to_meter", Found: tm}
		}
		unit = NewUnitOfMeasure("unknown", f, UnitKindLength)
	}
	conv.src = base
	proj, err := NewProjectedCRS(IdentifiedObject{Name: "unknown"}, base, conv, NewCartesianEastingNorthing(unit))
	if err != nil {
		return nil, err
	}
	return maybeBindTOWGS84(proj, kv)
}

// conversionFromRecord builds a conversion from the +key values named
// by a method record.
func conversionFromRecord(rec methodRecord, kv map[string]string, num func(string, float64) (float64, error)) (*Conversion, error) {
	var values []OperationParameterValue
	for _, p := range rec.Params {
		v, err := num(p.ProjName, 0)
		if err != nil {
			return nil, err
		}
		var m Measure
		switch defaultParameterUnit(p.Code, p.Name).Kind {
		case UnitKindAngle:
			m = Degrees(v)
		case UnitKindScale:
			m = ScaleOf(v)
			if _, present := kv[p.ProjName]; !present {
				m = ScaleOf(1)
			}
		default:
			m = Metres(v)
		}
		values = append(values, measureParam(p.Name, p.Code, m))
	}
	return NewConversion(IdentifiedObject{Name: "unknown"}, newMethod(rec.Name, rec.Code), values)
}
