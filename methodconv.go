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

import "math"

// This file converts map-projection conversions between equivalent
// methods: Mercator variant A <-> variant B and Lambert Conic
// Conformal 1SP <-> 2SP. These conversions power WKT1 round-tripping
// of CRSs whose native method differs from their WKT1 expression.
// Numerically impossible inputs yield (nil, false), never an error,
// so callers can fall back cleanly.

// msfn is the cone constant helper m(φ) = cosφ/√(1−e²sin²φ).
func msfn(phi, es float64) float64 {
	s := math.Sin(phi)
	return math.Cos(phi) / math.Sqrt(1-es*s*s)
}

// tsfn is the isometric-latitude helper
// t(φ) = tan(π/4−φ/2)/((1−e·sinφ)/(1+e·sinφ))^(e/2).
func tsfn(phi, e float64) float64 {
	s := e * math.Sin(phi)
	return math.Tan(math.Pi/4-phi/2) / math.Pow((1-s)/(1+s), e/2)
}

// conversionEllipsoid returns the ellipsoid of the conversion's
// source CRS, needed by every method-to-method formula.
func conversionEllipsoid(c *Conversion) *Ellipsoid {
	if c.src == nil {
		return nil
	}
	g := ExtractGeographicCRS(c.src)
	if g == nil {
		if gc, ok := c.src.(*GeodeticCRS); ok {
			return gc.Ellipsoid()
		}
		return nil
	}
	return g.Ellipsoid()
}

// ConvertConversionToMethod re-expresses a conversion in an
// equivalent method, identified by EPSG code. It returns false when
// the methods are unrelated, when the conversion has no CRS (and so
// no ellipsoid), or when the inputs are numerically impossible.
func ConvertConversionToMethod(c *Conversion, targetEPSGCode string) (*Conversion, bool) {
	return convertConversion(c, newMethod("", targetEPSGCode))
}

func convertConversion(c *Conversion, target *OperationMethod) (*Conversion, bool) {
	if c == nil || c.Method == nil || target == nil {
		return nil, false
	}
	cur, tgt := c.Method.EPSGCode(), target.EPSGCode()
	if cur == tgt {
		return c, true
	}
	switch {
	case cur == epsgMercatorA && tgt == epsgMercatorB:
		return mercatorAToB(c)
	case cur == epsgMercatorB && tgt == epsgMercatorA:
		return mercatorBToA(c)
	case cur == epsgLambertConic2SP && tgt == epsgLambertConic1SP:
		return lcc2spTo1sp(c)
	case cur == epsgLambertConic1SP && tgt == epsgLambertConic2SP:
		return lcc1spTo2sp(c)
	}
	return nil, false
}

// eccentricityOf returns (e², e, ok); not ok when there is no
// ellipsoid or its eccentricity is outside [0, 1).
func eccentricityOf(c *Conversion) (es, e float64, ok bool) {
	ellps := conversionEllipsoid(c)
	if ellps == nil {
		return 0, 0, false
	}
	es = ellps.SquaredEccentricity()
	if es < 0 || es >= 1 {
		return 0, 0, false
	}
	return es, math.Sqrt(es), true
}

// mercatorAToB transforms (scale factor at natural origin) into the
// latitude of the standard parallel with the same scale.
func mercatorAToB(c *Conversion) (*Conversion, bool) {
	es, _, ok := eccentricityOf(c)
	if !ok {
		return nil, false
	}
	k0m, ok := c.Measure(ParamScaleNaturalOrigin, epsgParamScaleNaturalOrigin)
	if !ok {
		return nil, false
	}
	k0 := k0m.SI()
	if k0 <= 0 || k0 > 1 {
		return nil, false
	}
	sin2 := (1 - k0*k0) / (1 - k0*k0*es)
	if sin2 < 0 || sin2 > 1 {
		return nil, false
	}
	phi1 := math.Asin(math.Sqrt(sin2))
	lon, _ := c.Measure(ParamLonNaturalOrigin, epsgParamLonNaturalOrigin)
	fe, _ := c.Measure(ParamFalseEasting, epsgParamFalseEasting)
	fn, _ := c.Measure(ParamFalseNorthing, epsgParamFalseNorthing)
	out := &Conversion{
		IdentifiedObject: IdentifiedObject{Name: c.Name},
		Method:           newMethod(MethodMercatorB, epsgMercatorB),
		Values: []OperationParameterValue{
			measureParam(ParamLat1stStdParallel, epsgParamLat1stStdParallel, Degrees(phi1*180/math.Pi)),
			measureParam(ParamLonNaturalOrigin, epsgParamLonNaturalOrigin, lon),
			measureParam(ParamFalseEasting, epsgParamFalseEasting, fe),
			measureParam(ParamFalseNorthing, epsgParamFalseNorthing, fn),
		},
		src: c.src, dst: c.dst,
	}
	return out, true
}

// mercatorBToA computes the scale factor at the equator from the
// standard parallel.
func mercatorBToA(c *Conversion) (*Conversion, bool) {
	es, _, ok := eccentricityOf(c)
	if !ok {
		return nil, false
	}
	phi1m, ok := c.Measure(ParamLat1stStdParallel, epsgParamLat1stStdParallel)
	if !ok {
		return nil, false
	}
	phi1 := phi1m.SI()
	if math.Abs(phi1) >= math.Pi/2 {
		return nil, false
	}
	k0 := msfn(phi1, es)
	lon, _ := c.Measure(ParamLonNaturalOrigin, epsgParamLonNaturalOrigin)
	fe, _ := c.Measure(ParamFalseEasting, epsgParamFalseEasting)
	fn, _ := c.Measure(ParamFalseNorthing, epsgParamFalseNorthing)
	out := &Conversion{
		IdentifiedObject: IdentifiedObject{Name: c.Name},
		Method:           newMethod(MethodMercatorA, epsgMercatorA),
		Values: []OperationParameterValue{
			measureParam(ParamLatNaturalOrigin, epsgParamLatNaturalOrigin, Degrees(0)),
			measureParam(ParamLonNaturalOrigin, epsgParamLonNaturalOrigin, lon),
			measureParam(ParamScaleNaturalOrigin, epsgParamScaleNaturalOrigin, ScaleOf(k0)),
			measureParam(ParamFalseEasting, epsgParamFalseEasting, fe),
			measureParam(ParamFalseNorthing, epsgParamFalseNorthing, fn),
		},
		src: c.src, dst: c.dst,
	}
	return out, true
}

// sameParallelTol is the radian tolerance below which two standard
// parallels are treated as one.
const sameParallelTol = 1e-10

// lcc2spTo1sp collapses a two-standard-parallel Lambert cone to the
// equivalent single-parallel form.
func lcc2spTo1sp(c *Conversion) (*Conversion, bool) {
	es, e, ok := eccentricityOf(c)
	if !ok {
		return nil, false
	}
	ellps := conversionEllipsoid(c)
	a := ellps.SemiMajor.SI()
	phi0m, ok0 := c.Measure(ParamLatFalseOrigin, epsgParamLatFalseOrigin)
	phi1m, ok1 := c.Measure(ParamLat1stStdParallel, epsgParamLat1stStdParallel)
	phi2m, ok2 := c.Measure(ParamLat2ndStdParallel, epsgParamLat2ndStdParallel)
	if !ok0 || !ok1 || !ok2 {
		return nil, false
	}
	phi0, phi1, phi2 := phi0m.SI(), phi1m.SI(), phi2m.SI()
	if math.Abs(phi1) >= math.Pi/2 || math.Abs(phi2) >= math.Pi/2 {
		return nil, false
	}
	lon, _ := c.Measure(ParamLonFalseOrigin, epsgParamLonFalseOrigin)
	fe, _ := c.Measure(ParamEastingFalseOrigin, epsgParamEastingFalseOrigin)
	fn, _ := c.Measure(ParamNorthingFalseOrigin, epsgParamNorthingFalseOrigin)

	var n, f, lat0, k0 float64
	if math.Abs(phi1-phi2) < sameParallelTol {
		// Tangent cone: the parallel is the natural origin and the
		// scale there is one.
		n = math.Sin(phi1)
		if n == 0 {
			return nil, false
		}
		f = msfn(phi1, es) / (n * math.Pow(tsfn(phi1, e), n))
		lat0, k0 = phi1, 1
	} else {
		if math.Abs(phi1+phi2) < sameParallelTol {
			// Opposite parallels degenerate to a cylinder.
			return nil, false
		}
		m1, m2 := msfn(phi1, es), msfn(phi2, es)
		t1, t2 := tsfn(phi1, e), tsfn(phi2, e)
		n = (math.Log(m1) - math.Log(m2)) / (math.Log(t1) - math.Log(t2))
		if n == 0 {
			return nil, false
		}
		f = m1 / (n * math.Pow(t1, n))
		lat0 = math.Asin(n)
		k0 = m1 * math.Pow(tsfn(lat0, e), n) / (msfn(lat0, es) * math.Pow(t1, n))
	}
	// Shift the false northing from the false origin to the natural
	// origin along the central meridian.
	y0 := fn.SI() + a*f*(math.Pow(tsfn(phi0, e), n)-math.Pow(tsfn(lat0, e), n))

	out := &Conversion{
		IdentifiedObject: IdentifiedObject{Name: c.Name},
		Method:           newMethod(MethodLambertConic1SP, epsgLambertConic1SP),
		Values: []OperationParameterValue{
			measureParam(ParamLatNaturalOrigin, epsgParamLatNaturalOrigin, Degrees(lat0*180/math.Pi)),
			measureParam(ParamLonNaturalOrigin, epsgParamLonNaturalOrigin, lon),
			measureParam(ParamScaleNaturalOrigin, epsgParamScaleNaturalOrigin, ScaleOf(k0)),
			measureParam(ParamFalseEasting, epsgParamFalseEasting, fe),
			measureParam(ParamFalseNorthing, epsgParamFalseNorthing, Metres(y0)),
		},
		src: c.src, dst: c.dst,
	}
	return out, true
}

// lcc1spTo2sp finds the two parallels at which the secant cone of a
// 1SP Lambert projection cuts the ellipsoid. With k0 = 1 the cone is
// tangent and both parallels coincide with the natural origin.
func lcc1spTo2sp(c *Conversion) (*Conversion, bool) {
	es, e, ok := eccentricityOf(c)
	if !ok {
		return nil, false
	}
	ellps := conversionEllipsoid(c)
	a := ellps.SemiMajor.SI()
	phi0m, ok0 := c.Measure(ParamLatNaturalOrigin, epsgParamLatNaturalOrigin)
	k0m, okk := c.Measure(ParamScaleNaturalOrigin, epsgParamScaleNaturalOrigin)
	if !ok0 || !okk {
		return nil, false
	}
	phi0, k0 := phi0m.SI(), k0m.SI()
	if math.Abs(phi0) >= math.Pi/2 || phi0 == 0 || k0 <= 0 || k0 > 1 {
		return nil, false
	}
	lon, _ := c.Measure(ParamLonNaturalOrigin, epsgParamLonNaturalOrigin)
	fe, _ := c.Measure(ParamFalseEasting, epsgParamFalseEasting)
	fn, _ := c.Measure(ParamFalseNorthing, epsgParamFalseNorthing)

	n := math.Sin(phi0)
	var phi1, phi2 float64
	if k0 == 1 {
		phi1, phi2 = phi0, phi0
	} else {
		// The point scale of the cone is
		// k(φ) = k0·m0·t(φ)ⁿ/(m(φ)·t0ⁿ); the standard parallels are
		// its two unit roots, bracketing φ0.
		m0, t0 := msfn(phi0, es), tsfn(phi0, e)
		scale := func(phi float64) float64 {
			return k0 * m0 * math.Pow(tsfn(phi, e)/t0, n) / msfn(phi, es)
		}
		var found1, found2 bool
		phi1, found1 = unitScaleRoot(scale, phi0, sideBelow(phi0))
		phi2, found2 = unitScaleRoot(scale, phi0, sideAbove(phi0))
		if !found1 || !found2 {
			return nil, false
		}
		// Larger parallel first, matching the usual EPSG ordering.
		if phi1 < phi2 {
			phi1, phi2 = phi2, phi1
		}
	}
	// The false origin goes at the midpoint of the two parallels;
	// both forms share the grid, so the false northing is the
	// northing of that point in the 1SP grid.
	m0, t0 := msfn(phi0, es), tsfn(phi0, e)
	f0 := m0 / (n * math.Pow(t0, n))
	phiF := (phi1 + phi2) / 2
	yF := fn.SI() + a*k0*f0*(math.Pow(t0, n)-math.Pow(tsfn(phiF, e), n))

	out := &Conversion{
		IdentifiedObject: IdentifiedObject{Name: c.Name},
		Method:           newMethod(MethodLambertConic2SP, epsgLambertConic2SP),
		Values: []OperationParameterValue{
			measureParam(ParamLatFalseOrigin, epsgParamLatFalseOrigin, Degrees(phiF*180/math.Pi)),
			measureParam(ParamLonFalseOrigin, epsgParamLonFalseOrigin, lon),
			measureParam(ParamLat1stStdParallel, epsgParamLat1stStdParallel, Degrees(phi1*180/math.Pi)),
			measureParam(ParamLat2ndStdParallel, epsgParamLat2ndStdParallel, Degrees(phi2*180/math.Pi)),
			measureParam(ParamEastingFalseOrigin, epsgParamEastingFalseOrigin, fe),
			measureParam(ParamNorthingFalseOrigin, epsgParamNorthingFalseOrigin, Metres(yF)),
		},
		src: c.src, dst: c.dst,
	}
	return out, true
}

func sideBelow(phi float64) [2]float64 {
	lo := -math.Pi/2 + 1e-9
	if phi > 0 {
		lo = 1e-12
	}
	return [2]float64{lo, phi}
}

func sideAbove(phi float64) [2]float64 {
	hi := math.Pi/2 - 1e-9
	if phi < 0 {
		hi = -1e-12
	}
	return [2]float64{phi, hi}
}

// unitScaleRoot finds the latitude in the given bracket at which the
// point scale reaches one, by bisection. The scale is k0 < 1 at the
// natural origin and grows monotonically toward the bracket's far
// end.
func unitScaleRoot(scale func(float64) float64, phi0 float64, bracket [2]float64) (float64, bool) {
	lo, hi := bracket[0], bracket[1]
	// Orient so that f(lo) and f(hi) straddle zero.
	f := func(phi float64) float64 { return scale(phi) - 1 }
	flo, fhi := f(lo), f(hi)
	if flo*fhi > 0 {
		return 0, false
	}
	for i := 0; i < 100; i++ {
		mid := (lo + hi) / 2
		fm := f(mid)
		if fm == 0 || hi-lo < 1e-16 {
			return mid, true
		}
		if flo*fm <= 0 {
			hi, fhi = mid, fm
		} else {
			lo, flo = mid, fm
		}
	}
	return (lo + hi) / 2, true
}
