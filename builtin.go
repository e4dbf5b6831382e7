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
	"sync"
)

// Well-known CRSs, materialized lazily and shared. They are
// immutable after construction, so handing out the same pointer is
// safe.
var (
	builtinOnce sync.Once

	crsWGS84Geographic   *GeographicCRS // EPSG:4326
	crsWGS84Geographic3D *GeographicCRS // EPSG:4979
	crsWGS84Geocentric   *GeodeticCRS   // EPSG:4978
	crsETRS89            *GeographicCRS // EPSG:4258
	crsRGF93             *GeographicCRS // EPSG:4171
	crsNTFParis          *GeographicCRS // EPSG:4807
	crsNTF               *GeographicCRS // EPSG:4275
	crsPulkovo4258       *GeographicCRS // EPSG:4179
	crsNAD83             *GeographicCRS // EPSG:4269
	crsNAD27             *GeographicCRS // EPSG:4267
	crsED50              *GeographicCRS // EPSG:4230
	crsWGS72             *GeographicCRS // EPSG:4322
	crsUTM31WGS84        *ProjectedCRS  // EPSG:32631
	crsUTM32WGS84        *ProjectedCRS  // EPSG:32632
	crsLambert93         *ProjectedCRS  // EPSG:2154
)

func buildBuiltins() {
	mustGeog := func(name, code string, datum Datum, cs *CoordinateSystem) *GeographicCRS {
		g, err := NewGeographicCRS(namedObject(name, code), datum, cs)
		if err != nil {
			panic(fmt.Sprintf("geocrs: builtin CRS %s: %v", code, err))
		}
		return g
	}
	crsWGS84Geographic = mustGeog("WGS 84", "4326", DatumWGS84, NewEllipsoidalCS2D())
	crsWGS84Geographic3D = mustGeog("WGS 84", "4979", DatumWGS84, NewEllipsoidalCS3D())
	crsWGS84Geocentric, _ = NewGeocentricCRS(namedObject("WGS 84", "4978"), DatumWGS84, NewGeocentricCS())
	crsETRS89 = mustGeog("ETRS89", "4258", DatumETRS89, NewEllipsoidalCS2D())
	crsRGF93 = mustGeog("RGF93", "4171", DatumRGF93, NewEllipsoidalCS2D())
	crsNTFParis = mustGeog("NTF (Paris)", "4807", DatumNTFParis, NewEllipsoidalCS2DUnit(Grad))
	crsNTF = mustGeog("NTF", "4275", DatumNTF, NewEllipsoidalCS2D())
	crsPulkovo4258 = mustGeog("Pulkovo 1942(58)", "4179", DatumPulkovo4258, NewEllipsoidalCS2D())
	crsNAD83 = mustGeog("NAD83", "4269", DatumNAD83, NewEllipsoidalCS2D())
	crsNAD27 = mustGeog("NAD27", "4267", DatumNAD27, NewEllipsoidalCS2D())
	crsED50 = mustGeog("ED50", "4230", DatumED50, NewEllipsoidalCS2D())
	crsWGS72 = mustGeog("WGS 72", "4322", DatumWGS72, NewEllipsoidalCS2D())
	crsUTM31WGS84 = mustUTM("WGS 84 / UTM zone 31N", "32631", crsWGS84Geographic, 31, false)
	crsUTM32WGS84 = mustUTM("WGS 84 / UTM zone 32N", "32632", crsWGS84Geographic, 32, false)
	crsLambert93 = mustLambert93()
}

func mustUTM(name, code string, base *GeographicCRS, zone int, south bool) *ProjectedCRS {
	conv := NewUTMConversion(zone, south)
	conv.src = base
	p, err := NewProjectedCRS(namedObject(name, code), base, conv, NewCartesianEastingNorthing(Metre))
	if err != nil {
		panic(fmt.Sprintf("geocrs: builtin CRS %s: %v", code, err))
	}
	return p
}

func mustLambert93() *ProjectedCRS {
	conv, _ := NewConversion(namedObject("Lambert-93", "17055"),
		newMethod(MethodLambertConic2SP, epsgLambertConic2SP),
		[]OperationParameterValue{
			measureParam(ParamLatFalseOrigin, epsgParamLatFalseOrigin, Degrees(46.5)),
			measureParam(ParamLonFalseOrigin, epsgParamLonFalseOrigin, Degrees(3)),
			measureParam(ParamLat1stStdParallel, epsgParamLat1stStdParallel, Degrees(49)),
			measureParam(ParamLat2ndStdParallel, epsgParamLat2ndStdParallel, Degrees(44)),
			measureParam(ParamEastingFalseOrigin, epsgParamEastingFalseOrigin, Metres(700000)),
			measureParam(ParamNorthingFalseOrigin, epsgParamNorthingFalseOrigin, Metres(6600000)),
		})
	conv.src = crsRGF93
	p, err := NewProjectedCRS(namedObject("RGF93 / Lambert-93", "2154"), crsRGF93, conv, NewCartesianEastingNorthing(Metre))
	if err != nil {
		panic(fmt.Sprintf("geocrs: builtin CRS 2154: %v", err))
	}
	return p
}

// NewUTMConversion builds the deriving conversion of a UTM zone:
// Transverse Mercator with the standard UTM parameters.
func NewUTMConversion(zone int, south bool) *Conversion {
	fn := 0.0
	hemi := "N"
	if south {
		fn = 10000000
		hemi = "S"
	}
	conv, _ := NewConversion(
		IdentifiedObject{Name: fmt.Sprintf("UTM zone %d%s", zone, hemi)},
		newMethod(MethodTransverseMercator, epsgTransverseMercator),
		[]OperationParameterValue{
			measureParam(ParamLatNaturalOrigin, epsgParamLatNaturalOrigin, Degrees(0)),
			measureParam(ParamLonNaturalOrigin, epsgParamLonNaturalOrigin, Degrees(float64(zone*6-183))),
			measureParam(ParamScaleNaturalOrigin, epsgParamScaleNaturalOrigin, ScaleOf(0.9996)),
			measureParam(ParamFalseEasting, epsgParamFalseEasting, Metres(500000)),
			measureParam(ParamFalseNorthing, epsgParamFalseNorthing, Metres(fn)),
		})
	return conv
}

// utmZoneOf recognizes a conversion carrying the standard UTM
// parameters and returns its zone.
func utmZoneOf(c *Conversion) (zone int, south, ok bool) {
	if c.Method.EPSGCode() != epsgTransverseMercator && !c.Method.nameMatches(MethodTransverseMercator) {
		return 0, false, false
	}
	lat, _ := c.Measure(ParamLatNaturalOrigin, epsgParamLatNaturalOrigin)
	lon, _ := c.Measure(ParamLonNaturalOrigin, epsgParamLonNaturalOrigin)
	k, _ := c.Measure(ParamScaleNaturalOrigin, epsgParamScaleNaturalOrigin)
	fe, _ := c.Measure(ParamFalseEasting, epsgParamFalseEasting)
	fn, _ := c.Measure(ParamFalseNorthing, epsgParamFalseNorthing)
	if lat.SI() != 0 || k.SI() != 0.9996 || fe.SI() != 500000 {
		return 0, false, false
	}
	lonDeg := lon.SI() * 180 / math.Pi
	z := (lonDeg + 183) / 6
	zi := int(z + 0.5)
	if zi < 1 || zi > 60 || math.Abs(z-float64(zi)) > 1e-9 {
		return 0, false, false
	}
	switch fn.SI() {
	case 0:
		return zi, false, true
	case 10000000:
		return zi, true, true
	}
	return 0, false, false
}

// CRSWGS84Geographic returns EPSG:4326.
func CRSWGS84Geographic() *GeographicCRS {
	builtinOnce.Do(buildBuiltins)
	return crsWGS84Geographic
}

// CRSWGS84Geocentric returns EPSG:4978.
func CRSWGS84Geocentric() *GeodeticCRS {
	builtinOnce.Do(buildBuiltins)
	return crsWGS84Geocentric
}
