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

// EPSG method codes for the operation methods the package knows how
// to read, write, and invert.
const (
	epsgTransverseMercator       = "9807"
	epsgTransverseMercatorSouth  = "9808"
	epsgMercatorA                = "9804"
	epsgMercatorB                = "9805"
	epsgLambertConic1SP          = "9801"
	epsgLambertConic2SP          = "9802"
	epsgAlbersEqualArea          = "9822"
	epsgObliqueStereographic     = "9809"
	epsgPolarStereographicA      = "9810"
	epsgLambertAzimuthalEqArea   = "9820"
	epsgGeocentricTranslations   = "9603"
	epsgPositionVector           = "9606"
	epsgCoordinateFrame          = "9607"
	epsgGeocentricTranslationsGC = "1031"
	epsgCoordinateFrameGC        = "1032"
	epsgPositionVectorGC         = "1033"
	epsgTimeDepPositionVector    = "1053"
	epsgTimeDepCoordinateFrame   = "1056"
	epsgMolodensky               = "9604"
	epsgAbridgedMolodensky       = "9605"
	epsgNADCON                   = "9613"
	epsgNTv1                     = "9614"
	epsgNTv2                     = "9615"
	epsgVERTCON                  = "9658"
	epsgLongitudeRotation        = "9601"
	epsgGeographic2DOffsets      = "9619"
	epsgVerticalOffset           = "9616"
	epsgGeographic3DTo2D         = "9659"
	epsgGeocentricConversion     = "9602"
)

// EPSG method names.
const (
	MethodTransverseMercator      = "Transverse Mercator"
	MethodMercatorA               = "Mercator (variant A)"
	MethodMercatorB               = "Mercator (variant B)"
	MethodLambertConic1SP         = "Lambert Conic Conformal (1SP)"
	MethodLambertConic2SP         = "Lambert Conic Conformal (2SP)"
	MethodAlbersEqualArea         = "Albers Equal Area"
	MethodObliqueStereographic    = "Oblique Stereographic"
	MethodPolarStereographicA     = "Polar Stereographic (variant A)"
	MethodLambertAzimuthalEqArea  = "Lambert Azimuthal Equal Area"
	MethodGeocentricTranslations  = "Geocentric translations (geog2D domain)"
	MethodPositionVector          = "Position Vector transformation (geog2D domain)"
	MethodCoordinateFrame         = "Coordinate Frame rotation (geog2D domain)"
	MethodTimeDepPositionVector   = "Time-dependent Position Vector tfm (geocentric)"
	MethodTimeDepCoordinateFrame  = "Time-dependent Coordinate Frame rotation (geocen)"
	MethodMolodensky              = "Molodensky"
	MethodAbridgedMolodensky      = "Abridged Molodensky"
	MethodNADCON                  = "NADCON"
	MethodNTv2                    = "NTv2"
	MethodVERTCON                 = "VERTCON"
	MethodLongitudeRotation       = "Longitude rotation"
	MethodGeographic2DOffsets     = "Geographic2D offsets"
	MethodVerticalOffset          = "Vertical Offset"
)

// EPSG parameter codes.
const (
	epsgParamLatNaturalOrigin    = "8801"
	epsgParamLonNaturalOrigin    = "8802"
	epsgParamScaleNaturalOrigin  = "8805"
	epsgParamFalseEasting        = "8806"
	epsgParamFalseNorthing       = "8807"
	epsgParamLatFalseOrigin      = "8821"
	epsgParamLonFalseOrigin      = "8822"
	epsgParamLat1stStdParallel   = "8823"
	epsgParamLat2ndStdParallel   = "8824"
	epsgParamEastingFalseOrigin  = "8826"
	epsgParamNorthingFalseOrigin = "8827"
	epsgParamXTranslation        = "8605"
	epsgParamYTranslation        = "8606"
	epsgParamZTranslation        = "8607"
	epsgParamXRotation           = "8608"
	epsgParamYRotation           = "8609"
	epsgParamZRotation           = "8610"
	epsgParamScaleDifference     = "8611"
	epsgParamRateXTranslation    = "1040"
	epsgParamRateYTranslation    = "1041"
	epsgParamRateZTranslation    = "1042"
	epsgParamRateXRotation       = "1043"
	epsgParamRateYRotation       = "1044"
	epsgParamRateZRotation       = "1045"
	epsgParamRateScaleDifference = "1046"
	epsgParamReferenceEpoch      = "1047"
	epsgParamLatOffset           = "8601"
	epsgParamLonOffset           = "8602"
	epsgParamVerticalOffsetValue = "8603"
	epsgParamSemiMajorDifference = "8654"
	epsgParamFlatteningDiff      = "8655"
	epsgParamLatLonDifferenceFile = "8656"
	epsgParamVerticalOffsetFile   = "8732"
)

// EPSG parameter names.
const (
	ParamLatNaturalOrigin    = "Latitude of natural origin"
	ParamLonNaturalOrigin    = "Longitude of natural origin"
	ParamScaleNaturalOrigin  = "Scale factor at natural origin"
	ParamFalseEasting        = "False easting"
	ParamFalseNorthing       = "False northing"
	ParamLatFalseOrigin      = "Latitude of false origin"
	ParamLonFalseOrigin      = "Longitude of false origin"
	ParamLat1stStdParallel   = "Latitude of 1st standard parallel"
	ParamLat2ndStdParallel   = "Latitude of 2nd standard parallel"
	ParamEastingFalseOrigin  = "Easting at false origin"
	ParamNorthingFalseOrigin = "Northing at false origin"
	ParamXTranslation        = "X-axis translation"
	ParamYTranslation        = "Y-axis translation"
	ParamZTranslation        = "Z-axis translation"
	ParamXRotation           = "X-axis rotation"
	ParamYRotation           = "Y-axis rotation"
	ParamZRotation           = "Z-axis rotation"
	ParamScaleDifference     = "Scale difference"
	ParamRateXTranslation    = "Rate of change of X-axis translation"
	ParamRateYTranslation    = "Rate of change of Y-axis translation"
	ParamRateZTranslation    = "Rate of change of Z-axis translation"
	ParamRateXRotation       = "Rate of change of X-axis rotation"
	ParamRateYRotation       = "Rate of change of Y-axis rotation"
	ParamRateZRotation       = "Rate of change of Z-axis rotation"
	ParamRateScaleDifference = "Rate of change of Scale difference"
	ParamReferenceEpoch      = "Parameter reference epoch"
	ParamLatOffset           = "Latitude offset"
	ParamLonOffset           = "Longitude offset"
	ParamVerticalOffsetValue = "Vertical Offset"
	ParamSemiMajorDifference = "Semi-major axis length difference"
	ParamFlatteningDiff      = "Flattening difference"
	ParamLatLonDifferenceFile = "Latitude and longitude difference file"
	ParamVerticalOffsetFile   = "Vertical offset file"
)

// methodParam associates a WKT2 parameter with its EPSG code and its
// WKT1 and proj-string spellings.
type methodParam struct {
	Name     string
	Code     string
	WKT1Name string
	ProjName string
}

// methodRecord describes an operation method across the three textual
// surfaces.
type methodRecord struct {
	Name     string
	Code     string
	WKT1Name string // "" when WKT1 cannot express the method
	ProjName string // "" when there is no single proj operation
	Params   []methodParam
}

var paramLatOrigin = methodParam{ParamLatNaturalOrigin, epsgParamLatNaturalOrigin, "latitude_of_origin", "lat_0"}
var paramLonOrigin = methodParam{ParamLonNaturalOrigin, epsgParamLonNaturalOrigin, "central_meridian", "lon_0"}
var paramScale = methodParam{ParamScaleNaturalOrigin, epsgParamScaleNaturalOrigin, "scale_factor", "k_0"}
var paramFE = methodParam{ParamFalseEasting, epsgParamFalseEasting, "false_easting", "x_0"}
var paramFN = methodParam{ParamFalseNorthing, epsgParamFalseNorthing, "false_northing", "y_0"}

// methodRegistry lists the projection methods understood natively.
// Transformation (datum-shift) methods are listed separately below
// because their proj rendition is not a single projection step.
var methodRegistry = []methodRecord{
	{MethodTransverseMercator, epsgTransverseMercator, "Transverse_Mercator", "tmerc",
		[]methodParam{paramLatOrigin, paramLonOrigin, paramScale, paramFE, paramFN}},
	{MethodMercatorA, epsgMercatorA, "Mercator_1SP", "merc",
		[]methodParam{paramLatOrigin, paramLonOrigin, paramScale, paramFE, paramFN}},
	{MethodMercatorB, epsgMercatorB, "Mercator_2SP", "merc",
		[]methodParam{
			{ParamLat1stStdParallel, epsgParamLat1stStdParallel, "standard_parallel_1", "lat_ts"},
			paramLonOrigin, paramFE, paramFN}},
	{MethodLambertConic1SP, epsgLambertConic1SP, "Lambert_Conformal_Conic_1SP", "lcc",
		[]methodParam{paramLatOrigin, paramLonOrigin, paramScale, paramFE, paramFN}},
	{MethodLambertConic2SP, epsgLambertConic2SP, "Lambert_Conformal_Conic_2SP", "lcc",
		[]methodParam{
			{ParamLatFalseOrigin, epsgParamLatFalseOrigin, "latitude_of_origin", "lat_0"},
			{ParamLonFalseOrigin, epsgParamLonFalseOrigin, "central_meridian", "lon_0"},
			{ParamLat1stStdParallel, epsgParamLat1stStdParallel, "standard_parallel_1", "lat_1"},
			{ParamLat2ndStdParallel, epsgParamLat2ndStdParallel, "standard_parallel_2", "lat_2"},
			{ParamEastingFalseOrigin, epsgParamEastingFalseOrigin, "false_easting", "x_0"},
			{ParamNorthingFalseOrigin, epsgParamNorthingFalseOrigin, "false_northing", "y_0"}}},
	{MethodAlbersEqualArea, epsgAlbersEqualArea, "Albers_Conic_Equal_Area", "aea",
		[]methodParam{
			{ParamLatFalseOrigin, epsgParamLatFalseOrigin, "latitude_of_center", "lat_0"},
			{ParamLonFalseOrigin, epsgParamLonFalseOrigin, "longitude_of_center", "lon_0"},
			{ParamLat1stStdParallel, epsgParamLat1stStdParallel, "standard_parallel_1", "lat_1"},
			{ParamLat2ndStdParallel, epsgParamLat2ndStdParallel, "standard_parallel_2", "lat_2"},
			{ParamEastingFalseOrigin, epsgParamEastingFalseOrigin, "false_easting", "x_0"},
			{ParamNorthingFalseOrigin, epsgParamNorthingFalseOrigin, "false_northing", "y_0"}}},
	{MethodObliqueStereographic, epsgObliqueStereographic, "Oblique_Stereographic", "sterea",
		[]methodParam{paramLatOrigin, paramLonOrigin, paramScale, paramFE, paramFN}},
	{MethodPolarStereographicA, epsgPolarStereographicA, "Polar_Stereographic", "stere",
		[]methodParam{paramLatOrigin, paramLonOrigin, paramScale, paramFE, paramFN}},
	{MethodLambertAzimuthalEqArea, epsgLambertAzimuthalEqArea, "Lambert_Azimuthal_Equal_Area", "laea",
		[]methodParam{
			{ParamLatNaturalOrigin, epsgParamLatNaturalOrigin, "latitude_of_center", "lat_0"},
			{ParamLonNaturalOrigin, epsgParamLonNaturalOrigin, "longitude_of_center", "lon_0"},
			paramFE, paramFN}},
}

// methodByCode looks a method record up by EPSG code.
func methodByCode(code string) (methodRecord, bool) {
	for _, m := range methodRegistry {
		if m.Code == code {
			return m, true
		}
	}
	return methodRecord{}, false
}

// methodByName looks a method record up by canonical WKT2 name.
func methodByName(name string) (methodRecord, bool) {
	c := canonicalName(name)
	for _, m := range methodRegistry {
		if canonicalName(m.Name) == c {
			return m, true
		}
	}
	return methodRecord{}, false
}

// methodByWKT1Name resolves a WKT1 PROJECTION name. The Mercator_1SP
// ambiguity (it can encode variant B) is resolved by the caller, which
// sees the parameter values; this lookup returns the variant-A record.
func methodByWKT1Name(name string) (methodRecord, bool) {
	c := canonicalName(name)
	for _, m := range methodRegistry {
		if m.WKT1Name != "" && canonicalName(m.WKT1Name) == c {
			return m, true
		}
	}
	return methodRecord{}, false
}

// methodByProjName resolves a +proj= projection name. Both Mercator
// variants share "merc"; variant A is returned and the parser decides
// from +lat_ts whether variant B applies.
func methodByProjName(name string) (methodRecord, bool) {
	for _, m := range methodRegistry {
		if m.ProjName == name && m.Code != epsgMercatorB && m.Code != epsgLambertConic2SP {
			return m, true
		}
	}
	return methodRecord{}, false
}

// param looks up a method's parameter descriptor by canonical name.
func (m methodRecord) param(name string) (methodParam, bool) {
	c := canonicalName(name)
	for _, p := range m.Params {
		if canonicalName(p.Name) == c || canonicalName(p.WKT1Name) == c {
			return p, true
		}
	}
	return methodParam{}, false
}

// helmertMethods enumerates the Helmert family: methods whose
// parameters are translations, optionally rotations, scale, and their
// rates, and whose inverse is the parameter-wise negation.
var helmertMethods = map[string]string{
	epsgGeocentricTranslations:   MethodGeocentricTranslations,
	epsgGeocentricTranslationsGC: "Geocentric translations (geocentric domain)",
	epsgPositionVector:           MethodPositionVector,
	epsgPositionVectorGC:         "Position Vector transformation (geocentric domain)",
	epsgCoordinateFrame:          MethodCoordinateFrame,
	epsgCoordinateFrameGC:        "Coordinate Frame rotation (geocentric domain)",
	epsgTimeDepPositionVector:    MethodTimeDepPositionVector,
	epsgTimeDepCoordinateFrame:   MethodTimeDepCoordinateFrame,
}

// isHelmertCode reports membership in the Helmert method family.
func isHelmertCode(code string) bool {
	_, ok := helmertMethods[code]
	return ok
}

// isPositionVectorCode reports the position-vector rotation sign
// convention; coordinate-frame methods use the opposite one.
func isPositionVectorCode(code string) bool {
	return code == epsgPositionVector || code == epsgPositionVectorGC || code == epsgTimeDepPositionVector
}

// isGridMethodCode reports whether a method is grid-file based; its
// inverse keeps the parameters and the runtime flips direction.
func isGridMethodCode(code string) bool {
	switch code {
	case epsgNTv1, epsgNTv2, epsgNADCON, epsgVERTCON:
		return true
	}
	return false
}

// helmertParamCodes lists the sign-flipped parameters of a Helmert
// transformation, in canonical order. The reference epoch (1047) is
// deliberately absent: it is preserved by inversion.
var helmertParamCodes = []struct {
	Name string
	Code string
}{
	{ParamXTranslation, epsgParamXTranslation},
	{ParamYTranslation, epsgParamYTranslation},
	{ParamZTranslation, epsgParamZTranslation},
	{ParamXRotation, epsgParamXRotation},
	{ParamYRotation, epsgParamYRotation},
	{ParamZRotation, epsgParamZRotation},
	{ParamScaleDifference, epsgParamScaleDifference},
	{ParamRateXTranslation, epsgParamRateXTranslation},
	{ParamRateYTranslation, epsgParamRateYTranslation},
	{ParamRateZTranslation, epsgParamRateZTranslation},
	{ParamRateXRotation, epsgParamRateXRotation},
	{ParamRateYRotation, epsgParamRateYRotation},
	{ParamRateZRotation, epsgParamRateZRotation},
	{ParamRateScaleDifference, epsgParamRateScaleDifference},
}

// isNegatedOnInversion reports whether a parameter's sign flips when a
// Helmert or offset transformation is inverted.
func isNegatedOnInversion(code string) bool {
	switch code {
	case epsgParamReferenceEpoch, epsgParamLatLonDifferenceFile, epsgParamVerticalOffsetFile:
		return false
	}
	return true
}
