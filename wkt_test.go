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
	"testing"
)

func oneLine(c WKTConvention) *WKTFormatter {
	return &WKTFormatter{Convention: c, MultiLine: false}
}

func TestWKTTokenizer(t *testing.T) {
	node, err := tokenizeWKT(`FOO["a b",1.5,BAR(2,"x ""y"""),baz]`)
	if err != nil {
		t.Fatal(err)
	}
	if node.Key != "FOO" || len(node.Children) != 4 {
		t.Fatalf("unexpected node %+v", node)
	}
	if s, _ := node.strAt(0); s != "a b" {
		t.Errorf("first literal: have %q", s)
	}
	if v, ok := node.floatAt(1); !ok || v != 1.5 {
		t.Errorf("numeric literal: have %v (%v)", v, ok)
	}
	bar := node.child("BAR")
	if bar == nil {
		t.Fatal("missing nested node")
	}
	if s, _ := bar.strAt(1); s != `x "y"` {
		t.Errorf("escaped quote: have %q", s)
	}
	if s, _ := node.strAt(2); s != "baz" {
		t.Errorf("bare literal: have %q", s)
	}
	if _, err := tokenizeWKT(`FOO["unterminated]`); err == nil {
		t.Error("an unterminated string should fail")
	}
	if _, err := tokenizeWKT(`FOO[1] trailing`); err == nil {
		t.Error("trailing input should fail")
	}
}

func TestWKT1GDALExportOfWGS84(t *testing.T) {
	builtinOnce.Do(buildBuiltins)
	got, err := oneLine(WKT1GDAL).Format(crsWGS84Geographic)
	if err != nil {
		t.Fatal(err)
	}
	want := `GEOGCS["WGS 84",` +
		`DATUM["WGS_1984",` +
		`SPHEROID["WGS 84",6378137,298.257223563,AUTHORITY["EPSG","7030"]],` +
		`AUTHORITY["EPSG","6326"]],` +
		`PRIMEM["Greenwich",0,AUTHORITY["EPSG","8901"]],` +
		`UNIT["degree",0.0174532925199433,AUTHORITY["EPSG","9122"]],` +
		`AXIS["Latitude",NORTH],AXIS["Longitude",EAST],` +
		`AUTHORITY["EPSG","4326"]]`
	if got != want {
		t.Errorf("WKT1 of EPSG:4326:\nwant %s\nhave %s", want, got)
	}
	back, err := ParseWKTCRS(got)
	if err != nil {
		t.Fatal(err)
	}
	if !back.IsEquivalentTo(crsWGS84Geographic, Equivalent) {
		t.Error("re-parsed WKT1 should be equivalent to the original")
	}
}

func TestWKT2RoundTrips(t *testing.T) {
	builtinOnce.Do(buildBuiltins)
	v := testVerticalCRS(t)
	comp, err := NewCompoundCRS(namedObject("WGS 84 + EGM96 height", "9707"),
		[]CRS{crsWGS84Geographic, v})
	if err != nil {
		t.Fatal(err)
	}
	cases := []CRS{
		crsWGS84Geographic,
		crsWGS84Geographic3D,
		crsWGS84Geocentric,
		crsNTFParis,
		crsUTM31WGS84,
		crsLambert93,
		v,
		comp,
	}
	for _, convention := range []WKTConvention{WKT2_2018, WKT2_2015, WKT2_2018Simplified} {
		for _, crs := range cases {
			wkt, err := oneLine(convention).Format(crs)
			if err != nil {
				t.Errorf("%v: formatting %q: %v", convention, crs.Object().Name, err)
				continue
			}
			back, err := ParseWKTCRS(wkt)
			if err != nil {
				t.Errorf("%v: re-parsing %q: %v\n%s", convention, crs.Object().Name, err, wkt)
				continue
			}
			if !back.IsEquivalentTo(crs, Equivalent) {
				t.Errorf("%v: round trip of %q is not equivalent:\n%s", convention, crs.Object().Name, wkt)
			}
		}
	}
}

func TestWKT2MultiLineParses(t *testing.T) {
	builtinOnce.Do(buildBuiltins)
	wkt, err := NewWKTFormatter(WKT2_2018).Format(crsUTM31WGS84)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(wkt, "\n    ") {
		t.Error("the pretty printer should indent nested nodes")
	}
	back, err := ParseWKTCRS(wkt)
	if err != nil {
		t.Fatal(err)
	}
	if !back.IsEquivalentTo(crsUTM31WGS84, Equivalent) {
		t.Error("multi-line output should re-parse to an equivalent CRS")
	}
}

func TestWKT1TOWGS84MakesBoundCRS(t *testing.T) {
	wkt := `GEOGCS["NTF (Paris)",` +
		`DATUM["Nouvelle_Triangulation_Francaise_Paris",` +
		`SPHEROID["Clarke 1880 (IGN)",6378249.2,293.4660212936269],` +
		`TOWGS84[-168,-60,320,0,0,0,0]],` +
		`PRIMEM["Paris",2.33722917],` +
		`UNIT["grad",0.01570796326794897],` +
		`AUTHORITY["EPSG","4807"]]`
	crs, err := ParseWKTCRS(wkt)
	if err != nil {
		t.Fatal(err)
	}
	bound, ok := crs.(*BoundCRS)
	if !ok {
		t.Fatalf("want a bound CRS but have %T", crs)
	}
	x, _ := bound.Transformation.Measure(ParamXTranslation, epsgParamXTranslation)
	if x.Val != -168 {
		t.Errorf("X translation: want -168 but have %v", x.Val)
	}
	if !bound.Transformation.Method.nameMatches(MethodPositionVector) {
		t.Errorf("TOWGS84 should materialize as position vector, have %q", bound.Transformation.Method.Name)
	}
	// The WKT1 prime meridian is in degrees even though the CRS unit
	// is grads.
	base := bound.Base.(*GeographicCRS)
	if !base.PrimeMeridian().Longitude.Equivalent(Paris.Longitude) {
		t.Errorf("Paris longitude mis-parsed: %v", base.PrimeMeridian().Longitude)
	}
	// Three-parameter TOWGS84 pads with zeros.
	wkt3 := strings.Replace(wkt, "TOWGS84[-168,-60,320,0,0,0,0]", "TOWGS84[-168,-60,320]", 1)
	crs3, err := ParseWKTCRS(wkt3)
	if err != nil {
		t.Fatal(err)
	}
	b3 := crs3.(*BoundCRS)
	if rx, _ := b3.Transformation.Measure(ParamXRotation, epsgParamXRotation); rx.Val != 0 {
		t.Errorf("3-parameter TOWGS84 should pad rotations with zero, have %v", rx.Val)
	}
}

func TestWKT1GeogCSAxisOrderDefault(t *testing.T) {
	wkt := `GEOGCS["WGS 84",DATUM["WGS_1984",SPHEROID["WGS 84",6378137,298.257223563]],` +
		`PRIMEM["Greenwich",0],UNIT["degree",0.0174532925199433]]`
	crs, err := ParseWKTCRS(wkt)
	if err != nil {
		t.Fatal(err)
	}
	g := crs.(*GeographicCRS)
	if g.CS.AxisOrder() != AxisOrderLatNorthLongEast {
		t.Error("an axis-less WKT1 GEOGCS should default to latitude first")
	}
}

func TestWKT1Mercator1SPDisambiguation(t *testing.T) {
	projcs := func(params string) string {
		return `PROJCS["test",GEOGCS["WGS 84",DATUM["WGS_1984",` +
			`SPHEROID["WGS 84",6378137,298.257223563]],PRIMEM["Greenwich",0],` +
			`UNIT["degree",0.0174532925199433]],PROJECTION["Mercator_1SP"],` +
			params +
			`PARAMETER["central_meridian",1],PARAMETER["false_easting",3],` +
			`PARAMETER["false_northing",4],UNIT["metre",1]]`
	}
	// Non-zero latitude of origin with unit scale: variant B.
	crs, err := ParseWKTCRS(projcs(`PARAMETER["latitude_of_origin",25.9],PARAMETER["scale_factor",1],`))
	if err != nil {
		t.Fatal(err)
	}
	p := crs.(*ProjectedCRS)
	if p.Conversion.Method.EPSGCode() != epsgMercatorB {
		t.Errorf("want Mercator variant B but have %q", p.Conversion.Method.Name)
	}
	if lat1, _ := p.Conversion.Measure(ParamLat1stStdParallel, epsgParamLat1stStdParallel); lat1.Val != 25.9 {
		t.Errorf("standard parallel: want 25.9 but have %v", lat1.Val)
	}
	// A real scale factor keeps variant A.
	crs, err = ParseWKTCRS(projcs(`PARAMETER["latitude_of_origin",0],PARAMETER["scale_factor",0.9],`))
	if err != nil {
		t.Fatal(err)
	}
	p = crs.(*ProjectedCRS)
	if p.Conversion.Method.EPSGCode() != epsgMercatorA {
		t.Errorf("want Mercator variant A but have %q", p.Conversion.Method.Name)
	}
}

func TestWKT1ProjectedRoundTrip(t *testing.T) {
	builtinOnce.Do(buildBuiltins)
	wkt, err := oneLine(WKT1GDAL).Format(crsUTM31WGS84)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(wkt, `PROJECTION["Transverse_Mercator"]`) {
		t.Errorf("missing WKT1 projection name in %s", wkt)
	}
	back, err := ParseWKTCRS(wkt)
	if err != nil {
		t.Fatal(err)
	}
	if !back.IsEquivalentTo(crsUTM31WGS84, Equivalent) {
		t.Errorf("WKT1 round trip of UTM 31N not equivalent:\n%s", wkt)
	}
}

func TestWKT1Extension(t *testing.T) {
	wkt := `GEOGCS["unnamed",DATUM["unknown",SPHEROID["WGS 84",6378137,298.257223563]],` +
		`PRIMEM["Greenwich",0],UNIT["degree",0.0174532925199433],` +
		`EXTENSION["PROJ4","+proj=longlat +ellps=WGS84 +no_defs"]]`
	crs, err := ParseWKTCRS(wkt)
	if err != nil {
		t.Fatal(err)
	}
	if crs.Object().Proj4Extension != "+proj=longlat +ellps=WGS84 +no_defs" {
		t.Errorf("EXTENSION not preserved: %q", crs.Object().Proj4Extension)
	}
	out, err := oneLine(WKT1GDAL).Format(crs)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `EXTENSION["PROJ4","+proj=longlat +ellps=WGS84 +no_defs"]`) {
		t.Errorf("EXTENSION not re-emitted: %s", out)
	}
}

func TestWKTFormattingErrors(t *testing.T) {
	builtinOnce.Do(buildBuiltins)
	temporal := &TemporalCRS{
		IdentifiedObject: IdentifiedObject{Name: "time"},
		Datum:            &TemporalDatum{IdentifiedObject: IdentifiedObject{Name: "epoch"}, Origin: "2000-01-01"},
		CS:               NewTemporalCS(CSTemporalDateTime, Second),
	}
	if _, err := oneLine(WKT1GDAL).Format(temporal); err == nil {
		t.Error("a temporal CRS has no WKT1 form")
	} else if _, ok := err.(*FormattingError); !ok {
		t.Errorf("want *FormattingError but have %T", err)
	}

	grid, err := NewGridTransformation(IdentifiedObject{Name: "gridshift"},
		crsNAD27, crsNAD83, "NTv2", "conus", 0.15)
	if err != nil {
		t.Fatal(err)
	}
	boundGrid, err := NewBoundCRS(crsNAD27, crsNAD83, grid)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := oneLine(WKT1GDAL).Format(boundGrid); err == nil {
		t.Error("a bound CRS with a grid transformation has no TOWGS84 form")
	}

	if _, err := oneLine(WKT1GDAL).Format(testHelmert(t)); err == nil {
		t.Error("WKT1 cannot express a standalone coordinate operation")
	}
}

func TestWKT2CoordinateOperationRoundTrip(t *testing.T) {
	tr := testHelmert(t)
	wkt, err := oneLine(WKT2_2018).Format(tr)
	if err != nil {
		t.Fatal(err)
	}
	obj, err := ParseWKT(wkt)
	if err != nil {
		t.Fatalf("%v\n%s", err, wkt)
	}
	back, ok := obj.(*Transformation)
	if !ok {
		t.Fatalf("want *Transformation but have %T", obj)
	}
	if !parameterSetsEquivalent(back.Values, tr.Values, Equivalent) {
		t.Error("round-tripped transformation parameters differ")
	}
	if a, ok := back.Accuracy(); !ok || a != 1.5 {
		t.Errorf("accuracy: want 1.5 but have %v (%v)", a, ok)
	}
	if !back.Source.IsEquivalentTo(tr.Source, Equivalent) {
		t.Error("round-tripped source CRS differs")
	}
}

func TestWKT2BoundCRSRoundTrip(t *testing.T) {
	builtinOnce.Do(buildBuiltins)
	bound, err := boundFromTOWGS84(crsNTFParis, []float64{1, 2, 3, 4, 5, 6, 7})
	if err != nil {
		t.Fatal(err)
	}
	wkt, err := oneLine(WKT2_2018).Format(bound)
	if err != nil {
		t.Fatal(err)
	}
	back, err := ParseWKTCRS(wkt)
	if err != nil {
		t.Fatalf("%v\n%s", err, wkt)
	}
	if !back.IsEquivalentTo(bound, Equivalent) {
		t.Errorf("bound CRS round trip not equivalent:\n%s", wkt)
	}
}
