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

import "testing"

func TestParseProjLongLat(t *testing.T) {
	crs, err := ParseProjStringCRS("+proj=longlat +ellps=WGS84")
	if err != nil {
		t.Fatal(err)
	}
	g, ok := crs.(*GeographicCRS)
	if !ok {
		t.Fatalf("want *GeographicCRS but have %T", crs)
	}
	if !g.Ellipsoid().IsEquivalentTo(EllipsoidWGS84, Equivalent) {
		t.Error("ellipsoid should be WGS84")
	}
	if g.CS.AxisOrder() != AxisOrderLongEastLatNorth {
		t.Error("a proj CRS is longitude first")
	}
	builtinOnce.Do(buildBuiltins)
	if !g.IsEquivalentTo(crsWGS84Geographic, EquivalentIgnoringAxisOrder) {
		t.Error("should be EPSG:4326 up to axis order")
	}
}

func TestParseProjUTM(t *testing.T) {
	crs, err := ParseProjStringCRS("+proj=utm +zone=31 +ellps=WGS84")
	if err != nil {
		t.Fatal(err)
	}
	p, ok := crs.(*ProjectedCRS)
	if !ok {
		t.Fatalf("want *ProjectedCRS but have %T", crs)
	}
	zone, south, ok := utmZoneOf(p.Conversion)
	if !ok || zone != 31 || south {
		t.Errorf("want UTM zone 31 north, have zone=%d south=%v ok=%v", zone, south, ok)
	}
	if _, err := ParseProjStringCRS("+proj=utm +zone=99 +ellps=WGS84"); err == nil {
		t.Error("an out-of-range UTM zone should fail")
	}
}

func TestParseProjCustomEllipsoid(t *testing.T) {
	crs, err := ParseProjStringCRS("+proj=longlat +a=6378137 +rf=298.257223563")
	if err != nil {
		t.Fatal(err)
	}
	g := crs.(*GeographicCRS)
	if !g.Ellipsoid().IsEquivalentTo(EllipsoidWGS84, Equivalent) {
		t.Error("explicit +a/+rf should reconstruct the ellipsoid")
	}
}

func TestParseProjTOWGS84(t *testing.T) {
	crs, err := ParseProjStringCRS("+proj=longlat +ellps=clrk80ign +pm=paris +towgs84=-168,-60,320")
	if err != nil {
		t.Fatal(err)
	}
	bound, ok := crs.(*BoundCRS)
	if !ok {
		t.Fatalf("want *BoundCRS but have %T", crs)
	}
	if z, _ := bound.Transformation.Measure(ParamZTranslation, epsgParamZTranslation); z.Val != 320 {
		t.Errorf("Z translation: want 320 but have %v", z.Val)
	}
}

func TestParseProjPipeline(t *testing.T) {
	s := "+proj=pipeline +step +proj=axisswap +order=2,1 " +
		"+step +proj=unitconvert +xy_in=deg +xy_out=rad " +
		"+step +inv +proj=utm +zone=31 +ellps=WGS84"
	op, err := ParseProjString(s)
	if err != nil {
		t.Fatal(err)
	}
	conc, ok := op.(*ConcatenatedOperation)
	if !ok {
		t.Fatalf("want *ConcatenatedOperation but have %T", op)
	}
	if len(conc.Steps) != 3 {
		t.Fatalf("want 3 steps but have %d", len(conc.Steps))
	}
	last := conc.Steps[2].(*ProjStringOperation)
	if last.ProjString != "+inv +proj=utm +zone=31 +ellps=WGS84" {
		t.Errorf("step reassembly: have %q", last.ProjString)
	}
}

func TestParseProjRejectsDanglingInv(t *testing.T) {
	if _, err := ParseProjString("+inv +proj=longlat +ellps=WGS84"); err == nil {
		t.Error("a dangling +inv should be rejected")
	}
	if _, err := ParseProjString("+proj=pipeline +inv +step +proj=longlat"); err == nil {
		t.Error("+inv outside a step should be rejected")
	}
}

func TestFormatCRSProjString(t *testing.T) {
	builtinOnce.Do(buildBuiltins)
	f := NewProjStringFormatter(PROJ5)
	got, err := f.FormatCRS(crsWGS84Geographic)
	if err != nil {
		t.Fatal(err)
	}
	if got != "+proj=longlat +ellps=WGS84" {
		t.Errorf("EPSG:4326: have %q", got)
	}
	got, err = f.FormatCRS(crsUTM31WGS84)
	if err != nil {
		t.Fatal(err)
	}
	if got != "+proj=utm +zone=31 +ellps=WGS84" {
		t.Errorf("EPSG:32631: have %q", got)
	}
	got, err = f.FormatCRS(crsNTFParis)
	if err != nil {
		t.Fatal(err)
	}
	if got != "+proj=longlat +ellps=clrk80ign +pm=paris" {
		t.Errorf("EPSG:4807: have %q", got)
	}
	got, err = NewProjStringFormatter(PROJ4).FormatCRS(crsWGS84Geographic)
	if err != nil {
		t.Fatal(err)
	}
	if got != "+proj=longlat +ellps=WGS84 +no_defs" {
		t.Errorf("PROJ.4 form: have %q", got)
	}
}

func TestProjCRSRoundTrip(t *testing.T) {
	builtinOnce.Do(buildBuiltins)
	f := NewProjStringFormatter(PROJ5)
	for _, crs := range []CRS{crsWGS84Geographic, crsUTM31WGS84, crsLambert93} {
		s, err := f.FormatCRS(crs)
		if err != nil {
			t.Errorf("formatting %q: %v", crs.Object().Name, err)
			continue
		}
		back, err := ParseProjStringCRS(s)
		if err != nil {
			t.Errorf("re-parsing %q: %v", s, err)
			continue
		}
		if !back.IsEquivalentTo(crs, EquivalentIgnoringAxisOrder) {
			t.Errorf("round trip of %q via %q is not equivalent", crs.Object().Name, s)
		}
	}
	// The proj surface expresses geographic coordinates in degrees, so
	// a grad-based CRS like EPSG:4807 only round-trips its datum.
	s, err := f.FormatCRS(crsNTFParis)
	if err != nil {
		t.Fatal(err)
	}
	back, err := ParseProjStringCRS(s)
	if err != nil {
		t.Fatal(err)
	}
	if !datumOf(back).IsEquivalentTo(DatumNTFParis, Equivalent) {
		t.Error("EPSG:4807 should round-trip its datum through the proj surface")
	}
}

func TestPipelineInversion(t *testing.T) {
	s := "+proj=pipeline +step +proj=axisswap +order=2,1 " +
		"+step +proj=unitconvert +xy_in=grad +xy_out=rad " +
		"+step +inv +proj=longlat +ellps=clrk80ign +pm=paris"
	inv, err := invertPipelineString(s)
	if err != nil {
		t.Fatal(err)
	}
	want := "+proj=pipeline +step +proj=longlat +ellps=clrk80ign +pm=paris " +
		"+step +proj=unitconvert +xy_in=rad +xy_out=grad " +
		"+step +proj=axisswap +order=2,1"
	if inv != want {
		t.Errorf("inverted pipeline:\nwant %s\nhave %s", want, inv)
	}
	back, err := invertPipelineString(inv)
	if err != nil {
		t.Fatal(err)
	}
	if back != s {
		t.Errorf("double inversion:\nwant %s\nhave %s", s, back)
	}
}

func TestHelmertNoopCollapse(t *testing.T) {
	steps := []projStep{
		{args: []string{"proj=cart", "ellps=GRS80"}},
		{args: []string{"proj=helmert", "x=1", "y=2", "z=3"}},
		{inv: true, args: []string{"proj=cart", "ellps=WGS84"}},
		{args: []string{"proj=cart", "ellps=WGS84"}},
		{args: []string{"proj=helmert", "x=-1", "y=-2", "z=-3"}},
		{inv: true, args: []string{"proj=cart", "ellps=GRS80"}},
	}
	if got := renderSteps(steps); got != "" {
		t.Errorf("opposite Helmert steps should collapse to identity, have %q", got)
	}
	kept := []projStep{
		{args: []string{"proj=helmert", "x=1", "y=2", "z=3"}},
		{args: []string{"proj=helmert", "x=-1", "y=-2", "z=4"}},
	}
	if got := renderSteps(kept); got == "" {
		t.Error("non-opposite Helmert steps must not collapse")
	}
}

func TestProj4OperationRequiresSingleStep(t *testing.T) {
	builtinOnce.Do(buildBuiltins)
	ctx := NewContext()
	ops, err := CreateOperations(crsNTFParis, crsWGS84Geographic, ctx)
	if err != nil || len(ops) == 0 {
		t.Fatalf("no candidate operations: %v", err)
	}
	if _, err := NewProjStringFormatter(PROJ4).FormatOperation(ops[0]); err == nil {
		t.Error("a multi-step pipeline has no PROJ.4 form")
	}
}
