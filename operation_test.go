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
	"math"
	"testing"
)

func testHelmert(t *testing.T) *Transformation {
	t.Helper()
	builtinOnce.Do(buildBuiltins)
	tr, err := NewHelmertTransformation(IdentifiedObject{Name: "test shift"},
		crsNTFParis, crsWGS84Geographic, 1, 2, 3, 4, 5, 6, 7, true, 1.5)
	if err != nil {
		t.Fatal(err)
	}
	return tr
}

func TestHelmertInverseNegatesParameters(t *testing.T) {
	tr := testHelmert(t)
	invOp, err := tr.Inverse()
	if err != nil {
		t.Fatal(err)
	}
	inv := invOp.(*Transformation)
	if inv.Name != "Inverse of test shift" {
		t.Errorf("inverse name: have %q", inv.Name)
	}
	if inv.Source != tr.Target || inv.Target != tr.Source {
		t.Error("inverse must swap source and target")
	}
	wantVals := map[string]float64{
		ParamXTranslation: -1, ParamYTranslation: -2, ParamZTranslation: -3,
		ParamXRotation: -4, ParamYRotation: -5, ParamZRotation: -6,
		ParamScaleDifference: -7,
	}
	for name, want := range wantVals {
		m, ok := inv.Measure(name, "")
		if !ok {
			t.Fatalf("missing parameter %q on inverse", name)
		}
		if m.Val != want {
			t.Errorf("%s: want %v but have %v", name, want, m.Val)
		}
	}
	if a, ok := inv.Accuracy(); !ok || a != 1.5 {
		t.Errorf("inverse accuracy: want 1.5 but have %v (%v)", a, ok)
	}
}

func TestInverseIdempotence(t *testing.T) {
	tr := testHelmert(t)
	invOp, err := tr.Inverse()
	if err != nil {
		t.Fatal(err)
	}
	backOp, err := invOp.Inverse()
	if err != nil {
		t.Fatal(err)
	}
	back := backOp.(*Transformation)
	if back.Name != tr.Name {
		t.Errorf("double inversion name: want %q but have %q", tr.Name, back.Name)
	}
	if !parameterSetsEquivalent(back.Values, tr.Values, Equivalent) {
		t.Error("double inversion should restore the parameter values")
	}
	if back.Source != tr.Source || back.Target != tr.Target {
		t.Error("double inversion should restore the endpoints")
	}
}

func TestTimeDependentHelmertInverse(t *testing.T) {
	builtinOnce.Do(buildBuiltins)
	values := []OperationParameterValue{
		measureParam(ParamXTranslation, epsgParamXTranslation, Metres(1)),
		measureParam(ParamYTranslation, epsgParamYTranslation, Metres(2)),
		measureParam(ParamZTranslation, epsgParamZTranslation, Metres(3)),
		measureParam(ParamRateXTranslation, epsgParamRateXTranslation, Metres(0.1)),
		measureParam(ParamReferenceEpoch, epsgParamReferenceEpoch, Years(2010)),
	}
	tr, err := NewTransformation(IdentifiedObject{Name: "td"},
		crsWGS84Geographic, crsETRS89,
		newMethod(MethodTimeDepPositionVector, epsgTimeDepPositionVector), values, nil)
	if err != nil {
		t.Fatal(err)
	}
	invOp, err := tr.Inverse()
	if err != nil {
		t.Fatal(err)
	}
	inv := invOp.(*Transformation)
	if m, _ := inv.Measure(ParamRateXTranslation, epsgParamRateXTranslation); m.Val != -0.1 {
		t.Errorf("rate should be negated, have %v", m.Val)
	}
	if m, _ := inv.Measure(ParamReferenceEpoch, epsgParamReferenceEpoch); m.Val != 2010 {
		t.Errorf("reference epoch should be preserved, have %v", m.Val)
	}
}

func TestGridInverseKeepsParameters(t *testing.T) {
	builtinOnce.Do(buildBuiltins)
	tr, err := NewGridTransformation(IdentifiedObject{Name: "NAD27 to NAD83 (1)"},
		crsNAD27, crsNAD83, "NTv2", "conus", 0.15)
	if err != nil {
		t.Fatal(err)
	}
	invOp, err := tr.Inverse()
	if err != nil {
		t.Fatal(err)
	}
	inv := invOp.(*Transformation)
	v, ok := findValue(inv.Values, ParamLatLonDifferenceFile, epsgParamLatLonDifferenceFile)
	if !ok || v.Str != "conus" {
		t.Errorf("grid file should be preserved on inversion, have %+v", v)
	}
}

func TestApproximateInversionDecoration(t *testing.T) {
	builtinOnce.Do(buildBuiltins)
	tr, err := NewTransformation(IdentifiedObject{Name: "exotic"},
		crsNAD27, crsNAD83,
		newMethod("Made-up method", ""), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	invOp, err := tr.Inverse()
	if err != nil {
		t.Fatal(err)
	}
	if invOp.Object().Name != "Inverse of exotic (approximate inversion)" {
		t.Errorf("approximate inversion should be named as such, have %q", invOp.Object().Name)
	}
}

func TestConcatenatedOperationChain(t *testing.T) {
	builtinOnce.Do(buildBuiltins)
	t1, _ := NewGeocentricTranslations(IdentifiedObject{Name: "a to hub"},
		crsNTF, crsWGS84Geographic, 1, 2, 3, 1)
	t2, _ := NewGeocentricTranslations(IdentifiedObject{Name: "hub to b"},
		crsWGS84Geographic, crsETRS89, 4, 5, 6, 2)
	conc, err := NewConcatenatedOperation(IdentifiedObject{}, []CoordinateOperation{t1, t2}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if conc.Name != "a to hub + hub to b" {
		t.Errorf("derived name: have %q", conc.Name)
	}
	if conc.SourceCRS() != CRS(crsNTF) || conc.TargetCRS() != CRS(crsETRS89) {
		t.Error("concatenation endpoints are wrong")
	}
	if a, ok := conc.Accuracy(); !ok || math.Abs(a-3) > 1e-12 {
		t.Errorf("accuracy should be the sum of step accuracies, have %v (%v)", a, ok)
	}

	// Steps that do not chain are rejected.
	bad, _ := NewGeocentricTranslations(IdentifiedObject{Name: "b to c"},
		crsNAD27, crsNAD83, 1, 1, 1, 1)
	if _, err := NewConcatenatedOperation(IdentifiedObject{}, []CoordinateOperation{t1, bad}, nil); err == nil {
		t.Error("a non-chaining concatenation should be rejected")
	}
	var invErr *InvalidOperationError
	if _, err := NewConcatenatedOperation(IdentifiedObject{}, []CoordinateOperation{t1}, nil); err == nil {
		t.Error("a one-step concatenation should be rejected")
	} else if !asInvalidOperation(err, &invErr) {
		t.Errorf("want *InvalidOperationError but have %T", err)
	}
}

func asInvalidOperation(err error, target **InvalidOperationError) bool {
	e, ok := err.(*InvalidOperationError)
	if ok {
		*target = e
	}
	return ok
}

func TestConcatenatedInverseReversesSteps(t *testing.T) {
	builtinOnce.Do(buildBuiltins)
	t1, _ := NewGeocentricTranslations(IdentifiedObject{Name: "a to hub"},
		crsNTF, crsWGS84Geographic, 1, 2, 3, 1)
	t2, _ := NewGeocentricTranslations(IdentifiedObject{Name: "hub to b"},
		crsWGS84Geographic, crsETRS89, 4, 5, 6, 2)
	conc, err := NewConcatenatedOperation(IdentifiedObject{}, []CoordinateOperation{t1, t2}, nil)
	if err != nil {
		t.Fatal(err)
	}
	invOp, err := conc.Inverse()
	if err != nil {
		t.Fatal(err)
	}
	inv := invOp.(*ConcatenatedOperation)
	if inv.Steps[0].Object().Name != "Inverse of hub to b" ||
		inv.Steps[1].Object().Name != "Inverse of a to hub" {
		t.Errorf("inverse should reverse and invert steps, have %q then %q",
			inv.Steps[0].Object().Name, inv.Steps[1].Object().Name)
	}
}

func TestParameterSetEquivalence(t *testing.T) {
	a := []OperationParameterValue{
		measureParam(ParamFalseEasting, epsgParamFalseEasting, Metres(500000)),
		measureParam(ParamLatNaturalOrigin, epsgParamLatNaturalOrigin, Degrees(0)),
	}
	b := []OperationParameterValue{
		measureParam("latitude_of_origin", epsgParamLatNaturalOrigin, Degrees(0)),
		measureParam(ParamFalseEasting, "", Measure{500, Kilometre}),
	}
	if !parameterSetsEquivalent(a, b, Equivalent) {
		t.Error("parameter sets should match regardless of order, naming, and unit")
	}
	c := []OperationParameterValue{
		measureParam(ParamFalseEasting, epsgParamFalseEasting, Metres(500001)),
		measureParam(ParamLatNaturalOrigin, epsgParamLatNaturalOrigin, Degrees(0)),
	}
	if parameterSetsEquivalent(a, c, Equivalent) {
		t.Error("different values must not match")
	}
}

func TestMethodEquivalenceByAlias(t *testing.T) {
	wkt2 := newMethod(MethodTransverseMercator, "")
	wkt1 := newMethod("Transverse_Mercator", "")
	if !wkt2.isEquivalentTo(wkt1, Equivalent) {
		t.Error("a WKT1 projection alias should match its WKT2 method")
	}
	byCode1 := newMethod("whatever", epsgTransverseMercator)
	byCode2 := newMethod("something else", epsgTransverseMercator)
	if !byCode1.isEquivalentTo(byCode2, Equivalent) {
		t.Error("methods with the same EPSG code should match")
	}
}
