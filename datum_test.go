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

func TestEllipsoidDerivedValues(t *testing.T) {
	b := EllipsoidWGS84.SemiMinor()
	if math.Abs(b.Val-6356752.314245179) > 1e-6 {
		t.Errorf("WGS84 semi-minor: want 6356752.314245 but have %v", b.Val)
	}
	rf := EllipsoidClarke1880IGN.InverseFlattening()
	if math.Abs(rf-293.4660212936269) > 1e-9 {
		t.Errorf("Clarke 1880 (IGN) inverse flattening: want 293.46602129 but have %v", rf)
	}
	es := EllipsoidWGS84.SquaredEccentricity()
	if math.Abs(es-0.0066943799901413165) > 1e-15 {
		t.Errorf("WGS84 e^2: want 0.00669437999 but have %v", es)
	}
}

func TestEllipsoidSphere(t *testing.T) {
	s, err := NewSphere(IdentifiedObject{Name: "sphere"}, Metres(6371000))
	if err != nil {
		t.Fatal(err)
	}
	if !s.IsSphere() {
		t.Error("a sphere should report IsSphere")
	}
	if !math.IsInf(s.InverseFlattening(), 1) {
		t.Error("a sphere's inverse flattening should be +Inf")
	}
	if s.SemiMinor().Val != 6371000 {
		t.Errorf("sphere semi-minor: want 6371000 but have %v", s.SemiMinor().Val)
	}
	flat, err := NewFlattenedEllipsoid(IdentifiedObject{Name: "s"}, Metres(6371000), 0)
	if err != nil {
		t.Fatal(err)
	}
	if !flat.IsSphere() {
		t.Error("inverse flattening of zero denotes a sphere")
	}
}

func TestEllipsoidInvalid(t *testing.T) {
	if _, err := NewFlattenedEllipsoid(IdentifiedObject{Name: "bad"}, Metres(-1), 298); err == nil {
		t.Error("negative semi-major axis should be rejected")
	}
	if _, err := NewFlattenedEllipsoid(IdentifiedObject{Name: "bad"}, Metres(6378137), 0.5); err == nil {
		t.Error("inverse flattening in (0, 1] should be rejected")
	}
	if _, err := NewEllipsoidFromSemiMinor(IdentifiedObject{Name: "bad"}, Metres(6378137), Metres(7000000)); err == nil {
		t.Error("semi-minor larger than semi-major should be rejected")
	}
}

func TestGeodeticFrameEquivalence(t *testing.T) {
	clone, err := NewGeodeticReferenceFrame(IdentifiedObject{Name: "a different name"},
		EllipsoidWGS84, Greenwich, "")
	if err != nil {
		t.Fatal(err)
	}
	if !DatumWGS84.IsEquivalentTo(clone, Equivalent) {
		t.Error("frames with equivalent ellipsoid and prime meridian should be equivalent")
	}
	if DatumWGS84.IsEquivalentTo(clone, Strict) {
		t.Error("strict comparison should see the differing names")
	}
	if DatumWGS84.IsEquivalentTo(DatumNTFParis, Equivalent) {
		t.Error("WGS84 and NTF (Paris) must not be equivalent")
	}
}

func TestDatumEnsemble(t *testing.T) {
	if _, err := NewDatumEnsemble(IdentifiedObject{Name: "solo"}, []Datum{DatumWGS84}, 2); err == nil {
		t.Error("an ensemble needs at least two members")
	}
	g1087, _ := NewGeodeticReferenceFrame(namedObject("WGS 84 (G1150)", "1154"), EllipsoidWGS84, Greenwich, "")
	ens, err := NewDatumEnsemble(namedObject("WGS 84", "6326"), []Datum{DatumWGS84, g1087}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !ens.IsEquivalentTo(DatumWGS84, Equivalent) {
		t.Error("an ensemble is equivalent to each of its members")
	}
	if !DatumWGS84.IsEquivalentTo(ens, Equivalent) {
		t.Error("member-to-ensemble equivalence should be symmetric")
	}
}

func TestDynamicFrameEquivalence(t *testing.T) {
	itrf2014a := &DynamicGeodeticReferenceFrame{GeodeticReferenceFrame: *DatumWGS84, FrameReferenceEpoch: 2010}
	itrf2014b := &DynamicGeodeticReferenceFrame{GeodeticReferenceFrame: *DatumWGS84, FrameReferenceEpoch: 2010}
	other := &DynamicGeodeticReferenceFrame{GeodeticReferenceFrame: *DatumWGS84, FrameReferenceEpoch: 2000}
	if !itrf2014a.IsEquivalentTo(itrf2014b, Equivalent) {
		t.Error("dynamic frames with the same epoch should be equivalent")
	}
	if itrf2014a.IsEquivalentTo(other, Equivalent) {
		t.Error("dynamic frames with different epochs must not be equivalent")
	}
}

func TestPrimeMeridianParis(t *testing.T) {
	deg, err := Paris.Longitude.Convert(Degree)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(deg.Val-2.33722917) > 1e-9 {
		t.Errorf("Paris longitude: want 2.33722917 degrees but have %v", deg.Val)
	}
}
