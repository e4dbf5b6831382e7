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

func TestDefaultCatalogLookups(t *testing.T) {
	cat := DefaultCatalog()
	crs, err := cat.CreateCRS("4326")
	if err != nil {
		t.Fatal(err)
	}
	if crs.Object().Name != "WGS 84" {
		t.Errorf("EPSG:4326 name: have %q", crs.Object().Name)
	}
	if _, err := cat.CreateCRS("EPSG:4807"); err != nil {
		t.Errorf("prefixed codes should resolve: %v", err)
	}
	e, err := cat.CreateEllipsoid("7030")
	if err != nil {
		t.Fatal(err)
	}
	if !e.IsEquivalentTo(EllipsoidWGS84, Equivalent) {
		t.Error("EPSG:7030 should be the WGS84 ellipsoid")
	}
	if _, err := cat.CreateDatum("6326"); err != nil {
		t.Errorf("datum lookup failed: %v", err)
	}
	if _, err := cat.CreatePrimeMeridian("8903"); err != nil {
		t.Errorf("prime meridian lookup failed: %v", err)
	}
	if _, err := cat.CreateCoordinateOperation("15994"); err != nil {
		t.Errorf("operation lookup failed: %v", err)
	}
}

func TestCatalogMissReturnsTypedError(t *testing.T) {
	cat := DefaultCatalog()
	_, err := cat.CreateCRS("999999")
	if err == nil {
		t.Fatal("an unknown code should miss")
	}
	if _, ok := err.(*NoSuchAuthorityCodeError); !ok {
		t.Errorf("want *NoSuchAuthorityCodeError but have %T", err)
	}
	if _, err := cat.CreateCRS("IGNF:LAMB93"); err == nil {
		t.Error("a foreign authority should miss in the EPSG catalog")
	}
}

func TestCatalogCodes(t *testing.T) {
	cat := DefaultCatalog()
	codes, err := cat.Codes(ObjectTypeCRS, true)
	if err != nil {
		t.Fatal(err)
	}
	found := map[string]bool{}
	for _, c := range codes {
		found[c] = true
	}
	for _, want := range []string{"4326", "4807", "32631", "2154"} {
		if !found[want] {
			t.Errorf("missing CRS code %s", want)
		}
	}
	if auths := cat.Authorities(); len(auths) != 1 || auths[0] != "EPSG" {
		t.Errorf("authorities: have %v", auths)
	}
}

func TestCatalogDeprecatedFiltering(t *testing.T) {
	m := NewMemoryCatalog("EPSG")
	old, _ := NewGeographicCRS(namedObject("Old CRS", "1111"), DatumWGS84, NewEllipsoidalCS2D())
	old.Deprecated = true
	m.Add(old)
	codes, err := m.Codes(ObjectTypeCRS, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(codes) != 0 {
		t.Errorf("deprecated codes should be hidden by default, have %v", codes)
	}
	codes, err = m.Codes(ObjectTypeCRS, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(codes) != 1 || codes[0] != "1111" {
		t.Errorf("deprecated codes should appear on request, have %v", codes)
	}
}

func TestOperationsBetweenDatums(t *testing.T) {
	cat := DefaultCatalog()
	ops, err := cat.OperationsBetweenDatums("6179", "6258", nil, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(ops) != 2 {
		t.Fatalf("want 2 transformations but have %d", len(ops))
	}
	// Area-restricted enumeration.
	romania := NewExtentFromBBox(20.26, 43.44, 31.41, 48.27)
	ops, err = cat.OperationsBetweenDatums("6179", "6258", romania, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(ops) != 1 || ops[0].EPSGCode() != "15994" {
		t.Fatalf("want only the Romanian entry, have %d", len(ops))
	}
	ops, err = cat.OperationsBetweenDatums("6179", "6326", nil, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(ops) != 0 {
		t.Errorf("no Pulkovo to WGS84 entry is catalogued, have %d", len(ops))
	}
}
