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

package authdb

import (
	"path/filepath"
	"testing"

	"github.com/spatialmodel/geocrs"
)

// newTestCatalog builds a small on-disk catalog with the French
// datums and one Helmert entry.
func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.db")
	c, err := OpenWritable(path, "EPSG")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { c.Close() })

	stmts := []struct {
		q    string
		args []interface{}
	}{
		{`INSERT INTO ellipsoid (auth, code, name, semi_major, inverse_flattening) VALUES (?,?,?,?,?)`,
			[]interface{}{"EPSG", "7030", "WGS 84", 6378137.0, 298.257223563}},
		{`INSERT INTO ellipsoid (auth, code, name, semi_major, inverse_flattening) VALUES (?,?,?,?,?)`,
			[]interface{}{"EPSG", "7011", "Clarke 1880 (IGN)", 6378249.2, 293.4660212936269}},
		{`INSERT INTO prime_meridian (auth, code, name, longitude, unit_factor) VALUES (?,?,?,?,?)`,
			[]interface{}{"EPSG", "8901", "Greenwich", 0.0, 0.017453292519943295}},
		{`INSERT INTO datum (auth, code, name, ellipsoid_code, prime_meridian_code) VALUES (?,?,?,?,?)`,
			[]interface{}{"EPSG", "6326", "World Geodetic System 1984", "7030", "8901"}},
		{`INSERT INTO datum (auth, code, name, ellipsoid_code, prime_meridian_code) VALUES (?,?,?,?,?)`,
			[]interface{}{"EPSG", "6275", "Nouvelle Triangulation Francaise", "7011", "8901"}},
		{`INSERT INTO crs (auth, code, name, kind, datum_code, wkt) VALUES (?,?,?,?,?,?)`,
			[]interface{}{"EPSG", "4326", "WGS 84", "geographic", "6326",
				`GEOGCRS["WGS 84",DATUM["World Geodetic System 1984",ELLIPSOID["WGS 84",6378137,298.257223563,LENGTHUNIT["metre",1]],ID["EPSG",6326]],CS[ellipsoidal,2],AXIS["latitude (lat)",north,ORDER[1],ANGLEUNIT["degree",0.0174532925199433]],AXIS["longitude (lon)",east,ORDER[2],ANGLEUNIT["degree",0.0174532925199433]],ID["EPSG",4326]]`}},
		{`INSERT INTO crs (auth, code, name, kind, datum_code, wkt) VALUES (?,?,?,?,?,?)`,
			[]interface{}{"EPSG", "4275", "NTF", "geographic", "6275",
				`GEOGCRS["NTF",DATUM["Nouvelle Triangulation Francaise",ELLIPSOID["Clarke 1880 (IGN)",6378249.2,293.4660212936269,LENGTHUNIT["metre",1]],ID["EPSG",6275]],CS[ellipsoidal,2],AXIS["latitude (lat)",north,ORDER[1],ANGLEUNIT["degree",0.0174532925199433]],AXIS["longitude (lon)",east,ORDER[2],ANGLEUNIT["degree",0.0174532925199433]],ID["EPSG",4275]]`}},
		{`INSERT INTO helmert_transformation
			(auth, code, name, source_datum, target_datum, tx, ty, tz, rx, ry, rz, ds, convention, accuracy, west, south, east, north, area_name)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
			[]interface{}{"EPSG", "1193", "NTF to WGS 84 (1)", "6275", "6326",
				-168.0, -60.0, 320.0, 0.0, 0.0, 0.0, 0.0, "translation", 2.0,
				-9.86, 41.15, 10.38, 51.56, "France - onshore and offshore."}},
		{`INSERT INTO grid_transformation
			(auth, code, name, source_datum, target_datum, method, grid_name, accuracy, west, south, east, north, area_name)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
			[]interface{}{"EPSG", "9999", "NTF to WGS 84 (grid)", "6275", "6326",
				"NTv2", "ntf_r93.gsb", 0.1, -5.5, 41.0, 10.0, 52.0, "France - onshore."}},
	}
	for _, s := range stmts {
		if _, err := c.DB().Exec(s.q, s.args...); err != nil {
			t.Fatalf("seeding catalog: %v", err)
		}
	}
	return c
}

func TestCatalogHydratesObjects(t *testing.T) {
	c := newTestCatalog(t)
	e, err := c.CreateEllipsoid("7030")
	if err != nil {
		t.Fatal(err)
	}
	if !e.IsEquivalentTo(geocrs.EllipsoidWGS84, geocrs.Equivalent) {
		t.Error("hydrated WGS84 ellipsoid should match the builtin one")
	}
	d, err := c.CreateDatum("6275")
	if err != nil {
		t.Fatal(err)
	}
	if !d.IsEquivalentTo(geocrs.DatumNTF, geocrs.Equivalent) {
		t.Error("hydrated NTF datum should match the builtin one")
	}
	crs, err := c.CreateCRS("4326")
	if err != nil {
		t.Fatal(err)
	}
	if !crs.IsEquivalentTo(geocrs.CRSWGS84Geographic(), geocrs.Equivalent) {
		t.Error("hydrated EPSG:4326 should match the builtin one")
	}
}

func TestCatalogMiss(t *testing.T) {
	c := newTestCatalog(t)
	_, err := c.CreateCRS("424242")
	if err == nil {
		t.Fatal("an unknown code should miss")
	}
	if _, ok := err.(*geocrs.NoSuchAuthorityCodeError); !ok {
		t.Errorf("want *geocrs.NoSuchAuthorityCodeError but have %T", err)
	}
}

func TestCatalogOperationsBetweenDatums(t *testing.T) {
	c := newTestCatalog(t)
	ops, err := c.OperationsBetweenDatums("6275", "6326", nil, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(ops) != 2 {
		t.Fatalf("want the Helmert and grid entries but have %d", len(ops))
	}
	helmert := ops[0]
	if helmert.EPSGCode() != "1193" {
		t.Errorf("want EPSG:1193 first but have %s", helmert.EPSGCode())
	}
	if x, _ := helmert.Measure(geocrs.ParamXTranslation, ""); x.Val != -168 {
		t.Errorf("X translation: want -168 but have %v", x.Val)
	}
	if a, ok := helmert.Accuracy(); !ok || a != 2 {
		t.Errorf("accuracy: want 2 but have %v (%v)", a, ok)
	}
	if helmert.Domain == nil || helmert.Domain.BBoxes[0].West != -9.86 {
		t.Error("domain of validity not hydrated")
	}

	// The grid entry carries its file parameter.
	grids := geocrs.GridsNeeded(ops[1], geocrs.DefaultGridRegistry(), true)
	if len(grids) != 1 || grids[0].ShortName != "ntf_r93.gsb" {
		t.Errorf("grid descriptor: have %+v", grids)
	}

	// Unknown pairs are empty, not an error.
	ops, err = c.OperationsBetweenDatums("6326", "6275", nil, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(ops) != 0 {
		t.Errorf("no reverse entry is stored, have %d", len(ops))
	}
}

func TestCatalogCodes(t *testing.T) {
	c := newTestCatalog(t)
	codes, err := c.Codes(geocrs.ObjectTypeCRS, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(codes) != 2 || codes[0] != "4275" || codes[1] != "4326" {
		t.Errorf("CRS codes: have %v", codes)
	}
	ops, err := c.Codes(geocrs.ObjectTypeOperation, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(ops) != 2 {
		t.Errorf("operation codes: have %v", ops)
	}
}
