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

// Package authdb backs the geocrs authority catalog with a read-only
// SQLite database. Objects are stored as WKT2 and hydrated with the
// geocrs parser; transformations are stored relationally so that the
// operation factory can enumerate them by datum pair.
package authdb

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	log "github.com/sirupsen/logrus"

	"github.com/spatialmodel/geocrs"
)

// Schema is the DDL of a catalog database. Embedders build catalogs
// offline; a Catalog handle never writes.
const Schema = `
CREATE TABLE IF NOT EXISTS crs (
	auth TEXT NOT NULL,
	code TEXT NOT NULL,
	name TEXT NOT NULL,
	kind TEXT NOT NULL, -- geographic, geocentric, projected, vertical, compound
	datum_code TEXT,
	deprecated INTEGER NOT NULL DEFAULT 0,
	wkt TEXT NOT NULL,
	PRIMARY KEY (auth, code)
);
CREATE TABLE IF NOT EXISTS ellipsoid (
	auth TEXT NOT NULL,
	code TEXT NOT NULL,
	name TEXT NOT NULL,
	semi_major REAL NOT NULL,
	inverse_flattening REAL NOT NULL, -- 0 denotes a sphere
	deprecated INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (auth, code)
);
CREATE TABLE IF NOT EXISTS prime_meridian (
	auth TEXT NOT NULL,
	code TEXT NOT NULL,
	name TEXT NOT NULL,
	longitude REAL NOT NULL,
	unit_factor REAL NOT NULL, -- to radians
	deprecated INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (auth, code)
);
CREATE TABLE IF NOT EXISTS datum (
	auth TEXT NOT NULL,
	code TEXT NOT NULL,
	name TEXT NOT NULL,
	ellipsoid_code TEXT NOT NULL,
	prime_meridian_code TEXT NOT NULL,
	frame_epoch REAL, -- NULL for static frames
	deprecated INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (auth, code)
);
CREATE TABLE IF NOT EXISTS helmert_transformation (
	auth TEXT NOT NULL,
	code TEXT NOT NULL,
	name TEXT NOT NULL,
	source_datum TEXT NOT NULL,
	target_datum TEXT NOT NULL,
	tx REAL NOT NULL, ty REAL NOT NULL, tz REAL NOT NULL,
	rx REAL NOT NULL, ry REAL NOT NULL, rz REAL NOT NULL,
	ds REAL NOT NULL,
	convention TEXT NOT NULL, -- position_vector, coordinate_frame, translation
	accuracy REAL, -- metres, NULL when unknown
	west REAL, south REAL, east REAL, north REAL,
	area_name TEXT,
	deprecated INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (auth, code)
);
CREATE TABLE IF NOT EXISTS grid_transformation (
	auth TEXT NOT NULL,
	code TEXT NOT NULL,
	name TEXT NOT NULL,
	source_datum TEXT NOT NULL,
	target_datum TEXT NOT NULL,
	method TEXT NOT NULL, -- NTv2, NADCON, VERTCON
	grid_name TEXT NOT NULL,
	accuracy REAL,
	west REAL, south REAL, east REAL, north REAL,
	area_name TEXT,
	deprecated INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (auth, code)
);
CREATE INDEX IF NOT EXISTS idx_helmert_datums ON helmert_transformation (source_datum, target_datum);
CREATE INDEX IF NOT EXISTS idx_grid_datums ON grid_transformation (source_datum, target_datum);
`

// A Catalog is a geocrs.AuthorityFactory over a SQLite database. One
// handle owns one connection pool and releases it on Close. Distinct
// handles never interfere; sharing one handle across goroutines is
// safe because it only reads.
type Catalog struct {
	Authority string
	db        *sql.DB
}

// Open opens a catalog database. The handle treats the database as
// frozen at open time.
func Open(path, authority string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro&_query_only=1")
	if err != nil {
		return nil, &geocrs.FactoryError{Op: "open", Err: err}
	}
	return &Catalog{Authority: authority, db: db}, nil
}

// OpenWritable opens a database read-write, creating the schema.
// Only catalog-building tools use it; the returned handle still
// implements the read-only factory interface.
func OpenWritable(path, authority string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, &geocrs.FactoryError{Op: "open", Err: err}
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, &geocrs.FactoryError{Op: "create schema", Err: err}
	}
	return &Catalog{Authority: authority, db: db}, nil
}

// Close releases the connection to the backing store.
func (c *Catalog) Close() error { return c.db.Close() }

// DB exposes the handle for catalog-building tools.
func (c *Catalog) DB() *sql.DB { return c.db }

func (c *Catalog) splitCode(code string) (string, string) {
	if i := strings.IndexByte(code, ':'); i >= 0 {
		return code[:i], code[i+1:]
	}
	return c.Authority, code
}

func (c *Catalog) miss(code string) error {
	return &geocrs.NoSuchAuthorityCodeError{Authority: c.Authority, Code: code}
}

// CreateEllipsoid hydrates an ellipsoid row.
func (c *Catalog) CreateEllipsoid(code string) (*geocrs.Ellipsoid, error) {
	auth, bare := c.splitCode(code)
	var name string
	var a, rf float64
	err := c.db.QueryRow(
		`SELECT name, semi_major, inverse_flattening FROM ellipsoid WHERE auth = ? AND code = ?`,
		auth, bare).Scan(&name, &a, &rf)
	if err == sql.ErrNoRows {
		return nil, c.miss(code)
	}
	if err != nil {
		return nil, &geocrs.FactoryError{Op: "ellipsoid " + code, Err: err}
	}
	obj := geocrs.IdentifiedObject{Name: name,
		Identifiers: []geocrs.Identifier{{Authority: auth, Codespace: auth, Code: bare}}}
	return geocrs.NewFlattenedEllipsoid(obj, geocrs.Metres(a), rf)
}

// CreatePrimeMeridian hydrates a prime-meridian row. The longitude is
// stored with its unit factor to radians.
func (c *Catalog) CreatePrimeMeridian(code string) (*geocrs.PrimeMeridian, error) {
	auth, bare := c.splitCode(code)
	var name string
	var long, factor float64
	err := c.db.QueryRow(
		`SELECT name, longitude, unit_factor FROM prime_meridian WHERE auth = ? AND code = ?`,
		auth, bare).Scan(&name, &long, &factor)
	if err == sql.ErrNoRows {
		return nil, c.miss(code)
	}
	if err != nil {
		return nil, &geocrs.FactoryError{Op: "prime meridian " + code, Err: err}
	}
	obj := geocrs.IdentifiedObject{Name: name,
		Identifiers: []geocrs.Identifier{{Authority: auth, Codespace: auth, Code: bare}}}
	unit := geocrs.NewUnitOfMeasure("unknown", factor, geocrs.UnitKindAngle)
	switch {
	case unit.Equivalent(geocrs.Degree):
		unit = geocrs.Degree
	case unit.Equivalent(geocrs.Grad):
		unit = geocrs.Grad
	case unit.Equivalent(geocrs.Radian):
		unit = geocrs.Radian
	}
	return geocrs.NewPrimeMeridian(obj, geocrs.Measure{Val: long, Unit: unit})
}

// CreateDatum hydrates a datum row with its ellipsoid and prime
// meridian.
func (c *Catalog) CreateDatum(code string) (geocrs.Datum, error) {
	auth, bare := c.splitCode(code)
	var name, ellpsCode, pmCode string
	var epoch sql.NullFloat64
	err := c.db.QueryRow(
		`SELECT name, ellipsoid_code, prime_meridian_code, frame_epoch FROM datum WHERE auth = ? AND code = ?`,
		auth, bare).Scan(&name, &ellpsCode, &pmCode, &epoch)
	if err == sql.ErrNoRows {
		return nil, c.miss(code)
	}
	if err != nil {
		return nil, &geocrs.FactoryError{Op: "datum " + code, Err: err}
	}
	ellps, err := c.CreateEllipsoid(ellpsCode)
	if err != nil {
		return nil, err
	}
	pm, err := c.CreatePrimeMeridian(pmCode)
	if err != nil {
		return nil, err
	}
	obj := geocrs.IdentifiedObject{Name: name,
		Identifiers: []geocrs.Identifier{{Authority: auth, Codespace: auth, Code: bare}}}
	frame, err := geocrs.NewGeodeticReferenceFrame(obj, ellps, pm, "")
	if err != nil {
		return nil, err
	}
	if epoch.Valid {
		return &geocrs.DynamicGeodeticReferenceFrame{
			GeodeticReferenceFrame: *frame, FrameReferenceEpoch: epoch.Float64}, nil
	}
	return frame, nil
}

// CreateCRS hydrates a CRS row by parsing its stored WKT2.
func (c *Catalog) CreateCRS(code string) (geocrs.CRS, error) {
	auth, bare := c.splitCode(code)
	var wkt string
	err := c.db.QueryRow(`SELECT wkt FROM crs WHERE auth = ? AND code = ?`, auth, bare).Scan(&wkt)
	if err == sql.ErrNoRows {
		return nil, c.miss(code)
	}
	if err != nil {
		return nil, &geocrs.FactoryError{Op: "crs " + code, Err: err}
	}
	crs, err := geocrs.ParseWKTCRS(wkt)
	if err != nil {
		return nil, &geocrs.FactoryError{Op: "crs " + code, Err: err}
	}
	return crs, nil
}

// CreateCoordinateSystem returns the coordinate system of the CRS
// registered under the code.
func (c *Catalog) CreateCoordinateSystem(code string) (*geocrs.CoordinateSystem, error) {
	crs, err := c.CreateCRS(code)
	if err != nil {
		return nil, err
	}
	cs := crs.CoordinateSystem()
	if cs == nil {
		return nil, c.miss(code)
	}
	return cs, nil
}

// CreateCoordinateOperation hydrates a transformation row from either
// transformation table.
func (c *Catalog) CreateCoordinateOperation(code string) (geocrs.CoordinateOperation, error) {
	auth, bare := c.splitCode(code)
	rows, err := c.db.Query(
		`SELECT code, name, source_datum, target_datum, tx, ty, tz, rx, ry, rz, ds, convention,
		        accuracy, west, south, east, north, area_name
		 FROM helmert_transformation WHERE auth = ? AND code = ?`, auth, bare)
	if err != nil {
		return nil, &geocrs.FactoryError{Op: "operation " + code, Err: err}
	}
	ts, err := c.scanHelmerts(rows, auth)
	if err != nil {
		return nil, err
	}
	if len(ts) == 1 {
		return ts[0], nil
	}
	rows, err = c.db.Query(
		`SELECT code, name, source_datum, target_datum, method, grid_name,
		        accuracy, west, south, east, north, area_name
		 FROM grid_transformation WHERE auth = ? AND code = ?`, auth, bare)
	if err != nil {
		return nil, &geocrs.FactoryError{Op: "operation " + code, Err: err}
	}
	ts, err = c.scanGrids(rows, auth)
	if err != nil {
		return nil, err
	}
	if len(ts) == 1 {
		return ts[0], nil
	}
	return nil, c.miss(code)
}

// Authorities lists the namespaces present in the database.
func (c *Catalog) Authorities() []string {
	set := map[string]bool{c.Authority: true}
	for _, table := range []string{"crs", "datum", "helmert_transformation"} {
		rows, err := c.db.Query(`SELECT DISTINCT auth FROM ` + table)
		if err != nil {
			continue
		}
		for rows.Next() {
			var a string
			if rows.Scan(&a) == nil {
				set[a] = true
			}
		}
		rows.Close()
	}
	out := make([]string, 0, len(set))
	for a := range set {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// Codes enumerates the registered codes of an object family.
func (c *Catalog) Codes(t geocrs.ObjectType, allowDeprecated bool) ([]string, error) {
	var table string
	switch t {
	case geocrs.ObjectTypeCRS, geocrs.ObjectTypeCoordinateSystem:
		table = "crs"
	case geocrs.ObjectTypeDatum:
		table = "datum"
	case geocrs.ObjectTypeEllipsoid:
		table = "ellipsoid"
	case geocrs.ObjectTypePrimeMeridian:
		table = "prime_meridian"
	case geocrs.ObjectTypeOperation:
		return c.operationCodes(allowDeprecated)
	default:
		return nil, fmt.Errorf("geocrs: authdb: unknown object type %d", t)
	}
	q := `SELECT code FROM ` + table + ` WHERE auth = ?`
	if !allowDeprecated {
		q += ` AND deprecated = 0`
	}
	rows, err := c.db.Query(q, c.Authority)
	if err != nil {
		return nil, &geocrs.FactoryError{Op: "codes", Err: err}
	}
	defer rows.Close()
	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, &geocrs.FactoryError{Op: "codes", Err: err}
		}
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes, rows.Err()
}

func (c *Catalog) operationCodes(allowDeprecated bool) ([]string, error) {
	var codes []string
	for _, table := range []string{"helmert_transformation", "grid_transformation"} {
		q := `SELECT code FROM ` + table + ` WHERE auth = ?`
		if !allowDeprecated {
			q += ` AND deprecated = 0`
		}
		rows, err := c.db.Query(q, c.Authority)
		if err != nil {
			return nil, &geocrs.FactoryError{Op: "codes", Err: err}
		}
		for rows.Next() {
			var code string
			if err := rows.Scan(&code); err != nil {
				rows.Close()
				return nil, &geocrs.FactoryError{Op: "codes", Err: err}
			}
			codes = append(codes, code)
		}
		rows.Close()
	}
	sort.Strings(codes)
	return codes, nil
}

// geographicCRSForDatum finds the geographic CRS registered for a
// datum, used as the endpoint of hydrated transformations.
func (c *Catalog) geographicCRSForDatum(datumCode string) (geocrs.CRS, error) {
	var code string
	err := c.db.QueryRow(
		`SELECT code FROM crs WHERE auth = ? AND datum_code = ? AND kind = 'geographic' ORDER BY code LIMIT 1`,
		c.Authority, datumCode).Scan(&code)
	if err == sql.ErrNoRows {
		return nil, c.miss(datumCode)
	}
	if err != nil {
		return nil, &geocrs.FactoryError{Op: "crs for datum " + datumCode, Err: err}
	}
	return c.CreateCRS(code)
}

func (c *Catalog) scanHelmerts(rows *sql.Rows, auth string) ([]*geocrs.Transformation, error) {
	defer rows.Close()
	var out []*geocrs.Transformation
	for rows.Next() {
		var code, name, srcDatum, dstDatum, convention string
		var tx, ty, tz, rx, ry, rz, ds float64
		var accuracy, west, south, east, north sql.NullFloat64
		var areaName sql.NullString
		if err := rows.Scan(&code, &name, &srcDatum, &dstDatum,
			&tx, &ty, &tz, &rx, &ry, &rz, &ds, &convention,
			&accuracy, &west, &south, &east, &north, &areaName); err != nil {
			return nil, &geocrs.FactoryError{Op: "helmert scan", Err: err}
		}
		src, err := c.geographicCRSForDatum(srcDatum)
		if err != nil {
			log.WithFields(log.Fields{"code": code, "datum": srcDatum}).
				Debug("geocrs: authdb: skipping transformation without source CRS")
			continue
		}
		dst, err := c.geographicCRSForDatum(dstDatum)
		if err != nil {
			log.WithFields(log.Fields{"code": code, "datum": dstDatum}).
				Debug("geocrs: authdb: skipping transformation without target CRS")
			continue
		}
		obj := geocrs.IdentifiedObject{Name: name,
			Identifiers: []geocrs.Identifier{{Authority: auth, Codespace: auth, Code: code}}}
		acc := -1.0
		if accuracy.Valid {
			acc = accuracy.Float64
		}
		var t *geocrs.Transformation
		if convention == "translation" {
			t, err = geocrs.NewGeocentricTranslations(obj, src, dst, tx, ty, tz, acc)
		} else {
			t, err = geocrs.NewHelmertTransformation(obj, src, dst,
				tx, ty, tz, rx, ry, rz, ds, convention == "position_vector", acc)
		}
		if err != nil {
			return nil, err
		}
		if west.Valid {
			t.Domain = &geocrs.Extent{
				Description: areaName.String,
				BBoxes: []geocrs.GeographicBoundingBox{{
					West: west.Float64, South: south.Float64, East: east.Float64, North: north.Float64}},
			}
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (c *Catalog) scanGrids(rows *sql.Rows, auth string) ([]*geocrs.Transformation, error) {
	defer rows.Close()
	var out []*geocrs.Transformation
	for rows.Next() {
		var code, name, srcDatum, dstDatum, method, gridName string
		var accuracy, west, south, east, north sql.NullFloat64
		var areaName sql.NullString
		if err := rows.Scan(&code, &name, &srcDatum, &dstDatum, &method, &gridName,
			&accuracy, &west, &south, &east, &north, &areaName); err != nil {
			return nil, &geocrs.FactoryError{Op: "grid scan", Err: err}
		}
		src, err := c.geographicCRSForDatum(srcDatum)
		if err != nil {
			continue
		}
		dst, err := c.geographicCRSForDatum(dstDatum)
		if err != nil {
			continue
		}
		obj := geocrs.IdentifiedObject{Name: name,
			Identifiers: []geocrs.Identifier{{Authority: auth, Codespace: auth, Code: code}}}
		t, err := geocrs.NewGridTransformation(obj, src, dst, method, gridName, accuracyOrUnknown(accuracy))
		if err != nil {
			return nil, err
		}
		if west.Valid {
			t.Domain = &geocrs.Extent{
				Description: areaName.String,
				BBoxes: []geocrs.GeographicBoundingBox{{
					West: west.Float64, South: south.Float64, East: east.Float64, North: north.Float64}},
			}
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func accuracyOrUnknown(v sql.NullFloat64) float64 {
	if v.Valid {
		return v.Float64
	}
	return -1
}

// OperationsBetweenDatums enumerates the stored transformations from
// the source to the target datum, optionally restricted by area.
func (c *Catalog) OperationsBetweenDatums(sourceDatumCode, targetDatumCode string, area *geocrs.Extent, allowUnknownAccuracy bool) ([]*geocrs.Transformation, error) {
	rows, err := c.db.Query(
		`SELECT code, name, source_datum, target_datum, tx, ty, tz, rx, ry, rz, ds, convention,
		        accuracy, west, south, east, north, area_name
		 FROM helmert_transformation
		 WHERE auth = ? AND source_datum = ? AND target_datum = ? AND deprecated = 0
		 ORDER BY code`, c.Authority, sourceDatumCode, targetDatumCode)
	if err != nil {
		return nil, &geocrs.FactoryError{Op: "operations between datums", Err: err}
	}
	helmerts, err := c.scanHelmerts(rows, c.Authority)
	if err != nil {
		return nil, err
	}
	rows, err = c.db.Query(
		`SELECT code, name, source_datum, target_datum, method, grid_name,
		        accuracy, west, south, east, north, area_name
		 FROM grid_transformation
		 WHERE auth = ? AND source_datum = ? AND target_datum = ? AND deprecated = 0
		 ORDER BY code`, c.Authority, sourceDatumCode, targetDatumCode)
	if err != nil {
		return nil, &geocrs.FactoryError{Op: "operations between datums", Err: err}
	}
	grids, err := c.scanGrids(rows, c.Authority)
	if err != nil {
		return nil, err
	}
	var out []*geocrs.Transformation
	for _, t := range append(helmerts, grids...) {
		if _, known := t.Accuracy(); !known && !allowUnknownAccuracy {
			continue
		}
		if area != nil && !area.Intersects(t.Domain) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}
