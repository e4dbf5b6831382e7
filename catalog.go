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
	"sort"
	"strings"
	"sync"
)

// ObjectType selects a catalog object family for code enumeration.
type ObjectType int

const (
	ObjectTypeCRS ObjectType = iota
	ObjectTypeDatum
	ObjectTypeEllipsoid
	ObjectTypePrimeMeridian
	ObjectTypeCoordinateSystem
	ObjectTypeOperation
)

// An AuthorityFactory is a read-only catalog of named geodetic
// objects keyed by (authority, code). Codes are strings; the bare
// form addresses the catalog's default authority, and "AUTH:code"
// addresses another one. Lookup misses yield
// *NoSuchAuthorityCodeError; storage failures yield *FactoryError.
type AuthorityFactory interface {
	CreateEllipsoid(code string) (*Ellipsoid, error)
	CreatePrimeMeridian(code string) (*PrimeMeridian, error)
	CreateDatum(code string) (Datum, error)
	CreateCoordinateSystem(code string) (*CoordinateSystem, error)
	CreateCRS(code string) (CRS, error)
	CreateCoordinateOperation(code string) (CoordinateOperation, error)
	Authorities() []string
	Codes(t ObjectType, allowDeprecated bool) ([]string, error)
	// OperationsBetweenDatums enumerates the catalogued
	// transformations from the source to the target datum, optionally
	// restricted to those intersecting area. Transformations with no
	// recorded accuracy are skipped unless allowUnknownAccuracy.
	OperationsBetweenDatums(sourceDatumCode, targetDatumCode string, area *Extent, allowUnknownAccuracy bool) ([]*Transformation, error)
}

// splitAuthorityCode splits "EPSG:4326" into its parts; a bare code
// gets the default authority.
func splitAuthorityCode(code, defaultAuthority string) (string, string) {
	if i := strings.IndexByte(code, ':'); i >= 0 {
		return code[:i], code[i+1:]
	}
	return defaultAuthority, code
}

// A MemoryCatalog is an AuthorityFactory over in-process tables. The
// package ships one preloaded with the objects the default operation
// context needs; tests and embedders can build their own.
type MemoryCatalog struct {
	Authority string // default authority for bare codes

	mu         sync.RWMutex
	ellipsoids map[string]*Ellipsoid
	meridians  map[string]*PrimeMeridian
	datums     map[string]Datum
	crss       map[string]CRS
	operations map[string]*Transformation
}

// NewMemoryCatalog returns an empty catalog for the given authority.
func NewMemoryCatalog(authority string) *MemoryCatalog {
	return &MemoryCatalog{
		Authority:  authority,
		ellipsoids: map[string]*Ellipsoid{},
		meridians:  map[string]*PrimeMeridian{},
		datums:     map[string]Datum{},
		crss:       map[string]CRS{},
		operations: map[string]*Transformation{},
	}
}

// Add registers an object under its own first identifier.
func (m *MemoryCatalog) Add(objs ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, obj := range objs {
		switch o := obj.(type) {
		case *Ellipsoid:
			m.ellipsoids[o.EPSGCode()] = o
		case *PrimeMeridian:
			m.meridians[o.EPSGCode()] = o
		case Datum:
			m.datums[o.Object().EPSGCode()] = o
		case *Transformation:
			m.operations[o.EPSGCode()] = o
		case CRS:
			m.crss[o.Object().EPSGCode()] = o
		}
	}
}

func (m *MemoryCatalog) bare(code string) (string, bool) {
	auth, c := splitAuthorityCode(code, m.Authority)
	return c, auth == m.Authority
}

func (m *MemoryCatalog) CreateEllipsoid(code string) (*Ellipsoid, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.bare(code); ok {
		if e, found := m.ellipsoids[c]; found {
			return e, nil
		}
	}
	return nil, &NoSuchAuthorityCodeError{Authority: m.Authority, Code: code}
}

func (m *MemoryCatalog) CreatePrimeMeridian(code string) (*PrimeMeridian, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.bare(code); ok {
		if pm, found := m.meridians[c]; found {
			return pm, nil
		}
	}
	return nil, &NoSuchAuthorityCodeError{Authority: m.Authority, Code: code}
}

func (m *MemoryCatalog) CreateDatum(code string) (Datum, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.bare(code); ok {
		if d, found := m.datums[c]; found {
			return d, nil
		}
	}
	return nil, &NoSuchAuthorityCodeError{Authority: m.Authority, Code: code}
}

func (m *MemoryCatalog) CreateCoordinateSystem(code string) (*CoordinateSystem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.bare(code); ok {
		for _, crs := range m.crss {
			if cs := crs.CoordinateSystem(); cs != nil && cs.EPSGCode() == c {
				return cs, nil
			}
		}
	}
	return nil, &NoSuchAuthorityCodeError{Authority: m.Authority, Code: code}
}

func (m *MemoryCatalog) CreateCRS(code string) (CRS, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.bare(code); ok {
		if crs, found := m.crss[c]; found {
			return crs, nil
		}
	}
	return nil, &NoSuchAuthorityCodeError{Authority: m.Authority, Code: code}
}

func (m *MemoryCatalog) CreateCoordinateOperation(code string) (CoordinateOperation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.bare(code); ok {
		if t, found := m.operations[c]; found {
			return t, nil
		}
	}
	return nil, &NoSuchAuthorityCodeError{Authority: m.Authority, Code: code}
}

func (m *MemoryCatalog) Authorities() []string { return []string{m.Authority} }

func (m *MemoryCatalog) Codes(t ObjectType, allowDeprecated bool) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var codes []string
	keep := func(code string, obj *IdentifiedObject) {
		if code == "" || (obj.Deprecated && !allowDeprecated) {
			return
		}
		codes = append(codes, code)
	}
	switch t {
	case ObjectTypeEllipsoid:
		for c, e := range m.ellipsoids {
			keep(c, &e.IdentifiedObject)
		}
	case ObjectTypePrimeMeridian:
		for c, pm := range m.meridians {
			keep(c, &pm.IdentifiedObject)
		}
	case ObjectTypeDatum:
		for c, d := range m.datums {
			keep(c, d.Object())
		}
	case ObjectTypeCRS:
		for c, crs := range m.crss {
			keep(c, crs.Object())
		}
	case ObjectTypeOperation:
		for c, op := range m.operations {
			keep(c, &op.IdentifiedObject)
		}
	case ObjectTypeCoordinateSystem:
		for _, crs := range m.crss {
			if cs := crs.CoordinateSystem(); cs != nil && cs.EPSGCode() != "" {
				keep(cs.EPSGCode(), &cs.IdentifiedObject)
			}
		}
	}
	sort.Strings(codes)
	return codes, nil
}

// datumCodeOf returns the EPSG code of a CRS's datum, looking through
// ensembles.
func datumCodeOf(c CRS) string {
	d := c.DatumOrEnsemble()
	if d == nil {
		if g := ExtractGeographicCRS(c); g != nil {
			d = g.Datum
		}
	}
	if d == nil {
		return ""
	}
	return d.Object().EPSGCode()
}

func (m *MemoryCatalog) OperationsBetweenDatums(sourceDatumCode, targetDatumCode string, area *Extent, allowUnknownAccuracy bool) ([]*Transformation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Transformation
	for _, t := range m.operations {
		if datumCodeOf(t.Source) != sourceDatumCode || datumCodeOf(t.Target) != targetDatumCode {
			continue
		}
		if _, known := t.Accuracy(); !known && !allowUnknownAccuracy {
			continue
		}
		if area != nil && !area.Intersects(t.Domain) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EPSGCode() < out[j].EPSGCode() })
	return out, nil
}

var (
	defaultCatalogOnce sync.Once
	defaultCatalog     *MemoryCatalog
)

// DefaultCatalog returns the process-wide builtin EPSG subset. The
// handle is initialized once and is safe for concurrent readers.
func DefaultCatalog() *MemoryCatalog {
	defaultCatalogOnce.Do(func() {
		defaultCatalog = buildDefaultCatalog()
	})
	return defaultCatalog
}

func buildDefaultCatalog() *MemoryCatalog {
	builtinOnce.Do(buildBuiltins)
	m := NewMemoryCatalog("EPSG")
	m.Add(
		EllipsoidWGS84, EllipsoidGRS80, EllipsoidClarke1880IGN, EllipsoidClarke1866,
		EllipsoidIntl1924, EllipsoidKrassowsky, EllipsoidBessel, EllipsoidWGS72, EllipsoidGRS67,
		Greenwich, Paris,
		DatumWGS84, DatumNTFParis, DatumNTF, DatumETRS89, DatumRGF93,
		DatumPulkovo4258, DatumNAD83, DatumNAD27, DatumED50, DatumWGS72,
		crsWGS84Geographic, crsWGS84Geographic3D, crsWGS84Geocentric,
		crsETRS89, crsRGF93, crsNTFParis, crsNTF, crsPulkovo4258,
		crsNAD83, crsNAD27, crsED50, crsWGS72,
		crsUTM31WGS84, crsUTM32WGS84, crsLambert93,
	)

	// NTF (Paris) to WGS 84: a pure rotation of the longitude origin
	// from Paris to Greenwich at this accuracy.
	ntfParisToWGS84, _ := NewTransformation(
		namedObject("NTF (Paris) to WGS 84 (1)", "8094"),
		crsNTFParis, crsWGS84Geographic,
		newMethod(MethodLongitudeRotation, epsgLongitudeRotation),
		[]OperationParameterValue{
			measureParam(ParamLonOffset, epsgParamLonOffset, Grads(2.5969213)),
		}, []float64{1})
	ntfParisToWGS84.Domain = &Extent{Description: "France - onshore and offshore.",
		BBoxes: []GeographicBoundingBox{{West: -9.86, South: 41.15, East: 10.38, North: 51.56}}}

	// Pulkovo 1942(58) to ETRS89: the Polish and Romanian Helmert
	// realizations. Both carry the same nominal accuracy, so the
	// factory's area tie-breaker decides between them.
	pulkovoPoland, _ := NewHelmertTransformation(
		namedObject("Pulkovo 1942(58) to ETRS89 (1)", "1644"),
		crsPulkovo4258, crsETRS89,
		33.4, -146.6, -76.3, -0.359, -0.053, 0.844, -0.84, true, 1)
	pulkovoPoland.Domain = &Extent{Description: "Poland - onshore.",
		BBoxes: []GeographicBoundingBox{{West: 14.14, South: 49, East: 24.15, North: 54.89}}}

	pulkovoRomania, _ := NewHelmertTransformation(
		namedObject("Pulkovo 1942(58) to ETRS89 (4)", "15994"),
		crsPulkovo4258, crsETRS89,
		2.3287, -147.0425, -92.0802, 0.3092483, -0.32482185, -0.49729934, 5.68906266, true, 1)
	pulkovoRomania.Domain = &Extent{Description: "Romania - onshore and offshore.",
		BBoxes: []GeographicBoundingBox{{West: 20.26, South: 43.44, East: 31.41, North: 48.27}}}

	// NTF (Paris) to NTF: longitude rotation between the two French
	// datum expressions.
	ntfParisToNTF, _ := NewTransformation(
		namedObject("NTF (Paris) to NTF (1)", "1763"),
		crsNTFParis, crsNTF,
		newMethod(MethodLongitudeRotation, epsgLongitudeRotation),
		[]OperationParameterValue{
			measureParam(ParamLonOffset, epsgParamLonOffset, Grads(2.5969213)),
		}, []float64{0})
	ntfParisToNTF.Domain = ntfParisToWGS84.Domain

	// NTF to WGS 84: the classical three-parameter shift.
	ntfToWGS84, _ := NewGeocentricTranslations(
		namedObject("NTF to WGS 84 (1)", "1193"),
		crsNTF, crsWGS84Geographic, -168, -60, 320, 2)
	ntfToWGS84.Domain = ntfParisToWGS84.Domain

	// ED50 to WGS 84 (mean European shift).
	ed50ToWGS84, _ := NewGeocentricTranslations(
		namedObject("ED50 to WGS 84 (1)", "1133"),
		crsED50, crsWGS84Geographic, -87, -98, -121, 10)
	ed50ToWGS84.Domain = &Extent{Description: "Europe - mean.",
		BBoxes: []GeographicBoundingBox{{West: -10.67, South: 34.88, East: 31.59, North: 71.21}}}

	// NAD27 to NAD83 over the conterminous United States, grid based.
	nad27ToNAD83, _ := NewTransformation(
		namedObject("NAD27 to NAD83 (1)", "1241"),
		crsNAD27, crsNAD83,
		newMethod(MethodNTv2, epsgNTv2),
		[]OperationParameterValue{
			filenameParam(ParamLatLonDifferenceFile, epsgParamLatLonDifferenceFile, "conus"),
		}, []float64{0.15})
	nad27ToNAD83.Domain = &Extent{Description: "United States (USA) - CONUS onshore.",
		BBoxes: []GeographicBoundingBox{{West: -124.79, South: 24.41, East: -66.91, North: 49.38}}}

	// WGS 72 to WGS 84.
	wgs72ToWGS84, _ := NewHelmertTransformation(
		namedObject("WGS 72 to WGS 84 (2)", "1238"),
		crsWGS72, crsWGS84Geographic,
		0, 0, 4.5, 0, 0, 0.554, 0.2263, true, 3)
	wgs72ToWGS84.Domain = &Extent{Description: "World.",
		BBoxes: []GeographicBoundingBox{{West: -180, South: -90, East: 180, North: 90}}}

	// ETRS89 to WGS 84: equivalent at the metre level.
	etrs89ToWGS84, _ := NewGeocentricTranslations(
		namedObject("ETRS89 to WGS 84 (1)", "1149"),
		crsETRS89, crsWGS84Geographic, 0, 0, 0, 1)
	etrs89ToWGS84.Domain = &Extent{Description: "Europe - ETRS89.",
		BBoxes: []GeographicBoundingBox{{West: -16.1, South: 32.88, East: 40.18, North: 84.73}}}

	m.Add(ntfParisToWGS84, pulkovoPoland, pulkovoRomania, ntfParisToNTF,
		ntfToWGS84, ed50ToWGS84, nad27ToNAD83, wgs72ToWGS84, etrs89ToWGS84)
	return m
}

// BoundToWGS84IfPossible wraps a CRS in a Bound CRS pinning its
// transformation to WGS 84 when the catalog knows a Helmert of at
// most seven parameters for its datum. Already-bound CRSs and CRSs
// with no usable transformation are returned unchanged.
func BoundToWGS84IfPossible(c CRS, catalog AuthorityFactory) CRS {
	if _, ok := c.(*BoundCRS); ok {
		return c
	}
	code := datumCodeOf(c)
	if code == "" || catalog == nil {
		return c
	}
	wgs84 := DatumWGS84.EPSGCode()
	if code == wgs84 {
		return c
	}
	ops, err := catalog.OperationsBetweenDatums(code, wgs84, nil, false)
	if err != nil {
		return c
	}
	for _, t := range ops {
		if _, ok := towgs84Params(t); !ok {
			continue
		}
		bound, err := NewBoundCRS(c, CRSWGS84Geographic(), t)
		if err == nil {
			return bound
		}
	}
	return c
}
