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
	"strings"

	"github.com/ctessum/geom"
	"github.com/spf13/cast"
)

// An Identifier addresses an object within the namespace of an
// authority such as EPSG or IGNF. Codes are strings; EPSG happens to
// use small integers but they are never treated numerically.
type Identifier struct {
	Authority   string
	Codespace   string
	Code        string
	Version     string
	Description string
	URI         string
}

// IdentifiedObject carries the metadata shared by every catalog
// entity. It is embedded as the first field of each concrete type.
type IdentifiedObject struct {
	Name        string
	Aliases     []string
	Identifiers []Identifier
	Remarks     string
	Scope       string
	Domain      *Extent
	Deprecated  bool
	// Proj4Extension preserves the content of a WKT1
	// EXTENSION["PROJ4", ...] node; it is used as a fallback when the
	// object cannot otherwise be expressed faithfully.
	Proj4Extension string
}

// Object returns the embedded metadata; it makes every concrete
// entity satisfy the interfaces that only need metadata access.
func (o *IdentifiedObject) Object() *IdentifiedObject { return o }

// ID returns the code registered for the given codespace, or "".
func (o *IdentifiedObject) ID(codespace string) string {
	for _, id := range o.Identifiers {
		if strings.EqualFold(id.Codespace, codespace) {
			return id.Code
		}
	}
	return ""
}

// EPSGCode returns the object's EPSG code, or "".
func (o *IdentifiedObject) EPSGCode() string { return o.ID("EPSG") }

// nameMatches reports whether the object's name or one of its aliases
// matches s under canonical comparison.
func (o *IdentifiedObject) nameMatches(s string) bool {
	c := canonicalName(s)
	if canonicalName(o.Name) == c {
		return true
	}
	for _, a := range o.Aliases {
		if canonicalName(a) == c {
			return true
		}
	}
	return false
}

// canonicalName normalizes a name for matching: enclosing quotes are
// stripped, whitespace is collapsed, underscores become spaces, and
// the result is case-folded.
func canonicalName(s string) string {
	s = strings.Trim(s, `"`)
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.ToLower(s)
}

// identifiedObjectFromProperties builds the shared metadata from a
// property map. Recognized keys: "name", "aliases", "identifiers",
// "remarks", "scope", "domain", "deprecated".
func identifiedObjectFromProperties(props map[string]interface{}) (IdentifiedObject, error) {
	var o IdentifiedObject
	for k, v := range props {
		switch k {
		case "name":
			s, err := cast.ToStringE(v)
			if err != nil {
				return o, &InvalidValueTypeError{Key: k, Expected: "string"}
			}
			o.Name = s
		case "aliases":
			ss, err := cast.ToStringSliceE(v)
			if err != nil {
				return o, &InvalidValueTypeError{Key: k, Expected: "[]string"}
			}
			o.Aliases = ss
		case "identifiers":
			ids, ok := v.([]Identifier)
			if !ok {
				if id, ok2 := v.(Identifier); ok2 {
					ids = []Identifier{id}
				} else {
					return o, &InvalidValueTypeError{Key: k, Expected: "[]geocrs.Identifier"}
				}
			}
			o.Identifiers = ids
		case "remarks":
			s, err := cast.ToStringE(v)
			if err != nil {
				return o, &InvalidValueTypeError{Key: k, Expected: "string"}
			}
			o.Remarks = s
		case "scope":
			s, err := cast.ToStringE(v)
			if err != nil {
				return o, &InvalidValueTypeError{Key: k, Expected: "string"}
			}
			o.Scope = s
		case "domain":
			e, ok := v.(*Extent)
			if !ok {
				return o, &InvalidValueTypeError{Key: k, Expected: "*geocrs.Extent"}
			}
			o.Domain = e
		case "deprecated":
			b, err := cast.ToBoolE(v)
			if err != nil {
				return o, &InvalidValueTypeError{Key: k, Expected: "bool"}
			}
			o.Deprecated = b
		}
	}
	return o, nil
}

// namedObject is shorthand for metadata with just a name and an
// optional EPSG code.
func namedObject(name, epsgCode string) IdentifiedObject {
	o := IdentifiedObject{Name: name}
	if epsgCode != "" {
		o.Identifiers = []Identifier{{Authority: "EPSG", Codespace: "EPSG", Code: epsgCode}}
	}
	return o
}

// A GeographicBoundingBox is an extent element in decimal degrees.
// West > East denotes a box crossing the antimeridian.
type GeographicBoundingBox struct {
	West, South, East, North float64
}

// bounds splits the box into one or two geom.Bounds, the second one
// present only for antimeridian-crossing boxes.
func (b GeographicBoundingBox) bounds() []*geom.Bounds {
	if b.West > b.East {
		return []*geom.Bounds{
			{Min: geom.Point{X: b.West, Y: b.South}, Max: geom.Point{X: 180, Y: b.North}},
			{Min: geom.Point{X: -180, Y: b.South}, Max: geom.Point{X: b.East, Y: b.North}},
		}
	}
	return []*geom.Bounds{{Min: geom.Point{X: b.West, Y: b.South}, Max: geom.Point{X: b.East, Y: b.North}}}
}

// Intersects reports whether the two boxes share any area.
func (b GeographicBoundingBox) Intersects(o GeographicBoundingBox) bool {
	for _, bb := range b.bounds() {
		for _, ob := range o.bounds() {
			if bb.Overlaps(ob) {
				return true
			}
		}
	}
	return false
}

// Contains reports whether o lies entirely within b.
func (b GeographicBoundingBox) Contains(o GeographicBoundingBox) bool {
	for _, ob := range o.bounds() {
		inside := false
		for _, bb := range b.bounds() {
			if bb.Min.X <= ob.Min.X && bb.Min.Y <= ob.Min.Y &&
				bb.Max.X >= ob.Max.X && bb.Max.Y >= ob.Max.Y {
				inside = true
				break
			}
		}
		if !inside {
			return false
		}
	}
	return true
}

// Intersection returns the overlap of the two boxes, if any. For
// antimeridian-crossing inputs only the larger overlapping piece is
// returned.
func (b GeographicBoundingBox) Intersection(o GeographicBoundingBox) (GeographicBoundingBox, bool) {
	var best GeographicBoundingBox
	bestArea := -1.0
	for _, bb := range b.bounds() {
		for _, ob := range o.bounds() {
			if !bb.Overlaps(ob) {
				continue
			}
			r := GeographicBoundingBox{
				West:  math.Max(bb.Min.X, ob.Min.X),
				South: math.Max(bb.Min.Y, ob.Min.Y),
				East:  math.Min(bb.Max.X, ob.Max.X),
				North: math.Min(bb.Max.Y, ob.Max.Y),
			}
			if a := r.Area(); a > bestArea {
				best, bestArea = r, a
			}
		}
	}
	return best, bestArea >= 0
}

// Area returns a pseudo-area proportional to the box's share of the
// sphere, used only to order extents by size.
func (b GeographicBoundingBox) Area() float64 {
	var a float64
	for _, bb := range b.bounds() {
		w := bb.Max.X - bb.Min.X
		a += w * (math.Sin(bb.Max.Y*math.Pi/180) - math.Sin(bb.Min.Y*math.Pi/180)) * 180 / math.Pi
	}
	return a
}

// A VerticalExtent bounds an extent in the vertical dimension.
type VerticalExtent struct {
	Minimum, Maximum float64
	Unit             UnitOfMeasure
}

// A TemporalExtent bounds an extent in time, as ISO 8601 instants.
type TemporalExtent struct {
	Start, Stop string
}

// An Extent describes a domain of validity.
type Extent struct {
	Description string
	BBoxes      []GeographicBoundingBox
	Vertical    []VerticalExtent
	Temporal    []TemporalExtent
}

// NewExtentFromBBox is shorthand for a purely geographic extent.
func NewExtentFromBBox(west, south, east, north float64) *Extent {
	return &Extent{BBoxes: []GeographicBoundingBox{{West: west, South: south, East: east, North: north}}}
}

// Intersects reports whether the geographic parts of two extents
// overlap. An extent with no geographic element intersects everything.
func (e *Extent) Intersects(o *Extent) bool {
	if e == nil || o == nil || len(e.BBoxes) == 0 || len(o.BBoxes) == 0 {
		return true
	}
	for _, b := range e.BBoxes {
		for _, ob := range o.BBoxes {
			if b.Intersects(ob) {
				return true
			}
		}
	}
	return false
}

// Contains reports whether every geographic element of o lies within
// some geographic element of e.
func (e *Extent) Contains(o *Extent) bool {
	if e == nil || len(e.BBoxes) == 0 {
		return true
	}
	if o == nil || len(o.BBoxes) == 0 {
		return false
	}
	for _, ob := range o.BBoxes {
		inside := false
		for _, b := range e.BBoxes {
			if b.Contains(ob) {
				inside = true
				break
			}
		}
		if !inside {
			return false
		}
	}
	return true
}

// Area returns the summed pseudo-area of the extent's geographic
// elements.
func (e *Extent) Area() float64 {
	if e == nil {
		return 0
	}
	var a float64
	for _, b := range e.BBoxes {
		a += b.Area()
	}
	return a
}

// Criterion selects how strictly two objects are compared.
type Criterion int

const (
	// Strict compares identifiers, names, and values byte-exactly.
	Strict Criterion = iota
	// Equivalent ignores names and identifiers and compares semantic
	// content with numeric tolerance.
	Equivalent
	// EquivalentIgnoringAxisOrder additionally treats geographic and
	// projected coordinate systems that differ only by a swap of the
	// first two axes as equal.
	EquivalentIgnoringAxisOrder
)

// metadataEquivalent compares the metadata part of two objects under
// the given criterion. Under Equivalent and looser criteria it always
// reports true, since names and ids are ignored.
func metadataEquivalent(a, b *IdentifiedObject, c Criterion) bool {
	if c != Strict {
		return true
	}
	if a.Name != b.Name || len(a.Identifiers) != len(b.Identifiers) {
		return false
	}
	for i := range a.Identifiers {
		if a.Identifiers[i] != b.Identifiers[i] {
			return false
		}
	}
	return true
}
