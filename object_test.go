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

func TestCanonicalName(t *testing.T) {
	cases := []struct{ in, want string }{
		{`"WGS 84"`, "wgs 84"},
		{"Transverse_Mercator", "transverse mercator"},
		{"  Latitude   of    origin ", "latitude of origin"},
		{"NTF (Paris)", "ntf (paris)"},
	}
	for _, c := range cases {
		if got := canonicalName(c.in); got != c.want {
			t.Errorf("canonicalName(%q): want %q but have %q", c.in, c.want, got)
		}
	}
}

func TestIdentifiedObjectIDs(t *testing.T) {
	o := namedObject("WGS 84", "4326")
	if o.EPSGCode() != "4326" {
		t.Errorf("EPSG code: have %q", o.EPSGCode())
	}
	if o.ID("IGNF") != "" {
		t.Error("a missing codespace should yield the empty string")
	}
	if !o.nameMatches("wgs_84") {
		t.Error("underscore and case differences should not matter")
	}
}

func TestPropertiesValidation(t *testing.T) {
	if _, err := identifiedObjectFromProperties(map[string]interface{}{
		"name": "ok", "remarks": "fine", "deprecated": true,
	}); err != nil {
		t.Fatal(err)
	}
	_, err := identifiedObjectFromProperties(map[string]interface{}{"name": []int{1}})
	if err == nil {
		t.Fatal("a non-string name should be rejected")
	}
	if _, ok := err.(*InvalidValueTypeError); !ok {
		t.Errorf("want *InvalidValueTypeError but have %T", err)
	}
}

func TestBoundingBoxRelations(t *testing.T) {
	france := GeographicBoundingBox{West: -9.86, South: 41.15, East: 10.38, North: 51.56}
	romania := GeographicBoundingBox{West: 20.26, South: 43.44, East: 31.41, North: 48.27}
	europe := GeographicBoundingBox{West: -16.1, South: 32.88, East: 40.18, North: 84.73}
	if france.Intersects(romania) {
		t.Error("France and Romania boxes do not overlap")
	}
	if !europe.Contains(romania) || !europe.Contains(france) {
		t.Error("the European box contains both")
	}
	if got, ok := europe.Intersection(france); !ok || got != france {
		t.Errorf("intersection with a contained box is the box, have %+v (%v)", got, ok)
	}
	if europe.Area() <= france.Area()+romania.Area() {
		t.Error("area ordering is wrong")
	}
}

func TestBoundingBoxAntimeridian(t *testing.T) {
	fiji := GeographicBoundingBox{West: 176, South: -21, East: -178, North: -15}
	east := GeographicBoundingBox{West: 177, South: -20, East: 179, North: -16}
	west := GeographicBoundingBox{West: -180, South: -20, East: -179, North: -16}
	if !fiji.Intersects(east) || !fiji.Intersects(west) {
		t.Error("an antimeridian-crossing box spans both sides")
	}
	if !fiji.Contains(east) {
		t.Error("the eastern piece lies within the crossing box")
	}
	if fiji.Area() <= 0 {
		t.Error("the crossing box has positive area")
	}
	mid := GeographicBoundingBox{West: 0, South: -20, East: 10, North: -16}
	if fiji.Intersects(mid) {
		t.Error("a box far from the antimeridian does not overlap")
	}
}

func TestExtentHelpers(t *testing.T) {
	romania := NewExtentFromBBox(20.26, 43.44, 31.41, 48.27)
	europe := NewExtentFromBBox(-16.1, 32.88, 40.18, 84.73)
	if !europe.Contains(romania) || europe.Area() <= romania.Area() {
		t.Error("extent containment or area is wrong")
	}
	var unbounded *Extent
	if !unbounded.Intersects(romania) || !unbounded.Contains(romania) {
		t.Error("a nil extent is unbounded")
	}
	if math.Abs(NewExtentFromBBox(-180, -90, 180, 90).Area()-360*2*180/math.Pi) > 1e-9 {
		t.Errorf("whole-world pseudo-area mismatch: %v", NewExtentFromBBox(-180, -90, 180, 90).Area())
	}
}
