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

func TestCoordinateSystemValidation(t *testing.T) {
	if _, err := NewCoordinateSystem(CSCartesian, []CoordinateSystemAxis{AxisEasting(Metre)}); err == nil {
		t.Error("a one-axis Cartesian CS should be rejected")
	}
	if _, err := NewCoordinateSystem(CSCartesian, []CoordinateSystemAxis{
		AxisEasting(Metre), AxisLatitude(Degree)}); err == nil {
		t.Error("a Cartesian CS with an angular axis should be rejected")
	}
	if _, err := NewCoordinateSystem(CSEllipsoidal, []CoordinateSystemAxis{
		AxisLatitude(Degree), AxisEasting(Metre)}); err == nil {
		t.Error("an ellipsoidal CS with a length second axis should be rejected")
	}
	if _, err := NewCoordinateSystem(CSVertical, []CoordinateSystemAxis{
		AxisLatitude(Degree)}); err == nil {
		t.Error("a vertical CS with an angular axis should be rejected")
	}
	if _, err := NewCoordinateSystem(CSEllipsoidal, []CoordinateSystemAxis{
		AxisLatitude(Degree), AxisLongitude(Degree), AxisEllipsoidalHeight(Metre)}); err != nil {
		t.Errorf("a 3D ellipsoidal CS should be accepted: %v", err)
	}
}

func TestAxisOrderClassification(t *testing.T) {
	cases := []struct {
		cs   *CoordinateSystem
		want AxisOrder
	}{
		{NewEllipsoidalCS2D(), AxisOrderLatNorthLongEast},
		{NewEllipsoidalCS3D(), AxisOrderLatNorthLongEastHeightUp},
		{NewEllipsoidalCSLongLat(Degree), AxisOrderLongEastLatNorth},
		{NewCartesianEastingNorthing(Metre), AxisOrderLongEastLatNorth},
		{NewGeocentricCS(), AxisOrderOther},
	}
	for i, c := range cases {
		if got := c.cs.AxisOrder(); got != c.want {
			t.Errorf("case %d: want %v but have %v", i, c.want, got)
		}
	}
}

func TestCSEquivalenceIgnoringAxisOrder(t *testing.T) {
	latlon := NewEllipsoidalCS2D()
	lonlat := NewEllipsoidalCSLongLat(Degree)
	if latlon.IsEquivalentTo(lonlat, Equivalent) {
		t.Error("swapped axes are not equivalent under the plain criterion")
	}
	if !latlon.IsEquivalentTo(lonlat, EquivalentIgnoringAxisOrder) {
		t.Error("swapped axes should match when the criterion ignores axis order")
	}
	grads := NewEllipsoidalCS2DUnit(Grad)
	if latlon.IsEquivalentTo(grads, EquivalentIgnoringAxisOrder) {
		t.Error("different angular units must not be equivalent")
	}
}

func TestParseAxisDirection(t *testing.T) {
	if d, ok := ParseAxisDirection("NORTH"); !ok || d != DirNorth {
		t.Errorf("NORTH: want %v but have %v (%v)", DirNorth, d, ok)
	}
	if d, ok := ParseAxisDirection("geocentricX"); !ok || d != DirGeocentricX {
		t.Errorf("geocentricX: want %v but have %v (%v)", DirGeocentricX, d, ok)
	}
	if _, ok := ParseAxisDirection("sideways"); ok {
		t.Error("an unknown direction should not parse")
	}
	if DirNorth.Opposite() != DirSouth || DirFuture.Opposite() != DirPast {
		t.Error("direction opposites are wrong")
	}
}
