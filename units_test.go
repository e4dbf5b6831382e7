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

func TestUnitEquivalence(t *testing.T) {
	renamed := NewUnitOfMeasure("degree (supplier)", math.Pi/180, UnitKindAngle)
	if !Degree.Equivalent(renamed) {
		t.Error("degree under another name should be equivalent")
	}
	if Degree.Equivalent(Grad) {
		t.Error("degree and grad must not be equivalent")
	}
	if Metre.Equivalent(Unity) {
		t.Error("units of different kinds must not be equivalent")
	}
	almost := NewUnitOfMeasure("degree", math.Pi/180+1e-13, UnitKindAngle)
	if !Degree.Equivalent(almost) {
		t.Error("conversion factors within tolerance should be equivalent")
	}
}

func TestMeasureSI(t *testing.T) {
	cases := []struct {
		m    Measure
		want float64
	}{
		{Degrees(180), math.Pi},
		{Grads(200), math.Pi},
		{Radians(1), 1},
		{Metres(12.5), 12.5},
		{Measure{2, Kilometre}, 2000},
		{ArcSecs(3600), math.Pi / 180},
	}
	for _, c := range cases {
		if got := c.m.SI(); math.Abs(got-c.want) > 1e-12 {
			t.Errorf("%v SI: want %v but have %v", c.m, c.want, got)
		}
	}
}

func TestMeasureConvert(t *testing.T) {
	m, err := Grads(100).Convert(Degree)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(m.Val-90) > 1e-12 {
		t.Errorf("100 grads: want 90 degrees but have %v", m.Val)
	}
	if _, err := Metres(1).Convert(Degree); err == nil {
		t.Error("converting a length to an angle should fail")
	}
}

func TestMeasureArithmetic(t *testing.T) {
	sum, err := Degrees(90).Add(Grads(100))
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(sum.Val-180) > 1e-12 {
		t.Errorf("90 deg + 100 grad: want 180 deg but have %v", sum.Val)
	}
	if _, err := Degrees(1).Add(Metres(1)); err == nil {
		t.Error("adding incompatible kinds should fail")
	}
	if neg := Degrees(2).Neg(); neg.Val != -2 {
		t.Errorf("negation: want -2 but have %v", neg.Val)
	}
}

func TestMeasureEquivalence(t *testing.T) {
	if !Degrees(90).Equivalent(Grads(100)) {
		t.Error("90 degrees and 100 grads are the same angle")
	}
	if Degrees(90).Equivalent(Degrees(90.001)) {
		t.Error("different angles must not be equivalent")
	}
}
