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
	"reflect"
	"strings"
	"testing"
)

func pipelineOf(t *testing.T, op CoordinateOperation) string {
	t.Helper()
	s, err := NewProjStringFormatter(PROJ5).FormatOperation(op)
	if err != nil {
		t.Fatalf("formatting %q: %v", op.Object().Name, err)
	}
	return s
}

func TestIdentityOperationWGS84(t *testing.T) {
	builtinOnce.Do(buildBuiltins)
	ops, err := CreateOperations(crsWGS84Geographic, crsWGS84Geographic, NewContext())
	if err != nil {
		t.Fatal(err)
	}
	if len(ops) != 1 {
		t.Fatalf("want one identity operation but have %d", len(ops))
	}
	if got := pipelineOf(t, ops[0]); got != "" {
		t.Errorf("identity pipeline should be empty, have %q", got)
	}
}

func TestNTFParisToWGS84(t *testing.T) {
	builtinOnce.Do(buildBuiltins)
	ops, err := CreateOperations(crsNTFParis, crsWGS84Geographic, NewContext())
	if err != nil {
		t.Fatal(err)
	}
	if len(ops) != 1 {
		t.Fatalf("want exactly one direct operation but have %d", len(ops))
	}
	want := "+proj=pipeline " +
		"+step +proj=axisswap +order=2,1 " +
		"+step +proj=unitconvert +xy_in=grad +xy_out=rad " +
		"+step +inv +proj=longlat +ellps=clrk80ign +pm=paris " +
		"+step +proj=unitconvert +xy_in=rad +xy_out=deg " +
		"+step +proj=axisswap +order=2,1"
	if got := pipelineOf(t, ops[0]); got != want {
		t.Errorf("EPSG:4807 -> EPSG:4326:\nwant %s\nhave %s", want, got)
	}
}

func TestPulkovoToETRS89Ranking(t *testing.T) {
	builtinOnce.Do(buildBuiltins)
	ops, err := CreateOperations(crsPulkovo4258, crsETRS89, NewContext())
	if err != nil {
		t.Fatal(err)
	}
	if len(ops) < 2 {
		t.Fatalf("want at least two candidates but have %d", len(ops))
	}
	// Romania's transformation covers the larger area and wins the
	// tie-breaker.
	if ops[0].Object().EPSGCode() != "15994" {
		t.Errorf("want EPSG:15994 first but have %s (%s)",
			ops[0].Object().EPSGCode(), ops[0].Object().Name)
	}
	if ops[1].Object().EPSGCode() != "1644" {
		t.Errorf("want EPSG:1644 second but have %s", ops[1].Object().EPSGCode())
	}

	// Restricting the area of interest to Romania leaves only the
	// Romanian entry.
	ctx := NewContext()
	ctx.AreaOfInterest = NewExtentFromBBox(20.26, 43.44, 31.41, 48.27)
	ops, err = CreateOperations(crsPulkovo4258, crsETRS89, ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(ops) != 1 || ops[0].Object().EPSGCode() != "15994" {
		t.Fatalf("want only EPSG:15994 but have %d candidates", len(ops))
	}
}

func TestUTMZoneToZone(t *testing.T) {
	builtinOnce.Do(buildBuiltins)
	ops, err := CreateOperations(crsUTM31WGS84, crsUTM32WGS84, NewContext())
	if err != nil {
		t.Fatal(err)
	}
	if len(ops) != 1 {
		t.Fatalf("want one operation but have %d", len(ops))
	}
	want := "+proj=pipeline " +
		"+step +inv +proj=utm +zone=31 +ellps=WGS84 " +
		"+step +proj=utm +zone=32 +ellps=WGS84"
	if got := pipelineOf(t, ops[0]); got != want {
		t.Errorf("EPSG:32631 -> EPSG:32632:\nwant %s\nhave %s", want, got)
	}
	if strings.Contains(pipelineOf(t, ops[0]), "helmert") {
		t.Error("no datum shift step expected between UTM zones of one datum")
	}
}

func TestProjectedToItsBase(t *testing.T) {
	builtinOnce.Do(buildBuiltins)
	ops, err := CreateOperations(crsUTM31WGS84, crsWGS84Geographic, NewContext())
	if err != nil {
		t.Fatal(err)
	}
	if len(ops) != 1 {
		t.Fatalf("want one operation but have %d", len(ops))
	}
	want := "+proj=pipeline " +
		"+step +inv +proj=utm +zone=31 +ellps=WGS84 " +
		"+step +proj=unitconvert +xy_in=rad +xy_out=deg " +
		"+step +proj=axisswap +order=2,1"
	if got := pipelineOf(t, ops[0]); got != want {
		t.Errorf("EPSG:32631 -> EPSG:4326:\nwant %s\nhave %s", want, got)
	}
}

func TestBoundCRSHelmertPipeline(t *testing.T) {
	builtinOnce.Do(buildBuiltins)
	bound, err := boundFromTOWGS84(crsNTFParis, []float64{1, 2, 3, 4, 5, 6, 7})
	if err != nil {
		t.Fatal(err)
	}
	ops, err := CreateOperations(bound, crsWGS84Geographic, NewContext())
	if err != nil {
		t.Fatal(err)
	}
	if len(ops) != 1 {
		t.Fatalf("want the pinned operation only but have %d", len(ops))
	}
	got := pipelineOf(t, ops[0])
	if !strings.Contains(got,
		"+proj=helmert +x=1 +y=2 +z=3 +rx=4 +ry=5 +rz=6 +s=7 +convention=position_vector") {
		t.Errorf("missing position-vector Helmert step in %s", got)
	}
	if !strings.Contains(got, "+step +proj=cart +ellps=clrk80ign") ||
		!strings.Contains(got, "+step +inv +proj=cart +ellps=WGS84") {
		t.Errorf("missing geocentric conversion steps in %s", got)
	}
}

func TestFactoryDeterminism(t *testing.T) {
	builtinOnce.Do(buildBuiltins)
	a, err := CreateOperations(crsPulkovo4258, crsETRS89, NewContext())
	if err != nil {
		t.Fatal(err)
	}
	b, err := CreateOperations(crsPulkovo4258, crsETRS89, NewContext())
	if err != nil {
		t.Fatal(err)
	}
	namesOf := func(ops []CoordinateOperation) []string {
		out := make([]string, len(ops))
		for i, op := range ops {
			out[i] = op.Object().Name
		}
		return out
	}
	if !reflect.DeepEqual(namesOf(a), namesOf(b)) {
		t.Errorf("two invocations differ: %v vs %v", namesOf(a), namesOf(b))
	}
}

func TestFactoryEmptyResultIsNotAnError(t *testing.T) {
	builtinOnce.Do(buildBuiltins)
	// An isolated datum with no catalogued transformations.
	lonely, err := NewGeodeticReferenceFrame(namedObject("Lonely datum", "9999"),
		EllipsoidBessel, Greenwich, "")
	if err != nil {
		t.Fatal(err)
	}
	crs, err := NewGeographicCRS(namedObject("Lonely", "99990"), lonely, NewEllipsoidalCS2D())
	if err != nil {
		t.Fatal(err)
	}
	ops, err := CreateOperations(crs, crsWGS84Geographic, NewContext())
	if err != nil {
		t.Fatalf("no candidates is not an error condition: %v", err)
	}
	if len(ops) != 0 {
		t.Errorf("want no candidates but have %d", len(ops))
	}
}

func TestFactoryHubFallback(t *testing.T) {
	builtinOnce.Do(buildBuiltins)
	// NTF and ETRS89 have no direct entry; the WGS 84 hub links them.
	ops, err := CreateOperations(crsNTF, crsETRS89, NewContext())
	if err != nil {
		t.Fatal(err)
	}
	if len(ops) == 0 {
		t.Fatal("want hub-concatenated candidates")
	}
	conc, ok := ops[0].(*ConcatenatedOperation)
	if !ok {
		t.Fatalf("want a concatenated operation but have %T", ops[0])
	}
	if len(conc.Steps) != 2 {
		t.Errorf("want two steps through the hub but have %d", len(conc.Steps))
	}
	if a, ok := conc.Accuracy(); !ok || a <= 0 {
		t.Errorf("hub concatenation should accumulate accuracy, have %v (%v)", a, ok)
	}
}

func TestFactoryAccuracyFilter(t *testing.T) {
	builtinOnce.Do(buildBuiltins)
	ctx := NewContext()
	ctx.DesiredAccuracy = 0.5 // both Pulkovo entries are 1 m
	ops, err := CreateOperations(crsPulkovo4258, crsETRS89, ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(ops) != 0 {
		t.Errorf("accuracy bound should discard both candidates, have %d", len(ops))
	}
}

func TestFactoryGridDiscardPolicy(t *testing.T) {
	builtinOnce.Do(buildBuiltins)
	ctx := NewContext()
	ctx.GridAvailability = DiscardMissingGrid
	ops, err := CreateOperations(crsNAD27, crsNAD83, ctx)
	if err != nil {
		t.Fatal(err)
	}
	for _, op := range ops {
		for _, g := range GridsNeeded(op, ctx.grids(), true) {
			if !g.Available {
				t.Errorf("operation %q needs unavailable grid %q", op.Object().Name, g.ShortName)
			}
		}
	}

	available := DefaultGridRegistry()
	g := available.Grids["conus"]
	g.Available = true
	available.Grids["conus"] = g
	ctx.Grids = available
	ops, err = CreateOperations(crsNAD27, crsNAD83, ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(ops) == 0 {
		t.Error("the grid-based candidate should survive once its grid is available")
	}
}

func TestReturnedOperationInverseContract(t *testing.T) {
	builtinOnce.Do(buildBuiltins)
	ops, err := CreateOperations(crsPulkovo4258, crsETRS89, NewContext())
	if err != nil || len(ops) == 0 {
		t.Fatalf("no candidates: %v", err)
	}
	for _, op := range ops {
		inv, err := op.Inverse()
		if err != nil {
			t.Fatalf("inverting %q: %v", op.Object().Name, err)
		}
		if !inv.SourceCRS().IsEquivalentTo(op.TargetCRS(), EquivalentIgnoringAxisOrder) ||
			!inv.TargetCRS().IsEquivalentTo(op.SourceCRS(), EquivalentIgnoringAxisOrder) {
			t.Errorf("inverse of %q has mismatched endpoints", op.Object().Name)
		}
		back, err := inv.Inverse()
		if err != nil {
			t.Fatal(err)
		}
		if back.Object().Name != op.Object().Name {
			t.Errorf("double inversion of %q yields %q", op.Object().Name, back.Object().Name)
		}
	}
}
