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
	"fmt"
	"math"
	"sort"

	log "github.com/sirupsen/logrus"
)

// CreateOperations enumerates, ranks, and returns the candidate
// coordinate operations from source to target under the given
// context. An empty list means no candidate satisfied the filters;
// an error means the inputs themselves are unusable.
func CreateOperations(source, target CRS, ctx *Context) ([]CoordinateOperation, error) {
	if ctx == nil {
		ctx = NewContext()
	}
	if source == nil || target == nil {
		return nil, fmt.Errorf("geocrs: CreateOperations: source and target CRS are required")
	}
	srcDatum, dstDatum := datumOf(source), datumOf(target)
	if srcDatum == nil {
		return nil, fmt.Errorf("geocrs: CreateOperations: source CRS %q has no resolvable datum", source.Object().Name)
	}
	if dstDatum == nil {
		return nil, fmt.Errorf("geocrs: CreateOperations: target CRS %q has no resolvable datum", target.Object().Name)
	}

	var cands []CoordinateOperation
	if srcDatum.IsEquivalentTo(dstDatum, Equivalent) {
		op, err := sameDatumOperation(source, target)
		if err != nil {
			return nil, err
		}
		cands = append(cands, op)
	} else {
		direct, err := directOperations(ctx, source, target, srcDatum, dstDatum)
		if err != nil {
			return nil, err
		}
		cands = append(cands, direct...)
		useHub := ctx.IntermediateUse == AlwaysUseIntermediate ||
			(ctx.IntermediateUse == IfNoDirectTransformation && len(direct) == 0)
		if useHub {
			hub, err := hubOperations(ctx, source, target, srcDatum, dstDatum)
			if err != nil {
				return nil, err
			}
			cands = append(cands, hub...)
		}
	}
	log.WithFields(log.Fields{
		"source":     source.Object().Name,
		"target":     target.Object().Name,
		"candidates": len(cands),
	}).Debug("geocrs: operation candidates before ranking")
	return rankOperations(cands, ctx), nil
}

// datumOf resolves the datum an operation lookup should use for a
// CRS, looking through projections, bounds, and compounds.
func datumOf(c CRS) Datum {
	if d := c.DatumOrEnsemble(); d != nil {
		return d
	}
	if g := ExtractGeographicCRS(c); g != nil {
		return g.Datum
	}
	if b, ok := c.(*BoundCRS); ok {
		return datumOf(b.Base)
	}
	return nil
}

// unwrapBound strips a bound wrapper for coordinate-system purposes.
func unwrapBound(c CRS) CRS {
	if b, ok := c.(*BoundCRS); ok {
		return b.Base
	}
	return c
}

// nullOperation is the trivial candidate between two CRSs of the
// same datum: the emitted pipeline reduces to axis and unit
// adaptation, or to nothing at all.
func nullOperation(src, dst CRS) CoordinateOperation {
	conv, _ := NewConversion(
		IdentifiedObject{Name: "Null geographic offset from " + src.Object().Name + " to " + dst.Object().Name},
		newMethod(MethodGeographic2DOffsets, epsgGeographic2DOffsets),
		[]OperationParameterValue{
			measureParam(ParamLatOffset, epsgParamLatOffset, Degrees(0)),
			measureParam(ParamLonOffset, epsgParamLonOffset, Degrees(0)),
		})
	conv.src, conv.dst = src, dst
	return conv
}

// sameDatumOperation builds the conversion chain between two CRSs
// sharing a datum: identity, projection, inverse projection, or
// inverse projection plus projection.
func sameDatumOperation(source, target CRS) (CoordinateOperation, error) {
	s, d := unwrapBound(source), unwrapBound(target)
	sp, sIsProj := s.(*ProjectedCRS)
	dp, dIsProj := d.(*ProjectedCRS)
	switch {
	case sIsProj && dIsProj:
		if sp.Conversion.isEquivalentTo(dp.Conversion, Equivalent) {
			return nullOperation(source, target), nil
		}
		invOp, err := sp.Conversion.withCRS(sp.Base, source).Inverse()
		if err != nil {
			return nil, err
		}
		fwd := dp.Conversion.withCRS(sp.Base, target)
		return NewConcatenatedOperation(IdentifiedObject{}, []CoordinateOperation{invOp, fwd}, nil)
	case sIsProj:
		invOp, err := sp.Conversion.withCRS(target, source).Inverse()
		if err != nil {
			return nil, err
		}
		return invOp, nil
	case dIsProj:
		return dp.Conversion.withCRS(source, target), nil
	}
	_, sIsGeog := s.(*GeographicCRS)
	_, dIsGeog := d.(*GeographicCRS)
	_, sIsGeoc := s.(*GeodeticCRS)
	_, dIsGeoc := d.(*GeodeticCRS)
	switch {
	case sIsGeog && dIsGeoc:
		conv, _ := NewConversion(
			IdentifiedObject{Name: "Geographic/geocentric conversion"},
			newMethod("Geographic/geocentric conversions", epsgGeocentricConversion), nil)
		conv.src, conv.dst = source, target
		return conv, nil
	case sIsGeoc && dIsGeog:
		conv, _ := NewConversion(
			IdentifiedObject{Name: "Geographic/geocentric conversion"},
			newMethod("Geographic/geocentric conversions", epsgGeocentricConversion), nil)
		op, err := conv.Inverse()
		if err != nil {
			return nil, err
		}
		inv := op.(*Conversion)
		inv.src, inv.dst = source, target
		return inv, nil
	}
	return nullOperation(source, target), nil
}

// rebindTransformation re-homes a catalog transformation onto the
// CRSs the caller actually supplied, so the emitted pipeline adapts
// their axes, units, and projections.
func rebindTransformation(t *Transformation, src, dst CRS) *Transformation {
	tt := *t
	tt.Source, tt.Target = src, dst
	return &tt
}

// directOperations enumerates catalog transformations between the two
// datums in both directions, plus the pinned transformations of bound
// CRSs.
func directOperations(ctx *Context, source, target CRS, srcDatum, dstDatum Datum) ([]CoordinateOperation, error) {
	auth := ctx.authority()
	srcCode, dstCode := srcDatum.Object().EPSGCode(), dstDatum.Object().EPSGCode()
	var out []CoordinateOperation

	// A bound CRS pins its preferred transformation; when it reaches
	// the other side's datum the pinned operation replaces catalog
	// lookup.
	wgs84 := DatumWGS84.EPSGCode()
	srcBound, srcIsBound := source.(*BoundCRS)
	dstBound, dstIsBound := target.(*BoundCRS)
	switch {
	case srcIsBound && dstIsBound:
		pair, err := srcToHubPair(srcBound, dstBound, source, target)
		if err != nil {
			return nil, err
		}
		return []CoordinateOperation{pair}, nil
	case srcIsBound && dstCode == wgs84:
		return []CoordinateOperation{rebindTransformation(srcBound.Transformation, source, target)}, nil
	case dstIsBound && srcCode == wgs84:
		invOp, err := rebindTransformation(dstBound.Transformation, target, source).Inverse()
		if err != nil {
			return nil, err
		}
		inv := invOp.(*Transformation)
		inv.Source, inv.Target = source, target
		return []CoordinateOperation{inv}, nil
	}

	if srcCode != "" && dstCode != "" {
		fwd, err := auth.OperationsBetweenDatums(srcCode, dstCode, nil, ctx.AllowUnknownAccuracy)
		if err != nil {
			return nil, err
		}
		for _, t := range fwd {
			out = append(out, rebindTransformation(t, source, target))
		}
		rev, err := auth.OperationsBetweenDatums(dstCode, srcCode, nil, ctx.AllowUnknownAccuracy)
		if err != nil {
			return nil, err
		}
		for _, t := range rev {
			invOp, err := t.Inverse()
			if err != nil {
				return nil, err
			}
			inv := invOp.(*Transformation)
			inv.Source, inv.Target = source, target
			inv.Domain = t.Domain
			out = append(out, inv)
		}
	}
	return out, nil
}

// srcToHubPair concatenates the pinned transformations of two bound
// CRSs through their shared hub.
func srcToHubPair(srcBound, dstBound *BoundCRS, source, target CRS) (CoordinateOperation, error) {
	if !srcBound.Hub.IsEquivalentTo(dstBound.Hub, EquivalentIgnoringAxisOrder) {
		return nil, &InvalidOperationError{What: "bound CRSs with different hubs"}
	}
	t1 := rebindTransformation(srcBound.Transformation, source, srcBound.Hub)
	t2invOp, err := dstBound.Transformation.Inverse()
	if err != nil {
		return nil, err
	}
	t2 := t2invOp.(*Transformation)
	t2.Source, t2.Target = dstBound.Hub, target
	return NewConcatenatedOperation(IdentifiedObject{}, []CoordinateOperation{t1, t2}, nil)
}

// hubOperations concatenates catalog transformations through the
// default hub datums (the WGS 84 realizations).
func hubOperations(ctx *Context, source, target CRS, srcDatum, dstDatum Datum) ([]CoordinateOperation, error) {
	auth := ctx.authority()
	srcCode, dstCode := srcDatum.Object().EPSGCode(), dstDatum.Object().EPSGCode()
	if srcCode == "" || dstCode == "" {
		return nil, nil
	}
	var out []CoordinateOperation
	for _, hubCode := range []string{DatumWGS84.EPSGCode()} {
		if hubCode == srcCode || hubCode == dstCode {
			continue
		}
		legs1, err := legsBetween(auth, srcCode, hubCode, ctx.AllowUnknownAccuracy)
		if err != nil {
			return nil, err
		}
		legs2, err := legsBetween(auth, hubCode, dstCode, ctx.AllowUnknownAccuracy)
		if err != nil {
			return nil, err
		}
		for _, t1 := range legs1 {
			for _, t2 := range legs2 {
				step1 := rebindTransformation(t1, source, t1.Target)
				step2 := rebindTransformation(t2, t2.Source, target)
				conc, err := NewConcatenatedOperation(IdentifiedObject{},
					[]CoordinateOperation{step1, step2}, nil)
				if err != nil {
					log.WithField("reason", err).Debug("geocrs: discarding non-chaining hub pair")
					continue
				}
				conc.Domain = intersectExtents(t1.Domain, t2.Domain)
				out = append(out, conc)
			}
		}
	}
	return out, nil
}

// legsBetween collects transformations from one datum to another in
// either stored direction.
func legsBetween(auth AuthorityFactory, from, to string, allowUnknown bool) ([]*Transformation, error) {
	fwd, err := auth.OperationsBetweenDatums(from, to, nil, allowUnknown)
	if err != nil {
		return nil, err
	}
	out := append([]*Transformation{}, fwd...)
	rev, err := auth.OperationsBetweenDatums(to, from, nil, allowUnknown)
	if err != nil {
		return nil, err
	}
	for _, t := range rev {
		invOp, err := t.Inverse()
		if err != nil {
			return nil, err
		}
		inv := invOp.(*Transformation)
		inv.Domain = t.Domain
		out = append(out, inv)
	}
	return out, nil
}

// intersectExtents intersects the geographic parts of two extents.
func intersectExtents(a, b *Extent) *Extent {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	var boxes []GeographicBoundingBox
	for _, ab := range a.BBoxes {
		for _, bb := range b.BBoxes {
			if r, ok := ab.Intersection(bb); ok {
				boxes = append(boxes, r)
			}
		}
	}
	if len(boxes) == 0 {
		return &Extent{}
	}
	return &Extent{BBoxes: boxes}
}

// operationExtent derives the domain of validity of a candidate.
func operationExtent(op CoordinateOperation) *Extent {
	switch o := op.(type) {
	case *Transformation:
		return o.Domain
	case *ConcatenatedOperation:
		if o.Domain != nil {
			return o.Domain
		}
		var ext *Extent
		for _, s := range o.Steps {
			if se := operationExtent(s); se != nil {
				ext = intersectExtents(ext, se)
			}
		}
		return ext
	}
	return nil
}

// rankOperations applies the spatial, accuracy, and grid filters and
// orders the survivors. The order is deterministic for a fixed
// catalog and context.
func rankOperations(cands []CoordinateOperation, ctx *Context) []CoordinateOperation {
	type ranked struct {
		op           CoordinateOperation
		gridsMissing bool
		partialArea  bool
		accuracy     float64
		area         float64
	}
	var kept []ranked
	for _, op := range cands {
		if op == nil {
			continue
		}
		ext := operationExtent(op)
		if ctx.AreaOfInterest != nil && ext != nil {
			switch ctx.SpatialCriterion {
			case StrictContainment:
				if !ext.Contains(ctx.AreaOfInterest) {
					log.WithField("operation", op.Object().Name).Debug("geocrs: discarded by area criterion")
					continue
				}
			case PartialIntersection:
				if !ext.Intersects(ctx.AreaOfInterest) {
					log.WithField("operation", op.Object().Name).Debug("geocrs: discarded by area criterion")
					continue
				}
			}
		}
		acc, known := op.Accuracy()
		if ctx.DesiredAccuracy > 0 {
			if !known {
				if !ctx.AllowUnknownAccuracy {
					continue
				}
			} else if acc > ctx.DesiredAccuracy {
				log.WithFields(log.Fields{"operation": op.Object().Name, "accuracy": acc}).
					Debug("geocrs: discarded by accuracy bound")
				continue
			}
		}
		if !known {
			acc = math.Inf(1)
		}
		r := ranked{op: op, accuracy: acc, area: extentArea(ext)}
		if ctx.AreaOfInterest != nil && ext != nil && ctx.SpatialCriterion == PartialIntersection {
			r.partialArea = !ext.Contains(ctx.AreaOfInterest)
		}
		if ctx.GridAvailability != IgnoreGridAvailability {
			for _, g := range GridsNeeded(op, ctx.grids(), ctx.UseProjAlternativeGridNames) {
				if !g.Available {
					r.gridsMissing = true
					break
				}
			}
			if r.gridsMissing && ctx.GridAvailability == DiscardMissingGrid {
				log.WithField("operation", op.Object().Name).Debug("geocrs: discarded for missing grids")
				continue
			}
		}
		kept = append(kept, r)
	}
	// Deterministic base order before the ranking criteria.
	sort.SliceStable(kept, func(i, j int) bool {
		a, b := kept[i].op.Object(), kept[j].op.Object()
		if a.EPSGCode() != b.EPSGCode() {
			return a.EPSGCode() < b.EPSGCode()
		}
		return a.Name < b.Name
	})
	sort.SliceStable(kept, func(i, j int) bool {
		a, b := kept[i], kept[j]
		if a.gridsMissing != b.gridsMissing {
			return !a.gridsMissing
		}
		if a.partialArea != b.partialArea {
			return !a.partialArea
		}
		if a.accuracy != b.accuracy {
			return a.accuracy < b.accuracy
		}
		return a.area > b.area
	})
	out := make([]CoordinateOperation, len(kept))
	for i, r := range kept {
		out[i] = r.op
	}
	return out
}

func extentArea(e *Extent) float64 {
	if e == nil {
		return 0
	}
	return e.Area()
}
