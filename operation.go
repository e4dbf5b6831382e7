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

import "fmt"

// A CoordinateOperation changes coordinates from a source CRS to a
// target CRS. Concrete types: Conversion, Transformation,
// ConcatenatedOperation, and ProjStringOperation.
type CoordinateOperation interface {
	Object() *IdentifiedObject
	SourceCRS() CRS
	TargetCRS() CRS
	// Accuracy is the positional accuracy in metres; the second
	// return is false when unknown. Conversions are exact.
	Accuracy() (float64, bool)
	Inverse() (CoordinateOperation, error)
}

// An OperationParameter describes one parameter of an operation
// method: a name plus identifiers.
type OperationParameter struct {
	IdentifiedObject
}

// ParameterValueKind tags the variant held by a ParameterValue.
type ParameterValueKind int

const (
	ValueKindMeasure ParameterValueKind = iota
	ValueKindInteger
	ValueKindBoolean
	ValueKindString
	ValueKindFilename
	ValueKindParameterList
)

// A ParameterValue is the tagged value of one operation parameter.
type ParameterValue struct {
	Kind    ParameterValueKind
	Measure Measure
	Int     int
	Bool    bool
	Str     string
	List    []OperationParameterValue
}

// An OperationParameterValue pairs a parameter with its value.
type OperationParameterValue struct {
	Parameter OperationParameter
	Value     ParameterValue
}

// measureParam is shorthand for a measure-valued parameter.
func measureParam(name, epsgCode string, m Measure) OperationParameterValue {
	return OperationParameterValue{
		Parameter: OperationParameter{namedObject(name, epsgCode)},
		Value:     ParameterValue{Kind: ValueKindMeasure, Measure: m},
	}
}

// filenameParam is shorthand for a file-valued parameter.
func filenameParam(name, epsgCode, file string) OperationParameterValue {
	return OperationParameterValue{
		Parameter: OperationParameter{namedObject(name, epsgCode)},
		Value:     ParameterValue{Kind: ValueKindFilename, Str: file},
	}
}

// equivalent compares two parameter values with numeric tolerance in
// SI units.
func (v ParameterValue) equivalent(o ParameterValue) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case ValueKindMeasure:
		return v.Measure.Equivalent(o.Measure)
	case ValueKindInteger:
		return v.Int == o.Int
	case ValueKindBoolean:
		return v.Bool == o.Bool
	case ValueKindString, ValueKindFilename:
		return v.Str == o.Str
	case ValueKindParameterList:
		return parameterSetsEquivalent(v.List, o.List, Equivalent)
	}
	return false
}

// An OperationMethod names an algorithm and describes its parameters.
type OperationMethod struct {
	IdentifiedObject
	Parameters []OperationParameter
}

// newMethod builds a method with just a name and EPSG code.
func newMethod(name, epsgCode string) *OperationMethod {
	return &OperationMethod{IdentifiedObject: namedObject(name, epsgCode)}
}

// isEquivalentTo compares methods by EPSG code when both carry one,
// else by canonical name, honoring the WKT1 alias table.
func (m *OperationMethod) isEquivalentTo(o *OperationMethod, c Criterion) bool {
	if o == nil {
		return false
	}
	if c == Strict {
		return metadataEquivalent(&m.IdentifiedObject, &o.IdentifiedObject, c)
	}
	mc, oc := m.EPSGCode(), o.EPSGCode()
	if mc != "" && oc != "" {
		return mc == oc
	}
	if m.nameMatches(o.Name) {
		return true
	}
	// A WKT1 spelling matches its WKT2 method.
	if r, ok := methodByWKT1Name(o.Name); ok && m.nameMatches(r.Name) {
		return true
	}
	if r, ok := methodByWKT1Name(m.Name); ok && o.nameMatches(r.Name) {
		return true
	}
	return false
}

// findValue returns the value of the named parameter, matching by
// canonical name or EPSG code.
func findValue(values []OperationParameterValue, name, epsgCode string) (ParameterValue, bool) {
	for _, v := range values {
		if epsgCode != "" && v.Parameter.EPSGCode() == epsgCode {
			return v.Value, true
		}
		if v.Parameter.nameMatches(name) {
			return v.Value, true
		}
	}
	return ParameterValue{}, false
}

// findMeasure is findValue restricted to measure-valued parameters.
func findMeasure(values []OperationParameterValue, name, epsgCode string) (Measure, bool) {
	v, ok := findValue(values, name, epsgCode)
	if !ok || v.Kind != ValueKindMeasure {
		return Measure{}, false
	}
	return v.Measure, true
}

// parameterSetsEquivalent compares parameter lists as unordered sets
// matched by canonical parameter name or code.
func parameterSetsEquivalent(a, b []OperationParameterValue, c Criterion) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
outer:
	for _, av := range a {
		for i, bv := range b {
			if used[i] {
				continue
			}
			sameName := av.Parameter.nameMatches(bv.Parameter.Name) || bv.Parameter.nameMatches(av.Parameter.Name)
			if !sameName {
				ac, bc := av.Parameter.EPSGCode(), bv.Parameter.EPSGCode()
				sameName = ac != "" && ac == bc
			}
			if sameName && av.Value.equivalent(bv.Value) {
				used[i] = true
				continue outer
			}
		}
		return false
	}
	return true
}

// A Conversion is a coordinate operation with no datum change. As the
// deriving conversion of a projected or derived CRS it carries no
// source or target of its own.
type Conversion struct {
	IdentifiedObject
	Method *OperationMethod
	Values []OperationParameterValue

	src, dst CRS
	inverted bool // emit the method inverted in pipelines
}

// NewConversion builds a standalone (coordinate-less) conversion.
func NewConversion(obj IdentifiedObject, method *OperationMethod, values []OperationParameterValue) (*Conversion, error) {
	if method == nil {
		return nil, fmt.Errorf("geocrs: conversion %q: missing method", obj.Name)
	}
	return &Conversion{IdentifiedObject: obj, Method: method, Values: values}, nil
}

func (c *Conversion) SourceCRS() CRS { return c.src }
func (c *Conversion) TargetCRS() CRS { return c.dst }

// Accuracy of a conversion is exact by definition.
func (c *Conversion) Accuracy() (float64, bool) { return 0, true }

// Inverted reports whether the conversion runs against its method's
// forward direction.
func (c *Conversion) Inverted() bool { return c.inverted }

// Inverse swaps direction; method and parameters are kept and the
// pipeline formatter emits the step with +inv.
func (c *Conversion) Inverse() (CoordinateOperation, error) {
	inv := &Conversion{
		IdentifiedObject: c.IdentifiedObject,
		Method:           c.Method,
		Values:           c.Values,
		src:              c.dst,
		dst:              c.src,
		inverted:         !c.inverted,
	}
	inv.Name = inverseName(c.Name)
	inv.Identifiers = nil
	return inv, nil
}

// withCRS returns a copy of the conversion bound to the given source
// and target.
func (c *Conversion) withCRS(src, dst CRS) *Conversion {
	cc := *c
	cc.src, cc.dst = src, dst
	return &cc
}

// Measure returns a named parameter value.
func (c *Conversion) Measure(name, epsgCode string) (Measure, bool) {
	return findMeasure(c.Values, name, epsgCode)
}

func (c *Conversion) isEquivalentTo(o *Conversion, crit Criterion) bool {
	if o == nil {
		return false
	}
	if !metadataEquivalent(&c.IdentifiedObject, &o.IdentifiedObject, crit) ||
		c.inverted != o.inverted {
		return false
	}
	if c.Method.isEquivalentTo(o.Method, crit) &&
		parameterSetsEquivalent(c.Values, o.Values, crit) {
		return true
	}
	if crit == Strict {
		return false
	}
	// Methods that differ may still describe the same projection,
	// e.g. Mercator (variant B) written as variant A.
	if conv, ok := convertConversion(o, c.Method); ok {
		return c.Method.isEquivalentTo(conv.Method, crit) &&
			parameterSetsEquivalent(c.Values, conv.Values, crit)
	}
	return false
}

// inverseName derives the name of an inverted operation, undoing a
// previous inversion instead of stacking decorations.
func inverseName(name string) string {
	const prefix = "Inverse of "
	if len(name) > len(prefix) && name[:len(prefix)] == prefix {
		return name[len(prefix):]
	}
	return prefix + name
}

// A Transformation is a coordinate operation between two datums, with
// empirically determined parameters and accuracy.
type Transformation struct {
	IdentifiedObject
	Source        CRS
	Target        CRS
	Interpolation CRS
	Method        *OperationMethod
	Values        []OperationParameterValue
	Accuracies    []float64 // metres
}

// NewTransformation validates and builds a transformation. Source and
// target are required.
func NewTransformation(obj IdentifiedObject, src, dst CRS, method *OperationMethod,
	values []OperationParameterValue, accuracies []float64) (*Transformation, error) {
	if src == nil || dst == nil {
		return nil, fmt.Errorf("geocrs: transformation %q: source and target CRS are required", obj.Name)
	}
	if method == nil {
		return nil, fmt.Errorf("geocrs: transformation %q: missing method", obj.Name)
	}
	return &Transformation{IdentifiedObject: obj, Source: src, Target: dst,
		Method: method, Values: values, Accuracies: accuracies}, nil
}

// NewHelmertTransformation builds a seven-parameter Helmert
// transformation. Translations are metres, rotations arc-seconds,
// scale difference parts per million. positionVector selects the
// rotation sign convention.
func NewHelmertTransformation(obj IdentifiedObject, src, dst CRS,
	tx, ty, tz, rx, ry, rz, scale float64, positionVector bool, accuracy float64) (*Transformation, error) {
	code, name := epsgCoordinateFrame, MethodCoordinateFrame
	if positionVector {
		code, name = epsgPositionVector, MethodPositionVector
	}
	values := []OperationParameterValue{
		measureParam(ParamXTranslation, epsgParamXTranslation, Metres(tx)),
		measureParam(ParamYTranslation, epsgParamYTranslation, Metres(ty)),
		measureParam(ParamZTranslation, epsgParamZTranslation, Metres(tz)),
		measureParam(ParamXRotation, epsgParamXRotation, ArcSecs(rx)),
		measureParam(ParamYRotation, epsgParamYRotation, ArcSecs(ry)),
		measureParam(ParamZRotation, epsgParamZRotation, ArcSecs(rz)),
		measureParam(ParamScaleDifference, epsgParamScaleDifference, Measure{scale, PartsPerMillion}),
	}
	var acc []float64
	if accuracy >= 0 {
		acc = []float64{accuracy}
	}
	return NewTransformation(obj, src, dst, newMethod(name, code), values, acc)
}

// NewGeocentricTranslations builds a three-parameter transformation.
func NewGeocentricTranslations(obj IdentifiedObject, src, dst CRS, tx, ty, tz float64, accuracy float64) (*Transformation, error) {
	values := []OperationParameterValue{
		measureParam(ParamXTranslation, epsgParamXTranslation, Metres(tx)),
		measureParam(ParamYTranslation, epsgParamYTranslation, Metres(ty)),
		measureParam(ParamZTranslation, epsgParamZTranslation, Metres(tz)),
	}
	var acc []float64
	if accuracy >= 0 {
		acc = []float64{accuracy}
	}
	return NewTransformation(obj, src, dst,
		newMethod(MethodGeocentricTranslations, epsgGeocentricTranslations), values, acc)
}

// NewGridTransformation builds a grid-file based transformation. The
// method is named by its catalog spelling: NTv1, NTv2, NADCON, or
// VERTCON.
func NewGridTransformation(obj IdentifiedObject, src, dst CRS, method, gridName string, accuracy float64) (*Transformation, error) {
	var code, paramName, paramCode string
	switch canonicalName(method) {
	case "ntv1":
		code, paramName, paramCode = epsgNTv1, ParamLatLonDifferenceFile, epsgParamLatLonDifferenceFile
		method = "NTv1"
	case "ntv2":
		code, paramName, paramCode = epsgNTv2, ParamLatLonDifferenceFile, epsgParamLatLonDifferenceFile
		method = MethodNTv2
	case "nadcon":
		code, paramName, paramCode = epsgNADCON, ParamLatLonDifferenceFile, epsgParamLatLonDifferenceFile
		method = MethodNADCON
	case "vertcon":
		code, paramName, paramCode = epsgVERTCON, ParamVerticalOffsetFile, epsgParamVerticalOffsetFile
		method = MethodVERTCON
	default:
		return nil, fmt.Errorf("geocrs: transformation %q: unknown grid method %q", obj.Name, method)
	}
	values := []OperationParameterValue{filenameParam(paramName, paramCode, gridName)}
	var acc []float64
	if accuracy >= 0 {
		acc = []float64{accuracy}
	}
	return NewTransformation(obj, src, dst, newMethod(method, code), values, acc)
}

func (t *Transformation) SourceCRS() CRS { return t.Source }
func (t *Transformation) TargetCRS() CRS { return t.Target }

func (t *Transformation) Accuracy() (float64, bool) {
	if len(t.Accuracies) == 0 {
		return 0, false
	}
	best := t.Accuracies[0]
	for _, a := range t.Accuracies[1:] {
		if a < best {
			best = a
		}
	}
	return best, true
}

// Measure returns a named parameter value.
func (t *Transformation) Measure(name, epsgCode string) (Measure, bool) {
	return findMeasure(t.Values, name, epsgCode)
}

// helmertParams extracts the seven (or fewer) Helmert parameters in
// their conventional units, absent ones as zero.
func (t *Transformation) helmertParams() (vals [7]float64, rates [7]float64, epoch float64, hasRates, hasEpoch bool) {
	get := func(name, code string) (float64, bool) {
		m, ok := t.Measure(name, code)
		if !ok {
			return 0, false
		}
		return m.Val, true
	}
	for i, p := range helmertParamCodes[:7] {
		vals[i], _ = get(p.Name, p.Code)
	}
	for i, p := range helmertParamCodes[7:] {
		if v, ok := get(p.Name, p.Code); ok {
			rates[i] = v
			hasRates = true
		}
	}
	epoch, hasEpoch = get(ParamReferenceEpoch, epsgParamReferenceEpoch)
	return
}

// Inverse constructs the reverse transformation. Helmert and offset
// methods invert analytically by negating parameters; grid methods
// keep their parameters and the runtime runs the grid backwards;
// anything else gets a first-order approximate inversion, marked in
// the name.
func (t *Transformation) Inverse() (CoordinateOperation, error) {
	code := t.Method.EPSGCode()
	inv := &Transformation{
		IdentifiedObject: t.IdentifiedObject,
		Source:           t.Target,
		Target:           t.Source,
		Interpolation:    t.Interpolation,
		Method:           t.Method,
		Accuracies:       t.Accuracies,
	}
	inv.Name = inverseName(t.Name)
	inv.Identifiers = nil

	switch {
	case isHelmertCode(code),
		code == epsgLongitudeRotation,
		code == epsgGeographic2DOffsets,
		code == epsgVerticalOffset,
		code == epsgMolodensky,
		code == epsgAbridgedMolodensky:
		inv.Values = negateValues(t.Values)
	case isGridMethodCode(code):
		inv.Values = t.Values
	default:
		inv.Values = negateValues(t.Values)
		inv.Name += " (approximate inversion)"
	}
	return inv, nil
}

// negateValues flips the sign of every numeric parameter that is
// negated on inversion, keeping files and reference epochs.
func negateValues(values []OperationParameterValue) []OperationParameterValue {
	out := make([]OperationParameterValue, len(values))
	for i, v := range values {
		out[i] = v
		if v.Value.Kind == ValueKindMeasure && isNegatedOnInversion(v.Parameter.EPSGCode()) {
			out[i].Value.Measure = v.Value.Measure.Neg()
		}
	}
	return out
}

// isSameTransformation compares transformations including endpoints.
func (t *Transformation) isSameTransformation(o *Transformation, c Criterion) bool {
	if o == nil {
		return false
	}
	return metadataEquivalent(&t.IdentifiedObject, &o.IdentifiedObject, c) &&
		t.Method.isEquivalentTo(o.Method, c) &&
		parameterSetsEquivalent(t.Values, o.Values, c) &&
		t.Source.IsEquivalentTo(o.Source, loosened(c)) &&
		t.Target.IsEquivalentTo(o.Target, loosened(c))
}

// A ConcatenatedOperation chains single operations whose endpoints
// match.
type ConcatenatedOperation struct {
	IdentifiedObject
	Steps      []CoordinateOperation
	Accuracies []float64
}

// NewConcatenatedOperation validates the chain: each step's target
// must be equivalent, up to a swap of the first two axes, to the next
// step's source; axes in different units do not chain. Steps without
// recorded endpoints are not checked.
func NewConcatenatedOperation(obj IdentifiedObject, steps []CoordinateOperation, accuracies []float64) (*ConcatenatedOperation, error) {
	if len(steps) < 2 {
		return nil, &InvalidOperationError{What: fmt.Sprintf("concatenation %q needs at least two steps", obj.Name)}
	}
	for i := 0; i < len(steps)-1; i++ {
		dst, src := steps[i].TargetCRS(), steps[i+1].SourceCRS()
		if dst == nil || src == nil {
			continue
		}
		if !dst.IsEquivalentTo(src, EquivalentIgnoringAxisOrder) {
			return nil, &InvalidOperationError{What: fmt.Sprintf(
				"concatenation %q: step %d target %q does not match step %d source %q",
				obj.Name, i, dst.Object().Name, i+1, src.Object().Name)}
		}
	}
	if obj.Name == "" {
		names := make([]string, len(steps))
		for i, s := range steps {
			names[i] = s.Object().Name
		}
		obj.Name = joinOperationNames(names)
	}
	return &ConcatenatedOperation{IdentifiedObject: obj, Steps: steps, Accuracies: accuracies}, nil
}

func joinOperationNames(names []string) string {
	out := names[0]
	for _, n := range names[1:] {
		out += " + " + n
	}
	return out
}

func (c *ConcatenatedOperation) SourceCRS() CRS {
	return c.Steps[0].SourceCRS()
}

func (c *ConcatenatedOperation) TargetCRS() CRS {
	return c.Steps[len(c.Steps)-1].TargetCRS()
}

// Accuracy is the recorded accuracy when present, else the sum of the
// step accuracies; unknown when any step is unknown.
func (c *ConcatenatedOperation) Accuracy() (float64, bool) {
	if len(c.Accuracies) > 0 {
		return c.Accuracies[0], true
	}
	var sum float64
	for _, s := range c.Steps {
		a, ok := s.Accuracy()
		if !ok {
			return 0, false
		}
		sum += a
	}
	return sum, true
}

// Inverse reverses the step list and inverts each step.
func (c *ConcatenatedOperation) Inverse() (CoordinateOperation, error) {
	steps := make([]CoordinateOperation, len(c.Steps))
	for i, s := range c.Steps {
		inv, err := s.Inverse()
		if err != nil {
			return nil, err
		}
		steps[len(c.Steps)-1-i] = inv
	}
	obj := c.IdentifiedObject
	obj.Name = inverseName(c.Name)
	obj.Identifiers = nil
	return &ConcatenatedOperation{IdentifiedObject: obj, Steps: steps, Accuracies: c.Accuracies}, nil
}

// A ProjStringOperation is an operation whose method is opaque: its
// behavior is entirely described by a proj pipeline string.
type ProjStringOperation struct {
	IdentifiedObject
	Source     CRS
	Target     CRS
	ProjString string
	Accuracies []float64
}

// NewProjStringOperation wraps a pipeline string as an operation.
func NewProjStringOperation(obj IdentifiedObject, src, dst CRS, projString string) *ProjStringOperation {
	if obj.Name == "" {
		obj.Name = "PROJ-based coordinate operation"
	}
	return &ProjStringOperation{IdentifiedObject: obj, Source: src, Target: dst, ProjString: projString}
}

func (p *ProjStringOperation) SourceCRS() CRS { return p.Source }
func (p *ProjStringOperation) TargetCRS() CRS { return p.Target }

func (p *ProjStringOperation) Accuracy() (float64, bool) {
	if len(p.Accuracies) == 0 {
		return 0, false
	}
	return p.Accuracies[0], true
}

// Inverse inverts the pipeline string.
func (p *ProjStringOperation) Inverse() (CoordinateOperation, error) {
	inv, err := invertPipelineString(p.ProjString)
	if err != nil {
		return nil, err
	}
	obj := p.IdentifiedObject
	obj.Name = inverseName(p.Name)
	obj.Identifiers = nil
	return &ProjStringOperation{IdentifiedObject: obj, Source: p.Target, Target: p.Source,
		ProjString: inv, Accuracies: p.Accuracies}, nil
}
