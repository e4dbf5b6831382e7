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

// SpatialCriterion decides how candidate operations are checked
// against the area of interest.
type SpatialCriterion int

const (
	// StrictContainment keeps only operations whose domain contains
	// the whole area of interest.
	StrictContainment SpatialCriterion = iota
	// PartialIntersection keeps operations whose domain merely
	// intersects it, ranking the partial ones after the containing
	// ones.
	PartialIntersection
)

// GridAvailabilityUse decides what to do with operations whose grids
// are not available locally.
type GridAvailabilityUse int

const (
	// GridAvailabilityUsedForSorting keeps such operations but ranks
	// them after the ones whose grids are present.
	GridAvailabilityUsedForSorting GridAvailabilityUse = iota
	// IgnoreGridAvailability ranks as if every grid were present.
	IgnoreGridAvailability
	// DiscardMissingGrid drops operations with missing grids.
	DiscardMissingGrid
)

// IntermediateCRSUse decides when hub CRSs may be inserted between
// the source and target datums.
type IntermediateCRSUse int

const (
	// IfNoDirectTransformation concatenates through a hub only when
	// the catalog has no direct entry.
	IfNoDirectTransformation IntermediateCRSUse = iota
	// AlwaysUseIntermediate also enumerates hub paths alongside
	// direct ones.
	AlwaysUseIntermediate
	// NeverUseIntermediate disables hub paths.
	NeverUseIntermediate
)

// A Context carries the knobs of the coordinate-operation factory.
// In the zero value, nil Authority and Grids fall back to the builtin
// ones, but the other fields differ from the defaults that NewContext
// sets.
type Context struct {
	// Authority is the catalog consulted for transformations; nil
	// falls back to the builtin one.
	Authority AuthorityFactory
	// AreaOfInterest restricts candidates spatially; nil means no
	// restriction.
	AreaOfInterest *Extent
	// DesiredAccuracy in metres discards less accurate candidates
	// when positive.
	DesiredAccuracy float64
	SpatialCriterion
	GridAvailability            GridAvailabilityUse
	UseProjAlternativeGridNames bool
	IntermediateUse             IntermediateCRSUse
	// Grids is the registry consulted for grid availability; nil
	// falls back to the builtin one.
	Grids *GridRegistry
	// AllowUnknownAccuracy admits catalog transformations without a
	// recorded accuracy.
	AllowUnknownAccuracy bool
}

// NewContext returns the default operation context: the builtin
// catalog, no area restriction, strict containment, grid availability
// used for sorting, hubs only when there is no direct path.
func NewContext() *Context {
	return &Context{
		Authority:                   DefaultCatalog(),
		SpatialCriterion:            StrictContainment,
		GridAvailability:            GridAvailabilityUsedForSorting,
		UseProjAlternativeGridNames: true,
		IntermediateUse:             IfNoDirectTransformation,
		Grids:                       DefaultGridRegistry(),
		AllowUnknownAccuracy:        true,
	}
}

func (ctx *Context) authority() AuthorityFactory {
	if ctx.Authority != nil {
		return ctx.Authority
	}
	return DefaultCatalog()
}

func (ctx *Context) grids() *GridRegistry {
	if ctx.Grids != nil {
		return ctx.Grids
	}
	return DefaultGridRegistry()
}
