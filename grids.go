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
	"os"

	"github.com/BurntSushi/toml"
)

// A GridDescriptor describes a datum-shift grid file an operation
// needs.
type GridDescriptor struct {
	ShortName      string `toml:"short_name"`
	FullName       string `toml:"full_name"`
	PackageName    string `toml:"package_name"`
	URL            string `toml:"url"`
	DirectDownload bool   `toml:"direct_download"`
	OpenLicense    bool   `toml:"open_license"`
	Available      bool   `toml:"available"`
	// AlternativeName is the proj spelling of the grid when it
	// differs from the catalog one.
	AlternativeName string `toml:"alternative_name"`
}

// A GridRegistry knows the grids the runtime could use, keyed by
// short name.
type GridRegistry struct {
	Grids map[string]GridDescriptor `toml:"grids"`
}

// LoadGridRegistry reads a registry from a TOML file of the form
//
//	[grids.conus]
//	full_name = "us_noaa_conus.tif"
//	package_name = "proj-datumgrid"
//	url = "https://download.osgeo.org/proj/proj-datumgrid-1.8.zip"
//	open_license = true
//	available = true
func LoadGridRegistry(path string) (*GridRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("geocrs: reading grid registry: %w", err)
	}
	r := &GridRegistry{}
	if err := toml.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("geocrs: parsing grid registry %s: %w", path, err)
	}
	for name, g := range r.Grids {
		if g.ShortName == "" {
			g.ShortName = name
			r.Grids[name] = g
		}
	}
	return r, nil
}

// DefaultGridRegistry lists the grids of the classic datum-grid
// package; none are marked available until the embedder says so.
func DefaultGridRegistry() *GridRegistry {
	mk := func(short, full string) GridDescriptor {
		return GridDescriptor{
			ShortName:      short,
			FullName:       full,
			PackageName:    "proj-datumgrid",
			URL:            "https://download.osgeo.org/proj/proj-datumgrid-1.8.zip",
			DirectDownload: true,
			OpenLicense:    true,
		}
	}
	return &GridRegistry{Grids: map[string]GridDescriptor{
		"conus":        mk("conus", "us_noaa_conus.tif"),
		"alaska":       mk("alaska", "us_noaa_alaska.tif"),
		"ntf_r93.gsb":  mk("ntf_r93.gsb", "fr_ign_ntf_r93.tif"),
		"BETA2007.gsb": mk("BETA2007.gsb", "de_adv_BETA2007.tif"),
		"egm96_15.gtx": mk("egm96_15.gtx", "us_nga_egm96_15.tif"),
	}}
}

// Lookup resolves a grid name, trying the proj alternative spellings
// when asked.
func (r *GridRegistry) Lookup(name string, useAlternatives bool) (GridDescriptor, bool) {
	if r == nil {
		return GridDescriptor{ShortName: name}, false
	}
	if g, ok := r.Grids[name]; ok {
		return g, true
	}
	if useAlternatives {
		for _, g := range r.Grids {
			if g.AlternativeName == name || g.FullName == name {
				return g, true
			}
		}
	}
	return GridDescriptor{ShortName: name}, false
}

// GridsNeeded returns the grid descriptors an operation requires,
// recursing into concatenation steps. Grids unknown to the registry
// are reported as unavailable descriptors carrying just the name.
func GridsNeeded(op CoordinateOperation, registry *GridRegistry, useAlternatives bool) []GridDescriptor {
	seen := map[string]bool{}
	var out []GridDescriptor
	var walk func(op CoordinateOperation)
	collect := func(values []OperationParameterValue) {
		for _, v := range values {
			if v.Value.Kind != ValueKindFilename || seen[v.Value.Str] {
				continue
			}
			seen[v.Value.Str] = true
			g, _ := registry.Lookup(v.Value.Str, useAlternatives)
			out = append(out, g)
		}
	}
	walk = func(op CoordinateOperation) {
		switch o := op.(type) {
		case *Transformation:
			collect(o.Values)
		case *Conversion:
			collect(o.Values)
		case *ConcatenatedOperation:
			for _, s := range o.Steps {
				walk(s)
			}
		}
	}
	walk(op)
	return out
}
