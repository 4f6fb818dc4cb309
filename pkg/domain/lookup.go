package domain

import "fmt"

// LookupInfo identifies a module type.
// It is used to find the module description and to derive a display label.
type LookupInfo struct {
	ModuleName string `json:"module_name" yaml:"module_name" mapstructure:"module_name" validate:"required"`
	Category   string `json:"category,omitempty" yaml:"category,omitempty" mapstructure:"category"`
	Package    string `json:"package,omitempty" yaml:"package,omitempty" mapstructure:"package"`
}

// NewLookupInfo builds a LookupInfo.
func NewLookupInfo(name, category, pkg string) LookupInfo {
	return LookupInfo{ModuleName: name, Category: category, Package: pkg}
}

// Label returns the human-readable label, e.g. "SCIRun::Math::ComputeSVD".
func (i LookupInfo) Label() string {
	switch {
	case i.Package != "" && i.Category != "":
		return fmt.Sprintf("%s::%s::%s", i.Package, i.Category, i.ModuleName)
	case i.Category != "":
		return fmt.Sprintf("%s::%s", i.Category, i.ModuleName)
	default:
		return i.ModuleName
	}
}

// String implements fmt.Stringer.
func (i LookupInfo) String() string {
	return i.Label()
}
