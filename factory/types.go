/*
Package factory provides JSON to Go time-off type conversion.

PURPOSE:
  Converts JSON leave-type definitions into timeoff.Type values so HR can
  define the leave catalogue in a file instead of code. Used by
  `hr-engine init-types --file` and the demo scenarios.

JSON SCHEMA:
  {
    "types": [
      {"code": "PAID",   "name": "Paid time off", "default_allocation": "24"},
      {"code": "SICK",   "name": "Sick leave",    "default_allocation": 7},
      {"code": "UNPAID", "name": "Unpaid leaves", "default_allocation": 0, "active": true}
    ]
  }

  default_allocation accepts a JSON number or a decimal string.
  active defaults to true.

KEY FEATURES:
  - Validates codes (upper-cased, A-Z 0-9 _), names, allocation >= 0
  - Rejects duplicate codes
  - Rounds allocations to two fractional digits

USAGE:
  f := factory.NewTypeFactory()
  types, err := f.ParseTypes(data)

SEE ALSO:
  - timeoff/types.go: Type definition and DefaultTypes
*/
package factory

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/dayflow/hr-engine/generic"
	"github.com/dayflow/hr-engine/timeoff"
	"github.com/shopspring/decimal"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// CatalogJSON is the JSON representation of a leave-type catalogue.
type CatalogJSON struct {
	Types []TypeJSON `json:"types"`
}

// TypeJSON is the JSON representation of one leave type.
type TypeJSON struct {
	Code              string          `json:"code"`
	Name              string          `json:"name"`
	DefaultAllocation decimal.Decimal `json:"default_allocation"`
	Active            *bool           `json:"active,omitempty"`
}

// =============================================================================
// TYPE FACTORY
// =============================================================================

var codePattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]{0,31}$`)

// TypeFactory converts JSON definitions to timeoff.Type values.
type TypeFactory struct{}

func NewTypeFactory() *TypeFactory {
	return &TypeFactory{}
}

// ParseTypes parses and validates a catalogue.
func (f *TypeFactory) ParseTypes(data []byte) ([]timeoff.Type, error) {
	var catalog CatalogJSON
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if len(catalog.Types) == 0 {
		return nil, &generic.ValidationError{Field: "types", Message: "at least one type is required"}
	}

	seen := make(map[string]bool, len(catalog.Types))
	out := make([]timeoff.Type, 0, len(catalog.Types))
	for i, tj := range catalog.Types {
		t, err := f.BuildType(tj)
		if err != nil {
			return nil, fmt.Errorf("types[%d]: %w", i, err)
		}
		if seen[t.Code] {
			return nil, &generic.ValidationError{Field: "code", Message: fmt.Sprintf("duplicate code %s", t.Code)}
		}
		seen[t.Code] = true
		out = append(out, t)
	}
	return out, nil
}

// BuildType validates one definition.
func (f *TypeFactory) BuildType(tj TypeJSON) (timeoff.Type, error) {
	code := strings.ToUpper(strings.TrimSpace(tj.Code))
	if !codePattern.MatchString(code) {
		return timeoff.Type{}, &generic.ValidationError{Field: "code", Message: fmt.Sprintf("invalid code %q", tj.Code)}
	}
	name := strings.TrimSpace(tj.Name)
	if name == "" {
		return timeoff.Type{}, &generic.ValidationError{Field: "name", Message: "name is required"}
	}
	if tj.DefaultAllocation.IsNegative() {
		return timeoff.Type{}, &generic.ValidationError{Field: "default_allocation", Message: "must not be negative"}
	}

	active := true
	if tj.Active != nil {
		active = *tj.Active
	}
	return timeoff.Type{
		Code:              code,
		Name:              name,
		DefaultAllocation: generic.Round2(tj.DefaultAllocation),
		Active:            active,
	}, nil
}

// ToJSON renders types back into catalogue form.
func (f *TypeFactory) ToJSON(types []timeoff.Type) ([]byte, error) {
	catalog := CatalogJSON{Types: make([]TypeJSON, 0, len(types))}
	for _, t := range types {
		active := t.Active
		catalog.Types = append(catalog.Types, TypeJSON{
			Code:              t.Code,
			Name:              t.Name,
			DefaultAllocation: t.DefaultAllocation,
			Active:            &active,
		})
	}
	return json.MarshalIndent(catalog, "", "  ")
}
