// Package filter is the faceted filter engine: it normalizes raw selection
// input, compiles it into a store predicate, computes per-value facet
// availability and assembles paginated results. The engine is read-only
// over the catalog store.
package filter

import (
	"strconv"
	"strings"

	"lapmart/internal/catalog"
	"lapmart/internal/domain"
)

// Hard input bounds, matching the listing write path.
const (
	PriceFloor  = 0
	PriceCeil   = 10000
	YearMin     = 2000
	YearMax     = 2030
	MaxTermLen  = 100
	MaxValueLen = 100
)

// Selection is the normalized, typed form of a raw filter request. An
// absent or empty facet entry means "no constraint on this facet", never
// "constraint to the empty set".
type Selection struct {
	Term     string
	MinPrice *float64
	MaxPrice *float64
	UserID   string
	// facets maps attribute key to its accepted values, duplicates
	// removed, insertion order kept.
	facets map[string][]string
}

// NewSelection returns an empty selection.
func NewSelection() Selection {
	return Selection{facets: map[string][]string{}}
}

// ParseSelection normalizes raw query parameters into a Selection, or
// fails with a ValidationError naming the offending field. Cross-facet
// compatibility is deliberately not checked here; it is a runtime property
// discovered by the availability calculator.
func ParseSelection(raw map[string][]string) (Selection, error) {
	sel := NewSelection()
	for key, values := range raw {
		switch key {
		case "term":
			term := strings.TrimSpace(first(values))
			if len(term) > MaxTermLen {
				return sel, domain.Invalid("term", "too long")
			}
			sel.Term = term
		case "minPrice":
			p, err := parsePrice("minPrice", first(values))
			if err != nil {
				return sel, err
			}
			sel.MinPrice = p
		case "maxPrice":
			p, err := parsePrice("maxPrice", first(values))
			if err != nil {
				return sel, err
			}
			sel.MaxPrice = p
		case catalog.KeyUserID:
			sel.UserID = strings.TrimSpace(first(values))
		case "page", "limit", "withFilters":
			// pagination and response-shape knobs, not filter input
		default:
			if !catalog.Selectable(key) {
				return sel, domain.Invalid(key, "unknown filter")
			}
			attr, _ := catalog.Lookup(key)
			for _, v := range values {
				// a single raw value coerces into a one-element set.
				// The comma list form is only recognized for enum
				// facets; free-text values may legitimately contain
				// commas ("13,3 inch") and pass through verbatim.
				pieces := []string{v}
				if len(attr.Enum) > 0 {
					pieces = strings.Split(v, ",")
				}
				for _, piece := range pieces {
					norm, err := normalizeValue(attr, piece)
					if err != nil {
						return sel, err
					}
					if norm == "" {
						continue
					}
					sel.Select(key, norm)
				}
			}
		}
	}
	return sel, nil
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func parsePrice(field, raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	p, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, domain.Invalid(field, "not a number")
	}
	if p < PriceFloor || p > PriceCeil {
		return nil, domain.Invalid(field, "out of range")
	}
	return &p, nil
}

// normalizeValue validates one raw facet value against the attribute's
// declared domain and returns its canonical form.
func normalizeValue(attr catalog.Attribute, raw string) (string, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", nil
	}
	if len(v) > MaxValueLen {
		return "", domain.Invalid(attr.Key, "value too long")
	}
	if !attr.InEnum(v) {
		return "", domain.Invalid(attr.Key, "not an accepted value")
	}
	if attr.Bool {
		// "true"/"false" tokens only, stored as 1/0
		if v == "true" {
			return "1", nil
		}
		return "0", nil
	}
	if attr.Numeric {
		n, err := strconv.Atoi(v)
		if err != nil {
			return "", domain.Invalid(attr.Key, "not a number")
		}
		if n < YearMin || n > YearMax {
			return "", domain.Invalid(attr.Key, "out of range")
		}
		return strconv.Itoa(n), nil
	}
	return v, nil
}

// Select adds value to key's accepted set, dropping duplicates.
func (s *Selection) Select(key, value string) {
	if s.facets == nil {
		s.facets = map[string][]string{}
	}
	for _, v := range s.facets[key] {
		if v == value {
			return
		}
	}
	s.facets[key] = append(s.facets[key], value)
}

// Values returns key's accepted set. Empty means unconstrained.
func (s Selection) Values(key string) []string {
	return s.facets[key]
}

// Selected reports whether value is currently accepted for key.
func (s Selection) Selected(key, value string) bool {
	for _, v := range s.facets[key] {
		if v == value {
			return true
		}
	}
	return false
}

// Empty reports whether the selection carries no constraint at all: the
// facet calculator then skips the probe loop entirely.
func (s Selection) Empty() bool {
	if s.Term != "" || s.MinPrice != nil || s.MaxPrice != nil || s.UserID != "" {
		return false
	}
	for _, vs := range s.facets {
		if len(vs) > 0 {
			return false
		}
	}
	return true
}

// Replacing clones the selection with key's accepted set replaced by
// values alone. Probing an unselected facet value goes through this:
// substitution semantics, applied uniformly to every facet (for an
// unconstrained facet, replacing the empty set is the same as adding).
func (s Selection) Replacing(key string, values ...string) Selection {
	out := s.clone()
	if len(values) == 0 {
		delete(out.facets, key)
	} else {
		out.facets[key] = append([]string(nil), values...)
	}
	return out
}

// WithoutPrice clones the selection with its price bounds dropped, for
// computing the effective price range.
func (s Selection) WithoutPrice() Selection {
	out := s.clone()
	out.MinPrice = nil
	out.MaxPrice = nil
	return out
}

func (s Selection) clone() Selection {
	out := s
	out.facets = make(map[string][]string, len(s.facets))
	for k, vs := range s.facets {
		out.facets[k] = append([]string(nil), vs...)
	}
	return out
}
