// Package catalog is the static registry of filterable listing attributes.
// The selection parser, the query compiler and the facet calculator all
// dispatch on the registry instead of special-casing field names.
package catalog

// Match tells the query compiler how a value set constrains an attribute.
type Match int

const (
	// Exact: value must be a member of the accepted set.
	Exact Match = iota
	// Substring: case-insensitive containment; multiple values OR-combine.
	Substring
	// AllOf: the listing's collection must contain every accepted value.
	// This is intentionally asymmetric to the other strategies: selecting
	// tags {gaming, ultrabook} means "has both", not "has either".
	AllOf
	// Range: numeric lower/upper bound pair, not a discrete value set.
	Range
)

// Attribute describes one filterable column of a listing.
type Attribute struct {
	// Key is both the query-parameter name and the registry key.
	Key string
	// Column is the storage key in the listings table.
	Column string
	Match  Match
	// Enum restricts accepted values when non-empty; free-text otherwise.
	Enum []string
	// Numeric marks attributes validated as integers (year).
	Numeric bool
	// Bool marks attributes whose accepted tokens are "true"/"false",
	// canonicalized to "1"/"0" (the storage form) at parse time.
	Bool bool
	// Facet marks attributes that participate in facet-availability
	// computation. Non-facet attributes still filter.
	Facet bool
}

// Query-parameter names, used by handlers and the selection parser.
const (
	KeyBrand            = "brand"
	KeyModel            = "model"
	KeyShortDesc        = "shortDesc"
	KeyGraphicsType     = "graphicsType"
	KeyGPUBrand         = "gpuBrand"
	KeyGPUModel         = "gpuModel"
	KeyVRAM             = "vram"
	KeyProcessorBrand   = "processorBrand"
	KeyProcessorModel   = "processorModel"
	KeyRAM              = "ram"
	KeyRAMType          = "ramType"
	KeyStorageType      = "storageType"
	KeyStorageCapacity  = "storageCapacity"
	KeyScreenSize       = "screenSize"
	KeyScreenResolution = "screenResolution"
	KeyRefreshRate      = "refreshRate"
	KeyBacklightType    = "backlightType"
	KeyYear             = "year"
	KeyCondition        = "condition"
	KeyStockStatus      = "stockStatus"
	KeyStatus           = "status"
	KeyIsCertified      = "isCertified"
	KeyTag              = "tag"
	KeyPrice            = "price"
	KeyTitle            = "title"
	KeyUserID           = "userId"
)

var registry = []Attribute{
	{Key: KeyBrand, Column: "brand", Match: Substring, Facet: true},
	{Key: KeyModel, Column: "model", Match: Substring},
	{Key: KeyShortDesc, Column: "short_desc", Match: Substring},
	{Key: KeyGraphicsType, Column: "graphics_type", Match: Exact, Enum: []string{"Integrated", "Dedicated"}},
	{Key: KeyGPUBrand, Column: "gpu_brand", Match: Exact},
	{Key: KeyGPUModel, Column: "gpu_model", Match: Exact, Facet: true},
	{Key: KeyVRAM, Column: "vram", Match: Exact},
	{Key: KeyProcessorBrand, Column: "processor_brand", Match: Exact, Enum: []string{"Intel", "AMD", "Apple"}},
	{Key: KeyProcessorModel, Column: "processor_model", Match: Exact, Facet: true},
	{Key: KeyRAM, Column: "ram", Match: Exact, Facet: true},
	{Key: KeyRAMType, Column: "ram_type", Match: Exact, Enum: []string{"DDR3", "DDR4", "DDR5"}, Facet: true},
	{Key: KeyStorageType, Column: "storage_type", Match: Exact, Enum: []string{"HDD", "SSD", "HDD + SSD"}, Facet: true},
	{Key: KeyStorageCapacity, Column: "storage_capacity", Match: Exact, Facet: true},
	{Key: KeyScreenSize, Column: "screen_size", Match: Exact, Facet: true},
	{Key: KeyScreenResolution, Column: "screen_resolution", Match: Exact, Facet: true},
	{Key: KeyRefreshRate, Column: "refresh_rate", Match: Exact},
	{Key: KeyBacklightType, Column: "backlight_type", Match: Exact},
	{Key: KeyYear, Column: "year", Match: Exact, Numeric: true},
	{Key: KeyCondition, Column: "condition", Match: Exact, Enum: []string{"new", "like-new", "used", "damaged"}},
	{Key: KeyStockStatus, Column: "stock_status", Match: Exact, Enum: []string{"reserved", "sold", "in stock"}, Facet: true},
	{Key: KeyStatus, Column: "status", Match: Exact, Enum: []string{"approved", "pending", "rejected", "archived"}},
	{Key: KeyIsCertified, Column: "is_certified", Match: Exact, Enum: []string{"true", "false"}, Bool: true},
	{Key: KeyTag, Column: "tags_json", Match: AllOf},
	{Key: KeyPrice, Column: "price", Match: Range},
	{Key: KeyTitle, Column: "title", Match: Substring},
	{Key: KeyUserID, Column: "user_id", Match: Exact},
}

var byKey = func() map[string]Attribute {
	m := make(map[string]Attribute, len(registry))
	for _, a := range registry {
		m[a.Key] = a
	}
	return m
}()

// Lookup returns the attribute registered under key.
func Lookup(key string) (Attribute, bool) {
	a, ok := byKey[key]
	return a, ok
}

// All returns every registered attribute in declaration order.
func All() []Attribute {
	return registry
}

// Facets returns the attributes that participate in facet availability,
// in declaration order. Price is range-valued and therefore not included;
// its bounds are recomputed separately.
func Facets() []Attribute {
	out := make([]Attribute, 0, len(registry))
	for _, a := range registry {
		if a.Facet {
			out = append(out, a)
		}
	}
	return out
}

// InEnum reports whether v is an accepted value for a. Attributes without
// a declared enum accept any string.
func (a Attribute) InEnum(v string) bool {
	if len(a.Enum) == 0 {
		return true
	}
	for _, e := range a.Enum {
		if e == v {
			return true
		}
	}
	return false
}

// Selectable reports whether key names a registered multi-select attribute.
// The price range, the title term and the owner id are scalar and handled
// outside the multi-select path.
func Selectable(key string) bool {
	a, ok := byKey[key]
	return ok && a.Match != Range && a.Key != KeyTitle && a.Key != KeyUserID
}
