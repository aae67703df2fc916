package domain

// Listing is the catalog entity. The filter engine only ever reads it;
// writes go through the listing service.
type Listing struct {
	ID               string  `db:"id" json:"id"`
	UserID           string  `db:"user_id" json:"userId"`
	Title            string  `db:"title" json:"title"`
	ShortDesc        string  `db:"short_desc" json:"shortDesc"`
	Brand            string  `db:"brand" json:"brand"`
	Model            string  `db:"model" json:"model"`
	GraphicsType     string  `db:"graphics_type" json:"graphicsType"` // Integrated | Dedicated
	GPUBrand         string  `db:"gpu_brand" json:"gpuBrand,omitempty"`
	GPUModel         string  `db:"gpu_model" json:"gpuModel,omitempty"`
	VRAM             string  `db:"vram" json:"vram,omitempty"`
	BacklightType    string  `db:"backlight_type" json:"backlightType"`
	ProcessorBrand   string  `db:"processor_brand" json:"processorBrand"` // Intel | AMD | Apple
	ProcessorModel   string  `db:"processor_model" json:"processorModel"`
	Cores            int     `db:"cores" json:"cores"`
	Threads          int     `db:"threads" json:"threads"`
	RAM              string  `db:"ram" json:"ram"`
	RAMType          string  `db:"ram_type" json:"ramType"` // DDR3 | DDR4 | DDR5
	StorageType      string  `db:"storage_type" json:"storageType"`
	StorageCapacity  string  `db:"storage_capacity" json:"storageCapacity"`
	ScreenSize       string  `db:"screen_size" json:"screenSize"`
	ScreenResolution string  `db:"screen_resolution" json:"screenResolution"`
	RefreshRate      string  `db:"refresh_rate" json:"refreshRate"`
	Year             int     `db:"year" json:"year"`
	Weight           string  `db:"weight" json:"weight,omitempty"`
	Price            float64 `db:"price" json:"price"`
	Condition        string  `db:"condition" json:"condition"`      // new | like-new | used | damaged
	StockStatus      string  `db:"stock_status" json:"stockStatus"` // reserved | sold | in stock
	Status           string  `db:"status" json:"status"`            // approved | pending | rejected | archived
	IsCertified      bool    `db:"is_certified" json:"isCertified"`
	TagsJSON         string  `db:"tags_json" json:"-"`
	DescriptionJSON  string  `db:"description_json" json:"-"`
	ImagesJSON       string  `db:"images_json" json:"-"`
	CreatedAt        string  `db:"created_at" json:"createdAt"`
	UpdatedAt        string  `db:"updated_at" json:"updatedAt,omitempty"`
}

// FacetOption is one candidate facet value. Disabled means selecting it,
// given everything else currently selected, would yield zero results.
type FacetOption struct {
	Value    string `json:"value"`
	Disabled bool   `json:"disabled"`
}

// PriceRange bounds the price slider: min/max over listings matching every
// active facet except price itself.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// FilterOptions maps each facet to its ordered options, plus the effective
// price range for the current selection.
type FilterOptions struct {
	Facets     map[string][]FacetOption `json:"facets"`
	PriceRange PriceRange               `json:"priceRange"`
}

// SearchResult is the paginated listing response shape.
type SearchResult struct {
	Data      []Listing `json:"data"`
	Total     int       `json:"total"`
	Page      int       `json:"page"`
	Limit     int       `json:"limit"`
	PageCount int       `json:"pageCount"`
}

// BrowseResult bundles a result page with the facet computation for the
// same selection.
type BrowseResult struct {
	SearchResult
	Filters FilterOptions `json:"filters"`
}
