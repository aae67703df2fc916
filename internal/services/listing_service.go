package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"lapmart/internal/catalog"
	"lapmart/internal/domain"
	"lapmart/internal/filter"
	"lapmart/internal/repos"
)

// ListingInput is the seller-submitted shape for create and update.
type ListingInput struct {
	Title            string            `json:"title"`
	ShortDesc        string            `json:"shortDesc"`
	Brand            string            `json:"brand"`
	Model            string            `json:"model"`
	GraphicsType     string            `json:"graphicsType"`
	GPUBrand         string            `json:"gpuBrand"`
	GPUModel         string            `json:"gpuModel"`
	VRAM             string            `json:"vram"`
	BacklightType    string            `json:"backlightType"`
	ProcessorBrand   string            `json:"processorBrand"`
	ProcessorModel   string            `json:"processorModel"`
	Cores            int               `json:"cores"`
	Threads          int               `json:"threads"`
	RAM              string            `json:"ram"`
	RAMType          string            `json:"ramType"`
	StorageType      string            `json:"storageType"`
	StorageCapacity  string            `json:"storageCapacity"`
	ScreenSize       string            `json:"screenSize"`
	ScreenResolution string            `json:"screenResolution"`
	RefreshRate      string            `json:"refreshRate"`
	Year             int               `json:"year"`
	Weight           string            `json:"weight"`
	Price            float64           `json:"price"`
	Condition        string            `json:"condition"`
	StockStatus      string            `json:"stockStatus"`
	IsCertified      bool              `json:"isCertified"`
	Tags             []string          `json:"tag"`
	Images           []string          `json:"images"`
	Description      map[string]string `json:"description"`
}

// ListingService owns the listing write path. The filter engine never
// writes; everything that mutates the catalog goes through here.
type ListingService struct {
	Listings *repos.ListingRepo
}

func NewListingService(listings *repos.ListingRepo) *ListingService {
	return &ListingService{Listings: listings}
}

func (s *ListingService) Get(ctx context.Context, id string) (domain.Listing, error) {
	return s.Listings.Get(ctx, id)
}

// Create stores a seller submission; new listings start pending until an
// admin approves them.
func (s *ListingService) Create(userID string, in ListingInput) (domain.Listing, error) {
	l, err := fromInput(in)
	if err != nil {
		return domain.Listing{}, err
	}
	l.ID = uuid.NewString()
	l.UserID = userID
	l.Status = "pending"
	if err := s.Listings.Insert(l); err != nil {
		return domain.Listing{}, err
	}
	return l, nil
}

// Update rewrites a listing. Only the owner may edit; edits drop the
// listing back to pending review.
func (s *ListingService) Update(ctx context.Context, id, userID string, in ListingInput) (domain.Listing, error) {
	cur, err := s.Listings.Get(ctx, id)
	if err != nil {
		return domain.Listing{}, err
	}
	if cur.UserID != userID {
		return domain.Listing{}, domain.ErrNotFound
	}
	l, err := fromInput(in)
	if err != nil {
		return domain.Listing{}, err
	}
	l.ID = cur.ID
	l.UserID = cur.UserID
	l.Status = "pending"
	if err := s.Listings.Update(l); err != nil {
		return domain.Listing{}, err
	}
	return l, nil
}

// SetStatus moves a listing through the approval lifecycle (admin only,
// enforced at the surface).
func (s *ListingService) SetStatus(id, status string) error {
	attr, _ := catalog.Lookup(catalog.KeyStatus)
	if !attr.InEnum(status) {
		return domain.Invalid("status", "not an accepted value")
	}
	return s.Listings.SetStatus(id, status)
}

// Delete removes a listing. Admins may delete anything; owners their own.
func (s *ListingService) Delete(ctx context.Context, id, userID string, admin bool) error {
	cur, err := s.Listings.Get(ctx, id)
	if err != nil {
		return err
	}
	if !admin && cur.UserID != userID {
		return domain.ErrNotFound
	}
	return s.Listings.Delete(id)
}

// fromInput validates seller input against the attribute registry and the
// same bounds the selection parser enforces, then maps it to the entity.
func fromInput(in ListingInput) (domain.Listing, error) {
	var l domain.Listing
	if strings.TrimSpace(in.Title) == "" {
		return l, domain.Invalid("title", "required")
	}
	if strings.TrimSpace(in.Brand) == "" {
		return l, domain.Invalid("brand", "required")
	}
	if strings.TrimSpace(in.Model) == "" {
		return l, domain.Invalid("model", "required")
	}
	if in.Price < filter.PriceFloor || in.Price > filter.PriceCeil {
		return l, domain.Invalid("price", "out of range")
	}
	if in.Year < filter.YearMin || in.Year > filter.YearMax {
		return l, domain.Invalid("year", "out of range")
	}
	for _, check := range []struct {
		key, val string
	}{
		{catalog.KeyGraphicsType, in.GraphicsType},
		{catalog.KeyProcessorBrand, in.ProcessorBrand},
		{catalog.KeyRAMType, in.RAMType},
		{catalog.KeyStorageType, in.StorageType},
		{catalog.KeyCondition, in.Condition},
		{catalog.KeyStockStatus, in.StockStatus},
	} {
		attr, _ := catalog.Lookup(check.key)
		if !attr.InEnum(check.val) {
			return l, domain.Invalid(check.key, "not an accepted value")
		}
	}
	// the one entity-level invariant enforced at write time: at least
	// one language of the description must be filled
	hasLang := false
	for _, text := range in.Description {
		if strings.TrimSpace(text) != "" {
			hasLang = true
			break
		}
	}
	if !hasLang {
		return l, domain.Invalid("description", "at least one language required")
	}

	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	images := in.Images
	if images == nil {
		images = []string{}
	}
	tagsJSON, _ := json.Marshal(tags)
	descJSON, _ := json.Marshal(in.Description)
	imagesJSON, _ := json.Marshal(images)

	l = domain.Listing{
		Title:            strings.TrimSpace(in.Title),
		ShortDesc:        strings.TrimSpace(in.ShortDesc),
		Brand:            strings.TrimSpace(in.Brand),
		Model:            strings.TrimSpace(in.Model),
		GraphicsType:     in.GraphicsType,
		GPUBrand:         in.GPUBrand,
		GPUModel:         in.GPUModel,
		VRAM:             in.VRAM,
		BacklightType:    in.BacklightType,
		ProcessorBrand:   in.ProcessorBrand,
		ProcessorModel:   in.ProcessorModel,
		Cores:            in.Cores,
		Threads:          in.Threads,
		RAM:              in.RAM,
		RAMType:          in.RAMType,
		StorageType:      in.StorageType,
		StorageCapacity:  in.StorageCapacity,
		ScreenSize:       in.ScreenSize,
		ScreenResolution: in.ScreenResolution,
		RefreshRate:      in.RefreshRate,
		Year:             in.Year,
		Weight:           in.Weight,
		Price:            in.Price,
		Condition:        in.Condition,
		StockStatus:      in.StockStatus,
		IsCertified:      in.IsCertified,
		TagsJSON:         string(tagsJSON),
		DescriptionJSON:  string(descJSON),
		ImagesJSON:       string(imagesJSON),
	}
	return l, nil
}

// Tags decodes a listing's tag collection for responses.
func Tags(l domain.Listing) []string {
	var tags []string
	if err := json.Unmarshal([]byte(l.TagsJSON), &tags); err != nil {
		return []string{}
	}
	return tags
}
