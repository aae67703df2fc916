package services_test

import (
	"context"
	"errors"
	"testing"

	"lapmart/internal/domain"
	"lapmart/internal/repos"
	"lapmart/internal/services"
)

func validInput() services.ListingInput {
	return services.ListingInput{
		Title: "Acer Swift 14", Brand: "Acer", Model: "Swift 14",
		GraphicsType: "Integrated", ProcessorBrand: "Intel", ProcessorModel: "i5-1335U",
		RAM: "16GB", RAMType: "DDR5", StorageType: "SSD", StorageCapacity: "512GB",
		ScreenSize: "14", ScreenResolution: "1920x1200", Year: 2024, Price: 700,
		Condition: "new", StockStatus: "in stock",
		Tags:        []string{"ultrabook"},
		Description: map[string]string{"en": "Light office laptop."},
	}
}

func TestCreateRejectsBadInput(t *testing.T) {
	svc := services.NewListingService(repos.NewListingRepo(memdb(t)))

	cases := []struct {
		name  string
		field string
		edit  func(*services.ListingInput)
	}{
		{"missing title", "title", func(in *services.ListingInput) { in.Title = "  " }},
		{"missing brand", "brand", func(in *services.ListingInput) { in.Brand = "" }},
		{"price above cap", "price", func(in *services.ListingInput) { in.Price = 10001 }},
		{"negative price", "price", func(in *services.ListingInput) { in.Price = -5 }},
		{"year before window", "year", func(in *services.ListingInput) { in.Year = 1999 }},
		{"unknown ram type", "ramType", func(in *services.ListingInput) { in.RAMType = "DDR9" }},
		{"unknown condition", "condition", func(in *services.ListingInput) { in.Condition = "mint" }},
		{"no description language", "description", func(in *services.ListingInput) {
			in.Description = map[string]string{"en": "   "}
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.edit(&in)
			_, err := svc.Create("u-nino", in)
			ve, ok := domain.AsValidation(err)
			if !ok {
				t.Fatalf("want ValidationError, got %v", err)
			}
			if ve.Field != tc.field {
				t.Fatalf("field = %q, want %q", ve.Field, tc.field)
			}
		})
	}
}

func TestCreateStartsPending(t *testing.T) {
	svc := services.NewListingService(repos.NewListingRepo(memdb(t)))
	l, err := svc.Create("u-nino", validInput())
	if err != nil {
		t.Fatal(err)
	}
	if l.Status != "pending" {
		t.Fatalf("new listing status = %q, want pending", l.Status)
	}
	got, err := svc.Get(context.Background(), l.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.TagsJSON != `["ultrabook"]` {
		t.Fatalf("tags not stored: %q", got.TagsJSON)
	}
}

func TestUpdateOwnerOnlyAndBackToPending(t *testing.T) {
	svc := services.NewListingService(repos.NewListingRepo(memdb(t)))
	l, err := svc.Create("u-nino", validInput())
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.SetStatus(l.ID, "approved"); err != nil {
		t.Fatal(err)
	}

	// other users see the listing as untouchable, not as forbidden
	if _, err := svc.Update(context.Background(), l.ID, "u-giorgi", validInput()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound for non-owner, got %v", err)
	}

	in := validInput()
	in.Price = 650
	got, err := svc.Update(context.Background(), l.ID, "u-nino", in)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != "pending" {
		t.Fatalf("edited listing should drop back to pending, got %q", got.Status)
	}
	if got.Price != 650 {
		t.Fatalf("price = %v", got.Price)
	}
}

func TestSetStatusRejectsUnknownState(t *testing.T) {
	svc := services.NewListingService(repos.NewListingRepo(memdb(t)))
	err := svc.SetStatus("lap-msi-cyborg", "shiny")
	if _, ok := domain.AsValidation(err); !ok {
		t.Fatalf("want ValidationError, got %v", err)
	}
}

func TestDeleteOwnerAndAdmin(t *testing.T) {
	svc := services.NewListingService(repos.NewListingRepo(memdb(t)))
	l, err := svc.Create("u-nino", validInput())
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.Delete(context.Background(), l.ID, "u-giorgi", false); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("stranger delete: want ErrNotFound, got %v", err)
	}
	if err := svc.Delete(context.Background(), l.ID, "u-admin", true); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Get(context.Background(), l.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("listing should be gone, got %v", err)
	}
}
