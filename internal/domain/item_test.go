package domain

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func testItem(t *testing.T, amount string) *Item {
	t.Helper()
	price, err := NewPrice("ARS", decimal.RequireFromString(amount))
	if err != nil {
		t.Fatal(err)
	}
	item, err := NewItemBuilder().
		Title("Heladera Patrick").
		Description("No frost, 300 litros").
		Price(price).
		Stock(10).
		SellerID("seller-1").
		Build()
	if err != nil {
		t.Fatal(err)
	}
	return item
}

func TestBuilderDefaults(t *testing.T) {
	item := testItem(t, "10000")

	if item.ID() == "" {
		t.Error("builder should generate an id")
	}
	if item.ItemCondition() != ConditionNew {
		t.Errorf("condition = %s, want NEW", item.ItemCondition())
	}
	if r := item.Rating(); r.Count != 0 || r.Average != 0 {
		t.Errorf("rating = %+v, want empty", r)
	}
	if item.TitleNormalized() != "heladera patrick" {
		t.Errorf("titleNormalized = %q", item.TitleNormalized())
	}
	if _, ok := item.Discount(); ok {
		t.Error("new item should have no discount")
	}
}

func TestBuilderRequiredFields(t *testing.T) {
	price, _ := NewPrice("ARS", decimal.NewFromInt(100))

	builders := map[string]*ItemBuilder{
		"missing title":       NewItemBuilder().Description("d").Price(price).SellerID("s"),
		"missing description": NewItemBuilder().Title("t").Price(price).SellerID("s"),
		"missing price":       NewItemBuilder().Title("t").Description("d").SellerID("s"),
		"missing seller":      NewItemBuilder().Title("t").Description("d").Price(price),
		"negative stock":      NewItemBuilder().Title("t").Description("d").Price(price).SellerID("s").Stock(-1),
	}

	for name, b := range builders {
		t.Run(name, func(t *testing.T) {
			if _, err := b.Build(); !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("Build() error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestCurrentPricePercentDiscount(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	item := testItem(t, "10000")

	d, err := NewDiscount(DiscountPercent, 25, "", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	item.ApplyDiscount(d)

	got := item.CurrentPrice(now)
	if got.Currency != "ARS" || got.Amount.StringFixed(2) != "7500.00" {
		t.Errorf("CurrentPrice = %s, want ARS 7500.00", got)
	}
}

func TestCurrentPricePercentEdges(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	item := testItem(t, "10000")
	full, _ := NewDiscount(DiscountPercent, 100, "", nil, nil)
	item.ApplyDiscount(full)
	if got := item.CurrentPrice(now); got.Amount.StringFixed(2) != "0.00" {
		t.Errorf("100%% discount: CurrentPrice = %s, want 0.00", got)
	}

	item = testItem(t, "10000")
	zero, _ := NewDiscount(DiscountPercent, 0, "", nil, nil)
	item.ApplyDiscount(zero)
	if got := item.CurrentPrice(now); got.Amount.StringFixed(2) != "10000.00" {
		t.Errorf("0%% discount: CurrentPrice = %s, want 10000.00", got)
	}
}

func TestCurrentPriceAmountDiscountClampsAtZero(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	item := testItem(t, "5000")

	d, err := NewDiscount(DiscountAmount, 6000, "", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	item.ApplyDiscount(d)

	if got := item.CurrentPrice(now); got.Amount.StringFixed(2) != "0.00" {
		t.Errorf("CurrentPrice = %s, want 0.00", got)
	}
}

func TestCurrentPriceIgnoresInactiveDiscount(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	item := testItem(t, "10000")

	future := now.AddDate(0, 0, 1)
	d, err := NewDiscount(DiscountPercent, 50, "", &future, nil)
	if err != nil {
		t.Fatal(err)
	}
	item.ApplyDiscount(d)

	if got := item.CurrentPrice(now); got.Amount.StringFixed(2) != "10000.00" {
		t.Errorf("future discount: CurrentPrice = %s, want base price", got)
	}
	if item.HasActiveDiscount(now) {
		t.Error("future discount should not be active")
	}
	if _, ok := item.Discount(); !ok {
		t.Error("raw discount accessor should still report the applied discount")
	}
}

func TestClearDiscountRestoresBasePrice(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	item := testItem(t, "10000")

	d, _ := NewDiscount(DiscountPercent, 25, "", nil, nil)
	item.ApplyDiscount(d)
	if got := item.CurrentPrice(now); got.Amount.StringFixed(2) != "7500.00" {
		t.Fatalf("CurrentPrice with discount = %s", got)
	}

	item.ClearDiscount()
	if got := item.CurrentPrice(now); got.Amount.StringFixed(2) != "10000.00" {
		t.Errorf("CurrentPrice after clear = %s, want 10000.00", got)
	}
	if _, ok := item.Discount(); ok {
		t.Error("discount should be gone after ClearDiscount")
	}
}

func TestChangeTitleRecomputesNormalizedTitle(t *testing.T) {
	item := testItem(t, "100")

	if err := item.ChangeTitle("Cafétera  EXPRÉS"); err != nil {
		t.Fatal(err)
	}
	if item.Title() != "Cafétera  EXPRÉS" {
		t.Errorf("title = %q", item.Title())
	}
	if item.TitleNormalized() != "cafetera expres" {
		t.Errorf("titleNormalized = %q, want %q", item.TitleNormalized(), "cafetera expres")
	}

	if err := item.ChangeTitle("   "); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("blank title error = %v, want ErrInvalidArgument", err)
	}
}

func TestStockMutations(t *testing.T) {
	item := testItem(t, "100")

	if err := item.SetStock(-1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("SetStock(-1) error = %v, want ErrInvalidArgument", err)
	}
	if err := item.SetStock(3); err != nil {
		t.Fatal(err)
	}

	if err := item.IncrementStock(-4); !errors.Is(err, ErrIllegalState) {
		t.Errorf("IncrementStock below zero error = %v, want ErrIllegalState", err)
	}
	if item.Stock() != 3 {
		t.Errorf("failed increment must not change stock, got %d", item.Stock())
	}

	if err := item.IncrementStock(-3); err != nil {
		t.Fatal(err)
	}
	if item.Stock() != 0 {
		t.Errorf("stock = %d, want 0", item.Stock())
	}
}

func TestAtMostOneMainPicture(t *testing.T) {
	item := testItem(t, "100")

	first, _ := NewPicture("https://img.example/a.jpg", true, "front")
	second, _ := NewPicture("https://img.example/b.jpg", false, "back")
	third, _ := NewPicture("https://img.example/c.jpg", true, "side")

	for _, p := range []Picture{first, second, third} {
		if err := item.AddPicture(p); err != nil {
			t.Fatal(err)
		}
	}

	mains := 0
	for _, p := range item.Pictures() {
		if p.Main {
			mains++
			if p.URL != "https://img.example/c.jpg" {
				t.Errorf("main picture = %s, want c.jpg", p.URL)
			}
		}
	}
	if mains != 1 {
		t.Fatalf("main pictures = %d, want 1", mains)
	}

	found, err := item.SetMainPicture("https://img.example/a.jpg")
	if err != nil || !found {
		t.Fatalf("SetMainPicture = %v, %v", found, err)
	}
	for _, p := range item.Pictures() {
		if p.Main != (p.URL == "https://img.example/a.jpg") {
			t.Errorf("picture %s main = %v", p.URL, p.Main)
		}
	}

	if found, _ := item.SetMainPicture("https://img.example/missing.jpg"); found {
		t.Error("SetMainPicture for unknown url should report not found")
	}

	removed, err := item.RemovePictureByURL("https://img.example/b.jpg")
	if err != nil || !removed {
		t.Fatalf("RemovePictureByURL = %v, %v", removed, err)
	}
	if len(item.Pictures()) != 2 {
		t.Errorf("pictures = %d, want 2", len(item.Pictures()))
	}
}

func TestReplaceCategoriesValidatesBeforeMutating(t *testing.T) {
	item := testItem(t, "100")
	if err := item.ReplaceCategories([]string{"electro", "hogar"}); err != nil {
		t.Fatal(err)
	}

	err := item.ReplaceCategories([]string{"deportes", "  ", "jardin"})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("ReplaceCategories with blank entry error = %v, want ErrInvalidArgument", err)
	}
	if got := item.Categories(); !reflect.DeepEqual(got, []string{"electro", "hogar"}) {
		t.Errorf("categories after failed replace = %v, want previous list intact", got)
	}

	if err := item.ReplaceCategories(nil); err != nil {
		t.Fatal(err)
	}
	if got := item.Categories(); len(got) != 0 {
		t.Errorf("categories after nil replace = %v, want empty", got)
	}
}

func TestAttributesKeepInsertionOrder(t *testing.T) {
	item := testItem(t, "100")

	for _, kv := range [][2]string{{"brand", "Patrick"}, {"color", "white"}, {"liters", "300"}} {
		if err := item.PutAttribute(kv[0], kv[1]); err != nil {
			t.Fatal(err)
		}
	}

	want := []string{"brand", "color", "liters"}
	if got := item.AttributeKeys(); !reflect.DeepEqual(got, want) {
		t.Errorf("AttributeKeys = %v, want %v", got, want)
	}

	// Updating an existing key must not move it.
	if err := item.PutAttribute("brand", "Patrick Fresh"); err != nil {
		t.Fatal(err)
	}
	if got := item.AttributeKeys(); !reflect.DeepEqual(got, want) {
		t.Errorf("AttributeKeys after update = %v, want %v", got, want)
	}

	// A blank value removes the key instead of storing an empty string.
	if err := item.PutAttribute("color", "  "); err != nil {
		t.Fatal(err)
	}
	if got := item.AttributeKeys(); !reflect.DeepEqual(got, []string{"brand", "liters"}) {
		t.Errorf("AttributeKeys after blank put = %v", got)
	}

	if err := item.PutAttribute("", "x"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("blank key error = %v, want ErrInvalidArgument", err)
	}
}

func TestRatingFoldsIntoItem(t *testing.T) {
	item := testItem(t, "100")

	if err := item.UpdateRating(5); err != nil {
		t.Fatal(err)
	}
	if err := item.UpdateRating(3); err != nil {
		t.Fatal(err)
	}

	r := item.Rating()
	if r.Count != 2 || r.Average < 3.9 || r.Average > 4.1 {
		t.Errorf("rating = %+v, want count 2 average ~4.0", r)
	}

	if err := item.UpdateRating(6); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("UpdateRating(6) error = %v, want ErrInvalidArgument", err)
	}
}

func TestItemJSONRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	item := testItem(t, "10000")

	d, _ := NewDiscount(DiscountPercent, 25, "promo", nil, nil)
	item.ApplyDiscount(d)
	pic, _ := NewPicture("https://img.example/a.jpg", true, "front")
	if err := item.AddPicture(pic); err != nil {
		t.Fatal(err)
	}
	if err := item.ReplaceCategories([]string{"electro"}); err != nil {
		t.Fatal(err)
	}
	if err := item.PutAttribute("brand", "Patrick"); err != nil {
		t.Fatal(err)
	}

	data, err := json.Marshal(item)
	if err != nil {
		t.Fatal(err)
	}

	var back Item
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}

	if back.ID() != item.ID() || back.Title() != item.Title() {
		t.Errorf("identity changed: %s/%s", back.ID(), back.Title())
	}
	if back.TitleNormalized() != item.TitleNormalized() {
		t.Errorf("titleNormalized = %q, want %q (derived on load)", back.TitleNormalized(), item.TitleNormalized())
	}
	if got := back.CurrentPrice(now); got.Amount.StringFixed(2) != "7500.00" {
		t.Errorf("CurrentPrice after round trip = %s, want 7500.00", got)
	}
	if !reflect.DeepEqual(back.Pictures(), item.Pictures()) {
		t.Errorf("pictures = %v, want %v", back.Pictures(), item.Pictures())
	}
	if !reflect.DeepEqual(back.AttributeKeys(), item.AttributeKeys()) {
		t.Errorf("attribute keys = %v, want %v", back.AttributeKeys(), item.AttributeKeys())
	}
}

func TestCloneIsDeep(t *testing.T) {
	item := testItem(t, "100")
	pic, _ := NewPicture("https://img.example/a.jpg", true, "")
	if err := item.AddPicture(pic); err != nil {
		t.Fatal(err)
	}
	if err := item.PutAttribute("brand", "Patrick"); err != nil {
		t.Fatal(err)
	}

	clone := item.Clone()
	if err := clone.ChangeTitle("Another Title"); err != nil {
		t.Fatal(err)
	}
	if _, err := clone.RemovePictureByURL("https://img.example/a.jpg"); err != nil {
		t.Fatal(err)
	}
	clone.RemoveAttribute("brand")

	if item.Title() != "Heladera Patrick" {
		t.Error("mutating the clone changed the original title")
	}
	if len(item.Pictures()) != 1 {
		t.Error("mutating the clone changed the original pictures")
	}
	if _, ok := item.Attributes()["brand"]; !ok {
		t.Error("mutating the clone changed the original attributes")
	}
}
