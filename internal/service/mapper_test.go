package service

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"item-detail/internal/domain"

	"github.com/shopspring/decimal"
)

func TestResponseAttributesKeepInsertionOrder(t *testing.T) {
	price, err := domain.NewPrice("ARS", decimal.NewFromInt(1000))
	if err != nil {
		t.Fatal(err)
	}

	// Insertion order deliberately differs from sorted key order.
	item, err := domain.NewItemBuilder().
		Title("Heladera Patrick").
		Description("No frost, 300 litros").
		Price(price).
		SellerID("seller-1").
		Attribute("zeta", "last").
		Attribute("alpha", "first").
		Attribute("middle", "between").
		Build()
	if err != nil {
		t.Fatal(err)
	}

	rs := toItemResponse(item, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	keys := []string{}
	for pair := rs.Attributes.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	want := []string{"zeta", "alpha", "middle"}
	if len(keys) != len(want) {
		t.Fatalf("attribute keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("attribute keys = %v, want %v", keys, want)
		}
	}

	data, err := json.Marshal(rs)
	if err != nil {
		t.Fatal(err)
	}
	body := string(data)
	zeta := strings.Index(body, `"zeta"`)
	alpha := strings.Index(body, `"alpha"`)
	middle := strings.Index(body, `"middle"`)
	if zeta < 0 || alpha < 0 || middle < 0 {
		t.Fatalf("attributes missing from JSON: %s", body)
	}
	if !(zeta < alpha && alpha < middle) {
		t.Errorf("rendered attribute order is not insertion order: %s", body)
	}
}
