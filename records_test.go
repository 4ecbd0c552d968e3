package sbudesk

import (
	"errors"
	"testing"
)

func TestDecodeSales(t *testing.T) {
	data := []byte(`[
		{"id": 1, "sbu_id": 2, "amount": 100.5, "day": 1},
		{"id": 2, "sbu_id": 2, "amount": "abc", "day": 2},
		{"id": 3, "sbu_id": 2, "amount": "25", "day": 3},
		{"id": 4, "sbu_id": 2, "day": 4},
		{"id": 5, "sbu_id": 2, "amount": 1}
	]`)

	sales, err := DecodeSales(data)
	if len(sales) != 2 {
		t.Fatalf("DecodeSales() returned %d records, want 2", len(sales))
	}
	checkDecimal(t, "sales[0].Amount", "100.5", sales[0].Amount)
	checkDecimal(t, "sales[1].Amount", "25", sales[1].Amount)
	if sales[0].SBUID != 2 {
		t.Errorf("sales[0].SBUID = %d, want 2", sales[0].SBUID)
	}
	if sales[1].Day != 3 {
		t.Errorf("sales[1].Day = %d, want 3", sales[1].Day)
	}

	if !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("DecodeSales() error = %v, want %v", err, ErrInvalidRecord)
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		t.Fatalf("DecodeSales() error = %T, want a joined error", err)
	}
	if n := len(joined.Unwrap()); n != 3 {
		t.Errorf("DecodeSales() reported %d invalid records, want 3", n)
	}
}

func TestDecodeExpenses(t *testing.T) {
	expenses, err := DecodeExpenses([]byte(`[{"sbu_id": 1, "amount": 30, "day": 1, "category": "Fuel"}]`))
	if err != nil {
		t.Fatalf("DecodeExpenses() error = %v", err)
	}
	if len(expenses) != 1 {
		t.Fatalf("DecodeExpenses() returned %d records, want 1", len(expenses))
	}
	if expenses[0].Category != "Fuel" {
		t.Errorf("Category = %q, want %q", expenses[0].Category, "Fuel")
	}
	checkDecimal(t, "Amount", "30", expenses[0].Amount)
}

func TestDecodeSales_EmptyPayloads(t *testing.T) {
	for _, payload := range []string{"", "null", "[]"} {
		sales, err := DecodeSales([]byte(payload))
		if err != nil {
			t.Errorf("DecodeSales(%q) error = %v", payload, err)
		}
		if len(sales) != 0 {
			t.Errorf("DecodeSales(%q) = %v, want none", payload, sales)
		}
	}
}

func TestDecodeSales_NotAnArray(t *testing.T) {
	_, err := DecodeSales([]byte(`{"detail": "oops"}`))
	if err == nil {
		t.Fatal("DecodeSales() succeeded on an object payload")
	}
	if errors.Is(err, ErrInvalidRecord) {
		t.Errorf("DecodeSales() error = %v, want a decoding error", err)
	}
}

func TestDecodeThenAggregate_SkipsCorruptRecord(t *testing.T) {
	sales, decodeErr := DecodeSales([]byte(`[{"amount": 10, "day": 5}, {"amount": null, "day": 5}, {"amount": 5, "day": 40}]`))
	series, buildErr := BuildDailySeries(sales, nil)
	if decodeErr == nil {
		t.Error("DecodeSales() accepted a null amount")
	}
	if buildErr == nil {
		t.Error("BuildDailySeries() accepted day 40")
	}
	checkDecimal(t, "day 5 sales", "10", series.Day(5).Sales)
}
