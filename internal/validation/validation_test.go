package validation

import (
	"testing"
	"time"

	"github.com/Pedrocavalcantip/projeto-prefeitura-backend-sub000/internal/apperrors"
	"github.com/Pedrocavalcantip/projeto-prefeitura-backend-sub000/internal/models"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func validDonationFields() map[string]any {
	return map[string]any{
		"title":           "Cestas básicas",
		"description":     "Cestas básicas completas para famílias",
		"category":        "Outros",
		"imageUrl":        "https://cdn.example.org/cesta.jpg",
		"contactWhatsapp": "81999990000",
		"contactEmail":    "contato@ong.org.br",
	}
}

func TestValidateItemCreateOK(t *testing.T) {
	if err := ValidateItem(validDonationFields(), models.PurposeDonation, ModeCreate, testNow); err != nil {
		t.Fatalf("expected valid fields, got %v", err)
	}
}

func TestValidateItemCreateFailures(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(map[string]any)
		wantField string
	}{
		{"missing title", func(f map[string]any) { delete(f, "title") }, "title"},
		{"empty title", func(f map[string]any) { f["title"] = "  " }, "title"},
		{"missing description", func(f map[string]any) { delete(f, "description") }, "description"},
		{"unknown category", func(f map[string]any) { f["category"] = "Veículos" }, "category"},
		{"bad image url", func(f map[string]any) { f["imageUrl"] = "ftp://example.org/a.jpg" }, "imageUrl"},
		{"whatsapp too short", func(f map[string]any) { f["contactWhatsapp"] = "819999" }, "contactWhatsapp"},
		{"whatsapp non digits", func(f map[string]any) { f["contactWhatsapp"] = "81-99999-0000" }, "contactWhatsapp"},
		{"bad email", func(f map[string]any) { f["contactEmail"] = "contato@" }, "contactEmail"},
		{"zero quantity", func(f map[string]any) { f["quantity"] = 0 }, "quantity"},
		{"negative quantity", func(f map[string]any) { f["quantity"] = float64(-2) }, "quantity"},
		{"fractional quantity", func(f map[string]any) { f["quantity"] = 2.5 }, "quantity"},
		{"non numeric quantity", func(f map[string]any) { f["quantity"] = "muitas" }, "quantity"},
		{"bad urgency", func(f map[string]any) { f["urgency"] = "URGENTE" }, "urgency"},
		{"zero daysValid", func(f map[string]any) { f["daysValid"] = "0" }, "daysValid"},
		{"bad neededBy", func(f map[string]any) { f["neededBy"] = "amanhã" }, "neededBy"},
		{"past neededBy", func(f map[string]any) { f["neededBy"] = "2020-01-01" }, "neededBy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := validDonationFields()
			tt.mutate(fields)

			err := ValidateItem(fields, models.PurposeDonation, ModeCreate, testNow)
			appErr := apperrors.As(err)
			if appErr == nil {
				t.Fatalf("expected validation error, got %v", err)
			}
			if appErr.Field != tt.wantField {
				t.Errorf("expected field %q, got %q (%s)", tt.wantField, appErr.Field, appErr.Message)
			}
		})
	}
}

func TestValidateItemCoercesNumbers(t *testing.T) {
	fields := validDonationFields()
	fields["quantity"] = "12"
	fields["daysValid"] = float64(5)

	if err := ValidateItem(fields, models.PurposeDonation, ModeCreate, testNow); err != nil {
		t.Fatalf("ValidateItem: %v", err)
	}

	if q, ok := fields["quantity"].(int); !ok || q != 12 {
		t.Errorf("expected quantity coerced to int 12, got %v", fields["quantity"])
	}
	if d, ok := fields["daysValid"].(int); !ok || d != 5 {
		t.Errorf("expected daysValid coerced to int 5, got %v", fields["daysValid"])
	}
}

func TestValidateItemParsesDeadline(t *testing.T) {
	for _, raw := range []string{"2026-04-01", "2026-04-01T10:30:00Z"} {
		fields := validDonationFields()
		fields["neededBy"] = raw

		if err := ValidateItem(fields, models.PurposeDonation, ModeCreate, testNow); err != nil {
			t.Fatalf("ValidateItem(%q): %v", raw, err)
		}

		deadline, ok := fields["neededBy"].(time.Time)
		if !ok {
			t.Fatalf("expected neededBy coerced to time.Time, got %T", fields["neededBy"])
		}
		want := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
		if !deadline.Equal(want) {
			t.Errorf("expected date-only deadline %v, got %v", want, deadline)
		}
	}
}

func TestValidateItemUpdateMode(t *testing.T) {
	// Absent fields are fine on update, present-but-empty ones are not.
	fields := map[string]any{"title": "Novo título"}
	if err := ValidateItem(fields, models.PurposeDonation, ModeUpdate, testNow); err != nil {
		t.Fatalf("partial update should validate, got %v", err)
	}

	fields = map[string]any{"title": ""}
	if err := ValidateItem(fields, models.PurposeDonation, ModeUpdate, testNow); err == nil {
		t.Fatal("expected error for empty title on update")
	}
}

func TestValidateItemRelocationSkipsDonationRules(t *testing.T) {
	fields := validDonationFields()
	fields["urgency"] = "URGENTE"
	fields["daysValid"] = "zero"
	fields["neededBy"] = "amanhã"

	if err := ValidateItem(fields, models.PurposeRelocation, ModeCreate, testNow); err != nil {
		t.Fatalf("donation-only rules must not apply to relocations, got %v", err)
	}
}

func TestValidateItemIdempotent(t *testing.T) {
	fields := validDonationFields()
	fields["quantity"] = "3"
	fields["neededBy"] = "2026-05-01"

	if err := ValidateItem(fields, models.PurposeDonation, ModeCreate, testNow); err != nil {
		t.Fatalf("first validation: %v", err)
	}
	// Second pass runs over the already-coerced values.
	if err := ValidateItem(fields, models.PurposeDonation, ModeCreate, testNow); err != nil {
		t.Fatalf("second validation differs: %v", err)
	}

	bad := validDonationFields()
	bad["contactEmail"] = "nope"
	err1 := ValidateItem(bad, models.PurposeDonation, ModeCreate, testNow)
	err2 := ValidateItem(bad, models.PurposeDonation, ModeCreate, testNow)
	if err1 == nil || err2 == nil || err1.Error() != err2.Error() {
		t.Errorf("expected identical failures, got %v and %v", err1, err2)
	}
}
