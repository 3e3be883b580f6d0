// Package validation holds the field-level rules that gate every item
// write. Validation is pure: it inspects (and coerces) the raw request
// fields and reports the first violated rule, in a fixed field order so
// error messages are reproducible.
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Pedrocavalcantip/projeto-prefeitura-backend-sub000/internal/apperrors"
	"github.com/Pedrocavalcantip/projeto-prefeitura-backend-sub000/internal/models"
)

type Mode int

const (
	ModeCreate Mode = iota
	ModeUpdate
)

// Categories is the closed set of item categories the catalog accepts.
var Categories = []string{
	"Eletrodomésticos e Móveis",
	"Utensílios Gerais",
	"Roupas e Calçados",
	"Saúde e Higiene",
	"Materiais Educativos e Culturais",
	"Itens de Inclusão e Mobilidade",
	"Eletrônicos",
	"Itens Pet",
	"Outros",
}

var (
	urlPattern      = regexp.MustCompile(`^https?://\S+$`)
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	whatsappPattern = regexp.MustCompile(`^[0-9]{10,13}$`)
)

// requiredFields lists the always-required string fields in the order
// they are checked.
var requiredFields = []string{
	"title", "description", "category", "imageUrl", "contactWhatsapp", "contactEmail",
}

// ValidateItem checks the raw fields of a create or update request for
// the given purpose. Numeric fields ("quantity", "daysValid") and
// "neededBy" are coerced in place on success. The first violated rule is
// returned as a *apperrors.Error with Status 400; nil means the fields
// are acceptable. now anchors the forward-looking deadline check.
func ValidateItem(fields map[string]any, purpose string, mode Mode, now time.Time) error {
	for _, name := range requiredFields {
		if err := checkString(fields, name, mode); err != nil {
			return err
		}
	}

	if raw, ok := fields["category"]; ok {
		if !isCategory(raw.(string)) {
			return apperrors.NewValidation("category", "categoria inválida")
		}
	}
	if raw, ok := fields["imageUrl"]; ok {
		if !urlPattern.MatchString(raw.(string)) {
			return apperrors.NewValidation("imageUrl", "deve ser uma URL http(s) válida")
		}
	}
	if raw, ok := fields["contactWhatsapp"]; ok {
		if !whatsappPattern.MatchString(raw.(string)) {
			return apperrors.NewValidation("contactWhatsapp", "deve conter apenas dígitos (10 a 13)")
		}
	}
	if raw, ok := fields["contactEmail"]; ok {
		if !emailPattern.MatchString(raw.(string)) {
			return apperrors.NewValidation("contactEmail", "email inválido")
		}
	}

	if _, ok := fields["quantity"]; ok {
		if err := coercePositiveInt(fields, "quantity"); err != nil {
			return err
		}
	}

	if purpose != models.PurposeDonation {
		return nil
	}

	// Donation-only fields.
	if raw, ok := fields["urgency"]; ok {
		u, _ := raw.(string)
		if u != models.UrgencyLow && u != models.UrgencyMedium && u != models.UrgencyHigh {
			return apperrors.NewValidation("urgency", "urgência deve ser BAIXA, MEDIA ou ALTA")
		}
	}
	if _, ok := fields["daysValid"]; ok {
		if err := coercePositiveInt(fields, "daysValid"); err != nil {
			return err
		}
	}
	if raw, ok := fields["neededBy"]; ok {
		deadline, err := parseDate(raw)
		if err != nil {
			return apperrors.NewValidation("neededBy", "data inválida")
		}
		if mode == ModeCreate && deadline.Before(dateOnly(now)) {
			return apperrors.NewValidation("neededBy", "a data limite não pode estar no passado")
		}
		fields["neededBy"] = deadline
	}

	return nil
}

func checkString(fields map[string]any, name string, mode Mode) error {
	raw, present := fields[name]
	if !present {
		if mode == ModeCreate {
			return apperrors.NewValidation(name, "campo obrigatório")
		}
		return nil
	}
	s, ok := raw.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return apperrors.NewValidation(name, "não pode ser vazio")
	}
	return nil
}

func isCategory(s string) bool {
	for _, c := range Categories {
		if c == s {
			return true
		}
	}
	return false
}

// coercePositiveInt accepts JSON numbers and numeric strings, replacing
// the raw value with an int.
func coercePositiveInt(fields map[string]any, name string) error {
	invalid := apperrors.NewValidation(name, "deve ser um número inteiro positivo")

	var n int
	switch v := fields[name].(type) {
	case int:
		n = v
	case float64:
		if v != float64(int(v)) {
			return invalid
		}
		n = int(v)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return invalid
		}
		n = parsed
	default:
		return invalid
	}

	if n <= 0 {
		return invalid
	}
	fields[name] = n
	return nil
}

func parseDate(raw any) (time.Time, error) {
	switch v := raw.(type) {
	case time.Time:
		return dateOnly(v), nil
	case string:
		for _, layout := range []string{"2006-01-02", time.RFC3339} {
			if t, err := time.Parse(layout, v); err == nil {
				return dateOnly(t), nil
			}
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %v", raw)
}

// dateOnly truncates to midnight UTC; deadlines are calendar dates.
func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
