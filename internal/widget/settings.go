package widget

import (
	"context"
	"fmt"
	"strconv"

	validator "github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
)

// SettingsStore persists the single flat settings mapping as a Redis hash.
// A missing hash or missing keys fall back to defaults at resolve time.
type SettingsStore struct {
	Client *redis.Client
	Key    string
}

const defaultSettingsKey = "widget:cart_summary:settings"

func (s *SettingsStore) key() string {
	if s == nil || s.Key == "" {
		return defaultSettingsKey
	}
	return s.Key
}

// Load returns the stored settings map. Absence is an empty map, not an
// error: the widget renders with defaults.
func (s *SettingsStore) Load(ctx context.Context) (map[string]string, error) {
	if s == nil || s.Client == nil {
		return map[string]string{}, nil
	}
	values, err := s.Client.HGetAll(ctx, s.key()).Result()
	if err != nil {
		return map[string]string{}, fmt.Errorf("load widget settings: %w", err)
	}
	return values, nil
}

// Save validates and persists the settings map, replacing prior values for
// the provided keys only.
func (s *SettingsStore) Save(ctx context.Context, values map[string]string) error {
	if s == nil || s.Client == nil {
		return fmt.Errorf("settings store not configured")
	}
	if err := ValidateSettings(values); err != nil {
		return err
	}
	if len(values) == 0 {
		return nil
	}
	flat := make([]any, 0, len(values)*2)
	for k, v := range values {
		flat = append(flat, k, v)
	}
	if err := s.Client.HSet(ctx, s.key(), flat...).Err(); err != nil {
		return fmt.Errorf("save widget settings: %w", err)
	}
	return nil
}

// settingsForm mirrors the admin form's constraints.
type settingsForm struct {
	ShowPriceZero  string `validate:"omitempty,oneof=yes no"`
	ShowCart       string `validate:"omitempty,oneof=yes no"`
	ShowSelected   string `validate:"omitempty,oneof=yes no"`
	ShowTotal      string `validate:"omitempty,oneof=yes no"`
	ShowVat        string `validate:"omitempty,oneof=yes no"`
	ShowAddToCart  string `validate:"omitempty,oneof=yes no"`
	AutoAdd        string `validate:"omitempty,oneof=yes no"`
	CartColor      string `validate:"omitempty,hexcolor"`
	SelectedColor  string `validate:"omitempty,hexcolor"`
	TotalColor     string `validate:"omitempty,hexcolor"`
	AddToCartColor string `validate:"omitempty,hexcolor"`
	TitleSize      string `validate:"omitempty,number"`
	TextSize       string `validate:"omitempty,number"`
}

var validate = validator.New()

// ValidateSettings checks a settings or override map against the admin
// form's constraints. Unknown keys are ignored rather than rejected.
func ValidateSettings(values map[string]string) error {
	form := settingsForm{
		ShowPriceZero:  values[KeyShowPriceZero],
		ShowCart:       values[KeyShowCart],
		ShowSelected:   values[KeyShowSelected],
		ShowTotal:      values[KeyShowTotal],
		ShowVat:        values[KeyShowVat],
		ShowAddToCart:  values[KeyShowAddToCart],
		AutoAdd:        values[KeyAutoAdd],
		CartColor:      values[KeyCartColor],
		SelectedColor:  values[KeySelectedColor],
		TotalColor:     values[KeyTotalColor],
		AddToCartColor: values[KeyAddToCartColor],
		TitleSize:      values[KeyTitleSize],
		TextSize:       values[KeyTextSize],
	}
	if err := validate.Struct(form); err != nil {
		return fmt.Errorf("invalid widget settings: %w", err)
	}
	for _, key := range []string{KeyTitleSize, KeyTextSize} {
		if v := values[key]; v != "" && !sizeInRange(v) {
			return fmt.Errorf("invalid widget settings: %s out of range", key)
		}
	}
	return nil
}

func sizeInRange(v string) bool {
	n, err := strconv.Atoi(v)
	return err == nil && n >= 8 && n <= 40
}
