package postgres

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/league-auction/internal/domain/player"
)

// registrationDataDocument is the canonical JSONB shape written to
// player_profiles.registration_data.
type registrationDataDocument struct {
	Phone           string `json:"phone,omitempty"`
	Email           string `json:"email,omitempty"`
	DateOfBirth     string `json:"date_of_birth,omitempty"`
	FlatNumber      string `json:"flat_number,omitempty"`
	HeightCM        int    `json:"height_cm,omitempty"`
	JerseyNumber    int    `json:"jersey_number,omitempty"`
	ProfileImageURL string `json:"profile_image_url,omitempty"`
}

// Older rows were written by several importers with their own key names.
var registrationDataAliases = map[string][]string{
	"phone":             {"phone", "phone_number", "phoneNumber", "mobile"},
	"email":             {"email", "email_address", "emailAddress"},
	"date_of_birth":     {"date_of_birth", "dob", "dateOfBirth"},
	"flat_number":       {"flat_number", "flatNumber", "flat_no"},
	"height_cm":         {"height_cm", "height", "heightCm"},
	"jersey_number":     {"jersey_number", "jerseyNumber", "jersey_no"},
	"profile_image_url": {"profile_image_url", "profileImageUrl", "photo_url", "image_url"},
}

func decodeRegistrationData(raw []byte) (*player.RegistrationData, error) {
	if len(raw) == 0 || strings.TrimSpace(string(raw)) == "null" {
		return nil, nil
	}

	var doc map[string]any
	if err := sonic.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode registration data: %w", err)
	}
	if len(doc) == 0 {
		return nil, nil
	}

	height, err := aliasedInt(doc, "height_cm")
	if err != nil {
		return nil, err
	}
	jersey, err := aliasedInt(doc, "jersey_number")
	if err != nil {
		return nil, err
	}

	return &player.RegistrationData{
		Phone:           aliasedString(doc, "phone"),
		Email:           aliasedString(doc, "email"),
		DateOfBirth:     aliasedString(doc, "date_of_birth"),
		FlatNumber:      aliasedString(doc, "flat_number"),
		HeightCM:        height,
		JerseyNumber:    jersey,
		ProfileImageURL: aliasedString(doc, "profile_image_url"),
	}, nil
}

func encodeRegistrationData(data *player.RegistrationData) ([]byte, error) {
	if data == nil {
		return nil, nil
	}
	raw, err := sonic.Marshal(registrationDataDocument{
		Phone:           data.Phone,
		Email:           data.Email,
		DateOfBirth:     data.DateOfBirth,
		FlatNumber:      data.FlatNumber,
		HeightCM:        data.HeightCM,
		JerseyNumber:    data.JerseyNumber,
		ProfileImageURL: data.ProfileImageURL,
	})
	if err != nil {
		return nil, fmt.Errorf("encode registration data: %w", err)
	}
	return raw, nil
}

func aliasedString(doc map[string]any, key string) string {
	for _, alias := range registrationDataAliases[key] {
		value, ok := doc[alias]
		if !ok || value == nil {
			continue
		}
		switch v := value.(type) {
		case string:
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				return trimmed
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

func aliasedInt(doc map[string]any, key string) (int, error) {
	for _, alias := range registrationDataAliases[key] {
		value, ok := doc[alias]
		if !ok || value == nil {
			continue
		}
		switch v := value.(type) {
		case float64:
			return int(v), nil
		case string:
			trimmed := strings.TrimSpace(v)
			if trimmed == "" {
				continue
			}
			parsed, err := strconv.Atoi(trimmed)
			if err != nil {
				return 0, fmt.Errorf("decode registration data %s=%q: %w", alias, v, err)
			}
			return parsed, nil
		}
	}
	return 0, nil
}
