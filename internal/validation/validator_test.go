// PlexIntel - Recommendation Client for Plex
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexintel

package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 == nil {
		t.Fatal("GetValidator() should not return nil")
	}
	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
}

type row struct {
	RatingKey   int     `json:"rating_key" validate:"required,gt=0"`
	MediaType   string  `json:"media_type" validate:"required,oneof=movie show season episode"`
	Probability float64 `json:"predicted_probability" validate:"gte=0,lte=1"`
	Title       string  `json:"title" validate:"required"`
}

type settings struct {
	BaseURL string `koanf:"base_url" validate:"required,http_url"`
	Ignored string `json:"-" validate:"omitempty,min=2"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name      string
		input     any
		wantErr   bool
		wantField string
		wantMsg   string
	}{
		{
			name:  "valid episode row",
			input: &row{RatingKey: 10, MediaType: "episode", Probability: 0.5, Title: "Pilot"},
		},
		{
			name:      "missing rating key",
			input:     &row{MediaType: "movie", Probability: 0.5, Title: "Heat"},
			wantErr:   true,
			wantField: "rating_key",
			wantMsg:   "rating_key is required",
		},
		{
			name:      "unknown media type",
			input:     &row{RatingKey: 1, MediaType: "album", Probability: 0.5, Title: "Heat"},
			wantErr:   true,
			wantField: "media_type",
			wantMsg:   "media_type must be one of: movie show season episode",
		},
		{
			name:      "probability above one",
			input:     &row{RatingKey: 1, MediaType: "movie", Probability: 1.2, Title: "Heat"},
			wantErr:   true,
			wantField: "predicted_probability",
			wantMsg:   "predicted_probability must be less than or equal to 1",
		},
		{
			name:      "missing title",
			input:     &row{RatingKey: 1, MediaType: "movie", Probability: 0.1},
			wantErr:   true,
			wantField: "title",
			wantMsg:   "title is required",
		},
		{
			name:      "koanf tag names config fields",
			input:     &settings{BaseURL: "not a url"},
			wantErr:   true,
			wantField: "base_url",
			wantMsg:   "base_url must be a valid http(s) URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateStruct() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				return
			}

			var sve *StructValidationError
			if !errors.As(err, &sve) {
				t.Fatalf("expected *StructValidationError, got %T", err)
			}
			if len(sve.Fields) == 0 {
				t.Fatal("expected at least one field error")
			}
			first := sve.Fields[0]
			if first.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", first.Field, tt.wantField)
			}
			if tt.wantMsg != "" && first.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", first.Message, tt.wantMsg)
			}
		})
	}
}

func TestStructValidationError_JoinsMessages(t *testing.T) {
	err := ValidateStruct(&row{MediaType: "album", Probability: -1, Title: "x"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if got := strings.Count(err.Error(), ";"); got != 2 {
		t.Errorf("expected three joined messages, got %q", err.Error())
	}
}
