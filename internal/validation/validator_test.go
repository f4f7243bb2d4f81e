// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package validation

import (
	"strings"
	"testing"
)

type sampleRequest struct {
	UserID  *int   `json:"user_id" validate:"required,gte=0"`
	History []int  `json:"history" validate:"max=3,dive,gte=0"`
	N       int    `json:"n,omitempty" validate:"gte=1,lte=100"`
	Tier    string `query:"tier" validate:"omitempty,oneof=cold_start moderate active"`
	Note    string `json:"note" validate:"max=4"`
	Hidden  int    `json:"-" validate:"gte=0"`
}

func intPtr(v int) *int { return &v }

func TestGetValidator_Singleton(t *testing.T) {
	t.Parallel()

	if GetValidator() != GetValidator() {
		t.Error("GetValidator() returned different instances")
	}
}

func TestValidateStruct(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      sampleRequest
		wantFields []string
		wantMsg    string
	}{
		{
			name:  "valid",
			input: sampleRequest{UserID: intPtr(0), History: []int{1, 2}, N: 10},
		},
		{
			name:       "missing user id",
			input:      sampleRequest{N: 5},
			wantFields: []string{"user_id"},
			wantMsg:    "user_id is required",
		},
		{
			name:       "negative user id",
			input:      sampleRequest{UserID: intPtr(-1), N: 5},
			wantFields: []string{"user_id"},
			wantMsg:    "user_id must be greater than or equal to 0",
		},
		{
			name:       "n out of range",
			input:      sampleRequest{UserID: intPtr(1), N: 101},
			wantFields: []string{"n"},
			wantMsg:    "n must be less than or equal to 100",
		},
		{
			name:       "negative history entry",
			input:      sampleRequest{UserID: intPtr(1), N: 1, History: []int{4, -2}},
			wantFields: []string{"history[1]"},
		},
		{
			name:       "history too long",
			input:      sampleRequest{UserID: intPtr(1), N: 1, History: []int{1, 2, 3, 4}},
			wantFields: []string{"history"},
			wantMsg:    "history must be at most 3 items",
		},
		{
			name:       "query tag name",
			input:      sampleRequest{UserID: intPtr(1), N: 1, Tier: "dormant"},
			wantFields: []string{"tier"},
			wantMsg:    "tier must be one of: cold_start moderate active",
		},
		{
			name:       "string length",
			input:      sampleRequest{UserID: intPtr(1), N: 1, Note: "too long"},
			wantFields: []string{"note"},
			wantMsg:    "note must be at most 4 characters",
		},
		{
			name:       "multiple failures",
			input:      sampleRequest{UserID: intPtr(-3), N: 0},
			wantFields: []string{"user_id", "n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			verr := ValidateStruct(&tt.input)
			if len(tt.wantFields) == 0 {
				if verr != nil {
					t.Fatalf("ValidateStruct() = %v, want nil", verr)
				}
				return
			}
			if verr == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}

			fields := verr.Fields()
			if len(fields) != len(tt.wantFields) {
				t.Fatalf("got %d field errors (%v), want %d", len(fields), fields, len(tt.wantFields))
			}
			for i, want := range tt.wantFields {
				if fields[i].Field != want {
					t.Errorf("fields[%d].Field = %q, want %q", i, fields[i].Field, want)
				}
			}
			if tt.wantMsg != "" && fields[0].Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", fields[0].Message, tt.wantMsg)
			}
		})
	}
}

func TestRequestValidationError_Rendering(t *testing.T) {
	t.Parallel()

	verr := ValidateStruct(&sampleRequest{UserID: intPtr(-1), N: 0})
	if verr == nil {
		t.Fatal("ValidateStruct() = nil, want error")
	}

	msg := verr.Error()
	if !strings.Contains(msg, "user_id") || !strings.Contains(msg, "; ") {
		t.Errorf("Error() = %q, want joined field messages", msg)
	}

	details := verr.Details()
	fields, ok := details["fields"].([]FieldError)
	if !ok || len(fields) != 2 {
		t.Errorf("Details()[fields] = %v, want 2 FieldError values", details["fields"])
	}

	var empty RequestValidationError
	if empty.Error() != "validation failed" {
		t.Errorf("empty Error() = %q", empty.Error())
	}
}
