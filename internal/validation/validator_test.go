// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

package validation

import (
	"strings"
	"testing"
)

type feedbackBody struct {
	SessionID string `json:"sessionId" validate:"sessionid"`
	Feedback  string `json:"feedback" validate:"required,oneof=like reject"`
}

type recommendBody struct {
	SessionID string `json:"sessionId" validate:"sessionid"`
	Limit     int    `json:"limit,omitempty" validate:"omitempty,min=1,max=20"`
	Notes     string `json:"notes" validate:"max=10"`
	Internal  string `json:"-" validate:"required"`
}

func TestGetValidator_Singleton(t *testing.T) {
	t.Parallel()

	v1, v2 := GetValidator(), GetValidator()
	if v1 == nil || v1 != v2 {
		t.Error("GetValidator() should return one shared instance")
	}
}

func TestValidateStruct_Valid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input feedbackBody
	}{
		{"like", feedbackBody{SessionID: "session-1", Feedback: "like"}},
		{"reject", feedbackBody{SessionID: "3f9a2c1e-77b0-4c", Feedback: "reject"}},
		{"max length id", feedbackBody{SessionID: strings.Repeat("a", MaxSessionIDLength), Feedback: "like"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := ValidateStruct(&tt.input); err != nil {
				t.Errorf("ValidateStruct() = %v, want nil", err)
			}
		})
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     feedbackBody
		wantField string
		wantTag   string
		wantMsg   string
	}{
		{
			name:      "missing session",
			input:     feedbackBody{Feedback: "like"},
			wantField: "sessionId",
			wantTag:   "sessionid",
			wantMsg:   "sessionId must be 1-128 printable characters",
		},
		{
			name:      "blank session",
			input:     feedbackBody{SessionID: "   ", Feedback: "like"},
			wantField: "sessionId",
			wantTag:   "sessionid",
		},
		{
			name:      "padded session",
			input:     feedbackBody{SessionID: " abc ", Feedback: "like"},
			wantField: "sessionId",
			wantTag:   "sessionid",
		},
		{
			name:      "control character",
			input:     feedbackBody{SessionID: "abc\x00", Feedback: "like"},
			wantField: "sessionId",
			wantTag:   "sessionid",
		},
		{
			name:      "session too long",
			input:     feedbackBody{SessionID: strings.Repeat("a", MaxSessionIDLength+1), Feedback: "like"},
			wantField: "sessionId",
			wantTag:   "sessionid",
		},
		{
			name:      "missing feedback",
			input:     feedbackBody{SessionID: "s1"},
			wantField: "feedback",
			wantTag:   "required",
			wantMsg:   "feedback is required",
		},
		{
			name:      "unknown feedback",
			input:     feedbackBody{SessionID: "s1", Feedback: "love"},
			wantField: "feedback",
			wantTag:   "oneof",
			wantMsg:   "feedback must be one of: like reject",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			verr := ValidateStruct(&tt.input)
			if verr == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			errs := verr.Errors()
			if len(errs) != 1 {
				t.Fatalf("got %d errors, want 1: %v", len(errs), verr)
			}
			if errs[0].Field() != tt.wantField || errs[0].Tag() != tt.wantTag {
				t.Errorf("error = %s/%s, want %s/%s", errs[0].Field(), errs[0].Tag(), tt.wantField, tt.wantTag)
			}
			if tt.wantMsg != "" && !strings.Contains(errs[0].Error(), tt.wantMsg) {
				t.Errorf("message = %q, want it to contain %q", errs[0].Error(), tt.wantMsg)
			}
		})
	}
}

func TestValidateStruct_MinMaxMessages(t *testing.T) {
	t.Parallel()

	verr := ValidateStruct(&recommendBody{SessionID: "s1", Limit: 50, Notes: "far too many characters", Internal: "x"})
	if verr == nil {
		t.Fatal("ValidateStruct() = nil, want error")
	}

	got := map[string]string{}
	for _, e := range verr.Errors() {
		got[e.Field()] = e.Error()
	}
	if got["limit"] != "limit must be at most 20" {
		t.Errorf("limit message = %q", got["limit"])
	}
	if got["notes"] != "notes must be at most 10 characters" {
		t.Errorf("notes message = %q", got["notes"])
	}
}

func TestValidateStruct_IgnoredJSONFieldUsesEmptyName(t *testing.T) {
	t.Parallel()

	verr := ValidateStruct(&recommendBody{SessionID: "s1"})
	if verr == nil {
		t.Fatal("ValidateStruct() = nil, want error")
	}
	if errs := verr.Errors(); len(errs) != 1 || errs[0].Tag() != "required" {
		t.Errorf("errors = %v", verr)
	}
}

func TestToAPIError_Single(t *testing.T) {
	t.Parallel()

	verr := ValidateStruct(&feedbackBody{SessionID: "s1", Feedback: "maybe"})
	if verr == nil {
		t.Fatal("expected validation error")
	}

	apiErr := verr.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q", apiErr.Code)
	}
	if apiErr.Details["field"] != "feedback" || apiErr.Details["tag"] != "oneof" {
		t.Errorf("Details = %v", apiErr.Details)
	}
}

func TestToAPIError_Multiple(t *testing.T) {
	t.Parallel()

	verr := ValidateStruct(&feedbackBody{})
	if verr == nil {
		t.Fatal("expected validation error")
	}

	apiErr := verr.ToAPIError()
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok || len(fields) != 2 {
		t.Fatalf("Details[fields] = %v", apiErr.Details["fields"])
	}
	if !strings.Contains(apiErr.Message, "; ") {
		t.Errorf("Message = %q, want joined messages", apiErr.Message)
	}
	if verr.Error() != apiErr.Message {
		t.Errorf("Error() = %q, Message = %q", verr.Error(), apiErr.Message)
	}
}

func TestRequestValidationError_Empty(t *testing.T) {
	t.Parallel()

	var verr RequestValidationError
	if verr.Error() != "validation failed" {
		t.Errorf("Error() = %q", verr.Error())
	}
	if apiErr := verr.ToAPIError(); apiErr.Code != "VALIDATION_ERROR" || apiErr.Details != nil {
		t.Errorf("ToAPIError() = %+v", apiErr)
	}
}
