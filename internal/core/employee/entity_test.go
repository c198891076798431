package employee

import "testing"

func TestEmployee_Labels(t *testing.T) {
	t.Parallel()

	full := &Employee{
		DepartmentName: "Eng",
		Position:       "Lead",
		Role:           "Engineer",
		IsActive:       true,
		User:           &UserSnapshot{FirstName: "Taro", LastName: "Yamada", Email: "taro@example.com", Phone: "090"},
	}
	if full.DisplayName() != "Taro Yamada" || full.EmailLabel() != "taro@example.com" || full.PhoneLabel() != "090" {
		t.Fatalf("unexpected user labels: %s %s %s", full.DisplayName(), full.EmailLabel(), full.PhoneLabel())
	}
	if full.DepartmentLabel() != "Eng" || full.PositionLabel() != "Lead" || full.StatusLabel() != "Active" {
		t.Fatalf("unexpected labels: %s %s %s", full.DepartmentLabel(), full.PositionLabel(), full.StatusLabel())
	}

	bare := &Employee{}
	if bare.DisplayName() != "N/A" || bare.EmailLabel() != "N/A" || bare.PhoneLabel() != "N/A" {
		t.Fatalf("expected N/A fallbacks, got %s %s %s", bare.DisplayName(), bare.EmailLabel(), bare.PhoneLabel())
	}
	if bare.DepartmentLabel() != "No Department" || bare.PositionLabel() != "N/A" || bare.StatusLabel() != "Inactive" {
		t.Fatalf("unexpected fallbacks: %s %s %s", bare.DepartmentLabel(), bare.PositionLabel(), bare.StatusLabel())
	}

	roleOnly := &Employee{Role: "Manager"}
	if roleOnly.PositionLabel() != "Manager" {
		t.Fatalf("expected role fallback, got %s", roleOnly.PositionLabel())
	}
}
