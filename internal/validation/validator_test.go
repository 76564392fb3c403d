package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

type sampleRequest struct {
	Name   string   `json:"name" validate:"required"`
	Kind   string   `json:"kind" validate:"omitempty,oneof=a b"`
	Lat    *float64 `json:"lat" validate:"omitempty,latitude"`
	Radius *float64 `json:"radius" validate:"omitempty,gte=500,lte=10000"`
}

func ptr(f float64) *float64 { return &f }

func TestStruct_Valid(t *testing.T) {
	v := New()
	if errs := v.Struct(sampleRequest{Name: "x", Kind: "a", Lat: ptr(10), Radius: ptr(3000)}); errs != nil {
		t.Errorf("expected no errors, got %+v", errs)
	}
}

func TestStruct_JSONFieldNames(t *testing.T) {
	v := New()
	errs := v.Struct(sampleRequest{Kind: "c", Lat: ptr(91), Radius: ptr(100)})

	want := map[string]string{
		"name":   "Name is required",
		"kind":   "Kind must be one of: a b",
		"lat":    "Lat must be a valid latitude (-90 to 90)",
		"radius": "Radius must be greater than or equal to 500",
	}
	if len(errs) != len(want) {
		t.Fatalf("expected %d errors, got %+v", len(want), errs)
	}
	for _, fe := range errs {
		if want[fe.Field] != fe.Message {
			t.Errorf("%s: expected %q, got %q", fe.Field, want[fe.Field], fe.Message)
		}
	}
}

func TestRegisterRule(t *testing.T) {
	v := New()
	v.RegisterRule(func(sl validator.StructLevel) {
		r := sl.Current().Interface().(sampleRequest)
		if r.Kind == "b" && r.Lat == nil {
			sl.ReportError(r.Kind, "kind", "Kind", "kind_b_location", "")
		}
	}, map[string]string{"kind_b_location": "lat is required when kind is 'b'"}, sampleRequest{})

	errs := v.Struct(sampleRequest{Name: "x", Kind: "b"})
	if len(errs) != 1 || errs[0].Field != "kind" || errs[0].Message != "lat is required when kind is 'b'" {
		t.Errorf("unexpected errors: %+v", errs)
	}
}

func TestCapitalize(t *testing.T) {
	if capitalize("category") != "Category" || capitalize("") != "" {
		t.Error("capitalize failed")
	}
}
