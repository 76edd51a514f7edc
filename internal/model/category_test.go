package model

import (
	"errors"
	"testing"
)

func TestCategoryValidate(t *testing.T) {
	cat := Category{ID: "work", Name: "Work", Color: "#4CAF50"}
	if err := cat.Validate(); err != nil {
		t.Fatalf("expected valid category, got error: %v", err)
	}

	cat.Color = "green"
	if err := cat.Validate(); !errors.Is(err, ErrInvalidColor) {
		t.Fatalf("expected ErrInvalidColor, got: %v", err)
	}

	cat = Category{ID: "x", Name: "  "}
	if err := cat.Validate(); err == nil {
		t.Fatal("expected error for blank name")
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Work":            "work",
		"Side  Projects":  "side-projects",
		"  Home Chores  ": "home-chores",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Fatalf("slugify %q: got %q, want %q", in, got, want)
		}
	}
}
