package model

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var ErrInvalidColor = errors.New("model: invalid category color")

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return errors.New("model: category id is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("model: category name is required")
	}
	if c.Color != "" && !hexColorPattern.MatchString(c.Color) {
		return fmt.Errorf("%w: %q", ErrInvalidColor, c.Color)
	}
	return nil
}

// Slugify derives a category id from its display name, lowercased with
// whitespace runs collapsed to single dashes.
func Slugify(name string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(name)))
	return strings.Join(fields, "-")
}

// DefaultCategories seeds a fresh install, matching the historical set.
func DefaultCategories() []Category {
	return []Category{
		{ID: "work", Name: "Work", Color: "#4CAF50"},
		{ID: "personal", Name: "Personal", Color: "#2196F3"},
		{ID: "urgent", Name: "Urgent", Color: "#F44336"},
	}
}
