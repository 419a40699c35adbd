package model

import "strings"

// Subcategory groups links inside a Category.
type Subcategory struct {
	ID    string `json:"id" yaml:"id" validate:"required"`
	Title string `json:"title" yaml:"title" validate:"notblank"`
	Icon  string `json:"icon,omitempty" yaml:"icon,omitempty"`
	Links []Link `json:"links" yaml:"links" validate:"dive"`
}

// Category is a top-level group holding subcategories and direct links.
type Category struct {
	ID            string        `json:"id" yaml:"id" validate:"required"`
	Title         string        `json:"title" yaml:"title" validate:"notblank"`
	Icon          string        `json:"icon,omitempty" yaml:"icon,omitempty"`
	Subcategories []Subcategory `json:"subcategories" yaml:"subcategories" validate:"dive"`
	Links         []Link        `json:"links" yaml:"links" validate:"dive"`
}

// NewCategory creates an empty Category with a generated ID.
func NewCategory(title string) Category {
	return Category{
		ID:            GenerateID(),
		Title:         strings.TrimSpace(title),
		Subcategories: []Subcategory{},
		Links:         []Link{},
	}
}

// NewSubcategory creates an empty Subcategory with a generated ID.
func NewSubcategory(title string) Subcategory {
	return Subcategory{
		ID:    GenerateID(),
		Title: strings.TrimSpace(title),
		Links: []Link{},
	}
}
