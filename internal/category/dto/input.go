package dto

type CreateCategoryInput struct {
	Slug        string // Generated from Name when empty
	Name        string
	Description string
	ImageURL    string
}
