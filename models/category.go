package models

import "time"

type Category struct {
	ID            int        `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	ImageURL      string     `json:"image_url"`
	ParentID      *int       `json:"parent_id,omitempty"`
	IsActive      bool       `json:"is_active"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	SubCategories []Category `json:"sub_categories,omitempty"`
}

func (c Category) IsRoot() bool {
	return c.ParentID == nil
}

// BuildCategoryTree nests categories under their parents and returns the
// roots in input order. Children whose parent is not in the list are dropped.
func BuildCategoryTree(categories []Category) []Category {
	children := make(map[int][]Category)
	for _, c := range categories {
		if c.ParentID != nil {
			children[*c.ParentID] = append(children[*c.ParentID], c)
		}
	}

	var attach func(c Category, depth int) Category
	attach = func(c Category, depth int) Category {
		if depth > 8 {
			return c
		}
		for _, child := range children[c.ID] {
			c.SubCategories = append(c.SubCategories, attach(child, depth+1))
		}
		return c
	}

	roots := []Category{}
	for _, c := range categories {
		if c.IsRoot() {
			roots = append(roots, attach(c, 0))
		}
	}
	return roots
}
