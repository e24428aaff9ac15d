package entity

// Category groups products. ParentID may point at any category, cycles included.
type Category struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	ParentID    *int64  `json:"parentId,omitempty"`
	Image       *string `json:"image,omitempty"`
}
