package entity

import "time"

// Review is a product rating. At most one exists per (UserID, ProductID).
type Review struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	ProductID int64     `json:"productId"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ReviewView is a review joined with its author's public names.
type ReviewView struct {
	Review
	Username     string  `json:"username"`
	UserFullName *string `json:"userFullName,omitempty"`
}
