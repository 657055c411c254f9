package repository

import "time"

// PostListFilter list and search criteria. All set fields must match.
type PostListFilter struct {
	Page       int
	PageSize   int
	Title      string
	Author     string
	DateAfter  *time.Time
	CategoryID uint
	PostType   string
	AuthorID   uint
}

// UserListFilter admin user listing.
type UserListFilter struct {
	Page     int
	PageSize int
	Keyword  string
	Role     string
	Status   string
}

// SubscriptionListFilter admin subscription listing.
type SubscriptionListFilter struct {
	Page       int
	PageSize   int
	UserID     uint
	CategoryID uint
}
