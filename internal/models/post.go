package models

import (
	"strings"
	"time"

	"github.com/newsportal/internal/constants"

	"gorm.io/gorm"
)

// Post is a news item or an article.
type Post struct {
	ID         uint       `gorm:"primarykey" json:"id"`
	Title      string     `gorm:"type:varchar(200);not null" json:"title"`
	Content    string     `gorm:"type:text;not null" json:"content"`
	PubDate    time.Time  `gorm:"index;not null" json:"pub_date"`
	PostType   string     `gorm:"type:varchar(10);not null;default:'news';index" json:"post_type"`
	AuthorID   *uint      `gorm:"index" json:"author_id"`
	Author     *User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL" json:"author,omitempty"`
	Categories []Category `gorm:"many2many:post_categories;constraint:OnDelete:CASCADE" json:"categories"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// TableName posts
func (Post) TableName() string {
	return "posts"
}

// BeforeCreate fills pub_date and post_type defaults.
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.PubDate.IsZero() {
		p.PubDate = time.Now()
	}
	if strings.TrimSpace(p.PostType) == "" {
		p.PostType = constants.PostTypeNews
	}
	return nil
}

// IsAuthoredBy reports whether userID owns the post.
func (p *Post) IsAuthoredBy(userID uint) bool {
	return p != nil && p.AuthorID != nil && userID != 0 && *p.AuthorID == userID
}

// AuthorName is the author's display name, empty without an author.
func (p *Post) AuthorName() string {
	if p == nil || p.Author == nil {
		return ""
	}
	return p.Author.DisplayName()
}

// PostCategory links a post to a category.
type PostCategory struct {
	PostID     uint `gorm:"primaryKey;autoIncrement:false" json:"post_id"`
	CategoryID uint `gorm:"primaryKey;autoIncrement:false;index" json:"category_id"`
}

// TableName post_categories
func (PostCategory) TableName() string {
	return "post_categories"
}
