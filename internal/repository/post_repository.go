package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/newsportal/internal/models"

	"gorm.io/gorm"
)

// PostRepository post data access.
type PostRepository interface {
	List(filter PostListFilter) ([]models.Post, int64, error)
	GetByID(id uint) (*models.Post, error)
	Create(post *models.Post, categoryIDs []uint) error
	Update(post *models.Post, categoryIDs *[]uint) error
	Delete(id uint) error
	ListPublishedSince(categoryID uint, since time.Time) ([]models.Post, error)
	CategoryIDs(postID uint) ([]uint, error)
	WithTx(tx *gorm.DB) PostRepository
}

// GormPostRepository GORM implementation.
type GormPostRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a post repository.
func NewPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormPostRepository) WithTx(tx *gorm.DB) PostRepository {
	if tx == nil {
		return r
	}
	return &GormPostRepository{db: tx}
}

func (r *GormPostRepository) withRelations(query *gorm.DB) *gorm.DB {
	return query.Preload("Author").Preload("Categories", func(db *gorm.DB) *gorm.DB {
		return db.Order("categories.name ASC")
	})
}

// List returns a page of posts, newest first.
func (r *GormPostRepository) List(filter PostListFilter) ([]models.Post, int64, error) {
	query := r.db.Model(&models.Post{})

	if title := strings.TrimSpace(filter.Title); title != "" {
		query = query.Where(containsCondition(r.db, "posts.title"), containsArg(title))
	}
	if author := strings.TrimSpace(filter.Author); author != "" {
		query = query.Joins("JOIN users ON users.id = posts.author_id").
			Where(containsCondition(r.db, "users.username"), containsArg(author))
	}
	if filter.DateAfter != nil {
		query = query.Where("posts.pub_date >= ?", *filter.DateAfter)
	}
	if filter.CategoryID != 0 {
		query = query.Where("EXISTS (SELECT 1 FROM post_categories pc WHERE pc.post_id = posts.id AND pc.category_id = ?)", filter.CategoryID)
	}
	if filter.PostType != "" {
		query = query.Where("posts.post_type = ?", filter.PostType)
	}
	if filter.AuthorID != 0 {
		query = query.Where("posts.author_id = ?", filter.AuthorID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	posts := make([]models.Post, 0)
	if err := r.withRelations(query).
		Select("posts.*").
		Order("posts.pub_date DESC").
		Order("posts.id DESC").
		Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// GetByID loads a post with author and categories.
func (r *GormPostRepository) GetByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.withRelations(r.db).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// Create inserts the post and its category links in one transaction.
func (r *GormPostRepository) Create(post *models.Post, categoryIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Categories", "Author").Create(post).Error; err != nil {
			return err
		}
		if err := replacePostCategories(tx, post.ID, categoryIDs); err != nil {
			return err
		}
		return loadPostCategories(tx, post)
	})
}

// Update saves the editable fields; categoryIDs nil keeps the links.
func (r *GormPostRepository) Update(post *models.Post, categoryIDs *[]uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).Where("id = ?", post.ID).Updates(map[string]interface{}{
			"title":      post.Title,
			"content":    post.Content,
			"post_type":  post.PostType,
			"updated_at": time.Now(),
		}).Error; err != nil {
			return err
		}
		if categoryIDs == nil {
			return nil
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.PostCategory{}).Error; err != nil {
			return err
		}
		if err := replacePostCategories(tx, post.ID, *categoryIDs); err != nil {
			return err
		}
		return loadPostCategories(tx, post)
	})
}

// Delete removes the post and its category links.
func (r *GormPostRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.PostCategory{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
}

// ListPublishedSince returns the category's posts published at or after since, newest first.
func (r *GormPostRepository) ListPublishedSince(categoryID uint, since time.Time) ([]models.Post, error) {
	posts := make([]models.Post, 0)
	err := r.db.Model(&models.Post{}).
		Joins("JOIN post_categories pc ON pc.post_id = posts.id").
		Where("pc.category_id = ? AND posts.pub_date >= ?", categoryID, since).
		Preload("Author").
		Order("posts.pub_date DESC").
		Order("posts.id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// CategoryIDs returns the ids of the post's categories.
func (r *GormPostRepository) CategoryIDs(postID uint) ([]uint, error) {
	ids := make([]uint, 0)
	if err := r.db.Model(&models.PostCategory{}).
		Where("post_id = ?", postID).
		Order("category_id ASC").
		Pluck("category_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func replacePostCategories(tx *gorm.DB, postID uint, categoryIDs []uint) error {
	ids := uniqueIDs(categoryIDs)
	if len(ids) == 0 {
		return nil
	}
	links := make([]models.PostCategory, 0, len(ids))
	for _, id := range ids {
		links = append(links, models.PostCategory{PostID: postID, CategoryID: id})
	}
	return tx.Create(&links).Error
}

func loadPostCategories(tx *gorm.DB, post *models.Post) error {
	categories := make([]models.Category, 0)
	if err := tx.Model(&models.Category{}).
		Joins("JOIN post_categories pc ON pc.category_id = categories.id").
		Where("pc.post_id = ?", post.ID).
		Order("categories.name ASC").
		Find(&categories).Error; err != nil {
		return err
	}
	post.Categories = categories
	return nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	result := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
