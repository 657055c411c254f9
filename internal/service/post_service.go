package service

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/newsportal/internal/authz"
	"github.com/newsportal/internal/constants"
	"github.com/newsportal/internal/metrics"
	"github.com/newsportal/internal/models"
	"github.com/newsportal/internal/repository"
)

const searchDateLayout = "2006-01-02"

// PostService lists, searches and mutates posts.
type PostService struct {
	repo         repository.PostRepository
	categoryRepo repository.CategoryRepository
	pageSize     int
	location     *time.Location
}

// NewPostService creates the service. pageSize <= 0 uses the default of 10.
func NewPostService(repo repository.PostRepository, categoryRepo repository.CategoryRepository, pageSize int) *PostService {
	if pageSize <= 0 {
		pageSize = constants.DefaultNewsPageSize
	}
	return &PostService{
		repo:         repo,
		categoryRepo: categoryRepo,
		pageSize:     pageSize,
		location:     time.Local,
	}
}

// PageSize is the fixed size of list and search pages.
func (s *PostService) PageSize() int {
	return s.pageSize
}

// SearchInput holds the raw search form. Empty fields are ignored.
type SearchInput struct {
	Title     string
	Author    string
	DateAfter string
	Page      int
}

// CreatePostInput is the post form. PostType comes from the route.
type CreatePostInput struct {
	Title       string
	Content     string
	PostType    string
	CategoryIDs []uint
}

// UpdatePostInput is the edit form. A nil CategoryIDs keeps the categories.
type UpdatePostInput struct {
	Title       string
	Content     string
	PostType    string
	CategoryIDs *[]uint
}

// PostCreatedEvent is returned by Create for the dispatcher.
type PostCreatedEvent struct {
	PostID      uint
	PostType    string
	AuthorID    uint
	CategoryIDs []uint
	OccurredAt  time.Time
}

// List returns a page of posts, newest first.
func (s *PostService) List(page int) ([]models.Post, int64, error) {
	return s.repo.List(repository.PostListFilter{
		Page:     normalizePage(page),
		PageSize: s.pageSize,
	})
}

// Search applies every non-empty filter. An unparseable date is reported, not ignored.
func (s *PostService) Search(input SearchInput) ([]models.Post, int64, error) {
	filter := repository.PostListFilter{
		Page:     normalizePage(input.Page),
		PageSize: s.pageSize,
		Title:    strings.TrimSpace(input.Title),
		Author:   strings.TrimSpace(input.Author),
	}
	if raw := strings.TrimSpace(input.DateAfter); raw != "" {
		date, err := time.ParseInLocation(searchDateLayout, raw, s.location)
		if err != nil {
			return nil, 0, ErrInvalidSearchDate
		}
		filter.DateAfter = &date
	}
	return s.repo.List(filter)
}

// Get returns one post or ErrPostNotFound.
func (s *PostService) Get(id uint) (*models.Post, error) {
	if id == 0 {
		return nil, ErrPostNotFound
	}
	post, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

// Create publishes a post authored by actor.
func (s *PostService) Create(actor authz.Principal, input CreatePostInput) (*models.Post, PostCreatedEvent, error) {
	if err := checkDecision(actor, authz.ActionCreate, authz.Resource{}); err != nil {
		return nil, PostCreatedEvent{}, err
	}
	title, content, postType, err := validatePostForm(input.Title, input.Content, input.PostType)
	if err != nil {
		return nil, PostCreatedEvent{}, err
	}
	categoryIDs, err := s.resolveCategoryIDs(input.CategoryIDs)
	if err != nil {
		return nil, PostCreatedEvent{}, err
	}

	authorID := actor.UserID
	post := &models.Post{
		Title:    title,
		Content:  content,
		PostType: postType,
		PubDate:  time.Now(),
		AuthorID: &authorID,
	}
	if err := s.repo.Create(post, categoryIDs); err != nil {
		return nil, PostCreatedEvent{}, err
	}
	metrics.RecordPostCreated(post.PostType)

	event := PostCreatedEvent{
		PostID:      post.ID,
		PostType:    post.PostType,
		AuthorID:    authorID,
		CategoryIDs: categoryIDs,
		OccurredAt:  post.PubDate,
	}
	return post, event, nil
}

// Update edits the form fields of a post owned by actor.
func (s *PostService) Update(actor authz.Principal, id uint, input UpdatePostInput) (*models.Post, error) {
	post, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := checkDecision(actor, authz.ActionChange, authz.Resource{AuthorID: post.AuthorID}); err != nil {
		return nil, err
	}
	postType := input.PostType
	if strings.TrimSpace(postType) == "" {
		postType = post.PostType
	}
	title, content, postType, err := validatePostForm(input.Title, input.Content, postType)
	if err != nil {
		return nil, err
	}
	var categoryIDs *[]uint
	if input.CategoryIDs != nil {
		resolved, err := s.resolveCategoryIDs(*input.CategoryIDs)
		if err != nil {
			return nil, err
		}
		categoryIDs = &resolved
	}

	post.Title = title
	post.Content = content
	post.PostType = postType
	if err := s.repo.Update(post, categoryIDs); err != nil {
		return nil, err
	}
	return s.Get(post.ID)
}

// Delete removes a post owned by actor. It cannot be undone.
func (s *PostService) Delete(actor authz.Principal, id uint) error {
	post, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := checkDecision(actor, authz.ActionDelete, authz.Resource{AuthorID: post.AuthorID}); err != nil {
		return err
	}
	return s.repo.Delete(post.ID)
}

func (s *PostService) resolveCategoryIDs(ids []uint) ([]uint, error) {
	unique := make([]uint, 0, len(ids))
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if id == 0 {
			return nil, ErrCategoryNotFound
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	if len(unique) == 0 {
		return unique, nil
	}
	categories, err := s.categoryRepo.ListByIDs(unique)
	if err != nil {
		return nil, err
	}
	if len(categories) != len(unique) {
		return nil, ErrCategoryNotFound
	}
	return unique, nil
}

func checkDecision(actor authz.Principal, action authz.Action, resource authz.Resource) error {
	decision := authz.Decide(actor, action, resource)
	if decision.Allowed {
		return nil
	}
	return &PermissionError{Action: string(action), Reason: decision.Reason}
}

func validatePostForm(title, content, postType string) (string, string, string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", "", "", ErrPostTitleRequired
	}
	if utf8.RuneCountInString(title) > constants.PostTitleMaxLength {
		return "", "", "", ErrPostTitleTooLong
	}
	if strings.TrimSpace(content) == "" {
		return "", "", "", ErrPostContentRequired
	}
	postType = strings.ToLower(strings.TrimSpace(postType))
	if postType == "" {
		postType = constants.PostTypeNews
	}
	if !isAllowedPostType(postType) {
		return "", "", "", ErrInvalidPostType
	}
	return title, content, postType, nil
}

func isAllowedPostType(postType string) bool {
	return postType == constants.PostTypeNews || postType == constants.PostTypeArticle
}

func normalizePage(page int) int {
	if page <= 0 {
		return 1
	}
	return page
}
