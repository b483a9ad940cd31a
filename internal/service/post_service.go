package service

import (
	"context"
	"fmt"
	"unicode/utf8"

	"pocaswap-api/internal/config"
	"pocaswap-api/internal/core"
	"pocaswap-api/internal/errs"
	"pocaswap-api/internal/models"
	"pocaswap-api/internal/validation"

	"github.com/rs/zerolog"
)

type PostService struct {
	repo   core.PostRepository
	cards  core.CardRepository
	quota  core.QuotaService
	config *config.Config
	logger zerolog.Logger
	now    clock
}

func NewPostService(repo core.PostRepository, cards core.CardRepository, quota core.QuotaService, cfg *config.Config, logger zerolog.Logger) *PostService {
	return &PostService{repo: repo, cards: cards, quota: quota, config: cfg, logger: logger, now: utcNow}
}

func checkPrice(kind models.PostKind, price *int64) error {
	if price == nil {
		return nil
	}
	if !kind.HasPrice() {
		return fmt.Errorf("%w: only sell and buy posts carry a price", errs.ErrInvalidInput)
	}
	if *price < 0 {
		return fmt.Errorf("%w: price must not be negative", errs.ErrInvalidInput)
	}
	return nil
}

func (s *PostService) Create(ctx context.Context, authorID string, req models.CreatePostRequest) (*models.Post, error) {
	if err := checkPrice(req.Kind, req.Price); err != nil {
		return nil, err
	}
	if (req.Latitude == nil) != (req.Longitude == nil) {
		return nil, fmt.Errorf("%w: latitude and longitude go together", errs.ErrInvalidInput)
	}
	if len(req.ImageURLs) > models.MaxPostImages {
		return nil, fmt.Errorf("%w: at most %d images", errs.ErrInvalidInput, models.MaxPostImages)
	}
	if req.CardID != nil {
		card, err := s.cards.GetByID(ctx, *req.CardID)
		if err != nil {
			return nil, err
		}
		if card.OwnerID != authorID {
			return nil, fmt.Errorf("%w: you can only post your own cards", errs.ErrForbidden)
		}
	}

	title := validation.SanitizeString(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", errs.ErrInvalidInput)
	}

	now := s.now()
	post := &models.Post{
		ID:        newID(),
		AuthorID:  authorID,
		Kind:      req.Kind,
		Title:     title,
		Content:   validation.SanitizeString(req.Content),
		Price:     req.Price,
		CardID:    req.CardID,
		ImageURLs: req.ImageURLs,
		GroupName: validation.SanitizeString(req.GroupName),
		Status:    models.PostActive,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if post.ImageURLs == nil {
		post.ImageURLs = []string{}
	}

	if err := s.repo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Get returns a post and counts a view unless the author is looking.
func (s *PostService) Get(ctx context.Context, viewerID, id string) (*models.Post, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if viewerID != post.AuthorID {
		if err := s.repo.IncrementViews(ctx, id); err != nil {
			s.logger.Warn().Err(err).Str("post_id", id).Msg("Failed to count post view")
		} else {
			post.ViewCount++
		}
	}
	return post, nil
}

func (s *PostService) authored(ctx context.Context, userID, id string) (*models.Post, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != userID {
		return nil, fmt.Errorf("%w: not the author of this post", errs.ErrForbidden)
	}
	return post, nil
}

func (s *PostService) Update(ctx context.Context, userID, id string, req models.UpdatePostRequest) (*models.Post, error) {
	post, err := s.authored(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if post.Status == models.PostClosed {
		return nil, fmt.Errorf("%w: closed posts cannot be edited", errs.ErrInvalidTransition)
	}
	if err := checkPrice(post.Kind, req.Price); err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := validation.SanitizeString(*req.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title is required", errs.ErrInvalidInput)
		}
		post.Title = title
	}
	if req.Content != nil {
		post.Content = validation.SanitizeString(*req.Content)
	}
	if req.Price != nil {
		post.Price = req.Price
	}
	if req.ImageURLs != nil {
		if len(req.ImageURLs) > models.MaxPostImages {
			return nil, fmt.Errorf("%w: at most %d images", errs.ErrInvalidInput, models.MaxPostImages)
		}
		post.ImageURLs = req.ImageURLs
	}
	if req.GroupName != nil {
		post.GroupName = validation.SanitizeString(*req.GroupName)
	}

	post.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) UpdateStatus(ctx context.Context, userID, id string, status models.PostStatus) (*models.Post, error) {
	post, err := s.authored(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !post.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s post cannot go from %s to %s", errs.ErrInvalidTransition, post.Kind, post.Status, status)
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	post.Status = status
	post.UpdatedAt = s.now()
	return post, nil
}

func (s *PostService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.authored(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *PostService) List(ctx context.Context, filter models.PostFilter) ([]models.Post, *models.PaginationMetadata, error) {
	filter.Page, filter.Limit = models.NormalizePage(filter.Page, filter.Limit)
	filter.Query = validation.SanitizeString(filter.Query)

	posts, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	return posts, models.NewPagination(filter.Page, filter.Limit, total), nil
}

// SearchNearby shares the daily nearby quota with the user search.
func (s *PostService) SearchNearby(ctx context.Context, userID string, q models.NearbyQuery) ([]models.NearbyPost, *models.QuotaStatus, error) {
	q, err := validateNearby(q, s.config.NearbyMaxRadiusKm)
	if err != nil {
		return nil, nil, err
	}

	status, err := s.quota.Consume(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	posts, err := s.repo.FindNearby(ctx, q)
	if err != nil {
		return nil, nil, err
	}
	return posts, status, nil
}

func (s *PostService) ToggleLike(ctx context.Context, userID, postID string) (*models.LikeResult, error) {
	if _, err := s.repo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.repo.ToggleLike(ctx, postID, userID)
}

func (s *PostService) AddComment(ctx context.Context, userID, postID string, req models.CreateCommentRequest) (*models.Comment, error) {
	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.Status == models.PostClosed {
		return nil, fmt.Errorf("%w: post is closed", errs.ErrInvalidTransition)
	}

	content := validation.SanitizeString(req.Content)
	if n := utf8.RuneCountInString(content); n < 1 || n > 500 {
		return nil, fmt.Errorf("%w: comment must be 1-500 characters", errs.ErrInvalidInput)
	}

	comment := &models.Comment{
		ID:        newID(),
		PostID:    postID,
		AuthorID:  userID,
		Content:   content,
		CreatedAt: s.now(),
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *PostService) ListComments(ctx context.Context, postID string, page, limit int) ([]models.Comment, *models.PaginationMetadata, error) {
	if _, err := s.repo.GetByID(ctx, postID); err != nil {
		return nil, nil, err
	}
	page, limit = models.NormalizePage(page, limit)
	comments, total, err := s.repo.ListComments(ctx, postID, limit, models.Offset(page, limit))
	if err != nil {
		return nil, nil, err
	}
	return comments, models.NewPagination(page, limit, total), nil
}

// DeleteComment is allowed for the comment author and the post author.
func (s *PostService) DeleteComment(ctx context.Context, userID, commentID string) error {
	comment, err := s.repo.GetComment(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.AuthorID != userID {
		post, err := s.repo.GetByID(ctx, comment.PostID)
		if err != nil {
			return err
		}
		if post.AuthorID != userID {
			return fmt.Errorf("%w: cannot delete this comment", errs.ErrForbidden)
		}
	}
	return s.repo.DeleteComment(ctx, comment)
}
