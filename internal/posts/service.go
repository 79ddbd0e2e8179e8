package posts

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// Service wraps post business rules: public reads, owner-gated
// mutations, and feed caching.
type Service struct {
	repo   Repository
	cache  *Cache
	logger *slog.Logger
	group  singleflight.Group
}

// NewService constructs a new Service.
func NewService(repo Repository, cache *Cache, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, logger: logger}
}

// Create persists a new post owned by the verified identity. There is
// nothing to compare ownership against yet, so no guard check runs.
func (s *Service) Create(ctx context.Context, ownerID int64, req CreateRequest) (*Post, error) {
	post, err := s.repo.Create(ctx, &Post{
		Title:    req.Title,
		Body:     req.Body,
		Tags:     req.Tags,
		ImageURL: req.ImageURL,
		OwnerID:  ownerID,
	})
	if err != nil {
		return nil, err
	}
	s.bump(ctx)
	return post, nil
}

// Get returns a single post and counts the view. Reads are public.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Post, error) {
	return s.repo.View(ctx, id)
}

// List returns the public feed, newest first, through the versioned
// cache. Concurrent rebuilds of the same feed collapse into one load.
func (s *Service) List(ctx context.Context) ([]Post, error) {
	key, err := s.cache.BuildKey(ctx, keyFeed())
	if err != nil {
		s.warn("build feed cache key", err)
		return s.repo.List(ctx)
	}
	var feed []Post
	err = s.cache.FetchJSON(ctx, key, &feed, func(ctx context.Context) (interface{}, error) {
		result, err, _ := s.singleflightList(ctx, key)
		return result, err
	})
	if err != nil {
		s.warn("fetch feed from cache", err)
		return s.repo.List(ctx)
	}
	return feed, nil
}

// Update mutates a post after the ownership check passes. The check runs
// against the stored owner, never a client-supplied claim, and the write
// follows it sequentially within this request.
func (s *Service) Update(ctx context.Context, userID int64, id uuid.UUID, req PatchRequest) (*Post, error) {
	post, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := AuthorizeMutation(userID, post); err != nil {
		return nil, err
	}
	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Body != nil {
		post.Body = *req.Body
	}
	if req.Tags != nil {
		post.Tags = *req.Tags
	}
	if req.ImageURL != nil {
		post.ImageURL = *req.ImageURL
	}
	updated, err := s.repo.Update(ctx, post)
	if err != nil {
		return nil, err
	}
	s.bump(ctx)
	return updated, nil
}

// Delete removes a post after the ownership check passes.
func (s *Service) Delete(ctx context.Context, userID int64, id uuid.UUID) error {
	post, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := AuthorizeMutation(userID, post); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.bump(ctx)
	return nil
}

func (s *Service) singleflightList(ctx context.Context, key string) (interface{}, error, bool) {
	resultChan := s.group.DoChan(key, func() (interface{}, error) {
		return s.repo.List(ctx)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err(), false
	case res := <-resultChan:
		return res.Val, res.Err, res.Shared
	}
}

func (s *Service) bump(ctx context.Context) {
	if err := s.cache.Bump(ctx); err != nil {
		s.warn("bump feed cache", err)
	}
}

func (s *Service) warn(msg string, err error) {
	if s.logger != nil {
		s.logger.Warn(msg, slog.Any("error", err))
	}
}
