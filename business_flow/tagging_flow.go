// Package businessflow contains the core business logic and use cases for tagging workflows
package businessflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/tagforge/tagforge/app/dto"
	"github.com/tagforge/tagforge/config"
	"github.com/tagforge/tagforge/models"
	"github.com/tagforge/tagforge/repository"
	"github.com/tagforge/tagforge/utils"
)

// TrendingCacheKey is the redis key (under the configured prefix) holding
// the trending hashtag list.
const TrendingCacheKey = "hashtags:trending"

// TaggingFlow handles the hashtag and tagging business logic
type TaggingFlow interface {
	TagObject(ctx context.Context, req *dto.TagObjectRequest, metadata *ClientMetadata) (*dto.TagObjectResponse, error)
	UntagObject(ctx context.Context, req *dto.UntagObjectRequest, metadata *ClientMetadata) (*dto.UntagObjectResponse, error)
	ListObjectTags(ctx context.Context, contentType string, objectID uuid.UUID) (*dto.ObjectTagsResponse, error)

	CreateHashtag(ctx context.Context, req *dto.CreateHashtagRequest, metadata *ClientMetadata) (*dto.HashtagDTO, error)
	GetHashtag(ctx context.Context, id uuid.UUID) (*dto.HashtagDTO, error)
	UpdateHashtag(ctx context.Context, id uuid.UUID, req *dto.UpdateHashtagRequest, metadata *ClientMetadata) (*dto.HashtagDTO, error)
	PatchHashtag(ctx context.Context, id uuid.UUID, req *dto.PatchHashtagRequest, metadata *ClientMetadata) (*dto.HashtagDTO, error)
	DeleteHashtag(ctx context.Context, id uuid.UUID, metadata *ClientMetadata) error
	ListHashtags(ctx context.Context, req *dto.ListHashtagsRequest) (*dto.ListHashtagsResponse, error)
	TrendingHashtags(ctx context.Context) (*dto.TrendingHashtagsResponse, error)

	SetHashtagIcon(ctx context.Context, id uuid.UUID, iconPath string) (*dto.HashtagDTO, error)
}

// TaggingFlowImpl implements the tagging business flow
type TaggingFlowImpl struct {
	hashtagRepo    repository.HashtagRepository
	taggedRepo     repository.TaggedItemRepository
	hashtaggedRepo repository.HashtaggedItemRepository
	taggingConfig  config.TaggingConfig
	cacheConfig    *config.CacheConfig
	rc             *redis.Client
	db             *gorm.DB
}

// NewTaggingFlow creates a new tagging flow instance
func NewTaggingFlow(
	hashtagRepo repository.HashtagRepository,
	taggedRepo repository.TaggedItemRepository,
	hashtaggedRepo repository.HashtaggedItemRepository,
	db *gorm.DB,
	rc *redis.Client,
	taggingConfig config.TaggingConfig,
	cacheConfig *config.CacheConfig,
) TaggingFlow {
	return &TaggingFlowImpl{
		hashtagRepo:    hashtagRepo,
		taggedRepo:     taggedRepo,
		hashtaggedRepo: hashtaggedRepo,
		taggingConfig:  taggingConfig,
		cacheConfig:    cacheConfig,
		rc:             rc,
		db:             db,
	}
}

// TagObject attaches a hashtag to an object, creating the hashtag on first
// use. The association insert and the hashtag counter maintenance run in one
// transaction.
func (s *TaggingFlowImpl) TagObject(ctx context.Context, req *dto.TagObjectRequest, metadata *ClientMetadata) (*dto.TagObjectResponse, error) {
	name := strings.TrimSpace(req.Tag)
	if name == "" {
		return nil, NewBusinessError("TAG_VALIDATION_FAILED", "Tag validation failed", ErrHashtagNameRequired)
	}
	if strings.TrimSpace(req.ContentType) == "" {
		return nil, NewBusinessError("TAG_VALIDATION_FAILED", "Tag validation failed", ErrContentTypeRequired)
	}
	if req.ObjectID == uuid.Nil {
		return nil, NewBusinessError("TAG_VALIDATION_FAILED", "Tag validation failed", ErrObjectIDRequired)
	}

	counted := req.Counted == nil || *req.Counted

	var hashtag *models.Hashtag
	err := repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		var err error
		hashtag, err = s.findOrCreateHashtag(txCtx, name)
		if err != nil {
			return err
		}

		if counted {
			existing, err := s.hashtaggedRepo.ByObjectAndTag(txCtx, req.ContentType, req.ObjectID, hashtag.ID)
			if err != nil {
				return err
			}
			if existing != nil {
				return ErrAlreadyTagged
			}

			item := &models.HashtaggedItem{
				HashtagID:   hashtag.ID,
				ContentType: req.ContentType,
				ObjectID:    req.ObjectID,
				CreatedAt:   utils.UTCNow(),
			}
			return s.hashtaggedRepo.Save(txCtx, item)
		}

		existing, err := s.taggedRepo.ByObjectAndTag(txCtx, req.ContentType, req.ObjectID, hashtag.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrAlreadyTagged
		}

		item := &models.TaggedItem{
			HashtagID:   hashtag.ID,
			ContentType: req.ContentType,
			ObjectID:    req.ObjectID,
		}
		return s.taggedRepo.Save(txCtx, item)
	})
	if err != nil {
		if IsAlreadyTagged(err) {
			return nil, NewBusinessError("ALREADY_TAGGED", "Object is already tagged with this hashtag", err)
		}
		return nil, NewBusinessError("TAG_OBJECT_FAILED", "Failed to tag object", err)
	}

	// Reload so the response reflects the settled counters
	hashtag, err = s.hashtagRepo.ByID(ctx, hashtag.ID)
	if err != nil {
		return nil, NewBusinessError("HASHTAG_LOOKUP_FAILED", "Failed to reload hashtag", err)
	}
	if hashtag == nil {
		return nil, NewBusinessError("HASHTAG_LOOKUP_FAILED", "Hashtag disappeared after tagging", ErrHashtagNotFound)
	}

	s.invalidateTrendingCache(ctx)

	return &dto.TagObjectResponse{
		Message: "Object tagged successfully",
		Hashtag: ToHashtagDTO(hashtag),
	}, nil
}

// UntagObject removes the association between an object and a hashtag. The
// hashtag's counters settle inside the same transaction; with auto-removal
// enabled the hashtag itself may be deleted when its last association goes.
func (s *TaggingFlowImpl) UntagObject(ctx context.Context, req *dto.UntagObjectRequest, metadata *ClientMetadata) (*dto.UntagObjectResponse, error) {
	name := strings.TrimSpace(req.Tag)
	if name == "" {
		return nil, NewBusinessError("TAG_VALIDATION_FAILED", "Tag validation failed", ErrHashtagNameRequired)
	}

	hashtag, err := s.hashtagRepo.ByName(ctx, name)
	if err != nil {
		return nil, NewBusinessError("HASHTAG_LOOKUP_FAILED", "Failed to lookup hashtag", err)
	}
	if hashtag == nil {
		return nil, NewBusinessError("HASHTAG_NOT_FOUND", "Hashtag not found", ErrHashtagNotFound)
	}
	hashtagID := hashtag.ID

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		counted, err := s.hashtaggedRepo.ByObjectAndTag(txCtx, req.ContentType, req.ObjectID, hashtagID)
		if err != nil {
			return err
		}
		if counted != nil {
			return s.hashtaggedRepo.Delete(txCtx, counted)
		}

		plain, err := s.taggedRepo.ByObjectAndTag(txCtx, req.ContentType, req.ObjectID, hashtagID)
		if err != nil {
			return err
		}
		if plain != nil {
			return s.taggedRepo.Delete(txCtx, plain)
		}

		return ErrAssociationNotFound
	})
	if err != nil {
		if IsAssociationNotFound(err) {
			return nil, NewBusinessError("ASSOCIATION_NOT_FOUND", "Object is not tagged with this hashtag", err)
		}
		return nil, NewBusinessError("UNTAG_OBJECT_FAILED", "Failed to untag object", err)
	}

	s.invalidateTrendingCache(ctx)

	// The hashtag may have been auto-removed along with its last association
	hashtag, err = s.hashtagRepo.ByID(ctx, hashtagID)
	if err != nil {
		return nil, NewBusinessError("HASHTAG_LOOKUP_FAILED", "Failed to reload hashtag", err)
	}

	resp := &dto.UntagObjectResponse{
		Message:        "Object untagged successfully",
		HashtagRemoved: hashtag == nil,
	}
	if hashtag != nil {
		d := ToHashtagDTO(hashtag)
		resp.Hashtag = &d
	}
	return resp, nil
}

// ListObjectTags returns every hashtag attached to an object, counted or not
func (s *TaggingFlowImpl) ListObjectTags(ctx context.Context, contentType string, objectID uuid.UUID) (*dto.ObjectTagsResponse, error) {
	counted, err := s.hashtaggedRepo.ByObject(ctx, contentType, objectID)
	if err != nil {
		return nil, NewBusinessError("LIST_OBJECT_TAGS_FAILED", "Failed to list object tags", err)
	}
	plain, err := s.taggedRepo.ByObject(ctx, contentType, objectID)
	if err != nil {
		return nil, NewBusinessError("LIST_OBJECT_TAGS_FAILED", "Failed to list object tags", err)
	}

	seen := make(map[uuid.UUID]bool, len(counted)+len(plain))
	ids := make([]uuid.UUID, 0, len(counted)+len(plain))
	for _, item := range counted {
		if !seen[item.HashtagID] {
			seen[item.HashtagID] = true
			ids = append(ids, item.HashtagID)
		}
	}
	for _, item := range plain {
		if !seen[item.HashtagID] {
			seen[item.HashtagID] = true
			ids = append(ids, item.HashtagID)
		}
	}

	hashtags := make([]dto.HashtagDTO, 0, len(ids))
	for _, id := range ids {
		hashtag, err := s.hashtagRepo.ByID(ctx, id)
		if err != nil {
			return nil, NewBusinessError("HASHTAG_LOOKUP_FAILED", "Failed to lookup hashtag", err)
		}
		if hashtag != nil {
			hashtags = append(hashtags, ToHashtagDTO(hashtag))
		}
	}

	return &dto.ObjectTagsResponse{
		Message:  "Object tags retrieved",
		Hashtags: hashtags,
	}, nil
}

// CreateHashtag creates a hashtag explicitly, before any object uses it
func (s *TaggingFlowImpl) CreateHashtag(ctx context.Context, req *dto.CreateHashtagRequest, metadata *ClientMetadata) (*dto.HashtagDTO, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, NewBusinessError("HASHTAG_VALIDATION_FAILED", "Hashtag validation failed", ErrHashtagNameRequired)
	}

	existing, err := s.hashtagRepo.ByName(ctx, name)
	if err != nil {
		return nil, NewBusinessError("HASHTAG_LOOKUP_FAILED", "Failed to lookup hashtag", err)
	}
	if existing != nil {
		return nil, NewBusinessError("HASHTAG_ALREADY_EXISTS", "Hashtag already exists", ErrHashtagAlreadyExists)
	}

	hashtag := &models.Hashtag{
		Name: name,
		Slug: utils.Slugify(name),
	}
	if err := s.hashtagRepo.Save(ctx, hashtag); err != nil {
		return nil, NewBusinessError("HASHTAG_CREATION_FAILED", "Failed to create hashtag", err)
	}

	d := ToHashtagDTO(hashtag)
	return &d, nil
}

// GetHashtag retrieves a single hashtag by ID
func (s *TaggingFlowImpl) GetHashtag(ctx context.Context, id uuid.UUID) (*dto.HashtagDTO, error) {
	hashtag, err := s.hashtagRepo.ByID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("HASHTAG_LOOKUP_FAILED", "Failed to lookup hashtag", err)
	}
	if hashtag == nil {
		return nil, NewBusinessError("HASHTAG_NOT_FOUND", "Hashtag not found", ErrHashtagNotFound)
	}

	d := ToHashtagDTO(hashtag)
	return &d, nil
}

// UpdateHashtag replaces the hashtag's mutable fields
func (s *TaggingFlowImpl) UpdateHashtag(ctx context.Context, id uuid.UUID, req *dto.UpdateHashtagRequest, metadata *ClientMetadata) (*dto.HashtagDTO, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, NewBusinessError("HASHTAG_VALIDATION_FAILED", "Hashtag validation failed", ErrHashtagNameRequired)
	}

	hashtag, err := s.loadHashtag(ctx, id)
	if err != nil {
		return nil, err
	}

	hashtag.Name = name
	hashtag.Slug = utils.Slugify(name)
	if err := s.hashtagRepo.Update(ctx, hashtag); err != nil {
		return nil, NewBusinessError("HASHTAG_UPDATE_FAILED", "Failed to update hashtag", err)
	}

	s.invalidateTrendingCache(ctx)

	d := ToHashtagDTO(hashtag)
	return &d, nil
}

// PatchHashtag updates only the fields the request provides
func (s *TaggingFlowImpl) PatchHashtag(ctx context.Context, id uuid.UUID, req *dto.PatchHashtagRequest, metadata *ClientMetadata) (*dto.HashtagDTO, error) {
	hashtag, err := s.loadHashtag(ctx, id)
	if err != nil {
		return nil, err
	}

	changed := false
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, NewBusinessError("HASHTAG_VALIDATION_FAILED", "Hashtag validation failed", ErrHashtagNameRequired)
		}
		hashtag.Name = name
		hashtag.Slug = utils.Slugify(name)
		changed = true
	}

	if changed {
		if err := s.hashtagRepo.Update(ctx, hashtag); err != nil {
			return nil, NewBusinessError("HASHTAG_UPDATE_FAILED", "Failed to update hashtag", err)
		}
		s.invalidateTrendingCache(ctx)
	}

	d := ToHashtagDTO(hashtag)
	return &d, nil
}

// DeleteHashtag removes a hashtag and, through the schema's cascading
// foreign keys, every association referencing it
func (s *TaggingFlowImpl) DeleteHashtag(ctx context.Context, id uuid.UUID, metadata *ClientMetadata) error {
	hashtag, err := s.loadHashtag(ctx, id)
	if err != nil {
		return err
	}

	if err := s.hashtagRepo.Delete(ctx, hashtag); err != nil {
		return NewBusinessError("HASHTAG_DELETION_FAILED", "Failed to delete hashtag", err)
	}

	s.invalidateTrendingCache(ctx)
	return nil
}

// ListHashtags pages through hashtags ordered by usage count
func (s *TaggingFlowImpl) ListHashtags(ctx context.Context, req *dto.ListHashtagsRequest) (*dto.ListHashtagsResponse, error) {
	page := req.Page
	if page == 0 {
		page = 1
	}
	if page < 1 {
		return nil, NewBusinessError("LIST_VALIDATION_FAILED", "List validation failed", ErrInvalidPage)
	}

	pageSize := req.PageSize
	if pageSize == 0 {
		pageSize = 20
	}
	if pageSize < 1 || pageSize > 100 {
		return nil, NewBusinessError("LIST_VALIDATION_FAILED", "List validation failed", ErrInvalidPageSize)
	}

	hashtags, err := s.hashtagRepo.ListByUsage(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError("LIST_HASHTAGS_FAILED", "Failed to list hashtags", err)
	}

	total, err := s.hashtagRepo.Count(ctx, models.HashtagFilter{})
	if err != nil {
		return nil, NewBusinessError("LIST_HASHTAGS_FAILED", "Failed to count hashtags", err)
	}

	return &dto.ListHashtagsResponse{
		Message:  "Hashtags retrieved",
		Hashtags: ToHashtagDTOs(hashtags),
		Pagination: dto.Pagination{
			Page:     page,
			PageSize: pageSize,
			Total:    total,
		},
	}, nil
}

// TrendingHashtags returns the most recently used hashtags, served from the
// redis cache when fresh
func (s *TaggingFlowImpl) TrendingHashtags(ctx context.Context) (*dto.TrendingHashtagsResponse, error) {
	cacheKey := ""
	if s.rc != nil && s.cacheConfig != nil {
		cacheKey = redisKey(*s.cacheConfig, TrendingCacheKey)

		if bs, err := s.rc.Get(ctx, cacheKey).Bytes(); err == nil && len(bs) > 0 {
			var cached []dto.HashtagDTO
			if err := json.Unmarshal(bs, &cached); err == nil {
				return &dto.TrendingHashtagsResponse{
					Message:  "Trending hashtags retrieved from cache",
					Hashtags: cached,
					Cached:   true,
				}, nil
			}
		}
	}

	limit := s.taggingConfig.TrendingLimit
	if limit <= 0 {
		limit = 20
	}

	hashtags, err := s.hashtagRepo.ListRecentlyUsed(ctx, limit)
	if err != nil {
		return nil, NewBusinessError("TRENDING_HASHTAGS_FAILED", "Failed to list trending hashtags", err)
	}

	out := ToHashtagDTOs(hashtags)

	if cacheKey != "" {
		if bs, err := json.Marshal(out); err == nil {
			_ = s.rc.Set(ctx, cacheKey, bs, s.taggingConfig.TrendingCacheTTL).Err()
		}
	}

	return &dto.TrendingHashtagsResponse{
		Message:  "Trending hashtags retrieved",
		Hashtags: out,
		Cached:   false,
	}, nil
}

// SetHashtagIcon records the stored icon path on the hashtag
func (s *TaggingFlowImpl) SetHashtagIcon(ctx context.Context, id uuid.UUID, iconPath string) (*dto.HashtagDTO, error) {
	hashtag, err := s.loadHashtag(ctx, id)
	if err != nil {
		return nil, err
	}

	hashtag.IconPath = utils.ToPtr(iconPath)
	if err := s.hashtagRepo.Update(ctx, hashtag); err != nil {
		return nil, NewBusinessError("HASHTAG_UPDATE_FAILED", "Failed to update hashtag", err)
	}

	d := ToHashtagDTO(hashtag)
	return &d, nil
}

func (s *TaggingFlowImpl) loadHashtag(ctx context.Context, id uuid.UUID) (*models.Hashtag, error) {
	hashtag, err := s.hashtagRepo.ByID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("HASHTAG_LOOKUP_FAILED", "Failed to lookup hashtag", err)
	}
	if hashtag == nil {
		return nil, NewBusinessError("HASHTAG_NOT_FOUND", "Hashtag not found", ErrHashtagNotFound)
	}
	return hashtag, nil
}

func (s *TaggingFlowImpl) findOrCreateHashtag(ctx context.Context, name string) (*models.Hashtag, error) {
	hashtag, err := s.hashtagRepo.ByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to lookup hashtag: %w", err)
	}
	if hashtag != nil {
		return hashtag, nil
	}

	hashtag = &models.Hashtag{
		Name: name,
		Slug: utils.Slugify(name),
	}
	if err := s.hashtagRepo.Save(ctx, hashtag); err != nil {
		return nil, fmt.Errorf("failed to create hashtag: %w", err)
	}
	return hashtag, nil
}

func (s *TaggingFlowImpl) invalidateTrendingCache(ctx context.Context) {
	if s.rc == nil || s.cacheConfig == nil {
		return
	}
	_ = s.rc.Del(ctx, redisKey(*s.cacheConfig, TrendingCacheKey)).Err()
}
