// Package businessflow contains the business logic for the application.
package businessflow

import (
	"github.com/tagforge/tagforge/app/dto"
	"github.com/tagforge/tagforge/config"
	"github.com/tagforge/tagforge/models"
)

// ClientMetadata holds all client-related information for request tracking
type ClientMetadata struct {
	IPAddress  string            `json:"ip_address"`
	UserAgent  string            `json:"user_agent"`
	RequestID  string            `json:"request_id,omitempty"`
	Additional map[string]string `json:"additional,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Additional: make(map[string]string),
	}
}

// AddAdditional adds additional custom information to the metadata
func (cm *ClientMetadata) AddAdditional(key, value string) {
	if cm.Additional == nil {
		cm.Additional = make(map[string]string)
	}
	cm.Additional[key] = value
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// ToHashtagDTO converts a hashtag model to its wire representation
func ToHashtagDTO(hashtag *models.Hashtag) dto.HashtagDTO {
	return dto.HashtagDTO{
		ID:        hashtag.ID,
		Name:      hashtag.Name,
		Slug:      hashtag.Slug,
		Count:     hashtag.Count,
		LastUsed:  hashtag.LastUsed,
		IconPath:  hashtag.IconPath,
		CreatedAt: hashtag.CreatedAt,
		UpdatedAt: hashtag.UpdatedAt,
	}
}

// ToHashtagDTOs converts a slice of hashtag models
func ToHashtagDTOs(hashtags []*models.Hashtag) []dto.HashtagDTO {
	out := make([]dto.HashtagDTO, 0, len(hashtags))
	for _, h := range hashtags {
		out = append(out, ToHashtagDTO(h))
	}
	return out
}

func redisKey(cacheConfig config.CacheConfig, key string) string {
	return cacheConfig.RedisPrefix + key
}
