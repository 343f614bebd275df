package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/dfs-covariance/internal/models"
	"github.com/jstittsworth/dfs-covariance/pkg/utils"
)

// CovarianceCacheService caches computed covariance artifacts by slate date.
type CovarianceCacheService struct {
	client *redis.Client
	logger *logrus.Logger
}

// NewCovarianceCacheService creates a new covariance cache service
func NewCovarianceCacheService(client *redis.Client, logger *logrus.Logger) *CovarianceCacheService {
	return &CovarianceCacheService{
		client: client,
		logger: logger,
	}
}

// SetArtifact stores a covariance artifact in cache
func (c *CovarianceCacheService) SetArtifact(ctx context.Context, artifact *models.CovarianceArtifact, expiration time.Duration) error {
	data, err := json.Marshal(artifact)
	if err != nil {
		return fmt.Errorf("failed to marshal covariance artifact: %w", err)
	}

	fullKey := fmt.Sprintf("covariance:%s", artifact.SlateDate)
	if err := c.client.Set(ctx, fullKey, data, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set covariance artifact in cache: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"cache_key":      fullKey,
		"expiration":     expiration,
		"players":        len(artifact.IDs),
		"computation_id": artifact.ComputationID,
	}).Debug("Cached covariance artifact")

	return nil
}

// GetArtifact retrieves a covariance artifact from cache
func (c *CovarianceCacheService) GetArtifact(ctx context.Context, slateDate string) (*models.CovarianceArtifact, error) {
	fullKey := fmt.Sprintf("covariance:%s", slateDate)
	data, err := c.client.Get(ctx, fullKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, utils.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get covariance artifact from cache: %w", err)
	}

	var artifact models.CovarianceArtifact
	if err := json.Unmarshal([]byte(data), &artifact); err != nil {
		return nil, fmt.Errorf("failed to unmarshal covariance artifact: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"cache_key": fullKey,
		"players":   len(artifact.IDs),
	}).Debug("Retrieved covariance artifact from cache")

	return &artifact, nil
}

// InvalidateArtifact removes a cached artifact for a slate date
func (c *CovarianceCacheService) InvalidateArtifact(ctx context.Context, slateDate string) error {
	fullKey := fmt.Sprintf("covariance:%s", slateDate)
	if err := c.client.Del(ctx, fullKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate covariance artifact: %w", err)
	}
	return nil
}
