package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/dfs-covariance/internal/cache"
	"github.com/jstittsworth/dfs-covariance/internal/covariance"
	"github.com/jstittsworth/dfs-covariance/internal/models"
	"github.com/jstittsworth/dfs-covariance/internal/pipeline"
	"github.com/jstittsworth/dfs-covariance/internal/storage"
	"github.com/jstittsworth/dfs-covariance/pkg/config"
	"github.com/jstittsworth/dfs-covariance/pkg/utils"
)

// CovarianceHandler handles slate covariance endpoints
type CovarianceHandler struct {
	repo   *storage.Repository
	cache  *cache.CovarianceCacheService
	cfg    *config.Config
	logger *logrus.Logger
}

// NewCovarianceHandler creates a new covariance handler
func NewCovarianceHandler(repo *storage.Repository, cacheService *cache.CovarianceCacheService, cfg *config.Config, logger *logrus.Logger) *CovarianceHandler {
	return &CovarianceHandler{
		repo:   repo,
		cache:  cacheService,
		cfg:    cfg,
		logger: logger,
	}
}

// ComputeCovarianceRequest is the body for POST /covariance
type ComputeCovarianceRequest struct {
	SlateDate string              `json:"slate_date" binding:"required"`
	Entries   []models.SlateEntry `json:"entries" binding:"required,min=1"`
}

// ComputeCovariance computes the covariance matrix for a submitted slate,
// persists the slate, and caches the artifact.
func (h *CovarianceHandler) ComputeCovariance(c *gin.Context) {
	var req ComputeCovarianceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewAppError(utils.ErrCodeValidation, "invalid request body", err.Error()))
		return
	}

	for i := range req.Entries {
		req.Entries[i].SlateDate = req.SlateDate
	}

	artifact, err := h.compute(c, req.SlateDate, req.Entries)
	if err != nil {
		h.renderError(c, err)
		return
	}

	if err := h.repo.SaveSlate(c.Request.Context(), req.SlateDate, req.Entries); err != nil {
		// The artifact is already computed and cached; losing the stored
		// slate only disables later recomputation for this date.
		h.logger.WithError(err).Warn("Failed to persist slate entries")
	}

	c.JSON(http.StatusOK, artifact)
}

// GetCovariance returns the covariance artifact for a slate date, serving
// from cache and recomputing from the stored slate on a miss.
func (h *CovarianceHandler) GetCovariance(c *gin.Context) {
	slateDate := c.Param("date")

	if artifact, err := h.cache.GetArtifact(c.Request.Context(), slateDate); err == nil {
		c.JSON(http.StatusOK, artifact)
		return
	} else if !errors.Is(err, utils.ErrNotFound) {
		h.logger.WithError(err).Warn("Covariance cache lookup failed")
	}

	entries, err := h.repo.LoadSlate(c.Request.Context(), slateDate)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewAppError(utils.ErrCodeInternal, "failed to load slate", err.Error()))
		return
	}
	if len(entries) == 0 {
		c.JSON(http.StatusNotFound, utils.NewAppError(utils.ErrCodeNotFound, "no slate stored for date "+slateDate))
		return
	}

	artifact, err := h.compute(c, slateDate, entries)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, artifact)
}

func (h *CovarianceHandler) compute(c *gin.Context, slateDate string, entries []models.SlateEntry) (*models.CovarianceArtifact, error) {
	history, err := h.repo.LoadGameRecords(c.Request.Context())
	if err != nil {
		return nil, err
	}

	result, err := pipeline.Run(history, entries, pipeline.Options{
		Epsilon:   h.cfg.PSDEpsilon,
		SlateDate: slateDate,
		Defaults: covariance.StdDevDefaults{
			Pitcher: h.cfg.DefaultPitcherStd,
			Batter:  h.cfg.DefaultBatterStd,
		},
	})
	if err != nil {
		return nil, err
	}

	artifact := result.ToArtifact()
	if err := h.cache.SetArtifact(c.Request.Context(), artifact, h.cfg.CacheExpiration); err != nil {
		h.logger.WithError(err).Warn("Failed to cache covariance artifact")
	}
	return artifact, nil
}

// renderError maps pipeline failures onto HTTP statuses: data problems the
// caller can act on are 422, everything else is 500.
func (h *CovarianceHandler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, utils.ErrLookupFailure):
		c.JSON(http.StatusUnprocessableEntity, utils.NewAppError(utils.ErrCodeLookup, "historical correlation lookup failed", err.Error()))
	case errors.Is(err, utils.ErrIntegrityViolation):
		c.JSON(http.StatusUnprocessableEntity, utils.NewAppError(utils.ErrCodeIntegrity, "slate data integrity violation", err.Error()))
	case errors.Is(err, utils.ErrPSDViolation):
		c.JSON(http.StatusUnprocessableEntity, utils.NewAppError(utils.ErrCodePSD, "correlation matrix not positive semi-definite", err.Error()))
	default:
		h.logger.WithError(err).Error("Covariance computation failed")
		c.JSON(http.StatusInternalServerError, utils.NewAppError(utils.ErrCodeInternal, "covariance computation failed", err.Error()))
	}
}
