package http

import (
	"sclhub-api/internal/cluster/config"
	"sclhub-api/internal/cluster/usecase"
	apperrors "sclhub-api/internal/shared/errors"
	"sclhub-api/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler mirrors several cluster operations for the admin surface.
// These routes are gated by Basic auth and operate on any cluster; the
// usecase skips the ownership check for a nil principal.
type AdminHandler struct {
	Clusters usecase.ClusterUsecaseInterface
	Assets   usecase.AssetUsecaseInterface
	Cfg      *config.Config
	Log      logger.Logger
}

// NewAdminHandler creates the admin HTTP handler.
func NewAdminHandler(clusters usecase.ClusterUsecaseInterface, assets usecase.AssetUsecaseInterface, cfg *config.Config, log logger.Logger) *AdminHandler {
	return &AdminHandler{Clusters: clusters, Assets: assets, Cfg: cfg, Log: log}
}

// RegisterRoutes mounts the admin routes on the given router group.
func (h *AdminHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/cluster/:clusterID", h.GetDetails)
	router.Patch("/cluster/:clusterID", h.Update)
	router.Post("/cluster/:clusterID/image", h.UploadImage)
	router.Post("/cluster/:clusterID/publish", h.Publish)
	router.Delete("/cluster/:clusterID", h.Delete)
}

// GetDetails handles GET /admin/cluster/:clusterID, the combined dashboard
// view of one cluster.
func (h *AdminHandler) GetDetails(c *fiber.Ctx) error {
	details, err := h.Clusters.GetDetails(c.UserContext(), c.Params("clusterID"))
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(details)
}

// Update handles PATCH /admin/cluster/:clusterID without an ownership check.
func (h *AdminHandler) Update(c *fiber.Ctx) error {
	var fields map[string]interface{}
	if err := c.BodyParser(&fields); err != nil {
		return respondError(c, h.Log, apperrors.NewValidationError("invalid request body"))
	}

	item, err := h.Clusters.Update(c.UserContext(), nil, c.Params("clusterID"), fields)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(fiber.Map{
		"message": "Admin successfully updated cluster!",
		"data":    item,
	})
}

// UploadImage handles POST /admin/cluster/:clusterID/image?type=<slot>.
func (h *AdminHandler) UploadImage(c *fiber.Ctx) error {
	return handleImageUpload(c, h.Assets, h.Log, c.Params("clusterID"))
}

// Publish handles POST /admin/cluster/:clusterID/publish.
func (h *AdminHandler) Publish(c *fiber.Ctx) error {
	result, err := h.Clusters.Publish(c.UserContext(), nil, c.Params("clusterID"))
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(fiber.Map{
		"message":      "Publishing started! The cluster will be live in a minute.",
		"publishedUrl": result.LiveURL,
	})
}

// Delete handles DELETE /admin/cluster/:clusterID: the full cascade delete
// of any cluster, including unlinking it from its original owner.
func (h *AdminHandler) Delete(c *fiber.Ctx) error {
	clusterID := c.Params("clusterID")
	if err := h.Clusters.Delete(c.UserContext(), nil, clusterID); err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(fiber.Map{
		"message": "Cluster and all associated data have been successfully deleted from the system.",
	})
}
