package http

import (
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"sclhub-api/internal/cluster/config"
	"sclhub-api/internal/cluster/domain/model"
	"sclhub-api/internal/cluster/usecase"
	apperrors "sclhub-api/internal/shared/errors"
	"sclhub-api/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ClusterHandler serves the user-facing cluster routes. Every operation runs
// against the authenticated principal resolved by the middleware.
type ClusterHandler struct {
	Clusters usecase.ClusterUsecaseInterface
	Assets   usecase.AssetUsecaseInterface
	Cfg      *config.Config
	Log      logger.Logger
}

// NewClusterHandler creates the user-facing HTTP handler.
func NewClusterHandler(clusters usecase.ClusterUsecaseInterface, assets usecase.AssetUsecaseInterface, cfg *config.Config, log logger.Logger) *ClusterHandler {
	return &ClusterHandler{Clusters: clusters, Assets: assets, Cfg: cfg, Log: log}
}

// RegisterRoutes mounts the user routes on the given router group.
func (h *ClusterHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/", h.Create)
	router.Get("/", h.List)
	router.Get("/:clusterID", h.Get)
	router.Patch("/:clusterID", h.Update)
	router.Delete("/:clusterID", h.Delete)
	router.Post("/:clusterID/publish", h.Publish)
	router.Post("/:clusterID/image", h.UploadImage)
}

// Create handles POST /clusters.
func (h *ClusterHandler) Create(c *fiber.Ctx) error {
	var input usecase.CreateClusterInput
	if err := c.BodyParser(&input); err != nil {
		return respondError(c, h.Log, apperrors.NewValidationError("invalid request body"))
	}

	item, err := h.Clusters.Create(c.UserContext(), Principal(c), input)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Cluster created successfully!",
		"data":    item,
	})
}

// List handles GET /clusters.
func (h *ClusterHandler) List(c *fiber.Ctx) error {
	items, err := h.Clusters.List(c.UserContext(), Principal(c))
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get handles GET /clusters/:clusterID.
func (h *ClusterHandler) Get(c *fiber.Ctx) error {
	item, err := h.Clusters.Get(c.UserContext(), Principal(c), c.Params("clusterID"))
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(fiber.Map{"data": item})
}

// Update handles PATCH /clusters/:clusterID.
func (h *ClusterHandler) Update(c *fiber.Ctx) error {
	var fields map[string]interface{}
	if err := c.BodyParser(&fields); err != nil {
		return respondError(c, h.Log, apperrors.NewValidationError("invalid request body"))
	}

	item, err := h.Clusters.Update(c.UserContext(), Principal(c), c.Params("clusterID"), fields)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(fiber.Map{
		"message": "Cluster updated successfully!",
		"data":    item,
	})
}

// Delete handles DELETE /clusters/:clusterID.
func (h *ClusterHandler) Delete(c *fiber.Ctx) error {
	clusterID := c.Params("clusterID")
	if err := h.Clusters.Delete(c.UserContext(), Principal(c), clusterID); err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(fiber.Map{
		"message": "Cluster and all associated data have been deleted.",
	})
}

// Publish handles POST /clusters/:clusterID/publish.
func (h *ClusterHandler) Publish(c *fiber.Ctx) error {
	result, err := h.Clusters.Publish(c.UserContext(), Principal(c), c.Params("clusterID"))
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(fiber.Map{
		"message":      "Publishing started! The cluster will be live in a minute.",
		"publishedUrl": result.LiveURL,
	})
}

// UploadImage handles POST /clusters/:clusterID/image?type=<slot>. The
// pipeline performs its own validation, but ownership is checked here,
// before the file touches any remote service.
func (h *ClusterHandler) UploadImage(c *fiber.Ctx) error {
	clusterID := c.Params("clusterID")

	if _, err := h.Clusters.Get(c.UserContext(), Principal(c), clusterID); err != nil {
		return respondError(c, h.Log, err)
	}
	return handleImageUpload(c, h.Assets, h.Log, clusterID)
}

// handleImageUpload parses the multipart file, stages it in a temp file and
// runs the upload pipeline. Shared by the user and admin surfaces.
func handleImageUpload(c *fiber.Ctx, assets usecase.AssetUsecaseInterface, log logger.Logger, clusterID string) error {
	slot, ok := model.ParseSlot(c.Query("type"))
	if !ok {
		return respondError(c, log, apperrors.NewValidationError("invalid image type"))
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return respondError(c, log, apperrors.NewValidationError("no image file uploaded"))
	}

	tempPath, err := stageUpload(fileHeader)
	if err != nil {
		return respondError(c, log, apperrors.NewInternalError("failed to stage uploaded file").WithCause(err))
	}

	result, err := assets.Upload(c.UserContext(), usecase.UploadRequest{
		ClusterID: clusterID,
		Slot:      slot,
		FilePath:  tempPath,
		FileName:  fileHeader.Filename,
		MimeType:  fileHeader.Header.Get("Content-Type"),
		Size:      fileHeader.Size,
	})
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(fiber.Map{
		"message":  "Successfully uploaded image and updated cluster!",
		"imageUrl": result.URL,
	})
}

// stageUpload streams the multipart part to a uniquely named temp file so
// the pipeline can hash and re-read it without buffering it in memory.
func stageUpload(fileHeader *multipart.FileHeader) (string, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	tempPath := filepath.Join(os.TempDir(), "sclhub-upload-"+uuid.NewString()+filepath.Ext(fileHeader.Filename))
	dst, err := os.Create(tempPath)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(tempPath)
		return "", err
	}
	if err := dst.Close(); err != nil {
		os.Remove(tempPath)
		return "", err
	}
	return tempPath, nil
}

// respondError maps application errors to structured responses. Causes stay
// in the logs; response bodies carry only the short message.
func respondError(c *fiber.Ctx, log logger.Logger, err error) error {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.NewInternalError("internal server error").WithCause(err)
	}

	if appErr.HTTPCode >= fiber.StatusInternalServerError {
		log.WithContext(c.UserContext()).Errorf("request failed: %v", appErr)
	} else {
		log.WithContext(c.UserContext()).Warnf("request rejected: %s", appErr.Message)
	}

	return c.Status(appErr.HTTPCode).JSON(fiber.Map{
		"message": appErr.Message,
	})
}
