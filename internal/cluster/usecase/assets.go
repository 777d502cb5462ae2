package usecase

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"sclhub-api/internal/cluster/config"
	"sclhub-api/internal/cluster/domain/model"
	"sclhub-api/internal/cluster/domain/repository"
	apperrors "sclhub-api/internal/shared/errors"

	"go.uber.org/zap"
)

// folderPageLimit is the page size the remote folder listing is capped at.
const folderPageLimit = 100

// UploadRequest describes one uploaded file. FilePath points at a local
// temporary copy; the pipeline removes it on every exit path.
type UploadRequest struct {
	ClusterID string
	Slot      model.Slot
	FilePath  string
	FileName  string
	MimeType  string
	Size      int64
}

// AssetUsecaseInterface exposes the asset workflow to the HTTP layer.
type AssetUsecaseInterface interface {
	Upload(ctx context.Context, req UploadRequest) (*model.UploadResult, error)
	ResolveFolder(ctx context.Context, clusterID string) (string, error)
	CleanupClusterAssets(ctx context.Context, clusterID string) error
}

// AssetUsecase implements the asset-upload-and-CMS-sync workflow: folder
// resolution, replacement of the previous asset for a slot, the upload
// pipeline itself, and full-cluster asset cleanup on delete.
type AssetUsecase struct {
	cms   repository.CMSClient
	store repository.DocumentStore
	cfg   *config.Config
	log   *zap.Logger
}

// NewAssetUsecase creates the asset usecase.
func NewAssetUsecase(cms repository.CMSClient, store repository.DocumentStore, cfg *config.Config, log *zap.Logger) *AssetUsecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &AssetUsecase{
		cms:   cms,
		store: store,
		cfg:   cfg,
		log:   log.With(zap.String("component", "assets")),
	}
}

// Upload runs the ordered pipeline for one uploaded file:
//
//	validate → replace old asset → resolve folder → hash → register →
//	stream bytes → patch CMS item → upsert asset index → remove temp file
//
// Old-asset cleanup and temp-file removal are best-effort; folder
// resolution, registration, the byte upload, the CMS patch and the index
// upsert are fatal for the attempt.
func (uc *AssetUsecase) Upload(ctx context.Context, req UploadRequest) (*model.UploadResult, error) {
	defer uc.removeTempFile(req.FilePath)

	if err := uc.validate(req); err != nil {
		return nil, err
	}

	log := uc.log.With(zap.String("cluster_id", req.ClusterID), zap.String("slot", req.Slot.String()))

	uc.replaceIfPresent(ctx, req.ClusterID, req.Slot)

	folderID, err := uc.ResolveFolder(ctx, req.ClusterID)
	if err != nil {
		return nil, err
	}

	fileHash, err := uc.hashFile(req.FilePath)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to read uploaded file").WithCause(err)
	}

	// Unique per (slot, cluster, instant) so the remote hash+name dedup
	// never collides across clusters or slots.
	ext := filepath.Ext(req.FileName)
	uniqueName := fmt.Sprintf("%s_%s_%d%s", req.Slot, req.ClusterID, time.Now().UnixMilli(), ext)

	registered, err := uc.cms.RegisterAsset(ctx, repository.AssetRegistration{
		FileName:     uniqueName,
		FileHash:     fileHash,
		ParentFolder: folderID,
	})
	if err != nil {
		if apperrors.IsConflict(err) {
			// Identical name+hash already registered; the caller can simply
			// resubmit and get a fresh timestamped name.
			return nil, apperrors.NewUnavailableError("asset already registered, please retry the upload").WithCause(err)
		}
		return nil, err
	}

	file, err := os.Open(req.FilePath)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to open uploaded file").WithCause(err)
	}
	defer file.Close()

	if err := uc.cms.UploadAssetFile(ctx, registered.UploadURL, registered.UploadDetails, file, uniqueName); err != nil {
		return nil, err
	}

	item, err := uc.patchItemField(ctx, req.ClusterID, req.Slot.CMSField(), registered.HostedURL)
	if err != nil {
		return nil, err
	}

	// The index is the source of truth for which asset backs the slot; a
	// stale index would leak the old asset on the next replace.
	err = uc.store.SetMerge(ctx, repository.ClustersCollection, req.ClusterID, map[string]interface{}{
		"assets": map[string]interface{}{
			req.Slot.String(): model.AssetRef{AssetID: registered.ID, URL: registered.HostedURL},
		},
	})
	if err != nil {
		return nil, apperrors.NewInternalError("failed to record uploaded asset").WithCause(err)
	}

	log.Info("upload complete", zap.String("asset_id", registered.ID), zap.String("url", registered.HostedURL))
	return &model.UploadResult{URL: registered.HostedURL, Item: item}, nil
}

// validate fails fast on bad input before any remote call is made.
func (uc *AssetUsecase) validate(req UploadRequest) error {
	if _, ok := model.ParseSlot(req.Slot.String()); !ok {
		return apperrors.NewValidationError("invalid image type")
	}
	if req.Size <= 0 {
		return apperrors.NewValidationError("no image file uploaded")
	}
	if req.Size > uc.cfg.MaxUploadBytes {
		return apperrors.NewValidationError(fmt.Sprintf("file is too large, max size is %d bytes", uc.cfg.MaxUploadBytes))
	}
	if !uc.cfg.MimeAllowed(req.MimeType) {
		return apperrors.NewValidationError("invalid file type")
	}
	return nil
}

// replaceIfPresent deletes the asset previously recorded for the slot, if
// any. Failures are logged and swallowed: leaving one orphaned asset is
// preferable to blocking the user's edit.
func (uc *AssetUsecase) replaceIfPresent(ctx context.Context, clusterID string, slot model.Slot) {
	doc, found, err := uc.store.Get(ctx, repository.ClustersCollection, clusterID)
	if err != nil {
		uc.log.Warn("failed to read asset index", zap.String("cluster_id", clusterID), zap.Error(err))
		return
	}
	if !found {
		return
	}

	assets, _ := doc["assets"].(map[string]interface{})
	entry, _ := assets[slot.String()].(map[string]interface{})
	assetID, _ := entry["assetId"].(string)
	if assetID == "" {
		return
	}

	if err := uc.cms.DeleteAsset(ctx, assetID); err != nil {
		uc.log.Warn("failed to delete old asset, it may have already been removed",
			zap.String("cluster_id", clusterID),
			zap.String("asset_id", assetID),
			zap.Error(err))
		return
	}
	uc.log.Info("deleted old asset", zap.String("cluster_id", clusterID), zap.String("asset_id", assetID))
}

// ResolveFolder returns the id of the cluster's storage subfolder, creating
// it under the configured parent on first use. Two concurrent first uploads
// can race on creation; the loser re-lists and adopts the winner's folder.
func (uc *AssetUsecase) ResolveFolder(ctx context.Context, clusterID string) (string, error) {
	if id, err := uc.findFolder(ctx, clusterID); err != nil || id != "" {
		return id, err
	}

	folder, err := uc.cms.CreateAssetFolder(ctx, clusterID)
	if err == nil {
		return folder.ID, nil
	}
	if !apperrors.IsConflict(err) {
		return "", err
	}

	uc.log.Warn("asset folder creation conflict, re-listing", zap.String("cluster_id", clusterID))
	id, lookupErr := uc.findFolder(ctx, clusterID)
	if lookupErr != nil {
		return "", lookupErr
	}
	if id == "" {
		return "", apperrors.NewUnavailableError("asset folder unresolved, please retry the upload").WithCause(err)
	}
	return id, nil
}

// findFolder pages through all folders looking for one named by the cluster
// id. Returns "" when absent.
func (uc *AssetUsecase) findFolder(ctx context.Context, clusterID string) (string, error) {
	offset := 0
	for {
		folders, total, err := uc.cms.ListAssetFolders(ctx, offset, folderPageLimit)
		if err != nil {
			return "", err
		}
		for _, folder := range folders {
			if folder.DisplayName == clusterID {
				return folder.ID, nil
			}
		}
		if offset+len(folders) >= total || len(folders) == 0 {
			return "", nil
		}
		offset += folderPageLimit
	}
}

// CleanupClusterAssets deletes every asset inside the cluster's folder. The
// folder itself cannot be deleted through the remote API and is left empty.
func (uc *AssetUsecase) CleanupClusterAssets(ctx context.Context, clusterID string) error {
	folderID, err := uc.findFolder(ctx, clusterID)
	if err != nil {
		return err
	}
	if folderID == "" {
		uc.log.Info("no asset folder found, cleanup skipped", zap.String("cluster_id", clusterID))
		return nil
	}

	folder, err := uc.cms.GetAssetFolder(ctx, folderID)
	if err != nil {
		return err
	}

	for _, assetID := range folder.Assets {
		if err := uc.cms.DeleteAsset(ctx, assetID); err != nil {
			uc.log.Warn("failed to delete asset during cleanup",
				zap.String("cluster_id", clusterID),
				zap.String("asset_id", assetID),
				zap.Error(err))
		}
	}
	uc.log.Info("asset cleanup finished",
		zap.String("cluster_id", clusterID),
		zap.Int("assets", len(folder.Assets)))
	return nil
}

// patchItemField overwrites one field with the new URL while resending the
// complete field-data object, since a partial patch would clear the other
// fields.
func (uc *AssetUsecase) patchItemField(ctx context.Context, itemID, field, value string) (*model.Item, error) {
	item, err := uc.cms.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	fieldData := item.FieldData
	if fieldData == nil {
		fieldData = map[string]interface{}{}
	}
	fieldData[field] = value
	return uc.cms.UpdateItem(ctx, itemID, fieldData)
}

func (uc *AssetUsecase) hashFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

func (uc *AssetUsecase) removeTempFile(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		uc.log.Warn("failed to remove temp upload file", zap.String("path", path), zap.Error(err))
	}
}
