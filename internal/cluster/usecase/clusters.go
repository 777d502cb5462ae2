package usecase

import (
	"context"
	"fmt"
	"strings"

	"sclhub-api/internal/cluster/config"
	"sclhub-api/internal/cluster/domain/model"
	"sclhub-api/internal/cluster/domain/repository"
	apperrors "sclhub-api/internal/shared/errors"

	"go.uber.org/zap"
)

// CreateClusterInput carries the user-supplied fields for a new cluster.
type CreateClusterInput struct {
	Name             string `json:"name"`
	ShortDescription string `json:"short-description"`
	Description      string `json:"description"`
	Location         string `json:"location"`
	Game             string `json:"game"`
	Platform         string `json:"platform"`
	DiscordURL       string `json:"discord-link"`
}

// ClusterDetails is the combined admin view of one cluster.
type ClusterDetails struct {
	Item     *model.Item            `json:"webflow"`
	OwnerUID string                 `json:"ownerUid"`
	Assets   map[string]interface{} `json:"assets"`
}

// PublishResult reports an accepted publish request. Publishing is
// asynchronous; LiveURL is where the cluster will appear once live.
type PublishResult struct {
	LiveURL string `json:"publishedUrl"`
}

// ClusterUsecaseInterface exposes the cluster facade to the HTTP layer.
type ClusterUsecaseInterface interface {
	Create(ctx context.Context, principal *repository.Principal, input CreateClusterInput) (*model.Item, error)
	Get(ctx context.Context, principal *repository.Principal, clusterID string) (*model.Item, error)
	List(ctx context.Context, principal *repository.Principal) ([]model.Item, error)
	Update(ctx context.Context, principal *repository.Principal, clusterID string, fields map[string]interface{}) (*model.Item, error)
	Delete(ctx context.Context, principal *repository.Principal, clusterID string) error
	Publish(ctx context.Context, principal *repository.Principal, clusterID string) (*PublishResult, error)
	GetDetails(ctx context.Context, clusterID string) (*ClusterDetails, error)
}

// ClusterUsecase composes the CMS client and the document store into the
// create/read/update/delete/publish operations on a cluster, enforcing
// ownership for non-admin callers. A nil principal means the admin surface,
// which bypasses the ownership check.
type ClusterUsecase struct {
	cms    repository.CMSClient
	store  repository.DocumentStore
	assets AssetUsecaseInterface
	cfg    *config.Config
	log    *zap.Logger
}

// NewClusterUsecase creates the cluster facade.
func NewClusterUsecase(cms repository.CMSClient, store repository.DocumentStore, assets AssetUsecaseInterface, cfg *config.Config, log *zap.Logger) *ClusterUsecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &ClusterUsecase{
		cms:    cms,
		store:  store,
		assets: assets,
		cfg:    cfg,
		log:    log.With(zap.String("component", "clusters")),
	}
}

// writableFields are the field slugs callers may set directly. Slug and
// owner uid are derived/assigned, never written by clients; image links are
// owned by the upload pipeline.
var writableFields = map[string]bool{
	model.FieldName:             true,
	model.FieldShortDescription: true,
	model.FieldDescription:      true,
	model.FieldLocation:         true,
	model.FieldGame:             true,
	model.FieldPlatform:         true,
	model.FieldDiscordURL:       true,
}

// Create validates required fields, derives the slug, creates the CMS item
// and links it to the owner's document.
func (uc *ClusterUsecase) Create(ctx context.Context, principal *repository.Principal, input CreateClusterInput) (*model.Item, error) {
	if principal == nil || principal.UID == "" {
		return nil, apperrors.NewAuthorizationError("authentication required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("name is required")
	}
	if strings.TrimSpace(input.ShortDescription) == "" {
		return nil, apperrors.NewValidationError("short description is required")
	}

	fieldData := map[string]interface{}{
		model.FieldName:             input.Name,
		model.FieldSlug:             model.Slugify(input.Name),
		model.FieldShortDescription: input.ShortDescription,
		model.FieldDescription:      input.Description,
		model.FieldLocation:         input.Location,
		model.FieldGame:             input.Game,
		model.FieldPlatform:         input.Platform,
		model.FieldDiscordURL:       input.DiscordURL,
		model.FieldOwnerUID:         principal.UID,
	}

	item, err := uc.cms.CreateItem(ctx, fieldData)
	if err != nil {
		return nil, err
	}

	// Atomic array-union, so concurrent creates by the same principal never
	// clobber each other's cluster lists.
	err = uc.store.ArrayUnion(ctx, repository.UsersCollection, principal.UID, repository.ClustersField, item.ID)
	if err != nil {
		uc.log.Error("failed to link cluster to owner",
			zap.String("cluster_id", item.ID),
			zap.String("owner_uid", principal.UID),
			zap.Error(err))
		return nil, apperrors.NewInternalError("failed to link cluster to owner").WithCause(err)
	}

	uc.log.Info("cluster created", zap.String("cluster_id", item.ID), zap.String("owner_uid", principal.UID))
	return item, nil
}

// Get returns one cluster after an ownership check.
func (uc *ClusterUsecase) Get(ctx context.Context, principal *repository.Principal, clusterID string) (*model.Item, error) {
	if err := uc.checkOwnership(ctx, principal, clusterID); err != nil {
		return nil, err
	}
	item, err := uc.cms.GetItem(ctx, clusterID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFoundError("cluster")
		}
		return nil, err
	}
	return item, nil
}

// List returns the clusters owned by the principal. The full remote
// collection is fetched and filtered; acceptable until collection size
// demands windowing.
func (uc *ClusterUsecase) List(ctx context.Context, principal *repository.Principal) ([]model.Item, error) {
	if principal == nil || principal.UID == "" {
		return nil, apperrors.NewAuthorizationError("authentication required")
	}

	owned, err := uc.ownedClusterIDs(ctx, principal.UID)
	if err != nil {
		return nil, err
	}
	if len(owned) == 0 {
		return []model.Item{}, nil
	}

	items, err := uc.cms.ListItems(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]model.Item, 0, len(owned))
	for _, item := range items {
		if owned[item.ID] {
			result = append(result, item)
		}
	}
	return result, nil
}

// Update merges the supplied fields over the item's current field data,
// recomputes the slug and resends the entire field set, because the CMS
// replaces the whole field-data object on update.
func (uc *ClusterUsecase) Update(ctx context.Context, principal *repository.Principal, clusterID string, fields map[string]interface{}) (*model.Item, error) {
	if err := uc.checkOwnership(ctx, principal, clusterID); err != nil {
		return nil, err
	}

	for key := range fields {
		if !writableFields[key] {
			return nil, apperrors.NewValidationError(fmt.Sprintf("field %q cannot be updated", key))
		}
	}

	item, err := uc.cms.GetItem(ctx, clusterID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFoundError("cluster")
		}
		return nil, err
	}

	fieldData := item.FieldData
	if fieldData == nil {
		fieldData = map[string]interface{}{}
	}
	for key, value := range fields {
		fieldData[key] = value
	}
	if name, ok := fieldData[model.FieldName].(string); ok {
		fieldData[model.FieldSlug] = model.Slugify(name)
	}

	updated, err := uc.cms.UpdateItem(ctx, clusterID, fieldData)
	if err != nil {
		return nil, err
	}
	uc.log.Info("cluster updated", zap.String("cluster_id", clusterID))
	return updated, nil
}

// Delete removes the cluster: best-effort asset cleanup, best-effort CMS
// item delete, then the owner unlink and the asset-index removal, which must
// succeed. A failed storage cleanup never blocks removal of the
// user-visible record.
func (uc *ClusterUsecase) Delete(ctx context.Context, principal *repository.Principal, clusterID string) error {
	if err := uc.checkOwnership(ctx, principal, clusterID); err != nil {
		return err
	}

	ownerUID := ""
	if principal != nil {
		ownerUID = principal.UID
	}
	if item, err := uc.cms.GetItem(ctx, clusterID); err == nil {
		if uid := item.OwnerUID(); uid != "" {
			ownerUID = uid
		}
	} else {
		uc.log.Warn("could not fetch CMS item, it may already be deleted",
			zap.String("cluster_id", clusterID), zap.Error(err))
	}

	if err := uc.assets.CleanupClusterAssets(ctx, clusterID); err != nil {
		uc.log.Warn("asset cleanup failed, continuing with delete",
			zap.String("cluster_id", clusterID), zap.Error(err))
	}

	if err := uc.cms.DeleteItem(ctx, clusterID); err != nil && !apperrors.IsNotFound(err) {
		uc.log.Warn("failed to delete CMS item, continuing with delete",
			zap.String("cluster_id", clusterID), zap.Error(err))
	}

	if ownerUID != "" {
		err := uc.store.ArrayRemove(ctx, repository.UsersCollection, ownerUID, repository.ClustersField, clusterID)
		if err != nil {
			return apperrors.NewInternalError("failed to unlink cluster from owner").WithCause(err)
		}
	}

	if err := uc.store.Delete(ctx, repository.ClustersCollection, clusterID); err != nil {
		return apperrors.NewInternalError("failed to remove cluster asset index").WithCause(err)
	}

	uc.log.Info("cluster deleted", zap.String("cluster_id", clusterID), zap.String("owner_uid", ownerUID))
	return nil
}

// Publish requests publication of the cluster and returns its live URL.
// Success means the publish was accepted, not that the item is live yet.
func (uc *ClusterUsecase) Publish(ctx context.Context, principal *repository.Principal, clusterID string) (*PublishResult, error) {
	if err := uc.checkOwnership(ctx, principal, clusterID); err != nil {
		return nil, err
	}

	item, err := uc.cms.GetItem(ctx, clusterID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFoundError("cluster")
		}
		return nil, err
	}

	if err := uc.cms.PublishItems(ctx, []string{clusterID}); err != nil {
		return nil, err
	}

	return &PublishResult{
		LiveURL: uc.cfg.PublicSiteBaseURL + "/" + item.Slug(),
	}, nil
}

// GetDetails returns the combined admin view: the CMS item, the owner uid
// stored on it, and the asset index.
func (uc *ClusterUsecase) GetDetails(ctx context.Context, clusterID string) (*ClusterDetails, error) {
	item, err := uc.cms.GetItem(ctx, clusterID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFoundError("cluster")
		}
		return nil, err
	}

	assets := map[string]interface{}{}
	doc, found, err := uc.store.Get(ctx, repository.ClustersCollection, clusterID)
	if err != nil {
		uc.log.Warn("failed to read asset index", zap.String("cluster_id", clusterID), zap.Error(err))
	} else if found {
		if m, ok := doc["assets"].(map[string]interface{}); ok {
			assets = m
		}
	}

	return &ClusterDetails{
		Item:     item,
		OwnerUID: item.OwnerUID(),
		Assets:   assets,
	}, nil
}

// checkOwnership verifies the principal's document lists the cluster. A nil
// principal is the admin surface and bypasses the check.
func (uc *ClusterUsecase) checkOwnership(ctx context.Context, principal *repository.Principal, clusterID string) error {
	if principal == nil {
		return nil
	}
	if principal.UID == "" {
		return apperrors.NewAuthorizationError("authentication required")
	}

	owned, err := uc.ownedClusterIDs(ctx, principal.UID)
	if err != nil {
		return err
	}
	if !owned[clusterID] {
		return apperrors.NewAuthorizationError("you do not own this cluster")
	}
	return nil
}

func (uc *ClusterUsecase) ownedClusterIDs(ctx context.Context, uid string) (map[string]bool, error) {
	doc, found, err := uc.store.Get(ctx, repository.UsersCollection, uid)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to read owner record").WithCause(err)
	}
	owned := map[string]bool{}
	if !found {
		return owned, nil
	}
	list, _ := doc[repository.ClustersField].([]interface{})
	for _, v := range list {
		if id, ok := v.(string); ok {
			owned[id] = true
		}
	}
	return owned, nil
}
