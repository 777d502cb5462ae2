package webflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"sclhub-api/internal/cluster/domain/repository"
	apperrors "sclhub-api/internal/shared/errors"

	"go.uber.org/zap"
)

// registerAssetResponse tolerates the two shapes the remote API has used for
// the upload target: uploadDetails/hostedUrl and fields/url.
type registerAssetResponse struct {
	ID            string            `json:"id"`
	UploadURL     string            `json:"uploadUrl"`
	UploadDetails map[string]string `json:"uploadDetails"`
	Fields        map[string]string `json:"fields"`
	HostedURL     string            `json:"hostedUrl"`
	URL           string            `json:"url"`
}

// RegisterAsset registers new asset metadata with the CMS and returns the
// upload target for the raw bytes.
func (c *Client) RegisterAsset(ctx context.Context, reg repository.AssetRegistration) (*repository.RegisteredAsset, error) {
	url := fmt.Sprintf("%s/sites/%s/assets", c.baseURL, c.siteID)

	var resp registerAssetResponse
	if err := c.doJSON(ctx, "POST", url, reg, &resp); err != nil {
		return nil, err
	}

	details := resp.UploadDetails
	if details == nil {
		details = resp.Fields
	}
	if resp.UploadURL == "" || details == nil {
		return nil, apperrors.NewInternalError("invalid asset upload details from CMS").
			WithComponent(componentName)
	}
	hosted := resp.HostedURL
	if hosted == "" {
		hosted = resp.URL
	}

	c.log.Info("registered asset",
		zap.String("asset_id", resp.ID),
		zap.String("file_name", reg.FileName))

	return &repository.RegisteredAsset{
		ID:            resp.ID,
		UploadURL:     resp.UploadURL,
		UploadDetails: details,
		HostedURL:     hosted,
	}, nil
}

// UploadAssetFile streams the raw file bytes, together with the required
// presigned form fields, to the upload target. The file is never fully
// buffered in memory. Any 2xx status is success; the upload endpoint has
// answered 200, 201 and 204 across remote API revisions.
func (c *Client) UploadAssetFile(ctx context.Context, uploadURL string, details map[string]string, file io.Reader, fileName string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)

	go func() {
		var err error
		defer func() { pw.CloseWithError(err) }()
		for key, value := range details {
			if err = form.WriteField(key, value); err != nil {
				return
			}
		}
		var part io.Writer
		if part, err = form.CreateFormFile("file", fileName); err != nil {
			return
		}
		if _, err = io.Copy(part, file); err != nil {
			return
		}
		err = form.Close()
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, pr)
	if err != nil {
		return apperrors.NewInternalError("failed to build upload request").WithCause(err).WithComponent(componentName)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return apperrors.NewUnavailableError("asset upload timed out").WithCause(err).WithComponent(componentName)
		}
		return apperrors.NewUnavailableError("asset storage unreachable").WithCause(err).WithComponent(componentName)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperrors.NewInternalError("asset upload failed").
			WithCause(fmt.Errorf("upload returned status %d", resp.StatusCode)).
			WithComponent(componentName)
	}
	c.log.Info("uploaded asset bytes", zap.String("file_name", fileName), zap.Int("status", resp.StatusCode))
	return nil
}

// DeleteAsset removes one asset by id.
func (c *Client) DeleteAsset(ctx context.Context, assetID string) error {
	url := fmt.Sprintf("%s/assets/%s", c.baseURL, assetID)
	return c.doJSON(ctx, "DELETE", url, nil, nil)
}
