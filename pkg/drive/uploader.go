package drive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"jewel-backoffice-be/internal/pkg/logger"
)

// graphqlExecutor is the slice of the Shopify client the uploader
// needs.
type graphqlExecutor interface {
	Execute(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error)
}

const stagedUploadsCreateMutation = `
mutation stagedUploadsCreate($input: [StagedUploadInput!]!) {
  stagedUploadsCreate(input: $input) {
    stagedTargets {
      url
      resourceUrl
      parameters {
        name
        value
      }
    }
    userErrors {
      field
      message
    }
  }
}`

type stagedTarget struct {
	URL         string `json:"url"`
	ResourceURL string `json:"resourceUrl"`
	Parameters  []struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	} `json:"parameters"`
}

// CDNUploader moves image bytes onto the Shopify CDN via the staged
// upload flow: reserve a target, then POST the file as multipart form
// data.
type CDNUploader struct {
	shopify graphqlExecutor
	client  *http.Client
	log     logger.ILogger
}

func NewCDNUploader(shopify graphqlExecutor, log logger.ILogger) *CDNUploader {
	return &CDNUploader{
		shopify: shopify,
		client:  &http.Client{Timeout: 60 * time.Second},
		log:     log,
	}
}

// Upload pushes one image and returns its CDN resource URL.
func (u *CDNUploader) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	mimeType := DetectMIME(data)

	target, err := u.createStagedTarget(ctx, filename, mimeType, len(data))
	if err != nil {
		return "", err
	}

	if err := u.postFile(ctx, target, filename, mimeType, data); err != nil {
		return "", err
	}

	if u.log != nil {
		u.log.Info("drive", "image uploaded to cdn", map[string]interface{}{
			"filename": filename,
			"bytes":    len(data),
			"url":      target.ResourceURL,
		})
	}
	return target.ResourceURL, nil
}

func (u *CDNUploader) createStagedTarget(ctx context.Context, filename, mimeType string, size int) (*stagedTarget, error) {
	variables := map[string]any{
		"input": []map[string]any{{
			"resource":   "IMAGE",
			"filename":   filename,
			"mimeType":   mimeType,
			"httpMethod": "POST",
			"fileSize":   fmt.Sprintf("%d", size),
		}},
	}

	data, err := u.shopify.Execute(ctx, stagedUploadsCreateMutation, variables)
	if err != nil {
		return nil, fmt.Errorf("staged upload: %w", err)
	}

	var payload struct {
		StagedUploadsCreate struct {
			StagedTargets []stagedTarget `json:"stagedTargets"`
			UserErrors    []struct {
				Message string `json:"message"`
			} `json:"userErrors"`
		} `json:"stagedUploadsCreate"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("staged upload: decode response: %w", err)
	}
	if errs := payload.StagedUploadsCreate.UserErrors; len(errs) > 0 {
		return nil, fmt.Errorf("staged upload: %s", errs[0].Message)
	}
	if len(payload.StagedUploadsCreate.StagedTargets) == 0 {
		return nil, fmt.Errorf("staged upload: no staged targets returned")
	}
	return &payload.StagedUploadsCreate.StagedTargets[0], nil
}

func (u *CDNUploader) postFile(ctx context.Context, target *stagedTarget, filename, mimeType string, data []byte) error {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	// Staged upload parameters have to precede the file part.
	for _, p := range target.Parameters {
		if err := form.WriteField(p.Name, p.Value); err != nil {
			return fmt.Errorf("staged upload: form field %s: %w", p.Name, err)
		}
	}
	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("staged upload: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("staged upload: %w", err)
	}
	if err := form.Close(); err != nil {
		return fmt.Errorf("staged upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.URL, &body)
	if err != nil {
		return fmt.Errorf("staged upload: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := u.client.Do(req)
	if err != nil {
		return fmt.Errorf("staged upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusNoContent {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("staged upload: http %d: %s", resp.StatusCode, msg)
	}
	return nil
}
