// Copyright 2025 Interlynk.io
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sw360

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"github.com/viveksahu26/sw360sync/pkg/logger"
)

// ReleaseClient accesses /releases.
type ReleaseClient struct {
	c *Client
}

func (rc *ReleaseClient) Create(ctx context.Context, draft *Release) (*Release, error) {
	body, err := rc.c.postJSON(ctx, "create release", rc.c.url(pathReleases), draft)
	if err != nil {
		return nil, err
	}
	return &Release{Document: newDocumentBytes(body)}, nil
}

func (rc *ReleaseClient) Get(ctx context.Context, id string) (*Release, error) {
	body, err := rc.c.get(ctx, "get release", rc.c.url(pathReleases, id))
	if err != nil {
		return nil, err
	}
	return &Release{Document: newDocumentBytes(body)}, nil
}

func (rc *ReleaseClient) List(ctx context.Context) ([]*Release, error) {
	body, err := rc.c.get(ctx, "list releases", rc.c.url(pathReleases))
	if err != nil {
		return nil, err
	}
	return releasesOf(newDocumentBytes(body)), nil
}

func (rc *ReleaseClient) Update(ctx context.Context, id string, patch *Release) (*Release, error) {
	body, err := rc.c.patchJSON(ctx, "update release", rc.c.url(pathReleases, id), patch)
	if err != nil {
		return nil, err
	}
	return &Release{Document: newDocumentBytes(body)}, nil
}

func (rc *ReleaseClient) Delete(ctx context.Context, id string) error {
	_, err := rc.c.delete(ctx, "delete release", rc.c.url(pathReleases, id))
	return err
}

// CreateRelationships links child releases to the release. The catalog
// answers without a usable body; read the release again to observe the
// result.
func (rc *ReleaseClient) CreateRelationships(ctx context.Context, id string, relationships map[string]string) error {
	_, err := rc.c.postJSON(ctx, "create release relationships", rc.c.url(pathReleases, id, pathReleases), relationships)
	return err
}

// DeleteAttachment removes one attachment and returns the updated release.
func (rc *ReleaseClient) DeleteAttachment(ctx context.Context, id, attachmentID string) (*Release, error) {
	body, err := rc.c.delete(ctx, "delete attachment", rc.c.url(pathReleases, id, "attachments", attachmentID))
	if err != nil {
		return nil, err
	}
	return &Release{Document: newDocumentBytes(body)}, nil
}

func (rc *ReleaseClient) AttachSource(ctx context.Context, id, filePath string) (*Release, error) {
	return rc.Attach(ctx, id, filePath, MediaTypeZip, AttachmentSource)
}

func (rc *ReleaseClient) AttachComponentLicenseInfo(ctx context.Context, id, filePath string) (*Release, error) {
	return rc.Attach(ctx, id, filePath, MediaTypeXML, AttachmentComponentLicenseInfoXML)
}

func (rc *ReleaseClient) AttachLicenseText(ctx context.Context, id, filePath string) (*Release, error) {
	return rc.Attach(ctx, id, filePath, MediaTypeText, AttachmentDocument)
}

// Attach uploads filePath as an attachment of the release.
func (rc *ReleaseClient) Attach(ctx context.Context, id, filePath, mediaType, attachmentType string) (*Release, error) {
	logger.LogDebug(ctx, "Uploading attachment", "release", id, "file", filePath, "type", attachmentType)

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("reading attachment %s: %w", filePath, err)
	}

	body, contentType, err := prepareAttachmentForm(filepath.Base(filePath), data, mediaType, attachmentType)
	if err != nil {
		return nil, err
	}

	resp, err := rc.c.do(ctx, "attach file", http.MethodPost, rc.c.url(pathReleases, id, "attachments"), body.Bytes(), contentType)
	if err != nil {
		return nil, err
	}
	return &Release{Document: newDocumentBytes(resp)}, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func prepareAttachmentForm(filename string, data []byte, mediaType, attachmentType string) (*bytes.Buffer, string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	fileHeader := make(textproto.MIMEHeader)
	fileHeader.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(filename)))
	fileHeader.Set("Content-Type", mediaType)
	part, err := writer.CreatePart(fileHeader)
	if err != nil {
		return nil, "", fmt.Errorf("creating file part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", fmt.Errorf("writing file part: %w", err)
	}

	meta, err := json.Marshal(map[string]string{
		"filename":       filename,
		"attachmentType": attachmentType,
	})
	if err != nil {
		return nil, "", fmt.Errorf("encoding attachment metadata: %w", err)
	}

	metaHeader := make(textproto.MIMEHeader)
	metaHeader.Set("Content-Disposition", `form-data; name="attachment"`)
	metaHeader.Set("Content-Type", MediaTypeJSON)
	part, err = writer.CreatePart(metaHeader)
	if err != nil {
		return nil, "", fmt.Errorf("creating attachment part: %w", err)
	}
	if _, err := part.Write(meta); err != nil {
		return nil, "", fmt.Errorf("writing attachment part: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("closing multipart writer: %w", err)
	}
	return &body, writer.FormDataContentType(), nil
}
