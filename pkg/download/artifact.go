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

package download

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/viveksahu26/sw360sync/pkg/logger"
	"github.com/viveksahu26/sw360sync/pkg/tree"
)

// maxArtifactSize bounds a downloaded artifact. Larger artifacts fail.
var maxArtifactSize int64 = 512 << 20

// ArtifactDownloader fetches the source artifact of a package. Zip and
// gzip tarball artifacts are unpacked, anything else is stored as is.
type ArtifactDownloader struct {
	client *http.Client
}

func NewArtifactDownloader(client *http.Client) *ArtifactDownloader {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Minute}
	}
	return &ArtifactDownloader{client: client}
}

func (a *ArtifactDownloader) Download(ctx context.Context, pkg *tree.Package, dir string) error {
	artifact := pkg.SourceArtifact
	if strings.TrimSpace(artifact.URL) == "" {
		return ErrNoSource
	}
	logger.LogDebug(ctx, "Downloading source artifact", "package", pkg.ID.String(), "url", artifact.URL)

	data, err := fetch(ctx, a.client, artifact.URL)
	if err != nil {
		return err
	}
	if err := verifySHA1(data, artifact.Hash); err != nil {
		return fmt.Errorf("source artifact %s: %w", artifact.URL, err)
	}

	name := artifactName(artifact.URL)
	switch {
	case strings.HasSuffix(name, ".zip") || strings.HasSuffix(name, ".jar"):
		return extractZip(data, dir, false)
	case strings.HasSuffix(name, ".tar.gz") || strings.HasSuffix(name, ".tgz") || strings.HasSuffix(name, ".crate"):
		return extractTarGz(bytes.NewReader(data), dir)
	default:
		return os.WriteFile(filepath.Join(dir, name), data, 0o644)
	}
}

func fetch(ctx context.Context, client *http.Client, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %d", rawURL, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxArtifactSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rawURL, err)
	}
	if int64(len(data)) > maxArtifactSize {
		return nil, fmt.Errorf("fetching %s: artifact exceeds %d bytes", rawURL, maxArtifactSize)
	}
	return data, nil
}

// verifySHA1 checks data against a SHA-1 hash. Other algorithms are not
// checked.
func verifySHA1(data []byte, hash tree.Hash) error {
	if hash.Value == "" || !strings.EqualFold(strings.ReplaceAll(hash.Algorithm, "-", ""), "SHA1") {
		return nil
	}
	sum := sha1.Sum(data)
	if got := hex.EncodeToString(sum[:]); !strings.EqualFold(got, hash.Value) {
		return fmt.Errorf("sha1 mismatch: want %s, got %s", hash.Value, got)
	}
	return nil
}

func artifactName(rawURL string) string {
	name := "artifact"
	if u, err := url.Parse(rawURL); err == nil {
		if base := path.Base(u.Path); base != "/" && base != "." && base != "" {
			name = base
		}
	}
	return name
}
