// internal/ingest/ingest.go
// Package ingest fetches a remote repository and flattens it into a single
// text blob suitable for segmenting and indexing.
package ingest

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mwiater/repochat/internal/logging"
)

var (
	// ErrInvalidURL is returned for repository URLs outside the recognized
	// hosting-service pattern. Checked before any network call.
	ErrInvalidURL = errors.New("ingest: invalid repository URL")
	// ErrEmptyCorpus is returned when a fetch yields no usable text.
	ErrEmptyCorpus = errors.New("ingest: repository produced no usable text")
)

// maxFileBytes caps how much of a single file is ingested. Larger files are
// skipped outright; they are almost always generated artifacts.
const maxFileBytes = 512 * 1024

// Fetcher turns a repository URL into one flattened text blob.
type Fetcher interface {
	Fetch(ctx context.Context, repoURL string) (string, error)
}

// GitHubFetcher downloads a repository's default-branch tarball from the
// GitHub API and flattens its text files.
type GitHubFetcher struct {
	client  *http.Client
	baseURL string
}

// NewGitHubFetcher returns a fetcher whose requests are bounded by timeout.
func NewGitHubFetcher(timeout time.Duration) *GitHubFetcher {
	return &GitHubFetcher{
		client:  &http.Client{Timeout: timeout},
		baseURL: "https://api.github.com",
	}
}

// ValidURL reports whether u matches the recognized GitHub URL pattern.
func ValidURL(u string) bool {
	return strings.HasPrefix(u, "https://github.com/") || strings.HasPrefix(u, "http://github.com/")
}

// RepoName extracts the repository name from its URL: the trailing path
// segment with any ".git" suffix stripped. This name, qualified by session,
// is the identity an index is registered under.
func RepoName(repoURL string) string {
	trimmed := strings.TrimRight(repoURL, "/")
	return strings.TrimSuffix(path.Base(trimmed), ".git")
}

// ownerRepo splits the URL path into its owner and repository segments.
func ownerRepo(repoURL string) (string, string, error) {
	trimmed := strings.TrimRight(repoURL, "/")
	trimmed = strings.TrimPrefix(trimmed, "https://github.com/")
	trimmed = strings.TrimPrefix(trimmed, "http://github.com/")
	parts := strings.Split(trimmed, "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidURL, repoURL)
	}
	return parts[0], strings.TrimSuffix(parts[1], ".git"), nil
}

// Fetch downloads the repository tarball and returns the flattened text of
// its files, each prefixed with a path banner. The GitHub tarball endpoint
// redirects to the default branch archive; the client follows it.
func (f *GitHubFetcher) Fetch(ctx context.Context, repoURL string) (string, error) {
	if !ValidURL(repoURL) {
		return "", fmt.Errorf("%w: %s", ErrInvalidURL, repoURL)
	}
	owner, repo, err := ownerRepo(repoURL)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/repos/%s/%s/tarball", f.baseURL, owner, repo)
	logging.LogEvent("ingesting %s/%s", owner, repo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("create tarball request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch tarball: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch tarball: %s returned %s", endpoint, resp.Status)
	}

	text, err := flattenTarball(resp.Body)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyCorpus
	}
	return text, nil
}

// flattenTarball reads a gzipped tar stream and concatenates its text files.
// Binary files, oversized files, and non-regular entries are skipped. The
// archive's top-level directory (owner-repo-sha) is stripped from banners.
func flattenTarball(r io.Reader) (string, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return "", fmt.Errorf("open tarball: %w", err)
	}
	defer gz.Close()

	var b strings.Builder
	tr := tar.NewReader(gz)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("read tarball: %w", err)
		}
		if header.Typeflag != tar.TypeReg {
			continue
		}
		if header.Size > maxFileBytes {
			continue
		}

		data, err := io.ReadAll(tr)
		if err != nil {
			return "", fmt.Errorf("read tarball entry %s: %w", header.Name, err)
		}
		if !isText(data) {
			continue
		}

		name := stripArchiveRoot(header.Name)
		b.WriteString("=== " + name + " ===\n")
		b.Write(data)
		b.WriteString("\n\n")
	}
	return b.String(), nil
}

func stripArchiveRoot(name string) string {
	if i := strings.IndexByte(name, '/'); i >= 0 {
		return name[i+1:]
	}
	return name
}

func isText(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	for _, c := range data {
		if c == 0 {
			return false
		}
	}
	return utf8.Valid(data)
}
