// Package nix implements the package index, shell factory and realizer ports on top of NixHub and the Nix CLI.
package nix

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.trai.ch/devshell/internal/core/domain"
	"go.trai.ch/devshell/internal/core/ports"
	"go.trai.ch/zerr"
	nixstore "zombiezen.com/go/nix"
)

// Index implements ports.PackageIndex using the NixHub API with local caching.
type Index struct {
	cacheDir   string
	baseURL    string
	httpClient *http.Client
	licenses   ports.LicenseProbe
}

// NewIndex creates a PackageIndex backed by the NixHub API.
// licenses may be nil, in which case every package is reported as free.
func NewIndex(settings domain.Settings, licenses ports.LicenseProbe) (*Index, error) {
	return NewIndexWithClient(
		domain.NixHubCachePath(settings.CacheDir),
		settings.IndexURL,
		newHTTPClient(settings.HTTPTimeout, settings.HTTPRetries),
		licenses,
	)
}

// newHTTPClient returns a client retrying connection errors, 429 and 5xx responses
// with exponential backoff. The last response is handed back unchanged once retries
// are exhausted so its status can be classified.
func newHTTPClient(timeout time.Duration, retries int) *http.Client {
	retryClient := retryablehttp.NewClient()
	retryClient.Logger = nil
	retryClient.HTTPClient = &http.Client{Timeout: timeout}
	retryClient.RetryMax = retries
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	return retryClient.StandardClient()
}

// NewIndexWithClient creates an Index with a custom http client and cache path.
func NewIndexWithClient(cacheDir, baseURL string, client *http.Client, licenses ports.LicenseProbe) (*Index, error) {
	cleanPath := filepath.Clean(cacheDir)
	if err := os.MkdirAll(cleanPath, domain.DirPerm); err != nil {
		return nil, zerr.Wrap(err, domain.ErrNixCacheCreateFailed.Error())
	}
	if baseURL == "" {
		baseURL = domain.DefaultIndexURL
	}

	return &Index{
		cacheDir:   cleanPath,
		baseURL:    baseURL,
		httpClient: client,
		licenses:   licenses,
	}, nil
}

// Lookup resolves a request to a nixpkgs revision and attribute path for platform.
// It checks the cache first, then queries the NixHub API if needed.
func (i *Index) Lookup(
	ctx context.Context,
	platform domain.Platform,
	req domain.PackageRequest,
) (domain.PackageRef, error) {
	if !platform.IsSupported() {
		return domain.PackageRef{}, zerr.With(zerr.Wrap(domain.ErrUnsupportedPlatform, "cannot look up package"), "platform", platform.String())
	}

	name := req.QualifiedName()
	version := req.Version
	if version == "" {
		version = domain.LatestVersion
	}

	cachePath := filepath.Join(i.cacheDir, getHash(name+"@"+version)+".json")

	var entry cacheEntry
	if err := readJSON(cachePath, &entry); err != nil {
		resp, err := i.queryNixHub(ctx, name, version)
		if err != nil {
			return domain.PackageRef{}, err
		}
		entry = newCacheEntry(name, version, resp)

		// The cache is an optimization; a failed write does not fail the lookup.
		_ = writeJSON(cachePath, entry)
	}

	system, ok := entry.Systems[platform.String()]
	if !ok {
		notFound := zerr.With(zerr.Wrap(domain.ErrPackageNotFound, "package is not available for platform"), "package", name)
		notFound = zerr.With(notFound, "version", version)
		return domain.PackageRef{}, zerr.With(notFound, "platform", platform.String())
	}

	storePath, err := defaultOutputPath(system.Outputs)
	if err != nil {
		return domain.PackageRef{}, zerr.With(err, "package", name)
	}

	ref := domain.PackageRef{
		Name:      req.Name,
		Scope:     req.Scope,
		Version:   entry.Version,
		Rev:       system.FlakeInstallable.Ref.Rev,
		AttrPath:  system.FlakeInstallable.AttrPath,
		StorePath: storePath,
	}

	if i.licenses != nil {
		unfree, err := i.licenses.IsUnfree(ctx, ref)
		if err != nil {
			return domain.PackageRef{}, zerr.With(err, "package", name)
		}
		ref.Unfree = unfree
	}

	return ref, nil
}

// newCacheEntry keeps the supported systems of a NixHub response.
func newCacheEntry(name, requested string, resp *NixHubResponse) cacheEntry {
	systems := make(map[string]SystemCache)
	for sysName, sysData := range resp.Systems {
		if !domain.Platform(sysName).IsSupported() {
			continue
		}
		systems[sysName] = SystemCache{
			FlakeInstallable: sysData.FlakeInstallable,
			Outputs:          sysData.Outputs,
		}
	}

	version := resp.Version
	if version == "" {
		version = requested
	}

	return cacheEntry{
		Name:      name,
		Requested: requested,
		Version:   version,
		Systems:   systems,
		Timestamp: time.Now(),
	}
}

// defaultOutputPath returns the store path of the default output, validated against the store layout.
func defaultOutputPath(outputs []Output) (string, error) {
	var path string
	for _, out := range outputs {
		if out.Default || (path == "" && out.Name == "out") {
			path = out.Path
		}
	}
	if path == "" {
		return "", nil
	}

	storePath, err := nixstore.ParseStorePath(path)
	if err != nil {
		return "", zerr.With(zerr.Wrap(domain.ErrInvalidStorePath, err.Error()), "path", path)
	}
	return string(storePath), nil
}

// queryNixHub queries the NixHub API to resolve a package version.
func (i *Index) queryNixHub(ctx context.Context, name, version string) (*NixHubResponse, error) {
	query := url.Values{}
	query.Set("name", name)
	query.Set("version", version)
	endpoint := i.baseURL + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, zerr.Wrap(domain.ErrNixAPIRequestFailed, err.Error())
	}

	resp, err := i.httpClient.Do(req)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrNixAPIRequestFailed, err.Error()), "package", name)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		notFound := zerr.With(zerr.Wrap(domain.ErrPackageNotFound, "unknown to NixHub"), "package", name)
		return nil, zerr.With(notFound, "version", version)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := zerr.With(zerr.Wrap(domain.ErrNixAPIRequestFailed, resp.Status), "status_code", resp.StatusCode)
		apiErr = zerr.With(apiErr, "package", name)
		return nil, zerr.With(apiErr, "version", version)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, zerr.Wrap(domain.ErrNixAPIRequestFailed, err.Error())
	}

	var apiResp NixHubResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrNixAPIParseFailed, err.Error()), "package", name)
	}

	if len(apiResp.Systems) == 0 {
		notFound := zerr.With(zerr.Wrap(domain.ErrPackageNotFound, "no systems published"), "package", name)
		return nil, zerr.With(notFound, "version", version)
	}

	return &apiResp, nil
}

var _ ports.PackageIndex = (*Index)(nil)
