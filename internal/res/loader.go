package res

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/h2non/filetype"
	"go.uber.org/zap"

	"github.com/gompdf/photolog/internal/model"
)

// ErrNoImage is returned by Resolve when the reference does not lead to an
// image: the reference is empty or the asset store does not know the id.
var ErrNoImage = errors.New("no image")

// AssetGetter resolves opaque image identifiers. Unknown identifiers must be
// reported with an error wrapping fs.ErrNotExist.
type AssetGetter interface {
	GetImage(ctx context.Context, id string) ([]byte, error)
}

// Resource represents loaded raw bytes
type Resource struct {
	URL      string
	Data     []byte
	MimeType string
}

// Loader resolves image references of report entries
type Loader struct {
	// Base URL or file path for resolving relative URLs
	BaseURL string

	assets AssetGetter
	log    *zap.Logger

	// decoded image cache
	cache     map[string]*Image
	cacheLock sync.RWMutex

	searchPaths []string

	// HTTP client for remote resources
	client *http.Client
}

// NewLoader creates a new resource loader. assets may be nil when entries
// never reference stored images.
func NewLoader(baseURL string, assets AssetGetter, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{
		BaseURL:     baseURL,
		assets:      assets,
		log:         log,
		cache:       make(map[string]*Image),
		searchPaths: []string{},
		client:      &http.Client{},
	}
}

// AddSearchPath adds a directory to search for local resources
func (l *Loader) AddSearchPath(path string) {
	l.searchPaths = append(l.searchPaths, path)
}

// Resolve loads and decodes the image an entry points at. It is safe for
// concurrent use.
func (l *Loader) Resolve(ctx context.Context, ref model.ImageRef) (*Image, error) {
	if ref.IsZero() {
		return nil, ErrNoImage
	}

	key := ref.Key()
	if key != "" {
		l.cacheLock.RLock()
		img, ok := l.cache[key]
		l.cacheLock.RUnlock()
		if ok {
			return img, nil
		}
	}

	data, err := l.fetch(ctx, ref)
	if err != nil {
		return nil, err
	}

	img, err := DecodeImage(contentKey(data), data)
	if err != nil {
		return nil, fmt.Errorf("unable to decode image %q: %w", key, err)
	}

	if key != "" {
		l.cacheLock.Lock()
		l.cache[key] = img
		l.cacheLock.Unlock()
	}
	return img, nil
}

func (l *Loader) fetch(ctx context.Context, ref model.ImageRef) ([]byte, error) {
	switch {
	case len(ref.Data) > 0:
		return ref.Data, nil
	case ref.URL != "":
		r, err := l.Load(ctx, ref.URL)
		if err != nil {
			return nil, err
		}
		return r.Data, nil
	}

	if l.assets == nil {
		l.log.Debug("No asset store, treating image as absent", zap.String("asset", ref.AssetID))
		return nil, ErrNoImage
	}
	data, err := l.assets.GetImage(ctx, ref.AssetID)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoImage
	}
	if err != nil {
		return nil, fmt.Errorf("unable to read asset %q: %w", ref.AssetID, err)
	}
	return data, nil
}

// contentKey names an image by its content so equal payloads share one
// embedded object in the output document
func contentKey(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:12])
}

// Load loads raw bytes from a data URL, remote URL or file path
func (l *Loader) Load(ctx context.Context, urlStr string) (*Resource, error) {
	if strings.HasPrefix(urlStr, "data:") {
		return parseDataURL(urlStr)
	}

	resolvedURL, err := l.resolveURL(urlStr)
	if err != nil {
		return nil, err
	}

	if strings.HasPrefix(resolvedURL, "http://") || strings.HasPrefix(resolvedURL, "https://") {
		return l.loadRemote(ctx, resolvedURL)
	}
	return l.loadLocal(resolvedURL)
}

// Fetch returns the raw bytes behind urlStr
func (l *Loader) Fetch(ctx context.Context, urlStr string) ([]byte, error) {
	r, err := l.Load(ctx, urlStr)
	if err != nil {
		return nil, err
	}
	return r.Data, nil
}

// parseDataURL parses a data URL (RFC 2397) and returns a Resource.
// Examples:
//
//	data:image/png;base64,<base64>
//	data:text/plain,Hello%20World
func parseDataURL(u string) (*Resource, error) {
	if !strings.HasPrefix(u, "data:") {
		return nil, fmt.Errorf("not a data URL")
	}
	s := strings.TrimPrefix(u, "data:")
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid data URL")
	}
	meta := parts[0]
	dataPart := parts[1]

	mime := "application/octet-stream"
	isBase64 := false
	if meta != "" {
		// meta can be like: image/png;base64 or text/plain;charset=utf-8
		comps := strings.Split(meta, ";")
		if len(comps) > 0 && comps[0] != "" {
			mime = comps[0]
		}
		for _, c := range comps[1:] {
			if strings.EqualFold(strings.TrimSpace(c), "base64") {
				isBase64 = true
			}
		}
	}

	var data []byte
	var err error
	if isBase64 {
		data, err = base64.StdEncoding.DecodeString(dataPart)
		if err != nil {
			return nil, fmt.Errorf("invalid base64 data URL: %w", err)
		}
	} else {
		// The non-base64 form is URL-escaped
		if d, derr := url.QueryUnescape(dataPart); derr == nil {
			data = []byte(d)
		} else {
			data = []byte(dataPart)
		}
	}

	return &Resource{URL: "data:", Data: data, MimeType: mime}, nil
}

// resolveURL resolves a URL relative to the base URL
func (l *Loader) resolveURL(urlStr string) (string, error) {
	if strings.HasPrefix(urlStr, "http://") || strings.HasPrefix(urlStr, "https://") {
		return urlStr, nil
	}

	if filepath.IsAbs(urlStr) || l.BaseURL == "" {
		return urlStr, nil
	}

	if !strings.HasPrefix(l.BaseURL, "http://") && !strings.HasPrefix(l.BaseURL, "https://") {
		baseDir := filepath.Dir(l.BaseURL)
		return filepath.Join(baseDir, urlStr), nil
	}

	baseURL, err := url.Parse(l.BaseURL)
	if err != nil {
		return "", err
	}

	relURL, err := url.Parse(urlStr)
	if err != nil {
		return "", err
	}

	return baseURL.ResolveReference(relURL).String(), nil
}

// loadRemote loads a resource from a remote URL
func (l *Loader) loadRemote(ctx context.Context, urlStr string) (*Resource, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &Resource{
		URL:      urlStr,
		Data:     data,
		MimeType: determineMimeType(data),
	}, nil
}

// loadLocal loads a resource from a local file
func (l *Loader) loadLocal(path string) (*Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return l.loadFromSearchPaths(path)
		}
		return nil, err
	}

	return &Resource{
		URL:      path,
		Data:     data,
		MimeType: determineMimeType(data),
	}, nil
}

// loadFromSearchPaths tries to load a resource from the search paths
func (l *Loader) loadFromSearchPaths(filename string) (*Resource, error) {
	baseFilename := filepath.Base(filename)

	for _, searchPath := range l.searchPaths {
		path := filepath.Join(searchPath, baseFilename)

		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		return &Resource{
			URL:      path,
			Data:     data,
			MimeType: determineMimeType(data),
		}, nil
	}

	return nil, fmt.Errorf("resource not found: %s", filename)
}

// determineMimeType sniffs the MIME type from content
func determineMimeType(data []byte) string {
	if isSVG(data) {
		return "image/svg+xml"
	}
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return "application/octet-stream"
	}
	return kind.MIME.Value
}
