package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"outreach/internal/platform/logger"
)

const gcsPublicBase = "https://storage.googleapis.com"

// GCSOptions configures the Cloud Storage backend
type GCSOptions struct {
	Bucket string
	// PublicBaseURL overrides https://storage.googleapis.com, e.g. a CDN or emulator
	PublicBaseURL   string
	CredentialsFile string
	// Endpoint targets an emulator; authentication is skipped when set
	Endpoint string
	Timeout  time.Duration
}

// GCS stores objects in a Cloud Storage bucket
type GCS struct {
	client  *storage.Client
	bucket  string
	base    *url.URL
	timeout time.Duration
	log     logger.Logger
}

// NewGCS opens a storage client for o.Bucket
func NewGCS(ctx context.Context, o GCSOptions) (*GCS, error) {
	if o.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	publicBase := strings.TrimRight(strings.TrimSpace(o.PublicBaseURL), "/")
	if publicBase == "" {
		publicBase = gcsPublicBase
	}
	base, err := url.Parse(publicBase)
	if err != nil || base.Host == "" {
		return nil, fmt.Errorf("invalid storage public base url")
	}

	opts := []option.ClientOption{option.WithScopes(storage.ScopeReadWrite)}
	switch {
	case o.Endpoint != "":
		opts = []option.ClientOption{option.WithEndpoint(o.Endpoint), option.WithoutAuthentication()}
	case o.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(o.CredentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCS{
		client:  client,
		bucket:  o.Bucket,
		base:    base,
		timeout: o.Timeout,
		log:     *logger.Named("objectstore"),
	}, nil
}

// Close releases the storage client
func (s *GCS) Close() error { return s.client.Close() }

// Put uploads body to key
func (s *GCS) Put(ctx context.Context, key, contentType string, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, bytes.NewReader(body)); err != nil {
		_ = w.Close()
		return gcsErr("put", err)
	}
	if err := w.Close(); err != nil {
		return gcsErr("put", err)
	}
	s.log.Debug().Str("key", key).Int("bytes", len(body)).Msg("object stored")
	return nil
}

// Delete removes key
func (s *GCS) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	err := s.client.Bucket(s.bucket).Object(key).Delete(ctx)
	if err == nil || errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	return gcsErr("delete", err)
}

// PublicURL returns base/bucket/key
func (s *GCS) PublicURL(key string) string {
	return s.base.String() + "/" + s.bucket + "/" + escapeKey(key)
}

// Owns reports whether rawURL addresses this bucket
func (s *GCS) Owns(rawURL string) bool {
	_, ok := s.keyOf(rawURL)
	return ok
}

func (s *GCS) keyOf(rawURL string) (string, bool) {
	u, ok := ownsURL(s.base, rawURL)
	if !ok {
		return "", false
	}
	prefix := strings.TrimRight(s.base.Path, "/") + "/" + s.bucket + "/"
	if !strings.HasPrefix(u.Path, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(u.Path, prefix)
	return key, key != ""
}

// Fetch reads the object behind rawURL through the storage API
func (s *GCS) Fetch(ctx context.Context, rawURL string, limit int64) (Object, error) {
	key, ok := s.keyOf(rawURL)
	if !ok {
		return Object{}, ErrForeignURL
	}
	if limit <= 0 {
		limit = DefaultFetchLimit
	}
	r, err := s.client.Bucket(s.bucket).Object(key).NewReader(ctx)
	if err != nil {
		return Object{}, gcsErr("fetch", err)
	}
	defer r.Close()

	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return Object{}, gcsErr("fetch", err)
	}
	if int64(len(body)) > limit {
		return Object{}, ErrTooLarge
	}
	return Object{Body: body, ContentType: r.Attrs.ContentType}, nil
}

// Ping reads the bucket attributes
func (s *GCS) Ping(ctx context.Context) error {
	_, err := s.client.Bucket(s.bucket).Attrs(ctx)
	return gcsErr("ping", err)
}

// gcsErr maps storage errors onto StatusError so callers classify both
// backends the same way
func gcsErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
		return &StatusError{Op: op, Status: 404}
	}
	var ge *googleapi.Error
	if errors.As(err, &ge) {
		return &StatusError{Op: op, Status: ge.Code}
	}
	return err
}
