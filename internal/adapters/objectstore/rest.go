package objectstore

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"outreach/internal/platform/logger"
)

// RESTOptions configures the REST bucket backend
type RESTOptions struct {
	// BaseURL is the storage host, e.g. https://project.example.co
	BaseURL    string
	ServiceKey string
	Bucket     string
	Timeout    time.Duration
}

// REST talks to a bucket API shaped like /storage/v1/object/{bucket}/{key}
type REST struct {
	http   *resty.Client
	base   *url.URL
	bucket string
	log    logger.Logger
}

// NewREST builds the REST backend
func NewREST(o RESTOptions) (*REST, error) {
	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(o.BaseURL), "/"))
	if err != nil || base.Host == "" {
		return nil, fmt.Errorf("invalid storage url")
	}
	if o.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	client := resty.New().
		SetBaseURL(base.String()).
		SetTimeout(o.Timeout).
		SetHeader("Authorization", "Bearer "+o.ServiceKey).
		SetHeader("apikey", o.ServiceKey)

	return &REST{
		http:   client,
		base:   base,
		bucket: o.Bucket,
		log:    *logger.Named("objectstore"),
	}, nil
}

func (s *REST) objectPath(key string) string {
	return "/storage/v1/object/" + url.PathEscape(s.bucket) + "/" + escapeKey(key)
}

// Put uploads body with upsert semantics
func (s *REST) Put(ctx context.Context, key, contentType string, body []byte) error {
	resp, err := s.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetHeader("x-upsert", "true").
		SetBody(body).
		Post(s.objectPath(key))
	if err != nil {
		return err
	}
	if resp.IsError() {
		return &StatusError{Op: "put", Status: resp.StatusCode()}
	}
	s.log.Debug().Str("key", key).Int("bytes", len(body)).Dur("latency", resp.Time()).Msg("object stored")
	return nil
}

// Delete removes key
func (s *REST) Delete(ctx context.Context, key string) error {
	resp, err := s.http.R().SetContext(ctx).Delete(s.objectPath(key))
	if err != nil {
		return err
	}
	if resp.IsError() && resp.StatusCode() != 404 {
		return &StatusError{Op: "delete", Status: resp.StatusCode()}
	}
	return nil
}

// PublicURL returns the public object address
func (s *REST) PublicURL(key string) string {
	return s.base.String() + "/storage/v1/object/public/" + url.PathEscape(s.bucket) + "/" + escapeKey(key)
}

// Owns reports whether rawURL is on the storage host
func (s *REST) Owns(rawURL string) bool {
	_, ok := ownsURL(s.base, rawURL)
	return ok
}

// Fetch downloads rawURL, which must be on the storage host
func (s *REST) Fetch(ctx context.Context, rawURL string, limit int64) (Object, error) {
	u, ok := ownsURL(s.base, rawURL)
	if !ok {
		return Object{}, ErrForeignURL
	}
	if limit <= 0 {
		limit = DefaultFetchLimit
	}
	resp, err := s.http.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(u.String())
	if err != nil {
		return Object{}, err
	}
	raw := resp.RawBody()
	defer raw.Close()

	if resp.IsError() {
		return Object{}, &StatusError{Op: "fetch", Status: resp.StatusCode()}
	}
	body, err := io.ReadAll(io.LimitReader(raw, limit+1))
	if err != nil {
		return Object{}, err
	}
	if int64(len(body)) > limit {
		return Object{}, ErrTooLarge
	}
	return Object{Body: body, ContentType: resp.Header().Get("Content-Type")}, nil
}

// Ping lists the bucket metadata
func (s *REST) Ping(ctx context.Context) error {
	resp, err := s.http.R().SetContext(ctx).Get("/storage/v1/bucket/" + url.PathEscape(s.bucket))
	if err != nil {
		return err
	}
	if resp.IsError() {
		return &StatusError{Op: "ping", Status: resp.StatusCode()}
	}
	return nil
}
