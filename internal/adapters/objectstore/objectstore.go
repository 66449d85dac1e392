// Package objectstore stores photos and reads audio from the configured
// storage namespace. Two backends share one contract: a REST bucket API
// authenticated with a service key, and Google Cloud Storage
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Store is the contract the photo and transcription pipelines consume
type Store interface {
	// Put writes body at key, replacing any existing object
	Put(ctx context.Context, key, contentType string, body []byte) error
	// Delete removes key; a missing object is not an error
	Delete(ctx context.Context, key string) error
	// PublicURL is the deterministic public address of key
	PublicURL(key string) string
	// Owns reports whether rawURL points into this store
	Owns(rawURL string) bool
	// Fetch downloads an object by its public URL, reading at most limit bytes
	Fetch(ctx context.Context, rawURL string, limit int64) (Object, error)
	// Ping checks the store is reachable with the configured credentials
	Ping(ctx context.Context) error
}

// Object is a downloaded blob
type Object struct {
	Body        []byte
	ContentType string
}

const (
	defaultTimeout = 30 * time.Second
	// DefaultFetchLimit bounds audio downloads
	DefaultFetchLimit = 25 << 20
)

// Sentinel failures callers branch on
var (
	ErrForeignURL = errors.New("url is outside the storage namespace")
	ErrTooLarge   = errors.New("object exceeds size limit")
)

// StatusError is a non-2xx answer from the storage backend
type StatusError struct {
	Op     string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("storage %s: status %d", e.Op, e.Status)
}

// HTTPStatus exposes the upstream status
func (e *StatusError) HTTPStatus() int { return e.Status }

// IsAuth reports a credentials failure. Never retried
func IsAuth(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && (se.Status == http.StatusUnauthorized || se.Status == http.StatusForbidden)
}

// IsNotFound reports a missing object
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == http.StatusNotFound
}

// IsTimeout reports a deadline hit while talking to storage
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// IsTransient reports failures worth retrying: network and timeout errors,
// 5xx answers and rate limiting
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status >= 500 || se.Status == http.StatusTooManyRequests || se.Status == http.StatusRequestTimeout
	}
	if IsTimeout(err) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return true
	}
	var ue *url.Error
	return errors.As(err, &ue)
}

// ownsURL checks scheme and host against base
func ownsURL(base *url.URL, rawURL string) (*url.URL, bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return nil, false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, false
	}
	if !strings.EqualFold(u.Host, base.Host) {
		return nil, false
	}
	return u, true
}

// escapeKey escapes each path segment of key
func escapeKey(key string) string {
	parts := strings.Split(strings.TrimLeft(key, "/"), "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
