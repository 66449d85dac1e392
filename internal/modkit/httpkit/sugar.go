package httpkit

import "net/http"

// Get mounts fn under GET
func Get(r Router, path string, fn func(*http.Request) (any, error)) { r.Get(path, Call(fn)) }

// Post mounts fn under POST, fn owns the body
func Post(r Router, path string, fn func(*http.Request) (any, error)) { r.Post(path, Call(fn)) }

// Put mounts fn under PUT, fn owns the body so multipart uploads reach it untouched
func Put(r Router, path string, fn func(*http.Request) (any, error)) { r.Put(path, Call(fn)) }

// PostJSON mounts a handler that takes a validated JSON body
func PostJSON[T any](r Router, path string, fn func(*http.Request, T) (any, error)) {
	r.Post(path, JSON(fn))
}

// PutJSON mounts a handler that takes a validated JSON body
func PutJSON[T any](r Router, path string, fn func(*http.Request, T) (any, error)) {
	r.Put(path, JSON(fn))
}
