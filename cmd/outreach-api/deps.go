package main

import (
	"context"
	"slices"
	"time"

	"outreach/internal/adapters/auth"
	"outreach/internal/adapters/llm"
	"outreach/internal/adapters/objectstore"
	"outreach/internal/modkit/httpkit"
	"outreach/internal/platform/config"
	"outreach/internal/platform/logger"
	"outreach/internal/platform/net/middleware"
)

// Unprefixed secrets shared with the rest of the deployment
const (
	envStorageURL = "STORAGE_URL"
	envStorageKey = "STORAGE_SERVICE_KEY"
	envLLMKey     = "LLM_API_KEY"
)

// requiredSecrets lists the secrets the chosen storage backend needs. gcs
// authenticates through application default credentials instead
func requiredSecrets(backend string) []string {
	if backend == "gcs" {
		return []string{envLLMKey}
	}
	return []string{envStorageURL, envStorageKey, envLLMKey}
}

// openStorage returns nil when its secrets are missing, leaving photo and
// audio endpoints at 503
func openStorage(ctx context.Context, root config.Conf, backend string, missing []string) objectstore.Store {
	l := logger.Get()
	sc := root.Prefix("CORE_STORAGE_")
	timeout := sc.MayDuration("TIMEOUT", 30*time.Second)

	if backend == "gcs" {
		st, err := objectstore.NewGCS(ctx, objectstore.GCSOptions{
			Bucket:          sc.MustString("BUCKET"),
			PublicBaseURL:   root.MayString(envStorageURL, ""),
			CredentialsFile: sc.MayString("GCS_CREDENTIALS", ""),
			Endpoint:        sc.MayString("GCS_ENDPOINT", ""),
			Timeout:         timeout,
		})
		if err != nil {
			l.Panic().Err(err).Msg("gcs storage init failed")
		}
		return st
	}

	if slices.Contains(missing, envStorageURL) || slices.Contains(missing, envStorageKey) {
		return nil
	}
	st, err := objectstore.NewREST(objectstore.RESTOptions{
		BaseURL:    root.MustString(envStorageURL),
		ServiceKey: root.MustString(envStorageKey),
		Bucket:     sc.MayString("BUCKET", "outreach"),
		Timeout:    timeout,
	})
	if err != nil {
		l.Panic().Err(err).Msg("rest storage init failed")
	}
	return st
}

// openModel returns nil without an api key
func openModel(root config.Conf, missing []string) *llm.Client {
	if slices.Contains(missing, envLLMKey) {
		return nil
	}
	lc := root.Prefix("CORE_LLM_")
	return llm.New(llm.Options{
		APIKey:      root.MustString(envLLMKey),
		BaseURL:     lc.MayString("BASE_URL", ""),
		ChatModel:   lc.MayString("CHAT_MODEL", ""),
		SpeechModel: lc.MayString("SPEECH_MODEL", ""),
		Timeout:     lc.MayDuration("TIMEOUT", 60*time.Second),
	})
}

// openAuth returns nil without a secret, which only development allows
func openAuth(apiCfg config.Conf) middleware.AuthPort {
	v, err := auth.New(auth.Options{
		Secret:   apiCfg.MayString("AUTH_SECRET", ""),
		Issuer:   apiCfg.MayString("AUTH_ISSUER", ""),
		Audience: apiCfg.MayString("AUTH_AUDIENCE", ""),
		Leeway:   apiCfg.MayDuration("AUTH_LEEWAY", 30*time.Second),
	})
	if err != nil {
		return nil
	}
	return httpkit.NewPortFunc(v.Parse)
}
