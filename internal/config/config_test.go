package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "MONGO_DB", "TOKEN_TTL_MINUTES", "MINIO_BUCKET", "CORS_ORIGIN"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "notes_app", cfg.MongoDB)
	assert.Equal(t, 600000*time.Minute, cfg.TokenTTL)
	assert.Equal(t, "note-attachments", cfg.MinioBucket)
	assert.Equal(t, "*", cfg.CORSOrigin)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("TOKEN_TTL_MINUTES", "120")
	t.Setenv("ACCESS_TOKEN_SECRET", "s3cret")
	t.Setenv("MINIO_USE_SSL", "true")

	cfg := Load()
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 120*time.Minute, cfg.TokenTTL)
	assert.Equal(t, "s3cret", cfg.TokenSecret)
	assert.True(t, cfg.MinioUseSSL)
}

func TestLoad_BadTTLFallsBack(t *testing.T) {
	t.Setenv("TOKEN_TTL_MINUTES", "not-a-number")

	cfg := Load()
	assert.Equal(t, 600000*time.Minute, cfg.TokenTTL)
}
