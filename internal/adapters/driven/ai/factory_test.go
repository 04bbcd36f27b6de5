package ai

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/synqanun/synqanun-cli/internal/core/domain"
)

func TestInitResult_Close(t *testing.T) {
	t.Run("close with nil services", func(t *testing.T) {
		result := &InitResult{}
		// Should not panic
		result.Close()
	})
}

func TestCreateEmbeddingService(t *testing.T) {
	tests := []struct {
		name     string
		settings *domain.EmbeddingSettings
		wantErr  error
	}{
		{
			name:     "nil settings",
			settings: nil,
			wantErr:  domain.ErrEmbeddingUnavailable,
		},
		{
			name:     "unconfigured settings",
			settings: &domain.EmbeddingSettings{},
			wantErr:  domain.ErrEmbeddingUnavailable,
		},
		{
			name: "ollama provider creates service",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOllama,
				BaseURL:  "http://localhost:11434",
				Model:    "bge-m3",
			},
		},
		{
			name: "openai provider creates service",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOpenAI,
				APIKey:   "test-key",
				Model:    "text-embedding-3-small",
			},
		},
		{
			name: "openai without key",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOpenAI,
			},
			wantErr: domain.ErrEmbeddingUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateEmbeddingService(tt.settings)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				if svc != nil {
					t.Error("expected nil service, got non-nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if svc == nil {
				t.Fatal("expected non-nil service, got nil")
			}
			if svc.ModelName() != tt.settings.Model {
				t.Errorf("model = %q, want %q", svc.ModelName(), tt.settings.Model)
			}
			svc.Close()
		})
	}
}

func TestValidateEmbeddingConfig(t *testing.T) {
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"models":[]}`))
	}))
	defer ok.Close()

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()

	t.Run("reachable", func(t *testing.T) {
		err := ValidateEmbeddingConfig(context.Background(), &domain.EmbeddingSettings{
			Provider: domain.AIProviderOllama,
			BaseURL:  ok.URL,
		})
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("unreachable", func(t *testing.T) {
		err := ValidateEmbeddingConfig(context.Background(), &domain.EmbeddingSettings{
			Provider: domain.AIProviderOllama,
			BaseURL:  down.URL,
		})
		if !errors.Is(err, domain.ErrEmbeddingUnavailable) {
			t.Errorf("expected ErrEmbeddingUnavailable, got %v", err)
		}
	})
}

func TestInit(t *testing.T) {
	settings := domain.DefaultSettings()
	settings.Index.Dir = t.TempDir()

	for _, backend := range []domain.IndexBackend{
		domain.IndexBackendMemory,
		domain.IndexBackendSQLite,
		domain.IndexBackendChromem,
	} {
		t.Run(backend.String(), func(t *testing.T) {
			settings.Index.Backend = backend

			result, err := Init(settings)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer result.Close()

			if result.EmbeddingService == nil || result.VectorIndex == nil {
				t.Fatal("expected both adapters")
			}
			if result.VectorIndex.Len() != 0 {
				t.Errorf("new index should be empty, has %d records", result.VectorIndex.Len())
			}
		})
	}
}
