package config

import "testing"

func validConfig() Config {
	return Config{
		HTTP: HTTPConfig{Port: 8080},
		Database: DatabaseConfig{
			Addrs: []string{"localhost:6379"},
		},
		Embedding: EmbeddingConfig{
			APIKey:     "test-key",
			Dimensions: 1536,
		},
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingDatabaseAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Addrs = nil

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing database addrs")
	}
}

func TestValidate_TopKTooLarge(t *testing.T) {
	cfg := validConfig()
	cfg.Matching.TopK = 100

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for oversized top_k")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.Embedding.Dimensions = 0
	cfg.ApplyDefaults()

	if cfg.Embedding.Model != "text-embedding-3-small" {
		t.Errorf("embedding model default = %q", cfg.Embedding.Model)
	}
	if cfg.Embedding.Dimensions != 1536 {
		t.Errorf("dimensions default = %d", cfg.Embedding.Dimensions)
	}
	if cfg.Scoring.Model != "gpt-4o-mini" {
		t.Errorf("scoring model default = %q", cfg.Scoring.Model)
	}
	if cfg.Scoring.MaxAttempts != 2 {
		t.Errorf("max attempts default = %d", cfg.Scoring.MaxAttempts)
	}
	if cfg.Matching.TopK != 10 {
		t.Errorf("top_k default = %d", cfg.Matching.TopK)
	}
	if cfg.Index.Name != "properties" {
		t.Errorf("index name default = %q", cfg.Index.Name)
	}
}

func TestApplyDefaults_ScoringFallsBackToEmbeddingCreds(t *testing.T) {
	cfg := validConfig()
	cfg.Embedding.APIKey = "shared-key"
	cfg.Embedding.BaseURL = "https://api.example.com/v1"
	cfg.ApplyDefaults()

	if cfg.Scoring.APIKey != "shared-key" {
		t.Errorf("scoring api key = %q, want embedding fallback", cfg.Scoring.APIKey)
	}
	if cfg.Scoring.BaseURL != "https://api.example.com/v1" {
		t.Errorf("scoring base url = %q, want embedding fallback", cfg.Scoring.BaseURL)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("SPACEFIT_TEST_KEY", "secret")

	in := []byte("api_key: ${SPACEFIT_TEST_KEY}\nmodel: ${SPACEFIT_TEST_MODEL:-fallback-model}\n")
	out := string(expandEnvVars(in))

	want := "api_key: secret\nmodel: fallback-model\n"
	if out != want {
		t.Errorf("expandEnvVars:\ngot:  %q\nwant: %q", out, want)
	}
}
