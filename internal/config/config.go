package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DataConfig locates the two prebuilt artifacts.
type DataConfig struct {
	CorpusPath  string `yaml:"corpus_path" validate:"required"`
	ModelPath   string `yaml:"model_path" validate:"required"`
	SQLiteTable string `yaml:"sqlite_table,omitempty"`
	// Seed drives the random job type fill-in; 0 seeds from the clock.
	Seed int64 `yaml:"seed"`
}

// SearchConfig sets how many rows each dashboard section returns.
// Highlights caps the resume sentences shown with a match; 0 turns them off.
type SearchConfig struct {
	RecommendTopK int  `yaml:"recommend_top_k" validate:"gte=1"`
	SkillGapTopK  int  `yaml:"skill_gap_top_k" validate:"gte=1"`
	Highlights    *int `yaml:"highlights,omitempty" validate:"omitempty,gte=0"`
}

// HighlightLimit returns the configured highlight cap, the default when unset.
func (s SearchConfig) HighlightLimit() int {
	if s.Highlights == nil {
		return *defaultConfig().Search.Highlights
	}
	return *s.Highlights
}

// SalaryConfig overrides the experience level multipliers. Levels left out
// keep their default factor.
type SalaryConfig struct {
	Multipliers map[string]float64 `yaml:"multipliers" validate:"dive,keys,oneof=Fresher Mid-Level Senior,endkeys,gt=0"`
}

// VectorStoreConfig selects and configures the vector store implementation.
type VectorStoreConfig struct {
	Type   string        `yaml:"type" validate:"oneof=memory qdrant"`
	Qdrant *QdrantConfig `yaml:"qdrant,omitempty" validate:"required_if=Type qdrant"`
}

// QdrantConfig contains connection details for a Qdrant vector store.
type QdrantConfig struct {
	URL         string `yaml:"url" validate:"required,url"`
	APIKey      string `yaml:"api_key,omitempty"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Collection  string `yaml:"collection" validate:"required"`
	TimeoutSecs int    `yaml:"timeout_secs" validate:"gte=0"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Data        DataConfig        `yaml:"data"`
	Search      SearchConfig      `yaml:"search"`
	Salary      SalaryConfig      `yaml:"salary"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
}

// Validate checks field ranges and the vector store selection.
func (c *AppConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("config validation failed: %s", strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// QdrantAPIKey returns the inline key, or the value of the configured env var.
func (q *QdrantConfig) QdrantAPIKey() string {
	if q.APIKey != "" {
		return q.APIKey
	}
	return os.Getenv(q.APIKeyEnv)
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			return cfg, nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	applyConfigDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/jobmarket/config.yaml.
// If neither exists, it writes defaults to ~/.config/jobmarket/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "jobmarket", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Data: DataConfig{
			CorpusPath: "job_data.json",
			ModelPath:  "tfidf_vectorizer.json",
		},
		Search: SearchConfig{RecommendTopK: 5, SkillGapTopK: 3, Highlights: intPtr(3)},
		Salary: SalaryConfig{Multipliers: map[string]float64{
			"Fresher":   0.8,
			"Mid-Level": 1.0,
			"Senior":    1.5,
		}},
		VectorStore: VectorStoreConfig{Type: "memory"},
	}
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	def := defaultConfig()
	if cfg.Data.CorpusPath == "" {
		cfg.Data.CorpusPath = def.Data.CorpusPath
	}
	if cfg.Data.ModelPath == "" {
		cfg.Data.ModelPath = def.Data.ModelPath
	}
	if cfg.Search.RecommendTopK == 0 {
		cfg.Search.RecommendTopK = def.Search.RecommendTopK
	}
	if cfg.Search.SkillGapTopK == 0 {
		cfg.Search.SkillGapTopK = def.Search.SkillGapTopK
	}
	if cfg.Search.Highlights == nil {
		cfg.Search.Highlights = def.Search.Highlights
	}
	if cfg.Salary.Multipliers == nil {
		cfg.Salary.Multipliers = make(map[string]float64, len(def.Salary.Multipliers))
	}
	for level, m := range def.Salary.Multipliers {
		if _, ok := cfg.Salary.Multipliers[level]; !ok {
			cfg.Salary.Multipliers[level] = m
		}
	}
	if cfg.VectorStore.Type == "" {
		cfg.VectorStore.Type = def.VectorStore.Type
	}
	if cfg.VectorStore.Type == "qdrant" && cfg.VectorStore.Qdrant != nil {
		if cfg.VectorStore.Qdrant.URL == "" {
			cfg.VectorStore.Qdrant.URL = "http://localhost:6333"
		}
		if cfg.VectorStore.Qdrant.Collection == "" {
			cfg.VectorStore.Qdrant.Collection = "jobs"
		}
		if cfg.VectorStore.Qdrant.APIKeyEnv == "" {
			cfg.VectorStore.Qdrant.APIKeyEnv = "QDRANT_API_KEY"
		}
		if cfg.VectorStore.Qdrant.TimeoutSecs == 0 {
			cfg.VectorStore.Qdrant.TimeoutSecs = 15
		}
	}
}

func intPtr(v int) *int { return &v }
