package strategyconfig

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML strategy file and returns it with the raw bytes.
// SSOT: KnownFields(true) 使拼写错误立即失败
func Load(path string) (*Config, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, nil, err
	}

	if err := Validate(&cfg); err != nil {
		return nil, data, err
	}

	return &cfg, data, nil
}

// Hash generates a SHA256 over the canonical JSON form. Struct fields
// marshal in declaration order, so the hash is reproducible.
func Hash(cfg *Config) (string, error) {
	jsonBytes, err := json.Marshal(cfg)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}

// NewDecisionSnapshot pins the configuration a run starts with, for
// audit logs and the config endpoint. yamlData is the raw file as
// loaded; pass nil for a built-in config and the canonical YAML form
// is recorded instead.
func NewDecisionSnapshot(cfg *Config, yamlData []byte) (*DecisionSnapshot, error) {
	hash, err := Hash(cfg)
	if err != nil {
		return nil, err
	}

	if yamlData == nil {
		yamlData, err = yaml.Marshal(cfg)
		if err != nil {
			return nil, err
		}
	}

	return &DecisionSnapshot{
		ConfigHash: hash,
		ConfigYAML: string(yamlData),
		StrategyID: cfg.Meta.StrategyID,
		CreatedAt:  time.Now(),
	}, nil
}
