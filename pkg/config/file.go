package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ServerSection configures the HTTP API.
type ServerSection struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	MetricsPath    string   `yaml:"metricsPath"`
	APIKeys        []string `yaml:"apiKeys"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// FileConfig is the layout of the provider configuration file.
// EncryptionInstanceClasses replaces the built-in list when set.
type FileConfig struct {
	Provider                  Configured        `yaml:"provider"`
	CustomTagMappings         map[string]string `yaml:"customTagMappings"`
	EncryptionInstanceClasses []string          `yaml:"encryptionInstanceClasses"`
	Server                    ServerSection     `yaml:"server"`
}

// TemplateFile is one instance template document.
type TemplateFile struct {
	Name          string            `yaml:"name" json:"name"`
	Tags          map[string]string `yaml:"tags,omitempty" json:"tags,omitempty"`
	Configuration Configured        `yaml:"configuration" json:"configuration"`
}

// LoadFile reads the provider configuration file. An empty path yields an
// empty configuration so that environment defaults apply.
func LoadFile(path string) (*FileConfig, error) {
	cfg := &FileConfig{}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// ParseTemplates decodes one or more template documents separated by ---.
// Documents without a name are skipped.
func ParseTemplates(data []byte) ([]*TemplateFile, error) {
	var templates []*TemplateFile

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	for {
		t := &TemplateFile{}
		err := decoder.Decode(t)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if t.Name != "" {
			templates = append(templates, t)
		}
	}

	return templates, nil
}
