package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/nwiizo/yamori/internal/logger"
	"github.com/nwiizo/yamori/pkg/yamoritypes"
)

// ErrUnsupportedFormat is returned for configuration files whose extension
// is not .yaml, .yml or .toml.
var ErrUnsupportedFormat = errors.New("unsupported configuration format")

// Loader decodes one configuration syntax into the normalized document.
// The engine never sees which Loader produced a document.
type Loader interface {
	Format() string
	Decode(path string, data []byte) (*yamoritypes.Document, error)
}

// YAMLLoader decodes .yaml and .yml documents.
type YAMLLoader struct{}

// Format returns the format name.
func (YAMLLoader) Format() string { return "yaml" }

// Decode parses YAML into a validated document.
func (YAMLLoader) Decode(path string, data []byte) (*yamoritypes.Document, error) {
	var raw rawDocument
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("YAML parse error in %s: %w", path, err)
	}
	return raw.normalize(path)
}

// TOMLLoader decodes .toml documents.
type TOMLLoader struct{}

// Format returns the format name.
func (TOMLLoader) Format() string { return "toml" }

// Decode parses TOML into a validated document. Unknown keys are logged and ignored.
func (TOMLLoader) Decode(path string, data []byte) (*yamoritypes.Document, error) {
	var raw rawDocument
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, fmt.Errorf("TOML parse error in %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		logger.Warn("ignoring unknown configuration keys", "path", path, "keys", strings.Join(keys, ", "))
	}
	return raw.normalize(path)
}

// LoaderFor picks a Loader from the file extension.
func LoaderFor(path string) (Loader, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "yaml", "yml":
		return YAMLLoader{}, nil
	case "toml":
		return TOMLLoader{}, nil
	default:
		return nil, fmt.Errorf("%w: %q (use .yaml, .yml or .toml)", ErrUnsupportedFormat, ext)
	}
}

// Load reads, decodes and validates the configuration file at path.
func Load(path string) (*yamoritypes.Document, error) {
	loader, err := LoaderFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s: %w", path, err)
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	doc, err := loader.Decode(path, data)
	if err != nil {
		return nil, err
	}
	logger.Debug("configuration loaded", "path", path, "format", loader.Format(), "tests", len(doc.Tests))
	return doc, nil
}
