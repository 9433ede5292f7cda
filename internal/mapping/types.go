package mapping

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LabelMapping assigns a template label to a logical quotation field
type LabelMapping struct {
	Label     string `json:"label"`
	Field     string `json:"field"`
	IsIgnored bool   `json:"is_ignored"`
}

// MappingConfig holds all label mappings
type MappingConfig struct {
	Mappings []LabelMapping `json:"mappings"`
}

// SaveToFile saves the mapping configuration to a JSON file
func (mc *MappingConfig) SaveToFile(path string) error {
	data, err := json.MarshalIndent(mc, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	return os.WriteFile(path, data, 0644)
}

// LoadFromFile loads mapping configuration from a JSON file
func LoadFromFile(path string) (*MappingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config MappingConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &config, nil
}

// Aliases groups the mapped labels by field, leaving out ignored labels
func (mc *MappingConfig) Aliases() map[string][]string {
	aliases := make(map[string][]string)
	for _, m := range mc.Mappings {
		if m.IsIgnored || m.Field == "" || strings.TrimSpace(m.Label) == "" {
			continue
		}
		aliases[m.Field] = append(aliases[m.Field], m.Label)
	}
	return aliases
}

// ReadLabelsFromFile reads labels from a text file (one per line)
func ReadLabelsFromFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	var labels []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			labels = append(labels, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", path, err)
	}
	return labels, nil
}
