package config

import (
	"fmt"
	"os"
	"path/filepath"
	"quoteGen/internal/logger"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Template TemplateConfig `toml:"template"`
	Input    InputConfig    `toml:"input"`
	Output   OutputConfig   `toml:"output"`
	Table    TableConfig    `toml:"table"`
	Mapping  MappingConfig  `toml:"mapping"`
	UI       UIConfig       `toml:"ui"`
	Log      LogConfig      `toml:"log"`
}

type TemplateConfig struct {
	Path  string `toml:"path"`
	Sheet string `toml:"sheet"`
}

type InputConfig struct {
	Path string `toml:"path"`
}

type OutputConfig struct {
	Directory   string `toml:"directory"`
	DefaultName string `toml:"default_name"`
}

type TableConfig struct {
	MinRecognizedColumns int `toml:"min_recognized_columns"`
}

type MappingConfig struct {
	AliasesFile       string `toml:"aliases_file"`
	ScannedLabelsFile string `toml:"scanned_labels_file"`
}

type UIConfig struct {
	RowsPerPage int `toml:"rows_per_page"`
}

type LogConfig struct {
	Directory string `toml:"directory"`
	Level     string `toml:"level"`
}

// Default returns the configuration written when no config file exists
func Default() *Config {
	return &Config{
		Template: TemplateConfig{
			Path:  "templates/Formato de cotizaciones Antartida y Altavolt.xlsx",
			Sheet: "Lomas Country Temixco",
		},
		Input: InputConfig{
			Path: "data/cotizacion.json",
		},
		Output: OutputConfig{
			Directory:   "dist",
			DefaultName: "Generada",
		},
		Table: TableConfig{
			MinRecognizedColumns: 2,
		},
		Mapping: MappingConfig{
			AliasesFile:       "configs/aliases.json",
			ScannedLabelsFile: "data/output/scanned_labels",
		},
		UI: UIConfig{
			RowsPerPage: 15,
		},
		Log: LogConfig{
			Directory: "logs",
			Level:     "info",
		},
	}
}

// LoadConfig loads configuration from the specified config file path
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		configDir := filepath.Dir(configPath)
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}

		defaultConfig := Default()
		if err := SaveConfig(configPath, defaultConfig); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}

		logger.Info("Created default config file", "path", configPath)
		return defaultConfig, nil
	}

	var config Config
	if _, err := toml.DecodeFile(configPath, &config); err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}

	config.applyDefaults()

	logger.Info("Loaded configuration", "path", configPath)
	return &config, nil
}

// applyDefaults fills every zero value with the matching default
func (c *Config) applyDefaults() {
	def := Default()

	if c.Template.Path == "" {
		c.Template.Path = def.Template.Path
	}
	if c.Template.Sheet == "" {
		c.Template.Sheet = def.Template.Sheet
	}
	if c.Input.Path == "" {
		c.Input.Path = def.Input.Path
	}
	if c.Output.Directory == "" {
		c.Output.Directory = def.Output.Directory
	}
	if c.Output.DefaultName == "" {
		c.Output.DefaultName = def.Output.DefaultName
	}
	if c.Table.MinRecognizedColumns <= 0 {
		c.Table.MinRecognizedColumns = def.Table.MinRecognizedColumns
	}
	if c.Mapping.AliasesFile == "" {
		c.Mapping.AliasesFile = def.Mapping.AliasesFile
	}
	if c.Mapping.ScannedLabelsFile == "" {
		c.Mapping.ScannedLabelsFile = def.Mapping.ScannedLabelsFile
	}
	if c.UI.RowsPerPage == 0 {
		c.UI.RowsPerPage = def.UI.RowsPerPage
	}
	if c.Log.Directory == "" {
		c.Log.Directory = def.Log.Directory
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
}

// SaveConfig saves configuration to the specified config file path
func SaveConfig(configPath string, config *Config) error {
	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	logger.Info("Saved configuration", "path", configPath)
	return nil
}
