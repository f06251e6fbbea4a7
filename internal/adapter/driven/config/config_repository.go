package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"

	"github.com/igormath/ic-dataviz/internal/domain/repository"
	"github.com/igormath/ic-dataviz/internal/shared/types"
)

// Variáveis de ambiente reconhecidas.
const (
	EnvDatasetMain           = "RAD_DATASET_MAIN"
	EnvDatasetPerUnitAverage = "RAD_DATASET_PER_UNIT_AVERAGE"
	EnvDatasetTimeSeries     = "RAD_DATASET_TIME_SERIES"
	EnvDelimiter             = "RAD_DELIMITER"
	EnvUnits                 = "RAD_UNITS"
	EnvYear                  = "RAD_YEAR"
	EnvReportDir             = "RAD_REPORT_DIR"
	EnvListen                = "RAD_LISTEN"
)

// ConfigRepositoryImpl implementa o ConfigRepository.
type ConfigRepositoryImpl struct {
	envFile string
}

// NewConfigRepository cria uma nova implementação do ConfigRepository que lê o .env do diretório atual.
func NewConfigRepository() repository.ConfigRepository {
	return &ConfigRepositoryImpl{envFile: ".env"}
}

// NewConfigRepositoryWithEnvFile usa outro arquivo .env.
func NewConfigRepositoryWithEnvFile(path string) repository.ConfigRepository {
	return &ConfigRepositoryImpl{envFile: path}
}

// LoadConfigFile carrega um arquivo de configuração TOML, YAML ou JSON.
func (r *ConfigRepositoryImpl) LoadConfigFile(filePath string) (*types.Config, error) {
	fileExtension := strings.ToLower(filepath.Ext(filePath))

	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("error accessing config file: %w", err)
	}
	if fileInfo.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file", filePath)
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config types.Config

	switch fileExtension {
	case ".toml":
		if err := toml.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing TOML file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing YAML file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing JSON file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", fileExtension)
	}

	return &config, nil
}

// ApplyEnvironment carrega o .env (se existir) e sobrepõe as variáveis RAD_* em cfg.
// Variáveis já definidas no ambiente têm precedência sobre o .env.
func (r *ConfigRepositoryImpl) ApplyEnvironment(cfg *types.Config) error {
	if r.envFile != "" {
		if err := godotenv.Load(r.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("error loading %s: %w", r.envFile, err)
		}
	}

	setString(&cfg.Datasets.Main, EnvDatasetMain)
	setString(&cfg.Datasets.PerUnitAverage, EnvDatasetPerUnitAverage)
	setString(&cfg.Datasets.TimeSeries, EnvDatasetTimeSeries)
	setString(&cfg.Delimiter, EnvDelimiter)
	setString(&cfg.Dir, EnvReportDir)
	setString(&cfg.Listen, EnvListen)

	if v, ok := os.LookupEnv(EnvUnits); ok && strings.TrimSpace(v) != "" {
		cfg.Units = splitList(v)
	}
	if v, ok := os.LookupEnv(EnvYear); ok && strings.TrimSpace(v) != "" {
		year, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvYear, v, err)
		}
		cfg.Year = year
	}
	return nil
}

func setString(target *string, key string) {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		*target = strings.TrimSpace(v)
	}
}

// splitList separa "Caruaru, POLI" em itens sem espaços.
func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
