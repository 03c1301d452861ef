package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации движка.

type Config struct {
	Map     MapConfig     `yaml:"map"`
	Storage StorageConfig `yaml:"storage"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type MapConfig struct {
	ChunkWidth  int `yaml:"chunk_width"`
	ChunkHeight int `yaml:"chunk_height"`
	TileWidth   int `yaml:"tile_width"`
	TileHeight  int `yaml:"tile_height"`
}

type StorageConfig struct {
	DataPath string `yaml:"data_path"`
}

type MetricsConfig struct {
	Port int `yaml:"port"`
}

// GetChunkSize возвращает размер чанка с дефолтом 8x8
func (m *MapConfig) GetChunkSize() (int, int) {
	w, h := m.ChunkWidth, m.ChunkHeight
	if w <= 0 {
		w = 8
	}
	if h <= 0 {
		h = 8
	}
	return w, h
}

// GetTileSize возвращает размер тайла с дефолтом 16x16
func (m *MapConfig) GetTileSize() (int, int) {
	w, h := m.TileWidth, m.TileHeight
	if w <= 0 {
		w = 16
	}
	if h <= 0 {
		h = 16
	}
	return w, h
}

// GetDataPath возвращает путь к данным с приоритетом: config -> env -> default
func (s *StorageConfig) GetDataPath() string {
	if s.DataPath != "" {
		return s.DataPath
	}
	if envVal := os.Getenv("TILEMAP_DATA_PATH"); envVal != "" {
		return envVal
	}
	return "data"
}

// GetPort возвращает порт метрик с приоритетом: config -> env -> default
func (m *MetricsConfig) GetPort() int {
	if m.Port > 0 {
		return m.Port
	}
	if envVal := os.Getenv("TILEMAP_METRICS_PORT"); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}
	return 2112
}

// Load читает YAML файл конфигурации.
// Если path == "", пытается прочитать из ENV TILEMAP_CONFIG или возвращает
// конфигурацию по умолчанию.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("TILEMAP_CONFIG")
	}
	if path == "" {
		return &Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
