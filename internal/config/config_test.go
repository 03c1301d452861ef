package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	data := []byte(`
map:
  chunk_width: 16
  chunk_height: 16
  tile_width: 32
  tile_height: 32
storage:
  data_path: /var/lib/tilemap
metrics:
  port: 9100
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Не удалось записать файл конфигурации: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	if w, h := cfg.Map.GetChunkSize(); w != 16 || h != 16 {
		t.Errorf("Размер чанка: ожидалось 16x16, получено %dx%d", w, h)
	}
	if w, h := cfg.Map.GetTileSize(); w != 32 || h != 32 {
		t.Errorf("Размер тайла: ожидалось 32x32, получено %dx%d", w, h)
	}
	if cfg.Storage.GetDataPath() != "/var/lib/tilemap" {
		t.Errorf("Путь данных: получено %s", cfg.Storage.GetDataPath())
	}
	if cfg.Metrics.GetPort() != 9100 {
		t.Errorf("Порт метрик: ожидалось 9100, получено %d", cfg.Metrics.GetPort())
	}
}

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Ошибка загрузки пустой конфигурации: %v", err)
	}

	if w, h := cfg.Map.GetChunkSize(); w != 8 || h != 8 {
		t.Errorf("Размер чанка по умолчанию: ожидалось 8x8, получено %dx%d", w, h)
	}
	if w, h := cfg.Map.GetTileSize(); w != 16 || h != 16 {
		t.Errorf("Размер тайла по умолчанию: ожидалось 16x16, получено %dx%d", w, h)
	}
	if cfg.Storage.GetDataPath() != "data" {
		t.Errorf("Путь данных по умолчанию: получено %s", cfg.Storage.GetDataPath())
	}
	if cfg.Metrics.GetPort() != 2112 {
		t.Errorf("Порт метрик по умолчанию: ожидалось 2112, получено %d", cfg.Metrics.GetPort())
	}
}

func TestEnvFallbacks(t *testing.T) {
	t.Setenv("TILEMAP_DATA_PATH", "/tmp/maps")
	t.Setenv("TILEMAP_METRICS_PORT", "9200")

	cfg := &Config{}
	if cfg.Storage.GetDataPath() != "/tmp/maps" {
		t.Errorf("Путь данных из ENV: получено %s", cfg.Storage.GetDataPath())
	}
	if cfg.Metrics.GetPort() != 9200 {
		t.Errorf("Порт метрик из ENV: ожидалось 9200, получено %d", cfg.Metrics.GetPort())
	}

	// Явное значение из конфигурации перекрывает ENV
	cfg.Metrics.Port = 9300
	if cfg.Metrics.GetPort() != 9300 {
		t.Errorf("Порт из файла должен перекрывать ENV, получено %d", cfg.Metrics.GetPort())
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/нет/такого/файла.yml"); err == nil {
		t.Error("Ожидалась ошибка для несуществующего файла")
	}
}
