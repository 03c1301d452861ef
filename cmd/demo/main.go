package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/annel0/tilemap-engine/internal/atlas"
	"github.com/annel0/tilemap-engine/internal/config"
	"github.com/annel0/tilemap-engine/internal/engine"
	"github.com/annel0/tilemap-engine/internal/logging"
	"github.com/annel0/tilemap-engine/internal/storage"
	"github.com/annel0/tilemap-engine/internal/tilemap"
	"github.com/annel0/tilemap-engine/internal/vec"
	"github.com/annel0/tilemap-engine/internal/worldgen"
)

// copyTiles переносит непустые клетки снимка в живую карту движка
func copyTiles(src, dst *tilemap.TileMap) {
	size := src.Size()
	for z := 0; z < size.Z; z++ {
		for dst.Size().Z <= z {
			dst.AddEmptyLayer()
		}
		for y := 0; y < size.Y; y++ {
			for x := 0; x < size.X; x++ {
				coord := vec.Vec3{X: x, Y: y, Z: z}
				if t := src.MustGet(coord); !t.Empty() {
					dst.Set(coord, t)
				}
			}
		}
	}
}

// noImages — провайдер без загруженных изображений: движок работает
// с атласом-заглушкой, пока настоящие ассеты не подключены
type noImages struct{}

func (noImages) Image(h atlas.Handle) (*atlas.ImageData, bool) {
	return nil, false
}

func main() {
	configPath := flag.String("config", "", "путь к файлу конфигурации")
	seed := flag.Int64("seed", 42, "сид генерации карты")
	flag.Parse()

	// Инициализируем систему логирования
	if err := logging.InitLogger(); err != nil {
		log.Fatalf("Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseLogger()

	logging.LogInfo("Запуск демонстрации движка карт тайлов...")

	// === КОНФИГУРАЦИЯ ===
	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.LogError("Ошибка загрузки конфигурации: %v", err)
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}
	chunkW, chunkH := cfg.Map.GetChunkSize()
	tileW, tileH := cfg.Map.GetTileSize()
	logging.LogInfo("Конфигурация: чанк %dx%d, тайл %dx%d, данные в %s",
		chunkW, chunkH, tileW, tileH, cfg.Storage.GetDataPath())

	// === ИНИЦИАЛИЗАЦИЯ КОМПОНЕНТОВ ===

	store, err := storage.NewBadgerMapStore(cfg.Storage.GetDataPath())
	if err != nil {
		logging.LogError("Ошибка открытия хранилища: %v", err)
		log.Fatalf("Ошибка открытия хранилища: %v", err)
	}
	defer store.Close()

	e := engine.New(noImages{}, atlas.Empty())

	// Метрики Prometheus
	exporter := engine.NewMetricsExporter(e)
	exporter.StartHTTP(fmt.Sprintf(":%d", cfg.Metrics.GetPort()))
	defer exporter.Stop()

	// Загружаем сохраненную карту либо генерируем новую
	mapNode, tm := e.SpawnTileMap(
		vec.Vec2{X: 256, Y: 256},
		vec.Vec2{X: chunkW, Y: chunkH},
		vec.Vec2{X: tileW, Y: tileH},
	)
	if saved, err := store.LoadMap("demo", atlas.Empty()); err == nil {
		logging.LogInfo("Загружена сохраненная карта")
		copyTiles(saved, tm)
	} else {
		logging.LogInfo("Сохраненной карты нет, генерируем новую (сид %d)", *seed)
		worldgen.NewGenerator(*seed, 24.0, []worldgen.Band{
			{Threshold: 0.45, Idx: 10},
			{Threshold: 0.55, Idx: 11},
			{Threshold: 1.0, Idx: 12},
		}).FillLayer(tm, 0)
	}

	// === ГЛАВНЫЙ ЦИКЛ ===

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(time.Second / 20)
	defer ticker.Stop()

	logging.LogInfo("Движок запущен, узел карты %d", mapNode)
	for {
		select {
		case <-ticker.C:
			e.Tick(engine.FrameInput{})
		case sig := <-sigChan:
			logging.LogInfo("Получен сигнал %v, сохраняем карту...", sig)
			if err := store.SaveMap("demo", tm); err != nil {
				logging.LogError("Ошибка сохранения карты: %v", err)
			}
			logging.LogInfo("Остановка завершена")
			return
		}
	}
}
