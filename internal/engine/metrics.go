package engine

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/annel0/tilemap-engine/internal/logging"
)

// StatsProvider отдает снимок счетчиков движка.
// Экспортер не зависит от конкретной реализации — только от этого интерфейса.
type StatsProvider interface {
	Stats() Stats
}

// MetricsExporter управляет HTTP-эндпоинтом Prometheus и периодически обновляет Gauge/Counter.
type MetricsExporter struct {
	provider StatsProvider
	quit     chan struct{}
	done     chan struct{}
	// Prometheus metrics
	chunksCreated prometheus.Counter
	chunksSynced  prometheus.Counter
	atlasRepacks  prometheus.Counter
	events        prometheus.Counter
	chunksActive  prometheus.Gauge
	drawItems     prometheus.Gauge
}

// NewMetricsExporter создает экспортер, но не запускает HTTP-сервер.
func NewMetricsExporter(provider StatsProvider) *MetricsExporter {
	me := &MetricsExporter{
		provider: provider,
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		chunksCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tilemap",
			Name:      "chunks_created_total",
			Help:      "Общее число созданных чанков.",
		}),
		chunksSynced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tilemap",
			Name:      "chunks_synced_total",
			Help:      "Общее число синхронизаций существующих чанков.",
		}),
		atlasRepacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tilemap",
			Name:      "atlas_repacks_total",
			Help:      "Общее число перепаковок атласа тайлов.",
		}),
		events: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tilemap",
			Name:      "interaction_events_total",
			Help:      "Общее число событий взаимодействия с тайлами.",
		}),
		chunksActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tilemap",
			Name:      "chunks_active",
			Help:      "Количество живых чанков во всех картах.",
		}),
		drawItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tilemap",
			Name:      "draw_items",
			Help:      "Количество элементов отрисовки последнего кадра.",
		}),
	}

	// Регистрируем метрики в глобальном регистре Prometheus.
	prometheus.MustRegister(me.chunksCreated, me.chunksSynced, me.atlasRepacks,
		me.events, me.chunksActive, me.drawItems)
	return me
}

// StartHTTP запускает HTTP-эндпоинт Prometheus на указанном адресе (например, ":2112").
// Метод неблокирующий: HTTP-сервер стартует в отдельной горутине.
func (m *MetricsExporter) StartHTTP(addr string) {
	go func() {
		logging.LogInfo("Prometheus /metrics доступен по адресу %s", addr)
		if err := http.ListenAndServe(addr, promhttp.Handler()); err != nil {
			logging.LogError("Ошибка Prometheus HTTP сервера: %v", err)
		}
	}()
	go m.loop()
}

// Stop останавливает обновление метрик. HTTP-сервер при этом не завершается.
func (m *MetricsExporter) Stop() {
	close(m.quit)
	<-m.done
}

func (m *MetricsExporter) loop() {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()
	defer close(m.done)

	// Для коррекции Counter храним прошлое значение и прибавляем дельту.
	var prev Stats

	for {
		select {
		case <-ticker.C:
			stats := m.provider.Stats()

			if d := stats.ChunksCreated - prev.ChunksCreated; d > 0 {
				m.chunksCreated.Add(float64(d))
			}
			if d := stats.ChunksSynced - prev.ChunksSynced; d > 0 {
				m.chunksSynced.Add(float64(d))
			}
			if d := stats.AtlasRepacks - prev.AtlasRepacks; d > 0 {
				m.atlasRepacks.Add(float64(d))
			}
			if d := stats.Events - prev.Events; d > 0 {
				m.events.Add(float64(d))
			}

			m.chunksActive.Set(float64(stats.ChunksActive))
			m.drawItems.Set(float64(stats.DrawItems))

			prev = stats
		case <-m.quit:
			return
		}
	}
}
