package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"openvoice-client/pkg/openvoice"
)

var _ openvoice.Observer = (*Metrics)(nil)

// Metrics содержит все метрики клиента OpenVoice
type Metrics struct {
	logger   *zap.Logger
	gatherer prometheus.Gatherer

	// Счетчики
	requests    *prometheus.CounterVec
	audioBytes  *prometheus.CounterVec
	streamBytes prometheus.Counter

	// Гистограммы
	requestDuration *prometheus.HistogramVec

	// Gauge метрики
	lastStatus *prometheus.GaugeVec
}

// New создает новый экземпляр метрик и регистрирует их в reg.
// При reg == nil используется глобальный регистр prometheus.
func New(logger *zap.Logger, reg prometheus.Registerer) *Metrics {
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	} else if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	m := &Metrics{
		logger:   logger,
		gatherer: gatherer,

		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "openvoice_requests_total",
				Help: "Общее количество запросов к OpenVoice API",
			},
			[]string{"endpoint", "format", "status"},
		),

		audioBytes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "openvoice_audio_bytes_total",
				Help: "Количество байт аудио, полученных в памяти",
			},
			[]string{"endpoint"},
		),

		streamBytes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "openvoice_stream_bytes_total",
				Help: "Количество байт аудио, записанных из потока",
			},
		),

		// Время генерации аудио измеряется секундами, а не миллисекундами
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "openvoice_request_duration_seconds",
				Help:    "Время выполнения запроса к OpenVoice API в секундах",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"endpoint", "format"},
		),

		lastStatus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "openvoice_last_status_code",
				Help: "HTTP статус последнего запроса",
			},
			[]string{"endpoint"},
		),
	}

	// Регистрируем все метрики
	reg.MustRegister(
		m.requests,
		m.audioBytes,
		m.streamBytes,
		m.requestDuration,
		m.lastStatus,
	)

	return m
}

// ObserveRequest записывает результат вызова эндпоинта
func (m *Metrics) ObserveRequest(endpoint string, format openvoice.ResponseFormat, statusCode int, duration time.Duration) {
	status := strconv.Itoa(statusCode)

	m.requests.WithLabelValues(endpoint, format.String(), status).Inc()
	m.lastStatus.WithLabelValues(endpoint).Set(float64(statusCode))
	if duration > 0 {
		m.requestDuration.WithLabelValues(endpoint, format.String()).Observe(duration.Seconds())
	}

	m.logger.Debug("метрика запроса записана",
		zap.String("endpoint", endpoint),
		zap.String("format", format.String()),
		zap.String("status", status),
		zap.Duration("duration", duration))
}

// ObserveAudioBytes учитывает аудио, возвращенное в памяти
func (m *Metrics) ObserveAudioBytes(endpoint string, n int) {
	m.audioBytes.WithLabelValues(endpoint).Add(float64(n))
}

// ObserveStreamBytes учитывает порцию, записанную из потока
func (m *Metrics) ObserveStreamBytes(n int) {
	m.streamBytes.Add(float64(n))
}

// Handler возвращает HTTP handler для метрик
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
