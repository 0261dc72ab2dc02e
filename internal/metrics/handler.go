package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Handler обрабатывает HTTP запросы для метрик
type Handler struct {
	metrics *Metrics
	logger  *zap.Logger
}

// NewHandler создает новый обработчик метрик
func NewHandler(metrics *Metrics, logger *zap.Logger) *Handler {
	return &Handler{
		metrics: metrics,
		logger:  logger,
	}
}

// MetricsHandler возвращает HTTP handler для Prometheus метрик
func (h *Handler) MetricsHandler() http.Handler {
	return h.metrics.Handler()
}

// HealthHandler возвращает статус здоровья сервиса
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok","service":"openvoice-client"}`))
}

// Mux собирает маршруты /metrics и /health
func (h *Handler) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", h.MetricsHandler())
	mux.HandleFunc("/health", h.HealthHandler)
	return mux
}

// Serve запускает HTTP сервер метрик и останавливает его при отмене ctx
func (h *Handler) Serve(ctx context.Context, port int) {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: h.Mux(),
	}

	h.logger.Info("HTTP сервер метрик запущен", zap.String("address", server.Addr))

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			h.logger.Error("ошибка HTTP сервера метрик", zap.Error(err))
		}
	}()

	// Ожидание сигнала завершения
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		h.logger.Error("ошибка при остановке HTTP сервера метрик", zap.Error(err))
	}

	h.logger.Info("HTTP сервер метрик остановлен")
}
