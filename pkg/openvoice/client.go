package openvoice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	EndpointGenerateAudio = "generate-audio"
	EndpointChangeVoice   = "change-voice"
)

// Observer получает сведения о каждом вызове API (метрики)
type Observer interface {
	ObserveRequest(endpoint string, format ResponseFormat, statusCode int, duration time.Duration)
	ObserveAudioBytes(endpoint string, n int)
	ObserveStreamBytes(n int)
}

type nopObserver struct{}

func (nopObserver) ObserveRequest(string, ResponseFormat, int, time.Duration) {}
func (nopObserver) ObserveAudioBytes(string, int)                             {}
func (nopObserver) ObserveStreamBytes(int)                                    {}

// Client представляет клиент для работы с OpenVoice API
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	observer   Observer
}

// Option настраивает клиент
type Option func(*clientOptions)

type clientOptions struct {
	logger     *zap.Logger
	logLevel   string
	logFormat  string
	httpClient *http.Client
	observer   Observer
}

// WithLogger задает готовый логгер, уровень и формат при этом игнорируются
func WithLogger(logger *zap.Logger) Option {
	return func(o *clientOptions) { o.logger = logger }
}

// WithLogLevel задает уровень логирования клиента: debug, info, warn, error
func WithLogLevel(level string) Option {
	return func(o *clientOptions) { o.logLevel = level }
}

// WithLogFormat задает формат логов: console или json
func WithLogFormat(format string) Option {
	return func(o *clientOptions) { o.logFormat = format }
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *clientOptions) { o.httpClient = httpClient }
}

func WithObserver(observer Observer) Option {
	return func(o *clientOptions) { o.observer = observer }
}

// NewClient создает новый клиент OpenVoice API
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	o := clientOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	logger := o.logger
	if logger == nil {
		var err error
		logger, err = newLogger(o.logLevel, o.logFormat)
		if err != nil {
			return nil, fmt.Errorf("ошибка создания логгера: %w", err)
		}
	}

	httpClient := o.httpClient
	if httpClient == nil {
		// без собственного таймаута, как у транспорта по умолчанию
		httpClient = &http.Client{}
	}

	observer := o.observer
	if observer == nil {
		observer = nopObserver{}
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
		observer:   observer,
	}, nil
}

// Logger возвращает логгер клиента
func (c *Client) Logger() *zap.Logger {
	return c.logger
}

// BaseURL возвращает базовый адрес API
func (c *Client) BaseURL() string {
	return c.baseURL
}

// HealthCheck проверяет доступность API
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("ошибка создания запроса: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: ошибка отправки запроса: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("нездоровый статус API: %d", resp.StatusCode)
	}

	return nil
}

// call описывает один вызов эндпоинта
type call struct {
	endpoint   string
	version    string
	format     ResponseFormat
	outputFile string
	requestID  string
	logger     *zap.Logger
}

func (c *Client) newCall(endpoint, version string, format ResponseFormat, outputFile string) call {
	id := uuid.NewString()
	return call{
		endpoint:   endpoint,
		version:    version,
		format:     format,
		outputFile: outputFile,
		requestID:  id,
		logger: c.logger.With(
			zap.String("endpoint", endpoint),
			zap.String("request_id", id)),
	}
}

// GenerateAudio синтезирует речь из текста
func (c *Client) GenerateAudio(ctx context.Context, req GenerateAudioRequest) Result {
	return runSync(func() Result {
		return c.generateAudio(ctx, req)
	})
}

// ChangeVoice меняет голос в переданной записи.
// Ошибка чтения AudioFile завершает вызов до отправки запроса.
func (c *Client) ChangeVoice(ctx context.Context, req ChangeVoiceRequest) Result {
	return runSync(func() Result {
		return c.changeVoice(ctx, req)
	})
}

func (c *Client) generateAudio(ctx context.Context, req GenerateAudioRequest) Result {
	req.applyDefaults()
	cl := c.newCall(EndpointGenerateAudio, req.Version, req.ResponseFormat, req.OutputFile)

	if err := req.validate(); err != nil {
		return c.fail(cl, err)
	}

	payload := req.payload()
	cl.logger.Debug("отправляем запрос", zap.Any("payload", payload))

	return c.do(ctx, cl, payload)
}

func (c *Client) changeVoice(ctx context.Context, req ChangeVoiceRequest) Result {
	req.applyDefaults()
	cl := c.newCall(EndpointChangeVoice, req.Version, req.ResponseFormat, req.OutputFile)

	if err := req.validate(); err != nil {
		return c.fail(cl, err)
	}

	audioData, err := req.audioData()
	if err != nil {
		return c.fail(cl, err)
	}

	payload := req.payload(audioData)
	cl.logger.Debug("отправляем запрос",
		zap.String("model", payload.Model),
		zap.String("voice", payload.Voice),
		zap.String("response_format", payload.ResponseFormat.String()),
		zap.String("accent", payload.Accent),
		zap.Int("audio_data_length", len(payload.AudioData)))

	return c.do(ctx, cl, payload)
}

// do выполняет один POST запрос и разбирает ответ
func (c *Client) do(ctx context.Context, cl call, payload any) Result {
	start := time.Now()

	body, err := json.Marshal(payload)
	if err != nil {
		return c.fail(cl, fmt.Errorf("%w: ошибка сериализации запроса: %w", ErrInvalidRequest, err))
	}

	url := fmt.Sprintf("%s/%s/%s", c.baseURL, cl.version, cl.endpoint)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return c.fail(cl, fmt.Errorf("%w: ошибка создания запроса: %w", ErrTransport, err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-ID", cl.requestID)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return c.fail(cl, fmt.Errorf("%w: ошибка выполнения запроса: %w", ErrTransport, err))
	}

	result, err := c.handleResponse(resp, cl.format, cl.outputFile, cl.logger)
	if err != nil {
		return c.fail(cl, err)
	}

	duration := time.Since(start)
	c.observer.ObserveRequest(cl.endpoint, cl.format, result.StatusCode, duration)
	if result.Audio != nil {
		c.observer.ObserveAudioBytes(cl.endpoint, len(result.Audio))
	}

	cl.logger.Debug("запрос выполнен",
		zap.String("url", url),
		zap.Int("status_code", result.StatusCode),
		zap.Duration("duration", duration))

	return result
}

// fail сводит любой сбой на стороне клиента к (nil, 500, "Internal Server Error")
func (c *Client) fail(cl call, err error) Result {
	fields := []zap.Field{zap.Error(err)}
	if cl.logger.Core().Enabled(zap.DebugLevel) {
		fields = append(fields, zap.StackSkip("stack", 1))
	}
	cl.logger.Error("непредвиденная ошибка", fields...)

	c.observer.ObserveRequest(cl.endpoint, cl.format, http.StatusInternalServerError, 0)
	return internalError(err)
}
