package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"openvoice-client/internal/config"
	"openvoice-client/internal/metrics"
	"openvoice-client/pkg/openvoice"
)

type options struct {
	command     string
	format      string
	input       string
	voice       string
	targetVoice string
	model       string
	speed       float64
	style       string
	accent      string
	out         string
	audioFile   string
	encode      bool
}

func main() {
	opts := parseFlags()

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Ошибка загрузки конфигурации: %v\n", err)
		os.Exit(1)
	}

	// Инициализация логгера
	logger, err := cfg.App.NewLogger()
	if err != nil {
		fmt.Printf("Ошибка инициализации логгера: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Инициализация метрик
	metricsSystem := metrics.New(logger, nil)
	if cfg.App.MetricsEnabled() {
		metricsCtx, cancelMetrics := context.WithCancel(ctx)
		defer cancelMetrics()
		go metrics.NewHandler(metricsSystem, logger).Serve(metricsCtx, cfg.App.MetricsPort)
	}

	client, err := openvoice.NewClient(cfg.API.URL,
		openvoice.WithLogger(logger),
		openvoice.WithObserver(metricsSystem))
	if err != nil {
		logger.Fatal("ошибка создания клиента OpenVoice", zap.Error(err))
	}

	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		logger.Fatal("ошибка создания директории для аудио", zap.Error(err))
	}

	logger.Info("запуск OpenVoice клиента",
		zap.String("api_url", client.BaseURL()),
		zap.String("version", cfg.API.Version),
		zap.String("command", opts.command))

	if err := run(ctx, client, cfg, opts, logger); err != nil {
		logger.Error("команда завершилась с ошибкой", zap.Error(err))
		os.Exit(1)
	}
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.command, "cmd", "generate", "Команда: generate, change-voice, chain")
	flag.StringVar(&o.format, "format", "url", "Формат ответа: url, bytes, base64, stream")
	flag.StringVar(&o.input, "input", "", "Текст для синтеза")
	flag.StringVar(&o.voice, "voice", "", "Голос для синтеза (по умолчанию OPENVOICE_VOICE)")
	flag.StringVar(&o.targetVoice, "target-voice", "", "Голос для change-voice")
	flag.StringVar(&o.model, "model", "", "Модель/язык (по умолчанию OPENVOICE_MODEL)")
	flag.Float64Var(&o.speed, "speed", 1.0, "Скорость речи")
	flag.StringVar(&o.style, "style", "", "Стиль (только v1)")
	flag.StringVar(&o.accent, "accent", "", "Акцент (только v2)")
	flag.StringVar(&o.out, "out", "", "Имя файла для сохранения результата в OUTPUT_DIR")
	flag.StringVar(&o.audioFile, "audio-file", "", "Исходный аудио файл для change-voice")
	flag.BoolVar(&o.encode, "encode", false, "Кодировать исходное аудио в base64")
	flag.Parse()
	return o
}

func run(ctx context.Context, client *openvoice.Client, cfg *config.Config, o options, logger *zap.Logger) error {
	format, err := openvoice.ParseResponseFormat(o.format)
	if err != nil {
		return err
	}

	outputFile := ""
	if o.out != "" {
		outputFile = filepath.Join(cfg.Output.Dir, o.out)
	}

	switch o.command {
	case "generate":
		res := client.GenerateAudio(ctx, generateRequest(cfg, o, format, outputFile))
		return report(ctx, res, outputFile, logger)

	case "change-voice":
		res := client.ChangeVoice(ctx, openvoice.ChangeVoiceRequest{
			Voice:          lo.Ternary(o.targetVoice != "", o.targetVoice, o.voice),
			AudioFile:      o.audioFile,
			Version:        cfg.API.Version,
			Model:          lo.Ternary(o.model != "", o.model, cfg.API.Model),
			ResponseFormat: format,
			Accent:         o.accent,
			OutputFile:     outputFile,
			Encode:         o.encode,
		})
		return report(ctx, res, outputFile, logger)

	case "chain":
		return runChain(ctx, client, cfg, o, format, outputFile, logger)

	default:
		return fmt.Errorf("неизвестная команда: %s", o.command)
	}
}

func generateRequest(cfg *config.Config, o options, format openvoice.ResponseFormat, outputFile string) openvoice.GenerateAudioRequest {
	return openvoice.GenerateAudioRequest{
		Version:        cfg.API.Version,
		Model:          lo.Ternary(o.model != "", o.model, cfg.API.Model),
		Input:          o.input,
		Voice:          lo.Ternary(o.voice != "", o.voice, cfg.API.Voice),
		Speed:          o.speed,
		ResponseFormat: format,
		Style:          o.style,
		Accent:         o.accent,
		OutputFile:     lo.Ternary(format == openvoice.FormatStream, "", outputFile),
	}
}

// runChain генерирует аудио в файл и сразу меняет в нем голос
func runChain(ctx context.Context, client *openvoice.Client, cfg *config.Config, o options, format openvoice.ResponseFormat, outputFile string, logger *zap.Logger) error {
	if o.targetVoice == "" {
		return errors.New("для chain нужен -target-voice")
	}

	intermediate := filepath.Join(cfg.Output.Dir, "chain_input.wav")
	generated := client.GenerateAudio(ctx, generateRequest(cfg, o, openvoice.FormatBytes, intermediate))
	if !generated.OK() {
		return fmt.Errorf("ошибка генерации аудио: %d %s", generated.StatusCode, generated.Message)
	}
	logger.Info("аудио сгенерировано", zap.String("file", generated.FilePath))

	res := client.ChangeVoice(ctx, openvoice.ChangeVoiceRequest{
		Voice:          o.targetVoice,
		AudioFile:      generated.FilePath,
		Version:        cfg.API.Version,
		Model:          lo.Ternary(o.model != "", o.model, cfg.API.Model),
		ResponseFormat: format,
		Accent:         o.accent,
		OutputFile:     outputFile,
	})
	return report(ctx, res, outputFile, logger)
}

// report выводит результат вызова и дочитывает поток, если он был запрошен
func report(ctx context.Context, res openvoice.Result, outputFile string, logger *zap.Logger) error {
	if !res.OK() {
		return fmt.Errorf("запрос не выполнен: статус %d, сообщение %q", res.StatusCode, res.Message)
	}

	switch {
	case res.Format == openvoice.FormatStream:
		if outputFile == "" {
			_ = res.Stream.Close()
			return errors.New("для формата stream нужен -out")
		}
		written, err := res.Stream.SaveToFile(ctx, outputFile)
		if err != nil {
			return err
		}
		logger.Info("поток сохранен", zap.String("file", outputFile), zap.Int64("bytes", written))
	case res.Format == openvoice.FormatURL:
		logger.Info("аудио доступно по ссылке", zap.String("url", res.URL), zap.String("message", res.Message))
	case res.FilePath != "":
		logger.Info("аудио сохранено", zap.String("file", res.FilePath), zap.String("message", res.Message))
	default:
		logger.Info("аудио получено", zap.Int("bytes", len(res.Audio)), zap.String("message", res.Message))
	}

	return nil
}
