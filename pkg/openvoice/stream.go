package openvoice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// StreamChunkSize - размер порции, которой вычитывается поток аудио
const StreamChunkSize = 1024

// AudioStream - непрочитанное тело ответа для формата stream.
// mu упорядочивает читателей; Close и отмена контекста закрывают тело без mu,
// чтобы прервать зависшее чтение.
type AudioStream struct {
	logger   *zap.Logger
	observer Observer

	mu   sync.Mutex
	body io.ReadCloser

	closeOnce sync.Once
	closeErr  error
	closed    atomic.Bool
}

// StreamResult - итог фоновой выгрузки потока
type StreamResult struct {
	Written int64
	Err     error
}

func newAudioStream(body io.ReadCloser, logger *zap.Logger, observer Observer) *AudioStream {
	return &AudioStream{
		logger:   logger,
		observer: observer,
		body:     body,
	}
}

// Read читает поток напрямую, минуя файл
func (s *AudioStream) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return 0, io.EOF
	}
	n, err := s.body.Read(p)
	if errors.Is(err, io.EOF) {
		s.finish()
	}
	return n, err
}

// Close освобождает поток, если он не был дочитан. Прерывает идущее чтение.
func (s *AudioStream) Close() error {
	return s.closeBody()
}

// SaveToFile вычитывает поток порциями по StreamChunkSize байт и дописывает их в файл.
// Повторный вызов на исчерпанном потоке создает пустой файл и возвращает 0.
// Отмена ctx закрывает тело и прерывает ожидание очередной порции.
func (s *AudioStream) SaveToFile(ctx context.Context, outputFile string) (written int64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Debug("начинаем запись потока в файл", zap.String("file", outputFile))

	file, err := os.Create(outputFile)
	if err != nil {
		return 0, fmt.Errorf("%w: ошибка создания файла %s: %w", ErrFileIO, outputFile, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: ошибка закрытия файла %s: %w", ErrFileIO, outputFile, cerr)
		}
		if err != nil {
			s.logger.Error("ошибка записи потока", zap.String("file", outputFile), zap.Error(err))
			return
		}
		s.logger.Debug("запись потока завершена",
			zap.String("file", outputFile),
			zap.Int64("written", written))
	}()

	if s.closed.Load() {
		return 0, nil
	}
	// тело закрывается при любом выходе: исчерпание, ошибка или отмена
	defer s.finish()
	stop := context.AfterFunc(ctx, func() { _ = s.closeBody() })
	defer stop()

	buf := make([]byte, StreamChunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		n, rerr := s.body.Read(buf)
		if n > 0 {
			if _, werr := file.Write(buf[:n]); werr != nil {
				return written, fmt.Errorf("%w: ошибка записи файла %s: %w", ErrFileIO, outputFile, werr)
			}
			written += int64(n)
			s.observer.ObserveStreamBytes(n)
		}
		if rerr == nil {
			continue
		}
		if cerr := ctx.Err(); cerr != nil {
			return written, cerr
		}
		// до finish тело закрывает только Close со стороны вызывающего
		if s.closed.Load() {
			return written, fmt.Errorf("%w: поток закрыт во время чтения", ErrTransport)
		}
		if errors.Is(rerr, io.EOF) {
			return written, nil
		}
		return written, fmt.Errorf("%w: ошибка чтения потока: %w", ErrTransport, rerr)
	}
}

// SaveToFileAsync выполняет SaveToFile в отдельной горутине
func (s *AudioStream) SaveToFileAsync(ctx context.Context, outputFile string) <-chan StreamResult {
	done := make(chan StreamResult, 1)
	go func() {
		defer close(done)
		n, err := s.SaveToFile(ctx, outputFile)
		done <- StreamResult{Written: n, Err: err}
	}()
	return done
}

// finish помечает поток исчерпанным и закрывает тело
func (s *AudioStream) finish() {
	if err := s.closeBody(); err != nil {
		s.logger.Warn("ошибка закрытия тела ответа", zap.Error(err))
	}
}

// closeBody закрывает тело ровно один раз
func (s *AudioStream) closeBody() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.closeErr = s.body.Close()
	})
	return s.closeErr
}
