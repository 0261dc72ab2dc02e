package openvoice

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"go.uber.org/zap"
)

const (
	MessageAudioBytes      = "Generated audio bytes"
	MessageAudioBytesSaved = "Generated audio bytes and saved to file"
	MessageAudioStream     = "Generated audio stream"
)

// Result - единый результат вызова API: полезная нагрузка, HTTP статус и сообщение
type Result struct {
	// Format - формат, в котором сервер вернул полезную нагрузку
	Format ResponseFormat

	URL      string
	Audio    []byte
	FilePath string
	Stream   *AudioStream

	StatusCode int
	Message    string

	// Err содержит причину сбоя на стороне клиента; для ответа сервера с ошибкой остается nil
	Err error
}

// Payload возвращает полезную нагрузку запрошенного формата, для неуспешного вызова nil.
// Пустой url в успешном ответе возвращается как "", а не nil.
func (r Result) Payload() any {
	if !r.OK() {
		return nil
	}
	switch r.Format {
	case FormatURL:
		return r.URL
	case FormatBytes, FormatBase64:
		if r.FilePath != "" {
			return r.FilePath
		}
		return r.Audio
	case FormatStream:
		return r.Stream
	default:
		return nil
	}
}

// OK сообщает, вернул ли сервер успешный ответ
func (r Result) OK() bool {
	return r.StatusCode == http.StatusOK && r.Err == nil
}

func internalError(err error) Result {
	return Result{
		StatusCode: http.StatusInternalServerError,
		Message:    internalErrorMessage,
		Err:        err,
	}
}

// envelope - конверт ответа {"result": {"data": {...}, "message": "..."}}
type envelope struct {
	Result *struct {
		Data    map[string]json.RawMessage `json:"data"`
		Message *string                    `json:"message"`
	} `json:"result"`
}

func decodeEnvelope(body io.Reader) (*envelope, error) {
	var env envelope
	if err := json.NewDecoder(body).Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: ошибка парсинга ответа: %w", ErrProtocol, err)
	}
	if env.Result == nil {
		return nil, fmt.Errorf("%w: в ответе нет поля result", ErrProtocol)
	}
	return &env, nil
}

func (e *envelope) message() (string, error) {
	if e.Result.Message == nil {
		return "", fmt.Errorf("%w: в ответе нет поля result.message", ErrProtocol)
	}
	return *e.Result.Message, nil
}

func (e *envelope) dataString(key string) (string, error) {
	raw, ok := e.Result.Data[key]
	if !ok {
		return "", fmt.Errorf("%w: в ответе нет поля result.data.%s", ErrProtocol, key)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("%w: поле result.data.%s не строка: %w", ErrProtocol, key, err)
	}
	return s, nil
}

// handleResponse разбирает ответ сервера согласно запрошенному формату.
// Тело закрывается здесь для всех форматов, кроме stream.
func (c *Client) handleResponse(resp *http.Response, format ResponseFormat, outputFile string, logger *zap.Logger) (Result, error) {
	status := resp.StatusCode

	if format != FormatStream || status != http.StatusOK {
		defer resp.Body.Close()
	}

	if status != http.StatusOK {
		env, err := decodeEnvelope(resp.Body)
		if err != nil {
			return Result{}, err
		}
		msg, err := env.message()
		if err != nil {
			return Result{}, err
		}
		logger.Error("сервер отклонил запрос",
			zap.Int("status_code", status),
			zap.String("message", msg))
		return Result{StatusCode: status, Message: msg}, nil
	}

	switch format {
	case FormatURL:
		env, err := decodeEnvelope(resp.Body)
		if err != nil {
			return Result{}, err
		}
		fileURL, err := env.dataString("url")
		if err != nil {
			return Result{}, err
		}
		msg, err := env.message()
		if err != nil {
			return Result{}, err
		}
		logger.Debug("получен URL сгенерированного аудио", zap.String("url", fileURL))
		return Result{Format: format, URL: fileURL, StatusCode: status, Message: msg}, nil

	case FormatBytes, FormatBase64:
		audio, err := readAudio(resp.Body, format)
		if err != nil {
			return Result{}, err
		}

		if outputFile == "" {
			return Result{Format: format, Audio: audio, StatusCode: status, Message: MessageAudioBytes}, nil
		}

		if err := writeAudioFile(outputFile, audio); err != nil {
			return Result{}, err
		}
		logger.Debug("аудио сохранено в файл",
			zap.String("file", outputFile),
			zap.Int("audio_size", len(audio)))
		return Result{Format: format, FilePath: outputFile, StatusCode: status, Message: MessageAudioBytesSaved}, nil

	case FormatStream:
		return Result{
			Format:     format,
			Stream:     newAudioStream(resp.Body, logger, c.observer),
			StatusCode: status,
			Message:    MessageAudioStream,
		}, nil
	}

	// validate() не пропускает сюда неизвестные форматы
	return Result{}, fmt.Errorf("%w: %q", ErrInvalidFormat, format)
}

func readAudio(body io.Reader, format ResponseFormat) ([]byte, error) {
	if format == FormatBytes {
		audio, err := io.ReadAll(body)
		if err != nil {
			return nil, fmt.Errorf("%w: ошибка чтения аудио данных: %w", ErrTransport, err)
		}
		return audio, nil
	}

	env, err := decodeEnvelope(body)
	if err != nil {
		return nil, err
	}
	encoded, err := env.dataString("audio_data")
	if err != nil {
		return nil, err
	}
	audio, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: ошибка декодирования base64: %w", ErrProtocol, err)
	}
	return audio, nil
}

// writeAudioFile записывает аудио в файл, файл закрывается до возврата
func writeAudioFile(filename string, audio []byte) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("%w: ошибка создания файла %s: %w", ErrFileIO, filename, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: ошибка закрытия файла %s: %w", ErrFileIO, filename, cerr)
		}
	}()

	if _, err := file.Write(audio); err != nil {
		return fmt.Errorf("%w: ошибка записи файла %s: %w", ErrFileIO, filename, err)
	}
	return nil
}
