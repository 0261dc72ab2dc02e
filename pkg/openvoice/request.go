package openvoice

import (
	"encoding/base64"
	"fmt"
	"os"
)

const (
	DefaultBaseURL = "http://localhost:5000"
	DefaultVersion = "v2"
	DefaultModel   = "en"
	DefaultVoice   = "raw"
	DefaultSpeed   = 1.0
)

// GenerateAudioRequest представляет запрос на синтез речи
type GenerateAudioRequest struct {
	Version        string
	Model          string // язык/модель, например en
	Input          string
	Voice          string
	Speed          float64
	ResponseFormat ResponseFormat
	Style          string // только v1
	Accent         string // только v2
	// OutputFile - путь для сохранения аудио при форматах bytes и base64
	OutputFile string
}

// ChangeVoiceRequest представляет запрос на смену голоса в готовой записи
type ChangeVoiceRequest struct {
	Voice string
	// AudioData - base64 текст, либо сырые байты при Encode=true
	AudioData []byte
	// AudioFile имеет приоритет над AudioData и всегда кодируется в base64
	AudioFile      string
	Version        string
	Model          string
	ResponseFormat ResponseFormat
	Accent         string
	OutputFile     string
	Encode         bool
}

type generateAudioPayload struct {
	Model          string         `json:"model"`
	Input          string         `json:"input"`
	Speed          float64        `json:"speed"`
	ResponseFormat ResponseFormat `json:"response_format"`
	Voice          string         `json:"voice"`
	Style          string         `json:"style,omitempty"`
	Accent         string         `json:"accent,omitempty"`
}

type changeVoicePayload struct {
	Model          string         `json:"model"`
	ResponseFormat ResponseFormat `json:"response_format"`
	Voice          string         `json:"voice"`
	AudioData      string         `json:"audio_data"`
	Accent         string         `json:"accent,omitempty"`
}

func (r *GenerateAudioRequest) applyDefaults() {
	if r.Version == "" {
		r.Version = DefaultVersion
	}
	if r.Model == "" {
		r.Model = DefaultModel
	}
	if r.Voice == "" {
		r.Voice = DefaultVoice
	}
	if r.Speed == 0 {
		r.Speed = DefaultSpeed
	}
	if r.ResponseFormat == "" {
		r.ResponseFormat = FormatURL
	}
}

func (r *GenerateAudioRequest) validate() error {
	if !r.ResponseFormat.Valid() {
		return fmt.Errorf("%w: %w: %q", ErrInvalidRequest, ErrInvalidFormat, r.ResponseFormat)
	}
	if r.Speed < 0 {
		return fmt.Errorf("%w: скорость должна быть положительной, получено %v", ErrInvalidRequest, r.Speed)
	}
	return nil
}

func (r *GenerateAudioRequest) payload() generateAudioPayload {
	return generateAudioPayload{
		Model:          r.Model,
		Input:          r.Input,
		Speed:          r.Speed,
		ResponseFormat: r.ResponseFormat,
		Voice:          r.Voice,
		Style:          r.Style,
		Accent:         r.Accent,
	}
}

func (r *ChangeVoiceRequest) applyDefaults() {
	if r.Version == "" {
		r.Version = DefaultVersion
	}
	if r.Model == "" {
		r.Model = DefaultModel
	}
	if r.ResponseFormat == "" {
		r.ResponseFormat = FormatURL
	}
}

func (r *ChangeVoiceRequest) validate() error {
	if !r.ResponseFormat.Valid() {
		return fmt.Errorf("%w: %w: %q", ErrInvalidRequest, ErrInvalidFormat, r.ResponseFormat)
	}
	if r.AudioFile == "" && len(r.AudioData) == 0 {
		return fmt.Errorf("%w: не передан ни audio_file, ни audio_data", ErrInvalidRequest)
	}
	return nil
}

// audioData возвращает значение поля audio_data. Файл читается целиком и кодируется в base64.
func (r *ChangeVoiceRequest) audioData() (string, error) {
	if r.AudioFile != "" {
		raw, err := os.ReadFile(r.AudioFile)
		if err != nil {
			return "", fmt.Errorf("%w: ошибка чтения аудио файла %s: %w", ErrFileIO, r.AudioFile, err)
		}
		return base64.StdEncoding.EncodeToString(raw), nil
	}

	if r.Encode {
		return base64.StdEncoding.EncodeToString(r.AudioData), nil
	}

	return string(r.AudioData), nil
}

func (r *ChangeVoiceRequest) payload(audioData string) changeVoicePayload {
	return changeVoicePayload{
		Model:          r.Model,
		ResponseFormat: r.ResponseFormat,
		Voice:          r.Voice,
		AudioData:      audioData,
		Accent:         r.Accent,
	}
}
