package openvoice

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// ResponseFormat определяет, в каком виде сервер возвращает сгенерированное аудио
type ResponseFormat string

const (
	FormatURL    ResponseFormat = "url"
	FormatBytes  ResponseFormat = "bytes"
	FormatBase64 ResponseFormat = "base64"
	FormatStream ResponseFormat = "stream"
)

var allFormats = []ResponseFormat{FormatURL, FormatBytes, FormatBase64, FormatStream}

// Valid проверяет, что формат входит в список поддерживаемых
func (f ResponseFormat) Valid() bool {
	return lo.Contains(allFormats, f)
}

func (f ResponseFormat) String() string {
	return string(f)
}

// ParseResponseFormat разбирает строковое значение формата ответа
func ParseResponseFormat(s string) (ResponseFormat, error) {
	f := ResponseFormat(strings.ToLower(strings.TrimSpace(s)))
	if !f.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	return f, nil
}
