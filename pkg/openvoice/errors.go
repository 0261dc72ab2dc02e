package openvoice

import "errors"

// Сообщение, которое получает вызывающий код при любом сбое на стороне клиента
const internalErrorMessage = "Internal Server Error"

var (
	// ErrTransport - сбой сетевого вызова (соединение, DNS, обрыв ответа)
	ErrTransport = errors.New("ошибка транспорта")
	// ErrFileIO - ошибка чтения исходного аудио или записи результата
	ErrFileIO = errors.New("ошибка файловой операции")
	// ErrProtocol - ответ сервера не соответствует ожидаемому конверту
	ErrProtocol = errors.New("несоответствие протоколу")
	// ErrInvalidRequest - запрос отклонен до отправки
	ErrInvalidRequest = errors.New("некорректный запрос")
	// ErrInvalidFormat - неизвестный response_format
	ErrInvalidFormat = errors.New("неподдерживаемый формат ответа")
)
