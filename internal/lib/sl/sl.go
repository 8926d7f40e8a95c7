// Package sl содержит вспомогательные функции для работы с логгером slog.
// Основная цель — упростить формирование структурированных полей лога:
// текст ошибки и категория отказа, чтобы проглоченные ошибки оставались
// различимыми в логах.
package sl

import "log/slog"

// Категории отказов при обращении к удалённому API.
const (
	CategoryTransport = "transport" // сетевой сбой, запрос не дошёл
	CategoryHTTP      = "http"      // ответ с не-2xx статусом
	CategoryEnvelope  = "envelope"  // success=false в теле ответа
	CategoryDecode    = "decode"    // тело ответа не разобралось
)

// Err возвращает slog.Attr с ключом "error" и значением текста ошибки.
//
// Пример:
//
//	log.Error("failed to do something", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// Category возвращает slog.Attr с ключом "category" для маркировки
// категории отказа.
func Category(c string) slog.Attr {
	return slog.Attr{
		Key:   "category",
		Value: slog.StringValue(c),
	}
}
