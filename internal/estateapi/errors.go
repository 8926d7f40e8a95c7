package estateapi

import (
	"errors"
	"fmt"

	"github.com/magabrotheeeer/estate-aggregator/internal/lib/sl"
)

// Error — отказ обращения к удалённому API с категорией для логов.
// Категории соответствуют таксономии sl: transport, http, envelope, decode.
type Error struct {
	Category string
	Op       string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Category, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CategoryOf возвращает категорию отказа API или transport,
// если ошибка пришла не из этого пакета.
func CategoryOf(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Category
	}
	return sl.CategoryTransport
}

func transportErr(op string, err error) *Error {
	return &Error{Category: sl.CategoryTransport, Op: op, Err: err}
}

func httpErr(op string, status string) *Error {
	return &Error{Category: sl.CategoryHTTP, Op: op, Err: fmt.Errorf("unexpected status: %s", status)}
}

func envelopeErr(op, message string) *Error {
	if message == "" {
		message = "request was not successful"
	}
	return &Error{Category: sl.CategoryEnvelope, Op: op, Err: errors.New(message)}
}

func decodeErr(op string, err error) *Error {
	return &Error{Category: sl.CategoryDecode, Op: op, Err: err}
}
