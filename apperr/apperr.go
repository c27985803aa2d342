package apperr

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Kind — явный класс доменной ошибки. Обработчики выбирают HTTP-статус
// по Kind, а не по тексту сообщения.
type Kind int

const (
	Internal Kind = iota
	Validation
	NotFound
	Auth
	Forbidden
	Conflict
)

type Error struct {
	Kind    Kind
	Message string
	Details []string
}

func (e *Error) Error() string {
	return e.Message
}

func New(kind Kind, message string, details ...string) *Error {
	return &Error{Kind: kind, Message: message, Details: details}
}

// KindOf возвращает класс ошибки; всё незнакомое считается Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

func (k Kind) HTTPStatus() int {
	switch k {
	case Validation:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Auth:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

type envelope struct {
	Error envelopeBody `json:"error"`
}

type envelopeBody struct {
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details"`
}

// Write сериализует ошибку в конверт {error:{code,message,details}}.
func Write(w http.ResponseWriter, err error) {
	kind := KindOf(err)
	status := kind.HTTPStatus()

	message := "Internal server error"
	details := []string{}

	var e *Error
	if errors.As(err, &e) {
		message = e.Message
		details = e.Details
	}
	if details == nil {
		details = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Error: envelopeBody{
		Code:    status,
		Message: message,
		Details: details,
	}})
}
