// Package response содержит вспомогательные типы и функции для формирования
// JSON-ответов HTTP-обработчиков: сообщения об успехе, ошибки и списки
// ошибок валидации по полям.
package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/go-playground/validator"
)

// MessageResponse описывает ответ с текстовым сообщением об успехе.
type MessageResponse struct {
	Message string `json:"message" example:"Subscription created successfully!"`
}

// ErrorResponse описывает ответ с одной ошибкой.
type ErrorResponse struct {
	Error string `json:"error" example:"Email already subscribed"`
}

// FieldError описывает ошибку валидации конкретного поля.
type FieldError struct {
	Field   string `json:"field" example:"email"`
	Message string `json:"message" example:"field email must be a valid email address"`
}

// ValidationErrorResponse описывает ответ со списком ошибок валидации.
type ValidationErrorResponse struct {
	Error []FieldError `json:"error"`
}

// HealthResponse описывает ответ проверки готовности.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// Message возвращает ответ с сообщением.
func Message(msg string) MessageResponse {
	return MessageResponse{Message: msg}
}

// Error возвращает ответ с ошибкой и переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{Error: msg}
}

// ValidationError формирует список ошибок по полям на основе ошибок валидатора.
func ValidationError(errs validator.ValidationErrors) ValidationErrorResponse {
	fieldErrs := make([]FieldError, 0, len(errs))

	for _, err := range errs {
		var msg string
		switch err.ActualTag() {
		case "required":
			msg = fmt.Sprintf("field %s is a required field", err.Field())
		case "email":
			msg = fmt.Sprintf("field %s must be a valid email address", err.Field())
		case "max":
			msg = fmt.Sprintf("field %s must be at most %s characters long", err.Field(), err.Param())
		default:
			msg = fmt.Sprintf("field %s is not a valid", err.Field())
		}
		fieldErrs = append(fieldErrs, FieldError{Field: err.Field(), Message: msg})
	}
	return ValidationErrorResponse{Error: fieldErrs}
}

// DecodeError превращает ошибку разбора JSON-тела в список ошибок валидации.
// Для несовпадения типа поля указывается само поле, иначе тело запроса целиком.
func DecodeError(err error) ValidationErrorResponse {
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return ValidationErrorResponse{Error: []FieldError{{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("field %s must be a %s", typeErr.Field, typeErr.Type.String()),
		}}}
	case errors.As(err, &typeErr):
		return ValidationErrorResponse{Error: []FieldError{{
			Field:   "body",
			Message: "request body must be a JSON object",
		}}}
	case errors.Is(err, io.EOF):
		return ValidationErrorResponse{Error: []FieldError{{
			Field:   "body",
			Message: "request body is empty",
		}}}
	default:
		return ValidationErrorResponse{Error: []FieldError{{
			Field:   "body",
			Message: "request body is not valid JSON",
		}}}
	}
}
