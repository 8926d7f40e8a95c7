package models

// RegisterRequest используется для приёма данных регистрации оператора
// из JSON-запроса до их валидации.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,alphanum"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest используется для приёма данных входа из JSON-запроса.
type LoginRequest struct {
	Username string `json:"username" validate:"required,alphanum"`
	Password string `json:"password" validate:"required"`
}

// PaymentStatusRequest — запрос смены статуса платежа администратором.
type PaymentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}
