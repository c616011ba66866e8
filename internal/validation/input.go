package validation

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Ограничения полей заказа, отклика и пользователя.
const (
	MaxGigTitleLength       = 100
	MaxGigDescriptionLength = 1000
	MaxBidMessageLength     = 500
	MinNameLength           = 2
	MaxNameLength           = 100
	MinPasswordLength       = 8
	MaxPasswordLength       = 72 // предел bcrypt
	MaxAmount               = 100000000.0
)

var (
	emailLocalRegex  = regexp.MustCompile(`^[a-z0-9._+-]+$`)
	emailDomainRegex = regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
	nameRegex        = regexp.MustCompile(`^[\p{L}0-9\s\-_.']+$`)
)

// ValidateLength проверяет длину строки в символах.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s не может быть пустым", fieldName)
	}
	return nil
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return fmt.Errorf("email обязателен")
	}

	local, domain, ok := strings.Cut(email, "@")
	if !ok || strings.Contains(domain, "@") {
		return fmt.Errorf("некорректный формат email")
	}
	if len(local) == 0 || len(local) > 64 {
		return fmt.Errorf("локальная часть email должна быть от 1 до 64 символов")
	}
	if len(domain) == 0 || len(domain) > 255 {
		return fmt.Errorf("доменная часть email должна быть от 1 до 255 символов")
	}
	if !emailLocalRegex.MatchString(local) {
		return fmt.Errorf("локальная часть email содержит недопустимые символы")
	}
	if !emailDomainRegex.MatchString(domain) {
		return fmt.Errorf("доменная часть email имеет некорректный формат")
	}
	return nil
}

// ValidatePassword требует длину 8..72 и хотя бы одну букву и цифру.
func ValidatePassword(password string) error {
	if err := ValidateLength("пароль", password, MinPasswordLength, 0); err != nil {
		return err
	}
	if len(password) > MaxPasswordLength {
		return fmt.Errorf("пароль должен быть не более %d байт", MaxPasswordLength)
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return fmt.Errorf("пароль должен содержать буквы и цифры")
	}
	return nil
}

// ValidateName проверяет отображаемое имя пользователя.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("имя обязательно")
	}
	if err := ValidateLength("имя", name, MinNameLength, MaxNameLength); err != nil {
		return err
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("имя содержит недопустимые символы")
	}
	return nil
}

// ValidateGigTitle проверяет заголовок заказа.
func ValidateGigTitle(title string) error {
	if err := ValidateNonEmpty("заголовок заказа", title); err != nil {
		return err
	}
	return ValidateLength("заголовок заказа", strings.TrimSpace(title), 0, MaxGigTitleLength)
}

// ValidateGigDescription проверяет описание заказа.
func ValidateGigDescription(description string) error {
	if err := ValidateNonEmpty("описание заказа", description); err != nil {
		return err
	}
	return ValidateLength("описание заказа", description, 0, MaxGigDescriptionLength)
}

// ValidateBidMessage проверяет сопроводительное сообщение отклика.
func ValidateBidMessage(message string) error {
	if err := ValidateNonEmpty("сообщение", message); err != nil {
		return err
	}
	return ValidateLength("сообщение", message, 0, MaxBidMessageLength)
}

// ValidateAmount проверяет денежную сумму (бюджет или цену).
func ValidateAmount(fieldName string, amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fmt.Errorf("%s должен быть числом", fieldName)
	}
	if amount < 0 {
		return fmt.Errorf("%s не может быть отрицательным", fieldName)
	}
	if amount > MaxAmount {
		return fmt.Errorf("%s не может превышать %.0f", fieldName, MaxAmount)
	}
	return nil
}
