package validation

import (
	"net/mail"
	"strings"

	"github.com/ndewijer/Wealth-Manager-Backend/internal/api/request"
)

const minPasswordLength = 8

func ValidateRegister(req request.RegisterRequest) error {
	errors := make(map[string]string)

	checkName(errors, "username", req.Username, 50)
	if strings.ContainsAny(req.Username, " \t\r\n") {
		errors["username"] = "username cannot contain whitespace"
	}

	if req.Email != "" {
		if _, err := mail.ParseAddress(req.Email); err != nil || len(req.Email) > 100 {
			errors["email"] = "email is not a valid address"
		}
	}

	if len(req.Password) < minPasswordLength {
		errors["password"] = "password must be at least 8 characters"
	}

	return build(errors)
}

func ValidateLogin(req request.LoginRequest) error {
	errors := make(map[string]string)

	if req.Username == "" {
		errors["username"] = "username is required"
	}
	if req.Password == "" {
		errors["password"] = "password is required"
	}

	return build(errors)
}
