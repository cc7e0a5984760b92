package userservice

import (
	"regexp"

	"github.com/sushihentaime/quillpost/internal/common"
)

const PasswordMismatchMessage = "Passwords do not match."

var (
	EmailRX = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	TokenRX = regexp.MustCompile(`^[A-Z2-7]{26}$`)
)

func validateName(v *common.Validator, name string) {
	v.Check(common.NotBlank(name), "name", "must be provided")
	v.Check(common.MaxChars(name, 100), "name", "must not be more than 100 characters long")
}

func validateEmail(v *common.Validator, email string) {
	v.Check(email != "", "email", "must be provided")
	v.Check(EmailRX.MatchString(email), "email", "must be a valid email address")
}

// bcrypt ignores everything past 72 bytes.
func validatePassword(v *common.Validator, password string) {
	v.Check(password != "", "password", "must be provided")
	v.Check(len(password) <= 72, "password", "must not be more than 72 bytes long")
}

func validatePasswordConfirmation(v *common.Validator, password, confirm string) {
	v.Check(password == confirm, "confirm_password", PasswordMismatchMessage)
}

func ValidateToken(v *common.Validator, token string) {
	v.Check(token != "", "token", "must be provided")
	v.Check(TokenRX.MatchString(token), "token", "invalid token")
}
