package utils

import (
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pulsepost-dev/pulsepost/internal/errors"
)

type PostValidator struct{}

func (v *PostValidator) Title(title string) error {
	if strings.TrimSpace(title) == "" {
		return &errors.ErrorWithStatusCode{Message: "Title is empty", StatusCode: http.StatusBadRequest}
	}
	if utf8.RuneCountInString(title) > 200 {
		return &errors.ErrorWithStatusCode{Message: "Title is too long", StatusCode: http.StatusBadRequest}
	}
	return nil
}

func (v *PostValidator) Content(content string) error {
	if strings.TrimSpace(content) == "" {
		return &errors.ErrorWithStatusCode{Message: "Content is empty", StatusCode: http.StatusBadRequest}
	}
	if utf8.RuneCountInString(content) > 20_000 {
		return &errors.ErrorWithStatusCode{Message: "Content is too long", StatusCode: http.StatusBadRequest}
	}
	return nil
}

func (v *PostValidator) CommentText(text string) error {
	if strings.TrimSpace(text) == "" {
		return &errors.ErrorWithStatusCode{Message: "Comment text is empty", StatusCode: http.StatusBadRequest}
	}
	if utf8.RuneCountInString(text) > 2_000 {
		return &errors.ErrorWithStatusCode{Message: "Comment text is too long", StatusCode: http.StatusBadRequest}
	}
	return nil
}

type CredentialsValidator struct{}

func (v *CredentialsValidator) Username(username string) error {
	if strings.TrimSpace(username) == "" {
		return &errors.ErrorWithStatusCode{Message: "Username is empty", StatusCode: http.StatusBadRequest}
	}
	if utf8.RuneCountInString(username) > 50 {
		return &errors.ErrorWithStatusCode{Message: "Username is too long", StatusCode: http.StatusBadRequest}
	}
	return nil
}

func (v *CredentialsValidator) Email(email string) error {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 || !strings.Contains(email[at:], ".") {
		return &errors.ErrorWithStatusCode{Message: "Invalid email address", StatusCode: http.StatusBadRequest}
	}
	return nil
}

// Password enforces the credential policy: at least 8 characters with one
// upper case letter, one lower case letter and one digit.
func (v *CredentialsValidator) Password(password string) error {
	if utf8.RuneCountInString(password) < 8 {
		return &errors.ErrorWithStatusCode{Message: "Password must be at least 8 characters long", StatusCode: http.StatusBadRequest}
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return &errors.ErrorWithStatusCode{Message: "Password must contain an upper case letter, a lower case letter and a digit", StatusCode: http.StatusBadRequest}
	}
	return nil
}
