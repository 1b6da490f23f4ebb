package service

import (
	"regexp"
	"strings"

	"github.com/zlnvch/blogverse/models"
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+$`)

const (
	maxNameLength  = 100
	maxEmailLength = 254
	// bcrypt only considers the first 72 bytes
	maxPasswordLength = 72
	maxTitleLength    = 200
	maxDescLength     = 20000
	maxImgLength      = 2048
)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidateSignUp(name string, email string, password string) error {
	if strings.TrimSpace(name) == "" {
		return validationError("name is required")
	}
	if len(name) > maxNameLength {
		return validationError("name is too long")
	}
	if err := validateEmail(email); err != nil {
		return err
	}
	if password == "" {
		return validationError("password is required")
	}
	if len(password) > maxPasswordLength {
		return validationError("password is too long")
	}
	return nil
}

func ValidateLogin(email string, password string) error {
	if strings.TrimSpace(email) == "" {
		return validationError("email is required")
	}
	if password == "" {
		return validationError("password is required")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return validationError("email is required")
	}
	if len(email) > maxEmailLength || !emailRegex.MatchString(email) {
		return validationError("invalid email")
	}
	return nil
}

func ValidateBlogInput(input BlogInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return validationError("title is required")
	}
	if strings.TrimSpace(input.Desc) == "" {
		return validationError("desc is required")
	}
	if strings.TrimSpace(input.UserEmail) == "" && strings.TrimSpace(input.UserId) == "" {
		return validationError("user is required")
	}
	return validateBlogLengths(input.Title, input.Desc, input.Img)
}

// ValidateBlogUpdate checks only the supplied fields. Title and desc may not be
// blanked; img may be cleared with an empty string.
func ValidateBlogUpdate(update models.BlogUpdate) error {
	var title, desc, img string
	if update.Title != nil {
		if strings.TrimSpace(*update.Title) == "" {
			return validationError("title cannot be empty")
		}
		title = *update.Title
	}
	if update.Desc != nil {
		if strings.TrimSpace(*update.Desc) == "" {
			return validationError("desc cannot be empty")
		}
		desc = *update.Desc
	}
	if update.Img != nil {
		img = *update.Img
	}
	return validateBlogLengths(title, desc, img)
}

func validateBlogLengths(title string, desc string, img string) error {
	if len(title) > maxTitleLength {
		return validationError("title is too long")
	}
	if len(desc) > maxDescLength {
		return validationError("desc is too long")
	}
	if len(img) > maxImgLength {
		return validationError("img is too long")
	}
	return nil
}
