package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yuvinraja/crm-backend/internal/models"
)

// TemplateService personalizes campaign messages per customer
type TemplateService interface {
	Render(message string, customer *models.Customer) (string, error)
	ValidateTemplate(message string) error
	ExtractPlaceholders(message string) []string
}

type templateService struct {
	placeholderPattern *regexp.Regexp
}

// NewTemplateService creates a new template service
func NewTemplateService() TemplateService {
	return &templateService{
		placeholderPattern: regexp.MustCompile(`\{([a-z_]+)\}`),
	}
}

// Render replaces placeholders in a campaign message with customer data.
// Unknown placeholders render as empty strings.
func (s *templateService) Render(message string, customer *models.Customer) (string, error) {
	if customer == nil {
		return "", models.ErrInvalidInput("customer cannot be nil")
	}

	fieldMap := map[string]string{
		"name":  customer.Name,
		"email": customer.Email,
		"phone": customer.Phone,
	}

	result := s.placeholderPattern.ReplaceAllStringFunc(message, func(match string) string {
		fieldName := strings.Trim(match, "{}")
		if value, exists := fieldMap[fieldName]; exists {
			return value
		}
		return ""
	})

	return result, nil
}

// ValidateTemplate checks the message for unknown placeholders before any
// logs are created.
func (s *templateService) ValidateTemplate(message string) error {
	if message == "" {
		return models.ErrInvalidInput("message cannot be empty")
	}

	validPlaceholders := map[string]bool{
		"name":  true,
		"email": true,
		"phone": true,
	}

	var invalid []string
	for _, placeholder := range s.ExtractPlaceholders(message) {
		if !validPlaceholders[placeholder] {
			invalid = append(invalid, placeholder)
		}
	}

	if len(invalid) > 0 {
		return models.ErrInvalidInput(
			fmt.Sprintf("invalid placeholders: %s. Valid placeholders are: name, email, phone",
				strings.Join(invalid, ", ")),
		)
	}

	return nil
}

// ExtractPlaceholders returns all placeholders found in a message
func (s *templateService) ExtractPlaceholders(message string) []string {
	matches := s.placeholderPattern.FindAllStringSubmatch(message, -1)
	placeholders := make([]string, 0, len(matches))

	for _, match := range matches {
		if len(match) > 1 {
			placeholders = append(placeholders, match[1])
		}
	}

	return placeholders
}
