package factory

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/oksasatya/vital-identity/internal/domain/entity"
	"github.com/oksasatya/vital-identity/pkg/apperr"
)

const (
	FAQTextMinLength     = 10
	FAQTextMaxLength     = 1000
	FAQCategoryMaxLength = 50
)

// FAQText validates a question or an answer.
func FAQText(field, raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", apperr.Invalid(field, "%s cannot be empty", field)
	}
	if n := utf8.RuneCountInString(raw); n < FAQTextMinLength || n > FAQTextMaxLength {
		return "", apperr.Invalid(field, "%s must be between %d and %d characters", field, FAQTextMinLength, FAQTextMaxLength)
	}
	return raw, nil
}

func FAQCategory(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", apperr.Invalid("category", "category cannot be empty")
	}
	if utf8.RuneCountInString(raw) > FAQCategoryMaxLength {
		return "", apperr.Invalid("category", "category cannot be longer than %d characters", FAQCategoryMaxLength)
	}
	return raw, nil
}

// NewFAQ builds a FAQ entry; id is kept when non-empty (updates) and generated otherwise.
func NewFAQ(id, question, answer, category string) (*entity.FAQ, error) {
	q, err := FAQText("question", question)
	if err != nil {
		return nil, err
	}
	a, err := FAQText("answer", answer)
	if err != nil {
		return nil, err
	}
	c, err := FAQCategory(category)
	if err != nil {
		return nil, err
	}
	if id == "" {
		id = uuid.NewString()
	}
	return &entity.FAQ{ID: id, Question: q, Answer: a, Category: c}, nil
}
