package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/vital-identity/internal/domain/entity"
	"github.com/oksasatya/vital-identity/internal/domain/factory"
	repo "github.com/oksasatya/vital-identity/internal/domain/repository"
	"github.com/oksasatya/vital-identity/pkg/apperr"
)

type FAQInput struct {
	Question string
	Answer   string
	Category string
}

type FAQService struct {
	FAQs   repo.FAQRepository
	Logger *logrus.Logger
}

func NewFAQService(faqs repo.FAQRepository, logger *logrus.Logger) *FAQService {
	return &FAQService{FAQs: faqs, Logger: orDiscard(logger)}
}

// List returns all entries, or those of one category when category is set. No entries
// is NotFound.
func (s *FAQService) List(ctx context.Context, category string) ([]entity.FAQ, error) {
	var (
		faqs []entity.FAQ
		err  error
	)
	if category != "" {
		faqs, err = s.FAQs.ListByCategory(ctx, category)
	} else {
		faqs, err = s.FAQs.List(ctx)
	}
	if err != nil {
		return nil, apperr.Wrap(err, apperr.FailedPrecondition, "list faqs")
	}
	if len(faqs) == 0 {
		return nil, apperr.New(apperr.NotFound, "no faqs found")
	}
	return faqs, nil
}

func (s *FAQService) Get(ctx context.Context, id string) (*entity.FAQ, error) {
	f, err := s.FAQs.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.FailedPrecondition, "load faq")
	}
	return f, nil
}

func (s *FAQService) Create(ctx context.Context, in FAQInput) (*entity.FAQ, error) {
	f, err := factory.NewFAQ("", in.Question, in.Answer, in.Category)
	if err != nil {
		return nil, err
	}
	if err := s.FAQs.Create(ctx, f); err != nil {
		return nil, apperr.Wrap(err, apperr.FailedPrecondition, "create faq")
	}
	s.Logger.WithField("faq_id", f.ID).Info("faq created")
	return f, nil
}

func (s *FAQService) Update(ctx context.Context, id string, in FAQInput) (*entity.FAQ, error) {
	if id == "" {
		return nil, apperr.Invalid("id", "faq id is required")
	}
	f, err := factory.NewFAQ(id, in.Question, in.Answer, in.Category)
	if err != nil {
		return nil, err
	}
	if err := s.FAQs.Update(ctx, f); err != nil {
		return nil, apperr.Wrap(err, apperr.FailedPrecondition, "update faq")
	}
	return f, nil
}

func (s *FAQService) Delete(ctx context.Context, id string) error {
	if err := s.FAQs.Delete(ctx, id); err != nil {
		return apperr.Wrap(err, apperr.FailedPrecondition, "delete faq")
	}
	s.Logger.WithField("faq_id", id).Info("faq deleted")
	return nil
}
