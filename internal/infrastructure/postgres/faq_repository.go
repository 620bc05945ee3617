package postgres

import (
	"context"

	"github.com/oksasatya/vital-identity/internal/domain/entity"
	"github.com/oksasatya/vital-identity/internal/domain/repository"
)

type FAQRepository struct {
	db DB
}

func NewFAQRepository(db DB) *FAQRepository {
	return &FAQRepository{db: db}
}

func (r *FAQRepository) Create(ctx context.Context, f *entity.FAQ) error {
	_, err := r.db.Exec(ctx, `INSERT INTO faqs (id, question, answer, category) VALUES ($1, $2, $3, $4)`,
		f.ID, f.Question, f.Answer, f.Category)
	return dbError(err, "create faq", "faq")
}

func (r *FAQRepository) Update(ctx context.Context, f *entity.FAQ) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE faqs SET question = $1, answer = $2, category = $3, updated_at = now()
		WHERE id = $4
	`, f.Question, f.Answer, f.Category, f.ID)
	if err != nil {
		return dbError(err, "update faq", "faq")
	}
	return affected(tag, "faq")
}

func (r *FAQRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM faqs WHERE id = $1`, id)
	if err != nil {
		return dbError(err, "delete faq", "faq")
	}
	return affected(tag, "faq")
}

func (r *FAQRepository) GetByID(ctx context.Context, id string) (*entity.FAQ, error) {
	var f entity.FAQ
	err := r.db.QueryRow(ctx, `SELECT id, question, answer, category FROM faqs WHERE id = $1`, id).
		Scan(&f.ID, &f.Question, &f.Answer, &f.Category)
	if err != nil {
		return nil, dbError(err, "get faq", "faq")
	}
	return &f, nil
}

func (r *FAQRepository) List(ctx context.Context) ([]entity.FAQ, error) {
	return r.list(ctx, "list faqs", `SELECT id, question, answer, category FROM faqs ORDER BY category, created_at`)
}

func (r *FAQRepository) ListByCategory(ctx context.Context, category string) ([]entity.FAQ, error) {
	return r.list(ctx, "list faqs by category",
		`SELECT id, question, answer, category FROM faqs WHERE category = $1 ORDER BY created_at`, category)
}

func (r *FAQRepository) list(ctx context.Context, op, sql string, args ...any) ([]entity.FAQ, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, dbError(err, op, "faq")
	}
	defer rows.Close()

	out := []entity.FAQ{}
	for rows.Next() {
		var f entity.FAQ
		if err := rows.Scan(&f.ID, &f.Question, &f.Answer, &f.Category); err != nil {
			return nil, dbError(err, op, "faq")
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err, op, "faq")
	}
	return out, nil
}

var _ repository.FAQRepository = (*FAQRepository)(nil)
