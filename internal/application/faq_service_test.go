package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/vital-identity/pkg/apperr"
)

func TestFAQService_Lifecycle(t *testing.T) {
	svc := NewFAQService(newMemFAQs(), nil)
	ctx := context.Background()

	_, err := svc.List(ctx, "")
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))

	f, err := svc.Create(ctx, FAQInput{
		Question: "How do I pair my device?",
		Answer:   "Open the app and scan the code.",
		Category: "devices",
	})
	require.NoError(t, err)

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 1)

	byCat, err := svc.List(ctx, "devices")
	require.NoError(t, err)
	assert.Len(t, byCat, 1)
	_, err = svc.List(ctx, "billing")
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))

	updated, err := svc.Update(ctx, f.ID, FAQInput{
		Question: "How do I pair my watch?",
		Answer:   "Open the app and scan the code.",
		Category: "devices",
	})
	require.NoError(t, err)
	got, err := svc.Get(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.Question, got.Question)

	_, err = svc.Create(ctx, FAQInput{Question: "Why?", Answer: "Because it is so.", Category: "misc"})
	assert.Equal(t, apperr.InvalidArgument, apperr.KindOf(err))

	require.NoError(t, svc.Delete(ctx, f.ID))
	err = svc.Delete(ctx, f.ID)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}
