package content

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/megaplex/realestate/internal/models"
)

var defaultSectionNames = []string{
	"hero", "about", "amenities", "township", "connectivity", "developer", "construction", "faq",
}

func TestDefaults_Parse(t *testing.T) {
	docs, err := Defaults()
	require.NoError(t, err)

	names := make([]string, 0, len(docs))
	for _, doc := range docs {
		names = append(names, doc.Section)
	}
	assert.Equal(t, defaultSectionNames, names)
}

func TestSeedDefaults_EmptyStore(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	seeded, err := svc.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(defaultSectionNames), seeded)

	all, err := svc.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, len(defaultSectionNames))
	for _, name := range defaultSectionNames {
		assert.Contains(t, all, name)
	}

	hero, err := svc.Get(ctx, "hero")
	require.NoError(t, err)
	assert.Contains(t, string(hero), "THINKING OF A FANTASTIC VICINITY?")
}

func TestSeedDefaults_SecondRunDoesNotDuplicate(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.SeedDefaults(ctx)
	require.NoError(t, err)

	seeded, err := svc.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.Zero(t, seeded)

	count, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, len(defaultSectionNames), count)
}

func TestSeedDefaults_SkipsNonEmptyStore(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.Upsert(ctx, "hero", models.JSON(`{"title":"Custom"}`))
	require.NoError(t, err)

	seeded, err := svc.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.Zero(t, seeded)

	hero, err := svc.Get(ctx, "hero")
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Custom"}`, string(hero))
}
