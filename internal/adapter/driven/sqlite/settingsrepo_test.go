package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azdopanel/azdopanel/internal/domain/port/driven"
)

func TestSettingsRepo_SetAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSettingsRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, driven.SettingOrgURL, "https://dev.azure.com/contoso"))

	val, err := repo.Get(ctx, driven.SettingOrgURL)
	require.NoError(t, err)
	assert.Equal(t, "https://dev.azure.com/contoso", val)
}

func TestSettingsRepo_GetMissingIsEmpty(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSettingsRepo(db)

	val, err := repo.Get(context.Background(), driven.SettingProject)
	require.NoError(t, err)
	assert.Equal(t, "", val)
}

func TestSettingsRepo_UpsertOverwrites(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSettingsRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, driven.SettingRepository, "frontend"))
	require.NoError(t, repo.Set(ctx, driven.SettingRepository, "backend"))

	val, err := repo.Get(ctx, driven.SettingRepository)
	require.NoError(t, err)
	assert.Equal(t, "backend", val)
}

func TestSettingsRepo_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSettingsRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, driven.SettingProject, "platform"))
	require.NoError(t, repo.Delete(ctx, driven.SettingProject))

	val, err := repo.Get(ctx, driven.SettingProject)
	require.NoError(t, err)
	assert.Equal(t, "", val)
}
