package driven

import "context"

// Well-known settings keys for the cached connection identifiers.
const (
	SettingOrgURL     = "org_url"
	SettingProject    = "project"
	SettingRepository = "repository"
)

// SettingsStore persists the cached organization/project/repository
// identifiers detected or configured for the local workspace.
type SettingsStore interface {
	Set(ctx context.Context, key, value string) error
	// Get returns ("", nil) when the key has no stored value.
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}
