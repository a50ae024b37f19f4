package brandconfig

import "BrandPulse/internal/domain/models"

// builtinBrands is the last-resort mapping used when the remote store has
// never been reachable in this process. Kept deliberately small; the
// remote documents are the source of truth.
func builtinBrands() map[string]models.BrandConfig {
	return map[string]models.BrandConfig{}
}
