package presentation

import (
	"github.com/zjrosen/initflags/internal/initflags"
)

// TagResultDTO represents the debug logging decision for one tag.
type TagResultDTO struct {
	Tag     string `json:"tag" yaml:"tag"`
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Reason  string `json:"reason" yaml:"reason"` // "disabled", "enabled" or "all"
}

// ResolveTags resolves each tag against the store, keeping input order.
func ResolveTags(store *initflags.Store, tags []string) []TagResultDTO {
	results := make([]TagResultDTO, 0, len(tags))
	for _, tag := range tags {
		enabled, reason := store.ResolveTag(tag)
		results = append(results, TagResultDTO{
			Tag:     tag,
			Enabled: enabled,
			Reason:  string(reason),
		})
	}
	return results
}
