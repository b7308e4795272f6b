package tags

import (
	"sort"

	"rds-provider/internal/domain/rds"
	"rds-provider/internal/ports"
)

// System tag keys attached to every instance the provider creates.
const (
	TagTemplateName = "Cloudera-Director-Template-Name"
	TagInstanceID   = "Cloudera-Director-Id"
	TagManagedBy    = "Cloudera-Director-Managed-By"

	ManagedByValue = "Cloudera-Director"
)

// Helper builds RDS tags, renaming system tag keys through custom mappings.
type Helper struct {
	mappings map[string]string
}

// NewHelper returns a tag helper. customTagMappings maps a default system
// tag key to the key that should be used instead.
func NewHelper(customTagMappings map[string]string) ports.TagHelper {
	mappings := make(map[string]string, len(customTagMappings))
	for k, v := range customTagMappings {
		mappings[k] = v
	}
	return &Helper{mappings: mappings}
}

// TagKey returns the effective key for a default system tag key.
func (h *Helper) TagKey(defaultKey string) string {
	if mapped, ok := h.mappings[defaultKey]; ok && mapped != "" {
		return mapped
	}
	return defaultKey
}

// UserDefinedTags converts the template tags, sorted by key.
func (h *Helper) UserDefinedTags(template *rds.InstanceTemplate) []rds.Tag {
	keys := make([]string, 0, len(template.Tags))
	for k := range template.Tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tags := make([]rds.Tag, 0, len(keys))
	for _, k := range keys {
		tags = append(tags, rds.Tag{Key: k, Value: template.Tags[k]})
	}
	return tags
}

// InstanceTags merges the user-defined tags with the system tags. User tags
// that collide with a system tag key are dropped.
func (h *Helper) InstanceTags(template *rds.InstanceTemplate, virtualInstanceID string, userDefinedTags []rds.Tag) []rds.Tag {
	system := []rds.Tag{
		{Key: h.TagKey(TagTemplateName), Value: template.Name},
		{Key: h.TagKey(TagInstanceID), Value: virtualInstanceID},
		{Key: h.TagKey(TagManagedBy), Value: ManagedByValue},
	}

	reserved := make(map[string]bool, len(system))
	for _, t := range system {
		reserved[t.Key] = true
	}

	tags := make([]rds.Tag, 0, len(userDefinedTags)+len(system))
	for _, t := range userDefinedTags {
		if !reserved[t.Key] {
			tags = append(tags, t)
		}
	}
	return append(tags, system...)
}
