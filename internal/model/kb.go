package model

import (
	"strings"
)

// KnowledgeItem is one knowledge-base entry.
type KnowledgeItem struct {
	Title   string   `json:"title" validate:"required"`
	Content string   `json:"content" validate:"required"`
	Tags    []string `json:"tags"`
}

// KnowledgeUpsertRequest is the body of POST /kb/upsert.
type KnowledgeUpsertRequest struct {
	TenantID string          `json:"tenant_id"`
	Items    []KnowledgeItem `json:"items"`
}

// ParseTags splits a comma separated tag list, trimming each tag and
// dropping empty ones. It never returns nil.
func ParseTags(raw string) []string {
	tags := []string{}
	for _, part := range strings.Split(raw, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
