package model

import (
	"regexp"
	"strings"
	"time"
)

// CMS field slugs for the cluster collection. An item update replaces the
// entire fieldData object, so writers must always send the complete set.
const (
	FieldName             = "name"
	FieldSlug             = "slug"
	FieldShortDescription = "short-description"
	FieldDescription      = "description"
	FieldLocation         = "location"
	FieldGame             = "game"
	FieldPlatform         = "platform"
	FieldDiscordURL       = "discord-link"
	FieldOwnerUID         = "firebase-uid"
)

// Item is a record in the remote CMS collection representing one cluster.
type Item struct {
	ID          string                 `json:"id"`
	IsDraft     bool                   `json:"isDraft"`
	IsArchived  bool                   `json:"isArchived"`
	FieldData   map[string]interface{} `json:"fieldData"`
	CreatedOn   time.Time              `json:"createdOn,omitempty"`
	LastUpdated time.Time              `json:"lastUpdated,omitempty"`
}

// OwnerUID returns the firebase uid stored on the item, if any.
func (it *Item) OwnerUID() string {
	if it == nil || it.FieldData == nil {
		return ""
	}
	uid, _ := it.FieldData[FieldOwnerUID].(string)
	return uid
}

// Slug returns the item's derived slug, if any.
func (it *Item) Slug() string {
	if it == nil || it.FieldData == nil {
		return ""
	}
	slug, _ := it.FieldData[FieldSlug].(string)
	return slug
}

const maxSlugLen = 255

var (
	slugDisallowed = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugWhitespace = regexp.MustCompile(`\s+`)
	slugHyphenRuns = regexp.MustCompile(`-+`)
)

// Slugify derives the URL-safe slug for a cluster name. The function is
// deterministic: the same name always yields the same slug.
func Slugify(name string) string {
	slug := strings.ToLower(name)
	slug = slugDisallowed.ReplaceAllString(slug, "")
	slug = strings.TrimSpace(slug)
	slug = slugWhitespace.ReplaceAllString(slug, "-")
	slug = slugHyphenRuns.ReplaceAllString(slug, "-")
	if len(slug) > maxSlugLen {
		slug = slug[:maxSlugLen]
	}
	return slug
}
