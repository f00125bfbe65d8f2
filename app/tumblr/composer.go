package tumblr

import (
	"strings"

	"github.com/lysyi3m/blog-migrate/app/feed"
)

type Composer struct {
	credentials Credentials
	group       string
	extraLabels []string
	generator   string
}

func NewComposer(credentials Credentials, group string, extraLabels []string, generator string) *Composer {
	if generator == "" {
		generator = DefaultGenerator
	}
	return &Composer{
		credentials: credentials,
		group:       strings.TrimSpace(group),
		extraLabels: extraLabels,
		generator:   generator,
	}
}

// Run maps entry to a text post payload.
func (c *Composer) Run(entry feed.Entry) Payload {
	return Payload{
		Credentials: c.credentials,
		Type:        TypeRegular,
		Title:       entry.Title,
		Body:        entry.Body,
		Date:        entry.Timestamp(),
		Tags:        JoinTags(entry.Labels, c.extraLabels),
		Format:      FormatHTML,
		Group:       c.group,
		Generator:   c.generator,
	}
}

// JoinTags joins entry labels and then extra labels with commas.
func JoinTags(labels, extra []string) string {
	tags := strings.Join(labels, ",")
	if len(extra) == 0 {
		return tags
	}
	if tags != "" {
		tags += ","
	}
	return tags + strings.Join(extra, ",")
}
