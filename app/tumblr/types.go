package tumblr

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// DefaultEndpoint is the legacy write API.
	DefaultEndpoint = "http://www.tumblr.com/api/write"
	// DefaultGenerator identifies posts created by this tool.
	DefaultGenerator = "https://github.com/lysyi3m/blog-migrate"

	TypeRegular = "regular"
	FormatHTML  = "html"
)

type Credentials struct {
	Email    string
	Password string
}

func (c Credentials) Complete() bool {
	return c.Email != "" && c.Password != ""
}

// Payload is one write API request; it lives only for a single submission.
type Payload struct {
	Credentials Credentials
	Type        string
	Title       string
	Body        string
	Date        string
	Tags        string
	Format      string
	Group       string // omitted when empty
	Generator   string
}

// Form encodes the payload as write API form fields.
func (p Payload) Form() url.Values {
	form := url.Values{}
	form.Set("email", p.Credentials.Email)
	form.Set("password", p.Credentials.Password)
	form.Set("type", p.Type)
	form.Set("title", p.Title)
	form.Set("body", p.Body)
	form.Set("date", p.Date)
	form.Set("tags", p.Tags)
	form.Set("format", p.Format)
	form.Set("generator", p.Generator)
	if p.Group != "" {
		form.Set("group", p.Group)
	}
	return form
}

// Dump renders the payload for debug output with the password masked.
func (p Payload) Dump() string {
	var b strings.Builder
	b.WriteString("Payload\n(\n")
	field := func(name, value string) {
		fmt.Fprintf(&b, "    [%s] => %s\n", name, value)
	}
	field("email", p.Credentials.Email)
	field("password", strings.Repeat("*", 8))
	field("type", p.Type)
	field("title", p.Title)
	field("body", p.Body)
	field("date", p.Date)
	field("tags", p.Tags)
	field("format", p.Format)
	field("generator", p.Generator)
	if p.Group != "" {
		field("group", p.Group)
	}
	b.WriteString(")\n")
	return b.String()
}
