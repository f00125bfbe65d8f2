package importer

import (
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

const (
	msgCredentialsRequired = "Tumblr email and password required."
	msgFeedRequired        = "Blogger Feed URL required."
	msgStarting            = "Importing.  This could take a few minutes."
	msgStandBy             = "Please stand by..."
	msgDownloading         = "Downloading feed."
	msgFailedPrefix        = "Importing failed: "

	importedKey = "Imported %d posts."

	// titleDisplayLength bounds titles echoed in progress lines.
	titleDisplayLength = 30
)

var messages = newCatalog()

func newCatalog() catalog.Catalog {
	builder := catalog.NewBuilder()
	err := builder.Set(language.English, importedKey,
		plural.Selectf(1, "%d",
			plural.One, "Imported %d post.",
			plural.Other, "Imported %d posts."))
	if err != nil {
		panic(err)
	}
	return builder
}

// importedSummary is "Imported 1 post." or "Imported N posts.".
func importedSummary(n int) string {
	return message.NewPrinter(language.English, message.Catalog(messages)).Sprintf(importedKey, n)
}

func supportLine(url string) Line {
	return Line{
		Text: "Having trouble?  Your question may already be answered <a href=\"" + html.EscapeString(url) + "\" target=\"_blank\">here</a>.",
		Safe: true,
	}
}

func truncate(s string) string {
	if utf8.RuneCountInString(s) <= titleDisplayLength {
		return s
	}
	return string([]rune(s)[:titleDisplayLength]) + "..."
}
