package feed

import (
	"reflect"
	"testing"
	"time"

	"github.com/lysyi3m/blog-migrate/app/failure"
)

const testFeedURL = "http://myblog.blogspot.com/feeds/posts/default?max-results=1073741824"

var eastern = time.FixedZone("EST", -5*60*60)

func TestParseBloggerAtom(t *testing.T) {
	atomData := `<?xml version='1.0' encoding='UTF-8'?>
<feed xmlns='http://www.w3.org/2005/Atom'>
  <id>tag:blogger.com,1999:blog-42</id>
  <updated>2008-06-06T10:00:00.000-07:00</updated>
  <title type='text'>PL Patterns &amp; More</title>
  <entry>
    <id>tag:blogger.com,1999:blog-42.post-2</id>
    <published>2008-06-05T21:30:15.000-07:00</published>
    <updated>2008-06-05T22:00:00.000-07:00</updated>
    <category scheme='http://www.blogger.com/atom/ns#' term='third'/>
    <category scheme='http://www.blogger.com/atom/ns#' term='second'/>
    <category scheme='http://www.blogger.com/atom/ns#' term='first'/>
    <title type='text'>Don&apos;t panic</title>
    <content type='html'>&lt;p&gt;Newer post&lt;/p&gt;</content>
  </entry>
  <entry>
    <id>tag:blogger.com,1999:blog-42.post-1</id>
    <published>2008-01-02T08:00:00.000-05:00</published>
    <updated>2008-01-02T08:00:00.000-05:00</updated>
    <title type='text'>It&apos;s the first</title>
    <content type='html'>&lt;p&gt;Older post&lt;/p&gt;</content>
  </entry>
</feed>`

	parser := NewParser(eastern)
	blog, err := parser.Run([]byte(atomData), testFeedURL)

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if blog.Title != "PL Patterns & More" {
		t.Errorf("Expected title 'PL Patterns & More', got: %s", blog.Title)
	}

	if len(blog.Entries) != 2 {
		t.Fatalf("Expected 2 entries, got: %d", len(blog.Entries))
	}

	newer := blog.Entries[0]
	if newer.Title != "Don't panic" {
		t.Errorf("Expected title \"Don't panic\", got: %s", newer.Title)
	}
	if newer.Body != "<p>Newer post</p>" {
		t.Errorf("Expected decoded body, got: %s", newer.Body)
	}
	if newer.Timestamp() != "2008-06-05 23:30:15" {
		t.Errorf("Expected timestamp '2008-06-05 23:30:15', got: %s", newer.Timestamp())
	}
	if !reflect.DeepEqual(newer.Labels, []string{"first", "second", "third"}) {
		t.Errorf("Expected labels in authoring order, got: %v", newer.Labels)
	}

	older := blog.Entries[1]
	if older.Title != "It's the first" {
		t.Errorf("Expected title \"It's the first\", got: %s", older.Title)
	}
	if len(older.Labels) != 0 {
		t.Errorf("Expected no labels, got: %v", older.Labels)
	}
	if older.Timestamp() != "2008-01-02 08:00:00" {
		t.Errorf("Expected timestamp '2008-01-02 08:00:00', got: %s", older.Timestamp())
	}
}

func TestParseLabelEntities(t *testing.T) {
	atomData := `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Labels</title>
  <entry>
    <published>2009-03-01T12:00:00Z</published>
    <category term="rock &amp; roll"/>
    <category term="80&apos;s"/>
    <title>Mix</title>
    <content type="html">body</content>
  </entry>
</feed>`

	parser := NewParser(time.UTC)
	blog, err := parser.Run([]byte(atomData), testFeedURL)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	expected := []string{"80's", "rock & roll"}
	if !reflect.DeepEqual(blog.Entries[0].Labels, expected) {
		t.Errorf("Expected labels %v, got: %v", expected, blog.Entries[0].Labels)
	}
}

func TestParseKeepsEscapedText(t *testing.T) {
	atomData := `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Escapes</title>
  <entry>
    <published>2009-03-01T12:00:00Z</published>
    <category term="&amp;lt;tag&amp;gt;"/>
    <category term=""/>
    <title type="text">Why &amp;lt;blink&amp;gt; died &amp;amp; more</title>
    <content type="html">&lt;p&gt;Write &amp;lt;b&amp;gt; literally&lt;/p&gt;</content>
  </entry>
</feed>`

	parser := NewParser(time.UTC)
	blog, err := parser.Run([]byte(atomData), testFeedURL)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	entry := blog.Entries[0]
	if entry.Title != "Why &lt;blink&gt; died &amp; more" {
		t.Errorf("Expected escaped title to survive, got: %s", entry.Title)
	}
	if entry.Body != "<p>Write &lt;b&gt; literally</p>" {
		t.Errorf("Expected escaped body to survive, got: %s", entry.Body)
	}
	expected := []string{"&lt;tag&gt;"}
	if !reflect.DeepEqual(entry.Labels, expected) {
		t.Errorf("Expected labels %q, got: %q", expected, entry.Labels)
	}
}

func TestParseSummaryOnly(t *testing.T) {
	atomData := `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Short feed</title>
  <entry>
    <published>2009-03-01T12:00:00Z</published>
    <title>Teaser</title>
    <summary type="text">Only the first paragraph...</summary>
  </entry>
</feed>`

	parser := NewParser(time.UTC)
	blog, err := parser.Run([]byte(atomData), testFeedURL)

	if blog != nil {
		t.Error("Expected no partial result")
	}
	if failure.KindOf(err) != failure.KindSummaryOnly {
		t.Fatalf("Expected summary-only error, got: %v", err)
	}
	if !failure.IsSafe(err) {
		t.Error("Expected summary-only message to be safe markup")
	}
}

func TestParseEmptyContentWithoutSummary(t *testing.T) {
	atomData := `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Blank</title>
  <entry>
    <published>2009-03-01T12:00:00Z</published>
    <title>Photo only</title>
    <content type="html"></content>
  </entry>
</feed>`

	parser := NewParser(time.UTC)
	blog, err := parser.Run([]byte(atomData), testFeedURL)

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if blog.Entries[0].Body != "" {
		t.Errorf("Expected empty body, got: %s", blog.Entries[0].Body)
	}
}

func TestParseUpdatedFallback(t *testing.T) {
	atomData := `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Drafts</title>
  <entry>
    <updated>2010-10-10T10:10:10Z</updated>
    <title>Undated</title>
    <content type="html">x</content>
  </entry>
</feed>`

	parser := NewParser(time.UTC)
	blog, err := parser.Run([]byte(atomData), testFeedURL)

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if blog.Entries[0].Timestamp() != "2010-10-10 10:10:10" {
		t.Errorf("Expected updated timestamp, got: %s", blog.Entries[0].Timestamp())
	}
}

func TestParseFailures(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid xml", "invalid xml"},
		{"no entries", `<?xml version="1.0"?><feed xmlns="http://www.w3.org/2005/Atom"><title>Empty</title></feed>`},
		{"rss document", `<?xml version="1.0"?>
<rss version="2.0"><channel><title>RSS</title>
<item><title>Item</title><description>x</description></item>
</channel></rss>`},
		{"undated entry", `<?xml version="1.0"?><feed xmlns="http://www.w3.org/2005/Atom"><title>T</title>
<entry><title>Nowhen</title><content type="html">x</content></entry></feed>`},
	}

	parser := NewParser(time.UTC)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blog, err := parser.Run([]byte(tt.data), testFeedURL)
			if blog != nil {
				t.Error("Expected no partial result")
			}
			if failure.KindOf(err) != failure.KindFeedParse {
				t.Fatalf("Expected feed parse error, got: %v", err)
			}
			fe, _ := failure.As(err)
			if fe.URL != testFeedURL {
				t.Errorf("Expected URL %s, got: %s", testFeedURL, fe.URL)
			}
		})
	}
}
