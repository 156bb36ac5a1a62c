package sources

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"aidigest/internal/config"
	"aidigest/internal/core"
	"aidigest/internal/logger"
)

// rssDocument represents an RSS feed structure.
type rssDocument struct {
	XMLName xml.Name   `xml:"rss"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title string    `xml:"title"`
	Items []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

// atomDocument represents an Atom feed structure.
type atomDocument struct {
	XMLName xml.Name    `xml:"feed"`
	Title   string      `xml:"title"`
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	Title     string     `xml:"title"`
	Link      []atomLink `xml:"link"`
	Summary   string     `xml:"summary"`
	Published string     `xml:"published"`
	Updated   string     `xml:"updated"`
	ID        string     `xml:"id"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
}

// RSSAdapter fetches and parses the configured RSS/Atom news feeds.
type RSSAdapter struct {
	cfg    config.RSS
	client *http.Client
}

// NewRSS creates an RSS news adapter.
func NewRSS(cfg config.RSS) *RSSAdapter {
	return &RSSAdapter{
		cfg:    cfg,
		client: &http.Client{Timeout: parseTimeout(cfg.Timeout, 30*time.Second)},
	}
}

func (r *RSSAdapter) Name() string { return "rss" }

// Fetch pulls every configured feed. A feed that fails is logged and
// skipped; the adapter fails only when every feed fails.
func (r *RSSAdapter) Fetch(ctx context.Context) ([]core.ContentItem, error) {
	if len(r.cfg.Feeds) == 0 {
		return nil, nil
	}

	var items []core.ContentItem
	failed := 0
	for _, feed := range r.cfg.Feeds {
		feedItems, err := r.fetchFeed(ctx, feed)
		if err != nil {
			failed++
			logger.Warnf("rss: feed %s failed: %v", feed.Name, err)
			continue
		}
		items = append(items, feedItems...)
	}

	if failed == len(r.cfg.Feeds) {
		return nil, fmt.Errorf("all %d feeds failed", failed)
	}
	return items, nil
}

func (r *RSSAdapter) fetchFeed(ctx context.Context, feed config.RSSFeed) ([]core.ContentItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feed.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", r.cfg.UserAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	// The body is buffered so RSS and Atom parsing can each take a pass.
	const maxFeedSize = 10 << 20
	var buf strings.Builder
	if _, err := io.Copy(&buf, io.LimitReader(resp.Body, maxFeedSize)); err != nil {
		return nil, fmt.Errorf("failed to read feed body: %w", err)
	}
	body := buf.String()

	var rss rssDocument
	if err := xml.Unmarshal([]byte(body), &rss); err == nil && rss.Channel.Title != "" {
		return r.parseRSS(feed, rss), nil
	}

	var atom atomDocument
	if err := xml.Unmarshal([]byte(body), &atom); err == nil && atom.Title != "" {
		return r.parseAtom(feed, atom), nil
	}

	return nil, fmt.Errorf("unable to parse as RSS or Atom feed")
}

func (r *RSSAdapter) parseRSS(feed config.RSSFeed, rss rssDocument) []core.ContentItem {
	items := make([]core.ContentItem, 0, len(rss.Channel.Items))
	for i, item := range rss.Channel.Items {
		if i >= r.cfg.ItemsLimit {
			break
		}
		items = append(items, core.ContentItem{
			ID:         newsItemID(item.GUID, item.Link),
			SourceKind: core.SourceNews,
			Title:      StripHTML(item.Title),
			Body:       StripHTML(item.Description),
			URL:        item.Link,
			PublishedAt: parseTime(item.PubDate,
				time.RFC1123Z, time.RFC1123, time.RFC822Z, time.RFC822, time.RFC3339),
			SourceWeight: feed.Weight,
		})
	}
	return items
}

func (r *RSSAdapter) parseAtom(feed config.RSSFeed, atom atomDocument) []core.ContentItem {
	items := make([]core.ContentItem, 0, len(atom.Entries))
	for i, entry := range atom.Entries {
		if i >= r.cfg.ItemsLimit {
			break
		}

		var link string
		for _, l := range entry.Link {
			if l.Rel == "" || l.Rel == "alternate" {
				link = l.Href
				break
			}
		}

		published := entry.Published
		if published == "" {
			published = entry.Updated
		}

		items = append(items, core.ContentItem{
			ID:           newsItemID(entry.ID, link),
			SourceKind:   core.SourceNews,
			Title:        StripHTML(entry.Title),
			Body:         StripHTML(entry.Summary),
			URL:          link,
			PublishedAt:  parseTime(published, time.RFC3339, time.RFC1123Z),
			SourceWeight: feed.Weight,
		})
	}
	return items
}

// newsItemID prefers the feed's own GUID, falling back to a deterministic
// ID derived from the link.
func newsItemID(guid, link string) string {
	if guid != "" {
		return "news:" + guid
	}
	return "news:" + uuid.NewSHA1(uuid.NameSpaceURL, []byte(link)).String()
}

// StripHTML extracts the plain text from a possibly-HTML fragment. Feed
// descriptions frequently carry markup and entities.
func StripHTML(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return strings.TrimSpace(fragment)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return strings.TrimSpace(strings.Join(strings.Fields(doc.Text()), " "))
}

