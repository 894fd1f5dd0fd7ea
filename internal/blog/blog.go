// Package blog fetches recent articles from dev.to or a Medium feed.
package blog

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/html"
)

// ErrUnknownSource is returned for a source other than dev or medium.
var ErrUnknownSource = errors.New("blog: unknown source")

// Article is a render-ready blog post summary.
type Article struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Link        string    `json:"link"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
	Categories  []string  `json:"categories,omitempty"`
}

const maxDescription = 300

// Client fetches articles. The base URLs are overridable for tests.
type Client struct {
	Logger        zerolog.Logger
	DevBaseURL    string
	MediumBaseURL string
	http          *http.Client
}

func NewClient(timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		Logger:        logger,
		DevBaseURL:    "https://dev.to",
		MediumBaseURL: "https://medium.com",
		http:          &http.Client{Timeout: timeout},
	}
}

// Fetch returns at most limit articles by username from source.
func (c *Client) Fetch(ctx context.Context, source, username string, limit int) ([]Article, error) {
	var (
		articles []Article
		err      error
	)
	switch source {
	case "dev":
		articles, err = c.fetchDev(ctx, username, limit)
	case "medium":
		articles, err = c.fetchMedium(ctx, username)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, source)
	}
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(articles) > limit {
		articles = articles[:limit]
	}
	return articles, nil
}

type devArticle struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	CoverImage  string    `json:"cover_image"`
	PublishedAt time.Time `json:"published_at"`
	TagList     []string  `json:"tag_list"`
}

func (c *Client) fetchDev(ctx context.Context, username string, limit int) ([]Article, error) {
	q := url.Values{}
	q.Set("username", username)
	if limit > 0 {
		q.Set("per_page", strconv.Itoa(limit))
	}
	resp, err := c.do(ctx, c.DevBaseURL+"/api/articles?"+q.Encode())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var raw []devArticle
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode dev.to articles: %w", err)
	}

	out := make([]Article, 0, len(raw))
	for _, a := range raw {
		out = append(out, Article{
			Title:       a.Title,
			Description: truncate(a.Description, maxDescription),
			Link:        a.URL,
			Thumbnail:   a.CoverImage,
			PublishedAt: a.PublishedAt,
			Categories:  a.TagList,
		})
	}
	return out, nil
}

type rssFeed struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title      string   `xml:"title"`
	Link       string   `xml:"link"`
	PubDate    string   `xml:"pubDate"`
	Categories []string `xml:"category"`
	Content    string   `xml:"http://purl.org/rss/1.0/modules/content/ encoded"`
}

func (c *Client) fetchMedium(ctx context.Context, username string) ([]Article, error) {
	resp, err := c.do(ctx, c.MediumBaseURL+"/feed/@"+url.PathEscape(username))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var feed rssFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decode medium feed: %w", err)
	}

	out := make([]Article, 0, len(feed.Channel.Items))
	for _, it := range feed.Channel.Items {
		text, img := summarize(it.Content)
		published, err := time.Parse(time.RFC1123, it.PubDate)
		if err != nil {
			published, _ = time.Parse(time.RFC1123Z, it.PubDate)
		}
		out = append(out, Article{
			Title:       it.Title,
			Description: truncate(text, maxDescription),
			Link:        it.Link,
			Thumbnail:   img,
			PublishedAt: published,
			Categories:  it.Categories,
		})
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, u string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("blog request: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("blog request %s: status %d", u, resp.StatusCode)
	}
	return resp, nil
}

// summarize extracts the visible text and the first image source of an
// HTML fragment.
func summarize(fragment string) (text, image string) {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return "", ""
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if s := strings.TrimSpace(n.Data); s != "" {
				if b.Len() > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(s)
			}
		case html.ElementNode:
			if n.Data == "img" && image == "" {
				for _, a := range n.Attr {
					if a.Key == "src" {
						image = a.Val
					}
				}
			}
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			walk(ch)
		}
	}
	walk(doc)
	return b.String(), image
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n])) + "…"
}
