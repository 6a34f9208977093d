// ABOUTME: RSS 2.0 rendering of the visible articles
// ABOUTME: Item links and GUIDs point at the article page under the site base URL

package api

import (
	"encoding/xml"
	"io"
	"strings"
	"time"

	"github.com/harper/smilefeed/internal/content"
	"github.com/harper/smilefeed/internal/models"
)

type rssDocument struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	Language      string    `xml:"language,omitempty"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string        `xml:"title"`
	Link        string        `xml:"link"`
	GUID        rssGUID       `xml:"guid"`
	PubDate     string        `xml:"pubDate"`
	Category    string        `xml:"category,omitempty"`
	Description string        `xml:"description"`
	Enclosure   *rssEnclosure `xml:"enclosure,omitempty"`
}

type rssGUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

type rssEnclosure struct {
	URL    string `xml:"url,attr"`
	Length string `xml:"length,attr"`
	Type   string `xml:"type,attr"`
}

// ChannelInfo describes the RSS channel.
type ChannelInfo struct {
	Title       string
	Description string
	BaseURL     string // site root; article links are BaseURL + "/articles/" + slug
}

// ArticleURL returns the public URL of an article page.
func (c ChannelInfo) ArticleURL(slug string) string {
	return strings.TrimRight(c.BaseURL, "/") + "/articles/" + slug
}

// WriteRSS renders articles, newest first, as an RSS 2.0 document.
func WriteRSS(w io.Writer, info ChannelInfo, articles []models.Article, built time.Time) error {
	doc := rssDocument{
		Version: "2.0",
		Channel: rssChannel{
			Title:         info.Title,
			Link:          strings.TrimRight(info.BaseURL, "/") + "/",
			Description:   info.Description,
			Language:      "en-gb",
			LastBuildDate: built.Format(time.RFC1123Z),
			Items:         make([]rssItem, 0, len(articles)),
		},
	}

	for i := len(articles) - 1; i >= 0; i-- {
		a := articles[i]
		link := info.ArticleURL(a.Slug)
		item := rssItem{
			Title:       a.Title,
			Link:        link,
			GUID:        rssGUID{IsPermaLink: true, Value: link},
			PubDate:     a.PublishDate.Format(time.RFC1123Z),
			Category:    a.Category,
			Description: content.Excerpt(a.CleanedContent, content.DefaultExcerptLength),
		}
		if a.HasFeaturedImage() {
			item.Enclosure = &rssEnclosure{URL: a.FeaturedImageURL, Length: "0", Type: imageMIMEType(a.FeaturedImageURL)}
		}
		doc.Channel.Items = append(doc.Channel.Items, item)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Flush()
}

func imageMIMEType(url string) string {
	path := strings.ToLower(url)
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	switch {
	case strings.HasSuffix(path, ".png"):
		return "image/png"
	case strings.HasSuffix(path, ".gif"):
		return "image/gif"
	case strings.HasSuffix(path, ".webp"):
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
