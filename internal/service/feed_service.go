package service

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"personalblog/internal/config"
)

type FeedService interface {
	// RSS renders the newest posts as an RSS 2.0 document.
	RSS(ctx context.Context) ([]byte, error)
}

type feedService struct {
	posts    PostService
	site     config.Site
	markdown goldmark.Markdown
}

func NewFeedService(posts PostService, site config.Site) FeedService {
	return &feedService{
		posts: posts,
		site:  site,
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
	}
}

func (f *feedService) RSS(ctx context.Context) ([]byte, error) {
	posts, err := f.posts.List(ctx)
	if err != nil {
		return nil, err
	}
	if f.site.FeedLimit > 0 && len(posts) > f.site.FeedLimit {
		posts = posts[:f.site.FeedLimit]
	}

	siteURL := strings.TrimSuffix(f.site.URL, "/")

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	rss := doc.CreateElement("rss")
	rss.CreateAttr("version", "2.0")

	channel := rss.CreateElement("channel")
	channel.CreateElement("title").SetText(f.site.Title)
	channel.CreateElement("link").SetText(siteURL)
	channel.CreateElement("description").SetText(f.site.Title)

	if len(posts) > 0 {
		channel.CreateElement("lastBuildDate").SetText(posts[0].UpdatedAt.Format(time.RFC1123Z))
	}

	for _, post := range posts {
		var body bytes.Buffer
		if err := f.markdown.Convert([]byte(post.Content), &body); err != nil {
			return nil, fmt.Errorf("failed to render post %s: %w", post.PostID, err)
		}

		link := siteURL + "/posts/" + url.PathEscape(post.PostID)

		item := channel.CreateElement("item")
		item.CreateElement("title").SetText(post.Title)
		item.CreateElement("link").SetText(link)
		guid := item.CreateElement("guid")
		guid.CreateAttr("isPermaLink", "false")
		guid.SetText(post.PostID)
		item.CreateElement("pubDate").SetText(post.CreatedAt.Format(time.RFC1123Z))
		for _, tag := range post.Tags {
			item.CreateElement("category").SetText(tag)
		}
		if post.FeaturedImage != "" {
			enclosure := item.CreateElement("enclosure")
			enclosure.CreateAttr("url", post.FeaturedImage)
			enclosure.CreateAttr("type", "image/jpeg")
			enclosure.CreateAttr("length", "0")
		}
		item.CreateElement("description").SetText(body.String())
	}

	doc.Indent(2)

	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to write feed: %w", err)
	}
	return out, nil
}
