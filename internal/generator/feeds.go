package generator

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	maxFeedItems = 100
	feedPath     = "rss.xml"
)

type feedItem struct {
	Title       string
	Summary     string
	Link        string
	PublishedAt time.Time
}

// buildFeedItems lists pages newest first, capped at maxFeedItems.
func buildFeedItems(baseURL string, pages []RenderedPage) []feedItem {
	items := make([]feedItem, 0, len(pages))
	seen := map[string]struct{}{}
	for _, page := range pages {
		link := absoluteURL(baseURL, page.Route)
		if _, ok := seen[link]; ok {
			continue
		}
		seen[link] = struct{}{}
		items = append(items, feedItem{
			Title:       page.Title,
			Summary:     normalizeWhitespace(page.Description),
			Link:        link,
			PublishedAt: firstNonZeroTime(page.PubDate, page.LastModified),
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].PublishedAt.Equal(items[j].PublishedAt) {
			return items[i].Link < items[j].Link
		}
		return items[i].PublishedAt.After(items[j].PublishedAt)
	})
	if len(items) > maxFeedItems {
		items = items[:maxFeedItems]
	}
	return items
}

func buildRSSFeed(site SiteMetadata, items []feedItem, generatedAt time.Time) string {
	baseLink := baseURLWithFallback(site.BaseURL)
	title := strings.TrimSpace(site.Title)
	if title == "" {
		title = baseLink
	}

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(`<rss version="2.0">` + "\n")
	builder.WriteString("  <channel>\n")
	builder.WriteString(fmt.Sprintf("    <title>%s</title>\n", escapeXML(title)))
	builder.WriteString(fmt.Sprintf("    <link>%s</link>\n", escapeXML(baseLink)))
	builder.WriteString(fmt.Sprintf("    <description>%s</description>\n", escapeXML("Latest posts from "+title)))
	builder.WriteString(fmt.Sprintf("    <lastBuildDate>%s</lastBuildDate>\n", generatedAt.UTC().Format(time.RFC1123Z)))
	for _, item := range items {
		pub := firstNonZeroTime(item.PublishedAt, generatedAt)
		builder.WriteString("    <item>\n")
		builder.WriteString(fmt.Sprintf("      <title>%s</title>\n", escapeXML(item.Title)))
		builder.WriteString(fmt.Sprintf("      <link>%s</link>\n", escapeXML(item.Link)))
		builder.WriteString(fmt.Sprintf("      <guid>%s</guid>\n", escapeXML(item.Link)))
		builder.WriteString(fmt.Sprintf("      <pubDate>%s</pubDate>\n", pub.UTC().Format(time.RFC1123Z)))
		if item.Summary != "" {
			builder.WriteString(fmt.Sprintf("      <description>%s</description>\n", escapeXML(item.Summary)))
		}
		builder.WriteString("    </item>\n")
	}
	builder.WriteString("  </channel>\n")
	builder.WriteString(`</rss>` + "\n")
	return builder.String()
}

func normalizeWhitespace(input string) string {
	return strings.Join(strings.Fields(input), " ")
}
