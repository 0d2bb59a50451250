package feed

import "encoding/xml"

// Wire model for the RSS 2.0 document. The itunes-prefixed tags are written
// literally; the namespace is declared once on the root element.

type rssDoc struct {
	XMLName  xml.Name   `xml:"rss"`
	Version  string     `xml:"version,attr"`
	ItunesNS string     `xml:"xmlns:itunes,attr"`
	Channel  rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string       `xml:"title"`
	Link        string       `xml:"link"`
	Description string       `xml:"description"`
	Language    string       `xml:"language"`
	Copyright   string       `xml:"copyright,omitempty"`
	Image       *itunesImage `xml:"itunes:image,omitempty"`
	Items       []rssItem    `xml:"item"`
}

type rssItem struct {
	Title       cdata        `xml:"title"`
	Link        string       `xml:"link"`
	GUID        string       `xml:"guid"`
	Season      int          `xml:"itunes:season"`
	Episode     string       `xml:"itunes:episode"`
	EpisodeType string       `xml:"itunes:episodeType"`
	Explicit    string       `xml:"itunes:explicit"`
	Description cdata        `xml:"description"`
	PubDate     string       `xml:"pubDate"`
	Enclosure   enclosure    `xml:"enclosure"`
	Duration    string       `xml:"itunes:duration"`
	Image       *itunesImage `xml:"itunes:image,omitempty"`
}

type itunesImage struct {
	Href string `xml:"href,attr"`
}

type enclosure struct {
	URL  string `xml:"url,attr"`
	Type string `xml:"type,attr"`
}

// cdata wraps text that must survive untouched through podcast clients,
// such as titles containing markup-significant characters.
type cdata struct {
	Text string `xml:",cdata"`
}
