package sitemaps

import (
	"bytes"
	"encoding/xml"
	"strconv"
	"time"

	"github.com/eringen/sitemaps/sitemap"
)

const (
	sitemapNS      = "http://www.sitemaps.org/schemas/sitemap/0.9"
	imageNS        = "http://www.google.com/schemas/sitemap-image/1.1"
	xmlContentType = "application/xml; charset=utf-8"
	indexDateFmt   = "2006-01-02"
)

type sitemapIndex struct {
	XMLName  xml.Name       `xml:"sitemapindex"`
	XMLNS    string         `xml:"xmlns,attr"`
	Sitemaps []sitemapEntry `xml:"sitemap"`
}

type sitemapEntry struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	ImageNS string       `xml:"xmlns:image,attr,omitempty"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string         `xml:"loc"`
	LastMod    string         `xml:"lastmod,omitempty"`
	ChangeFreq string         `xml:"changefreq,omitempty"`
	Priority   string         `xml:"priority,omitempty"`
	Images     []sitemapImage `xml:"image:image"`
}

type sitemapImage struct {
	Loc string `xml:"image:loc"`
}

// leafURL returns the URL of one page of a source's sitemap.
func leafURL(base, sourceID string, page int) string {
	return trimSlash(BuildURL(base, "sitemap.xml", "sitemap", sourceID, strconv.Itoa(page)+".xml"))
}

// encodeIndex serializes the sitemap index. Links to leaf sitemaps are
// made absolute against base.
func encodeIndex(base string, entries []sitemap.IndexEntry) ([]byte, error) {
	doc := sitemapIndex{XMLNS: sitemapNS}
	for _, e := range entries {
		s := sitemapEntry{Loc: leafURL(base, e.SourceID, e.Page)}
		if !e.LastModified.IsZero() {
			s.LastMod = e.LastModified.UTC().Format(indexDateFmt)
		}
		doc.Sitemaps = append(doc.Sitemaps, s)
	}
	return encodeXML(BuildURL(base, "sitemap.xml", "styleSheetIndex"), doc)
}

// encodeURLSet serializes one leaf sitemap.
func encodeURLSet(base string, entries []sitemap.Entry) ([]byte, error) {
	doc := sitemapURLSet{XMLNS: sitemapNS}
	for _, e := range entries {
		u := sitemapURL{
			Loc:        e.Loc,
			ChangeFreq: string(e.ChangeFrequency),
			Priority:   e.Priority.String(),
		}
		if !e.LastModified.IsZero() {
			u.LastMod = e.LastModified.UTC().Format(time.RFC3339)
		}
		for _, img := range e.Images {
			u.Images = append(u.Images, sitemapImage{Loc: img})
			doc.ImageNS = imageNS
		}
		doc.URLs = append(doc.URLs, u)
	}
	return encodeXML(BuildURL(base, "sitemap.xml", "styleSheet"), doc)
}

func encodeXML(stylesheet string, doc any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.WriteString(`<?xml-stylesheet type="text/xsl" href="`)
	if err := xml.EscapeText(&buf, []byte(trimSlash(stylesheet))); err != nil {
		return nil, err
	}
	buf.WriteString("\"?>\n")
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func trimSlash(u string) string {
	if n := len(u); n > 0 && u[n-1] == '/' {
		return u[:n-1]
	}
	return u
}
