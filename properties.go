package slidemodel

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"
)

// DocumentProperties holds the core (docProps/core.xml) and extended
// (docProps/app.xml) document metadata.
type DocumentProperties struct {
	Creator        string    `json:"creator,omitempty"`
	LastModifiedBy string    `json:"last_modified_by,omitempty"`
	Title          string    `json:"title,omitempty"`
	Description    string    `json:"description,omitempty"`
	Subject        string    `json:"subject,omitempty"`
	Keywords       string    `json:"keywords,omitempty"`
	Category       string    `json:"category,omitempty"`
	Revision       string    `json:"revision,omitempty"`
	Company        string    `json:"company,omitempty"`
	Created        time.Time `json:"created"`
	Modified       time.Time `json:"modified"`
}

// NewDocumentProperties returns properties stamped with the current time.
func NewDocumentProperties() DocumentProperties {
	now := time.Now().UTC().Truncate(time.Second)
	return DocumentProperties{
		Creator:        "Unknown Creator",
		LastModifiedBy: "Unknown Creator",
		Title:          "Untitled Presentation",
		Revision:       "1",
		Created:        now,
		Modified:       now,
	}
}

// parseCoreProperties reads docProps/core.xml. Unparseable dates are
// reported through warn and left zero.
func parseCoreProperties(data []byte, warn func(field string, err error)) (DocumentProperties, error) {
	var props DocumentProperties
	decoder := newXMLDecoder(bytes.NewReader(data))
	var current string
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return props, fmt.Errorf("failed to parse core properties: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			current = t.Name.Local
		case xml.EndElement:
			current = ""
		case xml.CharData:
			text := strings.TrimSpace(string(t))
			if text == "" {
				continue
			}
			switch current {
			case "creator":
				props.Creator = text
			case "lastModifiedBy":
				props.LastModifiedBy = text
			case "title":
				props.Title = text
			case "description":
				props.Description = text
			case "subject":
				props.Subject = text
			case "keywords":
				props.Keywords = text
			case "category":
				props.Category = text
			case "revision":
				props.Revision = text
			case "created", "modified":
				ts, err := time.Parse(time.RFC3339, text)
				if err != nil {
					warn("properties."+current, err)
					continue
				}
				if current == "created" {
					props.Created = ts.UTC()
				} else {
					props.Modified = ts.UTC()
				}
			}
		}
	}
	return props, nil
}

// parseAppCompany picks the Company element out of docProps/app.xml.
func parseAppCompany(data []byte) string {
	var app struct {
		Company string `xml:"Company"`
	}
	if err := newXMLDecoder(bytes.NewReader(data)).Decode(&app); err != nil {
		return ""
	}
	return app.Company
}

// SlideSize is the presentation slide dimensions in EMU.
type SlideSize struct {
	Width  int64  `json:"width"`
	Height int64  `json:"height"`
	Type   string `json:"type,omitempty"`
}

// Standard slide size names, as written in p:sldSz/@type.
const (
	LayoutScreen4x3   = "screen4x3"
	LayoutScreen16x9  = "screen16x9"
	LayoutScreen16x10 = "screen16x10"
	LayoutA4          = "A4"
	LayoutLetter      = "letter"
	LayoutCustom      = "custom"
)

// DefaultSlideSize is the 16:9 widescreen size PowerPoint uses for new
// decks.
func DefaultSlideSize() SlideSize {
	return SlideSize{Width: 12192000, Height: 6858000}
}

// NamedSlideSize returns a predefined size. Unknown names report false.
func NamedSlideSize(name string) (SlideSize, bool) {
	switch name {
	case LayoutScreen4x3:
		return SlideSize{Width: 9144000, Height: 6858000, Type: name}, true
	case LayoutScreen16x9:
		return SlideSize{Width: 9144000, Height: 5143500, Type: name}, true
	case LayoutScreen16x10:
		return SlideSize{Width: 9144000, Height: 5715000, Type: name}, true
	case LayoutA4:
		return SlideSize{Width: 9906000, Height: 6858000, Type: name}, true
	case LayoutLetter:
		return SlideSize{Width: 9144000, Height: 6858000, Type: name}, true
	}
	return SlideSize{}, false
}

// normalized replaces non-positive dimensions with the default size.
func (s SlideSize) normalized() SlideSize {
	def := DefaultSlideSize()
	if s.Width <= 0 {
		s.Width = def.Width
	}
	if s.Height <= 0 {
		s.Height = def.Height
	}
	return s
}
