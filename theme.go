package slidemodel

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Theme is the subset of theme1.xml that the round trip carries: the
// twelve-slot color scheme and the major/minor latin fonts.
type Theme struct {
	Name      string               `json:"name"`
	Colors    map[ThemeSlot]string `json:"colors"` // slot -> RRGGBB
	MajorFont string               `json:"major_font"`
	MinorFont string               `json:"minor_font"`
}

// DefaultTheme returns the stock Office 2013+ theme.
func DefaultTheme() *Theme {
	return &Theme{
		Name: "Office Theme",
		Colors: map[ThemeSlot]string{
			SlotDark1:             "000000",
			SlotLight1:            "FFFFFF",
			SlotDark2:             "44546A",
			SlotLight2:            "E7E6E6",
			SlotAccent1:           "4472C4",
			SlotAccent2:           "ED7D31",
			SlotAccent3:           "A5A5A5",
			SlotAccent4:           "FFC000",
			SlotAccent5:           "5B9BD5",
			SlotAccent6:           "70AD47",
			SlotHyperlink:         "0563C1",
			SlotFollowedHyperlink: "954F72",
		},
		MajorFont: "Calibri Light",
		MinorFont: "Calibri",
	}
}

// Color returns the RGB value of a slot, falling back to the default
// palette for slots the theme does not define.
func (t *Theme) Color(slot ThemeSlot) ColorSpec {
	if t != nil {
		if hex, ok := t.Colors[slot]; ok {
			if c, err := ParseHexColor(hex); err == nil {
				return c
			}
		}
	}
	if c, err := ParseHexColor(DefaultTheme().Colors[slot]); err == nil {
		return c
	}
	return RGB(0, 0, 0)
}

// parseTheme reads the color scheme and font scheme of a theme part.
// Unreadable colors are reported through warn and skipped.
func parseTheme(data []byte, warn func(field string, err error)) (*Theme, error) {
	theme := &Theme{Colors: make(map[ThemeSlot]string)}
	decoder := newXMLDecoder(bytes.NewReader(data))

	var inClrScheme, inMajor, inMinor bool
	current := -1
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse theme: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "theme":
				theme.Name = attrValue(t.Attr, "name")
			case "clrScheme":
				inClrScheme = true
			case "majorFont":
				inMajor = true
			case "minorFont":
				inMinor = true
			case "latin":
				face := attrValue(t.Attr, "typeface")
				if inMajor && theme.MajorFont == "" {
					theme.MajorFont = face
				} else if inMinor && theme.MinorFont == "" {
					theme.MinorFont = face
				}
			case "srgbClr":
				if inClrScheme && current >= 0 {
					theme.Colors[ThemeSlot(current)] = strings.ToUpper(attrValue(t.Attr, "val"))
				}
			case "sysClr":
				if inClrScheme && current >= 0 {
					val := attrValue(t.Attr, "lastClr")
					if val == "" {
						warn("theme."+schemeNames[current], fmt.Errorf("sysClr without lastClr"))
						continue
					}
					theme.Colors[ThemeSlot(current)] = strings.ToUpper(val)
				}
			default:
				if inClrScheme {
					current = -1
					for i, n := range schemeNames {
						if n == t.Name.Local {
							current = i
						}
					}
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "clrScheme":
				inClrScheme = false
			case "majorFont":
				inMajor = false
			case "minorFont":
				inMinor = false
			}
		}
	}
	for i := range schemeNames {
		if _, ok := theme.Colors[ThemeSlot(i)]; !ok {
			warn("theme."+schemeNames[i], fmt.Errorf("color slot missing"))
		}
	}
	return theme, nil
}

// themeXML renders a complete theme part. The format and effect schemes
// are the stock Office ones; only colors, fonts and name vary.
func themeXML(t *Theme) string {
	if t == nil {
		t = DefaultTheme()
	}
	var colors strings.Builder
	for i, name := range schemeNames {
		c := t.Color(ThemeSlot(i))
		colors.WriteString(fmt.Sprintf("      <a:%s><a:srgbClr val=\"%s\"/></a:%s>\n", name, c.Hex(), name))
	}
	major, minor := t.MajorFont, t.MinorFont
	if major == "" {
		major = "Calibri Light"
	}
	if minor == "" {
		minor = "Calibri"
	}
	name := t.Name
	if name == "" {
		name = "Office Theme"
	}
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<a:theme xmlns:a="%s" name="%s">
  <a:themeElements>
    <a:clrScheme name="%s">
%s    </a:clrScheme>
    <a:fontScheme name="%s">
      <a:majorFont><a:latin typeface="%s"/><a:ea typeface=""/><a:cs typeface=""/></a:majorFont>
      <a:minorFont><a:latin typeface="%s"/><a:ea typeface=""/><a:cs typeface=""/></a:minorFont>
    </a:fontScheme>
    <a:fmtScheme name="Office">
      <a:fillStyleLst>
        <a:solidFill><a:schemeClr val="phClr"/></a:solidFill>
        <a:solidFill><a:schemeClr val="phClr"><a:tint val="50000"/></a:schemeClr></a:solidFill>
        <a:solidFill><a:schemeClr val="phClr"><a:shade val="80000"/></a:schemeClr></a:solidFill>
      </a:fillStyleLst>
      <a:lnStyleLst>
        <a:ln w="6350"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>
        <a:ln w="12700"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>
        <a:ln w="19050"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>
      </a:lnStyleLst>
      <a:effectStyleLst>
        <a:effectStyle><a:effectLst/></a:effectStyle>
        <a:effectStyle><a:effectLst/></a:effectStyle>
        <a:effectStyle><a:effectLst/></a:effectStyle>
      </a:effectStyleLst>
      <a:bgFillStyleLst>
        <a:solidFill><a:schemeClr val="phClr"/></a:solidFill>
        <a:solidFill><a:schemeClr val="phClr"><a:tint val="95000"/></a:schemeClr></a:solidFill>
        <a:solidFill><a:schemeClr val="phClr"><a:shade val="90000"/></a:schemeClr></a:solidFill>
      </a:bgFillStyleLst>
    </a:fmtScheme>
  </a:themeElements>
</a:theme>`, nsDrawingML, xmlEscape(name), xmlEscape(name), colors.String(), xmlEscape(name),
		xmlEscape(major), xmlEscape(minor))
}
