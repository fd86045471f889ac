package slidemodel

import (
	"fmt"
	"strings"
)

// chartPartXML renders a complete c:chartSpace part for a chart record.
func chartPartXML(c *ChartSpec) string {
	var plot string
	switch c.Type {
	case ChartLine:
		plot = lineChartXML(c)
	case ChartArea:
		plot = fmt.Sprintf(`      <c:areaChart>
        <c:grouping val="standard"/>
        <c:varyColors val="0"/>
%s        <c:axId val="1"/>
        <c:axId val="2"/>
      </c:areaChart>
`, seriesXML(c, false))
	case ChartPie:
		plot = fmt.Sprintf(`      <c:pieChart>
        <c:varyColors val="1"/>
%s      </c:pieChart>
`, seriesXML(c, false))
	case ChartDoughnut:
		plot = fmt.Sprintf(`      <c:doughnutChart>
        <c:varyColors val="1"/>
%s        <c:holeSize val="50"/>
      </c:doughnutChart>
`, seriesXML(c, false))
	case ChartScatter:
		plot = scatterChartXML(c)
	case ChartRadar:
		plot = fmt.Sprintf(`      <c:radarChart>
        <c:radarStyle val="marker"/>
        <c:varyColors val="0"/>
%s        <c:axId val="1"/>
        <c:axId val="2"/>
      </c:radarChart>
`, seriesXML(c, true))
	default:
		plot = barChartXML(c)
	}

	titleXML := `    <c:autoTitleDeleted val="1"/>
`
	if c.Title != "" {
		titleXML = fmt.Sprintf(`    <c:title>
      <c:tx><c:rich><a:bodyPr/><a:lstStyle/><a:p><a:r><a:rPr lang="en-US" sz="1800" b="0"/><a:t>%s</a:t></a:r></a:p></c:rich></c:tx>
      <c:overlay val="0"/>
    </c:title>
    <c:autoTitleDeleted val="0"/>
`, xmlEscape(c.Title))
	}

	legendXML := ""
	if c.Legend {
		legendXML = `    <c:legend>
      <c:legendPos val="r"/>
      <c:overlay val="0"/>
    </c:legend>
`
	}

	axisXML := ""
	if !isPieType(c.Type) {
		axisXML = axesXML(c.Type == ChartScatter)
	}

	return fmt.Sprintf(`%s<c:chartSpace xmlns:c="%s" xmlns:a="%s" xmlns:r="%s">
  <c:chart>
%s    <c:plotArea>
      <c:layout/>
%s%s    </c:plotArea>
%s    <c:plotVisOnly val="1"/>
    <c:dispBlanksAs val="gap"/>
  </c:chart>
</c:chartSpace>`,
		xmlDeclaration, nsChart, nsDrawingML, nsOfficeDocRels,
		titleXML, plot, axisXML, legendXML)
}

func barChartXML(c *ChartSpec) string {
	dir := c.BarDir
	if dir != BarDirectionHorizontal {
		dir = BarDirectionVertical
	}
	grouping := c.Grouping
	switch grouping {
	case BarGroupingStacked, BarGroupingPercentStacked:
	default:
		grouping = BarGroupingClustered
	}
	overlap := 0
	if grouping != BarGroupingClustered {
		overlap = 100
	}
	return fmt.Sprintf(`      <c:barChart>
        <c:barDir val="%s"/>
        <c:grouping val="%s"/>
        <c:varyColors val="0"/>
%s        <c:gapWidth val="150"/>
        <c:overlap val="%d"/>
        <c:axId val="1"/>
        <c:axId val="2"/>
      </c:barChart>
`, dir, grouping, seriesXML(c, false), overlap)
}

func lineChartXML(c *ChartSpec) string {
	series := seriesXML(c, true)
	series = strings.ReplaceAll(series, "</c:ser>",
		fmt.Sprintf("          <c:smooth val=\"%s\"/>\n        </c:ser>", boolToXML(c.Smooth)))
	return fmt.Sprintf(`      <c:lineChart>
        <c:grouping val="standard"/>
        <c:varyColors val="0"/>
%s        <c:marker val="1"/>
        <c:axId val="1"/>
        <c:axId val="2"/>
      </c:lineChart>
`, series)
}

// axesXML returns a category/value axis pair, or two value axes for
// scatter plots.
func axesXML(scatter bool) string {
	first := "c:catAx"
	if scatter {
		first = "c:valAx"
	}
	return fmt.Sprintf(`      <%s>
        <c:axId val="1"/>
        <c:scaling><c:orientation val="minMax"/></c:scaling>
        <c:delete val="0"/>
        <c:axPos val="b"/>
        <c:numFmt formatCode="General" sourceLinked="1"/>
        <c:tickLblPos val="nextTo"/>
        <c:crossAx val="2"/>
        <c:crosses val="autoZero"/>
      </%s>
      <c:valAx>
        <c:axId val="2"/>
        <c:scaling><c:orientation val="minMax"/></c:scaling>
        <c:delete val="0"/>
        <c:axPos val="l"/>
        <c:majorGridlines/>
        <c:numFmt formatCode="General" sourceLinked="1"/>
        <c:tickLblPos val="nextTo"/>
        <c:crossAx val="1"/>
        <c:crosses val="autoZero"/>
      </c:valAx>
`, first, first)
}

// seriesXML writes c:ser elements with literal string and number caches.
// Values beyond the category count are dropped and missing ones are zero.
func seriesXML(c *ChartSpec, withMarker bool) string {
	var sb strings.Builder
	for idx, s := range c.Series {
		fmt.Fprintf(&sb, `        <c:ser>
          <c:idx val="%d"/>
          <c:order val="%d"/>
          <c:tx><c:strRef><c:f>Sheet1!$%s$1</c:f><c:strCache><c:ptCount val="1"/><c:pt idx="0"><c:v>%s</c:v></c:pt></c:strCache></c:strRef></c:tx>
`, idx, idx, columnName(idx+1), xmlEscape(s.Name))
		if s.Color != nil {
			fmt.Fprintf(&sb, "          <c:spPr><a:solidFill>%s</a:solidFill></c:spPr>\n", colorXML(*s.Color))
		}
		if withMarker {
			sb.WriteString("          <c:marker><c:symbol val=\"circle\"/><c:size val=\"5\"/></c:marker>\n")
		}
		if len(c.Categories) > 0 {
			sb.WriteString("          <c:cat>\n            <c:strRef><c:f>Sheet1!$A$2</c:f><c:strCache>\n")
			fmt.Fprintf(&sb, "              <c:ptCount val=\"%d\"/>\n", len(c.Categories))
			for i, cat := range c.Categories {
				fmt.Fprintf(&sb, "              <c:pt idx=\"%d\"><c:v>%s</c:v></c:pt>\n", i, xmlEscape(cat))
			}
			sb.WriteString("            </c:strCache></c:strRef>\n          </c:cat>\n")
		}
		sb.WriteString("          <c:val>\n            <c:numRef><c:f>Sheet1!$B$2</c:f><c:numCache>\n")
		sb.WriteString(numCacheXML(c, s))
		sb.WriteString("            </c:numCache></c:numRef>\n          </c:val>\n")
		sb.WriteString("        </c:ser>\n")
	}
	return sb.String()
}

func numCacheXML(c *ChartSpec, s SeriesSpec) string {
	n := len(c.Categories)
	if n == 0 {
		n = len(s.Values)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "              <c:formatCode>General</c:formatCode>\n              <c:ptCount val=\"%d\"/>\n", n)
	for i := 0; i < n; i++ {
		v := 0.0
		if i < len(s.Values) {
			v = s.Values[i]
		}
		fmt.Fprintf(&sb, "              <c:pt idx=\"%d\"><c:v>%g</c:v></c:pt>\n", i, v)
	}
	return sb.String()
}

// scatterChartXML uses the category labels as x values; non-numeric
// labels fall back to their 1-based position.
func scatterChartXML(c *ChartSpec) string {
	var sb strings.Builder
	for idx, s := range c.Series {
		fmt.Fprintf(&sb, `        <c:ser>
          <c:idx val="%d"/>
          <c:order val="%d"/>
          <c:tx><c:strRef><c:f>Sheet1!$%s$1</c:f><c:strCache><c:ptCount val="1"/><c:pt idx="0"><c:v>%s</c:v></c:pt></c:strCache></c:strRef></c:tx>
`, idx, idx, columnName(idx+1), xmlEscape(s.Name))
		if s.Color != nil {
			fmt.Fprintf(&sb, "          <c:spPr><a:solidFill>%s</a:solidFill></c:spPr>\n", colorXML(*s.Color))
		}
		n := len(s.Values)
		sb.WriteString("          <c:xVal>\n            <c:numRef><c:f>Sheet1!$A$2</c:f><c:numCache>\n")
		fmt.Fprintf(&sb, "              <c:formatCode>General</c:formatCode>\n              <c:ptCount val=\"%d\"/>\n", n)
		for i := 0; i < n; i++ {
			x := fmt.Sprintf("%d", i+1)
			if i < len(c.Categories) {
				var f float64
				if _, err := fmt.Sscanf(c.Categories[i], "%g", &f); err == nil {
					x = fmt.Sprintf("%g", f)
				}
			}
			fmt.Fprintf(&sb, "              <c:pt idx=\"%d\"><c:v>%s</c:v></c:pt>\n", i, x)
		}
		sb.WriteString("            </c:numCache></c:numRef>\n          </c:xVal>\n")
		sb.WriteString("          <c:yVal>\n            <c:numRef><c:f>Sheet1!$B$2</c:f><c:numCache>\n")
		fmt.Fprintf(&sb, "              <c:formatCode>General</c:formatCode>\n              <c:ptCount val=\"%d\"/>\n", n)
		for i, v := range s.Values {
			fmt.Fprintf(&sb, "              <c:pt idx=\"%d\"><c:v>%g</c:v></c:pt>\n", i, v)
		}
		sb.WriteString("            </c:numCache></c:numRef>\n          </c:yVal>\n")
		fmt.Fprintf(&sb, "          <c:smooth val=\"%s\"/>\n", boolToXML(c.Smooth))
		sb.WriteString("        </c:ser>\n")
	}
	return fmt.Sprintf(`      <c:scatterChart>
        <c:scatterStyle val="lineMarker"/>
        <c:varyColors val="0"/>
%s        <c:axId val="1"/>
        <c:axId val="2"/>
      </c:scatterChart>
`, sb.String())
}

// columnName returns the spreadsheet column letter for a 1-based index.
func columnName(n int) string {
	var b []byte
	for n > 0 {
		n--
		b = append([]byte{byte('A' + n%26)}, b...)
		n /= 26
	}
	return string(b)
}

// parseChartPart reads the plot type, title and series caches back out of
// a chart part. Unknown plot types come back as bar charts with ok false.
func parseChartPart(data []byte) (*ChartSpec, bool, error) {
	doc, err := parseXMLTree(data)
	if err != nil {
		return nil, false, err
	}
	chart := doc.root().child("chart")
	if chart == nil {
		return nil, false, fmt.Errorf("chart part has no c:chart element")
	}
	spec := &ChartSpec{Type: ChartBar}
	if t := chart.child("title"); t != nil {
		spec.Title = strings.TrimSpace(t.text())
	}
	spec.Legend = chart.child("legend") != nil
	known := false
	plotArea := chart.child("plotArea")
	for _, el := range plotArea.elements() {
		ct, ok := chartTypeFromElement(el.Name.Local)
		if !ok {
			continue
		}
		spec.Type, known = ct, true
		if d := el.child("barDir"); d != nil {
			spec.BarDir = d.attr("val")
		}
		if g := el.child("grouping"); g != nil && ct == ChartBar {
			spec.Grouping = g.attr("val")
		}
		for _, ser := range el.elements() {
			if ser.Name.Local != "ser" {
				continue
			}
			if sm := ser.child("smooth"); sm != nil && sm.attr("val") == "1" {
				spec.Smooth = true
			}
			s := SeriesSpec{Name: strings.TrimSpace(ser.child("tx").text())}
			if fill := ser.path("spPr", "solidFill"); fill != nil {
				if c, ok := colorFromFill(fill); ok {
					s.Color = &c
				}
			}
			valEl := ser.child("val")
			if valEl == nil {
				valEl = ser.child("yVal")
			}
			s.Values = cachePoints(valEl, func(v string) float64 {
				var f float64
				fmt.Sscanf(v, "%g", &f)
				return f
			})
			if spec.Categories == nil {
				catEl := ser.child("cat")
				if catEl == nil {
					catEl = ser.child("xVal")
				}
				spec.Categories = cachePoints(catEl, func(v string) string { return v })
			}
			spec.Series = append(spec.Series, s)
		}
		break
	}
	return spec, known, nil
}

// cachePoints reads the c:pt values of a str or num cache in idx order.
func cachePoints[T any](ref *xmlNode, conv func(string) T) []T {
	if ref == nil {
		return nil
	}
	var out []T
	ref.walk(func(n *xmlNode) bool {
		if n.Name.Local != "pt" {
			return true
		}
		var idx int
		fmt.Sscanf(n.attr("idx"), "%d", &idx)
		if idx < 0 || idx > 1<<16 {
			return false
		}
		for len(out) <= idx {
			var zero T
			out = append(out, zero)
		}
		out[idx] = conv(n.child("v").text())
		return false
	})
	return out
}
