package slidemodel

// ChartType names the plot kind of a chart part.
type ChartType string

const (
	ChartBar      ChartType = "bar"
	ChartLine     ChartType = "line"
	ChartArea     ChartType = "area"
	ChartPie      ChartType = "pie"
	ChartDoughnut ChartType = "doughnut"
	ChartScatter  ChartType = "scatter"
	ChartRadar    ChartType = "radar"
)

// Bar direction constants.
const (
	BarDirectionVertical   = "col"
	BarDirectionHorizontal = "bar"
)

// Bar grouping constants.
const (
	BarGroupingClustered      = "clustered"
	BarGroupingStacked        = "stacked"
	BarGroupingPercentStacked = "percentStacked"
)

// ChartSpec is the series data of an embedded chart.
type ChartSpec struct {
	Type       ChartType    `json:"type"`
	Title      string       `json:"title,omitempty"`
	Categories []string     `json:"categories"`
	Series     []SeriesSpec `json:"series"`
	BarDir     string       `json:"bar_dir,omitempty"`
	Grouping   string       `json:"grouping,omitempty"`
	Legend     bool         `json:"legend,omitempty"`
	Smooth     bool         `json:"smooth,omitempty"`
}

// SeriesSpec is one c:ser. Values align with the chart's categories;
// missing trailing values are written as zero.
type SeriesSpec struct {
	Name   string     `json:"name"`
	Values []float64  `json:"values"`
	Color  *ColorSpec `json:"color,omitempty"`
}

// chartElement returns the c:plotArea child element name.
func (c *ChartSpec) chartElement() string {
	switch c.Type {
	case ChartLine:
		return "lineChart"
	case ChartArea:
		return "areaChart"
	case ChartPie:
		return "pieChart"
	case ChartDoughnut:
		return "doughnutChart"
	case ChartScatter:
		return "scatterChart"
	case ChartRadar:
		return "radarChart"
	default:
		return "barChart"
	}
}

func chartTypeFromElement(local string) (ChartType, bool) {
	switch local {
	case "barChart", "bar3DChart":
		return ChartBar, true
	case "lineChart", "line3DChart":
		return ChartLine, true
	case "areaChart", "area3DChart":
		return ChartArea, true
	case "pieChart", "pie3DChart", "ofPieChart":
		return ChartPie, true
	case "doughnutChart":
		return ChartDoughnut, true
	case "scatterChart":
		return ChartScatter, true
	case "radarChart":
		return ChartRadar, true
	}
	return "", false
}

func isPieType(t ChartType) bool {
	return t == ChartPie || t == ChartDoughnut
}
