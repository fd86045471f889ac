package slidemodel

import (
	"regexp"
	"strconv"
	"strings"
)

// presetNames maps DrawingML prstGeom values to the canonical shape
// vocabulary used in records and by the writer's dispatch.
var presetNames = map[string]string{
	"rect":                       "rectangle",
	"roundRect":                  "rounded_rectangle",
	"snip1Rect":                  "snip_1_rectangle",
	"snip2SameRect":              "snip_2_same_rectangle",
	"round1Rect":                 "round_1_rectangle",
	"round2SameRect":             "round_2_same_rectangle",
	"ellipse":                    "oval",
	"triangle":                   "isosceles_triangle",
	"rtTriangle":                 "right_triangle",
	"parallelogram":              "parallelogram",
	"trapezoid":                  "trapezoid",
	"diamond":                    "diamond",
	"pentagon":                   "regular_pentagon",
	"hexagon":                    "hexagon",
	"heptagon":                   "heptagon",
	"octagon":                    "octagon",
	"decagon":                    "decagon",
	"dodecagon":                  "dodecagon",
	"homePlate":                  "pentagon_arrow",
	"chevron":                    "chevron",
	"star4":                      "star_4_point",
	"star5":                      "star_5_point",
	"star6":                      "star_6_point",
	"star7":                      "star_7_point",
	"star8":                      "star_8_point",
	"star10":                     "star_10_point",
	"star12":                     "star_12_point",
	"star16":                     "star_16_point",
	"star24":                     "star_24_point",
	"star32":                     "star_32_point",
	"rightArrow":                 "right_arrow",
	"leftArrow":                  "left_arrow",
	"upArrow":                    "up_arrow",
	"downArrow":                  "down_arrow",
	"leftRightArrow":             "left_right_arrow",
	"upDownArrow":                "up_down_arrow",
	"quadArrow":                  "quad_arrow",
	"bentArrow":                  "bent_arrow",
	"uturnArrow":                 "u_turn_arrow",
	"curvedRightArrow":           "curved_right_arrow",
	"curvedLeftArrow":            "curved_left_arrow",
	"curvedUpArrow":              "curved_up_arrow",
	"curvedDownArrow":            "curved_down_arrow",
	"notchedRightArrow":          "notched_right_arrow",
	"stripedRightArrow":          "striped_right_arrow",
	"heart":                      "heart",
	"lightningBolt":              "lightning_bolt",
	"sun":                        "sun",
	"moon":                       "moon",
	"cloud":                      "cloud",
	"smileyFace":                 "smiley_face",
	"donut":                      "donut",
	"noSmoking":                  "no_symbol",
	"blockArc":                   "block_arc",
	"arc":                        "arc",
	"pie":                        "pie",
	"chord":                      "chord",
	"teardrop":                   "tear",
	"frame":                      "frame",
	"halfFrame":                  "half_frame",
	"corner":                     "l_shape",
	"plus":                       "cross",
	"mathPlus":                   "math_plus",
	"mathMinus":                  "math_minus",
	"mathMultiply":               "math_multiply",
	"mathDivide":                 "math_divide",
	"mathEqual":                  "math_equal",
	"mathNotEqual":               "math_not_equal",
	"cube":                       "cube",
	"can":                        "can",
	"bevel":                      "bevel",
	"foldedCorner":               "folded_corner",
	"plaque":                     "plaque",
	"ribbon":                     "down_ribbon",
	"ribbon2":                    "up_ribbon",
	"wave":                       "wave",
	"doubleWave":                 "double_wave",
	"wedgeRectCallout":           "rectangular_callout",
	"wedgeRoundRectCallout":      "rounded_rectangular_callout",
	"wedgeEllipseCallout":        "oval_callout",
	"cloudCallout":               "cloud_callout",
	"leftBrace":                  "left_brace",
	"rightBrace":                 "right_brace",
	"leftBracket":                "left_bracket",
	"rightBracket":               "right_bracket",
	"flowChartProcess":           "flowchart_process",
	"flowChartDecision":          "flowchart_decision",
	"flowChartTerminator":        "flowchart_terminator",
	"flowChartDocument":          "flowchart_document",
	"flowChartPreparation":       "flowchart_preparation",
	"flowChartInputOutput":       "flowchart_data",
	"flowChartConnector":         "flowchart_connector",
	"flowChartManualInput":       "flowchart_manual_input",
	"flowChartPredefinedProcess": "flowchart_predefined_process",
	"line":                       "line",
	"straightConnector1":         "straight_connector",
	"bentConnector3":             "elbow_connector",
	"curvedConnector3":           "curved_connector",
}

var canonicalNames = func() map[string]string {
	m := make(map[string]string, len(presetNames))
	for prst, name := range presetNames {
		m[name] = prst
	}
	return m
}()

// CanonicalPresetName maps a prstGeom value to the canonical vocabulary.
// Unknown values are returned unchanged with ok == false.
func CanonicalPresetName(prst string) (string, bool) {
	if name, ok := presetNames[prst]; ok {
		return name, true
	}
	return prst, false
}

// presetForName maps a canonical name back to a prstGeom value. Raw prst
// values are accepted as-is so records written before the table grew
// still resolve.
func presetForName(name string) (string, error) {
	if prst, ok := canonicalNames[name]; ok {
		return prst, nil
	}
	if _, ok := presetNames[name]; ok {
		return name, nil
	}
	return "", &UnsupportedShapeKindError{Kind: name}
}

// Legacy numeric shape type codes (MSO_SHAPE_TYPE).
const (
	legacyAutoShape   = 1
	legacyChart       = 3
	legacyFreeform    = 5
	legacyGroup       = 6
	legacyLine        = 9
	legacyPicture     = 13
	legacyPlaceholder = 14
	legacyTextBox     = 17
	legacyTable       = 19
)

var legacyDigits = regexp.MustCompile(`\d+`)

// classifyLegacy derives a kind from a legacy type code such as "13",
// "PICTURE (13)" or "TEXT_BOX". It reports false when nothing matches.
func classifyLegacy(code string) (KindType, bool) {
	code = strings.TrimSpace(code)
	if code == "" {
		return KindUnset, false
	}
	if m := legacyDigits.FindString(code); m != "" {
		if n, err := strconv.Atoi(m); err == nil {
			switch n {
			case legacyAutoShape, legacyFreeform:
				return KindAutoShape, true
			case legacyChart:
				return KindChart, true
			case legacyLine:
				return KindConnector, true
			case legacyPicture:
				return KindPicture, true
			case legacyPlaceholder:
				return KindPlaceholder, true
			case legacyTextBox:
				return KindTextBox, true
			case legacyTable:
				return KindTable, true
			case legacyGroup:
				return KindUnset, false
			}
		}
	}
	upper := strings.ToUpper(code)
	switch {
	case strings.Contains(upper, "PICTURE"):
		return KindPicture, true
	case strings.Contains(upper, "CHART"):
		return KindChart, true
	case strings.Contains(upper, "TABLE"):
		return KindTable, true
	case strings.Contains(upper, "TEXT_BOX"), strings.Contains(upper, "TEXTBOX"):
		return KindTextBox, true
	case strings.Contains(upper, "PLACEHOLDER"):
		return KindPlaceholder, true
	case strings.Contains(upper, "LINE"), strings.Contains(upper, "CONNECTOR"):
		return KindConnector, true
	case strings.Contains(upper, "AUTO_SHAPE"), strings.Contains(upper, "FREEFORM"):
		return KindAutoShape, true
	}
	return KindUnset, false
}
