package slidemodel

import (
	"fmt"
	"path"
	"strings"
)

// XML namespace constants
const (
	nsRelationships  = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsContentTypes   = "http://schemas.openxmlformats.org/package/2006/content-types"
	nsPresentationML = "http://schemas.openxmlformats.org/presentationml/2006/main"
	nsDrawingML      = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsChart          = "http://schemas.openxmlformats.org/drawingml/2006/chart"
	nsTable          = "http://schemas.openxmlformats.org/drawingml/2006/table"
	nsOfficeDocRels  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsDCTerms        = "http://purl.org/dc/terms/"
	nsDC             = "http://purl.org/dc/elements/1.1/"
	nsCoreProperties = "http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
	nsExtProperties  = "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties"
	nsXSI            = "http://www.w3.org/2001/XMLSchema-instance"
	nsOLE            = "http://schemas.openxmlformats.org/presentationml/2006/ole"

	relTypeSlide       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	relTypeSlideMaster = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster"
	relTypeSlideLayout = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout"
	relTypeTheme       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme"
	relTypePresProps   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/presProps"
	relTypeViewProps   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/viewProps"
	relTypeTableStyles = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/tableStyles"
	relTypeOfficeDoc   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relTypeCoreProps   = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relTypeExtProps    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
	relTypeThumbnail   = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/thumbnail"
	relTypeImage       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	relTypeHyperlink   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink"
	relTypeChart       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/chart"
	relTypeComment     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/comments"
	relTypeCommentAuth = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/commentAuthors"
	relTypeNotesSlide  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesSlide"
	relTypeNotesMaster = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesMaster"

	ctPresentation   = "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"
	ctSlide          = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
	ctSlideMaster    = "application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"
	ctSlideLayout    = "application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"
	ctTheme          = "application/vnd.openxmlformats-officedocument.theme+xml"
	ctPresProps      = "application/vnd.openxmlformats-officedocument.presentationml.presProps+xml"
	ctViewProps      = "application/vnd.openxmlformats-officedocument.presentationml.viewProps+xml"
	ctTableStyles    = "application/vnd.openxmlformats-officedocument.presentationml.tableStyles+xml"
	ctCoreProps      = "application/vnd.openxmlformats-package.core-properties+xml"
	ctExtProps       = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
	ctRels           = "application/vnd.openxmlformats-package.relationships+xml"
	ctChart          = "application/vnd.openxmlformats-officedocument.drawingml.chart+xml"
	ctComments       = "application/vnd.openxmlformats-officedocument.presentationml.comments+xml"
	ctCommentAuthors = "application/vnd.openxmlformats-officedocument.presentationml.commentAuthors+xml"
	ctNotesSlide     = "application/vnd.openxmlformats-officedocument.presentationml.notesSlide+xml"
	ctNotesMaster    = "application/vnd.openxmlformats-officedocument.presentationml.notesMaster+xml"

	uriChart = nsChart
	uriTable = nsTable
)

const xmlDeclaration = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// Part paths of the fixed package skeleton.
const (
	partPresentation = "ppt/presentation.xml"
	partPresProps    = "ppt/presProps.xml"
	partViewProps    = "ppt/viewProps.xml"
	partTableStyles  = "ppt/tableStyles.xml"
	partMaster       = "ppt/slideMasters/slideMaster1.xml"
	partTheme        = "ppt/theme/theme1.xml"
	partCore         = "docProps/core.xml"
	partApp          = "docProps/app.xml"
	partThumbnail    = "docProps/thumbnail.jpeg"
	partNotesMaster  = "ppt/notesMasters/notesMaster1.xml"
	partNotesTheme   = "ppt/theme/theme2.xml"
)

func slidePart(n int) string  { return fmt.Sprintf("ppt/slides/slide%d.xml", n) }
func layoutPart(n int) string { return fmt.Sprintf("ppt/slideLayouts/slideLayout%d.xml", n) }
func chartPart(n int) string  { return fmt.Sprintf("ppt/charts/chart%d.xml", n) }
func notesPart(n int) string  { return fmt.Sprintf("ppt/notesSlides/notesSlide%d.xml", n) }

// mediaPart names the part for a catalog key. Only the base name is kept,
// so directories and ".." in a key never leave ppt/media.
func mediaPart(key string) string {
	base := path.Base(path.Clean("/" + normalizePartPath(key)))
	if base == "/" {
		base = "media"
	}
	return "ppt/media/" + base
}

// spTreeHeader is the mandatory group header of every p:spTree.
const spTreeHeader = `<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
	`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`

// --- Presentation ---

func presentationXML(size SlideSize, masterRID, notesMasterRID string, slideRIDs []string) string {
	var slides strings.Builder
	for i, rid := range slideRIDs {
		fmt.Fprintf(&slides, `
    <p:sldId id="%d" r:id="%s"/>`, 256+i, rid)
	}
	sldIDLst := ""
	if len(slideRIDs) > 0 {
		sldIDLst = fmt.Sprintf(`
  <p:sldIdLst>%s
  </p:sldIdLst>`, slides.String())
	}
	notesLst := ""
	if notesMasterRID != "" {
		notesLst = fmt.Sprintf(`
  <p:notesMasterIdLst>
    <p:notesMasterId r:id="%s"/>
  </p:notesMasterIdLst>`, notesMasterRID)
	}
	typeAttr := ""
	if size.Type != "" && size.Type != LayoutCustom {
		typeAttr = fmt.Sprintf(` type="%s"`, xmlEscape(size.Type))
	}
	return fmt.Sprintf(`%s<p:presentation xmlns:a="%s" xmlns:r="%s" xmlns:p="%s" saveSubsetFonts="1">
  <p:sldMasterIdLst>
    <p:sldMasterId id="2147483648" r:id="%s"/>
  </p:sldMasterIdLst>%s%s
  <p:sldSz cx="%d" cy="%d"%s/>
  <p:notesSz cx="6858000" cy="9144000"/>
  <p:defaultTextStyle>
    <a:defPPr><a:defRPr lang="en-US"/></a:defPPr>
  </p:defaultTextStyle>
</p:presentation>`, xmlDeclaration, nsDrawingML, nsOfficeDocRels, nsPresentationML,
		masterRID, notesLst, sldIDLst, size.Width, size.Height, typeAttr)
}

func presPropsXML() string {
	return fmt.Sprintf(`%s<p:presentationPr xmlns:a="%s" xmlns:r="%s" xmlns:p="%s"/>`,
		xmlDeclaration, nsDrawingML, nsOfficeDocRels, nsPresentationML)
}

func viewPropsXML() string {
	return fmt.Sprintf(`%s<p:viewPr xmlns:a="%s" xmlns:r="%s" xmlns:p="%s">
  <p:normalViewPr><p:restoredLeft sz="15620"/><p:restoredTop sz="94660"/></p:normalViewPr>
  <p:slideViewPr><p:cSldViewPr><p:cViewPr varScale="1"><p:scale><a:sx n="100" d="100"/><a:sy n="100" d="100"/></p:scale><p:origin x="0" y="0"/></p:cViewPr><p:guideLst/></p:cSldViewPr></p:slideViewPr>
  <p:gridSpacing cx="76200" cy="76200"/>
</p:viewPr>`, xmlDeclaration, nsDrawingML, nsOfficeDocRels, nsPresentationML)
}

func tableStylesXML() string {
	return fmt.Sprintf(`%s<a:tblStyleLst xmlns:a="%s" def="{5C22544A-7EE6-4342-B048-85BDC9FD1C3A}"/>`,
		xmlDeclaration, nsDrawingML)
}

// --- Master and layouts ---

func slideMasterXML(layoutRIDs []string) string {
	var ids strings.Builder
	for i, rid := range layoutRIDs {
		fmt.Fprintf(&ids, `<p:sldLayoutId id="%d" r:id="%s"/>`, 2147483649+i, rid)
	}
	return fmt.Sprintf(`%s<p:sldMaster xmlns:a="%s" xmlns:r="%s" xmlns:p="%s">
  <p:cSld>
    <p:bg><p:bgRef idx="1001"><a:schemeClr val="bg1"/></p:bgRef></p:bg>
    <p:spTree>%s</p:spTree>
  </p:cSld>
  <p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>
  <p:sldLayoutIdLst>%s</p:sldLayoutIdLst>
  <p:txStyles>
    <p:titleStyle><a:lvl1pPr algn="l"><a:defRPr sz="4400" kern="1200"><a:solidFill><a:schemeClr val="tx1"/></a:solidFill><a:latin typeface="+mj-lt"/></a:defRPr></a:lvl1pPr></p:titleStyle>
    <p:bodyStyle><a:lvl1pPr marL="228600" indent="-228600" algn="l"><a:defRPr sz="2800" kern="1200"><a:solidFill><a:schemeClr val="tx1"/></a:solidFill><a:latin typeface="+mn-lt"/></a:defRPr></a:lvl1pPr></p:bodyStyle>
    <p:otherStyle><a:defPPr><a:defRPr lang="en-US"/></a:defPPr></p:otherStyle>
  </p:txStyles>
</p:sldMaster>`, xmlDeclaration, nsDrawingML, nsOfficeDocRels, nsPresentationML, spTreeHeader, ids.String())
}

func slideLayoutXML(l LayoutRecord) string {
	typ := l.Type
	if typ == "" {
		typ = "blank"
	}
	name := l.Name
	if name == "" {
		name = "Blank"
	}
	return fmt.Sprintf(`%s<p:sldLayout xmlns:a="%s" xmlns:r="%s" xmlns:p="%s" type="%s" preserve="1">
  <p:cSld name="%s">
    <p:spTree>%s</p:spTree>
  </p:cSld>
  <p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>
</p:sldLayout>`, xmlDeclaration, nsDrawingML, nsOfficeDocRels, nsPresentationML,
		xmlEscape(typ), xmlEscape(name), spTreeHeader)
}

// --- Notes ---

func notesSlideXML(notes string) string {
	var paras strings.Builder
	for _, line := range strings.Split(notes, "\n") {
		fmt.Fprintf(&paras, `<a:p><a:r><a:rPr lang="en-US" dirty="0"/><a:t>%s</a:t></a:r></a:p>`, xmlEscape(line))
	}
	return fmt.Sprintf(`%s<p:notes xmlns:a="%s" xmlns:r="%s" xmlns:p="%s">
  <p:cSld>
    <p:spTree>%s
      <p:sp>
        <p:nvSpPr><p:cNvPr id="2" name="Notes Placeholder"/><p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr><p:nvPr><p:ph type="body" idx="1"/></p:nvPr></p:nvSpPr>
        <p:spPr/>
        <p:txBody><a:bodyPr/><a:lstStyle/>%s</p:txBody>
      </p:sp>
    </p:spTree>
  </p:cSld>
</p:notes>`, xmlDeclaration, nsDrawingML, nsOfficeDocRels, nsPresentationML, spTreeHeader, paras.String())
}

func notesMasterXML() string {
	return fmt.Sprintf(`%s<p:notesMaster xmlns:a="%s" xmlns:r="%s" xmlns:p="%s">
  <p:cSld>
    <p:bg><p:bgRef idx="1001"><a:schemeClr val="bg1"/></p:bgRef></p:bg>
    <p:spTree>%s</p:spTree>
  </p:cSld>
  <p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>
</p:notesMaster>`, xmlDeclaration, nsDrawingML, nsOfficeDocRels, nsPresentationML, spTreeHeader)
}

// --- Document properties ---

func appPropertiesXML(props DocumentProperties, slides int) string {
	return fmt.Sprintf(`%s<Properties xmlns="%s" xmlns:vt="http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes">
  <Application>GoSlideModel v%s</Application>
  <Company>%s</Company>
  <AppVersion>%s</AppVersion>
  <Slides>%d</Slides>
</Properties>`, xmlDeclaration, nsExtProperties, Version, xmlEscape(props.Company), Version, slides)
}

func corePropertiesXML(props DocumentProperties) string {
	return fmt.Sprintf(`%s<cp:coreProperties xmlns:cp="%s" xmlns:dc="%s" xmlns:dcterms="%s" xmlns:xsi="%s">
  <dc:creator>%s</dc:creator>
  <cp:lastModifiedBy>%s</cp:lastModifiedBy>
  <dc:title>%s</dc:title>
  <dc:description>%s</dc:description>
  <dc:subject>%s</dc:subject>
  <cp:keywords>%s</cp:keywords>
  <cp:category>%s</cp:category>
  <cp:revision>%s</cp:revision>
  <dcterms:created xsi:type="dcterms:W3CDTF">%s</dcterms:created>
  <dcterms:modified xsi:type="dcterms:W3CDTF">%s</dcterms:modified>
</cp:coreProperties>`,
		xmlDeclaration, nsCoreProperties, nsDC, nsDCTerms, nsXSI,
		xmlEscape(props.Creator),
		xmlEscape(props.LastModifiedBy),
		xmlEscape(props.Title),
		xmlEscape(props.Description),
		xmlEscape(props.Subject),
		xmlEscape(props.Keywords),
		xmlEscape(props.Category),
		xmlEscape(props.Revision),
		props.Created.UTC().Format(w3cdtf),
		props.Modified.UTC().Format(w3cdtf),
	)
}

const w3cdtf = "2006-01-02T15:04:05Z"

func boolToXML(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
