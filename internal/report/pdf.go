package report

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/language"

	"github.com/darkshare/darkshare/internal/i18n"
	"github.com/darkshare/darkshare/internal/model"
)

// rgb is a 24-bit color in the fixed report palette.
type rgb struct {
	r, g, b int
}

// Report palette. Matches the product's dark web theme.
var (
	colorPrimary    = rgb{99, 102, 241}
	colorBackground = rgb{10, 10, 15}
	colorSurface    = rgb{22, 22, 29}
	colorBorder     = rgb{39, 39, 42}
	colorText       = rgb{250, 250, 250}
	colorTextMuted  = rgb{161, 161, 170}
	colorSuccess    = rgb{34, 197, 94}
	colorWarning    = rgb{234, 179, 8}
	colorDanger     = rgb{239, 68, 68}
	colorInfo       = rgb{59, 130, 246}
	colorHigh       = rgb{249, 115, 22}
)

// riskColor maps a risk level to its accent color.
func riskColor(level model.RiskLevel) rgb {
	switch level {
	case model.RiskLevelLow:
		return colorSuccess
	case model.RiskLevelMedium:
		return colorWarning
	case model.RiskLevelHigh:
		return colorHigh
	case model.RiskLevelCritical:
		return colorDanger
	default:
		return colorTextMuted
	}
}

// findingColor maps a finding block category to its accent color.
func findingColor(typ model.FindingType) rgb {
	switch typ {
	case model.FindingWarning:
		return colorWarning
	case model.FindingDanger:
		return colorDanger
	case model.FindingSuccess:
		return colorSuccess
	default:
		return colorInfo
	}
}

// verdict is one of the four canned verdict panels.
type verdict struct {
	title       string
	description string
}

// verdictFor returns the canned verdict for a risk level and score.
// The lookup is independent of the actual findings content.
func verdictFor(level model.RiskLevel, score int) verdict {
	switch {
	case level == model.RiskLevelCritical || score >= 80:
		return verdict{
			title:       "HIGH RISK - Immediate Action Required",
			description: "Multiple serious risk indicators detected. Do not proceed with transactions involving this target.",
		}
	case level == model.RiskLevelHigh || score >= 60:
		return verdict{
			title:       "ELEVATED RISK - Proceed with Caution",
			description: "Some concerning indicators found. Additional verification recommended before engagement.",
		}
	case level == model.RiskLevelMedium || score >= 30:
		return verdict{
			title:       "MODERATE RISK - Standard Precautions",
			description: "Minor risk indicators present. Apply standard due diligence procedures.",
		}
	default:
		return verdict{
			title:       "LOW RISK - Generally Safe",
			description: "No significant risk indicators detected. Standard verification still recommended.",
		}
	}
}

// Layout constants. The page is A4 in points.
const (
	pdfMargin           = 40.0
	pdfHeaderHeight     = 120.0
	pdfFooterHeight     = 60.0
	pdfFindingHeight    = 50.0
	pdfFindingSpacing   = 60.0
	pdfMetadataRow      = 22.0
	pdfBreakThreshold   = 150.0
	pdfTargetMaxDisplay = 45
)

// PDFRenderer renders a report record into the branded PDF document.
//
// Design decision: the clock and report-id source are injectable so that
// rendering is a pure function of its inputs under test. The only
// nondeterminism in production output is the report identifier and the
// document timestamps derived from it.
type PDFRenderer struct {
	clock       func() time.Time
	newReportID func(now time.Time) string
}

// PDFRendererOption configures a PDFRenderer.
type PDFRendererOption func(*PDFRenderer)

// WithClock overrides the wall clock used for the report identifier and
// the copyright year.
func WithClock(clock func() time.Time) PDFRendererOption {
	return func(r *PDFRenderer) {
		r.clock = clock
	}
}

// WithReportID overrides the report identifier source.
func WithReportID(newReportID func(now time.Time) string) PDFRendererOption {
	return func(r *PDFRenderer) {
		r.newReportID = newReportID
	}
}

// NewPDFRenderer creates a PDFRenderer with the given options.
func NewPDFRenderer(opts ...PDFRendererOption) *PDFRenderer {
	r := &PDFRenderer{
		clock:       time.Now,
		newReportID: NewReportID,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// NewReportID generates a report identifier from the millisecond timestamp
// in base36 plus a short random suffix.
func NewReportID(now time.Time) string {
	suffix := make([]byte, 2)
	_, _ = rand.Read(suffix)
	return "DS-" + strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36)) +
		"-" + strings.ToUpper(hex.EncodeToString(suffix))
}

// Render draws the full report document and writes the PDF bytes to out.
// A sink failure is propagated; a truncated document is never emitted.
func (r *PDFRenderer) Render(data *model.ReportData, out io.Writer) error {
	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetTitle("DARKSHARE Report - "+strings.ToUpper(string(data.ModuleType)), true)
	doc.SetAuthor("DARKSHARE v4.0", true)
	doc.SetSubject("Risk Assessment for "+data.TargetValue, true)
	doc.SetKeywords("risk, assessment, security, darkshare", true)
	doc.SetCreationDate(data.Timestamp)
	doc.SetModificationDate(data.Timestamp)

	// Pagination is handled explicitly by the section drawers.
	doc.SetAutoPageBreak(false, 0)
	doc.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	doc.AddPage()

	reportID := r.newReportID(r.clock())

	r.drawHeader(doc, data, reportID)

	y := pdfHeaderHeight + 25
	y = r.drawTarget(doc, data, y)
	y = r.drawRisk(doc, data, y)
	y = r.drawFindings(doc, data.Findings, y)
	y = r.drawMetadata(doc, data.Metadata, y)
	y = r.drawSources(doc, data.Sources, y)
	r.drawStamp(doc, y)
	r.drawFooter(doc, data, reportID)

	if err := doc.Output(out); err != nil {
		return fmt.Errorf("render pdf report: %w", err)
	}
	return nil
}

// drawHeader draws the dark header band, product title, module badge, and
// report identifier on the first page.
func (r *PDFRenderer) drawHeader(doc *fpdf.Fpdf, data *model.ReportData, reportID string) {
	pageW, _ := doc.GetPageSize()

	setFill(doc, colorBackground)
	doc.Rect(0, 0, pageW, pdfHeaderHeight, "F")
	setFill(doc, colorPrimary)
	doc.Rect(0, pdfHeaderHeight, pageW, 4, "F")

	setText(doc, colorText)
	doc.SetFont("Helvetica", "B", 28)
	cell(doc, pdfMargin, 35, 200, 28, "L", "DARKSHARE")

	setText(doc, colorPrimary)
	doc.SetFont("Helvetica", "", 12)
	cell(doc, pdfMargin, 65, 200, 12, "L", "v4.0 Risk Intelligence")

	// Module-type badge.
	badgeX := pageW - pdfMargin - 120
	setFill(doc, colorSurface)
	doc.RoundedRect(badgeX, 35, 120, 30, 4, "1234", "F")
	setText(doc, colorText)
	doc.SetFont("Helvetica", "B", 10)
	cell(doc, badgeX+10, 45, 100, 10, "C", strings.ToUpper(data.ModuleType.Label()))

	setText(doc, colorTextMuted)
	doc.SetFont("Helvetica", "", 8)
	cell(doc, badgeX, 75, 120, 8, "R", "Report ID: "+reportID)
}

// drawTarget draws the subject-of-analysis panel and returns the next y.
func (r *PDFRenderer) drawTarget(doc *fpdf.Fpdf, data *model.ReportData, y float64) float64 {
	pageW, _ := doc.GetPageSize()
	contentW := pageW - pdfMargin*2

	setFill(doc, colorSurface)
	doc.RoundedRect(pdfMargin, y, contentW, 80, 6, "1234", "F")

	setText(doc, colorTextMuted)
	doc.SetFont("Helvetica", "", 9)
	cell(doc, pdfMargin+15, y+12, 200, 9, "L", "TARGET")

	setText(doc, colorText)
	doc.SetFont("Helvetica", "B", 14)
	cell(doc, pdfMargin+15, y+28, contentW-30, 14, "L", truncateString(data.TargetValue, pdfTargetMaxDisplay))

	setText(doc, colorTextMuted)
	doc.SetFont("Helvetica", "", 9)
	cell(doc, pdfMargin+15, y+50, 200, 9, "L", "TIMESTAMP")

	ts := data.Timestamp
	longDate := i18n.LongDate(language.English, ts.Day(), int(ts.Month()), ts.Year())
	setText(doc, colorText)
	doc.SetFont("Helvetica", "", 10)
	cell(doc, pdfMargin+15, y+62, contentW-30, 10, "L", longDate+", "+ts.Format("15:04:05 MST"))

	return y + 100
}

// drawRisk draws the score gauge, proportional bar, and verdict panels.
func (r *PDFRenderer) drawRisk(doc *fpdf.Fpdf, data *model.ReportData, y float64) float64 {
	pageW, _ := doc.GetPageSize()
	contentW := pageW - pdfMargin*2
	panelW := contentW * 0.48
	accent := riskColor(data.RiskLevel)

	// Score panel.
	setFill(doc, colorSurface)
	doc.RoundedRect(pdfMargin, y, panelW, 100, 6, "1234", "F")
	setText(doc, colorTextMuted)
	doc.SetFont("Helvetica", "", 9)
	cell(doc, pdfMargin+15, y+12, 200, 9, "L", "RISK SCORE")

	circleX := pdfMargin + 60
	circleY := y + 60
	setDraw(doc, accent)
	doc.SetLineWidth(4)
	doc.Circle(circleX, circleY, 30, "D")
	setText(doc, accent)
	doc.SetFont("Helvetica", "B", 24)
	cell(doc, circleX-18, circleY-12, 36, 24, "C", strconv.Itoa(data.RiskScore))

	setText(doc, accent)
	doc.SetFont("Helvetica", "B", 16)
	cell(doc, pdfMargin+110, y+35, panelW-125, 16, "L", strings.ToUpper(data.RiskLevel.String()))
	setText(doc, colorTextMuted)
	doc.SetFont("Helvetica", "", 10)
	cell(doc, pdfMargin+110, y+55, panelW-125, 10, "L", "Risk Classification")

	// Proportional score bar, filled to score/100 of the track.
	barW := panelW - 125
	setFill(doc, colorBorder)
	doc.Rect(pdfMargin+110, y+75, barW, 6, "F")
	setFill(doc, accent)
	doc.Rect(pdfMargin+110, y+75, float64(data.RiskScore)/100*barW, 6, "F")

	// Verdict panel.
	verdictX := pdfMargin + contentW*0.52
	setFill(doc, colorSurface)
	doc.RoundedRect(verdictX, y, panelW, 100, 6, "1234", "F")
	setText(doc, colorTextMuted)
	doc.SetFont("Helvetica", "", 9)
	cell(doc, verdictX+15, y+12, 200, 9, "L", "VERDICT")

	v := verdictFor(data.RiskLevel, data.RiskScore)
	setText(doc, colorText)
	doc.SetFont("Helvetica", "B", 12)
	multi(doc, verdictX+15, y+28, panelW-30, 13, v.title)
	setText(doc, colorTextMuted)
	doc.SetFont("Helvetica", "", 9)
	multi(doc, verdictX+15, y+56, panelW-30, 11, v.description)

	return y + 120
}

// drawFindings draws one accent-colored block per finding, breaking to a
// new page when the remaining vertical space is insufficient.
func (r *PDFRenderer) drawFindings(doc *fpdf.Fpdf, findings []model.Finding, y float64) float64 {
	pageW, pageH := doc.GetPageSize()
	contentW := pageW - pdfMargin*2

	setText(doc, colorText)
	doc.SetFont("Helvetica", "B", 14)
	cell(doc, pdfMargin, y, contentW, 14, "L", "Analysis Findings")
	y += 25

	for _, finding := range findings {
		if y > pageH-pdfBreakThreshold {
			doc.AddPage()
			y = pdfMargin
		}

		accent := findingColor(finding.Type)
		setFill(doc, accent)
		doc.Rect(pdfMargin, y, 4, pdfFindingHeight, "F")
		setFill(doc, colorSurface)
		doc.Rect(pdfMargin+4, y, contentW-4, pdfFindingHeight, "F")

		setText(doc, accent)
		doc.SetFont("Helvetica", "B", 12)
		cell(doc, pdfMargin+15, y+10, contentW-30, 12, "L",
			"["+findingSymbol(finding.Type)+"] "+finding.Title)

		setText(doc, colorTextMuted)
		doc.SetFont("Helvetica", "", 9)
		multi(doc, pdfMargin+15, y+28, contentW-40, 11, finding.Description)

		y += pdfFindingSpacing
	}

	return y + 20
}

// drawMetadata draws the technical-details table, if any rows exist.
func (r *PDFRenderer) drawMetadata(doc *fpdf.Fpdf, metadata map[string]string, y float64) float64 {
	if len(metadata) == 0 {
		return y
	}

	pageW, pageH := doc.GetPageSize()
	contentW := pageW - pdfMargin*2

	if y > pageH-pdfBreakThreshold {
		doc.AddPage()
		y = pdfMargin
	}

	setText(doc, colorText)
	doc.SetFont("Helvetica", "B", 14)
	cell(doc, pdfMargin, y, contentW, 14, "L", "Technical Details")
	y += 25

	setFill(doc, colorSurface)
	doc.RoundedRect(pdfMargin, y, contentW, float64(len(metadata))*pdfMetadataRow+20, 6, "1234", "F")
	y += 10

	for _, key := range sortedKeys(metadata) {
		setText(doc, colorTextMuted)
		doc.SetFont("Helvetica", "", 9)
		cell(doc, pdfMargin+15, y+3, 130, 9, "L", key)
		setText(doc, colorText)
		doc.SetFont("Helvetica", "", 10)
		cell(doc, pdfMargin+150, y+3, contentW-165, 10, "L", metadata[key])
		y += pdfMetadataRow
	}

	return y + 30
}

// drawSources draws the consulted data providers as one joined line.
func (r *PDFRenderer) drawSources(doc *fpdf.Fpdf, sources []string, y float64) float64 {
	pageW, pageH := doc.GetPageSize()
	contentW := pageW - pdfMargin*2

	if y > pageH-120 {
		doc.AddPage()
		y = pdfMargin
	}

	setText(doc, colorText)
	doc.SetFont("Helvetica", "B", 14)
	cell(doc, pdfMargin, y, contentW, 14, "L", "Data Sources")
	y += 20

	setText(doc, colorTextMuted)
	doc.SetFont("Helvetica", "", 9)
	multi(doc, pdfMargin, y, contentW, 11, strings.Join(sources, "  |  "))

	return y + 30
}

// drawStamp draws the decorative concentric-circle verification stamp.
func (r *PDFRenderer) drawStamp(doc *fpdf.Fpdf, y float64) {
	pageW, pageH := doc.GetPageSize()

	stampX := pageW - pdfMargin - 60
	stampY := y + 35
	if stampY > pageH-pdfFooterHeight-40 {
		stampY = pageH - pdfFooterHeight - 40
	}

	doc.SetLineWidth(2)
	setDraw(doc, colorPrimary)
	doc.Circle(stampX, stampY, 28, "D")
	doc.SetLineWidth(1)
	setDraw(doc, colorBorder)
	doc.Circle(stampX, stampY, 21, "D")

	setText(doc, colorPrimary)
	doc.SetFont("Helvetica", "B", 6)
	cell(doc, stampX-20, stampY-3, 40, 6, "C", "VERIFIED")
}

// drawFooter draws the dark footer band with the confidentiality notice
// and the cosmetic verification hash. Drawn on the current (last) page.
func (r *PDFRenderer) drawFooter(doc *fpdf.Fpdf, data *model.ReportData, reportID string) {
	pageW, pageH := doc.GetPageSize()
	contentW := pageW - pdfMargin*2
	footerY := pageH - pdfFooterHeight

	setFill(doc, colorBackground)
	doc.Rect(0, footerY, pageW, pdfFooterHeight, "F")

	setText(doc, colorTextMuted)
	doc.SetFont("Helvetica", "", 8)
	cell(doc, pdfMargin, footerY+15, contentW*0.6, 8, "L",
		"CONFIDENTIAL - This report is for authorized recipients only.")
	cell(doc, pdfMargin, footerY+30, contentW*0.6, 8, "L", "Generated by DARKSHARE v4.0")

	cell(doc, pageW-pdfMargin-200, footerY+15, 200, 8, "R",
		"Verification: "+verificationHash(reportID, data.TargetValue, data.Timestamp))
	cell(doc, pageW-pdfMargin-200, footerY+30, 200, 8, "R",
		fmt.Sprintf("(c) %d DARKSHARE INT.", data.Timestamp.Year()))
}

// verificationHash computes the cosmetic footer hash: a fixed-length
// prefix of the base64 encoding of id, target, and epoch milliseconds.
// It is decorative, not tamper-evidence.
func verificationHash(reportID, target string, ts time.Time) string {
	encoded := base64.StdEncoding.EncodeToString(
		[]byte(reportID + "-" + target + "-" + strconv.FormatInt(ts.UnixMilli(), 10)))
	if len(encoded) > 32 {
		return encoded[:32]
	}
	return encoded
}

// cell places single-line text with top-left positioning.
func cell(doc *fpdf.Fpdf, x, y, w, h float64, align, txt string) {
	doc.SetXY(x, y)
	doc.CellFormat(w, h, txt, "", 0, align, false, 0, "")
}

// multi places wrapped text with top-left positioning.
func multi(doc *fpdf.Fpdf, x, y, w, lineH float64, txt string) {
	doc.SetXY(x, y)
	doc.MultiCell(w, lineH, txt, "", "L", false)
}

func setFill(doc *fpdf.Fpdf, c rgb) { doc.SetFillColor(c.r, c.g, c.b) }
func setText(doc *fpdf.Fpdf, c rgb) { doc.SetTextColor(c.r, c.g, c.b) }
func setDraw(doc *fpdf.Fpdf, c rgb) { doc.SetDrawColor(c.r, c.g, c.b) }

// PDFWriter renders reports as PDF documents through the Writer interface.
// The document is buffered in full before any byte reaches the output, so
// a rendering failure never leaves a truncated file behind.
type PDFWriter struct {
	baseWriter

	renderer *PDFRenderer
}

// NewPDFWriter creates a PDFWriter that outputs to the given writer.
func NewPDFWriter(output io.Writer, opts ...PDFRendererOption) *PDFWriter {
	return &PDFWriter{
		baseWriter: newBaseWriter(output),
		renderer:   NewPDFRenderer(opts...),
	}
}

// Write renders the report record and writes the PDF bytes.
func (w *PDFWriter) Write(data *model.ReportData) (int, error) {
	var buf bytes.Buffer
	if err := w.renderer.Render(data, &buf); err != nil {
		return 0, err
	}
	return w.output.Write(buf.Bytes())
}

// WriteResult renders a report assembled from a bare check result.
func (w *PDFWriter) WriteResult(result *model.CheckResult) (int, error) {
	return w.Write(FromResult(result, ""))
}
