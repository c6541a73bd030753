package service

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"clinical-scan-support/internal/domain/entity"
	"clinical-scan-support/internal/infrastructure/storage"
	"clinical-scan-support/pkg/apperr"

	"github.com/go-pdf/fpdf"
	"github.com/sirupsen/logrus"
)

// fieldDefault is the placeholder rendered for any optional value that is not
// on file. Rendering never fails because of sparse patient data.
const fieldDefault = "—"

// ReportData is the fully resolved document model for a diagnostic report.
// Every field is concrete: optional inputs are mapped to declared defaults
// before rendering, so the layout below never probes for presence.
type ReportData struct {
	ReportID   string
	ReportDate string
	ReportTime string
	ScanID     uint

	PatientName      string
	PatientID        string
	Age              string
	Gender           string
	DateOfBirth      string
	BloodGroup       string
	Phone            string
	Email            string
	Address          string
	EmergencyContact string

	Department string
	Hospital   string
	Priority   string

	ScanType string
	BodyPart string
	ScanDate string
	ScanTime string

	AIModel    string
	AIVersion  string
	Prediction string
	Confidence string
	RiskLevel  string

	DoctorNotes     string
	Impression      string
	Recommendations []string
	Prescription    string

	DoctorName          string
	DoctorQualification string
	PharmacistName      string

	// ScanImageBase64 is the inline-encoded scan image, empty when the blob
	// could not be resolved (which is not an error).
	ScanImageBase64 string
}

// riskLevel derives the report risk classification from the AI result.
func riskLevel(confidence *float64, prediction *string) string {
	if prediction != nil && *prediction == "Normal" {
		return "Low"
	}
	if confidence == nil {
		return "Unknown"
	}
	switch {
	case *confidence >= 0.90:
		return "High"
	case *confidence >= 0.70:
		return "Moderate"
	default:
		return "Low-Moderate"
	}
}

// ReportFilename is the deterministic artifact name external consumers rely
// on for out-of-band retrieval.
func ReportFilename(scanID, patientID uint) string {
	return fmt.Sprintf("Report_Scan_%d_P%06d.pdf", scanID, patientID)
}

// BuildReportData maps a scan and its owning patient into the document model,
// applying defaults for every missing optional field.
func BuildReportData(scan *entity.Scan, patient *entity.User, imageBase64 string, now time.Time) ReportData {
	scanAt := scan.CreatedAt
	if scanAt.IsZero() {
		scanAt = now
	}

	confidence := fieldDefault
	if scan.Confidence != nil {
		confidence = fmt.Sprintf("%.2f", *scan.Confidence*100)
	}

	name := patient.Name
	if name == "" {
		name = fieldDefault
	}

	recommendations := []string{
		"Routine follow-up if symptoms persist.",
		"Consult physician if discomfort continues.",
	}
	if scan.Prediction != nil && *scan.Prediction == "Normal" {
		recommendations = append(recommendations, "No immediate treatment required.")
	} else {
		recommendations = append(recommendations, "Please follow the prescribed treatment plan.")
	}

	return ReportData{
		ReportID:   fmt.Sprintf("2026-%05d", scan.ID),
		ReportDate: now.Format("02-01-2006"),
		ReportTime: now.Format("03:04 PM"),
		ScanID:     scan.ID,

		PatientName:      name,
		PatientID:        fmt.Sprintf("%06d", patient.ID),
		Age:              intOrDefault(patient.Age),
		Gender:           stringOrDefault(patient.Gender),
		DateOfBirth:      dateOrDefault(patient.DateOfBirth),
		BloodGroup:       stringOrDefault(patient.BloodGroup),
		Phone:            stringOrDefault(patient.Phone),
		Email:            valueOrDefault(patient.Email),
		Address:          stringOrDefault(patient.Address),
		EmergencyContact: stringOrDefault(patient.EmergencyContact),

		Department: "Radiology",
		Hospital:   "AI Medical Center",
		Priority:   "Normal",

		ScanType: "CT Scan",
		BodyPart: "Chest",
		ScanDate: scanAt.Format("02-01-2006"),
		ScanTime: scanAt.Format("03:04 PM"),

		AIModel:    "MobileNetV2",
		AIVersion:  "v3.0",
		Prediction: stringOrDefault(scan.Prediction),
		Confidence: confidence,
		RiskLevel:  riskLevel(scan.Confidence, scan.Prediction),

		DoctorNotes:     stringOr(scan.DoctorNotes, "No findings recorded."),
		Impression:      "Based on AI analysis and clinical review.",
		Recommendations: recommendations,
		Prescription:    stringOr(scan.PharmacistNotes, ""),

		DoctorName:          "Attending Physician",
		DoctorQualification: "MD Radiology",
		PharmacistName:      "Pharmacist",

		ScanImageBase64: imageBase64,
	}
}

func stringOrDefault(v *string) string {
	return stringOr(v, fieldDefault)
}

func stringOr(v *string, fallback string) string {
	if v == nil || *v == "" {
		return fallback
	}
	return *v
}

func valueOrDefault(v string) string {
	if v == "" {
		return fieldDefault
	}
	return v
}

func intOrDefault(v *int) string {
	if v == nil {
		return fieldDefault
	}
	return strconv.Itoa(*v)
}

func dateOrDefault(v *time.Time) string {
	if v == nil {
		return fieldDefault
	}
	return v.Format("02-01-2006")
}

// ReportRenderer produces the final report artifact for an approved scan.
type ReportRenderer interface {
	Render(scan *entity.Scan, patient *entity.User) (pdf []byte, filename string, err error)
}

// ReportService builds and renders diagnostic reports. The scan image is
// embedded when its blob is still resolvable and silently omitted otherwise.
type ReportService struct {
	storage storage.ScanStorage
	log     *logrus.Logger
}

func NewReportService(scanStorage storage.ScanStorage, log *logrus.Logger) *ReportService {
	return &ReportService{storage: scanStorage, log: log}
}

func (s *ReportService) Render(scan *entity.Scan, patient *entity.User) ([]byte, string, error) {
	data := BuildReportData(scan, patient, s.encodeScanImage(scan.FilePath), time.Now())

	pdf, err := renderPDF(data)
	if err != nil {
		return nil, "", err
	}

	return pdf, ReportFilename(scan.ID, patient.ID), nil
}

func (s *ReportService) encodeScanImage(storedPath string) string {
	if storedPath == "" || !s.storage.Exists(storedPath) {
		return ""
	}
	raw, err := s.storage.Read(storedPath)
	if err != nil {
		s.log.Warnf("Failed to read scan image %s for report embed: %+v", storedPath, err)
		return ""
	}
	return base64.StdEncoding.EncodeToString(raw)
}

// renderPDF lays out the paginated document. Data-shape issues were already
// absorbed by defaulting, so the only failure mode left is the layout engine
// itself.
func renderPDF(data ReportData) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Diagnostic Report %s", data.ReportID), false)
	pdf.AddPage()

	// Core fonts are cp1252; the translator keeps the defaults readable.
	l := &reportLayout{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, l.tr(data.Hospital), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, l.tr(fmt.Sprintf("Department of %s - Diagnostic Report", data.Department)), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5,
		l.tr(fmt.Sprintf("Report ID: %s    Date: %s    Time: %s    Priority: %s",
			data.ReportID, data.ReportDate, data.ReportTime, data.Priority)),
		"", 1, "C", false, 0, "")
	pdf.Ln(4)

	l.section("Patient Information")
	l.kv("Name", data.PatientName)
	l.kv("Patient ID", data.PatientID)
	l.kv("Age", data.Age)
	l.kv("Gender", data.Gender)
	l.kv("Date of Birth", data.DateOfBirth)
	l.kv("Blood Group", data.BloodGroup)
	l.kv("Phone", data.Phone)
	l.kv("Email", data.Email)
	l.kv("Address", data.Address)
	l.kv("Emergency Contact", data.EmergencyContact)

	l.section("Scan Details")
	l.kv("Scan ID", strconv.FormatUint(uint64(data.ScanID), 10))
	l.kv("Scan Type", data.ScanType)
	l.kv("Body Part", data.BodyPart)
	l.kv("Scan Date", data.ScanDate)
	l.kv("Scan Time", data.ScanTime)

	l.section("AI Analysis")
	l.kv("Model", fmt.Sprintf("%s %s", data.AIModel, data.AIVersion))
	l.kv("Prediction", data.Prediction)
	l.kv("Confidence (%)", data.Confidence)
	l.kv("Risk Level", data.RiskLevel)

	l.section("Clinical Review")
	l.paragraph(data.DoctorNotes)
	l.kv("Impression", data.Impression)

	if data.Prescription != "" {
		l.section("Prescription")
		l.paragraph(data.Prescription)
	}

	l.section("Recommendations")
	for _, rec := range data.Recommendations {
		l.paragraph("- " + rec)
	}

	if data.ScanImageBase64 != "" {
		l.embedScanImage(data.ScanImageBase64)
	}

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, l.tr(fmt.Sprintf("%s, %s", data.DoctorName, data.DoctorQualification)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, l.tr(data.PharmacistName), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, apperr.TemplateError("PDF generation failed", err)
	}
	return buf.Bytes(), nil
}

type reportLayout struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (l *reportLayout) section(title string) {
	l.pdf.Ln(3)
	l.pdf.SetFont("Helvetica", "B", 12)
	l.pdf.CellFormat(0, 7, title, "B", 1, "L", false, 0, "")
	l.pdf.SetFont("Helvetica", "", 10)
}

func (l *reportLayout) kv(label, value string) {
	l.pdf.SetFont("Helvetica", "B", 10)
	l.pdf.CellFormat(50, 6, label, "", 0, "L", false, 0, "")
	l.pdf.SetFont("Helvetica", "", 10)
	l.pdf.MultiCell(0, 6, l.tr(value), "", "L", false)
}

func (l *reportLayout) paragraph(text string) {
	l.pdf.SetFont("Helvetica", "", 10)
	l.pdf.MultiCell(0, 5, l.tr(text), "", "L", false)
}

// embedScanImage decodes the inline image and places it on the page. An image
// the layout engine cannot handle is skipped, not a render failure.
func (l *reportLayout) embedScanImage(encoded string) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return
	}

	var imageType string
	switch http.DetectContentType(raw) {
	case "image/png":
		imageType = "PNG"
	case "image/jpeg":
		imageType = "JPG"
	default:
		return
	}

	l.section("Scan Image")
	opts := fpdf.ImageOptions{ImageType: imageType, ReadDpi: true}
	l.pdf.RegisterImageOptionsReader("scan-image", opts, bytes.NewReader(raw))
	l.pdf.ImageOptions("scan-image", 15, l.pdf.GetY()+2, 90, 0, true, opts, 0, "")
}
