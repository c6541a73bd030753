package entity

import (
	"time"
)

// ScanStatus is the lifecycle state of a scan. States only move forward:
// PENDING_AI -> AI_ANALYZED -> DOCTOR_VERIFIED -> PHARMACIST_COMPLETED -> REPORT_READY.
// The one sanctioned repeat is doctor re-verification.
type ScanStatus string

const (
	StatusPendingAI           ScanStatus = "PENDING_AI"
	StatusAIAnalyzed          ScanStatus = "AI_ANALYZED"
	StatusDoctorVerified      ScanStatus = "DOCTOR_VERIFIED"
	StatusPharmacistCompleted ScanStatus = "PHARMACIST_COMPLETED"
	StatusReportReady         ScanStatus = "REPORT_READY"
)

// AllScanStatuses lists every reachable lifecycle state.
var AllScanStatuses = []ScanStatus{
	StatusPendingAI,
	StatusAIAnalyzed,
	StatusDoctorVerified,
	StatusPharmacistCompleted,
	StatusReportReady,
}

// Scan is a patient-submitted image and its workflow state. Prediction and
// Confidence are set together by AI analysis or not at all.
type Scan struct {
	ID              uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	PatientID       uint       `gorm:"not null;index" json:"patient_id"`
	FilePath        string     `gorm:"type:varchar(512);not null" json:"file_path"`
	Prediction      *string    `gorm:"type:varchar(100)" json:"prediction,omitempty"`
	Confidence      *float64   `json:"confidence,omitempty"`
	DoctorNotes     *string    `gorm:"type:text" json:"doctor_notes,omitempty"`
	PharmacistNotes *string    `gorm:"type:text" json:"pharmacist_notes,omitempty"`
	Status          ScanStatus `gorm:"type:varchar(32);not null;default:'PENDING_AI';index" json:"status"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (Scan) TableName() string {
	return "scans"
}

// CanAnalyze reports whether AI analysis may run. Re-analysis of an already
// analysed scan is allowed; analysing after clinical sign-off would regress
// the workflow and is not.
func (s *Scan) CanAnalyze() bool {
	return s.Status == StatusPendingAI || s.Status == StatusAIAnalyzed
}

// CanVerify reports whether a doctor may verify. Re-verification overwrites
// the previous notes.
func (s *Scan) CanVerify() bool {
	return s.Status == StatusAIAnalyzed || s.Status == StatusDoctorVerified
}

// CanComplete reports whether a pharmacist may record the prescription.
func (s *Scan) CanComplete() bool {
	return s.Status == StatusDoctorVerified
}

// CanApprove reports whether an admin may issue the final report.
func (s *Scan) CanApprove() bool {
	return s.Status == StatusPharmacistCompleted
}

// IsTerminal reports whether the scan has completed the workflow.
func (s *Scan) IsTerminal() bool {
	return s.Status == StatusReportReady
}
