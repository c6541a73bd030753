package dto

import (
	"time"
)

// Response DTOs. Scan mutations arrive as multipart/form fields rather than
// JSON bodies, so there are no request structs here.

type ScanResponse struct {
	ID              uint      `json:"id"`
	PatientID       uint      `json:"patient_id"`
	FilePath        string    `json:"file_path"`
	Prediction      *string   `json:"prediction,omitempty"`
	Confidence      *float64  `json:"confidence,omitempty"`
	DoctorNotes     *string   `json:"doctor_notes,omitempty"`
	PharmacistNotes *string   `json:"pharmacist_notes,omitempty"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

type ScanListResponse struct {
	Scans []ScanResponse `json:"scans"`
	Total int            `json:"total"`
}

type UploadScanResponse struct {
	Message  string `json:"message"`
	ScanID   uint   `json:"scan_id"`
	Status   string `json:"status"`
	FilePath string `json:"file_path"`
}

type AnalyzeScanResponse struct {
	Message    string  `json:"message"`
	Status     string  `json:"status"`
	Prediction string  `json:"prediction"`
	Confidence float64 `json:"confidence"`
}

type VerifyScanResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
	Notes   string `json:"notes"`
}

type CompleteScanResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

type ApproveScanResponse struct {
	Message  string `json:"message"`
	ScanID   uint   `json:"scan_id"`
	Status   string `json:"status"`
	Filename string `json:"filename"`
}
