package repository

import (
	"context"

	"clinical-scan-support/internal/domain/entity"
)

// ScanRepository persists scan records. The Set*/Mark* methods apply a status
// transition as a single conditional update: the write succeeds only when the
// scan is still in one of the expected source states, and the returned count
// is 0 when it was not. Concurrent transitions on the same scan therefore
// serialize on the row and a stale writer is rejected instead of interleaved.
type ScanRepository interface {
	Create(ctx context.Context, scan *entity.Scan) error
	FindByID(ctx context.Context, id uint) (*entity.Scan, error)
	FindByPatientID(ctx context.Context, patientID uint) ([]entity.Scan, error)
	FindByStatus(ctx context.Context, status entity.ScanStatus) ([]entity.Scan, error)
	FindAll(ctx context.Context) ([]entity.Scan, error)

	// SetAnalysis records the classifier result and moves the scan to
	// AI_ANALYZED, from PENDING_AI or AI_ANALYZED.
	SetAnalysis(ctx context.Context, id uint, prediction string, confidence float64) (int64, error)

	// SetDoctorNotes records verification notes and moves the scan to
	// DOCTOR_VERIFIED, from AI_ANALYZED or DOCTOR_VERIFIED.
	SetDoctorNotes(ctx context.Context, id uint, notes string) (int64, error)

	// SetPharmacistNotes records the prescription and moves the scan to
	// PHARMACIST_COMPLETED, from DOCTOR_VERIFIED.
	SetPharmacistNotes(ctx context.Context, id uint, notes string) (int64, error)

	// MarkReportReady commits the terminal approval, from PHARMACIST_COMPLETED.
	MarkReportReady(ctx context.Context, id uint) (int64, error)
}
