package repository

import (
	"context"
	"errors"

	"clinical-scan-support/internal/domain/entity"
	domainRepo "clinical-scan-support/internal/domain/repository"

	"gorm.io/gorm"
)

type scanRepository struct {
	db *gorm.DB
}

func NewScanRepository(db *gorm.DB) domainRepo.ScanRepository {
	return &scanRepository{db: db}
}

func (r *scanRepository) Create(ctx context.Context, scan *entity.Scan) error {
	return r.db.WithContext(ctx).Create(scan).Error
}

func (r *scanRepository) FindByID(ctx context.Context, id uint) (*entity.Scan, error) {
	var scan entity.Scan
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&scan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &scan, nil
}

func (r *scanRepository) FindByPatientID(ctx context.Context, patientID uint) ([]entity.Scan, error) {
	var scans []entity.Scan
	err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("created_at DESC").
		Find(&scans).Error
	if err != nil {
		return nil, err
	}
	return scans, nil
}

func (r *scanRepository) FindByStatus(ctx context.Context, status entity.ScanStatus) ([]entity.Scan, error) {
	var scans []entity.Scan
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("id DESC").
		Find(&scans).Error
	if err != nil {
		return nil, err
	}
	return scans, nil
}

func (r *scanRepository) FindAll(ctx context.Context) ([]entity.Scan, error) {
	var scans []entity.Scan
	err := r.db.WithContext(ctx).Order("id DESC").Find(&scans).Error
	if err != nil {
		return nil, err
	}
	return scans, nil
}

// SetAnalysis atomically records the classifier result ONLY while the scan is
// still PENDING_AI or AI_ANALYZED. Affected rows: 1 = success, 0 = the scan
// moved on (prevents a late analysis from regressing a verified scan).
func (r *scanRepository) SetAnalysis(ctx context.Context, id uint, prediction string, confidence float64) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entity.Scan{}).
		Where("id = ? AND status IN ?", id, []entity.ScanStatus{entity.StatusPendingAI, entity.StatusAIAnalyzed}).
		Updates(map[string]interface{}{
			"prediction": prediction,
			"confidence": confidence,
			"status":     entity.StatusAIAnalyzed,
		})
	return result.RowsAffected, result.Error
}

// SetDoctorNotes atomically records verification notes. Re-verification is
// allowed and overwrites the previous notes; any other source state yields 0
// affected rows.
func (r *scanRepository) SetDoctorNotes(ctx context.Context, id uint, notes string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entity.Scan{}).
		Where("id = ? AND status IN ?", id, []entity.ScanStatus{entity.StatusAIAnalyzed, entity.StatusDoctorVerified}).
		Updates(map[string]interface{}{
			"doctor_notes": notes,
			"status":       entity.StatusDoctorVerified,
		})
	return result.RowsAffected, result.Error
}

func (r *scanRepository) SetPharmacistNotes(ctx context.Context, id uint, notes string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entity.Scan{}).
		Where("id = ? AND status = ?", id, entity.StatusDoctorVerified).
		Updates(map[string]interface{}{
			"pharmacist_notes": notes,
			"status":           entity.StatusPharmacistCompleted,
		})
	return result.RowsAffected, result.Error
}

// MarkReportReady commits the terminal approval. Affected rows: 0 means the
// scan was not PHARMACIST_COMPLETED, which includes the already-approved case
// (double approval is rejected, not repeated).
func (r *scanRepository) MarkReportReady(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entity.Scan{}).
		Where("id = ? AND status = ?", id, entity.StatusPharmacistCompleted).
		Update("status", entity.StatusReportReady)
	return result.RowsAffected, result.Error
}
