package converter

import (
	"clinical-scan-support/internal/delivery/dto"
	"clinical-scan-support/internal/domain/entity"
)

// ScanToResponse converts a Scan entity to its response DTO.
func ScanToResponse(scan *entity.Scan) *dto.ScanResponse {
	if scan == nil {
		return nil
	}

	return &dto.ScanResponse{
		ID:              scan.ID,
		PatientID:       scan.PatientID,
		FilePath:        scan.FilePath,
		Prediction:      scan.Prediction,
		Confidence:      scan.Confidence,
		DoctorNotes:     scan.DoctorNotes,
		PharmacistNotes: scan.PharmacistNotes,
		Status:          string(scan.Status),
		CreatedAt:       scan.CreatedAt,
	}
}

// ScansToResponses converts a slice of Scan entities to response DTOs.
func ScansToResponses(scans []entity.Scan) []dto.ScanResponse {
	responses := make([]dto.ScanResponse, len(scans))
	for i := range scans {
		responses[i] = *ScanToResponse(&scans[i])
	}
	return responses
}
