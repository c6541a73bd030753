package usecase

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"clinical-scan-support/internal/converter"
	"clinical-scan-support/internal/delivery/dto"
	"clinical-scan-support/internal/delivery/http/middleware"
	"clinical-scan-support/internal/domain/entity"
	"clinical-scan-support/internal/domain/repository"
	"clinical-scan-support/internal/infrastructure/storage"
	"clinical-scan-support/internal/service"
	"clinical-scan-support/pkg/apperr"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// allowedScanExtensions is the upload allow-list. Validation stops at the
// extension; content inspection is out of scope.
var allowedScanExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// ScanLifecycleUsecase enforces the scan state machine. Every mutating
// operation validates its preconditions, applies the transition atomically
// through the repository, and reports rejections as tagged errors.
type ScanLifecycleUsecase interface {
	Upload(ctx context.Context, patientID uint, filename string, file io.Reader) (*dto.UploadScanResponse, error)
	PatientScans(ctx context.Context, patientID uint) (*dto.ScanListResponse, error)
	Workqueue(ctx context.Context) (*dto.ScanListResponse, error)
	Analyze(ctx context.Context, scanID uint) (*dto.AnalyzeScanResponse, error)
	Verify(ctx context.Context, scanID uint, notes string) (*dto.VerifyScanResponse, error)
	Complete(ctx context.Context, scanID uint, notes string) (*dto.CompleteScanResponse, error)
	PharmacistQueue(ctx context.Context) (*dto.ScanListResponse, error)
	AdminPending(ctx context.Context) (*dto.ScanListResponse, error)
	Approve(ctx context.Context, scanID uint) (*dto.ApproveScanResponse, error)
	ReportPDF(ctx context.Context, scanID uint) ([]byte, string, error)
}

type scanLifecycleUsecase struct {
	log           *logrus.Logger
	scanRepo      repository.ScanRepository
	userRepo      repository.UserRepository
	storage       storage.ScanStorage
	classifier    service.Classifier
	renderer      service.ReportRenderer
	deliveryQueue service.DeliveryQueue
}

func NewScanLifecycleUsecase(
	log *logrus.Logger,
	scanRepo repository.ScanRepository,
	userRepo repository.UserRepository,
	scanStorage storage.ScanStorage,
	classifier service.Classifier,
	renderer service.ReportRenderer,
	deliveryQueue service.DeliveryQueue,
) ScanLifecycleUsecase {
	return &scanLifecycleUsecase{
		log:           log,
		scanRepo:      scanRepo,
		userRepo:      userRepo,
		storage:       scanStorage,
		classifier:    classifier,
		renderer:      renderer,
		deliveryQueue: deliveryQueue,
	}
}

// Upload stores the image blob and creates the scan at PENDING_AI.
func (u *scanLifecycleUsecase) Upload(ctx context.Context, patientID uint, filename string, file io.Reader) (*dto.UploadScanResponse, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedScanExtensions[ext] {
		return nil, apperr.Validation(fmt.Sprintf("Unsupported file type '%s'. Allowed: jpg, jpeg, png", ext))
	}

	storedPath, err := u.storage.Save(uuid.New().String()+ext, file)
	if err != nil {
		u.log.Errorf("Failed to store uploaded scan for patient %d: %+v", patientID, err)
		return nil, err
	}

	scan := &entity.Scan{
		PatientID: patientID,
		FilePath:  storedPath,
		Status:    entity.StatusPendingAI,
	}

	if err := u.scanRepo.Create(ctx, scan); err != nil {
		u.log.Warnf("Failed to create scan record for patient %d: %+v", patientID, err)
		return nil, err
	}

	u.log.Infof("Scan uploaded: id=%d, patient=%d, path=%s", scan.ID, patientID, storedPath)
	return &dto.UploadScanResponse{
		Message:  "Scan uploaded successfully",
		ScanID:   scan.ID,
		Status:   string(scan.Status),
		FilePath: storedPath,
	}, nil
}

func (u *scanLifecycleUsecase) PatientScans(ctx context.Context, patientID uint) (*dto.ScanListResponse, error) {
	scans, err := u.scanRepo.FindByPatientID(ctx, patientID)
	if err != nil {
		u.log.Warnf("Failed to list scans for patient %d: %+v", patientID, err)
		return nil, err
	}
	return &dto.ScanListResponse{Scans: converter.ScansToResponses(scans), Total: len(scans)}, nil
}

// Workqueue returns every scan regardless of state, for the doctor dashboard.
func (u *scanLifecycleUsecase) Workqueue(ctx context.Context) (*dto.ScanListResponse, error) {
	scans, err := u.scanRepo.FindAll(ctx)
	if err != nil {
		u.log.Warnf("Failed to list scans: %+v", err)
		return nil, err
	}
	return &dto.ScanListResponse{Scans: converter.ScansToResponses(scans), Total: len(scans)}, nil
}

// Analyze runs the external classifier over the stored blob and commits the
// result. The scan must still be awaiting or repeating analysis; analysing a
// clinically reviewed scan would regress the workflow and is rejected.
func (u *scanLifecycleUsecase) Analyze(ctx context.Context, scanID uint) (*dto.AnalyzeScanResponse, error) {
	scan, err := u.scanRepo.FindByID(ctx, scanID)
	if err != nil {
		u.log.Warnf("Failed to find scan %d: %+v", scanID, err)
		return nil, err
	}
	if scan == nil {
		return nil, apperr.NotFound("Scan not found")
	}

	if !scan.CanAnalyze() {
		return nil, apperr.InvalidTransition("Scan has already been clinically reviewed")
	}

	if !u.storage.Exists(scan.FilePath) {
		u.log.Warnf("Scan %d blob missing: stored=%s", scanID, scan.FilePath)
		return nil, apperr.FileMissing(fmt.Sprintf("Scan file not found on disk. Stored path: %s", scan.FilePath))
	}

	image, err := u.storage.Read(scan.FilePath)
	if err != nil {
		u.log.Warnf("Failed to read scan %d blob: %+v", scanID, err)
		return nil, apperr.FileMissing(fmt.Sprintf("Scan file not found on disk. Stored path: %s", scan.FilePath))
	}

	prediction, err := u.classifier.Predict(ctx, image, filepath.Base(scan.FilePath))
	if err != nil {
		u.log.Warnf("AI prediction failed for scan %d: %+v", scanID, err)
		return nil, err
	}

	rows, err := u.scanRepo.SetAnalysis(ctx, scanID, prediction.Label, prediction.Confidence)
	if err != nil {
		u.log.Warnf("Failed to record analysis for scan %d: %+v", scanID, err)
		return nil, err
	}
	if rows == 0 {
		return nil, apperr.InvalidTransition("Scan is no longer awaiting analysis")
	}

	u.log.Infof("Scan analysed: id=%d, prediction=%s, confidence=%.4f", scanID, prediction.Label, prediction.Confidence)
	return &dto.AnalyzeScanResponse{
		Message:    "AI analysis complete",
		Status:     string(entity.StatusAIAnalyzed),
		Prediction: prediction.Label,
		Confidence: prediction.Confidence,
	}, nil
}

// Verify records the doctor's clinical notes. Re-verification is permitted
// and overwrites the previous notes.
func (u *scanLifecycleUsecase) Verify(ctx context.Context, scanID uint, notes string) (*dto.VerifyScanResponse, error) {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return nil, apperr.Validation("Clinical notes are required")
	}

	scan, err := u.scanRepo.FindByID(ctx, scanID)
	if err != nil {
		u.log.Warnf("Failed to find scan %d: %+v", scanID, err)
		return nil, err
	}
	if scan == nil {
		return nil, apperr.NotFound("Scan not found")
	}

	rows, err := u.scanRepo.SetDoctorNotes(ctx, scanID, notes)
	if err != nil {
		u.log.Warnf("Failed to record verification for scan %d: %+v", scanID, err)
		return nil, err
	}
	if rows == 0 {
		return nil, apperr.InvalidTransition("Scan must be AI-analysed before verification")
	}

	u.log.Infof("Scan verified: id=%d", scanID)
	return &dto.VerifyScanResponse{
		Message: "Doctor verification complete",
		Status:  string(entity.StatusDoctorVerified),
		Notes:   notes,
	}, nil
}

// Complete records the pharmacist's prescription from DOCTOR_VERIFIED.
func (u *scanLifecycleUsecase) Complete(ctx context.Context, scanID uint, notes string) (*dto.CompleteScanResponse, error) {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return nil, apperr.Validation("Prescription notes are required")
	}

	scan, err := u.scanRepo.FindByID(ctx, scanID)
	if err != nil {
		u.log.Warnf("Failed to find scan %d: %+v", scanID, err)
		return nil, err
	}
	if scan == nil {
		return nil, apperr.NotFound("Scan not found")
	}

	rows, err := u.scanRepo.SetPharmacistNotes(ctx, scanID, notes)
	if err != nil {
		u.log.Warnf("Failed to record prescription for scan %d: %+v", scanID, err)
		return nil, err
	}
	if rows == 0 {
		return nil, apperr.InvalidTransition("Scan must be doctor-verified before completion")
	}

	u.log.Infof("Prescription completed: scan=%d", scanID)
	return &dto.CompleteScanResponse{
		Message: "Prescription completed",
		Status:  string(entity.StatusPharmacistCompleted),
	}, nil
}

func (u *scanLifecycleUsecase) PharmacistQueue(ctx context.Context) (*dto.ScanListResponse, error) {
	scans, err := u.scanRepo.FindByStatus(ctx, entity.StatusDoctorVerified)
	if err != nil {
		u.log.Warnf("Failed to list pharmacist queue: %+v", err)
		return nil, err
	}
	return &dto.ScanListResponse{Scans: converter.ScansToResponses(scans), Total: len(scans)}, nil
}

func (u *scanLifecycleUsecase) AdminPending(ctx context.Context) (*dto.ScanListResponse, error) {
	scans, err := u.scanRepo.FindByStatus(ctx, entity.StatusPharmacistCompleted)
	if err != nil {
		u.log.Warnf("Failed to list pending approvals: %+v", err)
		return nil, err
	}
	return &dto.ScanListResponse{Scans: converter.ScansToResponses(scans), Total: len(scans)}, nil
}

// Approve commits the terminal transition and schedules delivery.
//
// Ordering matters:
//  1. Render the report BEFORE committing — a render failure aborts the
//     approval with the scan unchanged.
//  2. Commit REPORT_READY via the conditional update; 0 rows means a
//     concurrent approval won, which is rejected like a repeat approval.
//  3. Only after the commit, enqueue delivery exactly once. Whatever happens
//     to the email never affects the committed transition.
func (u *scanLifecycleUsecase) Approve(ctx context.Context, scanID uint) (*dto.ApproveScanResponse, error) {
	scan, err := u.scanRepo.FindByID(ctx, scanID)
	if err != nil {
		u.log.Warnf("Failed to find scan %d: %+v", scanID, err)
		return nil, err
	}
	if scan == nil {
		return nil, apperr.NotFound("Scan not found.")
	}

	if scan.IsTerminal() {
		return nil, apperr.InvalidTransition("Report already approved.")
	}
	if !scan.CanApprove() {
		return nil, apperr.InvalidTransition("Scan has not completed the pharmacist stage")
	}

	patient, err := u.userRepo.FindByID(ctx, scan.PatientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %d for scan %d: %+v", scan.PatientID, scanID, err)
		return nil, err
	}
	if patient == nil {
		return nil, apperr.NotFound("Patient record not found.")
	}
	if patient.Email == "" {
		return nil, apperr.Validation("Patient has no email address on file.")
	}

	pdf, filename, err := u.renderer.Render(scan, patient)
	if err != nil {
		u.log.Errorf("Report rendering failed for scan %d: %+v", scanID, err)
		return nil, err
	}

	rows, err := u.scanRepo.MarkReportReady(ctx, scanID)
	if err != nil {
		u.log.Warnf("Failed to commit approval for scan %d: %+v", scanID, err)
		return nil, err
	}
	if rows == 0 {
		return nil, apperr.InvalidTransition("Report already approved.")
	}

	u.deliveryQueue.Enqueue(service.ReportDelivery{
		ScanID:       scanID,
		PatientEmail: patient.Email,
		Filename:     filename,
		PDF:          pdf,
	})

	u.log.Infof("Report approved: scan=%d, file=%s", scanID, filename)
	return &dto.ApproveScanResponse{
		Message:  fmt.Sprintf("Report approved. PDF is being emailed to %s.", patient.Email),
		ScanID:   scanID,
		Status:   string(entity.StatusReportReady),
		Filename: filename,
	}, nil
}

// ReportPDF renders the approved report for download. Patients may only fetch
// their own scans; clinical roles may fetch any approved scan.
func (u *scanLifecycleUsecase) ReportPDF(ctx context.Context, scanID uint) ([]byte, string, error) {
	scan, err := u.scanRepo.FindByID(ctx, scanID)
	if err != nil {
		u.log.Warnf("Failed to find scan %d: %+v", scanID, err)
		return nil, "", err
	}
	if scan == nil {
		return nil, "", apperr.NotFound("Scan not found.")
	}

	if !scan.IsTerminal() {
		return nil, "", apperr.Forbidden("Report not yet approved. PDF is only available for REPORT_READY scans.")
	}

	role, _ := middleware.GetUserRoleFromContext(ctx)
	callerID, _ := middleware.GetUserIDFromContext(ctx)
	if role == entity.RolePatient && scan.PatientID != callerID {
		return nil, "", apperr.Forbidden("Access denied.")
	}

	patient, err := u.userRepo.FindByID(ctx, scan.PatientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %d for scan %d: %+v", scan.PatientID, scanID, err)
		return nil, "", err
	}
	if patient == nil {
		return nil, "", apperr.NotFound("Patient record not found.")
	}

	return u.renderer.Render(scan, patient)
}
