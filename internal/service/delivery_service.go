package service

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// ReportDelivery is one unit of post-approval work: persist the rendered PDF,
// then email it to the patient.
type ReportDelivery struct {
	ScanID       uint
	PatientEmail string
	Filename     string
	PDF          []byte
}

// DeliveryQueue accepts rendered reports for out-of-band delivery.
type DeliveryQueue interface {
	Enqueue(job ReportDelivery)
}

// DeliveryService runs the two-phase delivery pipeline on a dedicated worker.
// The approving request only enqueues; everything after the status commit is
// best effort. Failures in either phase are logged with the scan id and
// swallowed, and never revert the committed transition.
type DeliveryService struct {
	reportsDir string
	mailer     Mailer
	log        *logrus.Logger

	queue chan ReportDelivery

	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

// NewDeliveryService creates the service and starts its worker goroutine.
// Call Stop() during graceful shutdown; pending jobs are drained first.
func NewDeliveryService(reportsDir string, mailer Mailer, log *logrus.Logger, queueSize int) (*DeliveryService, error) {
	if err := os.MkdirAll(reportsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create reports directory %s: %w", reportsDir, err)
	}

	svc := &DeliveryService{
		reportsDir: reportsDir,
		mailer:     mailer,
		log:        log,
		queue:      make(chan ReportDelivery, queueSize),
		stopChan:   make(chan struct{}),
	}

	svc.wg.Add(1)
	go svc.run()

	return svc, nil
}

// Enqueue hands a rendered report to the worker. A full queue drops the job
// with a log line rather than blocking the approving request; re-approval is
// not possible, so the report stays retrievable through the download endpoint.
func (s *DeliveryService) Enqueue(job ReportDelivery) {
	if s.stopped.Load() {
		s.log.Warnf("Delivery rejected for scan %d: service stopped", job.ScanID)
		return
	}

	select {
	case s.queue <- job:
	default:
		s.log.Errorf("Delivery queue full, dropping report for scan %d (%s)", job.ScanID, job.Filename)
	}
}

// Stop shuts the worker down after draining queued jobs.
// Safe to call multiple times.
func (s *DeliveryService) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		close(s.stopChan)
		s.wg.Wait()
		s.log.Info("DeliveryService stopped")
	}
}

func (s *DeliveryService) run() {
	defer s.wg.Done()

	for {
		select {
		case job := <-s.queue:
			s.deliver(job)
		case <-s.stopChan:
			for {
				select {
				case job := <-s.queue:
					s.deliver(job)
				default:
					return
				}
			}
		}
	}
}

// deliver runs both phases. Phase 1 persists the artifact under its
// deterministic name; a persist failure is logged but the email is still
// attempted since the bytes are already in hand.
func (s *DeliveryService) deliver(job ReportDelivery) {
	path := filepath.Join(s.reportsDir, job.Filename)
	if err := os.WriteFile(path, job.PDF, 0o644); err != nil {
		s.log.Errorf("Failed to persist report for scan %d at %s: %+v", job.ScanID, path, err)
	}

	body := "Dear Patient,\n\n" +
		"Your diagnostic report is now ready. " +
		"Please find it attached to this email.\n\n" +
		"If you have any questions, contact your doctor.\n\n" +
		"Regards,\nClinical Scan Support System\nAI Medical Center"

	subject := fmt.Sprintf("Your Diagnostic Report - Scan #%d", job.ScanID)
	if err := s.mailer.SendWithAttachment(job.PatientEmail, subject, body, job.Filename, job.PDF); err != nil {
		s.log.Errorf("Failed to email report for scan %d to %s: %+v", job.ScanID, job.PatientEmail, err)
		return
	}

	s.log.Infof("Report delivered: scan=%d, file=%s", job.ScanID, job.Filename)
}
