package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLifecyclePredicates(t *testing.T) {
	tests := []struct {
		status      ScanStatus
		canAnalyze  bool
		canVerify   bool
		canComplete bool
		canApprove  bool
		terminal    bool
	}{
		{StatusPendingAI, true, false, false, false, false},
		{StatusAIAnalyzed, true, true, false, false, false},
		{StatusDoctorVerified, false, true, true, false, false},
		{StatusPharmacistCompleted, false, false, false, true, false},
		{StatusReportReady, false, false, false, false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			scan := &Scan{Status: tt.status}
			assert.Equal(t, tt.canAnalyze, scan.CanAnalyze())
			assert.Equal(t, tt.canVerify, scan.CanVerify())
			assert.Equal(t, tt.canComplete, scan.CanComplete())
			assert.Equal(t, tt.canApprove, scan.CanApprove())
			assert.Equal(t, tt.terminal, scan.IsTerminal())
		})
	}
}

func TestAllScanStatusesCoversEveryState(t *testing.T) {
	assert.Len(t, AllScanStatuses, 5)
	assert.Equal(t, StatusPendingAI, AllScanStatuses[0])
	assert.Equal(t, StatusReportReady, AllScanStatuses[len(AllScanStatuses)-1])
}
