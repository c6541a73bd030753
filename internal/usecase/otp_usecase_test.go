package usecase

import (
	"context"
	"io"
	"testing"
	"time"

	"clinical-scan-support/config"
	"clinical-scan-support/internal/delivery/dto"
	"clinical-scan-support/internal/domain/entity"
	"clinical-scan-support/pkg/apperr"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOTPRepo struct {
	nextID  uint
	records []*entity.OTPRecord
}

func (r *fakeOTPRepo) Create(ctx context.Context, record *entity.OTPRecord) error {
	r.nextID++
	record.ID = r.nextID
	copied := *record
	r.records = append(r.records, &copied)
	return nil
}

func (r *fakeOTPRepo) InvalidateByEmail(ctx context.Context, email string) error {
	for _, rec := range r.records {
		if rec.Email == email {
			rec.Used = true
		}
	}
	return nil
}

func (r *fakeOTPRepo) FindActive(ctx context.Context, email, code string) (*entity.OTPRecord, error) {
	for i := len(r.records) - 1; i >= 0; i-- {
		rec := r.records[i]
		if rec.Email == email && rec.Code == code && !rec.Used {
			copied := *rec
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeOTPRepo) MarkUsed(ctx context.Context, id uint) error {
	for _, rec := range r.records {
		if rec.ID == id {
			rec.Used = true
		}
	}
	return nil
}

type fakeMailer struct {
	plain   []string
	bodies  []string
	sendErr error
}

func (m *fakeMailer) SendPlain(to, subject, body string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.plain = append(m.plain, to)
	m.bodies = append(m.bodies, body)
	return nil
}

func (m *fakeMailer) SendWithAttachment(to, subject, body, filename string, attachment []byte) error {
	return nil
}

type otpFixture struct {
	usecase  OTPUsecase
	otpRepo  *fakeOTPRepo
	userRepo *fakeUserRepo
	mailer   *fakeMailer
}

func newOTPFixture() *otpFixture {
	log := logrus.New()
	log.SetOutput(io.Discard)

	f := &otpFixture{
		otpRepo:  &fakeOTPRepo{},
		userRepo: &fakeUserRepo{users: map[uint]*entity.User{}},
		mailer:   &fakeMailer{},
	}
	f.userRepo.users[1] = &entity.User{ID: 1, Email: "admin@example.com", Role: entity.RoleAdmin, IsActive: true}
	f.usecase = NewOTPUsecase(log, f.otpRepo, f.userRepo, f.mailer, nil, nil, config.OTPConfig{Expiry: 10 * time.Minute})
	return f
}

func (f *otpFixture) send(t *testing.T) string {
	t.Helper()
	_, err := f.usecase.Send(context.Background(), sendReq("admin@example.com"))
	require.NoError(t, err)
	last := f.otpRepo.records[len(f.otpRepo.records)-1]
	return last.Code
}

func sendReq(email string) *dto.SendOTPRequest {
	return &dto.SendOTPRequest{Email: email}
}

func verifyReq(email, code string) *dto.VerifyOTPRequest {
	return &dto.VerifyOTPRequest{Email: email, Code: code}
}

func TestSendOTPRejectsNonAdmin(t *testing.T) {
	f := newOTPFixture()
	f.userRepo.users[2] = &entity.User{ID: 2, Email: "doc@example.com", Role: entity.RoleDoctor}

	_, err := f.usecase.Send(context.Background(), sendReq("doc@example.com"))

	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Empty(t, f.mailer.plain)
}

func TestSendOTPIssuesSixDigitCode(t *testing.T) {
	f := newOTPFixture()

	resp, err := f.usecase.Send(context.Background(), sendReq("admin@example.com"))

	require.NoError(t, err)
	assert.Equal(t, 10, resp.ExpiresInMinutes)

	require.Len(t, f.otpRepo.records, 1)
	code := f.otpRepo.records[0].Code
	assert.Len(t, code, 6)

	require.Len(t, f.mailer.plain, 1)
	assert.Equal(t, "admin@example.com", f.mailer.plain[0])
	assert.Contains(t, f.mailer.bodies[0], code)
}

func TestSendOTPSupersedesPreviousCodes(t *testing.T) {
	f := newOTPFixture()

	first := f.send(t)
	second := f.send(t)

	// Only the latest code remains active.
	rec, err := f.otpRepo.FindActive(context.Background(), "admin@example.com", second)
	require.NoError(t, err)
	require.NotNil(t, rec)

	if first != second {
		stale, err := f.otpRepo.FindActive(context.Background(), "admin@example.com", first)
		require.NoError(t, err)
		assert.Nil(t, stale)
	}
}

func TestSendOTPReportsMailFailure(t *testing.T) {
	f := newOTPFixture()
	f.mailer.sendErr = assert.AnError

	_, err := f.usecase.Send(context.Background(), sendReq("admin@example.com"))

	assert.Equal(t, apperr.KindDeliveryFailed, apperr.KindOf(err))
}

func TestVerifyOTPRejectsUnknownCode(t *testing.T) {
	f := newOTPFixture()
	f.send(t)

	_, err := f.usecase.Verify(context.Background(), verifyReq("admin@example.com", "000000"))

	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestVerifyOTPRejectsExpiredCode(t *testing.T) {
	f := newOTPFixture()
	code := f.send(t)
	f.otpRepo.records[0].ExpiresAt = time.Now().Add(-time.Minute)

	_, err := f.usecase.Verify(context.Background(), verifyReq("admin@example.com", code))

	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	// An expired code is retired, so retrying it stays invalid.
	_, err = f.usecase.Verify(context.Background(), verifyReq("admin@example.com", code))
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}
