package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"qbank/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockInterestService struct {
	mock.Mock
}

func (m *mockInterestService) AccrueInterest(ctx context.Context, date time.Time) (*models.InterestRun, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InterestRun), args.Error(1)
}

func (m *mockInterestService) RefreshPlayerNames(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func TestNewScheduler_RegistersJobs(t *testing.T) {
	ctx := context.Background()
	cfg := Config{
		InterestEnabled:     true,
		InterestSchedule:    "0 0 * * *",
		NameRefreshSchedule: "0 4 * * *",
		Timezone:            "UTC",
	}

	s, err := NewScheduler(ctx, &mockInterestService{}, cfg)
	require.NoError(t, err)
	assert.Len(t, s.cron.Entries(), 2)

	cfg.InterestEnabled = false
	s, err = NewScheduler(ctx, &mockInterestService{}, cfg)
	require.NoError(t, err)
	assert.Len(t, s.cron.Entries(), 1)
}

func TestNewScheduler_InvalidConfig(t *testing.T) {
	ctx := context.Background()

	_, err := NewScheduler(ctx, &mockInterestService{}, Config{Timezone: "Mars/Olympus"})
	require.Error(t, err)

	_, err = NewScheduler(ctx, &mockInterestService{}, Config{
		InterestEnabled:  true,
		InterestSchedule: "every tuesday",
		Timezone:         "UTC",
	})
	require.Error(t, err)
}

func TestScheduler_AccrueInterestUsesLocalDay(t *testing.T) {
	ctx := context.Background()
	interest := &mockInterestService{}

	s, err := NewScheduler(ctx, interest, Config{Timezone: "America/New_York"})
	require.NoError(t, err)
	// 02:00 UTC on the 2nd is still the 1st in New York
	s.now = func() time.Time { return time.Date(2024, 7, 2, 2, 0, 0, 0, time.UTC) }

	day := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	interest.On("AccrueInterest", ctx, day).Return(&models.InterestRun{ID: 1, RunDate: day}, nil).Once()

	s.AccrueInterest(ctx)
	interest.AssertExpectations(t)
}

func TestScheduler_JobErrorsAreLogged(t *testing.T) {
	ctx := context.Background()
	interest := &mockInterestService{}

	s, err := NewScheduler(ctx, interest, Config{Timezone: "UTC"})
	require.NoError(t, err)

	interest.On("AccrueInterest", ctx, mock.AnythingOfType("time.Time")).Return(nil, errors.New("db down")).Once()
	interest.On("RefreshPlayerNames", ctx).Return(0, errors.New("mojang down")).Once()

	assert.NotPanics(t, func() {
		s.AccrueInterest(ctx)
		s.RefreshPlayerNames(ctx)
	})
	interest.AssertExpectations(t)
}
