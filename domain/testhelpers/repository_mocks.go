package testhelpers

import (
	"context"

	"lottogen/domain/entities"
	"lottogen/domain/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockDrawRepository is a mock implementation of DrawRepository
type MockDrawRepository struct {
	mock.Mock
}

func (m *MockDrawRepository) UpsertBatch(ctx context.Context, draws []*entities.Draw) (int, error) {
	args := m.Called(ctx, draws)
	return args.Int(0), args.Error(1)
}

func (m *MockDrawRepository) GetAll(ctx context.Context) ([]*entities.Draw, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Draw), args.Error(1)
}

func (m *MockDrawRepository) GetByYearRange(ctx context.Context, fromYear, toYear int) ([]*entities.Draw, error) {
	args := m.Called(ctx, fromYear, toYear)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Draw), args.Error(1)
}

func (m *MockDrawRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockGenerationRunRepository is a mock implementation of GenerationRunRepository
type MockGenerationRunRepository struct {
	mock.Mock
}

func (m *MockGenerationRunRepository) Create(ctx context.Context, run *entities.GenerationRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockGenerationRunRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.GenerationRun, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.GenerationRun), args.Error(1)
}

func (m *MockGenerationRunRepository) GetRecent(ctx context.Context, limit int) ([]*entities.GenerationRun, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.GenerationRun), args.Error(1)
}

// MockDrawSource is a mock implementation of DrawSource
type MockDrawSource struct {
	mock.Mock
}

func (m *MockDrawSource) LoadDraws(ctx context.Context, fromYear, toYear int) ([]*entities.Draw, error) {
	args := m.Called(ctx, fromYear, toYear)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Draw), args.Error(1)
}

// MockResultSink is a mock implementation of ResultSink
type MockResultSink struct {
	mock.Mock
	SinkName string
}

func (m *MockResultSink) Name() string {
	if m.SinkName == "" {
		return "mock"
	}
	return m.SinkName
}

func (m *MockResultSink) Deliver(ctx context.Context, run *entities.GenerationRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}
