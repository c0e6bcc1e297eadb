// internal/workers/credit/assess-credit-risk/handler_test.go
package assesscreditrisk

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"regexp"
	"testing"
	"time"

	"credit-risk-workers/internal/common/database"
	"credit-risk-workers/internal/common/errors"
	"credit-risk-workers/internal/common/logger"
	"credit-risk-workers/internal/models"
	"credit-risk-workers/internal/scoring"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		Timeout:  10 * time.Second,
		CacheTTL: time.Minute,
	}
}

func createTestPipeline(t *testing.T, opts ...scoring.Option) *scoring.Pipeline {
	t.Helper()
	features := scoring.ComputedFeatures()
	weights := make([]float64, len(features))
	for i, name := range features {
		switch name {
		case scoring.FeatureAge:
			weights[i] = -0.05
		case scoring.FeatureLoanToIncome:
			weights[i] = 1.4
		case scoring.FeatureDelinquentRatio:
			weights[i] = 0.06
		case scoring.FeatureLoanUnsecured:
			weights[i] = 0.4
		}
	}
	p, err := scoring.NewPipeline(&scoring.ModelParameters{
		Version:  "test-1",
		Features: features,
		Weights:  weights,
		Bias:     -2,
	}, opts...)
	require.NoError(t, err)
	return p
}

func createTestHandler(t *testing.T, db *sql.DB, redisClient *redis.Client, config *Config) *Handler {
	if config == nil {
		config = createTestConfig()
	}
	return NewHandler(config, createTestPipeline(t), db, redisClient, logger.NewTestLogger(t))
}

func createInput() *Input {
	return &Input{
		ApplicationID: "app-42",
		Application: models.CreditApplication{
			Age:                    30,
			Income:                 1_200_000,
			LoanAmount:             2_560_000,
			LoanTenureMonths:       36,
			AvgDPDPerDelinquency:   20,
			DelinquencyRatio:       30,
			CreditUtilizationRatio: 30,
			OpenLoanAccounts:       2,
			ResidenceType:          models.ResidenceOwned,
			LoanPurpose:            models.PurposeEducation,
			LoanType:               models.LoanUnsecured,
		},
	}
}

func expectInsert(mock sqlmock.Sqlmock) *sqlmock.ExpectedExec {
	return mock.ExpectExec(regexp.QuoteMeta("INSERT INTO credit_assessments")).
		WithArgs(sqlmock.AnyArg(), "app-42", "test-1", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg())
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_ScoresWithoutStorage(t *testing.T) {
	handler := createTestHandler(t, nil, nil, nil)
	input := createInput()

	output, err := handler.Execute(context.Background(), input)
	require.NoError(t, err)

	want, err := createTestPipeline(t).Assess(input.Application)
	require.NoError(t, err)

	assert.Equal(t, "app-42", output.ApplicationID)
	assert.Equal(t, want.DefaultProbability, output.DefaultProbability)
	assert.Equal(t, want.CreditScore, output.CreditScore)
	assert.Equal(t, want.Rating, output.Rating)
	assert.Equal(t, "test-1", output.ModelVersion)
	assert.Equal(t, scoring.Recommend(want.DefaultProbability), output.Recommendation)
	assert.Equal(t, scoring.RiskLevelFor(want.DefaultProbability), output.RiskLevel)
	assert.Empty(t, output.AssessmentID)
	assert.False(t, output.Cached)
}

func TestHandler_Execute_PersistsAndCaches(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer redisClient.Close()

	expectInsert(mock).WillReturnResult(sqlmock.NewResult(0, 1))
	expectInsert(mock).WillReturnResult(sqlmock.NewResult(0, 1))

	handler := createTestHandler(t, db, redisClient, nil)
	ctx := context.Background()

	first, err := handler.Execute(ctx, createInput())
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.NotEmpty(t, first.AssessmentID)

	key, err := database.CacheKey("test-1", scoring.DefaultScoreMapper(), createInput().Application)
	require.NoError(t, err)
	assert.True(t, mr.Exists(key))
	assert.InDelta(t, time.Minute, mr.TTL(key), float64(time.Second))

	second, err := handler.Execute(ctx, createInput())
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.NotEqual(t, first.AssessmentID, second.AssessmentID)
	assert.Equal(t, first.CreditScore, second.CreditScore)
	assert.Equal(t, first.DefaultProbability, second.DefaultProbability)
	assert.Equal(t, first.Rating, second.Rating)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_CacheHit(t *testing.T) {
	redisClient, redisMock := redismock.NewClientMock()

	cached := &models.ScoringResult{DefaultProbability: 12.5, CreditScore: 563, Rating: models.RatingAverage}
	data, _ := json.Marshal(cached)
	key, _ := database.CacheKey("test-1", scoring.DefaultScoreMapper(), createInput().Application)
	redisMock.ExpectGet(key).SetVal(string(data))

	handler := createTestHandler(t, nil, redisClient, nil)
	output, err := handler.Execute(context.Background(), createInput())
	require.NoError(t, err)

	assert.True(t, output.Cached)
	assert.Equal(t, 563, output.CreditScore)
	assert.Equal(t, models.RatingAverage, output.Rating)
	assert.Equal(t, scoring.RecommendReview, output.Recommendation)
	assert.Equal(t, scoring.RiskModerate, output.RiskLevel)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestHandler_Execute_CacheFailureFallsBackToModel(t *testing.T) {
	redisClient, redisMock := redismock.NewClientMock()

	input := createInput()
	key, _ := database.CacheKey("test-1", scoring.DefaultScoreMapper(), input.Application)
	want, err := createTestPipeline(t).Assess(input.Application)
	require.NoError(t, err)
	data, _ := json.Marshal(want)

	redisMock.ExpectGet(key).SetErr(stderrors.New("i/o timeout"))
	redisMock.ExpectSet(key, data, time.Minute).SetVal("OK")

	handler := createTestHandler(t, nil, redisClient, nil)
	output, err := handler.Execute(context.Background(), input)
	require.NoError(t, err)

	assert.False(t, output.Cached)
	assert.Equal(t, want.CreditScore, output.CreditScore)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestHandler_Execute_CacheSeparatesScoreScales(t *testing.T) {
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer redisClient.Close()

	ctx := context.Background()
	input := createInput()

	narrow := createTestHandler(t, nil, redisClient, nil)
	first, err := narrow.Execute(ctx, input)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	mapper := scoring.ScoreMapper{BaseScore: 300, ScaleLength: 600}
	wide := createTestPipeline(t, scoring.WithScoreMapper(mapper))
	handler := NewHandler(createTestConfig(), wide, nil, redisClient, logger.NewTestLogger(t))

	second, err := handler.Execute(ctx, input)
	require.NoError(t, err)
	assert.False(t, second.Cached)

	want, err := wide.Assess(input.Application)
	require.NoError(t, err)
	assert.Equal(t, want.CreditScore, second.CreditScore)
	assert.Equal(t, want.Rating, second.Rating)
	assert.NotEqual(t, first.CreditScore, second.CreditScore)
}

func TestHandler_Execute_CacheDisabledByTTL(t *testing.T) {
	redisClient, redisMock := redismock.NewClientMock()

	config := createTestConfig()
	config.CacheTTL = 0
	handler := createTestHandler(t, nil, redisClient, config)

	_, err := handler.Execute(context.Background(), createInput())
	require.NoError(t, err)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_PersistFailure(t *testing.T) {
	tests := []struct {
		name     string
		required bool
		wantErr  bool
	}{
		{name: "best effort", required: false, wantErr: false},
		{name: "required", required: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			expectInsert(mock).WillReturnError(sql.ErrConnDone)

			config := createTestConfig()
			config.PersistRequired = tt.required
			handler := createTestHandler(t, db, nil, config)

			output, err := handler.Execute(context.Background(), createInput())
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Empty(t, output.AssessmentID)
				return
			}

			assert.Nil(t, output)
			var stdErr *errors.StandardError
			require.True(t, stderrors.As(err, &stdErr))
			assert.Equal(t, errors.ErrCodeAssessmentPersistFailed, stdErr.Code)
			assert.True(t, stdErr.Retryable)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestHandler_Execute_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(a *models.CreditApplication)
		field  string
	}{
		{name: "underage", mutate: func(a *models.CreditApplication) { a.Age = 16 }, field: "age"},
		{name: "unknown loan type", mutate: func(a *models.CreditApplication) { a.LoanType = "Collateralised" }, field: "loanType"},
		{name: "zero tenure", mutate: func(a *models.CreditApplication) { a.LoanTenureMonths = 0 }, field: "loanTenureMonths"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := createTestHandler(t, nil, nil, nil)
			input := createInput()
			tt.mutate(&input.Application)

			output, err := handler.Execute(context.Background(), input)
			assert.Nil(t, output)

			var stdErr *errors.StandardError
			require.True(t, stderrors.As(err, &stdErr))
			assert.Equal(t, errors.ErrCodeInvalidInput, stdErr.Code)
			assert.Equal(t, tt.field, stdErr.Metadata["field"])
			assert.True(t, stderrors.Is(err, scoring.ErrInvalidInput))
		})
	}
}

// ==========================
// Input Parsing Tests
// ==========================

func TestParseInput(t *testing.T) {
	raw, err := json.Marshal(createInput())
	require.NoError(t, err)

	input, err := ParseInput(raw)
	require.NoError(t, err)
	assert.Equal(t, createInput(), input)
}

func TestParseInput_SchemaViolation(t *testing.T) {
	tests := []struct {
		name  string
		vars  string
		field string
	}{
		{name: "not json", vars: `{"applicationId":`, field: ""},
		{name: "missing application", vars: `{"applicationId": "a"}`, field: "application"},
		{
			name: "age below minimum",
			vars: `{"applicationId": "a", "application": {"age": 12, "income": 1, "loanAmount": 1, "loanTenureMonths": 1,
				"avgDpdPerDelinquency": 0, "delinquencyRatio": 0, "creditUtilizationRatio": 0, "openLoanAccounts": 0,
				"residenceType": "Owned", "loanPurpose": "Auto", "loanType": "Secured"}}`,
			field: "age",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseInput([]byte(tt.vars))

			var stdErr *errors.StandardError
			require.True(t, stderrors.As(err, &stdErr))
			assert.Equal(t, errors.ErrCodeInvalidInput, stdErr.Code)
			if tt.field != "" {
				assert.Equal(t, tt.field, stdErr.Metadata["field"])
			}
		})
	}
}
