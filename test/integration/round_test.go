package integration_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"hireflow_backend/internal/models"
	"hireflow_backend/test/helpers"

	"github.com/stretchr/testify/assert"
)

type roundBody struct {
	ID          string `json:"id"`
	RoundNumber int    `json:"round_number"`
	RoundType   string `json:"round_type"`
	Status      string `json:"status"`
}

func feedbackPayload(recommendation string) map[string]interface{} {
	return map[string]interface{}{
		"rating_technical":       4,
		"rating_problem_solving": 4,
		"rating_communication":   5,
		"rating_culture":         4,
		"rating_overall":         4,
		"strengths":              "Strong fundamentals",
		"concerns":               "",
		"recommendation":         recommendation,
	}
}

// TestScheduleRound - раунд получает номер max+1 и двигает стадию
// кандидата на стадию типа раунда
func TestScheduleRound(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	token, recruiter := helpers.CreateAndLoginRecruiter(t, ts, tx)
	_, interviewer := helpers.CreateAndLoginInterviewer(t, ts, tx)
	job := helpers.CreateTestJob(t, tx, recruiter.ID, "Backend Engineer")
	candidate := helpers.CreateTestCandidate(t, tx, recruiter.ID, job.ID, models.StageApplied)

	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/candidates/"+candidate.ID+"/rounds", token,
		map[string]interface{}{"round_type": "SCREENING", "interviewer_id": interviewer.ID})
	assert.Equal(t, http.StatusCreated, res.StatusCode, "Ответ: "+bodyStr)

	var round roundBody
	assert.NoError(t, json.Unmarshal([]byte(bodyStr), &round))
	assert.Equal(t, 1, round.RoundNumber)
	assert.Equal(t, "SCHEDULED", round.Status)

	// Кандидат переехал на SCREENING
	var stage string
	assert.NoError(t, tx.Raw("SELECT current_stage FROM candidates WHERE id = ?", candidate.ID).Scan(&stage).Error)
	assert.Equal(t, "SCREENING", stage)

	// Второй раунд - номер 2
	res, bodyStr = ts.SendRequest(t, "POST", "/api/v1/candidates/"+candidate.ID+"/rounds", token,
		map[string]interface{}{"round_type": "TECHNICAL_L1", "interviewer_id": interviewer.ID})
	assert.Equal(t, http.StatusCreated, res.StatusCode, "Ответ: "+bodyStr)
	assert.NoError(t, json.Unmarshal([]byte(bodyStr), &round))
	assert.Equal(t, 2, round.RoundNumber)
}

// TestScheduleRound_NumberSkipsCancelled - номер после отмены не
// переиспользуется: max+1, а не count+1
func TestScheduleRound_NumberSkipsCancelled(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	token, recruiter := helpers.CreateAndLoginRecruiter(t, ts, tx)
	_, interviewer := helpers.CreateAndLoginInterviewer(t, ts, tx)
	job := helpers.CreateTestJob(t, tx, recruiter.ID, "Backend Engineer")
	candidate := helpers.CreateTestCandidate(t, tx, recruiter.ID, job.ID, models.StageScreening)

	helpers.CreateTestRound(t, tx, candidate.ID, interviewer.ID, 1, models.RoundScreening, models.RoundStatusCancelled)
	helpers.CreateTestRound(t, tx, candidate.ID, interviewer.ID, 5, models.RoundTechnicalL1, models.RoundStatusCancelled)

	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/candidates/"+candidate.ID+"/rounds", token,
		map[string]interface{}{"round_type": "TECHNICAL_L2", "interviewer_id": interviewer.ID})
	assert.Equal(t, http.StatusCreated, res.StatusCode, "Ответ: "+bodyStr)

	var round roundBody
	assert.NoError(t, json.Unmarshal([]byte(bodyStr), &round))
	assert.Equal(t, 6, round.RoundNumber)
}

// TestScheduleRound_ExplicitNumberConflict - явный занятый номер дает
// конфликт и не трогает набор раундов кандидата
func TestScheduleRound_ExplicitNumberConflict(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	token, recruiter := helpers.CreateAndLoginRecruiter(t, ts, tx)
	_, interviewer := helpers.CreateAndLoginInterviewer(t, ts, tx)
	job := helpers.CreateTestJob(t, tx, recruiter.ID, "Backend Engineer")
	candidate := helpers.CreateTestCandidate(t, tx, recruiter.ID, job.ID, models.StageScreening)

	helpers.CreateTestRound(t, tx, candidate.ID, interviewer.ID, 1, models.RoundScreening, models.RoundStatusScheduled)

	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/candidates/"+candidate.ID+"/rounds", token,
		map[string]interface{}{"round_type": "TECHNICAL_L1", "interviewer_id": interviewer.ID, "round_number": 1})
	assert.Equal(t, http.StatusConflict, res.StatusCode, "Ответ: "+bodyStr)
	assert.Contains(t, bodyStr, "Round number already exists")

	// Набор раундов не изменился
	var count int64
	assert.NoError(t, tx.Model(&models.InterviewRound{}).Where("candidate_id = ?", candidate.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// Стадия не двинулась
	var stage string
	assert.NoError(t, tx.Raw("SELECT current_stage FROM candidates WHERE id = ?", candidate.ID).Scan(&stage).Error)
	assert.Equal(t, "SCREENING", stage)

	// Свободный явный номер принимается
	res, bodyStr = ts.SendRequest(t, "POST", "/api/v1/candidates/"+candidate.ID+"/rounds", token,
		map[string]interface{}{"round_type": "TECHNICAL_L1", "interviewer_id": interviewer.ID, "round_number": 4})
	assert.Equal(t, http.StatusCreated, res.StatusCode, "Ответ: "+bodyStr)

	var round roundBody
	assert.NoError(t, json.Unmarshal([]byte(bodyStr), &round))
	assert.Equal(t, 4, round.RoundNumber)
}

// TestScheduleRound_Guards - терминальный кандидат и неактивный
// интервьюер отсекаются
func TestScheduleRound_Guards(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	token, recruiter := helpers.CreateAndLoginRecruiter(t, ts, tx)
	_, interviewer := helpers.CreateAndLoginInterviewer(t, ts, tx)
	job := helpers.CreateTestJob(t, tx, recruiter.ID, "Backend Engineer")

	// Терминальный кандидат
	rejected := helpers.CreateTestCandidate(t, tx, recruiter.ID, job.ID, models.StageRejected)
	res, _ := ts.SendRequest(t, "POST", "/api/v1/candidates/"+rejected.ID+"/rounds", token,
		map[string]interface{}{"round_type": "HR", "interviewer_id": interviewer.ID})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	// Деактивированный интервьюер
	candidate := helpers.CreateTestCandidate(t, tx, recruiter.ID, job.ID, models.StageApplied)
	assert.NoError(t, tx.Model(&models.User{}).Where("id = ?", interviewer.ID).Update("is_active", false).Error)

	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/candidates/"+candidate.ID+"/rounds", token,
		map[string]interface{}{"round_type": "SCREENING", "interviewer_id": interviewer.ID})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, "Ответ: "+bodyStr)
	assert.Contains(t, bodyStr, "not active")
}

// TestSubmitFeedback_Positive - положительный фидбек завершает раунд,
// стадия кандидата не меняется
func TestSubmitFeedback_Positive(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	_, recruiter := helpers.CreateAndLoginRecruiter(t, ts, tx)
	interviewerToken, interviewer := helpers.CreateAndLoginInterviewer(t, ts, tx)
	job := helpers.CreateTestJob(t, tx, recruiter.ID, "Backend Engineer")
	candidate := helpers.CreateTestCandidate(t, tx, recruiter.ID, job.ID, models.StageScreening)
	round := helpers.CreateTestRound(t, tx, candidate.ID, interviewer.ID, 1, models.RoundScreening, models.RoundStatusScheduled)

	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/rounds/"+round.ID+"/feedback", interviewerToken,
		feedbackPayload("YES"))
	assert.Equal(t, http.StatusCreated, res.StatusCode, "Ответ: "+bodyStr)

	// Раунд завершен
	var status string
	assert.NoError(t, tx.Raw("SELECT status FROM interview_rounds WHERE id = ?", round.ID).Scan(&status).Error)
	assert.Equal(t, "COMPLETED", status)

	// Стадия не тронута: продвижение вперед только вручную
	var stage string
	assert.NoError(t, tx.Raw("SELECT current_stage FROM candidates WHERE id = ?", candidate.ID).Scan(&stage).Error)
	assert.Equal(t, "SCREENING", stage)
}

// TestSubmitFeedback_Immutable - второй фидбек по раунду невозможен
func TestSubmitFeedback_Immutable(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	_, recruiter := helpers.CreateAndLoginRecruiter(t, ts, tx)
	interviewerToken, interviewer := helpers.CreateAndLoginInterviewer(t, ts, tx)
	job := helpers.CreateTestJob(t, tx, recruiter.ID, "Backend Engineer")
	candidate := helpers.CreateTestCandidate(t, tx, recruiter.ID, job.ID, models.StageScreening)
	round := helpers.CreateTestRound(t, tx, candidate.ID, interviewer.ID, 1, models.RoundScreening, models.RoundStatusScheduled)

	res, _ := ts.SendRequest(t, "POST", "/api/v1/rounds/"+round.ID+"/feedback", interviewerToken,
		feedbackPayload("YES"))
	assert.Equal(t, http.StatusCreated, res.StatusCode)

	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/rounds/"+round.ID+"/feedback", interviewerToken,
		feedbackPayload("STRONG_YES"))
	assert.Equal(t, http.StatusConflict, res.StatusCode, "Ответ: "+bodyStr)
	assert.Contains(t, bodyStr, "already submitted")
}

// TestSubmitFeedback_OnlyAssignedReviewer - фидбек подает назначенный
// интервьюер или админ
func TestSubmitFeedback_OnlyAssignedReviewer(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	adminToken, _ := helpers.CreateAndLoginAdmin(t, ts, tx)
	_, recruiter := helpers.CreateAndLoginRecruiter(t, ts, tx)
	_, assigned := helpers.CreateAndLoginInterviewer(t, ts, tx)
	otherToken, _ := helpers.CreateAndLoginInterviewer(t, ts, tx)
	job := helpers.CreateTestJob(t, tx, recruiter.ID, "Backend Engineer")
	candidate := helpers.CreateTestCandidate(t, tx, recruiter.ID, job.ID, models.StageScreening)

	round := helpers.CreateTestRound(t, tx, candidate.ID, assigned.ID, 1, models.RoundScreening, models.RoundStatusScheduled)

	// Чужой интервьюер - запрещено
	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/rounds/"+round.ID+"/feedback", otherToken,
		feedbackPayload("YES"))
	assert.Equal(t, http.StatusForbidden, res.StatusCode, "Ответ: "+bodyStr)

	// Админ - можно
	res, bodyStr = ts.SendRequest(t, "POST", "/api/v1/rounds/"+round.ID+"/feedback", adminToken,
		feedbackPayload("YES"))
	assert.Equal(t, http.StatusCreated, res.StatusCode, "Ответ: "+bodyStr)
}

// TestUpdateRoundStatus_AdminCancel - админ отменяет раунд; раунд с
// фидбеком трогать нельзя
func TestUpdateRoundStatus_AdminCancel(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	adminToken, _ := helpers.CreateAndLoginAdmin(t, ts, tx)
	recruiterToken, recruiter := helpers.CreateAndLoginRecruiter(t, ts, tx)
	interviewerToken, interviewer := helpers.CreateAndLoginInterviewer(t, ts, tx)
	job := helpers.CreateTestJob(t, tx, recruiter.ID, "Backend Engineer")
	candidate := helpers.CreateTestCandidate(t, tx, recruiter.ID, job.ID, models.StageScreening)

	round := helpers.CreateTestRound(t, tx, candidate.ID, interviewer.ID, 1, models.RoundScreening, models.RoundStatusScheduled)

	// Не-админ - запрещено
	res, _ := ts.SendRequest(t, "PATCH", "/api/v1/rounds/"+round.ID+"/status", recruiterToken,
		map[string]interface{}{"status": "CANCELLED"})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	// Админ отменяет
	res, bodyStr := ts.SendRequest(t, "PATCH", "/api/v1/rounds/"+round.ID+"/status", adminToken,
		map[string]interface{}{"status": "CANCELLED"})
	assert.Equal(t, http.StatusOK, res.StatusCode, "Ответ: "+bodyStr)

	var resp roundBody
	assert.NoError(t, json.Unmarshal([]byte(bodyStr), &resp))
	assert.Equal(t, "CANCELLED", resp.Status)

	// Завершенный раунд отменить нельзя
	completed := helpers.CreateTestRound(t, tx, candidate.ID, interviewer.ID, 2, models.RoundTechnicalL1, models.RoundStatusScheduled)
	res, _ = ts.SendRequest(t, "POST", "/api/v1/rounds/"+completed.ID+"/feedback", interviewerToken,
		feedbackPayload("YES"))
	assert.Equal(t, http.StatusCreated, res.StatusCode)

	res, _ = ts.SendRequest(t, "PATCH", "/api/v1/rounds/"+completed.ID+"/status", adminToken,
		map[string]interface{}{"status": "NO_SHOW"})
	assert.Equal(t, http.StatusConflict, res.StatusCode)
}

// TestListRounds - раунды кандидата в порядке номеров с фидбеком
func TestListRounds(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	token, recruiter := helpers.CreateAndLoginRecruiter(t, ts, tx)
	_, interviewer := helpers.CreateAndLoginInterviewer(t, ts, tx)
	job := helpers.CreateTestJob(t, tx, recruiter.ID, "Backend Engineer")
	candidate := helpers.CreateTestCandidate(t, tx, recruiter.ID, job.ID, models.StageTechnicalL1)

	helpers.CreateTestRound(t, tx, candidate.ID, interviewer.ID, 2, models.RoundTechnicalL1, models.RoundStatusScheduled)
	helpers.CreateTestRound(t, tx, candidate.ID, interviewer.ID, 1, models.RoundScreening, models.RoundStatusCompleted)

	res, bodyStr := ts.SendRequest(t, "GET", "/api/v1/candidates/"+candidate.ID+"/rounds", token, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var resp struct {
		Rounds []roundBody `json:"rounds"`
	}
	assert.NoError(t, json.Unmarshal([]byte(bodyStr), &resp))
	assert.Len(t, resp.Rounds, 2)
	assert.Equal(t, 1, resp.Rounds[0].RoundNumber)
	assert.Equal(t, 2, resp.Rounds[1].RoundNumber)
}
