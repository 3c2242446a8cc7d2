package integration_test

import (
	"net/http"
	"testing"

	"hireflow_backend/internal/models"
	"hireflow_backend/test/helpers"

	"github.com/stretchr/testify/assert"
)

func rejectionBlock(category string) map[string]interface{} {
	return map[string]interface{}{
		"category": category,
		"notes":    "Not enough depth in systems design discussion.",
	}
}

// TestRejectingFeedback_RequiresPayload - NO/STRONG_NO без rejection-блока
// отвергается до каких-либо записей
func TestRejectingFeedback_RequiresPayload(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	_, recruiter := helpers.CreateAndLoginRecruiter(t, ts, tx)
	interviewerToken, interviewer := helpers.CreateAndLoginInterviewer(t, ts, tx)
	job := helpers.CreateTestJob(t, tx, recruiter.ID, "Backend Engineer")
	candidate := helpers.CreateTestCandidate(t, tx, recruiter.ID, job.ID, models.StageScreening)
	round := helpers.CreateTestRound(t, tx, candidate.ID, interviewer.ID, 1, models.RoundScreening, models.RoundStatusScheduled)

	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/rounds/"+round.ID+"/feedback", interviewerToken,
		feedbackPayload("STRONG_NO"))
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, "Ответ: "+bodyStr)
	assert.Contains(t, bodyStr, "rejection")

	// Ничего не записано: фидбека нет, раунд остался SCHEDULED
	var count int64
	assert.NoError(t, tx.Model(&models.Feedback{}).Where("round_id = ?", round.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	var status string
	assert.NoError(t, tx.Raw("SELECT status FROM interview_rounds WHERE id = ?", round.ID).Scan(&status).Error)
	assert.Equal(t, "SCHEDULED", status)

	// Слишком короткие заметки тоже отсекаются
	payload := feedbackPayload("NO")
	payload["rejection"] = map[string]interface{}{"category": "TECHNICAL_GAP", "notes": "too short"}
	res, _ = ts.SendRequest(t, "POST", "/api/v1/rounds/"+round.ID+"/feedback", interviewerToken, payload)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

// TestRejectingFeedback_Atomic - отклоняющий фидбек атомарно завершает
// раунд, создает причину отказа и двигает кандидата в REJECTED
func TestRejectingFeedback_Atomic(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	_, recruiter := helpers.CreateAndLoginRecruiter(t, ts, tx)
	interviewerToken, interviewer := helpers.CreateAndLoginInterviewer(t, ts, tx)
	job := helpers.CreateTestJob(t, tx, recruiter.ID, "Backend Engineer")
	candidate := helpers.CreateTestCandidate(t, tx, recruiter.ID, job.ID, models.StageTechnicalL2)
	round := helpers.CreateTestRound(t, tx, candidate.ID, interviewer.ID, 1, models.RoundTechnicalL2, models.RoundStatusScheduled)

	payload := feedbackPayload("NO")
	payload["rejection"] = rejectionBlock("TECHNICAL_GAP")

	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/rounds/"+round.ID+"/feedback", interviewerToken, payload)
	assert.Equal(t, http.StatusCreated, res.StatusCode, "Ответ: "+bodyStr)

	var stage string
	assert.NoError(t, tx.Raw("SELECT current_stage FROM candidates WHERE id = ?", candidate.ID).Scan(&stage).Error)
	assert.Equal(t, "REJECTED", stage)

	var status string
	assert.NoError(t, tx.Raw("SELECT status FROM interview_rounds WHERE id = ?", round.ID).Scan(&status).Error)
	assert.Equal(t, "COMPLETED", status)

	var rejection models.RejectionReason
	assert.NoError(t, tx.Where("candidate_id = ?", candidate.ID).First(&rejection).Error)
	assert.Equal(t, models.RejectionCategory("TECHNICAL_GAP"), rejection.Category)

	// Причина отказа ссылается на фидбек этого раунда
	var feedback models.Feedback
	assert.NoError(t, tx.Where("round_id = ?", round.ID).First(&feedback).Error)
	assert.Equal(t, feedback.ID, rejection.FeedbackID)
}

// TestManualReject_SynthesizesFeedback - ручной отказ кандидата без
// единого фидбека фабрикует завершенный HR-раунд с фидбеком "все единицы"
func TestManualReject_SynthesizesFeedback(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	token, recruiter := helpers.CreateAndLoginRecruiter(t, ts, tx)
	job := helpers.CreateTestJob(t, tx, recruiter.ID, "Backend Engineer")
	candidate := helpers.CreateTestCandidate(t, tx, recruiter.ID, job.ID, models.StageScreening)

	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/candidates/"+candidate.ID+"/reject", token,
		rejectionBlock("POSITION_FILLED"))
	assert.Equal(t, http.StatusOK, res.StatusCode, "Ответ: "+bodyStr)

	var stage string
	assert.NoError(t, tx.Raw("SELECT current_stage FROM candidates WHERE id = ?", candidate.ID).Scan(&stage).Error)
	assert.Equal(t, "REJECTED", stage)

	// Синтетический раунд: HR, COMPLETED, номер 1, интервьюер - автор отказа
	var round models.InterviewRound
	assert.NoError(t, tx.Where("candidate_id = ?", candidate.ID).First(&round).Error)
	assert.Equal(t, models.RoundHR, round.RoundType)
	assert.Equal(t, models.RoundStatusCompleted, round.Status)
	assert.Equal(t, 1, round.RoundNumber)
	assert.Equal(t, recruiter.ID, round.InterviewerID)

	// Синтетический фидбек: все оценки 1, рекомендация NO
	var feedback models.Feedback
	assert.NoError(t, tx.Where("round_id = ?", round.ID).First(&feedback).Error)
	assert.Equal(t, 1, feedback.RatingOverall)
	assert.Equal(t, models.RecommendationNo, feedback.Recommendation)

	var rejection models.RejectionReason
	assert.NoError(t, tx.Where("candidate_id = ?", candidate.ID).First(&rejection).Error)
	assert.Equal(t, feedback.ID, rejection.FeedbackID)
}

// TestManualReject_ReusesLatestFeedback - при наличии фидбека по
// последнему раунду ничего не синтезируется
func TestManualReject_ReusesLatestFeedback(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	token, recruiter := helpers.CreateAndLoginRecruiter(t, ts, tx)
	interviewerToken, interviewer := helpers.CreateAndLoginInterviewer(t, ts, tx)
	job := helpers.CreateTestJob(t, tx, recruiter.ID, "Backend Engineer")
	candidate := helpers.CreateTestCandidate(t, tx, recruiter.ID, job.ID, models.StageScreening)
	round := helpers.CreateTestRound(t, tx, candidate.ID, interviewer.ID, 1, models.RoundScreening, models.RoundStatusScheduled)

	res, _ := ts.SendRequest(t, "POST", "/api/v1/rounds/"+round.ID+"/feedback", interviewerToken,
		feedbackPayload("YES"))
	assert.Equal(t, http.StatusCreated, res.StatusCode)

	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/candidates/"+candidate.ID+"/reject", token,
		rejectionBlock("EXPERIENCE_SHORTFALL"))
	assert.Equal(t, http.StatusOK, res.StatusCode, "Ответ: "+bodyStr)

	// Раунд остался один - синтеза не было
	var count int64
	assert.NoError(t, tx.Model(&models.InterviewRound{}).Where("candidate_id = ?", candidate.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var feedback models.Feedback
	assert.NoError(t, tx.Where("round_id = ?", round.ID).First(&feedback).Error)

	var rejection models.RejectionReason
	assert.NoError(t, tx.Where("candidate_id = ?", candidate.ID).First(&rejection).Error)
	assert.Equal(t, feedback.ID, rejection.FeedbackID)
}

// TestManualReject_UpsertSingleRow - повторный отказ обновляет
// существующую причину, а не плодит строки
func TestManualReject_UpsertSingleRow(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	token, recruiter := helpers.CreateAndLoginRecruiter(t, ts, tx)
	job := helpers.CreateTestJob(t, tx, recruiter.ID, "Backend Engineer")
	candidate := helpers.CreateTestCandidate(t, tx, recruiter.ID, job.ID, models.StageHR)

	res, _ := ts.SendRequest(t, "POST", "/api/v1/candidates/"+candidate.ID+"/reject", token,
		rejectionBlock("CULTURE_MISMATCH"))
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, _ = ts.SendRequest(t, "POST", "/api/v1/candidates/"+candidate.ID+"/reject", token,
		rejectionBlock("OTHER"))
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var count int64
	assert.NoError(t, tx.Model(&models.RejectionReason{}).Where("candidate_id = ?", candidate.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var rejection models.RejectionReason
	assert.NoError(t, tx.Where("candidate_id = ?", candidate.ID).First(&rejection).Error)
	assert.Equal(t, models.RejectionCategory("OTHER"), rejection.Category)

	// Раундов по-прежнему один (синтез был только при первом отказе)
	assert.NoError(t, tx.Model(&models.InterviewRound{}).Where("candidate_id = ?", candidate.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

// TestManualReject_InvalidCategory - категория вне справочника отсекается
func TestManualReject_InvalidCategory(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	token, recruiter := helpers.CreateAndLoginRecruiter(t, ts, tx)
	job := helpers.CreateTestJob(t, tx, recruiter.ID, "Backend Engineer")
	candidate := helpers.CreateTestCandidate(t, tx, recruiter.ID, job.ID, models.StageScreening)

	res, _ := ts.SendRequest(t, "POST", "/api/v1/candidates/"+candidate.ID+"/reject", token,
		map[string]interface{}{"category": "BAD_VIBES", "notes": "This category does not exist in the dictionary."})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}
