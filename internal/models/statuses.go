package models

type UserRole string
type JobStatus string
type PipelineStage string
type RoundType string
type RoundStatus string
type Recommendation string
type RejectionCategory string

const (
	UserRoleAdmin         UserRole = "admin"
	UserRoleRecruiter     UserRole = "recruiter"
	UserRoleHiringManager UserRole = "hiring_manager"
	UserRoleInterviewer   UserRole = "interviewer"

	JobStatusOpen   JobStatus = "open"
	JobStatusOnHold JobStatus = "on_hold"
	JobStatusClosed JobStatus = "closed"

	StageApplied      PipelineStage = "APPLIED"
	StageScreening    PipelineStage = "SCREENING"
	StageTechnicalL1  PipelineStage = "TECHNICAL_L1"
	StageTechnicalL2  PipelineStage = "TECHNICAL_L2"
	StageSystemDesign PipelineStage = "SYSTEM_DESIGN"
	StageHR           PipelineStage = "HR"
	StageOffer        PipelineStage = "OFFER"
	StageHired        PipelineStage = "HIRED"
	StageRejected     PipelineStage = "REJECTED"
	StageWithdrawn    PipelineStage = "WITHDRAWN"

	RoundScreening    RoundType = "SCREENING"
	RoundTechnicalL1  RoundType = "TECHNICAL_L1"
	RoundTechnicalL2  RoundType = "TECHNICAL_L2"
	RoundSystemDesign RoundType = "SYSTEM_DESIGN"
	RoundHR           RoundType = "HR"
	RoundCultureFit   RoundType = "CULTURE_FIT"
	RoundFinal        RoundType = "FINAL"

	RoundStatusScheduled RoundStatus = "SCHEDULED"
	RoundStatusCompleted RoundStatus = "COMPLETED"
	RoundStatusCancelled RoundStatus = "CANCELLED"
	RoundStatusNoShow    RoundStatus = "NO_SHOW"

	RecommendationStrongYes Recommendation = "STRONG_YES"
	RecommendationYes       Recommendation = "YES"
	RecommendationNo        Recommendation = "NO"
	RecommendationStrongNo  Recommendation = "STRONG_NO"

	RejectionTechnicalGap         RejectionCategory = "TECHNICAL_GAP"
	RejectionCultureMismatch      RejectionCategory = "CULTURE_MISMATCH"
	RejectionExperienceShortfall  RejectionCategory = "EXPERIENCE_SHORTFALL"
	RejectionCommunication        RejectionCategory = "COMMUNICATION"
	RejectionCompensationMismatch RejectionCategory = "COMPENSATION_MISMATCH"
	RejectionPositionFilled       RejectionCategory = "POSITION_FILLED"
	RejectionWithdrewInterest     RejectionCategory = "WITHDREW_INTEREST"
	RejectionFailedAssignment     RejectionCategory = "FAILED_ASSIGNMENT"
	RejectionBackgroundCheck      RejectionCategory = "BACKGROUND_CHECK"
	RejectionOther                RejectionCategory = "OTHER"
)

// IsRejecting - рекомендация, автоматически переводящая кандидата в REJECTED
func (r Recommendation) IsRejecting() bool {
	return r == RecommendationNo || r == RecommendationStrongNo
}

// AllPipelineStages - все стадии, включая боковые выходы
var AllPipelineStages = []PipelineStage{
	StageApplied, StageScreening, StageTechnicalL1, StageTechnicalL2,
	StageSystemDesign, StageHR, StageOffer, StageHired,
	StageRejected, StageWithdrawn,
}

var AllRoundTypes = []RoundType{
	RoundScreening, RoundTechnicalL1, RoundTechnicalL2,
	RoundSystemDesign, RoundHR, RoundCultureFit, RoundFinal,
}

var AllRejectionCategories = []RejectionCategory{
	RejectionTechnicalGap, RejectionCultureMismatch, RejectionExperienceShortfall,
	RejectionCommunication, RejectionCompensationMismatch, RejectionPositionFilled,
	RejectionWithdrewInterest, RejectionFailedAssignment, RejectionBackgroundCheck,
	RejectionOther,
}
