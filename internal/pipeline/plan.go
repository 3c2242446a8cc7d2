package pipeline

import (
	"fmt"
	"strings"

	"hireflow_backend/internal/models"
)

type StepKind string

const (
	StepKindRound   StepKind = "ROUND"
	StepKindOutcome StepKind = "OUTCOME"
)

// TemplateCustom возвращается ResolveTemplateID, когда план не совпадает
// ни с одним известным шаблоном. Используется только для маркировки в UI.
const TemplateCustom = "CUSTOM"

// PlanStep - шаг интервью-плана вакансии. Value object: живет внутри
// JSONB-колонки Job.InterviewPlan, собственного lifecycle не имеет.
// Инвариант: kind=ROUND => RoundType != nil и OutcomeStage == nil;
// kind=OUTCOME => наоборот. NormalizePlan приводит шаги к этому виду.
type PlanStep struct {
	Key          string                `json:"key"`
	Label        string                `json:"label"`
	Kind         StepKind              `json:"kind"`
	RoundType    *models.RoundType     `json:"round_type,omitempty"`
	OutcomeStage *models.PipelineStage `json:"outcome_stage,omitempty"`
}

// StepOption - запись каталога, из которой UI собирает шаги плана
type StepOption struct {
	ID           string
	Label        string
	Kind         StepKind
	RoundType    *models.RoundType
	OutcomeStage *models.PipelineStage
}

// PlanTemplate - именованный пресет интервью-плана
type PlanTemplate struct {
	ID    string
	Name  string
	Steps []PlanStep
}

func roundRef(t models.RoundType) *models.RoundType         { return &t }
func stageRef(s models.PipelineStage) *models.PipelineStage { return &s }

var stepCatalog = []StepOption{
	{ID: "screening", Label: "Recruiter Screening", Kind: StepKindRound, RoundType: roundRef(models.RoundScreening)},
	{ID: "tech-l1", Label: "Technical Interview L1", Kind: StepKindRound, RoundType: roundRef(models.RoundTechnicalL1)},
	{ID: "tech-l2", Label: "Technical Interview L2", Kind: StepKindRound, RoundType: roundRef(models.RoundTechnicalL2)},
	{ID: "system-design", Label: "System Design Interview", Kind: StepKindRound, RoundType: roundRef(models.RoundSystemDesign)},
	{ID: "hr", Label: "HR Interview", Kind: StepKindRound, RoundType: roundRef(models.RoundHR)},
	{ID: "culture-fit", Label: "Culture Fit Interview", Kind: StepKindRound, RoundType: roundRef(models.RoundCultureFit)},
	{ID: "final", Label: "Final Interview", Kind: StepKindRound, RoundType: roundRef(models.RoundFinal)},
	{ID: "offer", Label: "Offer Extended", Kind: StepKindOutcome, OutcomeStage: stageRef(models.StageOffer)},
	{ID: "hired", Label: "Hired", Kind: StepKindOutcome, OutcomeStage: stageRef(models.StageHired)},
}

var planTemplates = []PlanTemplate{
	{
		ID:   "STANDARD",
		Name: "Standard Funnel",
		Steps: []PlanStep{
			{Key: "step-1", Label: "Recruiter Screening", Kind: StepKindRound, RoundType: roundRef(models.RoundScreening)},
			{Key: "step-2", Label: "Technical Interview L1", Kind: StepKindRound, RoundType: roundRef(models.RoundTechnicalL1)},
			{Key: "step-3", Label: "Technical Interview L2", Kind: StepKindRound, RoundType: roundRef(models.RoundTechnicalL2)},
			{Key: "step-4", Label: "System Design Interview", Kind: StepKindRound, RoundType: roundRef(models.RoundSystemDesign)},
			{Key: "step-5", Label: "HR Interview", Kind: StepKindRound, RoundType: roundRef(models.RoundHR)},
			{Key: "step-6", Label: "Offer Extended", Kind: StepKindOutcome, OutcomeStage: stageRef(models.StageOffer)},
			{Key: "step-7", Label: "Hired", Kind: StepKindOutcome, OutcomeStage: stageRef(models.StageHired)},
		},
	},
	{
		ID:   "FAST_TRACK",
		Name: "Fast Track",
		Steps: []PlanStep{
			{Key: "step-1", Label: "Recruiter Screening", Kind: StepKindRound, RoundType: roundRef(models.RoundScreening)},
			{Key: "step-2", Label: "Technical Interview L1", Kind: StepKindRound, RoundType: roundRef(models.RoundTechnicalL1)},
			{Key: "step-3", Label: "HR Interview", Kind: StepKindRound, RoundType: roundRef(models.RoundHR)},
			{Key: "step-4", Label: "Offer Extended", Kind: StepKindOutcome, OutcomeStage: stageRef(models.StageOffer)},
			{Key: "step-5", Label: "Hired", Kind: StepKindOutcome, OutcomeStage: stageRef(models.StageHired)},
		},
	},
	{
		ID:   "INTERN",
		Name: "Internship",
		Steps: []PlanStep{
			{Key: "step-1", Label: "Recruiter Screening", Kind: StepKindRound, RoundType: roundRef(models.RoundScreening)},
			{Key: "step-2", Label: "Technical Interview L1", Kind: StepKindRound, RoundType: roundRef(models.RoundTechnicalL1)},
			{Key: "step-3", Label: "Culture Fit Interview", Kind: StepKindRound, RoundType: roundRef(models.RoundCultureFit)},
			{Key: "step-4", Label: "Hired", Kind: StepKindOutcome, OutcomeStage: stageRef(models.StageHired)},
		},
	},
}

// StepCatalog возвращает каталог опций (копию среза)
func StepCatalog() []StepOption {
	out := make([]StepOption, len(stepCatalog))
	copy(out, stepCatalog)
	return out
}

// Templates возвращает все именованные шаблоны
func Templates() []PlanTemplate {
	out := make([]PlanTemplate, len(planTemplates))
	for i, t := range planTemplates {
		out[i] = PlanTemplate{ID: t.ID, Name: t.Name, Steps: cloneSteps(t.Steps)}
	}
	return out
}

// Template возвращает шаблон по id, nil если не найден
func Template(id string) *PlanTemplate {
	for _, t := range planTemplates {
		if t.ID == id {
			return &PlanTemplate{ID: t.ID, Name: t.Name, Steps: cloneSteps(t.Steps)}
		}
	}
	return nil
}

// DefaultPlan возвращает шаги канонического шаблона.
// Всегда глубокая копия: шаги плана нельзя шарить между вакансиями.
func DefaultPlan() []PlanStep {
	return cloneSteps(planTemplates[0].Steps)
}

// StepFromOption собирает шаг из записи каталога. Ключ шага собирается
// из id опции и суффикса вызывающего (timestamp+random), чтобы шаги,
// добавленные интерактивно, не коллидировали. Неизвестный id -> nil.
func StepFromOption(optionID, suffix string) *PlanStep {
	for _, opt := range stepCatalog {
		if opt.ID != optionID {
			continue
		}
		step := PlanStep{
			Key:   fmt.Sprintf("%s-%s", opt.ID, suffix),
			Label: opt.Label,
			Kind:  opt.Kind,
		}
		if opt.RoundType != nil {
			step.RoundType = roundRef(*opt.RoundType)
		}
		if opt.OutcomeStage != nil {
			step.OutcomeStage = stageRef(*opt.OutcomeStage)
		}
		return &step
	}
	return nil
}

// NormalizePlan - идемпотентная канонизация плана перед сохранением:
// пустые ключи -> "step-{i}" (1-based), лейблы триммятся, поля,
// противоречащие kind, обнуляются. Единственный источник истины
// о валидности плана.
func NormalizePlan(steps []PlanStep) []PlanStep {
	out := make([]PlanStep, len(steps))
	for i, s := range steps {
		step := s
		step.Label = strings.TrimSpace(step.Label)
		if strings.TrimSpace(step.Key) == "" {
			step.Key = fmt.Sprintf("step-%d", i+1)
		}
		switch step.Kind {
		case StepKindRound:
			step.OutcomeStage = nil
		case StepKindOutcome:
			step.RoundType = nil
		}
		out[i] = step
	}
	return out
}

// ResolveTemplateID структурно сопоставляет план с известными шаблонами.
// Сигнатура шага: (lower(label), kind, roundType, outcomeStage), по порядку,
// с точным совпадением длины. Только для маркировки в UI - бизнес-логику
// по результату восстанавливать нельзя.
func ResolveTemplateID(steps []PlanStep) string {
	sig := planSignature(steps)
	for _, t := range planTemplates {
		if planSignature(t.Steps) == sig {
			return t.ID
		}
	}
	return TemplateCustom
}

func planSignature(steps []PlanStep) string {
	var b strings.Builder
	for _, s := range steps {
		roundType := ""
		if s.RoundType != nil {
			roundType = string(*s.RoundType)
		}
		outcome := ""
		if s.OutcomeStage != nil {
			outcome = string(*s.OutcomeStage)
		}
		fmt.Fprintf(&b, "%s|%s|%s|%s;", strings.ToLower(s.Label), s.Kind, roundType, outcome)
	}
	return b.String()
}

func cloneSteps(steps []PlanStep) []PlanStep {
	out := make([]PlanStep, len(steps))
	for i, s := range steps {
		step := s
		if s.RoundType != nil {
			step.RoundType = roundRef(*s.RoundType)
		}
		if s.OutcomeStage != nil {
			step.OutcomeStage = stageRef(*s.OutcomeStage)
		}
		out[i] = step
	}
	return out
}
