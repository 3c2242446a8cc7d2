// Package pipeline содержит чистую модель пайплайна найма:
// порядок стадий, переходы и интервью-планы. Без I/O.
package pipeline

import (
	"hireflow_backend/internal/models"
)

// Канонический порядок продвижения. REJECTED/WITHDRAWN достижимы
// только через явный отказ/архивацию, не через advance.
var stageOrder = []models.PipelineStage{
	models.StageApplied,
	models.StageScreening,
	models.StageTechnicalL1,
	models.StageTechnicalL2,
	models.StageSystemDesign,
	models.StageHR,
	models.StageOffer,
	models.StageHired,
}

var stageIndex = func() map[models.PipelineStage]int {
	m := make(map[models.PipelineStage]int, len(stageOrder))
	for i, s := range stageOrder {
		m[s] = i
	}
	return m
}()

// roundStageMap - какая стадия считается достигнутой при назначении
// раунда данного типа. Назначение раунда стадии X трактуется как вход
// в стадию X, а не как ожидание.
var roundStageMap = map[models.RoundType]models.PipelineStage{
	models.RoundScreening:    models.StageScreening,
	models.RoundTechnicalL1:  models.StageTechnicalL1,
	models.RoundTechnicalL2:  models.StageTechnicalL2,
	models.RoundSystemDesign: models.StageSystemDesign,
	models.RoundHR:           models.StageHR,
	models.RoundCultureFit:   models.StageHR,
	models.RoundFinal:        models.StageOffer,
}

// Stages возвращает канонический порядок стадий (копию)
func Stages() []models.PipelineStage {
	out := make([]models.PipelineStage, len(stageOrder))
	copy(out, stageOrder)
	return out
}

// IsTerminal - стадии, из которых нет продвижения
func IsTerminal(stage models.PipelineStage) bool {
	switch stage {
	case models.StageHired, models.StageRejected, models.StageWithdrawn:
		return true
	default:
		return false
	}
}

// IsKnown проверяет принадлежность значения к известным стадиям
func IsKnown(stage models.PipelineStage) bool {
	if IsTerminal(stage) {
		return true
	}
	_, ok := stageIndex[stage]
	return ok
}

// NextStage возвращает канонического преемника стадии.
// Для терминальных стадий и боковых выходов преемника нет.
func NextStage(stage models.PipelineStage) (models.PipelineStage, bool) {
	idx, ok := stageIndex[stage]
	if !ok || idx == len(stageOrder)-1 {
		return "", false
	}
	return stageOrder[idx+1], true
}

// AdvanceOptions возвращает все допустимые цели продвижения вперед
// (строго дальше текущей стадии, вплоть до HIRED). Боковые выходы
// сюда не входят никогда.
func AdvanceOptions(stage models.PipelineStage) []models.PipelineStage {
	idx, ok := stageIndex[stage]
	if !ok {
		return nil
	}
	out := make([]models.PipelineStage, 0, len(stageOrder)-idx-1)
	for _, s := range stageOrder[idx+1:] {
		out = append(out, s)
	}
	return out
}

// StageForRound - стадия, соответствующая типу раунда.
// Отображение тотально по всем типам раундов.
func StageForRound(roundType models.RoundType) models.PipelineStage {
	return roundStageMap[roundType]
}
