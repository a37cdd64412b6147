package workflow

import (
	"lessonforge/internal/queue"
	"lessonforge/internal/stage"
)

// StageSet bundles the concrete pipeline handlers the manager orchestrates.
type StageSet struct {
	Script  stage.Handler
	QA      stage.Handler
	Voice   stage.Handler
	Visuals stage.Handler
	Video   stage.Handler
	Sheets  stage.Handler
}

type pipelineStage struct {
	name             string
	handler          stage.Handler
	startStatus      queue.Status
	processingStatus queue.Status
	doneStatus       queue.Status
}

// ConfigureStages registers the concrete stage handlers the workflow will
// run. Stages execute strictly in status order; a missing handler leaves a
// gap in the pipeline, so orders park at that status.
func (m *Manager) ConfigureStages(set StageSet) {
	var stages []pipelineStage

	if set.Script != nil {
		stages = append(stages, pipelineStage{
			name:             "script",
			handler:          set.Script,
			startStatus:      queue.StatusPending,
			processingStatus: queue.StatusGeneratingScript,
			doneStatus:       queue.StatusScriptReady,
		})
	}
	if set.QA != nil {
		stages = append(stages, pipelineStage{
			name:             "qa",
			handler:          set.QA,
			startStatus:      queue.StatusScriptReady,
			processingStatus: queue.StatusVerifyingQA,
			doneStatus:       queue.StatusQAVerified,
		})
	}
	if set.Voice != nil {
		stages = append(stages, pipelineStage{
			name:             "voice",
			handler:          set.Voice,
			startStatus:      queue.StatusQAVerified,
			processingStatus: queue.StatusGeneratingAudio,
			doneStatus:       queue.StatusAudioReady,
		})
	}
	if set.Visuals != nil {
		stages = append(stages, pipelineStage{
			name:             "visuals",
			handler:          set.Visuals,
			startStatus:      queue.StatusAudioReady,
			processingStatus: queue.StatusGeneratingVisuals,
			doneStatus:       queue.StatusVisualsReady,
		})
	}
	if set.Video != nil {
		stages = append(stages, pipelineStage{
			name:             "video",
			handler:          set.Video,
			startStatus:      queue.StatusVisualsReady,
			processingStatus: queue.StatusRenderingVideo,
			doneStatus:       queue.StatusVideoRendered,
		})
	}
	if set.Sheets != nil {
		stages = append(stages, pipelineStage{
			name:             "sheets",
			handler:          set.Sheets,
			startStatus:      queue.StatusVideoRendered,
			processingStatus: queue.StatusGeneratingSheets,
			doneStatus:       queue.StatusCompleted,
		})
	}

	stageByStart := make(map[queue.Status]pipelineStage, len(stages))
	statusOrder := make([]queue.Status, 0, len(stages))
	processing := make([]queue.Status, 0, len(stages))
	for _, stg := range stages {
		stageByStart[stg.startStatus] = stg
		statusOrder = append(statusOrder, stg.startStatus)
		processing = append(processing, stg.processingStatus)
	}

	m.mu.Lock()
	m.stages = stages
	m.stageByStart = stageByStart
	m.statusOrder = statusOrder
	m.processingStatuses = processing
	m.mu.Unlock()
}

func (m *Manager) stageForStatus(status queue.Status) (pipelineStage, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stg, ok := m.stageByStart[status]
	return stg, ok
}
