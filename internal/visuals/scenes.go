package visuals

// SceneType classifies what a scene displays.
type SceneType string

const (
	SceneTitle       SceneType = "title"
	SceneExplanation SceneType = "explanation"
	ScenePause       SceneType = "pause"
	SceneReveal      SceneType = "reveal"
	SceneChallenge   SceneType = "challenge"
	SceneClosing     SceneType = "closing"
)

// Scene is one discrete visual frame with an assigned start time and
// duration in the rendered video.
type Scene struct {
	ID        int       `json:"id"`
	Type      SceneType `json:"type"`
	Duration  float64   `json:"duration"`
	StartTime float64   `json:"start_time"`
	FramePath string    `json:"frame_path"`
}

// Visuals is the ordered, time-contiguous scene sequence for one lesson.
// Invariant: scene[i].StartTime + scene[i].Duration == scene[i+1].StartTime
// and the durations sum to TotalDuration.
type Visuals struct {
	Scenes        []Scene `json:"scenes"`
	TotalDuration float64 `json:"total_duration"`
}

// FramePaths returns the frame files in scene order.
func (v *Visuals) FramePaths() []string {
	paths := make([]string, len(v.Scenes))
	for i, scene := range v.Scenes {
		paths[i] = scene.FramePath
	}
	return paths
}
