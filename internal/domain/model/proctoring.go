package model

// Prediction is one detection emitted by the client-side vision pipeline.
// The models themselves are external; only the class labels matter here.
type Prediction struct {
	Class      string  `json:"class"`
	Confidence float64 `json:"confidence"`
}

type DetectionEvent struct {
	Predictions  []Prediction `json:"predictions"`
	FaceDetected bool         `json:"faceDetected"`
}

// ProctoringVerdict is the server's response to one detection frame.
type ProctoringVerdict struct {
	Alert       string `json:"alert,omitempty"`
	AlertCount  int64  `json:"alertCount"`
	ForceLogout bool   `json:"forceLogout"`
}

const (
	AlertDevice   = "Electronic Device detected"
	AlertAudio    = "Headphones or Earbuds detected"
	AlertNoPerson = "No person detected"
	AlertMultiple = "More than one person detected"
)
