package session

// Recorder receives session lifecycle events. *metrics.Auth satisfies it.
type Recorder interface {
	SessionIssued()
	SessionRevoked()
	ObserveVerification(outcome string)
}

type nopRecorder struct{}

func (nopRecorder) SessionIssued()             {}
func (nopRecorder) SessionRevoked()            {}
func (nopRecorder) ObserveVerification(string) {}
