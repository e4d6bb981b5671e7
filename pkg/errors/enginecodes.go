package errors

// EngineErrorKind is the error-kind string reported by a dictation engine's
// error callback.
type EngineErrorKind string

// Engine error kinds.
const (
	KindPermissionDenied   EngineErrorKind = "permission-denied"
	KindNoSpeech           EngineErrorKind = "no-speech"
	KindNetwork            EngineErrorKind = "network"
	KindAborted            EngineErrorKind = "aborted"
	KindServiceUnavailable EngineErrorKind = "service-unavailable"
	KindOther              EngineErrorKind = "other"
)

// EngineErrorInfo contains metadata about an engine error kind.
type EngineErrorInfo struct {
	Kind            EngineErrorKind
	Fatal           bool
	Ignorable       bool
	Description     string
	SuggestedAction string
}

// EngineErrorRegistry maps engine error kinds to their metadata.
var EngineErrorRegistry = map[EngineErrorKind]EngineErrorInfo{
	KindPermissionDenied: {
		Kind:            KindPermissionDenied,
		Fatal:           true,
		Description:     "Microphone or recognition access was declined",
		SuggestedAction: "Grant microphone access and start a new session",
	},
	KindNoSpeech: {
		Kind:            KindNoSpeech,
		Ignorable:       true,
		Description:     "No speech detected before the engine timed out",
		SuggestedAction: "No action needed; the engine restarts on the next utterance",
	},
	KindAborted: {
		Kind:            KindAborted,
		Ignorable:       true,
		Description:     "Recognition was aborted, usually by a restart",
		SuggestedAction: "No action needed",
	},
	KindNetwork: {
		Kind:            KindNetwork,
		Description:     "Network hiccup while streaming audio to the recognizer",
		SuggestedAction: "Recording continues; check connectivity if this repeats",
	},
	KindServiceUnavailable: {
		Kind:            KindServiceUnavailable,
		Description:     "Recognition service temporarily unavailable",
		SuggestedAction: "Recording continues; stop and retry if this persists",
	},
	KindOther: {
		Kind:            KindOther,
		Description:     "Unclassified engine error",
		SuggestedAction: "Check the session log: mins doctor",
	},
}

// IsFatalKind returns true if the kind ends the session with no auto-restart.
func IsFatalKind(kind EngineErrorKind) bool {
	if info, ok := EngineErrorRegistry[kind]; ok {
		return info.Fatal
	}
	return false
}

// IsIgnorableKind returns true if the kind is an expected non-error that is
// never surfaced to the caller.
func IsIgnorableKind(kind EngineErrorKind) bool {
	if info, ok := EngineErrorRegistry[kind]; ok {
		return info.Ignorable
	}
	return false
}

// KindDescription returns the human-readable description for the given kind.
func KindDescription(kind EngineErrorKind) string {
	if info, ok := EngineErrorRegistry[kind]; ok {
		return info.Description
	}
	return "Unknown engine error"
}

// KindSuggestedAction returns the suggested action for the given kind.
func KindSuggestedAction(kind EngineErrorKind) string {
	if info, ok := EngineErrorRegistry[kind]; ok {
		return info.SuggestedAction
	}
	return "Check the session log for details"
}
