package gesturear

import (
	"os"
	"strconv"
	"strings"
)

// Remote assets of the sample scene.
const (
	DefaultModelURL = "https://storage.googleapis.com/ar-answers-in-search-models/static/GiantPanda/model.glb"
	DefaultSoundURL = "https://storage.googleapis.com/ar-answers-in-search-models/static/GiantPanda/Bear_Panda_Giant_Unisex_Adult.ogg"
	DefaultLabel    = "Giant Panda"
)

// Config configures the interaction controller and its assets.
type Config struct {
	// ModelURL is the binary glTF model placed on the first plane tap.
	ModelURL string
	// SoundURL is the Ogg/Vorbis clip played while the model animates.
	SoundURL string
	// Label is the text on the card floating above the model.
	Label string

	// ModelScale is the uniform world scale of a newly placed model.
	ModelScale float64
	// LabelScale is the uniform world scale of the label card.
	LabelScale float64
	// LabelOffset is the label's height above the model, in model units.
	LabelOffset float64
	// ShrinkScale is the uniform world scale a long press sets on a node.
	ShrinkScale float64
	// AnimationPeriod is the model idle cycle length in seconds.
	AnimationPeriod float32

	// PreferredImageSize picks the camera config at session configuration.
	PreferredImageSize Size
	// TargetFPS filters camera configs by capture rate.
	TargetFPS TargetFPS

	Gesture GestureConfig
	Log     LogOptions
}

// DefaultConfig returns the configuration of the sample scene.
func DefaultConfig() Config {
	return Config{
		ModelURL:           DefaultModelURL,
		SoundURL:           DefaultSoundURL,
		Label:              DefaultLabel,
		ModelScale:         0.1,
		LabelScale:         0.1,
		LabelOffset:        1.0,
		ShrinkScale:        0.4,
		AnimationPeriod:    2,
		PreferredImageSize: Size{640, 480},
		TargetFPS:          TargetFPS30 | TargetFPS60,
		Gesture:            DefaultGestureConfig(),
		Log:                LogOptions{Level: "info", Format: "console", Component: "gesturear"},
	}
}

// ConfigFromEnv returns DefaultConfig with GESTUREAR_* environment overrides
// applied: MODEL_URL, SOUND_URL, LABEL, SHRINK_SCALE, LOG_LEVEL, LOG_FORMAT.
func ConfigFromEnv() Config {
	return configFromLookup(os.LookupEnv)
}

func configFromLookup(lookup func(string) (string, bool)) Config {
	cfg := DefaultConfig()
	get := func(key string) (string, bool) {
		v, ok := lookup("GESTUREAR_" + key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}
	if v, ok := get("MODEL_URL"); ok {
		cfg.ModelURL = v
	}
	if v, ok := get("SOUND_URL"); ok {
		cfg.SoundURL = v
	}
	if v, ok := get("LABEL"); ok {
		cfg.Label = v
	}
	if v, ok := get("SHRINK_SCALE"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.ShrinkScale = f
		}
	}
	if v, ok := get("LOG_LEVEL"); ok {
		cfg.Log.Level = v
	}
	if v, ok := get("LOG_FORMAT"); ok {
		cfg.Log.Format = v
	}
	return cfg
}
