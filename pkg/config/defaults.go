package config

const (
	defaultCameraPath          = "/World/RenderCamera"
	defaultCameraWidth         = 1920
	defaultCameraHeight        = 1080
	defaultCameraFrameRate     = 30.0
	defaultTargetPath          = "/World/clean_object"
	defaultDistanceMultiplier  = 3.0
	defaultMinDistance         = 0.5
	defaultVerticalOffsetRatio = 0.5
	defaultCameraAxes          = "world"
	defaultObjectPath          = "World/clean_mussel"
	defaultGroundPath          = "World/GroundPlane"
	defaultOutputSubdir        = "rendered_images"
	defaultTimelineFPS         = 30.0
	defaultEvalTimeoutSeconds  = 5
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultLogColor            = "auto"
)

var defaultInitialPosition = [3]float64{0.5, 0.5, 0.5}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Camera: Camera{
			Path:            defaultCameraPath,
			InitialPosition: defaultInitialPosition,
			Width:           defaultCameraWidth,
			Height:          defaultCameraHeight,
			FrameRate:       defaultCameraFrameRate,
		},
		Framing: Framing{
			Target:              defaultTargetPath,
			DistanceMultiplier:  defaultDistanceMultiplier,
			MinDistance:         defaultMinDistance,
			VerticalOffsetRatio: defaultVerticalOffsetRatio,
			Axes:                defaultCameraAxes,
		},
		Verify: Verify{
			ObjectPath: defaultObjectPath,
			GroundPath: defaultGroundPath,
		},
		Scene: Scene{
			TimelineFPS:        defaultTimelineFPS,
			EvalTimeoutSeconds: defaultEvalTimeoutSeconds,
		},
		Output: Output{
			Subdir:        defaultOutputSubdir,
			WriteManifest: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
			Color:  defaultLogColor,
		},
	}
}
