package parameter

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/lixenwraith/shoal/core"
)

// ErrInvalidConfig wraps every validation failure
var ErrInvalidConfig = errors.New("invalid config")

// Config is the complete runtime configuration
// Precedence: defaults < TOML file < SHOAL_* environment < command-line flags
type Config struct {
	Particles int   `toml:"particles"`
	Seed      int64 `toml:"seed"` // 0 seeds from the clock

	Grid    GridConfig    `toml:"grid"`
	Motion  MotionConfig  `toml:"motion"`
	Trigger TriggerConfig `toml:"trigger"`
	Input   InputConfig   `toml:"input"`
	Display DisplayConfig `toml:"display"`
	Audio   AudioConfig   `toml:"audio"`
}

type GridConfig struct {
	Cols          int      `toml:"cols"`
	Rows          int      `toml:"rows"`
	Palette       []string `toml:"palette"`
	BaseOctave    int      `toml:"base_octave"`
	MinLoudnessDb float64  `toml:"min_loudness_db"`
}

type MotionConfig struct {
	DecelerationRadius  float64 `toml:"deceleration_radius"`
	CursorGain          float64 `toml:"cursor_gain"`
	SchoolingSpeedLimit float64 `toml:"schooling_speed_limit"`
	JitterGain          float64 `toml:"jitter_gain"`
	AnchorThreshold     float64 `toml:"anchor_threshold"`
	AnchorGain          float64 `toml:"anchor_gain"`
	EdgeMargin          float64 `toml:"edge_margin"`
	EdgePush            float64 `toml:"edge_push"`
	SeparationRadius    float64 `toml:"separation_radius"`
	SeparationGain      float64 `toml:"separation_gain"`
	ShoalingSpeedLimit  float64 `toml:"shoaling_speed_limit"`
}

type TriggerConfig struct {
	Probability  float64       `toml:"probability"`
	NoteDuration time.Duration `toml:"note_duration"`
	CutoffMinHz  float64       `toml:"cutoff_min_hz"`
	CutoffMaxHz  float64       `toml:"cutoff_max_hz"`
	// Highlight is "last-writer" or "occupancy"
	Highlight string `toml:"highlight"`
}

type InputConfig struct {
	ReleaseDelay time.Duration `toml:"release_delay"`
	// CancelOnPress makes a new press cancel a pending target clear
	CancelOnPress bool `toml:"cancel_on_press"`
}

type DisplayConfig struct {
	FrameInterval  time.Duration `toml:"frame_interval"`
	UnitsPerColumn float64       `toml:"units_per_column"`
	UnitsPerRow    float64       `toml:"units_per_row"`
}

// FPS is the frame rate implied by FrameInterval, at least 1 once validated
func (d DisplayConfig) FPS() int {
	return int(time.Second / d.FrameInterval)
}

type AudioConfig struct {
	Enabled      bool          `toml:"enabled"`
	MasterVolume float64       `toml:"master_volume"`
	Voices       int           `toml:"voices"`
	ReverbDecay  time.Duration `toml:"reverb_decay"`
	ReverbWet    float64       `toml:"reverb_wet"`
}

// Default returns the reference configuration
func Default() *Config {
	palette := make([]string, len(GridPalette))
	copy(palette, GridPalette)

	return &Config{
		Particles: ParticleCount,
		Grid: GridConfig{
			Cols:          GridCols,
			Rows:          GridRows,
			Palette:       palette,
			BaseOctave:    GridBaseOctave,
			MinLoudnessDb: GridMinLoudnessDb,
		},
		Motion: MotionConfig{
			DecelerationRadius:  DecelerationRadius,
			CursorGain:          CursorGain,
			SchoolingSpeedLimit: SchoolingSpeedLimit,
			JitterGain:          JitterGain,
			AnchorThreshold:     AnchorThreshold,
			AnchorGain:          AnchorGain,
			EdgeMargin:          EdgeMargin,
			EdgePush:            EdgePush,
			SeparationRadius:    SeparationRadius,
			SeparationGain:      SeparationGain,
			ShoalingSpeedLimit:  ShoalingSpeedLimit,
		},
		Trigger: TriggerConfig{
			Probability:  TriggerProbability,
			NoteDuration: NoteDuration,
			CutoffMinHz:  CutoffMinHz,
			CutoffMaxHz:  CutoffMaxHz,
			Highlight:    "last-writer",
		},
		Input: InputConfig{
			ReleaseDelay: ReleaseDelay,
		},
		Display: DisplayConfig{
			FrameInterval:  FrameInterval,
			UnitsPerColumn: UnitsPerColumn,
			UnitsPerRow:    UnitsPerRow,
		},
		Audio: AudioConfig{
			Enabled:      true,
			MasterVolume: 0.5,
			Voices:       16,
			ReverbDecay:  ReverbDecay,
			ReverbWet:    ReverbWet,
		},
	}
}

// LoadFile overlays a TOML file onto cfg; keys absent from the file keep their value
func LoadFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("%w: unknown key %q in %s", ErrInvalidConfig, undecoded[0].String(), path)
	}
	return nil
}

// ApplyEnv overlays SHOAL_* environment variables; malformed values are ignored
func ApplyEnv(cfg *Config) {
	if v := os.Getenv("SHOAL_PARTICLES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Particles = n
		}
	}
	if v := os.Getenv("SHOAL_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Seed = n
		}
	}
	if v := os.Getenv("SHOAL_PROBABILITY"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Trigger.Probability = f
		}
	}
	if v := os.Getenv("SHOAL_HIGHLIGHT"); v != "" {
		cfg.Trigger.Highlight = v
	}
	if v := os.Getenv("SHOAL_CANCEL_ON_PRESS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Input.CancelOnPress = b
		}
	}
	if v := os.Getenv("SHOAL_AUDIO_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Audio.Enabled = b
		}
	}
}

// Validate reports the first setting the simulation cannot run with
func (c *Config) Validate() error {
	switch {
	case c.Particles < 0:
		return fmt.Errorf("%w: particles %d", ErrInvalidConfig, c.Particles)
	case c.Grid.Cols <= 0 || c.Grid.Rows <= 0:
		return fmt.Errorf("%w: grid %dx%d", ErrInvalidConfig, c.Grid.Cols, c.Grid.Rows)
	case len(c.Grid.Palette) == 0:
		return fmt.Errorf("%w: empty palette", ErrInvalidConfig)
	case c.Trigger.Probability < 0 || c.Trigger.Probability > 1:
		return fmt.Errorf("%w: probability %v", ErrInvalidConfig, c.Trigger.Probability)
	case c.Trigger.CutoffMinHz <= 0 || c.Trigger.CutoffMaxHz < c.Trigger.CutoffMinHz:
		return fmt.Errorf("%w: cutoff range %v-%v", ErrInvalidConfig, c.Trigger.CutoffMinHz, c.Trigger.CutoffMaxHz)
	case c.Trigger.NoteDuration <= 0:
		return fmt.Errorf("%w: note duration %v", ErrInvalidConfig, c.Trigger.NoteDuration)
	case c.Trigger.Highlight != "last-writer" && c.Trigger.Highlight != "occupancy":
		return fmt.Errorf("%w: highlight %q", ErrInvalidConfig, c.Trigger.Highlight)
	case c.Motion.SchoolingSpeedLimit < 0 || c.Motion.ShoalingSpeedLimit < 0:
		return fmt.Errorf("%w: negative speed limit", ErrInvalidConfig)
	case c.Input.ReleaseDelay < 0:
		return fmt.Errorf("%w: release delay %v", ErrInvalidConfig, c.Input.ReleaseDelay)
	case c.Display.FrameInterval <= 0 || c.Display.FrameInterval > time.Second:
		return fmt.Errorf("%w: frame interval %v outside (0, 1s]", ErrInvalidConfig, c.Display.FrameInterval)
	case c.Display.UnitsPerColumn <= 0 || c.Display.UnitsPerRow <= 0:
		return fmt.Errorf("%w: display scale", ErrInvalidConfig)
	case c.Audio.ReverbWet < 0 || c.Audio.ReverbWet > 1 || c.Audio.ReverbDecay < 0:
		return fmt.Errorf("%w: reverb %v wet %v", ErrInvalidConfig, c.Audio.ReverbDecay, c.Audio.ReverbWet)
	}

	if _, err := c.PaletteClasses(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// PaletteClasses parses the grid palette
func (c *Config) PaletteClasses() ([]core.PitchClass, error) {
	classes := make([]core.PitchClass, 0, len(c.Grid.Palette))
	for _, name := range c.Grid.Palette {
		pc, err := core.ParsePitchClass(name)
		if err != nil {
			return nil, err
		}
		classes = append(classes, pc)
	}
	return classes, nil
}
