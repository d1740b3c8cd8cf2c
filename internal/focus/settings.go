package focus

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidSettings is wrapped by every settings validation failure.
var ErrInvalidSettings = errors.New("invalid settings")

// Settings are the user-tunable timer options. Durations are minutes.
type Settings struct {
	FocusDuration      int         `json:"focusDuration" validate:"min=1,max=120"`
	ShortBreakDuration int         `json:"shortBreakDuration" validate:"min=1,max=30"`
	LongBreakDuration  int         `json:"longBreakDuration" validate:"min=5,max=60"`
	AutoStartBreaks    bool        `json:"autoStartBreaks"`
	AutoStartPomodoros bool        `json:"autoStartPomodoros"`
	LongBreakInterval  int         `json:"longBreakInterval" validate:"min=2,max=10"`
	SoundOption        SoundOption `json:"soundOption" validate:"oneof=bell chime notification"`
}

// Bound is the inclusive range accepted for a numeric setting.
type Bound struct {
	Min, Max int
}

// Bounds is keyed by the JSON name of the setting.
var Bounds = map[string]Bound{
	"focusDuration":      {1, 120},
	"shortBreakDuration": {1, 30},
	"longBreakDuration":  {5, 60},
	"longBreakInterval":  {2, 10},
}

func DefaultSettings() Settings {
	return Settings{
		FocusDuration:      25,
		ShortBreakDuration: 5,
		LongBreakDuration:  15,
		AutoStartBreaks:    false,
		AutoStartPomodoros: false,
		LongBreakInterval:  4,
		SoundOption:        SoundBell,
	}
}

// DurationOf returns the full length of mode in seconds.
func (s Settings) DurationOf(m Mode) int {
	switch m {
	case ModeShortBreak:
		return s.ShortBreakDuration * 60
	case ModeLongBreak:
		return s.LongBreakDuration * 60
	default:
		return s.FocusDuration * 60
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate checks every field against its bounds.
func (s Settings) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if b, ok := Bounds[fe.Field()]; ok {
			msgs = append(msgs, fmt.Sprintf("%s must be between %d and %d (got %v)", fe.Field(), b.Min, b.Max, fe.Value()))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s must be one of %s (got %q)", fe.Field(), fe.Param(), fe.Value()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidSettings, strings.Join(msgs, "; "))
}

// SettingsPatch is a partial update; nil fields are left unchanged.
type SettingsPatch struct {
	FocusDuration      *int
	ShortBreakDuration *int
	LongBreakDuration  *int
	AutoStartBreaks    *bool
	AutoStartPomodoros *bool
	LongBreakInterval  *int
	SoundOption        *SoundOption
}

func (p SettingsPatch) Empty() bool {
	return p == SettingsPatch{}
}

// Apply returns s with the patch merged in. The result is validated as a
// whole; on error s is returned unchanged alongside the error.
func (s Settings) Apply(p SettingsPatch) (Settings, error) {
	next := s
	if p.FocusDuration != nil {
		next.FocusDuration = *p.FocusDuration
	}
	if p.ShortBreakDuration != nil {
		next.ShortBreakDuration = *p.ShortBreakDuration
	}
	if p.LongBreakDuration != nil {
		next.LongBreakDuration = *p.LongBreakDuration
	}
	if p.AutoStartBreaks != nil {
		next.AutoStartBreaks = *p.AutoStartBreaks
	}
	if p.AutoStartPomodoros != nil {
		next.AutoStartPomodoros = *p.AutoStartPomodoros
	}
	if p.LongBreakInterval != nil {
		next.LongBreakInterval = *p.LongBreakInterval
	}
	if p.SoundOption != nil {
		next.SoundOption = *p.SoundOption
	}
	if err := next.Validate(); err != nil {
		return s, err
	}
	return next, nil
}
