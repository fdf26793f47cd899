package types

import "github.com/google/uuid"

const (
	DefaultLevel       uint32  = 200
	DefaultProfileName         = "Player"
	MaxOpacity         float64 = 0.98
	MinOpacity         float64 = 0.0

	DefaultResetConfShortcut       = "Alt+Shift+P"
	DefaultGoNextStepShortcut      = "CommandOrControl+Shift+E"
	DefaultGoPreviousStepShortcut  = "CommandOrControl+Shift+A"
	DefaultCopyCurrentStepShortcut = "CommandOrControl+Shift+C"
)

// ConfLang is the guide language selected in the UI.
type ConfLang string

const (
	LangEn ConfLang = "En"
	LangFr ConfLang = "Fr"
	LangEs ConfLang = "Es"
	LangPt ConfLang = "Pt"
)

// FontSize is the guide text size selected in the UI.
type FontSize string

const (
	FontExtraSmall FontSize = "ExtraSmall"
	FontSmall      FontSize = "Small"
	FontNormal     FontSize = "Normal"
	FontLarge      FontSize = "Large"
	FontExtraLarge FontSize = "ExtraLarge"
)

// Conf is the whole local configuration document (conf.json).
type Conf struct {
	AutoTravelCopy bool        `json:"autoTravelCopy"`
	ShowDoneGuides bool        `json:"showDoneGuides"`
	Lang           ConfLang    `json:"lang"`
	FontSize       FontSize    `json:"fontSize"`
	Profiles       []Profile   `json:"profiles"`
	ProfileInUse   string      `json:"profileInUse"`
	AutoPilots     []AutoPilot `json:"autoPilots"`
	Notes          []Note      `json:"notes"`
	Opacity        float64     `json:"opacity"`
	AutoOpenGuides bool        `json:"autoOpenGuides"`
	Shortcuts      Shortcuts   `json:"shortcuts"`
}

// Shortcuts holds the global shortcut accelerators.
type Shortcuts struct {
	ResetConf       string `json:"resetConf"`
	GoNextStep      string `json:"goNextStep"`
	GoPreviousStep  string `json:"goPreviousStep"`
	CopyCurrentStep string `json:"copyCurrentStep"`
}

// Profile is a local player persona. ID never changes and is the sync key (uuid on the server).
type Profile struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Level      uint32     `json:"level"`
	Progresses []Progress `json:"progresses"`
	ServerID   *uint32    `json:"server_id,omitempty"`
}

// Progress is the state of one guide for one profile.
type Progress struct {
	ID          uint32              `json:"id"` // guide id
	CurrentStep uint32              `json:"currentStep"`
	Steps       map[uint32]ConfStep `json:"steps"`
	UpdatedAt   *string             `json:"updatedAt,omitempty"`
}

// ConfStep holds the checked checkbox indices of a guide step.
type ConfStep struct {
	Checkboxes []uint32 `json:"checkboxes"`
}

type AutoPilot struct {
	Name     string `json:"name"`
	Position string `json:"position"`
}

type Note struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

func DefaultShortcuts() Shortcuts {
	return Shortcuts{
		ResetConf:       DefaultResetConfShortcut,
		GoNextStep:      DefaultGoNextStepShortcut,
		GoPreviousStep:  DefaultGoPreviousStepShortcut,
		CopyCurrentStep: DefaultCopyCurrentStepShortcut,
	}
}

// NewProfile creates a profile with a fresh uuid.
func NewProfile(name string) Profile {
	if name == "" {
		name = DefaultProfileName
	}
	return Profile{
		ID:         uuid.New().String(),
		Name:       name,
		Level:      DefaultLevel,
		Progresses: []Progress{},
	}
}

// DefaultConf returns the first-run document: one default profile, selected.
func DefaultConf() *Conf {
	conf := DefaultPreferences()
	profile := NewProfile("")
	conf.Profiles = []Profile{profile}
	conf.ProfileInUse = profile.ID
	return conf
}

// DefaultPreferences returns a document with every preference defaulted and no profile.
// Decoding an older document on top of it fills the fields that document lacks.
func DefaultPreferences() *Conf {
	return &Conf{
		AutoTravelCopy: true,
		ShowDoneGuides: true,
		Lang:           LangFr,
		FontSize:       FontNormal,
		Profiles:       []Profile{},
		AutoPilots:     []AutoPilot{},
		Notes:          []Note{},
		Opacity:        MaxOpacity,
		AutoOpenGuides: true,
		Shortcuts:      DefaultShortcuts(),
	}
}
