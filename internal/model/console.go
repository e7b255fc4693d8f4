package model

// Console models
type ConsoleModel string

const (
	ConsoleGeneric            ConsoleModel = "generic"
	ConsoleBehringerX32       ConsoleModel = "behringer_x32"
	ConsoleBehringerXAir      ConsoleModel = "behringer_xair"
	ConsoleMidasM32           ConsoleModel = "midas_m32"
	ConsoleAllenHeathSQ       ConsoleModel = "allen_heath_sq"
	ConsoleAllenHeathQu       ConsoleModel = "allen_heath_qu"
	ConsoleAllenHeathCQ       ConsoleModel = "allen_heath_cq"
	ConsoleYamahaTF           ConsoleModel = "yamaha_tf"
	ConsoleYamahaQL           ConsoleModel = "yamaha_ql"
	ConsolePresonusStudioLive ConsoleModel = "presonus_studiolive"
	ConsoleSoundcraftUi       ConsoleModel = "soundcraft_ui"
)

// ConsoleProfile describes what a console's input channels can do.
type ConsoleProfile struct {
	Model         ConsoleModel `json:"model"`
	DisplayName   string       `json:"displayName"`
	GainMinDB     float64      `json:"gainMinDb"`
	GainMaxDB     float64      `json:"gainMaxDb"`
	EQBands       int          `json:"eqBands"`
	HasCompressor bool         `json:"hasCompressor"`
}

var consoleProfiles = []ConsoleProfile{
	{ConsoleGeneric, "Generic / Analog", 0, 60, 3, false},
	{ConsoleBehringerX32, "Behringer X32", -12, 60, 4, true},
	{ConsoleBehringerXAir, "Behringer X Air", -12, 60, 4, true},
	{ConsoleMidasM32, "Midas M32", -2.5, 60, 4, true},
	{ConsoleAllenHeathSQ, "Allen & Heath SQ", 0, 60, 4, true},
	{ConsoleAllenHeathQu, "Allen & Heath Qu", 5, 60, 4, true},
	{ConsoleAllenHeathCQ, "Allen & Heath CQ", 0, 60, 4, true},
	{ConsoleYamahaTF, "Yamaha TF", -6, 66, 4, true},
	{ConsoleYamahaQL, "Yamaha QL", -6, 66, 4, true},
	{ConsolePresonusStudioLive, "PreSonus StudioLive", 0, 60, 4, true},
	{ConsoleSoundcraftUi, "Soundcraft Ui", 0, 57, 4, true},
}

// Profile returns the capability descriptor for m. Unknown and empty
// models resolve to the generic profile.
func (m ConsoleModel) Profile() ConsoleProfile {
	for _, p := range consoleProfiles {
		if p.Model == m {
			return p
		}
	}
	return consoleProfiles[0]
}

// Known reports whether m is in the catalogue.
func (m ConsoleModel) Known() bool {
	for _, p := range consoleProfiles {
		if p.Model == m {
			return true
		}
	}
	return false
}

// ConsoleProfiles returns a copy of the catalogue.
func ConsoleProfiles() []ConsoleProfile {
	out := make([]ConsoleProfile, len(consoleProfiles))
	copy(out, consoleProfiles)
	return out
}
