package modules

type Settings struct {
	Disabled map[string]bool // module IDs, lower-case
	Only     map[string]bool // when non-empty, restrict matching to these module IDs
}

var msettings = Settings{
	Disabled: map[string]bool{},
	Only:     map[string]bool{},
}

func SetSettings(s Settings) {
	// fill defaults
	if s.Disabled == nil {
		s.Disabled = map[string]bool{}
	}
	if s.Only == nil {
		s.Only = map[string]bool{}
	}
	msettings = s
}
