package schema

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed presets.json
var embeddedPresets []byte

// Presets returns the built-in categories every installation carries
func Presets() ([]Category, error) {
	var cats []Category
	if err := json.Unmarshal(embeddedPresets, &cats); err != nil {
		return nil, fmt.Errorf("decode presets: %w", err)
	}
	for i := range cats {
		cats[i].IsPreset = true
		if cats[i].Priority == "" {
			cats[i].Priority = PriorityMedium
		}
		if err := cats[i].Check(); err != nil {
			return nil, fmt.Errorf("preset %q: %w", cats[i].Name, err)
		}
	}
	return cats, nil
}

// MustPresets is Presets for init paths
func MustPresets() []Category {
	cats, err := Presets()
	if err != nil {
		panic(err)
	}
	return cats
}
