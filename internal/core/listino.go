package core

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Voce is a quick-pick price list entry. Selecting one presets the receipt's
// category, amount and reason before validation.
type Voce struct {
	Nome     string `yaml:"nome"`
	TipoVoce string `yaml:"tipo_voce"`
	Importo  string `yaml:"importo"`
	Causale  string `yaml:"causale"`
}

// DefaultListino returns the built-in quick-pick templates.
func DefaultListino() []Voce {
	return []Voce{
		{
			Nome:     "Quota associativa annuale",
			TipoVoce: "Quota associativa annuale",
			Importo:  "120.00",
			Causale:  "Quota associativa annuale stagione sportiva",
		},
		{
			Nome:     "Quota mensile corso base",
			TipoVoce: "Quota associativa mensile",
			Importo:  "40.00",
			Causale:  "Quota associativa mensile corso base",
		},
		{
			Nome:     "Contributo centro estivo",
			TipoVoce: "Contributo associativo",
			Importo:  "150.00",
			Causale:  "Contributo associativo per centro estivo",
		},
		{
			Nome:     "Erogazione liberale standard",
			TipoVoce: "Erogazione liberale",
			Importo:  "50.00",
			Causale:  "Erogazione liberale a sostegno dell'attività istituzionale",
		},
	}
}

// LoadListino reads quick-pick templates from a YAML file. Every entry must
// carry a name and a parseable amount.
func LoadListino(path string) ([]Voce, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read listino: %w", err)
	}
	var voci []Voce
	if err := yaml.Unmarshal(raw, &voci); err != nil {
		return nil, fmt.Errorf("parse listino: %w", err)
	}
	for i, v := range voci {
		if v.Nome == "" {
			return nil, fmt.Errorf("listino entry %d: missing nome", i)
		}
		if _, err := ParseDecimalToCents(v.Importo); err != nil {
			return nil, fmt.Errorf("listino entry %q: %w", v.Nome, err)
		}
	}
	return voci, nil
}

// FindVoce looks up a template by name.
func FindVoce(listino []Voce, nome string) (Voce, bool) {
	for _, v := range listino {
		if v.Nome == nome {
			return v, true
		}
	}
	return Voce{}, false
}

// CausaleFallback is used when neither the caller nor the category lookup
// provides a reason text.
const CausaleFallback = "Attività istituzionale sportiva"

// DefaultCausale returns the standard reason text for a category tag, or ""
// for categories without one.
func DefaultCausale(tipoVoce string) string {
	switch tipoVoce {
	case "Quota associativa annuale":
		return "Quota associativa annuale stagione sportiva"
	case "Quota associativa mensile":
		return "Quota associativa mensile"
	case "Contributo associativo":
		return "Contributo associativo per attività istituzionale"
	case "Erogazione liberale":
		return "Erogazione liberale a sostegno dell'attività istituzionale"
	default:
		return ""
	}
}

// LoadAssociation reads the association profile from a YAML file. When the
// profile names a logo file, its bytes are loaded alongside.
func LoadAssociation(path string) (Association, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Association{}, fmt.Errorf("read association profile: %w", err)
	}
	var withLogo struct {
		Association `yaml:",inline"`
		LogoFile    string `yaml:"logo_file"`
	}
	if err := yaml.Unmarshal(raw, &withLogo); err != nil {
		return Association{}, fmt.Errorf("parse association profile: %w", err)
	}
	a := withLogo.Association
	if withLogo.LogoFile != "" {
		logo, err := os.ReadFile(withLogo.LogoFile)
		if err != nil {
			return Association{}, fmt.Errorf("read logo: %w", err)
		}
		a.Logo = logo
	}
	return a, nil
}
