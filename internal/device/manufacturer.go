package device

import "strings"

// Manufacturer names and IGC codes for the supported model families.
const (
	Flytec    = "Flytec"
	Brauniger = "Brauniger"
)

var models = map[string]string{
	"5020":       Flytec,
	"5030":       Flytec,
	"6020":       Flytec,
	"6030":       Flytec,
	"COMPEO":     Brauniger,
	"COMPEO+":    Brauniger,
	"COMPETINO":  Brauniger,
	"COMPETINO+": Brauniger,
	"GALILEO":    Brauniger,
}

// ManufacturerFor returns the manufacturer of model, or "" when unknown.
func ManufacturerFor(model string) string {
	return models[strings.ToUpper(strings.TrimSpace(model))]
}

// IGCCode returns the three-letter IGC manufacturer code.
func IGCCode(manufacturer string) string {
	switch manufacturer {
	case Brauniger:
		return "BRA"
	case Flytec:
		return "FLY"
	default:
		return "XXX"
	}
}
