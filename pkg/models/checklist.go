package models

// ChecklistFlag names one of the compliance flags gating advanced transitions.
// The values double as the JSON field names accepted by checklist merges.
type ChecklistFlag string

const (
	FlagPTICompliance      ChecklistFlag = "ptiCompliance"
	FlagRightsCleared      ChecklistFlag = "rightsCleared"
	FlagAttributionPresent ChecklistFlag = "attributionPresent"
	FlagDefamationScanOk   ChecklistFlag = "defamationScanOk"
)

// ChecklistFlags lists every known flag in a stable order.
var ChecklistFlags = []ChecklistFlag{
	FlagPTICompliance,
	FlagRightsCleared,
	FlagAttributionPresent,
	FlagDefamationScanOk,
}

// Checklist holds the four compliance booleans attached to a story.
// All flags default to false at story creation and are only ever changed
// through a partial merge; flags absent from a merge keep their prior value.
type Checklist struct {
	PTICompliance      bool `json:"ptiCompliance"`
	RightsCleared      bool `json:"rightsCleared"`
	AttributionPresent bool `json:"attributionPresent"`
	DefamationScanOk   bool `json:"defamationScanOk"`
}

// Flag returns the current value of a single checklist flag.
func (c Checklist) Flag(flag ChecklistFlag) bool {
	switch flag {
	case FlagPTICompliance:
		return c.PTICompliance
	case FlagRightsCleared:
		return c.RightsCleared
	case FlagAttributionPresent:
		return c.AttributionPresent
	case FlagDefamationScanOk:
		return c.DefamationScanOk
	default:
		return false
	}
}

// SetFlag sets a single checklist flag, reporting whether the flag is known.
func (c *Checklist) SetFlag(flag ChecklistFlag, value bool) bool {
	switch flag {
	case FlagPTICompliance:
		c.PTICompliance = value
	case FlagRightsCleared:
		c.RightsCleared = value
	case FlagAttributionPresent:
		c.AttributionPresent = value
	case FlagDefamationScanOk:
		c.DefamationScanOk = value
	default:
		return false
	}

	return true
}

// Missing returns the subset of required flags that are currently false,
// preserving the order of the input.
func (c Checklist) Missing(required []ChecklistFlag) []ChecklistFlag {
	var missing []ChecklistFlag

	for _, flag := range required {
		if !c.Flag(flag) {
			missing = append(missing, flag)
		}
	}

	return missing
}
