package device

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"flightrec/internal/failure"
)

type settingKind int

const (
	settingText settingKind = iota
	settingByte
)

type settingSpec struct {
	kind  settingKind
	width int
}

// Memory-mapped settings exposed by the recorder.
var settings = map[string]settingSpec{
	"glider_id":          {kind: settingText, width: 16},
	"glider_type":        {kind: settingText, width: 16},
	"pilot_name":         {kind: settingText, width: 16},
	"recording_interval": {kind: settingByte},
}

// SettingKeys returns the supported setting keys, sorted.
func SettingKeys() []string {
	keys := make([]string, 0, len(settings))
	for key := range settings {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func settingList() string {
	return strings.Join(SettingKeys(), ", ")
}

// CheckSettingKey reports an *UnknownSettingError when key is not mapped.
func CheckSettingKey(key string) error {
	if _, ok := settings[key]; !ok {
		return &UnknownSettingError{Key: key}
	}
	return nil
}

// ParseSettingValue validates raw for key and returns the value the device
// will store. Text settings are folded to ASCII and truncated; byte settings
// must be integers between 0 and 255.
func ParseSettingValue(key, raw string) (string, error) {
	spec, ok := settings[key]
	if !ok {
		return "", &UnknownSettingError{Key: key}
	}
	switch spec.kind {
	case settingByte:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || n < 0 || n > 255 {
			return "", failure.Wrap(failure.ErrValidation, "settings", key,
				fmt.Sprintf("value %q must be an integer between 0 and 255", raw), nil)
		}
		return strconv.Itoa(n), nil
	default:
		return asciiField(raw, spec.width), nil
	}
}
