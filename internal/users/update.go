package users

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
)

type columnKind int

const (
	kindText   columnKind = iota
	kindFlag01            // '0' or '1'
	kindFlagYN            // 'Y' or 'N'
	kindInt
	kindLevel // role level, 1..9
)

// ErrEmptyUpdate is returned when the caller supplies no fields to change.
var ErrEmptyUpdate = errors.New("No data to update.")

// mutableColumns is the explicit allow-list of vicidial_users columns a
// partial update may touch. Anything outside it is rejected before any SQL
// is built; the schema's remaining columns stay admin-tool-only.
var mutableColumns = map[string]columnKind{
	"pass":                    kindText,
	"full_name":               kindText,
	"user_level":              kindLevel,
	"user_group":              kindText,
	"active":                  kindFlagYN,
	"email":                   kindText,
	"phone_login":             kindText,
	"phone_pass":              kindText,
	"mobile_number":           kindText,
	"user_nickname":           kindText,
	"user_code":               kindText,
	"territory":               kindText,
	"voicemail_id":            kindText,
	"user_location":           kindText,
	"selected_language":       kindText,
	"closer_campaigns":        kindText,
	"custom_one":              kindText,
	"custom_two":              kindText,
	"custom_three":            kindText,
	"custom_four":             kindText,
	"custom_five":             kindText,
	"hotkeys_active":          kindFlag01,
	"scheduled_callbacks":     kindFlag01,
	"agentonly_callbacks":     kindFlag01,
	"agentcall_manual":        kindFlag01,
	"vicidial_recording":      kindFlag01,
	"vicidial_transfers":      kindFlag01,
	"agent_choose_ingroups":   kindFlag01,
	"agent_choose_blended":    kindFlag01,
	"closer_default_blended":  kindFlag01,
	"view_reports":            kindFlag01,
	"export_reports":          kindFlag01,
	"download_lists":          kindFlag01,
	"load_leads":              kindFlag01,
	"modify_leads":            kindFlag01,
	"modify_users":            kindFlag01,
	"modify_campaigns":        kindFlag01,
	"modify_lists":            kindFlag01,
	"delete_users":            kindFlag01,
	"delete_lists":            kindFlag01,
	"delete_campaigns":        kindFlag01,
	"qc_enabled":              kindFlag01,
	"force_change_password":   kindFlagYN,
	"wrapup_seconds_override": kindInt,
	"max_inbound_calls":       kindInt,
	"user_new_lead_limit":     kindInt,
	"ready_max_logout":        kindInt,
}

// BuildSet validates a caller-supplied field map against the allow-list and
// normalizes values for the UPDATE statement. Column order is stable so
// statements are deterministic.
func BuildSet(input map[string]any) ([]Field, error) {
	if len(input) == 0 {
		return nil, ErrEmptyUpdate
	}

	cols := make([]string, 0, len(input))
	for col := range input {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	set := make([]Field, 0, len(cols))
	for _, col := range cols {
		kind, ok := mutableColumns[col]
		if !ok {
			return nil, fmt.Errorf("field %q cannot be updated", col)
		}
		v, err := normalize(col, kind, input[col])
		if err != nil {
			return nil, err
		}
		set = append(set, Field{col, v})
	}
	return set, nil
}

func normalize(col string, kind columnKind, v any) (any, error) {
	switch kind {
	case kindText:
		if v == nil {
			return nil, nil
		}
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("field %q must be a string", col)
		}
		return s, nil
	case kindFlag01:
		s, ok := v.(string)
		if !ok || (s != "0" && s != "1") {
			return nil, fmt.Errorf("field %q must be '0' or '1'", col)
		}
		return s, nil
	case kindFlagYN:
		s, ok := v.(string)
		if !ok || (s != "Y" && s != "N") {
			return nil, fmt.Errorf("field %q must be 'Y' or 'N'", col)
		}
		return s, nil
	case kindInt:
		return toInt(col, v)
	case kindLevel:
		n, err := toInt(col, v)
		if err != nil {
			return nil, err
		}
		if n < 1 || n > 9 {
			return nil, fmt.Errorf("field %q must be between 1 and 9", col)
		}
		return n, nil
	}
	return nil, fmt.Errorf("field %q has no validator", col)
}

func toInt(col string, v any) (int, error) {
	switch n := v.(type) {
	case float64:
		// JSON numbers decode as float64.
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("field %q must be an integer", col)
		}
		return int(n), nil
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, fmt.Errorf("field %q must be an integer", col)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("field %q must be an integer", col)
	}
}
