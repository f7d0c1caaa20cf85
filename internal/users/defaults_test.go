package users

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordMap(t *testing.T, record []Field) map[string]any {
	t.Helper()
	m := make(map[string]any, len(record))
	for _, f := range record {
		_, dup := m[f.Column]
		require.False(t, dup, "duplicate column %q", f.Column)
		m[f.Column] = f.Value
	}
	return m
}

func TestDefaultRecord(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 30, 45, 999_000_000, time.Local)
	m := recordMap(t, DefaultRecord(now))

	assert.Equal(t, "Y", m["active"])
	assert.Equal(t, "1", m["agent_choose_ingroups"])
	assert.Equal(t, "1", m["scheduled_callbacks"])
	assert.Equal(t, "1", m["vicidial_recording"])
	assert.Equal(t, "0", m["delete_users"])
	assert.Equal(t, "N", m["force_change_password"])
	assert.Equal(t, "DISABLED", m["vicidial_recording_override"])
	assert.Equal(t, "NOT_ACTIVE", m["alter_custdata_override"])
	assert.Equal(t, "ALL_FUNCTIONS", m["api_allowed_functions"])
	assert.Equal(t, "NONE", m["lead_filter_id"])
	assert.Equal(t, "default English", m["selected_language"])
	assert.Equal(t, -1, m["wrapup_seconds_override"])
	assert.Equal(t, -1, m["user_new_lead_limit"])
	assert.Equal(t, 0, m["max_hopper_calls"])
	assert.Nil(t, m["closer_campaigns"])
	assert.Nil(t, m["voicemail_id"])

	// Sub-second precision never reaches the modify stamp.
	assert.Equal(t, "2024-03-15 10:30:45", m["modify_stamp"])

	// Identity columns are the caller's responsibility.
	for _, col := range []string{"user", "pass", "full_name", "user_level", "user_group"} {
		_, ok := m[col]
		assert.False(t, ok, "identity column %q must not be defaulted", col)
	}
}

func TestDefaultRecordStableSize(t *testing.T) {
	a := DefaultRecord(time.Now())
	b := DefaultRecord(time.Now())
	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].Column, b[i].Column, "column order must be stable")
	}
}
