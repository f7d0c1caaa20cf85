package users

import "time"

// DefaultsVersion identifies the default-record layout below. Bump it when
// the external schema's expected defaults change so deployments can tell
// which defaults a build writes.
const DefaultsVersion = 1

// Field is one column of a record, in statement order.
type Field struct {
	Column string
	Value  any
}

// stamp formats a modify_stamp value: local time truncated to seconds.
func stamp(now time.Time) string {
	return now.Format("2006-01-02 15:04:05")
}

// DefaultRecord returns the full default-valued vicidial_users record for a
// new user, minus the identity columns (user, pass, full_name, user_level,
// user_group) which the caller supplies. Values mirror what the schema
// expects for a freshly created agent.
func DefaultRecord(now time.Time) []Field {
	return []Field{
		{"active", "Y"},
		{"delete_users", "0"},
		{"delete_user_groups", "0"},
		{"delete_lists", "0"},
		{"delete_campaigns", "0"},
		{"delete_ingroups", "0"},
		{"delete_remote_agents", "0"},
		{"load_leads", "0"},
		{"campaign_detail", "0"},
		{"ast_admin_access", "0"},
		{"ast_delete_phones", "0"},
		{"delete_scripts", "0"},
		{"modify_leads", "0"},
		{"hotkeys_active", "0"},
		{"change_agent_campaign", "0"},
		{"agent_choose_ingroups", "1"},
		{"closer_campaigns", nil},
		{"scheduled_callbacks", "1"},
		{"agentonly_callbacks", "0"},
		{"agentcall_manual", "0"},
		{"vicidial_recording", "1"},
		{"vicidial_transfers", "1"},
		{"delete_filters", "0"},
		{"alter_agent_interface_options", "0"},
		{"closer_default_blended", "0"},
		{"delete_call_times", "0"},
		{"modify_call_times", "0"},
		{"modify_users", "0"},
		{"modify_campaigns", "0"},
		{"modify_lists", "0"},
		{"modify_scripts", "0"},
		{"modify_filters", "0"},
		{"modify_ingroups", "0"},
		{"modify_usergroups", "0"},
		{"modify_remoteagents", "0"},
		{"modify_servers", "0"},
		{"view_reports", "0"},
		{"vicidial_recording_override", "DISABLED"},
		{"alter_custdata_override", "NOT_ACTIVE"},
		{"qc_enabled", "0"},
		{"qc_user_level", 1},
		{"qc_pass", "0"},
		{"qc_finish", "0"},
		{"qc_commit", "0"},
		{"add_timeclock_log", "0"},
		{"modify_timeclock_log", "0"},
		{"delete_timeclock_log", "0"},
		{"alter_custphone_override", "NOT_ACTIVE"},
		{"vdc_agent_api_access", "0"},
		{"modify_inbound_dids", "0"},
		{"delete_inbound_dids", "0"},
		{"alert_enabled", "0"},
		{"download_lists", "0"},
		{"agent_shift_enforcement_override", "DISABLED"},
		{"manager_shift_enforcement_override", "0"},
		{"shift_override_flag", "0"},
		{"export_reports", "0"},
		{"delete_from_dnc", "0"},
		{"email", ""},
		{"user_code", ""},
		{"territory", ""},
		{"allow_alerts", "0"},
		{"agent_choose_territories", "1"},
		{"custom_one", ""},
		{"custom_two", ""},
		{"custom_three", ""},
		{"custom_four", ""},
		{"custom_five", ""},
		{"voicemail_id", nil},
		{"agent_call_log_view_override", "DISABLED"},
		{"callcard_admin", "0"},
		{"agent_choose_blended", "1"},
		{"realtime_block_user_info", "0"},
		{"custom_fields_modify", "0"},
		{"force_change_password", "N"},
		{"agent_lead_search_override", "NOT_ACTIVE"},
		{"modify_shifts", "0"},
		{"modify_phones", "0"},
		{"modify_carriers", "0"},
		{"modify_labels", "0"},
		{"modify_statuses", "0"},
		{"modify_voicemail", "0"},
		{"modify_audiostore", "0"},
		{"modify_moh", "0"},
		{"modify_tts", "0"},
		{"preset_contact_search", "NOT_ACTIVE"},
		{"modify_contacts", "0"},
		{"modify_same_user_level", "1"},
		{"admin_hide_lead_data", "0"},
		{"admin_hide_phone_data", "0"},
		{"agentcall_email", "0"},
		{"modify_email_accounts", "0"},
		{"failed_login_count", 0},
		{"last_login_date", "2001-01-01 00:00:01"},
		{"last_ip", ""},
		{"pass_hash", ""},
		{"alter_admin_interface_options", "1"},
		{"max_inbound_calls", 0},
		{"modify_custom_dialplans", "0"},
		{"wrapup_seconds_override", -1},
		{"modify_languages", "0"},
		{"selected_language", "default English"},
		{"user_choose_language", "0"},
		{"ignore_group_on_search", "0"},
		{"api_list_restrict", "0"},
		{"api_allowed_functions", "ALL_FUNCTIONS"},
		{"lead_filter_id", "NONE"},
		{"admin_cf_show_hidden", "0"},
		{"agentcall_chat", "0"},
		{"user_hide_realtime", "0"},
		{"access_recordings", "0"},
		{"modify_colors", "0"},
		{"user_nickname", ""},
		{"user_new_lead_limit", -1},
		{"api_only_user", "0"},
		{"modify_auto_reports", "0"},
		{"modify_ip_lists", "0"},
		{"ignore_ip_list", "0"},
		{"ready_max_logout", -1},
		{"export_gdpr_leads", "0"},
		{"pause_code_approval", "0"},
		{"max_hopper_calls", 0},
		{"max_hopper_calls_hour", 0},
		{"mute_recordings", "DISABLED"},
		{"hide_call_log_info", "DISABLED"},
		{"next_dial_my_callbacks", "NOT_ACTIVE"},
		{"user_admin_redirect_url", nil},
		{"max_inbound_filter_enabled", "0"},
		{"max_inbound_filter_statuses", nil},
		{"max_inbound_filter_ingroups", nil},
		{"max_inbound_filter_min_sec", -1},
		{"status_group_id", ""},
		{"mobile_number", ""},
		{"two_factor_override", "NOT_ACTIVE"},
		{"manual_dial_filter", "DISABLED"},
		{"user_location", ""},
		{"download_invalid_files", "0"},
		{"user_group_two", ""},
		{"failed_login_attempts_today", 0},
		{"failed_login_count_today", 0},
		{"failed_last_ip_today", ""},
		{"failed_last_type_today", ""},
		{"modify_dial_prefix", "0"},
		{"inbound_credits", -1},
		{"hci_enabled", "0"},
		{"modify_stamp", stamp(now)},
	}
}
