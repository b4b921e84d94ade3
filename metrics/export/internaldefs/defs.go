package internaldefs

import (
	flexauth "github.com/flexauth/flexauth"
)

// CounterDef ties a flexauth metric ID to its exported name and help text.
type CounterDef struct {
	ID   flexauth.MetricID
	Name string
	Help string
}

// CounterDefs lists every counter the exporters publish.
var CounterDefs = []CounterDef{
	{ID: flexauth.MetricExtractBody, Name: "flexauth_extract_body_total", Help: "Credentials located in the request body."},
	{ID: flexauth.MetricExtractHeader, Name: "flexauth_extract_header_total", Help: "Credentials located in transport metadata."},
	{ID: flexauth.MetricExtractCookie, Name: "flexauth_extract_cookie_total", Help: "Credentials located in the configured cookie."},
	{ID: flexauth.MetricExtractAbsent, Name: "flexauth_extract_absent_total", Help: "Requests with no locatable credential."},
	{ID: flexauth.MetricExtractMalformed, Name: "flexauth_extract_malformed_total", Help: "Structurally invalid credentials."},
	{ID: flexauth.MetricAuthSuccess, Name: "flexauth_auth_success_total", Help: "Successful token authentications."},
	{ID: flexauth.MetricAuthFailure, Name: "flexauth_auth_failure_total", Help: "Failed token authentications."},
	{ID: flexauth.MetricIssueSuccess, Name: "flexauth_issue_success_total", Help: "Issued tokens."},
	{ID: flexauth.MetricRefreshSuccess, Name: "flexauth_refresh_success_total", Help: "Successful token refreshes."},
	{ID: flexauth.MetricRefreshFailure, Name: "flexauth_refresh_failure_total", Help: "Failed token refreshes."},
	{ID: flexauth.MetricSessionAuthSuccess, Name: "flexauth_session_auth_success_total", Help: "Successful session authentications."},
	{ID: flexauth.MetricSessionAuthFailure, Name: "flexauth_session_auth_failure_total", Help: "Failed session authentications."},
}
