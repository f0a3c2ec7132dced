package api

const (
	HealthCheckRoute = "/healthz"
	AboutRoute       = "/about"

	CheckRoute = "/v1/check"

	SessionRoute     = "/v1/csrf/session"
	IssueTokenRoute  = "/v1/csrf/issue"
	VerifyTokenRoute = "/v1/csrf/verify"

	AdminParent      = "/v1/admin/"
	ExplainRoute     = AdminParent + "explain"
	ListRulesRoute   = AdminParent + "rules"
	ListAuditsRoute  = AdminParent + "audits"
)
