package api

import (
	"net/http"

	"github.com/gatehouse-sec/gatehouse/internal/api/middleware"
	"github.com/gatehouse-sec/gatehouse/internal/audit"
	"github.com/gatehouse-sec/gatehouse/internal/core"
	"github.com/gatehouse-sec/gatehouse/internal/service"
)

type Server struct {
	guard   *service.Guard
	auditor core.Auditor
}

func NewServer(guard *service.Guard, auditor core.Auditor) *Server {
	if auditor == nil {
		auditor = audit.NewNoopAuditor()
	}
	return &Server{
		guard:   guard,
		auditor: auditor,
	}
}

func (s *Server) Routes(adminSigningKey []byte) http.Handler {
	mux := http.NewServeMux()

	// public routes
	mux.HandleFunc("GET "+HealthCheckRoute, s.handleHealth)
	mux.HandleFunc("GET "+AboutRoute, s.handleAbout)

	// decision routes
	mux.HandleFunc("POST "+CheckRoute, s.handleCheck)
	mux.HandleFunc("POST "+SessionRoute, s.handleSession)
	mux.HandleFunc("POST "+IssueTokenRoute, s.handleIssueToken)
	mux.HandleFunc("POST "+VerifyTokenRoute, s.handleVerifyToken)

	// admin routes
	adminMux := http.NewServeMux()
	adminMux.HandleFunc("POST "+ExplainRoute, s.handleExplain)
	adminMux.HandleFunc("GET "+ListRulesRoute, s.handleListRules)
	adminMux.HandleFunc("GET "+ListAuditsRoute, s.handleListAudits)
	mux.Handle(AdminParent, middleware.AdminAuth(adminSigningKey)(adminMux))

	return middleware.RecoverMiddleware(
		middleware.CorrelationIDMiddleware(
			middleware.LoggingMiddleware(
				mux)))
}
