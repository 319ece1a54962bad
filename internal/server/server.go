// Package server exposes the provisioning services over a JSON HTTP API.
// Handlers are thin: decode, call the service, map the error. All request
// validation beyond presence checks lives in the provisioning layer.
package server

import (
	"net/http"

	"github.com/mosaicdev/mosaic/internal/auth"
	"github.com/mosaicdev/mosaic/internal/provision"
)

// Server wires the provisioning service and the auth gate into an HTTP
// handler.
type Server struct {
	svc       *provision.Service
	authority *auth.Authority
	gate      *auth.Gate
}

// New creates the API server.
func New(svc *provision.Service, authority *auth.Authority) *Server {
	return &Server{
		svc:       svc,
		authority: authority,
		gate:      auth.NewGate(authority),
	}
}

// Handler returns the full route table. Everything except /healthz and
// /login sits behind the auth gate.
func (s *Server) Handler() http.Handler {
	public := http.NewServeMux()
	public.HandleFunc("GET /healthz", s.handleHealth)
	public.HandleFunc("POST /login", s.handleLogin)

	api := http.NewServeMux()
	api.HandleFunc("POST /system/init", s.handleSystemInit)
	api.HandleFunc("GET /system/init", s.handleSystemStatus)

	api.HandleFunc("GET /orgs/{org}/templates", s.handleListTemplates)
	api.HandleFunc("POST /orgs/{org}/templates", s.handleCreateTemplate)
	api.HandleFunc("GET /orgs/{org}/templates/{id}", s.handleGetTemplate)

	api.HandleFunc("POST /projects", s.handleCreateProject)
	api.HandleFunc("GET /orgs/{org}/projects", s.handleListProjects)
	api.HandleFunc("POST /project-sets", s.handleCreateProjectSet)
	api.HandleFunc("GET /orgs/{org}/project-sets", s.handleListProjectSets)

	api.HandleFunc("GET /spaces/{type}/{id}/status-flow", s.handleSpaceStatusFlow)
	api.HandleFunc("GET /spaces/{id}/members", s.handleListMembers)
	api.HandleFunc("POST /spaces/{type}/{id}/members", s.handleAddMembers)
	api.HandleFunc("DELETE /spaces/{type}/{id}/members", s.handleRemoveMembers)

	root := http.NewServeMux()
	root.Handle("/healthz", public)
	root.Handle("/login", public)
	root.Handle("/", s.gate.Middleware()(api))

	return root
}
