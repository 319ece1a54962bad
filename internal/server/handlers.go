package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/mosaicdev/mosaic/internal/auth"
	"github.com/mosaicdev/mosaic/internal/models"
	"github.com/mosaicdev/mosaic/internal/provision"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type loginRequest struct {
	Subject string `json:"subject"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// handleLogin issues a session token for the supplied subject. Verifying
// the subject's credentials is the user service's concern, outside this
// API.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Subject == "" {
		writeJSONError(w, http.StatusBadRequest, "subject is required")
		return
	}

	token, err := s.authority.Issue(req.Subject)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Token issuance failed")
		writeJSONError(w, http.StatusInternalServerError, "token issuance failed")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{AccessToken: token, TokenType: "Bearer"})
}

type systemInitRequest struct {
	Organization string `json:"organization"`
}

// handleSystemInit provisions the organization's global configuration and
// then writes the init sentinel. The sentinel check is the only guard
// against double provisioning; the provisioner itself is not idempotent.
func (s *Server) handleSystemInit(w http.ResponseWriter, r *http.Request) {
	var req systemInitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Organization == "" {
		writeJSONError(w, http.StatusBadRequest, "organization is required")
		return
	}

	initialized, err := s.svc.SysIsInit(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if initialized {
		writeJSONError(w, http.StatusConflict, provision.ErrAppInitialized.Error())
		return
	}

	if err := s.svc.SeedGlobalRoles(r.Context(), req.Organization); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if err := s.svc.InitGlobalConfig(r.Context(), req.Organization); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if err := s.svc.InitSystem(r.Context()); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"organization": req.Organization})
}

func (s *Server) handleSystemStatus(w http.ResponseWriter, r *http.Request) {
	initialized, err := s.svc.SysIsInit(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"initialized": initialized})
}

type createTemplateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req createTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	templateID, err := s.svc.CreateTemplate(r.Context(), models.CreateTemplateParam{
		Name:         req.Name,
		Description:  req.Description,
		Icon:         req.Icon,
		Organization: r.PathValue("org"),
	}, creator(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"identifier": templateID})
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := s.svc.FindAllTemplates(r.Context(), r.PathValue("org"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, templates)
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	tmpl, err := s.svc.FindTemplate(r.Context(), r.PathValue("org"), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tmpl)
}

type createProjectRequest struct {
	Name         string `json:"name"`
	CustomCode   string `json:"custom_code"`
	Description  string `json:"description"`
	Icon         string `json:"icon"`
	Organization string `json:"organization"`
	ProjectSet   string `json:"project_set"`
	Template     string `json:"template"`
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	project, err := s.svc.CreateProject(r.Context(), models.CreateProjectParam{
		Name:         req.Name,
		CustomCode:   req.CustomCode,
		Description:  req.Description,
		Icon:         req.Icon,
		Organization: req.Organization,
		ProjectSet:   req.ProjectSet,
		Template:     req.Template,
	}, creator(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, project)
}

type createProjectSetRequest struct {
	Name         string `json:"name"`
	CustomCode   string `json:"custom_code"`
	Description  string `json:"description"`
	Icon         string `json:"icon"`
	Organization string `json:"organization"`
}

func (s *Server) handleCreateProjectSet(w http.ResponseWriter, r *http.Request) {
	var req createProjectSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	set, err := s.svc.CreateProjectSet(r.Context(), models.CreateProjectSetParam{
		Name:         req.Name,
		CustomCode:   req.CustomCode,
		Description:  req.Description,
		Icon:         req.Icon,
		Organization: req.Organization,
	}, creator(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, set)
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.svc.ListProjects(r.Context(), r.PathValue("org"), r.URL.Query().Get("project_set"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (s *Server) handleListProjectSets(w http.ResponseWriter, r *http.Request) {
	sets, err := s.svc.ListProjectSets(r.Context(), r.PathValue("org"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sets)
}

func (s *Server) handleSpaceStatusFlow(w http.ResponseWriter, r *http.Request) {
	flow, err := s.svc.SpaceStatusFlow(r.Context(), r.PathValue("type"), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, flow)
}

type membersRequest struct {
	UserIDs []string `json:"user_ids"`
}

func (s *Server) handleAddMembers(w http.ResponseWriter, r *http.Request) {
	var req membersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.UserIDs) == 0 {
		writeJSONError(w, http.StatusBadRequest, "user_ids is required")
		return
	}

	err := s.svc.AddSpaceMembers(r.Context(), r.PathValue("type"), r.PathValue("id"), req.UserIDs, creator(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveMembers(w http.ResponseWriter, r *http.Request) {
	var req membersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.UserIDs) == 0 {
		writeJSONError(w, http.StatusBadRequest, "user_ids is required")
		return
	}

	err := s.svc.RemoveSpaceMembers(r.Context(), r.PathValue("type"), r.PathValue("id"), req.UserIDs)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	ids, err := s.svc.SpaceMemberIDs(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"user_ids": ids})
}

// creator resolves the acting user from the gate's claims.
func creator(r *http.Request) string {
	if claims := auth.ClaimsFromContext(r.Context()); claims != nil {
		return claims.Subject
	}
	return ""
}

// writeServiceError maps provisioning errors onto HTTP statuses. Unmatched
// errors surface as 500 without leaking internal detail.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, provision.ErrIllegalArgument):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, provision.ErrDataNotFound):
		writeJSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, provision.ErrAppNotInitialized),
		errors.Is(err, provision.ErrAppInitialized):
		writeJSONError(w, http.StatusConflict, err.Error())
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Unhandled service error")
		writeJSONError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
