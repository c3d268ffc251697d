// Package httpapi exposes the catalog, auth and assistant endpoints.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmorenop/ludoteca/internal/auth"
	"github.com/dmorenop/ludoteca/internal/catalog"
	"github.com/dmorenop/ludoteca/internal/ollama"
)

// AssistantEngine answers a catalog question. The HTTP layer only needs the
// final text; staging and fallbacks live behind this interface.
type AssistantEngine interface {
	Answer(ctx context.Context, message string) (string, error)
}

type Server struct {
	store       catalog.API
	catalogFile *catalog.CatalogFile
	auth        *auth.Manager
	assistant   AssistantEngine
}

func NewServer(store catalog.API, catalogFile *catalog.CatalogFile, authManager *auth.Manager, assistant AssistantEngine) http.Handler {
	s := &Server{
		store:       store,
		catalogFile: catalogFile,
		auth:        authManager,
		assistant:   assistant,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/auth/register", s.handleRegister)
	mux.HandleFunc("/api/auth/login", s.handleLogin)
	mux.HandleFunc("/api/catalogo/categorias", s.handleCategorias)
	mux.HandleFunc("/api/catalogo/plataformas", s.handlePlataformas)
	mux.HandleFunc("/api/assistant/chat", s.handleAssistantChat)
	mux.HandleFunc("/api/games", s.handleGames)
	mux.HandleFunc("/api/games/", s.handleGameSubroutes)
	mux.HandleFunc("/api/comments/", s.handleDeleteComment)
	mux.HandleFunc("/api/reports/games", s.handleListReports)
	return withCORS(mux)
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"message": message})
}

func writeStoreError(w http.ResponseWriter, err error) {
	var ce *catalog.Error
	if errors.As(err, &ce) {
		writeMessage(w, ce.Status, ce.Message)
		return
	}
	writeJSON(w, 500, map[string]any{"message": "Error interno", "error": err.Error()})
}

func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return []byte("{}"), nil
	}
	blob, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if len(blob) == 0 {
		blob = []byte("{}")
	}
	return blob, nil
}

func decodeJSONBytes(blob []byte, dst any) error {
	return json.Unmarshal(blob, dst)
}

func parseInt(value string, def int) int {
	if strings.TrimSpace(value) == "" {
		return def
	}
	v, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return v
}

func methodOnly(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// claimsFromHeader returns the verified bearer claims or nil. Read-only
// endpoints use it to fill my_vote without requiring a login.
func (s *Server) claimsFromHeader(r *http.Request) *auth.Claims {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil
	}
	claims, err := s.auth.Verify(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return nil
	}
	return claims
}

// requireAuth verifies the bearer token, writing the 401 itself on failure.
func (s *Server) requireAuth(w http.ResponseWriter, r *http.Request) *auth.Claims {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		writeMessage(w, 401, "Token requerido")
		return nil
	}
	claims, err := s.auth.Verify(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		writeMessage(w, 401, "Token inválido o expirado")
		return nil
	}
	return claims
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true})
}

func (s *Server) handleCategorias(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, 200, s.catalogFile.Categorias)
}

func (s *Server) handlePlataformas(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, 200, s.catalogFile.Plataformas)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	blob, err := readBody(r)
	if err != nil {
		writeMessage(w, 400, "JSON inválido")
		return
	}
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSONBytes(blob, &req); err != nil {
		writeMessage(w, 400, "JSON inválido")
		return
	}
	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeMessage(w, 400, "username, email y password son obligatorios")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	user, err := s.store.CreateUser(r.Context(), catalog.CreateUserInput{
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: hash,
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	token, err := s.auth.Sign(user.ID, user.Username, user.Role)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, 201, map[string]any{"token": token, "user": user})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	blob, err := readBody(r)
	if err != nil {
		writeMessage(w, 400, "JSON inválido")
		return
	}
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSONBytes(blob, &req); err != nil {
		writeMessage(w, 400, "JSON inválido")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeMessage(w, 400, "email y password son obligatorios")
		return
	}

	user, err := s.store.GetUserByEmail(r.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		writeMessage(w, 401, "Credenciales inválidas")
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		writeMessage(w, 401, "Credenciales inválidas")
		return
	}
	token, err := s.auth.Sign(user.ID, user.Username, user.Role)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, 200, map[string]any{"token": token, "user": user})
}

func paginationFromQuery(r *http.Request) (int, int) {
	page := parseInt(r.URL.Query().Get("page"), 1)
	if page < 1 {
		page = 1
	}
	limit := parseInt(r.URL.Query().Get("limit"), 10)
	if limit < 1 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}
	return page, limit
}

func paginatedGames(games []catalog.Game, page, limit, total int) map[string]any {
	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return map[string]any{
		"data": games,
		"pagination": map[string]any{
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": totalPages,
		},
	}
}

func (s *Server) handleGames(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		page, limit := paginationFromQuery(r)
		var viewerID int64
		if claims := s.claimsFromHeader(r); claims != nil {
			viewerID = claims.UserID
		}
		games, total, err := s.store.ListGames(r.Context(), catalog.ListOptions{
			Page:     page,
			Limit:    limit,
			Sort:     r.URL.Query().Get("sort"),
			ViewerID: viewerID,
		})
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, 200, paginatedGames(games, page, limit, total))
	case http.MethodPost:
		claims := s.requireAuth(w, r)
		if claims == nil {
			return
		}
		blob, err := readBody(r)
		if err != nil {
			writeMessage(w, 400, "JSON inválido")
			return
		}
		var req struct {
			Nombre           string   `json:"nombre"`
			Descripcion      string   `json:"descripcion"`
			FechaLanzamiento *string  `json:"fecha_lanzamiento"`
			Compania         *string  `json:"compania"`
			CategoriaIDs     []string `json:"categoria_ids"`
			PlataformaIDs    []string `json:"plataforma_ids"`
			Precio           *float64 `json:"precio"`
			Portada          *string  `json:"portada"`
			Video            *string  `json:"video"`
		}
		if err := decodeJSONBytes(blob, &req); err != nil {
			writeMessage(w, 400, "JSON inválido")
			return
		}
		if strings.TrimSpace(req.Nombre) == "" || strings.TrimSpace(req.Descripcion) == "" || req.Precio == nil {
			writeMessage(w, 400, "nombre, descripcion y precio son obligatorios")
			return
		}
		game, err := s.store.CreateGame(r.Context(), catalog.CreateGameInput{
			Nombre:           strings.TrimSpace(req.Nombre),
			Descripcion:      strings.TrimSpace(req.Descripcion),
			FechaLanzamiento: req.FechaLanzamiento,
			Compania:         req.Compania,
			CategoriaIDs:     req.CategoriaIDs,
			PlataformaIDs:    req.PlataformaIDs,
			Precio:           *req.Precio,
			Portada:          req.Portada,
			Video:            req.Video,
			OwnerID:          claims.UserID,
		})
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, 201, game)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleGameSubroutes dispatches /api/games/mine, /api/games/{id} and the
// vote/comments/report subresources.
func (s *Server) handleGameSubroutes(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/games/"), "/")
	if path == "mine" {
		s.handleMyGames(w, r)
		return
	}

	parts := strings.SplitN(path, "/", 2)
	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || id <= 0 {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if len(parts) == 1 {
		s.handleGameByID(w, r, id)
		return
	}
	switch parts[1] {
	case "vote":
		s.handleVote(w, r, id)
	case "comments":
		s.handleComments(w, r, id)
	case "report":
		s.handleReport(w, r, id)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (s *Server) handleMyGames(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	claims := s.requireAuth(w, r)
	if claims == nil {
		return
	}
	page, limit := paginationFromQuery(r)
	games, total, err := s.store.ListGames(r.Context(), catalog.ListOptions{
		Page:     page,
		Limit:    limit,
		ViewerID: claims.UserID,
		OwnerID:  claims.UserID,
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, 200, paginatedGames(games, page, limit, total))
}

func (s *Server) handleGameByID(w http.ResponseWriter, r *http.Request, id int64) {
	switch r.Method {
	case http.MethodGet:
		var viewerID int64
		if claims := s.claimsFromHeader(r); claims != nil {
			viewerID = claims.UserID
		}
		game, err := s.store.GetGame(r.Context(), id, viewerID)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, 200, game)
	case http.MethodDelete:
		claims := s.requireAuth(w, r)
		if claims == nil {
			return
		}
		if err := s.store.DeleteGame(r.Context(), id, catalog.Actor{UserID: claims.UserID, Role: claims.Role}); err != nil {
			writeStoreError(w, err)
			return
		}
		writeMessage(w, 200, "Videojuego eliminado")
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleVote(w http.ResponseWriter, r *http.Request, gameID int64) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	claims := s.requireAuth(w, r)
	if claims == nil {
		return
	}
	blob, err := readBody(r)
	if err != nil {
		writeMessage(w, 400, "JSON inválido")
		return
	}
	var req struct {
		VoteType string `json:"voteType"`
	}
	if err := decodeJSONBytes(blob, &req); err != nil {
		writeMessage(w, 400, "JSON inválido")
		return
	}
	totals, err := s.store.Vote(r.Context(), gameID, claims.UserID, req.VoteType)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, 201, totals)
}

func (s *Server) handleComments(w http.ResponseWriter, r *http.Request, gameID int64) {
	switch r.Method {
	case http.MethodGet:
		comments, err := s.store.ListComments(r.Context(), gameID)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, 200, comments)
	case http.MethodPost:
		claims := s.requireAuth(w, r)
		if claims == nil {
			return
		}
		blob, err := readBody(r)
		if err != nil {
			writeMessage(w, 400, "JSON inválido")
			return
		}
		var req struct {
			Content         string `json:"content"`
			ParentCommentID *int64 `json:"parent_comment_id"`
		}
		if err := decodeJSONBytes(blob, &req); err != nil {
			writeMessage(w, 400, "JSON inválido")
			return
		}
		comment, err := s.store.CreateComment(r.Context(), catalog.CreateCommentInput{
			GameID:          gameID,
			UserID:          claims.UserID,
			ParentCommentID: req.ParentCommentID,
			Content:         req.Content,
		})
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, 201, comment)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request, gameID int64) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	claims := s.requireAuth(w, r)
	if claims == nil {
		return
	}
	blob, err := readBody(r)
	if err != nil {
		writeMessage(w, 400, "JSON inválido")
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	if err := decodeJSONBytes(blob, &req); err != nil {
		writeMessage(w, 400, "JSON inválido")
		return
	}
	if err := s.store.ReportGame(r.Context(), gameID, claims.UserID, req.Reason); err != nil {
		writeStoreError(w, err)
		return
	}
	writeMessage(w, 201, "Videojuego reportado correctamente")
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodDelete) {
		return
	}
	claims := s.requireAuth(w, r)
	if claims == nil {
		return
	}
	raw := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/comments/"), "/")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err := s.store.DeleteComment(r.Context(), id, catalog.Actor{UserID: claims.UserID, Role: claims.Role}); err != nil {
		writeStoreError(w, err)
		return
	}
	writeMessage(w, 200, "Comentario eliminado")
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	claims := s.requireAuth(w, r)
	if claims == nil {
		return
	}
	if claims.Role != "admin" {
		writeMessage(w, 403, "Acceso solo para administradores")
		return
	}
	reports, err := s.store.ListReportedGames(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, 200, reports)
}

func (s *Server) handleAssistantChat(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	blob, err := readBody(r)
	if err != nil {
		writeMessage(w, 400, "JSON inválido")
		return
	}
	var req struct {
		Message string `json:"message"`
	}
	if err := decodeJSONBytes(blob, &req); err != nil {
		writeMessage(w, 400, "JSON inválido")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeMessage(w, 400, "El mensaje es obligatorio")
		return
	}

	answer, err := s.assistant.Answer(r.Context(), strings.TrimSpace(req.Message))
	if err != nil {
		var se *ollama.StatusError
		switch {
		case errors.As(err, &se):
			detail := se.Body
			if detail == "" {
				detail = "Sin detalle"
			}
			writeJSON(w, 502, map[string]any{"message": "Error al consultar Ollama", "detail": detail})
		case errors.Is(err, context.DeadlineExceeded):
			writeMessage(w, 504, "Timeout consultando el asistente IA")
		default:
			writeJSON(w, 500, map[string]any{"message": "Error del asistente IA", "error": err.Error()})
		}
		return
	}
	writeJSON(w, 200, map[string]any{"answer": answer})
}
