package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MikeSquared-Agency/folio/internal/chat"
	"github.com/MikeSquared-Agency/folio/internal/contact"
)

const maxBodyBytes = 100 << 10

const (
	msgContactSent    = "Message sent successfully!"
	msgContactInvalid = "All fields are required."
	msgServerError    = "Server error. Please try again."
	msgChatRequired   = "Message is required"
	msgTooLarge       = "Request too large."
)

// ChatHandler produces a reply for one chat turn.
type ChatHandler interface {
	Handle(ctx context.Context, message string, history []chat.Turn) (chat.Reply, error)
}

// ContactHandler records a contact form submission.
type ContactHandler interface {
	Submit(ctx context.Context, name, email, message string) (contact.Result, error)
}

type Server struct {
	router  *chi.Mux
	chat    ChatHandler
	contact ContactHandler
	logger  *slog.Logger
}

func NewServer(chatHandler ChatHandler, contactHandler ContactHandler, allowedOrigins []string, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	s := &Server{
		router:  router,
		chat:    chatHandler,
		contact: contactHandler,
		logger:  logger,
	}

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", s.health)
		r.Post("/contact", s.submitContact)
		r.Post("/chat", s.sendChat)
	})

	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type contactResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type chatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Message string     `json:"message"`
	History []chatTurn `json:"history"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "Server is running.",
	})
}

func (s *Server) submitContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decodeBody(w, r, &req); err != nil {
		if isTooLarge(err) {
			respondJSON(w, http.StatusRequestEntityTooLarge, contactResponse{Message: msgTooLarge})
			return
		}
		respondJSON(w, http.StatusBadRequest, contactResponse{Message: msgContactInvalid})
		return
	}

	_, err := s.contact.Submit(r.Context(), req.Name, req.Email, req.Message)
	switch {
	case err == nil:
		respondJSON(w, http.StatusCreated, contactResponse{Success: true, Message: msgContactSent})
	case errors.Is(err, contact.ErrValidation):
		respondJSON(w, http.StatusBadRequest, contactResponse{Message: msgContactInvalid})
	default:
		s.logger.Error("contact submission failed", "error", err, "request_id", middleware.GetReqID(r.Context()))
		respondJSON(w, http.StatusInternalServerError, contactResponse{Message: msgServerError})
	}
}

func (s *Server) sendChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeBody(w, r, &req); err != nil {
		if isTooLarge(err) {
			respondError(w, http.StatusRequestEntityTooLarge, msgTooLarge)
			return
		}
		respondError(w, http.StatusBadRequest, msgChatRequired)
		return
	}

	history := make([]chat.Turn, 0, len(req.History))
	for _, t := range req.History {
		history = append(history, chat.Turn{Role: chat.ParseRole(t.Role), Content: t.Content})
	}

	reply, err := s.chat.Handle(r.Context(), req.Message, history)
	if err != nil {
		if errors.Is(err, chat.ErrInvalidInput) {
			respondError(w, http.StatusBadRequest, msgChatRequired)
			return
		}
		s.logger.Error("chat failed", "error", err, "request_id", middleware.GetReqID(r.Context()))
		respondError(w, http.StatusInternalServerError, msgServerError)
		return
	}

	respondJSON(w, http.StatusOK, chatResponse{Reply: reply.Text})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
