package handlers

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/colorboard/apiserver/internal/services"
	"github.com/colorboard/apiserver/types"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	maxMultipartMemory = 1 << 20
	maxColorBodyBytes  = 1 << 20
	formFieldRecord    = "record"
)

// ColorHandler serves color records, favorites and the personal page.
type ColorHandler struct {
	colorService    *services.ColorService
	favoriteService *services.FavoriteService
	logger          *zap.Logger
}

func NewColorHandler(colorService *services.ColorService, favoriteService *services.FavoriteService, logger *zap.Logger) *ColorHandler {
	return &ColorHandler{
		colorService:    colorService,
		favoriteService: favoriteService,
		logger:          logger,
	}
}

// ColorRouter registers color routes. The caller applies RequireSession.
func ColorRouter(r chi.Router, colorService *services.ColorService, favoriteService *services.FavoriteService, logger *zap.Logger) {
	handler := NewColorHandler(colorService, favoriteService, logger)

	r.Get("/colors", handler.ListColors)
	r.Post("/colors", handler.CreateColor)
	r.Post("/favorites/{colorID}", handler.ToggleFavorite)
	r.Get("/me", handler.MyPage)
}

func (h *ColorHandler) CreateColor(w http.ResponseWriter, r *http.Request) {
	username, err := subjectFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	input, err := parseColorInput(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	record, err := h.colorService.Create(r.Context(), username, input)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "color is required")
			return
		}
		writeInternalError(w, r, h.logger, "failed to create color", err)
		return
	}

	writeJSON(w, http.StatusCreated, record)
}

func (h *ColorHandler) ListColors(w http.ResponseWriter, r *http.Request) {
	username, err := subjectFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	views, err := h.colorService.ListWithFavorites(r.Context(), username)
	if err != nil {
		writeInternalError(w, r, h.logger, "failed to list colors", err)
		return
	}

	writeJSON(w, http.StatusOK, views)
}

func (h *ColorHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	username, err := subjectFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	id, err := parseColorID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	favorite, err := h.favoriteService.Toggle(r.Context(), username, id)
	if err != nil {
		writeInternalError(w, r, h.logger, "failed to toggle favorite", err)
		return
	}

	writeJSON(w, http.StatusOK, FavoriteResponse{Favorite: favorite})
}

func (h *ColorHandler) MyPage(w http.ResponseWriter, r *http.Request) {
	username, err := subjectFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	page, err := h.colorService.MyPage(r.Context(), username)
	if err != nil {
		writeInternalError(w, r, h.logger, "failed to load page", err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

type FavoriteResponse struct {
	Favorite bool `json:"favorite"`
}

func parseColorID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "colorID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, errors.New("invalid color id")
	}
	return id, nil
}

// parseColorInput reads {color, comment} from the multipart field "record"
// or, for JSON requests, from the body. Any author, id or createdAt sent by
// the client is dropped because ColorInput has no such fields.
func parseColorInput(w http.ResponseWriter, r *http.Request) (types.ColorInput, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return types.ColorInput{}, errors.New("invalid content type")
	}

	var input types.ColorInput
	switch mediaType {
	case "multipart/form-data":
		r.Body = http.MaxBytesReader(w, r.Body, maxColorBodyBytes)
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			return types.ColorInput{}, errors.New("invalid multipart form")
		}
		raw := strings.TrimSpace(r.FormValue(formFieldRecord))
		if raw == "" {
			return types.ColorInput{}, errors.New("record field is required")
		}
		if err := json.Unmarshal([]byte(raw), &input); err != nil {
			return types.ColorInput{}, errors.New("invalid record")
		}
	case "application/json":
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxColorBodyBytes)).Decode(&input); err != nil {
			return types.ColorInput{}, errors.New("invalid record")
		}
	default:
		return types.ColorInput{}, errors.New("unsupported content type")
	}

	if strings.TrimSpace(input.Color) == "" {
		return types.ColorInput{}, errors.New("color is required")
	}
	return input, nil
}
