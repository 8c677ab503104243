// Package http provides HTTP handlers for vault access.
package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/akraynov/passlock/internal/middleware"
	"github.com/akraynov/passlock/internal/models"
	"github.com/akraynov/passlock/internal/vault"
)

// VaultHandler serves the authenticated user's envelope-backed vault.
// Each request opens the vault fresh; the exclusivity assumption of the
// envelope format (one open store per user) is the deployment's to keep.
type VaultHandler struct {
	// DataDir is the directory holding per-user envelope files.
	DataDir string
	// Logger is passed through to the vaults.
	Logger *zap.Logger
}

// entryView is one decoded entry as presented to the UI layer.
type entryView struct {
	Index   int    `json:"index"`
	Service string `json:"service"`
	Account string `json:"account"`
	Secret  string `json:"secret"`
	Cipher  string `json:"cipher"`
	Label   string `json:"label"`
}

// AddRequest represents the JSON payload for adding an entry.
type AddRequest struct {
	Service string `json:"service"`
	Account string `json:"account"`
	Secret  string `json:"secret"`
	Cipher  string `json:"cipher"`
}

func (h *VaultHandler) open(r *http.Request) *vault.Vault {
	username := middleware.GetUserFromContext(r.Context())
	// A corrupt envelope degrades to an empty vault; the error is already
	// logged by the vault itself.
	v, _ := vault.New(h.DataDir, username, h.Logger)
	return v
}

// List handles GET /api/vault. It returns every entry with its secret
// decoded by the entry's own cipher; entries that fail to decode carry the
// vault's failure marker instead of suppressing the listing.
func (h *VaultHandler) List(w http.ResponseWriter, r *http.Request) {
	v := h.open(r)

	entries := v.EntriesDecrypted()
	views := make([]entryView, 0, len(entries))
	for i, e := range entries {
		views = append(views, entryView{
			Index:   i,
			Service: e.Service,
			Account: e.Account,
			Secret:  e.Secret,
			Cipher:  string(e.Cipher),
			Label:   e.CipherLabel(),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"count":   v.Count(),
		"entries": views,
	})
}

// Add handles POST /api/vault. The cipher tag is validated before use; an
// unknown tag is a client error, never a panic.
func (h *VaultHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req AddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if req.Service == "" || req.Account == "" || req.Secret == "" {
		http.Error(w, "service, account and secret are required", http.StatusBadRequest)
		return
	}

	kind, err := models.ParseCipherKind(req.Cipher)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	v := h.open(r)
	if err := v.Add(req.Service, req.Account, req.Secret, kind); err != nil {
		http.Error(w, "failed to store entry", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": "ok",
		"count":  v.Count(),
	})
}

// Remove handles DELETE /api/vault/{index}. An out-of-range index is a 404
// and leaves the vault unchanged.
func (h *VaultHandler) Remove(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, "invalid index", http.StatusBadRequest)
		return
	}

	v := h.open(r)
	if !v.RemoveAt(index) {
		http.Error(w, "entry not found", http.StatusNotFound)
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": "ok",
		"count":  v.Count(),
	})
}

// Clear handles DELETE /api/vault, dropping every entry.
func (h *VaultHandler) Clear(w http.ResponseWriter, r *http.Request) {
	v := h.open(r)
	if err := v.Clear(); err != nil {
		http.Error(w, "failed to clear vault", http.StatusInternalServerError)
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
