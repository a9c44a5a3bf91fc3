package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/sistemaagil/vistoria/config"
	"github.com/sistemaagil/vistoria/middleware"
)

type loginRequest struct {
	Name string `json:"nome"`
	Code string `json:"codigo"`
}

// Login authenticates an inspector by name and access code and issues the
// JWT the intake endpoints require.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "payload inválido")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Code == "" {
		fail(w, http.StatusBadRequest, "nome e código são obrigatórios")
		return
	}

	account, ok := matchInspector(h.Cfg.Inspectors, req.Name, req.Code)
	if !ok {
		fail(w, http.StatusUnauthorized, "nome ou código incorretos")
		return
	}

	token, err := middleware.GenerateToken(account.Name, h.Cfg.JWTSecret)
	if err != nil {
		failFromErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"token":   token,
		"nome":    account.Name,
	})
}

// matchInspector checks the code against every configured account with a
// matching name. Codes starting with $2 are bcrypt hashes; anything else is
// compared in constant time.
func matchInspector(accounts []config.InspectorAccount, name, code string) (config.InspectorAccount, bool) {
	for _, account := range accounts {
		if !strings.EqualFold(account.Name, name) {
			continue
		}
		if strings.HasPrefix(account.Code, "$2") {
			if bcrypt.CompareHashAndPassword([]byte(account.Code), []byte(code)) == nil {
				return account, true
			}
			continue
		}
		if subtle.ConstantTimeCompare([]byte(account.Code), []byte(code)) == 1 {
			return account, true
		}
	}
	return config.InspectorAccount{}, false
}
