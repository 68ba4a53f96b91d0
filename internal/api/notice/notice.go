// Package notice implements redirect-with-notice responses. The notice is
// both returned in the 303 body and kept in a short-lived cookie so the next
// page the client loads can show it once.
package notice

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
)

const (
	LevelInfo    = "info"
	LevelSuccess = "success"
	LevelError   = "error"
)

const cookieName = "flash"

type Notice struct {
	Redirect string `json:"redirect,omitempty"`
	Message  string `json:"notice"`
	Level    string `json:"level"`
}

// Redirect answers 303 See Other to target and sets the flash cookie.
func Redirect(w http.ResponseWriter, target, msg, level string) {
	Set(w, msg, level)
	w.Header().Set("Location", target)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusSeeOther)
	_ = json.NewEncoder(w).Encode(Notice{Redirect: target, Message: msg, Level: level})
}

// Set stores a notice for the next response without redirecting.
func Set(w http.ResponseWriter, msg, level string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    url.QueryEscape(level + "|" + msg),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Pop returns the pending notice, if any, and clears it.
func Pop(w http.ResponseWriter, r *http.Request) *Notice {
	c, err := r.Cookie(cookieName)
	if err != nil || c.Value == "" {
		return nil
	}
	http.SetCookie(w, &http.Cookie{Name: cookieName, Value: "", Path: "/", MaxAge: -1})
	v, err := url.QueryUnescape(c.Value)
	if err != nil {
		return nil
	}
	level, msg, ok := strings.Cut(v, "|")
	if !ok {
		return &Notice{Message: v, Level: LevelInfo}
	}
	return &Notice{Message: msg, Level: level}
}
