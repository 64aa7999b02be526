// Package demoapp hosts the local verification service the harness can be
// pointed at: a challenge page backed by the reCAPTCHA siteverify API,
// with per-process metrics the harness polls as a second verdict source.
package demoapp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/mj1618/webtrial/internal/logger"
)

// DefaultSiteverifyURL is the production token-verification endpoint.
const DefaultSiteverifyURL = "https://www.google.com/recaptcha/api/siteverify"

// Config carries the service settings. SiteverifyURL is overridable so
// tests can stub the upstream.
type Config struct {
	SiteKey       string
	Secret        string
	SiteverifyURL string
}

// App is the verification demo service.
type App struct {
	cfg     Config
	hc      *http.Client
	log     logger.Logger
	metrics metrics
}

// NewApp builds the service. An empty SiteverifyURL falls back to the
// production endpoint.
func NewApp(cfg Config, log logger.Logger) *App {
	if cfg.SiteverifyURL == "" {
		cfg.SiteverifyURL = DefaultSiteverifyURL
	}
	return &App{
		cfg: cfg,
		hc:  &http.Client{Timeout: 8 * time.Second},
		log: log,
	}
}

// Router wires the HTTP surface.
func (a *App) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", a.index).Methods("GET")
	r.HandleFunc("/health", a.health).Methods("GET")
	r.HandleFunc("/recaptcha", a.recaptcha).Methods("GET")
	r.HandleFunc("/api/verify", a.apiVerify).Methods("POST")
	r.HandleFunc("/metrics", a.metricsHandler).Methods("GET")
	r.HandleFunc("/reset_metrics", a.resetMetrics).Methods("POST")
	return r
}

func (a *App) index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, `<a href="/recaptcha">Invisible v2 test</a>`)
}

func (a *App) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (a *App) recaptcha(w http.ResponseWriter, r *http.Request) {
	if a.cfg.SiteKey == "" {
		http.Error(w, "Missing site key", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := recaptchaPage.Execute(w, struct{ SiteKey string }{a.cfg.SiteKey}); err != nil {
		a.log.Error(r.Context(), "render challenge page", map[string]interface{}{"error": err.Error()})
	}
}

type verifyFailure struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason"`
}

type verifyResult struct {
	OK      bool   `json:"ok"`
	Success bool   `json:"success"`
	Verdict string `json:"verdict"`
	Raw     any    `json:"raw"`
}

func (a *App) apiVerify(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	// Malformed or absent JSON is treated the same as an empty token.
	var body struct {
		Token string `json:"token"`
	}
	json.NewDecoder(r.Body).Decode(&body)
	token := strings.TrimSpace(body.Token)

	if token == "" {
		a.metrics.record(false, true, time.Since(start))
		respondJSON(w, http.StatusBadRequest, verifyFailure{Reason: "missing_token"})
		return
	}

	raw, success, err := a.siteverify(r.Context(), token)
	if err != nil {
		a.metrics.record(false, false, time.Since(start))
		a.log.Warn(r.Context(), "siteverify call failed", map[string]interface{}{"error": err.Error()})
		respondJSON(w, http.StatusBadGateway, verifyFailure{Reason: "verify_error:" + err.Error()})
		return
	}
	a.metrics.record(success, false, time.Since(start))

	verdict := "FAIL: reCAPTCHA"
	if success {
		verdict = "PASS: reCAPTCHA"
	}
	respondJSON(w, http.StatusOK, verifyResult{OK: true, Success: success, Verdict: verdict, Raw: raw})
}

// siteverify posts the token upstream and reports the decoded body plus
// its success flag.
func (a *App) siteverify(ctx context.Context, token string) (map[string]any, bool, error) {
	form := url.Values{"secret": {a.cfg.Secret}, "response": {token}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.SiteverifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, false, fmt.Errorf("build siteverify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.hc.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("siteverify: %w", err)
	}
	defer resp.Body.Close()

	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, false, fmt.Errorf("decode siteverify response: %w", err)
	}
	success, _ := raw["success"].(bool)
	return raw, success, nil
}

func (a *App) metricsHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, a.metrics.snapshot())
}

func (a *App) resetMetrics(w http.ResponseWriter, r *http.Request) {
	a.metrics.reset()
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
