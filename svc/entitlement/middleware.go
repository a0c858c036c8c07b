package entitlement

import (
	"fmt"
	"net/http"

	"github.com/prepstack/entitlement/pkg/entitlement"
)

// StateReader is the read side of a Session, all the gates need. Gates
// hold no state of their own: every request re-reads the current snapshot,
// so gates re-evaluate whenever the session state changes and are safe to
// nest.
type StateReader interface {
	State() entitlement.State
}

// GuardConfig configures a RouteGuard's exits.
type GuardConfig struct {
	// UpgradeURL is where the upgrade prompt sends the user to pick a
	// plan. Defaults to "/plans".
	UpgradeURL string
	// BackURL is the known-safe route the prompt offers as the way out.
	// Defaults to "/".
	BackURL string
}

func (c GuardConfig) withDefaults() GuardConfig {
	if c.UpgradeURL == "" {
		c.UpgradeURL = "/plans"
	}
	if c.BackURL == "" {
		c.BackURL = "/"
	}
	return c
}

// InlineGate guards a content fragment in place. While the decision is
// pending it renders a neutral placeholder; on denial it renders the
// locked fallback in the same layout slot. It never navigates: the
// surrounding page stays intact whatever the decision.
//
// A nil locked handler gets a default locked placeholder.
func InlineGate(session StateReader, feature entitlement.Feature, locked http.Handler) func(http.Handler) http.Handler {
	if locked == nil {
		locked = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeFragment(w, http.StatusOK,
				`<div class="entitlement-locked">Upgrade your plan to unlock this content.</div>`)
		})
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch entitlement.Decide(session.State(), feature) {
			case entitlement.DecisionAllow:
				next.ServeHTTP(w, r)
			case entitlement.DecisionDeny:
				locked.ServeHTTP(w, r)
			default:
				writeFragment(w, http.StatusOK,
					`<div class="entitlement-pending" aria-busy="true"></div>`)
			}
		})
	}
}

// RouteGuard guards a whole route. While the decision is pending it
// renders a blocking loading page so no partial protected content ever
// reaches the client; on denial it renders an upgrade prompt whose only
// exits are the plan-selection URL and a known-safe back URL.
func RouteGuard(session StateReader, feature entitlement.Feature, cfg GuardConfig) func(http.Handler) http.Handler {
	cfg = cfg.withDefaults()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch entitlement.Decide(session.State(), feature) {
			case entitlement.DecisionAllow:
				next.ServeHTTP(w, r)
			case entitlement.DecisionDeny:
				writeFragment(w, http.StatusForbidden, fmt.Sprintf(
					`<main class="entitlement-upgrade"><h1>This area needs a higher plan</h1><p><a href=%q>See plans</a></p><p><a href=%q>Go back</a></p></main>`,
					cfg.UpgradeURL, cfg.BackURL))
			default:
				w.Header().Set("Cache-Control", "no-store")
				writeFragment(w, http.StatusOK,
					`<main class="entitlement-loading" aria-busy="true"><p>Checking your subscription…</p></main>`)
			}
		})
	}
}

func writeFragment(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
