package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig controls which browser origins may call the API. The chat
// widget is served from the storefront, so production lists the storefront
// origins explicitly.
type CORSConfig struct {
	// AllowedOrigins are matched case-insensitively, ignoring a trailing
	// slash. "*" admits any origin.
	AllowedOrigins []string

	// AllowedMethods defaults to the verbs the API routes use.
	AllowedMethods []string

	// AllowedHeaders defaults to the headers the widget sends.
	AllowedHeaders []string

	// ExposedHeaders are readable by the widget's scripts.
	ExposedHeaders []string

	// MaxAge is the preflight cache lifetime in seconds; zero means one hour.
	MaxAge int

	// AllowCredentials makes the echoed origin explicit even for "*", since
	// browsers refuse credentialed responses carrying a literal wildcard.
	AllowCredentials bool

	// Environment "development" admits any origin.
	Environment string
}

var (
	defaultCORSMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	defaultCORSHeaders = []string{"Accept", "Content-Type", CorrelationHeader, SessionHeader}
)

// DefaultCORSConfig returns the development setup where the widget runs on
// its own dev server port.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedOrigins: []string{"*"},
		AllowedMethods: defaultCORSMethods,
		AllowedHeaders: defaultCORSHeaders,
		ExposedHeaders: []string{CorrelationHeader, SessionHeader},
		MaxAge:         3600,
		Environment:    "development",
	}
}

func normalizeOrigin(o string) string {
	return strings.ToLower(strings.TrimSuffix(strings.TrimSpace(o), "/"))
}

// CORS answers preflight requests and stamps allowed origins on responses.
// A preflight from an origin that is not allowed gets 403.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	methods := cfg.AllowedMethods
	if len(methods) == 0 {
		methods = defaultCORSMethods
	}
	allowHeaders := cfg.AllowedHeaders
	if len(allowHeaders) == 0 {
		allowHeaders = defaultCORSHeaders
	}
	maxAge := cfg.MaxAge
	if maxAge == 0 {
		maxAge = 3600
	}

	anyOrigin := cfg.Environment == "development"
	allowed := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		if o == "*" {
			anyOrigin = true
			continue
		}
		allowed[normalizeOrigin(o)] = struct{}{}
	}

	// A literal "*" is only sent when the answer is the same for every origin.
	wildcard := anyOrigin && !cfg.AllowCredentials

	methodList := strings.Join(methods, ", ")
	headerList := strings.Join(allowHeaders, ", ")
	exposed := strings.Join(cfg.ExposedHeaders, ", ")
	maxAgeValue := strconv.Itoa(maxAge)

	originAllowed := func(origin string) bool {
		if anyOrigin {
			return true
		}
		_, ok := allowed[normalizeOrigin(origin)]
		return ok
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			preflight := r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""
			h := w.Header()

			if !wildcard {
				h.Add("Vary", "Origin")
			}

			switch {
			case wildcard:
				h.Set("Access-Control-Allow-Origin", "*")
			case origin != "" && originAllowed(origin):
				h.Set("Access-Control-Allow-Origin", origin)
			default:
				if preflight {
					w.WriteHeader(http.StatusForbidden)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			if cfg.AllowCredentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}

			if preflight {
				h.Set("Access-Control-Allow-Methods", methodList)
				h.Set("Access-Control-Allow-Headers", headerList)
				h.Set("Access-Control-Max-Age", maxAgeValue)
				w.WriteHeader(http.StatusNoContent)
				return
			}

			if exposed != "" {
				h.Set("Access-Control-Expose-Headers", exposed)
			}
			next.ServeHTTP(w, r)
		})
	}
}
