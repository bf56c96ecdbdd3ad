package annotation

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strings"

	"github.com/lewtec/regiondb/internal/domain"
)

// AnnotatorApp wires the annotation database to its HTTP surface: a small
// JSON API consumed by the frontend and a human-readable stats page.
type AnnotatorApp struct {
	DB     domain.AnnotationDB
	Config *Config
}

func stringOr(str, or string) string {
	if str != "" {
		return str
	} else {
		return or
	}
}

// GetHTTPHandler builds the full handler, logging included.
func (a *AnnotatorApp) GetHTTPHandler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/data", func(w http.ResponseWriter, r *http.Request) {
		a.handlePayload(w, r, a.DB.HandleNewData)
	})

	mux.HandleFunc("/api/active-image", func(w http.ResponseWriter, r *http.Request) {
		a.handlePayload(w, r, a.DB.HandleActiveImageData)
	})

	mux.HandleFunc("/api/categories", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var body struct {
			Labels []string `json:"labels"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			log.Printf("http: bad categories payload: %s", err)
			writeResult(w, false)
			return
		}
		if err := a.DB.CreateCategories(r.Context(), body.Labels); err != nil {
			log.Printf("http: while creating categories: %s", err)
			writeResult(w, false)
			return
		}
		writeResult(w, true)
	})

	mux.HandleFunc("/api/distribution", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(a.DB.GetClassDistribution()); err != nil {
			log.Printf("http: while encoding distribution: %s", err)
		}
	})

	mux.HandleFunc("/api/clear", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if err := a.DB.ClearDatabase(); err != nil {
			log.Printf("http: while clearing database: %s", err)
			writeResult(w, false)
			return
		}
		writeResult(w, true)
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFoundHandler().ServeHTTP(w, r)
			return
		}
		var markdownBuilder strings.Builder
		fmt.Fprintf(&markdownBuilder, "# Annotation database\n")
		fmt.Fprintf(&markdownBuilder, "> %s\n\n", strings.ReplaceAll(stringOr(a.Config.Meta.Description, "(No description provided)"), "\n", "\n>"))
		fmt.Fprintf(&markdownBuilder, "## Regions per class\n\n")
		dist := a.DB.GetClassDistribution()
		if len(dist) == 0 {
			fmt.Fprintf(&markdownBuilder, "No regions annotated yet.\n")
		} else {
			classes := make([]string, 0, len(dist))
			for class := range dist {
				classes = append(classes, class)
			}
			sort.Strings(classes)
			for _, class := range classes {
				fmt.Fprintf(&markdownBuilder, "- **%s**: %d regions\n", class, dist[class])
			}
		}
		if err := ExecTemplate(w, TemplateContent{Title: "Annotation database", Content: markdownBuilder.String()}); err != nil {
			log.Printf("error: http: while rendering stats page: %s", err)
		}
	})

	var handler http.Handler = mux
	handler = HTTPLogger(handler)
	return handler
}

// handlePayload decodes a snapshot, applies it through handle and reports
// the boolean the handler produced. Decoding failures count as payload
// failures, not HTTP errors: the frontend only looks at success.
func (a *AnnotatorApp) handlePayload(w http.ResponseWriter, r *http.Request, handle func(ctx context.Context, data domain.ImageData) bool) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var data domain.ImageData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		log.Printf("http: bad annotation payload: %s", err)
		writeResult(w, false)
		return
	}
	writeResult(w, handle(r.Context(), data))
}

func writeResult(w http.ResponseWriter, ok bool) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]bool{"success": ok}); err != nil {
		log.Printf("http: while encoding result: %s", err)
	}
}
