package host

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/didip/tollbooth/v8"
	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"
)

// StatusReporter provides host status for the control server.
type StatusReporter interface {
	Status() Status
}

// Control is an HTTP server letting test runners discover the debugging endpoint
// and manage the scratch workspace of a running host.
type Control struct {
	Listen    string // address to listen on
	Version   string // version reported in App-Info headers
	Host      StatusReporter
	Workspace *Workspace
}

// Run starts the control server and blocks until ctx is canceled or the server fails.
func (c *Control) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              c.Listen,
		Handler:           c.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Printf("[INFO] starting control server on %s, workspace %s", c.Listen, c.Workspace.Dir())
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("control server failed: %w", err)
	case <-ctx.Done():
		log.Printf("[DEBUG] control server shutdown initiated")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		log.Printf("[INFO] control server shutdown completed")
		return nil
	}
}

func (c *Control) routes() http.Handler {
	mux := http.NewServeMux()
	router := routegroup.New(mux)

	router.Use(rest.Trace, rest.RealIP, rest.Recoverer(lgr.Default()))
	router.Use(rest.Throttle(100))
	router.Use(tollbooth.HTTPMiddleware(tollbooth.NewLimiter(50, nil)))
	router.Use(rest.SizeLimit(64 * 1024))
	router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	router.Use(rest.AppInfo("openshift-uitest", "umputun", c.Version), rest.Ping)

	router.Mount("/api").Route(func(api *routegroup.Bundle) {
		api.HandleFunc("GET /status", c.handleStatus)
		api.HandleFunc("POST /workspace/reset", c.handleWorkspaceReset)
		api.HandleFunc("GET /workspace", c.handleWorkspaceList)
		api.HandleFunc("DELETE /workspace/{name}", c.handleWorkspaceRemove)
	})
	return router
}

// GET /api/status, host status with the debugging endpoint
func (c *Control) handleStatus(w http.ResponseWriter, _ *http.Request) {
	rest.RenderJSON(w, c.Host.Status())
}

// GET /api/workspace, names of the workspace entries
func (c *Control) handleWorkspaceList(w http.ResponseWriter, r *http.Request) {
	entries, err := c.Workspace.Entries()
	if err != nil {
		rest.SendErrorJSON(w, r, lgr.Default(), http.StatusInternalServerError, err, "can't list workspace")
		return
	}
	rest.RenderJSON(w, rest.JSON{"dir": c.Workspace.Dir(), "entries": entries})
}

// POST /api/workspace/reset, empties the workspace
func (c *Control) handleWorkspaceReset(w http.ResponseWriter, r *http.Request) {
	if err := c.Workspace.Reset(); err != nil {
		rest.SendErrorJSON(w, r, lgr.Default(), http.StatusInternalServerError, err, "can't reset workspace")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DELETE /api/workspace/{name}, removes a component directory
func (c *Control) handleWorkspaceRemove(w http.ResponseWriter, r *http.Request) {
	err := c.Workspace.Remove(r.PathValue("name"))
	switch {
	case errors.Is(err, ErrBadName):
		rest.SendErrorJSON(w, r, lgr.Default(), http.StatusBadRequest, err, "invalid component name")
		return
	case err != nil:
		rest.SendErrorJSON(w, r, lgr.Default(), http.StatusInternalServerError, err, "can't remove component")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
