package plot

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// handleHealth handles health check requests
func (c *Chart) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// handleIndex handles the main page request
func (c *Chart) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	target := "the target stock"
	if c.pair != nil && c.pair.TargetStock.Name != "" {
		target = c.pair.TargetStock.Name
	}

	w.Header().Set("Content-Type", "text/html")
	err := c.indexHTML.Execute(w, map[string]any{
		"target":  target,
		"reduced": c.cfg.ReducedMotion,
	})
	if err != nil {
		c.log.WithError(err).Error("template execution failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// writeJSON serializes a payload; absent documents answer 204 so the
// page's panels simply stay empty.
func (c *Chart) writeJSON(w http.ResponseWriter, payload any) {
	if payload == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		c.log.WithError(err).Error("failed to encode response")
	}
}

func (c *Chart) handleComparison(w http.ResponseWriter, _ *http.Request) {
	c.Lock()
	defer c.Unlock()

	if c.comparison == nil {
		c.writeJSON(w, nil)
		return
	}
	c.writeJSON(w, c.comparison)
}

func (c *Chart) handleBenchmark(w http.ResponseWriter, _ *http.Request) {
	c.Lock()
	defer c.Unlock()

	if c.pair == nil {
		c.writeJSON(w, nil)
		return
	}
	c.writeJSON(w, c.pair)
}

func (c *Chart) handleHindsight(w http.ResponseWriter, _ *http.Request) {
	c.Lock()
	defer c.Unlock()

	if c.hindsight == nil {
		c.writeJSON(w, nil)
		return
	}
	c.writeJSON(w, c.hindsight)
}

// handleSVG renders one panel for the session's current state.
func (c *Chart) handleSVG(w http.ResponseWriter, r *http.Request) {
	c.Lock()
	defer c.Unlock()

	state := c.session(r.URL.Query().Get("session"))
	panel := strings.TrimPrefix(r.URL.Path, "/svg/")
	now := c.cfg.Now()

	var scene *Scene
	switch panel {
	case "comparison":
		if ts := c.timeSeries(state); ts != nil {
			scene = ts.Render(now)
		}
	case "histogram":
		if h := c.histogram(state); h != nil {
			scene = h.Render()
		}
	case "marketmap":
		if nav := c.marketMap(state); nav != nil {
			scene = nav.Render(now)
		}
	case "allocation":
		if a := c.allocation(state); a != nil {
			scene = a.Render(now)
		}
	case "reveal":
		if rv := c.reveal(state); rv != nil {
			scene = rv.Render()
		}
	default:
		http.NotFound(w, r)
		return
	}

	if scene == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	if _, err := w.Write([]byte(scene.SVG())); err != nil {
		c.log.WithError(err).Error("failed to write svg")
	}
}

// handleBrush applies a pixel selection to the comparison chart.
func (c *Chart) handleBrush(w http.ResponseWriter, r *http.Request) {
	c.Lock()
	defer c.Unlock()

	state := c.session(r.URL.Query().Get("session"))
	ts := c.timeSeries(state)
	if ts == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	x0 := queryFloat(r, "x0")
	x1 := queryFloat(r, "x1")

	ts.PointerDown(x0)
	ts.PointerMove(x1)
	ts.PointerUp(x1)

	zoom := ts.Zoom()
	if ts.State() == Zoomed {
		state.ZoomFrom, state.ZoomTo = &zoom.Current[0], &zoom.Current[1]
	} else {
		state.ZoomFrom, state.ZoomTo = nil, nil
	}
	c.saveSession(state)

	c.writeJSON(w, map[string]any{
		"state": int(ts.State()),
		"from":  zoom.Current[0].Format(time.RFC3339),
		"to":    zoom.Current[1].Format(time.RFC3339),
	})
}

// handleReset restores the original domain (double-click gesture).
func (c *Chart) handleReset(w http.ResponseWriter, r *http.Request) {
	c.Lock()
	defer c.Unlock()

	state := c.session(r.URL.Query().Get("session"))
	state.ZoomFrom, state.ZoomTo = nil, nil
	c.saveSession(state)
	w.WriteHeader(http.StatusOK)
}

// handleHover answers tooltip and bin-hover lookups.
func (c *Chart) handleHover(w http.ResponseWriter, r *http.Request) {
	c.Lock()
	defer c.Unlock()

	state := c.session(r.URL.Query().Get("session"))

	switch r.URL.Query().Get("panel") {
	case "comparison":
		ts := c.timeSeries(state)
		if ts == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		tooltip := ts.Locate(queryFloat(r, "x"))
		if tooltip == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		c.writeJSON(w, tooltip)

	case "histogram":
		h := c.histogram(state)
		if h == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		info, err := h.Hover(int(queryFloat(r, "bin")))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		c.writeJSON(w, info)

	default:
		http.NotFound(w, r)
	}
}

// handleZoom drills the market map into a node (or opens a leaf).
func (c *Chart) handleZoom(w http.ResponseWriter, r *http.Request) {
	c.Lock()
	defer c.Unlock()

	state := c.session(r.URL.Query().Get("session"))
	nav := c.marketMap(state)
	if nav == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	opened := ""
	nav.OnLeafOpen = func(key string) { opened = key }

	if err := nav.ZoomInto(r.URL.Query().Get("key")); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	state.FocusPath = nav.FocusPath()
	c.saveSession(state)

	c.writeJSON(w, map[string]any{
		"breadcrumbs": nav.FocusPath(),
		"opened":      opened,
	})
}

// handleBreadcrumb pops the market map back to a trail position.
func (c *Chart) handleBreadcrumb(w http.ResponseWriter, r *http.Request) {
	c.Lock()
	defer c.Unlock()

	state := c.session(r.URL.Query().Get("session"))
	nav := c.marketMap(state)
	if nav == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	index, err := strconv.Atoi(r.URL.Query().Get("i"))
	if err != nil {
		// No index means reset to root.
		nav.ResetFocus()
	} else if err := nav.JumpTo(index); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	state.FocusPath = nav.FocusPath()
	c.saveSession(state)
	c.writeJSON(w, map[string]any{"breadcrumbs": nav.FocusPath()})
}

// handleMode toggles the allocation chart between raw and calculated.
func (c *Chart) handleMode(w http.ResponseWriter, r *http.Request) {
	c.Lock()
	defer c.Unlock()

	state := c.session(r.URL.Query().Get("session"))
	state.Calculated = r.URL.Query().Get("calculated") == "true"
	c.saveSession(state)

	alloc := c.allocation(state)
	if alloc == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	c.writeJSON(w, map[string]any{
		"calculated": state.Calculated,
		"total":      alloc.Total(),
	})
}

// handleScroll updates the reveal progress.
func (c *Chart) handleScroll(w http.ResponseWriter, r *http.Request) {
	c.Lock()
	defer c.Unlock()

	state := c.session(r.URL.Query().Get("session"))
	state.Scroll = queryFloat(r, "p")
	if state.Scroll < 0 {
		state.Scroll = 0
	}
	if state.Scroll > 1 {
		state.Scroll = 1
	}
	c.saveSession(state)
	w.WriteHeader(http.StatusOK)
}

// handleViewport records a container resize, which invalidates every
// mounted renderer: the next render of each panel rebuilds from scratch.
func (c *Chart) handleViewport(w http.ResponseWriter, r *http.Request) {
	c.Lock()
	defer c.Unlock()

	state := c.session(r.URL.Query().Get("session"))
	state.Width = queryFloat(r, "w")
	state.Height = queryFloat(r, "h")
	c.saveSession(state)
	w.WriteHeader(http.StatusOK)
}

func queryFloat(r *http.Request, key string) float64 {
	v, err := strconv.ParseFloat(r.URL.Query().Get(key), 64)
	if err != nil {
		return 0
	}
	return v
}
