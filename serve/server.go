package serve

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/BenWiederhake/plasmoire/field"
	"github.com/BenWiederhake/plasmoire/parallel"
	"github.com/BenWiederhake/plasmoire/render"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

type server struct {
	pool *parallel.Pool
	init viewState
	tile int
}

func newServer(pool *parallel.Pool, init viewState, tile int) *server {
	return &server{pool: pool, init: init, tile: tile}
}

func (s *server) handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", appHandler(s.handleIndex))
	mux.Handle("/view.png", appHandler(s.handleViewPNG))
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

// appHandler maps handler errors onto HTTP status codes: parameter problems
// become 400, everything else 500.
type appHandler func(w http.ResponseWriter, r *http.Request) error

func (h appHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h(w, r); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, field.ErrInvalidParameter) || errors.Is(err, errBadQuery) {
			status = http.StatusBadRequest
		}
		slog.Error("request failed", "path", r.URL.Path, "error", err)
		http.Error(w, err.Error(), status)
	}
}

var errBadQuery = errors.New("bad query parameter")

func (s *server) handleIndex(w http.ResponseWriter, r *http.Request) error {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return nil
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := fmt.Fprintf(w, indexPage,
		s.init.vp.Width, s.init.vp.Height,
		s.init.params.FirstPoleDistance, s.init.params.Distortion)
	return err
}

// handleViewPNG is the stateless one-shot crop endpoint. Missing parameters
// fall back to the server's initial view.
func (s *server) handleViewPNG(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()

	vp := s.init.vp
	params := s.init.params
	var err error
	if vp.StartX, err = intParam(q.Get("x"), vp.StartX); err != nil {
		return err
	}
	if vp.StartY, err = intParam(q.Get("y"), vp.StartY); err != nil {
		return err
	}
	if vp.Width, err = intParam(q.Get("w"), vp.Width); err != nil {
		return err
	}
	if vp.Height, err = intParam(q.Get("h"), vp.Height); err != nil {
		return err
	}
	if params.FirstPoleDistance, err = floatParam(q.Get("pole"), params.FirstPoleDistance); err != nil {
		return err
	}
	if params.Distortion, err = floatParam(q.Get("distortion"), params.Distortion); err != nil {
		return err
	}

	img, err := render.Compose(s.pool, vp, params, s.tile)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "image/png")
	return png.Encode(w, img)
}

func intParam(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", errBadQuery, s)
	}
	return v, nil
}

func floatParam(s string, def float64) (float64, error) {
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", errBadQuery, s)
	}
	return v, nil
}

// controlMsg is what the viewer page sends over the websocket.
type controlMsg struct {
	Op         string  `json:"op"`
	Dx         int     `json:"dx,omitempty"`
	Dy         int     `json:"dy,omitempty"`
	Pole       float64 `json:"pole,omitempty"`
	Distortion float64 `json:"distortion,omitempty"`
	Width      int     `json:"width,omitempty"`
	Height     int     `json:"height,omitempty"`
}

type statusMsg struct {
	Error string `json:"error"`
}

// handleWS owns one viewState per connection. After every accepted control
// message it renders the current view and pushes one whole PNG frame as a
// binary message; rejected messages leave the state untouched and report
// back as a JSON text message.
func (s *server) handleWS(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"}, // local viewer, no cross-origin concern
	})
	if err != nil {
		slog.Error("websocket accept failed", "error", err)
		return
	}
	defer c.CloseNow()

	ctx := r.Context()
	state := s.init

	logger := slog.Default().With("remote", r.RemoteAddr)
	logger.Info("viewer connected")

	if err := s.writeFrame(ctx, c, state); err != nil {
		logger.Error("could not send initial frame", "error", err)
		return
	}

	for {
		var msg controlMsg
		if err := wsjson.Read(ctx, c, &msg); err != nil {
			logger.Info("viewer disconnected", "reason", err)
			return
		}

		next, err := state.apply(msg)
		if err != nil {
			if werr := wsjson.Write(ctx, c, statusMsg{Error: err.Error()}); werr != nil {
				logger.Error("could not report rejected message", "error", werr)
				return
			}
			continue
		}
		state = next

		if err := s.writeFrame(ctx, c, state); err != nil {
			logger.Error("could not send frame", "error", err)
			return
		}
	}
}

func (s viewState) apply(msg controlMsg) (viewState, error) {
	switch msg.Op {
	case "pan":
		return s.pan(msg.Dx, msg.Dy), nil
	case "params":
		return s.withParams(msg.Pole, msg.Distortion)
	case "resize":
		return s.resize(msg.Width, msg.Height)
	default:
		return s, fmt.Errorf("unknown op %q", msg.Op)
	}
}

func (s *server) writeFrame(ctx context.Context, c *websocket.Conn, state viewState) error {
	img, err := render.Compose(s.pool, state.vp, state.params, s.tile)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("could not encode frame: %w", err)
	}
	return c.Write(ctx, websocket.MessageBinary, buf.Bytes())
}
