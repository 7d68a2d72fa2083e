package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/example/sacsbot/internal/calc"
	"github.com/example/sacsbot/internal/types"
	"github.com/example/sacsbot/pkg/jsonutil"
)

// CalculateHandler exposes the calculator over HTTP.
type CalculateHandler struct {
	Calc *calc.Calculator
	Log  *slog.Logger
}

func NewCalculateHandler(c *calc.Calculator, log *slog.Logger) *CalculateHandler {
	if log == nil {
		log = slog.Default()
	}
	return &CalculateHandler{Calc: c, Log: log}
}

// Query handles GET /api/calculate?lines=11&bags=8. Both values are
// validated as raw text, exactly like chat input.
func (h *CalculateHandler) Query(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lines, ok := h.Calc.Accept(calc.FieldLines, q.Get("lines"))
	if !ok {
		h.reject(w, calc.FieldLines)
		return
	}
	bags, ok := h.Calc.Accept(calc.FieldBags, q.Get("bags"))
	if !ok {
		h.reject(w, calc.FieldBags)
		return
	}
	h.respond(w, lines, bags)
}

// JSON handles POST /api/calculate with a types.CalculateRequest body.
func (h *CalculateHandler) JSON(w http.ResponseWriter, r *http.Request) {
	var req types.CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonutil.Error(w, http.StatusBadRequest, "bad request")
		return
	}
	h.respond(w, req.Lines, req.Bags)
}

// Limits handles GET /api/limits.
func (h *CalculateHandler) Limits(w http.ResponseWriter, _ *http.Request) {
	jsonutil.JSON(w, http.StatusOK, h.Calc.Limits())
}

func (h *CalculateHandler) respond(w http.ResponseWriter, lines, bags int) {
	res, err := h.Calc.Calculate(lines, bags)
	if err != nil {
		var re *calc.RangeError
		if errors.As(err, &re) {
			h.reject(w, re.Field)
			return
		}
		jsonutil.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.Log.Info("calculated", "event", "calculate", "lines", lines, "bags", bags, "total", res.Total)
	jsonutil.JSON(w, http.StatusOK, types.NewCalculateResponse(res))
}

func (h *CalculateHandler) reject(w http.ResponseWriter, f calc.Field) {
	jsonutil.JSON(w, http.StatusUnprocessableEntity, types.NewRangeErrorResponse(f, h.Calc.Limits().For(f)))
}
