package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lane-lab/kanvas/pkg/domain/model"
	"github.com/lane-lab/kanvas/pkg/domain/types"
	"github.com/lane-lab/kanvas/pkg/usecase"
	"github.com/lane-lab/kanvas/pkg/utils/errutil"
	"github.com/m-mizutani/goerr/v2"
)

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data) //nolint:errcheck // header already committed
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return false
	}
	return true
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, usecase.ErrViewNotFound),
		errors.Is(err, usecase.ErrPresetNotFound),
		errors.Is(err, usecase.ErrCardNotFound),
		errors.Is(err, usecase.ErrColumnNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrDragState),
		errors.Is(err, usecase.ErrNoActiveView):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) viewsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, map[string]any{"views": s.board.View().Views})
}

func (s *Server) selectViewHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key string `json:"key"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.board.SelectView(r.Context(), req.Key); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
		return
	}
	writeJSON(w, r, s.board.View())
}

func (s *Server) boardHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, s.board.View())
}

func (s *Server) drainNoticesHandler(w http.ResponseWriter, r *http.Request) {
	notices := s.board.DrainNotices()
	if notices == nil {
		notices = []string{}
	}
	writeJSON(w, r, map[string]any{"notices": notices})
}

func (s *Server) refreshHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.board.Refresh(r.Context()); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
		return
	}
	writeJSON(w, r, s.board.View())
}

func (s *Server) beginDragHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CardID string `json:"cardId"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.board.BeginDrag(types.RecordID(req.CardID)); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) cancelDragHandler(w http.ResponseWriter, r *http.Request) {
	s.board.CancelDrag()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) moveHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CardID            string `json:"cardId"`
		SourceColumn      string `json:"sourceColumn"`
		SourceIndex       int    `json:"sourceIndex"`
		DestinationColumn string `json:"destinationColumn"`
		DestinationIndex  int    `json:"destinationIndex"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := s.board.Drop(r.Context(), usecase.MoveRequest{
		CardID:            types.RecordID(req.CardID),
		SourceColumn:      types.ColumnID(req.SourceColumn),
		SourceIndex:       req.SourceIndex,
		DestinationColumn: types.ColumnID(req.DestinationColumn),
		DestinationIndex:  req.DestinationIndex,
	})
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
		return
	}
	writeJSON(w, r, result)
}

func (s *Server) filterHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Value string `json:"value"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	field := types.FieldName(chi.URLParam(r, "field"))
	s.board.SetQuickFilter(r.Context(), field, req.Value)
	writeJSON(w, r, s.board.View())
}

func (s *Server) clearFiltersHandler(w http.ResponseWriter, r *http.Request) {
	s.board.ClearFilters(r.Context())
	writeJSON(w, r, s.board.View())
}

func (s *Server) presetHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "-" {
		// the dash preset id clears every filter
		id = ""
	}
	if err := s.board.ApplyPreset(r.Context(), id); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
		return
	}
	writeJSON(w, r, s.board.View())
}

func (s *Server) sortHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Field     string `json:"field"`
		Direction string `json:"direction"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	dir := types.SortDirection(req.Direction)
	if req.Field != "" && !dir.IsValid() {
		errutil.HandleHTTP(r.Context(), w, goerr.New("invalid sort direction",
			goerr.V("direction", req.Direction)), http.StatusBadRequest)
		return
	}

	s.board.SetSort(r.Context(), model.SortConfig{
		Field:     types.FieldName(req.Field),
		Direction: dir,
	})
	writeJSON(w, r, s.board.View())
}

func (s *Server) searchHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Term string `json:"term"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	s.board.SetSearch(r.Context(), req.Term)
	w.WriteHeader(http.StatusAccepted)
}
