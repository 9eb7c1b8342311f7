package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	controller "github.com/lane-lab/kanvas/pkg/controller/http"
	"github.com/lane-lab/kanvas/pkg/domain/model"
	"github.com/lane-lab/kanvas/pkg/domain/types"
	"github.com/lane-lab/kanvas/pkg/repository/memory"
	"github.com/lane-lab/kanvas/pkg/usecase"
	"github.com/m-mizutani/gt"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	columns := []model.DatasetColumn{
		{Name: "name", DisplayName: "Name", DataType: types.FieldDataTypeText},
		{Name: "status", DisplayName: "Status", DataType: types.FieldDataTypeOptionSet, Order: 1},
	}
	records := []*model.Record{
		{ID: "r1", Fields: map[types.FieldName]model.FieldData{
			"name":   {Raw: "Write report", Formatted: "Write report"},
			"status": {Raw: "todo", Formatted: "Todo"},
		}},
		{ID: "r2", Fields: map[types.FieldName]model.FieldData{
			"name":   {Raw: "Review budget", Formatted: "Review budget"},
			"status": {Raw: "doing", Formatted: "Doing"},
		}},
	}
	options := []model.FieldOption{
		{Field: "status", Key: "todo", Label: "Todo", Order: 1},
		{Field: "status", Key: "doing", Label: "Doing", Order: 2},
	}

	store := memory.New(
		memory.WithDataset("task", columns, records),
		memory.WithOptions(options),
	)
	board := usecase.New(store, nil, usecase.WithSearchDebounce(0))
	gt.NoError(t, board.Refresh(context.Background()))

	srv := httptest.NewServer(controller.New(board))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data := gt.R1(json.Marshal(body)).NoError(t)
	resp := gt.R1(http.Post(url, "application/json", bytes.NewReader(data))).NoError(t)
	return resp
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(t)

	resp := gt.R1(http.Get(srv.URL + "/health")).NoError(t)
	defer resp.Body.Close()
	gt.V(t, resp.StatusCode).Equal(http.StatusOK)
}

func TestServer_Board(t *testing.T) {
	srv := newTestServer(t)

	resp := gt.R1(http.Get(srv.URL + "/api/board")).NoError(t)
	defer resp.Body.Close()
	gt.V(t, resp.StatusCode).Equal(http.StatusOK)

	var view usecase.BoardView
	gt.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	gt.A(t, view.Views).Length(1)
	gt.A(t, view.Columns).Length(2)
}

func TestServer_SelectView(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/views/select", map[string]string{"key": "status"})
	defer resp.Body.Close()
	gt.V(t, resp.StatusCode).Equal(http.StatusOK)

	missing := postJSON(t, srv.URL+"/api/views/select", map[string]string{"key": "nope"})
	defer missing.Body.Close()
	gt.V(t, missing.StatusCode).Equal(http.StatusNotFound)
}

func TestServer_Move(t *testing.T) {
	srv := newTestServer(t)

	drag := postJSON(t, srv.URL+"/api/board/drag", map[string]string{"cardId": "r1"})
	defer drag.Body.Close()
	gt.V(t, drag.StatusCode).Equal(http.StatusNoContent)

	move := postJSON(t, srv.URL+"/api/board/move", map[string]any{
		"cardId":            "r1",
		"sourceColumn":      "todo",
		"destinationColumn": "doing",
	})
	defer move.Body.Close()
	gt.V(t, move.StatusCode).Equal(http.StatusOK)

	var result usecase.DropResult
	gt.NoError(t, json.NewDecoder(move.Body).Decode(&result))
	gt.B(t, result.Committed).True()

	// a second move without a new drag gesture conflicts
	again := postJSON(t, srv.URL+"/api/board/move", map[string]any{
		"cardId":            "r1",
		"sourceColumn":      "doing",
		"destinationColumn": "todo",
	})
	defer again.Body.Close()
	gt.V(t, again.StatusCode).Equal(http.StatusConflict)
}

func TestServer_FiltersAndPresets(t *testing.T) {
	srv := newTestServer(t)

	filter := postJSON(t, srv.URL+"/api/filters/status", map[string]string{"value": "todo"})
	defer filter.Body.Close()
	gt.V(t, filter.StatusCode).Equal(http.StatusOK)

	var view usecase.BoardView
	gt.NoError(t, json.NewDecoder(filter.Body).Decode(&view))
	gt.V(t, view.Filters["status"]).Equal("todo")

	req := gt.R1(http.NewRequest(http.MethodDelete, srv.URL+"/api/filters", nil)).NoError(t)
	cleared := gt.R1(http.DefaultClient.Do(req)).NoError(t)
	defer cleared.Body.Close()
	gt.V(t, cleared.StatusCode).Equal(http.StatusOK)

	missing := postJSON(t, srv.URL+"/api/presets/none", nil)
	defer missing.Body.Close()
	gt.V(t, missing.StatusCode).Equal(http.StatusNotFound)
}

func TestServer_DrainNotices(t *testing.T) {
	srv := newTestServer(t)

	req := gt.R1(http.NewRequest(http.MethodDelete, srv.URL+"/api/board/notices", nil)).NoError(t)
	resp := gt.R1(http.DefaultClient.Do(req)).NoError(t)
	defer resp.Body.Close()
	gt.V(t, resp.StatusCode).Equal(http.StatusOK)

	var body struct {
		Notices []string `json:"notices"`
	}
	gt.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	gt.A(t, body.Notices).Length(0)
}

func TestServer_Search(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/search", map[string]string{"term": "budget"})
	defer resp.Body.Close()
	gt.V(t, resp.StatusCode).Equal(http.StatusAccepted)

	board := gt.R1(http.Get(srv.URL + "/api/board")).NoError(t)
	defer board.Body.Close()

	var view usecase.BoardView
	gt.NoError(t, json.NewDecoder(board.Body).Decode(&view))
	gt.V(t, view.Search).Equal("budget")
}
