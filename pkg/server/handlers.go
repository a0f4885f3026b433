package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bluewave-labs/verifywise-sub000/pkg/common"
	"github.com/bluewave-labs/verifywise-sub000/pkg/notify"
	"github.com/bluewave-labs/verifywise-sub000/pkg/types"
)

var (
	viewRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "verifywise_view_requests_total",
		Help: "The total number of table view requests",
	}, []string{"entity"})
)

const refreshTimeout = 15 * time.Second

// ensureLoaded makes sure the entity cache holds something renderable. A
// failed fetch on a warm cache keeps the stale data and only raises a toast.
func (ws *WebServer) ensureLoaded(ctx context.Context, entity, sessionId string) bool {
	cache, ok := ws.cache(entity)
	if !ok {
		return false
	}
	if cache.Loaded() {
		// revalidate in the background; the generation check discards
		// whichever response arrives late
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
			defer cancel()
			if err := cache.Refresh(ctx); err != nil {
				log.Printf("Background refresh of %s failed: %v", entity, err)
				ws.Notify.Push(sessionId, notify.LevelError, fmt.Sprintf("Failed to fetch %s", entity))
			}
		}()
		return true
	}
	if err := cache.Refresh(ctx); err != nil {
		log.Printf("Failed to fetch %s: %v", entity, err)
		ws.Notify.Push(sessionId, notify.LevelError, fmt.Sprintf("Failed to fetch %s", entity))
	}
	return true
}

func (ws *WebServer) HandleView(w http.ResponseWriter, r *http.Request) {
	entity := r.PathValue("entity")
	def, ok := ws.Registry.Get(entity)
	if !ok {
		http.Error(w, "unknown entity", http.StatusNotFound)
		return
	}
	viewRequests.WithLabelValues(entity).Inc()

	viewRequest := &ViewRequest{}
	if err := GetViewQueryFromRequest(r, viewRequest); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	common.JsonHandler(func(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
		ws.ensureLoaded(r.Context(), entity, sessionId)

		tableId := viewRequest.TableId(entity)
		pref, _ := ws.Prefs.Load(tableId)
		if viewRequest.HasExplicitSort() || viewRequest.HasExplicitPageSize() {
			pref.Sort = viewRequest.sortConfig(pref)
			pref.PageSize = viewRequest.pageSize(pref)
			if err := ws.Prefs.Save(tableId, pref); err != nil {
				// best effort, the view still renders
				log.Printf("Failed to save preference for %s: %v", tableId, err)
			}
		}

		cache, _ := ws.cache(entity)
		result := def.Build(cache.Records(), viewRequest.ToViewRequest(pref))
		w.Header().Set("Cache-Control", "no-store")
		return enc.Encode(result)
	})(w, r)
}

func (ws *WebServer) HandleList(w http.ResponseWriter, r *http.Request) {
	entity := r.PathValue("entity")
	if _, ok := ws.Registry.Get(entity); !ok {
		http.Error(w, "unknown entity", http.StatusNotFound)
		return
	}
	common.JsonHandler(func(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
		ws.ensureLoaded(r.Context(), entity, sessionId)
		cache, _ := ws.cache(entity)
		return enc.Encode(map[string]any{"data": cache.Records()})
	})(w, r)
}

func (ws *WebServer) HandleGet(w http.ResponseWriter, r *http.Request) {
	entity := r.PathValue("entity")
	id := r.PathValue("id")
	cache, ok := ws.cache(entity)
	if !ok {
		http.Error(w, "unknown entity", http.StatusNotFound)
		return
	}
	common.JsonHandler(func(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
		if record, found := cache.Get(id); found {
			return enc.Encode(map[string]any{"data": record})
		}
		record, err := ws.Client.GetById(r.Context(), entity, id)
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return nil
		}
		return enc.Encode(map[string]any{"data": record})
	})(w, r)
}

// validate runs the required-field checks. Failures come back per field and
// never as a toast.
func validate(entity string, record types.Record) map[string]string {
	errors := make(map[string]string)
	for _, field := range requiredFields[entity] {
		v, ok := types.MapAccessor(record, field)
		if !ok || types.AsString(v) == "" {
			errors[field] = fmt.Sprintf("%s is required", field)
		}
	}
	if len(errors) == 0 {
		return nil
	}
	return errors
}

func (ws *WebServer) publishChange(change types.RecordChange) {
	if ws.Sender != nil {
		ws.Sender.Send(change)
	}
}

func (ws *WebServer) HandleCreate(w http.ResponseWriter, r *http.Request) {
	entity := r.PathValue("entity")
	mutator, ok := ws.mutator(entity)
	if !ok {
		http.Error(w, "unknown entity", http.StatusNotFound)
		return
	}
	sessionId := common.HandleSessionCookie(w, r)

	var record types.Record
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if fieldErrors := validate(entity, record); fieldErrors != nil {
		writeValidationErrors(w, fieldErrors)
		return
	}

	echo, state, err := mutator.Create(r.Context(), record)
	if err != nil {
		ws.Notify.Push(sessionId, notify.LevelError, fmt.Sprintf("Failed to create %s", entity))
		writeMutationResult(w, http.StatusBadGateway, state, nil, err)
		return
	}
	// broadcast the echo: the backend assigns the id, the submitted record
	// may not carry one
	ws.publishChange(types.RecordChange{Entity: entity, Id: echo.Id(), Kind: types.ChangeUpsert, Record: echo})
	writeMutationResult(w, http.StatusCreated, state, echo, nil)
}

func (ws *WebServer) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	entity := r.PathValue("entity")
	id := r.PathValue("id")
	mutator, ok := ws.mutator(entity)
	if !ok {
		http.Error(w, "unknown entity", http.StatusNotFound)
		return
	}
	sessionId := common.HandleSessionCookie(w, r)

	var record types.Record
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if fieldErrors := validate(entity, record); fieldErrors != nil {
		writeValidationErrors(w, fieldErrors)
		return
	}

	echo, state, err := mutator.Update(r.Context(), id, record)
	if err != nil {
		ws.Notify.Push(sessionId, notify.LevelError, fmt.Sprintf("Failed to update %s", entity))
		writeMutationResult(w, http.StatusBadGateway, state, nil, err)
		return
	}
	changeId := echo.Id()
	if changeId == "" {
		changeId = id
	}
	ws.publishChange(types.RecordChange{Entity: entity, Id: changeId, Kind: types.ChangeUpsert, Record: echo})
	writeMutationResult(w, http.StatusOK, state, echo, nil)
}

func (ws *WebServer) HandleDelete(w http.ResponseWriter, r *http.Request) {
	entity := r.PathValue("entity")
	id := r.PathValue("id")
	mutator, ok := ws.mutator(entity)
	if !ok {
		http.Error(w, "unknown entity", http.StatusNotFound)
		return
	}
	sessionId := common.HandleSessionCookie(w, r)

	state, err := mutator.Delete(r.Context(), id)
	if err != nil {
		ws.Notify.Push(sessionId, notify.LevelError, fmt.Sprintf("Failed to delete %s", entity))
		writeMutationResult(w, http.StatusBadGateway, state, nil, err)
		return
	}
	ws.publishChange(types.RecordChange{Entity: entity, Id: id, Kind: types.ChangeDelete})
	writeMutationResult(w, http.StatusOK, state, nil, nil)
}

func (ws *WebServer) HandleGetPreference(w http.ResponseWriter, r *http.Request) {
	table := r.PathValue("table")
	common.JsonHandler(func(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
		pref, _ := ws.Prefs.Load(table)
		return enc.Encode(pref)
	})(w, r)
}

func (ws *WebServer) HandleSavePreference(w http.ResponseWriter, r *http.Request) {
	table := r.PathValue("table")
	var pref types.TablePreference
	if err := json.NewDecoder(r.Body).Decode(&pref); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	pref.Sanitize()
	if err := ws.Prefs.Save(table, pref); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (ws *WebServer) HandleNotifications(w http.ResponseWriter, r *http.Request) {
	common.JsonHandler(func(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
		return enc.Encode(ws.Notify.Pending(sessionId))
	})(w, r)
}

func (ws *WebServer) HandleDismissNotification(w http.ResponseWriter, r *http.Request) {
	ws.Notify.Dismiss(r.PathValue("id"))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func writeValidationErrors(w http.ResponseWriter, fieldErrors map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnprocessableEntity)
	if err := json.NewEncoder(w).Encode(map[string]any{"errors": fieldErrors}); err != nil {
		log.Printf("Error encoding validation response: %v", err)
	}
}

func writeMutationResult(w http.ResponseWriter, status int, state any, record types.Record, cause error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := map[string]any{"state": state}
	if record != nil {
		body["record"] = record
	}
	if cause != nil {
		body["error"] = cause.Error()
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Error encoding mutation response: %v", err)
	}
}
