package web

import (
	"context"
	"net/http"
	"net/url"

	"github.com/vbonduro/roombook/internal/domain"
	"github.com/vbonduro/roombook/internal/query"
)

// Each view moves Loading -> Success | Failure. A full navigation renders the
// Loading state, whose container asks htmx to fetch the view again; that htmx
// request runs the query against the store and renders the settled state.
// Concurrent loads of the same view share one store call. Retry swaps the
// Failure state for a Loading state (phase=loading) that fetches with retry=1.

var partialFiles = []string{"partials/state.html", "partials/room_list.html", "partials/room_detail.html"}

type roomListView struct {
	query.State[[]*domain.Room]
	FetchURL string
	RetryURL string
}

type roomDetailView struct {
	query.State[*domain.Room]
	FetchURL string
	RetryURL string
}

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	key := query.Key{"rooms"}
	view := roomListView{State: query.Loading[[]*domain.Room]()}
	view.FetchURL, view.RetryURL = viewURLs("/rooms", isRetry(r))
	w.Header().Add("Vary", "HX-Request")

	if !isHTMX(r) {
		if err := s.renderPage(w,
			map[string]any{"View": view, "Title": "Rooms"},
			append([]string{"base.html", "pages/rooms.html"}, partialFiles...)...,
		); err != nil {
			s.logger.Error("render page failed", "error", err)
		}
		return
	}

	if !isLoadingPhase(r) {
		view.State = query.Refetch(r.Context(), s.queries, key, s.service.List)
	}

	if err := s.renderFragment(w, stateStatus(view.State), "room_list", view, partialFiles...); err != nil {
		s.logger.Error("render fragment failed", "error", err)
	}
}

func (s *Server) handleRoomDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	key := query.Key{"room", id}
	view := roomDetailView{State: query.Loading[*domain.Room]()}
	view.FetchURL, view.RetryURL = viewURLs("/rooms/"+url.PathEscape(id), isRetry(r))
	w.Header().Add("Vary", "HX-Request")

	if !isHTMX(r) {
		if err := s.renderPage(w,
			map[string]any{"View": view, "Title": "Room"},
			append([]string{"base.html", "pages/room_detail.html"}, partialFiles...)...,
		); err != nil {
			s.logger.Error("render page failed", "room_id", id, "error", err)
		}
		return
	}

	if !isLoadingPhase(r) {
		view.State = query.Refetch(r.Context(), s.queries, key, func(ctx context.Context) (*domain.Room, error) {
			return s.service.GetByID(ctx, id)
		})
	}

	if err := s.renderFragment(w, stateStatus(view.State), "room_detail", view, partialFiles...); err != nil {
		s.logger.Error("render fragment failed", "room_id", id, "error", err)
	}
}

// handleLegacyRoomPath keeps /room/{id} links working.
func (s *Server) handleLegacyRoomPath(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/rooms/"+url.PathEscape(r.PathValue("id")), http.StatusMovedPermanently)
}

// viewURLs returns the URL the Loading state fetches and the URL the Retry
// control requests.
func viewURLs(path string, retry bool) (fetchURL, retryURL string) {
	fetchURL = path
	if retry {
		fetchURL = path + "?retry=1"
	}
	return fetchURL, path + "?phase=loading&retry=1"
}

func isRetry(r *http.Request) bool {
	return r.URL.Query().Get("retry") == "1"
}

func isLoadingPhase(r *http.Request) bool {
	return r.URL.Query().Get("phase") == "loading"
}

// stateStatus maps a settled state to the HTTP status of its fragment.
func stateStatus[T any](st query.State[T]) int {
	switch {
	case !st.IsFailure():
		return http.StatusOK
	case st.NotFound():
		return http.StatusNotFound
	default:
		return http.StatusServiceUnavailable
	}
}
