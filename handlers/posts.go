package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"readlog/middleware"
	"readlog/models"
	"readlog/service"
	"readlog/utils"
)

// isbnPageSize is the fixed page size of the ISBN stream.
const isbnPageSize = 2

// PostsHandler orchestrates the create / retry / delete / ISBN stream flows
// for reading entries. Collaborators are injected explicitly.
type PostsHandler struct {
	Entries   EntryStore
	Users     UserStore
	Books     BookStore
	Publisher Publisher
	Cache     FragmentCache
	BaseURL   string
	TokenKey  []byte // decrypts stored Micropub tokens; nil = tokens kept in plaintext
	Log       *zap.Logger
}

// Form renders the new-post form. An isbn query parameter prefills title and
// authors via the metadata lookup when it resolves.
func (h *PostsHandler) Form(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	user, err := h.Users.Get(r.Context(), userID)
	if err != nil || user == nil {
		http.Error(w, "failed to load profile", http.StatusInternalServerError)
		return
	}
	data := newFormData(url.Values{}, nil, user)
	if isbn := strings.TrimSpace(r.URL.Query().Get("isbn")); isbn != "" {
		if normalized, ok := utils.NormalizeISBN(isbn); ok {
			data.ISBN = normalized
			if meta, err := service.FetchMetadataByISBN(normalized); err == nil {
				data.Title = meta.Title
				data.Authors = meta.Authors
			}
		}
	}
	renderForm(w, http.StatusOK, data)
}

// Create handles the new-post submission: validate, persist, link the book,
// publish to the owner's Micropub endpoint when one is configured, reconcile,
// cache, redirect.
func (h *PostsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	form := r.PostForm
	if !validFields(form, newPostFields) {
		http.Error(w, "unexpected field submitted", http.StatusBadRequest)
		return
	}
	user, err := h.Users.Get(r.Context(), userID)
	if err != nil || user == nil {
		http.Error(w, "failed to load profile", http.StatusInternalServerError)
		return
	}
	if errs := validateNewPost(form); len(errs) > 0 {
		renderForm(w, http.StatusBadRequest, newFormData(form, errs, user))
		return
	}

	e := &models.Entry{
		UserID:     userID,
		Title:      strings.TrimSpace(form.Get("title")),
		Authors:    strings.TrimSpace(form.Get("authors")),
		ReadStatus: form.Get("read_status"),
		DOI:        strings.TrimSpace(form.Get("doi")),
		Category:   models.NormalizeCategory(form.Get("category")),
		Visibility: form.Get("visibility"),
	}
	if e.Visibility == "" {
		e.Visibility = models.VisibilityPublic
	}
	if isbn := strings.TrimSpace(form.Get("isbn")); isbn != "" {
		e.ISBN, _ = utils.NormalizeISBN(isbn)
	}
	if pub := strings.TrimSpace(form.Get("published")); pub != "" {
		naive, _ := parsePublished(pub)
		offset, _ := strconv.Atoi(form.Get("tz_offset"))
		t := models.DatetimeWithOffset(naive, offset)
		e.Published = &t
	}

	saved, err := h.Entries.Add(r.Context(), e)
	if err != nil || saved == nil {
		h.Log.Error("create: entry not saved", zap.Error(err))
		http.Error(w, "the post could not be saved", http.StatusInternalServerError)
		return
	}
	// Book linkage tracks the ISBN only; the doi-over-isbn precedence applies
	// to the publish payload, not here.
	if saved.ISBN != "" {
		if err := h.Books.AddOrIncrement(r.Context(), saved.ISBN, saved.ID); err != nil {
			h.Log.Warn("create: book link failed", zap.Int64("entry_id", saved.ID), zap.Error(err))
		}
	}

	target := h.permalink(user.Slug, saved.ID)
	if user.SupportsMicropub() {
		if canonical := h.publish(r.Context(), user, saved); canonical != "" {
			target = canonical
		}
	}
	h.Cache.Cache(r.Context(), saved.ID)
	http.Redirect(w, r, target, http.StatusFound)
}

// Retry re-invokes the publish path for an entry that never received a
// canonical URL. Published entries are rejected before any network call.
func (h *PostsHandler) Retry(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "post not found", http.StatusNotFound)
		return
	}
	e, err := h.Entries.GetUserEntry(r.Context(), id, userID)
	if err != nil {
		http.Error(w, "failed to load post", http.StatusInternalServerError)
		return
	}
	if e == nil {
		http.Error(w, "post not found", http.StatusNotFound)
		return
	}
	if e.IsPublished() {
		http.Error(w, "this post has already been published", http.StatusBadRequest)
		return
	}
	user, err := h.Users.Get(r.Context(), userID)
	if err != nil || user == nil {
		http.Error(w, "failed to load profile", http.StatusInternalServerError)
		return
	}
	if !user.SupportsMicropub() {
		http.Error(w, "your profile has no Micropub endpoint configured", http.StatusBadRequest)
		return
	}
	target := h.permalink(user.Slug, e.ID)
	if canonical := h.publish(r.Context(), user, e); canonical != "" {
		target = canonical
	}
	h.Cache.Cache(r.Context(), e.ID)
	http.Redirect(w, r, target, http.StatusFound)
}

// Delete removes an entry after an explicit confirmation. When the entry was
// published and the user opted in (and the token grants delete), a remote
// delete is attempted first; its failure is recorded but never blocks the
// local deletion.
func (h *PostsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	form := r.PostForm
	if !validFields(form, deletePostFields) {
		http.Error(w, "unexpected field submitted", http.StatusBadRequest)
		return
	}
	if errs := validateDeletePost(form); len(errs) > 0 {
		http.Error(w, strings.Join(errs, " "), http.StatusBadRequest)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "post not found", http.StatusNotFound)
		return
	}
	e, err := h.Entries.GetUserEntry(r.Context(), id, userID)
	if err != nil {
		http.Error(w, "failed to load post", http.StatusInternalServerError)
		return
	}
	if e == nil {
		http.Error(w, "post not found", http.StatusNotFound)
		return
	}
	user, err := h.Users.Get(r.Context(), userID)
	if err != nil || user == nil {
		http.Error(w, "failed to load profile", http.StatusInternalServerError)
		return
	}

	if e.IsPublished() && user.HasScope(models.ScopeDelete) && form.Get("remove_from_site") == "yes" {
		h.remoteDelete(r.Context(), user, e)
	}

	// Uncache before the entry row disappears; best effort either way.
	h.Cache.Uncache(r.Context(), e.ID)
	if err := h.Entries.Delete(r.Context(), e.ID); err != nil {
		h.Log.Error("delete: entry not removed", zap.Int64("entry_id", e.ID), zap.Error(err))
		http.Error(w, "the post could not be deleted", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// Show serves the public permalink for an entry, rendering the same fragment
// the cache writes.
func (h *PostsHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "post not found", http.StatusNotFound)
		return
	}
	e, err := h.Entries.Get(r.Context(), id)
	if err != nil {
		http.Error(w, "failed to load post", http.StatusInternalServerError)
		return
	}
	if e == nil {
		http.Error(w, "post not found", http.StatusNotFound)
		return
	}
	// Private entries look absent to readers; unlisted ones resolve by link.
	if !e.Viewable() {
		http.Error(w, "post not found", http.StatusNotFound)
		return
	}
	user, err := h.Users.Get(r.Context(), e.UserID)
	if err != nil || user == nil || user.Slug != chi.URLParam(r, "slug") {
		http.Error(w, "post not found", http.StatusNotFound)
		return
	}
	html, err := service.RenderFragment(e, user, false)
	if err != nil {
		http.Error(w, "failed to render post", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(html)
}

// StreamResponse is the ISBN stream page. Older and Newer are before-cursors
// for the adjacent pages; both are omitted when the page is empty.
type StreamResponse struct {
	Entries []models.Entry `json:"entries"`
	Older   *int64         `json:"older,omitempty"`
	Newer   *int64         `json:"newer,omitempty"`
}

// ISBNStream serves a bounded page of entries citing an ISBN, newest first,
// with cursor-based pagination that doesn't drift as entries are added.
func (h *PostsHandler) ISBNStream(w http.ResponseWriter, r *http.Request) {
	isbn, ok := utils.NormalizeISBN(chi.URLParam(r, "isbn"))
	if !ok {
		http.Error(w, "invalid isbn", http.StatusNotFound)
		return
	}
	var before int64
	if v := r.URL.Query().Get("before"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 1 {
			http.Error(w, "invalid cursor", http.StatusBadRequest)
			return
		}
		before = n
	}
	page, err := h.Entries.FindByIdentifier(r.Context(), isbn, before, isbnPageSize)
	if err != nil {
		http.Error(w, "failed to load entries", http.StatusInternalServerError)
		return
	}
	resp := StreamResponse{Entries: page}
	if resp.Entries == nil {
		resp.Entries = []models.Entry{}
	}
	if len(page) > 0 {
		first, last := page[0].ID, page[len(page)-1].ID
		if older, err := h.Entries.GetOlderByIdentifier(r.Context(), isbn, last); err == nil && older != nil {
			// The cursor is exclusive, so the last shown id is exactly the
			// before value for the next older page.
			resp.Older = &last
		}
		if newer, err := h.Entries.GetNewerByIdentifier(r.Context(), isbn, first, isbnPageSize); err == nil && newer != nil {
			resp.Newer = newer
		}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// publish sends the entry to the user's Micropub endpoint and reconciles the
// outcome into the entry and user records. Returns the canonical URL when the
// endpoint assigned one; otherwise the entry stays retryable and the caller
// falls back to the local permalink.
func (h *PostsHandler) publish(ctx context.Context, user *models.User, e *models.Entry) string {
	token, err := h.accessToken(user)
	if err != nil {
		h.Log.Error("publish: token decrypt failed", zap.Int64("entry_id", e.ID), zap.Error(err))
		return ""
	}
	resp, err := h.Publisher.Post(ctx, user.MicropubEndpoint, service.BuildEntryRequest(e), token)
	if err != nil {
		h.Log.Warn("publish: endpoint call failed", zap.Int64("entry_id", e.ID), zap.Error(err))
		h.reconcile(ctx, user, e, err.Error(), "")
		return ""
	}
	h.reconcile(ctx, user, e, resp.Body, resp.Location())
	return resp.Location()
}

// reconcile merges a remote outcome into local state: the raw response and
// success flag on the entry (plus the canonical URL when one was assigned),
// and the latest raw response on the user for diagnostics.
func (h *PostsHandler) reconcile(ctx context.Context, user *models.User, e *models.Entry, body, canonical string) {
	fields := map[string]any{
		"micropubResponse": body,
		"micropubSuccess":  canonical != "",
	}
	if canonical != "" {
		fields["url"] = canonical
	}
	if updated, err := h.Entries.Update(ctx, e.ID, fields); err != nil {
		h.Log.Error("reconcile: entry update failed", zap.Int64("entry_id", e.ID), zap.Error(err))
	} else {
		*e = *updated
	}
	if _, err := h.Users.Update(ctx, user.ID, map[string]any{"lastMicropubResponse": body}); err != nil {
		h.Log.Error("reconcile: user update failed", zap.Int64("user_id", user.ID), zap.Error(err))
	}
}

// remoteDelete asks the endpoint to remove the published post. Failures are
// recorded on the user's last-response field and logged only.
func (h *PostsHandler) remoteDelete(ctx context.Context, user *models.User, e *models.Entry) {
	token, err := h.accessToken(user)
	if err != nil {
		h.Log.Error("remote delete: token decrypt failed", zap.Int64("entry_id", e.ID), zap.Error(err))
		return
	}
	resp, err := h.Publisher.Post(ctx, user.MicropubEndpoint, service.BuildDeleteRequest(e.URL), token)
	body := ""
	if err != nil {
		h.Log.Warn("remote delete failed", zap.Int64("entry_id", e.ID), zap.Error(err))
		body = err.Error()
	} else {
		body = resp.Body
	}
	if _, err := h.Users.Update(ctx, user.ID, map[string]any{"lastMicropubResponse": body}); err != nil {
		h.Log.Error("remote delete: user update failed", zap.Int64("user_id", user.ID), zap.Error(err))
	}
}

// accessToken returns the user's Micropub token, decrypted when an
// encryption key is configured.
func (h *PostsHandler) accessToken(user *models.User) (string, error) {
	if len(h.TokenKey) != 32 {
		return user.MicropubToken, nil
	}
	return utils.OpenToken(user.MicropubToken, h.TokenKey)
}

func (h *PostsHandler) permalink(slug string, id int64) string {
	return fmt.Sprintf("%s/u/%s/posts/%d", strings.TrimRight(h.BaseURL, "/"), slug, id)
}
