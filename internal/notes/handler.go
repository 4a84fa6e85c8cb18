package notes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ayush/notes-app/internal/models"
	"github.com/ayush/notes-app/internal/store"
)

// maxAttachmentSize caps multipart uploads at 10 MiB.
const maxAttachmentSize = 10 << 20

// NoteStore defines the interface for note persistence. Every method takes
// the owner's user id; implementations must filter on it.
type NoteStore interface {
	Insert(ctx context.Context, note *models.Note) (string, error)
	GetByID(ctx context.Context, userID, id string) (*models.Note, error)
	Replace(ctx context.Context, userID string, note *models.Note) error
	ListByOwner(ctx context.Context, userID string) ([]models.Note, error)
	Delete(ctx context.Context, userID, id string) error
	Search(ctx context.Context, userID, query string) ([]models.Note, error)
}

// FileStore defines the interface for attachment storage.
type FileStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Download(ctx context.Context, key string) ([]byte, string, error)
	Remove(ctx context.Context, key string) error
}

// NoteCache caches per-user note lists. Implementations are best-effort.
type NoteCache interface {
	GetNotes(ctx context.Context, userID string) ([]models.Note, bool)
	SetNotes(ctx context.Context, userID string, notes []models.Note)
	Invalidate(ctx context.Context, userID string)
}

// Handler holds note HTTP handlers.
type Handler struct {
	notes NoteStore
	files FileStore
	cache NoteCache
}

func NewHandler(notes NoteStore, files FileStore, cache NoteCache) *Handler {
	return &Handler{notes: notes, files: files, cache: cache}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{"error": true, "message": message})
}

func userID(r *http.Request) string {
	id, _ := r.Context().Value("user_id").(string)
	return id
}

// Add creates a new note owned by the current user.
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)

	var req models.AddNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "Title is required")
		return
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "Content is required")
		return
	}
	if req.Tags == nil {
		req.Tags = []string{}
	}

	note := &models.Note{
		UserID:  uid,
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	}
	id, err := h.notes.Insert(r.Context(), note)
	if err != nil {
		log.Printf("add note: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	saved, err := h.notes.GetByID(r.Context(), uid, id)
	if err != nil {
		log.Printf("add note re-fetch: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	h.cache.Invalidate(r.Context(), uid)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"error":   false,
		"note":    saved,
		"message": "Note Added Successfully",
	})
}

// Edit applies a partial update to an owned note. An explicit isPinned,
// including false, counts as a change on its own.
func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	noteID := chi.URLParam(r, "noteId")

	var req models.EditNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Title == "" && req.Content == "" && req.Tags == nil && req.IsPinned == nil {
		writeError(w, http.StatusBadRequest, "No changes provided")
		return
	}

	note, err := h.notes.GetByID(r.Context(), uid, noteID)
	if err != nil {
		if errors.Is(err, store.ErrNoteNotFound) {
			writeError(w, http.StatusBadRequest, "No such note found")
			return
		}
		log.Printf("edit note lookup: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if req.Title != "" {
		note.Title = req.Title
	}
	if req.Content != "" {
		note.Content = req.Content
	}
	if req.Tags != nil {
		note.Tags = req.Tags
	}
	if req.IsPinned != nil {
		note.IsPinned = *req.IsPinned
	}

	if err := h.saveNote(r.Context(), uid, note); err != nil {
		log.Printf("edit note save: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"error":   false,
		"note":    note,
		"message": "Note Updated Successfully",
	})
}

// GetAll returns the current user's notes, pinned first, serving from the
// cache when warm.
func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)

	notes, ok := h.cache.GetNotes(r.Context(), uid)
	if !ok {
		var err error
		notes, err = h.notes.ListByOwner(r.Context(), uid)
		if err != nil {
			log.Printf("list notes: %v", err)
			writeError(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}
		if notes == nil {
			notes = []models.Note{}
		}
		h.cache.SetNotes(r.Context(), uid, notes)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"error":   false,
		"notes":   notes,
		"message": "All notes retrieved successfully",
	})
}

// Delete removes an owned note, its cached list entry, and its attachment.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	noteID := chi.URLParam(r, "noteId")

	note, err := h.notes.GetByID(r.Context(), uid, noteID)
	if err != nil {
		if errors.Is(err, store.ErrNoteNotFound) {
			writeError(w, http.StatusBadRequest, "No such note found")
			return
		}
		log.Printf("delete note lookup: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if note.AttachmentKey != "" {
		if err := h.files.Remove(r.Context(), note.AttachmentKey); err != nil {
			log.Printf("remove attachment %s: %v", note.AttachmentKey, err)
		}
	}

	if err := h.notes.Delete(r.Context(), uid, noteID); err != nil {
		if errors.Is(err, store.ErrNoteNotFound) {
			writeError(w, http.StatusBadRequest, "No such note found")
			return
		}
		log.Printf("delete note: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	h.cache.Invalidate(r.Context(), uid)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"error":   false,
		"message": "Note Deleted Successfully",
	})
}

// UpdatePin sets the pinned flag to the given boolean. The field is checked
// for presence, not truthiness, so false is a valid value.
func (h *Handler) UpdatePin(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	noteID := chi.URLParam(r, "noteId")

	var req models.PinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.IsPinned == nil {
		writeError(w, http.StatusBadRequest, "isPinned is required")
		return
	}

	note, err := h.notes.GetByID(r.Context(), uid, noteID)
	if err != nil {
		if errors.Is(err, store.ErrNoteNotFound) {
			writeError(w, http.StatusBadRequest, "No such note found")
			return
		}
		log.Printf("pin note lookup: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	note.IsPinned = *req.IsPinned
	if err := h.saveNote(r.Context(), uid, note); err != nil {
		log.Printf("pin note save: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"error":   false,
		"note":    note,
		"message": "Note Updated Successfully",
	})
}

// Search returns the user's notes whose title or content contains the query,
// case-insensitively.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)

	query := r.URL.Query().Get("query")
	if query == "" {
		writeError(w, http.StatusBadRequest, "Search query is required")
		return
	}

	notes, err := h.notes.Search(r.Context(), uid, query)
	if err != nil {
		log.Printf("search notes: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if notes == nil {
		notes = []models.Note{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"error":   false,
		"notes":   notes,
		"message": "Notes matching the search query retrieved successfully",
	})
}

// UploadAttachment stores a file against an owned note, replacing any
// previous attachment.
func (h *Handler) UploadAttachment(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	noteID := chi.URLParam(r, "noteId")

	note, err := h.notes.GetByID(r.Context(), uid, noteID)
	if err != nil {
		if errors.Is(err, store.ErrNoteNotFound) {
			writeError(w, http.StatusBadRequest, "No such note found")
			return
		}
		log.Printf("upload attachment lookup: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if err := r.ParseMultipartForm(maxAttachmentSize); err != nil {
		writeError(w, http.StatusBadRequest, "Attachment file is required")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Attachment file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Printf("read attachment: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := fmt.Sprintf("%s/%s/%s-%s", uid, noteID, uuid.New().String(), header.Filename)
	if err := h.files.Upload(r.Context(), key, data, contentType); err != nil {
		log.Printf("upload attachment: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if note.AttachmentKey != "" {
		if err := h.files.Remove(r.Context(), note.AttachmentKey); err != nil {
			log.Printf("remove old attachment %s: %v", note.AttachmentKey, err)
		}
	}

	note.AttachmentKey = key
	note.AttachmentName = header.Filename
	note.AttachmentType = contentType
	if err := h.saveNote(r.Context(), uid, note); err != nil {
		log.Printf("upload attachment save: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"error":   false,
		"note":    note,
		"message": "Attachment Uploaded Successfully",
	})
}

// DownloadAttachment streams an owned note's attachment.
func (h *Handler) DownloadAttachment(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	noteID := chi.URLParam(r, "noteId")

	note, err := h.notes.GetByID(r.Context(), uid, noteID)
	if err != nil {
		if errors.Is(err, store.ErrNoteNotFound) {
			writeError(w, http.StatusBadRequest, "No such note found")
			return
		}
		log.Printf("download attachment lookup: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if note.AttachmentKey == "" {
		writeError(w, http.StatusNotFound, "Attachment not available")
		return
	}

	data, contentType, err := h.files.Download(r.Context(), note.AttachmentKey)
	if err != nil {
		log.Printf("download attachment %s: %v", note.AttachmentKey, err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if contentType == "" {
		contentType = note.AttachmentType
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", note.AttachmentName))
	w.Write(data)
}

// saveNote persists a mutated note and drops the owner's cached list.
func (h *Handler) saveNote(ctx context.Context, uid string, note *models.Note) error {
	if err := h.notes.Replace(ctx, uid, note); err != nil {
		return err
	}
	h.cache.Invalidate(ctx, uid)
	return nil
}
