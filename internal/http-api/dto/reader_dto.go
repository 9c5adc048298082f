package dto

import "bookmise/internal/http-api/models"

// PageViewResponse is what the reader screen renders after a page
// change: the stored position plus that page's notes. NotesError is
// set when the position landed but the note reload failed; the client
// keeps its previous note list in that case.
type PageViewResponse struct {
	Progress   ProgressResponse `json:"progress"`
	Notes      []models.Note    `json:"notes"`
	NotesError string           `json:"notes_error,omitempty"`
}
