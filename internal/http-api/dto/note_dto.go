package dto

// DTOs for note operations in HTTP API

type AddNoteRequest struct {
	BookID          int64  `json:"book_id" binding:"required,gt=0"`
	PageNo          int    `json:"page_no" binding:"required,gt=0"`
	Content         string `json:"content"`
	HighlightedText string `json:"highlighted_text"`
}

type EditNoteRequest struct {
	Content string `json:"content"`
}

type PinNoteRequest struct {
	Pinned *bool    `json:"pinned" binding:"required"`
	X      *float64 `json:"x"`
	Y      *float64 `json:"y"`
}

type NoteURIRequest struct {
	NoteID int64 `uri:"note_id" binding:"required,gt=0"`
}

// DeckCard is one sheet in the stacked note deck. Only the top card
// carries a label.
type DeckCard struct {
	NoteID  int64  `json:"note_id"`
	OffsetX int    `json:"offset_x"`
	OffsetY int    `json:"offset_y"`
	Top     bool   `json:"top"`
	Label   string `json:"label,omitempty"`
}

// DeckPreview is the collapsed rendering of a page's notes: at most 5
// cards, Total counting every note on the page.
type DeckPreview struct {
	Cards []DeckCard `json:"cards"`
	Total int        `json:"total"`
}
