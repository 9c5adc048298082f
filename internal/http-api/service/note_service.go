package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bookmise/internal/http-api/dto"
	"bookmise/internal/http-api/models"
	"bookmise/internal/http-api/repository"

	"gorm.io/gorm"
)

// NoteService handles page-anchored annotations. Blank submissions are
// deliberate no-ops, not errors; the UI treats an empty textarea as
// "never mind".
type NoteService interface {
	Add(ctx context.Context, userID string, bookID int64, pageNo int, content, highlight string) (*models.Note, error)
	Edit(ctx context.Context, userID string, noteID int64, content string) (*models.Note, error)
	Remove(ctx context.Context, userID string, noteID int64) error
	TogglePin(ctx context.Context, userID string, noteID int64, pinned bool, x, y *float64) (*models.Note, error)
	ListForPage(ctx context.Context, userID string, bookID int64, pageNo int) ([]models.Note, error)
	ListForBook(ctx context.Context, userID string, bookID int64) ([]models.Note, error)
	Search(ctx context.Context, userID string, filters repository.NoteFilters) ([]models.Note, error)
}

type noteService struct {
	repo repository.NoteRepository
}

func NewNoteService(repo repository.NoteRepository) NoteService {
	return &noteService{repo: repo}
}

// Add creates a note on a page. Returns (nil, nil) when the content
// trims to empty.
func (s *noteService) Add(ctx context.Context, userID string, bookID int64, pageNo int, content, highlight string) (*models.Note, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, nil
	}
	if pageNo < 1 {
		return nil, fmt.Errorf("%w: page number must be positive, got %d", ErrInvalidArgument, pageNo)
	}

	note := &models.Note{
		UserID:  userID,
		BookID:  bookID,
		PageNo:  pageNo,
		Content: trimmed,
	}
	if h := strings.TrimSpace(highlight); h != "" {
		note.HighlightedText = &h
	}

	if err := s.repo.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	return note, nil
}

// Edit overwrites a note's content. Returns (nil, nil) when the new
// content trims to empty. Only the owner's notes are reachable;
// anyone else's note id reads as missing.
func (s *noteService) Edit(ctx context.Context, userID string, noteID int64, content string) (*models.Note, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, nil
	}

	note, err := s.repo.GetByID(ctx, noteID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: note %d", ErrNotFound, noteID)
		}
		return nil, fmt.Errorf("load note: %w", err)
	}

	note.Content = trimmed
	if err := s.repo.Update(ctx, note); err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}
	return note, nil
}

// Remove deletes without confirmation; that is a UI concern.
func (s *noteService) Remove(ctx context.Context, userID string, noteID int64) error {
	if err := s.repo.Delete(ctx, noteID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: note %d", ErrNotFound, noteID)
		}
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}

// TogglePin pins or unpins a note, optionally moving it to a new
// position in the reader.
func (s *noteService) TogglePin(ctx context.Context, userID string, noteID int64, pinned bool, x, y *float64) (*models.Note, error) {
	note, err := s.repo.GetByID(ctx, noteID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: note %d", ErrNotFound, noteID)
		}
		return nil, fmt.Errorf("load note: %w", err)
	}

	note.Pinned = pinned
	if x != nil {
		note.X = x
	}
	if y != nil {
		note.Y = y
	}

	if err := s.repo.Update(ctx, note); err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}
	return note, nil
}

func (s *noteService) ListForPage(ctx context.Context, userID string, bookID int64, pageNo int) ([]models.Note, error) {
	return s.repo.GetByPage(ctx, userID, bookID, pageNo)
}

func (s *noteService) ListForBook(ctx context.Context, userID string, bookID int64) ([]models.Note, error) {
	return s.repo.GetByBook(ctx, userID, bookID)
}

func (s *noteService) Search(ctx context.Context, userID string, filters repository.NoteFilters) ([]models.Note, error) {
	return s.repo.Find(ctx, userID, filters)
}

// Deck preview geometry. The reader stacks up to 5 note cards; each
// card is shifted by a linear function of its index, wider when the
// deck is expanded on hover.
const (
	deckMaxCards         = 5
	deckOffsetStep       = 12
	deckOffsetStepHover  = 16
	deckTopLabelMaxChars = 32
)

// BuildDeckPreview maps a page's notes to the stacked-deck rendering.
// The last card of the truncated slice is the top card; it shows a
// content preview when the page has exactly one note, otherwise an
// aggregate "N Notes" label.
func BuildDeckPreview(notes []models.Note, expanded bool) dto.DeckPreview {
	step := deckOffsetStep
	if expanded {
		step = deckOffsetStepHover
	}

	sheets := notes
	if len(sheets) > deckMaxCards {
		sheets = sheets[:deckMaxCards]
	}

	preview := dto.DeckPreview{Total: len(notes)}
	for i, note := range sheets {
		card := dto.DeckCard{
			NoteID:  note.ID,
			OffsetX: i * step,
			OffsetY: i * step,
		}
		if i == len(sheets)-1 {
			card.Top = true
			if len(notes) == 1 {
				card.Label = truncate(note.Content, deckTopLabelMaxChars)
			} else {
				card.Label = fmt.Sprintf("%d Notes", len(notes))
			}
		}
		preview.Cards = append(preview.Cards, card)
	}
	return preview
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
