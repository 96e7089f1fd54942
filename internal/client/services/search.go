package services

import (
	"strings"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/sahilm/fuzzy"
)

// noteSource exposes notes to fuzzy as "title content" strings.
type noteSource []*models.Note

func (s noteSource) String(i int) string { return s[i].Title + " " + s[i].Content }
func (s noteSource) Len() int            { return len(s) }

func searchNotes(notes []*models.Note, query string) []*models.Note {
	query = strings.TrimSpace(query)
	if query == "" {
		return notes
	}
	matches := fuzzy.FindFrom(query, noteSource(notes))
	out := make([]*models.Note, 0, len(matches))
	for _, m := range matches {
		out = append(out, notes[m.Index])
	}
	return out
}
