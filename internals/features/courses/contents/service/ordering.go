package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

const (
	ItemChapter = "chapter"
	ItemQuiz    = "quiz"
)

var (
	ErrReorderLength    = errors.New("jumlah item tidak sama dengan isi course")
	ErrReorderDuplicate = errors.New("item duplikat di urutan baru")
	ErrReorderUnknown   = errors.New("item bukan milik course ini")
	ErrReorderType      = errors.New("type harus chapter atau quiz")
)

// Ref: identitas satu item di urutan gabungan.
type Ref struct {
	Type string    `json:"type" validate:"required,oneof=chapter quiz"`
	ID   uuid.UUID `json:"id"   validate:"required"`
}

func (r Ref) key() string { return r.Type + ":" + r.ID.String() }

// Item: baris chapter/quiz yang sudah digabung.
type Item struct {
	Type        string    `json:"type"`
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Position    int       `json:"position"`
	IsPublished bool      `json:"is_published"`

	// chapter
	IsFree      bool `json:"is_free,omitempty"`
	HasVideo    bool `json:"has_video,omitempty"`
	HasDocument bool `json:"has_document,omitempty"`

	// quiz
	TimerMinutes int `json:"timer_minutes,omitempty"`
	MaxAttempts  int `json:"max_attempts,omitempty"`
}

func (it Item) Ref() Ref { return Ref{Type: it.Type, ID: it.ID} }

type Assignment struct {
	Ref
	Position int
}

// SortItems: urut by position; tie-break chapter dulu lalu id supaya deterministik.
func SortItems(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		if a.Type != b.Type {
			return a.Type == ItemChapter
		}
		return a.ID.String() < b.ID.String()
	})
}

// Compact mengembalikan assignment untuk item yang posisinya harus berubah
// agar urutan menjadi 1..n tanpa celah dan tanpa duplikat. items ikut diurutkan & diupdate.
func Compact(items []Item) []Assignment {
	SortItems(items)
	var out []Assignment
	for i := range items {
		want := i + 1
		if items[i].Position != want {
			out = append(out, Assignment{Ref: items[i].Ref(), Position: want})
			items[i].Position = want
		}
	}
	return out
}

// PlanReorder memvalidasi desired sebagai permutasi penuh dari current,
// lalu menghasilkan assignment posisi 1..n untuk item yang berubah.
func PlanReorder(current []Item, desired []Ref) ([]Assignment, error) {
	if len(desired) != len(current) {
		return nil, fmt.Errorf("%w: dikirim %d, ada %d", ErrReorderLength, len(desired), len(current))
	}
	byKey := make(map[string]Item, len(current))
	for _, it := range current {
		byKey[it.Ref().key()] = it
	}

	seen := make(map[string]struct{}, len(desired))
	var out []Assignment
	for i, r := range desired {
		r.Type = strings.ToLower(strings.TrimSpace(r.Type))
		if r.Type != ItemChapter && r.Type != ItemQuiz {
			return nil, ErrReorderType
		}
		k := r.key()
		if _, dup := seen[k]; dup {
			return nil, fmt.Errorf("%w: %s", ErrReorderDuplicate, k)
		}
		seen[k] = struct{}{}

		it, ok := byKey[k]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrReorderUnknown, k)
		}
		if it.Position != i+1 {
			out = append(out, Assignment{Ref: r, Position: i + 1})
		}
	}
	return out, nil
}

// ApplyAssignments versi in-memory (dipakai untuk response setelah reorder).
func ApplyAssignments(items []Item, assigns []Assignment) []Item {
	pos := make(map[string]int, len(assigns))
	for _, a := range assigns {
		pos[a.Ref.key()] = a.Position
	}
	out := make([]Item, len(items))
	copy(out, items)
	for i := range out {
		if p, ok := pos[out[i].Ref().key()]; ok {
			out[i].Position = p
		}
	}
	SortItems(out)
	return out
}
