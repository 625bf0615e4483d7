package client

import "strings"

// FichaEditor holds the local mutable copy of the active character sheet.
// While in a room the copy is the sole source of truth for display; edits
// accumulate locally until an explicit save reconciles them with the
// backend. The editor is driven from a single goroutine (the room loop),
// like the rest of the view state.
type FichaEditor struct {
	ficha Ficha
	dirty bool
}

// NewFichaEditor starts an editor from the canonical snapshot loaded on
// room entry.
func NewFichaEditor(snapshot Ficha) *FichaEditor {
	return &FichaEditor{ficha: snapshot.Clone()}
}

// Ficha returns a copy of the local sheet for display or saving.
func (e *FichaEditor) Ficha() Ficha {
	return e.ficha.Clone()
}

// Dirty reports whether the copy has unsaved edits.
func (e *FichaEditor) Dirty() bool {
	return e.dirty
}

// AjustarAtributo applies a signed delta to the named attribute. Values are
// not clamped; the backend validates on save.
func (e *FichaEditor) AjustarAtributo(nome string, delta int) {
	if e.ficha.Atributos == nil {
		e.ficha.Atributos = make(map[string]int)
	}
	e.ficha.Atributos[nome] += delta
	e.dirty = true
}

// AdicionarPericia appends a skill to the local set. Blank names and
// duplicates are silently ignored.
func (e *FichaEditor) AdicionarPericia(nome string) {
	nome = strings.TrimSpace(nome)
	if nome == "" {
		return
	}
	for _, existing := range e.ficha.Pericias {
		if existing == nome {
			return
		}
	}
	e.ficha.Pericias = append(e.ficha.Pericias, nome)
	e.dirty = true
}

// AplicarXP merges an externally granted XP change into the local copy.
// The merge is field-level: only the XP fields move, so attribute and
// skill edits, and the dirty flag, survive a grant that arrives while the
// sheet is being edited.
func (e *FichaEditor) AplicarXP(update XPUpdateEvent) {
	if update.FichaID != 0 && update.FichaID != e.ficha.ID {
		return
	}
	e.ficha.XPAtual = update.XPAtual
	if update.XPProximoNivel > 0 {
		e.ficha.XPProximoNivel = update.XPProximoNivel
	}
}

// MarkSaved records a successful save. The local copy stays as edited even
// when a save fails; the user retries manually.
func (e *FichaEditor) MarkSaved() {
	e.dirty = false
}
