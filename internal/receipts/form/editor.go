package form

import (
	"fmt"

	"github.com/opalaxis/beamsolopex-companion/pkg/models"
)

// Editor owns the draft being edited together with the field errors shown
// next to it. It is not safe for concurrent use.
type Editor struct {
	draft  *Draft
	errors map[string]string
}

func NewEditor() *Editor {
	return &Editor{draft: New(), errors: map[string]string{}}
}

func (e *Editor) Draft() *Draft {
	return e.draft
}

func (e *Editor) Record() models.AssetReceipt {
	return e.draft.Record()
}

// Reset discards the draft and its errors in favour of an empty one.
func (e *Editor) Reset() {
	e.draft = New()
	e.errors = map[string]string{}
}

func (e *Editor) Hydrate(r models.AssetReceipt) {
	e.draft = FromRecord(r)
	e.errors = map[string]string{}
}

// Errors returns a copy of the current field errors.
func (e *Editor) Errors() map[string]string {
	errs := make(map[string]string, len(e.errors))
	for k, v := range e.errors {
		errs[k] = v
	}
	return errs
}

func (e *Editor) SetErrors(errs map[string]string) {
	e.errors = make(map[string]string, len(errs))
	for k, v := range errs {
		e.errors[k] = v
	}
}

func (e *Editor) ClearError(key string) {
	delete(e.errors, key)
}

// SetField replaces a scalar receipt field and drops the error shown for it.
// The error is not re-evaluated; that happens on the next Validate.
func (e *Editor) SetField(name Field, value string) error {
	next, err := e.draft.SetField(name, value)
	if err != nil {
		return err
	}
	e.draft = next
	e.ClearError(string(name))
	return nil
}

func (e *Editor) SetAssetReference(ref models.Ref) {
	e.draft = e.draft.SetAssetReference(ref)
	e.ClearError(string(FieldAssetID))
}

func (e *Editor) AddLocation() {
	e.draft = e.draft.AddLocation()
}

func (e *Editor) RemoveLocation(index int) {
	e.draft = e.draft.RemoveLocation(index)
}

func (e *Editor) SetLocationField(index int, name LocationField, value string) error {
	next, err := e.draft.SetLocationField(index, name, value)
	if err != nil {
		return fmt.Errorf("location %d: %w", index, err)
	}
	e.draft = next
	return nil
}

func (e *Editor) AddSerialSlot(index int) {
	e.draft = e.draft.AddSerialSlot(index)
}

func (e *Editor) RemoveSerialSlot(index, slot int) {
	e.draft = e.draft.RemoveSerialSlot(index, slot)
}

func (e *Editor) SetSerial(index, slot int, value string) {
	e.draft = e.draft.SetSerial(index, slot, value)
}

func (e *Editor) AddTagSlot(index int) {
	e.draft = e.draft.AddTagSlot(index)
}

func (e *Editor) RemoveTagSlot(index, slot int) {
	e.draft = e.draft.RemoveTagSlot(index, slot)
}

func (e *Editor) SetTag(index, slot int, value string) {
	e.draft = e.draft.SetTag(index, slot, value)
}
