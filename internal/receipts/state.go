package receipts

import "github.com/opalaxis/beamsolopex-companion/pkg/models"

type Mode int

const (
	ModeList Mode = iota
	ModeCreate
	ModeEdit
	ModeView
)

func (m Mode) String() string {
	switch m {
	case ModeList:
		return "list"
	case ModeCreate:
		return "create"
	case ModeEdit:
		return "edit"
	case ModeView:
		return "view"
	default:
		return "unknown"
	}
}

// State is the screen the controller is on. Only the types below implement it,
// so an edit without an id or a view without a record cannot be expressed.
type State interface {
	Mode() Mode
	state()
}

type ListState struct{}

type CreateState struct{}

// EditState remembers which persisted receipt the draft will update.
type EditState struct {
	ID int
}

type ViewState struct {
	Receipt models.AssetReceipt
}

func (ListState) Mode() Mode   { return ModeList }
func (CreateState) Mode() Mode { return ModeCreate }
func (EditState) Mode() Mode   { return ModeEdit }
func (ViewState) Mode() Mode   { return ModeView }

func (ListState) state()   {}
func (CreateState) state() {}
func (EditState) state()   {}
func (ViewState) state()   {}
