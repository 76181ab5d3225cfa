package views

import (
	"wikipath/internal/domain"
)

// Screen is the presenter state the run controller drives.
// Everything else on screen is derived from it at render time.
type Screen struct {
	ScrollLocked  bool
	LoaderVisible bool

	result    *domain.Success
	errMsg    string
	modalOpen bool
}

// NewScreen returns an idle screen
func NewScreen() *Screen {
	return &Screen{}
}

// ShowLoader displays the loading overlay and locks scrolling
func (s *Screen) ShowLoader() {
	s.LoaderVisible = true
	s.ScrollLocked = true
}

// HideLoader removes the loading overlay and unlocks scrolling
func (s *Screen) HideLoader() {
	s.LoaderVisible = false
	s.ScrollLocked = false
}

// ShowResults replaces the results region with res
func (s *Screen) ShowResults(res domain.Success) {
	s.result = &res
}

// ShowError opens the error modal
func (s *Screen) ShowError(message string) {
	s.errMsg = message
	s.modalOpen = true
	s.ScrollLocked = true
}

// CloseModal closes the error modal. Scrolling is always unlocked.
func (s *Screen) CloseModal() {
	s.modalOpen = false
	s.errMsg = ""
	s.ScrollLocked = false
}

// Result returns the path currently shown, if any
func (s *Screen) Result() (domain.Success, bool) {
	if s.result == nil {
		return domain.Success{}, false
	}
	return *s.result, true
}

// ModalOpen reports whether the error modal is shown
func (s *Screen) ModalOpen() bool { return s.modalOpen }

// ErrorMessage returns the modal's message
func (s *Screen) ErrorMessage() string { return s.errMsg }
