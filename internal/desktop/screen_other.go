//go:build !windows

package desktop

type unsupportedScreen struct{}

// NewScreen returns the platform Screen.
func NewScreen() Screen { return unsupportedScreen{} }

func (unsupportedScreen) Foreground() (*Window, error) { return nil, ErrUnsupported }
func (unsupportedScreen) CursorPos() (Point, error)    { return Point{}, ErrUnsupported }
func (unsupportedScreen) ScreenSize() (Size, error)    { return Size{}, ErrUnsupported }
func (unsupportedScreen) KeyRune(rune) error           { return ErrUnsupported }
func (unsupportedScreen) KeyEnter() error              { return ErrUnsupported }
func (unsupportedScreen) KeyTab() error                { return ErrUnsupported }
