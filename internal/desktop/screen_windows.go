//go:build windows

package desktop

import (
	"fmt"
	"unicode/utf16"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32                   = windows.NewLazySystemDLL("user32.dll")
	procGetForegroundWindow  = user32.NewProc("GetForegroundWindow")
	procGetWindowTextLengthW = user32.NewProc("GetWindowTextLengthW")
	procGetWindowTextW       = user32.NewProc("GetWindowTextW")
	procGetCursorPos         = user32.NewProc("GetCursorPos")
	procGetSystemMetrics     = user32.NewProc("GetSystemMetrics")
	procSendInput            = user32.NewProc("SendInput")
)

const (
	smCxScreen = 0
	smCyScreen = 1

	inputKeyboard = 1

	keyeventfKeyUp   = 0x0002
	keyeventfUnicode = 0x0004

	vkTab    = 0x09
	vkReturn = 0x0D
)

// keybdInput mirrors KEYBDINPUT.
type keybdInput struct {
	vk        uint16
	scan      uint16
	flags     uint32
	time      uint32
	extraInfo uintptr
}

// input mirrors INPUT for keyboard events. The trailing pad brings it to the
// size of the union's largest member, MOUSEINPUT.
type input struct {
	typ uint32
	ki  keybdInput
	_   [8]byte
}

type point struct {
	x, y int32
}

type user32Screen struct{}

// NewScreen returns the platform Screen.
func NewScreen() Screen { return user32Screen{} }

func (user32Screen) Foreground() (*Window, error) {
	hwnd, _, _ := procGetForegroundWindow.Call()
	if hwnd == 0 {
		return nil, nil
	}

	n, _, _ := procGetWindowTextLengthW.Call(hwnd)
	buf := make([]uint16, n+1)
	procGetWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))

	return &Window{Handle: hwnd, Title: windows.UTF16ToString(buf)}, nil
}

func (user32Screen) CursorPos() (Point, error) {
	var pt point
	ok, _, err := procGetCursorPos.Call(uintptr(unsafe.Pointer(&pt)))
	if ok == 0 {
		return Point{}, fmt.Errorf("GetCursorPos: %w", err)
	}
	return Point{X: int(pt.x), Y: int(pt.y)}, nil
}

func (user32Screen) ScreenSize() (Size, error) {
	w, _, _ := procGetSystemMetrics.Call(smCxScreen)
	h, _, _ := procGetSystemMetrics.Call(smCyScreen)
	if w == 0 || h == 0 {
		return Size{}, fmt.Errorf("GetSystemMetrics: screen size unavailable")
	}
	return Size{Width: int(int32(w)), Height: int(int32(h))}, nil
}

func (s user32Screen) KeyRune(r rune) error {
	units := utf16.Encode([]rune{r})
	events := make([]input, 0, 2*len(units))
	for _, u := range units {
		events = append(events,
			input{typ: inputKeyboard, ki: keybdInput{scan: u, flags: keyeventfUnicode}},
			input{typ: inputKeyboard, ki: keybdInput{scan: u, flags: keyeventfUnicode | keyeventfKeyUp}},
		)
	}
	return sendInput(events)
}

func (s user32Screen) KeyEnter() error { return pressVirtualKey(vkReturn) }

func (s user32Screen) KeyTab() error { return pressVirtualKey(vkTab) }

func pressVirtualKey(vk uint16) error {
	return sendInput([]input{
		{typ: inputKeyboard, ki: keybdInput{vk: vk}},
		{typ: inputKeyboard, ki: keybdInput{vk: vk, flags: keyeventfKeyUp}},
	})
}

func sendInput(events []input) error {
	if len(events) == 0 {
		return nil
	}
	n, _, err := procSendInput.Call(
		uintptr(len(events)),
		uintptr(unsafe.Pointer(&events[0])),
		unsafe.Sizeof(events[0]),
	)
	if int(n) != len(events) {
		// SendInput fails silently when input is blocked by UIPI.
		return fmt.Errorf("SendInput: inserted %d of %d events: %w", n, len(events), err)
	}
	return nil
}
