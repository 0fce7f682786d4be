package input

import (
	"fmt"
	"strings"
)

// KeyCode identifies a keyboard key. Values match SDL key codes so a window
// layer can pass them through unchanged.
type KeyCode int32

const (
	KeyUnknown      KeyCode = 0
	KeyBackSpace    KeyCode = 8
	KeyTab          KeyCode = 9
	KeyReturn       KeyCode = 13
	KeyEscape       KeyCode = 27
	KeySpace        KeyCode = 32
	KeyQuote        KeyCode = 39
	KeyComma        KeyCode = 44
	KeyMinus        KeyCode = 45
	KeyPeriod       KeyCode = 46
	KeySlash        KeyCode = 47
	Key0            KeyCode = 48
	Key1            KeyCode = 49
	Key2            KeyCode = 50
	Key3            KeyCode = 51
	Key4            KeyCode = 52
	Key5            KeyCode = 53
	Key6            KeyCode = 54
	Key7            KeyCode = 55
	Key8            KeyCode = 56
	Key9            KeyCode = 57
	KeySemicolon    KeyCode = 59
	KeyEquals       KeyCode = 61
	KeyLeftBracket  KeyCode = 91
	KeyBackSlash    KeyCode = 92
	KeyRightBracket KeyCode = 93
	KeyBackQuote    KeyCode = 96
	KeyA            KeyCode = 97
	KeyB            KeyCode = 98
	KeyC            KeyCode = 99
	KeyD            KeyCode = 100
	KeyE            KeyCode = 101
	KeyF            KeyCode = 102
	KeyG            KeyCode = 103
	KeyH            KeyCode = 104
	KeyI            KeyCode = 105
	KeyJ            KeyCode = 106
	KeyK            KeyCode = 107
	KeyL            KeyCode = 108
	KeyM            KeyCode = 109
	KeyN            KeyCode = 110
	KeyO            KeyCode = 111
	KeyP            KeyCode = 112
	KeyQ            KeyCode = 113
	KeyR            KeyCode = 114
	KeyS            KeyCode = 115
	KeyT            KeyCode = 116
	KeyU            KeyCode = 117
	KeyV            KeyCode = 118
	KeyW            KeyCode = 119
	KeyX            KeyCode = 120
	KeyY            KeyCode = 121
	KeyZ            KeyCode = 122
	KeyDelete       KeyCode = 127

	KeyCapsLock KeyCode = 1073741881
	KeyF1       KeyCode = 1073741882
	KeyF2       KeyCode = 1073741883
	KeyF3       KeyCode = 1073741884
	KeyF4       KeyCode = 1073741885
	KeyF5       KeyCode = 1073741886
	KeyF6       KeyCode = 1073741887
	KeyF7       KeyCode = 1073741888
	KeyF8       KeyCode = 1073741889
	KeyF9       KeyCode = 1073741890
	KeyF10      KeyCode = 1073741891
	KeyF11      KeyCode = 1073741892
	KeyF12      KeyCode = 1073741893

	KeyPrintScreen KeyCode = 1073741894
	KeyScrollLock  KeyCode = 1073741895
	KeyPause       KeyCode = 1073741896
	KeyInsert      KeyCode = 1073741897
	KeyHome        KeyCode = 1073741898
	KeyPageUp      KeyCode = 1073741899
	KeyEnd         KeyCode = 1073741901
	KeyPageDown    KeyCode = 1073741902
	KeyRight       KeyCode = 1073741903
	KeyLeft        KeyCode = 1073741904
	KeyDown        KeyCode = 1073741905
	KeyUp          KeyCode = 1073741906

	KeyPadDivide   KeyCode = 1073741908
	KeyPadMultiply KeyCode = 1073741909
	KeyPadMinus    KeyCode = 1073741910
	KeyPadPlus     KeyCode = 1073741911
	KeyPadEnter    KeyCode = 1073741912
	KeyPad1        KeyCode = 1073741913
	KeyPad2        KeyCode = 1073741914
	KeyPad3        KeyCode = 1073741915
	KeyPad4        KeyCode = 1073741916
	KeyPad5        KeyCode = 1073741917
	KeyPad6        KeyCode = 1073741918
	KeyPad7        KeyCode = 1073741919
	KeyPad8        KeyCode = 1073741920
	KeyPad9        KeyCode = 1073741921
	KeyPad0        KeyCode = 1073741922
	KeyPadPeriod   KeyCode = 1073741923

	KeyLeftCtrl   KeyCode = 1073742048
	KeyLeftShift  KeyCode = 1073742049
	KeyLeftAlt    KeyCode = 1073742050
	KeyLeftGUI    KeyCode = 1073742051
	KeyRightCtrl  KeyCode = 1073742052
	KeyRightShift KeyCode = 1073742053
	KeyRightAlt   KeyCode = 1073742054
	KeyRightGUI   KeyCode = 1073742055
)

var keyNames = map[KeyCode]string{
	KeyBackSpace: "backspace", KeyTab: "tab", KeyReturn: "return", KeyEscape: "escape",
	KeySpace: "space", KeyQuote: "quote", KeyComma: "comma", KeyMinus: "minus",
	KeyPeriod: "period", KeySlash: "slash", KeySemicolon: "semicolon", KeyEquals: "equals",
	KeyLeftBracket: "left_bracket", KeyBackSlash: "backslash", KeyRightBracket: "right_bracket",
	KeyBackQuote: "backquote", KeyDelete: "delete", KeyCapsLock: "caps_lock",
	KeyPrintScreen: "print_screen", KeyScrollLock: "scroll_lock", KeyPause: "pause",
	KeyInsert: "insert", KeyHome: "home", KeyPageUp: "page_up", KeyEnd: "end",
	KeyPageDown: "page_down", KeyRight: "right", KeyLeft: "left", KeyDown: "down", KeyUp: "up",
	KeyPadDivide: "kp_divide", KeyPadMultiply: "kp_multiply", KeyPadMinus: "kp_minus",
	KeyPadPlus: "kp_plus", KeyPadEnter: "kp_enter", KeyPadPeriod: "kp_period",
	KeyLeftCtrl: "left_ctrl", KeyLeftShift: "left_shift", KeyLeftAlt: "left_alt", KeyLeftGUI: "left_gui",
	KeyRightCtrl: "right_ctrl", KeyRightShift: "right_shift", KeyRightAlt: "right_alt", KeyRightGUI: "right_gui",
}

var keysByName = func() map[string]KeyCode {
	m := make(map[string]KeyCode, len(keyNames)+64)
	for k, n := range keyNames {
		m[n] = k
	}
	for k := KeyA; k <= KeyZ; k++ {
		m[k.String()] = k
	}
	for k := Key0; k <= Key9; k++ {
		m[k.String()] = k
	}
	for k := KeyF1; k <= KeyF12; k++ {
		m[k.String()] = k
	}
	for k := KeyPad1; k <= KeyPad0; k++ {
		m[k.String()] = k
	}
	return m
}()

func (k KeyCode) String() string {
	switch {
	case k >= KeyA && k <= KeyZ:
		return string(rune(k))
	case k >= Key0 && k <= Key9:
		return string(rune(k))
	case k >= KeyF1 && k <= KeyF12:
		return fmt.Sprintf("f%d", k-KeyF1+1)
	case k >= KeyPad1 && k <= KeyPad9:
		return fmt.Sprintf("kp_%d", k-KeyPad1+1)
	case k == KeyPad0:
		return "kp_0"
	}
	if name, ok := keyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("key(%d)", int32(k))
}

// ParseKeyCode reads the names produced by String, case-insensitively.
func ParseKeyCode(s string) (KeyCode, error) {
	if k, ok := keysByName[strings.ToLower(strings.TrimSpace(s))]; ok {
		return k, nil
	}
	return KeyUnknown, fmt.Errorf("unknown key %q", s)
}

func (k KeyCode) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *KeyCode) UnmarshalText(text []byte) error {
	parsed, err := ParseKeyCode(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// IsModifier reports whether k is a shift, ctrl, alt or gui key.
func (k KeyCode) IsModifier() bool {
	return k >= KeyLeftCtrl && k <= KeyRightGUI
}
