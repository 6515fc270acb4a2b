package glimpse

import "fmt"

type Key uint32

const (
	KeyUnknown Key = iota
	KeySpace
	KeyEscape
	KeyEnter
	KeyD
	KeyR
	KeyS
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
)

var keyNames = [...]string{
	KeyUnknown: "Unknown",
	KeySpace:   "Space",
	KeyEscape:  "Escape",
	KeyEnter:   "Enter",
	KeyD:       "D",
	KeyR:       "R",
	KeyS:       "S",
	KeyUp:      "Up",
	KeyDown:    "Down",
	KeyLeft:    "Left",
	KeyRight:   "Right",
}

func (k Key) String() string {
	if int(k) < len(keyNames) {
		return keyNames[k]
	}

	return fmt.Sprintf("Key(%d)", uint32(k))
}
