package wan

import "fmt"

// SpriteType records what kind of entity an archive animates. It does not
// influence decoding; the game engine uses it to pick a playback ruleset.
type SpriteType uint16

const (
	SpriteTypePropsUI SpriteType = 0
	SpriteTypeChara   SpriteType = 1
	SpriteTypeUnknown SpriteType = 3
)

func (t SpriteType) String() string {
	switch t {
	case SpriteTypePropsUI:
		return "props-ui"
	case SpriteTypeChara:
		return "chara"
	case SpriteTypeUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("SpriteType(%d)", uint16(t))
	}
}
