package format

import (
	"fmt"

	"github.com/fatih/color"
)

type ColorAttr int

const (
	ElemColor ColorAttr = iota
	AttrNameColor
	AttrValueColor
	TextColor
	PunctColor
)

type Colors struct {
	Default func(...any) string
	Map     map[ColorAttr]func(...any) string
}

func NewColors() *Colors {
	return &Colors{
		Default: colorDefault,
		Map: map[ColorAttr]func(...any) string{
			ElemColor:      color.RGB(128, 168, 196).SprintFunc(),
			AttrNameColor:  color.RGB(196, 96, 16).SprintFunc(),
			AttrValueColor: color.RGB(88, 158, 86).SprintFunc(),
			TextColor:      color.RGB(8, 196, 16).SprintFunc(),
			PunctColor:     color.RGB(255, 0, 196).SprintFunc(),
		},
	}
}

func colorDefault(a ...any) string { return fmt.Sprint(a...) }

// Color paints s. A nil *Colors leaves s untouched.
func (c *Colors) Color(a ColorAttr, s string) string {
	if c == nil {
		return s
	}
	f := c.Map[a]
	if f == nil {
		return c.Default(s)
	}
	return f(s)
}
