package core

// Color tags a screen cell with the role of what is drawn there.
// The TUI maps each role to a terminal style.
type Color uint8

const (
	ColorDefault Color = iota
	ColorMuted
	ColorWall
	ColorRobot
	ColorBall
	ColorGoal
	ColorTarget
	ColorMonster
	ColorBullet
	ColorBrick
	ColorFalling
	ColorLine
	ColorGhost
	ColorError
)
