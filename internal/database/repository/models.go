package repository

import "time"

// Track is an academic program category code.
type Track string

const (
	TrackGL Track = "gl" // Génie Logiciel
	TrackIW Track = "iw" // Ingénierie Web
	TrackRS Track = "rs" // Réseaux et Sécurité
	TrackIG Track = "ig" // Informatique de Gestion
)

// Tracks lists all valid tracks in display order.
var Tracks = []Track{TrackGL, TrackIW, TrackRS, TrackIG}

var trackLabels = map[Track]string{
	TrackGL: "Génie Logiciel",
	TrackIW: "Ingénierie Web",
	TrackRS: "Réseaux et Sécurité",
	TrackIG: "Informatique de Gestion",
}

func (t Track) Valid() bool { return trackLabels[t] != "" }

// Label returns the human-readable program name, or the raw code if unknown.
func (t Track) Label() string {
	if l, ok := trackLabels[t]; ok {
		return l
	}
	return string(t)
}

// Level is an academic year tier code.
type Level string

const (
	LevelL1 Level = "l1"
	LevelL2 Level = "l2"
	LevelL3 Level = "l3"
	LevelM1 Level = "m1"
	LevelM2 Level = "m2"
)

// Levels lists all valid levels in display order.
var Levels = []Level{LevelL1, LevelL2, LevelL3, LevelM1, LevelM2}

var levelLabels = map[Level]string{
	LevelL1: "Licence 1",
	LevelL2: "Licence 2",
	LevelL3: "Licence 3",
	LevelM1: "Master 1",
	LevelM2: "Master 2",
}

func (l Level) Valid() bool { return levelLabels[l] != "" }

// Label returns the human-readable tier name, or the raw code if unknown.
func (l Level) Label() string {
	if s, ok := levelLabels[l]; ok {
		return s
	}
	return string(l)
}

// Registration represents a sign-up row.
type Registration struct {
	ID        string
	OwnerID   string
	FullName  string
	Track     Track
	Level     Level
	Phone     string
	CreatedAt time.Time
}
