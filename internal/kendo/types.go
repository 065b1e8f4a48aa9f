package kendo

import "time"

// Target is one of the four valid striking areas.
type Target string

const (
	TargetMen   Target = "men"
	TargetKote  Target = "kote"
	TargetDo    Target = "do"
	TargetTsuki Target = "tsuki"
)

// Targets lists every target in display order.
var Targets = []Target{TargetMen, TargetKote, TargetDo, TargetTsuki}

func (t Target) Valid() bool {
	switch t {
	case TargetMen, TargetKote, TargetDo, TargetTsuki:
		return true
	}
	return false
}

// Scorer identifies which side was awarded an ippon.
type Scorer string

const (
	ScorerSelf     Scorer = "self"
	ScorerOpponent Scorer = "opponent"
)

func (s Scorer) Valid() bool {
	return s == ScorerSelf || s == ScorerOpponent
}

// Technique is the waza that produced an ippon. The zero value means untagged.
type Technique string

const (
	TechniqueNone Technique = ""

	// Shikake-waza (attacking)
	TechniqueIpponUchi Technique = "ippon-uchi"
	TechniqueRenzoku   Technique = "renzoku"
	TechniqueHarai     Technique = "harai"
	TechniqueDebana    Technique = "debana"
	TechniqueHiki      Technique = "hiki"

	// Oji-waza (counter)
	TechniqueNuki       Technique = "nuki"
	TechniqueSuriage    Technique = "suriage"
	TechniqueKaeshi     Technique = "kaeshi"
	TechniqueUchiotoshi Technique = "uchiotoshi"
)

// TechniqueCategory groups techniques into attacking and counter waza.
type TechniqueCategory string

const (
	CategoryShikake TechniqueCategory = "shikake"
	CategoryOji     TechniqueCategory = "oji"
)

// Techniques lists every known technique, attacking waza first.
var Techniques = []Technique{
	TechniqueIpponUchi, TechniqueRenzoku, TechniqueHarai, TechniqueDebana, TechniqueHiki,
	TechniqueNuki, TechniqueSuriage, TechniqueKaeshi, TechniqueUchiotoshi,
}

func (t Technique) Valid() bool {
	return t.Category() != ""
}

// Category returns the waza family, or "" for an unknown or empty technique.
func (t Technique) Category() TechniqueCategory {
	switch t {
	case TechniqueIpponUchi, TechniqueRenzoku, TechniqueHarai, TechniqueDebana, TechniqueHiki:
		return CategoryShikake
	case TechniqueNuki, TechniqueSuriage, TechniqueKaeshi, TechniqueUchiotoshi:
		return CategoryOji
	}
	return ""
}

// Format is the match format, which fixes the win threshold.
type Format string

const (
	// FormatSanbon is sanbon-shobu: first to two points.
	FormatSanbon Format = "sanbon"
	// FormatIppon is ippon-shobu: first point wins.
	FormatIppon Format = "ippon"
)

func (f Format) Valid() bool {
	return f == FormatSanbon || f == FormatIppon
}

// Threshold returns the number of ippons needed to win.
func (f Format) Threshold() int {
	if f == FormatIppon {
		return 1
	}
	return 2
}

// Result is the outcome of a match, bout or team match from our side.
type Result string

const (
	ResultWin        Result = "win"
	ResultLoss       Result = "loss"
	ResultDraw       Result = "draw"
	ResultInProgress Result = "in_progress"
)

func (r Result) Valid() bool {
	switch r {
	case ResultWin, ResultLoss, ResultDraw, ResultInProgress:
		return true
	}
	return false
}

// Position is a fixed slot in a 5-person team order.
type Position string

const (
	PositionSenpo   Position = "senpo"
	PositionJiho    Position = "jiho"
	PositionChuken  Position = "chuken"
	PositionFukusho Position = "fukusho"
	PositionTaisho  Position = "taisho"
)

// PositionOrder is the order in which team bouts are fought.
var PositionOrder = []Position{PositionSenpo, PositionJiho, PositionChuken, PositionFukusho, PositionTaisho}

var positionLabels = map[Position]string{
	PositionSenpo:   "Senpo (1st)",
	PositionJiho:    "Jiho (2nd)",
	PositionChuken:  "Chuken (3rd)",
	PositionFukusho: "Fukusho (4th)",
	PositionTaisho:  "Taisho (5th)",
}

func (p Position) Valid() bool {
	return p.Index() >= 0
}

// Index returns the zero-based slot of p, or -1 when p is not a position.
func (p Position) Index() int {
	for i, pos := range PositionOrder {
		if pos == p {
			return i
		}
	}
	return -1
}

func (p Position) Label() string {
	if label, ok := positionLabels[p]; ok {
		return label
	}
	return string(p)
}

// MatchContext describes where a match took place.
type MatchContext string

const (
	ContextPractice   MatchContext = "practice"
	ContextTournament MatchContext = "tournament"
	ContextFriendly   MatchContext = "friendly"
)

func (c MatchContext) Valid() bool {
	switch c {
	case ContextPractice, ContextTournament, ContextFriendly:
		return true
	}
	return false
}

// ScoreEvent is one awarded ippon. TimestampMs is the offset from the start of
// the match or bout.
type ScoreEvent struct {
	ID          string    `json:"id"`
	TimestampMs int64     `json:"timestampMs"`
	Target      Target    `json:"target"`
	Scorer      Scorer    `json:"scorer"`
	Technique   Technique `json:"technique,omitempty"`
}

// PlayerRef is the snapshot of a player stored on a record. It survives the
// deletion of the player it points to.
type PlayerRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Match is a finished individual match.
type Match struct {
	ID              string       `json:"id"`
	Date            time.Time    `json:"date"`
	Context         MatchContext `json:"context"`
	Format          Format       `json:"format"`
	Player          *PlayerRef   `json:"player,omitempty"`
	OpponentName    string       `json:"opponentName"`
	OpponentTeam    string       `json:"opponentTeam,omitempty"`
	Scores          []ScoreEvent `json:"scores"`
	DurationMs      int64        `json:"durationMs"`
	Result          Result       `json:"result"`
	VideoURL        string       `json:"videoUrl,omitempty"`
	Notes           string       `json:"notes,omitempty"`
	PartOfTeamMatch bool         `json:"partOfTeamMatch"`
	TeamMatchID     string       `json:"teamMatchId,omitempty"`
	Position        Position     `json:"position,omitempty"`
	CreatedAt       time.Time    `json:"createdAt"`
}

// PlayerID returns the id of the home player, or "" when none was recorded.
func (m Match) PlayerID() string {
	if m.Player == nil {
		return ""
	}
	return m.Player.ID
}

// Bout is one position of a team match. It always uses the sanbon format.
type Bout struct {
	ID           string       `json:"id"`
	Position     Position     `json:"position"`
	Player       *PlayerRef   `json:"player,omitempty"`
	OpponentName string       `json:"opponentName"`
	Scores       []ScoreEvent `json:"scores"`
	DurationMs   int64        `json:"durationMs"`
	Result       Result       `json:"result"`
	Skipped      bool         `json:"skipped"`
}

// TeamMatch is a finished 5-bout team match. Bouts are in PositionOrder.
type TeamMatch struct {
	ID               string       `json:"id"`
	Date             time.Time    `json:"date"`
	Context          MatchContext `json:"context"`
	OpponentTeamName string       `json:"opponentTeamName"`
	Bouts            []Bout       `json:"bouts"`
	Result           Result       `json:"result"`
	VideoURL         string       `json:"videoUrl,omitempty"`
	CreatedAt        time.Time    `json:"createdAt"`
}

// Player is a roster member.
type Player struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Position  Position  `json:"position,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Ref returns the snapshot stored on match records.
func (p Player) Ref() *PlayerRef {
	return &PlayerRef{ID: p.ID, Name: p.Name}
}

// Settings holds the operator preferences.
type Settings struct {
	DefaultFormat          Format `json:"defaultMatchFormat"`
	DefaultMatchDurationMs int64  `json:"defaultMatchDuration"`
	PromptTechnique        bool   `json:"showWazaPrompt"`
	AutoSave               bool   `json:"autoSave"`
}

// DefaultMatchDuration is the regulation length of a shiai.
const DefaultMatchDuration = 5 * time.Minute

// DefaultSettings returns the settings used before the operator changes anything.
func DefaultSettings() Settings {
	return Settings{
		DefaultFormat:          FormatSanbon,
		DefaultMatchDurationMs: DefaultMatchDuration.Milliseconds(),
		PromptTechnique:        true,
		AutoSave:               true,
	}
}
