package entity

const BotName = "bot"

type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Mark   string `json:"mark,omitempty"`
	GameID string `json:"game_id,omitempty"`
	Bot    bool   `json:"bot,omitempty"`
}

// NewBotPlayer - creates the engine's seat in a game. Bot players are never
// stored on their own, they only live inside the game they play.
func NewBotPlayer(gameID, mark string) *Player {
	return &Player{
		ID:     "bot:" + gameID,
		Name:   BotName,
		Mark:   mark,
		GameID: gameID,
		Bot:    true,
	}
}

func (that *Player) IsBot() bool {
	return that.Bot
}

func (that *Player) InGame() bool {
	return that.GameID != ""
}

// Leave - detaches the player from its game.
func (that *Player) Leave() {
	that.GameID = ""
	that.Mark = ""
}
