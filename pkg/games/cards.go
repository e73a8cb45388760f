package games

import (
	"github.com/oklog/ulid/v2"
	"github.com/samber/lo"
)

// Cards is the shedding game: 108-card deck, seven cards dealt per player,
// match the discard by color or value (or play a wild), first empty hand
// wins. The match starts automatically when the second player joins.
const (
	CardNumber       = "number"
	CardSkip         = "skip"
	CardReverse      = "reverse"
	CardDrawTwo      = "draw2"
	CardWild         = "wild"
	CardWildDrawFour = "wild4"
)

const cardsHandSize = 7

var cardColors = []string{"red", "yellow", "green", "blue"}

type Card struct {
	Color string `json:"color"`
	Value int    `json:"value"`
	Type  string `json:"type"`
}

type CardsPlayer struct {
	Username string `json:"username"`
	Hand     []Card `json:"hand"`
}

type CardsMatch struct {
	matchBase
	Players       []CardsPlayer `json:"players"`
	Deck          []Card        `json:"deck"`
	Discard       []Card        `json:"discard"`
	CurrentColor  string        `json:"currentColor"`
	CurrentNumber int           `json:"currentNumber"`
	Direction     int           `json:"direction"`
	CurrentPlayer int           `json:"currentPlayer"`
}

func (m *CardsMatch) Kind() Kind { return KindCards }

func (m *CardsMatch) HasPlayer(username string) bool {
	return lo.SomeBy(m.Players, func(p CardsPlayer) bool { return p.Username == username })
}

func (m *CardsMatch) revive() {
	if len(m.Players) >= 2 {
		m.MatchStatus = StatusPlaying
	} else {
		m.MatchStatus = StatusWaiting
	}
}

func (m *CardsMatch) Snapshot() any {
	snap := *m
	snap.Players = make([]CardsPlayer, len(m.Players))
	for i, p := range m.Players {
		snap.Players[i] = CardsPlayer{Username: p.Username, Hand: append([]Card(nil), p.Hand...)}
	}
	snap.Deck = append([]Card(nil), m.Deck...)
	snap.Discard = append([]Card(nil), m.Discard...)
	return &snap
}

// newDeck builds the 108-card deck: per color one 0, two each of 1-9, two
// each of skip/reverse/draw-two, plus four wilds and four wild-draw-fours.
func newDeck() []Card {
	deck := make([]Card, 0, 108)
	for _, color := range cardColors {
		deck = append(deck, Card{Color: color, Value: 0, Type: CardNumber})
		for value := 1; value <= 9; value++ {
			deck = append(deck, Card{Color: color, Value: value, Type: CardNumber})
			deck = append(deck, Card{Color: color, Value: value, Type: CardNumber})
		}
		for _, t := range []string{CardSkip, CardReverse, CardDrawTwo} {
			deck = append(deck, Card{Color: color, Value: -1, Type: t})
			deck = append(deck, Card{Color: color, Value: -1, Type: t})
		}
	}
	for i := 0; i < 4; i++ {
		deck = append(deck, Card{Value: -1, Type: CardWild})
		deck = append(deck, Card{Value: -1, Type: CardWildDrawFour})
	}
	return deck
}

// shuffleCards is an in-place Fisher-Yates permutation.
func (w *World) shuffleCards(cards []Card) {
	for i := len(cards) - 1; i > 0; i-- {
		j := w.rng.Intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}

func (w *World) CreateCards(username string) any {
	w.Mutex.Lock()
	defer w.Mutex.Unlock()

	m := &CardsMatch{
		matchBase: newMatchBase(ulid.Make().String()),
		Players:   []CardsPlayer{{Username: username, Hand: []Card{}}},
		Deck:      newDeck(),
		Direction: 1,
	}
	w.Cards[m.MatchID] = m
	return m.Snapshot()
}

func (w *World) ListCards() []any {
	w.Mutex.RLock()
	defer w.Mutex.RUnlock()
	out := make([]any, 0, len(w.Cards))
	for _, m := range w.Cards {
		out = append(out, m.Snapshot())
	}
	return out
}

// JoinCards seats the second player and immediately starts the match:
// shuffle, deal seven per player, seed the discard pile.
func (w *World) JoinCards(id string, username string) (any, error) {
	w.Mutex.Lock()
	defer w.Mutex.Unlock()

	m, ok := w.Cards[id]
	if !ok {
		return nil, ErrMatchNotFound
	}
	if m.HasPlayer(username) {
		if m.MatchStatus == StatusAbandoned {
			w.reviveLocked(m)
		}
		return m.Snapshot(), nil
	}
	if m.MatchStatus != StatusWaiting {
		return nil, ErrNotJoinable
	}
	m.Players = append(m.Players, CardsPlayer{Username: username, Hand: []Card{}})
	if len(m.Players) == 2 {
		w.startCardsLocked(m)
	}
	m.bump()
	return m.Snapshot(), nil
}

func (w *World) startCardsLocked(m *CardsMatch) {
	w.shuffleCards(m.Deck)
	for i := range m.Players {
		m.Players[i].Hand = append(m.Players[i].Hand, m.Deck[:cardsHandSize]...)
		m.Deck = m.Deck[cardsHandSize:]
	}

	// Seed the discard with the first non-wild card; wilds drawn in the
	// process go back under the deck so the 108-card count holds.
	for len(m.Deck) > 0 {
		card := m.Deck[0]
		m.Deck = m.Deck[1:]
		if card.Type == CardWild || card.Type == CardWildDrawFour {
			m.Deck = append(m.Deck, card)
			continue
		}
		m.Discard = append(m.Discard, card)
		m.CurrentColor = card.Color
		m.CurrentNumber = card.Value
		break
	}
	m.MatchStatus = StatusPlaying
}

// PlayCard plays the card at the given hand index. Wilds must name the color
// to continue with.
func (w *World) PlayCard(id string, username string, cardIndex int, chosenColor string) (any, error) {
	w.Mutex.Lock()
	defer w.Mutex.Unlock()

	m, ok := w.Cards[id]
	if !ok {
		return nil, ErrMatchNotFound
	}
	if !m.HasPlayer(username) {
		return nil, ErrNotParticipant
	}
	if m.MatchStatus != StatusPlaying {
		return nil, ErrNotPlaying
	}
	idx := cardsPlayerIndex(m, username)
	if idx != m.CurrentPlayer {
		return nil, ErrNotYourTurn
	}
	hand := m.Players[idx].Hand
	if cardIndex < 0 || cardIndex >= len(hand) {
		return nil, ErrIllegalMove
	}
	card := hand[cardIndex]
	if !m.playable(card) {
		return nil, ErrIllegalMove
	}
	wild := card.Type == CardWild || card.Type == CardWildDrawFour
	if wild && !lo.Contains(cardColors, chosenColor) {
		return nil, ErrIllegalMove
	}

	m.Players[idx].Hand = append(hand[:cardIndex], hand[cardIndex+1:]...)
	m.Discard = append(m.Discard, card)
	if wild {
		m.CurrentColor = chosenColor
		m.CurrentNumber = -1
	} else {
		m.CurrentColor = card.Color
		m.CurrentNumber = card.Value
	}

	steps := 1
	switch card.Type {
	case CardSkip:
		steps = 2
	case CardReverse:
		m.Direction = -m.Direction
		// Heads-up, a reverse plays like a skip.
		if len(m.Players) == 2 {
			steps = 2
		}
	case CardDrawTwo:
		w.dealToLocked(m, m.nextIndex(1), 2)
		steps = 2
	case CardWildDrawFour:
		w.dealToLocked(m, m.nextIndex(1), 4)
		steps = 2
	}

	if len(m.Players[idx].Hand) == 0 {
		m.MatchStatus = StatusFinished
		m.Winner = username
		m.bump()
		return m.Snapshot(), nil
	}
	m.CurrentPlayer = m.nextIndex(steps)
	m.bump()
	return m.Snapshot(), nil
}

// DrawCard draws a single card for the acting player and passes the turn.
func (w *World) DrawCard(id string, username string) (any, error) {
	w.Mutex.Lock()
	defer w.Mutex.Unlock()

	m, ok := w.Cards[id]
	if !ok {
		return nil, ErrMatchNotFound
	}
	if !m.HasPlayer(username) {
		return nil, ErrNotParticipant
	}
	if m.MatchStatus != StatusPlaying {
		return nil, ErrNotPlaying
	}
	idx := cardsPlayerIndex(m, username)
	if idx != m.CurrentPlayer {
		return nil, ErrNotYourTurn
	}
	if len(m.Deck) == 0 {
		w.reshuffleLocked(m)
	}
	if len(m.Deck) == 0 {
		return nil, ErrDeckExhausted
	}
	m.Players[idx].Hand = append(m.Players[idx].Hand, m.Deck[0])
	m.Deck = m.Deck[1:]
	m.CurrentPlayer = m.nextIndex(1)
	m.bump()
	return m.Snapshot(), nil
}

// playable reports whether card may go on the current discard state: wilds
// always, otherwise a color match, a number match, or a matching special on
// a special.
func (m *CardsMatch) playable(card Card) bool {
	if card.Type == CardWild || card.Type == CardWildDrawFour {
		return true
	}
	if card.Color == m.CurrentColor {
		return true
	}
	if card.Type == CardNumber {
		return m.CurrentNumber >= 0 && card.Value == m.CurrentNumber
	}
	if len(m.Discard) > 0 {
		return card.Type == m.Discard[len(m.Discard)-1].Type
	}
	return false
}

// dealToLocked moves n cards from the deck into the given player's hand,
// reshuffling the discard pile when the deck runs dry. If both piles are
// empty the remaining cards simply are not dealt.
func (w *World) dealToLocked(m *CardsMatch, idx int, n int) {
	for i := 0; i < n; i++ {
		if len(m.Deck) == 0 {
			w.reshuffleLocked(m)
		}
		if len(m.Deck) == 0 {
			return
		}
		m.Players[idx].Hand = append(m.Players[idx].Hand, m.Deck[0])
		m.Deck = m.Deck[1:]
	}
}

// reshuffleLocked rebuilds the deck from the discard pile, keeping only the
// top card as the new discard seed.
func (w *World) reshuffleLocked(m *CardsMatch) {
	if len(m.Discard) <= 1 {
		return
	}
	top := m.Discard[len(m.Discard)-1]
	recycled := append([]Card(nil), m.Discard[:len(m.Discard)-1]...)
	w.shuffleCards(recycled)
	m.Deck = append(m.Deck, recycled...)
	m.Discard = []Card{top}
}

// nextIndex steps the turn pointer through the seating order, honoring the
// play direction.
func (m *CardsMatch) nextIndex(steps int) int {
	n := len(m.Players)
	return ((m.CurrentPlayer+m.Direction*steps)%n + n) % n
}

func cardsPlayerIndex(m *CardsMatch, username string) int {
	_, idx, _ := lo.FindIndexOf(m.Players, func(p CardsPlayer) bool { return p.Username == username })
	return idx
}
