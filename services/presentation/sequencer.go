// Package presentation turns awards and their tallies into the slide deck the
// host walks through, and keeps track of where each viewer is in that deck.
package presentation

import (
	"Awardly/models"
	"Awardly/models/postgres"
	"Awardly/services/tally"
	"errors"
	"fmt"
)

// Mode selects whose cursor a presentation view follows
type Mode string

const (
	// ModeLive follows the shared lobby slide moved by the owner
	ModeLive Mode = "live"
	// ModeReview follows a private cursor per viewer, unlocked once the
	// presentation reached its last slide
	ModeReview Mode = "review"
)

const (
	KindCategory = "category"
	KindResult   = "result"
)

var ErrUnknownMode = errors.New("unknown presentation mode")

// ParseMode reads a requested mode. An empty request picks review once the
// presentation is finished and live before that.
func ParseMode(requested string, finished bool) (Mode, error) {
	switch Mode(requested) {
	case "":
		if finished {
			return ModeReview, nil
		}
		return ModeLive, nil
	case ModeLive, ModeReview:
		return Mode(requested), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, requested)
}

// Slide is one step of the deck: a category reveal followed by its result
type Slide struct {
	Index    int            `json:"index"`
	Kind     string         `json:"kind"`
	AwardID  models.AwardID `json:"award_id"`
	Question string         `json:"question"`
	Results  []tally.Result `json:"results,omitempty"`
	Outcome  *tally.Outcome `json:"outcome,omitempty"`
}

func TotalSlides(awardCount int) int { return 2 * awardCount }

func SlideToAward(slide int) int { return slide / 2 }

func IsResultSlide(slide int) bool { return slide%2 == 1 }

// Clamp bounds slide to [0,total). An empty deck always yields 0.
func Clamp(slide, total int) int {
	if total <= 0 || slide < 0 {
		return 0
	}
	if slide >= total {
		return total - 1
	}
	return slide
}

// IsFinalSlide reports whether slide is the last one of a deck of total slides
func IsFinalSlide(slide, total int) bool {
	return total > 0 && slide == total-1
}

// BuildDeck lays out the slides in award order. awards must already be
// sorted by their order index.
func BuildDeck(awards []postgres.Award, tallies map[models.AwardID][]tally.Result) []Slide {
	deck := make([]Slide, 0, TotalSlides(len(awards)))
	for i, a := range awards {
		deck = append(deck, Slide{
			Index:    2 * i,
			Kind:     KindCategory,
			AwardID:  a.ID,
			Question: a.Question,
		})

		results := tallies[a.ID]
		outcome := tally.Summarize(results)
		deck = append(deck, Slide{
			Index:    2*i + 1,
			Kind:     KindResult,
			AwardID:  a.ID,
			Question: a.Question,
			Results:  results,
			Outcome:  &outcome,
		})
	}
	return deck
}

// View is what a single viewer sees of the presentation right now
type View struct {
	Mode        Mode   `json:"mode"`
	Slide       int    `json:"slide"`
	TotalSlides int    `json:"total_slides"`
	Presenting  bool   `json:"presenting"`
	Finished    bool   `json:"finished"`
	Current     *Slide `json:"current,omitempty"`
}

// NewView picks the slide at position out of deck, position is clamped
func NewView(mode Mode, position int, lobby *postgres.Lobby, deck []Slide) View {
	view := View{
		Mode:        mode,
		TotalSlides: len(deck),
		Presenting:  lobby.PresentationMode,
		Finished:    lobby.PresentationFinished,
	}
	if len(deck) == 0 {
		return view
	}
	view.Slide = Clamp(position, len(deck))
	current := deck[view.Slide]
	view.Current = &current
	return view
}
