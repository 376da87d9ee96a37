package prompt

import (
	"context"
	"fmt"
	"slices"
)

// Answer is one canned response for a Scripted selector.
type Answer struct {
	// Label selects the option with this label (SelectOne).
	Label string
	// Labels are the options left checked (SelectMany).
	Labels []string
	// Keep accepts the pre-checked subset unchanged (SelectMany).
	Keep bool
	// Cancel makes the prompt return ErrCancelled.
	Cancel bool
	// Err makes the prompt fail with the given error.
	Err error
}

// Call records one prompt shown by a Scripted selector.
type Call struct {
	Title   string
	Options []string
	Filter  string
	Checked []int
}

// Scripted is a Selector that replays canned answers in order. It drives the
// pipeline headlessly, e.g. in tests or from a non-interactive wrapper.
type Scripted struct {
	Answers []Answer
	Calls   []Call
}

// NewScripted creates a Scripted selector with the given answers.
func NewScripted(answers ...Answer) *Scripted {
	return &Scripted{Answers: answers}
}

func (s *Scripted) next() (Answer, error) {
	if len(s.Answers) == 0 {
		return Answer{}, fmt.Errorf("scripted selector: no answer for prompt %d", len(s.Calls))
	}
	a := s.Answers[0]
	s.Answers = s.Answers[1:]
	if a.Cancel {
		return a, ErrCancelled
	}
	return a, a.Err
}

// SelectOne implements Selector.
func (s *Scripted) SelectOne(ctx context.Context, title string, options []Option, filter string) (int, error) {
	s.Calls = append(s.Calls, Call{Title: title, Options: Labels(options), Filter: filter})
	a, err := s.next()
	if err != nil {
		return -1, err
	}
	i := slices.Index(Labels(options), a.Label)
	if i < 0 {
		return -1, fmt.Errorf("scripted selector: %q is not an option", a.Label)
	}
	return i, nil
}

// SelectMany implements Selector.
func (s *Scripted) SelectMany(ctx context.Context, title string, options []Option, checked []int) ([]int, error) {
	s.Calls = append(s.Calls, Call{Title: title, Options: Labels(options), Checked: slices.Clone(checked)})
	a, err := s.next()
	if err != nil {
		return nil, err
	}
	if a.Keep {
		out := slices.Clone(checked)
		slices.Sort(out)
		return out, nil
	}
	labels := Labels(options)
	out := []int{}
	for i, l := range labels {
		if slices.Contains(a.Labels, l) {
			out = append(out, i)
		}
	}
	for _, l := range a.Labels {
		if !slices.Contains(labels, l) {
			return nil, fmt.Errorf("scripted selector: %q is not an option", l)
		}
	}
	return out, nil
}
