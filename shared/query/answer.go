package query

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Velocidex/ordereddict"
)

// Kind tells which field of an Answer is set.
type Kind int

const (
	KindCount Kind = iota
	KindText
	KindRanking
)

func (k Kind) String() string {
	switch k {
	case KindCount:
		return "count"
	case KindText:
		return "text"
	case KindRanking:
		return "ranking"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// RankedItem is one label of a ranking answer.
type RankedItem struct {
	Label string
	Value float64
}

// Answer is the final answer of a job.
type Answer struct {
	Kind    Kind
	Count   int
	Text    string
	Ranking []RankedItem
}

func CountAnswer(n int) Answer {
	return Answer{Kind: KindCount, Count: n}
}

func TextAnswer(s string) Answer {
	return Answer{Kind: KindText, Text: s}
}

// RankingAnswer keeps items in order. A repeated label keeps its first value.
func RankingAnswer(items []RankedItem) Answer {
	seen := make(map[string]struct{}, len(items))
	ranking := make([]RankedItem, 0, len(items))
	for _, item := range items {
		if _, dup := seen[item.Label]; dup {
			continue
		}
		seen[item.Label] = struct{}{}
		ranking = append(ranking, item)
	}
	return Answer{Kind: KindRanking, Ranking: ranking}
}

// JoinLabels renders multi-winner labels as one text answer.
func JoinLabels(labels []string) Answer {
	return TextAnswer(strings.Join(labels, ", "))
}

// MarshalJSON renders counts as numbers, text as a string and rankings as an
// object whose keys keep the ranking order.
func (a Answer) MarshalJSON() ([]byte, error) {
	switch a.Kind {
	case KindCount:
		return json.Marshal(a.Count)
	case KindText:
		return json.Marshal(a.Text)
	case KindRanking:
		dict := ordereddict.NewDict()
		for _, item := range a.Ranking {
			dict.Set(item.Label, item.Value)
		}
		return dict.MarshalJSON()
	default:
		return nil, fmt.Errorf("unknown answer kind %d", int(a.Kind))
	}
}

func (a Answer) String() string {
	data, err := a.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("<%v>", err)
	}
	return string(data)
}
