package funds

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/shashank1310/SIPSimulator/internal/domain"
)

const maxResults = 100

// score weights, highest match wins.
const (
	scoreExact     = 100
	scorePrefix    = 90
	scoreAllWords  = 80
	scoreMostWords = 50
	scoreAnyWord   = 20

	bonusPopularHouse = 10
	bonusDirectPlan   = 5
)

// Lister returns the provider's full fund list. Implemented by the mfapi client.
type Lister interface {
	ListFunds(ctx context.Context, limit int) ([]domain.Fund, error)
}

// Service answers fund search queries against the curated registry,
// augmented with the provider's full list when available.
type Service struct {
	lister Lister
	log    zerolog.Logger

	mu     sync.RWMutex
	online []domain.Fund
}

func NewService(lister Lister, log zerolog.Logger) *Service {
	return &Service{
		lister: lister,
		log:    log.With().Str("service", "funds").Logger(),
	}
}

// Refresh pulls the provider's fund list into the in-process registry.
// Called at startup and on a daily schedule; failures leave the previous
// list (or just the curated set) in place.
func (s *Service) Refresh(ctx context.Context) error {
	if s.lister == nil {
		return nil
	}
	list, err := s.lister.ListFunds(ctx, 0)
	if err != nil {
		s.log.Warn().Err(err).Msg("fund list refresh failed, keeping previous registry")
		return err
	}
	s.mu.Lock()
	s.online = list
	s.mu.Unlock()
	s.log.Info().Int("funds", len(list)).Msg("fund registry refreshed")
	return nil
}

// Search scores the registry against the query and returns up to 100 funds,
// best matches first. An empty query returns the popular funds.
func (s *Service) Search(query string) []domain.Fund {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return s.popular()
	}

	words := strings.Fields(query)

	type scored struct {
		fund  domain.Fund
		score int
	}
	var matches []scored
	seen := make(map[string]bool)

	consider := func(f domain.Fund) {
		if seen[f.SchemeCode] {
			return
		}
		sc := scoreFund(f.FundName, query, words)
		if sc <= 0 {
			return
		}
		seen[f.SchemeCode] = true
		matches = append(matches, scored{fund: f, score: sc})
	}

	for _, f := range CuratedFunds {
		consider(f)
	}
	s.mu.RLock()
	for _, f := range s.online {
		consider(f)
	}
	s.mu.RUnlock()

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].fund.FundName < matches[j].fund.FundName
	})

	if len(matches) > maxResults {
		matches = matches[:maxResults]
	}
	out := make([]domain.Fund, len(matches))
	for i, m := range matches {
		out[i] = m.fund
	}
	return out
}

func (s *Service) popular() []domain.Fund {
	byCode := make(map[string]domain.Fund, len(CuratedFunds))
	for _, f := range CuratedFunds {
		byCode[f.SchemeCode] = f
	}
	out := make([]domain.Fund, 0, len(popularSchemeCodes))
	for _, code := range popularSchemeCodes {
		if f, ok := byCode[code]; ok {
			out = append(out, f)
		}
	}
	return out
}

func scoreFund(name, query string, words []string) int {
	lower := strings.ToLower(name)

	var score int
	switch {
	case lower == query:
		score = scoreExact
	case strings.HasPrefix(lower, query):
		score = scorePrefix
	default:
		matched := 0
		for _, w := range words {
			if strings.Contains(lower, w) {
				matched++
			}
		}
		switch {
		case matched == 0:
			return 0
		case matched == len(words):
			score = scoreAllWords
		case matched*2 >= len(words):
			score = scoreMostWords
		default:
			score = scoreAnyWord
		}
	}

	for _, house := range popularHouses {
		if strings.Contains(lower, house) {
			score += bonusPopularHouse
			break
		}
	}
	if strings.Contains(lower, "direct") {
		score += bonusDirectPlan
	}
	return score
}
