package ban

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/rogerio-castellano/stockly/internal/config"
	"github.com/rogerio-castellano/stockly/internal/logx"
	"github.com/rogerio-castellano/stockly/internal/redissvc"
)

// Guard turns repeated rate-limit rejections into temporary bans.
type Guard struct {
	store       redissvc.Store
	maxStrikes  int
	window      time.Duration
	banDuration time.Duration
}

func NewGuard(store redissvc.Store, cfg config.RateLimitConfig) *Guard {
	return &Guard{
		store:       store,
		maxStrikes:  max(cfg.MaxStrikes, 1),
		window:      cfg.StrikeWindow,
		banDuration: cfg.BanDuration,
	}
}

func (g *Guard) IsBanned(ctx context.Context, target string) (bool, error) {
	return g.store.IsBanned(ctx, target)
}

// Strike records a rejection for target and bans it once the strike limit is
// reached within the window. It reports whether target is now banned.
func (g *Guard) Strike(ctx context.Context, target, route string) (bool, error) {
	strikes, err := g.store.Strike(ctx, target, g.window)
	if err != nil {
		return false, err
	}
	if strikes < int64(g.maxStrikes) {
		return false, nil
	}

	if err := g.store.Ban(ctx, target, g.banDuration); err != nil {
		return false, err
	}

	logx.Warn().
		Str("target", target).
		Str("route", route).
		Int64("strikes", strikes).
		Dur("duration", g.banDuration).
		Msg("client banned")

	g.logBanEvent(ctx, target, route, int(strikes))
	return true, nil
}

type BanLogEntry struct {
	Target  string    `json:"target"`
	Route   string    `json:"route"`
	Strikes int       `json:"strikes"`
	Time    time.Time `json:"time"`
}

func (g *Guard) logBanEvent(ctx context.Context, target, route string, strikes int) {
	entry := BanLogEntry{
		Target:  target,
		Route:   route,
		Strikes: strikes,
		Time:    time.Now().UTC(),
	}
	data, _ := json.Marshal(entry)
	if err := g.store.AppendLog(ctx, data); err != nil {
		logx.Error().Err(err).Msg("failed to append ban log")
	}
}

type Count struct {
	Key   string
	Count int
}

type Summary struct {
	Total    int
	ByRoute  []Count
	ByTarget []Count
	Entries  []BanLogEntry
}

func sortedCounts(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for k, v := range m {
		out = append(out, Count{Key: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// Summarize drains the ban log and aggregates it by route and by target.
func (g *Guard) Summarize(ctx context.Context) (Summary, error) {
	items, err := g.store.DrainLog(ctx)
	if err != nil {
		return Summary{}, err
	}

	routeCounts := make(map[string]int)
	targetCounts := make(map[string]int)
	var logs []BanLogEntry

	for _, item := range items {
		var entry BanLogEntry
		if err := json.Unmarshal(item, &entry); err != nil {
			continue
		}
		logs = append(logs, entry)
		routeCounts[entry.Route]++
		targetCounts[entry.Target]++
	}

	return Summary{
		Total:    len(logs),
		ByRoute:  sortedCounts(routeCounts),
		ByTarget: sortedCounts(targetCounts),
		Entries:  logs,
	}, nil
}

// StartBanSummary logs a ban summary every interval until ctx is done.
func (g *Guard) StartBanSummary(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			summary, err := g.Summarize(ctx)
			if err != nil {
				logx.Error().Err(err).Msg("failed to read ban log")
				continue
			}
			if summary.Total == 0 {
				continue
			}
			logx.Info().
				Int("total", summary.Total).
				Interface("by_route", summary.ByRoute).
				Interface("by_target", summary.ByTarget).
				Msg("ban summary")
		}
	}
}
