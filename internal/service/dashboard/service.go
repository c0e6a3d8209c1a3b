package dashboard

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/z3by/arabtree-sub000/internal/domain"
	"github.com/z3by/arabtree-sub000/internal/repository"
)

const (
	statsCacheKey       = "dashboard:stats"
	leaderboardCacheKey = "dashboard:leaderboard"
	cacheTTL            = 5 * time.Minute
)

type Stats struct {
	PublishedNodes       int64            `json:"published_nodes"`
	DraftNodes           int64            `json:"draft_nodes"`
	ArchivedNodes        int64            `json:"archived_nodes"`
	NodesByType          map[string]int64 `json:"nodes_by_type"`
	PendingContributions int64            `json:"pending_contributions"`
	LastActivityAt       *string          `json:"last_activity_at"`
}

type Service interface {
	GetStats(ctx context.Context) (*Stats, error)
	GetLeaderboard(ctx context.Context, limit int) ([]repository.LeaderboardEntry, error)
}

type service struct {
	nodeRepo  repository.NodeRepository
	crRepo    repository.ContributionRepository
	auditRepo repository.AuditLogRepository
	redis     *redis.Client
}

func NewService(nodeRepo repository.NodeRepository, crRepo repository.ContributionRepository, auditRepo repository.AuditLogRepository, redis *redis.Client) Service {
	return &service{
		nodeRepo:  nodeRepo,
		crRepo:    crRepo,
		auditRepo: auditRepo,
		redis:     redis,
	}
}

func (s *service) GetStats(ctx context.Context) (*Stats, error) {
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, statsCacheKey).Result(); err == nil {
			var stats Stats
			if json.Unmarshal([]byte(cached), &stats) == nil {
				return &stats, nil
			}
		}
	}

	published, err := s.nodeRepo.CountByStatus(ctx, domain.NodePublished)
	if err != nil {
		return nil, err
	}

	drafts, err := s.nodeRepo.CountByStatus(ctx, domain.NodeDraft)
	if err != nil {
		return nil, err
	}

	archived, err := s.nodeRepo.CountByStatus(ctx, domain.NodeArchived)
	if err != nil {
		return nil, err
	}

	byType := make(map[string]int64, len(domain.NodeTypeOrder))
	for _, t := range domain.NodeTypeOrder {
		count, err := s.nodeRepo.CountByType(ctx, t)
		if err != nil {
			return nil, err
		}
		byType[string(t)] = count
	}

	pending, err := s.crRepo.CountPending(ctx)
	if err != nil {
		return nil, err
	}

	lastActivity, _ := s.auditRepo.GetLastActivityAt(ctx)

	stats := &Stats{
		PublishedNodes:       published,
		DraftNodes:           drafts,
		ArchivedNodes:        archived,
		NodesByType:          byType,
		PendingContributions: pending,
		LastActivityAt:       lastActivity,
	}

	if s.redis != nil {
		if statsJSON, err := json.Marshal(stats); err == nil {
			_ = s.redis.Set(ctx, statsCacheKey, statsJSON, cacheTTL).Err()
		}
	}

	return stats, nil
}

// GetLeaderboard ranks contributors by approved contribution count.
func (s *service) GetLeaderboard(ctx context.Context, limit int) ([]repository.LeaderboardEntry, error) {
	if s.redis != nil && limit == 0 {
		if cached, err := s.redis.Get(ctx, leaderboardCacheKey).Result(); err == nil {
			var entries []repository.LeaderboardEntry
			if json.Unmarshal([]byte(cached), &entries) == nil {
				return entries, nil
			}
		}
	}

	entries, err := s.crRepo.Leaderboard(ctx, limit)
	if err != nil {
		return nil, err
	}

	if s.redis != nil && limit == 0 {
		if entriesJSON, err := json.Marshal(entries); err == nil {
			_ = s.redis.Set(ctx, leaderboardCacheKey, entriesJSON, cacheTTL).Err()
		}
	}

	return entries, nil
}
