package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/ArslanKamchybekov/wildhacks-sub000/internal/model"
)

type AddTickRequest struct {
	UserID  string `json:"user_id"`
	Content string `json:"content"`
}

func (s *Service) AddTick(req AddTickRequest) (model.Tick, error) {
	if _, err := s.GetUser(req.UserID); err != nil {
		return model.Tick{}, err
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return model.Tick{}, ErrTickContentEmpty
	}
	tick := model.Tick{
		ID:        "tick_" + uuid.NewString(),
		UserID:    req.UserID,
		Content:   content,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.AddTick(tick); err != nil {
		return model.Tick{}, fmt.Errorf("save tick: %w", err)
	}
	return tick, nil
}

func (s *Service) ListTicks(userID string, limit int) ([]model.Tick, error) {
	if _, err := s.GetUser(userID); err != nil {
		return nil, err
	}
	ticks, err := s.store.ListTicksByUser(userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list ticks: %w", err)
	}
	return ticks, nil
}

func (s *Service) RoastHistory(groupID string) ([]model.Roast, error) {
	if _, err := s.GetGroup(groupID); err != nil {
		return nil, err
	}
	roasts, err := s.store.ListRoastsByGroup(groupID)
	if err != nil {
		return nil, fmt.Errorf("list roasts: %w", err)
	}
	return roasts, nil
}

// RoastStats folds a group's roast history into per-target counts,
// most-roasted first.
func (s *Service) RoastStats(groupID string) ([]model.RoastStat, error) {
	roasts, err := s.RoastHistory(groupID)
	if err != nil {
		return nil, err
	}
	byTarget := make(map[string]*model.RoastStat)
	for _, r := range roasts {
		stat, ok := byTarget[r.TargetUserID]
		if !ok {
			stat = &model.RoastStat{TargetUserID: r.TargetUserID}
			byTarget[r.TargetUserID] = stat
		}
		stat.Count++
		if r.CreatedAt.After(stat.LastRoastAt) {
			stat.LastRoastAt = r.CreatedAt
		}
	}
	stats := make([]model.RoastStat, 0, len(byTarget))
	for _, stat := range byTarget {
		stats = append(stats, *stat)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].TargetUserID < stats[j].TargetUserID
	})
	return stats, nil
}
