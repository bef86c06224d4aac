package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/1arunjyoti/resume-builder/internal/database"
)

// Repository 是设置持久化契约，由 database.Repo 实现。
type Repository interface {
	GetSetting(ctx context.Context, name string) ([]byte, error)
	PutSetting(ctx context.Context, name string, value []byte) error
}

// Service 持有助手设置的易失副本并负责持久化。
// SessionOnly 开启时，持久化前会剥离全部 API Key —— 重启后 Key 为空是预期行为。
type Service struct {
	repo Repository

	mu      sync.Mutex
	current AssistSettings
}

// NewService 从持久层加载设置；不存在时用默认值（不算错误）。
func NewService(ctx context.Context, repo Repository) (*Service, error) {
	s := &Service{repo: repo, current: Defaults()}

	data, err := repo.GetSetting(ctx, AssistSettingName)
	if err != nil {
		if errors.Is(err, database.ErrSettingNotFound) {
			return s, nil
		}
		return nil, fmt.Errorf("load assist settings: %w", err)
	}

	var loaded AssistSettings
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("decode assist settings: %w", err)
	}
	if loaded.APIKeys == nil {
		loaded.APIKeys = map[string]string{}
	}
	if loaded.Tone == "" {
		loaded.Tone = ToneNeutral
	}
	s.current = loaded
	return s, nil
}

// Get 返回设置副本。
func (s *Service) Get() AssistSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// Update 覆盖易失副本并持久化。
// 写盘的是剥离后的拷贝；内存中的 Key 原样保留，当前会话仍然可用。
func (s *Service) Update(ctx context.Context, next AssistSettings) error {
	if next.APIKeys == nil {
		next.APIKeys = map[string]string{}
	}
	if next.Tone == "" {
		next.Tone = ToneNeutral
	}

	persisted := next.Clone()
	if persisted.SessionOnly {
		persisted.APIKeys = map[string]string{}
	}

	data, err := json.Marshal(persisted)
	if err != nil {
		return fmt.Errorf("encode assist settings: %w", err)
	}
	if err := s.repo.PutSetting(ctx, AssistSettingName, data); err != nil {
		return fmt.Errorf("persist assist settings: %w", err)
	}

	s.mu.Lock()
	s.current = next.Clone()
	s.mu.Unlock()
	return nil
}

// APIKey 返回指定 provider 的 Key（可能为空串）。
func (s *Service) APIKey(providerID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.APIKeys[providerID]
}
