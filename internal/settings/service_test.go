package settings

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/1arunjyoti/resume-builder/internal/database"
)

// memRepo 是内存版设置仓库，模拟进程重启时只剩持久化副本的情形。
type memRepo struct {
	values map[string][]byte
}

func newMemRepo() *memRepo {
	return &memRepo{values: map[string][]byte{}}
}

func (r *memRepo) GetSetting(_ context.Context, name string) ([]byte, error) {
	data, ok := r.values[name]
	if !ok {
		return nil, database.ErrSettingNotFound
	}
	return data, nil
}

func (r *memRepo) PutSetting(_ context.Context, name string, value []byte) error {
	r.values[name] = append([]byte(nil), value...)
	return nil
}

func TestNewService_DefaultsWhenUnset(t *testing.T) {
	svc, err := NewService(context.Background(), newMemRepo())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	cfg := svc.Get()
	if !cfg.SessionOnly {
		t.Fatal("sessionOnly should default to true")
	}
	if cfg.Tone != ToneNeutral {
		t.Fatalf("tone = %q", cfg.Tone)
	}
	if cfg.APIKeys == nil {
		t.Fatal("api keys map is nil")
	}
}

func TestUpdate_SessionOnlyStripsKeysFromDisk(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()

	svc, err := NewService(ctx, repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	next := svc.Get()
	next.ProviderID = "openai"
	next.APIKeys["openai"] = "sk-secret"
	if err := svc.Update(ctx, next); err != nil {
		t.Fatalf("update: %v", err)
	}

	// 当前会话内 Key 仍然可用。
	if svc.APIKey("openai") != "sk-secret" {
		t.Fatal("volatile key lost within the session")
	}

	// 持久化副本里不得出现 Key。
	var persisted AssistSettings
	if err := json.Unmarshal(repo.values[AssistSettingName], &persisted); err != nil {
		t.Fatalf("decode persisted: %v", err)
	}
	if len(persisted.APIKeys) != 0 {
		t.Fatalf("api keys leaked to disk: %v", persisted.APIKeys)
	}

	// 模拟重启：重新加载后 Key 为空，其余设置保留。
	restarted, err := NewService(ctx, repo)
	if err != nil {
		t.Fatalf("restart: %v", err)
	}
	cfg := restarted.Get()
	if cfg.ProviderID != "openai" {
		t.Fatalf("provider lost across restart: %q", cfg.ProviderID)
	}
	if restarted.APIKey("openai") != "" {
		t.Fatal("session-only key survived a restart")
	}
}

func TestUpdate_PersistentKeysSurviveRestart(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()

	svc, err := NewService(ctx, repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	next := svc.Get()
	next.SessionOnly = false
	next.APIKeys["gemini"] = "g-key"
	if err := svc.Update(ctx, next); err != nil {
		t.Fatalf("update: %v", err)
	}

	restarted, err := NewService(ctx, repo)
	if err != nil {
		t.Fatalf("restart: %v", err)
	}
	if restarted.APIKey("gemini") != "g-key" {
		t.Fatal("persistent key lost across restart")
	}
}

func TestUpdate_GetReturnsIndependentCopy(t *testing.T) {
	ctx := context.Background()
	svc, err := NewService(ctx, newMemRepo())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	cfg := svc.Get()
	cfg.APIKeys["openai"] = "tampered"

	if svc.APIKey("openai") != "" {
		t.Fatal("mutating a returned copy leaked into the service")
	}
}
