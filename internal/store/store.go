package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/1arunjyoti/resume-builder/internal/database"
	"github.com/1arunjyoti/resume-builder/internal/resume"
	"github.com/1arunjyoti/resume-builder/internal/template"
)

// DefaultTitle 是未命名新简历的展示名。
const DefaultTitle = "Untitled resume"

// Repository 是 Store 依赖的持久化契约，由 database.Repo 实现。
type Repository interface {
	GetResume(ctx context.Context, id string) (resume.Resume, error)
	PutResume(ctx context.Context, doc resume.Resume) error
	DeleteResume(ctx context.Context, id string) error
	ListResumes(ctx context.Context) ([]resume.Resume, error)
}

// Snapshots 是可选的二级快照层（Redis），用于会话间快速恢复当前简历。
type Snapshots interface {
	Put(ctx context.Context, doc resume.Resume) error
	Get(ctx context.Context) (resume.Resume, error)
	Drop(ctx context.Context) error
}

// Store 持有唯一的「当前简历」内存工作副本，并负责对持久层的 CRUD 编排。
//
// 内存副本只能通过 Store 自身的方法修改；落库需要显式 SaveResume。
// 多进程/多标签页写同一数据库时采用 last-write-wins，不做冲突合并。
// 任何失败都会转成错误状态字符串并清掉 loading 标记，不会向上层泄漏 panic。
type Store struct {
	repo      Repository
	snapshots Snapshots
	logger    *slog.Logger
	now       func() time.Time

	mu      sync.Mutex
	current *resume.Resume
	lastErr string
	loading bool
}

// Option 配置 Store 的可选依赖。
type Option func(*Store)

func WithSnapshots(s Snapshots) Option {
	return func(st *Store) { st.snapshots = s }
}

func WithLogger(l *slog.Logger) Option {
	return func(st *Store) { st.logger = l }
}

// WithClock 注入时间源，测试用。
func WithClock(now func() time.Time) Option {
	return func(st *Store) { st.now = now }
}

func New(repo Repository, opts ...Option) *Store {
	s := &Store{
		repo:   repo,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Current 返回当前简历的副本。第二个返回值为 false 表示编辑器为空。
func (s *Store) Current() (resume.Resume, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return resume.Resume{}, false
	}
	return *s.current, true
}

// Err 返回最近一次失败的消息；空串表示无错误。
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Loading 报告是否有操作正在等待持久层。
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// ClearError 供上层在用户重试前清除错误状态。
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = ""
}

// CreateNewResume 生成一份空白简历并立即持久化、设为当前。
// templateID 为空或不在闭集内时回落到默认模板（不报错）。
// 持久化失败时记录错误状态并把错误返回给调用方。
func (s *Store) CreateNewResume(ctx context.Context, title, templateID string) (resume.Resume, error) {
	s.beginOp()
	defer s.endOp()

	if strings.TrimSpace(title) == "" {
		title = DefaultTitle
	}
	if templateID == "" || !template.IsKnown(templateID) {
		templateID = template.DefaultTemplateID
	}

	doc := resume.Empty(resume.NewID(), title, templateID)
	doc.Meta.LayoutSettings = template.ResolveDefaults(templateID)
	doc.Meta.ThemeColor = template.ResolveThemeColor(templateID)
	doc.Meta.LastModified = s.now()

	if err := s.repo.PutResume(ctx, doc); err != nil {
		s.fail("create resume", err)
		return resume.Resume{}, err
	}

	s.adopt(ctx, doc)
	return doc, nil
}

// LoadResume 把指定简历设为当前。当前简历已是该 id 时为 no-op（避免重复读库）。
// 找不到或读库失败只记录错误状态，不向调用方抛出 —— 返回值仅供上层决定响应码。
func (s *Store) LoadResume(ctx context.Context, id string) error {
	s.mu.Lock()
	if s.current != nil && s.current.ID == id {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	s.beginOp()
	defer s.endOp()

	doc, err := s.repo.GetResume(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrResumeNotFound) {
			s.setErr("resume not found")
		} else {
			s.fail("load resume", err)
		}
		return err
	}

	s.adopt(ctx, doc)
	return nil
}

// SaveResume 刷新 lastModified 后写穿到持久层，成功后以盖过时间戳的副本为当前。
// 对调用方而言写库与状态更新是原子的：失败时除错误字段外当前状态不变。
func (s *Store) SaveResume(ctx context.Context, doc resume.Resume) error {
	s.beginOp()
	defer s.endOp()

	doc.Meta.LastModified = s.stamp(doc.Meta.LastModified)

	if err := s.repo.PutResume(ctx, doc); err != nil {
		s.fail("save resume", err)
		return err
	}

	s.adopt(ctx, doc)
	return nil
}

// UpdateCurrentResume 把部分更新合并进内存中的当前简历并刷新 lastModified。
// 只改工作副本，不落库；没有当前简历时为 no-op。
// 合并深度见 resume.ResumePatch：顶层浅合并，meta 合并一层。
func (s *Store) UpdateCurrentResume(patch resume.ResumePatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil || patch.IsZero() {
		return
	}

	patch.Apply(s.current)
	s.current.Meta.LastModified = s.stampLocked(s.current.Meta.LastModified)
}

// DeleteResume 从持久层删除；若删除的是当前简历则清空编辑器。
func (s *Store) DeleteResume(ctx context.Context, id string) error {
	s.beginOp()
	defer s.endOp()

	if err := s.repo.DeleteResume(ctx, id); err != nil {
		s.fail("delete resume", err)
		return err
	}

	s.mu.Lock()
	cleared := s.current != nil && s.current.ID == id
	if cleared {
		s.current = nil
	}
	s.mu.Unlock()

	if cleared && s.snapshots != nil {
		if err := s.snapshots.Drop(ctx); err != nil {
			s.logger.Warn("drop store snapshot failed", slog.Any("error", err))
		}
	}
	return nil
}

// GetAllResumes 返回全部简历，按 lastModified 降序。
// 失败时返回空序列并记录错误状态，从不抛出。
func (s *Store) GetAllResumes(ctx context.Context) []resume.Resume {
	s.beginOp()
	defer s.endOp()

	docs, err := s.repo.ListResumes(ctx)
	if err != nil {
		s.fail("list resumes", err)
		return []resume.Resume{}
	}
	return docs
}

// ResetResume 用当前简历自己的 templateID 重新解析布局默认值与主题色，
// 原地替换 meta.layoutSettings / meta.themeColor，内容字段一律不动。
// 这是「恢复模板默认」而不是清空数据。
func (s *Store) ResetResume() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return
	}

	templateID := s.current.Meta.TemplateID
	s.current.Meta.LayoutSettings = template.ResolveDefaults(templateID)
	s.current.Meta.ThemeColor = template.ResolveThemeColor(templateID)
	s.current.Meta.LastModified = s.stampLocked(s.current.Meta.LastModified)
}

// Bootstrap 在进程启动时恢复编辑状态：优先 Redis 快照，其次最近修改的简历。
// 两者都没有时保持空编辑器，不算错误。
func (s *Store) Bootstrap(ctx context.Context) {
	if s.snapshots != nil {
		if doc, err := s.snapshots.Get(ctx); err == nil {
			// 快照可能落后于数据库（另一进程写过），以数据库版本为准。
			if fresh, repoErr := s.repo.GetResume(ctx, doc.ID); repoErr == nil {
				doc = fresh
			}
			s.mu.Lock()
			s.current = &doc
			s.mu.Unlock()
			return
		}
	}

	docs, err := s.repo.ListResumes(ctx)
	if err != nil {
		s.fail("bootstrap store", err)
		return
	}
	if len(docs) == 0 {
		return
	}
	s.adopt(ctx, docs[0])
}

// adopt 把 doc 设为当前并尽力刷新快照（快照失败只告警）。
func (s *Store) adopt(ctx context.Context, doc resume.Resume) {
	s.mu.Lock()
	copied := doc
	s.current = &copied
	s.lastErr = ""
	s.mu.Unlock()

	if s.snapshots != nil {
		if err := s.snapshots.Put(ctx, doc); err != nil {
			s.logger.Warn("write store snapshot failed", slog.Any("error", err))
		}
	}
}

// stamp 返回严格晚于 prev 的当前时间，保证 lastModified 单调递增。
func (s *Store) stamp(prev time.Time) time.Time {
	now := s.now()
	if !now.After(prev) {
		return prev.Add(time.Millisecond)
	}
	return now
}

func (s *Store) stampLocked(prev time.Time) time.Time {
	return s.stamp(prev)
}

func (s *Store) beginOp() {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()
}

func (s *Store) endOp() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

func (s *Store) setErr(msg string) {
	s.mu.Lock()
	s.lastErr = msg
	s.mu.Unlock()
}

func (s *Store) fail(op string, err error) {
	msg := fmt.Sprintf("%s: %v", op, err)
	s.setErr(msg)
	s.logger.Error(op+" failed", slog.Any("error", err))
}
