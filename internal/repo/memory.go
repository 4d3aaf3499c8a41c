package repo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"theend-page-api/internal/domain"
)

// 内存实现：测试和本地开发用，错误语义与 gorm 实现保持一致

type MemoryUserRepo struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{users: make(map[string]*domain.User)}
}

func (r *MemoryUserRepo) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.users {
		// 唯一索引不区分软删记录
		if e.Email == u.Email {
			return domain.ErrEmailTaken
		}
	}
	now := time.Now()
	u.CreatedAt, u.UpdatedAt = now, now
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *MemoryUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok || u.DeletedAt.Valid {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *MemoryUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email && !u.DeletedAt.Valid {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *MemoryUserRepo) List(_ context.Context, f domain.UserFilter) ([]domain.User, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var all []domain.User
	for _, u := range r.users {
		if u.DeletedAt.Valid && !f.WithDeleted {
			continue
		}
		if s := strings.TrimSpace(f.Q); s != "" {
			if !strings.Contains(u.Email, s) && !strings.Contains(u.Name, s) {
				continue
			}
		}
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := int64(len(all))
	all = window(all, f.Offset, f.Limit)
	return all, total, nil
}

func (r *MemoryUserRepo) SoftDelete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.DeletedAt.Valid {
		return domain.ErrNotFound
	}
	u.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	return nil
}

type MemoryPageRepo struct {
	mu    sync.RWMutex
	pages map[string]*domain.Page
	seq   int64 // CreatedAt 单调递增，排序稳定
}

func NewMemoryPageRepo() *MemoryPageRepo {
	return &MemoryPageRepo{pages: make(map[string]*domain.Page)}
}

func (r *MemoryPageRepo) Create(_ context.Context, p *domain.Page) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.pages {
		if e.Slug == p.Slug {
			return domain.ErrSlugTaken
		}
	}
	r.seq++
	now := time.Now().Add(time.Duration(r.seq) * time.Microsecond)
	p.CreatedAt, p.UpdatedAt = now, now
	cp := clonePage(p)
	r.pages[p.ID] = cp
	return nil
}

func (r *MemoryPageRepo) FindOwned(_ context.Context, ownerID, id string) (*domain.Page, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.pages[id]
	if !ok || p.DeletedAt.Valid || p.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}
	return clonePage(p), nil
}

func (r *MemoryPageRepo) FindBySlug(_ context.Context, slug string) (*domain.Page, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p := r.bySlug(slug); p != nil {
		return clonePage(p), nil
	}
	return nil, domain.ErrNotFound
}

func (r *MemoryPageRepo) ListByOwner(_ context.Context, ownerID string) ([]domain.Page, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Page
	for _, p := range r.pages {
		if p.OwnerID == ownerID && !p.DeletedAt.Valid {
			out = append(out, *clonePage(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryPageRepo) ListAll(_ context.Context, offset, limit int) ([]domain.Page, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Page
	for _, p := range r.pages {
		if !p.DeletedAt.Valid {
			out = append(out, *clonePage(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	total := int64(len(out))
	return window(out, offset, limit), total, nil
}

func (r *MemoryPageRepo) ListTopVoted(_ context.Context, limit int) ([]domain.Page, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Page
	for _, p := range r.pages {
		if p.Published && !p.DeletedAt.Valid {
			out = append(out, *clonePage(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].VoteCount != out[j].VoteCount {
			return out[i].VoteCount > out[j].VoteCount
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryPageRepo) SlugExists(_ context.Context, slug, excludeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p := r.bySlug(slug)
	return p != nil && p.ID != excludeID, nil
}

func (r *MemoryPageRepo) TitleExists(_ context.Context, ownerID, title string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.pages {
		if p.OwnerID == ownerID && p.Title == title && !p.DeletedAt.Valid {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryPageRepo) Update(_ context.Context, p *domain.Page) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.pages[p.ID]
	if !ok || cur.DeletedAt.Valid {
		return domain.ErrNotFound
	}
	for _, e := range r.pages {
		if e.ID != p.ID && e.Slug == p.Slug {
			return domain.ErrSlugTaken
		}
	}
	p.CreatedAt = cur.CreatedAt
	p.UpdatedAt = time.Now()
	// 计数以存储侧为准，更新不回写并发期间的增量
	p.ViewCount = cur.ViewCount
	p.VoteCount = cur.VoteCount
	r.pages[p.ID] = clonePage(p)
	return nil
}

func (r *MemoryPageRepo) DeleteOwned(_ context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pages[id]
	if !ok || p.DeletedAt.Valid || p.OwnerID != ownerID {
		return domain.ErrNotFound
	}
	p.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	return nil
}

func (r *MemoryPageRepo) DeleteAny(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pages[id]
	if !ok || p.DeletedAt.Valid {
		return domain.ErrNotFound
	}
	p.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	return nil
}

func (r *MemoryPageRepo) IncrementViews(_ context.Context, slug string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.bySlug(slug)
	if p == nil {
		return domain.ErrNotFound
	}
	p.ViewCount++
	return nil
}

func (r *MemoryPageRepo) IncrementVotes(_ context.Context, slug string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.bySlug(slug)
	if p == nil {
		return domain.ErrNotFound
	}
	p.VoteCount++
	return nil
}

func (r *MemoryPageRepo) bySlug(slug string) *domain.Page {
	for _, p := range r.pages {
		if p.Slug == slug && !p.DeletedAt.Valid {
			return p
		}
	}
	return nil
}

func clonePage(p *domain.Page) *domain.Page {
	cp := *p
	cp.Pictures = append([]string(nil), p.Pictures...)
	return &cp
}

func window[T any](s []T, offset, limit int) []T {
	if offset >= len(s) {
		return nil
	}
	s = s[offset:]
	if limit > 0 && len(s) > limit {
		s = s[:limit]
	}
	return s
}
