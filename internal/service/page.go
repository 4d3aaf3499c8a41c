package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"theend-page-api/internal/core/cache"
	"theend-page-api/internal/domain"
	"theend-page-api/pkg/utils"
)

const (
	hofKey    = "pages:hof"
	hofMax    = 50
	hofTTL    = 30 * time.Second
	maxProbes = 100 // slug 后缀探测上限，超过退化为随机后缀
)

type PageService struct {
	pages domain.PageRepository
	cache *cache.Cache // 可为 nil（未配置 redis 时直查 DB）
}

func NewPageService(pages domain.PageRepository, c *cache.Cache) *PageService {
	return &PageService{pages: pages, cache: c}
}

type CreatePageInput struct {
	Title         string
	Tone          string
	Message       string
	SecondMessage string
	Pictures      []string
	Music         string
	Video         string
	Published     bool
}

func (s *PageService) Create(ctx context.Context, ownerID string, in CreatePageInput) (*domain.Page, error) {
	title := strings.TrimSpace(in.Title)
	if ownerID == "" || title == "" || strings.TrimSpace(in.Message) == "" {
		return nil, domain.ErrValidation
	}

	// 同一作者同名页面直接拒绝；不同作者撞标题走 -1/-2 后缀
	taken, err := s.pages.TitleExists(ctx, ownerID, title)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrTitleTaken
	}

	slug, err := s.freeSlug(ctx, utils.Slugify(title), "")
	if err != nil {
		return nil, err
	}

	p := &domain.Page{
		ID:            utils.NewID(),
		OwnerID:       ownerID,
		Title:         title,
		Slug:          slug,
		Tone:          in.Tone,
		Message:       in.Message,
		SecondMessage: in.SecondMessage,
		Pictures:      in.Pictures,
		Music:         in.Music,
		Video:         in.Video,
		Published:     in.Published,
	}
	if err := s.pages.Create(ctx, p); err != nil {
		return nil, err
	}
	if in.Published {
		s.invalidateHof(ctx)
	}
	return p, nil
}

func (s *PageService) ListOwned(ctx context.Context, ownerID string) ([]domain.Page, error) {
	return s.pages.ListByOwner(ctx, ownerID)
}

func (s *PageService) GetOwned(ctx context.Context, ownerID, id string) (*domain.Page, error) {
	return s.pages.FindOwned(ctx, ownerID, id)
}

type UpdatePageInput struct {
	Title         *string
	Tone          *string
	Message       *string
	SecondMessage *string
	Pictures      []string // nil = 不变
	Music         *string
	Video         *string
	Published     *bool
}

// Update 部分更新；改标题会按创建时的同一策略重新派生 slug
func (s *PageService) Update(ctx context.Context, ownerID, id string, in UpdatePageInput) (*domain.Page, error) {
	p, err := s.pages.FindOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, domain.ErrValidation
		}
		if title != p.Title {
			taken, err := s.pages.TitleExists(ctx, ownerID, title)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, domain.ErrTitleTaken
			}
			// 排除自身：新标题派生回当前 slug 时不追加后缀
			slug, err := s.freeSlug(ctx, utils.Slugify(title), p.ID)
			if err != nil {
				return nil, err
			}
			p.Title = title
			p.Slug = slug
		}
	}
	if in.Tone != nil {
		p.Tone = *in.Tone
	}
	if in.Message != nil {
		if strings.TrimSpace(*in.Message) == "" {
			return nil, domain.ErrValidation
		}
		p.Message = *in.Message
	}
	if in.SecondMessage != nil {
		p.SecondMessage = *in.SecondMessage
	}
	if in.Pictures != nil {
		p.Pictures = in.Pictures
	}
	if in.Music != nil {
		p.Music = *in.Music
	}
	if in.Video != nil {
		p.Video = *in.Video
	}
	if in.Published != nil {
		p.Published = *in.Published
	}

	if err := s.pages.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidateHof(ctx)
	return p, nil
}

func (s *PageService) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.pages.DeleteOwned(ctx, ownerID, id); err != nil {
		return err
	}
	s.invalidateHof(ctx)
	return nil
}

// GetPublic 公开读：先原子 +1 浏览数再取页面，不存在返回 ErrNotFound
func (s *PageService) GetPublic(ctx context.Context, slug string) (*domain.Page, error) {
	if err := s.pages.IncrementViews(ctx, slug); err != nil {
		return nil, err
	}
	return s.pages.FindBySlug(ctx, slug)
}

func (s *PageService) Vote(ctx context.Context, slug string) (int64, error) {
	if err := s.pages.IncrementVotes(ctx, slug); err != nil {
		return 0, err
	}
	p, err := s.pages.FindBySlug(ctx, slug)
	if err != nil {
		return 0, err
	}
	return p.VoteCount, nil
}

// HallOfFame 名人堂：已发布页面按票数排序，缓存 30s 抗热点
func (s *PageService) HallOfFame(ctx context.Context, limit int) ([]domain.Page, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > hofMax {
		limit = hofMax
	}
	if s.cache == nil {
		return s.pages.ListTopVoted(ctx, limit)
	}
	top, err := cache.GetOrLoadJSON[[]domain.Page](s.cache, ctx, hofKey, hofTTL, func(ctx context.Context) (*[]domain.Page, error) {
		ps, e := s.pages.ListTopVoted(ctx, hofMax)
		if e != nil {
			return nil, e
		}
		return &ps, nil
	})
	if err != nil {
		return nil, err
	}
	if top == nil {
		return nil, nil
	}
	list := *top
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (s *PageService) AdminList(ctx context.Context, offset, limit int) ([]domain.Page, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.pages.ListAll(ctx, offset, limit)
}

func (s *PageService) AdminRemove(ctx context.Context, id string) error {
	if err := s.pages.DeleteAny(ctx, id); err != nil {
		return err
	}
	s.invalidateHof(ctx)
	return nil
}

func (s *PageService) invalidateHof(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, hofKey)
	}
}

func (s *PageService) freeSlug(ctx context.Context, base, excludeID string) (string, error) {
	if base == "" {
		base = "page"
	}
	slug := base
	for i := 1; i <= maxProbes; i++ {
		exists, err := s.pages.SlugExists(ctx, slug, excludeID)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
	return fmt.Sprintf("%s-%s", base, utils.NewID()[:8]), nil
}
