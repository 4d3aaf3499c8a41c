package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"theend-page-api/internal/domain"
)

type PageRepo struct{ db *gorm.DB }

func NewPageRepo(db *gorm.DB) *PageRepo { return &PageRepo{db: db} }

func (r *PageRepo) Create(ctx context.Context, p *domain.Page) error {
	err := r.db.WithContext(ctx).Create(p).Error
	if isDupKey(err) {
		// slug 唯一索引兜住并发派生竞争
		return domain.ErrSlugTaken
	}
	return err
}

func (r *PageRepo) FindOwned(ctx context.Context, ownerID, id string) (*domain.Page, error) {
	var p domain.Page
	err := r.db.WithContext(ctx).First(&p, "id = ? AND owner_id = ?", id, ownerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PageRepo) FindBySlug(ctx context.Context, slug string) (*domain.Page, error) {
	var p domain.Page
	err := r.db.WithContext(ctx).First(&p, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PageRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Page, error) {
	var pages []domain.Page
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&pages).Error
	return pages, err
}

func (r *PageRepo) ListAll(ctx context.Context, offset, limit int) ([]domain.Page, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Page{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var pages []domain.Page
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&pages).Error; err != nil {
		return nil, 0, err
	}
	return pages, total, nil
}

func (r *PageRepo) ListTopVoted(ctx context.Context, limit int) ([]domain.Page, error) {
	var pages []domain.Page
	err := r.db.WithContext(ctx).
		Where("published = ?", true).
		Order("vote_count DESC, created_at ASC").
		Limit(limit).
		Find(&pages).Error
	return pages, err
}

func (r *PageRepo) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Page{}).
		Where("slug = ? AND id <> ?", slug, excludeID).Count(&n).Error
	return n > 0, err
}

func (r *PageRepo) TitleExists(ctx context.Context, ownerID, title string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Page{}).
		Where("owner_id = ? AND title = ?", ownerID, title).Count(&n).Error
	return n > 0, err
}

// Update 不回写计数列：view_count/vote_count 只走原子自增，整行覆盖会吞并发增量
func (r *PageRepo) Update(ctx context.Context, p *domain.Page) error {
	err := r.db.WithContext(ctx).Model(p).
		Select("*").
		Omit("id", "created_at", "deleted_at", "view_count", "vote_count").
		Updates(p).Error
	if isDupKey(err) {
		return domain.ErrSlugTaken
	}
	return err
}

func (r *PageRepo) DeleteOwned(ctx context.Context, ownerID, id string) error {
	res := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).Delete(&domain.Page{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PageRepo) DeleteAny(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Page{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// IncrementViews 单条 UPDATE 原子自增，避免读-改-写丢更新
func (r *PageRepo) IncrementViews(ctx context.Context, slug string) error {
	return r.increment(ctx, slug, "view_count")
}

func (r *PageRepo) IncrementVotes(ctx context.Context, slug string) error {
	return r.increment(ctx, slug, "vote_count")
}

func (r *PageRepo) increment(ctx context.Context, slug, column string) error {
	res := r.db.WithContext(ctx).Model(&domain.Page{}).
		Where("slug = ?", slug).
		UpdateColumn(column, gorm.Expr(column+" + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
