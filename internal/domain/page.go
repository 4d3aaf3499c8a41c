package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Page 告别页：owner 在创建时固定，之后不可转移
type Page struct {
	ID            string   `gorm:"primaryKey;size:36" json:"id"`
	OwnerID       string   `gorm:"index;size:36;not null" json:"ownerId"`
	Title         string   `gorm:"size:191;not null" json:"title"`
	Slug          string   `gorm:"uniqueIndex;size:191;not null" json:"slug"`
	Tone          string   `gorm:"size:32" json:"tone"`
	Message       string   `gorm:"type:text" json:"message"`
	SecondMessage string   `gorm:"type:text" json:"secondMessage"`
	Pictures      []string `gorm:"serializer:json;type:text" json:"pictures"`
	Music         string   `gorm:"size:255" json:"music"`
	Video         string   `gorm:"size:255" json:"video"`

	ViewCount int64 `gorm:"not null;default:0" json:"viewCount"`
	VoteCount int64 `gorm:"not null;default:0" json:"voteCount"`
	Published bool  `gorm:"not null;default:false" json:"published"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Page) TableName() string { return "pages" }

type PageRepository interface {
	Create(ctx context.Context, p *Page) error
	// FindOwned 按 owner+id 过滤；查不到或不是你的都返回 ErrNotFound
	FindOwned(ctx context.Context, ownerID, id string) (*Page, error)
	FindBySlug(ctx context.Context, slug string) (*Page, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Page, error)
	ListAll(ctx context.Context, offset, limit int) ([]Page, int64, error)
	ListTopVoted(ctx context.Context, limit int) ([]Page, error)
	// SlugExists 报告 slug 是否被 excludeID 之外的页面占用（改标题时排除自身）
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	TitleExists(ctx context.Context, ownerID, title string) (bool, error)
	Update(ctx context.Context, p *Page) error
	DeleteOwned(ctx context.Context, ownerID, id string) error
	DeleteAny(ctx context.Context, id string) error
	// 计数必须单条 UPDATE 原子自增，并发读不丢增量
	IncrementViews(ctx context.Context, slug string) error
	IncrementVotes(ctx context.Context, slug string) error
}
